// Package cmd implements the command-line interface for rutube.
package cmd

import (
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/rutube-cli/rutube/color"
	"github.com/rutube-cli/rutube/history"
	"github.com/rutube-cli/rutube/style"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists the completed downloads recorded in the local history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display the recorded download history",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		if len(saved) == 0 {
			cmd.Println(style.Faint("History is empty"))
			return
		}

		records := lo.Values(saved)
		sort.Slice(records, func(i, j int) bool {
			return records[i].DownloadedAt.After(records[j].DownloadedAt)
		})

		for _, record := range records {
			cmd.Println(record.String())
			cmd.Println(style.Fg(color.Gray)(record.Path))
		}
	},
}
