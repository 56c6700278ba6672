// Package cmd implements the command-line interface for rutube.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rutube-cli/rutube/color"
	"github.com/rutube-cli/rutube/constant"
	"github.com/rutube-cli/rutube/icon"
	"github.com/rutube-cli/rutube/key"
	"github.com/rutube-cli/rutube/log"
	"github.com/rutube-cli/rutube/style"
	"github.com/rutube-cli/rutube/util"
	"github.com/rutube-cli/rutube/version"
	"github.com/rutube-cli/rutube/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.Flags().StringP("path", "p", "", "Directory to save the video to")
	rootCmd.Flags().IntP("workers", "w", 0, "Number of concurrent segment fetchers, 0 downloads sequentially")
	rootCmd.Flags().IntP("resolution", "r", 0, "Pick the rendition with the given vertical resolution")
	rootCmd.Flags().BoolP("best", "b", false, "Pick the highest available resolution")
	rootCmd.Flags().Bool("worst", false, "Pick the lowest available resolution")
	rootCmd.MarkFlagsMutuallyExclusive("resolution", "best", "worst")

	rootCmd.Flags().BoolP("open", "o", false, "Open the saved file with the default video player")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Record completed downloads in the local history")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnDownload, rootCmd.PersistentFlags().Lookup("write-history")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Initialize cleanup of localized temporary files on application startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the rutube application.
var rootCmd = &cobra.Command{
	Use:   constant.Rutube + " [url]",
	Short: "A minimalist command-line downloader for Rutube videos",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A minimalist command-line downloader for Rutube videos"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		handleErr(runDownload(cmd, args[0]))
		version.Notify()
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
