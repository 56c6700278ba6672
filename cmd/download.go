// Package cmd implements the command-line interface for rutube.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rutube-cli/rutube/color"
	"github.com/rutube-cli/rutube/downloader"
	"github.com/rutube-cli/rutube/filesystem"
	"github.com/rutube-cli/rutube/history"
	"github.com/rutube-cli/rutube/icon"
	"github.com/rutube-cli/rutube/key"
	"github.com/rutube-cli/rutube/log"
	"github.com/rutube-cli/rutube/open"
	"github.com/rutube-cli/rutube/rutube"
	"github.com/rutube-cli/rutube/source"
	"github.com/rutube-cli/rutube/style"
	"github.com/rutube-cli/rutube/util"
	"github.com/rutube-cli/rutube/where"
)

// runDownload drives the whole flow of the bare `rutube <url>` invocation:
// resolve the page, pick a rendition, stream it into the target file.
func runDownload(cmd *cobra.Command, pageURL string) error {
	erase := util.PrintErasable(fmt.Sprintf("%s Resolving %s...", icon.Get(icon.Progress), pageURL))
	video, err := rutube.NewClient().Resolve(cmd.Context(), pageURL)
	erase()
	if err != nil {
		return err
	}

	media, err := selectMedia(cmd, video)
	if err != nil {
		return err
	}

	dir := lo.Must(cmd.Flags().GetString("path"))
	if dir == "" {
		dir = viper.GetString(key.DownloadPath)
	}
	if dir == "" {
		dir = where.Downloads()
	}
	if err := filesystem.API().MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	target := filepath.Join(dir, media.Filename())
	file, err := filesystem.API().Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer util.Ignore(file.Close)

	workers := lo.Must(cmd.Flags().GetInt("workers"))
	if !cmd.Flags().Changed("workers") {
		workers = viper.GetInt(key.DownloadWorkers)
	}

	if err := download(cmd, media, file, workers); err != nil {
		return err
	}

	if viper.GetBool(key.HistorySaveOnDownload) {
		if err := history.Save(media, target); err != nil {
			log.Warnf("save history: %s", err)
		}
	}

	fmt.Printf("%s Saved %s\n", icon.Get(icon.Success), style.Fg(color.Green)(target))

	if lo.Must(cmd.Flags().GetBool("open")) {
		if err := open.Start(target); err != nil {
			log.Warnf("open %s: %s", target, err)
		}
	}
	return nil
}

// download dispatches on the concrete media flavor: segmented renditions go
// through the ordered pipeline, yappy videos are fetched in one request.
func download(cmd *cobra.Command, media source.Media, file afero.File, workers int) error {
	pipeline := downloader.NewPipeline()

	switch m := media.(type) {
	case *source.Rendition:
		segments, err := pipeline.Sequencer.Segments(cmd.Context(), m)
		if err != nil {
			return err
		}

		bar := newProgress(len(segments), m.String())
		defer util.Ignore(bar.Close)

		return pipeline.Download(cmd.Context(), m, file, workers, func() {
			_ = bar.Add(1)
		})
	case *source.YappyVideo:
		bar := newProgress(2, m.String())
		defer util.Ignore(bar.Close)

		return pipeline.DownloadDirect(cmd.Context(), m, file, func() {
			_ = bar.Add(1)
		})
	default:
		return fmt.Errorf("unsupported media %q", media)
	}
}

// selectMedia applies the selection flags, falling back to an interactive
// prompt when nothing pins the choice and more than one variant exists.
func selectMedia(cmd *cobra.Command, video *rutube.Video) (source.Media, error) {
	media := video.Media()
	if len(media) == 0 {
		return nil, fmt.Errorf("no downloadable renditions for %s", video.Title)
	}

	switch {
	case lo.Must(cmd.Flags().GetBool("best")):
		return video.Best(), nil
	case lo.Must(cmd.Flags().GetBool("worst")):
		return video.Worst(), nil
	case cmd.Flags().Changed("resolution"):
		height := lo.Must(cmd.Flags().GetInt("resolution"))
		if picked := video.ByResolution(height); picked != nil {
			return picked, nil
		}
		return nil, fmt.Errorf(
			"no rendition with resolution %d, available: %s",
			height,
			strings.Join(video.AvailableResolutions(), ", "),
		)
	}

	if len(media) == 1 {
		return media[0], nil
	}

	fmt.Println(style.Title(video.Title))

	var index int
	err := survey.AskOne(&survey.Select{
		Message:  "Select resolution",
		Options:  video.AvailableResolutions(),
		PageSize: 10,
	}, &index, survey.WithFilter(func(filter string, value string, _ int) bool {
		return fuzzy.MatchFold(filter, value)
	}))
	if err != nil {
		return nil, err
	}

	return media[index], nil
}

// newProgress builds the per-segment progress bar.
func newProgress(total int, description string) *progressbar.ProgressBar {
	if width, _, err := util.TerminalSize(); err == nil && len(description) > width/2 {
		description = description[:width/2]
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(fmt.Sprintf("%s %s", icon.Get(icon.Download), description)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer: "▇", SaucerPadding: " ", BarStart: "|", BarEnd: "|",
		}),
	)
}
