package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"substudio/internal/fileutil"
	"substudio/internal/language"
	"substudio/internal/media/ffprobe"
	"substudio/internal/services"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <video>",
		Short: "List the subtitle streams of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := args[0]
			if !fileutil.IsRegularFile(path) {
				// Bare names resolve against the Input directory.
				candidate := filepath.Join(cfg.Paths.InputDir, path)
				if !fileutil.IsRegularFile(candidate) {
					return services.Wrap(services.ErrValidation, "probe", "resolve input",
						fmt.Sprintf("video not found: %s", path), nil)
				}
				path = candidate
			}

			result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			streams := result.SubtitleStreams()
			fmt.Fprintf(out, "%s: %d stream(s) (%d video, %d audio, %d subtitle), duration %.1fs",
				filepath.Base(path), len(result.Streams),
				result.VideoStreamCount(), result.AudioStreamCount(), len(streams),
				result.DurationSeconds())
			if size := result.SizeBytes(); size > 0 {
				fmt.Fprintf(out, ", %.1f MiB", float64(size)/(1<<20))
			}
			fmt.Fprintln(out)

			if len(streams) == 0 {
				fmt.Fprintln(out, "No subtitle streams found in video!")
				return nil
			}
			rows := make([][]string, 0, len(streams))
			for _, stream := range streams {
				burnable := "yes"
				if !stream.IsTextSubtitle() {
					burnable = "no (image)"
				}
				rows = append(rows, []string{
					strconv.Itoa(stream.Index),
					stream.CodecName,
					language.DisplayName(stream.Tags.Language),
					stream.Tags.Title,
					yesNo(stream.Disposition.Default == 1),
					burnable,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Index", "Codec", "Language", "Title", "Default", "Burnable"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
}
