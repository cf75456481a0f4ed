package progress

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"substudio/internal/encoding"
	"substudio/internal/logging"
)

// Reporter renders encoding.Progress updates for one run.
type Reporter struct {
	label   string
	out     io.Writer
	bar     *progressbar.ProgressBar
	sampler *logging.ProgressSampler
	logger  *slog.Logger
	last    encoding.Progress
}

// New returns a reporter writing to out. interactive selects the live bar;
// otherwise a line is printed every 10%.
func New(out io.Writer, interactive bool, label string, logger *slog.Logger) *Reporter {
	r := &Reporter{
		label:   label,
		out:     out,
		sampler: logging.NewProgressSampler(10),
		logger:  logging.NewComponentLogger(logger, "progress"),
		last:    encoding.Progress{Percent: -1},
	}
	if interactive {
		r.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(label),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[cyan]━[reset]",
				SaucerHead:    "[cyan]╸[reset]",
				SaucerPadding: "[dark_gray]━[reset]",
				BarStart:      " ",
				BarEnd:        " ",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(out)
			}),
		)
	}
	return r
}

// Update shows one progress update.
func (r *Reporter) Update(update encoding.Progress) {
	if r == nil {
		return
	}
	r.last = update
	if r.bar != nil {
		if update.Percent >= 0 {
			_ = r.bar.Set(int(update.Percent))
		} else {
			r.bar.Describe(update.Message(r.label))
		}
		return
	}
	if !r.sampler.ShouldLog(update.Percent, r.label) {
		return
	}
	fmt.Fprintln(r.out, update.Message(r.label))
	r.logger.Debug("render progress",
		logging.Float64("progress_percent", update.Percent),
		logging.Duration("progress_out_time", update.OutTime),
		logging.Duration("progress_eta", update.ETA()),
	)
}

// Finish completes the display after a successful run.
func (r *Reporter) Finish() {
	if r == nil {
		return
	}
	if r.bar != nil {
		_ = r.bar.Finish()
		return
	}
	if r.last.Percent < 100 {
		fmt.Fprintln(r.out, encoding.Progress{Percent: 100, Done: true}.Message(r.label))
	}
}

// Abort stops the display without marking the run complete.
func (r *Reporter) Abort() {
	if r == nil || r.bar == nil {
		return
	}
	_ = r.bar.Exit()
	fmt.Fprintln(r.out)
}
