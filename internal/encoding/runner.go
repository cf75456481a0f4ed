package encoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"substudio/internal/fileutil"
	"substudio/internal/job"
	"substudio/internal/logging"
	"substudio/internal/media/ffprobe"
	"substudio/internal/services"
	"substudio/internal/subtitles"
)

// ProbeFunc inspects a media file.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Option configures the runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithProbe replaces the ffprobe inspection (primarily for tests).
func WithProbe(fn ProbeFunc) Option {
	return func(r *Runner) {
		if fn != nil {
			r.probe = fn
		}
	}
}

// Runner executes subtitle jobs with ffmpeg.
type Runner struct {
	settings Settings
	exec     Executor
	probe    ProbeFunc
	logger   *slog.Logger
}

// NewRunner constructs a runner for the given settings.
func NewRunner(settings Settings, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		settings: settings,
		exec:     commandExecutor{},
		probe:    ffprobe.Inspect,
		logger:   logging.NewComponentLogger(logger, "encoding"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result describes a finished render.
type Result struct {
	OutputPath   string
	Preview      bool
	Elapsed      time.Duration
	SubtitleCues int
	Command      Command
}

// Run renders req and returns the path of the finished file. On failure or
// cancellation no output file is left behind. Tool failures are returned as
// *services.ToolError carrying the last lines ffmpeg printed.
func (r *Runner) Run(ctx context.Context, req job.Request, onProgress func(Progress)) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	started := time.Now()
	ctx = services.WithRunID(ctx, uuid.NewString())
	ctx = services.WithMode(ctx, string(req.Mode))
	logger := logging.WithContext(ctx, r.logger)

	lock, err := acquireOutputLock(r.settings.OutputDir)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	var probe ffprobe.Result
	if req.Mode == job.ModeHardsubInternal || !req.Preview {
		probe, err = r.probe(services.WithStage(ctx, "probe"), r.settings.FFprobeBinary, req.VideoPath)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return Result{}, ctx.Err()
		case req.Mode == job.ModeHardsubInternal:
			return Result{}, err
		default:
			logging.WarnWithContext(logger, "ffprobe failed; render progress will not show a percentage", "probe_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "progress percentage unavailable"),
			)
		}
	}

	prepared, err := r.prepareSubtitles(ctx, req, probe, logger)
	if err != nil {
		return Result{}, err
	}
	defer prepared.Cleanup()

	target := NewOutputTarget(r.settings.OutputDir, req.VideoPath, r.settings.extension(), req.Preview)
	cmd, err := BuildCommand(req, Plan{Settings: r.settings, SubtitleFile: prepared.Path, OutputPath: target.Partial})
	if err != nil {
		return Result{}, err
	}

	total := probe.DurationSeconds()
	if req.Preview {
		total = float64(r.settings.previewSeconds())
	}
	parser := newProgressParser(total)
	logger.Info("ffmpeg render started",
		logging.String("command", cmd.String()),
		logging.String("input", req.VideoPath),
		logging.Bool("preview", req.Preview),
		logging.Float64("duration_seconds", total),
	)

	err = r.execute(services.WithStage(ctx, "render"), "ffmpeg", cmd.Binary, cmd.Args, func(line string) {
		if update, ok := parser.Parse(line); ok && onProgress != nil {
			onProgress(update)
		}
	})
	if err != nil {
		target.Discard()
		logger.Error("ffmpeg render failed", logging.Error(err))
		return Result{}, err
	}
	if err := target.Commit(); err != nil {
		target.Discard()
		return Result{}, err
	}

	result := Result{
		OutputPath:   target.Final,
		Preview:      req.Preview,
		Elapsed:      time.Since(started),
		SubtitleCues: prepared.Cues,
		Command:      cmd,
	}
	logger.Info("ffmpeg render completed",
		logging.String("output", result.OutputPath),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (r *Runner) cleanOptions() subtitles.CleanOptions {
	return subtitles.CleanOptions{RemoveAds: r.settings.RemoveAdCues}
}

// prepareSubtitles resolves the subtitle file for the job. Internal streams are
// extracted first; every file then goes through subtitles.Prepare. The
// returned value's Cleanup removes any temporary files.
func (r *Runner) prepareSubtitles(ctx context.Context, req job.Request, probe ffprobe.Result, logger *slog.Logger) (preparedSubtitle, error) {
	switch req.Mode {
	case job.ModeHardsubSRT, job.ModeSoftsub:
		prepared, err := subtitles.Prepare(req.SubtitlePath, r.settings.OutputDir, r.cleanOptions())
		if err != nil {
			return preparedSubtitle{}, err
		}
		logPrepared(logger, req.SubtitlePath, prepared)
		return preparedSubtitle{Prepared: prepared}, nil
	case job.ModeHardsubInternal:
		index := *req.StreamIndex
		if err := validateStream(probe, index); err != nil {
			return preparedSubtitle{}, err
		}
		extracted := filepath.Join(r.settings.OutputDir, ".substudio-"+uuid.NewString()+".srt")
		if err := r.ExtractStream(ctx, req.VideoPath, index, extracted); err != nil {
			return preparedSubtitle{}, err
		}
		prepared, err := subtitles.Prepare(extracted, r.settings.OutputDir, r.cleanOptions())
		if err != nil {
			fileutil.RemoveQuietly(extracted)
			return preparedSubtitle{}, err
		}
		logPrepared(logger, extracted, prepared)
		return preparedSubtitle{Prepared: prepared, extracted: extracted}, nil
	default:
		return preparedSubtitle{}, nil
	}
}

// preparedSubtitle adds the extracted stream file, if any, to the cleanup set.
type preparedSubtitle struct {
	subtitles.Prepared
	extracted string
}

func (p preparedSubtitle) Cleanup() {
	p.Prepared.Cleanup()
	fileutil.RemoveQuietly(p.extracted)
}

func logPrepared(logger *slog.Logger, source string, prepared subtitles.Prepared) {
	logger.Info("subtitle prepared",
		logging.String("source", source),
		logging.String("encoding", prepared.Encoding),
		logging.Int("cues", prepared.Cues),
		logging.Int("removed_cues", prepared.Stats.RemovedCues),
		logging.Int("stripped_tags", prepared.Stats.StrippedTags),
		logging.Bool("rewritten", prepared.Temp),
	)
}

func validateStream(probe ffprobe.Result, index int) error {
	if !probe.HasSubtitleStream(index) {
		return services.Wrap(services.ErrValidation, "encoding", "select stream",
			fmt.Sprintf("stream #%d is not a subtitle stream in this video", index), nil)
	}
	for _, stream := range probe.SubtitleStreams() {
		if stream.Index == index && !stream.IsTextSubtitle() {
			return services.Wrap(services.ErrValidation, "encoding", "select stream",
				fmt.Sprintf("stream #%d (%s) is image-based and cannot be burned from text", index, stream.CodecName), nil)
		}
	}
	return nil
}

// ExtractStream copies subtitle stream index of videoPath to dest as SRT.
func (r *Runner) ExtractStream(ctx context.Context, videoPath string, index int, dest string) error {
	args := []string{"-y", "-hide_banner", "-nostats", "-i", videoPath, "-map", "0:" + strconv.Itoa(index), "-c:s", "srt", dest}
	r.logger.Debug("extracting subtitle stream",
		logging.String("input", videoPath),
		logging.Int("stream_index", index),
		logging.String("dest", dest),
	)
	if err := r.execute(services.WithStage(ctx, "extract"), "ffmpeg", r.ffmpeg(), args, nil); err != nil {
		fileutil.RemoveQuietly(dest)
		return err
	}
	return nil
}

func (r *Runner) ffmpeg() string {
	if r.settings.FFmpegBinary == "" {
		return "ffmpeg"
	}
	return r.settings.FFmpegBinary
}

// execute runs one tool invocation and converts failures to ToolError.
func (r *Runner) execute(ctx context.Context, tool, binary string, args []string, onLine func(string)) error {
	tail := newTailBuffer(TailLines)
	err := r.exec.Run(ctx, binary, args, func(line string) {
		tail.Add(line)
		if onLine != nil {
			onLine(line)
		}
	})
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", tool, ctxErr)
	}
	toolErr := &services.ToolError{Tool: tool, ExitCode: -1, Tail: tail.Lines(), Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.ExitCode = exitErr.ExitCode()
	}
	return toolErr
}
