package studio

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"substudio/internal/config"
	"substudio/internal/encoding"
	"substudio/internal/job"
	"substudio/internal/logging"
	"substudio/internal/media/ffprobe"
	"substudio/internal/notifications"
	"substudio/internal/progress"
	"substudio/internal/prompt"
)

// Renderer turns a finished request into an output file.
type Renderer interface {
	Run(ctx context.Context, req job.Request, onProgress func(encoding.Progress)) (encoding.Result, error)
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier sets the completion notifier. The default sends nothing.
func WithNotifier(n notifications.Service) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithProbe replaces the ffprobe call used to list subtitle streams.
func WithProbe(fn encoding.ProbeFunc) Option {
	return func(s *Session) {
		if fn != nil {
			s.probe = fn
		}
	}
}

// WithProgressBar selects the live progress bar instead of sampled lines.
func WithProgressBar(enabled bool) Option {
	return func(s *Session) {
		s.progressBar = enabled
	}
}

// Session is one interactive run of the studio.
type Session struct {
	cfg         *config.Config
	prompt      *prompt.Prompter
	renderer    Renderer
	notifier    notifications.Service
	probe       encoding.ProbeFunc
	logger      *slog.Logger
	progressBar bool

	// scratch holds extracted archive directories removed after each job.
	scratch []string
}

// New builds a session that asks questions through p and renders with r.
func New(cfg *config.Config, p *prompt.Prompter, r Renderer, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		cfg:      cfg,
		prompt:   p,
		renderer: r,
		notifier: notifications.NewService(nil),
		probe:    ffprobe.Inspect,
		logger:   logging.NewComponentLogger(logger, "studio"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// errRestart sends the session back to video selection.
var errRestart = errors.New("restart job")

// Run loops over jobs until the user is done. Input ending or ctx being
// cancelled prints "Aborted by user." and returns context.Canceled.
func (s *Session) Run(ctx context.Context) error {
	defer s.cleanScratch()
	theme := s.prompt.Theme()
	out := s.prompt.Out()
	theme.Title.Fprintln(out, "Subtitle Studio")

	err := s.loop(ctx)
	if errors.Is(err, prompt.ErrAborted) || errors.Is(err, context.Canceled) {
		theme.Error.Fprintln(out, "\nAborted by user.")
		return context.Canceled
	}
	return err
}

func (s *Session) loop(ctx context.Context) error {
	theme := s.prompt.Theme()
	out := s.prompt.Out()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		req, err := s.collect(ctx)
		if errors.Is(err, errNoVideos) {
			theme.Warn.Fprintf(out, "No videos found in %s\n", s.cfg.Paths.InputDir)
			return nil
		}
		if errors.Is(err, errRestart) {
			s.cleanScratch()
			continue
		}
		if err != nil {
			return err
		}

		err = s.review(ctx, req)
		s.cleanScratch()
		if errors.Is(err, errRestart) {
			continue
		}
		if err != nil {
			return err
		}

		another, err := s.prompt.Confirm("Process another video?", false)
		if err != nil {
			return err
		}
		if !another {
			theme.Warn.Fprintln(out, "Goodbye!")
			return nil
		}
	}
}

func (s *Session) newReporter(label string) *progress.Reporter {
	return progress.New(s.prompt.Out(), s.progressBar, label, s.logger)
}

func (s *Session) warn(format string, args ...any) {
	s.prompt.Theme().Warn.Fprintf(s.prompt.Out(), format+"\n", args...)
}

func (s *Session) cleanScratch() {
	for _, dir := range s.scratch {
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Warn("failed to remove scratch directory", logging.String("path", dir), logging.Error(err))
		}
	}
	s.scratch = nil
}
