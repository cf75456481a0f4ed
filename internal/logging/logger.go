package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"

	"substudio/internal/config"
)

// LogFileName is the session log written beneath the configured log directory.
const LogFileName = "substudio.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Console receives interactive log output. Nil disables console logging.
	Console io.Writer
	// Color enables tinted console output; callers set it when Console is a TTY.
	Color bool
	// FilePath appends a persistent copy of every record at info level or above.
	FilePath    string
	SessionID   string
	Development bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)
	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	var handlers []slog.Handler
	if opts.Console != nil {
		switch {
		case format == "json":
			handlers = append(handlers, newJSONHandler(opts.Console, levelVar, addSource))
		case opts.Color:
			handlers = append(handlers, tint.NewHandler(opts.Console, &tint.Options{
				Level:      levelVar,
				AddSource:  addSource,
				TimeFormat: "15:04:05",
			}))
		default:
			handlers = append(handlers, newPrettyHandler(opts.Console, levelVar, addSource))
		}
	}

	if path := strings.TrimSpace(opts.FilePath); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			return nil, err
		}
		fileLevel := new(slog.LevelVar)
		fileLevel.Set(min(level, slog.LevelInfo))
		if format == "json" {
			handlers = append(handlers, newJSONHandler(file, fileLevel, addSource))
		} else {
			handlers = append(handlers, newPrettyHandler(file, fileLevel, addSource))
		}
	}

	return slog.New(newStudioHandler(opts.SessionID, handlers...)), nil
}

// NewFromConfig creates a logger using application config defaults. Console output
// goes to console (usually stderr) and a copy is appended to the session log file.
func NewFromConfig(cfg *config.Config, console io.Writer, color bool) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "warn", Format: "console", Console: console, Color: color})
	}
	opts := Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Console:   console,
		Color:     color,
		SessionID: uuid.NewString(),
	}
	if cfg.Paths.LogDir != "" {
		opts.FilePath = filepath.Join(cfg.Paths.LogDir, LogFileName)
	}
	return New(opts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func openLogFile(path string) (io.Writer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	if err := rotateIfLarge(path, maxLogBytes); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
