package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the studio directory layout. Empty sub-directories resolve
// beneath BaseDir.
type Paths struct {
	BaseDir      string `toml:"base_dir"`
	InputDir     string `toml:"input_dir"`
	SubtitlesDir string `toml:"subtitles_dir"`
	OutputDir    string `toml:"output_dir"`
	FontsDir     string `toml:"fonts_dir"`
	LogosDir     string `toml:"logos_dir"`
	LogDir       string `toml:"log_dir"`
}

// FFmpeg contains external binary names and encoder settings.
type FFmpeg struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	FFprobeBinary  string `toml:"ffprobe_binary"`
	VideoCodec     string `toml:"video_codec"`
	Preset         string `toml:"preset"`
	CRF            int    `toml:"crf"`
	Container      string `toml:"container"`
	PreviewOffset  int    `toml:"preview_offset"`
	PreviewSeconds int    `toml:"preview_seconds"`
}

// Style contains defaults offered by the styling prompts.
type Style struct {
	DefaultFontSize int    `toml:"default_font_size"`
	DefaultColor    string `toml:"default_color"`
}

// Subtitles controls cleanup of user-supplied SRT files.
type Subtitles struct {
	// RemoveAds drops cues that look like release credits or site URLs.
	RemoveAds bool `toml:"remove_ads"`
}

// Notifications contains completion notice settings.
type Notifications struct {
	Termux         bool   `toml:"termux"`
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for substudio.
//
// Configuration sections:
//   - Paths: Input/Subtitles/Output/Fonts/Logos directories and the log dir
//   - FFmpeg: binaries, encoder preset, output container, preview window
//   - Style: defaults for the font size and colour prompts
//   - Subtitles: optional advertisement cue removal
//   - Notifications: termux-notification and ntfy completion notices
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	FFmpeg        FFmpeg        `toml:"ffmpeg"`
	Style         Style         `toml:"style"`
	Subtitles     Subtitles     `toml:"subtitles"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("substudio.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Directories returns the studio directories keyed by their display name.
func (c *Config) Directories() []NamedDir {
	return []NamedDir{
		{Name: "Input", Path: c.Paths.InputDir},
		{Name: "Subtitles", Path: c.Paths.SubtitlesDir},
		{Name: "Output", Path: c.Paths.OutputDir},
		{Name: "Fonts", Path: c.Paths.FontsDir},
		{Name: "Logos", Path: c.Paths.LogosDir},
	}
}

// NamedDir pairs a studio directory with its display name.
type NamedDir struct {
	Name string
	Path string
}

// EnsureDirectories creates the studio directories and the log directory.
func (c *Config) EnsureDirectories() error {
	dirs := c.Directories()
	dirs = append(dirs, NamedDir{Name: "Logs", Path: c.Paths.LogDir})
	for _, dir := range dirs {
		if strings.TrimSpace(dir.Path) == "" {
			continue
		}
		if err := os.MkdirAll(dir.Path, 0o755); err != nil {
			return fmt.Errorf("create %s directory %q: %w", strings.ToLower(dir.Name), dir.Path, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for rendering.
func (c *Config) FFmpegBinary() string {
	if c == nil || strings.TrimSpace(c.FFmpeg.FFmpegBinary) == "" {
		return defaultFFmpegBinary
	}
	return c.FFmpeg.FFmpegBinary
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	if c == nil || strings.TrimSpace(c.FFmpeg.FFprobeBinary) == "" {
		return defaultFFprobeBinary
	}
	return c.FFmpeg.FFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
