package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFFmpeg()
	c.normalizeStyle()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv(envBaseDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.BaseDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.BaseDir) == "" {
		c.Paths.BaseDir = defaultBaseDir
	}
	if c.Paths.BaseDir, err = expandPath(c.Paths.BaseDir); err != nil {
		return fmt.Errorf("paths.base_dir: %w", err)
	}

	subdirs := []struct {
		key   string
		name  string
		value *string
	}{
		{"paths.input_dir", "Input", &c.Paths.InputDir},
		{"paths.subtitles_dir", "Subtitles", &c.Paths.SubtitlesDir},
		{"paths.output_dir", "Output", &c.Paths.OutputDir},
		{"paths.fonts_dir", "Fonts", &c.Paths.FontsDir},
		{"paths.logos_dir", "Logos", &c.Paths.LogosDir},
		{"paths.log_dir", "Logs", &c.Paths.LogDir},
	}
	for _, dir := range subdirs {
		if strings.TrimSpace(*dir.value) == "" {
			*dir.value = filepath.Join(c.Paths.BaseDir, dir.name)
		}
		if *dir.value, err = expandPath(strings.TrimSpace(*dir.value)); err != nil {
			return fmt.Errorf("%s: %w", dir.key, err)
		}
	}
	return nil
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.FFmpegBinary = strings.TrimSpace(c.FFmpeg.FFmpegBinary)
	if c.FFmpeg.FFmpegBinary == "" {
		c.FFmpeg.FFmpegBinary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
	c.FFmpeg.VideoCodec = strings.TrimSpace(c.FFmpeg.VideoCodec)
	if c.FFmpeg.VideoCodec == "" {
		c.FFmpeg.VideoCodec = defaultVideoCodec
	}
	c.FFmpeg.Preset = strings.TrimSpace(c.FFmpeg.Preset)
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = defaultPreset
	}
	c.FFmpeg.Container = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.FFmpeg.Container), "."))
	if c.FFmpeg.Container == "" {
		c.FFmpeg.Container = defaultContainer
	}
}

func (c *Config) normalizeStyle() {
	if c.Style.DefaultFontSize == 0 {
		c.Style.DefaultFontSize = defaultFontSize
	}
	c.Style.DefaultColor = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c.Style.DefaultColor), "#"))
	if c.Style.DefaultColor == "" {
		c.Style.DefaultColor = defaultColor
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv(envNtfyTopic); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
