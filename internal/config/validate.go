package config

import (
	"errors"
	"fmt"
	"regexp"
)

var hexColorPattern = regexp.MustCompile(`^[0-9A-F]{6}$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateStyle(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.CRF < 0 || c.FFmpeg.CRF > 51 {
		return fmt.Errorf("ffmpeg.crf must be between 0 and 51, got %d", c.FFmpeg.CRF)
	}
	switch c.FFmpeg.Container {
	case "mp4", "mkv":
	default:
		return fmt.Errorf("ffmpeg.container: unsupported value %q (use mp4 or mkv)", c.FFmpeg.Container)
	}
	if c.FFmpeg.PreviewOffset < 0 {
		return errors.New("ffmpeg.preview_offset must not be negative")
	}
	if c.FFmpeg.PreviewSeconds <= 0 {
		return errors.New("ffmpeg.preview_seconds must be positive")
	}
	return nil
}

func (c *Config) validateStyle() error {
	if c.Style.DefaultFontSize < 10 || c.Style.DefaultFontSize > 200 {
		return fmt.Errorf("style.default_font_size must be between 10 and 200, got %d", c.Style.DefaultFontSize)
	}
	if !hexColorPattern.MatchString(c.Style.DefaultColor) {
		return fmt.Errorf("style.default_color must be a 6-digit hex colour, got %q", c.Style.DefaultColor)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
