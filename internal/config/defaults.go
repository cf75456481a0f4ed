package config

const (
	defaultConfigPath           = "~/.config/substudio/config.toml"
	defaultBaseDir              = "~/storage/shared/FFmpegBot"
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultVideoCodec           = "libx264"
	defaultPreset               = "veryfast"
	defaultCRF                  = 23
	defaultContainer            = "mp4"
	defaultPreviewOffset        = 30
	defaultPreviewSeconds       = 15
	defaultFontSize             = 48
	defaultColor                = "FFFF00"
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "warn"
	envBaseDir                  = "SUBSTUDIO_BASE_DIR"
	envNtfyTopic                = "SUBSTUDIO_NTFY_TOPIC"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BaseDir: defaultBaseDir,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			VideoCodec:     defaultVideoCodec,
			Preset:         defaultPreset,
			CRF:            defaultCRF,
			Container:      defaultContainer,
			PreviewOffset:  defaultPreviewOffset,
			PreviewSeconds: defaultPreviewSeconds,
		},
		Style: Style{
			DefaultFontSize: defaultFontSize,
			DefaultColor:    defaultColor,
		},
		Notifications: Notifications{
			Termux:         true,
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
