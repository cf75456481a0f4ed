package encoding

import (
	"fmt"
	"strconv"
	"strings"

	"substudio/internal/config"
	"substudio/internal/fileutil"
	"substudio/internal/job"
	"substudio/internal/language"
	"substudio/internal/services"
	"substudio/internal/subtitles"
)

// Settings holds the encoder values taken from configuration.
type Settings struct {
	FFmpegBinary   string
	FFprobeBinary  string
	VideoCodec     string
	Preset         string
	CRF            int
	Container      string
	OutputDir      string
	FontsDir       string
	PreviewOffset  int
	PreviewSeconds int
	RemoveAdCues   bool
}

// SettingsFromConfig extracts encoder settings from the loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		FFmpegBinary:   cfg.FFmpegBinary(),
		FFprobeBinary:  cfg.FFprobeBinary(),
		VideoCodec:     cfg.FFmpeg.VideoCodec,
		Preset:         cfg.FFmpeg.Preset,
		CRF:            cfg.FFmpeg.CRF,
		Container:      cfg.FFmpeg.Container,
		OutputDir:      cfg.Paths.OutputDir,
		FontsDir:       cfg.Paths.FontsDir,
		PreviewOffset:  cfg.FFmpeg.PreviewOffset,
		PreviewSeconds: cfg.FFmpeg.PreviewSeconds,
		RemoveAdCues:   cfg.Subtitles.RemoveAds,
	}
}

func (s Settings) extension() string {
	if strings.EqualFold(s.Container, "mkv") {
		return ".mkv"
	}
	return ".mp4"
}

func (s Settings) subtitleCodec() string {
	if strings.EqualFold(s.Container, "mkv") {
		return "srt"
	}
	return "mov_text"
}

func (s Settings) previewSeconds() int {
	if s.PreviewSeconds <= 0 {
		return 15
	}
	return s.PreviewSeconds
}

// Plan carries the per-run inputs that are resolved outside the request:
// the subtitle file actually handed to ffmpeg and the file ffmpeg writes.
type Plan struct {
	Settings
	// SubtitleFile overrides Request.SubtitlePath, e.g. with a cleaned copy
	// or a stream extracted from the video. Required for internal hardsub.
	SubtitleFile string
	// OutputPath is where ffmpeg writes; normally the hidden partial path.
	OutputPath string
}

// Command is a fully assembled ffmpeg invocation.
type Command struct {
	Binary string
	Args   []string
	// OutputPath is the file the command writes.
	OutputPath string
}

// String renders the command for logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Binary)
	for _, arg := range c.Args {
		if strings.ContainsAny(arg, " '\"[];") {
			arg = strconv.Quote(arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// BuildCommand validates the request and assembles the ffmpeg arguments.
// Nothing is executed; all input errors surface here.
func BuildCommand(req job.Request, plan Plan) (Command, error) {
	if err := req.Validate(); err != nil {
		return Command{}, err
	}
	if strings.TrimSpace(plan.OutputPath) == "" {
		return Command{}, services.Wrap(services.ErrValidation, "encoding", "build command", "output path is required", nil)
	}
	subtitleFile := plan.SubtitleFile
	if subtitleFile == "" {
		subtitleFile = req.SubtitlePath
	}
	if req.Mode == job.ModeHardsubInternal && plan.SubtitleFile == "" {
		return Command{}, services.Wrap(services.ErrValidation, "encoding", "build command", "internal hardsub requires an extracted subtitle file", nil)
	}
	if req.Mode != job.ModeNone && !fileutil.IsRegularFile(subtitleFile) {
		return Command{}, services.Wrap(services.ErrValidation, "encoding", "build command", "subtitle file not found: "+subtitleFile, nil)
	}

	args := []string{"-y", "-hide_banner", "-nostats", "-i", req.VideoPath}
	nextInput := 1
	watermarkInput := -1
	if req.WatermarkPath != "" {
		args = append(args, "-i", req.WatermarkPath)
		watermarkInput = nextInput
		nextInput++
	}
	subtitleInput := -1
	if req.Mode == job.ModeSoftsub {
		args = append(args, "-i", subtitleFile)
		subtitleInput = nextInput
	}
	if req.Preview {
		args = append(args, "-ss", formatClock(plan.PreviewOffset), "-t", strconv.Itoa(plan.previewSeconds()))
	}

	filters, last := filterChain(req, plan.Settings, subtitleFile, watermarkInput)
	if len(filters) > 0 {
		args = append(args, "-filter_complex", strings.Join(filters, ";"), "-map", last)
	} else {
		args = append(args, "-map", "0:v")
	}
	args = append(args, "-map", "0:a?")
	if subtitleInput >= 0 {
		args = append(args, "-map", fmt.Sprintf("%d:0", subtitleInput))
	}

	if len(filters) > 0 {
		args = append(args, "-c:v", videoCodec(plan.Settings), "-preset", preset(plan.Settings), "-crf", strconv.Itoa(plan.CRF))
	} else {
		args = append(args, "-c:v", "copy")
	}
	args = append(args, "-c:a", "copy")
	if subtitleInput >= 0 {
		lang := language.ToISO3(req.SubtitleLanguage)
		args = append(args,
			"-c:s", plan.subtitleCodec(),
			"-metadata:s:s:0", "language="+lang,
			"-disposition:s:0", "default",
		)
	} else {
		args = append(args, "-sn")
	}
	args = append(args, "-progress", "pipe:1", plan.OutputPath)

	binary := plan.FFmpegBinary
	if binary == "" {
		binary = "ffmpeg"
	}
	return Command{Binary: binary, Args: args, OutputPath: plan.OutputPath}, nil
}

// filterChain returns the filter_complex segments and the label of the final
// video pad. Segments run subtitles, then scale, then overlay.
func filterChain(req job.Request, settings Settings, subtitleFile string, watermarkInput int) ([]string, string) {
	var filters []string
	last := "[0:v]"
	if req.Mode.Burns() {
		fontsDir := subtitles.FontsDir(req.Style.FontPath, settings.FontsDir)
		style := subtitles.ForceStyle(req.Style, subtitles.FontFamily(req.Style.FontPath))
		filters = append(filters, fmt.Sprintf("%ssubtitles='%s':fontsdir='%s':force_style='%s'[v_sub]",
			last, EscapeFilterPath(subtitleFile), EscapeFilterPath(fontsDir), style))
		last = "[v_sub]"
	}
	if height := req.Resolution.Height(); height > 0 {
		filters = append(filters, fmt.Sprintf("%sscale=-2:%d[v_scale]", last, height))
		last = "[v_scale]"
	}
	if watermarkInput > 0 {
		filters = append(filters, fmt.Sprintf("%s[%d:v]overlay=%s[v_fin]", last, watermarkInput, req.WatermarkPosition.Overlay()))
		last = "[v_fin]"
	}
	return filters, last
}

func videoCodec(s Settings) string {
	if strings.TrimSpace(s.VideoCodec) == "" {
		return "libx264"
	}
	return s.VideoCodec
}

func preset(s Settings) string {
	if strings.TrimSpace(s.Preset) == "" {
		return "veryfast"
	}
	return s.Preset
}

// formatClock renders seconds as HH:MM:SS.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds/60)%60, seconds%60)
}
