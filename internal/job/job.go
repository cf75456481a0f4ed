package job

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"substudio/internal/fileutil"
	"substudio/internal/services"
)

// Mode selects how subtitles reach the output.
type Mode string

const (
	ModeHardsubSRT      Mode = "hardsub_srt"
	ModeSoftsub         Mode = "softsub"
	ModeHardsubInternal Mode = "hardsub_internal"
	ModeNone            Mode = "none"
)

// Modes lists the modes in menu order.
func Modes() []Mode {
	return []Mode{ModeHardsubSRT, ModeSoftsub, ModeHardsubInternal, ModeNone}
}

// Label returns the menu text for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeHardsubSRT:
		return "Hardsub (SRT)"
	case ModeSoftsub:
		return "Softsub (Mux)"
	case ModeHardsubInternal:
		return "Internal Hardsub"
	case ModeNone:
		return "Video only"
	default:
		return string(m)
	}
}

// Burns reports whether subtitles are rendered into the pixels.
func (m Mode) Burns() bool {
	return m == ModeHardsubSRT || m == ModeHardsubInternal
}

// NeedsSubtitleFile reports whether the mode reads an external SRT.
func (m Mode) NeedsSubtitleFile() bool {
	return m == ModeHardsubSRT || m == ModeSoftsub
}

func (m Mode) valid() bool {
	for _, known := range Modes() {
		if m == known {
			return true
		}
	}
	return false
}

// Resolution is the output height choice.
type Resolution string

const (
	ResolutionOriginal Resolution = "Original"
	Resolution720p     Resolution = "720p"
	Resolution480p     Resolution = "480p"
)

// Resolutions lists the choices in menu order.
func Resolutions() []Resolution {
	return []Resolution{ResolutionOriginal, Resolution720p, Resolution480p}
}

// Height returns the target frame height, or 0 to keep the source size.
func (r Resolution) Height() int {
	switch r {
	case Resolution720p:
		return 720
	case Resolution480p:
		return 480
	default:
		return 0
	}
}

// Position places the watermark overlay.
type Position string

const (
	PositionBottomRight Position = "Bottom-Right"
	PositionTopRight    Position = "Top-Right"
	PositionTopLeft     Position = "Top-Left"
	PositionBottomLeft  Position = "Bottom-Left"
	PositionCenter      Position = "Center"
)

// Positions lists the watermark positions in menu order.
func Positions() []Position {
	return []Position{PositionBottomRight, PositionTopRight, PositionTopLeft, PositionBottomLeft, PositionCenter}
}

// Overlay returns the x:y expression for ffmpeg's overlay filter with a 20px
// margin. Unknown positions fall back to the top-left corner.
func (p Position) Overlay() string {
	switch p {
	case PositionTopRight:
		return "main_w-overlay_w-20:20"
	case PositionBottomLeft:
		return "20:main_h-overlay_h-20"
	case PositionBottomRight:
		return "main_w-overlay_w-20:main_h-overlay_h-20"
	case PositionCenter:
		return "(main_w-overlay_w)/2:(main_h-overlay_h)/2"
	default:
		return "20:20"
	}
}

const (
	DefaultFontSize = 48
	MinFontSize     = 10
	MaxFontSize     = 200
	DefaultColor    = "FFFF00"
)

// Style controls how burned subtitles look.
type Style struct {
	// FontPath is a .ttf/.otf file; empty selects the system default family.
	FontPath string
	FontSize int
	// Color is a preset name (Yellow, White, Red) or a 6-digit RRGGBB hex value.
	Color     string
	OpaqueBox bool
}

// Request is one subtitle job collected from the prompts.
type Request struct {
	VideoPath    string
	Mode         Mode
	SubtitlePath string
	// StreamIndex is the absolute ffprobe stream index for ModeHardsubInternal.
	StreamIndex *int
	Style       Style

	Resolution        Resolution
	WatermarkPath     string
	WatermarkPosition Position

	// Preview renders a short clip instead of the whole video.
	Preview bool

	// SubtitleLanguage is an ISO 639 code for the softsub track; empty means und.
	SubtitleLanguage string
}

// New returns a request for video with the default styling and options.
func New(videoPath string, mode Mode) Request {
	return Request{
		VideoPath:         videoPath,
		Mode:              mode,
		Style:             Style{FontSize: DefaultFontSize, Color: DefaultColor},
		Resolution:        ResolutionOriginal,
		WatermarkPosition: PositionBottomRight,
	}
}

// Validate checks that required paths exist and that mode-specific fields are
// present. Failures wrap services.ErrValidation.
func (r Request) Validate() error {
	if strings.TrimSpace(r.VideoPath) == "" {
		return invalid("input video is required")
	}
	if !fileutil.IsRegularFile(r.VideoPath) {
		return invalid(fmt.Sprintf("input video not found: %s", r.VideoPath))
	}
	if !r.Mode.valid() {
		return invalid(fmt.Sprintf("unknown mode %q", r.Mode))
	}
	if r.Mode.NeedsSubtitleFile() {
		if strings.TrimSpace(r.SubtitlePath) == "" {
			return invalid(fmt.Sprintf("%s requires a subtitle file", r.Mode.Label()))
		}
		if !fileutil.IsRegularFile(r.SubtitlePath) {
			return invalid(fmt.Sprintf("subtitle file not found: %s", r.SubtitlePath))
		}
	}
	if r.Mode == ModeHardsubInternal && (r.StreamIndex == nil || *r.StreamIndex < 0) {
		return invalid("internal hardsub requires a subtitle stream index")
	}
	if r.Mode.Burns() {
		if r.Style.FontSize < MinFontSize || r.Style.FontSize > MaxFontSize {
			return invalid(fmt.Sprintf("font size must be between %d and %d, got %d", MinFontSize, MaxFontSize, r.Style.FontSize))
		}
		if r.Style.FontPath != "" && !fileutil.IsRegularFile(r.Style.FontPath) {
			return invalid(fmt.Sprintf("font file not found: %s", r.Style.FontPath))
		}
	}
	switch r.Resolution {
	case ResolutionOriginal, Resolution720p, Resolution480p, "":
	default:
		return invalid(fmt.Sprintf("unknown resolution %q", r.Resolution))
	}
	if r.WatermarkPath != "" && !fileutil.IsRegularFile(r.WatermarkPath) {
		return invalid(fmt.Sprintf("watermark not found: %s", r.WatermarkPath))
	}
	return nil
}

func invalid(message string) error {
	return services.Wrap(services.ErrValidation, "job", "validate", message, nil)
}

// Field is one labelled line of the job summary.
type Field struct {
	Label string
	Value string
}

// Summary returns the labelled values shown before rendering.
func (r Request) Summary() []Field {
	fields := []Field{
		{"Target", filepath.Base(r.VideoPath)},
		{"Mode", r.Mode.Label()},
	}
	switch {
	case r.Mode.NeedsSubtitleFile():
		fields = append(fields, Field{"Subtitles", filepath.Base(r.SubtitlePath)})
	case r.Mode == ModeHardsubInternal && r.StreamIndex != nil:
		fields = append(fields, Field{"Subtitles", "Stream #" + strconv.Itoa(*r.StreamIndex)})
	}
	if r.Mode.Burns() {
		font := "Default System Font"
		if r.Style.FontPath != "" {
			font = filepath.Base(r.Style.FontPath)
		}
		box := "No"
		if r.Style.OpaqueBox {
			box = "Yes"
		}
		fields = append(fields,
			Field{"Font", font},
			Field{"Size", fmt.Sprintf("%dpx", r.Style.FontSize)},
			Field{"Color", r.Style.Color},
			Field{"Background Box", box},
		)
	}
	res := r.Resolution
	if res == "" {
		res = ResolutionOriginal
	}
	fields = append(fields, Field{"Res", string(res)})
	if r.WatermarkPath != "" {
		fields = append(fields, Field{"Watermark", fmt.Sprintf("%s (%s)", filepath.Base(r.WatermarkPath), r.WatermarkPosition)})
	}
	return fields
}
