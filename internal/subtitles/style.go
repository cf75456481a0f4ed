package subtitles

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"substudio/internal/job"
)

// ASS colours are &HAABBGGRR with alpha 00 meaning opaque.
const (
	colorYellow = "&H0000FFFF"
	colorWhite  = "&H00FFFFFF"
	colorRed    = "&H000000FF"
	colorBlack  = "&H00000000"
	// colorBoxFill is the translucent black used behind text when the
	// background box is enabled.
	colorBoxFill = "&H80000000"
)

// libass renders SRT input on a 288-line script canvas while sizes are
// chosen against a 720-line frame.
const (
	srtPlayResY    = 288
	designPlayResY = 720
)

var hexColor = regexp.MustCompile(`^[0-9A-F]{6}$`)

// ASSColor converts a colour choice to ASS &H00BBGGRR form. Preset names
// (Yellow, White, Red) are matched case-insensitively; anything that is not a
// 6-digit hex value falls back to yellow.
func ASSColor(value string) string {
	h := strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(value, "#", "")))
	switch {
	case strings.Contains(h, "YELLOW"):
		return colorYellow
	case strings.Contains(h, "WHITE"):
		return colorWhite
	case strings.Contains(h, "RED"):
		return colorRed
	case !hexColor.MatchString(h):
		return colorYellow
	}
	return "&H00" + h[4:6] + h[2:4] + h[0:2]
}

// ValidHexColor reports whether value is a 6-digit hex colour, with or
// without a leading '#'.
func ValidHexColor(value string) bool {
	return hexColor.MatchString(strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(value), "#")))
}

// ScaledFontSize converts a size chosen for a 720-line frame to the value
// passed through force_style.
func ScaledFontSize(size int) int {
	scaled := int(math.Round(float64(size) * srtPlayResY / designPlayResY))
	return max(scaled, 1)
}

// ForceStyle builds the force_style override for the subtitles filter. Every
// style key appears exactly once.
func ForceStyle(style job.Style, fontName string) string {
	borderStyle, shadow, back := 1, 1, colorBlack
	if style.OpaqueBox {
		borderStyle, shadow, back = 3, 0, colorBoxFill
	}
	size := style.FontSize
	if size <= 0 {
		size = job.DefaultFontSize
	}
	fields := []string{
		"FontName=" + fontName,
		fmt.Sprintf("FontSize=%d", ScaledFontSize(size)),
		"PrimaryColour=" + ASSColor(style.Color),
		"OutlineColour=" + colorBlack,
		"BackColour=" + back,
		fmt.Sprintf("BorderStyle=%d", borderStyle),
		"Outline=2",
		fmt.Sprintf("Shadow=%d", shadow),
		"Alignment=2",
		"MarginV=25",
	}
	return strings.Join(fields, ",")
}
