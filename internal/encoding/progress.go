package encoding

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Progress is one update parsed from ffmpeg's -progress output.
type Progress struct {
	// Percent is 0-100, or -1 when the total duration is unknown.
	Percent float64
	OutTime time.Duration
	Speed   float64
	Done    bool
}

// progressParser turns -progress key=value lines into Progress updates.
type progressParser struct {
	total time.Duration
	speed float64
}

func newProgressParser(totalSeconds float64) *progressParser {
	return &progressParser{total: time.Duration(totalSeconds * float64(time.Second))}
}

// Parse consumes one output line. It returns an update when the line moves
// the position (out_time_us / out_time_ms) or ends the run (progress=end).
func (p *progressParser) Parse(line string) (Progress, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return Progress{}, false
	}
	value = strings.TrimSpace(value)
	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds.
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || us < 0 {
			return Progress{}, false
		}
		out := time.Duration(us) * time.Microsecond
		return Progress{Percent: p.percent(out), OutTime: out, Speed: p.speed}, true
	case "speed":
		if speed, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64); err == nil {
			p.speed = speed
		}
	case "progress":
		if value == "end" {
			return Progress{Percent: 100, OutTime: p.total, Speed: p.speed, Done: true}, true
		}
	}
	return Progress{}, false
}

func (p *progressParser) percent(out time.Duration) float64 {
	if p.total <= 0 {
		return -1
	}
	pct := float64(out) / float64(p.total) * 100
	return min(max(pct, 0), 100)
}

// Message renders a progress update for log lines: "Rendering 42.0% (ETA 1m5s, @ 2.1x)".
func (u Progress) Message(label string) string {
	if label = strings.TrimSpace(label); label == "" {
		label = "Rendering"
	}
	if u.Percent < 0 {
		return fmt.Sprintf("%s at %s", label, formatETA(u.OutTime))
	}
	base := fmt.Sprintf("%s %.1f%%", label, u.Percent)
	extras := make([]string, 0, 2)
	if eta := u.ETA(); eta > 0 {
		extras = append(extras, "ETA "+formatETA(eta))
	}
	if u.Speed > 0 {
		extras = append(extras, fmt.Sprintf("@ %.1fx", u.Speed))
	}
	if len(extras) == 0 {
		return base
	}
	return fmt.Sprintf("%s (%s)", base, strings.Join(extras, ", "))
}

// ETA estimates the remaining wall time from the encode speed.
func (u Progress) ETA() time.Duration {
	if u.Done || u.Percent <= 0 || u.Speed <= 0 {
		return 0
	}
	total := float64(u.OutTime) * 100 / u.Percent
	remaining := (total - float64(u.OutTime)) / u.Speed
	return time.Duration(remaining)
}

func formatETA(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || (hours == 0 && minutes == 0) {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, "")
}
