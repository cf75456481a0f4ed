package subtitles

import (
	"fmt"
	"strconv"
	"strings"
)

// Cue is one SRT block.
type Cue struct {
	Index int
	Start float64
	End   float64
	Lines []string
}

// ParseSRT parses normalized (LF, UTF-8) SRT content. Blocks without a valid
// timing line are skipped.
func ParseSRT(content string) []Cue {
	var cues []Cue
	for _, block := range splitBlocks(content) {
		lines := strings.Split(block, "\n")
		timing := 0
		if timing < len(lines) && isNumeric(lines[timing]) {
			timing++
		}
		if timing >= len(lines) {
			continue
		}
		start, end, ok := parseTimingLine(lines[timing])
		if !ok {
			continue
		}
		cue := Cue{Index: len(cues) + 1, Start: start, End: end}
		for _, line := range lines[timing+1:] {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				cue.Lines = append(cue.Lines, trimmed)
			}
		}
		cues = append(cues, cue)
	}
	return cues
}

// FormatSRT renders cues back to SRT, renumbering from 1.
func FormatSRT(cues []Cue) string {
	var b strings.Builder
	for i, cue := range cues {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n", i+1, formatSRTTimestamp(cue.Start), formatSRTTimestamp(cue.End))
		for _, line := range cue.Lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func parseTimingLine(line string) (float64, float64, bool) {
	startText, endText, found := strings.Cut(line, "-->")
	if !found {
		return 0, 0, false
	}
	start, err := parseSRTTimestamp(startText)
	if err != nil {
		return 0, 0, false
	}
	// Some files carry position hints after the end time ("X1:.. Y1:..").
	endFields := strings.Fields(endText)
	if len(endFields) == 0 {
		return 0, 0, false
	}
	end, err := parseSRTTimestamp(endFields[0])
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

func parseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	clock, millisText, found := strings.Cut(value, ",")
	if !found {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(millisText)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

func formatSRTTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds*1000 + 0.5)
	ms := total % 1000
	total /= 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", total/3600, (total/60)%60, total%60, ms)
}

// splitBlocks groups lines into blocks separated by blank or whitespace-only
// lines.
func splitBlocks(content string) []string {
	var blocks []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

func isNumeric(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	_, err := strconv.Atoi(value)
	return err == nil
}
