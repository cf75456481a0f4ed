package subtitles

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// adPatterns match release-group credits and site plugs found in downloaded
// subtitle files. They also match ordinary dialogue, so the filter is opt-in.
var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)subtitles? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
	regexp.MustCompile(`(?i)http(s)?://`),
	regexp.MustCompile(`(?i)\bwww\.`),
	regexp.MustCompile(`(?i)\bsubscene\b`),
	regexp.MustCompile(`(?i)\byts\b`),
	regexp.MustCompile(`(?i)\byify\b`),
}

// cuePolicy keeps the formatting tags libass understands in SRT and drops the
// rest (font, span, stray HTML) while keeping their text.
var cuePolicy = bluemonday.NewPolicy().AllowElements("i", "b", "u")

// CleanStats reports the effects of subtitle cleanup operations.
type CleanStats struct {
	RemovedCues  int
	StrippedTags int
	EmptyCues    int
}

// Changed reports whether cleanup altered any cue.
func (s CleanStats) Changed() bool {
	return s.RemovedCues > 0 || s.StrippedTags > 0 || s.EmptyCues > 0
}

// CleanOptions selects optional cleanup passes.
type CleanOptions struct {
	// RemoveAds drops whole cues that look like release credits or URLs.
	RemoveAds bool
}

// CleanCues strips unsupported markup from cue text and drops cues left
// without text. Advertisement cues are removed only when opts.RemoveAds is set.
func CleanCues(cues []Cue, opts CleanOptions) ([]Cue, CleanStats) {
	var stats CleanStats
	cleaned := make([]Cue, 0, len(cues))
	for _, cue := range cues {
		if opts.RemoveAds && cueIsAdvertisement(cue) {
			stats.RemovedCues++
			continue
		}
		lines := make([]string, 0, len(cue.Lines))
		for _, line := range cue.Lines {
			stripped := stripMarkup(line)
			if stripped != line {
				stats.StrippedTags++
			}
			if stripped != "" {
				lines = append(lines, stripped)
			}
		}
		if len(lines) == 0 {
			stats.EmptyCues++
			continue
		}
		cue.Lines = lines
		cleaned = append(cleaned, cue)
	}
	return cleaned, stats
}

func stripMarkup(line string) string {
	sanitized := html.UnescapeString(cuePolicy.Sanitize(line))
	return strings.TrimSpace(sanitized)
}

func cueIsAdvertisement(cue Cue) bool {
	payload := strings.TrimSpace(strings.Join(cue.Lines, " "))
	if payload == "" {
		return false
	}
	for _, pattern := range adPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}
