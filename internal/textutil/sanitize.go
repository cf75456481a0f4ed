package textutil

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"'", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; quotes and other
// unsafe characters are removed. Control characters are dropped.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(name)))
}

// maxStemBytes keeps generated names well under common 255-byte limits once a
// prefix, collision suffix and extension are added.
const maxStemBytes = 180

// OutputStem derives the base name used for rendered files from the source
// video path: "/in/My Movie: Part 1.mkv" becomes "My Movie- Part 1".
func OutputStem(videoPath string) string {
	base := filepath.Base(videoPath)
	stem := SanitizeFileName(strings.TrimSuffix(base, filepath.Ext(base)))
	for len(stem) > maxStemBytes {
		_, size := utf8.DecodeLastRuneInString(stem)
		stem = stem[:len(stem)-size]
	}
	stem = strings.TrimSpace(stem)
	if stem == "" || stem == "." {
		return "video"
	}
	return stem
}
