package subtitles

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/sfnt"
)

// DefaultFontFamily is used when no font file is selected.
const DefaultFontFamily = "Arial"

// FontFamily returns the family name stored in a .ttf/.otf file, which is
// what libass matches against FontName. Unreadable fonts fall back to the
// file stem; an empty path yields DefaultFontFamily.
func FontFamily(path string) string {
	if strings.TrimSpace(path) == "" {
		return DefaultFontFamily
	}
	stem := sanitizeStyleValue(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	data, err := os.ReadFile(path)
	if err != nil {
		return stem
	}
	font, err := sfnt.Parse(data)
	if err != nil {
		return stem
	}
	for _, id := range []sfnt.NameID{sfnt.NameIDTypographicFamily, sfnt.NameIDFamily} {
		name, err := font.Name(nil, id)
		if err == nil && strings.TrimSpace(name) != "" {
			return sanitizeStyleValue(name)
		}
	}
	return stem
}

// sanitizeStyleValue removes characters that would break force_style parsing.
func sanitizeStyleValue(value string) string {
	value = strings.NewReplacer(",", " ", "'", "", ":", " ", "=", " ").Replace(value)
	return strings.Join(strings.Fields(value), " ")
}

// FontsDir returns the directory libass should search: the selected font's
// directory, or the configured Fonts directory when none is selected.
func FontsDir(fontPath, fallback string) string {
	if strings.TrimSpace(fontPath) == "" {
		return fallback
	}
	return filepath.Dir(fontPath)
}
