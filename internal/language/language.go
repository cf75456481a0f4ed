package language

import (
	"path/filepath"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2/B as used in container metadata
	alt3    string   // ISO 639-2/T alternate (e.g. "fra" vs "fre")
	display string
	words   []string
}

// Common subtitle languages. Codes outside this table fall back to x/text.
var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish", "espanol"}},
	{"fr", "fre", "fra", "French", []string{"french"}},
	{"de", "ger", "deu", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "chi", "zho", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"id", "ind", "", "Indonesian", []string{"indonesian", "indo"}},
	{"ms", "may", "msa", "Malay", []string{"malay"}},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
	{"nl", "dut", "nld", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
}

var (
	byCode map[string]*entry
	byWord map[string]*entry
)

func init() {
	byCode = make(map[string]*entry, len(languages)*3)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode[e.code2] = e
		byCode[e.code3] = e
		if e.alt3 != "" {
			byCode[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if e, ok := byCode[code]; ok {
		return e
	}
	return byWord[code]
}

// parseBase resolves codes missing from the table through x/text. Only
// 2- and 3-letter inputs are accepted so arbitrary filename tokens are not
// mistaken for languages.
func parseBase(code string) (xlanguage.Base, bool) {
	if n := len(code); n != 2 && n != 3 {
		return xlanguage.Base{}, false
	}
	base, err := xlanguage.ParseBase(code)
	if err != nil {
		return xlanguage.Base{}, false
	}
	return base, true
}

// ToISO3 converts a language code or English word to the ISO 639-2 code used in
// stream metadata. Unrecognized input yields "und".
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if e := lookup(code); e != nil {
		return e.code3
	}
	if base, ok := parseBase(code); ok {
		return base.ISO3()
	}
	return "und"
}

// ToISO2 converts a language code or word to ISO 639-1. Returns "" when the
// language is unknown or has no 2-letter code.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if e := lookup(code); e != nil {
		return e.code2
	}
	if base, ok := parseBase(code); ok {
		if s := base.String(); len(s) == 2 {
			return s
		}
	}
	return ""
}

// DisplayName returns an English language name for any recognized code.
// Returns "Unknown" for empty or unrecognized input.
func DisplayName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if e := lookup(code); e != nil {
		return e.display
	}
	if base, ok := parseBase(code); ok {
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return "Unknown"
}

// FromFilename extracts the language token from names like "movie.en.srt",
// "movie.eng.forced.srt" or "Movie.English.srt". Returns "" when none is found.
func FromFilename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.Split(name, ".")
	for i := len(parts) - 1; i >= 1; i-- {
		token := strings.ToLower(strings.TrimSpace(parts[i]))
		if token == "forced" || token == "sdh" || token == "cc" {
			continue
		}
		if lookup(token) != nil {
			return ToISO2(token)
		}
		// Unlisted 3-letter tokens are usually title words ("The.Mob.srt").
		if len(token) == 2 {
			if _, ok := parseBase(token); ok {
				return token
			}
		}
		break
	}
	return ""
}
