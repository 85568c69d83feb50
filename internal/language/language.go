package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms appearing in titles
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"de", "deu", "ger", "German", []string{"german", "deutsch"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"es", "spa", "", "Spanish", []string{"spanish", "español"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
	{"cs", "ces", "cze", "Czech", []string{"czech"}},
	{"hu", "hun", "", "Hungarian", []string{"hungarian"}},
	{"uk", "ukr", "", "Ukrainian", []string{"ukrainian"}},
	{"ro", "ron", "rum", "Romanian", []string{"romanian"}},
	{"el", "ell", "gre", "Greek", []string{"greek"}},
	{"he", "heb", "", "Hebrew", []string{"hebrew"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"bn", "ben", "", "Bengali", []string{"bengali"}},
	{"ta", "tam", "", "Tamil", []string{"tamil"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"sr", "srp", "", "Serbian", []string{"serbian"}},
	{"hr", "hrv", "", "Croatian", []string{"croatian"}},
	{"bs", "bos", "", "Bosnian", []string{"bosnian"}},
	{"ca", "cat", "", "Catalan", []string{"catalan"}},
	{"is", "isl", "ice", "Icelandic", []string{"icelandic"}},
	{"id", "ind", "", "Indonesian", []string{"indonesian"}},
	{"ms", "msa", "may", "Malay", []string{"malay"}},
	{"az", "aze", "", "Azerbaijani", []string{"azerbaijani"}},
	{"ka", "kat", "geo", "Georgian", []string{"georgian"}},
	{"kk", "kaz", "", "Kazakh", []string{"kazakh"}},
	{"lt", "lit", "", "Lithuanian", []string{"lithuanian"}},
	{"lv", "lav", "", "Latvian", []string{"latvian"}},
	{"et", "est", "", "Estonian", []string{"estonian"}},
	{"eu", "eus", "baq", "Basque", []string{"basque"}},
	{"gl", "glg", "", "Galician", []string{"galician"}},
	{"sl", "slv", "", "Slovenian", []string{"slovenian"}},
	{"sk", "slk", "slo", "Slovak", []string{"slovak"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "_", "-")))
}

func lookup(code string) *entry {
	code = clean(code)
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// ToISO2 converts any recognized language code or word to ISO 639-1.
// Unknown 2-letter codes pass through; other unknown input returns "".
func ToISO2(code string) string {
	code = clean(code)
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// ToISO3 converts any recognized language code to ISO 639-2 (3-letter).
// Unknown 3-letter codes pass through; anything else returns "und".
func ToISO3(code string) string {
	code = clean(code)
	if code == "" {
		return "und"
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if len(code) == 3 {
		return code
	}
	return "und"
}

// GuessFromTitle scans a free-text track title for a language hint.
// Returns the ISO 639-1 code, or "" when nothing matches.
func GuessFromTitle(title string) string {
	t := clean(title)
	if t == "" {
		return ""
	}
	for i := range languages {
		e := &languages[i]
		for _, w := range e.words {
			if strings.Contains(t, w) {
				return e.code2
			}
		}
	}
	for i := range languages {
		e := &languages[i]
		if strings.Contains(t, e.code3) {
			return e.code2
		}
		if e.alt3 != "" && strings.Contains(t, e.alt3) {
			return e.code2
		}
	}
	return ""
}

// Normalize picks the best short code for a stream: the language tag when
// present (2-letter or BCP-47 tags pass through, 3-letter codes are mapped
// down), otherwise a title guess, otherwise "und".
func Normalize(lang, title string) string {
	if l := clean(lang); l != "" {
		if len(l) == 2 || strings.Contains(l, "-") {
			return l
		}
		if e := lookup(l); e != nil {
			return e.code2
		}
		// unknown 3-letter label, still better than "und"
		return l
	}
	if guess := GuessFromTitle(title); guess != "" {
		return guess
	}
	return "und"
}

// DisplayName returns a human-readable name for any recognized code.
// Unrecognized but well-formed tags fall back to a title-cased rendering.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	return cases.Title(xlang.Und).String(strings.ToLower(trimmed))
}
