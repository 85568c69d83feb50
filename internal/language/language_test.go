package language

import "testing"

func TestToISO2(t *testing.T) {
	cases := map[string]string{
		"eng":     "en",
		"ger":     "de",
		"deu":     "de",
		"EN":      "en",
		" fra ":   "fr",
		"english": "en",
		"xx":      "xx",
		"unknown": "",
		"":        "",
	}
	for input, want := range cases {
		if got := ToISO2(input); got != want {
			t.Fatalf("ToISO2(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestToISO3(t *testing.T) {
	cases := map[string]string{
		"en":  "eng",
		"de":  "deu",
		"fre": "fra",
		"qqq": "qqq",
		"q":   "und",
		"":    "und",
	}
	for input, want := range cases {
		if got := ToISO3(input); got != want {
			t.Fatalf("ToISO3(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		lang  string
		title string
		want  string
	}{
		{"eng", "", "en"},
		{"pt-BR", "", "pt-br"},
		{"de", "", "de"},
		{"qaa", "", "qaa"},
		{"", "German Commentary", "de"},
		{"", "Untertitel (deutsch)", "de"},
		{"", "Director's cut", "und"},
		{"", "", "und"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.lang, tc.title); got != tc.want {
			t.Fatalf("Normalize(%q, %q) = %q, want %q", tc.lang, tc.title, got, tc.want)
		}
	}
}

func TestGuessFromTitlePrefersWordForms(t *testing.T) {
	if got := GuessFromTitle("Japanese Signs"); got != "ja" {
		t.Fatalf("GuessFromTitle = %q, want ja", got)
	}
	if got := GuessFromTitle("eng subs"); got != "en" {
		t.Fatalf("GuessFromTitle = %q, want en", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("en"); got != "English" {
		t.Fatalf("DisplayName(en) = %q", got)
	}
	if got := DisplayName("ger"); got != "German" {
		t.Fatalf("DisplayName(ger) = %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Fatalf("DisplayName(empty) = %q", got)
	}
	if got := DisplayName("klingon"); got != "Klingon" {
		t.Fatalf("DisplayName fallback = %q", got)
	}
}
