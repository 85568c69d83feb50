package plan

import (
	"path/filepath"
	"strconv"
	"strings"

	"subtool/internal/classify"
	"subtool/internal/ffprobe"
	"subtool/internal/language"
)

// Subtitle codecs ffmpeg can transcode to srt. Everything else (PGS, VobSub,
// DVB) is image-based and can only be stream-copied.
var textSubtitleCodecs = map[string]bool{
	"subrip":    true,
	"srt":       true,
	"ass":       true,
	"ssa":       true,
	"mov_text":  true,
	"webvtt":    true,
	"text":      true,
	"microdvd":  true,
	"subviewer": true,
}

// IsTextSubtitle reports whether a subtitle codec is text-based.
func IsTextSubtitle(codecName string) bool {
	return textSubtitleCodecs[strings.ToLower(strings.TrimSpace(codecName))]
}

// exportStem builds the metadata-rich output stem for an exported subtitle:
// <source stem>.<lang>.<kind>, with the relative index appended when another
// subtitle track in the same file shares language and kind.
func exportStem(pr ffprobe.Result, stream ffprobe.Stream, kind classify.Kind, rel int) string {
	source := filepath.Base(pr.Path)
	stem := strings.TrimSuffix(source, filepath.Ext(source))
	lang := language.Normalize(stream.Language, stream.Title)

	name := stem + "." + lang + "." + string(kind)
	if exportNameCollides(pr, stream, kind, lang) {
		name += ".s" + strconv.Itoa(rel)
	}
	return name
}

func exportNameCollides(pr ffprobe.Result, stream ffprobe.Stream, kind classify.Kind, lang string) bool {
	for _, other := range pr.Subtitles() {
		if other.Index == stream.Index {
			continue
		}
		otherKind := classify.Subtitle(other.Title, other.Language, other.Forced)
		if otherKind != kind {
			continue
		}
		if language.Normalize(other.Language, other.Title) == lang {
			return true
		}
	}
	return false
}

// subtitleFileLanguage guesses a language code from an external subtitle
// file name, e.g. "movie.de.srt" or "Movie.German.srt".
func subtitleFileLanguage(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(stem, ".")
	for i := len(parts) - 1; i >= 0; i-- {
		// only accept segments that map to a known language, so arbitrary
		// two-letter words in a title never pass as a code
		if language.ToISO3(parts[i]) != "und" {
			return language.ToISO2(parts[i])
		}
	}
	return language.GuessFromTitle(stem)
}
