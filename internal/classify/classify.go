// Package classify derives a subtitle stream's kind from its metadata.
package classify

import (
	"fmt"
	"strings"
)

// Kind is a derived subtitle classification. It is computed on demand from a
// stream's disposition flag and title, never stored.
type Kind string

const (
	// Forced marks tracks meant to display only for specific dialogue
	// (foreign-language segments, signs, songs).
	Forced Kind = "forced"
	// Full marks regular full-dialogue tracks.
	Full Kind = "full"
)

// Title keywords that mark a track as forced even without the disposition
// flag. "zwang" covers German-tagged releases; "signs"/"songs" cover
// hardsub-style sign and karaoke overlays.
var forcedKeywords = []string{"forced", "zwang", "signs", "songs"}

// Subtitle classifies a subtitle stream. The disposition flag always wins;
// otherwise the lowercased title is scanned for forced keywords.
func Subtitle(title, language string, forced bool) Kind {
	if forced {
		return Forced
	}
	lowered := strings.ToLower(title)
	for _, keyword := range forcedKeywords {
		if strings.Contains(lowered, keyword) {
			return Forced
		}
	}
	return Full
}

// ParseKeep converts a config/CLI keep value into the set of kinds a strip
// operation retains. "none" (or empty) keeps nothing.
func ParseKeep(value string) ([]Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none":
		return nil, nil
	case "forced":
		return []Kind{Forced}, nil
	case "full":
		return []Kind{Full}, nil
	case "all":
		return []Kind{Forced, Full}, nil
	default:
		return nil, fmt.Errorf("keep: unsupported value %q (expected forced, full, all, or none)", value)
	}
}

// Keeps reports whether kind is in the keep set.
func Keeps(keep []Kind, kind Kind) bool {
	for _, k := range keep {
		if k == kind {
			return true
		}
	}
	return false
}
