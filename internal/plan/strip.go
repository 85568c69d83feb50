package plan

import (
	"errors"
	"fmt"

	"subtool/internal/classify"
	"subtool/internal/ffprobe"
)

// TmpSuffix is appended to the original path for the transient strip output.
const TmpSuffix = ".tmp_mux.mkv"

// StripSubtitles plans a remux that keeps every non-subtitle stream and only
// the subtitle streams whose classification is in the keep set. All streams
// copy without re-encoding. The output is a temporary sibling file; the swap
// onto the original path belongs to the replace package.
func StripSubtitles(pr ffprobe.Result, keep []classify.Kind) (Plan, error) {
	if len(pr.Streams) == 0 {
		return Plan{}, fmt.Errorf("strip %s: no streams probed", pr.Path)
	}

	maps := make([]Selector, 0, len(pr.Streams))

	// Non-subtitle streams first, each at its exact per-type relative index.
	// The ordinal is recomputed from the full stream list; an off-by-one here
	// maps the wrong track.
	for _, s := range pr.Streams {
		if s.CodecType == ffprobe.TypeSubtitle {
			continue
		}
		rel, ok := pr.RelativeIndex(s.Index)
		if !ok {
			return Plan{}, fmt.Errorf("strip %s: stream %d missing from its own probe", pr.Path, s.Index)
		}
		maps = append(maps, Selector{Input: 0, Type: typeLetter(s.CodecType), Rel: rel})
	}

	if len(maps) == 0 {
		return Plan{}, errors.New("strip " + pr.Path + ": no non-subtitle streams to keep")
	}

	// Then the kept subtitle streams, in probe order.
	subRel := -1
	for _, s := range pr.Streams {
		if s.CodecType != ffprobe.TypeSubtitle {
			continue
		}
		subRel++
		kind := classify.Subtitle(s.Title, s.Language, s.Forced)
		if classify.Keeps(keep, kind) {
			maps = append(maps, Selector{Input: 0, Type: "s", Rel: subRel})
		}
	}

	return Plan{
		Inputs:    []string{pr.Path},
		Maps:      maps,
		CodecArgs: []string{"-c", "copy"},
		Output:    pr.Path + TmpSuffix,
	}, nil
}
