package plan

import (
	"fmt"
	"path/filepath"

	"subtool/internal/classify"
	"subtool/internal/ffprobe"
)

// ExportPlan holds the primary text-mode plan for a subtitle export plus the
// stream-copy fallback used when text transcoding fails on an image-based
// codec.
type ExportPlan struct {
	// Text transcodes the selected stream to srt.
	Text Plan
	// Image copies the raw stream into a .sup container instead.
	Image Plan
	// Stream is the selected subtitle stream.
	Stream ffprobe.Stream
	// Kind is its derived classification, reflected in the output name.
	Kind classify.Kind
}

// ExportSubtitle plans the export of the subtitle stream at the given
// per-type relative index to a standalone file in outDir (the source file's
// directory when outDir is empty).
func ExportSubtitle(pr ffprobe.Result, relIdx int, outDir string) (ExportPlan, error) {
	stream, ok := pr.SubtitleByRelativeIndex(relIdx)
	if !ok {
		return ExportPlan{}, fmt.Errorf("%w: relative index %d in %s (%d subtitle streams)",
			ErrStreamNotFound, relIdx, pr.Path, len(pr.Subtitles()))
	}

	if outDir == "" {
		outDir = filepath.Dir(pr.Path)
	}
	kind := classify.Subtitle(stream.Title, stream.Language, stream.Forced)
	stem := exportStem(pr, stream, kind, relIdx)

	selector := []Selector{{Input: 0, Type: "s", Rel: relIdx}}

	text := Plan{
		Inputs:    []string{pr.Path},
		Maps:      selector,
		CodecArgs: []string{"-c:s", "srt"},
		Output:    filepath.Join(outDir, stem+".srt"),
	}
	image := Plan{
		Inputs:    []string{pr.Path},
		Maps:      selector,
		CodecArgs: []string{"-c", "copy"},
		Output:    filepath.Join(outDir, stem+".sup"),
	}

	return ExportPlan{Text: text, Image: image, Stream: stream, Kind: kind}, nil
}

// PreferText reports whether the text plan is worth attempting first. For
// known image-based codecs the caller can go straight to the copy fallback.
func (e ExportPlan) PreferText() bool {
	return IsTextSubtitle(e.Stream.CodecName)
}
