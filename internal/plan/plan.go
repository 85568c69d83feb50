package plan

import (
	"errors"
	"strconv"

	"subtool/internal/ffprobe"
)

// ErrStreamNotFound reports that a requested relative subtitle index does not
// exist in the probed inventory. It is never silently substituted.
var ErrStreamNotFound = errors.New("subtitle stream not found")

// Selector is one -map argument: a per-type relative selection within an
// input, or a whole-input passthrough when Type is empty.
type Selector struct {
	Input int
	Type  string // ffmpeg type letter: v, a, s, d, t
	Rel   int
}

// Arg renders the selector in ffmpeg -map syntax.
func (s Selector) Arg() string {
	if s.Type == "" {
		return strconv.Itoa(s.Input)
	}
	return strconv.Itoa(s.Input) + ":" + s.Type + ":" + strconv.Itoa(s.Rel)
}

// Disposition is a per-output-track disposition override.
type Disposition struct {
	Type  string // "a" or "s"
	Rel   int
	Value string // "default" or "0"
}

// Metadata is a per-output-stream metadata assignment.
type Metadata struct {
	Spec  string // e.g. "s:s:2"
	Key   string
	Value string
}

// Plan is a fully computed ffmpeg invocation.
type Plan struct {
	Inputs       []string
	Maps         []Selector
	CodecArgs    []string
	Dispositions []Disposition
	Metadata     []Metadata
	Output       string
}

// PrincipalInput is the input whose duration anchors progress reporting.
func (p Plan) PrincipalInput() string {
	if len(p.Inputs) == 0 {
		return ""
	}
	return p.Inputs[0]
}

// Args renders the complete ffmpeg argument list (without the binary name).
func (p Plan) Args() []string {
	args := make([]string, 0, 8+2*len(p.Inputs)+2*len(p.Maps))
	args = append(args, "-y")
	for _, input := range p.Inputs {
		args = append(args, "-i", input)
	}
	for _, m := range p.Maps {
		args = append(args, "-map", m.Arg())
	}
	args = append(args, p.CodecArgs...)
	for _, d := range p.Dispositions {
		args = append(args, "-disposition:"+d.Type+":"+strconv.Itoa(d.Rel), d.Value)
	}
	for _, m := range p.Metadata {
		args = append(args, "-metadata:"+m.Spec, m.Key+"="+m.Value)
	}
	args = append(args, p.Output)
	return args
}

// typeLetter maps a probed codec type to the ffmpeg stream-specifier letter.
func typeLetter(codecType string) string {
	switch codecType {
	case ffprobe.TypeVideo:
		return "v"
	case ffprobe.TypeAudio:
		return "a"
	case ffprobe.TypeSubtitle:
		return "s"
	case ffprobe.TypeAttachment:
		return "t"
	default:
		return "d"
	}
}
