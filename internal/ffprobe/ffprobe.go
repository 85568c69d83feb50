package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"subtool/internal/logging"
)

// Stream codec types as reported by ffprobe.
const (
	TypeVideo      = "video"
	TypeAudio      = "audio"
	TypeSubtitle   = "subtitle"
	TypeData       = "data"
	TypeAttachment = "attachment"
)

// Stream describes a single stream in a media container.
type Stream struct {
	// Index is the absolute position across all streams in the container.
	Index     int
	CodecType string
	CodecName string
	Language  string
	Title     string
	Forced    bool
	Default   bool
}

// Result owns the ordered stream inventory of one probed file. It is built
// fresh on every probe call and never mutated afterwards.
type Result struct {
	Path    string
	Streams []Stream
}

// ProbeError reports that ffprobe could not analyze a file.
type ProbeError struct {
	Path   string
	Output string
	Err    error
}

func (e *ProbeError) Error() string {
	msg := fmt.Sprintf("probe %s: %v", e.Path, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *ProbeError) Unwrap() error { return e.Err }

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Prober runs ffprobe against media files.
type Prober struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

// NewProber constructs a prober that invokes the given ffprobe binary.
func NewProber(binary string, logger *slog.Logger) *Prober {
	return &Prober{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "probe"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner injects a custom command runner for tests.
func (p *Prober) WithCommandRunner(r commandRunner) {
	if p != nil && r != nil {
		p.run = r
	}
}

// Probe inspects a file and returns its stream inventory.
func (p *Prober) Probe(ctx context.Context, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, &ProbeError{Path: path, Err: errors.New("empty path")}
	}

	args := []string{"-v", "error", "-show_streams", "-print_format", "json", "--", path}
	output, err := p.run(ctx, p.binary, args...)
	if err != nil {
		return Result{}, &ProbeError{Path: path, Output: string(output), Err: err}
	}

	streams, err := parseStreams(output)
	if err != nil {
		return Result{}, &ProbeError{Path: path, Output: string(output), Err: err}
	}

	p.logger.Debug("probed file",
		logging.String("path", path),
		logging.Int("streams", len(streams)),
	)
	return Result{Path: path, Streams: streams}, nil
}

// DurationSeconds asks ffprobe for only the container-level duration. The
// boolean reports whether a usable value came back; failures are not errors
// because duration is only used for progress estimation.
func (p *Prober) DurationSeconds(ctx context.Context, path string) (float64, bool) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=nk=1:nw=1",
		"--", path,
	}
	output, err := p.run(ctx, p.binary, args...)
	if err != nil {
		p.logger.Debug("duration probe failed", logging.Error(err), logging.String("path", path))
		return 0, false
	}
	text := strings.TrimSpace(string(output))
	if text == "" {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(text, 64)
	if err != nil || seconds <= 0 {
		return 0, false
	}
	return seconds, true
}

// rawStream mirrors the ffprobe JSON entry shape. Tag keys vary in case and
// disposition values arrive as 0/1 markers.
type rawStream struct {
	Index       *int           `json:"index"`
	CodecType   string         `json:"codec_type"`
	CodecName   string         `json:"codec_name"`
	Tags        map[string]any `json:"tags"`
	Disposition map[string]any `json:"disposition"`
}

func parseStreams(payload []byte) ([]Stream, error) {
	var decoded struct {
		Streams []rawStream `json:"streams"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	streams := make([]Stream, 0, len(decoded.Streams))
	for _, raw := range decoded.Streams {
		ctype := strings.TrimSpace(raw.CodecType)
		if ctype == "" {
			continue
		}
		index := -1
		if raw.Index != nil {
			index = *raw.Index
		}
		streams = append(streams, Stream{
			Index:     index,
			CodecType: ctype,
			CodecName: raw.CodecName,
			Language:  tagValue(raw.Tags, "language"),
			Title:     tagValue(raw.Tags, "title"),
			Forced:    dispositionFlag(raw.Disposition, "forced"),
			Default:   dispositionFlag(raw.Disposition, "default"),
		})
	}
	return streams, nil
}

// tagValue looks up a tag key case-insensitively (ffprobe emits both
// "language" and "LANGUAGE" depending on the muxer).
func tagValue(tags map[string]any, key string) string {
	for k, v := range tags {
		if strings.EqualFold(k, key) {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// dispositionFlag interprets a disposition entry as set only when its value
// renders exactly as "1".
func dispositionFlag(disposition map[string]any, key string) bool {
	value, ok := disposition[key]
	if !ok {
		return false
	}
	switch v := value.(type) {
	case string:
		return v == "1"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64) == "1"
	case bool:
		return v
	default:
		return false
	}
}
