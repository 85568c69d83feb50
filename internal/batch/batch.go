package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"subtool/internal/classify"
	"subtool/internal/ffmpeg"
	"subtool/internal/ffprobe"
	"subtool/internal/logging"
	"subtool/internal/plan"
	"subtool/internal/preflight"
)

// Mode selects the per-file operation of a run.
type Mode string

const (
	// ModeStrip remuxes each file keeping only the requested subtitle kinds
	// and replaces the original in place.
	ModeStrip Mode = "strip"
	// ModeExport writes each file's subtitle streams out as sidecar files,
	// leaving the original untouched.
	ModeExport Mode = "export"
)

// FileStatus is the recorded outcome of one file.
type FileStatus string

const (
	StatusDone    FileStatus = "done"
	StatusSkipped FileStatus = "skipped"
	StatusFailed  FileStatus = "failed"
)

// Request describes a batch run.
type Request struct {
	Mode  Mode
	Files []string
	// Keep filters subtitle kinds. For strip it names the kinds that survive
	// (empty removes every subtitle). For export it limits which streams are
	// written (empty exports them all).
	Keep []classify.Kind
	// OutputDir receives exported sidecar files; empty means next to the
	// source. Ignored for strip.
	OutputDir string
}

// Event is one progress update during a run.
type Event struct {
	File       string
	FileIndex  int
	TotalFiles int
	Percent    int
}

// FileResult is the outcome of one file.
type FileResult struct {
	File   string
	Status FileStatus
	Err    error
}

// Summary aggregates a finished run.
type Summary struct {
	RunID     string
	Results   []FileResult
	Processed int
	Skipped   int
	Failed    int
	// Stopped is set when the run ended early on a stop request or context
	// cancellation.
	Stopped bool
}

// Prober yields stream layouts for input files.
type Prober interface {
	Probe(ctx context.Context, path string) (ffprobe.Result, error)
}

// Muxer executes planned commands with a progress callback.
type Muxer interface {
	RunFunc(ctx context.Context, p plan.Plan, onProgress func(int)) error
}

// Replacer swaps a temp mux result into the original's place.
type Replacer interface {
	Replace(originalPath, tmpPath string) error
}

// Runner processes files sequentially. Construct with NewRunner; zero value is
// not usable.
type Runner struct {
	probe    Prober
	mux      Muxer
	replacer Replacer
	store    *Store
	logger   *slog.Logger

	// checkSpace guards in-place rewrites; swapped out in tests.
	checkSpace func(path string) preflight.Result

	stopped atomic.Bool
}

// NewRunner wires a batch runner. store may be nil to skip history recording.
func NewRunner(probe Prober, mux Muxer, replacer Replacer, store *Store, logger *slog.Logger) *Runner {
	return &Runner{
		probe:      probe,
		mux:        mux,
		replacer:   replacer,
		store:      store,
		logger:     logging.NewComponentLogger(logger, "batch"),
		checkSpace: preflight.CheckRewriteSpace,
	}
}

// Stop requests a cooperative stop. The file currently being muxed finishes;
// remaining files are not started.
func (r *Runner) Stop() { r.stopped.Store(true) }

// Run processes every file in the request. Per-file failures are collected in
// the summary, not returned; the error return covers setup problems only.
func (r *Runner) Run(ctx context.Context, req Request, onEvent func(Event)) (Summary, error) {
	if err := validate(req); err != nil {
		return Summary{}, err
	}
	r.stopped.Store(false)

	var summary Summary
	if r.store != nil {
		runID, err := r.store.BeginRun(ctx, req.Mode, keepString(req.Keep), len(req.Files))
		if err != nil {
			return Summary{}, err
		}
		summary.RunID = runID
	}

	r.logger.Info("batch started",
		logging.String("mode", string(req.Mode)),
		logging.Int("files", len(req.Files)),
		logging.String("keep", keepString(req.Keep)),
	)

	for i, file := range req.Files {
		if r.stopped.Load() || ctx.Err() != nil {
			summary.Stopped = true
			break
		}

		emit := func(percent int) {
			if onEvent != nil {
				onEvent(Event{File: file, FileIndex: i + 1, TotalFiles: len(req.Files), Percent: percent})
			}
		}

		status, err := r.processFile(ctx, req, file, emit)
		result := FileResult{File: file, Status: status, Err: err}
		summary.Results = append(summary.Results, result)
		switch status {
		case StatusDone:
			summary.Processed++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
			r.logger.Warn("file failed", logging.String("file", file), logging.Error(err))
		}

		if r.store != nil {
			if recErr := r.store.RecordFile(ctx, summary.RunID, i+1, file, status, err); recErr != nil {
				r.logger.Warn("history write failed", logging.Error(recErr))
			}
		}
	}

	if r.store != nil {
		if err := r.store.FinishRun(ctx, summary.RunID, summary); err != nil {
			r.logger.Warn("history write failed", logging.Error(err))
		}
	}

	r.logger.Info("batch finished",
		logging.Int("processed", summary.Processed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Bool("stopped", summary.Stopped),
	)
	return summary, nil
}

func validate(req Request) error {
	switch req.Mode {
	case ModeStrip, ModeExport:
	default:
		return fmt.Errorf("batch: unknown mode %q", req.Mode)
	}
	if len(req.Files) == 0 {
		return errors.New("batch: no files to process")
	}
	return nil
}

func (r *Runner) processFile(ctx context.Context, req Request, file string, emit func(int)) (FileStatus, error) {
	pr, err := r.probe.Probe(ctx, file)
	if err != nil {
		return StatusFailed, err
	}
	if pr.CountType(ffprobe.TypeSubtitle) == 0 {
		r.logger.Info("no subtitle streams", logging.String("file", file))
		return StatusSkipped, nil
	}

	switch req.Mode {
	case ModeStrip:
		return r.stripFile(ctx, pr, req.Keep, emit)
	default:
		return r.exportFile(ctx, pr, req, emit)
	}
}

func (r *Runner) stripFile(ctx context.Context, pr ffprobe.Result, keep []classify.Kind, emit func(int)) (FileStatus, error) {
	if res := r.checkSpace(pr.Path); !res.Passed {
		return StatusFailed, fmt.Errorf("preflight: %s", res.Detail)
	}

	p, err := plan.StripSubtitles(pr, keep)
	if err != nil {
		return StatusFailed, err
	}
	if err := r.mux.RunFunc(ctx, p, emit); err != nil {
		return StatusFailed, err
	}
	if err := r.replacer.Replace(pr.Path, p.Output); err != nil {
		return StatusFailed, err
	}
	return StatusDone, nil
}

func (r *Runner) exportFile(ctx context.Context, pr ffprobe.Result, req Request, emit func(int)) (FileStatus, error) {
	exported := 0
	for _, stream := range pr.Subtitles() {
		rel, ok := pr.RelativeIndex(stream.Index)
		if !ok {
			continue
		}
		kind := classify.Subtitle(stream.Title, stream.Language, stream.Forced)
		if len(req.Keep) > 0 && !classify.Keeps(req.Keep, kind) {
			continue
		}

		ep, err := plan.ExportSubtitle(pr, rel, req.OutputDir)
		if err != nil {
			return StatusFailed, err
		}
		if _, err := ExportStream(ctx, r.mux, r.logger, ep, emit); err != nil {
			return StatusFailed, err
		}
		exported++
	}
	if exported == 0 {
		return StatusSkipped, nil
	}
	return StatusDone, nil
}

// ExportStream runs one planned subtitle export and returns the path written.
// Text codecs are converted to SRT first; when ffmpeg rejects the conversion
// the stream is copied out in its native format instead.
func ExportStream(ctx context.Context, mux Muxer, logger *slog.Logger, ep plan.ExportPlan, onProgress func(int)) (string, error) {
	if !ep.PreferText() {
		return ep.Image.Output, mux.RunFunc(ctx, ep.Image, onProgress)
	}
	err := mux.RunFunc(ctx, ep.Text, onProgress)
	if err == nil {
		return ep.Text.Output, nil
	}
	var muxErr *ffmpeg.MuxError
	if !errors.As(err, &muxErr) {
		return "", err
	}
	logger.Warn("text export failed, retrying as stream copy",
		logging.String("output", ep.Text.Output),
		logging.Error(err),
	)
	return ep.Image.Output, mux.RunFunc(ctx, ep.Image, onProgress)
}

func keepString(keep []classify.Kind) string {
	if len(keep) == 0 {
		return ""
	}
	parts := make([]string, len(keep))
	for i, k := range keep {
		parts[i] = string(k)
	}
	return strings.Join(parts, "+")
}
