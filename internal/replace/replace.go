// Package replace swaps a freshly muxed temp file into the place of the
// original container without ever leaving the caller with zero copies of the
// data. The original is parked under a .bak name for the duration of the swap
// and restored byte for byte when the final rename fails.
package replace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"subtool/internal/logging"
)

// BakSuffix marks the parked original during a swap.
const BakSuffix = ".bak"

// ReplaceError reports a failed swap. When RestoreErr is nil the original file
// was restored intact before the error was returned.
type ReplaceError struct {
	Path       string
	Err        error
	RestoreErr error
}

func (e *ReplaceError) Error() string {
	if e.RestoreErr != nil {
		return fmt.Sprintf("replace %s: install temp file failed (%v) and restoring original failed: %v",
			e.Path, e.Err, e.RestoreErr)
	}
	return fmt.Sprintf("replace %s: install temp file: %v (original restored)", e.Path, e.Err)
}

func (e *ReplaceError) Unwrap() error { return e.Err }

// Replacer performs two-phase file replacement. The rename and remove seams
// exist so tests can inject failures at each phase.
type Replacer struct {
	logger *slog.Logger
	rename func(oldpath, newpath string) error
	remove func(path string) error
}

func NewReplacer(logger *slog.Logger) *Replacer {
	return &Replacer{
		logger: logging.NewComponentLogger(logger, "replace"),
		rename: os.Rename,
		remove: os.Remove,
	}
}

// Replace moves tmpPath into place at originalPath. On any failure the
// original file is restored and an error describing the failed phase is
// returned; tmpPath is consumed either way.
func (r *Replacer) Replace(originalPath, tmpPath string) error {
	if _, err := os.Stat(tmpPath); err != nil {
		return fmt.Errorf("replace %s: temp file missing: %w", originalPath, err)
	}

	bakPath := originalPath + BakSuffix

	// A stale backup from an interrupted earlier run would make the parking
	// rename clobber it silently on some platforms and fail on others.
	if err := r.remove(bakPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("replace %s: remove stale backup: %w", originalPath, err)
	}

	if err := r.rename(originalPath, bakPath); err != nil {
		return fmt.Errorf("replace %s: park original: %w", originalPath, err)
	}

	if err := r.rename(tmpPath, originalPath); err != nil {
		// Undo: drop whatever partial state exists at the destination, then
		// bring the parked original back.
		_ = r.remove(tmpPath)
		if restoreErr := r.rename(bakPath, originalPath); restoreErr != nil {
			return &ReplaceError{Path: originalPath, Err: err, RestoreErr: restoreErr}
		}
		return &ReplaceError{Path: originalPath, Err: err}
	}

	if err := r.remove(bakPath); err != nil {
		// The swap itself succeeded; a lingering backup only wastes space.
		r.logger.Warn("backup left behind after replace",
			logging.String("path", bakPath),
			logging.Error(err),
		)
	}

	r.logger.Debug("replaced original", logging.String("path", originalPath))
	return nil
}
