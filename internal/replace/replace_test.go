package replace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subtool/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestReplaceSwapsAndRemovesBackup(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "movie.mkv")
	tmp := filepath.Join(dir, "movie.mkv.tmp_mux.mkv")
	writeFile(t, original, "old container")
	writeFile(t, tmp, "new container")

	if err := NewReplacer(logging.NewNop()).Replace(original, tmp); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if got := readFile(t, original); got != "new container" {
		t.Fatalf("original content = %q", got)
	}
	if _, err := os.Stat(tmp); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file still present: %v", err)
	}
	if _, err := os.Stat(original + BakSuffix); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("backup still present: %v", err)
	}
}

func TestReplaceClearsStaleBackup(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "movie.mkv")
	tmp := filepath.Join(dir, "movie.mkv.tmp_mux.mkv")
	writeFile(t, original, "old container")
	writeFile(t, tmp, "new container")
	writeFile(t, original+BakSuffix, "leftover from a crashed run")

	if err := NewReplacer(logging.NewNop()).Replace(original, tmp); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if _, err := os.Stat(original + BakSuffix); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stale backup survived: %v", err)
	}
}

func TestReplaceMissingTempFile(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "movie.mkv")
	writeFile(t, original, "old container")

	err := NewReplacer(logging.NewNop()).Replace(original, filepath.Join(dir, "nope.mkv"))
	if err == nil {
		t.Fatal("expected error for missing temp file")
	}
	if got := readFile(t, original); got != "old container" {
		t.Fatalf("original mutated: %q", got)
	}
}

func TestReplaceRestoresOriginalOnInstallFailure(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "movie.mkv")
	tmp := filepath.Join(dir, "movie.mkv.tmp_mux.mkv")
	writeFile(t, original, "old container")
	writeFile(t, tmp, "new container")

	installErr := errors.New("device busy")
	r := NewReplacer(logging.NewNop())
	realRename := r.rename
	r.rename = func(oldpath, newpath string) error {
		// fail only the install phase, not the parking or restore renames
		if oldpath == tmp {
			return installErr
		}
		return realRename(oldpath, newpath)
	}

	err := r.Replace(original, tmp)
	if !errors.Is(err, installErr) {
		t.Fatalf("expected wrapped install error, got %v", err)
	}
	var repErr *ReplaceError
	if !errors.As(err, &repErr) || repErr.RestoreErr != nil {
		t.Fatalf("expected *ReplaceError with clean restore, got %v", err)
	}
	if !strings.Contains(err.Error(), "install temp file") {
		t.Fatalf("error does not name the failed phase: %v", err)
	}
	if got := readFile(t, original); got != "old container" {
		t.Fatalf("original not restored: %q", got)
	}
	if _, statErr := os.Stat(original + BakSuffix); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("backup left behind after restore: %v", statErr)
	}
}

func TestReplaceReportsFailedRestore(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "movie.mkv")
	tmp := filepath.Join(dir, "movie.mkv.tmp_mux.mkv")
	writeFile(t, original, "old container")
	writeFile(t, tmp, "new container")

	r := NewReplacer(logging.NewNop())
	realRename := r.rename
	r.rename = func(oldpath, newpath string) error {
		if oldpath == original {
			return realRename(oldpath, newpath)
		}
		return errors.New("filesystem remounted read-only")
	}

	err := r.Replace(original, tmp)
	if err == nil || !strings.Contains(err.Error(), "restoring original failed") {
		t.Fatalf("expected double-failure error, got %v", err)
	}
}
