package batch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "batch.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRecordsRunHistory(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	runID, err := store.BeginRun(ctx, ModeStrip, "forced", 2)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	if err := store.RecordFile(ctx, runID, 1, "/media/a.mkv", StatusDone, nil); err != nil {
		t.Fatalf("RecordFile: %v", err)
	}
	if err := store.RecordFile(ctx, runID, 2, "/media/b.mkv", StatusFailed, errors.New("mux failed")); err != nil {
		t.Fatalf("RecordFile: %v", err)
	}
	if err := store.FinishRun(ctx, runID, Summary{Processed: 1, Failed: 1}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %+v", runs)
	}
	run := runs[0]
	if run.ID != runID || run.Mode != ModeStrip || run.Keep != "forced" {
		t.Fatalf("run = %+v", run)
	}
	if run.TotalFiles != 2 || run.Processed != 1 || run.Failed != 1 {
		t.Fatalf("counters = %+v", run)
	}
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		t.Fatalf("timestamps = %+v", run)
	}

	files, err := store.RunFiles(ctx, runID)
	if err != nil {
		t.Fatalf("RunFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %+v", files)
	}
	if files[0].Path != "/media/a.mkv" || files[0].Status != StatusDone || files[0].Error != "" {
		t.Fatalf("first file = %+v", files[0])
	}
	if files[1].Status != StatusFailed || files[1].Error != "mux failed" {
		t.Fatalf("second file = %+v", files[1])
	}
}

func TestStoreRecentRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.BeginRun(ctx, ModeExport, "", 1); err != nil {
			t.Fatalf("BeginRun: %v", err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit to apply, got %d runs", len(runs))
	}
	for _, run := range runs {
		if run.ID == "" || run.Mode != ModeExport {
			t.Fatalf("run = %+v", run)
		}
	}
}

func TestOpenStoreRejectsSecondLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.db")
	first, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer first.Close()

	if _, err := OpenStore(path); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestOpenStoreReleasesLockOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.db")
	first, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	_ = second.Close()
}
