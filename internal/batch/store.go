package batch

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current history schema. Bump on schema changes; users
// clear the database after a mismatch.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrLocked indicates another process holds the batch lock.
var ErrLocked = errors.New("another batch run is in progress")

// RunRecord is one row of batch history.
type RunRecord struct {
	ID         string
	Mode       Mode
	Keep       string
	TotalFiles int
	Processed  int
	Skipped    int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// FileRecord is one per-file outcome within a run.
type FileRecord struct {
	Position int
	Path     string
	Status   FileStatus
	Error    string
}

// Store persists batch run history in SQLite. Opening the store also takes an
// exclusive file lock next to the database so concurrent batch invocations
// fail fast instead of interleaving writes to the same media files.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// OpenStore connects to (or creates) the history database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version.Int64 != schemaVersion:
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version.Int64, schemaVersion, s.path)
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close releases the database and the batch lock.
func (s *Store) Close() error {
	err := s.db.Close()
	if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
		err = unlockErr
	}
	return err
}

// BeginRun records the start of a run and returns its identifier.
func (s *Store) BeginRun(ctx context.Context, mode Mode, keep string, totalFiles int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO batch_runs(id, mode, keep, total_files, started_at) VALUES(?, ?, ?, ?, ?)",
		id, string(mode), keep, totalFiles, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("record run start: %w", err)
	}
	return id, nil
}

// RecordFile stores the outcome of one file within a run.
func (s *Store) RecordFile(ctx context.Context, runID string, position int, path string, status FileStatus, fileErr error) error {
	msg := ""
	if fileErr != nil {
		msg = fileErr.Error()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO batch_files(run_id, position, path, status, error) VALUES(?, ?, ?, ?, ?)",
		runID, position, path, string(status), msg,
	)
	if err != nil {
		return fmt.Errorf("record file outcome: %w", err)
	}
	return nil
}

// FinishRun stores the final counters for a run.
func (s *Store) FinishRun(ctx context.Context, runID string, summary Summary) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE batch_runs SET processed = ?, skipped = ?, failed = ?, finished_at = ? WHERE id = ?",
		summary.Processed, summary.Skipped, summary.Failed,
		time.Now().UTC().Format(time.RFC3339), runID,
	)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, keep, total_files, processed, skipped, failed, started_at, COALESCE(finished_at, '')
		 FROM batch_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var mode, started, finished string
		if err := rows.Scan(&rec.ID, &mode, &rec.Keep, &rec.TotalFiles,
			&rec.Processed, &rec.Skipped, &rec.Failed, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Mode = Mode(mode)
		rec.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished != "" {
			rec.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// RunFiles returns the per-file outcomes of a run in processing order.
func (s *Store) RunFiles(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT position, path, status, error FROM batch_files WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var rec FileRecord
		var status string
		if err := rows.Scan(&rec.Position, &rec.Path, &status, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		rec.Status = FileStatus(status)
		files = append(files, rec)
	}
	return files, rows.Err()
}
