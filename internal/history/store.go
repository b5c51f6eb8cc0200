// Package history records eezsync runs and their stage results in a local
// SQLite database so past runs can be listed with "eezsync history".
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/eezsync/internal/models"
)

// Run status values stored in runs.status
const (
	RunRunning   = "RUNNING"
	RunSucceeded = "SUCCEEDED"
	RunFailed    = "FAILED"
)

// Run represents one recorded invocation
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	Modes      []string
	ProjectDir string
	Status     string
	Duration   time.Duration
	Stages     []*StageRecord
}

// StageRecord represents one stage row of a run
type StageRecord struct {
	ID           int64
	RunID        string
	Stage        string
	Status       string
	Processed    int
	Created      int
	Skipped      int
	Warnings     []string
	ErrorMessage string
	Duration     time.Duration
	RecordedAt   time.Time
}

// Store manages the SQLite run history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath and applies
// migrations. ":memory:" opens an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent across queries
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartRun inserts a run row in RUNNING state.
func (s *Store) StartRun(ctx context.Context, runID string, started time.Time, modes []string, projectDir string) error {
	modesJSON, err := json.Marshal(modes)
	if err != nil {
		return fmt.Errorf("marshal modes: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, modes, project_dir, status) VALUES (?, ?, ?, ?, ?)`,
		runID, started.UTC(), string(modesJSON), projectDir, RunRunning)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordStage appends a stage result to a run.
func (s *Store) RecordStage(ctx context.Context, runID string, result models.StageResult) error {
	warnings := "[]"
	if len(result.Warnings) > 0 {
		data, err := json.Marshal(result.Warnings)
		if err != nil {
			return fmt.Errorf("marshal warnings: %w", err)
		}
		warnings = string(data)
	}

	var errMsg string
	if result.Error != nil {
		errMsg = result.Error.Error()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stage_results
		(run_id, stage, status, processed, created, skipped, warnings, error_message, duration_ms, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, result.Stage, result.Status, result.Processed, result.Created, result.Skipped,
		warnings, errMsg, result.Duration.Milliseconds(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert stage result: %w", err)
	}
	return nil
}

// FinishRun marks the run complete with its final status and duration.
func (s *Store) FinishRun(ctx context.Context, summary models.RunSummary) error {
	status := RunSucceeded
	if len(summary.FailedStages()) > 0 {
		status = RunFailed
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, duration_ms = ? WHERE id = ?`,
		time.Now().UTC(), status, summary.Duration.Milliseconds(), summary.RunID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found", summary.RunID)
	}
	return nil
}

// Recent returns the most recent runs, newest first, with their stages.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, modes, project_dir, status, duration_ms
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var finished sql.NullTime
		var modes string
		var projectDir sql.NullString
		var durationMs int64
		if err := rows.Scan(&run.ID, &run.StartedAt, &finished, &modes, &projectDir, &run.Status, &durationMs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		if err := json.Unmarshal([]byte(modes), &run.Modes); err != nil {
			return nil, fmt.Errorf("unmarshal modes for run %s: %w", run.ID, err)
		}
		run.ProjectDir = projectDir.String
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	rows.Close()

	for _, run := range runs {
		stages, err := s.stagesForRun(ctx, run.ID)
		if err != nil {
			return nil, err
		}
		run.Stages = stages
	}
	return runs, nil
}

func (s *Store) stagesForRun(ctx context.Context, runID string) ([]*StageRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, stage, status, processed, created, skipped, warnings, error_message, duration_ms, recorded_at
		FROM stage_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query stages: %w", err)
	}
	defer rows.Close()

	var stages []*StageRecord
	for rows.Next() {
		st := &StageRecord{}
		var warnings, errMsg sql.NullString
		var durationMs int64
		if err := rows.Scan(&st.ID, &st.RunID, &st.Stage, &st.Status, &st.Processed, &st.Created, &st.Skipped,
			&warnings, &errMsg, &durationMs, &st.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		if warnings.Valid && warnings.String != "" {
			if err := json.Unmarshal([]byte(warnings.String), &st.Warnings); err != nil {
				return nil, fmt.Errorf("unmarshal warnings: %w", err)
			}
		}
		st.ErrorMessage = errMsg.String
		st.Duration = time.Duration(durationMs) * time.Millisecond
		stages = append(stages, st)
	}
	return stages, rows.Err()
}
