package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrRunNotFound is returned when no run matches an ID or prefix.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousID is returned when an ID prefix matches several runs.
	ErrAmbiguousID = errors.New("run id prefix is ambiguous")
)

// storedTimeLayout is fixed width so timestamps sort lexically.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = "id, started_at, finished_at, status, preset_key, preset_name, source_dir, dest_dir, encoder, workers, succeeded, failed, skipped, cancelled, input_bytes, output_bytes"

// BeginRun records a new running batch and returns it with a fresh ID.
func (s *Store) BeginRun(ctx context.Context, meta RunMeta) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Status:    RunRunning,
		StartedAt: time.Now().UTC(),
		RunMeta:   meta,
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, started_at, status, preset_key, preset_name, source_dir, dest_dir, encoder, workers)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.Format(storedTimeLayout),
		string(run.Status),
		meta.PresetKey,
		meta.PresetName,
		meta.SourceDir,
		meta.DestDir,
		meta.Encoder,
		meta.Workers,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordTask stores the outcome of one file in a run.
func (s *Store) RecordTask(ctx context.Context, runID string, rec TaskRecord) error {
	_, err := s.execWithRetry(ctx,
		`INSERT INTO tasks (run_id, task_index, input_path, output_path, status, error_message, encoder, started_at, duration_ms, input_bytes, output_bytes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		rec.Index,
		rec.Input,
		rec.Output,
		rec.Status,
		nullableString(rec.Error),
		rec.Encoder,
		nullableTime(rec.StartedAt),
		rec.Duration.Milliseconds(),
		rec.InputBytes,
		rec.OutputBytes,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// FinishRun stores the final totals and status of a run.
func (s *Store) FinishRun(ctx context.Context, runID string, status RunStatus, totals Totals) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, succeeded = ?, failed = ?, skipped = ?, cancelled = ?, input_bytes = ?, output_bytes = ?
		 WHERE id = ?`,
		time.Now().UTC().Format(storedTimeLayout),
		string(status),
		totals.Succeeded,
		totals.Failed,
		totals.Skipped,
		totals.Cancelled,
		totals.InputBytes,
		totals.OutputBytes,
		runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun loads a run and its tasks by full ID or unique prefix.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return Run{}, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\\' ORDER BY started_at DESC LIMIT 2",
		idOrPrefix, escapeLike(idOrPrefix)+"%",
	)
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}
	var matches []Run
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			rows.Close()
			return Run{}, scanErr
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Run{}, err
	}

	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
	default:
		if matches[0].ID != idOrPrefix && matches[1].ID != idOrPrefix {
			return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousID, idOrPrefix)
		}
		if matches[1].ID == idOrPrefix {
			matches[0] = matches[1]
		}
	}

	run := matches[0]
	tasks, err := s.tasksForRun(ctx, run.ID)
	if err != nil {
		return Run{}, err
	}
	run.Tasks = tasks
	return run, nil
}

// Prune deletes all but the newest keep runs. keep <= 0 deletes nothing.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.execWithRetry(ctx,
		`DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY started_at DESC, id LIMIT ?)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) tasksForRun(ctx context.Context, runID string) ([]TaskRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT task_index, input_path, output_path, status, error_message, encoder, started_at, duration_ms, input_bytes, output_bytes
		 FROM tasks WHERE run_id = ? ORDER BY task_index`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskRecord
	for rows.Next() {
		var (
			rec        TaskRecord
			errMsg     sql.NullString
			startedRaw sql.NullString
			durationMS int64
		)
		if err := rows.Scan(&rec.Index, &rec.Input, &rec.Output, &rec.Status, &errMsg, &rec.Encoder,
			&startedRaw, &durationMS, &rec.InputBytes, &rec.OutputBytes); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		rec.Error = errMsg.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if startedRaw.Valid {
			if ts, err := parseTimeString(startedRaw.String); err == nil {
				rec.StartedAt = &ts
			}
		}
		tasks = append(tasks, rec)
	}
	return tasks, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
		status      string
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&status,
		&run.PresetKey,
		&run.PresetName,
		&run.SourceDir,
		&run.DestDir,
		&run.Encoder,
		&run.Workers,
		&run.Succeeded,
		&run.Failed,
		&run.Skipped,
		&run.Cancelled,
		&run.InputBytes,
		&run.OutputBytes,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Status = RunStatus(status)
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return value.UTC().Format(storedTimeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
