package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
)

const runColumns = `id, started_at, duration_ms, input_path, output_path, rules_path, unit,
	record_count, rule_count, skipped_sections, eval_errors`

// SaveRun stores a completed run and assigns its ID.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.Run) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (started_at, duration_ms, input_path, output_path, rules_path, unit,
			record_count, rule_count, skipped_sections, eval_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC(), run.Duration.Milliseconds(), run.InputPath, run.OutputPath, run.RulesPath,
		string(run.Unit), run.RecordCount, run.RuleCount, run.Skipped, run.EvalErrors)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_counts (run_id, result, count) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for level, count := range run.Counts {
		if _, err := stmt.ExecContext(ctx, id, level.String(), count); err != nil {
			return fmt.Errorf("failed to insert count for %s: %w", level, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	run.ID = id
	return nil
}

// GetRun returns a single run by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id int64) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadCounts(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or less
// returns every run.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	for i := range runs {
		if err := s.loadCounts(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var (
		run        model.Run
		durationMS int64
		unit       string
	)
	err := row.Scan(&run.ID, &run.StartedAt, &durationMS, &run.InputPath, &run.OutputPath, &run.RulesPath,
		&unit, &run.RecordCount, &run.RuleCount, &run.Skipped, &run.EvalErrors)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.Unit = model.Unit(unit)
	return &run, nil
}

func (s *SQLiteStorage) loadCounts(ctx context.Context, run *model.Run) error {
	rows, err := s.db.QueryContext(ctx, `SELECT result, count FROM run_counts WHERE run_id = ?`, run.ID)
	if err != nil {
		return fmt.Errorf("failed to query run counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	run.Counts = make(map[model.ScaleLevel]int)
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return fmt.Errorf("failed to scan run count: %w", err)
		}
		level, ok := model.ParseLabel(name)
		if !ok {
			continue
		}
		run.Counts[level] = count
	}
	return rows.Err()
}
