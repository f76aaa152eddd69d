package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/warp/hr-extensions/hr"
)

// =============================================================================
// DIGEST RUNS
// =============================================================================

const (
	DigestRunning   = "running"
	DigestCompleted = "completed"
	DigestFailed    = "failed"
)

// DigestRun records one upcoming-leave digest delivery.
type DigestRun struct {
	ID          string
	Status      string
	LeaveCount  int
	Recipients  []string
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// SaveDigestRun inserts or updates a run by ID.
func (s *Store) SaveDigestRun(ctx context.Context, run DigestRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO digest_runs (id, status, leave_count, recipients, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			leave_count = excluded.leave_count,
			recipients = excluded.recipients,
			error = excluded.error,
			completed_at = excluded.completed_at
	`,
		run.ID, run.Status, run.LeaveCount, nullString(strings.Join(run.Recipients, ",")),
		nullString(run.Error), hr.FormatDateTime(run.StartedAt), nullTime(run.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save digest run: %w", err)
	}
	return nil
}

// ListDigestRuns returns runs newest first, optionally filtered by status.
func (s *Store) ListDigestRuns(ctx context.Context, status string) ([]DigestRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, status, leave_count, recipients, error, started_at, completed_at FROM digest_runs"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY started_at DESC, rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query digest runs: %w", err)
	}
	defer rows.Close()

	runs := []DigestRun{}
	for rows.Next() {
		var (
			run                DigestRun
			recipients, errMsg sql.NullString
			started            string
			completed          sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Status, &run.LeaveCount, &recipients, &errMsg, &started, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan digest run: %w", err)
		}
		if recipients.String != "" {
			run.Recipients = strings.Split(recipients.String, ",")
		}
		run.Error = errMsg.String
		if run.StartedAt, err = hr.ParseDateTime(started); err != nil {
			return nil, err
		}
		if run.CompletedAt, err = timePtr(completed); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
