package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/warp/hr-extensions/hr"
)

var _ hr.LeaveStore = (*Store)(nil)

// =============================================================================
// LEAVES (hr.LeaveStore)
// =============================================================================

// SaveLeave inserts a leave. Dates are stored as UTC datetimes.
func (s *Store) SaveLeave(ctx context.Context, l hr.Leave) (hr.LeaveID, error) {
	if !l.State.Valid() {
		return 0, &hr.InvalidChoiceError{Field: "state", Value: string(l.State), Err: hr.ErrInvalidLeaveState}
	}
	if l.DateTo.Before(l.DateFrom) {
		return 0, hr.ErrInvalidPeriod
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO leaves (employee_id, date_from, date_to, state, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, l.EmployeeID, hr.FormatDateTime(l.DateFrom), hr.FormatDateTime(l.DateTo), l.State, now())
	if err != nil {
		if isForeignKeyError(err) {
			return 0, &hr.NotFoundError{Kind: "employee", ID: int64(l.EmployeeID), Err: hr.ErrEmployeeNotFound}
		}
		return 0, fmt.Errorf("failed to save leave: %w", err)
	}
	id, err := res.LastInsertId()
	return hr.LeaveID(id), err
}

// SearchLeaves returns leaves matching the filter in insertion order,
// with the employee name joined in.
func (s *Store) SearchLeaves(ctx context.Context, f hr.LeaveFilter) ([]hr.Leave, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	// Stored datetimes have whole seconds: rounding the lower bound up keeps
	// date_from >= value exact, and truncating the upper bound keeps <= exact.
	if f.StartsOnOrAfter != nil {
		where = append(where, "l.date_from >= ?")
		args = append(args, hr.FormatDateTime(ceilSecond(*f.StartsOnOrAfter)))
	}
	if f.EndsOnOrBefore != nil {
		where = append(where, "l.date_to <= ?")
		args = append(args, hr.FormatDateTime(*f.EndsOnOrBefore))
	}
	if f.State != "" {
		where = append(where, "l.state = ?")
		args = append(args, f.State)
	}
	if f.EmployeeID != 0 {
		where = append(where, "l.employee_id = ?")
		args = append(args, f.EmployeeID)
	}

	query := `
		SELECT l.id, l.employee_id, e.name, l.date_from, l.date_to, l.state
		FROM leaves l
		JOIN employees e ON e.id = l.employee_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY l.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	leaves := []hr.Leave{}
	for rows.Next() {
		var (
			l        hr.Leave
			from, to string
		)
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.EmployeeName, &from, &to, &l.State); err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		if l.DateFrom, err = hr.ParseDateTime(from); err != nil {
			return nil, fmt.Errorf("failed to parse leave %d date_from: %w", l.ID, err)
		}
		if l.DateTo, err = hr.ParseDateTime(to); err != nil {
			return nil, fmt.Errorf("failed to parse leave %d date_to: %w", l.ID, err)
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}
