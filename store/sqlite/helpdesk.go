package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/warp/hr-extensions/helpdesk"
	"github.com/warp/hr-extensions/hr"
)

var _ helpdesk.Store = (*Store)(nil)

// =============================================================================
// HELPDESK (helpdesk.Store)
// =============================================================================

const slaColumns = `id, name, sequence, active, sla_type, priority, description,
	start_date, end_date, time_to_resolve, time_to_respond, sla_status, company_id`

func (s *Store) CreateSLA(ctx context.Context, sla helpdesk.SLA) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var company sql.NullInt64
	if sla.CompanyID != nil {
		company = sql.NullInt64{Int64: int64(*sla.CompanyID), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO helpdesk_ticket_slas
		(name, sequence, active, sla_type, priority, description, start_date, end_date,
		 time_to_resolve, time_to_respond, sla_status, company_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sla.Name, sla.Sequence, sla.Active, sla.Type, sla.Priority, nullString(sla.Description),
		nullTime(sla.StartDate), nullTime(sla.EndDate),
		sla.TimeToResolve, sla.TimeToRespond, sla.Status, company,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create sla: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetSLA(ctx context.Context, id int64) (*helpdesk.SLA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+slaColumns+" FROM helpdesk_ticket_slas WHERE id = ?", id)
	sla, err := scanSLA(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &hr.NotFoundError{Kind: "sla", ID: id, Err: hr.ErrSLANotFound}
	}
	if err != nil {
		return nil, err
	}
	return &sla, nil
}

func (s *Store) ListSLAs(ctx context.Context, includeArchived bool) ([]helpdesk.SLA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + slaColumns + " FROM helpdesk_ticket_slas"
	var args []any
	if !includeArchived {
		query += " WHERE sla_status <> ?"
		args = append(args, helpdesk.StatusArchived)
	}
	query += " ORDER BY sequence ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query slas: %w", err)
	}
	defer rows.Close()

	slas := []helpdesk.SLA{}
	for rows.Next() {
		sla, err := scanSLA(rows)
		if err != nil {
			return nil, err
		}
		slas = append(slas, sla)
	}
	return slas, rows.Err()
}

func (s *Store) SetSLAStatus(ctx context.Context, id int64, status helpdesk.SLAStatus, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE helpdesk_ticket_slas SET sla_status = ?, active = ? WHERE id = ?", status, active, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update sla status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &hr.NotFoundError{Kind: "sla", ID: id, Err: hr.ErrSLANotFound}
	}
	return nil
}

func scanSLA(sc scanner) (helpdesk.SLA, error) {
	var (
		sla                helpdesk.SLA
		description        sql.NullString
		startDate, endDate sql.NullString
		company            sql.NullInt64
	)
	err := sc.Scan(
		&sla.ID, &sla.Name, &sla.Sequence, &sla.Active, &sla.Type, &sla.Priority, &description,
		&startDate, &endDate, &sla.TimeToResolve, &sla.TimeToRespond, &sla.Status, &company,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return sla, err
	}
	if err != nil {
		return sla, fmt.Errorf("failed to scan sla: %w", err)
	}

	sla.Description = description.String
	if sla.StartDate, err = timePtr(startDate); err != nil {
		return sla, err
	}
	if sla.EndDate, err = timePtr(endDate); err != nil {
		return sla, err
	}
	if company.Valid {
		c := hr.CompanyID(company.Int64)
		sla.CompanyID = &c
	}
	return sla, nil
}

func (s *Store) CreateTag(ctx context.Context, t helpdesk.Tag) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "INSERT INTO helpdesk_tags (name) VALUES (?)", t.Name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, fmt.Errorf("tag %q: %w", t.Name, hr.ErrDuplicate)
		}
		return 0, fmt.Errorf("failed to create tag: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) ListTags(ctx context.Context) ([]helpdesk.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM helpdesk_tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := []helpdesk.Tag{}
	for rows.Next() {
		var t helpdesk.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
