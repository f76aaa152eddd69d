package sqlite

import (
	"context"
	"fmt"

	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/timesheet"
)

// =============================================================================
// ANALYTIC LINES AND TASKS
// =============================================================================

// Task is a project task; only the fields the report needs.
type Task struct {
	ID          int64
	Name        string
	ProjectID   *int64
	ParentID    *int64
	MilestoneID *int64
}

func (s *Store) SaveTask(ctx context.Context, t Task) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO project_task (name, project_id, parent_id, milestone_id) VALUES (?, ?, ?, ?)",
		t.Name, nullInt(t.ProjectID), nullInt(t.ParentID), nullInt(t.MilestoneID),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save task: %w", err)
	}
	return res.LastInsertId()
}

// SaveAnalyticLine inserts an analytic line and returns its ID.
func (s *Store) SaveAnalyticLine(ctx context.Context, l timesheet.AnalyticLine) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO account_analytic_line
		(name, user_id, project_id, task_id, parent_task_id, employee_id, manager_id,
		 company_id, department_id, currency_id, date, amount, unit_amount, partner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		nullString(l.Name), nullInt(l.UserID), nullInt(l.ProjectID), nullInt(l.TaskID),
		nullInt(l.ParentTaskID), nullInt(l.EmployeeID), nullInt(l.ManagerID),
		nullInt(l.CompanyID), nullInt(l.DepartmentID), nullInt(l.CurrencyID),
		hr.FormatDate(l.Date), l.Amount.String(), l.UnitAmount.String(),
		nullInt(l.PartnerID), now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save analytic line: %w", err)
	}
	return res.LastInsertId()
}

// TimesheetReport reads the timesheet analysis view.
func (s *Store) TimesheetReport(ctx context.Context, f timesheet.Filter) ([]timesheet.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.report.Rows(ctx, s.db, f)
}
