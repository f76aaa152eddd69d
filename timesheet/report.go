/*
Package timesheet provides the timesheet analysis reporting view.

PURPOSE:
  Exposes analytic lines that belong to a project as a read-only,
  always-current database view. Reports (JSON, summaries, XLSX) read the
  view instead of the underlying table.

QUERY COMPOSITION:
  The view's SQL is "<select> <from> <where>", built from three fragments
  supplied by a QueryParts value. DefaultParts selects the analytic line
  columns, reads account_analytic_line and keeps only lines with a project.
  Embed DefaultParts and override one method to change a single fragment:

    type billableOnly struct{ timesheet.DefaultParts }
    func (billableOnly) Where() string {
        return "WHERE A.project_id IS NOT NULL AND A.amount <> '0'"
    }

LIFECYCLE:
  Init() drops the view if it exists and recreates it. It runs every time the
  server starts, so a changed definition takes effect on restart. The view is
  not materialized; each read sees the current table contents.

SEE ALSO:
  - export.go: XLSX export of report rows
  - store/sqlite/sqlite.go: account_analytic_line schema, view init at startup
*/
package timesheet

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/hr-extensions/hr"
)

// ViewName is the name of the reporting view.
const ViewName = "timesheets_analysis_report"

// =============================================================================
// ANALYTIC LINE - Source records of the view
// =============================================================================

// AnalyticLine is a time/cost entry. References are nil when unset.
type AnalyticLine struct {
	ID           int64
	Name         string
	UserID       *int64
	ProjectID    *int64
	TaskID       *int64
	ParentTaskID *int64
	EmployeeID   *int64
	ManagerID    *int64
	CompanyID    *int64
	DepartmentID *int64
	CurrencyID   *int64
	Date         time.Time
	Amount       decimal.Decimal
	UnitAmount   decimal.Decimal // time spent, hours
	PartnerID    *int64
}

// Row is one row of the reporting view, plus the task's milestone.
type Row struct {
	AnalyticLine
	MilestoneID *int64
}

// =============================================================================
// QUERY PARTS
// =============================================================================

// QueryParts supplies the three fragments of the view query.
type QueryParts interface {
	Select() string
	From() string
	Where() string
}

// DefaultParts is the standard timesheet analysis query.
type DefaultParts struct{}

func (DefaultParts) Select() string {
	return `
		SELECT
			A.id AS id,
			A.name AS name,
			A.user_id AS user_id,
			A.project_id AS project_id,
			A.task_id AS task_id,
			A.parent_task_id AS parent_task_id,
			A.employee_id AS employee_id,
			A.manager_id AS manager_id,
			A.company_id AS company_id,
			A.department_id AS department_id,
			A.currency_id AS currency_id,
			A.date AS date,
			A.amount AS amount,
			A.unit_amount AS unit_amount,
			A.partner_id AS partner_id
	`
}

func (DefaultParts) From() string { return "FROM account_analytic_line A" }

// Where keeps lines that have a project.
func (DefaultParts) Where() string { return "WHERE A.project_id IS NOT NULL" }

// =============================================================================
// ANALYSIS REPORT
// =============================================================================

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// AnalysisReport is the timesheet analysis view definition.
type AnalysisReport struct {
	Name  string
	Parts QueryParts
}

// NewAnalysisReport returns the report with the default query parts.
func NewAnalysisReport() *AnalysisReport {
	return &AnalysisReport{Name: ViewName, Parts: DefaultParts{}}
}

// TableQuery is the SQL the view is defined by.
func (r *AnalysisReport) TableQuery() string {
	return fmt.Sprintf("%s %s %s", r.Parts.Select(), r.Parts.From(), r.Parts.Where())
}

// Init drops and recreates the view.
func (r *AnalysisReport) Init(ctx context.Context, db Execer) error {
	name := quoteIdent(r.Name)
	if _, err := db.ExecContext(ctx, "DROP VIEW IF EXISTS "+name); err != nil {
		return fmt.Errorf("failed to drop view %s: %w", r.Name, err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE VIEW %s AS %s", name, r.TableQuery())); err != nil {
		return fmt.Errorf("failed to create view %s: %w", r.Name, err)
	}
	return nil
}

// Filter narrows Rows. Zero-valued fields do not filter.
type Filter struct {
	ProjectID  int64
	EmployeeID int64
	From       *time.Time // date >= From
	To         *time.Time // date <= To
}

// Rows reads the view, ordered by date then id.
func (r *AnalysisReport) Rows(ctx context.Context, db Querier, f Filter) ([]Row, error) {
	var (
		where []string
		args  []any
	)
	if f.ProjectID != 0 {
		where = append(where, "R.project_id = ?")
		args = append(args, f.ProjectID)
	}
	if f.EmployeeID != 0 {
		where = append(where, "R.employee_id = ?")
		args = append(args, f.EmployeeID)
	}
	if f.From != nil {
		where = append(where, "R.date >= ?")
		args = append(args, hr.FormatDate(*f.From))
	}
	if f.To != nil {
		where = append(where, "R.date <= ?")
		args = append(args, hr.FormatDate(*f.To))
	}

	query := `
		SELECT R.id, R.name, R.user_id, R.project_id, R.task_id, R.parent_task_id,
		       R.employee_id, R.manager_id, R.company_id, R.department_id, R.currency_id,
		       R.date, R.amount, R.unit_amount, R.partner_id, T.milestone_id
		FROM ` + quoteIdent(r.Name) + ` R
		LEFT JOIN project_task T ON T.id = R.task_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY R.date ASC, R.id ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.Name, err)
	}
	defer rows.Close()

	result := []Row{}
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanRow(rows *sql.Rows) (Row, error) {
	var (
		row  Row
		name sql.NullString
		date string

		user, project, task, parentTask, employee, manager sql.NullInt64
		company, department, currency, partner, milestone  sql.NullInt64
	)
	err := rows.Scan(
		&row.ID, &name, &user, &project, &task, &parentTask,
		&employee, &manager, &company, &department, &currency,
		&date, &row.Amount, &row.UnitAmount, &partner, &milestone,
	)
	if err != nil {
		return row, fmt.Errorf("failed to scan report row: %w", err)
	}

	row.Name = name.String
	row.UserID = nullInt(user)
	row.ProjectID = nullInt(project)
	row.TaskID = nullInt(task)
	row.ParentTaskID = nullInt(parentTask)
	row.EmployeeID = nullInt(employee)
	row.ManagerID = nullInt(manager)
	row.CompanyID = nullInt(company)
	row.DepartmentID = nullInt(department)
	row.CurrencyID = nullInt(currency)
	row.PartnerID = nullInt(partner)
	row.MilestoneID = nullInt(milestone)
	if row.Date, err = hr.ParseDate(date); err != nil {
		return row, fmt.Errorf("failed to parse report date %q: %w", date, err)
	}
	return row, nil
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
