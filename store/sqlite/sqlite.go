/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements every persistence interface of the HR modules using SQLite.
  The same SQL works on PostgreSQL with minor dialect changes (AUTOINCREMENT,
  boolean literals).

INTERFACES IMPLEMENTED:
  hr.LeaveStore, hr.EmployeeStore, hr.SequenceStore, hr.AttendanceStore,
  hr.ContractStore, hr.CompanyStore, helpdesk.Store, mail.Store

KEY TABLES:
  employees:              Employees with sequence number and medical details
  sequences:              Numbering sequences (hr.employee seeded)
  leaves:                 Leave periods with approval state
  account_analytic_line:  Time/cost lines, source of the timesheet view
  project_task:           Tasks (milestone lookup for the report)
  helpdesk_ticket_slas:   Helpdesk SLAs
  mail_messages:          Discuss messages, with per-partner notifications/stars
  digest_runs:            Upcoming-leave digest deliveries

VIEWS:
  timesheets_analysis_report is created by InitViews(), which drops and
  recreates it. Call it after New() every time the server starts.

DATES:
  Dates are stored as TEXT "YYYY-MM-DD", datetimes as TEXT
  "YYYY-MM-DD HH:MM:SS" in UTC, so string comparison orders them correctly.
  Columns are never declared DATE/DATETIME, which would make the driver
  convert them to time.Time.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, like the ledger store this was
  modelled on. ":memory:" databases are pinned to one connection because each
  connection would otherwise see its own empty database.

USAGE:
  store, err := sqlite.New("./data/hr.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  if err := store.InitViews(ctx); err != nil { ... }

SEE ALSO:
  - hr/store.go: Interface definitions
  - hr/store/memory.go: In-memory implementation for testing
  - timesheet/report.go: View definition
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/timesheet"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	report *timesheet.AnalysisReport
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, report: timesheet.NewAnalysisReport()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Report returns the timesheet analysis view definition used by the store.
func (s *Store) Report() *timesheet.AnalysisReport {
	return s.report
}

// SetReport replaces the view definition. Call InitViews afterwards.
func (s *Store) SetReport(r *timesheet.AnalysisReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
}

// InitViews drops and recreates the reporting views.
func (s *Store) InitViews(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report.Init(ctx, s.db)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Companies (payslip branding)
	CREATE TABLE IF NOT EXISTS companies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		payslip_logo BLOB,
		payslip_sign BLOB,
		created_at TEXT NOT NULL
	);

	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		emp_seq TEXT NOT NULL DEFAULT '/',
		company_id INTEGER REFERENCES companies(id),
		department_id INTEGER,
		parent_id INTEGER REFERENCES employees(id),
		user_id INTEGER,
		allergies TEXT,
		blood_type TEXT,
		medications TEXT,
		emergency_contact TEXT,
		medical_status TEXT NOT NULL DEFAULT 'healthy'
			CHECK (medical_status IN ('healthy', 'under_treatment', 'recovered', 'critical', 'unknown')),
		created_at TEXT NOT NULL
	);

	-- Placeholder lookups for sequence backfill
	CREATE INDEX IF NOT EXISTS idx_employees_seq
		ON employees(emp_seq);

	-- Sequences
	CREATE TABLE IF NOT EXISTS sequences (
		code TEXT PRIMARY KEY,
		prefix TEXT NOT NULL DEFAULT '',
		padding INTEGER NOT NULL DEFAULT 0,
		next_number INTEGER NOT NULL DEFAULT 1,
		step INTEGER NOT NULL DEFAULT 1
	);

	INSERT OR IGNORE INTO sequences (code, prefix, padding, next_number, step)
		VALUES ('hr.employee', 'EMP', 4, 1, 1);

	-- Contracts
	CREATE TABLE IF NOT EXISTS contracts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		wage TEXT NOT NULL DEFAULT '0',
		currency TEXT NOT NULL DEFAULT 'lkr' CHECK (currency IN ('lkr', 'usd', 'gbp')),
		created_at TEXT NOT NULL
	);

	-- Leaves
	CREATE TABLE IF NOT EXISTS leaves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		date_from TEXT NOT NULL,
		date_to TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT 'draft',
		created_at TEXT NOT NULL
	);

	-- Upcoming leave lookups (hot path)
	CREATE INDEX IF NOT EXISTS idx_leaves_state_from
		ON leaves(state, date_from);

	-- Attendances
	CREATE TABLE IF NOT EXISTS attendances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		check_in TEXT NOT NULL,
		check_out TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_attendances_employee
		ON attendances(employee_id);

	-- Project tasks
	CREATE TABLE IF NOT EXISTS project_task (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		project_id INTEGER,
		parent_id INTEGER,
		milestone_id INTEGER
	);

	-- Analytic lines (source of timesheets_analysis_report)
	CREATE TABLE IF NOT EXISTS account_analytic_line (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		user_id INTEGER,
		project_id INTEGER,
		task_id INTEGER,
		parent_task_id INTEGER,
		employee_id INTEGER,
		manager_id INTEGER,
		company_id INTEGER,
		department_id INTEGER,
		currency_id INTEGER,
		date TEXT NOT NULL,
		amount TEXT NOT NULL DEFAULT '0',
		unit_amount TEXT NOT NULL DEFAULT '0',
		partner_id INTEGER,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analytic_line_project_date
		ON account_analytic_line(project_id, date);

	-- Helpdesk
	CREATE TABLE IF NOT EXISTS helpdesk_ticket_slas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		sequence INTEGER NOT NULL DEFAULT 10,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		sla_type TEXT NOT NULL DEFAULT 'response',
		priority TEXT NOT NULL,
		description TEXT,
		start_date TEXT,
		end_date TEXT,
		time_to_resolve INTEGER NOT NULL,
		time_to_respond INTEGER NOT NULL,
		sla_status TEXT NOT NULL DEFAULT 'active',
		company_id INTEGER
	);

	CREATE TABLE IF NOT EXISTS helpdesk_tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	-- Mail
	CREATE TABLE IF NOT EXISTS mail_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author_id INTEGER,
		subject TEXT,
		body TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS mail_notifications (
		message_id INTEGER NOT NULL REFERENCES mail_messages(id),
		partner_id INTEGER NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (message_id, partner_id)
	);

	CREATE INDEX IF NOT EXISTS idx_mail_notifications_partner
		ON mail_notifications(partner_id, is_read);

	CREATE TABLE IF NOT EXISTS mail_message_stars (
		message_id INTEGER NOT NULL REFERENCES mail_messages(id),
		partner_id INTEGER NOT NULL,
		PRIMARY KEY (message_id, partner_id)
	);

	-- Digest runs (upcoming leave emails)
	CREATE TABLE IF NOT EXISTS digest_runs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'pending',
		leave_count INTEGER NOT NULL DEFAULT 0,
		recipients TEXT,
		error TEXT,
		started_at TEXT NOT NULL,
		completed_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_digest_runs_started
		ON digest_runs(started_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset deletes all data (for testing/demo). The hr.employee sequence is
// restarted.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"mail_message_stars", "mail_notifications", "mail_messages",
		"helpdesk_tags", "helpdesk_ticket_slas",
		"account_analytic_line", "project_task",
		"attendances", "leaves", "contracts", "employees", "companies",
		"digest_runs",
	}
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("failed to reset %s: %w", t, err)
		}
	}
	_, err := s.db.ExecContext(ctx, "UPDATE sequences SET next_number = 1 WHERE code = ?", hr.EmployeeSequenceCode)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func now() string {
	return hr.FormatDateTime(time.Now())
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: hr.FormatDateTime(*t), Valid: true}
}

func timePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := hr.ParseDateTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isCheckConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "CHECK constraint failed")
}
