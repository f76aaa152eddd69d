package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/hr-extensions/hr"
)

var (
	_ hr.EmployeeStore   = (*Store)(nil)
	_ hr.SequenceStore   = (*Store)(nil)
	_ hr.AttendanceStore = (*Store)(nil)
	_ hr.ContractStore   = (*Store)(nil)
	_ hr.CompanyStore    = (*Store)(nil)
)

// =============================================================================
// EMPLOYEES (hr.EmployeeStore)
// =============================================================================

const employeeColumns = `id, name, emp_seq, company_id, department_id, parent_id, user_id,
	allergies, blood_type, medications, emergency_contact, medical_status, created_at`

// CreateEmployee inserts an employee. A zero CompanyID is stored as NULL.
func (s *Store) CreateEmployee(ctx context.Context, e hr.Employee) (hr.EmployeeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := e.Sequence
	if seq == "" {
		seq = hr.SequencePlaceholder
	}
	status := e.Medical.Status
	if status == "" {
		status = hr.DefaultMedicalStatus
	}

	var company sql.NullInt64
	if e.CompanyID != 0 {
		company = sql.NullInt64{Int64: int64(e.CompanyID), Valid: true}
	}
	var manager sql.NullInt64
	if e.ManagerID != nil {
		manager = sql.NullInt64{Int64: int64(*e.ManagerID), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO employees
		(name, emp_seq, company_id, department_id, parent_id, user_id,
		 allergies, blood_type, medications, emergency_contact, medical_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.Name, seq, company, nullInt(e.DepartmentID), manager, nullInt(e.UserID),
		nullString(e.Medical.Allergies), nullString(e.Medical.BloodType),
		nullString(e.Medical.Medications), nullString(e.Medical.EmergencyContact),
		status, now(),
	)
	if err != nil {
		if isCheckConstraintError(err) {
			return 0, &hr.InvalidChoiceError{Field: "medical_status", Value: string(status), Err: hr.ErrInvalidMedicalStatus}
		}
		if isForeignKeyError(err) {
			return 0, fmt.Errorf("employee references unknown company or manager: %w", hr.ErrCompanyNotFound)
		}
		return 0, fmt.Errorf("failed to create employee: %w", err)
	}

	id, err := res.LastInsertId()
	return hr.EmployeeID(id), err
}

// GetEmployee returns an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id hr.EmployeeID) (*hr.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &hr.NotFoundError{Kind: "employee", ID: int64(id), Err: hr.ErrEmployeeNotFound}
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by ID.
func (s *Store) ListEmployees(ctx context.Context) ([]hr.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEmployees(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY id")
}

// ListEmployeesBySequence returns employees holding the given sequence value.
func (s *Store) ListEmployeesBySequence(ctx context.Context, seq string) ([]hr.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEmployees(ctx, "SELECT "+employeeColumns+" FROM employees WHERE emp_seq = ? ORDER BY id", seq)
}

func (s *Store) SetEmployeeSequence(ctx context.Context, id hr.EmployeeID, seq string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE employees SET emp_seq = ? WHERE id = ?", seq, id)
	if err != nil {
		return fmt.Errorf("failed to set employee sequence: %w", err)
	}
	return employeeAffected(res, id)
}

func (s *Store) UpdateMedical(ctx context.Context, id hr.EmployeeID, m hr.MedicalDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE employees
		SET allergies = ?, blood_type = ?, medications = ?, emergency_contact = ?, medical_status = ?
		WHERE id = ?
	`,
		nullString(m.Allergies), nullString(m.BloodType), nullString(m.Medications),
		nullString(m.EmergencyContact), m.Status, id,
	)
	if err != nil {
		if isCheckConstraintError(err) {
			return &hr.InvalidChoiceError{Field: "medical_status", Value: string(m.Status), Err: hr.ErrInvalidMedicalStatus}
		}
		return fmt.Errorf("failed to update medical details: %w", err)
	}
	return employeeAffected(res, id)
}

func employeeAffected(res sql.Result, id hr.EmployeeID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &hr.NotFoundError{Kind: "employee", ID: int64(id), Err: hr.ErrEmployeeNotFound}
	}
	return nil
}

func (s *Store) queryEmployees(ctx context.Context, query string, args ...any) ([]hr.Employee, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []hr.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(sc scanner) (hr.Employee, error) {
	var (
		e                                  hr.Employee
		company, department, manager, user sql.NullInt64
		allergies, bloodType, medications  sql.NullString
		emergency                          sql.NullString
		status, createdAt                  string
	)
	err := sc.Scan(
		&e.ID, &e.Name, &e.Sequence, &company, &department, &manager, &user,
		&allergies, &bloodType, &medications, &emergency, &status, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return e, err
	}
	if err != nil {
		return e, fmt.Errorf("failed to scan employee: %w", err)
	}

	e.CompanyID = hr.CompanyID(company.Int64)
	e.DepartmentID = intPtr(department)
	if manager.Valid {
		m := hr.EmployeeID(manager.Int64)
		e.ManagerID = &m
	}
	e.UserID = intPtr(user)
	e.Medical = hr.MedicalDetails{
		Allergies:        allergies.String,
		BloodType:        bloodType.String,
		Medications:      medications.String,
		EmergencyContact: emergency.String,
		Status:           hr.MedicalStatus(status),
	}
	e.CreatedAt, _ = hr.ParseDateTime(createdAt)
	return e, nil
}

// =============================================================================
// SEQUENCES (hr.SequenceStore)
// =============================================================================

// SaveSequence creates or replaces a sequence definition.
func (s *Store) SaveSequence(ctx context.Context, seq hr.Sequence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq.Step == 0 {
		seq.Step = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sequences (code, prefix, padding, next_number, step)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			prefix = excluded.prefix,
			padding = excluded.padding,
			next_number = excluded.next_number,
			step = excluded.step
	`, seq.Code, seq.Prefix, seq.Padding, seq.NextNumber, seq.Step)
	if err != nil {
		return fmt.Errorf("failed to save sequence: %w", err)
	}
	return nil
}

// ReserveNumber atomically takes the next number of a sequence.
func (s *Store) ReserveNumber(ctx context.Context, code string) (hr.Sequence, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return hr.Sequence{}, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	seq := hr.Sequence{Code: code}
	err = tx.QueryRowContext(ctx,
		"SELECT prefix, padding, next_number, step FROM sequences WHERE code = ?", code,
	).Scan(&seq.Prefix, &seq.Padding, &seq.NextNumber, &seq.Step)
	if errors.Is(err, sql.ErrNoRows) {
		return hr.Sequence{}, 0, hr.ErrSequenceNotFound
	}
	if err != nil {
		return hr.Sequence{}, 0, fmt.Errorf("failed to read sequence: %w", err)
	}

	reserved := seq.NextNumber
	seq.NextNumber += seq.Step
	if _, err := tx.ExecContext(ctx, "UPDATE sequences SET next_number = ? WHERE code = ?", seq.NextNumber, code); err != nil {
		return hr.Sequence{}, 0, fmt.Errorf("failed to advance sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return hr.Sequence{}, 0, err
	}
	return seq, reserved, nil
}

// =============================================================================
// ATTENDANCE (hr.AttendanceStore)
// =============================================================================

func (s *Store) AddAttendance(ctx context.Context, a hr.Attendance) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO attendances (employee_id, check_in, check_out) VALUES (?, ?, ?)",
		a.EmployeeID, hr.FormatDateTime(a.CheckIn), nullTime(a.CheckOut),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return 0, &hr.NotFoundError{Kind: "employee", ID: int64(a.EmployeeID), Err: hr.ErrEmployeeNotFound}
		}
		return 0, fmt.Errorf("failed to add attendance: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) CountAttendances(ctx context.Context, employeeID hr.EmployeeID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM attendances WHERE employee_id = ?", employeeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendances: %w", err)
	}
	return n, nil
}

// =============================================================================
// CONTRACTS (hr.ContractStore)
// =============================================================================

func (s *Store) CreateContract(ctx context.Context, c hr.Contract) (hr.ContractID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO contracts (employee_id, wage, currency, created_at) VALUES (?, ?, ?, ?)",
		c.EmployeeID, c.Wage.String(), c.Currency, now(),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return 0, &hr.NotFoundError{Kind: "employee", ID: int64(c.EmployeeID), Err: hr.ErrEmployeeNotFound}
		}
		if isCheckConstraintError(err) {
			return 0, &hr.InvalidChoiceError{Field: "currency", Value: string(c.Currency), Err: hr.ErrInvalidCurrency}
		}
		return 0, fmt.Errorf("failed to create contract: %w", err)
	}
	id, err := res.LastInsertId()
	return hr.ContractID(id), err
}

func (s *Store) GetContract(ctx context.Context, id hr.ContractID) (*hr.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := hr.Contract{ID: id}
	var wage, currency string
	err := s.db.QueryRowContext(ctx,
		"SELECT employee_id, wage, currency FROM contracts WHERE id = ?", id,
	).Scan(&c.EmployeeID, &wage, &currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &hr.NotFoundError{Kind: "contract", ID: int64(id), Err: hr.ErrContractNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	c.Wage, _ = decimal.NewFromString(wage)
	c.Currency = hr.Currency(currency)
	return &c, nil
}

func (s *Store) SetContractCurrency(ctx context.Context, id hr.ContractID, c hr.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE contracts SET currency = ? WHERE id = ?", c, id)
	if err != nil {
		if isCheckConstraintError(err) {
			return &hr.InvalidChoiceError{Field: "currency", Value: string(c), Err: hr.ErrInvalidCurrency}
		}
		return fmt.Errorf("failed to set contract currency: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &hr.NotFoundError{Kind: "contract", ID: int64(id), Err: hr.ErrContractNotFound}
	}
	return nil
}

// =============================================================================
// COMPANIES (hr.CompanyStore)
// =============================================================================

func (s *Store) CreateCompany(ctx context.Context, name string) (hr.CompanyID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "INSERT INTO companies (name, created_at) VALUES (?, ?)", name, now())
	if err != nil {
		return 0, fmt.Errorf("failed to create company: %w", err)
	}
	id, err := res.LastInsertId()
	return hr.CompanyID(id), err
}

func (s *Store) GetCompany(ctx context.Context, id hr.CompanyID) (*hr.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := hr.Company{ID: id}
	err := s.db.QueryRowContext(ctx,
		"SELECT name, payslip_logo, payslip_sign FROM companies WHERE id = ?", id,
	).Scan(&c.Name, &c.PayslipLogo, &c.PayslipSign)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &hr.NotFoundError{Kind: "company", ID: int64(id), Err: hr.ErrCompanyNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

func (s *Store) SetPayslipBranding(ctx context.Context, id hr.CompanyID, logo, sign []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE companies SET payslip_logo = ?, payslip_sign = ? WHERE id = ?", logo, sign, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set payslip branding: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &hr.NotFoundError{Kind: "company", ID: int64(id), Err: hr.ErrCompanyNotFound}
	}
	return nil
}
