/*
store.go - Persistence interfaces consumed by the HR modules

PURPOSE:
  Each module depends only on the narrow slice of persistence it needs.
  The SQLite store implements all of them; hr/store.Memory implements the
  ones used by unit tests.

KEY INTERFACES:
  LeaveSearcher:    filtered reads of leave records (upcoming leave finder)
  EmployeeStore:    employee CRUD and sequence updates
  SequenceStore:    atomic reservation of sequence numbers
  AttendanceStore:  attendance records per employee
  ContractStore:    contracts and their wage currency
  CompanyStore:     payslip branding

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - hr/store/memory.go: In-memory for testing

SEE ALSO:
  - leave/finder.go, sequence/sequence.go, employee/employee.go,
    attendance/attendance.go, payroll/payroll.go
*/
package hr

import (
	"context"
	"time"
)

// =============================================================================
// LEAVES
// =============================================================================

// LeaveFilter selects leaves. Zero-valued fields do not filter.
type LeaveFilter struct {
	StartsOnOrAfter *time.Time // date_from >= value
	EndsOnOrBefore  *time.Time // date_to <= value
	State           LeaveState
	EmployeeID      EmployeeID
}

// Matches applies the filter to a single leave.
func (f LeaveFilter) Matches(l Leave) bool {
	if f.StartsOnOrAfter != nil && l.DateFrom.Before(*f.StartsOnOrAfter) {
		return false
	}
	if f.EndsOnOrBefore != nil && l.DateTo.After(*f.EndsOnOrBefore) {
		return false
	}
	if f.State != "" && l.State != f.State {
		return false
	}
	if f.EmployeeID != 0 && l.EmployeeID != f.EmployeeID {
		return false
	}
	return true
}

// LeaveSearcher returns leaves matching a filter, in insertion order,
// with EmployeeName resolved.
type LeaveSearcher interface {
	SearchLeaves(ctx context.Context, filter LeaveFilter) ([]Leave, error)
}

// LeaveStore adds writes to LeaveSearcher.
type LeaveStore interface {
	LeaveSearcher
	SaveLeave(ctx context.Context, l Leave) (LeaveID, error)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeStore interface {
	// CreateEmployee inserts the employee and returns its new ID.
	CreateEmployee(ctx context.Context, e Employee) (EmployeeID, error)

	// GetEmployee returns ErrEmployeeNotFound when the ID is unknown.
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)

	ListEmployees(ctx context.Context) ([]Employee, error)

	// ListEmployeesBySequence returns employees whose sequence equals seq.
	ListEmployeesBySequence(ctx context.Context, seq string) ([]Employee, error)

	SetEmployeeSequence(ctx context.Context, id EmployeeID, seq string) error

	UpdateMedical(ctx context.Context, id EmployeeID, m MedicalDetails) error
}

// =============================================================================
// SEQUENCES
// =============================================================================

// Sequence numbers records of one kind, e.g. "hr.employee".
type Sequence struct {
	Code       string
	Prefix     string
	Padding    int
	NextNumber int64
	Step       int64
}

// SequenceStore reserves numbers atomically.
type SequenceStore interface {
	// ReserveNumber returns the sequence definition and the number reserved
	// for the caller, advancing NextNumber by Step.
	// Returns ErrSequenceNotFound when no sequence has this code.
	ReserveNumber(ctx context.Context, code string) (Sequence, int64, error)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type AttendanceStore interface {
	AddAttendance(ctx context.Context, a Attendance) (int64, error)
	CountAttendances(ctx context.Context, employeeID EmployeeID) (int, error)
}

// =============================================================================
// CONTRACTS AND COMPANIES
// =============================================================================

type ContractStore interface {
	CreateContract(ctx context.Context, c Contract) (ContractID, error)

	// GetContract returns ErrContractNotFound when the ID is unknown.
	GetContract(ctx context.Context, id ContractID) (*Contract, error)

	SetContractCurrency(ctx context.Context, id ContractID, c Currency) error
}

type CompanyStore interface {
	// GetCompany returns ErrCompanyNotFound when the ID is unknown.
	GetCompany(ctx context.Context, id CompanyID) (*Company, error)

	// SetPayslipBranding replaces both images; nil clears an image.
	SetPayslipBranding(ctx context.Context, id CompanyID, logo, sign []byte) error
}
