/*
Package hr provides the core types shared by the HR extension modules.

PURPOSE:
  The extension modules (timesheet reporting, upcoming leaves, employee
  sequences, attendance, medical details, contract currency, payroll branding,
  helpdesk, mailbox) all read and write the same handful of records. This
  package holds those records, their enumerations and the store interfaces
  the modules depend on, so that each module stays a thin service over them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: a person, carrying their sequence number and medical details
  - Contract: an employment contract with wage and wage currency
  - Company: payslip branding (logo and signature)
  - Leave: an absence period with an approval state
  - Attendance: a check-in/check-out record

DESIGN PRINCIPLES:
  1. Integer IDs: records are addressed by database row IDs
  2. Precision: wages and amounts use decimal.Decimal
  3. Closed enumerations: every selection field has a Valid() check

SEE ALSO:
  - errors.go: Sentinel and structured errors
  - store.go: Persistence interfaces
  - store/sqlite/sqlite.go: SQLite implementation
*/
package hr

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID int64
type CompanyID int64
type ContractID int64
type LeaveID int64

// =============================================================================
// EMPLOYEE
// =============================================================================

// SequencePlaceholder marks an employee that has not been numbered yet.
const SequencePlaceholder = "/"

// EmployeeSequenceCode is the sequence used to number employees.
const EmployeeSequenceCode = "hr.employee"

// Employee is a person working for a company.
type Employee struct {
	ID           EmployeeID
	Name         string
	Sequence     string // "/" until numbered
	CompanyID    CompanyID
	DepartmentID *int64
	ManagerID    *EmployeeID
	UserID       *int64
	Medical      MedicalDetails
	CreatedAt    time.Time
}

// NeedsSequence reports whether the employee still carries the placeholder.
func (e Employee) NeedsSequence() bool {
	return e.Sequence == "" || e.Sequence == SequencePlaceholder
}

// MedicalDetails are the health fields attached to an employee.
type MedicalDetails struct {
	Allergies        string
	BloodType        string
	Medications      string
	EmergencyContact string
	Status           MedicalStatus
}

type MedicalStatus string

const (
	MedicalHealthy        MedicalStatus = "healthy"
	MedicalUnderTreatment MedicalStatus = "under_treatment"
	MedicalRecovered      MedicalStatus = "recovered"
	MedicalCritical       MedicalStatus = "critical"
	MedicalUnknown        MedicalStatus = "unknown"
)

// DefaultMedicalStatus is applied when no status is given.
const DefaultMedicalStatus = MedicalHealthy

func (s MedicalStatus) Valid() bool {
	switch s {
	case MedicalHealthy, MedicalUnderTreatment, MedicalRecovered, MedicalCritical, MedicalUnknown:
		return true
	}
	return false
}

// Normalize fills defaults and validates the details.
func (m MedicalDetails) Normalize() (MedicalDetails, error) {
	if m.Status == "" {
		m.Status = DefaultMedicalStatus
	}
	if !m.Status.Valid() {
		return m, &InvalidChoiceError{Field: "medical_status", Value: string(m.Status), Err: ErrInvalidMedicalStatus}
	}
	return m, nil
}

// =============================================================================
// CONTRACT
// =============================================================================

type Currency string

const (
	CurrencyLKR Currency = "lkr"
	CurrencyUSD Currency = "usd"
	CurrencyGBP Currency = "gbp"
)

// DefaultCurrency is the wage currency of a new contract.
const DefaultCurrency = CurrencyLKR

func (c Currency) Valid() bool {
	switch c {
	case CurrencyLKR, CurrencyUSD, CurrencyGBP:
		return true
	}
	return false
}

// Label is the display form of the currency code.
func (c Currency) Label() string {
	switch c {
	case CurrencyLKR:
		return "LKR"
	case CurrencyUSD:
		return "USD"
	case CurrencyGBP:
		return "GBP"
	}
	return string(c)
}

// ParseCurrency validates a currency code, applying the default when empty.
func ParseCurrency(s string) (Currency, error) {
	if s == "" {
		return DefaultCurrency, nil
	}
	c := Currency(s)
	if !c.Valid() {
		return "", &InvalidChoiceError{Field: "currency", Value: s, Err: ErrInvalidCurrency}
	}
	return c, nil
}

// Contract is an employment contract.
type Contract struct {
	ID         ContractID
	EmployeeID EmployeeID
	Wage       decimal.Decimal
	Currency   Currency
}

// =============================================================================
// COMPANY
// =============================================================================

// Company carries the payslip branding images.
type Company struct {
	ID          CompanyID
	Name        string
	PayslipLogo []byte
	PayslipSign []byte
}

// =============================================================================
// LEAVE
// =============================================================================

type LeaveState string

const (
	LeaveDraft     LeaveState = "draft"
	LeaveConfirm   LeaveState = "confirm"
	LeaveRefuse    LeaveState = "refuse"
	LeaveValidate1 LeaveState = "validate1" // first of two approvals
	LeaveApproved  LeaveState = "approved"
	LeaveCancel    LeaveState = "cancel"
)

func (s LeaveState) Valid() bool {
	switch s {
	case LeaveDraft, LeaveConfirm, LeaveRefuse, LeaveValidate1, LeaveApproved, LeaveCancel:
		return true
	}
	return false
}

// Leave is an absence period of an employee.
type Leave struct {
	ID           LeaveID
	EmployeeID   EmployeeID
	EmployeeName string // resolved by the store on reads
	DateFrom     time.Time
	DateTo       time.Time
	State        LeaveState
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// Attendance is one check-in (and optional check-out) of an employee.
type Attendance struct {
	ID         int64
	EmployeeID EmployeeID
	CheckIn    time.Time
	CheckOut   *time.Time
}
