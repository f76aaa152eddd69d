/*
errors.go - Centralized error types for the HR modules

PURPOSE:
  All error types in one place for consistency and discoverability.
  Modules wrap these errors with additional context; the API layer maps
  them to HTTP status codes through IsNotFound and IsClientError.

ERROR CATEGORIES:
  1. Not found - a referenced record does not exist
  2. Validation - a selection field or period is invalid
  3. Store - database failures, wrapped with %w and propagated as-is

SEE ALSO:
  - api/handlers.go: statusFor() maps these to HTTP codes
*/
package hr

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrContractNotFound = errors.New("contract not found")
	ErrSLANotFound      = errors.New("sla not found")
	ErrMessageNotFound  = errors.New("message not found")

	// ErrSequenceNotFound is returned when no sequence is configured for a code.
	// Callers numbering employees fall back to the placeholder.
	ErrSequenceNotFound = errors.New("sequence not found")

	ErrInvalidMedicalStatus = errors.New("invalid medical status")
	ErrInvalidCurrency      = errors.New("invalid currency")
	ErrInvalidLeaveState    = errors.New("invalid leave state")

	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrRequiredField is returned when a required field is empty.
	ErrRequiredField = errors.New("required field missing")

	// ErrDuplicate is returned when a unique value already exists.
	ErrDuplicate = errors.New("already exists")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidChoiceError reports a value outside a selection field's choices.
type InvalidChoiceError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid choice", e.Field, e.Value)
}

func (e *InvalidChoiceError) Unwrap() error {
	return e.Err
}

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string
	ID   int64
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrCompanyNotFound) ||
		errors.Is(err, ErrContractNotFound) ||
		errors.Is(err, ErrSLANotFound) ||
		errors.Is(err, ErrMessageNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidMedicalStatus) ||
		errors.Is(err, ErrInvalidCurrency) ||
		errors.Is(err, ErrInvalidLeaveState) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrRequiredField) ||
		errors.Is(err, ErrDuplicate)
}
