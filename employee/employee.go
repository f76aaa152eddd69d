/*
Package employee manages employee records: numbering, copying and medical details.

NUMBERING:
  Every employee carries a sequence number from the "hr.employee" sequence.
  An employee created without one (empty or "/") is numbered on creation.
  When no sequence is configured the placeholder "/" is kept, and Backfill
  numbers those employees later. Backfill runs once when the server starts.

COPYING:
  A copy never inherits the original's number; it is numbered afresh.

SEE ALSO:
  - sequence/sequence.go: number formatting
*/
package employee

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/sequence"
)

type Service struct {
	store  hr.EmployeeStore
	seq    *sequence.Generator
	logger log.FieldLogger
}

func NewService(store hr.EmployeeStore, seq *sequence.Generator, logger log.FieldLogger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{store: store, seq: seq, logger: logger}
}

// Create numbers the employee if needed, validates medical details and saves it.
func (s *Service) Create(ctx context.Context, e hr.Employee) (*hr.Employee, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("employee name: %w", hr.ErrRequiredField)
	}
	medical, err := e.Medical.Normalize()
	if err != nil {
		return nil, err
	}
	e.Medical = medical

	if e.NeedsSequence() {
		if e.Sequence, err = s.seq.NextOr(ctx, hr.EmployeeSequenceCode, hr.SequencePlaceholder); err != nil {
			return nil, err
		}
	}

	id, err := s.store.CreateEmployee(ctx, e)
	if err != nil {
		return nil, err
	}
	return s.store.GetEmployee(ctx, id)
}

// Copy duplicates an employee under a fresh sequence number.
func (s *Service) Copy(ctx context.Context, id hr.EmployeeID) (*hr.Employee, error) {
	orig, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	dup := *orig
	dup.ID = 0
	dup.Sequence = hr.SequencePlaceholder
	return s.Create(ctx, dup)
}

func (s *Service) Get(ctx context.Context, id hr.EmployeeID) (*hr.Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]hr.Employee, error) {
	return s.store.ListEmployees(ctx)
}

// UpdateMedical replaces the medical details of an employee.
func (s *Service) UpdateMedical(ctx context.Context, id hr.EmployeeID, m hr.MedicalDetails) (*hr.Employee, error) {
	m, err := m.Normalize()
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateMedical(ctx, id, m); err != nil {
		return nil, err
	}
	return s.store.GetEmployee(ctx, id)
}

// Backfill numbers every employee still holding the placeholder and
// returns how many were updated.
func (s *Service) Backfill(ctx context.Context) (int, error) {
	pending, err := s.store.ListEmployeesBySequence(ctx, hr.SequencePlaceholder)
	if err != nil {
		return 0, err
	}

	for _, e := range pending {
		next, err := s.seq.NextOr(ctx, hr.EmployeeSequenceCode, hr.SequencePlaceholder)
		if err != nil {
			return 0, err
		}
		if err := s.store.SetEmployeeSequence(ctx, e.ID, next); err != nil {
			return 0, err
		}
	}

	s.logger.WithField("count", len(pending)).Info("Backfilled employee sequences")
	return len(pending), nil
}
