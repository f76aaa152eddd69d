// Package attendance records employee check-ins and derives worked days
// for payslips.
package attendance

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/warp/hr-extensions/hr"
)

type Service struct {
	store  hr.AttendanceStore
	logger log.FieldLogger
}

func NewService(store hr.AttendanceStore, logger log.FieldLogger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{store: store, logger: logger}
}

// Record stores an attendance. CheckOut may be nil for an open attendance.
func (s *Service) Record(ctx context.Context, a hr.Attendance) (int64, error) {
	if a.EmployeeID == 0 {
		return 0, fmt.Errorf("attendance employee: %w", hr.ErrRequiredField)
	}
	if a.CheckIn.IsZero() {
		a.CheckIn = time.Now().UTC()
	}
	if a.CheckOut != nil && a.CheckOut.Before(a.CheckIn) {
		return 0, fmt.Errorf("attendance check-out: %w", hr.ErrInvalidPeriod)
	}
	return s.store.AddAttendance(ctx, a)
}

// WorkedDays is the number of attendance records of the employee.
// A zero employee ID yields 0.
func (s *Service) WorkedDays(ctx context.Context, employeeID hr.EmployeeID) (int, error) {
	if employeeID == 0 {
		s.logger.Debug("No employee given for worked days")
		return 0, nil
	}

	n, err := s.store.CountAttendances(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	s.logger.WithFields(log.Fields{"employee_id": employeeID, "worked_days": n}).Debug("Computed worked days")
	return n, nil
}
