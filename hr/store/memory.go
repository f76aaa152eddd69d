// Package store provides in-memory implementations of the hr store interfaces.
package store

import (
	"context"
	"sync"

	"github.com/warp/hr-extensions/hr"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	employees   []hr.Employee
	leaves      []hr.Leave
	sequences   map[string]*hr.Sequence
	attendances []hr.Attendance

	// SearchErr, when set, is returned by SearchLeaves.
	SearchErr error
}

var (
	_ hr.LeaveStore      = (*Memory)(nil)
	_ hr.EmployeeStore   = (*Memory)(nil)
	_ hr.SequenceStore   = (*Memory)(nil)
	_ hr.AttendanceStore = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		sequences: make(map[string]*hr.Sequence),
	}
}

// =============================================================================
// LEAVES
// =============================================================================

func (m *Memory) SaveLeave(_ context.Context, l hr.Leave) (hr.LeaveID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.ID = hr.LeaveID(len(m.leaves) + 1)
	m.leaves = append(m.leaves, l)
	return l.ID, nil
}

// SearchLeaves returns matching leaves in insertion order.
func (m *Memory) SearchLeaves(_ context.Context, filter hr.LeaveFilter) ([]hr.Leave, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}

	var result []hr.Leave
	for _, l := range m.leaves {
		if !filter.Matches(l) {
			continue
		}
		if emp := m.employeeLocked(l.EmployeeID); emp != nil {
			l.EmployeeName = emp.Name
		}
		result = append(result, l)
	}
	return result, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) CreateEmployee(_ context.Context, e hr.Employee) (hr.EmployeeID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = hr.EmployeeID(len(m.employees) + 1)
	m.employees = append(m.employees, e)
	return e.ID, nil
}

func (m *Memory) GetEmployee(_ context.Context, id hr.EmployeeID) (*hr.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp := m.employeeLocked(id)
	if emp == nil {
		return nil, &hr.NotFoundError{Kind: "employee", ID: int64(id), Err: hr.ErrEmployeeNotFound}
	}
	cp := *emp
	return &cp, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]hr.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]hr.Employee, len(m.employees))
	copy(result, m.employees)
	return result, nil
}

func (m *Memory) ListEmployeesBySequence(_ context.Context, seq string) ([]hr.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []hr.Employee
	for _, e := range m.employees {
		if e.Sequence == seq {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *Memory) SetEmployeeSequence(_ context.Context, id hr.EmployeeID, seq string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	emp := m.employeeLocked(id)
	if emp == nil {
		return &hr.NotFoundError{Kind: "employee", ID: int64(id), Err: hr.ErrEmployeeNotFound}
	}
	emp.Sequence = seq
	return nil
}

func (m *Memory) UpdateMedical(_ context.Context, id hr.EmployeeID, md hr.MedicalDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	emp := m.employeeLocked(id)
	if emp == nil {
		return &hr.NotFoundError{Kind: "employee", ID: int64(id), Err: hr.ErrEmployeeNotFound}
	}
	emp.Medical = md
	return nil
}

func (m *Memory) employeeLocked(id hr.EmployeeID) *hr.Employee {
	for i := range m.employees {
		if m.employees[i].ID == id {
			return &m.employees[i]
		}
	}
	return nil
}

// =============================================================================
// SEQUENCES
// =============================================================================

// PutSequence defines (or replaces) a sequence.
func (m *Memory) PutSequence(seq hr.Sequence) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if seq.Step == 0 {
		seq.Step = 1
	}
	m.sequences[seq.Code] = &seq
}

func (m *Memory) ReserveNumber(_ context.Context, code string) (hr.Sequence, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seq, ok := m.sequences[code]
	if !ok {
		return hr.Sequence{}, 0, hr.ErrSequenceNotFound
	}
	n := seq.NextNumber
	seq.NextNumber += seq.Step
	return *seq, n, nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (m *Memory) AddAttendance(_ context.Context, a hr.Attendance) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a.ID = int64(len(m.attendances) + 1)
	m.attendances = append(m.attendances, a)
	return a.ID, nil
}

func (m *Memory) CountAttendances(_ context.Context, employeeID hr.EmployeeID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, a := range m.attendances {
		if a.EmployeeID == employeeID {
			n++
		}
	}
	return n, nil
}
