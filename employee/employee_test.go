package employee_test

import (
	"context"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hr-extensions/employee"
	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/hr/store"
	"github.com/warp/hr-extensions/sequence"
)

func newService(t *testing.T, withSequence bool) (*employee.Service, *store.Memory) {
	t.Helper()
	m := store.NewMemory()
	if withSequence {
		m.PutSequence(hr.Sequence{Code: hr.EmployeeSequenceCode, Prefix: "EMP", Padding: 4, NextNumber: 1})
	}
	logger := log.New()
	logger.SetOutput(io.Discard)
	return employee.NewService(m, sequence.NewGenerator(m), logger), m
}

func TestCreate_AssignsSequence(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()

	e, err := svc.Create(ctx, hr.Employee{Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", e.Sequence)
	assert.Equal(t, hr.MedicalHealthy, e.Medical.Status, "medical status defaults to healthy")

	e, err = svc.Create(ctx, hr.Employee{Name: "Linus", Sequence: hr.SequencePlaceholder})
	require.NoError(t, err)
	assert.Equal(t, "EMP0002", e.Sequence)
}

func TestCreate_KeepsExplicitSequence(t *testing.T) {
	svc, _ := newService(t, true)

	e, err := svc.Create(context.Background(), hr.Employee{Name: "Grace", Sequence: "LEGACY-9"})
	require.NoError(t, err)
	assert.Equal(t, "LEGACY-9", e.Sequence)
}

func TestCreate_NoSequenceConfigured_KeepsPlaceholder(t *testing.T) {
	svc, _ := newService(t, false)

	e, err := svc.Create(context.Background(), hr.Employee{Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, hr.SequencePlaceholder, e.Sequence)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newService(t, true)

	_, err := svc.Create(context.Background(), hr.Employee{})
	assert.ErrorIs(t, err, hr.ErrRequiredField)

	_, err = svc.Create(context.Background(), hr.Employee{Name: "X", Medical: hr.MedicalDetails{Status: "bad"}})
	assert.ErrorIs(t, err, hr.ErrInvalidMedicalStatus)
}

func TestCopy_GetsFreshSequence(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()

	orig, err := svc.Create(ctx, hr.Employee{Name: "Grace", Medical: hr.MedicalDetails{BloodType: "A-"}})
	require.NoError(t, err)

	dup, err := svc.Copy(ctx, orig.ID)
	require.NoError(t, err)
	assert.NotEqual(t, orig.ID, dup.ID)
	assert.Equal(t, "EMP0002", dup.Sequence)
	assert.Equal(t, "A-", dup.Medical.BloodType)
}

func TestCopy_UnknownEmployee(t *testing.T) {
	svc, _ := newService(t, true)
	_, err := svc.Copy(context.Background(), 99)
	assert.True(t, hr.IsNotFound(err))
}

func TestBackfill_NumbersPlaceholders(t *testing.T) {
	// GIVEN: Employees created before the sequence existed
	svc, m := newService(t, false)
	ctx := context.Background()
	_, err := svc.Create(ctx, hr.Employee{Name: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, hr.Employee{Name: "B", Sequence: "KEEP"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, hr.Employee{Name: "C"})
	require.NoError(t, err)

	// WHEN: The sequence is installed and backfill runs
	m.PutSequence(hr.Sequence{Code: hr.EmployeeSequenceCode, Prefix: "EMP", Padding: 4, NextNumber: 1})
	n, err := svc.Backfill(ctx)
	require.NoError(t, err)

	// THEN: Only placeholder holders are numbered, in order
	assert.Equal(t, 2, n)
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", all[0].Sequence)
	assert.Equal(t, "KEEP", all[1].Sequence)
	assert.Equal(t, "EMP0002", all[2].Sequence)

	n, err = svc.Backfill(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "second run has nothing to do")
}

func TestUpdateMedical(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()
	e, err := svc.Create(ctx, hr.Employee{Name: "Grace"})
	require.NoError(t, err)

	got, err := svc.UpdateMedical(ctx, e.ID, hr.MedicalDetails{Allergies: "peanuts", Status: hr.MedicalUnderTreatment})
	require.NoError(t, err)
	assert.Equal(t, "peanuts", got.Medical.Allergies)
	assert.Equal(t, hr.MedicalUnderTreatment, got.Medical.Status)

	_, err = svc.UpdateMedical(ctx, e.ID, hr.MedicalDetails{Status: "zombie"})
	assert.ErrorIs(t, err, hr.ErrInvalidMedicalStatus)

	_, err = svc.UpdateMedical(ctx, 404, hr.MedicalDetails{})
	assert.True(t, hr.IsNotFound(err))
}
