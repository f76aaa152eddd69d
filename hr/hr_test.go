package hr_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hr-extensions/hr"
)

func TestWholeDaysBetween(t *testing.T) {
	jan10 := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, hr.WholeDaysBetween(jan10, jan10))
	assert.Equal(t, 2, hr.WholeDaysBetween(jan10, jan10.AddDate(0, 0, 2)))
	// partial days are dropped
	assert.Equal(t, 0, hr.WholeDaysBetween(jan10, jan10.Add(23*time.Hour)))
	assert.Equal(t, 1, hr.WholeDaysBetween(jan10, jan10.Add(47*time.Hour)))
	// negative spans floor
	assert.Equal(t, -1, hr.WholeDaysBetween(jan10, jan10.Add(-time.Hour)))
}

func TestParseDateTime_Layouts(t *testing.T) {
	want := time.Date(2024, time.January, 10, 9, 30, 0, 0, time.UTC)

	got, err := hr.ParseDateTime("2024-01-10T09:30:00Z")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = hr.ParseDateTime("2024-01-10 09:30:00")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = hr.ParseDateTime("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", hr.FormatDate(got))

	_, err = hr.ParseDateTime("10/01/2024")
	assert.Error(t, err)
}

func TestMedicalDetails_Normalize(t *testing.T) {
	m, err := hr.MedicalDetails{BloodType: "O+"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, hr.MedicalHealthy, m.Status)

	_, err = hr.MedicalDetails{Status: "zombie"}.Normalize()
	assert.ErrorIs(t, err, hr.ErrInvalidMedicalStatus)
	assert.True(t, hr.IsClientError(err))
}

func TestParseCurrency(t *testing.T) {
	c, err := hr.ParseCurrency("")
	require.NoError(t, err)
	assert.Equal(t, hr.CurrencyLKR, c)

	c, err = hr.ParseCurrency("gbp")
	require.NoError(t, err)
	assert.Equal(t, "GBP", c.Label())

	_, err = hr.ParseCurrency("eur")
	var choiceErr *hr.InvalidChoiceError
	require.ErrorAs(t, err, &choiceErr)
	assert.Equal(t, "currency", choiceErr.Field)
	assert.ErrorIs(t, err, hr.ErrInvalidCurrency)
}

func TestLeaveFilter_Matches(t *testing.T) {
	from := time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 14)
	f := hr.LeaveFilter{StartsOnOrAfter: &from, EndsOnOrBefore: &to, State: hr.LeaveApproved}

	inside := hr.Leave{DateFrom: from, DateTo: to, State: hr.LeaveApproved}
	assert.True(t, f.Matches(inside), "bounds are inclusive")

	early := inside
	early.DateFrom = from.Add(-time.Second)
	assert.False(t, f.Matches(early))

	late := inside
	late.DateTo = to.Add(time.Second)
	assert.False(t, f.Matches(late))

	draft := inside
	draft.State = hr.LeaveDraft
	assert.False(t, f.Matches(draft))

	assert.True(t, hr.LeaveFilter{}.Matches(draft), "empty filter matches everything")
}

func TestErrorHelpers(t *testing.T) {
	err := fmt.Errorf("load: %w", &hr.NotFoundError{Kind: "employee", ID: 7, Err: hr.ErrEmployeeNotFound})
	assert.True(t, hr.IsNotFound(err))
	assert.False(t, hr.IsClientError(err))
	assert.Contains(t, err.Error(), "employee 7 not found")

	assert.True(t, hr.IsClientError(fmt.Errorf("sla: %w", hr.ErrInvalidPeriod)))
	assert.False(t, hr.IsNotFound(hr.ErrSequenceNotFound))
}

func TestEmployee_NeedsSequence(t *testing.T) {
	assert.True(t, hr.Employee{}.NeedsSequence())
	assert.True(t, hr.Employee{Sequence: hr.SequencePlaceholder}.NeedsSequence())
	assert.False(t, hr.Employee{Sequence: "EMP0001"}.NeedsSequence())
}
