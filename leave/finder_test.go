package leave_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/hr/store"
	"github.com/warp/hr-extensions/leave"
	gomail "github.com/wneessen/go-mail"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func quietLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store  *store.Memory
	finder *leave.Finder
	emp    hr.EmployeeID
}

func newFixture(t *testing.T) fixture {
	m := store.NewMemory()
	emp, err := m.CreateEmployee(context.Background(), hr.Employee{Name: "Ada Lovelace"})
	require.NoError(t, err)
	return fixture{store: m, finder: leave.NewFinder(m, quietLogger()), emp: emp}
}

func (f fixture) addLeave(t *testing.T, from, to time.Time, state hr.LeaveState) {
	_, err := f.store.SaveLeave(context.Background(), hr.Leave{
		EmployeeID: f.emp, DateFrom: from, DateTo: to, State: state,
	})
	require.NoError(t, err)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestFindUpcoming_LeaveInsideWindow_Included(t *testing.T) {
	// GIVEN: An approved leave Jan 10 - Jan 12
	// WHEN: Looking from Jan 9
	// THEN: It is included with 3 inclusive days
	f := newFixture(t)
	f.addLeave(t, date(2024, 1, 10), date(2024, 1, 12), hr.LeaveApproved)

	got, err := f.finder.FindUpcoming(context.Background(), date(2024, 1, 9))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, leave.UpcomingLeave{
		EmployeeName: "Ada Lovelace",
		LeaveDays:    3,
		StartDate:    date(2024, 1, 10),
		EndDate:      date(2024, 1, 12),
	}, got[0])
}

func TestFindUpcoming_LeaveEndingAfterWindow_Excluded(t *testing.T) {
	f := newFixture(t)
	f.addLeave(t, date(2024, 1, 10), date(2024, 1, 30), hr.LeaveApproved)

	got, err := f.finder.FindUpcoming(context.Background(), date(2024, 1, 9))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindUpcoming_DraftLeave_Excluded(t *testing.T) {
	f := newFixture(t)
	f.addLeave(t, date(2024, 1, 10), date(2024, 1, 12), hr.LeaveDraft)

	got, err := f.finder.FindUpcoming(context.Background(), date(2024, 1, 9))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindUpcoming_LeaveStartedBeforeNow_Excluded(t *testing.T) {
	f := newFixture(t)
	f.addLeave(t, date(2024, 1, 8), date(2024, 1, 12), hr.LeaveApproved)

	got, err := f.finder.FindUpcoming(context.Background(), date(2024, 1, 9))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindUpcoming_SameDayLeave_CountsOneDay(t *testing.T) {
	f := newFixture(t)
	f.addLeave(t, date(2024, 1, 15), date(2024, 1, 15), hr.LeaveApproved)

	got, err := f.finder.FindUpcoming(context.Background(), date(2024, 1, 9))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].LeaveDays)
}

func TestFindUpcoming_BoundsAreInclusive(t *testing.T) {
	// GIVEN: A leave starting exactly at now and ending exactly at now+14d
	f := newFixture(t)
	now := time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC)
	f.addLeave(t, now, now.Add(leave.Window), hr.LeaveApproved)

	got, err := f.finder.FindUpcoming(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 15, got[0].LeaveDays)
}

func TestFindUpcoming_InclusionPredicate(t *testing.T) {
	// Every combination of state and boundary position is included
	// iff approved and inside the window.
	now := date(2024, 3, 1)
	until := now.Add(leave.Window)
	starts := []time.Time{now.AddDate(0, 0, -1), now, now.AddDate(0, 0, 3)}
	ends := []time.Time{now.AddDate(0, 0, 5), until, until.AddDate(0, 0, 1)}
	states := []hr.LeaveState{hr.LeaveDraft, hr.LeaveConfirm, hr.LeaveValidate1, hr.LeaveApproved, hr.LeaveRefuse}

	for _, start := range starts {
		for _, end := range ends {
			for _, state := range states {
				f := newFixture(t)
				f.addLeave(t, start, end, state)

				got, err := f.finder.FindUpcoming(context.Background(), now)
				require.NoError(t, err)

				want := state == hr.LeaveApproved && !start.Before(now) && !end.After(until)
				assert.Equal(t, want, len(got) == 1, "start=%s end=%s state=%s", start, end, state)
			}
		}
	}
}

func TestFindUpcoming_PreservesSourceOrder(t *testing.T) {
	f := newFixture(t)
	f.addLeave(t, date(2024, 1, 20), date(2024, 1, 21), hr.LeaveApproved)
	f.addLeave(t, date(2024, 1, 10), date(2024, 1, 10), hr.LeaveApproved)

	got, err := f.finder.FindUpcoming(context.Background(), date(2024, 1, 9))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, date(2024, 1, 20), got[0].StartDate)
	assert.Equal(t, date(2024, 1, 10), got[1].StartDate)
}

func TestFindUpcoming_StoreError_Propagated(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("database is locked")
	f.store.SearchErr = boom

	got, err := f.finder.FindUpcoming(context.Background(), date(2024, 1, 9))
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestFindUpcoming_NoLeaves_EmptyNotNil(t *testing.T) {
	f := newFixture(t)

	got, err := f.finder.FindUpcoming(context.Background(), date(2024, 1, 9))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLeaveDays_PartialDayDropped(t *testing.T) {
	from := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 11, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, leave.LeaveDays(from, to))
	assert.Equal(t, 2, leave.LeaveDays(from, to.Add(2*time.Hour)))
}

// =============================================================================
// DIGEST
// =============================================================================

func TestDigest_RenderHTML(t *testing.T) {
	f := newFixture(t)
	f.addLeave(t, date(2024, 1, 10), date(2024, 1, 12), hr.LeaveApproved)

	d, err := f.finder.BuildDigest(context.Background(), date(2024, 1, 9))
	require.NoError(t, err)
	assert.Equal(t, "Upcoming leaves 2024-01-09 to 2024-01-23 (1)", d.Subject())

	html, err := d.RenderHTML()
	require.NoError(t, err)
	assert.Contains(t, string(html), "<td>Ada Lovelace</td><td>3</td><td>2024-01-10</td><td>2024-01-12</td>")
}

func TestDigest_RenderHTML_Empty(t *testing.T) {
	html, err := leave.Digest{GeneratedAt: date(2024, 1, 9), Until: date(2024, 1, 23)}.RenderHTML()
	require.NoError(t, err)
	assert.Contains(t, string(html), "No upcoming leaves.")
}

func TestDigest_RenderHTML_EscapesNames(t *testing.T) {
	d := leave.Digest{Leaves: []leave.UpcomingLeave{{EmployeeName: "<script>x</script>", LeaveDays: 1}}}
	html, err := d.RenderHTML()
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>x</script>")
}

// =============================================================================
// MAILERS
// =============================================================================

func capture(t *testing.T, m *leave.SMTPMailer) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	leave.SetDeliverFunc(m, func(_ context.Context, msg *gomail.Msg) error {
		_, err := msg.WriteTo(&buf)
		return err
	})
	return &buf
}

func TestSMTPMailer_Send(t *testing.T) {
	m := leave.NewSMTPMailer("smtp.example.com", 587, "", "", "hr@example.com")
	raw := capture(t, m)

	err := m.Send(context.Background(), leave.Message{
		To: []string{"boss@example.com"}, Subject: "Hi", HTML: []byte("<p>x</p>"),
	})
	require.NoError(t, err)
	out := raw.String()
	assert.Contains(t, out, "Subject: Hi\r\n")
	assert.Contains(t, out, "<boss@example.com>")
	assert.Contains(t, out, "text/html")
	assert.Contains(t, out, "<p>x</p>")
}

func TestSMTPMailer_EncodesHeaders(t *testing.T) {
	m := leave.NewSMTPMailer("smtp.example.com", 587, "", "", "hr@example.com")
	raw := capture(t, m)

	err := m.Send(context.Background(), leave.Message{
		To: []string{"boss@example.com"}, Subject: "Congés\r\nBcc: spy@example.com", HTML: []byte("x"),
	})
	require.NoError(t, err)
	out := raw.String()
	assert.Contains(t, out, "Subject: =?UTF-8?")
	assert.NotContains(t, out, "\r\nBcc: spy@example.com")
}

func TestSMTPMailer_RejectsBadRecipient(t *testing.T) {
	m := leave.NewSMTPMailer("smtp.example.com", 587, "", "", "hr@example.com")
	called := false
	leave.SetDeliverFunc(m, func(context.Context, *gomail.Msg) error {
		called = true
		return nil
	})

	err := m.Send(context.Background(), leave.Message{To: []string{"not an address\r\nBcc: x@y.z"}, Subject: "Hi"})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestSMTPMailer_DeliveryError(t *testing.T) {
	m := leave.NewSMTPMailer("smtp.example.com", 25, "", "", "hr@example.com")
	relayDown := errors.New("connection refused")
	leave.SetDeliverFunc(m, func(context.Context, *gomail.Msg) error { return relayDown })

	err := m.Send(context.Background(), leave.Message{To: []string{"a@example.com"}, Subject: "Hi"})
	assert.ErrorIs(t, err, relayDown)
	assert.Contains(t, err.Error(), "smtp.example.com:25")
}

func TestSMTPMailer_NoRecipients(t *testing.T) {
	m := leave.NewSMTPMailer("smtp.example.com", 25, "", "", "hr@example.com")
	err := m.Send(context.Background(), leave.Message{Subject: "Hi"})
	assert.ErrorIs(t, err, leave.ErrNoRecipients)
}

func TestLogMailer_Send(t *testing.T) {
	err := leave.LogMailer{Logger: quietLogger()}.Send(context.Background(), leave.Message{To: []string{"a@b.c"}})
	assert.NoError(t, err)
}
