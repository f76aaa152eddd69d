package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hr-extensions/helpdesk"
	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/mail"
	"github.com/warp/hr-extensions/timesheet"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.InitViews(context.Background()))
	return s
}

func ptr(v int64) *int64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// TIMESHEET ANALYSIS VIEW
// =============================================================================

func TestTimesheetReport_OnlyProjectLines(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	taskID, err := s.SaveTask(ctx, Task{Name: "Design", ProjectID: ptr(3), MilestoneID: ptr(9)})
	require.NoError(t, err)

	withProject := timesheet.AnalyticLine{
		Name:         "Wireframes",
		UserID:       ptr(2),
		ProjectID:    ptr(3),
		TaskID:       &taskID,
		EmployeeID:   ptr(4),
		ManagerID:    ptr(5),
		CompanyID:    ptr(1),
		DepartmentID: ptr(6),
		CurrencyID:   ptr(7),
		Date:         day(2024, 3, 1),
		Amount:       decimal.RequireFromString("-120.50"),
		UnitAmount:   decimal.RequireFromString("2.5"),
		PartnerID:    ptr(8),
	}
	id1, err := s.SaveAnalyticLine(ctx, withProject)
	require.NoError(t, err)

	_, err = s.SaveAnalyticLine(ctx, timesheet.AnalyticLine{
		Name:       "Expense without project",
		Date:       day(2024, 3, 1),
		Amount:     decimal.NewFromInt(40),
		UnitAmount: decimal.Zero,
	})
	require.NoError(t, err)

	rows, err := s.TimesheetReport(ctx, timesheet.Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, id1, got.ID)
	assert.Equal(t, "Wireframes", got.Name)
	assert.Equal(t, int64(2), *got.UserID)
	assert.Equal(t, int64(3), *got.ProjectID)
	assert.Equal(t, taskID, *got.TaskID)
	assert.Nil(t, got.ParentTaskID)
	assert.Equal(t, int64(4), *got.EmployeeID)
	assert.Equal(t, int64(5), *got.ManagerID)
	assert.Equal(t, int64(1), *got.CompanyID)
	assert.Equal(t, int64(6), *got.DepartmentID)
	assert.Equal(t, int64(7), *got.CurrencyID)
	assert.Equal(t, int64(8), *got.PartnerID)
	assert.True(t, got.Date.Equal(day(2024, 3, 1)))
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("-120.5")))
	assert.True(t, got.UnitAmount.Equal(decimal.RequireFromString("2.5")))
	require.NotNil(t, got.MilestoneID)
	assert.Equal(t, int64(9), *got.MilestoneID)
}

func TestTimesheetReport_OneRowPerLine(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.SaveAnalyticLine(ctx, timesheet.AnalyticLine{
			ProjectID:  ptr(int64(1 + i%2)),
			EmployeeID: ptr(10),
			Date:       day(2024, 1, 5-i),
			Amount:     decimal.NewFromInt(int64(i)),
			UnitAmount: decimal.NewFromInt(1),
		})
		require.NoError(t, err)
	}

	rows, err := s.TimesheetReport(ctx, timesheet.Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 5)

	seen := map[int64]bool{}
	for i, r := range rows {
		assert.False(t, seen[r.ID], "duplicate row %d", r.ID)
		seen[r.ID] = true
		if i > 0 {
			assert.False(t, r.Date.Before(rows[i-1].Date), "rows ordered by date")
		}
	}

	byProject, err := s.TimesheetReport(ctx, timesheet.Filter{ProjectID: 2})
	require.NoError(t, err)
	assert.Len(t, byProject, 2)

	from, to := day(2024, 1, 2), day(2024, 1, 4)
	inRange, err := s.TimesheetReport(ctx, timesheet.Filter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, inRange, 3)
}

func TestInitViews_Rerunnable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InitViews(ctx))
	require.NoError(t, s.InitViews(ctx))

	rows, err := s.TimesheetReport(ctx, timesheet.Filter{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	// The view is not materialized: new lines show up without re-init.
	_, err = s.SaveAnalyticLine(ctx, timesheet.AnalyticLine{
		ProjectID: ptr(1), Date: day(2024, 2, 1), Amount: decimal.Zero, UnitAmount: decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	rows, err = s.TimesheetReport(ctx, timesheet.Filter{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

type nonZeroOnly struct{ timesheet.DefaultParts }

func (nonZeroOnly) Where() string {
	return "WHERE A.project_id IS NOT NULL AND CAST(A.amount AS REAL) <> 0"
}

func TestInitViews_CustomWhere(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.SaveAnalyticLine(ctx, timesheet.AnalyticLine{
		ProjectID: ptr(1), Date: day(2024, 2, 1), Amount: decimal.Zero, UnitAmount: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	_, err = s.SaveAnalyticLine(ctx, timesheet.AnalyticLine{
		ProjectID: ptr(1), Date: day(2024, 2, 2), Amount: decimal.NewFromInt(50), UnitAmount: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	s.SetReport(&timesheet.AnalysisReport{Name: timesheet.ViewName, Parts: nonZeroOnly{}})
	require.NoError(t, s.InitViews(ctx))

	rows, err := s.TimesheetReport(ctx, timesheet.Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(50)))
}

// =============================================================================
// LEAVES
// =============================================================================

func TestSearchLeaves(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice, err := s.CreateEmployee(ctx, hr.Employee{Name: "Alice"})
	require.NoError(t, err)
	bob, err := s.CreateEmployee(ctx, hr.Employee{Name: "Bob"})
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	save := func(emp hr.EmployeeID, from, to time.Time, state hr.LeaveState) {
		_, err := s.SaveLeave(ctx, hr.Leave{EmployeeID: emp, DateFrom: from, DateTo: to, State: state})
		require.NoError(t, err)
	}
	save(alice, now.AddDate(0, 0, 3), now.AddDate(0, 0, 5), hr.LeaveApproved)
	save(bob, now.AddDate(0, 0, 1), now.AddDate(0, 0, 1), hr.LeaveConfirm)
	save(bob, now.AddDate(0, 0, 10), now.AddDate(0, 0, 20), hr.LeaveApproved)
	save(bob, now.AddDate(0, 0, 2), now.AddDate(0, 0, 4), hr.LeaveApproved)

	until := now.Add(14 * 24 * time.Hour)
	leaves, err := s.SearchLeaves(ctx, hr.LeaveFilter{
		StartsOnOrAfter: &now,
		EndsOnOrBefore:  &until,
		State:           hr.LeaveApproved,
	})
	require.NoError(t, err)
	require.Len(t, leaves, 2)

	assert.Equal(t, "Alice", leaves[0].EmployeeName)
	assert.Equal(t, "Bob", leaves[1].EmployeeName)
	assert.True(t, leaves[0].DateFrom.Equal(now.AddDate(0, 0, 3)))

	bobs, err := s.SearchLeaves(ctx, hr.LeaveFilter{EmployeeID: bob})
	require.NoError(t, err)
	assert.Len(t, bobs, 3)
}

func TestSearchLeaves_SubSecondBounds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	emp, err := s.CreateEmployee(ctx, hr.Employee{Name: "Alice"})
	require.NoError(t, err)
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	_, err = s.SaveLeave(ctx, hr.Leave{EmployeeID: emp, DateFrom: start, DateTo: end, State: hr.LeaveApproved})
	require.NoError(t, err)

	// The leave started half a second before now
	now := start.Add(500 * time.Millisecond)
	leaves, err := s.SearchLeaves(ctx, hr.LeaveFilter{StartsOnOrAfter: &now})
	require.NoError(t, err)
	assert.Empty(t, leaves)

	exact := start
	leaves, err = s.SearchLeaves(ctx, hr.LeaveFilter{StartsOnOrAfter: &exact})
	require.NoError(t, err)
	assert.Len(t, leaves, 1)

	until := end.Add(500 * time.Millisecond)
	leaves, err = s.SearchLeaves(ctx, hr.LeaveFilter{EndsOnOrBefore: &until})
	require.NoError(t, err)
	assert.Len(t, leaves, 1)
}

func TestSaveLeave_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.SaveLeave(ctx, hr.Leave{EmployeeID: 1, DateFrom: now, DateTo: now, State: "validate"})
	assert.ErrorIs(t, err, hr.ErrInvalidLeaveState)

	_, err = s.SaveLeave(ctx, hr.Leave{EmployeeID: 1, DateFrom: now, DateTo: now.Add(-time.Hour), State: hr.LeaveDraft})
	assert.ErrorIs(t, err, hr.ErrInvalidPeriod)

	_, err = s.SaveLeave(ctx, hr.Leave{EmployeeID: 999, DateFrom: now, DateTo: now, State: hr.LeaveDraft})
	assert.True(t, hr.IsNotFound(err))
}

// =============================================================================
// EMPLOYEES, SEQUENCES, CONTRACTS, COMPANIES
// =============================================================================

func TestEmployees(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateEmployee(ctx, hr.Employee{Name: "Carol"})
	require.NoError(t, err)

	e, err := s.GetEmployee(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, hr.SequencePlaceholder, e.Sequence)
	assert.Equal(t, hr.MedicalHealthy, e.Medical.Status)

	placeholders, err := s.ListEmployeesBySequence(ctx, hr.SequencePlaceholder)
	require.NoError(t, err)
	assert.Len(t, placeholders, 1)

	require.NoError(t, s.SetEmployeeSequence(ctx, id, "EMP0001"))
	require.NoError(t, s.UpdateMedical(ctx, id, hr.MedicalDetails{BloodType: "O+", Status: hr.MedicalRecovered}))

	e, err = s.GetEmployee(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", e.Sequence)
	assert.Equal(t, "O+", e.Medical.BloodType)
	assert.Equal(t, hr.MedicalRecovered, e.Medical.Status)

	_, err = s.CreateEmployee(ctx, hr.Employee{Name: "Bad", Medical: hr.MedicalDetails{Status: "zombie"}})
	assert.ErrorIs(t, err, hr.ErrInvalidMedicalStatus)

	_, err = s.GetEmployee(ctx, 999)
	assert.ErrorIs(t, err, hr.ErrEmployeeNotFound)
}

func TestReserveNumber(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seq, n, err := s.ReserveNumber(ctx, hr.EmployeeSequenceCode)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, "EMP", seq.Prefix)
	assert.Equal(t, 4, seq.Padding)

	_, n, err = s.ReserveNumber(ctx, hr.EmployeeSequenceCode)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, s.SaveSequence(ctx, hr.Sequence{Code: "custom", Prefix: "C", NextNumber: 100, Step: 10}))
	_, n, err = s.ReserveNumber(ctx, "custom")
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)
	_, n, err = s.ReserveNumber(ctx, "custom")
	require.NoError(t, err)
	assert.Equal(t, int64(110), n)

	_, _, err = s.ReserveNumber(ctx, "missing")
	assert.ErrorIs(t, err, hr.ErrSequenceNotFound)

	require.NoError(t, s.Reset(ctx))
	_, n, err = s.ReserveNumber(ctx, hr.EmployeeSequenceCode)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestContracts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	emp, err := s.CreateEmployee(ctx, hr.Employee{Name: "Dan"})
	require.NoError(t, err)

	id, err := s.CreateContract(ctx, hr.Contract{EmployeeID: emp, Wage: decimal.NewFromInt(150000), Currency: hr.CurrencyLKR})
	require.NoError(t, err)

	require.NoError(t, s.SetContractCurrency(ctx, id, hr.CurrencyGBP))
	c, err := s.GetContract(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, hr.CurrencyGBP, c.Currency)
	assert.True(t, c.Wage.Equal(decimal.NewFromInt(150000)))

	err = s.SetContractCurrency(ctx, id, "eur")
	assert.ErrorIs(t, err, hr.ErrInvalidCurrency)

	err = s.SetContractCurrency(ctx, 999, hr.CurrencyUSD)
	assert.ErrorIs(t, err, hr.ErrContractNotFound)

	_, err = s.CreateContract(ctx, hr.Contract{EmployeeID: 999, Currency: hr.CurrencyUSD})
	assert.ErrorIs(t, err, hr.ErrEmployeeNotFound)
}

func TestPayslipBranding(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateCompany(ctx, "Acme")
	require.NoError(t, err)

	c, err := s.GetCompany(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, c.PayslipLogo)

	logo := []byte{0x89, 'P', 'N', 'G'}
	require.NoError(t, s.SetPayslipBranding(ctx, id, logo, []byte("sig")))

	c, err = s.GetCompany(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, logo, c.PayslipLogo)
	assert.Equal(t, []byte("sig"), c.PayslipSign)

	assert.ErrorIs(t, s.SetPayslipBranding(ctx, 42, nil, nil), hr.ErrCompanyNotFound)
}

func TestAttendances(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	emp, err := s.CreateEmployee(ctx, hr.Employee{Name: "Eve"})
	require.NoError(t, err)

	in := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)
	_, err = s.AddAttendance(ctx, hr.Attendance{EmployeeID: emp, CheckIn: in, CheckOut: &out})
	require.NoError(t, err)
	_, err = s.AddAttendance(ctx, hr.Attendance{EmployeeID: emp, CheckIn: in.AddDate(0, 0, 1)})
	require.NoError(t, err)

	n, err := s.CountAttendances(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.AddAttendance(ctx, hr.Attendance{EmployeeID: 999, CheckIn: in})
	assert.ErrorIs(t, err, hr.ErrEmployeeNotFound)
}

// =============================================================================
// HELPDESK
// =============================================================================

func TestSLAs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	late := helpdesk.NewSLA()
	late.Name = "Late"
	late.Sequence = 20
	late.Priority = helpdesk.PriorityLow
	late.TimeToResolve, late.TimeToRespond = 48, 8

	start := day(2024, 1, 1)
	early := helpdesk.NewSLA()
	early.Name = "Early"
	early.Priority = helpdesk.PriorityCritical
	early.TimeToResolve, early.TimeToRespond = 4, 1
	early.StartDate = &start

	lateID, err := s.CreateSLA(ctx, late)
	require.NoError(t, err)
	_, err = s.CreateSLA(ctx, early)
	require.NoError(t, err)

	slas, err := s.ListSLAs(ctx, false)
	require.NoError(t, err)
	require.Len(t, slas, 2)
	assert.Equal(t, "Early", slas[0].Name)
	assert.True(t, slas[0].Active)
	require.NotNil(t, slas[0].StartDate)
	assert.True(t, slas[0].StartDate.Equal(start))
	assert.Nil(t, slas[0].EndDate)

	require.NoError(t, s.SetSLAStatus(ctx, lateID, helpdesk.StatusArchived, false))
	slas, err = s.ListSLAs(ctx, false)
	require.NoError(t, err)
	assert.Len(t, slas, 1)

	all, err := s.ListSLAs(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.GetSLA(ctx, 999)
	assert.ErrorIs(t, err, hr.ErrSLANotFound)
}

func TestTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateTag(ctx, helpdesk.Tag{Name: "urgent"})
	require.NoError(t, err)
	_, err = s.CreateTag(ctx, helpdesk.Tag{Name: "billing"})
	require.NoError(t, err)

	_, err = s.CreateTag(ctx, helpdesk.Tag{Name: "urgent"})
	assert.ErrorIs(t, err, hr.ErrDuplicate)

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "billing", tags[0].Name)
}

// =============================================================================
// MAILBOX
// =============================================================================

func TestMailboxFeeds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	const me, other = int64(7), int64(8)

	m1, err := s.CreateMessage(ctx, other, "Payroll", "March payslips are out", []int64{me})
	require.NoError(t, err)
	m2, err := s.CreateMessage(ctx, other, "Leave", "Approved 100% of requests", []int64{me, other})
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, me, "Note", "not for me", []int64{other})
	require.NoError(t, err)

	require.NoError(t, s.MarkRead(ctx, m1, me))
	require.NoError(t, s.SetStarred(ctx, m2, me, true))

	inbox, err := s.SearchMessages(ctx, mail.Query{PartnerID: me, Feed: mail.FeedInbox})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, m2, inbox[0].ID)
	assert.True(t, inbox[0].NeedAction)
	assert.True(t, inbox[0].Starred)

	history, err := s.SearchMessages(ctx, mail.Query{PartnerID: me, Feed: mail.FeedHistory})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, m1, history[0].ID)
	assert.False(t, history[0].NeedAction)

	starred, err := s.SearchMessages(ctx, mail.Query{PartnerID: me, Feed: mail.FeedStarred})
	require.NoError(t, err)
	require.Len(t, starred, 1)

	require.NoError(t, s.SetStarred(ctx, m2, me, false))
	n, err := s.CountMessages(ctx, mail.Query{PartnerID: me, Feed: mail.FeedStarred})
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, s.SetStarred(ctx, 999, me, true), hr.ErrMessageNotFound)
	assert.ErrorIs(t, s.MarkRead(ctx, m1, 999), hr.ErrMessageNotFound)

	_, err = s.SearchMessages(ctx, mail.Query{PartnerID: me, Feed: "outbox"})
	assert.ErrorIs(t, err, mail.ErrUnknownFeed)
}

func TestMailboxSearchAndPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	const me = int64(1)

	var ids []int64
	for _, body := range []string{"alpha", "beta", "100% alpha", "gamma", "alpha_beta"} {
		id, err := s.CreateMessage(ctx, 2, "", body, []int64{me})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	n, err := s.CountMessages(ctx, mail.Query{PartnerID: me, Feed: mail.FeedInbox, SearchTerm: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// LIKE wildcards in the term match literally.
	n, err = s.CountMessages(ctx, mail.Query{PartnerID: me, Feed: mail.FeedInbox, SearchTerm: "100%"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.CountMessages(ctx, mail.Query{PartnerID: me, Feed: mail.FeedInbox, SearchTerm: "a_b"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	page, err := s.SearchMessages(ctx, mail.Query{PartnerID: me, Feed: mail.FeedInbox, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)

	older, err := s.SearchMessages(ctx, mail.Query{PartnerID: me, Feed: mail.FeedInbox, IDBelow: ids[3], Limit: 2})
	require.NoError(t, err)
	require.Len(t, older, 2)
	assert.Equal(t, ids[2], older[0].ID)

	fetched, err := mail.NewMailbox(s).Fetch(ctx, me, mail.FeedInbox, mail.FetchParams{Around: ids[2], Limit: 2})
	require.NoError(t, err)
	require.Len(t, fetched.Messages, 2)
	assert.Equal(t, ids[3], fetched.Messages[0].ID)
	assert.Equal(t, ids[2], fetched.Messages[1].ID)
}

// =============================================================================
// DIGEST RUNS
// =============================================================================

func TestDigestRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	run := DigestRun{ID: "run-1", Status: DigestRunning, Recipients: []string{"hr@example.com", "ops@example.com"}, StartedAt: started}
	require.NoError(t, s.SaveDigestRun(ctx, run))

	done := started.Add(time.Minute)
	run.Status = DigestCompleted
	run.LeaveCount = 3
	run.CompletedAt = &done
	require.NoError(t, s.SaveDigestRun(ctx, run))

	require.NoError(t, s.SaveDigestRun(ctx, DigestRun{
		ID: "run-2", Status: DigestFailed, Error: "smtp down", StartedAt: started.Add(time.Hour),
	}))

	runs, err := s.ListDigestRuns(ctx, "")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "smtp down", runs[0].Error)
	assert.Nil(t, runs[0].Recipients)

	completed, err := s.ListDigestRuns(ctx, DigestCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, 3, completed[0].LeaveCount)
	assert.Equal(t, []string{"hr@example.com", "ops@example.com"}, completed[0].Recipients)
	require.NotNil(t, completed[0].CompletedAt)
	assert.True(t, completed[0].CompletedAt.Equal(done))
}
