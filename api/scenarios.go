/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Dates are relative to the handler clock so
	the upcoming-leave report always has something to show.

AVAILABLE SCENARIOS:

	upcoming-leaves:  Employees with leaves inside, outside and across the 14-day window
	timesheets:       Tasks with milestones, analytic lines with and without a project
	payroll:          Company branding, contracts in each currency, attendances
	helpdesk:         SLAs of every priority, one archived, and tags
	mailbox:          Messages in the inbox, history and starred feeds of partner 1

HOW SCENARIOS WORK:
 1. Reset database (clear all data, restart employee numbering)
 2. Create employees through the employee service (numbered)
 3. Insert the module records

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "upcoming-leaves"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add it to the loaders map

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/hr-extensions/helpdesk"
	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/store/sqlite"
	"github.com/warp/hr-extensions/timesheet"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "upcoming-leaves",
		Name:        "Upcoming Leaves",
		Description: "Approved and pending leaves around the 14-day upcoming window",
		Category:    "leaves",
	},
	{
		ID:          "timesheets",
		Name:        "Timesheet Analysis",
		Description: "Project time and costs, plus lines without a project that the report skips",
		Category:    "timesheets",
	},
	{
		ID:          "payroll",
		Name:        "Payroll Settings",
		Description: "Payslip branding, contracts in LKR/USD/GBP and worked days",
		Category:    "payroll",
	},
	{
		ID:          "helpdesk",
		Name:        "Helpdesk SLAs",
		Description: "Response and resolution SLAs by priority, with tags",
		Category:    "helpdesk",
	},
	{
		ID:          "mailbox",
		Name:        "Mailbox",
		Description: "Inbox, history and starred messages for partner 1",
		Category:    "mail",
	},
}

func (h *Handler) scenarioLoaders() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"upcoming-leaves": h.loadUpcomingLeavesScenario,
		"timesheets":      h.loadTimesheetsScenario,
		"payroll":         h.loadPayrollScenario,
		"helpdesk":        h.loadHelpdeskScenario,
		"mailbox":         h.loadMailboxScenario,
	}
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id" validate:"required"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	load, ok := h.scenarioLoaders()[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := load(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) createEmployees(ctx context.Context, names ...string) ([]hr.EmployeeID, error) {
	ids := make([]hr.EmployeeID, 0, len(names))
	for _, name := range names {
		e, err := h.Employees.Create(ctx, hr.Employee{Name: name})
		if err != nil {
			return nil, fmt.Errorf("create employee %s: %w", name, err)
		}
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (h *Handler) loadUpcomingLeavesScenario(ctx context.Context) error {
	ids, err := h.createEmployees(ctx, "Amal Perera", "Bianca Silva", "Chen Wei", "Dilani Fernando")
	if err != nil {
		return err
	}

	now := h.Now().UTC()
	at := func(days int, hour int) time.Time {
		d := now.AddDate(0, 0, days)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
	}

	leaves := []hr.Leave{
		// Inside the window, approved
		{EmployeeID: ids[0], DateFrom: at(2, 8), DateTo: at(4, 17), State: hr.LeaveApproved},
		{EmployeeID: ids[1], DateFrom: at(7, 8), DateTo: at(7, 17), State: hr.LeaveApproved},
		// Inside the window, not yet approved
		{EmployeeID: ids[2], DateFrom: at(3, 8), DateTo: at(5, 17), State: hr.LeaveConfirm},
		{EmployeeID: ids[3], DateFrom: at(5, 8), DateTo: at(6, 17), State: hr.LeaveValidate1},
		// Ends after the window
		{EmployeeID: ids[2], DateFrom: at(10, 8), DateTo: at(20, 17), State: hr.LeaveApproved},
		// Already started
		{EmployeeID: ids[3], DateFrom: at(-2, 8), DateTo: at(1, 17), State: hr.LeaveApproved},
		{EmployeeID: ids[0], DateFrom: at(9, 8), DateTo: at(9, 12), State: hr.LeaveRefuse},
	}
	for _, l := range leaves {
		if _, err := h.Store.SaveLeave(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadTimesheetsScenario(ctx context.Context) error {
	ids, err := h.createEmployees(ctx, "Eshan Jayasuriya", "Fathima Rizwan")
	if err != nil {
		return err
	}
	emp := func(i int) *int64 { v := int64(ids[i]); return &v }
	ref := func(v int64) *int64 { return &v }

	const website, mobileApp = 1, 2
	design, err := h.Store.SaveTask(ctx, sqlite.Task{Name: "Design", ProjectID: ref(website), MilestoneID: ref(11)})
	if err != nil {
		return err
	}
	build, err := h.Store.SaveTask(ctx, sqlite.Task{Name: "Build", ProjectID: ref(website), ParentID: &design, MilestoneID: ref(12)})
	if err != nil {
		return err
	}
	release, err := h.Store.SaveTask(ctx, sqlite.Task{Name: "Store release", ProjectID: ref(mobileApp)})
	if err != nil {
		return err
	}

	today := h.Now().UTC()
	day := func(offset int) time.Time { return today.AddDate(0, 0, offset) }
	lines := []timesheet.AnalyticLine{
		{Name: "Wireframes", ProjectID: ref(website), TaskID: &design, EmployeeID: emp(0), Date: day(-6), Amount: decimal.RequireFromString("-150.00"), UnitAmount: decimal.RequireFromString("3")},
		{Name: "Landing page", ProjectID: ref(website), TaskID: &build, ParentTaskID: &design, EmployeeID: emp(0), Date: day(-5), Amount: decimal.RequireFromString("-400.00"), UnitAmount: decimal.RequireFromString("8")},
		{Name: "API review", ProjectID: ref(website), TaskID: &build, ParentTaskID: &design, EmployeeID: emp(1), Date: day(-5), Amount: decimal.RequireFromString("-225.50"), UnitAmount: decimal.RequireFromString("4.5")},
		{Name: "Screenshots", ProjectID: ref(mobileApp), TaskID: &release, EmployeeID: emp(1), Date: day(-3), Amount: decimal.RequireFromString("-100.00"), UnitAmount: decimal.RequireFromString("2")},
		// Not project time: excluded from the report
		{Name: "Office supplies", Date: day(-4), Amount: decimal.RequireFromString("-35.90"), UnitAmount: decimal.Zero},
		{Name: "Client invoice", EmployeeID: emp(0), Date: day(-1), Amount: decimal.RequireFromString("2000.00"), UnitAmount: decimal.Zero},
	}
	for _, l := range lines {
		if _, err := h.Store.SaveAnalyticLine(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadPayrollScenario(ctx context.Context) error {
	company, err := h.Store.CreateCompany(ctx, "Lanka Tea Exports")
	if err != nil {
		return err
	}
	// 1x1 transparent PNG
	logo := []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
		0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
	}
	if _, err := h.Payroll.UpdateBranding(ctx, company, logo, []byte("signed: HR Manager")); err != nil {
		return err
	}

	ids, err := h.createEmployees(ctx, "Gayan Wickramasinghe", "Hannah Brooks", "Imran Khan")
	if err != nil {
		return err
	}
	contracts := []hr.Contract{
		{EmployeeID: ids[0], Wage: decimal.NewFromInt(185000), Currency: hr.CurrencyLKR},
		{EmployeeID: ids[1], Wage: decimal.NewFromInt(4200), Currency: hr.CurrencyGBP},
		{EmployeeID: ids[2], Wage: decimal.NewFromInt(3900), Currency: hr.CurrencyUSD},
	}
	for _, c := range contracts {
		if _, err := h.Payroll.CreateContract(ctx, c); err != nil {
			return err
		}
	}

	start := h.Now().UTC().AddDate(0, 0, -10)
	for i, id := range ids {
		for d := 0; d < 5+i; d++ {
			in := time.Date(start.Year(), start.Month(), start.Day()+d, 8, 30, 0, 0, time.UTC)
			out := in.Add(8 * time.Hour)
			if _, err := h.Attendance.Record(ctx, hr.Attendance{EmployeeID: id, CheckIn: in, CheckOut: &out}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Handler) loadHelpdeskScenario(ctx context.Context) error {
	type slaSpec struct {
		name             string
		typ              helpdesk.SLAType
		priority         helpdesk.Priority
		sequence         int
		resolve, respond int
		archived         bool
	}
	specs := []slaSpec{
		{"Critical response", helpdesk.SLAResponse, helpdesk.PriorityCritical, 1, 4, 1, false},
		{"High resolution", helpdesk.SLAResolution, helpdesk.PriorityHigh, 5, 24, 4, false},
		{"Standard", helpdesk.SLAResponse, helpdesk.PriorityMedium, helpdesk.DefaultSequence, 72, 8, false},
		{"Legacy bronze", helpdesk.SLAResolution, helpdesk.PriorityLow, 30, 120, 24, true},
	}
	for _, s := range specs {
		sla := helpdesk.NewSLA()
		sla.Name = s.name
		sla.Type = s.typ
		sla.Priority = s.priority
		sla.Sequence = s.sequence
		sla.TimeToResolve = s.resolve
		sla.TimeToRespond = s.respond
		created, err := h.Helpdesk.CreateSLA(ctx, sla)
		if err != nil {
			return err
		}
		if s.archived {
			if _, err := h.Helpdesk.Archive(ctx, created.ID); err != nil {
				return err
			}
		}
	}

	for _, name := range []string{"billing", "bug", "onboarding", "urgent"} {
		if _, err := h.Helpdesk.CreateTag(ctx, helpdesk.Tag{Name: name}); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadMailboxScenario(ctx context.Context) error {
	const me, hrDesk, finance = int64(1), int64(2), int64(3)

	type msg struct {
		author        int64
		subject, body string
		read, starred bool
	}
	msgs := []msg{
		{hrDesk, "Welcome", "Welcome to the team! Your employee number is ready.", true, false},
		{finance, "Payslip", "Your March payslip is available.", true, true},
		{hrDesk, "Leave approved", "Your leave request for next week was approved.", false, true},
		{finance, "Expense claim", "Please attach receipts to your expense claim.", false, false},
		{hrDesk, "Medical details", "Remember to update your emergency contact.", false, false},
	}
	for _, m := range msgs {
		id, err := h.Store.CreateMessage(ctx, m.author, m.subject, m.body, []int64{me})
		if err != nil {
			return err
		}
		if m.read {
			if err := h.Store.MarkRead(ctx, id, me); err != nil {
				return err
			}
		}
		if m.starred {
			if err := h.Store.SetStarred(ctx, id, me, true); err != nil {
				return err
			}
		}
	}
	return nil
}
