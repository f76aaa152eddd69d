package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/store/sqlite"
	"github.com/warp/hr-extensions/timesheet"
)

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// CreateLeave records a leave period.
// POST /api/leaves
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveRequest
	if !h.decode(w, r, &req) {
		return
	}

	from, err := hr.ParseDateTime(req.DateFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date_from", err)
		return
	}
	to, err := hr.ParseDateTime(req.DateTo)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date_to", err)
		return
	}

	l := hr.Leave{EmployeeID: hr.EmployeeID(req.EmployeeID), DateFrom: from, DateTo: to, State: hr.LeaveState(req.State)}
	id, err := h.Store.SaveLeave(r.Context(), l)
	if err != nil {
		writeError(w, statusFor(err), "Failed to create leave", err)
		return
	}

	writeJSON(w, http.StatusCreated, LeaveDTO{
		ID:         int64(id),
		EmployeeID: req.EmployeeID,
		DateFrom:   hr.FormatDateTime(from),
		DateTo:     hr.FormatDateTime(to),
		State:      req.State,
	})
}

// UpcomingLeaves returns approved leaves within the next 14 days.
// GET /api/leaves/upcoming
func (h *Handler) UpcomingLeaves(w http.ResponseWriter, r *http.Request) {
	digest, err := h.Leaves.BuildDigest(r.Context(), h.Now())
	if err != nil {
		writeError(w, statusFor(err), "Failed to find upcoming leaves", err)
		return
	}
	writeJSON(w, http.StatusOK, toUpcomingLeavesResponse(digest))
}

// UpcomingLeavesPage renders the upcoming leaves as an HTML page.
// GET /leaves/upcoming
func (h *Handler) UpcomingLeavesPage(w http.ResponseWriter, r *http.Request) {
	digest, err := h.Leaves.BuildDigest(r.Context(), h.Now())
	if err != nil {
		writeError(w, statusFor(err), "Failed to find upcoming leaves", err)
		return
	}
	page, err := digest.RenderHTML()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render upcoming leaves", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}

// =============================================================================
// TIMESHEET HANDLERS
// =============================================================================

// CreateTask creates a project task (milestone source for the report).
// POST /api/timesheets/tasks
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.Store.SaveTask(r.Context(), sqlite.Task{
		Name:        req.Name,
		ProjectID:   req.ProjectID,
		ParentID:    req.ParentID,
		MilestoneID: req.MilestoneID,
	})
	if err != nil {
		writeError(w, statusFor(err), "Failed to create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// CreateAnalyticLine records a time/cost line.
// POST /api/timesheets/lines
func (h *Handler) CreateAnalyticLine(w http.ResponseWriter, r *http.Request) {
	var req CreateAnalyticLineRequest
	if !h.decode(w, r, &req) {
		return
	}

	date, err := hr.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	amount, err := decimalOrZero(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	unitAmount, err := decimalOrZero(req.UnitAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid unit_amount", err)
		return
	}

	id, err := h.Store.SaveAnalyticLine(r.Context(), timesheet.AnalyticLine{
		Name:         req.Name,
		UserID:       req.UserID,
		ProjectID:    req.ProjectID,
		TaskID:       req.TaskID,
		ParentTaskID: req.ParentTaskID,
		EmployeeID:   req.EmployeeID,
		ManagerID:    req.ManagerID,
		CompanyID:    req.CompanyID,
		DepartmentID: req.DepartmentID,
		CurrencyID:   req.CurrencyID,
		Date:         date,
		Amount:       amount,
		UnitAmount:   unitAmount,
		PartnerID:    req.PartnerID,
	})
	if err != nil {
		writeError(w, statusFor(err), "Failed to create analytic line", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// TimesheetReport returns rows of the timesheet analysis view.
// GET /api/timesheets/report?project_id=&employee_id=&from=&to=
func (h *Handler) TimesheetReport(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.reportRows(w, r)
	if !ok {
		return
	}

	dtos := make([]ReportRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = toReportRowDTO(row)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TimesheetSummary totals the report per project or employee.
// GET /api/timesheets/report/summary?group_by=project|employee
func (h *Handler) TimesheetSummary(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.reportRows(w, r)
	if !ok {
		return
	}

	groupBy := timesheet.GroupBy(r.URL.Query().Get("group_by"))
	if groupBy == "" {
		groupBy = timesheet.GroupByProject
	}
	lines, err := timesheet.Summarize(rows, groupBy)
	if err != nil {
		writeError(w, statusFor(err), "Failed to summarize timesheets", err)
		return
	}

	dtos := make([]SummaryLineDTO, len(lines))
	for i, l := range lines {
		dtos[i] = SummaryLineDTO{
			Key:        l.Key,
			Lines:      l.Lines,
			Amount:     l.Amount.String(),
			UnitAmount: l.UnitAmount.String(),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"group_by": groupBy, "lines": dtos})
}

// ExportTimesheetReport downloads the report as an XLSX workbook.
// GET /api/timesheets/report.xlsx
func (h *Handler) ExportTimesheetReport(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.reportRows(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := timesheet.WriteXLSX(&buf, rows); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export timesheets", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="timesheets_analysis_report.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) reportRows(w http.ResponseWriter, r *http.Request) ([]timesheet.Row, bool) {
	var (
		f   timesheet.Filter
		err error
	)
	if f.ProjectID, err = queryInt(r, "project_id"); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return nil, false
	}
	if f.EmployeeID, err = queryInt(r, "employee_id"); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return nil, false
	}
	if f.From, err = queryDate(r, "from"); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return nil, false
	}
	if f.To, err = queryDate(r, "to"); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return nil, false
	}

	rows, err := h.Store.TimesheetReport(r.Context(), f)
	if err != nil {
		writeError(w, statusFor(err), "Failed to read timesheet report", err)
		return nil, false
	}
	return rows, true
}

func decimalOrZero(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// =============================================================================
// DIGEST HANDLERS
// =============================================================================

// ListDigestRuns returns digest delivery history. next_run_at is null when
// the scheduler is not running.
// GET /api/digest/runs?status=
func (h *Handler) ListDigestRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListDigestRuns(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, statusFor(err), "Failed to get digest runs", err)
		return
	}

	dtos := make([]DigestRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toDigestRunDTO(run))
	}
	var nextRun *string
	if next := h.Digest.GetNextRunTime(); !next.IsZero() {
		s := next.UTC().Format(time.RFC3339)
		nextRun = &s
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"runs":        dtos,
		"next_run_at": nextRun,
	})
}

// SendDigest sends the upcoming-leave digest now.
// POST /api/digest/send
func (h *Handler) SendDigest(w http.ResponseWriter, r *http.Request) {
	run, err := h.Digest.RunNow(r.Context())
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{
			"error": "Failed to send digest",
			"run":   toDigestRunDTO(run),
		})
		return
	}
	writeJSON(w, http.StatusOK, toDigestRunDTO(run))
}
