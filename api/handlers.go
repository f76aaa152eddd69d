/*
handlers.go - HTTP API handlers for the HR extension modules

PURPOSE:
  Exposes the HR services via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the domain services.

ENDPOINTS (this file):
  Employees:
    GET    /api/employees                      List all employees
    POST   /api/employees                      Create employee (numbered)
    GET    /api/employees/{id}                 Get employee
    POST   /api/employees/{id}/copy            Copy under a fresh number
    GET    /api/employees/{id}/medical         Medical details
    PUT    /api/employees/{id}/medical         Replace medical details
    POST   /api/employees/{id}/attendances     Record attendance
    GET    /api/employees/{id}/worked-days     Attendance count
    POST   /api/employees/sequences/backfill   Number placeholder employees

  Payroll:
    POST   /api/contracts                      Create contract
    PUT    /api/contracts/{id}/currency        Change wage currency
    POST   /api/companies                      Create company
    GET    /api/companies/{id}/payslip-branding
    PUT    /api/companies/{id}/payslip-branding

  Leaves, timesheets, digest:  see reports.go
  Helpdesk, mail:              see support.go
  Scenarios:                   see scenarios.go

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access (also implements every service store)
  - One service per module, built over the store
  - Digest: upcoming-leave digest scheduler, shared with cmd/server

ERROR HANDLING:
  Errors are returned as JSON with status chosen by statusFor():
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Digest has no recipients
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.
  Mail feeds take the current partner from the X-Partner-ID header.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/warp/hr-extensions/attendance"
	"github.com/warp/hr-extensions/employee"
	"github.com/warp/hr-extensions/helpdesk"
	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/leave"
	"github.com/warp/hr-extensions/mail"
	"github.com/warp/hr-extensions/payroll"
	"github.com/warp/hr-extensions/sequence"
	"github.com/warp/hr-extensions/store/sqlite"
	"github.com/warp/hr-extensions/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Employees  *employee.Service
	Attendance *attendance.Service
	Payroll    *payroll.Service
	Helpdesk   *helpdesk.Service
	Leaves     *leave.Finder
	Mailbox    *mail.Mailbox
	Digest     *DigestScheduler

	// Now is the clock used for the upcoming-leave window.
	Now func() time.Time

	validate *validator.Validate

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler wires every service over the store. The digest scheduler
// starts with the logging mailer and no recipients; cmd/server configures it.
func NewHandler(store *sqlite.Store) *Handler {
	logger := log.StandardLogger()
	finder := leave.NewFinder(store, logger)

	return &Handler{
		Store:      store,
		Employees:  employee.NewService(store, sequence.NewGenerator(store), logger),
		Attendance: attendance.NewService(store, logger),
		Payroll:    payroll.NewService(store, store),
		Helpdesk:   helpdesk.NewService(store),
		Leaves:     finder,
		Mailbox:    mail.NewMailbox(store),
		Digest:     NewDigestScheduler(store, finder, leave.LogMailer{Logger: logger}, nil),
		Now:        time.Now,
		validate:   validator.New(),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Employees.List(r.Context())
	if err != nil {
		writeError(w, statusFor(err), "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	emp, err := h.Employees.Get(r.Context(), hr.EmployeeID(id))
	if err != nil {
		writeError(w, statusFor(err), "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates a new employee, assigning the next employee number
// when none is given.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	emp, err := h.Employees.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, statusFor(err), "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*emp))
}

// CopyEmployee duplicates an employee under a fresh number.
// POST /api/employees/{id}/copy
func (h *Handler) CopyEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	emp, err := h.Employees.Copy(r.Context(), hr.EmployeeID(id))
	if err != nil {
		writeError(w, statusFor(err), "Failed to copy employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*emp))
}

// GetMedical returns an employee's medical details.
func (h *Handler) GetMedical(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	emp, err := h.Employees.Get(r.Context(), hr.EmployeeID(id))
	if err != nil {
		writeError(w, statusFor(err), "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toMedicalDTO(emp.Medical))
}

// UpdateMedical replaces an employee's medical details. An empty status
// resets it to healthy.
func (h *Handler) UpdateMedical(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req MedicalDTO
	if !h.decode(w, r, &req) {
		return
	}

	emp, err := h.Employees.UpdateMedical(r.Context(), hr.EmployeeID(id), req.toDomain())
	if err != nil {
		writeError(w, statusFor(err), "Failed to update medical details", err)
		return
	}
	writeJSON(w, http.StatusOK, toMedicalDTO(emp.Medical))
}

// BackfillSequences numbers every employee still holding the placeholder.
// POST /api/employees/sequences/backfill
func (h *Handler) BackfillSequences(w http.ResponseWriter, r *http.Request) {
	n, err := h.Employees.Backfill(r.Context())
	if err != nil {
		writeError(w, statusFor(err), "Failed to backfill sequences", err)
		return
	}
	writeJSON(w, http.StatusOK, BackfillResponse{Updated: n})
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// RecordAttendance stores a check-in (default now) and optional check-out.
// POST /api/employees/{id}/attendances
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req RecordAttendanceRequest
	if !h.decode(w, r, &req) {
		return
	}

	a := hr.Attendance{EmployeeID: hr.EmployeeID(id)}
	if req.CheckIn != "" {
		in, err := hr.ParseDateTime(req.CheckIn)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid check_in", err)
			return
		}
		a.CheckIn = in
	}
	if req.CheckOut != "" {
		out, err := hr.ParseDateTime(req.CheckOut)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid check_out", err)
			return
		}
		a.CheckOut = &out
	}

	attID, err := h.Attendance.Record(r.Context(), a)
	if err != nil {
		writeError(w, statusFor(err), "Failed to record attendance", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": attID})
}

// GetWorkedDays returns the employee's attendance count.
// GET /api/employees/{id}/worked-days
func (h *Handler) GetWorkedDays(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	n, err := h.Attendance.WorkedDays(r.Context(), hr.EmployeeID(id))
	if err != nil {
		writeError(w, statusFor(err), "Failed to count worked days", err)
		return
	}
	writeJSON(w, http.StatusOK, WorkedDaysDTO{EmployeeID: id, WorkedDays: n})
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// CreateContract creates a contract; currency defaults to LKR.
// POST /api/contracts
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req CreateContractRequest
	if !h.decode(w, r, &req) {
		return
	}

	wage := decimal.Zero
	if req.Wage != "" {
		var err error
		if wage, err = decimal.NewFromString(req.Wage); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid wage", err)
			return
		}
	}

	c, err := h.Payroll.CreateContract(r.Context(), hr.Contract{
		EmployeeID: hr.EmployeeID(req.EmployeeID),
		Wage:       wage,
		Currency:   hr.Currency(req.Currency),
	})
	if err != nil {
		writeError(w, statusFor(err), "Failed to create contract", err)
		return
	}
	writeJSON(w, http.StatusCreated, toContractDTO(*c))
}

// SetContractCurrency changes a contract's wage currency.
// PUT /api/contracts/{id}/currency
func (h *Handler) SetContractCurrency(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req SetCurrencyRequest
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.Payroll.SetCurrency(r.Context(), hr.ContractID(id), req.Currency)
	if err != nil {
		writeError(w, statusFor(err), "Failed to set currency", err)
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(*c))
}

// CreateCompany creates a company.
// POST /api/companies
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.Store.CreateCompany(r.Context(), req.Name)
	if err != nil {
		writeError(w, statusFor(err), "Failed to create company", err)
		return
	}
	c, err := h.Payroll.Branding(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), "Failed to get company", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBrandingDTO(*c))
}

// GetBranding returns the payslip logo and signature of a company.
// GET /api/companies/{id}/payslip-branding
func (h *Handler) GetBranding(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.Payroll.Branding(r.Context(), hr.CompanyID(id))
	if err != nil {
		writeError(w, statusFor(err), "Failed to get payslip branding", err)
		return
	}
	writeJSON(w, http.StatusOK, toBrandingDTO(*c))
}

// UpdateBranding replaces the payslip logo and signature.
// PUT /api/companies/{id}/payslip-branding
func (h *Handler) UpdateBranding(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateBrandingRequest
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.Payroll.UpdateBranding(r.Context(), hr.CompanyID(id), req.PayslipLogo, req.PayslipSign)
	if err != nil {
		writeError(w, statusFor(err), "Failed to update payslip branding", err)
		return
	}
	writeJSON(w, http.StatusOK, toBrandingDTO(*c))
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error(message)
	}
	writeJSON(w, status, resp)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var fieldErr *helpdesk.FieldError
	switch {
	case hr.IsNotFound(err):
		return http.StatusNotFound
	case hr.IsClientError(err),
		errors.As(err, &fieldErr),
		errors.Is(err, mail.ErrUnknownFeed),
		errors.Is(err, timesheet.ErrInvalidGroupBy):
		return http.StatusBadRequest
	case errors.Is(err, leave.ErrNoRecipients):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body into dst and validates its tags. It writes the
// 400 response itself and reports whether the handler may continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			writeError(w, http.StatusBadRequest, "Validation failed",
				fmt.Errorf("field %s failed %q validation", fe.Field(), fe.Tag()))
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s %q", name, raw), err)
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter; 0 when absent.
func queryInt(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return n, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := hr.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return &d, nil
}
