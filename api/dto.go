/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request types carry go-playground/validator tags, checked by decode() in
  handlers.go before the request reaches a service. Services still validate
  their own invariants (currency, medical status, periods).

DATES:
  Dates are "YYYY-MM-DD"; datetimes are RFC 3339 on output and RFC 3339 or
  "YYYY-MM-DD HH:MM:SS" (UTC) on input.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/hr-extensions/helpdesk"
	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/leave"
	"github.com/warp/hr-extensions/mail"
	"github.com/warp/hr-extensions/store/sqlite"
	"github.com/warp/hr-extensions/timesheet"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type MedicalDTO struct {
	Allergies        string `json:"allergies,omitempty"`
	BloodType        string `json:"blood_type,omitempty"`
	Medications      string `json:"medications,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	Status           string `json:"medical_status" validate:"omitempty,oneof=healthy under_treatment recovered critical unknown"`
}

func (m MedicalDTO) toDomain() hr.MedicalDetails {
	return hr.MedicalDetails{
		Allergies:        m.Allergies,
		BloodType:        m.BloodType,
		Medications:      m.Medications,
		EmergencyContact: m.EmergencyContact,
		Status:           hr.MedicalStatus(m.Status),
	}
}

func toMedicalDTO(m hr.MedicalDetails) MedicalDTO {
	return MedicalDTO{
		Allergies:        m.Allergies,
		BloodType:        m.BloodType,
		Medications:      m.Medications,
		EmergencyContact: m.EmergencyContact,
		Status:           string(m.Status),
	}
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Sequence     string     `json:"emp_seq"`
	CompanyID    *int64     `json:"company_id,omitempty"`
	DepartmentID *int64     `json:"department_id,omitempty"`
	ManagerID    *int64     `json:"parent_id,omitempty"`
	UserID       *int64     `json:"user_id,omitempty"`
	Medical      MedicalDTO `json:"medical"`
	CreatedAt    string     `json:"created_at,omitempty"`
}

func toEmployeeDTO(e hr.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:           int64(e.ID),
		Name:         e.Name,
		Sequence:     e.Sequence,
		DepartmentID: e.DepartmentID,
		UserID:       e.UserID,
		Medical:      toMedicalDTO(e.Medical),
	}
	if e.CompanyID != 0 {
		c := int64(e.CompanyID)
		dto.CompanyID = &c
	}
	if e.ManagerID != nil {
		m := int64(*e.ManagerID)
		dto.ManagerID = &m
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// CreateEmployeeRequest is the request to create an employee. An empty or
// "/" emp_seq is replaced by the next employee number.
type CreateEmployeeRequest struct {
	Name         string      `json:"name" validate:"required"`
	Sequence     string      `json:"emp_seq"`
	CompanyID    int64       `json:"company_id" validate:"gte=0"`
	DepartmentID *int64      `json:"department_id"`
	ManagerID    *int64      `json:"parent_id"`
	UserID       *int64      `json:"user_id"`
	Medical      *MedicalDTO `json:"medical"`
}

func (r CreateEmployeeRequest) toDomain() hr.Employee {
	e := hr.Employee{
		Name:         r.Name,
		Sequence:     r.Sequence,
		CompanyID:    hr.CompanyID(r.CompanyID),
		DepartmentID: r.DepartmentID,
		UserID:       r.UserID,
	}
	if r.ManagerID != nil {
		m := hr.EmployeeID(*r.ManagerID)
		e.ManagerID = &m
	}
	if r.Medical != nil {
		e.Medical = r.Medical.toDomain()
	}
	return e
}

type RecordAttendanceRequest struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type WorkedDaysDTO struct {
	EmployeeID int64 `json:"employee_id"`
	WorkedDays int   `json:"worked_days"`
}

type BackfillResponse struct {
	Updated int `json:"updated"`
}

// =============================================================================
// CONTRACTS AND COMPANIES
// =============================================================================

type ContractDTO struct {
	ID            int64  `json:"id"`
	EmployeeID    int64  `json:"employee_id"`
	Wage          string `json:"wage"`
	Currency      string `json:"currency"`
	CurrencyLabel string `json:"currency_label"`
}

func toContractDTO(c hr.Contract) ContractDTO {
	return ContractDTO{
		ID:            int64(c.ID),
		EmployeeID:    int64(c.EmployeeID),
		Wage:          c.Wage.String(),
		Currency:      string(c.Currency),
		CurrencyLabel: c.Currency.Label(),
	}
}

type CreateContractRequest struct {
	EmployeeID int64  `json:"employee_id" validate:"required,gt=0"`
	Wage       string `json:"wage" validate:"omitempty,numeric"`
	Currency   string `json:"currency"`
}

type SetCurrencyRequest struct {
	Currency string `json:"currency" validate:"required"`
}

type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required"`
}

// BrandingDTO carries payslip images; []byte fields are base64 in JSON.
type BrandingDTO struct {
	CompanyID   int64  `json:"company_id"`
	Name        string `json:"name"`
	PayslipLogo []byte `json:"payslip_logo"`
	PayslipSign []byte `json:"payslip_sign"`
}

func toBrandingDTO(c hr.Company) BrandingDTO {
	return BrandingDTO{
		CompanyID:   int64(c.ID),
		Name:        c.Name,
		PayslipLogo: c.PayslipLogo,
		PayslipSign: c.PayslipSign,
	}
}

type UpdateBrandingRequest struct {
	PayslipLogo []byte `json:"payslip_logo"`
	PayslipSign []byte `json:"payslip_sign"`
}

// =============================================================================
// LEAVES
// =============================================================================

type CreateLeaveRequest struct {
	EmployeeID int64  `json:"employee_id" validate:"required,gt=0"`
	DateFrom   string `json:"date_from" validate:"required"`
	DateTo     string `json:"date_to" validate:"required"`
	State      string `json:"state" validate:"required"`
}

type LeaveDTO struct {
	ID           int64  `json:"id"`
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to"`
	State        string `json:"state"`
}

// UpcomingLeaveDTO is one entry of the upcoming-leave report.
type UpcomingLeaveDTO struct {
	EmployeeName string `json:"employee_name"`
	LeaveDays    int    `json:"leave_days"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

type UpcomingLeavesResponse struct {
	GeneratedAt string             `json:"generated_at"`
	Until       string             `json:"until"`
	Leaves      []UpcomingLeaveDTO `json:"leaves"`
}

func toUpcomingLeavesResponse(d leave.Digest) UpcomingLeavesResponse {
	resp := UpcomingLeavesResponse{
		GeneratedAt: d.GeneratedAt.UTC().Format(time.RFC3339),
		Until:       d.Until.UTC().Format(time.RFC3339),
		Leaves:      make([]UpcomingLeaveDTO, 0, len(d.Leaves)),
	}
	for _, l := range d.Leaves {
		resp.Leaves = append(resp.Leaves, UpcomingLeaveDTO{
			EmployeeName: l.EmployeeName,
			LeaveDays:    l.LeaveDays,
			StartDate:    hr.FormatDate(l.StartDate),
			EndDate:      hr.FormatDate(l.EndDate),
		})
	}
	return resp
}

// =============================================================================
// TIMESHEETS
// =============================================================================

type CreateTaskRequest struct {
	Name        string `json:"name" validate:"required"`
	ProjectID   *int64 `json:"project_id"`
	ParentID    *int64 `json:"parent_id"`
	MilestoneID *int64 `json:"milestone_id"`
}

type CreateAnalyticLineRequest struct {
	Name         string `json:"name"`
	UserID       *int64 `json:"user_id"`
	ProjectID    *int64 `json:"project_id"`
	TaskID       *int64 `json:"task_id"`
	ParentTaskID *int64 `json:"parent_task_id"`
	EmployeeID   *int64 `json:"employee_id"`
	ManagerID    *int64 `json:"manager_id"`
	CompanyID    *int64 `json:"company_id"`
	DepartmentID *int64 `json:"department_id"`
	CurrencyID   *int64 `json:"currency_id"`
	Date         string `json:"date" validate:"required"`
	Amount       string `json:"amount" validate:"omitempty,numeric"`
	UnitAmount   string `json:"unit_amount" validate:"omitempty,numeric"`
	PartnerID    *int64 `json:"partner_id"`
}

// ReportRowDTO is one row of the timesheet analysis view.
type ReportRowDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	UserID       *int64 `json:"user_id"`
	ProjectID    *int64 `json:"project_id"`
	TaskID       *int64 `json:"task_id"`
	ParentTaskID *int64 `json:"parent_task_id"`
	EmployeeID   *int64 `json:"employee_id"`
	ManagerID    *int64 `json:"manager_id"`
	CompanyID    *int64 `json:"company_id"`
	DepartmentID *int64 `json:"department_id"`
	CurrencyID   *int64 `json:"currency_id"`
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	UnitAmount   string `json:"unit_amount"`
	PartnerID    *int64 `json:"partner_id"`
	MilestoneID  *int64 `json:"milestone_id"`
}

func toReportRowDTO(r timesheet.Row) ReportRowDTO {
	return ReportRowDTO{
		ID:           r.ID,
		Name:         r.Name,
		UserID:       r.UserID,
		ProjectID:    r.ProjectID,
		TaskID:       r.TaskID,
		ParentTaskID: r.ParentTaskID,
		EmployeeID:   r.EmployeeID,
		ManagerID:    r.ManagerID,
		CompanyID:    r.CompanyID,
		DepartmentID: r.DepartmentID,
		CurrencyID:   r.CurrencyID,
		Date:         hr.FormatDate(r.Date),
		Amount:       r.Amount.String(),
		UnitAmount:   r.UnitAmount.String(),
		PartnerID:    r.PartnerID,
		MilestoneID:  r.MilestoneID,
	}
}

type SummaryLineDTO struct {
	Key        *int64 `json:"key"`
	Lines      int    `json:"lines"`
	Amount     string `json:"amount"`
	UnitAmount string `json:"unit_amount"`
}

// =============================================================================
// HELPDESK
// =============================================================================

type SLADTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Sequence      int    `json:"sequence"`
	Active        bool   `json:"active"`
	Type          string `json:"sla_type"`
	Priority      string `json:"priority"`
	PriorityLabel string `json:"priority_label"`
	Description   string `json:"description,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	TimeToResolve int    `json:"time_to_resolve"`
	TimeToRespond int    `json:"time_to_respond"`
	Status        string `json:"sla_status"`
	CompanyID     *int64 `json:"company_id,omitempty"`
}

func toSLADTO(s helpdesk.SLA) SLADTO {
	dto := SLADTO{
		ID:            s.ID,
		Name:          s.Name,
		Sequence:      s.Sequence,
		Active:        s.Active,
		Type:          string(s.Type),
		Priority:      string(s.Priority),
		PriorityLabel: s.Priority.Label(),
		Description:   s.Description,
		TimeToResolve: s.TimeToResolve,
		TimeToRespond: s.TimeToRespond,
		Status:        string(s.Status),
	}
	if s.StartDate != nil {
		dto.StartDate = s.StartDate.UTC().Format(time.RFC3339)
	}
	if s.EndDate != nil {
		dto.EndDate = s.EndDate.UTC().Format(time.RFC3339)
	}
	if s.CompanyID != nil {
		c := int64(*s.CompanyID)
		dto.CompanyID = &c
	}
	return dto
}

// CreateSLARequest omits defaulted fields when unset.
type CreateSLARequest struct {
	Name          string `json:"name" validate:"required"`
	Sequence      *int   `json:"sequence"`
	Active        *bool  `json:"active"`
	Type          string `json:"sla_type"`
	Priority      string `json:"priority" validate:"required"`
	Description   string `json:"description"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	TimeToResolve int    `json:"time_to_resolve" validate:"required"`
	TimeToRespond int    `json:"time_to_respond" validate:"required"`
	CompanyID     *int64 `json:"company_id"`
}

type TagDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required"`
}

// =============================================================================
// MAIL
// =============================================================================

// FetchMessagesRequest is the body of POST /mail/{feed}/messages.
type FetchMessagesRequest struct {
	SearchTerm string `json:"search_term"`
	Before     int64  `json:"before" validate:"gte=0"`
	After      int64  `json:"after" validate:"gte=0"`
	Around     int64  `json:"around" validate:"gte=0"`
	Limit      int    `json:"limit" validate:"gte=0"`
}

type MessageDTO struct {
	ID         int64  `json:"id"`
	AuthorID   int64  `json:"author_id"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Date       string `json:"date"`
	NeedAction bool   `json:"needaction"`
	Starred    bool   `json:"starred"`
}

type FetchMessagesResponse struct {
	Messages []MessageDTO `json:"messages"`
	Count    *int         `json:"count,omitempty"`
}

func toFetchMessagesResponse(res *mail.FetchResult) FetchMessagesResponse {
	resp := FetchMessagesResponse{Messages: make([]MessageDTO, 0, len(res.Messages)), Count: res.Count}
	for _, m := range res.Messages {
		resp.Messages = append(resp.Messages, MessageDTO{
			ID:         m.ID,
			AuthorID:   m.AuthorID,
			Subject:    m.Subject,
			Body:       m.Body,
			Date:       m.CreatedAt.UTC().Format(time.RFC3339),
			NeedAction: m.NeedAction,
			Starred:    m.Starred,
		})
	}
	return resp
}

type PostMessageRequest struct {
	Subject    string  `json:"subject"`
	Body       string  `json:"body" validate:"required"`
	PartnerIDs []int64 `json:"partner_ids" validate:"dive,gt=0"`
}

type StarRequest struct {
	Starred bool `json:"starred"`
}

// =============================================================================
// DIGEST RUNS
// =============================================================================

type DigestRunDTO struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	LeaveCount  int      `json:"leave_count"`
	Recipients  []string `json:"recipients"`
	Error       string   `json:"error,omitempty"`
	StartedAt   string   `json:"started_at"`
	CompletedAt string   `json:"completed_at,omitempty"`
}

func toDigestRunDTO(run sqlite.DigestRun) DigestRunDTO {
	dto := DigestRunDTO{
		ID:         run.ID,
		Status:     run.Status,
		LeaveCount: run.LeaveCount,
		Recipients: run.Recipients,
		Error:      run.Error,
		StartedAt:  run.StartedAt.Format(time.RFC3339),
	}
	if dto.Recipients == nil {
		dto.Recipients = []string{}
	}
	if run.CompletedAt != nil {
		dto.CompletedAt = run.CompletedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ErrorResponse is returned for API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
