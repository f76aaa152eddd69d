/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*      Employees, medical details, attendance, numbering
  /api/contracts/*      Contract currency
  /api/companies/*      Payslip branding
  /api/leaves/*         Leaves and the upcoming-leave report
  /api/timesheets/*     Analytic lines and the timesheet analysis report
  /api/helpdesk/*       SLAs and tags
  /api/mail/*           Posting, reading and starring messages
  /api/digest/*         Upcoming-leave digest runs
  /api/scenarios/*      Demo scenarios
  /api/admin/reset      Database reset (dev only)
  /mail/{feed}/messages Mailbox feeds (inbox, history, starred)
  /leaves/upcoming      Upcoming-leave HTML page

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultOrigins are allowed when no CORS origins are configured.
var DefaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	if len(origins) == 0 {
		origins = DefaultOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", PartnerHeader},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Post("/sequences/backfill", h.BackfillSequences)
			r.Get("/{id}", h.GetEmployee)
			r.Post("/{id}/copy", h.CopyEmployee)
			r.Get("/{id}/medical", h.GetMedical)
			r.Put("/{id}/medical", h.UpdateMedical)
			r.Post("/{id}/attendances", h.RecordAttendance)
			r.Get("/{id}/worked-days", h.GetWorkedDays)
		})

		// Payroll routes
		r.Post("/contracts", h.CreateContract)
		r.Put("/contracts/{id}/currency", h.SetContractCurrency)
		r.Post("/companies", h.CreateCompany)
		r.Get("/companies/{id}/payslip-branding", h.GetBranding)
		r.Put("/companies/{id}/payslip-branding", h.UpdateBranding)

		// Leave routes
		r.Route("/leaves", func(r chi.Router) {
			r.Post("/", h.CreateLeave)
			r.Get("/upcoming", h.UpcomingLeaves)
		})

		// Timesheet routes
		r.Route("/timesheets", func(r chi.Router) {
			r.Post("/tasks", h.CreateTask)
			r.Post("/lines", h.CreateAnalyticLine)
			r.Get("/report", h.TimesheetReport)
			r.Get("/report/summary", h.TimesheetSummary)
			r.Get("/report.xlsx", h.ExportTimesheetReport)
		})

		// Helpdesk routes
		r.Route("/helpdesk", func(r chi.Router) {
			r.Get("/slas", h.ListSLAs)
			r.Post("/slas", h.CreateSLA)
			r.Get("/slas/{id}", h.GetSLA)
			r.Post("/slas/{id}/archive", h.ArchiveSLA)
			r.Get("/tags", h.ListTags)
			r.Post("/tags", h.CreateTag)
		})

		// Mail routes
		r.Route("/mail/messages", func(r chi.Router) {
			r.Post("/", h.PostMessage)
			r.Post("/{id}/read", h.MarkMessageRead)
			r.Put("/{id}/star", h.StarMessage)
		})

		// Digest routes
		r.Route("/digest", func(r chi.Router) {
			r.Get("/runs", h.ListDigestRuns)
			r.Post("/send", h.SendDigest)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		r.Post("/admin/reset", h.ResetDatabase)
	})

	// Mailbox feeds, at the paths the discuss client expects
	r.Post("/mail/{feed}/messages", h.FetchMessages)

	r.Get("/leaves/upcoming", h.UpcomingLeavesPage)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>HR Extensions</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>HR Extensions API</h1>
<h2>Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/leaves/upcoming">/leaves/upcoming</a> - Upcoming leaves</li>
<li><a href="/api/timesheets/report">/api/timesheets/report</a> - Timesheet analysis</li>
<li><a href="/api/timesheets/report.xlsx">/api/timesheets/report.xlsx</a> - Timesheet export</li>
<li><a href="/api/helpdesk/slas">/api/helpdesk/slas</a> - Helpdesk SLAs</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
