package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/hr-extensions/helpdesk"
	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/mail"
)

// PartnerHeader names the current partner for mail feeds.
const PartnerHeader = "X-Partner-ID"

// =============================================================================
// HELPDESK HANDLERS
// =============================================================================

// ListSLAs returns SLAs ordered by sequence. Archived ones are included
// with ?archived=true.
// GET /api/helpdesk/slas
func (h *Handler) ListSLAs(w http.ResponseWriter, r *http.Request) {
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("archived"))

	slas, err := h.Helpdesk.ListSLAs(r.Context(), includeArchived)
	if err != nil {
		writeError(w, statusFor(err), "Failed to list SLAs", err)
		return
	}

	dtos := make([]SLADTO, len(slas))
	for i, s := range slas {
		dtos[i] = toSLADTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSLA creates an SLA; unset sequence, active, type and status take
// their defaults.
// POST /api/helpdesk/slas
func (h *Handler) CreateSLA(w http.ResponseWriter, r *http.Request) {
	var req CreateSLARequest
	if !h.decode(w, r, &req) {
		return
	}

	sla := helpdesk.NewSLA()
	sla.Name = req.Name
	sla.Priority = helpdesk.Priority(req.Priority)
	sla.Description = req.Description
	sla.TimeToResolve = req.TimeToResolve
	sla.TimeToRespond = req.TimeToRespond
	if req.Sequence != nil {
		sla.Sequence = *req.Sequence
	}
	if req.Active != nil {
		sla.Active = *req.Active
	}
	if req.Type != "" {
		sla.Type = helpdesk.SLAType(req.Type)
	}
	if req.CompanyID != nil {
		c := hr.CompanyID(*req.CompanyID)
		sla.CompanyID = &c
	}
	var err error
	if sla.StartDate, err = optionalDateTime(req.StartDate); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	if sla.EndDate, err = optionalDateTime(req.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date", err)
		return
	}

	created, err := h.Helpdesk.CreateSLA(r.Context(), sla)
	if err != nil {
		writeError(w, statusFor(err), "Failed to create SLA", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSLADTO(*created))
}

// GetSLA returns one SLA.
// GET /api/helpdesk/slas/{id}
func (h *Handler) GetSLA(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	sla, err := h.Helpdesk.GetSLA(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), "Failed to get SLA", err)
		return
	}
	writeJSON(w, http.StatusOK, toSLADTO(*sla))
}

// ArchiveSLA archives and deactivates an SLA.
// POST /api/helpdesk/slas/{id}/archive
func (h *Handler) ArchiveSLA(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	sla, err := h.Helpdesk.Archive(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), "Failed to archive SLA", err)
		return
	}
	writeJSON(w, http.StatusOK, toSLADTO(*sla))
}

// ListTags returns helpdesk tags by name.
// GET /api/helpdesk/tags
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Helpdesk.ListTags(r.Context())
	if err != nil {
		writeError(w, statusFor(err), "Failed to list tags", err)
		return
	}

	dtos := make([]TagDTO, len(tags))
	for i, t := range tags {
		dtos[i] = TagDTO{ID: t.ID, Name: t.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTag creates a tag; names are unique.
// POST /api/helpdesk/tags
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if !h.decode(w, r, &req) {
		return
	}

	tag, err := h.Helpdesk.CreateTag(r.Context(), helpdesk.Tag{Name: req.Name})
	if err != nil {
		writeError(w, statusFor(err), "Failed to create tag", err)
		return
	}
	writeJSON(w, http.StatusCreated, TagDTO{ID: tag.ID, Name: tag.Name})
}

// optionalDateTime parses an RFC 3339, storage-layout or bare-date value.
func optionalDateTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := hr.ParseDateTime(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// =============================================================================
// MAIL HANDLERS
// =============================================================================

// FetchMessages returns one page of the current partner's feed.
// POST /mail/{feed}/messages
func (h *Handler) FetchMessages(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := currentPartner(w, r)
	if !ok {
		return
	}
	feed := mail.Feed(chi.URLParam(r, "feed"))
	if !feed.Valid() {
		writeError(w, http.StatusNotFound, "Unknown mailbox", mail.ErrUnknownFeed)
		return
	}

	var req FetchMessagesRequest
	if r.ContentLength != 0 && !h.decode(w, r, &req) {
		return
	}

	res, err := h.Mailbox.Fetch(r.Context(), partnerID, feed, mail.FetchParams{
		SearchTerm: req.SearchTerm,
		Before:     req.Before,
		After:      req.After,
		Around:     req.Around,
		Limit:      req.Limit,
	})
	if err != nil {
		writeError(w, statusFor(err), "Failed to fetch messages", err)
		return
	}
	writeJSON(w, http.StatusOK, toFetchMessagesResponse(res))
}

// PostMessage posts a message from the current partner and notifies the
// listed partners.
// POST /api/mail/messages
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := currentPartner(w, r)
	if !ok {
		return
	}
	var req PostMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.Store.CreateMessage(r.Context(), partnerID, req.Subject, req.Body, req.PartnerIDs)
	if err != nil {
		writeError(w, statusFor(err), "Failed to post message", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// MarkMessageRead moves a message from the partner's inbox to history.
// POST /api/mail/messages/{id}/read
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := currentPartner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Store.MarkRead(r.Context(), id, partnerID); err != nil {
		writeError(w, statusFor(err), "Failed to mark message read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StarMessage stars or unstars a message for the partner.
// PUT /api/mail/messages/{id}/star
func (h *Handler) StarMessage(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := currentPartner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req StarRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.Store.SetStarred(r.Context(), id, partnerID, req.Starred); err != nil {
		writeError(w, statusFor(err), "Failed to star message", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"starred": req.Starred})
}

func currentPartner(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.Header.Get(PartnerHeader)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Missing or invalid "+PartnerHeader+" header", err)
		return 0, false
	}
	return id, true
}
