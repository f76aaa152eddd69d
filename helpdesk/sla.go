/*
Package helpdesk stores the service level agreements and tags used by
helpdesk tickets.

SLA FIELDS:
  Name            required
  Sequence        ordering, default 10
  Active          default true
  Type            response | resolution, default response
  Priority        "0" (not set) .. "4" (critical), required
  StartDate/EndDate optional validity window; end may not precede start
  TimeToResolve/TimeToRespond hours, required (> 0)
  Status          active | archived, default active

Validation uses struct tags checked by go-playground/validator.
*/
package helpdesk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/warp/hr-extensions/hr"
)

// SLAType says whether an SLA targets the first response or the resolution.
type SLAType string

const (
	SLAResponse   SLAType = "response"
	SLAResolution SLAType = "resolution"
)

// Priority is the ticket priority an SLA applies to, "0" (not set) to "4".
type Priority string

const (
	PriorityNotSet   Priority = "0"
	PriorityLow      Priority = "1"
	PriorityMedium   Priority = "2"
	PriorityHigh     Priority = "3"
	PriorityCritical Priority = "4"
)

// Label is the display name of the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityNotSet:
		return "Not set"
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	}
	return string(p)
}

type SLAStatus string

const (
	StatusActive   SLAStatus = "active"
	StatusArchived SLAStatus = "archived"
)

const DefaultSequence = 10

// SLA is a helpdesk service level agreement.
type SLA struct {
	ID            int64
	Name          string   `validate:"required"`
	Sequence      int
	Active        bool
	Type          SLAType  `validate:"oneof=response resolution"`
	Priority      Priority `validate:"oneof=0 1 2 3 4"`
	Description   string
	StartDate     *time.Time
	EndDate       *time.Time
	TimeToResolve int       `validate:"gt=0"`
	TimeToRespond int       `validate:"gt=0"`
	Status        SLAStatus `validate:"oneof=active archived"`
	CompanyID     *hr.CompanyID
}

// NewSLA returns an SLA with the field defaults applied.
func NewSLA() SLA {
	return SLA{Sequence: DefaultSequence, Active: true, Type: SLAResponse, Status: StatusActive}
}

// Tag labels helpdesk tickets.
type Tag struct {
	ID   int64
	Name string `validate:"required"`
}

// Store persists SLAs and tags.
type Store interface {
	CreateSLA(ctx context.Context, sla SLA) (int64, error)

	// GetSLA returns hr.ErrSLANotFound when the ID is unknown.
	GetSLA(ctx context.Context, id int64) (*SLA, error)

	// ListSLAs orders by sequence then id.
	ListSLAs(ctx context.Context, includeArchived bool) ([]SLA, error)

	SetSLAStatus(ctx context.Context, id int64, status SLAStatus, active bool) error

	CreateTag(ctx context.Context, t Tag) (int64, error)
	ListTags(ctx context.Context) ([]Tag, error)
}

// Service manages SLA records and tags.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService returns a Service over store.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

// CreateSLA validates and saves an SLA. Start with NewSLA() to get defaults.
func (s *Service) CreateSLA(ctx context.Context, sla SLA) (*SLA, error) {
	if err := s.check(sla); err != nil {
		return nil, err
	}
	if sla.StartDate != nil && sla.EndDate != nil && sla.EndDate.Before(*sla.StartDate) {
		return nil, fmt.Errorf("sla %q: %w", sla.Name, hr.ErrInvalidPeriod)
	}

	id, err := s.store.CreateSLA(ctx, sla)
	if err != nil {
		return nil, err
	}
	return s.store.GetSLA(ctx, id)
}

// GetSLA returns one SLA or a not-found error.
func (s *Service) GetSLA(ctx context.Context, id int64) (*SLA, error) {
	return s.store.GetSLA(ctx, id)
}

// ListSLAs returns SLAs by sequence, archived ones only when asked.
func (s *Service) ListSLAs(ctx context.Context, includeArchived bool) ([]SLA, error) {
	return s.store.ListSLAs(ctx, includeArchived)
}

// Archive marks the SLA archived and inactive.
func (s *Service) Archive(ctx context.Context, id int64) (*SLA, error) {
	if err := s.store.SetSLAStatus(ctx, id, StatusArchived, false); err != nil {
		return nil, err
	}
	return s.store.GetSLA(ctx, id)
}

// CreateTag saves a tag. Names are unique.
func (s *Service) CreateTag(ctx context.Context, t Tag) (*Tag, error) {
	if err := s.check(t); err != nil {
		return nil, err
	}
	id, err := s.store.CreateTag(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	return &t, nil
}

// ListTags returns tags by name.
func (s *Service) ListTags(ctx context.Context) ([]Tag, error) {
	return s.store.ListTags(ctx)
}

// check runs tag validation and reports the first failing field.
func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &FieldError{Field: fe.Field(), Tag: fe.Tag()}
	}
	return err
}

// FieldError reports a field failing validation.
type FieldError struct {
	Field string
	Tag   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s failed %q validation", e.Field, e.Tag)
}

func (e *FieldError) Unwrap() error {
	return hr.ErrRequiredField
}
