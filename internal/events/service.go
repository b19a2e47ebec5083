package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sponsorlane/backend/internal/integrity"
	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/internal/policy"
	"github.com/sponsorlane/backend/pkg/apperr"
)

// Filter narrows List results. Nil/empty fields match everything.
type Filter struct {
	OrganizerID *uuid.UUID
	EventType   string
	City        string
}

// Store persists events. UpdateOwned must be conditional on the owner
// column so the ownership check and the mutation are a single atomic
// statement; it returns apperr.ErrNotFound when no row matched.
type Store interface {
	Insert(ctx context.Context, ev *models.Event) error
	Get(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context, f Filter) ([]models.Event, error)
	UpdateOwned(ctx context.Context, ev *models.Event, owner uuid.UUID) error
}

// CreateParams are the candidate fields for a new event.
type CreateParams struct {
	Name        string
	EventType   string
	AmountCents int64
	City        string
	Description string
	Date        time.Time
	OrganizerID uuid.UUID
}

// UpdateParams is the patch accepted by Update. Ownership is not
// patchable: an event stays attributed to its organizer for life.
type UpdateParams struct {
	Name        *string
	EventType   *string
	AmountCents *int64
	City        *string
	Description *string
	Date        *time.Time
}

// Service owns event operations with explicit principal passing.
type Service struct {
	store    Store
	engine   *policy.Engine
	enforcer *integrity.Enforcer
}

// NewService creates an event service.
func NewService(store Store, engine *policy.Engine, enforcer *integrity.Enforcer) *Service {
	return &Service{store: store, engine: engine, enforcer: enforcer}
}

// Create inserts a new event. The policy engine requires the principal to
// hold the organizer role and the candidate organizer_id to be the
// principal itself.
func (s *Service) Create(ctx context.Context, principal *uuid.UUID, params CreateParams) (*models.Event, error) {
	res := policy.Resource{OwnerID: params.OrganizerID}
	if err := s.engine.Authorize(ctx, principal, policy.KindEvent, policy.ActionCreate, res); err != nil {
		return nil, err
	}
	ev := &models.Event{
		ID:          uuid.New(),
		Name:        params.Name,
		EventType:   params.EventType,
		AmountCents: params.AmountCents,
		City:        params.City,
		Description: params.Description,
		Date:        params.Date,
		OrganizerID: params.OrganizerID,
	}
	if err := s.enforcer.NewEvent(ev); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Get returns an event. Listings are public to any authenticated
// principal regardless of role.
func (s *Service) Get(ctx context.Context, principal *uuid.UUID, id uuid.UUID) (*models.Event, error) {
	if err := s.engine.Authorize(ctx, principal, policy.KindEvent, policy.ActionRead, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// List returns events matching the filter.
func (s *Service) List(ctx context.Context, principal *uuid.UUID, f Filter) ([]models.Event, error) {
	if err := s.engine.Authorize(ctx, principal, policy.KindEvent, policy.ActionRead, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.store.List(ctx, f)
}

// Update applies a patch to an event owned by the principal. The store
// re-checks ownership in the same statement as the mutation, so a row
// whose owner changed between authorize and write cannot slip through;
// that case surfaces as the same opaque deny.
func (s *Service) Update(ctx context.Context, principal *uuid.UUID, id uuid.UUID, params UpdateParams) (*models.Event, error) {
	if err := s.engine.Authorize(ctx, principal, policy.KindEvent, policy.ActionUpdate, policy.Resource{EventID: id}); err != nil {
		return nil, err
	}
	ev, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		ev.Name = *params.Name
	}
	if params.EventType != nil {
		ev.EventType = *params.EventType
	}
	if params.AmountCents != nil {
		ev.AmountCents = *params.AmountCents
	}
	if params.City != nil {
		ev.City = *params.City
	}
	if params.Description != nil {
		ev.Description = *params.Description
	}
	if params.Date != nil {
		ev.Date = *params.Date
	}
	if err := s.enforcer.TouchEvent(ev); err != nil {
		return nil, err
	}
	if err := s.store.UpdateOwned(ctx, ev, *principal); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrPermissionDenied
		}
		return nil, err
	}
	return ev, nil
}
