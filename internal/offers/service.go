package offers

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sponsorlane/backend/internal/integrity"
	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/internal/policy"
	"github.com/sponsorlane/backend/pkg/apperr"
)

// Filter narrows ListOffers results.
type Filter struct {
	ProfileID *uuid.UUID
}

// Store persists sponsor offers and their event-type tags. UpdateOwned is
// conditional on the owner column; InsertEventTypeOwned only inserts when
// the referenced offer belongs to owner, in the same statement. Both
// report a non-match as apperr.ErrNotFound.
type Store interface {
	Insert(ctx context.Context, o *models.SponsorOffer) error
	Get(ctx context.Context, id uuid.UUID) (*models.SponsorOffer, error)
	List(ctx context.Context, f Filter) ([]models.SponsorOffer, error)
	UpdateOwned(ctx context.Context, o *models.SponsorOffer, owner uuid.UUID) error
	InsertEventTypeOwned(ctx context.Context, t *models.SponsorEventType, owner uuid.UUID) error
	ListEventTypes(ctx context.Context, offerID uuid.UUID) ([]models.SponsorEventType, error)
}

// CreateParams are the candidate fields for a new sponsor offer.
type CreateParams struct {
	ProfileID   uuid.UUID
	AmountCents int64
	Description *string
}

// UpdateParams is the patch accepted by Update.
type UpdateParams struct {
	AmountCents *int64
	Description *string
}

// Service owns sponsor-offer operations with explicit principal passing.
type Service struct {
	store    Store
	engine   *policy.Engine
	enforcer *integrity.Enforcer
}

// NewService creates a sponsor-offer service.
func NewService(store Store, engine *policy.Engine, enforcer *integrity.Enforcer) *Service {
	return &Service{store: store, engine: engine, enforcer: enforcer}
}

// Create inserts a new sponsor offer. The principal must hold the sponsor
// role and the candidate profile_id must be the principal itself.
func (s *Service) Create(ctx context.Context, principal *uuid.UUID, params CreateParams) (*models.SponsorOffer, error) {
	res := policy.Resource{OwnerID: params.ProfileID}
	if err := s.engine.Authorize(ctx, principal, policy.KindSponsorOffer, policy.ActionCreate, res); err != nil {
		return nil, err
	}
	o := &models.SponsorOffer{
		ID:          uuid.New(),
		ProfileID:   params.ProfileID,
		AmountCents: params.AmountCents,
		Description: params.Description,
	}
	if err := s.enforcer.NewOffer(o); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Get returns a sponsor offer. Offers are public marketplace listings for
// any authenticated principal.
func (s *Service) Get(ctx context.Context, principal *uuid.UUID, id uuid.UUID) (*models.SponsorOffer, error) {
	if err := s.engine.Authorize(ctx, principal, policy.KindSponsorOffer, policy.ActionRead, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// List returns sponsor offers matching the filter.
func (s *Service) List(ctx context.Context, principal *uuid.UUID, f Filter) ([]models.SponsorOffer, error) {
	if err := s.engine.Authorize(ctx, principal, policy.KindSponsorOffer, policy.ActionRead, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.store.List(ctx, f)
}

// Update applies a patch to an offer owned by the principal. The store
// re-checks ownership in the mutation statement; a race loses as an
// opaque deny.
func (s *Service) Update(ctx context.Context, principal *uuid.UUID, id uuid.UUID, params UpdateParams) (*models.SponsorOffer, error) {
	if err := s.engine.Authorize(ctx, principal, policy.KindSponsorOffer, policy.ActionUpdate, policy.Resource{OfferID: id}); err != nil {
		return nil, err
	}
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.AmountCents != nil {
		o.AmountCents = *params.AmountCents
	}
	if params.Description != nil {
		o.Description = params.Description
	}
	if err := s.enforcer.TouchOffer(o); err != nil {
		return nil, err
	}
	if err := s.store.UpdateOwned(ctx, o, *principal); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrPermissionDenied
		}
		return nil, err
	}
	return o, nil
}

// CreateEventType appends an event-type tag to an offer the principal owns
// transitively via the offer's profile_id. There is no update or delete
// path for tags.
func (s *Service) CreateEventType(ctx context.Context, principal *uuid.UUID, offerID uuid.UUID, eventType string) (*models.SponsorEventType, error) {
	res := policy.Resource{OfferID: offerID}
	if err := s.engine.Authorize(ctx, principal, policy.KindSponsorEventType, policy.ActionCreate, res); err != nil {
		return nil, err
	}
	t := &models.SponsorEventType{
		ID:             uuid.New(),
		SponsorOfferID: offerID,
		EventType:      eventType,
	}
	if err := s.enforcer.NewEventType(t); err != nil {
		return nil, err
	}
	if err := s.store.InsertEventTypeOwned(ctx, t, *principal); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrPermissionDenied
		}
		return nil, err
	}
	return t, nil
}

// ListEventTypes returns the tags on an offer.
func (s *Service) ListEventTypes(ctx context.Context, principal *uuid.UUID, offerID uuid.UUID) ([]models.SponsorEventType, error) {
	if err := s.engine.Authorize(ctx, principal, policy.KindSponsorEventType, policy.ActionRead, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.store.ListEventTypes(ctx, offerID)
}
