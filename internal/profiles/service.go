package profiles

import (
	"context"

	"github.com/google/uuid"

	"github.com/sponsorlane/backend/internal/integrity"
	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/internal/policy"
	"github.com/sponsorlane/backend/pkg/apperr"
)

// Store persists profiles. Implementations return apperr.ErrNotFound for
// missing rows and apperr.ConstraintViolation for duplicate IDs.
type Store interface {
	Insert(ctx context.Context, p *models.Profile) error
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
}

// UpdateParams is the patch accepted by Update. Role and ID are immutable;
// a patch naming Role is rejected with a ConstraintViolation.
type UpdateParams struct {
	Name        *string
	CompanyName *string
	Role        *models.Role
}

// Service owns profile operations. Every call takes the acting principal
// explicitly; nil means anonymous.
type Service struct {
	store    Store
	engine   *policy.Engine
	enforcer *integrity.Enforcer
}

// NewService creates a profile service.
func NewService(store Store, engine *policy.Engine, enforcer *integrity.Enforcer) *Service {
	return &Service{store: store, engine: engine, enforcer: enforcer}
}

// Provision creates the principal's own profile. This is the
// identity-provisioning flow: it is not in the policy table, and the row ID
// is always the principal identifier, never caller-chosen. A second call
// for the same principal fails with a ConstraintViolation.
func (s *Service) Provision(ctx context.Context, principal *uuid.UUID, name, companyName string, role models.Role) (*models.Profile, error) {
	if principal == nil || *principal == uuid.Nil {
		return nil, apperr.ErrPermissionDenied
	}
	p := &models.Profile{
		ID:          *principal,
		Name:        name,
		CompanyName: companyName,
		Role:        role,
	}
	if err := s.enforcer.NewProfile(p); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a profile. Only the owner may read it.
func (s *Service) Get(ctx context.Context, principal *uuid.UUID, id uuid.UUID) (*models.Profile, error) {
	if err := s.engine.Authorize(ctx, principal, policy.KindProfile, policy.ActionRead, policy.Resource{ProfileID: id}); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// Update applies a patch to the principal's own profile. updated_at
// advances even when the patch changes nothing.
func (s *Service) Update(ctx context.Context, principal *uuid.UUID, id uuid.UUID, params UpdateParams) (*models.Profile, error) {
	if err := s.engine.Authorize(ctx, principal, policy.KindProfile, policy.ActionUpdate, policy.Resource{ProfileID: id}); err != nil {
		return nil, err
	}
	if params.Role != nil {
		return nil, apperr.Violation("role", "immutable")
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.CompanyName != nil {
		p.CompanyName = *params.CompanyName
	}
	if err := s.enforcer.TouchProfile(p); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
