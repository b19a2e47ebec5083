// Package policy implements row-level access control for the marketplace.
// Every decision takes the acting principal as an explicit parameter; there
// is no ambient "current user". The permission matrix is data (rules keyed
// by entity kind and action), so adding a kind or action never touches the
// evaluation loop.
package policy

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/pkg/apperr"
)

// Kind identifies an entity collection.
type Kind string

const (
	KindProfile          Kind = "profile"
	KindEvent            Kind = "event"
	KindSponsorOffer     Kind = "sponsor_offer"
	KindSponsorEventType Kind = "sponsor_event_type"
)

// Action identifies an operation on an entity.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource describes the row (or candidate row) an operation targets. Only
// the fields relevant to the kind/action pair need to be set.
type Resource struct {
	ProfileID uuid.UUID // target Profile row
	EventID   uuid.UUID // target Event row on update
	OfferID   uuid.UUID // target SponsorOffer row on update, or the offer a SponsorEventType references on create
	OwnerID   uuid.UUID // candidate organizer_id / profile_id on create
}

// Directory resolves ownership and role facts the rules need. Lookups
// return apperr.ErrNotFound for missing rows; the engine folds that into a
// uniform deny so callers cannot probe for row existence.
type Directory struct {
	ProfileRole    func(ctx context.Context, id uuid.UUID) (models.Role, error)
	EventOrganizer func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	OfferOwner     func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

type rule func(ctx context.Context, dir Directory, principal uuid.UUID, res Resource) (bool, error)

type ruleKey struct {
	kind   Kind
	action Action
}

// allowAuthenticated grants access to any authenticated principal. The
// engine has already rejected anonymous requests by the time a rule runs.
func allowAuthenticated(context.Context, Directory, uuid.UUID, Resource) (bool, error) {
	return true, nil
}

func selfOnly(_ context.Context, _ Directory, principal uuid.UUID, res Resource) (bool, error) {
	return principal == res.ProfileID, nil
}

// roleCreate checks role eligibility and ownership binding: the principal
// must hold the required role and the candidate row must be attributed to
// the principal, not another account.
func roleCreate(required models.Role) rule {
	return func(ctx context.Context, dir Directory, principal uuid.UUID, res Resource) (bool, error) {
		if res.OwnerID != principal {
			return false, nil
		}
		role, err := dir.ProfileRole(ctx, principal)
		if err != nil {
			return false, err
		}
		return role == required, nil
	}
}

func eventOwnerOnly(ctx context.Context, dir Directory, principal uuid.UUID, res Resource) (bool, error) {
	owner, err := dir.EventOrganizer(ctx, res.EventID)
	if err != nil {
		return false, err
	}
	return owner == principal, nil
}

func offerOwnerOnly(ctx context.Context, dir Directory, principal uuid.UUID, res Resource) (bool, error) {
	owner, err := dir.OfferOwner(ctx, res.OfferID)
	if err != nil {
		return false, err
	}
	return owner == principal, nil
}

// rules is the permission matrix. Absent cells deny: Profile creation goes
// through the identity-provisioning flow rather than a user action, and
// delete is unsupported for every kind.
var rules = map[ruleKey]rule{
	{KindProfile, ActionRead}:   selfOnly,
	{KindProfile, ActionUpdate}: selfOnly,

	{KindEvent, ActionRead}:   allowAuthenticated,
	{KindEvent, ActionCreate}: roleCreate(models.RoleOrganizer),
	{KindEvent, ActionUpdate}: eventOwnerOnly,

	{KindSponsorOffer, ActionRead}:   allowAuthenticated,
	{KindSponsorOffer, ActionCreate}: roleCreate(models.RoleSponsor),
	{KindSponsorOffer, ActionUpdate}: offerOwnerOnly,

	{KindSponsorEventType, ActionRead}:   allowAuthenticated,
	{KindSponsorEventType, ActionCreate}: offerOwnerOnly,
}

// Engine evaluates the permission matrix against a directory of ownership
// and role lookups.
type Engine struct {
	dir Directory
}

// NewEngine creates a policy engine backed by dir.
func NewEngine(dir Directory) *Engine {
	return &Engine{dir: dir}
}

// Authorize decides whether principal may perform action on the resource.
// A nil principal is anonymous and is denied every operation. The returned
// error is nil (allow) or apperr.ErrPermissionDenied; deny is uniform for
// "row missing" and "row owned by someone else". Infrastructure failures
// from the directory propagate unchanged.
func (e *Engine) Authorize(ctx context.Context, principal *uuid.UUID, kind Kind, action Action, res Resource) error {
	if principal == nil || *principal == uuid.Nil {
		return apperr.ErrPermissionDenied
	}
	r, ok := rules[ruleKey{kind, action}]
	if !ok {
		return apperr.ErrPermissionDenied
	}
	allowed, err := r(ctx, e.dir, *principal, res)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrPermissionDenied
		}
		return err
	}
	if !allowed {
		return apperr.ErrPermissionDenied
	}
	return nil
}
