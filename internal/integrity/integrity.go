// Package integrity enforces field-level constraints and maintains the
// created_at/updated_at timestamps on every mutation. It runs after the
// policy engine has allowed an operation and is independent of it.
package integrity

import (
	"time"

	"github.com/google/uuid"

	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/pkg/apperr"
)

// Enforcer validates rows before they reach a store and stamps their
// timestamps. The clock is injectable so tests can pin time.
type Enforcer struct {
	now func() time.Time
}

// New creates an enforcer. A nil clock defaults to time.Now.
func New(now func() time.Time) *Enforcer {
	if now == nil {
		now = time.Now
	}
	return &Enforcer{now: now}
}

// NewProfile validates p for insertion and sets both timestamps to the
// current time, overriding any caller-supplied value.
func (e *Enforcer) NewProfile(p *models.Profile) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	now := e.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// TouchProfile validates p for update and advances updated_at. The
// timestamp moves even when no field changed.
func (e *Enforcer) TouchProfile(p *models.Profile) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	p.UpdatedAt = e.now()
	return nil
}

// NewEvent validates ev for insertion and stamps both timestamps.
func (e *Enforcer) NewEvent(ev *models.Event) error {
	if err := validateEvent(ev); err != nil {
		return err
	}
	now := e.now()
	ev.CreatedAt = now
	ev.UpdatedAt = now
	return nil
}

// TouchEvent validates ev for update and advances updated_at.
func (e *Enforcer) TouchEvent(ev *models.Event) error {
	if err := validateEvent(ev); err != nil {
		return err
	}
	ev.UpdatedAt = e.now()
	return nil
}

// NewOffer validates o for insertion and stamps both timestamps.
func (e *Enforcer) NewOffer(o *models.SponsorOffer) error {
	if err := validateOffer(o); err != nil {
		return err
	}
	now := e.now()
	o.CreatedAt = now
	o.UpdatedAt = now
	return nil
}

// TouchOffer validates o for update and advances updated_at.
func (e *Enforcer) TouchOffer(o *models.SponsorOffer) error {
	if err := validateOffer(o); err != nil {
		return err
	}
	o.UpdatedAt = e.now()
	return nil
}

// NewEventType validates t for insertion and stamps created_at. The row is
// append-only, so it carries no updated_at.
func (e *Enforcer) NewEventType(t *models.SponsorEventType) error {
	if err := validateEventType(t); err != nil {
		return err
	}
	t.CreatedAt = e.now()
	return nil
}

func validateProfile(p *models.Profile) error {
	if p.ID == uuid.Nil {
		return apperr.Violation("id", "required")
	}
	if p.Name == "" {
		return apperr.Violation("name", "required")
	}
	if !p.Role.Valid() {
		return apperr.Violation("role", "must be sponsor or organizer")
	}
	return nil
}

func validateEvent(ev *models.Event) error {
	if ev.Name == "" {
		return apperr.Violation("name", "required")
	}
	if ev.EventType == "" {
		return apperr.Violation("event_type", "required")
	}
	if ev.AmountCents <= 0 {
		return apperr.Violation("amount_cents", "must be greater than zero")
	}
	if ev.City == "" {
		return apperr.Violation("city", "required")
	}
	if ev.Date.IsZero() {
		return apperr.Violation("date", "required")
	}
	if ev.OrganizerID == uuid.Nil {
		return apperr.Violation("organizer_id", "required")
	}
	return nil
}

func validateOffer(o *models.SponsorOffer) error {
	if o.ProfileID == uuid.Nil {
		return apperr.Violation("profile_id", "required")
	}
	if o.AmountCents <= 0 {
		return apperr.Violation("amount_cents", "must be greater than zero")
	}
	return nil
}

func validateEventType(t *models.SponsorEventType) error {
	if t.SponsorOfferID == uuid.Nil {
		return apperr.Violation("sponsor_offer_id", "required")
	}
	if t.EventType == "" {
		return apperr.Violation("event_type", "required")
	}
	return nil
}
