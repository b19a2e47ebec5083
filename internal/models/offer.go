package models

import (
	"time"

	"github.com/google/uuid"
)

// SponsorOffer is a sponsor's standing capacity to sponsor events.
// ProfileID references the owning Profile, which must have the sponsor
// role at creation time.
type SponsorOffer struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	AmountCents int64     `json:"amount_cents"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SponsorEventType tags a sponsor offer with an event type it applies to.
// Rows are append-only: there is no update or delete path.
type SponsorEventType struct {
	ID             uuid.UUID `json:"id"`
	SponsorOfferID uuid.UUID `json:"sponsor_offer_id"`
	EventType      string    `json:"event_type"`
	CreatedAt      time.Time `json:"created_at"`
}
