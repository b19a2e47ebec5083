package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is an organizer's sponsorship opportunity. OrganizerID references
// the owning Profile, which must have the organizer role at creation time.
// Amounts are integer cents so values round-trip exactly.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	EventType   string    `json:"event_type"`
	AmountCents int64     `json:"amount_cents"`
	City        string    `json:"city"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
