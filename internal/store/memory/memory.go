// Package memory provides an in-memory implementation of the per-aggregate
// store interfaces. It backs the test suite and local development without
// PostgreSQL, and mirrors the repository semantics: conditional
// owner-checked updates, existence-guarded inserts, not-found sentinels.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sponsorlane/backend/internal/events"
	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/internal/offers"
	"github.com/sponsorlane/backend/pkg/apperr"
)

// Store holds all four collections behind one mutex, which gives the same
// per-row atomicity the single-statement SQL mutations provide. The
// per-aggregate views returned by Profiles, Events and Offers satisfy the
// corresponding service Store interfaces.
type Store struct {
	mu         sync.Mutex
	profiles   map[uuid.UUID]models.Profile
	events     map[uuid.UUID]models.Event
	offers     map[uuid.UUID]models.SponsorOffer
	eventTypes map[uuid.UUID]models.SponsorEventType
}

// New creates an empty store.
func New() *Store {
	return &Store{
		profiles:   make(map[uuid.UUID]models.Profile),
		events:     make(map[uuid.UUID]models.Event),
		offers:     make(map[uuid.UUID]models.SponsorOffer),
		eventTypes: make(map[uuid.UUID]models.SponsorEventType),
	}
}

// Profiles returns the profile view of the store.
func (s *Store) Profiles() *ProfileStore { return &ProfileStore{s} }

// Events returns the event view of the store.
func (s *Store) Events() *EventStore { return &EventStore{s} }

// Offers returns the sponsor-offer view of the store.
func (s *Store) Offers() *OfferStore { return &OfferStore{s} }

// ProfileStore implements profiles.Store.
type ProfileStore struct {
	s *Store
}

// Insert stores a new profile.
func (ps *ProfileStore) Insert(ctx context.Context, p *models.Profile) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()
	if _, ok := ps.s.profiles[p.ID]; ok {
		return apperr.Violation("id", "profile already provisioned")
	}
	ps.s.profiles[p.ID] = *p
	return nil
}

// Get returns a profile by ID.
func (ps *ProfileStore) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()
	p, ok := ps.s.profiles[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &p, nil
}

// Update writes the mutable profile columns. Role and ID stay as stored.
func (ps *ProfileStore) Update(ctx context.Context, p *models.Profile) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()
	cur, ok := ps.s.profiles[p.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	cur.Name = p.Name
	cur.CompanyName = p.CompanyName
	cur.UpdatedAt = p.UpdatedAt
	ps.s.profiles[p.ID] = cur
	return nil
}

// EventStore implements events.Store.
type EventStore struct {
	s *Store
}

// Insert stores a new event, enforcing the organizer foreign key.
func (es *EventStore) Insert(ctx context.Context, ev *models.Event) error {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()
	if _, ok := es.s.profiles[ev.OrganizerID]; !ok {
		return apperr.Violation("organizer_id", "referenced profile does not exist")
	}
	es.s.events[ev.ID] = *ev
	return nil
}

// Get returns an event by ID.
func (es *EventStore) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()
	ev, ok := es.s.events[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &ev, nil
}

// List returns events matching the filter, newest first by date.
func (es *EventStore) List(ctx context.Context, f events.Filter) ([]models.Event, error) {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()
	var list []models.Event
	for _, ev := range es.s.events {
		if f.OrganizerID != nil && ev.OrganizerID != *f.OrganizerID {
			continue
		}
		if f.EventType != "" && ev.EventType != f.EventType {
			continue
		}
		if f.City != "" && ev.City != f.City {
			continue
		}
		list = append(list, ev)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

// UpdateOwned writes an event only when it is still owned by owner.
func (es *EventStore) UpdateOwned(ctx context.Context, ev *models.Event, owner uuid.UUID) error {
	es.s.mu.Lock()
	defer es.s.mu.Unlock()
	cur, ok := es.s.events[ev.ID]
	if !ok || cur.OrganizerID != owner {
		return apperr.ErrNotFound
	}
	updated := *ev
	updated.OrganizerID = cur.OrganizerID
	updated.CreatedAt = cur.CreatedAt
	es.s.events[ev.ID] = updated
	return nil
}

// OfferStore implements offers.Store.
type OfferStore struct {
	s *Store
}

// Insert stores a new sponsor offer, enforcing the profile foreign key.
func (os *OfferStore) Insert(ctx context.Context, o *models.SponsorOffer) error {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	if _, ok := os.s.profiles[o.ProfileID]; !ok {
		return apperr.Violation("profile_id", "referenced profile does not exist")
	}
	os.s.offers[o.ID] = *o
	return nil
}

// Get returns a sponsor offer by ID.
func (os *OfferStore) Get(ctx context.Context, id uuid.UUID) (*models.SponsorOffer, error) {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	o, ok := os.s.offers[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &o, nil
}

// List returns sponsor offers matching the filter, newest first.
func (os *OfferStore) List(ctx context.Context, f offers.Filter) ([]models.SponsorOffer, error) {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	var list []models.SponsorOffer
	for _, o := range os.s.offers {
		if f.ProfileID != nil && o.ProfileID != *f.ProfileID {
			continue
		}
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// UpdateOwned writes an offer only when it is still owned by owner.
func (os *OfferStore) UpdateOwned(ctx context.Context, o *models.SponsorOffer, owner uuid.UUID) error {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	cur, ok := os.s.offers[o.ID]
	if !ok || cur.ProfileID != owner {
		return apperr.ErrNotFound
	}
	updated := *o
	updated.ProfileID = cur.ProfileID
	updated.CreatedAt = cur.CreatedAt
	os.s.offers[o.ID] = updated
	return nil
}

// InsertEventTypeOwned appends a tag only when the referenced offer
// belongs to owner, checked under the same lock as the insert.
func (os *OfferStore) InsertEventTypeOwned(ctx context.Context, t *models.SponsorEventType, owner uuid.UUID) error {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	o, ok := os.s.offers[t.SponsorOfferID]
	if !ok || o.ProfileID != owner {
		return apperr.ErrNotFound
	}
	os.s.eventTypes[t.ID] = *t
	return nil
}

// ListEventTypes returns the tags on an offer, oldest first.
func (os *OfferStore) ListEventTypes(ctx context.Context, offerID uuid.UUID) ([]models.SponsorEventType, error) {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	var list []models.SponsorEventType
	for _, t := range os.s.eventTypes {
		if t.SponsorOfferID == offerID {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}
