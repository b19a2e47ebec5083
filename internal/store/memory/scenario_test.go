package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponsorlane/backend/internal/events"
	"github.com/sponsorlane/backend/internal/integrity"
	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/internal/offers"
	"github.com/sponsorlane/backend/internal/policy"
	"github.com/sponsorlane/backend/internal/profiles"
	"github.com/sponsorlane/backend/internal/store/memory"
	"github.com/sponsorlane/backend/pkg/apperr"
)

type platform struct {
	profiles *profiles.Service
	events   *events.Service
	offers   *offers.Service
}

// newPlatform wires the three services over one memory store the same way
// cmd/server does over PostgreSQL.
func newPlatform() *platform {
	store := memory.New()
	enf := integrity.New(func() time.Time { return time.Now().UTC() })
	engine := policy.NewEngine(policy.Directory{
		ProfileRole: func(ctx context.Context, id uuid.UUID) (models.Role, error) {
			p, err := store.Profiles().Get(ctx, id)
			if err != nil {
				return "", err
			}
			return p.Role, nil
		},
		EventOrganizer: func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
			ev, err := store.Events().Get(ctx, id)
			if err != nil {
				return uuid.Nil, err
			}
			return ev.OrganizerID, nil
		},
		OfferOwner: func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
			o, err := store.Offers().Get(ctx, id)
			if err != nil {
				return uuid.Nil, err
			}
			return o.ProfileID, nil
		},
	})
	return &platform{
		profiles: profiles.NewService(store.Profiles(), engine, enf),
		events:   events.NewService(store.Events(), engine, enf),
		offers:   offers.NewService(store.Offers(), engine, enf),
	}
}

func TestMarketplaceScenario(t *testing.T) {
	p := newPlatform()
	ctx := context.Background()
	organizerA := uuid.New()
	sponsorB := uuid.New()

	// Organizer A onboards and publishes an event.
	_, err := p.profiles.Provision(ctx, &organizerA, "A Conf Co", "A Conf GmbH", models.RoleOrganizer)
	require.NoError(t, err)

	e1, err := p.events.Create(ctx, &organizerA, events.CreateParams{
		Name:        "DevDays",
		EventType:   "conference",
		AmountCents: 25000,
		City:        "Berlin",
		Description: "two day developer conference",
		Date:        time.Date(2026, 11, 5, 9, 0, 0, 0, time.UTC),
		OrganizerID: organizerA,
	})
	require.NoError(t, err)

	// Sponsor B onboards, posts an offer and tags it with the event's type.
	_, err = p.profiles.Provision(ctx, &sponsorB, "B Sponsoring", "B Capital", models.RoleSponsor)
	require.NoError(t, err)

	s1, err := p.offers.Create(ctx, &sponsorB, offers.CreateParams{
		ProfileID:   sponsorB,
		AmountCents: 100000,
	})
	require.NoError(t, err)

	_, err = p.offers.CreateEventType(ctx, &sponsorB, s1.ID, e1.EventType)
	require.NoError(t, err)

	// Sponsor B can browse the event but not touch it.
	got, err := p.events.Get(ctx, &sponsorB, e1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), got.AmountCents)

	name := "DevDays (taken over)"
	_, err = p.events.Update(ctx, &sponsorB, e1.ID, events.UpdateParams{Name: &name})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	// Organizer A cannot post a sponsor offer, even for themselves.
	_, err = p.offers.Create(ctx, &organizerA, offers.CreateParams{
		ProfileID:   organizerA,
		AmountCents: 100,
	})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	// Nor tag B's offer.
	_, err = p.offers.CreateEventType(ctx, &organizerA, s1.ID, "conference")
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	// The event is untouched.
	got, err = p.events.Get(ctx, &organizerA, e1.ID)
	require.NoError(t, err)
	assert.Equal(t, "DevDays", got.Name)
}

func TestStoreForeignKeys(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	err := store.Events().Insert(ctx, &models.Event{
		ID:          uuid.New(),
		Name:        "orphan",
		EventType:   "meetup",
		AmountCents: 100,
		City:        "Nowhere",
		Date:        time.Now(),
		OrganizerID: uuid.New(),
	})
	cv := apperr.AsViolation(err)
	require.NotNil(t, cv)
	assert.Equal(t, "organizer_id", cv.Field)

	err = store.Offers().Insert(ctx, &models.SponsorOffer{
		ID:          uuid.New(),
		ProfileID:   uuid.New(),
		AmountCents: 100,
	})
	cv = apperr.AsViolation(err)
	require.NotNil(t, cv)
	assert.Equal(t, "profile_id", cv.Field)
}

func TestOwnershipRaceLosesAtStore(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	owner := uuid.New()
	require.NoError(t, store.Profiles().Insert(ctx, &models.Profile{
		ID: owner, Name: "owner", Role: models.RoleOrganizer,
	}))

	ev := &models.Event{
		ID:          uuid.New(),
		Name:        "Expo",
		EventType:   "expo",
		AmountCents: 100,
		City:        "Oslo",
		Date:        time.Now(),
		OrganizerID: owner,
	}
	require.NoError(t, store.Events().Insert(ctx, ev))

	// The conditional write is the second half of authorize-then-mutate:
	// a stale principal cannot win it.
	err := store.Events().UpdateOwned(ctx, ev, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
