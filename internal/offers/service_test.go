package offers_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponsorlane/backend/internal/integrity"
	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/internal/offers"
	"github.com/sponsorlane/backend/internal/policy"
	"github.com/sponsorlane/backend/internal/store/memory"
	"github.com/sponsorlane/backend/pkg/apperr"
)

type env struct {
	store   *memory.Store
	svc     *offers.Service
	now     time.Time
	advance func(d time.Duration)
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	e := &env{store: store, now: time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)}
	e.advance = func(d time.Duration) { e.now = e.now.Add(d) }
	enf := integrity.New(func() time.Time { return e.now })
	engine := policy.NewEngine(policy.Directory{
		ProfileRole: func(ctx context.Context, id uuid.UUID) (models.Role, error) {
			p, err := store.Profiles().Get(ctx, id)
			if err != nil {
				return "", err
			}
			return p.Role, nil
		},
		OfferOwner: func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
			o, err := store.Offers().Get(ctx, id)
			if err != nil {
				return uuid.Nil, err
			}
			return o.ProfileID, nil
		},
	})
	e.svc = offers.NewService(store.Offers(), engine, enf)
	return e
}

func (e *env) addProfile(t *testing.T, role models.Role) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := e.store.Profiles().Insert(context.Background(), &models.Profile{
		ID: id, Name: "profile " + id.String()[:8], Role: role,
		CreatedAt: e.now, UpdatedAt: e.now,
	})
	require.NoError(t, err)
	return id
}

func TestCreateBySponsor(t *testing.T) {
	e := newEnv(t)
	sponsor := e.addProfile(t, models.RoleSponsor)
	ctx := context.Background()

	desc := "hardware startups"
	o, err := e.svc.Create(ctx, &sponsor, offers.CreateParams{
		ProfileID:   sponsor,
		AmountCents: 500000,
		Description: &desc,
	})
	require.NoError(t, err)
	assert.Equal(t, sponsor, o.ProfileID)
	assert.True(t, o.CreatedAt.Equal(o.UpdatedAt))

	got, err := e.svc.Get(ctx, &sponsor, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500000), got.AmountCents)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
}

func TestCreateDeniedForOrganizer(t *testing.T) {
	e := newEnv(t)
	organizer := e.addProfile(t, models.RoleOrganizer)

	_, err := e.svc.Create(context.Background(), &organizer, offers.CreateParams{
		ProfileID:   organizer,
		AmountCents: 1000,
	})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestCreateDeniedWhenImpersonating(t *testing.T) {
	e := newEnv(t)
	sponsor := e.addProfile(t, models.RoleSponsor)
	other := e.addProfile(t, models.RoleSponsor)

	_, err := e.svc.Create(context.Background(), &sponsor, offers.CreateParams{
		ProfileID:   other,
		AmountCents: 1000,
	})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestCreateAmountMustBePositive(t *testing.T) {
	e := newEnv(t)
	sponsor := e.addProfile(t, models.RoleSponsor)

	_, err := e.svc.Create(context.Background(), &sponsor, offers.CreateParams{
		ProfileID:   sponsor,
		AmountCents: -1,
	})
	cv := apperr.AsViolation(err)
	require.NotNil(t, cv)
	assert.Equal(t, "amount_cents", cv.Field)
}

func TestUpdateOwnerOnly(t *testing.T) {
	e := newEnv(t)
	sponsor := e.addProfile(t, models.RoleSponsor)
	rival := e.addProfile(t, models.RoleSponsor)
	ctx := context.Background()

	o, err := e.svc.Create(ctx, &sponsor, offers.CreateParams{ProfileID: sponsor, AmountCents: 1000})
	require.NoError(t, err)

	amount := int64(2000)
	_, err = e.svc.Update(ctx, &rival, o.ID, offers.UpdateParams{AmountCents: &amount})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	e.advance(time.Minute)
	updated, err := e.svc.Update(ctx, &sponsor, o.ID, offers.UpdateParams{AmountCents: &amount})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), updated.AmountCents)
	assert.True(t, updated.UpdatedAt.After(o.UpdatedAt))
}

func TestCreateEventTypeTransitiveOwnership(t *testing.T) {
	e := newEnv(t)
	sponsor := e.addProfile(t, models.RoleSponsor)
	rival := e.addProfile(t, models.RoleSponsor)
	ctx := context.Background()

	o, err := e.svc.Create(ctx, &sponsor, offers.CreateParams{ProfileID: sponsor, AmountCents: 1000})
	require.NoError(t, err)

	et, err := e.svc.CreateEventType(ctx, &sponsor, o.ID, "conference")
	require.NoError(t, err)
	assert.Equal(t, o.ID, et.SponsorOfferID)

	// The offer exists and belongs to another sponsor: still denied.
	_, err = e.svc.CreateEventType(ctx, &rival, o.ID, "conference")
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	// Missing offer is the same opaque deny.
	_, err = e.svc.CreateEventType(ctx, &rival, uuid.New(), "conference")
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestCreateEventTypeRequiresEventType(t *testing.T) {
	e := newEnv(t)
	sponsor := e.addProfile(t, models.RoleSponsor)
	ctx := context.Background()

	o, err := e.svc.Create(ctx, &sponsor, offers.CreateParams{ProfileID: sponsor, AmountCents: 1000})
	require.NoError(t, err)

	_, err = e.svc.CreateEventType(ctx, &sponsor, o.ID, "")
	cv := apperr.AsViolation(err)
	require.NotNil(t, cv)
	assert.Equal(t, "event_type", cv.Field)
}

func TestListEventTypesAppendOnly(t *testing.T) {
	e := newEnv(t)
	sponsor := e.addProfile(t, models.RoleSponsor)
	organizer := e.addProfile(t, models.RoleOrganizer)
	ctx := context.Background()

	o, err := e.svc.Create(ctx, &sponsor, offers.CreateParams{ProfileID: sponsor, AmountCents: 1000})
	require.NoError(t, err)

	_, err = e.svc.CreateEventType(ctx, &sponsor, o.ID, "conference")
	require.NoError(t, err)
	e.advance(time.Second)
	_, err = e.svc.CreateEventType(ctx, &sponsor, o.ID, "festival")
	require.NoError(t, err)

	// Tags are public listings for any authenticated principal.
	list, err := e.svc.ListEventTypes(ctx, &organizer, o.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "conference", list[0].EventType)
	assert.Equal(t, "festival", list[1].EventType)
}
