package profiles_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/internal/profiles"
	"github.com/sponsorlane/backend/internal/store/memory"
	"github.com/sponsorlane/backend/pkg/apperr"
)

func TestRoleCacheWithoutRedis(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	id := uuid.New()
	require.NoError(t, store.Profiles().Insert(ctx, &models.Profile{
		ID: id, Name: "Acme", Role: models.RoleSponsor,
	}))

	cache := profiles.NewRoleCache(store.Profiles(), nil, nil)

	role, err := cache.Role(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSponsor, role)

	_, err = cache.Role(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
