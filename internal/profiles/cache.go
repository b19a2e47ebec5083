package profiles

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sponsorlane/backend/internal/models"
)

const roleKeyPrefix = "profile:role:"

// roleTTL bounds cache growth; correctness does not depend on expiry
// because a profile's role never changes after provisioning.
const roleTTL = 24 * time.Hour

// RoleCache answers role-eligibility lookups for the policy engine,
// reading through Redis to the profile store. A nil Redis client degrades
// to plain store lookups.
type RoleCache struct {
	store  Store
	client *redis.Client
	logger *zap.Logger
}

// NewRoleCache creates a role cache over store.
func NewRoleCache(store Store, client *redis.Client, logger *zap.Logger) *RoleCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleCache{store: store, client: client, logger: logger}
}

// Role returns the role of the given profile, or apperr.ErrNotFound when
// the profile does not exist.
func (c *RoleCache) Role(ctx context.Context, id uuid.UUID) (models.Role, error) {
	if c.client != nil {
		val, err := c.client.Get(ctx, roleKeyPrefix+id.String()).Result()
		if err == nil {
			if role := models.Role(val); role.Valid() {
				return role, nil
			}
		} else if err != redis.Nil {
			c.logger.Debug("role cache read failed", zap.Error(err))
		}
	}
	p, err := c.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if c.client != nil {
		if err := c.client.Set(ctx, roleKeyPrefix+id.String(), string(p.Role), roleTTL).Err(); err != nil {
			c.logger.Debug("role cache write failed", zap.Error(err))
		}
	}
	return p.Role, nil
}
