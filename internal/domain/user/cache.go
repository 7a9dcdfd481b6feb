package user

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const permissionCacheTTL = 5 * time.Minute

// PermissionCache keeps resolved permission sets in redis so the
// authorization middleware does not hit the database on every request.
// All methods are no-ops when redis is not configured.
type PermissionCache struct {
	rdb *redis.Client
}

// NewPermissionCache creates a cache. rdb may be nil.
func NewPermissionCache(rdb *redis.Client) *PermissionCache {
	return &PermissionCache{rdb: rdb}
}

func (c *PermissionCache) key(userID uuid.UUID) string {
	return "permissions:user:" + userID.String()
}

// Get returns the cached permission set, if present
func (c *PermissionCache) Get(ctx context.Context, userID uuid.UUID) ([]string, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var perms []string
	if err := json.Unmarshal(raw, &perms); err != nil {
		return nil, false
	}
	return perms, true
}

// Set stores the permission set
func (c *PermissionCache) Set(ctx context.Context, userID uuid.UUID, perms []string) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, c.key(userID), raw, permissionCacheTTL)
}

// Invalidate drops the cached set after role or grant changes
func (c *PermissionCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, c.key(userID))
}
