package promotion

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const activeCacheKey = "promotions:active"

// Cache keeps the active-promotion list in Redis for a short TTL.
// A nil client disables caching entirely; every method degrades to a miss.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache creates a promotion cache. rdb may be nil.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetActive returns the cached active-promotion list, if present
func (c *Cache) GetActive(ctx context.Context) ([]Promotion, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, activeCacheKey).Bytes()
	if err != nil {
		return nil, false
	}

	var promos []Promotion
	if err := json.Unmarshal(raw, &promos); err != nil {
		log.Warn().Err(err).Msg("Dropping corrupt promotion cache entry")
		c.rdb.Del(ctx, activeCacheKey)
		return nil, false
	}
	return promos, true
}

// SetActive stores the active-promotion list
func (c *Cache) SetActive(ctx context.Context, promos []Promotion) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(promos)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, activeCacheKey, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to write promotion cache")
	}
}

// Invalidate drops the cached list; called on every promotion write
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, activeCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate promotion cache")
	}
}
