package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"vibecart/internal/domain"
)

// DefaultCacheTTL bounds how stale a cached catalog snapshot may be.
// Stock re-validation at checkout reads through this cache, so the TTL is
// kept short.
const DefaultCacheTTL = 5 * time.Minute

// CachedLookup is a read-through Redis cache in front of a Lookup.
// Cache failures degrade to direct reads; they are logged, never surfaced.
type CachedLookup struct {
	next   Lookup
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedLookup wraps next with a Redis read-through cache.
func NewCachedLookup(next Lookup, client *redis.Client, logger *slog.Logger) *CachedLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedLookup{
		next:   next,
		client: client,
		ttl:    DefaultCacheTTL,
		logger: logger,
	}
}

// Get returns the cached snapshot when present, otherwise reads through
// and populates the cache. Not-found results are not cached.
func (c *CachedLookup) Get(ctx context.Context, productID string) (*domain.Product, error) {
	key := cacheKey(productID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var p domain.Product
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
		// Corrupt entry: fall through to the source and rewrite it.
		c.logger.Warn("discarding corrupt catalog cache entry", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("catalog cache read failed", "key", key, "error", err)
	}

	p, err := c.next.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("catalog cache write failed", "key", key, "error", err)
		}
	}

	return p, nil
}

func cacheKey(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}
