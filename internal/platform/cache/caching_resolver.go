// Package cache provides caching decorators for multiauth lookups.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"multiauth/internal/feature/multiauth/domain/entity"
	"multiauth/internal/feature/multiauth/usecase"
)

// CachingResolver decorates an IdentifierResolver with Redis caching.
// Only positive lookups are cached, so a newly created identifier is visible immediately.
type CachingResolver struct {
	inner     usecase.IdentifierResolver
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check to ensure CachingResolver implements IdentifierResolver.
var _ usecase.IdentifierResolver = (*CachingResolver)(nil)

// NewCachingResolver decorates an IdentifierResolver with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "multiauth:lookup".
func NewCachingResolver(rdb *redis.Client, ttl time.Duration, inner usecase.IdentifierResolver, namespace string) *CachingResolver {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "multiauth:lookup"
	}
	return &CachingResolver{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindByIdentifier checks the cache first, then falls back to the inner resolver.
// Redis failures degrade to an uncached lookup.
func (c *CachingResolver) FindByIdentifier(ctx context.Context, value string) (*entity.LookupResult, error) {
	if c.rdb == nil {
		return c.inner.FindByIdentifier(ctx, value)
	}

	key := c.cacheKey(value)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.LookupResult
		if err := json.Unmarshal(b, &out); err == nil && out.Identifier == value {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the inner resolver
	out, err := c.inner.FindByIdentifier(ctx, value)
	if err != nil || out == nil {
		return out, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// Forget drops the cached owner of value, e.g. after its record changed identifier.
func (c *CachingResolver) Forget(ctx context.Context, value string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey(value)).Err()
}

// cacheKey generates the cache key for one identifier value.
func (c *CachingResolver) cacheKey(value string) string {
	return c.namespace + ":" + digest(value)
}
