// Package cache memoizes range responses by prefix for a bounded TTL.
//
// Caching sits outside the protocol core: the core client stays cache-free
// per call, and this wrapper only stores data that already crossed the
// network (raw range bodies keyed by their prefix), so it adds no exposure
// beyond what the transport has seen. Invalidation is expiry-only.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"breachscan/cmd/security/hibp"
)

// RangeCache is a hibp.RangeFetcher that serves recent range bodies from
// memory and falls through to the next fetcher on miss. Errors are never
// cached.
type RangeCache struct {
	next  hibp.RangeFetcher
	store *gocache.Cache

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New wraps next with a TTL cache. Expired entries are purged in the
// background at twice the TTL.
func New(next hibp.RangeFetcher, ttl time.Duration) *RangeCache {
	return &RangeCache{
		next:  next,
		store: gocache.New(ttl, 2*ttl),
	}
}

// FetchRange implements hibp.RangeFetcher. Returned bodies are shared
// between callers and must be treated as read-only.
func (c *RangeCache) FetchRange(ctx context.Context, prefix hibp.Prefix) ([]byte, error) {
	key := prefix.String()

	if v, ok := c.store.Get(key); ok {
		c.hits.Add(1)
		return v.([]byte), nil
	}
	c.misses.Add(1)

	body, err := c.next.FetchRange(ctx, prefix)
	if err != nil {
		return nil, err
	}

	c.store.Set(key, body, gocache.DefaultExpiration)
	return body, nil
}

// Stats reports cumulative hit and miss counts for metrics export.
func (c *RangeCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
