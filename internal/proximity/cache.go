package proximity

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheCapacity comfortably exceeds the number of secrets expected to
// be in play at once.
const DefaultCacheCapacity = 256

// BuildFunc produces the ranking for a normalized secret word.
type BuildFunc func(ctx context.Context, secret string) (*Ranking, error)

// CacheStats is a point-in-time view of cache activity.
type CacheStats struct {
	Size      int   `json:"size"`
	Capacity  int   `json:"capacity"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Builds    int64 `json:"builds"`
	Evictions int64 `json:"evictions"`
}

// Cache maps secret words to their rankings with a least-recently-used bound.
//
// At most one build per secret is in flight: concurrent misses on the same
// key wait for that build instead of repeating it. A caller that gives up
// waiting does not stop the build; the result still lands in the cache for
// later games with the same secret.
type Cache struct {
	capacity int
	lru      *lru.Cache[string, *Ranking]
	flights  singleflight.Group
	build    BuildFunc

	hits, misses, builds, evictions atomic.Int64
}

// NewCache returns a cache holding up to capacity rankings. A capacity of
// zero or less selects DefaultCacheCapacity.
func NewCache(capacity int, build BuildFunc) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	l, err := lru.New[string, *Ranking](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{capacity: capacity, lru: l, build: build}, nil
}

// GetOrBuild returns the cached ranking for secret, building it on a miss.
// secret must already be normalized.
func (c *Cache) GetOrBuild(ctx context.Context, secret string) (*Ranking, error) {
	if r, ok := c.lru.Get(secret); ok {
		c.hits.Add(1)
		return r, nil
	}
	c.misses.Add(1)

	ch := c.flights.DoChan(secret, func() (any, error) {
		// a flight that finished between our Get and DoChan already stored it
		if r, ok := c.lru.Peek(secret); ok {
			return r, nil
		}
		c.builds.Add(1)
		r, err := c.build(context.WithoutCancel(ctx), secret)
		if err != nil {
			return nil, err
		}
		if c.lru.Add(secret, r) {
			c.evictions.Add(1)
		}
		return r, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Ranking), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Forget drops the ranking for secret, e.g. when the last game using it ends.
// It reports whether an entry was present.
func (c *Cache) Forget(secret string) bool {
	return c.lru.Remove(secret)
}

// Contains reports whether secret has a cached ranking, without touching its
// recency.
func (c *Cache) Contains(secret string) bool {
	return c.lru.Contains(secret)
}

// Stats returns current counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Size:      c.lru.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Builds:    c.builds.Load(),
		Evictions: c.evictions.Load(),
	}
}
