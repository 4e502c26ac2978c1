package directory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"stock-quote-service/internal/logger"
)

// DefaultTTL is how long a fetched directory snapshot is considered fresh.
const DefaultTTL = 24 * time.Hour

// ListingFetcher pulls the full corporation list from an upstream source.
type ListingFetcher interface {
	FetchListings(ctx context.Context) ([]Listing, error)
}

// Cache owns the directory snapshot shared by concurrent requests.
//
// Refreshes are coalesced through a singleflight group so concurrent
// cache-miss requests trigger at most one upstream fetch; the other callers
// block on that fetch's result. On fetch failure the last-good snapshot is
// returned and the failure is reported through the logger, never to the
// request itself.
type Cache struct {
	fetcher ListingFetcher
	ttl     time.Duration

	mu   sync.RWMutex
	snap *Snapshot

	sf singleflight.Group
}

// NewCache creates a directory cache. A non-positive ttl falls back to
// DefaultTTL.
func NewCache(fetcher ListingFetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{fetcher: fetcher, ttl: ttl}
}

// Get returns the current snapshot, refreshing it first when it is missing,
// empty, or older than the TTL. It never returns nil: with no data at all an
// empty snapshot is returned so lookups simply find nothing.
func (c *Cache) Get(ctx context.Context) *Snapshot {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if c.fresh(snap) {
		return snap
	}

	v, err, _ := c.sf.Do("refresh", func() (any, error) {
		// Another caller may have completed the refresh while this one
		// waited on the group.
		c.mu.RLock()
		cur := c.snap
		c.mu.RUnlock()
		if c.fresh(cur) {
			return cur, nil
		}

		listings, err := c.fetcher.FetchListings(ctx)
		if err != nil {
			return nil, err
		}

		next := NewSnapshot(listings, time.Now())
		c.mu.Lock()
		c.snap = next
		c.mu.Unlock()

		logger.Info(ctx, "Directory refreshed", "entries", next.Len())
		return next, nil
	})

	if err != nil {
		// Availability over freshness: keep serving the stale table.
		logger.ErrorWithErr(ctx, "Directory refresh failed, serving last-good snapshot", err)
		c.mu.RLock()
		stale := c.snap
		c.mu.RUnlock()
		if stale != nil {
			return stale
		}
		return NewSnapshot(nil, time.Time{})
	}

	return v.(*Snapshot)
}

// Invalidate resets the snapshot's fetch time so the next Get forces a
// refresh. The data itself is kept so a failing refresh still has a fallback.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = c.snap.expired()
}

func (c *Cache) fresh(s *Snapshot) bool {
	return s != nil && s.Len() > 0 && time.Since(s.FetchedAt()) < c.ttl
}
