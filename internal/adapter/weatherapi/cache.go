package weatherapi

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/couchcryptid/flood-alert-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CachedFetcher wraps a Fetcher with a single-entry TTL cache. Concurrent
// callers on a miss wait for one upstream request instead of issuing their own.
type CachedFetcher struct {
	inner   Fetcher
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu        sync.Mutex
	readings  []domain.Reading
	fetchedAt time.Time
	valid     bool
}

// NewCachedFetcher creates a cache decorator around a fetcher.
func NewCachedFetcher(inner Fetcher, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

// Fetch returns the cached readings while they are younger than the TTL.
// Errors are not cached, so the next call retries.
func (c *CachedFetcher) Fetch(ctx context.Context) ([]domain.Reading, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.clock.Since(c.fetchedAt) < c.ttl {
		c.metrics.APICache.WithLabelValues("hit").Inc()
		return c.readings, nil
	}
	c.metrics.APICache.WithLabelValues("miss").Inc()

	readings, err := c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.readings = readings
	c.fetchedAt = c.clock.Now()
	c.valid = true
	return readings, nil
}

// Invalidate drops the cached entry.
func (c *CachedFetcher) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.readings = nil
	c.mu.Unlock()
}
