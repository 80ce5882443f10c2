package weatherapi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/couchcryptid/flood-alert-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingFetcher struct {
	mu       sync.Mutex
	calls    int
	readings []domain.Reading
	err      error
}

func (m *countingFetcher) Fetch(_ context.Context) ([]domain.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.readings, nil
}

func (m *countingFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- CachedFetcher tests ---

func TestCachedFetcher_HitWithinTTL(t *testing.T) {
	inner := &countingFetcher{readings: []domain.Reading{{StationID: "St1"}}}
	clock := clockwork.NewFakeClock()
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedFetcher(inner, time.Minute, clock, metrics)

	r1, err := cached.Fetch(context.Background())
	require.NoError(t, err)
	clock.Advance(59 * time.Second)
	r2, err := cached.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.callCount(), "should only call inner once")
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.APICache.WithLabelValues("hit")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.APICache.WithLabelValues("miss")), 1e-9)
}

func TestCachedFetcher_ExpiresAfterTTL(t *testing.T) {
	inner := &countingFetcher{readings: []domain.Reading{{StationID: "St1"}}}
	clock := clockwork.NewFakeClock()
	cached := NewCachedFetcher(inner, time.Minute, clock, observability.NewMetricsForTesting())

	_, err := cached.Fetch(context.Background())
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = cached.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, inner.callCount())
}

func TestCachedFetcher_ErrorsNotCached(t *testing.T) {
	inner := &countingFetcher{err: errors.New("boom")}
	cached := NewCachedFetcher(inner, time.Minute, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	_, err := cached.Fetch(context.Background())
	require.Error(t, err)

	inner.mu.Lock()
	inner.err = nil
	inner.readings = []domain.Reading{{StationID: "St2"}}
	inner.mu.Unlock()

	readings, err := cached.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, 2, inner.callCount())
}

func TestCachedFetcher_EmptyResultIsCached(t *testing.T) {
	inner := &countingFetcher{readings: []domain.Reading{}}
	cached := NewCachedFetcher(inner, time.Minute, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	for range 3 {
		_, err := cached.Fetch(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, inner.callCount())
}

func TestCachedFetcher_Invalidate(t *testing.T) {
	inner := &countingFetcher{readings: []domain.Reading{{StationID: "St1"}}}
	cached := NewCachedFetcher(inner, time.Hour, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	_, _ = cached.Fetch(context.Background())
	cached.Invalidate()
	_, _ = cached.Fetch(context.Background())

	assert.Equal(t, 2, inner.callCount())
}

func TestCachedFetcher_ConcurrentMissesCollapse(t *testing.T) {
	inner := &countingFetcher{readings: []domain.Reading{{StationID: "St1"}}}
	cached := NewCachedFetcher(inner, time.Minute, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cached.Fetch(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, inner.callCount())
}
