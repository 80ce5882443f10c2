package dashboard_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/dashboard"
	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int64
}

func (c *countingRefresher) Refresh(_ context.Context) (domain.Snapshot, error) {
	c.calls.Add(1)
	return domain.Snapshot{}, nil
}

func TestPoller_RefreshesImmediatelyAndOnSchedule(t *testing.T) {
	r := &countingRefresher{}
	p := dashboard.NewPoller("@every 1s", r, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return r.calls.Load() >= 2 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}

func TestPoller_InvalidSchedule(t *testing.T) {
	r := &countingRefresher{}
	p := dashboard.NewPoller("not a schedule", r, testLogger())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a schedule")
	assert.Zero(t, r.calls.Load())
}

func TestPoller_CancelledContextSkipsRefresh(t *testing.T) {
	r := &countingRefresher{}
	p := dashboard.NewPoller("@every 1h", r, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Zero(t, r.calls.Load())
}
