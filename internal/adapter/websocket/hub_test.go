package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/couchcryptid/flood-alert-dashboard/internal/observability"
	gorillaws "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metricsMessage struct {
	Type    string                  `json:"type"`
	Payload domain.DashboardMetrics `json:"payload"`
}

func startHub(t *testing.T) (*Hub, *observability.Metrics, string) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), metrics)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	return hub, metrics, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *gorillaws.Conn {
	t.Helper()
	conn, resp, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sampleSnapshot(t *testing.T) domain.Snapshot {
	t.Helper()
	dir, err := domain.NewDirectory(domain.DefaultStations())
	require.NoError(t, err)
	return domain.NewSnapshot(domain.SampleReadings(), domain.DefaultThresholds(), dir)
}

func readMetrics(t *testing.T, conn *gorillaws.Conn) metricsMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg metricsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_PublishReachesClients(t *testing.T) {
	hub, metrics, url := startHub(t)
	a := dial(t, url)
	b := dial(t, url)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.WSClients) == 2
	}, 2*time.Second, 10*time.Millisecond)

	snap := sampleSnapshot(t)
	require.NoError(t, hub.Publish(context.Background(), snap))

	for _, conn := range []*gorillaws.Conn{a, b} {
		msg := readMetrics(t, conn)
		assert.Equal(t, MessageTypeMetrics, msg.Type)
		assert.Equal(t, snap.Metrics.CriticalCount, msg.Payload.CriticalCount)
		assert.Equal(t, domain.LevelCritical, msg.Payload.HighestAlertLevel)
	}
}

func TestHub_NewClientReceivesLastMessage(t *testing.T) {
	hub, _, url := startHub(t)

	snap := sampleSnapshot(t)
	require.NoError(t, hub.Publish(context.Background(), snap))

	conn := dial(t, url)
	msg := readMetrics(t, conn)
	assert.Equal(t, snap.Metrics.AttentionStations, msg.Payload.AttentionStations)
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	_, metrics, url := startHub(t)
	conn := dial(t, url)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.WSClients) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.WSClients) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishAfterStopFails(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	err := hub.Publish(context.Background(), domain.Snapshot{})
	require.ErrorIs(t, err, errHubStopped)
}

func TestHub_PublishHonoursContext(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := hub.Publish(ctx, domain.Snapshot{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestHub_Name(t *testing.T) {
	assert.Equal(t, "websocket", NewHub(slog.Default(), observability.NewMetricsForTesting()).Name())
}
