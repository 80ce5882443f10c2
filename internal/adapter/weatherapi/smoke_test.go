//go:build smoke

package weatherapi

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/observability"
	"github.com/stretchr/testify/require"
)

// These tests hit the live APAW API.
// Run with: go test -tags=smoke ./internal/adapter/weatherapi/ -v -count=1

const liveURL = "https://apaw.cspc.edu.ph/apawbalatanapi/APIv1/Weather"

func TestSmoke_Fetch(t *testing.T) {
	url := os.Getenv("API_URL")
	if url == "" {
		url = liveURL
	}
	c := NewClient(url, 10*time.Second, observability.NewMetricsForTesting(), testLogger())

	readings, err := c.Fetch(context.Background())
	require.NoError(t, err)
	for _, r := range readings {
		require.NotEmpty(t, r.StationID)
	}
	t.Logf("fetched %d readings", len(readings))
}
