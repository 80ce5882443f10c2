package config

import (
	"testing"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultAPIURL = "https://apaw.cspc.edu.ph/apawbalatanapi/APIv1/Weather"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, defaultAPIURL, cfg.APIURL)
	assert.Equal(t, 8*time.Second, cfg.APITimeout)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, "@every 5m", cfg.PollSchedule)
	assert.Equal(t, domain.DefaultStations(), cfg.Stations)
	assert.Equal(t, domain.DefaultThresholds(), cfg.Thresholds)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "dashboard-metrics", cfg.KafkaTopic)
	assert.Empty(t, cfg.ArchivePath)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("TRUST_PROXY", "false")
	t.Setenv("API_URL", "http://localhost:9999/weather")
	t.Setenv("API_TIMEOUT", "2s")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("POLL_SCHEDULE", "*/10 * * * *")
	t.Setenv("STATIONS", "A=Alpha, B=Bravo")
	t.Setenv("WATER_LEVEL_THRESHOLDS", "5,4,3,2")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")
	t.Setenv("ARCHIVE_PATH", "/tmp/readings.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, "http://localhost:9999/weather", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.APITimeout)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "*/10 * * * *", cfg.PollSchedule)
	assert.Equal(t, []domain.Station{{ID: "A", Name: "Alpha"}, {ID: "B", Name: "Bravo"}}, cfg.Stations)
	assert.Equal(t, domain.TierBoundaries{Critical: 5, Warning: 4, Alert: 3, Advisory: 2}, cfg.Thresholds.WaterLevel)
	assert.Equal(t, domain.DefaultThresholds().Rainfall, cfg.Thresholds.Rainfall)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
	assert.Equal(t, "/tmp/readings.db", cfg.ArchivePath)
}

func TestLoad_EmptyPollScheduleDisablesPolling(t *testing.T) {
	t.Setenv("POLL_SCHEDULE", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.PollSchedule)
}

func TestLoad_InvalidPollSchedule(t *testing.T) {
	t.Setenv("POLL_SCHEDULE", "every now and then")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLL_SCHEDULE")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidAPITimeout(t *testing.T) {
	t.Setenv("API_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_TIMEOUT")
}

func TestLoad_NegativeCacheTTL(t *testing.T) {
	t.Setenv("CACHE_TTL", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "maybe")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_ENABLED")
}

func TestLoad_DuplicateStation(t *testing.T) {
	t.Setenv("STATIONS", "St1=One,St1=Again")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATIONS")
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoad_MalformedThresholds(t *testing.T) {
	t.Setenv("RAINFALL_THRESHOLDS", "30,15,7.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RAINFALL_THRESHOLDS")
}

func TestLoad_UnorderedThresholds(t *testing.T) {
	t.Setenv("WIND_SPEED_THRESHOLDS", "10,13,17,25")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wind speed thresholds")
}

func TestParseStations_BareID(t *testing.T) {
	stations, err := ParseStations("St1, St2=Two,")
	require.NoError(t, err)
	assert.Equal(t, []domain.Station{{ID: "St1", Name: ""}, {ID: "St2", Name: "Two"}}, stations)
}

func TestParseStations_Empty(t *testing.T) {
	_, err := ParseStations(" , ")
	require.Error(t, err)
}

func TestParseTiers(t *testing.T) {
	tiers, err := ParseTiers(" 1.5, 1 ,0.5,0")
	require.NoError(t, err)
	assert.Equal(t, domain.TierBoundaries{Critical: 1.5, Warning: 1, Alert: 0.5, Advisory: 0}, tiers)

	_, err = ParseTiers("a,b,c,d")
	require.Error(t, err)
}
