package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const defaultStations = "St1=MDRRMO Office,St2=Luluasan Station,St3=Laganac Station,St4=Mang-it Station,St5=Cabanbanan Station"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	TrustProxy      bool

	// Weather API.
	APIURL       string
	APITimeout   time.Duration
	CacheTTL     time.Duration
	PollSchedule string

	Stations   []domain.Station
	Thresholds domain.ThresholdSet

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// ArchivePath is the sqlite file for the reading archive; empty disables it.
	ArchivePath string
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first if present; variables
// already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	apiTimeout, err := parsePositiveDuration("API_TIMEOUT", "8s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("CACHE_TTL", "1m")
	if err != nil {
		return nil, err
	}

	stations, err := ParseStations(sharedcfg.EnvOrDefault("STATIONS", defaultStations))
	if err != nil {
		return nil, fmt.Errorf("invalid STATIONS: %w", err)
	}

	thresholds, err := loadThresholds()
	if err != nil {
		return nil, err
	}

	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}
	trustProxy, err := parseBool("TRUST_PROXY", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		TrustProxy:      trustProxy,

		APIURL:       sharedcfg.EnvOrDefault("API_URL", "https://apaw.cspc.edu.ph/apawbalatanapi/APIv1/Weather"),
		APITimeout:   apiTimeout,
		CacheTTL:     cacheTTL,
		PollSchedule: pollSchedule(),

		Stations:   stations,
		Thresholds: thresholds,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "dashboard-metrics"),

		ArchivePath: os.Getenv("ARCHIVE_PATH"),
	}

	if cfg.PollSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PollSchedule); err != nil {
			return nil, fmt.Errorf("invalid POLL_SCHEDULE: %w", err)
		}
	}
	if cfg.APIURL == "" {
		return nil, errors.New("API_URL is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

// ParseStations parses "id=name,id=name". A bare id uses itself as the name.
func ParseStations(s string) ([]domain.Station, error) {
	var stations []domain.Station
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, name, _ := strings.Cut(part, "=")
		stations = append(stations, domain.Station{
			ID:   strings.TrimSpace(id),
			Name: strings.TrimSpace(name),
		})
	}
	if len(stations) == 0 {
		return nil, errors.New("at least one station is required")
	}
	// Reject duplicates and empty ids here so startup fails with the env var name.
	if _, err := domain.NewDirectory(stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// ParseTiers parses "critical,warning,alert,advisory".
func ParseTiers(s string) (domain.TierBoundaries, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return domain.TierBoundaries{}, fmt.Errorf("want 4 comma-separated values, got %d", len(parts))
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.TierBoundaries{}, fmt.Errorf("value %q: %w", strings.TrimSpace(p), err)
		}
		vals[i] = v
	}
	return domain.TierBoundaries{Critical: vals[0], Warning: vals[1], Alert: vals[2], Advisory: vals[3]}, nil
}

func loadThresholds() (domain.ThresholdSet, error) {
	t := domain.DefaultThresholds()
	families := []struct {
		env string
		dst *domain.TierBoundaries
	}{
		{"WATER_LEVEL_THRESHOLDS", &t.WaterLevel},
		{"RAINFALL_THRESHOLDS", &t.Rainfall},
		{"WIND_SPEED_THRESHOLDS", &t.WindSpeed},
	}

	for _, f := range families {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		tiers, err := ParseTiers(v)
		if err != nil {
			return domain.ThresholdSet{}, fmt.Errorf("invalid %s: %w", f.env, err)
		}
		*f.dst = tiers
	}

	if err := t.Validate(); err != nil {
		return domain.ThresholdSet{}, fmt.Errorf("invalid thresholds: %w", err)
	}
	return t, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// pollSchedule distinguishes unset (default) from explicitly empty (disabled).
func pollSchedule() string {
	v, ok := os.LookupEnv("POLL_SCHEDULE")
	if !ok {
		return "@every 5m"
	}
	return strings.TrimSpace(v)
}
