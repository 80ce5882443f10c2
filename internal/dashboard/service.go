package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/couchcryptid/flood-alert-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
)

// SiteReadingsLimit caps the readings shown for one site.
const SiteReadingsLimit = 24

// Source supplies the current readings, newest first.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Reading, error)
}

// Publisher receives every successfully refreshed snapshot.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// Options tunes a Service. Zero values fall back to sane defaults.
type Options struct {
	// MaxAge is how long a snapshot is served before a request triggers a refresh.
	MaxAge     time.Duration
	Clock      clockwork.Clock
	Publishers []Publisher
}

// Service owns the current dashboard snapshot. Request handlers read it;
// the poller and stale reads refresh it.
type Service struct {
	source     Source
	thresholds domain.ThresholdSet
	dir        *domain.Directory
	publishers []Publisher
	maxAge     time.Duration
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics

	refreshMu sync.Mutex
	mu        sync.RWMutex
	snap      domain.Snapshot
	refreshed time.Time
	have      bool
	ready     atomic.Bool
}

// New creates a Service. The thresholds and directory are never mutated.
func New(source Source, thresholds domain.ThresholdSet, dir *domain.Directory, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if opts.MaxAge <= 0 {
		opts.MaxAge = time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Service{
		source:     source,
		thresholds: thresholds,
		dir:        dir,
		publishers: opts.Publishers,
		maxAge:     opts.MaxAge,
		clock:      opts.Clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// Thresholds returns the configured threshold set.
func (s *Service) Thresholds() domain.ThresholdSet { return s.thresholds }

// Directory returns the configured station directory.
func (s *Service) Directory() *domain.Directory { return s.dir }

// CheckReadiness returns nil once at least one refresh has reached the API.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("dashboard has not completed a successful refresh yet")
	}
	return nil
}

// Refresh fetches readings, rebuilds the snapshot, and publishes it. A fetch
// failure is logged and yields an empty snapshot, which is stored and returned
// together with the error; publishers only see successful snapshots.
func (s *Service) Refresh(ctx context.Context) (domain.Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Service) refreshLocked(ctx context.Context) (domain.Snapshot, error) {
	start := s.clock.Now()
	defer func() { s.metrics.RefreshDuration.Observe(s.clock.Since(start).Seconds()) }()

	readings, fetchErr := s.source.Fetch(ctx)
	if fetchErr != nil {
		s.logger.Error("fetch readings failed", "error", fetchErr)
		s.metrics.Refreshes.WithLabelValues("error").Inc()
		readings = nil
	}

	snap := domain.NewSnapshot(readings, s.thresholds, s.dir)
	s.store(snap)
	s.observe(snap)

	if fetchErr != nil {
		return snap, fetchErr
	}

	s.metrics.Refreshes.WithLabelValues("success").Inc()
	s.metrics.ReadingsFetched.Add(float64(len(snap.Readings)))
	s.ready.Store(true)

	s.publish(ctx, snap)

	s.logger.Info("dashboard refreshed",
		"snapshot_id", snap.ID,
		"readings", len(snap.Readings),
		"online_sensors", snap.Metrics.OnlineSensors,
		"highest_alert_level", snap.Metrics.HighestAlertLevel,
		"highest_alert_count", snap.Metrics.HighestAlertCount,
	)
	return snap, nil
}

// Snapshot returns the current snapshot, refreshing first when there is none
// or it is older than MaxAge.
func (s *Service) Snapshot(ctx context.Context) domain.Snapshot {
	if snap, ok := s.fresh(); ok {
		return snap
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	// Another caller may have refreshed while we waited.
	if snap, ok := s.fresh(); ok {
		return snap
	}
	snap, _ := s.refreshLocked(ctx)
	return snap
}

// Current returns the stored snapshot without refreshing.
func (s *Service) Current() (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.have
}

// Sample builds a snapshot from the fixed five-station sample set. It does not
// touch the stored snapshot.
func (s *Service) Sample() domain.Snapshot {
	snap := domain.NewSnapshot(domain.SampleReadings(), s.thresholds, s.dir)
	m := snap.Metrics
	s.logger.Info("sample dashboard built",
		"critical", m.CriticalCount,
		"warning", m.WarningCount,
		"alert", m.AlertCount,
		"advisory", m.AdvisoryCount,
		"highest_alert_level", m.HighestAlertLevel,
		"attention_stations", m.AttentionStations,
	)
	return snap
}

// SiteReadings returns up to SiteReadingsLimit readings for a configured
// station, newest first. The bool is false when the station is unknown.
func (s *Service) SiteReadings(ctx context.Context, stationID string) (domain.Station, []domain.Reading, bool) {
	station, ok := s.dir.Lookup(stationID)
	if !ok {
		return domain.Station{}, nil, false
	}
	readings := domain.FilterByStation(s.Snapshot(ctx).Readings, stationID)
	if len(readings) > SiteReadingsLimit {
		readings = readings[:SiteReadingsLimit]
	}
	return station, readings, true
}

// Stations joins the directory with the current snapshot.
func (s *Service) Stations(ctx context.Context) []domain.StationStatus {
	return domain.StationStatuses(s.Snapshot(ctx).Stations, s.thresholds, s.dir)
}

func (s *Service) fresh() (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.have || s.clock.Since(s.refreshed) >= s.maxAge {
		return domain.Snapshot{}, false
	}
	return s.snap, true
}

func (s *Service) store(snap domain.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.refreshed = s.clock.Now()
	s.have = true
	s.mu.Unlock()
}

func (s *Service) observe(snap domain.Snapshot) {
	m := snap.Metrics
	s.metrics.OnlineSensors.Set(float64(m.OnlineSensors))
	s.metrics.StationsByLevel.WithLabelValues(string(domain.LevelCritical)).Set(float64(m.CriticalCount))
	s.metrics.StationsByLevel.WithLabelValues(string(domain.LevelWarning)).Set(float64(m.WarningCount))
	s.metrics.StationsByLevel.WithLabelValues(string(domain.LevelAlert)).Set(float64(m.AlertCount))
	s.metrics.StationsByLevel.WithLabelValues(string(domain.LevelAdvisory)).Set(float64(m.AdvisoryCount))
	normal := m.OnlineSensors - m.CriticalCount - m.WarningCount - m.AlertCount - m.AdvisoryCount
	s.metrics.StationsByLevel.WithLabelValues(string(domain.LevelNormal)).Set(float64(normal))
}

func (s *Service) publish(ctx context.Context, snap domain.Snapshot) {
	for _, p := range s.publishers {
		if err := p.Publish(ctx, snap); err != nil {
			s.logger.Warn("publish snapshot failed",
				"publisher", p.Name(),
				"snapshot_id", snap.ID,
				"error", err,
			)
			s.metrics.PublishErrors.WithLabelValues(p.Name()).Inc()
		}
	}
}
