package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var snapshotClock clockwork.Clock = clockwork.NewRealClock()

// SetClock replaces the time source that stamps FetchedAt on new snapshots.
// nil restores the wall clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	snapshotClock = c
}

// Snapshot is one fetched batch of readings together with its derived metrics.
type Snapshot struct {
	ID        string           `json:"id"`
	FetchedAt time.Time        `json:"fetched_at"`
	Readings  []Reading        `json:"readings"` // as fetched, newest first
	Stations  []Reading        `json:"stations"` // latest per station, API order
	Metrics   DashboardMetrics `json:"metrics"`
}

// NewSnapshot deduplicates readings to one per station and aggregates them.
func NewSnapshot(readings []Reading, t ThresholdSet, dir *Directory) Snapshot {
	if readings == nil {
		readings = []Reading{}
	}
	latest := LatestPerStation(readings)
	return Snapshot{
		ID:        uuid.NewString(),
		FetchedAt: snapshotClock.Now().UTC(),
		Readings:  readings,
		Stations:  latest,
		Metrics:   AggregateOrdered(latest, t, dir),
	}
}

// Latest returns the most recent reading overall.
func (s Snapshot) Latest() (Reading, bool) {
	return Latest(s.Readings)
}

// StationStatus is a directory entry joined with its current reading.
type StationStatus struct {
	Station Station    `json:"station"`
	Level   AlertLevel `json:"level"`
	Online  bool       `json:"online"`
	Reading *Reading   `json:"reading,omitempty"`
}

// StationStatuses lists configured stations in directory order, then any
// reporting stations missing from the directory, in API order.
func StationStatuses(latest []Reading, t ThresholdSet, dir *Directory) []StationStatus {
	byID := make(map[string]Reading, len(latest))
	for _, r := range latest {
		byID[r.StationID] = r
	}

	out := make([]StationStatus, 0, dir.Len()+len(latest))
	for _, s := range dir.Stations() {
		status := StationStatus{Station: s, Level: LevelNormal}
		if r, ok := byID[s.ID]; ok {
			status.Online = true
			status.Level = ClassifyReading(r, t)
			status.Reading = &r
		}
		out = append(out, status)
	}
	for _, r := range latest {
		if _, known := dir.Lookup(r.StationID); known {
			continue
		}
		out = append(out, StationStatus{
			Station: Station{ID: r.StationID, Name: r.StationID},
			Level:   ClassifyReading(r, t),
			Online:  true,
			Reading: &r,
		})
	}
	return out
}
