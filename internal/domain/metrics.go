package domain

import (
	"math"
	"sort"
)

// DashboardMetrics is the aggregate view of one snapshot of station readings.
type DashboardMetrics struct {
	CriticalCount int `json:"critical_count"`
	WarningCount  int `json:"warning_count"`
	AlertCount    int `json:"alert_count"`
	AdvisoryCount int `json:"advisory_count"`

	HighestAlertLevel AlertLevel `json:"highest_alert_level"`
	HighestAlertCount int        `json:"highest_alert_count"`

	// RainfallForecast classifies the mean rainfall across reporting stations.
	RainfallForecast RainfallForecast `json:"rainfall_forecast"`
	AverageRainfall  float64          `json:"average_rainfall"`

	AttentionStations []string `json:"attention_stations"`
	OnlineSensors     int      `json:"online_sensors"`
	TotalSensors      int      `json:"total_sensors"`
}

// Count returns the number of stations at an active level; normal returns 0.
func (m DashboardMetrics) Count(level AlertLevel) int {
	switch level {
	case LevelCritical:
		return m.CriticalCount
	case LevelWarning:
		return m.WarningCount
	case LevelAlert:
		return m.AlertCount
	case LevelAdvisory:
		return m.AdvisoryCount
	default:
		return 0
	}
}

// Aggregate computes dashboard metrics for a station-id → reading snapshot.
// The map key is authoritative for the station id. Stations are visited in
// sorted id order so the attention list is deterministic.
func Aggregate(readings map[string]Reading, t ThresholdSet, dir *Directory) DashboardMetrics {
	ids := make([]string, 0, len(readings))
	for id := range readings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ordered := make([]Reading, 0, len(ids))
	for _, id := range ids {
		r := readings[id]
		r.StationID = id
		ordered = append(ordered, r)
	}
	return AggregateOrdered(ordered, t, dir)
}

// AggregateOrdered computes dashboard metrics for readings already reduced to
// one per station. The attention list follows the slice order.
func AggregateOrdered(readings []Reading, t ThresholdSet, dir *Directory) DashboardMetrics {
	m := DashboardMetrics{
		HighestAlertLevel: LevelNormal,
		AttentionStations: []string{},
		OnlineSensors:     len(readings),
		TotalSensors:      dir.Len(),
	}
	if len(readings) == 0 {
		m.RainfallForecast = ClassifyRainfall(0, t)
		return m
	}

	// Divide before summing so extreme finite values cannot overflow the mean.
	n := float64(len(readings))
	var avgRainfall float64
	for _, r := range readings {
		avgRainfall += r.HourlyRain / n

		level := ClassifyReading(r, t)
		switch level {
		case LevelCritical:
			m.CriticalCount++
		case LevelWarning:
			m.WarningCount++
		case LevelAlert:
			m.AlertCount++
		case LevelAdvisory:
			m.AdvisoryCount++
		default:
			continue
		}
		m.AttentionStations = append(m.AttentionStations, dir.Name(r.StationID))
	}

	m.AverageRainfall = finite(avgRainfall)

	for _, level := range activeLevels {
		if n := m.Count(level); n > 0 {
			m.HighestAlertLevel = level
			m.HighestAlertCount = n
			break
		}
	}

	m.RainfallForecast = ClassifyRainfall(m.AverageRainfall, t)
	return m
}

// finite keeps metrics JSON-encodable: NaN becomes 0, ±Inf the largest float.
func finite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}
