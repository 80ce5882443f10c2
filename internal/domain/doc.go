// Package domain classifies weather-sensor readings from the Balatan flood
// monitoring network into per-station alert levels and dashboard metrics.
//
// # Data Source
//
// Readings come from the APAW Balatan weather API. Each poll returns a JSON
// array of flat records, newest first, either bare or wrapped as
// {"data": [...]}. A record looks like:
//
//	{"StationID": "St1", "WaterLevel": 7.25, "HourlyRain": 1.2,
//	 "WindSpeed": 3.4, "Temperature": 27.1, "Humidity": 88,
//	 "DateTime": "2025-01-14T08:00:00Z"}
//
// Units: water level in meters, hourly rainfall in mm/hour, wind speed in
// m/s. The API is loosely typed; numbers sometimes arrive as strings and
// fields are sometimes missing or null.
//
// # Ingestion Policy
//
// Numeric fields pass through [FloatOrZero] exactly once, in [ParseReading].
// Missing, null, or unparsable values become 0.0 so one bad station never
// blanks the dashboard. Deduplication ([LatestPerStation]) keeps the first
// record seen per station id in API order; ties are not resolved by
// timestamp.
//
// # Alert Levels
//
// Five ordered tiers, most severe first: critical, warning, alert, advisory,
// normal. [Classify] walks the four active tiers in order and returns the
// first one where ANY of water level, rainfall, or wind speed meets or exceeds
// that tier's boundary for its own family. Defaults follow PAGASA guidance and
// the LGU Balatan flood risk assessment:
//
//	              critical  warning  alert  advisory
//	Water (m)       11.0      9.0     8.0     7.0
//	Rain (mm/h)     30.0     15.0     7.5     0.1
//	Wind (m/s)      25.0     17.0    13.0    10.0
//
// # Rainfall Forecast
//
// The municipality-wide forecast classifies the mean hourly rainfall across
// reporting stations into Intense (RED), Heavy (ORANGE), Moderate (YELLOW),
// Light, or No Rain, reusing the rainfall tier boundaries. See
// [ClassifyRainfall].
//
// The classifier and aggregator functions are pure and safe for concurrent
// use. NewSnapshot reads a package clock that SetClock replaces without
// synchronization; call SetClock only from test setup.
package domain
