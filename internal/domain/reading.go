package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// API field names for a weather record.
const (
	FieldStationID   = "StationID"
	FieldWaterLevel  = "WaterLevel"
	FieldHourlyRain  = "HourlyRain"
	FieldWindSpeed   = "WindSpeed"
	FieldTemperature = "Temperature"
	FieldHumidity    = "Humidity"
	FieldDateTime    = "DateTime"
)

// RawReading is one loosely-typed record as decoded from the weather API.
type RawReading map[string]any

// Reading is a sensor sample after ingestion. Numeric fields are already coerced.
type Reading struct {
	StationID   string  `json:"StationID"`
	WaterLevel  float64 `json:"WaterLevel"`  // meters
	HourlyRain  float64 `json:"HourlyRain"`  // mm/hour
	WindSpeed   float64 `json:"WindSpeed"`   // m/s
	Temperature float64 `json:"Temperature"` // °C, display only
	Humidity    float64 `json:"Humidity"`    // %, display only
	Timestamp   string  `json:"DateTime"`    // ISO-8601 as sent by the API
}

// ParseReading converts a raw API record into a Reading. It never fails:
// every numeric field goes through FloatOrZero.
func ParseReading(raw RawReading) Reading {
	return Reading{
		StationID:   stringOrEmpty(raw[FieldStationID]),
		WaterLevel:  FloatOrZero(raw[FieldWaterLevel]),
		HourlyRain:  FloatOrZero(raw[FieldHourlyRain]),
		WindSpeed:   FloatOrZero(raw[FieldWindSpeed]),
		Temperature: FloatOrZero(raw[FieldTemperature]),
		Humidity:    FloatOrZero(raw[FieldHumidity]),
		Timestamp:   stringOrEmpty(raw[FieldDateTime]),
	}
}

// ParseReadings converts raw records in order. A nil input yields an empty slice.
func ParseReadings(raws []RawReading) []Reading {
	out := make([]Reading, 0, len(raws))
	for _, raw := range raws {
		out = append(out, ParseReading(raw))
	}
	return out
}

// FloatOrZero is the single parse-or-default conversion for sensor values.
// Numbers and numeric strings convert; nil, booleans, NaN, ±Inf, and anything
// else unparsable become 0.
func FloatOrZero(v any) float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case int32:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// stringOrEmpty accepts strings as-is and renders numeric ids without a
// trailing ".0"; anything else is treated as absent.
func stringOrEmpty(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}
