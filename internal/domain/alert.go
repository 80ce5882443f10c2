package domain

// AlertLevel is a station's severity tier.
type AlertLevel string

const (
	LevelCritical AlertLevel = "critical"
	LevelWarning  AlertLevel = "warning"
	LevelAlert    AlertLevel = "alert"
	LevelAdvisory AlertLevel = "advisory"
	LevelNormal   AlertLevel = "normal"
)

// activeLevels lists the non-normal tiers in evaluation order.
var activeLevels = [...]AlertLevel{LevelCritical, LevelWarning, LevelAlert, LevelAdvisory}

// Severity orders levels: 4 for critical down to 0 for normal (and unknown values).
func (l AlertLevel) Severity() int {
	switch l {
	case LevelCritical:
		return 4
	case LevelWarning:
		return 3
	case LevelAlert:
		return 2
	case LevelAdvisory:
		return 1
	default:
		return 0
	}
}

// NeedsAttention is true for advisory and anything more severe.
func (l AlertLevel) NeedsAttention() bool {
	return l.Severity() > 0
}

func (l AlertLevel) String() string { return string(l) }

// MarshalText emits the level name; the zero value encodes as normal.
func (l AlertLevel) MarshalText() ([]byte, error) {
	if l == "" {
		return []byte(LevelNormal), nil
	}
	return []byte(l), nil
}

// Classify returns the first tier, most severe first, at which any of the three
// parameters meets or exceeds its own boundary. Inputs are not validated.
func Classify(waterLevel, rainfall, windSpeed float64, t ThresholdSet) AlertLevel {
	for _, level := range activeLevels {
		if waterLevel >= t.WaterLevel.boundary(level) ||
			rainfall >= t.Rainfall.boundary(level) ||
			windSpeed >= t.WindSpeed.boundary(level) {
			return level
		}
	}
	return LevelNormal
}

// ClassifyReading is Classify applied to an ingested reading.
func ClassifyReading(r Reading, t ThresholdSet) AlertLevel {
	return Classify(r.WaterLevel, r.HourlyRain, r.WindSpeed, t)
}
