package domain

import "fmt"

// TierBoundaries holds the inclusive lower bound of each active tier for one
// measured parameter.
type TierBoundaries struct {
	Critical float64 `json:"critical"`
	Warning  float64 `json:"warning"`
	Alert    float64 `json:"alert"`
	Advisory float64 `json:"advisory"`
}

// ThresholdSet is the fixed alert configuration. For rainfall the tiers double
// as forecast bands: Critical=intense, Warning=heavy, Alert=moderate,
// Advisory=light.
type ThresholdSet struct {
	WaterLevel TierBoundaries `json:"water_level"` // meters
	Rainfall   TierBoundaries `json:"rainfall"`    // mm/hour
	WindSpeed  TierBoundaries `json:"wind_speed"`  // m/s
}

// DefaultThresholds returns the LGU Balatan thresholds.
func DefaultThresholds() ThresholdSet {
	return ThresholdSet{
		WaterLevel: TierBoundaries{Critical: 11.0, Warning: 9.0, Alert: 8.0, Advisory: 7.0},
		Rainfall:   TierBoundaries{Critical: 30.0, Warning: 15.0, Alert: 7.5, Advisory: 0.1},
		WindSpeed:  TierBoundaries{Critical: 25.0, Warning: 17.0, Alert: 13.0, Advisory: 10.0},
	}
}

// Validate reports an error if any family is not ordered
// critical >= warning >= alert >= advisory. Classify assumes this ordering;
// an unordered set would classify silently wrong.
func (t ThresholdSet) Validate() error {
	families := []struct {
		name string
		b    TierBoundaries
	}{
		{"water level", t.WaterLevel},
		{"rainfall", t.Rainfall},
		{"wind speed", t.WindSpeed},
	}
	for _, f := range families {
		if err := f.b.validate(); err != nil {
			return fmt.Errorf("%s thresholds: %w", f.name, err)
		}
	}
	return nil
}

func (b TierBoundaries) validate() error {
	switch {
	case b.Critical < b.Warning:
		return fmt.Errorf("critical %g is below warning %g", b.Critical, b.Warning)
	case b.Warning < b.Alert:
		return fmt.Errorf("warning %g is below alert %g", b.Warning, b.Alert)
	case b.Alert < b.Advisory:
		return fmt.Errorf("alert %g is below advisory %g", b.Alert, b.Advisory)
	}
	return nil
}

// boundary returns the lower bound for an active tier. It is never called with
// LevelNormal.
func (b TierBoundaries) boundary(level AlertLevel) float64 {
	switch level {
	case LevelCritical:
		return b.Critical
	case LevelWarning:
		return b.Warning
	case LevelAlert:
		return b.Alert
	default:
		return b.Advisory
	}
}
