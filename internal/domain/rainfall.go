package domain

// Rainfall warning codes.
const (
	WarningRed    = "RED"
	WarningOrange = "ORANGE"
	WarningYellow = "YELLOW"
	WarningNone   = "NONE"
)

// RainfallForecast is the display record for a rainfall intensity.
type RainfallForecast struct {
	Level   string `json:"level"`
	Color   string `json:"color"`
	Icon    string `json:"icon"`
	Warning string `json:"warning"`
}

var (
	forecastIntense  = RainfallForecast{Level: "Intense", Color: "#DC2626", Icon: "fa-cloud-showers-heavy", Warning: WarningRed}
	forecastHeavy    = RainfallForecast{Level: "Heavy", Color: "#F59E0B", Icon: "fa-cloud-rain", Warning: WarningOrange}
	forecastModerate = RainfallForecast{Level: "Moderate", Color: "#409AC7", Icon: "fa-cloud-drizzle", Warning: WarningYellow}
	forecastLight    = RainfallForecast{Level: "Light", Color: "#409AC7", Icon: "fa-cloud-drizzle", Warning: WarningNone}
	forecastNoRain   = RainfallForecast{Level: "No Rain", Color: "#409AC7", Icon: "fa-sun", Warning: WarningNone}
)

// ClassifyRainfall maps an hourly rainfall value (mm/hour) to one of five
// bands using inclusive lower bounds. Values below the light boundary,
// including negatives and NaN, are "No Rain".
func ClassifyRainfall(rainfall float64, t ThresholdSet) RainfallForecast {
	switch {
	case rainfall >= t.Rainfall.Critical:
		return forecastIntense
	case rainfall >= t.Rainfall.Warning:
		return forecastHeavy
	case rainfall >= t.Rainfall.Alert:
		return forecastModerate
	case rainfall >= t.Rainfall.Advisory:
		return forecastLight
	default:
		return forecastNoRain
	}
}
