package domain

// SampleReadings is a fixed five-station snapshot covering every alert tier,
// used by the test dashboard page and the classify command's -sample flag.
func SampleReadings() []Reading {
	return []Reading{
		{StationID: "St1", WaterLevel: 11.5, HourlyRain: 35.0, WindSpeed: 15}, // critical
		{StationID: "St2", WaterLevel: 9.8, HourlyRain: 20.0, WindSpeed: 12},  // warning
		{StationID: "St3", WaterLevel: 8.3, HourlyRain: 10.0, WindSpeed: 8},   // alert
		{StationID: "St4", WaterLevel: 7.2, HourlyRain: 5.0, WindSpeed: 6},    // advisory
		{StationID: "St5", WaterLevel: 6.1, HourlyRain: 1.0, WindSpeed: 4},    // advisory via light rain
	}
}
