package domain

// LatestPerStation keeps the first reading seen for each station id, preserving
// arrival order. The API returns newest first, so first-seen is the latest.
// Readings without a station id are dropped.
func LatestPerStation(readings []Reading) []Reading {
	seen := make(map[string]struct{}, len(readings))
	out := make([]Reading, 0, len(readings))
	for _, r := range readings {
		if r.StationID == "" {
			continue
		}
		if _, ok := seen[r.StationID]; ok {
			continue
		}
		seen[r.StationID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// IndexByStation maps each station id to its first-seen reading.
func IndexByStation(readings []Reading) map[string]Reading {
	latest := LatestPerStation(readings)
	out := make(map[string]Reading, len(latest))
	for _, r := range latest {
		out[r.StationID] = r
	}
	return out
}

// FilterByStation returns the readings for one station in their original order.
func FilterByStation(readings []Reading, stationID string) []Reading {
	out := make([]Reading, 0)
	for _, r := range readings {
		if r.StationID == stationID {
			out = append(out, r)
		}
	}
	return out
}

// Latest returns the first reading, which is the most recent in API order.
func Latest(readings []Reading) (Reading, bool) {
	if len(readings) == 0 {
		return Reading{}, false
	}
	return readings[0], true
}
