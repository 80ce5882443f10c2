package domain

import (
	"errors"
	"fmt"
)

// Station is a fixed sensor location.
type Station struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultStations returns the five Balatan monitoring stations.
func DefaultStations() []Station {
	return []Station{
		{ID: "St1", Name: "MDRRMO Office"},
		{ID: "St2", Name: "Luluasan Station"},
		{ID: "St3", Name: "Laganac Station"},
		{ID: "St4", Name: "Mang-it Station"},
		{ID: "St5", Name: "Cabanbanan Station"},
	}
}

// Directory is the read-only station list, in configured order. A nil
// *Directory behaves as an empty directory.
type Directory struct {
	stations []Station
	byID     map[string]int
}

// NewDirectory builds a Directory. Ids must be non-empty and unique.
func NewDirectory(stations []Station) (*Directory, error) {
	d := &Directory{
		stations: make([]Station, 0, len(stations)),
		byID:     make(map[string]int, len(stations)),
	}
	for _, s := range stations {
		if s.ID == "" {
			return nil, errors.New("station id must not be empty")
		}
		if _, dup := d.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate station id %q", s.ID)
		}
		if s.Name == "" {
			s.Name = s.ID
		}
		d.byID[s.ID] = len(d.stations)
		d.stations = append(d.stations, s)
	}
	return d, nil
}

// Len is the number of configured stations.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.stations)
}

// Stations returns a copy of the configured stations.
func (d *Directory) Stations() []Station {
	if d == nil {
		return []Station{}
	}
	out := make([]Station, len(d.stations))
	copy(out, d.stations)
	return out
}

// Lookup finds a station by id.
func (d *Directory) Lookup(id string) (Station, bool) {
	if d == nil {
		return Station{}, false
	}
	i, ok := d.byID[id]
	if !ok {
		return Station{}, false
	}
	return d.stations[i], true
}

// Name returns the display name for a station id, or the id itself when the
// station is not configured.
func (d *Directory) Name(id string) string {
	if s, ok := d.Lookup(id); ok {
		return s.Name
	}
	return id
}
