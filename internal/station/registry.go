// Package station provides the fixed registry of forecast stations.
package station

import (
	"errors"
	"time"
)

// ErrUnknownStation is returned when a station key is not in the registry.
var ErrUnknownStation = errors.New("unknown station")

// Station describes a forecast location.
type Station struct {
	// Key is the display name and unique registry key.
	Key string

	// Coordinates in decimal degrees.
	Lat float64
	Lon float64

	// Timezone is the IANA zone identifier for civil time at the station.
	Timezone string
}

// Location resolves the station's IANA timezone.
// Falls back to UTC if the zone database does not know the identifier.
func (s Station) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// stations is the fixed set of tracked locations. Keys use the display
// convention of city name plus primary airport code.
var stations = []Station{
	{Key: "伦敦 (LHR)", Lat: 51.4700, Lon: -0.4543, Timezone: "Europe/London"},
	{Key: "纽约 (NYC)", Lat: 40.7128, Lon: -74.0060, Timezone: "America/New_York"},
	{Key: "芝加哥 (ORD)", Lat: 41.9786, Lon: -87.9048, Timezone: "America/Chicago"},
	{Key: "洛杉矶 (LAX)", Lat: 33.9416, Lon: -118.4085, Timezone: "America/Los_Angeles"},
	{Key: "迈阿密 (MIA)", Lat: 25.7933, Lon: -80.2906, Timezone: "America/New_York"},
	{Key: "首尔 (ICN)", Lat: 37.4602, Lon: 126.4407, Timezone: "Asia/Seoul"},
}

// Registry holds the immutable station table, built once at process start.
type Registry struct {
	byKey map[string]Station
	keys  []string
}

// NewRegistry builds the default registry.
func NewRegistry() *Registry {
	return NewRegistryWith(stations)
}

// NewRegistryWith builds a registry from an explicit station table.
// Later duplicates of a key are ignored.
func NewRegistryWith(table []Station) *Registry {
	r := &Registry{
		byKey: make(map[string]Station, len(table)),
		keys:  make([]string, 0, len(table)),
	}
	for _, s := range table {
		if _, ok := r.byKey[s.Key]; ok {
			continue
		}
		r.byKey[s.Key] = s
		r.keys = append(r.keys, s.Key)
	}
	return r
}

// Get returns the station for a display key.
func (r *Registry) Get(key string) (Station, bool) {
	s, ok := r.byKey[key]
	return s, ok
}

// Keys returns the station keys in declaration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Count returns the number of registered stations.
func (r *Registry) Count() int {
	return len(r.keys)
}
