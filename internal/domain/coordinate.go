package domain

import "math"

// Immutable geographic coordinate (latitude, longitude).
type Coordinate struct {
	Lat float64
	Lng float64
}

// Valid reports whether both components are finite and within
// the usual latitude/longitude ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return false
	}
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Return the coordinate as "lng,lat" ordering for routing-engine
// API compatibility.
func (c Coordinate) LngLatList() []float64 { return []float64{c.Lng, c.Lat} }
