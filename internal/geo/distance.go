package geo

import "github.com/golang/geo/s2"

// EarthRadiusMeters is the mean Earth radius used for all distance calculations
const EarthRadiusMeters = 6371000.0

// HaversineDistanceMeters returns the great-circle distance between two
// coordinates given in degrees. Callers must filter out points without
// coordinates before calling.
func HaversineDistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}
