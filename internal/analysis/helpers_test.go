package analysis

import (
	"math"
	"time"

	"trainload/internal/geo"
)

var testStart = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func floatPtr(f float64) *float64 {
	return &f
}

func intPtr(i int) *int {
	return &i
}

// metersToLat converts a northward distance to degrees of latitude
func metersToLat(m float64) float64 {
	return m / (geo.EarthRadiusMeters * math.Pi / 180)
}

// trackFromDistances builds a northbound track with a point at each
// cumulative distance, sampled every interval seconds.
func trackFromDistances(dists []float64, interval int) []GpsPoint {
	points := make([]GpsPoint, len(dists))
	for i, d := range dists {
		points[i] = GpsPoint{
			Timestamp: testStart.Add(time.Duration(i*interval) * time.Second),
			Lat:       floatPtr(metersToLat(d)),
			Lon:       floatPtr(0),
		}
	}
	return points
}

// evenTrack builds n points step meters apart
func evenTrack(n int, step float64, interval int) []GpsPoint {
	dists := make([]float64, n)
	for i := range dists {
		dists[i] = float64(i) * step
	}
	return trackFromDistances(dists, interval)
}

// withAltitudes sets altitude start + i*step on every point
func withAltitudes(points []GpsPoint, start, step float64) []GpsPoint {
	for i := range points {
		points[i].Altitude = floatPtr(start + float64(i)*step)
	}
	return points
}

// seriesAt builds a TimeSeries from second offsets and optional values
func seriesAt(offsets []int, values []*float64) TimeSeries {
	s := TimeSeries{Values: values}
	for _, o := range offsets {
		s.Timestamps = append(s.Timestamps, testStart.Add(time.Duration(o)*time.Second))
	}
	return s
}
