package analysis

import (
	"math"
	"time"

	"trainload/internal/geo"
)

// ElevationOptions tunes grade smoothing and sustained grade detection
type ElevationOptions struct {
	SmoothingRadius      int     // samples on each side of the centered moving average
	MinGradeWindowMeters float64 // shortest span ever used for sustained grade
	GradeWindowMeters    float64 // span over which sustained grade is measured
}

// DefaultElevationOptions returns radius 5 smoothing and a 30/100 m grade window
func DefaultElevationOptions() ElevationOptions {
	return ElevationOptions{
		SmoothingRadius:      5,
		MinGradeWindowMeters: 30,
		GradeWindowMeters:    100,
	}
}

// ElevationPoint is one retained sample of the elevation profile
type ElevationPoint struct {
	Index          int       `json:"index"` // position in the input track
	Timestamp      time.Time `json:"timestamp"`
	DistanceMeters float64   `json:"distance_meters"`
	Altitude       float64   `json:"altitude"`
	RawGrade       float64   `json:"raw_grade"`
	Grade          float64   `json:"grade"` // smoothed, percent
}

// ElevationStats summarises an elevation profile
type ElevationStats struct {
	MinAltitude       float64 `json:"min_altitude"`
	MaxAltitude       float64 `json:"max_altitude"`
	TotalGain         float64 `json:"total_gain"`
	TotalLoss         float64 `json:"total_loss"`
	AvgGrade          float64 `json:"avg_grade"`
	MaxSustainedGrade float64 `json:"max_sustained_grade"`
	AxisMin           float64 `json:"axis_min"`
	AxisMax           float64 `json:"axis_max"`
}

// ElevationProfile is the result of AnalyzeElevation
type ElevationProfile struct {
	Points []ElevationPoint `json:"points"`
	Stats  ElevationStats   `json:"stats"`
}

// Empty reports whether the track had no usable elevation data
func (p ElevationProfile) Empty() bool {
	return len(p.Points) == 0
}

// AnalyzeElevation builds the distance/altitude/grade profile of a track.
// Fewer than two points with altitude yields an empty profile.
func AnalyzeElevation(points []GpsPoint, opts ElevationOptions) ElevationProfile {
	withAltitude := 0
	for _, p := range points {
		if p.Altitude != nil {
			withAltitude++
		}
	}
	if withAltitude < 2 {
		return ElevationProfile{}
	}

	profile := make([]ElevationPoint, 0, withAltitude)
	var distance float64
	lastCoord := -1
	for i, p := range points {
		if p.HasCoords() {
			if lastCoord >= 0 {
				prev := points[lastCoord]
				distance += geo.HaversineDistanceMeters(*prev.Lat, *prev.Lon, *p.Lat, *p.Lon)
			}
			lastCoord = i
		}
		if p.Altitude == nil {
			continue
		}

		ep := ElevationPoint{
			Index:          i,
			Timestamp:      p.Timestamp,
			DistanceMeters: distance,
			Altitude:       *p.Altitude,
		}
		if len(profile) > 0 {
			prev := profile[len(profile)-1]
			ep.RawGrade = grade(ep.Altitude-prev.Altitude, ep.DistanceMeters-prev.DistanceMeters)
		}
		profile = append(profile, ep)
	}

	smoothGrades(profile, opts.SmoothingRadius)

	return ElevationProfile{
		Points: profile,
		Stats:  elevationStats(profile, opts),
	}
}

// ElevationAxis returns padded chart bounds for an altitude range, rounded
// outward to a step that grows with the range.
func ElevationAxis(minAltitude, maxAltitude float64) (lo, hi float64) {
	altRange := maxAltitude - minAltitude
	padding := math.Max(20, math.Round(altRange*0.15))

	step := 10.0
	switch {
	case altRange > 300:
		step = 50
	case altRange > 120:
		step = 25
	}

	lo = math.Floor((minAltitude-padding)/step) * step
	hi = math.Ceil((maxAltitude+padding)/step) * step
	return lo, hi
}

// grade returns rise over run in percent, 0 when run is 0
func grade(rise, run float64) float64 {
	if run == 0 {
		return 0
	}
	return rise / run * 100
}

// smoothGrades fills Grade with a centered moving average of RawGrade,
// clamped at both ends of the sequence.
func smoothGrades(points []ElevationPoint, radius int) {
	radius = max(radius, 0)
	for i := range points {
		lo := max(i-radius, 0)
		hi := min(i+radius, len(points)-1)
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += points[j].RawGrade
		}
		points[i].Grade = sum / float64(hi-lo+1)
	}
}

func elevationStats(points []ElevationPoint, opts ElevationOptions) ElevationStats {
	minAlt, maxAlt := points[0].Altitude, points[0].Altitude
	var gain, loss, gradeSum float64
	for i, p := range points {
		minAlt = math.Min(minAlt, p.Altitude)
		maxAlt = math.Max(maxAlt, p.Altitude)
		gradeSum += p.Grade
		if i == 0 {
			continue
		}
		if delta := p.Altitude - points[i-1].Altitude; delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}

	stats := ElevationStats{
		MinAltitude:       math.Round(minAlt),
		MaxAltitude:       math.Round(maxAlt),
		TotalGain:         math.Round(gain),
		TotalLoss:         math.Round(loss),
		AvgGrade:          gradeSum / float64(len(points)),
		MaxSustainedGrade: maxSustainedGrade(points, opts.MinGradeWindowMeters, opts.GradeWindowMeters),
	}
	stats.AxisMin, stats.AxisMax = ElevationAxis(stats.MinAltitude, stats.MaxAltitude)
	return stats
}

// maxSustainedGrade returns the steepest absolute grade measured over spans
// starting at each retained point and ending at the first point at least
// window meters further on. A track shorter than window falls back to its
// full span when that reaches minWindow.
func maxSustainedGrade(points []ElevationPoint, minWindow, window float64) float64 {
	var best float64
	found := false

outer:
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			run := points[j].DistanceMeters - points[i].DistanceMeters
			if run < window {
				continue
			}
			found = true
			best = math.Max(best, math.Abs(grade(points[j].Altitude-points[i].Altitude, run)))
			continue outer
		}
		// No later start can reach the window either.
		break
	}

	if !found {
		first, last := points[0], points[len(points)-1]
		run := last.DistanceMeters - first.DistanceMeters
		if run >= minWindow && run > 0 {
			best = math.Abs(grade(last.Altitude-first.Altitude, run))
		}
	}
	return best
}
