package analysis

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"trainload/internal/geo"
)

// ErrUnknownSegmentMode is returned by ParseSegmentMode
var ErrUnknownSegmentMode = errors.New("unknown segment mode")

// SegmentMode selects how a track is split
type SegmentMode string

const (
	SegmentByDistance SegmentMode = "distance"
	SegmentByTime     SegmentMode = "time"
)

// ParseSegmentMode converts "distance" or "time" to a SegmentMode
func ParseSegmentMode(s string) (SegmentMode, error) {
	switch SegmentMode(s) {
	case SegmentByDistance, SegmentByTime:
		return SegmentMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSegmentMode, s)
}

// SegmentOptions configures SplitSegments
type SegmentOptions struct {
	Mode                 SegmentMode
	TargetDistanceMeters float64
	FixedDurationSeconds float64
	// MinTrailingFraction is the share of the target a trailing partial
	// segment must cover to be kept.
	MinTrailingFraction float64
	// NoiseFloorMeters is the minimum distance of a trailing partial segment.
	NoiseFloorMeters float64
}

// DefaultSegmentOptions splits by kilometer
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		Mode:                 SegmentByDistance,
		TargetDistanceMeters: 1000,
		FixedDurationSeconds: 300,
		MinTrailingFraction:  0.10,
		NoiseFloorMeters:     50,
	}
}

// Segment is one split of a track
type Segment struct {
	Index               int       `json:"index"`
	StartIndex          int       `json:"start_index"`
	EndIndex            int       `json:"end_index"`
	DistanceMeters      float64   `json:"distance_meters"`
	DurationSeconds     float64   `json:"duration_seconds"`
	AvgSpeedMps         float64   `json:"avg_speed_mps"`
	AvgHeartRate        *float64  `json:"avg_heart_rate"`
	ElevationGainMeters float64   `json:"elevation_gain_meters"`
	ElevationLossMeters float64   `json:"elevation_loss_meters"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	// PaceSecPerKm is 0 when the segment has no speed
	PaceSecPerKm float64 `json:"pace_sec_per_km"`
}

// SplitSegments walks the track and emits a segment each time the
// accumulated distance (or duration in time mode) reaches the target.
// Consecutive segments share their boundary point.
func SplitSegments(points []GpsPoint, heartRate TimeSeries, opts SegmentOptions) []Segment {
	if len(points) < 2 {
		return nil
	}

	var segments []Segment
	var start int
	var distance, duration, gain, loss float64

	lastCoord := -1
	if points[0].HasCoords() {
		lastCoord = 0
	}
	lastAltitude := points[0].Altitude

	emit := func(end int) {
		segments = append(segments, buildSegment(len(segments), start, end, points, heartRate, distance, duration, gain, loss))
		start = end
		distance, duration, gain, loss = 0, 0, 0, 0
	}

	for i := 1; i < len(points); i++ {
		p, prev := points[i], points[i-1]

		if p.HasCoords() {
			if lastCoord >= 0 {
				c := points[lastCoord]
				distance += geo.HaversineDistanceMeters(*c.Lat, *c.Lon, *p.Lat, *p.Lon)
			}
			lastCoord = i
		}

		if p.HasTime() && prev.HasTime() {
			if d := p.Timestamp.Sub(prev.Timestamp).Seconds(); d > 0 {
				duration += d
			}
		}

		if p.Altitude != nil {
			if lastAltitude != nil {
				if delta := *p.Altitude - *lastAltitude; delta > 0 {
					gain += delta
				} else {
					loss -= delta
				}
			}
			lastAltitude = p.Altitude
		}

		if reachedTarget(opts, distance, duration) {
			emit(i)
		}
	}

	if start < len(points)-1 {
		covered := distance / opts.TargetDistanceMeters
		if opts.Mode == SegmentByTime {
			covered = duration / opts.FixedDurationSeconds
		}
		if (covered > opts.MinTrailingFraction || len(segments) == 0) && distance > opts.NoiseFloorMeters {
			emit(len(points) - 1)
		}
	}

	return segments
}

func reachedTarget(opts SegmentOptions, distance, duration float64) bool {
	if opts.Mode == SegmentByTime {
		return duration >= opts.FixedDurationSeconds
	}
	return distance >= opts.TargetDistanceMeters
}

func buildSegment(index, start, end int, points []GpsPoint, heartRate TimeSeries, distance, duration, gain, loss float64) Segment {
	seg := Segment{
		Index:               index,
		StartIndex:          start,
		EndIndex:            end,
		DistanceMeters:      distance,
		DurationSeconds:     duration,
		ElevationGainMeters: gain,
		ElevationLossMeters: loss,
		StartTime:           points[start].Timestamp,
		EndTime:             points[end].Timestamp,
	}
	if duration > 0 {
		seg.AvgSpeedMps = distance / duration
	}
	if seg.AvgSpeedMps > 0 {
		seg.PaceSecPerKm = 1000 / seg.AvgSpeedMps
	}
	if points[start].HasTime() && points[end].HasTime() {
		seg.AvgHeartRate = averageBetween(heartRate, seg.StartTime, seg.EndTime)
	}
	return seg
}

// averageBetween averages the readings whose timestamp lies in [from, to].
// Timestamps must be sorted.
func averageBetween(s TimeSeries, from, to time.Time) *float64 {
	n := s.Len()
	i := sort.Search(n, func(i int) bool { return !s.Timestamps[i].Before(from) })

	var sum float64
	count := 0
	for ; i < n && !s.Timestamps[i].After(to); i++ {
		if v := s.Values[i]; v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

// FastestSegment returns the segment with the lowest non-zero pace
func FastestSegment(segments []Segment) (Segment, bool) {
	var best Segment
	found := false
	for _, s := range segments {
		if s.PaceSecPerKm <= 0 {
			continue
		}
		if !found || s.PaceSecPerKm < best.PaceSecPerKm {
			best = s
			found = true
		}
	}
	return best, found
}

// SlowestSegment returns the segment with the highest pace
func SlowestSegment(segments []Segment) (Segment, bool) {
	if len(segments) == 0 {
		return Segment{}, false
	}
	best := segments[0]
	for _, s := range segments[1:] {
		if s.PaceSecPerKm > best.PaceSecPerKm {
			best = s
		}
	}
	return best, true
}
