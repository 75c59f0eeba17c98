package analysis

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownMetric is returned when a chart metric name is not recognised
var ErrUnknownMetric = errors.New("unknown metric")

// TimeSeries holds chronologically ordered readings as parallel slices.
// A nil value means there was no reading at that instant.
type TimeSeries struct {
	Timestamps []time.Time
	Values     []*float64
}

// Sample is a single reading of a TimeSeries
type Sample struct {
	Time  time.Time
	Value *float64
}

// Len returns the number of complete (timestamp, value) pairs
func (s TimeSeries) Len() int {
	return min(len(s.Timestamps), len(s.Values))
}

// Samples returns the series as a slice of samples
func (s TimeSeries) Samples() []Sample {
	n := s.Len()
	samples := make([]Sample, n)
	for i := 0; i < n; i++ {
		samples[i] = Sample{Time: s.Timestamps[i], Value: s.Values[i]}
	}
	return samples
}

// SeriesFromSamples builds a TimeSeries from individual samples
func SeriesFromSamples(samples []Sample) TimeSeries {
	s := TimeSeries{
		Timestamps: make([]time.Time, len(samples)),
		Values:     make([]*float64, len(samples)),
	}
	for i, sample := range samples {
		s.Timestamps[i] = sample.Time
		s.Values[i] = sample.Value
	}
	return s
}

// GpsPoint is a single recorded track position
type GpsPoint struct {
	Timestamp time.Time // zero when the device did not record one
	Lat       *float64
	Lon       *float64
	Altitude  *float64 // meters
}

// HasCoords reports whether the point can be used for distance
func (p GpsPoint) HasCoords() bool {
	return p.Lat != nil && p.Lon != nil
}

// HasTime reports whether the point carries a timestamp
func (p GpsPoint) HasTime() bool {
	return !p.Timestamp.IsZero()
}

// WorkoutSummary is the per-workout input to the training load engine
type WorkoutSummary struct {
	ID              int64
	StartTime       time.Time
	DurationSeconds int      // 0 when unknown
	AvgHeartRate    *float64 // nil when the workout has no HR data
}

// EndTime returns the start time plus duration
func (w WorkoutSummary) EndTime() time.Time {
	return w.StartTime.Add(time.Duration(w.DurationSeconds) * time.Second)
}

// Metric names a chart series
type Metric string

const (
	MetricHeartRate Metric = "heart_rate"
	MetricSpeed     Metric = "speed"
	MetricPower     Metric = "power"
	MetricCadence   Metric = "cadence"
	MetricAltitude  Metric = "altitude"
)

// Metrics lists every chart series in display order
var Metrics = []Metric{MetricHeartRate, MetricSpeed, MetricPower, MetricCadence, MetricAltitude}

// ChartData holds the per-workout sensor series sharing one timestamp axis
type ChartData struct {
	Timestamps []time.Time `json:"timestamps"`
	HeartRate  []*float64  `json:"heart_rate"`
	Speed      []*float64  `json:"speed"`
	Power      []*float64  `json:"power"`
	Cadence    []*float64  `json:"cadence"`
	Altitude   []*float64  `json:"altitude"`
}

// Series returns one metric as a TimeSeries
func (c ChartData) Series(m Metric) (TimeSeries, error) {
	var values []*float64
	switch m {
	case MetricHeartRate:
		values = c.HeartRate
	case MetricSpeed:
		values = c.Speed
	case MetricPower:
		values = c.Power
	case MetricCadence:
		values = c.Cadence
	case MetricAltitude:
		values = c.Altitude
	default:
		return TimeSeries{}, fmt.Errorf("%w: %q", ErrUnknownMetric, m)
	}
	return TimeSeries{Timestamps: c.Timestamps, Values: values}, nil
}
