package service

import (
	"context"
	"fmt"

	"trainload/internal/analysis"
	"trainload/internal/store"
)

// SegmentReport is a split table with its extremes
type SegmentReport struct {
	Mode     analysis.SegmentMode `json:"mode"`
	Segments []analysis.Segment   `json:"segments"`
	Fastest  *analysis.Segment    `json:"fastest,omitempty"`
	Slowest  *analysis.Segment    `json:"slowest,omitempty"`
}

// WorkoutDetail contains detailed analysis for a single workout
type WorkoutDetail struct {
	Workout        store.Workout             `json:"workout"`
	TSS            *float64                  `json:"tss,omitempty"`
	EstimatedMaxHR float64                   `json:"estimated_max_hr"`
	HRZones        []analysis.ZoneTime       `json:"hr_zones"`
	Elevation      analysis.ElevationProfile `json:"elevation"`
	Segments       SegmentReport             `json:"segments"`
}

// WorkoutDetail runs every per-workout analyzer over one workout
func (q *QueryService) WorkoutDetail(ctx context.Context, id int64) (*WorkoutDetail, error) {
	w, err := q.store.GetWorkout(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading workout %d: %w", id, err)
	}

	detail := &WorkoutDetail{
		Workout:        *w,
		TSS:            q.tss(w),
		EstimatedMaxHR: q.settings.Profile.EstimatedMaxHR(),
		HRZones:        q.zones(w.Chart),
		Elevation:      analysis.AnalyzeElevation(w.GPS, q.settings.Options.Elevation),
		Segments:       q.segments(w.GPS, w.Chart, q.settings.Options.Segments),
	}

	q.logger.Debug("analyzed workout",
		"id", id,
		"gps_points", len(w.GPS),
		"segments", len(detail.Segments.Segments),
	)
	return detail, nil
}

// HRZones returns the time-in-zone distribution of a workout
func (q *QueryService) HRZones(ctx context.Context, id int64) ([]analysis.ZoneTime, error) {
	chart, err := q.store.GetChartData(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading chart data for workout %d: %w", id, err)
	}
	return q.zones(chart), nil
}

// Elevation returns the elevation profile of a workout
func (q *QueryService) Elevation(ctx context.Context, id int64) (*analysis.ElevationProfile, error) {
	gps, err := q.store.GetGPS(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading gps data for workout %d: %w", id, err)
	}
	profile := analysis.AnalyzeElevation(gps, q.settings.Options.Elevation)
	return &profile, nil
}

// Segments splits a workout by distance or time. An empty mode uses the
// configured default.
func (q *QueryService) Segments(ctx context.Context, id int64, mode analysis.SegmentMode) (*SegmentReport, error) {
	opts := q.settings.Options.Segments
	if mode != "" {
		opts.Mode = mode
	}

	gps, err := q.store.GetGPS(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading gps data for workout %d: %w", id, err)
	}
	chart, err := q.store.GetChartData(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading chart data for workout %d: %w", id, err)
	}

	report := q.segments(gps, chart, opts)
	return &report, nil
}

// Chart returns one sensor series of a workout reduced to at most points
// samples. points <= 0 uses the configured chart resolution.
func (q *QueryService) Chart(ctx context.Context, id int64, metric analysis.Metric, points int) (analysis.TimeSeries, error) {
	if points <= 0 {
		points = q.settings.ChartPoints
	}
	if !validMetric(metric) {
		return analysis.TimeSeries{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	chart, err := q.store.GetChartData(ctx, id)
	if err != nil {
		return analysis.TimeSeries{}, fmt.Errorf("loading chart data for workout %d: %w", id, err)
	}
	if chart == nil {
		return analysis.TimeSeries{}, nil
	}

	series, err := chart.Series(metric)
	if err != nil {
		return analysis.TimeSeries{}, err
	}

	reduced := analysis.DownsampleSeries(series, points)
	q.logger.Debug("downsampled chart series",
		"id", id,
		"metric", metric,
		"from", series.Len(),
		"to", reduced.Len(),
	)
	return reduced, nil
}

func validMetric(m analysis.Metric) bool {
	for _, known := range analysis.Metrics {
		if m == known {
			return true
		}
	}
	return false
}

func (q *QueryService) zones(chart *analysis.ChartData) []analysis.ZoneTime {
	var hr analysis.TimeSeries
	if chart != nil {
		hr = analysis.TimeSeries{Timestamps: chart.Timestamps, Values: chart.HeartRate}
	}
	return analysis.TimeInZones(hr, q.settings.Zones, q.settings.Profile.EstimatedMaxHR(), q.settings.Options.Zones)
}

func (q *QueryService) segments(gps []analysis.GpsPoint, chart *analysis.ChartData, opts analysis.SegmentOptions) SegmentReport {
	var hr analysis.TimeSeries
	if chart != nil {
		hr = analysis.TimeSeries{Timestamps: chart.Timestamps, Values: chart.HeartRate}
	}

	report := SegmentReport{Mode: opts.Mode, Segments: analysis.SplitSegments(gps, hr, opts)}
	if s, ok := analysis.FastestSegment(report.Segments); ok {
		report.Fastest = &s
	}
	if s, ok := analysis.SlowestSegment(report.Segments); ok {
		report.Slowest = &s
	}
	return report
}
