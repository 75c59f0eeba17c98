package store

import (
	"time"

	"trainload/internal/analysis"
)

// Workout is a stored workout record. GPS and Chart are only populated by
// GetWorkout; list queries leave them nil.
type Workout struct {
	ID                  int64      `db:"id" json:"id"`
	FileHash            string     `db:"file_hash" json:"file_hash"`
	Filename            string     `db:"filename" json:"filename"`
	Name                string     `db:"name" json:"name,omitempty"`
	Tags                string     `db:"tags" json:"tags,omitempty"` // comma separated
	WorkoutType         string     `db:"workout_type" json:"workout_type,omitempty"`
	StartTime           time.Time  `db:"start_time" json:"start_time"`
	EndTime             *time.Time `db:"end_time" json:"end_time,omitempty"`
	DurationSeconds     int        `db:"duration_seconds" json:"duration_seconds"`
	DistanceMeters      float64    `db:"distance_meters" json:"distance_meters"`
	TotalCalories       *int       `db:"total_calories" json:"total_calories,omitempty"`
	AvgHeartRate        *float64   `db:"avg_heart_rate" json:"avg_heart_rate,omitempty"` // nullable
	MaxHeartRate        *float64   `db:"max_heart_rate" json:"max_heart_rate,omitempty"` // nullable
	AvgSpeedMps         *float64   `db:"avg_speed_mps" json:"avg_speed_mps,omitempty"`
	MaxSpeedMps         *float64   `db:"max_speed_mps" json:"max_speed_mps,omitempty"`
	ElevationGainMeters *float64   `db:"elevation_gain_meters" json:"elevation_gain_meters,omitempty"`
	ElevationLossMeters *float64   `db:"elevation_loss_meters" json:"elevation_loss_meters,omitempty"`

	GPS   []analysis.GpsPoint `db:"gps_data" json:"-"`
	Chart *analysis.ChartData `db:"chart_data" json:"-"`
}

// Summary converts the record to the training load input
func (w *Workout) Summary() analysis.WorkoutSummary {
	return analysis.WorkoutSummary{
		ID:              w.ID,
		StartTime:       w.StartTime,
		DurationSeconds: w.DurationSeconds,
		AvgHeartRate:    w.AvgHeartRate,
	}
}

// gpsRecord is the JSON shape of one entry in gps_data
type gpsRecord struct {
	Timestamp *string  `json:"timestamp"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Altitude  *float64 `json:"altitude"`
}
