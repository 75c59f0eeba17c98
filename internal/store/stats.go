package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// NonDistanceTypes are workout types whose recorded distance is not
// counted by period totals.
var NonDistanceTypes = []string{"generic", "system", "strength_training", "yoga", "training", "fitness_equipment"}

// CountsDistance reports whether a workout type's distance counts toward
// period totals
func CountsDistance(workoutType string) bool {
	return !slices.Contains(NonDistanceTypes, workoutType)
}

// Totals sums workouts over a period
type Totals struct {
	Workouts        int     `json:"workouts"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds int     `json:"duration_seconds"`
	Calories        int     `json:"calories"`
}

// TotalsFilter narrows Totals
type TotalsFilter struct {
	Since           time.Time // zero means all time
	SkipNonDistance bool      // drop the distance of NonDistanceTypes
}

// Activity is the part of a workout needed for calendar views
type Activity struct {
	ID              int64     `json:"id"`
	WorkoutType     string    `json:"workout_type"`
	StartTime       time.Time `json:"start_time"`
	DurationSeconds int       `json:"duration_seconds"`
	DistanceMeters  float64   `json:"distance_meters"`
	AvgHeartRate    *float64  `json:"avg_heart_rate,omitempty"`
}

// Record is the workout holding a personal best
type Record struct {
	WorkoutID int64     `json:"workout_id"`
	Name      string    `json:"name,omitempty"`
	StartTime time.Time `json:"start_time"`
	Value     float64   `json:"value"`
}

// PersonalRecords holds the best value of each summary column; a nil
// entry means no workout records it.
type PersonalRecords struct {
	LongestDistance  *Record `json:"longest_distance,omitempty"`   // meters
	LongestDuration  *Record `json:"longest_duration,omitempty"`   // seconds
	HighestHeartRate *Record `json:"highest_heart_rate,omitempty"` // bpm
	FastestSpeed     *Record `json:"fastest_speed,omitempty"`      // m/s
	MostClimbing     *Record `json:"most_climbing,omitempty"`      // meters
	MostCalories     *Record `json:"most_calories,omitempty"`      // kcal
}

// TypeCount is the number of workouts of one type
type TypeCount struct {
	WorkoutType string `json:"workout_type"`
	Count       int    `json:"count"`
}

// UnknownWorkoutType labels workouts stored without a type
const UnknownWorkoutType = "unknown"

// Totals returns count, distance, duration and calories of the matching
// workouts.
func (s *Store) Totals(ctx context.Context, filter TotalsFilter) (Totals, error) {
	distance := "distance_meters"
	var args []any
	if filter.SkipNonDistance {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(NonDistanceTypes)), ", ")
		distance = "CASE WHEN workout_type IN (" + placeholders + ") THEN 0 ELSE distance_meters END"
		for _, t := range NonDistanceTypes {
			args = append(args, t)
		}
	}

	query := `
		SELECT COUNT(*),
			COALESCE(SUM(` + distance + `), 0),
			COALESCE(SUM(duration_seconds), 0),
			COALESCE(SUM(total_calories), 0)
		FROM workouts`
	if !filter.Since.IsZero() {
		query += ` WHERE start_time >= ?`
		args = append(args, formatTime(filter.Since))
	}

	var t Totals
	var dist float64
	var duration, calories int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&t.Workouts, &dist, &duration, &calories); err != nil {
		return Totals{}, fmt.Errorf("summing workouts: %w", err)
	}
	t.DistanceMeters = dist
	t.DurationSeconds = int(duration)
	t.Calories = int(calories)
	return t, nil
}

// Activities returns every workout that started at or after since, oldest
// first. A zero since returns all workouts with a start time.
func (s *Store) Activities(ctx context.Context, since time.Time) ([]Activity, error) {
	query := `
		SELECT id, workout_type, start_time, duration_seconds, distance_meters, avg_heart_rate
		FROM workouts
		WHERE start_time IS NOT NULL`
	var args []any
	if !since.IsZero() {
		query += ` AND start_time >= ?`
		args = append(args, formatTime(since))
	}
	query += ` ORDER BY start_time`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		var workoutType sql.NullString
		var start string
		var duration sql.NullInt64
		var distance sql.NullFloat64
		if err := rows.Scan(&a.ID, &workoutType, &start, &duration, &distance, &a.AvgHeartRate); err != nil {
			return nil, err
		}
		if a.StartTime, err = parseTime(start); err != nil {
			return nil, fmt.Errorf("workout %d: %w", a.ID, err)
		}
		a.WorkoutType = workoutType.String
		a.DurationSeconds = int(duration.Int64)
		a.DistanceMeters = distance.Float64
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// PersonalRecords finds the workout with the highest value of each record
// column. Ties go to the earlier workout.
func (s *Store) PersonalRecords(ctx context.Context) (*PersonalRecords, error) {
	records := &PersonalRecords{}
	columns := []struct {
		column string
		dest   **Record
	}{
		{"distance_meters", &records.LongestDistance},
		{"duration_seconds", &records.LongestDuration},
		{"max_heart_rate", &records.HighestHeartRate},
		{"max_speed_mps", &records.FastestSpeed},
		{"elevation_gain_meters", &records.MostClimbing},
		{"total_calories", &records.MostCalories},
	}

	for _, c := range columns {
		r, err := s.bestBy(ctx, c.column)
		if err != nil {
			return nil, fmt.Errorf("finding best %s: %w", c.column, err)
		}
		*c.dest = r
	}
	return records, nil
}

// bestBy returns the workout with the largest positive value in column
func (s *Store) bestBy(ctx context.Context, column string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, start_time, `+column+`
		FROM workouts
		WHERE `+column+` > 0 AND start_time IS NOT NULL
		ORDER BY `+column+` DESC, start_time ASC
		LIMIT 1
	`)

	var r Record
	var name sql.NullString
	var start string
	err := row.Scan(&r.WorkoutID, &name, &start, &r.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if r.StartTime, err = parseTime(start); err != nil {
		return nil, fmt.Errorf("workout %d: %w", r.WorkoutID, err)
	}
	r.Name = name.String
	return &r, nil
}

// ActivityBreakdown counts workouts per type, most common first
func (s *Store) ActivityBreakdown(ctx context.Context) ([]TypeCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(workout_type, ''), ?) AS kind, COUNT(*) AS n
		FROM workouts
		GROUP BY kind
		ORDER BY n DESC, kind
	`, UnknownWorkoutType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakdown []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.WorkoutType, &tc.Count); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, tc)
	}

	return breakdown, rows.Err()
}
