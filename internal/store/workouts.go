package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"trainload/internal/analysis"
)

const workoutColumns = `id, file_hash, filename, name, tags, workout_type, start_time, end_time,
	duration_seconds, distance_meters, total_calories, avg_heart_rate, max_heart_rate,
	avg_speed_mps, max_speed_mps, elevation_gain_meters, elevation_loss_meters`

// ListOptions filters and pages ListWorkouts
type ListOptions struct {
	Limit       int    // 0 means no limit
	Offset      int
	WorkoutType string // empty matches every type
}

// InsertWorkout stores a new workout together with its GPS and chart blobs
// and returns the assigned ID.
func (s *Store) InsertWorkout(ctx context.Context, w *Workout) (int64, error) {
	exists, err := s.WorkoutExists(ctx, w.FileHash)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateWorkout, w.FileHash)
	}

	gps, err := encodeGPS(w.GPS)
	if err != nil {
		return 0, err
	}
	chart, err := encodeChart(w.Chart)
	if err != nil {
		return 0, err
	}

	var endTime *string
	if w.EndTime != nil {
		formatted := formatTime(*w.EndTime)
		endTime = &formatted
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO workouts (
			file_hash, filename, name, tags, workout_type, start_time, end_time,
			duration_seconds, distance_meters, total_calories, avg_heart_rate, max_heart_rate,
			avg_speed_mps, max_speed_mps, elevation_gain_meters, elevation_loss_meters,
			gps_data, chart_data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		w.FileHash, w.Filename, nullString(w.Name), nullString(w.Tags), nullString(w.WorkoutType),
		formatTime(w.StartTime), endTime,
		w.DurationSeconds, w.DistanceMeters, w.TotalCalories, w.AvgHeartRate, w.MaxHeartRate,
		w.AvgSpeedMps, w.MaxSpeedMps, w.ElevationGainMeters, w.ElevationLossMeters,
		gps, chart,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting workout: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	w.ID = id
	return id, nil
}

// WorkoutExists reports whether a workout with the given file hash is stored
func (s *Store) WorkoutExists(ctx context.Context, fileHash string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workouts WHERE file_hash = ?", fileHash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetWorkout retrieves a workout by ID including its GPS and chart data
func (s *Store) GetWorkout(ctx context.Context, id int64) (*Workout, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+workoutColumns+`, gps_data, chart_data
		FROM workouts
		WHERE id = ?
	`, id)

	var gps, chart sql.NullString
	w, err := scanWorkout(row.Scan, &gps, &chart)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	if w.GPS, err = decodeGPS(gps.String); err != nil {
		return nil, fmt.Errorf("workout %d: %w", id, err)
	}
	if w.Chart, err = decodeChart(chart.String); err != nil {
		return nil, fmt.Errorf("workout %d: %w", id, err)
	}

	return w, nil
}

// ListWorkouts returns workouts ordered by start time descending
func (s *Store) ListWorkouts(ctx context.Context, opts ListOptions) ([]Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts`
	var args []any
	if opts.WorkoutType != "" {
		query += ` WHERE workout_type = ?`
		args = append(args, opts.WorkoutType)
	}
	query += ` ORDER BY start_time DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		w, err := scanWorkout(rows.Scan)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}

	return workouts, rows.Err()
}

// CountWorkouts returns the number of stored workouts, optionally of one type
func (s *Store) CountWorkouts(ctx context.Context, workoutType string) (int, error) {
	var count int
	var err error
	if workoutType == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workouts").Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workouts WHERE workout_type = ?", workoutType).Scan(&count)
	}
	return count, err
}

// Summaries returns the training load input for every workout with a start
// time, oldest first.
func (s *Store) Summaries(ctx context.Context) ([]analysis.WorkoutSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_time, duration_seconds, avg_heart_rate
		FROM workouts
		WHERE start_time IS NOT NULL
		ORDER BY start_time
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []analysis.WorkoutSummary
	for rows.Next() {
		var ws analysis.WorkoutSummary
		var start string
		var duration sql.NullInt64
		if err := rows.Scan(&ws.ID, &start, &duration, &ws.AvgHeartRate); err != nil {
			return nil, err
		}
		if ws.StartTime, err = parseTime(start); err != nil {
			return nil, fmt.Errorf("workout %d: %w", ws.ID, err)
		}
		ws.DurationSeconds = int(duration.Int64)
		summaries = append(summaries, ws)
	}

	return summaries, rows.Err()
}

// DeleteWorkout removes a workout
func (s *Store) DeleteWorkout(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM workouts WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// RenameWorkout changes a workout's display name
func (s *Store) RenameWorkout(ctx context.Context, id int64, name string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE workouts
		SET name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, name, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// scanWorkout scans the workoutColumns followed by any extra destinations
func scanWorkout(scan func(dest ...any) error, extra ...any) (*Workout, error) {
	var w Workout
	var name, tags, workoutType, start, end sql.NullString
	var duration sql.NullInt64
	var distance sql.NullFloat64

	dest := []any{
		&w.ID, &w.FileHash, &w.Filename, &name, &tags, &workoutType, &start, &end,
		&duration, &distance, &w.TotalCalories, &w.AvgHeartRate, &w.MaxHeartRate,
		&w.AvgSpeedMps, &w.MaxSpeedMps, &w.ElevationGainMeters, &w.ElevationLossMeters,
	}
	if err := scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	w.Name = name.String
	w.Tags = tags.String
	w.WorkoutType = workoutType.String
	w.DurationSeconds = int(duration.Int64)
	w.DistanceMeters = distance.Float64

	var err error
	if start.Valid {
		if w.StartTime, err = parseTime(start.String); err != nil {
			return nil, fmt.Errorf("parsing start_time: %w", err)
		}
	}
	if end.Valid {
		t, err := parseTime(end.String)
		if err != nil {
			return nil, fmt.Errorf("parsing end_time: %w", err)
		}
		w.EndTime = &t
	}

	return &w, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// formatTime stores instants in UTC so string order is chronological
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
