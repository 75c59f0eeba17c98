package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trainload/internal/analysis"
)

// GetGPS retrieves only the GPS track of a workout
func (s *Store) GetGPS(ctx context.Context, id int64) ([]analysis.GpsPoint, error) {
	var data sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT gps_data FROM workouts WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeGPS(data.String)
}

// GetChartData retrieves only the sensor series of a workout. It returns
// nil when the workout has none.
func (s *Store) GetChartData(ctx context.Context, id int64) (*analysis.ChartData, error) {
	var data sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT chart_data FROM workouts WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeChart(data.String)
}

func encodeGPS(points []analysis.GpsPoint) (sql.NullString, error) {
	if len(points) == 0 {
		return sql.NullString{}, nil
	}

	records := make([]gpsRecord, len(points))
	for i, p := range points {
		records[i] = gpsRecord{Lat: p.Lat, Lon: p.Lon, Altitude: p.Altitude}
		if p.HasTime() {
			ts := p.Timestamp.UTC().Format(time.RFC3339Nano)
			records[i].Timestamp = &ts
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding gps_data: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeGPS(data string) ([]analysis.GpsPoint, error) {
	if data == "" {
		return nil, nil
	}

	var records []gpsRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, fmt.Errorf("decoding gps_data: %w", err)
	}

	points := make([]analysis.GpsPoint, len(records))
	for i, r := range records {
		points[i] = analysis.GpsPoint{Lat: r.Lat, Lon: r.Lon, Altitude: r.Altitude}
		if r.Timestamp != nil && *r.Timestamp != "" {
			t, err := parseTime(*r.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("decoding gps_data point %d: %w", i, err)
			}
			points[i].Timestamp = t
		}
	}
	return points, nil
}

func encodeChart(chart *analysis.ChartData) (sql.NullString, error) {
	if chart == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(chart)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding chart_data: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeChart(data string) (*analysis.ChartData, error) {
	if data == "" {
		return nil, nil
	}
	var chart analysis.ChartData
	if err := json.Unmarshal([]byte(data), &chart); err != nil {
		return nil, fmt.Errorf("decoding chart_data: %w", err)
	}
	return &chart, nil
}
