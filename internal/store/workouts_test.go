package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainload/internal/analysis"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func floatPtr(v float64) *float64 { return &v }

var baseTime = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func sampleWorkout(hash string, start time.Time) *Workout {
	end := start.Add(time.Hour)
	return &Workout{
		FileHash:        hash,
		Filename:        hash + ".fit",
		Name:            "Morning Run",
		WorkoutType:     "running",
		StartTime:       start,
		EndTime:         &end,
		DurationSeconds: 3600,
		DistanceMeters:  10000,
		AvgHeartRate:    floatPtr(150),
		MaxHeartRate:    floatPtr(172),
	}
}

func TestInsertAndGetWorkout(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	w := sampleWorkout("abc", baseTime)
	w.GPS = []analysis.GpsPoint{
		{Timestamp: baseTime, Lat: floatPtr(51.5), Lon: floatPtr(-0.12), Altitude: floatPtr(20)},
		{Lat: floatPtr(51.501), Lon: floatPtr(-0.12)},
	}
	w.Chart = &analysis.ChartData{
		Timestamps: []time.Time{baseTime, baseTime.Add(time.Second)},
		HeartRate:  []*float64{floatPtr(140), nil},
		Speed:      []*float64{floatPtr(3.1), floatPtr(3.2)},
	}

	id, err := s.InsertWorkout(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, id, w.ID)

	got, err := s.GetWorkout(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "Morning Run", got.Name)
	assert.Equal(t, "running", got.WorkoutType)
	assert.True(t, got.StartTime.Equal(baseTime))
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.Equal(baseTime.Add(time.Hour)))
	assert.Equal(t, 3600, got.DurationSeconds)
	require.NotNil(t, got.AvgHeartRate)
	assert.Equal(t, 150.0, *got.AvgHeartRate)
	assert.Nil(t, got.AvgSpeedMps)

	require.Len(t, got.GPS, 2)
	assert.True(t, got.GPS[0].Timestamp.Equal(baseTime))
	assert.Equal(t, 20.0, *got.GPS[0].Altitude)
	assert.False(t, got.GPS[1].HasTime())
	assert.Nil(t, got.GPS[1].Altitude)

	require.NotNil(t, got.Chart)
	require.Len(t, got.Chart.HeartRate, 2)
	assert.Equal(t, 140.0, *got.Chart.HeartRate[0])
	assert.Nil(t, got.Chart.HeartRate[1])
	assert.Nil(t, got.Chart.Power)
}

func TestGetWorkoutNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetWorkout(context.Background(), 42)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	_, err = s.GetGPS(context.Background(), 42)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	_, err = s.GetChartData(context.Background(), 42)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestInsertDuplicateHash(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.InsertWorkout(ctx, sampleWorkout("dup", baseTime))
	require.NoError(t, err)

	_, err = s.InsertWorkout(ctx, sampleWorkout("dup", baseTime.Add(time.Hour)))
	assert.ErrorIs(t, err, ErrDuplicateWorkout)

	exists, err := s.WorkoutExists(ctx, "dup")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWorkoutWithoutBlobs(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	w := sampleWorkout("bare", baseTime)
	w.EndTime = nil
	w.AvgHeartRate = nil
	id, err := s.InsertWorkout(ctx, w)
	require.NoError(t, err)

	got, err := s.GetWorkout(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.GPS)
	assert.Nil(t, got.Chart)
	assert.Nil(t, got.EndTime)
	assert.Nil(t, got.AvgHeartRate)

	gps, err := s.GetGPS(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, gps)

	chart, err := s.GetChartData(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, chart)
}

func TestListWorkouts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i, hash := range []string{"a", "b", "c"} {
		w := sampleWorkout(hash, baseTime.AddDate(0, 0, i))
		if hash == "b" {
			w.WorkoutType = "cycling"
		}
		_, err := s.InsertWorkout(ctx, w)
		require.NoError(t, err)
	}

	all, err := s.ListWorkouts(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].FileHash, "newest first")
	assert.Equal(t, "a", all[2].FileHash)
	assert.Nil(t, all[0].GPS)

	page, err := s.ListWorkouts(ctx, ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].FileHash)

	cycling, err := s.ListWorkouts(ctx, ListOptions{WorkoutType: "cycling"})
	require.NoError(t, err)
	require.Len(t, cycling, 1)
	assert.Equal(t, "b", cycling[0].FileHash)

	count, err := s.CountWorkouts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = s.CountWorkouts(ctx, "running")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSummaries(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	later := sampleWorkout("later", baseTime.AddDate(0, 0, 2))
	earlier := sampleWorkout("earlier", baseTime)
	earlier.AvgHeartRate = nil
	earlier.DurationSeconds = 1800

	_, err := s.InsertWorkout(ctx, later)
	require.NoError(t, err)
	_, err = s.InsertWorkout(ctx, earlier)
	require.NoError(t, err)

	summaries, err := s.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, earlier.ID, summaries[0].ID, "oldest first")
	assert.True(t, summaries[0].StartTime.Equal(baseTime))
	assert.Equal(t, 1800, summaries[0].DurationSeconds)
	assert.Nil(t, summaries[0].AvgHeartRate)

	require.NotNil(t, summaries[1].AvgHeartRate)
	assert.Equal(t, 150.0, *summaries[1].AvgHeartRate)
	assert.Equal(t, later.Summary(), analysis.WorkoutSummary{
		ID:              later.ID,
		StartTime:       later.StartTime,
		DurationSeconds: 3600,
		AvgHeartRate:    later.AvgHeartRate,
	})
}

func TestSummariesConvertOffsetsToUTC(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tokyo := time.FixedZone("JST", 9*3600)
	w := sampleWorkout("tz", time.Date(2024, 6, 2, 6, 0, 0, 0, tokyo))
	_, err := s.InsertWorkout(ctx, w)
	require.NoError(t, err)

	summaries, err := s.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].StartTime.Equal(w.StartTime))
	assert.Equal(t, time.UTC, summaries[0].StartTime.Location())
}

func TestRenameAndDeleteWorkout(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.InsertWorkout(ctx, sampleWorkout("x", baseTime))
	require.NoError(t, err)

	require.NoError(t, s.RenameWorkout(ctx, id, "Long Run"))
	got, err := s.GetWorkout(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Long Run", got.Name)

	require.NoError(t, s.DeleteWorkout(ctx, id))
	assert.ErrorIs(t, s.DeleteWorkout(ctx, id), ErrWorkoutNotFound)
	assert.ErrorIs(t, s.RenameWorkout(ctx, id, "gone"), ErrWorkoutNotFound)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-06-01T08:00:00Z", baseTime},
		{"2024-06-01T10:00:00+02:00", baseTime},
		{"2024-06-01 08:00:00", baseTime},
		{"2024-06-01T08:00:00.500Z", baseTime.Add(500 * time.Millisecond)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTime(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v", got)
		})
	}

	_, err := parseTime("yesterday")
	assert.Error(t, err)
}
