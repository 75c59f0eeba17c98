package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func seedStats(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	run := sampleWorkout("run", baseTime)
	run.TotalCalories = intPtr(600)
	run.MaxSpeedMps = floatPtr(5.5)
	run.ElevationGainMeters = floatPtr(120)

	long := sampleWorkout("long", baseTime.AddDate(0, 0, 3))
	long.DistanceMeters = 21100
	long.DurationSeconds = 7200
	long.TotalCalories = intPtr(1400)
	long.MaxHeartRate = floatPtr(181)

	yoga := sampleWorkout("yoga", baseTime.AddDate(0, 0, 5))
	yoga.WorkoutType = "yoga"
	yoga.DistanceMeters = 500
	yoga.DurationSeconds = 1800
	yoga.AvgHeartRate = nil
	yoga.MaxHeartRate = nil

	untyped := sampleWorkout("untyped", baseTime.AddDate(0, 0, 6))
	untyped.WorkoutType = ""
	untyped.DistanceMeters = 0
	untyped.DurationSeconds = 600

	for _, w := range []*Workout{run, long, yoga, untyped} {
		_, err := s.InsertWorkout(ctx, w)
		require.NoError(t, err)
	}
}

func TestTotals(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	empty, err := s.Totals(ctx, TotalsFilter{})
	require.NoError(t, err)
	assert.Equal(t, Totals{}, empty)

	seedStats(t, s)

	all, err := s.Totals(ctx, TotalsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Workouts)
	assert.InDelta(t, 31600, all.DistanceMeters, 1e-9)
	assert.Equal(t, 3600+7200+1800+600, all.DurationSeconds)
	assert.Equal(t, 2000, all.Calories)

	recent, err := s.Totals(ctx, TotalsFilter{Since: baseTime.AddDate(0, 0, 3), SkipNonDistance: true})
	require.NoError(t, err)
	assert.Equal(t, 3, recent.Workouts)
	assert.InDelta(t, 21100, recent.DistanceMeters, 1e-9, "yoga distance is skipped")
	assert.Equal(t, 7200+1800+600, recent.DurationSeconds)
}

func TestActivities(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedStats(t, s)

	all, err := s.Activities(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "running", all[0].WorkoutType)
	assert.True(t, all[0].StartTime.Equal(baseTime))
	require.NotNil(t, all[0].AvgHeartRate)
	assert.Nil(t, all[2].AvgHeartRate)
	assert.Equal(t, "", all[3].WorkoutType)

	since, err := s.Activities(ctx, baseTime.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.Len(t, since, 2)
	assert.Equal(t, "yoga", since[0].WorkoutType)
}

func TestPersonalRecords(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	none, err := s.PersonalRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, &PersonalRecords{}, none)

	seedStats(t, s)
	records, err := s.PersonalRecords(ctx)
	require.NoError(t, err)

	require.NotNil(t, records.LongestDistance)
	assert.Equal(t, 21100.0, records.LongestDistance.Value)
	assert.True(t, records.LongestDistance.StartTime.Equal(baseTime.AddDate(0, 0, 3)))
	assert.Equal(t, "Morning Run", records.LongestDistance.Name)

	require.NotNil(t, records.LongestDuration)
	assert.Equal(t, 7200.0, records.LongestDuration.Value)
	require.NotNil(t, records.HighestHeartRate)
	assert.Equal(t, 181.0, records.HighestHeartRate.Value)
	require.NotNil(t, records.FastestSpeed)
	assert.Equal(t, 5.5, records.FastestSpeed.Value)
	require.NotNil(t, records.MostClimbing)
	assert.Equal(t, 120.0, records.MostClimbing.Value)
	require.NotNil(t, records.MostCalories)
	assert.Equal(t, 1400.0, records.MostCalories.Value)
	assert.Equal(t, records.LongestDistance.WorkoutID, records.MostCalories.WorkoutID)
}

func TestPersonalRecordsTieGoesToEarlier(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	later, err := s.InsertWorkout(ctx, sampleWorkout("later", baseTime.AddDate(0, 0, 1)))
	require.NoError(t, err)
	earlier, err := s.InsertWorkout(ctx, sampleWorkout("earlier", baseTime))
	require.NoError(t, err)
	require.NotEqual(t, later, earlier)

	records, err := s.PersonalRecords(ctx)
	require.NoError(t, err)
	require.NotNil(t, records.LongestDistance)
	assert.Equal(t, earlier, records.LongestDistance.WorkoutID)
}

func TestActivityBreakdown(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	seedStats(t, s)

	breakdown, err := s.ActivityBreakdown(ctx)
	require.NoError(t, err)

	assert.Equal(t, []TypeCount{
		{WorkoutType: "running", Count: 2},
		{WorkoutType: UnknownWorkoutType, Count: 1},
		{WorkoutType: "yoga", Count: 1},
	}, breakdown)
}
