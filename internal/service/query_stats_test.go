package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainload/internal/store"
)

// seedHistory stores runs on May 20 and June 28-30, yoga on June 15 and an
// untyped workout on the afternoon of June 30. It returns the May run's ID.
func seedHistory(t *testing.T, db *store.Store) int64 {
	t.Helper()
	first := insertRun(t, db, "may", time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC), floatPtr(150))
	for d := 28; d <= 30; d++ {
		insertRun(t, db, fmt.Sprintf("june%d", d), time.Date(2024, 6, d, 8, 0, 0, 0, time.UTC), floatPtr(150))
	}

	for _, w := range []*store.Workout{
		{FileHash: "yoga", Filename: "yoga.fit", WorkoutType: "yoga", StartTime: time.Date(2024, 6, 15, 7, 0, 0, 0, time.UTC), DurationSeconds: 1800, DistanceMeters: 500},
		{FileHash: "misc", Filename: "misc.fit", StartTime: time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC), DurationSeconds: 600},
	} {
		_, err := db.InsertWorkout(context.Background(), w)
		require.NoError(t, err)
	}
	return first
}

func TestOverview(t *testing.T) {
	q, db := newTestService(t)
	mayID := seedHistory(t, db)

	o, err := q.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, o.AllTime.Workouts)
	assert.InDelta(t, 40500, o.AllTime.DistanceMeters, 1e-9)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), o.Month.Month)
	assert.Equal(t, 5, o.Month.Workouts)
	assert.InDelta(t, 30000, o.Month.DistanceMeters, 1e-9, "yoga distance is not counted")
	assert.Equal(t, 3*3600+1800+600, o.Month.DurationSeconds)

	assert.Equal(t, 3, o.Streak.Current)
	assert.Equal(t, 5, o.Streak.ActiveDays)
	require.NotNil(t, o.Streak.LastActive)
	assert.True(t, o.Streak.LastActive.Equal(time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)))

	require.NotNil(t, o.Records.LongestDistance)
	assert.Equal(t, mayID, o.Records.LongestDistance.WorkoutID)

	assert.Equal(t, []store.TypeCount{
		{WorkoutType: "running", Count: 4},
		{WorkoutType: store.UnknownWorkoutType, Count: 1},
		{WorkoutType: "yoga", Count: 1},
	}, o.Breakdown)
}

func TestOverviewEmpty(t *testing.T) {
	q, _ := newTestService(t)

	o, err := q.Overview(context.Background())
	require.NoError(t, err)

	assert.Zero(t, o.AllTime.Workouts)
	assert.Zero(t, o.Streak.Current)
	assert.Nil(t, o.Streak.LastActive)
	assert.Nil(t, o.Records.LongestDistance)
	assert.Empty(t, o.Breakdown)
	assert.NotNil(t, o.Breakdown)
}

func TestStreakUsesCalendar(t *testing.T) {
	q, db := newTestService(t)
	// 23:30 UTC on the 29th is already the 30th in Tokyo
	insertRun(t, db, "late", time.Date(2024, 6, 29, 23, 30, 0, 0, time.UTC), floatPtr(150))
	insertRun(t, db, "early", time.Date(2024, 6, 28, 8, 0, 0, 0, time.UTC), floatPtr(150))

	s, err := q.Streak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Current)

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	q.settings.Calendar.Location = tokyo

	// June 28 and June 30 local, with June 29 empty
	s, err = q.Streak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Current)
}

func TestWeeklySummary(t *testing.T) {
	q, db := newTestService(t)
	seedHistory(t, db)

	weeks, err := q.WeeklySummary(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, weeks, 2)

	assert.Equal(t, time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC), weeks[0].WeekStart)
	assert.Equal(t, "2024-W25", weeks[0].Label)
	assert.Zero(t, weeks[0].Workouts)

	assert.Equal(t, "2024-W26", weeks[1].Label)
	assert.Equal(t, 4, weeks[1].Workouts)
	assert.InDelta(t, 30000, weeks[1].DistanceMeters, 1e-9)
	assert.Equal(t, 3*3600+600, weeks[1].DurationSeconds)
	assert.Equal(t, 144.0, weeks[1].TSS) // three runs at 48

	weeks, err = q.WeeklySummary(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, weeks, DefaultSummaryWeeks)

	_, err = q.WeeklySummary(context.Background(), MaxSummaryWeeks+1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestContributionCalendar(t *testing.T) {
	q, db := newTestService(t)
	seedHistory(t, db)

	days, err := q.ContributionCalendar(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, days, 4)

	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Equal(t, []string{"yoga"}, days[0].WorkoutTypes)
	assert.Equal(t, 2, days[3].Count)
	assert.Equal(t, []string{"running", store.UnknownWorkoutType}, days[3].WorkoutTypes)

	days, err = q.ContributionCalendar(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, days, 5)

	_, err = q.ContributionCalendar(context.Background(), MaxCalendarDays+1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

type failingStatsStore struct {
	WorkoutStore
	err error
}

func (f failingStatsStore) Totals(context.Context, store.TotalsFilter) (store.Totals, error) {
	return store.Totals{}, f.err
}

func (f failingStatsStore) Activities(context.Context, time.Time) ([]store.Activity, error) {
	return nil, f.err
}

func TestStatsStoreError(t *testing.T) {
	boom := errors.New("disk on fire")
	q := NewQueryService(failingStatsStore{err: boom}, DefaultSettings(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := q.Overview(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = q.WeeklySummary(context.Background(), 4)
	assert.ErrorIs(t, err, boom)
	_, err = q.ContributionCalendar(context.Background(), 7)
	assert.ErrorIs(t, err, boom)
}
