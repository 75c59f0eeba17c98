package service

import (
	"context"
	"fmt"
	"time"

	"trainload/internal/analysis"
	"trainload/internal/store"
)

// MonthTotals are the totals of the current calendar month
type MonthTotals struct {
	Month time.Time `json:"month"`
	store.Totals
}

// Streak describes consecutive training days
type Streak struct {
	Current    int        `json:"current"`
	ActiveDays int        `json:"active_days"` // trailing ActiveDaysWindow days
	LastActive *time.Time `json:"last_active,omitempty"`
}

// Overview contains everything the stats view shows
type Overview struct {
	AllTime   store.Totals           `json:"all_time"`
	Month     MonthTotals            `json:"month"`
	Streak    Streak                 `json:"streak"`
	Records   *store.PersonalRecords `json:"records"`
	Breakdown []store.TypeCount      `json:"breakdown"`
}

// WeekSummary is one Monday-based training week
type WeekSummary struct {
	WeekStart       time.Time `json:"week_start"`
	Label           string    `json:"label"` // ISO week, e.g. 2024-W26
	Workouts        int       `json:"workouts"`
	DistanceMeters  float64   `json:"distance_meters"`
	DurationSeconds int       `json:"duration_seconds"`
	TSS             float64   `json:"tss"`
}

// ContributionDay is a calendar day with at least one workout
type ContributionDay struct {
	Date         time.Time `json:"date"`
	Count        int       `json:"count"`
	WorkoutTypes []string  `json:"workout_types"` // one per workout, in start order
}

// Overview gathers all-time and monthly totals, the streak, personal records
// and the per-type breakdown.
func (q *QueryService) Overview(ctx context.Context) (*Overview, error) {
	allTime, err := q.Totals(ctx)
	if err != nil {
		return nil, err
	}
	month, err := q.MonthTotals(ctx)
	if err != nil {
		return nil, err
	}
	streak, err := q.Streak(ctx)
	if err != nil {
		return nil, err
	}
	records, err := q.PersonalRecords(ctx)
	if err != nil {
		return nil, err
	}
	breakdown, err := q.ActivityBreakdown(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		AllTime:   *allTime,
		Month:     *month,
		Streak:    *streak,
		Records:   records,
		Breakdown: breakdown,
	}, nil
}

// Totals sums every stored workout
func (q *QueryService) Totals(ctx context.Context) (*store.Totals, error) {
	t, err := q.store.Totals(ctx, store.TotalsFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading totals: %w", err)
	}
	return &t, nil
}

// MonthTotals sums the workouts since the start of the current calendar
// month. Distance of non-distance workout types is left out.
func (q *QueryService) MonthTotals(ctx context.Context) (*MonthTotals, error) {
	month := q.settings.Calendar.MonthStart(q.now())
	t, err := q.store.Totals(ctx, store.TotalsFilter{Since: month, SkipNonDistance: true})
	if err != nil {
		return nil, fmt.Errorf("loading monthly totals: %w", err)
	}
	return &MonthTotals{Month: month, Totals: t}, nil
}

// Streak computes the current streak and the active days of the trailing year
func (q *QueryService) Streak(ctx context.Context) (*Streak, error) {
	activities, err := q.store.Activities(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	cal := q.settings.Calendar
	today := cal.Day(q.now())
	starts := make([]time.Time, len(activities))
	for i, a := range activities {
		starts[i] = a.StartTime
	}

	streak := &Streak{
		Current:    analysis.CurrentStreak(starts, today, cal),
		ActiveDays: analysis.ActiveDays(starts, cal.AddDays(today, -(ActiveDaysWindow-1)), today, cal),
	}
	if n := len(starts); n > 0 {
		last := starts[n-1]
		streak.LastActive = &last
	}
	return streak, nil
}

// PersonalRecords returns the best workout per summary column
func (q *QueryService) PersonalRecords(ctx context.Context) (*store.PersonalRecords, error) {
	records, err := q.store.PersonalRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading personal records: %w", err)
	}
	return records, nil
}

// ActivityBreakdown counts workouts per type
func (q *QueryService) ActivityBreakdown(ctx context.Context) ([]store.TypeCount, error) {
	breakdown, err := q.store.ActivityBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading activity breakdown: %w", err)
	}
	if breakdown == nil {
		breakdown = []store.TypeCount{}
	}
	return breakdown, nil
}

// WeeklySummary returns one entry per week for the trailing weeks, oldest
// first and ending with the current week. Empty weeks are included.
func (q *QueryService) WeeklySummary(ctx context.Context, weeks int) ([]WeekSummary, error) {
	if weeks <= 0 {
		weeks = DefaultSummaryWeeks
	}
	if weeks > MaxSummaryWeeks {
		return nil, fmt.Errorf("%w: %d weeks exceeds %d", ErrInvalidArgument, weeks, MaxSummaryWeeks)
	}

	cal := q.settings.Calendar
	first := cal.AddDays(cal.WeekStart(q.now()), -7*(weeks-1))

	summary := make([]WeekSummary, weeks)
	for i := range summary {
		start := cal.AddDays(first, 7*i)
		year, week := start.ISOWeek()
		summary[i] = WeekSummary{WeekStart: start, Label: fmt.Sprintf("%d-W%02d", year, week)}
	}

	activities, err := q.store.Activities(ctx, first)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	for _, a := range activities {
		idx := cal.DaysBetween(first, a.StartTime) / 7
		if idx < 0 || idx >= weeks {
			continue
		}
		w := &summary[idx]
		w.Workouts++
		w.DurationSeconds += a.DurationSeconds
		if store.CountsDistance(a.WorkoutType) {
			w.DistanceMeters += a.DistanceMeters
		}
		tss, ok := analysis.WorkoutTSS(analysis.WorkoutSummary{
			ID:              a.ID,
			StartTime:       a.StartTime,
			DurationSeconds: a.DurationSeconds,
			AvgHeartRate:    a.AvgHeartRate,
		}, q.settings.Profile)
		if ok {
			w.TSS += tss
		}
	}

	q.logger.Debug("computed weekly summary", "weeks", weeks, "workouts", len(activities))
	return summary, nil
}

// ContributionCalendar lists the days with workouts in the trailing days,
// oldest first.
func (q *QueryService) ContributionCalendar(ctx context.Context, days int) ([]ContributionDay, error) {
	if days <= 0 {
		days = DefaultCalendarDays
	}
	if days > MaxCalendarDays {
		return nil, fmt.Errorf("%w: %d days exceeds %d", ErrInvalidArgument, days, MaxCalendarDays)
	}

	cal := q.settings.Calendar
	today := cal.Day(q.now())
	from := cal.AddDays(today, -(days - 1))

	activities, err := q.store.Activities(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	calendar := []ContributionDay{}
	for _, a := range activities {
		day := cal.Day(a.StartTime)
		if day.After(today) {
			continue
		}
		workoutType := a.WorkoutType
		if workoutType == "" {
			workoutType = store.UnknownWorkoutType
		}
		if n := len(calendar); n > 0 && calendar[n-1].Date.Equal(day) {
			calendar[n-1].Count++
			calendar[n-1].WorkoutTypes = append(calendar[n-1].WorkoutTypes, workoutType)
			continue
		}
		calendar = append(calendar, ContributionDay{Date: day, Count: 1, WorkoutTypes: []string{workoutType}})
	}
	return calendar, nil
}
