package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trainload/internal/analysis"
	"trainload/internal/store"
)

// WorkoutStore is the data access the query service needs
type WorkoutStore interface {
	Summaries(ctx context.Context) ([]analysis.WorkoutSummary, error)
	ListWorkouts(ctx context.Context, opts store.ListOptions) ([]store.Workout, error)
	CountWorkouts(ctx context.Context, workoutType string) (int, error)
	GetWorkout(ctx context.Context, id int64) (*store.Workout, error)
	GetGPS(ctx context.Context, id int64) ([]analysis.GpsPoint, error)
	GetChartData(ctx context.Context, id int64) (*analysis.ChartData, error)
	Totals(ctx context.Context, filter store.TotalsFilter) (store.Totals, error)
	Activities(ctx context.Context, since time.Time) ([]store.Activity, error)
	PersonalRecords(ctx context.Context) (*store.PersonalRecords, error)
	ActivityBreakdown(ctx context.Context) ([]store.TypeCount, error)
}

// Settings carries the athlete profile and analyzer tuning
type Settings struct {
	Profile     analysis.UserProfile
	Zones       []analysis.HRZone
	Options     analysis.Options
	Calendar    analysis.Calendar
	ChartPoints int
}

// DefaultSettings returns settings for an unconfigured athlete in UTC
func DefaultSettings() Settings {
	return Settings{
		Zones:       analysis.DefaultZones(),
		Options:     analysis.DefaultOptions(),
		Calendar:    analysis.NewCalendar(time.UTC),
		ChartPoints: analysis.DefaultChartPoints,
	}
}

// QueryService loads workout snapshots and runs the analytics over them
type QueryService struct {
	store    WorkoutStore
	settings Settings
	logger   *slog.Logger
	now      func() time.Time
}

// NewQueryService creates a new query service
func NewQueryService(store WorkoutStore, settings Settings, logger *slog.Logger) *QueryService {
	if len(settings.Zones) == 0 {
		settings.Zones = analysis.DefaultZones()
	}
	if settings.ChartPoints <= 0 {
		settings.ChartPoints = analysis.DefaultChartPoints
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{store: store, settings: settings, logger: logger, now: time.Now}
}

// SetClock replaces the wall clock, for tests and replaying a past day
func (q *QueryService) SetClock(now func() time.Time) {
	q.now = now
}

// Settings returns the settings in use
func (q *QueryService) Settings() Settings {
	return q.settings
}

// Readiness is the training load picture with the last workout for context
type Readiness struct {
	analysis.TrainingLoad
	WorkoutCount   int        `json:"workout_count"`
	LastWorkoutEnd *time.Time `json:"last_workout_end,omitempty"`
}

// Readiness computes today's ATL/CTL/TSB, weekly trend and recovery status
func (q *QueryService) Readiness(ctx context.Context) (*Readiness, error) {
	summaries, err := q.store.Summaries(ctx)
	if err != nil {
		q.logger.Warn("loading workout summaries failed", "error", err)
		return nil, fmt.Errorf("loading workouts: %w", err)
	}

	now := q.now()
	load := analysis.ComputeTrainingLoad(summaries, q.settings.Profile, q.settings.Calendar, now, q.settings.Options.Recovery)
	r := &Readiness{TrainingLoad: load, WorkoutCount: len(summaries)}
	if end, ok := analysis.LastWorkoutEnd(summaries, now); ok {
		r.LastWorkoutEnd = &end
	}

	q.logger.Debug("computed readiness",
		"workouts", len(summaries),
		"tsb", load.Fitness.TSB,
		"status", load.Recovery.Status,
	)
	return r, nil
}

// FitnessTrend returns daily CTL/ATL/TSB for the trailing days ending today
func (q *QueryService) FitnessTrend(ctx context.Context, days int) ([]analysis.FitnessMetrics, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > MaxTrendDays {
		return nil, fmt.Errorf("%w: trend window of %d days exceeds %d", ErrInvalidArgument, days, MaxTrendDays)
	}

	summaries, err := q.store.Summaries(ctx)
	if err != nil {
		q.logger.Warn("loading workout summaries failed", "error", err)
		return nil, fmt.Errorf("loading workouts: %w", err)
	}

	cal := q.settings.Calendar
	loads := analysis.AggregateDailyLoads(summaries, q.settings.Profile, cal)
	today := cal.Day(q.now())
	trend := analysis.CalculateFitnessTrend(loads, cal.AddDays(today, -(days-1)), today)

	q.logger.Debug("computed fitness trend", "days", days, "active_days", loads.Len())
	return trend, nil
}

// WorkoutItem is a listed workout with its training stress
type WorkoutItem struct {
	store.Workout
	TSS *float64 `json:"tss,omitempty"` // nil when the workout has no usable HR
}

// WorkoutPage is one page of the workout list
type WorkoutPage struct {
	Workouts []WorkoutItem `json:"workouts"`
	Total    int           `json:"total"`
}

// ListWorkouts returns a page of workouts, newest first
func (q *QueryService) ListWorkouts(ctx context.Context, opts store.ListOptions) (*WorkoutPage, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Offset < 0 {
		return nil, fmt.Errorf("%w: negative offset", ErrInvalidArgument)
	}

	workouts, err := q.store.ListWorkouts(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	total, err := q.store.CountWorkouts(ctx, opts.WorkoutType)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}

	page := &WorkoutPage{Workouts: make([]WorkoutItem, 0, len(workouts)), Total: total}
	for _, w := range workouts {
		page.Workouts = append(page.Workouts, WorkoutItem{Workout: w, TSS: q.tss(&w)})
	}
	return page, nil
}

func (q *QueryService) tss(w *store.Workout) *float64 {
	tss, ok := analysis.WorkoutTSS(w.Summary(), q.settings.Profile)
	if !ok {
		return nil
	}
	return &tss
}
