package analysis

import (
	"math"
	"sort"
	"time"
)

const (
	// AcuteWindowDays is the ATL window
	AcuteWindowDays = 7
	// ChronicWindowDays is the CTL window
	ChronicWindowDays = 42
)

// CalculateTSS estimates Training Stress Score from duration and HR reserve.
// TSS = hours * IF^2 * 100 where IF is the clamped HR reserve fraction.
func CalculateTSS(durationMinutes, avgHR, maxHR, restingHR float64) float64 {
	hrReserve := maxHR - restingHR
	if hrReserve <= 0 || durationMinutes <= 0 {
		return 0
	}

	intensity := (avgHR - restingHR) / hrReserve
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}

	return math.Round(durationMinutes / 60 * intensity * intensity * 100)
}

// WorkoutTSS returns the TSS of a workout and false when it lacks duration
// or average heart rate.
func WorkoutTSS(w WorkoutSummary, profile UserProfile) (float64, bool) {
	if w.DurationSeconds <= 0 || w.AvgHeartRate == nil || *w.AvgHeartRate <= 0 {
		return 0, false
	}
	return CalculateTSS(float64(w.DurationSeconds)/60, *w.AvgHeartRate, profile.EstimatedMaxHR(), profile.RestingHR()), true
}

// DailyLoad represents training load for a single day
type DailyLoad struct {
	Date         time.Time `json:"date"`
	TSS          float64   `json:"tss"`
	WorkoutCount int       `json:"workout_count"`
}

// DailyLoads maps YYYY-MM-DD keys to the days that had qualifying workouts.
// Missing days have zero load.
type DailyLoads struct {
	cal  Calendar
	days map[string]DailyLoad
}

// AggregateDailyLoads sums TSS per calendar day
func AggregateDailyLoads(workouts []WorkoutSummary, profile UserProfile, cal Calendar) DailyLoads {
	loads := DailyLoads{cal: cal, days: make(map[string]DailyLoad)}
	for _, w := range workouts {
		tss, ok := WorkoutTSS(w, profile)
		if !ok {
			continue
		}
		key := cal.Key(w.StartTime)
		dl := loads.days[key]
		dl.Date = cal.Day(w.StartTime)
		dl.TSS += tss
		dl.WorkoutCount++
		loads.days[key] = dl
	}
	return loads
}

// Len returns the number of days with load
func (d DailyLoads) Len() int {
	return len(d.days)
}

// On returns the load of the day containing t
func (d DailyLoads) On(t time.Time) DailyLoad {
	if dl, ok := d.days[d.cal.Key(t)]; ok {
		return dl
	}
	return DailyLoad{Date: d.cal.Day(t)}
}

// Sorted returns the days with load in chronological order
func (d DailyLoads) Sorted() []DailyLoad {
	out := make([]DailyLoad, 0, len(d.days))
	for _, dl := range d.days {
		out = append(out, dl)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Range returns one entry per calendar day in [from, to], zero-filled
func (d DailyLoads) Range(from, to time.Time) []DailyLoad {
	var out []DailyLoad
	for day := d.cal.Day(from); !day.After(d.cal.Day(to)); day = day.AddDate(0, 0, 1) {
		out = append(out, d.On(day))
	}
	return out
}

// windowSum sums TSS over the days trailing and including end
func (d DailyLoads) windowSum(end time.Time, days int) float64 {
	sum, _ := d.window(end, days)
	return sum
}

// window sums TSS over the days trailing and including end and counts the
// days in that span that carry load.
func (d DailyLoads) window(end time.Time, days int) (sum float64, loaded int) {
	for k := 0; k < days; k++ {
		tss := d.On(d.cal.AddDays(end, -k)).TSS
		sum += tss
		if tss > 0 {
			loaded++
		}
	}
	return sum, loaded
}

// AcuteLoad is the mean daily TSS over the trailing 7 days, rounded
func AcuteLoad(loads DailyLoads, today time.Time) float64 {
	return math.Round(loads.windowSum(today, AcuteWindowDays) / AcuteWindowDays)
}

// ChronicLoad is the trailing 42-day TSS sum divided by the number of days
// inside that window that carry load. It is not rounded; a window without
// load gives 0.
func ChronicLoad(loads DailyLoads, today time.Time) float64 {
	sum, loaded := loads.window(today, ChronicWindowDays)
	if loaded == 0 {
		return 0
	}
	return sum / float64(min(ChronicWindowDays, loaded))
}

// WeeklyTrend compares the trailing 7-day TSS with the 7 days before it,
// as a rounded percentage. An empty prior week reports 100 when there is
// any current load and 0 otherwise.
func WeeklyTrend(loads DailyLoads, today time.Time) float64 {
	current := loads.windowSum(today, 7)
	prior := loads.windowSum(loads.cal.AddDays(today, -7), 7)
	if prior == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return math.Round((current - prior) / prior * 100)
}

// FitnessMetrics represents CTL/ATL/TSB for a day
type FitnessMetrics struct {
	Date time.Time `json:"date"`
	CTL  float64   `json:"ctl"` // Chronic Training Load - "Fitness"
	ATL  float64   `json:"atl"` // Acute Training Load - "Fatigue"
	TSB  float64   `json:"tsb"` // Training Stress Balance (CTL - ATL) - "Form"
}

// FitnessOn computes CTL/ATL/TSB as of the given day
func FitnessOn(loads DailyLoads, day time.Time) FitnessMetrics {
	ctl := ChronicLoad(loads, day)
	atl := AcuteLoad(loads, day)
	return FitnessMetrics{
		Date: loads.cal.Day(day),
		CTL:  ctl,
		ATL:  atl,
		TSB:  ctl - atl,
	}
}

// CalculateFitnessTrend computes CTL/ATL/TSB for every day in [from, to]
func CalculateFitnessTrend(loads DailyLoads, from, to time.Time) []FitnessMetrics {
	var metrics []FitnessMetrics
	for day := loads.cal.Day(from); !day.After(loads.cal.Day(to)); day = day.AddDate(0, 0, 1) {
		metrics = append(metrics, FitnessOn(loads, day))
	}
	return metrics
}

// FormDescription returns a human-readable description of TSB
func FormDescription(tsb float64) string {
	return ClassifyTSB(tsb).Info().Description
}

// TrainingLoad is the full load picture as of now
type TrainingLoad struct {
	Today          time.Time          `json:"today"`
	Fitness        FitnessMetrics     `json:"fitness"`
	WeeklyTrendPct float64            `json:"weekly_trend_pct"`
	Daily          []DailyLoad        `json:"daily"`
	Recovery       RecoveryAssessment `json:"recovery"`
}

// ComputeTrainingLoad derives TSS, ATL/CTL/TSB, weekly trend and recovery
// from a snapshot of workouts. Daily holds the trailing chronic window,
// zero-filled.
func ComputeTrainingLoad(workouts []WorkoutSummary, profile UserProfile, cal Calendar, now time.Time, opts RecoveryOptions) TrainingLoad {
	loads := AggregateDailyLoads(workouts, profile, cal)
	today := cal.Day(now)
	fitness := FitnessOn(loads, today)

	var lastEnd *time.Time
	if end, ok := LastWorkoutEnd(workouts, now); ok {
		lastEnd = &end
	}

	return TrainingLoad{
		Today:          today,
		Fitness:        fitness,
		WeeklyTrendPct: WeeklyTrend(loads, today),
		Daily:          loads.Range(cal.AddDays(today, -(ChronicWindowDays-1)), today),
		Recovery:       AssessRecovery(fitness.TSB, lastEnd, now, opts),
	}
}

// LastWorkoutEnd returns the latest end time among workouts that started
// no later than now.
func LastWorkoutEnd(workouts []WorkoutSummary, now time.Time) (time.Time, bool) {
	var last time.Time
	for _, w := range workouts {
		if w.StartTime.IsZero() || w.StartTime.After(now) {
			continue
		}
		if end := w.EndTime(); end.After(last) {
			last = end
		}
	}
	return last, !last.IsZero()
}
