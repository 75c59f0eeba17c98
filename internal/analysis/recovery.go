package analysis

import (
	"math"
	"time"
)

// RecoveryStatus categorises training stress balance
type RecoveryStatus string

const (
	StatusRecovered RecoveryStatus = "recovered"
	StatusFresh     RecoveryStatus = "fresh"
	StatusOptimal   RecoveryStatus = "optimal"
	StatusTired     RecoveryStatus = "tired"
	StatusFatigued  RecoveryStatus = "fatigued"
)

// IntensityRestOrEasy replaces the suggestion right after a workout
const IntensityRestOrEasy = "Rest or easy"

// StatusInfo is the fixed presentation data of a RecoveryStatus
type StatusInfo struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Intensity   string `json:"intensity"`
}

var statusCatalog = map[RecoveryStatus]StatusInfo{
	StatusRecovered: {
		Label:       "Fully Recovered",
		Color:       "#3B82F6",
		Description: "Very fresh, fitness may be slipping",
		Intensity:   "Hard session or race",
	},
	StatusFresh: {
		Label:       "Fresh",
		Color:       "#10B981",
		Description: "Rested and ready for quality work",
		Intensity:   "High intensity",
	},
	StatusOptimal: {
		Label:       "Optimal",
		Color:       "#22C55E",
		Description: "Productive training zone",
		Intensity:   "Moderate to hard",
	},
	StatusTired: {
		Label:       "Tired",
		Color:       "#F59E0B",
		Description: "Accumulated fatigue, building fitness",
		Intensity:   "Easy to moderate",
	},
	StatusFatigued: {
		Label:       "Fatigued",
		Color:       "#EF4444",
		Description: "High fatigue, recovery needed",
		Intensity:   "Rest day",
	},
}

// Info returns the label, color, description and suggested intensity
func (s RecoveryStatus) Info() StatusInfo {
	return statusCatalog[s]
}

// ClassifyTSB maps TSB to a status; thresholds are checked top-down
func ClassifyTSB(tsb float64) RecoveryStatus {
	switch {
	case tsb > 25:
		return StatusRecovered
	case tsb > 5:
		return StatusFresh
	case tsb >= -10:
		return StatusOptimal
	case tsb >= -25:
		return StatusTired
	default:
		return StatusFatigued
	}
}

// ReadinessScore maps TSB linearly onto 0-100 over [-30, +25]
func ReadinessScore(tsb float64) int {
	clamped := math.Max(-30, math.Min(25, tsb))
	return int(math.Round((clamped + 30) / 55 * 100))
}

// RecoveryOptions tunes AssessRecovery
type RecoveryOptions struct {
	// RecentWorkoutHours is how long after a workout the suggestion is
	// capped at IntensityRestOrEasy.
	RecentWorkoutHours float64
}

// DefaultRecoveryOptions returns a 12 hour recent-workout window
func DefaultRecoveryOptions() RecoveryOptions {
	return RecoveryOptions{RecentWorkoutHours: 12}
}

// RecoveryAssessment is the readiness verdict for today
type RecoveryAssessment struct {
	TSB                 float64        `json:"tsb"`
	ReadinessScore      int            `json:"readiness_score"`
	Status              RecoveryStatus `json:"status"`
	Info                StatusInfo     `json:"info"`
	LastWorkoutAgeHours *float64       `json:"last_workout_age_hours"`
	SuggestedIntensity  string         `json:"suggested_intensity"`
}

// AssessRecovery builds the assessment from TSB and the end of the most
// recent workout (nil when there is none).
func AssessRecovery(tsb float64, lastWorkoutEnd *time.Time, now time.Time, opts RecoveryOptions) RecoveryAssessment {
	status := ClassifyTSB(tsb)
	a := RecoveryAssessment{
		TSB:                tsb,
		ReadinessScore:     ReadinessScore(tsb),
		Status:             status,
		Info:               status.Info(),
		SuggestedIntensity: status.Info().Intensity,
	}

	if lastWorkoutEnd != nil {
		age := math.Max(0, now.Sub(*lastWorkoutEnd).Hours())
		a.LastWorkoutAgeHours = &age
		if age < opts.RecentWorkoutHours && status != StatusRecovered {
			a.SuggestedIntensity = IntensityRestOrEasy
		}
	}
	return a
}
