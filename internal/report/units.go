package report

import (
	"fmt"
	"math"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
)

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	DistanceUnit string // "km" or "mi"
}

// FormatDistance formats a distance in meters to the preferred unit
func (u Units) FormatDistance(meters float64) string {
	if u.DistanceUnit == "mi" {
		return fmt.Sprintf("%.2f mi", meters/metersPerMile)
	}
	return fmt.Sprintf("%.2f km", meters/metersPerKm)
}

// FormatPace converts seconds per kilometer to the preferred unit.
// Zero pace means no movement and formats as "-".
func (u Units) FormatPace(secPerKm float64) string {
	if secPerKm <= 0 || math.IsInf(secPerKm, 0) || math.IsNaN(secPerKm) {
		return "-"
	}

	pace := secPerKm
	if u.DistanceUnit == "mi" {
		pace = secPerKm * metersPerMile / metersPerKm
	}

	total := int(math.Round(pace))
	return fmt.Sprintf("%d:%02d/%s", total/60, total%60, u.DistanceLabel())
}

// FormatSpeed formats meters per second as km/h or mph
func (u Units) FormatSpeed(mps float64) string {
	if u.DistanceUnit == "mi" {
		return fmt.Sprintf("%.1f mph", mps*3600/metersPerMile)
	}
	return fmt.Sprintf("%.1f km/h", mps*3600/metersPerKm)
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.DistanceUnit == "mi" {
		return "mi"
	}
	return "km"
}

// FormatDuration formats seconds as H:MM:SS or M:SS
func FormatDuration(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatSigned formats a value with an explicit + for positive numbers
func FormatSigned(v float64) string {
	r := math.Round(v)
	switch {
	case r > 0:
		return fmt.Sprintf("+%.0f", r)
	case r < 0:
		return fmt.Sprintf("%.0f", r)
	default:
		return "0"
	}
}
