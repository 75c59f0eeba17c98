package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"trainload/internal/analysis"
)

// Colors
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	textColor      = lipgloss.Color("#F9FAFB") // Light gray
)

// styles are bound to a renderer so colors follow the output writer
type styles struct {
	renderer *lipgloss.Renderer

	title       lipgloss.Style
	header      lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
	muted       lipgloss.Style
	trendUp     lipgloss.Style
	trendDown   lipgloss.Style
	trendFlat   lipgloss.Style
	scoreBanner lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		renderer: r,

		title: r.NewStyle().
			Bold(true).
			Foreground(primaryColor),

		header: r.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(primaryColor).
			Padding(0, 1),

		label: r.NewStyle().
			Foreground(mutedColor).
			Width(20),

		value: r.NewStyle().
			Bold(true),

		muted: r.NewStyle().
			Foreground(mutedColor),

		trendUp: r.NewStyle().
			Foreground(secondaryColor),

		trendDown: r.NewStyle().
			Foreground(errorColor),

		trendFlat: r.NewStyle().
			Foreground(mutedColor),

		scoreBanner: r.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2),
	}
}

// status colors a recovery status with its catalog color
func (s styles) status(status analysis.RecoveryStatus) lipgloss.Style {
	return s.renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(status.Info().Color))
}

// zone colors a heart rate zone with its configured color
func (s styles) zone(z analysis.HRZone) lipgloss.Style {
	if z.Color == "" {
		return s.renderer.NewStyle()
	}
	return s.renderer.NewStyle().Foreground(lipgloss.Color(z.Color))
}

// trend picks the style for a signed change
func (s styles) trend(delta float64) lipgloss.Style {
	switch {
	case delta > 0:
		return s.trendUp
	case delta < 0:
		return s.trendDown
	default:
		return s.trendFlat
	}
}
