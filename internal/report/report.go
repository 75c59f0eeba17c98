package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"trainload/internal/analysis"
	"trainload/internal/service"
)

// Format selects how results are written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates an output format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// Writer renders service results for the terminal
type Writer struct {
	w      io.Writer
	format Format
	units  Units
	styles styles
	now    func() time.Time
}

// NewWriter creates a report writer. Colors are enabled only when w is a
// terminal.
func NewWriter(w io.Writer, format Format, units Units) *Writer {
	return &Writer{
		w:      w,
		format: format,
		units:  units,
		styles: newStyles(w),
		now:    time.Now,
	}
}

// SetClock replaces the clock used for relative times
func (r *Writer) SetClock(now func() time.Time) {
	r.now = now
}

func (r *Writer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Writer) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(r.w, format, args...)
	return err
}

func (r *Writer) metric(label, value string) error {
	return r.printf("%s%s\n", r.styles.label.Render(label), r.styles.value.Render(value))
}

// Readiness writes today's recovery verdict and load numbers
func (r *Writer) Readiness(rd *service.Readiness) error {
	if r.format == FormatJSON {
		return r.writeJSON(rd)
	}

	rec := rd.Recovery
	banner := r.styles.scoreBanner.
		BorderForeground(lipgloss.Color(rec.Info.Color)).
		Render(fmt.Sprintf("Readiness %d/100", rec.ReadinessScore))
	if err := r.printf("%s\n\n", banner); err != nil {
		return err
	}

	rows := []struct{ label, value string }{
		{"Status", r.styles.status(rec.Status).Render(rec.Info.Label)},
		{"", r.styles.muted.Render(rec.Info.Description)},
		{"Suggested", rec.SuggestedIntensity},
		{"Fitness (CTL)", fmt.Sprintf("%.0f", rd.Fitness.CTL)},
		{"Fatigue (ATL)", fmt.Sprintf("%.0f", rd.Fitness.ATL)},
		{"Form (TSB)", FormatSigned(rd.Fitness.TSB)},
		{"Weekly trend", r.styles.trend(rd.WeeklyTrendPct).Render(FormatSigned(rd.WeeklyTrendPct) + "%")},
		{"Workouts", humanize.Comma(int64(rd.WorkoutCount))},
	}
	if rd.LastWorkoutEnd != nil {
		rows = append(rows, struct{ label, value string }{
			"Last workout", humanize.RelTime(*rd.LastWorkoutEnd, r.now(), "ago", "from now"),
		})
	}

	for _, row := range rows {
		if err := r.metric(row.label, row.value); err != nil {
			return err
		}
	}
	return nil
}

// Trend writes the daily fitness series as a table
func (r *Writer) Trend(trend []analysis.FitnessMetrics) error {
	if r.format == FormatJSON {
		return r.writeJSON(trend)
	}

	if err := r.printf("%s\n", r.styles.title.Render("Fitness trend")); err != nil {
		return err
	}

	data := make([][]string, 0, len(trend))
	for _, m := range trend {
		data = append(data, []string{
			m.Date.Format("2006-01-02"),
			fmt.Sprintf("%.0f", m.CTL),
			fmt.Sprintf("%.0f", m.ATL),
			FormatSigned(m.TSB),
			analysis.ClassifyTSB(m.TSB).Info().Label,
		})
	}
	return r.table([]string{"Date", "CTL", "ATL", "TSB", "Status"}, data)
}

// Workouts writes one page of the workout list
func (r *Writer) Workouts(page *service.WorkoutPage) error {
	if r.format == FormatJSON {
		return r.writeJSON(page)
	}

	data := make([][]string, 0, len(page.Workouts))
	for _, w := range page.Workouts {
		data = append(data, []string{
			strconv.FormatInt(w.ID, 10),
			w.StartTime.Local().Format("2006-01-02 15:04"),
			orDash(w.Name),
			orDash(w.WorkoutType),
			FormatDuration(float64(w.DurationSeconds)),
			r.units.FormatDistance(w.DistanceMeters),
			optional(w.AvgHeartRate, "%.0f"),
			optional(w.TSS, "%.0f"),
		})
	}
	if err := r.table([]string{"ID", "Start", "Name", "Type", "Duration", "Distance", "Avg HR", "TSS"}, data); err != nil {
		return err
	}
	return r.printf("%s\n", r.styles.muted.Render(
		fmt.Sprintf("Showing %d of %s workouts", len(page.Workouts), humanize.Comma(int64(page.Total)))))
}

// WorkoutDetail writes the summary, zones, elevation and splits of a workout
func (r *Writer) WorkoutDetail(d *service.WorkoutDetail) error {
	if r.format == FormatJSON {
		return r.writeJSON(d)
	}

	w := d.Workout
	name := w.Name
	if name == "" {
		name = w.Filename
	}
	if err := r.printf("%s\n\n", r.styles.header.Render(name)); err != nil {
		return err
	}

	summary := []struct{ label, value string }{
		{"Start", w.StartTime.Local().Format("Mon 2006-01-02 15:04")},
		{"Duration", FormatDuration(float64(w.DurationSeconds))},
		{"Distance", r.units.FormatDistance(w.DistanceMeters)},
		{"Avg HR", optional(w.AvgHeartRate, "%.0f bpm")},
		{"TSS", optional(d.TSS, "%.0f")},
	}
	for _, row := range summary {
		if err := r.metric(row.label, row.value); err != nil {
			return err
		}
	}

	if err := r.zonesSection(d.HRZones, d.EstimatedMaxHR); err != nil {
		return err
	}
	if err := r.elevationSection(d.Elevation); err != nil {
		return err
	}
	return r.segmentsSection(d.Segments)
}

func (r *Writer) zonesSection(zones []analysis.ZoneTime, maxHR float64) error {
	if err := r.printf("\n%s %s\n", r.styles.title.Render("Heart rate zones"),
		r.styles.muted.Render(fmt.Sprintf("(max HR %.0f)", maxHR))); err != nil {
		return err
	}

	data := make([][]string, 0, len(zones))
	for _, z := range zones {
		lo := maxHR * z.Zone.MinPercent / 100
		hi := maxHR * z.Zone.MaxPercent / 100
		data = append(data, []string{
			r.styles.zone(z.Zone).Render(z.Zone.Name),
			fmt.Sprintf("%.0f-%.0f", lo, hi),
			FormatDuration(z.Seconds),
			fmt.Sprintf("%.1f%%", z.Percentage),
		})
	}
	return r.table([]string{"Zone", "BPM", "Time", "Share"}, data)
}

func (r *Writer) elevationSection(p analysis.ElevationProfile) error {
	if err := r.printf("\n%s\n", r.styles.title.Render("Elevation")); err != nil {
		return err
	}
	if p.Empty() {
		return r.printf("%s\n", r.styles.muted.Render("No elevation data"))
	}

	s := p.Stats
	rows := []struct{ label, value string }{
		{"Range", fmt.Sprintf("%.0f-%.0f m", s.MinAltitude, s.MaxAltitude)},
		{"Gain / loss", fmt.Sprintf("+%.0f / -%.0f m", s.TotalGain, s.TotalLoss)},
		{"Avg grade", fmt.Sprintf("%.1f%%", s.AvgGrade)},
		{"Max sustained", fmt.Sprintf("%.1f%%", s.MaxSustainedGrade)},
	}
	for _, row := range rows {
		if err := r.metric(row.label, row.value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Writer) segmentsSection(report service.SegmentReport) error {
	if err := r.printf("\n%s\n", r.styles.title.Render("Splits")); err != nil {
		return err
	}
	if len(report.Segments) == 0 {
		return r.printf("%s\n", r.styles.muted.Render("No GPS track"))
	}

	data := make([][]string, 0, len(report.Segments))
	for _, s := range report.Segments {
		marker := ""
		switch {
		case report.Fastest != nil && s.Index == report.Fastest.Index:
			marker = r.styles.trendUp.Render("fastest")
		case report.Slowest != nil && s.Index == report.Slowest.Index:
			marker = r.styles.trendDown.Render("slowest")
		}
		data = append(data, []string{
			strconv.Itoa(s.Index + 1),
			r.units.FormatDistance(s.DistanceMeters),
			FormatDuration(s.DurationSeconds),
			r.units.FormatPace(s.PaceSecPerKm),
			optional(s.AvgHeartRate, "%.0f"),
			fmt.Sprintf("+%.0f/-%.0f", s.ElevationGainMeters, s.ElevationLossMeters),
			marker,
		})
	}
	return r.table([]string{"#", "Distance", "Time", "Pace", "Avg HR", "Elev", ""}, data)
}

// table renders rows with tablewriter, right-aligned like numeric reports
func (r *Writer) table(headers []string, data [][]string) error {
	table := tablewriter.NewWriter(r.w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func optional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
