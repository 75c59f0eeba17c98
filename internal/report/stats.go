package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"trainload/internal/service"
	"trainload/internal/store"
)

// Overview writes totals, streak, personal records and the type breakdown
func (r *Writer) Overview(o *service.Overview) error {
	if r.format == FormatJSON {
		return r.writeJSON(o)
	}

	if err := r.totalsSection("All time", o.AllTime); err != nil {
		return err
	}
	if err := r.totalsSection("This month ("+o.Month.Month.Format("January 2006")+")", o.Month.Totals); err != nil {
		return err
	}

	if err := r.printf("\n%s\n", r.styles.title.Render("Streak")); err != nil {
		return err
	}
	streak := []struct{ label, value string }{
		{"Current", pluralDays(o.Streak.Current)},
		{"Active days", pluralDays(o.Streak.ActiveDays) + " in the last year"},
	}
	if o.Streak.LastActive != nil {
		streak = append(streak, struct{ label, value string }{
			"Last workout", humanize.RelTime(*o.Streak.LastActive, r.now(), "ago", "from now"),
		})
	}
	for _, row := range streak {
		if err := r.metric(row.label, row.value); err != nil {
			return err
		}
	}

	if err := r.recordsSection(o.Records); err != nil {
		return err
	}
	return r.breakdownSection(o.Breakdown)
}

func (r *Writer) totalsSection(title string, t store.Totals) error {
	if err := r.printf("\n%s\n", r.styles.title.Render(title)); err != nil {
		return err
	}
	rows := []struct{ label, value string }{
		{"Workouts", humanize.Comma(int64(t.Workouts))},
		{"Distance", r.units.FormatDistance(t.DistanceMeters)},
		{"Time", FormatDuration(float64(t.DurationSeconds))},
		{"Calories", humanize.Comma(int64(t.Calories)) + " kcal"},
	}
	for _, row := range rows {
		if err := r.metric(row.label, row.value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Writer) recordsSection(records *store.PersonalRecords) error {
	if err := r.printf("\n%s\n", r.styles.title.Render("Personal records")); err != nil {
		return err
	}
	if records == nil {
		records = &store.PersonalRecords{}
	}

	entries := []struct {
		label  string
		record *store.Record
		format func(float64) string
	}{
		{"Longest distance", records.LongestDistance, r.units.FormatDistance},
		{"Longest duration", records.LongestDuration, FormatDuration},
		{"Highest heart rate", records.HighestHeartRate, func(v float64) string { return fmt.Sprintf("%.0f bpm", v) }},
		{"Top speed", records.FastestSpeed, r.units.FormatSpeed},
		{"Most climbing", records.MostClimbing, func(v float64) string { return fmt.Sprintf("%.0f m", v) }},
		{"Most calories", records.MostCalories, func(v float64) string { return humanize.Comma(int64(v)) + " kcal" }},
	}

	var data [][]string
	for _, e := range entries {
		if e.record == nil {
			continue
		}
		data = append(data, []string{
			e.label,
			e.format(e.record.Value),
			orDash(e.record.Name),
			e.record.StartTime.Local().Format("2006-01-02"),
		})
	}
	if len(data) == 0 {
		return r.printf("%s\n", r.styles.muted.Render("No workouts yet"))
	}
	return r.table([]string{"Record", "Value", "Workout", "Date"}, data)
}

func (r *Writer) breakdownSection(breakdown []store.TypeCount) error {
	if err := r.printf("\n%s\n", r.styles.title.Render("Workout types")); err != nil {
		return err
	}
	if len(breakdown) == 0 {
		return r.printf("%s\n", r.styles.muted.Render("No workouts yet"))
	}

	total := 0
	for _, tc := range breakdown {
		total += tc.Count
	}
	data := make([][]string, 0, len(breakdown))
	for _, tc := range breakdown {
		data = append(data, []string{
			tc.WorkoutType,
			humanize.Comma(int64(tc.Count)),
			fmt.Sprintf("%.0f%%", float64(tc.Count)/float64(total)*100),
		})
	}
	return r.table([]string{"Type", "Workouts", "Share"}, data)
}

// Weekly writes the weekly summary as a table
func (r *Writer) Weekly(weeks []service.WeekSummary) error {
	if r.format == FormatJSON {
		return r.writeJSON(weeks)
	}

	if err := r.printf("%s\n", r.styles.title.Render("Weekly summary")); err != nil {
		return err
	}
	data := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		data = append(data, []string{
			w.Label,
			w.WeekStart.Format("Jan 02"),
			strconv.Itoa(w.Workouts),
			r.units.FormatDistance(w.DistanceMeters),
			FormatDuration(float64(w.DurationSeconds)),
			fmt.Sprintf("%.0f", w.TSS),
		})
	}
	return r.table([]string{"Week", "From", "Workouts", "Distance", "Time", "TSS"}, data)
}

// Calendar writes the days with workouts, newest last
func (r *Writer) Calendar(days []service.ContributionDay) error {
	if r.format == FormatJSON {
		return r.writeJSON(days)
	}

	if err := r.printf("%s\n", r.styles.title.Render("Training calendar")); err != nil {
		return err
	}
	if len(days) == 0 {
		return r.printf("%s\n", r.styles.muted.Render("No workouts in this period"))
	}

	data := make([][]string, 0, len(days))
	for _, d := range days {
		data = append(data, []string{
			d.Date.Format("Mon 2006-01-02"),
			strconv.Itoa(d.Count),
			strings.Join(d.WorkoutTypes, ", "),
		})
	}
	if err := r.table([]string{"Day", "Workouts", "Types"}, data); err != nil {
		return err
	}
	return r.printf("%s\n", r.styles.muted.Render(pluralDays(len(days))+" with training"))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return humanize.Comma(int64(n)) + " days"
}
