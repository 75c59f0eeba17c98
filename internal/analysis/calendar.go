package analysis

import "time"

const dayKeyLayout = "2006-01-02"

// Calendar decides which calendar day an instant belongs to
type Calendar struct {
	Location *time.Location
}

// NewCalendar returns a calendar for loc, or UTC when loc is nil
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Day returns midnight of the calendar day containing t
func (c Calendar) Day(t time.Time) time.Time {
	t = t.In(c.location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.location())
}

// Key returns the YYYY-MM-DD key of the day containing t
func (c Calendar) Key(t time.Time) string {
	return t.In(c.location()).Format(dayKeyLayout)
}

// AddDays moves day by n calendar days
func (c Calendar) AddDays(day time.Time, n int) time.Time {
	return c.Day(day).AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b
func (c Calendar) DaysBetween(a, b time.Time) int {
	da, db := c.Day(a), c.Day(b)
	ua := time.Date(da.Year(), da.Month(), da.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(db.Year(), db.Month(), db.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// WeekStart returns midnight of the Monday starting the week containing t
func (c Calendar) WeekStart(t time.Time) time.Time {
	day := c.Day(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// MonthStart returns midnight of the first day of the month containing t
func (c Calendar) MonthStart(t time.Time) time.Time {
	day := c.Day(t)
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, c.location())
}
