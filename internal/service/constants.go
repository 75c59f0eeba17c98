package service

const (
	// Trend and listing windows
	DefaultTrendDays = 90
	MaxTrendDays     = 365
	DefaultListLimit = 20

	// Stats windows
	DefaultSummaryWeeks = 8
	MaxSummaryWeeks     = 104
	DefaultCalendarDays = 365
	MaxCalendarDays     = 730
	ActiveDaysWindow    = 365
)
