package analysis

import "time"

// CurrentStreak counts consecutive calendar days with at least one workout,
// ending today. A streak with no workout yet today still counts when
// yesterday had one.
func CurrentStreak(starts []time.Time, today time.Time, cal Calendar) int {
	active := make(map[string]bool, len(starts))
	for _, t := range starts {
		active[cal.Key(t)] = true
	}

	day := cal.Day(today)
	if !active[cal.Key(day)] {
		day = cal.AddDays(day, -1)
	}

	streak := 0
	for active[cal.Key(day)] {
		streak++
		day = cal.AddDays(day, -1)
	}
	return streak
}

// ActiveDays counts the distinct calendar days in [from, to] with a workout
func ActiveDays(starts []time.Time, from, to time.Time, cal Calendar) int {
	first, last := cal.Day(from), cal.Day(to)
	seen := make(map[string]bool)
	for _, t := range starts {
		day := cal.Day(t)
		if day.Before(first) || day.After(last) {
			continue
		}
		seen[cal.Key(day)] = true
	}
	return len(seen)
}
