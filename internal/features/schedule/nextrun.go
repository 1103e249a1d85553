package schedule

import (
	"time"
)

// ComputeNextRun returns the next fire time strictly after now.
// Trigger schedules have no clock and get a zero time.
func ComputeNextRun(s *Schedule, now time.Time) time.Time {
	if s.Frequency == FreqTrigger {
		return time.Time{}
	}

	hour, minute := parseTimeOfDay(s.TimeOfDay)

	switch s.Frequency {
	case FreqWeekly:
		target := time.Weekday(s.DayOfWeek % 7)
		next := at(now, hour, minute)
		// always the next occurrence, never today
		next = next.AddDate(0, 0, 1)
		for next.Weekday() != target {
			next = next.AddDate(0, 0, 1)
		}
		return next

	case FreqMonthly:
		day := s.DayOfMonth
		if day < 1 {
			day = 1
		}
		firstOfNext := time.Date(now.Year(), now.Month(), 1, hour, minute, 0, 0, now.Location()).AddDate(0, 1, 0)
		if last := daysInMonth(firstOfNext); day > last {
			day = last
		}
		return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, hour, minute, 0, 0, now.Location())

	case FreqQuarterly:
		firstOfTarget := time.Date(now.Year(), now.Month(), 1, hour, minute, 0, 0, now.Location()).AddDate(0, 3, 0)
		return firstOfTarget

	default: // daily
		return at(now, hour, minute).AddDate(0, 0, 1)
	}
}

func at(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

func daysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, 1, -1).Day()
}

func parseTimeOfDay(s string) (hour, minute int) {
	hour = 8
	for _, layout := range []string{"15:04:05", "15:04"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Hour(), ts.Minute()
		}
	}
	return hour, 0
}
