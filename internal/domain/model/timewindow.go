package model

import (
	"fmt"
	"time"
)

// WindowOption selects one of the preset dashboard time windows.
type WindowOption string

const (
	WindowLastDay   WindowOption = "day"
	WindowLastWeek  WindowOption = "week"
	WindowLastMonth WindowOption = "month"
	WindowCustom    WindowOption = "custom"
)

// TimeWindow is an inclusive [Since, Until] interval in UTC. Since is the
// start of its day and Until the end of its day, matching how the dashboard
// presents whole-day ranges.
type TimeWindow struct {
	Since time.Time
	Until time.Time
}

// WindowFor resolves a preset option relative to now. The window always ends
// at the end of the current day.
func WindowFor(opt WindowOption, now time.Time) (TimeWindow, error) {
	today := now.UTC().Truncate(24 * time.Hour)

	var start time.Time
	switch opt {
	case WindowLastDay:
		start = today.AddDate(0, 0, -1)
	case WindowLastWeek:
		start = today.AddDate(0, 0, -7)
	case WindowLastMonth:
		start = today.AddDate(0, -1, 0)
	default:
		return TimeWindow{}, fmt.Errorf("unknown window option %q", opt)
	}

	return TimeWindow{
		Since: start,
		Until: endOfDay(today),
	}, nil
}

// CustomWindow builds a window from explicit start and end dates.
func CustomWindow(start, end time.Time) (TimeWindow, error) {
	start = start.UTC().Truncate(24 * time.Hour)
	end = end.UTC().Truncate(24 * time.Hour)

	if end.Before(start) {
		return TimeWindow{}, fmt.Errorf("end date %s is before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	return TimeWindow{Since: start, Until: endOfDay(end)}, nil
}

// Contains reports whether t falls inside the window, inclusive at both ends.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Since) && !t.After(w.Until)
}

func endOfDay(dayStart time.Time) time.Time {
	return dayStart.Add(24*time.Hour - time.Nanosecond)
}
