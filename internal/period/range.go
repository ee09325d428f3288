package period

import (
	"fmt"
	"time"
)

// Report range preset constants
const (
	RangeThisMonth   = "this_month"
	RangeLastMonth   = "last_month"
	RangeLast3Months = "last_3_months"
	RangeLast6Months = "last_6_months"
	RangeThisYear    = "this_year"
	RangeAll         = "all"
)

// Range is an inclusive local date window. All=true means unbounded.
type Range struct {
	Start time.Time
	End   time.Time
	All   bool
}

// Contains reports whether the local date of t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if r.All {
		return true
	}
	d := Truncate(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// FromPreset resolves a report range preset relative to now.
func FromPreset(preset string, now time.Time) (Range, error) {
	today := Truncate(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	switch preset {
	case RangeThisMonth:
		return Range{Start: monthStart, End: monthStart.AddDate(0, 1, -1)}, nil
	case RangeLastMonth:
		start := monthStart.AddDate(0, -1, 0)
		return Range{Start: start, End: monthStart.AddDate(0, 0, -1)}, nil
	case RangeLast3Months:
		return Range{Start: monthStart.AddDate(0, -2, 0), End: monthStart.AddDate(0, 1, -1)}, nil
	case RangeLast6Months:
		return Range{Start: monthStart.AddDate(0, -5, 0), End: monthStart.AddDate(0, 1, -1)}, nil
	case RangeThisYear:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		return Range{Start: start, End: time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, today.Location())}, nil
	case RangeAll, "":
		return Range{All: true}, nil
	default:
		return Range{}, fmt.Errorf("unknown range preset %q", preset)
	}
}
