// Package period provides the calendar arithmetic behind timesheet and
// report views: local day keys, Monday-start weeks and the week-of-month
// bucketing used by the monthly timesheet table. All computation works
// on local calendar fields — never on UTC-sliced ISO strings — so a
// date never shifts across a timezone boundary.
package period

import (
	"fmt"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayKey renders the local calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// ParseDayKey parses a YYYY-MM-DD key back into a local midnight time.
func ParseDayKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayKeyLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", s, err)
	}
	return t, nil
}

// Truncate zeroes the time-of-day component, keeping the local date.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Monday returns the Monday of the ISO week containing t, at local
// midnight. Sundays roll back six days.
func Monday(t time.Time) time.Time {
	t = Truncate(t)
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7
	}
	return t.AddDate(0, 0, -(offset - 1))
}

// WeekDays returns the seven days Monday..Sunday starting at monday.
func WeekDays(monday time.Time) [7]time.Time {
	var days [7]time.Time
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// WeekBucket is one row bucket of the monthly timesheet view. Start and
// End are inclusive local dates. Labels run Week 1, Week 2, ... within
// the month — these are NOT ISO week numbers.
type WeekBucket struct {
	Label string
	Start time.Time
	End   time.Time
}

// Contains reports whether the local date of t falls inside the bucket.
func (w WeekBucket) Contains(t time.Time) bool {
	d := Truncate(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// MonthWeeks splits the calendar month containing t into week-aligned
// buckets. The first bucket runs from the 1st to the Sunday closing its
// Monday-start week, interior buckets are full Monday..Sunday weeks and
// the last is clipped at the month end. Depending on month length and
// the weekday the month starts on, the result has four to six buckets
// (a 31-day month starting on a Sunday yields six), covering every day
// exactly once.
func MonthWeeks(t time.Time) []WeekBucket {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)

	var buckets []WeekBucket
	start := first
	for n := 1; !start.After(last); n++ {
		end := Monday(start).AddDate(0, 0, 6) // Sunday of start's week
		if end.After(last) {
			end = last
		}
		buckets = append(buckets, WeekBucket{
			Label: fmt.Sprintf("Week %d", n),
			Start: start,
			End:   end,
		})
		start = end.AddDate(0, 0, 1)
	}
	return buckets
}
