// Package timesheet holds the pure aggregation and flagging rules for
// logged time: period filtering, the grouped weekly/monthly table rows
// and the threshold checks that decide whether an entry needs manager
// approval. Nothing here touches the database — services project their
// persisted rows into Entry values and call in.
package timesheet

import (
	"time"

	"backend/internal/period"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry status enum constants. A flagged entry is created as
// pending_approval and requires a manager decision; an unflagged entry
// is pending_normal and never needs one.
const (
	StatusPendingNormal   = "pending_normal"
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
)

// Flag reason enum constants. ReasonNone marks an unflagged entry.
const (
	ReasonNone        = ""
	ReasonUnderHours  = "UNDER_HOURS"
	ReasonOverHours   = "OVER_HOURS"
	ReasonJobOvertime = "JOB_OVERTIME"
	ReasonMultiple    = "MULTIPLE"
)

// Period kind enum constants
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Entry is the calculation-facing projection of one logged time entry.
type Entry struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	JobID      uuid.UUID
	TaskID     uuid.UUID
	Date       time.Time
	Hours      decimal.Decimal
	Billable   bool
	Status     string
	FlagReason string
}

// FilterPeriod projects entries down to the view period anchored at
// anchor: daily is an exact date match, weekly is the Monday-start week
// containing the anchor, monthly is the anchor's calendar month. The
// result is recomputed from the full input on every call — it is a pure
// projection, never cached state.
func FilterPeriod(entries []Entry, kind string, anchor time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	switch kind {
	case PeriodDaily:
		for _, e := range entries {
			if period.SameDay(e.Date, anchor) {
				out = append(out, e)
			}
		}
	case PeriodWeekly:
		monday := period.Monday(anchor)
		sunday := monday.AddDate(0, 0, 6)
		for _, e := range entries {
			d := period.Truncate(e.Date)
			if !d.Before(monday) && !d.After(sunday) {
				out = append(out, e)
			}
		}
	case PeriodMonthly:
		for _, e := range entries {
			if period.SameMonth(e.Date, anchor) {
				out = append(out, e)
			}
		}
	}
	return out
}

// DayTotal sums the hours of all entries on the given local day.
func DayTotal(entries []Entry, day time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if period.SameDay(e.Date, day) {
			total = total.Add(e.Hours)
		}
	}
	return total
}

// TotalHours sums all entry hours.
func TotalHours(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	return total
}
