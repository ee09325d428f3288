package timesheet

import (
	"time"

	"backend/internal/period"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupKey is the composite identity of one table row: one user's work
// on one task of one job.
type GroupKey struct {
	UserID uuid.UUID
	JobID  uuid.UUID
	TaskID uuid.UUID
}

// Row is one grouped line of the weekly or monthly timesheet table.
// Cells holds one hour sum per day (weekly) or per week bucket
// (monthly). Pending is true when any member entry awaits approval;
// Flagged additionally requires a recorded flag reason and is what the
// notification toggle highlights.
type Row struct {
	Key     GroupKey
	Cells   []decimal.Decimal
	Total   decimal.Decimal
	Pending bool
	Flagged bool
}

// GroupByDays builds weekly table rows: one cell per day. Rows appear
// in first-seen entry order, never sorted.
func GroupByDays(entries []Entry, days [7]time.Time) []Row {
	return group(entries, len(days), func(e Entry) int {
		for i, d := range days {
			if period.SameDay(e.Date, d) {
				return i
			}
		}
		return -1
	})
}

// GroupByBuckets builds monthly table rows: one cell per week bucket.
func GroupByBuckets(entries []Entry, buckets []period.WeekBucket) []Row {
	return group(entries, len(buckets), func(e Entry) int {
		for i, b := range buckets {
			if b.Contains(e.Date) {
				return i
			}
		}
		return -1
	})
}

func group(entries []Entry, cellCount int, cellIndex func(Entry) int) []Row {
	index := make(map[GroupKey]int)
	rows := make([]Row, 0)

	for _, e := range entries {
		key := GroupKey{UserID: e.UserID, JobID: e.JobID, TaskID: e.TaskID}
		i, ok := index[key]
		if !ok {
			cells := make([]decimal.Decimal, cellCount)
			for c := range cells {
				cells[c] = decimal.Zero
			}
			rows = append(rows, Row{Key: key, Cells: cells, Total: decimal.Zero})
			i = len(rows) - 1
			index[key] = i
		}

		if c := cellIndex(e); c >= 0 {
			rows[i].Cells[c] = rows[i].Cells[c].Add(e.Hours)
			rows[i].Total = rows[i].Total.Add(e.Hours)
		}

		if e.Status == StatusPendingApproval {
			rows[i].Pending = true
			if e.FlagReason != ReasonNone {
				rows[i].Flagged = true
			}
		}
	}

	return rows
}
