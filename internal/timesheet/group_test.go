package timesheet

import (
	"testing"
	"time"

	"backend/internal/period"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestGroupByDays(t *testing.T) {
	user := uuid.New()
	job := uuid.New()
	taskA := uuid.New()
	taskB := uuid.New()

	monday := day(2025, 1, 6)
	days := period.WeekDays(monday)

	entries := []Entry{
		{UserID: user, JobID: job, TaskID: taskA, Date: monday, Hours: dec(t, "4"), Status: StatusPendingNormal},
		{UserID: user, JobID: job, TaskID: taskA, Date: monday, Hours: dec(t, "2"), Status: StatusPendingNormal},
		{UserID: user, JobID: job, TaskID: taskA, Date: monday.AddDate(0, 0, 2), Hours: dec(t, "8"), Status: StatusPendingNormal},
		{UserID: user, JobID: job, TaskID: taskB, Date: monday, Hours: dec(t, "1"), Status: StatusPendingApproval, FlagReason: ReasonUnderHours},
	}

	rows := GroupByDays(entries, days)
	require.Len(t, rows, 2)

	// first-seen order: taskA row first
	assert.Equal(t, taskA, rows[0].Key.TaskID)
	assert.True(t, rows[0].Cells[0].Equal(dec(t, "6")), "Monday cell should sum both entries")
	assert.True(t, rows[0].Cells[2].Equal(dec(t, "8")))
	assert.True(t, rows[0].Total.Equal(dec(t, "14")))
	assert.False(t, rows[0].Pending)
	assert.False(t, rows[0].Flagged)

	assert.Equal(t, taskB, rows[1].Key.TaskID)
	assert.True(t, rows[1].Pending)
	assert.True(t, rows[1].Flagged)
}

func TestGroupByDaysIgnoresOutOfWeekEntries(t *testing.T) {
	user, job, task := uuid.New(), uuid.New(), uuid.New()
	days := period.WeekDays(day(2025, 1, 6))

	entries := []Entry{
		{UserID: user, JobID: job, TaskID: task, Date: day(2025, 1, 20), Hours: dec(t, "5"), Status: StatusPendingNormal},
	}

	rows := GroupByDays(entries, days)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Total.IsZero(), "out-of-week hours must not land in any cell")
}

func TestGroupByBuckets(t *testing.T) {
	user, job, task := uuid.New(), uuid.New(), uuid.New()
	buckets := period.MonthWeeks(day(2025, 1, 15))

	entries := []Entry{
		{UserID: user, JobID: job, TaskID: task, Date: day(2025, 1, 2), Hours: dec(t, "8"), Status: StatusPendingNormal},
		{UserID: user, JobID: job, TaskID: task, Date: day(2025, 1, 9), Hours: dec(t, "7.5"), Status: StatusPendingNormal},
		{UserID: user, JobID: job, TaskID: task, Date: day(2025, 1, 31), Hours: dec(t, "3"), Status: StatusPendingNormal},
	}

	rows := GroupByBuckets(entries, buckets)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Cells[0].Equal(dec(t, "8")))
	assert.True(t, rows[0].Cells[1].Equal(dec(t, "7.5")))
	assert.True(t, rows[0].Cells[len(buckets)-1].Equal(dec(t, "3")))
	assert.True(t, rows[0].Total.Equal(dec(t, "18.5")))
}

func TestGroupPendingWithoutReasonIsNotFlagged(t *testing.T) {
	user, job, task := uuid.New(), uuid.New(), uuid.New()
	days := period.WeekDays(day(2025, 1, 6))

	entries := []Entry{
		{UserID: user, JobID: job, TaskID: task, Date: day(2025, 1, 6), Hours: dec(t, "2"), Status: StatusPendingApproval},
	}

	rows := GroupByDays(entries, days)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Pending)
	assert.False(t, rows[0].Flagged)
}

func TestFilterPeriod(t *testing.T) {
	user, job, task := uuid.New(), uuid.New(), uuid.New()
	mk := func(d time.Time) Entry {
		return Entry{UserID: user, JobID: job, TaskID: task, Date: d, Hours: dec(t, "1")}
	}

	entries := []Entry{
		mk(day(2025, 1, 6)),  // Monday
		mk(day(2025, 1, 12)), // Sunday, same week
		mk(day(2025, 1, 13)), // next Monday
		mk(day(2025, 2, 3)),  // next month
	}

	daily := FilterPeriod(entries, PeriodDaily, day(2025, 1, 6))
	assert.Len(t, daily, 1)

	weekly := FilterPeriod(entries, PeriodWeekly, day(2025, 1, 8))
	assert.Len(t, weekly, 2)

	monthly := FilterPeriod(entries, PeriodMonthly, day(2025, 1, 20))
	assert.Len(t, monthly, 3)
}

func TestDayTotal(t *testing.T) {
	user, job, task := uuid.New(), uuid.New(), uuid.New()
	d := day(2025, 1, 6)

	entries := []Entry{
		{UserID: user, JobID: job, TaskID: task, Date: d, Hours: dec(t, "3")},
		{UserID: user, JobID: job, TaskID: task, Date: d, Hours: dec(t, "3")},
		{UserID: user, JobID: job, TaskID: task, Date: d.AddDate(0, 0, 1), Hours: dec(t, "5")},
	}

	assert.True(t, DayTotal(entries, d).Equal(dec(t, "6")))
}
