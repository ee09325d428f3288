package timesheet

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestFlagAgainstDailyThreshold(t *testing.T) {
	threshold := dec(t, "8")

	cases := []struct {
		total string
		want  string
	}{
		{"7.9", ReasonUnderHours},
		{"8", ReasonNone}, // exactly the threshold is fine in both directions
		{"8.0", ReasonNone},
		{"8.1", ReasonOverHours},
	}
	for _, tc := range cases {
		got := Flag(dec(t, tc.total), threshold, true, true)
		assert.Equal(t, tc.want, got, "Flag(%s)", tc.total)
	}
}

func TestFlagRespectsToggles(t *testing.T) {
	threshold := dec(t, "8")
	assert.Equal(t, ReasonNone, Flag(dec(t, "2"), threshold, false, true))
	assert.Equal(t, ReasonNone, Flag(dec(t, "12"), threshold, true, false))
}

func TestFlagOnAggregatedTotal(t *testing.T) {
	// three 3h entries on one day: each alone is under, the total is over
	entries := []Entry{
		{Hours: dec(t, "3")},
		{Hours: dec(t, "3")},
		{Hours: dec(t, "3")},
	}
	total := TotalHours(entries)
	assert.True(t, total.Equal(dec(t, "9")))
	assert.Equal(t, ReasonOverHours, Flag(total, dec(t, "8"), true, true))
}

func TestJobOvertime(t *testing.T) {
	assert.True(t, JobOvertime(dec(t, "41"), dec(t, "40"), true))
	assert.False(t, JobOvertime(dec(t, "40"), dec(t, "40"), true)) // strict comparison
	assert.False(t, JobOvertime(dec(t, "41"), dec(t, "40"), false))
}

func TestCombine(t *testing.T) {
	assert.Equal(t, ReasonNone, Combine(ReasonNone, false))
	assert.Equal(t, ReasonOverHours, Combine(ReasonOverHours, false))
	assert.Equal(t, ReasonJobOvertime, Combine(ReasonNone, true))
	assert.Equal(t, ReasonMultiple, Combine(ReasonUnderHours, true))
	assert.Equal(t, ReasonMultiple, Combine(ReasonOverHours, true))
}

func TestStatusForReason(t *testing.T) {
	assert.Equal(t, StatusPendingNormal, StatusForReason(ReasonNone))
	assert.Equal(t, StatusPendingApproval, StatusForReason(ReasonUnderHours))
	assert.Equal(t, StatusPendingApproval, StatusForReason(ReasonMultiple))
}

func TestSubmissionGateDaily(t *testing.T) {
	threshold := dec(t, "8")
	assert.Equal(t, GateBelowThreshold, SubmissionGate(dec(t, "7.5"), PeriodDaily, threshold))
	assert.Equal(t, GateAllowed, SubmissionGate(dec(t, "8"), PeriodDaily, threshold))
	assert.Equal(t, GateExceeded, SubmissionGate(dec(t, "8.25"), PeriodDaily, threshold))
}

func TestSubmissionGateWeekly(t *testing.T) {
	// weekly target is five working days worth of the daily threshold
	threshold := dec(t, "8")
	assert.Equal(t, GateBelowThreshold, SubmissionGate(dec(t, "39.99"), PeriodWeekly, threshold))
	assert.Equal(t, GateAllowed, SubmissionGate(dec(t, "40"), PeriodWeekly, threshold))
	assert.Equal(t, GateExceeded, SubmissionGate(dec(t, "41"), PeriodWeekly, threshold))
}

func TestSubmissionGateMonthlyAlwaysAllowed(t *testing.T) {
	threshold := dec(t, "8")
	assert.Equal(t, GateAllowed, SubmissionGate(dec(t, "1"), PeriodMonthly, threshold))
	assert.Equal(t, GateAllowed, SubmissionGate(dec(t, "300"), PeriodMonthly, threshold))
}
