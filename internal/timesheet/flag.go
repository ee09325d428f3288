package timesheet

import "github.com/shopspring/decimal"

// Flag evaluates the daily-hours rules against the aggregated total for
// the day (including the entry being logged, not the entry alone).
// A total exactly at the threshold is never flagged; both comparisons
// are strict. If the under and over checks both trip — only reachable
// when the threshold changes across a multi-entry day — the reason
// collapses to MULTIPLE.
func Flag(dayTotal, dailyThreshold decimal.Decimal, flagUnder, flagOver bool) string {
	under := flagUnder && dayTotal.LessThan(dailyThreshold)
	over := flagOver && dayTotal.GreaterThan(dailyThreshold)

	switch {
	case under && over:
		return ReasonMultiple
	case under:
		return ReasonUnderHours
	case over:
		return ReasonOverHours
	default:
		return ReasonNone
	}
}

// JobOvertime reports whether a job has run past its quote: the sum of
// actual hours across the job's tasks exceeds the quoted hours.
func JobOvertime(taskActualHours, quotedHours decimal.Decimal, flagJobOvertime bool) bool {
	if !flagJobOvertime {
		return false
	}
	return taskActualHours.GreaterThan(quotedHours)
}

// Combine merges the daily-hours reason with the job-overtime check
// into the single reason stored on the entry.
func Combine(dailyReason string, jobOvertime bool) string {
	if !jobOvertime {
		return dailyReason
	}
	if dailyReason == ReasonNone {
		return ReasonJobOvertime
	}
	return ReasonMultiple
}

// StatusForReason maps a flag reason onto the initial entry status:
// any flag routes the entry through manager approval.
func StatusForReason(reason string) string {
	if reason == ReasonNone {
		return StatusPendingNormal
	}
	return StatusPendingApproval
}

// Submission gate states for draft-entry batches.
const (
	GateBelowThreshold = "below_threshold"
	GateAllowed        = "allowed"
	GateExceeded       = "threshold_exceeded"
)

// SubmissionGate decides whether a user may submit their accumulated
// draft entries for a period. The weekly target assumes a five-day work
// week; monthly submission is never gated. Totals short of the target
// keep accumulating; totals past it block self-submission and require a
// manager to push the batch through — deliberate friction, not an
// error.
func SubmissionGate(totalHours decimal.Decimal, periodKind string, dailyThreshold decimal.Decimal) string {
	var target decimal.Decimal
	switch periodKind {
	case PeriodDaily:
		target = dailyThreshold
	case PeriodWeekly:
		target = dailyThreshold.Mul(decimal.NewFromInt(5))
	default:
		return GateAllowed
	}

	switch {
	case totalHours.LessThan(target):
		return GateBelowThreshold
	case totalHours.GreaterThan(target):
		return GateExceeded
	default:
		return GateAllowed
	}
}
