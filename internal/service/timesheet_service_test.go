package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/timesheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogTimeUnflagged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "40")

	entry, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
		JobID:     jobID,
		TaskID:    taskID,
		EntryDate: "2025-01-06",
		Hours:     "4",
	})
	require.NoError(t, err)

	assert.Equal(t, timesheet.StatusPendingNormal, entry.Status)
	assert.Empty(t, entry.FlagReason)
	assert.True(t, entry.Billable)

	// unflagged hours count toward the job immediately
	job, err := env.jobs.GetJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, "4.00", job.ActualHours)
}

func TestLogTimeOverHoursOnAggregatedDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "40")

	first, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
		JobID: jobID, TaskID: taskID, EntryDate: "2025-01-06", Hours: "5",
	})
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusPendingNormal, first.Status)

	// second entry pushes the day total to 9 > 8
	second, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
		JobID: jobID, TaskID: taskID, EntryDate: "2025-01-06", Hours: "4",
	})
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusPendingApproval, second.Status)
	assert.Equal(t, timesheet.ReasonOverHours, second.FlagReason)

	// the earlier entry keeps its status
	entries, err := env.timesheets.ListEntries(ctx, env.userID, timesheet.PeriodDaily, "2025-01-06")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	statuses := map[string]int{}
	for _, e := range entries {
		statuses[e.Status]++
	}
	assert.Equal(t, map[string]int{timesheet.StatusPendingNormal: 1, timesheet.StatusPendingApproval: 1}, statuses)
}

func TestLogTimeUnderHoursRequiresToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "40")

	// under-hours flagging is off by default
	entry, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
		JobID: jobID, TaskID: taskID, EntryDate: "2025-01-06", Hours: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusPendingNormal, entry.Status)

	env.updateSettings(t, func(s *model.OrgSettings) { s.FlagUnderHours = true })

	entry, err = env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
		JobID: jobID, TaskID: taskID, EntryDate: "2025-01-07", Hours: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusPendingApproval, entry.Status)
	assert.Equal(t, timesheet.ReasonUnderHours, entry.FlagReason)
}

func TestLogTimeJobOvertime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "2")

	entry, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
		JobID: jobID, TaskID: taskID, EntryDate: "2025-01-06", Hours: "3",
	})
	require.NoError(t, err)
	assert.Equal(t, timesheet.ReasonJobOvertime, entry.FlagReason)
	assert.Equal(t, timesheet.StatusPendingApproval, entry.Status)
}

func TestLogTimeMultipleReasons(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "2")

	// 9h on one day against a 2h quote: over-hours and job overtime
	entry, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
		JobID: jobID, TaskID: taskID, EntryDate: "2025-01-06", Hours: "9",
	})
	require.NoError(t, err)
	assert.Equal(t, timesheet.ReasonMultiple, entry.FlagReason)
}

func TestLogTimeRejectsBadHours(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "40")

	for _, hours := range []string{"0", "-1", "25", "abc"} {
		_, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
			JobID: jobID, TaskID: taskID, EntryDate: "2025-01-06", Hours: hours,
		})
		assert.Error(t, err, "hours %q should be rejected", hours)
	}
}

func TestApproveFlaggedEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "2")

	entry, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
		JobID: jobID, TaskID: taskID, EntryDate: "2025-01-06", Hours: "3",
	})
	require.NoError(t, err)
	require.Equal(t, timesheet.StatusPendingApproval, entry.Status)

	// flagged hours are not counted until approved
	job, err := env.jobs.GetJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", job.ActualHours)

	approved, err := env.timesheets.ApproveEntry(ctx, env.userID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	job, err = env.jobs.GetJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, "3.00", job.ActualHours)
}

func TestRejectRequiresNote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "2")

	entry, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
		JobID: jobID, TaskID: taskID, EntryDate: "2025-01-06", Hours: "3",
	})
	require.NoError(t, err)

	_, err = env.timesheets.RejectEntry(ctx, env.userID, entry.ID, "")
	assert.Error(t, err)

	rejected, err := env.timesheets.RejectEntry(ctx, env.userID, entry.ID, "log against the support job instead")
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusRejected, rejected.Status)
	assert.Equal(t, "log against the support job instead", rejected.RejectionNote)
}

func TestApproveOnlyPendingApproval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "40")

	entry, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
		JobID: jobID, TaskID: taskID, EntryDate: "2025-01-06", Hours: "4",
	})
	require.NoError(t, err)
	require.Equal(t, timesheet.StatusPendingNormal, entry.Status)

	_, err = env.timesheets.ApproveEntry(ctx, env.userID, entry.ID)
	assert.ErrorIs(t, err, ErrNotPendingApproval)
}

func TestWeeklyTableGroupsEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "40")

	for _, day := range []string{"2025-01-06", "2025-01-07", "2025-01-08"} {
		_, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
			JobID: jobID, TaskID: taskID, EntryDate: day, Hours: "8",
		})
		require.NoError(t, err)
	}

	table, err := env.timesheets.WeeklyTable(ctx, "2025-01-08")
	require.NoError(t, err)
	require.Len(t, table.Labels, 7)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	assert.Equal(t, "8.00", row.Cells[0])
	assert.Equal(t, "8.00", row.Cells[2])
	assert.Equal(t, "0.00", row.Cells[6])
	assert.Equal(t, "24.00", row.Total)
	assert.Equal(t, "tester", row.Username)
}

func TestDraftRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "40")

	// empty draft comes back with the current schema version
	draft, err := env.timesheets.GetDraft(ctx, env.userID)
	require.NoError(t, err)
	assert.Equal(t, model.DraftSchemaVersion, draft.SchemaVersion)
	assert.Empty(t, draft.Entries)

	jobUUID := mustUUID(t, jobID)
	taskUUID := mustUUID(t, taskID)
	err = env.timesheets.SaveDraft(ctx, env.userID, DraftPayload{
		SchemaVersion: model.DraftSchemaVersion,
		Entries: []model.DraftEntry{
			{JobID: jobUUID, TaskID: taskUUID, EntryDate: "2025-01-06", Hours: decFromString(t, "8"), Billable: true},
		},
	})
	require.NoError(t, err)

	draft, err = env.timesheets.GetDraft(ctx, env.userID)
	require.NoError(t, err)
	require.Len(t, draft.Entries, 1)
	assert.Equal(t, "2025-01-06", draft.Entries[0].EntryDate)
}

func TestSaveDraftRejectsWrongSchema(t *testing.T) {
	env := newTestEnv(t)
	err := env.timesheets.SaveDraft(context.Background(), env.userID, DraftPayload{SchemaVersion: 99})
	assert.ErrorIs(t, err, ErrDraftSchema)
}

func TestSubmitDraftsGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "40")
	jobUUID := mustUUID(t, jobID)
	taskUUID := mustUUID(t, taskID)

	saveDraft := func(hours string) {
		err := env.timesheets.SaveDraft(ctx, env.userID, DraftPayload{
			SchemaVersion: model.DraftSchemaVersion,
			Entries: []model.DraftEntry{
				{JobID: jobUUID, TaskID: taskUUID, EntryDate: "2025-01-06", Hours: decFromString(t, hours), Billable: true},
			},
		})
		require.NoError(t, err)
	}

	// short of the daily threshold: blocked, drafts stay
	saveDraft("6")
	_, err := env.timesheets.SubmitDrafts(ctx, env.userID, timesheet.PeriodDaily, "2025-01-06", false)
	assert.ErrorIs(t, err, ErrBelowThreshold)
	draft, err := env.timesheets.GetDraft(ctx, env.userID)
	require.NoError(t, err)
	assert.Len(t, draft.Entries, 1)

	// past the threshold: needs a manager override
	saveDraft("9")
	_, err = env.timesheets.SubmitDrafts(ctx, env.userID, timesheet.PeriodDaily, "2025-01-06", false)
	assert.ErrorIs(t, err, ErrThresholdExceeded)

	result, err := env.timesheets.SubmitDrafts(ctx, env.userID, timesheet.PeriodDaily, "2025-01-06", true)
	require.NoError(t, err)
	assert.Equal(t, timesheet.GateExceeded, result.Gate)
	require.Len(t, result.Submitted, 1)

	// drafts in the period are consumed
	draft, err = env.timesheets.GetDraft(ctx, env.userID)
	require.NoError(t, err)
	assert.Empty(t, draft.Entries)
}

func TestSubmitDraftsExactThresholdAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "40")

	err := env.timesheets.SaveDraft(ctx, env.userID, DraftPayload{
		SchemaVersion: model.DraftSchemaVersion,
		Entries: []model.DraftEntry{
			{JobID: mustUUID(t, jobID), TaskID: mustUUID(t, taskID), EntryDate: "2025-01-06", Hours: decFromString(t, "8"), Billable: true},
		},
	})
	require.NoError(t, err)

	result, err := env.timesheets.SubmitDrafts(ctx, env.userID, timesheet.PeriodDaily, "2025-01-06", false)
	require.NoError(t, err)
	assert.Equal(t, timesheet.GateAllowed, result.Gate)
	require.Len(t, result.Submitted, 1)
	assert.Equal(t, timesheet.StatusPendingNormal, result.Submitted[0].Status)
}

func TestSubmitDraftsKeepsOutOfPeriodEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "40")
	jobUUID := mustUUID(t, jobID)
	taskUUID := mustUUID(t, taskID)

	err := env.timesheets.SaveDraft(ctx, env.userID, DraftPayload{
		SchemaVersion: model.DraftSchemaVersion,
		Entries: []model.DraftEntry{
			{JobID: jobUUID, TaskID: taskUUID, EntryDate: "2025-01-06", Hours: decFromString(t, "8"), Billable: true},
			{JobID: jobUUID, TaskID: taskUUID, EntryDate: "2025-02-03", Hours: decFromString(t, "4"), Billable: true},
		},
	})
	require.NoError(t, err)

	_, err = env.timesheets.SubmitDrafts(ctx, env.userID, timesheet.PeriodDaily, "2025-01-06", false)
	require.NoError(t, err)

	draft, err := env.timesheets.GetDraft(ctx, env.userID)
	require.NoError(t, err)
	require.Len(t, draft.Entries, 1)
	assert.Equal(t, "2025-02-03", draft.Entries[0].EntryDate)
}
