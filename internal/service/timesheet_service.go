package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/period"
	"backend/internal/repository"
	"backend/internal/timesheet"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type LogTimeRequest struct {
	JobID     string `json:"job_id" binding:"required"`
	TaskID    string `json:"task_id" binding:"required"`
	EntryDate string `json:"entry_date" binding:"required"` // YYYY-MM-DD
	Hours     string `json:"hours" binding:"required"`
	Billable  *bool  `json:"billable"`
}

type UpdateEntryRequest struct {
	EntryDate *string `json:"entry_date"`
	Hours     *string `json:"hours"`
	Billable  *bool   `json:"billable"`
}

type RejectEntryRequest struct {
	Note string `json:"note" binding:"required"`
}

type EntryResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Username      string  `json:"username,omitempty"`
	JobID         string  `json:"job_id"`
	JobCode       string  `json:"job_code,omitempty"`
	TaskID        string  `json:"task_id"`
	TaskTitle     string  `json:"task_title,omitempty"`
	EntryDate     string  `json:"entry_date"`
	Hours         string  `json:"hours"`
	Billable      bool    `json:"billable"`
	Status        string  `json:"status"`
	FlagReason    string  `json:"flag_reason,omitempty"`
	RejectionNote string  `json:"rejection_note,omitempty"`
	ApprovedAt    *string `json:"approved_at"`
	CreatedAt     string  `json:"created_at"`
}

// TableRow is one grouped line of the weekly or monthly table. Cells
// align with the returned labels. Flagged carries the notification
// emphasis and respects the org notify toggle; Pending always reflects
// the approval workflow regardless of that toggle.
type TableRow struct {
	UserID    string   `json:"user_id"`
	Username  string   `json:"username"`
	JobID     string   `json:"job_id"`
	JobCode   string   `json:"job_code"`
	TaskID    string   `json:"task_id"`
	TaskTitle string   `json:"task_title"`
	Cells     []string `json:"cells"`
	Total     string   `json:"total"`
	Pending   bool     `json:"pending"`
	Flagged   bool     `json:"flagged"`
}

type TableResponse struct {
	Labels []string   `json:"labels"`
	Rows   []TableRow `json:"rows"`
}

type DraftPayload struct {
	SchemaVersion int                `json:"schema_version"`
	Entries       []model.DraftEntry `json:"entries"`
}

// SubmitDraftsResult reports the gate decision and, when submission
// went through, the created entries.
type SubmitDraftsResult struct {
	Gate      string          `json:"gate"`
	Submitted []EntryResponse `json:"submitted,omitempty"`
}

// --- Interface ---

type TimesheetService interface {
	LogTime(ctx context.Context, userID string, req LogTimeRequest) (EntryResponse, error)
	UpdateEntry(ctx context.Context, userID, entryID string, req UpdateEntryRequest) (EntryResponse, error)
	ApproveEntry(ctx context.Context, managerID, entryID string) (EntryResponse, error)
	RejectEntry(ctx context.Context, managerID, entryID, note string) (EntryResponse, error)
	ListEntries(ctx context.Context, userID, periodKind, anchor string) ([]EntryResponse, error)
	WeeklyTable(ctx context.Context, anchor string) (TableResponse, error)
	MonthlyTable(ctx context.Context, anchor string) (TableResponse, error)

	GetDraft(ctx context.Context, userID string) (DraftPayload, error)
	SaveDraft(ctx context.Context, userID string, payload DraftPayload) error
	SubmitDrafts(ctx context.Context, userID, periodKind, anchor string, managerOverride bool) (SubmitDraftsResult, error)
}

type timesheetService struct {
	timesheetRepo repository.TimesheetRepository
	jobRepo       repository.JobRepository
	settingsRepo  repository.SettingsRepository
	txManager     repository.TransactionManager
	audit         AuditService
	hub           *websocket.Hub
	now           func() time.Time
}

func NewTimesheetService(
	timesheetRepo repository.TimesheetRepository,
	jobRepo repository.JobRepository,
	settingsRepo repository.SettingsRepository,
	txManager repository.TransactionManager,
	audit AuditService,
	hub *websocket.Hub,
) TimesheetService {
	return &timesheetService{
		timesheetRepo: timesheetRepo,
		jobRepo:       jobRepo,
		settingsRepo:  settingsRepo,
		txManager:     txManager,
		audit:         audit,
		hub:           hub,
		now:           time.Now,
	}
}

// --- Implementation ---

func (s *timesheetService) LogTime(ctx context.Context, userID string, req LogTimeRequest) (EntryResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return EntryResponse{}, fmt.Errorf("invalid user id: %w", err)
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return EntryResponse{}, fmt.Errorf("invalid job_id: %w", err)
	}
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		return EntryResponse{}, fmt.Errorf("invalid task_id: %w", err)
	}

	entryDate, err := period.ParseDayKey(req.EntryDate)
	if err != nil {
		return EntryResponse{}, err
	}

	hours, err := parseHours(req.Hours)
	if err != nil {
		return EntryResponse{}, err
	}

	task, err := s.jobRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return EntryResponse{}, fmt.Errorf("task not found: %w", err)
	}
	if task.JobID != jobID {
		return EntryResponse{}, fmt.Errorf("task does not belong to job")
	}

	billable := true
	if req.Billable != nil {
		billable = *req.Billable
	}

	var entry model.TimesheetEntry
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		reason, flagErr := s.evaluateFlags(txCtx, uid, jobID, entryDate, hours)
		if flagErr != nil {
			return flagErr
		}

		entry = model.TimesheetEntry{
			UserID:     uid,
			JobID:      jobID,
			TaskID:     taskID,
			EntryDate:  entryDate,
			Hours:      hours,
			Billable:   billable,
			Status:     timesheet.StatusForReason(reason),
			FlagReason: reason,
		}
		if createErr := s.timesheetRepo.Create(txCtx, &entry); createErr != nil {
			return fmt.Errorf("failed to create entry: %w", createErr)
		}

		// Unflagged entries count toward task/job actuals immediately;
		// flagged ones wait for approval
		if entry.Status == timesheet.StatusPendingNormal {
			if recalcErr := s.recalcActualHours(txCtx, taskID, jobID); recalcErr != nil {
				return recalcErr
			}
		}
		return nil
	})
	if err != nil {
		return EntryResponse{}, err
	}

	s.audit.Record(ctx, userID, model.ActionLogTime, entry.ID.String(), "", map[string]string{
		"date":  req.EntryDate,
		"hours": hours.StringFixed(2),
	})
	s.notifyIfFlagged(ctx, entry)

	return s.getEntry(ctx, entry.ID)
}

func (s *timesheetService) UpdateEntry(ctx context.Context, userID, entryID string, req UpdateEntryRequest) (EntryResponse, error) {
	id, err := uuid.Parse(entryID)
	if err != nil {
		return EntryResponse{}, fmt.Errorf("invalid entry id: %w", err)
	}

	var entry *model.TimesheetEntry
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		entry, findErr = s.timesheetRepo.FindByID(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("entry not found: %w", findErr)
		}

		if entry.Status == timesheet.StatusApproved {
			return fmt.Errorf("%w: approved entries cannot be edited", ErrInvalidTransition)
		}

		if req.EntryDate != nil {
			date, parseErr := period.ParseDayKey(*req.EntryDate)
			if parseErr != nil {
				return parseErr
			}
			entry.EntryDate = date
		}
		if req.Hours != nil {
			hours, parseErr := parseHours(*req.Hours)
			if parseErr != nil {
				return parseErr
			}
			entry.Hours = hours
		}
		if req.Billable != nil {
			entry.Billable = *req.Billable
		}

		// Editing re-runs flagging from scratch — the day total changed
		reason, flagErr := s.evaluateFlagsExcluding(txCtx, entry.UserID, entry.JobID, entry.EntryDate, entry.Hours, entry.ID)
		if flagErr != nil {
			return flagErr
		}
		entry.FlagReason = reason
		entry.Status = timesheet.StatusForReason(reason)
		entry.RejectionNote = ""

		if updateErr := s.timesheetRepo.Update(txCtx, entry); updateErr != nil {
			return fmt.Errorf("failed to update entry: %w", updateErr)
		}
		return s.recalcActualHours(txCtx, entry.TaskID, entry.JobID)
	})
	if err != nil {
		return EntryResponse{}, err
	}

	s.notifyIfFlagged(ctx, *entry)
	return s.getEntry(ctx, id)
}

func (s *timesheetService) ApproveEntry(ctx context.Context, managerID, entryID string) (EntryResponse, error) {
	return s.decideEntry(ctx, managerID, entryID, timesheet.StatusApproved, "")
}

func (s *timesheetService) RejectEntry(ctx context.Context, managerID, entryID, note string) (EntryResponse, error) {
	if note == "" {
		return EntryResponse{}, fmt.Errorf("rejection requires a note")
	}
	return s.decideEntry(ctx, managerID, entryID, timesheet.StatusRejected, note)
}

func (s *timesheetService) decideEntry(ctx context.Context, managerID, entryID, newStatus, note string) (EntryResponse, error) {
	id, err := uuid.Parse(entryID)
	if err != nil {
		return EntryResponse{}, fmt.Errorf("invalid entry id: %w", err)
	}
	approverID, err := uuid.Parse(managerID)
	if err != nil {
		return EntryResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		entry, findErr := s.timesheetRepo.FindByID(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("entry not found: %w", findErr)
		}

		if entry.Status != timesheet.StatusPendingApproval {
			return ErrNotPendingApproval
		}

		now := s.now()
		entry.Status = newStatus
		entry.RejectionNote = note
		entry.ApprovedBy = &approverID
		entry.ApprovedAt = &now

		if updateErr := s.timesheetRepo.Update(txCtx, entry); updateErr != nil {
			return fmt.Errorf("failed to update entry: %w", updateErr)
		}

		// Approved hours start counting toward task/job actuals
		return s.recalcActualHours(txCtx, entry.TaskID, entry.JobID)
	})
	if err != nil {
		return EntryResponse{}, err
	}

	action := model.ActionApproveTimesheet
	if newStatus == timesheet.StatusRejected {
		action = model.ActionRejectTimesheet
	}
	s.audit.Record(ctx, managerID, action, entryID, "", nil)
	s.hub.Publish(websocket.EventTimesheetDecided, map[string]string{
		"entry_id": entryID,
		"status":   newStatus,
	})

	return s.getEntry(ctx, id)
}

func (s *timesheetService) ListEntries(ctx context.Context, userID, periodKind, anchor string) ([]EntryResponse, error) {
	anchorDate, err := s.parseAnchor(anchor)
	if err != nil {
		return nil, err
	}

	filter, err := periodFilter(periodKind, anchorDate)
	if err != nil {
		return nil, err
	}
	if userID != "" {
		uid, parseErr := uuid.Parse(userID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid user id: %w", parseErr)
		}
		filter.UserID = &uid
	}

	entries, err := s.timesheetRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	// The DB range pre-filters; the pure projection stays authoritative
	filtered := timesheet.FilterPeriod(toCalcEntries(entries), periodKind, anchorDate)
	keep := make(map[uuid.UUID]bool, len(filtered))
	for _, e := range filtered {
		keep[e.ID] = true
	}

	result := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		if keep[entry.ID] {
			result = append(result, toEntryResponse(entry))
		}
	}
	return result, nil
}

func (s *timesheetService) WeeklyTable(ctx context.Context, anchor string) (TableResponse, error) {
	anchorDate, err := s.parseAnchor(anchor)
	if err != nil {
		return TableResponse{}, err
	}

	monday := period.Monday(anchorDate)
	days := period.WeekDays(monday)

	filter, _ := periodFilter(timesheet.PeriodWeekly, anchorDate)
	entries, err := s.timesheetRepo.List(ctx, filter)
	if err != nil {
		return TableResponse{}, fmt.Errorf("failed to fetch entries: %w", err)
	}

	rows := timesheet.GroupByDays(toCalcEntries(entries), days)

	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Format("Mon 02")
	}
	return s.buildTable(ctx, labels, rows, entries)
}

func (s *timesheetService) MonthlyTable(ctx context.Context, anchor string) (TableResponse, error) {
	anchorDate, err := s.parseAnchor(anchor)
	if err != nil {
		return TableResponse{}, err
	}

	buckets := period.MonthWeeks(anchorDate)

	filter, _ := periodFilter(timesheet.PeriodMonthly, anchorDate)
	entries, err := s.timesheetRepo.List(ctx, filter)
	if err != nil {
		return TableResponse{}, fmt.Errorf("failed to fetch entries: %w", err)
	}

	rows := timesheet.GroupByBuckets(toCalcEntries(entries), buckets)

	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}
	return s.buildTable(ctx, labels, rows, entries)
}

// buildTable joins pure grouped rows back to display names and applies
// the notification toggle to the flagged emphasis. Pending stays
// untouched: whether approval is required never depends on
// notification preferences.
func (s *timesheetService) buildTable(ctx context.Context, labels []string, rows []timesheet.Row, entries []model.TimesheetEntry) (TableResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return TableResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	type names struct {
		username  string
		jobCode   string
		taskTitle string
	}
	lookup := make(map[timesheet.GroupKey]names)
	for _, entry := range entries {
		key := timesheet.GroupKey{UserID: entry.UserID, JobID: entry.JobID, TaskID: entry.TaskID}
		if _, ok := lookup[key]; ok {
			continue
		}
		n := names{}
		if entry.User != nil {
			n.username = entry.User.Username
		}
		if entry.Job != nil {
			n.jobCode = entry.Job.Code
		}
		if entry.Task != nil {
			n.taskTitle = entry.Task.Title
		}
		lookup[key] = n
	}

	out := TableResponse{Labels: labels, Rows: make([]TableRow, 0, len(rows))}
	for _, row := range rows {
		n := lookup[row.Key]
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.StringFixed(2)
		}
		out.Rows = append(out.Rows, TableRow{
			UserID:    row.Key.UserID.String(),
			Username:  n.username,
			JobID:     row.Key.JobID.String(),
			JobCode:   n.jobCode,
			TaskID:    row.Key.TaskID.String(),
			TaskTitle: n.taskTitle,
			Cells:     cells,
			Total:     row.Total.StringFixed(2),
			Pending:   row.Pending,
			Flagged:   row.Flagged && settings.NotifyFlaggedTimesheets,
		})
	}
	return out, nil
}

// --- Drafts ---

func (s *timesheetService) GetDraft(ctx context.Context, userID string) (DraftPayload, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return DraftPayload{}, fmt.Errorf("invalid user id: %w", err)
	}

	draft, err := s.timesheetRepo.GetDraft(ctx, uid)
	if err != nil {
		if isNotFound(err) {
			return DraftPayload{SchemaVersion: model.DraftSchemaVersion}, nil
		}
		return DraftPayload{}, fmt.Errorf("failed to load draft: %w", err)
	}

	if draft.SchemaVersion != model.DraftSchemaVersion {
		return DraftPayload{}, fmt.Errorf("%w: stored %d, expected %d", ErrDraftSchema, draft.SchemaVersion, model.DraftSchemaVersion)
	}

	var entries []model.DraftEntry
	if err := json.Unmarshal([]byte(draft.Payload), &entries); err != nil {
		return DraftPayload{}, fmt.Errorf("corrupt draft payload: %w", err)
	}
	return DraftPayload{SchemaVersion: draft.SchemaVersion, Entries: entries}, nil
}

func (s *timesheetService) SaveDraft(ctx context.Context, userID string, payload DraftPayload) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	if payload.SchemaVersion != 0 && payload.SchemaVersion != model.DraftSchemaVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrDraftSchema, payload.SchemaVersion, model.DraftSchemaVersion)
	}

	for i, entry := range payload.Entries {
		if _, err := period.ParseDayKey(entry.EntryDate); err != nil {
			return fmt.Errorf("draft entry %d: %w", i+1, err)
		}
		if !entry.Hours.IsPositive() || entry.Hours.GreaterThan(decimal.NewFromInt(24)) {
			return fmt.Errorf("draft entry %d: hours must be within (0,24]", i+1)
		}
	}

	data, err := json.Marshal(payload.Entries)
	if err != nil {
		return fmt.Errorf("failed to serialize draft: %w", err)
	}

	// Last write wins on the single per-user row
	return s.timesheetRepo.SaveDraft(ctx, &model.TimesheetDraft{
		UserID:        uid,
		SchemaVersion: model.DraftSchemaVersion,
		Payload:       string(data),
	})
}

func (s *timesheetService) SubmitDrafts(ctx context.Context, userID, periodKind, anchor string, managerOverride bool) (SubmitDraftsResult, error) {
	anchorDate, err := s.parseAnchor(anchor)
	if err != nil {
		return SubmitDraftsResult{}, err
	}

	payload, err := s.GetDraft(ctx, userID)
	if err != nil {
		return SubmitDraftsResult{}, err
	}
	if len(payload.Entries) == 0 {
		return SubmitDraftsResult{}, fmt.Errorf("no draft entries to submit")
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return SubmitDraftsResult{}, fmt.Errorf("failed to load settings: %w", err)
	}

	// Split drafts into the submission period and the remainder
	var inPeriod, remainder []model.DraftEntry
	total := decimal.Zero
	for _, draft := range payload.Entries {
		date, _ := period.ParseDayKey(draft.EntryDate)
		if inSubmissionPeriod(date, periodKind, anchorDate) {
			inPeriod = append(inPeriod, draft)
			total = total.Add(draft.Hours)
		} else {
			remainder = append(remainder, draft)
		}
	}
	if len(inPeriod) == 0 {
		return SubmitDraftsResult{}, fmt.Errorf("no draft entries in the selected period")
	}

	gate := timesheet.SubmissionGate(total, periodKind, settings.DailyHoursThreshold)
	switch gate {
	case timesheet.GateBelowThreshold:
		return SubmitDraftsResult{Gate: gate}, ErrBelowThreshold
	case timesheet.GateExceeded:
		if !managerOverride {
			return SubmitDraftsResult{Gate: gate}, ErrThresholdExceeded
		}
	}

	submitted := make([]EntryResponse, 0, len(inPeriod))
	for _, draft := range inPeriod {
		entry, logErr := s.LogTime(ctx, userID, LogTimeRequest{
			JobID:     draft.JobID.String(),
			TaskID:    draft.TaskID.String(),
			EntryDate: draft.EntryDate,
			Hours:     draft.Hours.String(),
			Billable:  &draft.Billable,
		})
		if logErr != nil {
			return SubmitDraftsResult{Gate: gate, Submitted: submitted}, fmt.Errorf("failed to submit draft: %w", logErr)
		}
		submitted = append(submitted, entry)
	}

	// Persist the remainder back so unrelated drafts survive submission
	if saveErr := s.SaveDraft(ctx, userID, DraftPayload{SchemaVersion: model.DraftSchemaVersion, Entries: remainder}); saveErr != nil {
		return SubmitDraftsResult{Gate: gate, Submitted: submitted}, saveErr
	}

	s.audit.Record(ctx, userID, model.ActionSubmitDrafts, userID, "", map[string]interface{}{
		"period": periodKind,
		"count":  len(submitted),
	})

	return SubmitDraftsResult{Gate: gate, Submitted: submitted}, nil
}

// --- Flag evaluation ---

// evaluateFlags computes the flag reason for a prospective entry: the
// daily total including the new hours is checked against the daily
// threshold, and the job's task actuals including the new hours against
// its quote.
func (s *timesheetService) evaluateFlags(ctx context.Context, userID, jobID uuid.UUID, day time.Time, hours decimal.Decimal) (string, error) {
	return s.evaluateFlagsExcluding(ctx, userID, jobID, day, hours, uuid.Nil)
}

func (s *timesheetService) evaluateFlagsExcluding(ctx context.Context, userID, jobID uuid.UUID, day time.Time, hours decimal.Decimal, excludeID uuid.UUID) (string, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}

	dayEntries, err := s.timesheetRepo.ListForUserDay(ctx, userID, day)
	if err != nil {
		return "", fmt.Errorf("failed to load day entries: %w", err)
	}

	dayTotal := hours
	for _, e := range dayEntries {
		if e.ID == excludeID || e.Status == timesheet.StatusRejected {
			continue
		}
		dayTotal = dayTotal.Add(e.Hours)
	}

	dailyReason := timesheet.Flag(dayTotal, settings.DailyHoursThreshold, settings.FlagUnderHours, settings.FlagOverHours)

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return "", fmt.Errorf("job not found: %w", err)
	}
	overtime := timesheet.JobOvertime(job.ActualHours.Add(hours), job.QuotedHours, settings.FlagJobOvertime && job.QuotedHours.IsPositive())

	return timesheet.Combine(dailyReason, overtime), nil
}

// recalcActualHours recomputes a task's actuals from its countable
// entries (pending_normal and approved), then rolls the job total up
// from its tasks.
func (s *timesheetService) recalcActualHours(ctx context.Context, taskID, jobID uuid.UUID) error {
	task, err := s.jobRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("task not found: %w", err)
	}

	entries, err := s.timesheetRepo.List(ctx, repository.TimesheetListFilter{JobID: &jobID})
	if err != nil {
		return fmt.Errorf("failed to load job entries: %w", err)
	}

	taskTotal := decimal.Zero
	for _, e := range entries {
		if e.TaskID != taskID {
			continue
		}
		if e.Status == timesheet.StatusPendingNormal || e.Status == timesheet.StatusApproved {
			taskTotal = taskTotal.Add(e.Hours)
		}
	}
	task.ActualHours = taskTotal
	if err := s.jobRepo.UpdateTask(ctx, task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	tasks, err := s.jobRepo.ListTasks(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	jobTotal := decimal.Zero
	for _, t := range tasks {
		jobTotal = jobTotal.Add(t.ActualHours)
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("job not found: %w", err)
	}
	job.ActualHours = jobTotal
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

// notifyIfFlagged broadcasts a flagged entry when the org wants the
// feed. The toggle gates notifications only — the entry is already
// pending approval either way.
func (s *timesheetService) notifyIfFlagged(ctx context.Context, entry model.TimesheetEntry) {
	if entry.Status != timesheet.StatusPendingApproval {
		return
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil || !settings.NotifyFlaggedTimesheets {
		return
	}
	s.hub.Publish(websocket.EventTimesheetFlagged, map[string]string{
		"entry_id": entry.ID.String(),
		"user_id":  entry.UserID.String(),
		"date":     entry.EntryDate.Format(dateFormat),
		"hours":    entry.Hours.StringFixed(2),
		"reason":   entry.FlagReason,
	})
}

// --- Helpers ---

func (s *timesheetService) parseAnchor(anchor string) (time.Time, error) {
	if anchor == "" {
		now := s.now()
		return period.Truncate(now), nil
	}
	return period.ParseDayKey(anchor)
}

func (s *timesheetService) getEntry(ctx context.Context, id uuid.UUID) (EntryResponse, error) {
	entry, err := s.timesheetRepo.FindByID(ctx, id)
	if err != nil {
		return EntryResponse{}, fmt.Errorf("entry not found: %w", err)
	}
	return toEntryResponse(*entry), nil
}

func parseHours(raw string) (decimal.Decimal, error) {
	hours, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid hours: %w", err)
	}
	if !hours.IsPositive() || hours.GreaterThan(decimal.NewFromInt(24)) {
		return decimal.Zero, fmt.Errorf("hours must be within (0,24]")
	}
	return hours, nil
}

func periodFilter(periodKind string, anchor time.Time) (repository.TimesheetListFilter, error) {
	var from, to time.Time
	switch periodKind {
	case timesheet.PeriodDaily:
		from, to = period.Truncate(anchor), period.Truncate(anchor)
	case timesheet.PeriodWeekly:
		from = period.Monday(anchor)
		to = from.AddDate(0, 0, 6)
	case timesheet.PeriodMonthly:
		from = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		to = from.AddDate(0, 1, -1)
	default:
		return repository.TimesheetListFilter{}, fmt.Errorf("unknown period %q", periodKind)
	}
	return repository.TimesheetListFilter{DateFrom: &from, DateTo: &to}, nil
}

func inSubmissionPeriod(date time.Time, periodKind string, anchor time.Time) bool {
	switch periodKind {
	case timesheet.PeriodDaily:
		return period.SameDay(date, anchor)
	case timesheet.PeriodWeekly:
		monday := period.Monday(anchor)
		d := period.Truncate(date)
		return !d.Before(monday) && !d.After(monday.AddDate(0, 0, 6))
	case timesheet.PeriodMonthly:
		return period.SameMonth(date, anchor)
	default:
		return false
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// --- Mapping ---

func toCalcEntries(entries []model.TimesheetEntry) []timesheet.Entry {
	out := make([]timesheet.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, timesheet.Entry{
			ID:         e.ID,
			UserID:     e.UserID,
			JobID:      e.JobID,
			TaskID:     e.TaskID,
			Date:       e.EntryDate,
			Hours:      e.Hours,
			Billable:   e.Billable,
			Status:     e.Status,
			FlagReason: e.FlagReason,
		})
	}
	return out
}

func toEntryResponse(entry model.TimesheetEntry) EntryResponse {
	resp := EntryResponse{
		ID:            entry.ID.String(),
		UserID:        entry.UserID.String(),
		JobID:         entry.JobID.String(),
		TaskID:        entry.TaskID.String(),
		EntryDate:     entry.EntryDate.Format(dateFormat),
		Hours:         entry.Hours.StringFixed(2),
		Billable:      entry.Billable,
		Status:        entry.Status,
		FlagReason:    entry.FlagReason,
		RejectionNote: entry.RejectionNote,
		CreatedAt:     entry.CreatedAt.Format(timeFormat),
	}
	if entry.User != nil {
		resp.Username = entry.User.Username
	}
	if entry.Job != nil {
		resp.JobCode = entry.Job.Code
	}
	if entry.Task != nil {
		resp.TaskTitle = entry.Task.Title
	}
	if entry.ApprovedAt != nil {
		v := entry.ApprovedAt.Format(timeFormat)
		resp.ApprovedAt = &v
	}
	return resp
}
