package service

import (
	"context"
	"fmt"

	"backend/internal/billing"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// jobTransitions is the forward-only job lifecycle. on_hold may resume
// to in_progress; nothing else moves backward.
var jobTransitions = map[string][]string{
	model.JobOpen:       {model.JobInProgress, model.JobClosed},
	model.JobInProgress: {model.JobOnHold, model.JobCompleted},
	model.JobOnHold:     {model.JobInProgress, model.JobClosed},
	model.JobCompleted:  {model.JobInvoiced, model.JobClosed},
	model.JobInvoiced:   {model.JobClosed},
}

// --- DTOs ---

type CreateJobRequest struct {
	Title       string `json:"title" binding:"required"`
	ClientID    string `json:"client_id" binding:"required"`
	BillingType string `json:"billing_type" binding:"required,oneof=fixed hourly"`
	BillingRate string `json:"billing_rate" binding:"required"`
	QuotedHours string `json:"quoted_hours"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Notes       string `json:"notes"`
}

type UpdateJobRequest struct {
	Title       *string `json:"title"`
	BillingType *string `json:"billing_type" binding:"omitempty,oneof=fixed hourly"`
	BillingRate *string `json:"billing_rate"`
	QuotedHours *string `json:"quoted_hours"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Notes       *string `json:"notes"`
}

type JobFilter struct {
	Status   string
	ClientID string
	Search   string
	Page     int
	Limit    int
}

type TaskRequest struct {
	Title          string `json:"title" binding:"required"`
	EstimatedHours string `json:"estimated_hours"`
}

type TaskResponse struct {
	ID             string `json:"id"`
	JobID          string `json:"job_id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	EstimatedHours string `json:"estimated_hours"`
	ActualHours    string `json:"actual_hours"`
}

type JobResponse struct {
	ID          string         `json:"id"`
	Code        string         `json:"code"`
	Title       string         `json:"title"`
	ClientID    string         `json:"client_id"`
	CompanyName string         `json:"company_name,omitempty"`
	BillingType string         `json:"billing_type"`
	BillingRate string         `json:"billing_rate"`
	QuotedHours string         `json:"quoted_hours"`
	ActualHours string         `json:"actual_hours"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	Notes       string         `json:"notes"`
	Overtime    bool           `json:"overtime"` // actual hours past quote
	Tasks       []TaskResponse `json:"tasks,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

// --- Interface ---

type JobService interface {
	CreateJob(ctx context.Context, userID string, req CreateJobRequest) (JobResponse, error)
	GetJob(ctx context.Context, id string) (JobResponse, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]JobResponse, int64, error)
	UpdateJob(ctx context.Context, userID, id string, req UpdateJobRequest) (JobResponse, error)
	TransitionJob(ctx context.Context, userID, id, newStatus string) (JobResponse, error)
	DeleteJob(ctx context.Context, userID, id string) error

	CreateTask(ctx context.Context, jobID string, req TaskRequest) (TaskResponse, error)
	UpdateTaskStatus(ctx context.Context, taskID, status string) (TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error
}

type jobService struct {
	jobRepo    repository.JobRepository
	clientRepo repository.ClientRepository
	txManager  repository.TransactionManager
	audit      AuditService
	hub        *websocket.Hub
}

func NewJobService(
	jobRepo repository.JobRepository,
	clientRepo repository.ClientRepository,
	txManager repository.TransactionManager,
	audit AuditService,
	hub *websocket.Hub,
) JobService {
	return &jobService{
		jobRepo:    jobRepo,
		clientRepo: clientRepo,
		txManager:  txManager,
		audit:      audit,
		hub:        hub,
	}
}

// --- Implementation ---

func (s *jobService) CreateJob(ctx context.Context, userID string, req CreateJobRequest) (JobResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return JobResponse{}, fmt.Errorf("invalid client_id: %w", err)
	}
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return JobResponse{}, fmt.Errorf("referenced client not found: %w", err)
	}

	rate, err := decimal.NewFromString(req.BillingRate)
	if err != nil {
		return JobResponse{}, fmt.Errorf("invalid billing_rate: %w", err)
	}

	quoted := decimal.Zero
	if req.QuotedHours != "" {
		quoted, err = decimal.NewFromString(req.QuotedHours)
		if err != nil {
			return JobResponse{}, fmt.Errorf("invalid quoted_hours: %w", err)
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	var job model.Job
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		code, codeErr := s.nextJobCode(txCtx)
		if codeErr != nil {
			return fmt.Errorf("failed to allocate job code: %w", codeErr)
		}

		job = model.Job{
			Code:        code,
			Title:       req.Title,
			ClientID:    clientID,
			BillingType: req.BillingType,
			BillingRate: rate,
			QuotedHours: quoted,
			ActualHours: decimal.Zero,
			Status:      model.JobOpen,
			Priority:    priority,
			Notes:       req.Notes,
		}
		return s.jobRepo.Create(txCtx, &job)
	})
	if err != nil {
		return JobResponse{}, fmt.Errorf("failed to create job: %w", err)
	}

	s.audit.Record(ctx, userID, model.ActionCreateJob, job.ID.String(), job.Title, nil)

	return s.GetJob(ctx, job.ID.String())
}

func (s *jobService) GetJob(ctx context.Context, id string) (JobResponse, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return JobResponse{}, fmt.Errorf("invalid job id: %w", err)
	}

	job, err := s.jobRepo.FindByIDWithTasks(ctx, jobID)
	if err != nil {
		return JobResponse{}, fmt.Errorf("job not found: %w", err)
	}
	return toJobResponse(*job, true), nil
}

func (s *jobService) ListJobs(ctx context.Context, filter JobFilter) ([]JobResponse, int64, error) {
	repoFilter := repository.JobListFilter{
		Status: filter.Status,
		Search: filter.Search,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.ClientID != "" {
		clientID, err := uuid.Parse(filter.ClientID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid client_id: %w", err)
		}
		repoFilter.ClientID = &clientID
	}

	jobs, total, err := s.jobRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	result := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		result = append(result, toJobResponse(job, false))
	}
	return result, total, nil
}

func (s *jobService) UpdateJob(ctx context.Context, userID, id string, req UpdateJobRequest) (JobResponse, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return JobResponse{}, fmt.Errorf("invalid job id: %w", err)
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return JobResponse{}, fmt.Errorf("job not found: %w", err)
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.BillingType != nil {
		job.BillingType = *req.BillingType
	}
	if req.BillingRate != nil {
		rate, err := decimal.NewFromString(*req.BillingRate)
		if err != nil {
			return JobResponse{}, fmt.Errorf("invalid billing_rate: %w", err)
		}
		job.BillingRate = rate
	}
	if req.QuotedHours != nil {
		quoted, err := decimal.NewFromString(*req.QuotedHours)
		if err != nil {
			return JobResponse{}, fmt.Errorf("invalid quoted_hours: %w", err)
		}
		job.QuotedHours = quoted
	}
	if req.Priority != nil {
		job.Priority = *req.Priority
	}
	if req.Notes != nil {
		job.Notes = *req.Notes
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return JobResponse{}, fmt.Errorf("failed to update job: %w", err)
	}

	s.audit.Record(ctx, userID, model.ActionUpdateJob, job.ID.String(), job.Title, req)

	return s.GetJob(ctx, id)
}

func (s *jobService) TransitionJob(ctx context.Context, userID, id, newStatus string) (JobResponse, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return JobResponse{}, fmt.Errorf("invalid job id: %w", err)
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return JobResponse{}, fmt.Errorf("job not found: %w", err)
	}

	allowed := false
	for _, next := range jobTransitions[job.Status] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return JobResponse{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, newStatus)
	}

	previous := job.Status
	job.Status = newStatus
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return JobResponse{}, fmt.Errorf("failed to update job: %w", err)
	}

	s.audit.Record(ctx, userID, model.ActionJobStatusChange, job.ID.String(), job.Title, map[string]string{
		"from": previous,
		"to":   newStatus,
	})
	s.hub.Publish(websocket.EventJobStatusChanged, map[string]string{
		"job_id": job.ID.String(),
		"code":   job.Code,
		"status": newStatus,
	})

	return s.GetJob(ctx, id)
}

func (s *jobService) DeleteJob(ctx context.Context, userID, id string) error {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid job id: %w", err)
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("job not found: %w", err)
	}

	if job.Status != model.JobOpen {
		return fmt.Errorf("%w: only open jobs can be deleted", ErrInvalidTransition)
	}

	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	s.audit.Record(ctx, userID, model.ActionDeleteJob, id, job.Title, nil)
	return nil
}

func (s *jobService) CreateTask(ctx context.Context, jobID string, req TaskRequest) (TaskResponse, error) {
	parsedJobID, err := uuid.Parse(jobID)
	if err != nil {
		return TaskResponse{}, fmt.Errorf("invalid job id: %w", err)
	}
	if _, err := s.jobRepo.FindByID(ctx, parsedJobID); err != nil {
		return TaskResponse{}, fmt.Errorf("job not found: %w", err)
	}

	estimated := decimal.Zero
	if req.EstimatedHours != "" {
		estimated, err = decimal.NewFromString(req.EstimatedHours)
		if err != nil {
			return TaskResponse{}, fmt.Errorf("invalid estimated_hours: %w", err)
		}
	}

	task := model.Task{
		JobID:          parsedJobID,
		Title:          req.Title,
		Status:         model.TaskTodo,
		EstimatedHours: estimated,
		ActualHours:    decimal.Zero,
	}
	if err := s.jobRepo.CreateTask(ctx, &task); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to create task: %w", err)
	}
	return toTaskResponse(task), nil
}

func (s *jobService) UpdateTaskStatus(ctx context.Context, taskID, status string) (TaskResponse, error) {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return TaskResponse{}, fmt.Errorf("invalid task id: %w", err)
	}

	switch status {
	case model.TaskTodo, model.TaskDoing, model.TaskDone:
	default:
		return TaskResponse{}, fmt.Errorf("invalid task status %q", status)
	}

	task, err := s.jobRepo.FindTaskByID(ctx, id)
	if err != nil {
		return TaskResponse{}, fmt.Errorf("task not found: %w", err)
	}

	task.Status = status
	if err := s.jobRepo.UpdateTask(ctx, task); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to update task: %w", err)
	}
	return toTaskResponse(*task), nil
}

func (s *jobService) DeleteTask(ctx context.Context, taskID string) error {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return fmt.Errorf("invalid task id: %w", err)
	}
	return s.jobRepo.DeleteTask(ctx, id)
}

// nextJobCode allocates the next display code from the all-time job
// count, soft-deleted rows included so codes never repeat.
func (s *jobService) nextJobCode(ctx context.Context) (string, error) {
	count, err := s.jobRepo.CountJobs(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("JOB-%04d", count+1), nil
}

// --- Mapping ---

func toTaskResponse(task model.Task) TaskResponse {
	return TaskResponse{
		ID:             task.ID.String(),
		JobID:          task.JobID.String(),
		Title:          task.Title,
		Status:         task.Status,
		EstimatedHours: task.EstimatedHours.StringFixed(2),
		ActualHours:    task.ActualHours.StringFixed(2),
	}
}

func toJobResponse(job model.Job, includeTasks bool) JobResponse {
	resp := JobResponse{
		ID:          job.ID.String(),
		Code:        job.Code,
		Title:       job.Title,
		ClientID:    job.ClientID.String(),
		BillingType: job.BillingType,
		BillingRate: job.BillingRate.StringFixed(2),
		QuotedHours: job.QuotedHours.StringFixed(2),
		ActualHours: job.ActualHours.StringFixed(2),
		Status:      job.Status,
		Priority:    job.Priority,
		Notes:       job.Notes,
		Overtime:    job.QuotedHours.IsPositive() && job.ActualHours.GreaterThan(job.QuotedHours),
		CreatedAt:   job.CreatedAt.Format(timeFormat),
	}
	if job.Client != nil {
		resp.CompanyName = job.Client.CompanyName
	}
	if includeTasks {
		for _, task := range job.Tasks {
			resp.Tasks = append(resp.Tasks, toTaskResponse(task))
		}
	}
	return resp
}

// jobBillingInput converts a job row into the pure billing projection.
func jobBillingInput(job model.Job) billing.JobBilling {
	return billing.JobBilling{
		Title:       job.Title,
		BillingType: job.BillingType,
		BillingRate: job.BillingRate,
		ActualHours: job.ActualHours,
	}
}
