package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobListFilter narrows job listings.
type JobListFilter struct {
	Status   string
	ClientID *uuid.UUID
	Search   string // partial match on code or title
	Page     int
	Limit    int
}

type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error)
	FindByIDWithTasks(ctx context.Context, id uuid.UUID) (*model.Job, error)
	List(ctx context.Context, filter JobListFilter) ([]model.Job, int64, error)
	ListAll(ctx context.Context) ([]model.Job, error)
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountJobs(ctx context.Context) (int64, error)

	CreateTask(ctx context.Context, task *model.Task) error
	FindTaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListTasks(ctx context.Context, jobID uuid.UUID) ([]model.Task, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	return GetDB(ctx, r.db).Create(job).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	if err := GetDB(ctx, r.db).Preload("Client").First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) FindByIDWithTasks(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	if err := GetDB(ctx, r.db).Preload("Client").Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc")
	}).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) List(ctx context.Context, filter JobListFilter) ([]model.Job, int64, error) {
	var jobs []model.Job
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Job{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Search != "" {
		query = query.Where("code ILIKE ? OR title ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Client").Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepository) ListAll(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	if err := GetDB(ctx, r.db).Order("created_at asc").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) Update(ctx context.Context, job *model.Job) error {
	return GetDB(ctx, r.db).Save(job).Error
}

func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Job{}, "id = ?", id).Error
}

func (r *jobRepository) CountJobs(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Unscoped().Model(&model.Job{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *jobRepository) CreateTask(ctx context.Context, task *model.Task) error {
	return GetDB(ctx, r.db).Create(task).Error
}

func (r *jobRepository) FindTaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := GetDB(ctx, r.db).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *jobRepository) UpdateTask(ctx context.Context, task *model.Task) error {
	return GetDB(ctx, r.db).Save(task).Error
}

func (r *jobRepository) ListTasks(ctx context.Context, jobID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	if err := GetDB(ctx, r.db).Where("job_id = ?", jobID).Order("created_at asc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *jobRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Task{}, "id = ?", id).Error
}
