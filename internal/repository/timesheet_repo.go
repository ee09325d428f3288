package repository

import (
	"context"
	"errors"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimesheetListFilter narrows time-entry listings. Date bounds are
// inclusive local days.
type TimesheetListFilter struct {
	UserID   *uuid.UUID
	JobID    *uuid.UUID
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

type TimesheetRepository interface {
	Create(ctx context.Context, entry *model.TimesheetEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TimesheetEntry, error)
	List(ctx context.Context, filter TimesheetListFilter) ([]model.TimesheetEntry, error)
	ListForUserDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]model.TimesheetEntry, error)
	Update(ctx context.Context, entry *model.TimesheetEntry) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetDraft(ctx context.Context, userID uuid.UUID) (*model.TimesheetDraft, error)
	SaveDraft(ctx context.Context, draft *model.TimesheetDraft) error
	DeleteDraft(ctx context.Context, userID uuid.UUID) error
}

type timesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) TimesheetRepository {
	return &timesheetRepository{db: db}
}

func (r *timesheetRepository) Create(ctx context.Context, entry *model.TimesheetEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *timesheetRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TimesheetEntry, error) {
	var entry model.TimesheetEntry
	if err := GetDB(ctx, r.db).Preload("Job").Preload("Task").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timesheetRepository) List(ctx context.Context, filter TimesheetListFilter) ([]model.TimesheetEntry, error) {
	db := GetDB(ctx, r.db)
	query := db.Model(&model.TimesheetEntry{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.JobID != nil {
		query = query.Where("job_id = ?", *filter.JobID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("entry_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("entry_date <= ?", *filter.DateTo)
	}

	var entries []model.TimesheetEntry
	if err := query.Preload("User").Preload("Job").Preload("Task").
		Order("created_at asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *timesheetRepository) ListForUserDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]model.TimesheetEntry, error) {
	var entries []model.TimesheetEntry
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND entry_date = ?", userID, day).
		Order("created_at asc").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *timesheetRepository) Update(ctx context.Context, entry *model.TimesheetEntry) error {
	return GetDB(ctx, r.db).Save(entry).Error
}

func (r *timesheetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.TimesheetEntry{}, "id = ?", id).Error
}

func (r *timesheetRepository) GetDraft(ctx context.Context, userID uuid.UUID) (*model.TimesheetDraft, error) {
	var draft model.TimesheetDraft
	if err := GetDB(ctx, r.db).First(&draft, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

// SaveDraft upserts the single draft row per user, last write wins.
func (r *timesheetRepository) SaveDraft(ctx context.Context, draft *model.TimesheetDraft) error {
	db := GetDB(ctx, r.db)
	var existing model.TimesheetDraft
	err := db.First(&existing, "user_id = ?", draft.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(draft).Error
	}
	if err != nil {
		return err
	}
	existing.SchemaVersion = draft.SchemaVersion
	existing.Payload = draft.Payload
	return db.Save(&existing).Error
}

func (r *timesheetRepository) DeleteDraft(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.TimesheetDraft{}, "user_id = ?", userID).Error
}
