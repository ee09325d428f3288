package repository

import (
	"context"
	"errors"

	"backend/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*model.OrgSettings, error)
	Update(ctx context.Context, settings *model.OrgSettings) error
	// NextInvoiceSequence atomically increments and returns the new
	// sequence value. Callers run it inside a transaction so two
	// concurrent invoice creations never share a number.
	NextInvoiceSequence(ctx context.Context) (int64, error)
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the singleton settings row, creating a defaults row on
// first access.
func (r *settingsRepository) Get(ctx context.Context) (*model.OrgSettings, error) {
	db := GetDB(ctx, r.db)
	var settings model.OrgSettings
	err := db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if createErr := db.Create(&settings).Error; createErr != nil {
			return nil, createErr
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *model.OrgSettings) error {
	return GetDB(ctx, r.db).Save(settings).Error
}

func (r *settingsRepository) NextInvoiceSequence(ctx context.Context) (int64, error) {
	db := GetDB(ctx, r.db)
	settings, err := r.Get(ctx)
	if err != nil {
		return 0, err
	}
	if err := db.Model(&model.OrgSettings{}).
		Where("id = ?", settings.ID).
		UpdateColumn("invoice_sequence", gorm.Expr("invoice_sequence + 1")).Error; err != nil {
		return 0, err
	}
	var updated model.OrgSettings
	if err := db.First(&updated, "id = ?", settings.ID).Error; err != nil {
		return 0, err
	}
	return updated.InvoiceSequence, nil
}
