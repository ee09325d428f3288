package database

import (
	"backend/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		logger.Warn("failed to auto-migrate models", zap.Error(err))
	}

	return db, nil
}

// Migrate runs AutoMigrate for every core model. Shared with the test
// harness, which runs it against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Role{},
		&model.Permission{},
		&model.Client{},
		&model.Job{},
		&model.Task{},
		&model.Invoice{},
		&model.InvoiceLineItem{},
		&model.TimesheetEntry{},
		&model.TimesheetDraft{},
		&model.OrgSettings{},
		&model.AuditLog{},
	)
}
