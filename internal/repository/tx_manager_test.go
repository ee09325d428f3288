package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"backend/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Client{}))
	return db
}

func TestRunInTxCommits(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db)
	repo := NewClientRepository(db)

	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		return repo.Create(txCtx, &model.Client{CompanyName: "Acme Corp"})
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Client{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db)
	repo := NewClientRepository(db)

	boom := errors.New("boom")
	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		if createErr := repo.Create(txCtx, &model.Client{CompanyName: "Acme Corp"}); createErr != nil {
			return createErr
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&model.Client{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "rolled-back insert must not persist")
}

func TestGetDBFallsBackToRoot(t *testing.T) {
	db := newTestDB(t)
	got := GetDB(context.Background(), db)
	require.NotNil(t, got)

	var count int64
	assert.NoError(t, got.Model(&model.Client{}).Count(&count).Error)
}
