package repository

import (
	"context"

	"gorm.io/gorm"
)

// txCtxKey is unexported so no other package can collide with the
// transaction value stored in the context.
type txCtxKey struct{}

// TransactionManager runs a unit of work inside a single database
// transaction. The transactional *gorm.DB travels through the context,
// so repository methods called inside fn join the transaction without
// any signature changes.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &transactionManager{db: db}
}

// RunInTx commits when fn returns nil and rolls back on error or panic.
func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txCtxKey{}, tx))
	})
}

// GetDB returns the transaction handle carried by ctx, falling back to
// the root connection outside a transaction.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txCtxKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
