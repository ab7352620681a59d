package persistence

import (
	"context"

	appstock "github.com/pharmstock/backend/internal/application/stock"
	"github.com/pharmstock/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// BatchRepo returns the batch repository scoped to the current transaction
func (r *gormTransactionalRepositories) BatchRepo() stock.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

// LedgerRepo returns the ledger entry repository scoped to the current transaction
func (r *gormTransactionalRepositories) LedgerRepo() stock.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

var _ appstock.TransactionScope = (*GormTransactionScope)(nil)
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
