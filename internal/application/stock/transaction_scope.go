package stock

import (
	"context"

	"github.com/pharmstock/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to stock repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. This is what binds a batch quantity change and its ledger
// entry into one unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories scoped
// to one transaction
type TransactionalRepositories interface {
	// BatchRepo returns the batch repository scoped to the current transaction
	BatchRepo() stock.BatchRepository
	// LedgerRepo returns the ledger entry repository scoped to the current transaction
	LedgerRepo() stock.LedgerEntryRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	batchRepo  stock.BatchRepository
	ledgerRepo stock.LedgerEntryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(batchRepo stock.BatchRepository, ledgerRepo stock.LedgerEntryRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		batchRepo:  batchRepo,
		ledgerRepo: ledgerRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BatchRepo returns the batch repository.
func (s *NoOpTransactionScope) BatchRepo() stock.BatchRepository {
	return s.batchRepo
}

// LedgerRepo returns the ledger entry repository.
func (s *NoOpTransactionScope) LedgerRepo() stock.LedgerEntryRepository {
	return s.ledgerRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
