package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockLedgerEntryRepository(t *testing.T) (*GormLedgerEntryRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormLedgerEntryRepository(gormDB), mock, mockDB
}

func approvedSale(t *testing.T) *stock.LedgerEntry {
	t.Helper()
	entry, err := stock.NewLedgerEntry(uuid.New(), stock.EntryTypeSale, 5, decimal.NewFromFloat(5.90), nil, "counter sale")
	require.NoError(t, err)
	require.NoError(t, entry.Approve("verified"))
	return entry
}

func TestGormLedgerEntryRepository_UpdateStatus(t *testing.T) {
	t.Run("persists the transition when the previous status still holds", func(t *testing.T) {
		repo, mock, mockDB := newMockLedgerEntryRepository(t)
		defer mockDB.Close()

		entry := approvedSale(t)
		mock.ExpectExec(`UPDATE "ledger_entries" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), entry, stock.EntryStatusPending)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent transition loses with ErrConcurrencyConflict", func(t *testing.T) {
		repo, mock, mockDB := newMockLedgerEntryRepository(t)
		defer mockDB.Close()

		entry := approvedSale(t)
		mock.ExpectExec(`UPDATE "ledger_entries" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "ledger_entries" WHERE id = \$1`).
			WithArgs(entry.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.UpdateStatus(context.Background(), entry, stock.EntryStatusPending)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing entry is reported as ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockLedgerEntryRepository(t)
		defer mockDB.Close()

		entry := approvedSale(t)
		mock.ExpectExec(`UPDATE "ledger_entries" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "ledger_entries" WHERE id = \$1`).
			WithArgs(entry.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := repo.UpdateStatus(context.Background(), entry, stock.EntryStatusPending)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLedgerEntryRepository_CountByBatch(t *testing.T) {
	repo, mock, mockDB := newMockLedgerEntryRepository(t)
	defer mockDB.Close()

	batchID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "ledger_entries" WHERE batch_id = \$1`).
		WithArgs(batchID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByBatch(context.Background(), batchID)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
