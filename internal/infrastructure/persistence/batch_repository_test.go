package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockBatchRepository(t *testing.T) (*GormBatchRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormBatchRepository(gormDB), mock, mockDB
}

func batchRow(id uuid.UUID, qty int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "drug_id", "supplier_id", "batch_number",
		"manufacture_date", "expiry_date", "purchase_date",
		"unit_cost", "unit_price", "current_qty", "low_stock_threshold", "version",
	}).AddRow(
		id, uuid.New(), uuid.New(), "LOT-2026-001",
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		decimal.NewFromFloat(3.25), decimal.NewFromFloat(5.90), qty, int64(10), 1,
	)
}

func TestGormBatchRepository_FindByID(t *testing.T) {
	t.Run("finds existing batch", func(t *testing.T) {
		repo, mock, mockDB := newMockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "batches" WHERE id = \$1`).
			WithArgs(batchID, 1).
			WillReturnRows(batchRow(batchID, 100))

		batch, err := repo.FindByID(context.Background(), batchID)

		assert.NoError(t, err)
		require.NotNil(t, batch)
		assert.Equal(t, batchID, batch.ID)
		assert.Equal(t, int64(100), batch.CurrentQty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing batch", func(t *testing.T) {
		repo, mock, mockDB := newMockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "batches" WHERE id = \$1`).
			WithArgs(batchID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		batch, err := repo.FindByID(context.Background(), batchID)

		assert.Nil(t, batch)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBatchRepository_ApplyDelta(t *testing.T) {
	t.Run("applies delta in one guarded update", func(t *testing.T) {
		repo, mock, mockDB := newMockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()
		mock.ExpectExec(`UPDATE "batches" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "batches" WHERE id = \$1`).
			WithArgs(batchID, 1).
			WillReturnRows(batchRow(batchID, 80))

		batch, err := repo.ApplyDelta(context.Background(), batchID, -20)

		assert.NoError(t, err)
		require.NotNil(t, batch)
		assert.Equal(t, int64(80), batch.CurrentQty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("overdraw is rejected with ErrInsufficientStock", func(t *testing.T) {
		repo, mock, mockDB := newMockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()
		mock.ExpectExec(`UPDATE "batches" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "batches" WHERE id = \$1`).
			WithArgs(batchID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		batch, err := repo.ApplyDelta(context.Background(), batchID, -500)

		assert.Nil(t, batch)
		assert.Equal(t, shared.ErrInsufficientStock, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing batch is reported as ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()
		mock.ExpectExec(`UPDATE "batches" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "batches" WHERE id = \$1`).
			WithArgs(batchID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		batch, err := repo.ApplyDelta(context.Background(), batchID, 10)

		assert.Nil(t, batch)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBatchRepository_Delete(t *testing.T) {
	t.Run("deletes existing batch", func(t *testing.T) {
		repo, mock, mockDB := newMockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()
		mock.ExpectExec(`DELETE FROM "batches" WHERE id = \$1`).
			WithArgs(batchID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), batchID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()
		mock.ExpectExec(`DELETE FROM "batches" WHERE id = \$1`).
			WithArgs(batchID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), batchID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
