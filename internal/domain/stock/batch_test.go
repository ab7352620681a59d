package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBatch(t *testing.T) *Batch {
	t.Helper()
	batch, err := NewBatch(
		uuid.New(), uuid.New(),
		"LOT-2026-001",
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		decimal.NewFromFloat(3.25),
		decimal.NewFromFloat(5.90),
		100, 10,
	)
	require.NoError(t, err)
	return batch
}

func TestNewBatch(t *testing.T) {
	drugID := uuid.New()
	supplierID := uuid.New()
	manufactured := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC)
	purchased := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates batch successfully", func(t *testing.T) {
		batch, err := NewBatch(drugID, supplierID, "LOT-1", manufactured, expiry, purchased,
			decimal.NewFromInt(3), decimal.NewFromInt(5), 50, 10)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, batch.ID)
		assert.Equal(t, drugID, batch.DrugID)
		assert.Equal(t, supplierID, batch.SupplierID)
		assert.Equal(t, int64(50), batch.CurrentQty)
		assert.Equal(t, int64(10), batch.LowStockThreshold)
		assert.Equal(t, 1, batch.Version)
	})

	t.Run("fails with nil drug ID", func(t *testing.T) {
		batch, err := NewBatch(uuid.Nil, supplierID, "LOT-1", manufactured, expiry, purchased,
			decimal.NewFromInt(3), decimal.NewFromInt(5), 50, 10)

		require.Error(t, err)
		assert.Nil(t, batch)
		assert.Contains(t, err.Error(), "Drug ID")
	})

	t.Run("fails when expiry is not after manufacture", func(t *testing.T) {
		batch, err := NewBatch(drugID, supplierID, "LOT-1", expiry, manufactured, purchased,
			decimal.NewFromInt(3), decimal.NewFromInt(5), 50, 10)

		require.Error(t, err)
		assert.Nil(t, batch)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BAD_REQUEST", domainErr.Code)
	})

	t.Run("fails when expiry equals manufacture", func(t *testing.T) {
		batch, err := NewBatch(drugID, supplierID, "LOT-1", manufactured, manufactured, purchased,
			decimal.NewFromInt(3), decimal.NewFromInt(5), 50, 10)

		require.Error(t, err)
		assert.Nil(t, batch)
	})

	t.Run("fails with negative quantity or threshold", func(t *testing.T) {
		_, err := NewBatch(drugID, supplierID, "LOT-1", manufactured, expiry, purchased,
			decimal.NewFromInt(3), decimal.NewFromInt(5), -1, 10)
		require.Error(t, err)

		_, err = NewBatch(drugID, supplierID, "LOT-1", manufactured, expiry, purchased,
			decimal.NewFromInt(3), decimal.NewFromInt(5), 50, -1)
		require.Error(t, err)
	})
}

func TestBatch_ApplyDelta(t *testing.T) {
	t.Run("applies credit", func(t *testing.T) {
		batch := createTestBatch(t)

		err := batch.ApplyDelta(25)

		require.NoError(t, err)
		assert.Equal(t, int64(125), batch.CurrentQty)
		assert.Equal(t, 2, batch.Version)
	})

	t.Run("applies debit down to zero", func(t *testing.T) {
		batch := createTestBatch(t)

		err := batch.ApplyDelta(-100)

		require.NoError(t, err)
		assert.Equal(t, int64(0), batch.CurrentQty)
		assert.True(t, batch.IsOutOfStock())
	})

	t.Run("rejects debit past zero and leaves quantity unchanged", func(t *testing.T) {
		batch := createTestBatch(t)

		err := batch.ApplyDelta(-101)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, int64(100), batch.CurrentQty)
		assert.Equal(t, 1, batch.Version)
	})

	t.Run("quantity never goes negative across a sequence", func(t *testing.T) {
		batch := createTestBatch(t)

		deltas := []int64{-40, -40, 30, -50, -10, 5}
		for _, d := range deltas {
			_ = batch.ApplyDelta(d)
			assert.GreaterOrEqual(t, batch.CurrentQty, int64(0))
		}
	})
}

func TestBatch_Thresholds(t *testing.T) {
	t.Run("below threshold band", func(t *testing.T) {
		batch := createTestBatch(t)
		batch.CurrentQty = 10

		assert.True(t, batch.IsBelowThreshold())
		assert.False(t, batch.IsOutOfStock())
	})

	t.Run("above threshold", func(t *testing.T) {
		batch := createTestBatch(t)
		batch.CurrentQty = 11

		assert.False(t, batch.IsBelowThreshold())
	})

	t.Run("zero quantity is out of stock, not low stock", func(t *testing.T) {
		batch := createTestBatch(t)
		batch.CurrentQty = 0

		assert.True(t, batch.IsOutOfStock())
		assert.False(t, batch.IsBelowThreshold())
	})

	t.Run("zero threshold disables the low-stock band", func(t *testing.T) {
		batch := createTestBatch(t)
		batch.LowStockThreshold = 0
		batch.CurrentQty = 1

		assert.False(t, batch.IsBelowThreshold())
	})
}

func TestBatch_Expiry(t *testing.T) {
	batch := createTestBatch(t)
	expiry := batch.ExpiryDate

	t.Run("days until expiry", func(t *testing.T) {
		assert.Equal(t, 10, batch.DaysUntilExpiry(expiry.AddDate(0, 0, -10)))
		assert.Equal(t, 1, batch.DaysUntilExpiry(expiry.AddDate(0, 0, -1)))
		assert.Equal(t, 0, batch.DaysUntilExpiry(expiry))
	})

	t.Run("days past expiry are negative", func(t *testing.T) {
		assert.Equal(t, -3, batch.DaysUntilExpiry(expiry.AddDate(0, 0, 3)))
	})

	t.Run("is expired", func(t *testing.T) {
		assert.False(t, batch.IsExpired(expiry.AddDate(0, 0, -1)))
		assert.True(t, batch.IsExpired(expiry.AddDate(0, 0, 1)))
	})
}

func TestBatch_TotalValue(t *testing.T) {
	batch := createTestBatch(t)

	assert.Equal(t, "325", batch.TotalValue().String())
}
