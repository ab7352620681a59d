package stock

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Batch is the aggregate root for one received lot of a drug.
// Quantity changes go exclusively through the ledger; the CurrentQty >= 0
// invariant is enforced here for in-memory mutations and re-validated by the
// repository as part of the same database write.
type Batch struct {
	shared.BaseAggregateRoot
	DrugID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_batches_drug"`
	SupplierID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_batches_supplier"`
	BatchNumber       string          `gorm:"type:varchar(50);not null"`
	ManufactureDate   time.Time       `gorm:"type:date;not null"`
	ExpiryDate        time.Time       `gorm:"type:date;not null;index:idx_batches_expiry"`
	PurchaseDate      time.Time       `gorm:"type:date;not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrentQty        int64           `gorm:"not null;default:0"`
	LowStockThreshold int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "batches"
}

// NewBatch creates a new batch and validates its receipt attributes
func NewBatch(
	drugID, supplierID uuid.UUID,
	batchNumber string,
	manufactureDate, expiryDate, purchaseDate time.Time,
	unitCost, unitPrice decimal.Decimal,
	initialQty, lowStockThreshold int64,
) (*Batch, error) {
	if drugID == uuid.Nil {
		return nil, shared.NewDomainError("BAD_REQUEST", "Drug ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("BAD_REQUEST", "Supplier ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("BAD_REQUEST", "Batch number cannot be empty")
	}
	if !expiryDate.After(manufactureDate) {
		return nil, shared.NewDomainError("BAD_REQUEST", "Expiry date must be after manufacture date")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("BAD_REQUEST", "Unit cost cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("BAD_REQUEST", "Unit price cannot be negative")
	}
	if initialQty < 0 {
		return nil, shared.NewDomainError("BAD_REQUEST", "Initial quantity cannot be negative")
	}
	if lowStockThreshold < 0 {
		return nil, shared.NewDomainError("BAD_REQUEST", "Low stock threshold cannot be negative")
	}

	batch := &Batch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DrugID:            drugID,
		SupplierID:        supplierID,
		BatchNumber:       batchNumber,
		ManufactureDate:   manufactureDate,
		ExpiryDate:        expiryDate,
		PurchaseDate:      purchaseDate,
		UnitCost:          unitCost,
		UnitPrice:         unitPrice,
		CurrentQty:        initialQty,
		LowStockThreshold: lowStockThreshold,
	}

	return batch, nil
}

// ApplyDelta applies a signed quantity change to the batch.
// A debit that would drive the quantity negative is rejected.
func (b *Batch) ApplyDelta(delta int64) error {
	next := b.CurrentQty + delta
	if next < 0 {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock: batch has %d, requested change %d", b.CurrentQty, delta))
	}
	b.CurrentQty = next
	b.Touch()
	b.IncrementVersion()
	return nil
}

// HasStock returns true if the batch holds any quantity
func (b *Batch) HasStock() bool {
	return b.CurrentQty > 0
}

// IsOutOfStock returns true if the batch quantity is zero
func (b *Batch) IsOutOfStock() bool {
	return b.CurrentQty == 0
}

// IsBelowThreshold returns true if the quantity is in the low-stock band
// (above zero but at or below the configured threshold)
func (b *Batch) IsBelowThreshold() bool {
	return b.CurrentQty > 0 && b.LowStockThreshold > 0 && b.CurrentQty <= b.LowStockThreshold
}

// IsExpired returns true if the batch expiry date has passed at the given time
func (b *Batch) IsExpired(at time.Time) bool {
	return b.ExpiryDate.Before(at)
}

// DaysUntilExpiry returns whole calendar days from the given time to expiry.
// Negative values mean the batch expired that many days ago.
func (b *Batch) DaysUntilExpiry(at time.Time) int {
	expiry := time.Date(b.ExpiryDate.Year(), b.ExpiryDate.Month(), b.ExpiryDate.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	return int(expiry.Sub(today).Hours() / 24)
}

// TotalValue returns the stock value of the batch at cost
func (b *Batch) TotalValue() decimal.Decimal {
	return decimal.NewFromInt(b.CurrentQty).Mul(b.UnitCost)
}
