package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// BatchLocation assigns part of a batch to a storage location (shelf, fridge,
// controlled cabinet). A batch with location assignments cannot be deleted.
type BatchLocation struct {
	shared.BaseEntity
	BatchID    uuid.UUID `gorm:"type:uuid;not null;index:idx_batch_locations_batch"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;index:idx_batch_locations_location"`
	Quantity   int64     `gorm:"not null;default:0"`
	AssignedAt time.Time `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (BatchLocation) TableName() string {
	return "batch_locations"
}

// NewBatchLocation creates a new location assignment for a batch
func NewBatchLocation(batchID, locationID uuid.UUID, quantity int64) (*BatchLocation, error) {
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("BAD_REQUEST", "Batch ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("BAD_REQUEST", "Location ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("BAD_REQUEST", "Assigned quantity must be positive")
	}
	return &BatchLocation{
		BaseEntity: shared.NewBaseEntity(),
		BatchID:    batchID,
		LocationID: locationID,
		Quantity:   quantity,
		AssignedAt: time.Now(),
	}, nil
}

// PurchaseOrderItem is the minimal view of a purchase-order line the stock
// core needs: it references a batch created from its fulfilment and blocks
// that batch's deletion.
type PurchaseOrderItem struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID  `gorm:"type:uuid;not null;index:idx_po_items_order"`
	DrugID          uuid.UUID  `gorm:"type:uuid;not null"`
	BatchID         *uuid.UUID `gorm:"type:uuid;index:idx_po_items_batch"`
	Quantity        int64      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}
