package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// BatchRepository defines persistence access for batches
type BatchRepository interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)

	// FindAll finds batches matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Batch, error)

	// FindByDrug finds all batches of a drug
	FindByDrug(ctx context.Context, drugID uuid.UUID, filter shared.Filter) ([]Batch, error)

	// FindExpiringWithin finds batches whose expiry date falls within the next
	// withinDays calendar days (expiry still in the future)
	FindExpiringWithin(ctx context.Context, withinDays int) ([]Batch, error)

	// FindExpiredWithStock finds batches past expiry that still hold stock
	FindExpiredWithStock(ctx context.Context) ([]Batch, error)

	// Create inserts a new batch
	Create(ctx context.Context, batch *Batch) error

	// Save updates an existing batch
	Save(ctx context.Context, batch *Batch) error

	// ApplyDelta atomically applies a signed quantity change to the batch row.
	// The non-negative check is part of the UPDATE predicate so two concurrent
	// debits can never both commit past zero. Returns the updated batch,
	// shared.ErrNotFound if the batch does not exist, or
	// shared.ErrInsufficientStock if the change would drive the quantity
	// negative.
	ApplyDelta(ctx context.Context, id uuid.UUID, delta int64) (*Batch, error)

	// Delete removes a batch
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts batches matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// LedgerEntryRepository defines persistence access for ledger entries.
// Entries are append-only; the only permitted mutation is the sale status
// transition persisted through UpdateStatus.
type LedgerEntryRepository interface {
	// FindByID finds a ledger entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)

	// FindByBatch finds entries for a batch
	FindByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)

	// FindPendingSales finds sale entries awaiting approval
	FindPendingSales(ctx context.Context, filter shared.Filter) ([]LedgerEntry, error)

	// Create inserts a new entry (append-only)
	Create(ctx context.Context, entry *LedgerEntry) error

	// UpdateStatus persists a sale status transition together with the
	// accumulated notes. Guarded on the previous status so a concurrent
	// transition loses with shared.ErrConcurrencyConflict.
	UpdateStatus(ctx context.Context, entry *LedgerEntry, previous EntryStatus) error

	// CountByBatch counts entries referencing a batch
	CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error)
}

// BatchLocationRepository defines persistence access for location assignments
type BatchLocationRepository interface {
	// FindByBatch finds all location assignments of a batch
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]BatchLocation, error)

	// Create inserts a new assignment
	Create(ctx context.Context, loc *BatchLocation) error

	// CountByBatch counts assignments referencing a batch
	CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error)
}

// PurchaseOrderItemRepository exposes the purchase-order references the stock
// core needs for the batch deletion check
type PurchaseOrderItemRepository interface {
	// CountByBatch counts purchase-order items referencing a batch
	CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error)
}
