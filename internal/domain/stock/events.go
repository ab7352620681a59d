package stock

import (
	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// Event types emitted by the stock domain
const (
	EventTypeLedgerRecorded = "stock.ledger.recorded"
	EventTypeSaleApproved   = "stock.sale.approved"
	EventTypeSaleDeclined   = "stock.sale.declined"
	EventTypeBatchCreated   = "stock.batch.created"
	EventTypeBatchDeleted   = "stock.batch.deleted"
)

// AggregateTypeBatch is the aggregate type used in stock events
const AggregateTypeBatch = "Batch"

// LedgerRecordedEvent is emitted after a ledger entry and its quantity effect
// commit together
type LedgerRecordedEvent struct {
	shared.BaseDomainEvent
	EntryID      uuid.UUID   `json:"entry_id"`
	BatchID      uuid.UUID   `json:"batch_id"`
	EntryType    EntryType   `json:"entry_type"`
	Quantity     int64       `json:"quantity"`
	Status       EntryStatus `json:"status"`
	BalanceAfter int64       `json:"balance_after"`
}

// NewLedgerRecordedEvent creates a LedgerRecordedEvent
func NewLedgerRecordedEvent(entry *LedgerEntry, balanceAfter int64) *LedgerRecordedEvent {
	return &LedgerRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerRecorded, AggregateTypeBatch, entry.BatchID, entry.UserID),
		EntryID:         entry.ID,
		BatchID:         entry.BatchID,
		EntryType:       entry.Type,
		Quantity:        entry.Quantity,
		Status:          entry.Status,
		BalanceAfter:    balanceAfter,
	}
}

// SaleApprovedEvent is emitted when a pending sale is approved
type SaleApprovedEvent struct {
	shared.BaseDomainEvent
	EntryID  uuid.UUID `json:"entry_id"`
	BatchID  uuid.UUID `json:"batch_id"`
	Quantity int64     `json:"quantity"`
}

// NewSaleApprovedEvent creates a SaleApprovedEvent
func NewSaleApprovedEvent(entry *LedgerEntry, actorID *uuid.UUID) *SaleApprovedEvent {
	return &SaleApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleApproved, AggregateTypeBatch, entry.BatchID, actorID),
		EntryID:         entry.ID,
		BatchID:         entry.BatchID,
		Quantity:        entry.Quantity,
	}
}

// SaleDeclinedEvent is emitted when a pending sale is declined and its
// quantity restored
type SaleDeclinedEvent struct {
	shared.BaseDomainEvent
	EntryID  uuid.UUID `json:"entry_id"`
	BatchID  uuid.UUID `json:"batch_id"`
	Quantity int64     `json:"quantity"`
	Reason   string    `json:"reason"`
}

// NewSaleDeclinedEvent creates a SaleDeclinedEvent
func NewSaleDeclinedEvent(entry *LedgerEntry, actorID *uuid.UUID, reason string) *SaleDeclinedEvent {
	return &SaleDeclinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleDeclined, AggregateTypeBatch, entry.BatchID, actorID),
		EntryID:         entry.ID,
		BatchID:         entry.BatchID,
		Quantity:        entry.Quantity,
		Reason:          reason,
	}
}

// BatchCreatedEvent is emitted when a batch is received
type BatchCreatedEvent struct {
	shared.BaseDomainEvent
	BatchNumber string    `json:"batch_number"`
	DrugID      uuid.UUID `json:"drug_id"`
	InitialQty  int64     `json:"initial_qty"`
}

// NewBatchCreatedEvent creates a BatchCreatedEvent
func NewBatchCreatedEvent(batch *Batch, actorID *uuid.UUID) *BatchCreatedEvent {
	return &BatchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCreated, AggregateTypeBatch, batch.ID, actorID),
		BatchNumber:     batch.BatchNumber,
		DrugID:          batch.DrugID,
		InitialQty:      batch.CurrentQty,
	}
}

// BatchDeletedEvent is emitted when a batch without dependents is deleted
type BatchDeletedEvent struct {
	shared.BaseDomainEvent
	BatchNumber string `json:"batch_number"`
}

// NewBatchDeletedEvent creates a BatchDeletedEvent
func NewBatchDeletedEvent(batch *Batch, actorID *uuid.UUID) *BatchDeletedEvent {
	return &BatchDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchDeleted, AggregateTypeBatch, batch.ID, actorID),
		BatchNumber:     batch.BatchNumber,
	}
}
