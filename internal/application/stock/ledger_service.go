package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// BatchEvaluator re-checks a batch's stock alerts after its quantity changed
type BatchEvaluator interface {
	EvaluateBatch(ctx context.Context, batchID uuid.UUID) error
}

// LedgerService records stock movements and drives the sale approval flow.
// Every quantity change on a batch goes through here so the ledger stays a
// complete account of how the batch reached its current quantity.
type LedgerService struct {
	scope      TransactionScope
	ledgerRepo stock.LedgerEntryRepository
	evaluator  BatchEvaluator
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewLedgerService creates a LedgerService
func NewLedgerService(
	scope TransactionScope,
	ledgerRepo stock.LedgerEntryRepository,
	evaluator BatchEvaluator,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		scope:      scope,
		ledgerRepo: ledgerRepo,
		evaluator:  evaluator,
		publisher:  publisher,
		logger:     logger,
	}
}

// Record creates a ledger entry and applies its quantity effect to the batch
// in one transaction. Inbound and return-in entries credit the batch,
// return-out entries debit it, all three committing as completed. A sale also
// debits immediately but commits as pending, holding the units until the sale
// is approved or declined. A debit that would drive the quantity negative
// rolls the whole transaction back with shared.ErrInsufficientStock.
func (s *LedgerService) Record(ctx context.Context, req RecordRequest) (*LedgerEntryResponse, error) {
	var (
		entry        *stock.LedgerEntry
		balanceAfter int64
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByID(ctx, req.BatchID)
		if err != nil {
			return err
		}

		entry, err = stock.NewLedgerEntry(batch.ID, req.Type, req.Quantity, batch.UnitPrice, req.UserID, req.Notes)
		if err != nil {
			return err
		}
		entry.WithLocations(req.FromLocationID, req.ToLocationID)

		updated, err := repos.BatchRepo().ApplyDelta(ctx, batch.ID, entry.SignedQuantity())
		if err != nil {
			return err
		}
		balanceAfter = updated.CurrentQty

		return repos.LedgerRepo().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ledger entry recorded",
		zap.String("entry_id", entry.ID.String()),
		zap.String("batch_id", entry.BatchID.String()),
		zap.String("type", entry.Type.String()),
		zap.Int64("quantity", entry.Quantity),
		zap.String("status", entry.Status.String()),
		zap.Int64("balance_after", balanceAfter))

	s.afterCommit(ctx, entry.BatchID, stock.NewLedgerRecordedEvent(entry, balanceAfter))

	resp := ToLedgerEntryResponse(entry, &balanceAfter)
	return &resp, nil
}

// ApproveSale confirms a pending sale. The units were already debited when
// the sale was recorded, so approval only finalizes the entry status.
func (s *LedgerService) ApproveSale(ctx context.Context, entryID uuid.UUID, actorID *uuid.UUID, notes string) (*LedgerEntryResponse, error) {
	var entry *stock.LedgerEntry

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		entry, err = repos.LedgerRepo().FindByID(ctx, entryID)
		if err != nil {
			return err
		}

		previous := entry.Status
		if err := entry.Approve(notes); err != nil {
			return err
		}

		return repos.LedgerRepo().UpdateStatus(ctx, entry, previous)
	})
	if err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, s.staleStatusError(ctx, entryID, "approved")
		}
		return nil, err
	}

	s.logger.Info("sale approved",
		zap.String("entry_id", entry.ID.String()),
		zap.String("batch_id", entry.BatchID.String()),
		zap.Int64("quantity", entry.Quantity))

	s.afterCommit(ctx, entry.BatchID, stock.NewSaleApprovedEvent(entry, actorID))

	resp := ToLedgerEntryResponse(entry, nil)
	return &resp, nil
}

// DeclineSale rejects a pending sale and credits the held units back to the
// batch. The status transition and the quantity restore commit together, so
// a decline either fully returns the units or fails without touching either.
func (s *LedgerService) DeclineSale(ctx context.Context, entryID uuid.UUID, actorID *uuid.UUID, reason string) (*LedgerEntryResponse, error) {
	var (
		entry        *stock.LedgerEntry
		balanceAfter int64
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		entry, err = repos.LedgerRepo().FindByID(ctx, entryID)
		if err != nil {
			return err
		}

		previous := entry.Status
		if err := entry.Decline(reason); err != nil {
			return err
		}

		restored, err := repos.BatchRepo().ApplyDelta(ctx, entry.BatchID, entry.Quantity)
		if err != nil {
			return err
		}
		balanceAfter = restored.CurrentQty

		return repos.LedgerRepo().UpdateStatus(ctx, entry, previous)
	})
	if err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, s.staleStatusError(ctx, entryID, "declined")
		}
		return nil, err
	}

	s.logger.Info("sale declined",
		zap.String("entry_id", entry.ID.String()),
		zap.String("batch_id", entry.BatchID.String()),
		zap.Int64("quantity", entry.Quantity),
		zap.String("reason", reason))

	s.afterCommit(ctx, entry.BatchID, stock.NewSaleDeclinedEvent(entry, actorID, reason))

	resp := ToLedgerEntryResponse(entry, &balanceAfter)
	return &resp, nil
}

// GetEntry returns a single ledger entry
func (s *LedgerService) GetEntry(ctx context.Context, entryID uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	resp := ToLedgerEntryResponse(entry, nil)
	return &resp, nil
}

// ListByBatch returns the ledger entries of a batch
func (s *LedgerService) ListByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]LedgerEntryResponse, error) {
	entries, err := s.ledgerRepo.FindByBatch(ctx, batchID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToLedgerEntryResponse(&entries[i], nil))
	}
	return responses, nil
}

// ListPendingSales returns sale entries awaiting approval
func (s *LedgerService) ListPendingSales(ctx context.Context, filter shared.Filter) ([]LedgerEntryResponse, error) {
	entries, err := s.ledgerRepo.FindPendingSales(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToLedgerEntryResponse(&entries[i], nil))
	}
	return responses, nil
}

// staleStatusError rebuilds the rejection the caller would have gotten from a
// fresh read after losing a concurrent status race: a sale can only be
// transitioned while pending, and the winner already moved it on.
func (s *LedgerService) staleStatusError(ctx context.Context, entryID uuid.UUID, verb string) error {
	current, err := s.ledgerRepo.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	return shared.NewDomainError("BAD_REQUEST",
		fmt.Sprintf("Sale cannot be %s: status is %s, expected %s", verb, current.Status, stock.EntryStatusPending))
}

// afterCommit runs the post-commit side effects. Alert evaluation and event
// publishing are best effort; the committed transaction is never undone for
// their sake.
func (s *LedgerService) afterCommit(ctx context.Context, batchID uuid.UUID, event shared.DomainEvent) {
	if s.evaluator != nil {
		if err := s.evaluator.EvaluateBatch(ctx, batchID); err != nil {
			s.logger.Warn("stock alert evaluation failed",
				zap.String("batch_id", batchID.String()),
				zap.Error(err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("event publish failed",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
}
