package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BatchService manages the batch lifecycle
type BatchService struct {
	batchRepo    stock.BatchRepository
	ledgerRepo   stock.LedgerEntryRepository
	locationRepo stock.BatchLocationRepository
	poItemRepo   stock.PurchaseOrderItemRepository
	evaluator    BatchEvaluator
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewBatchService creates a BatchService
func NewBatchService(
	batchRepo stock.BatchRepository,
	ledgerRepo stock.LedgerEntryRepository,
	locationRepo stock.BatchLocationRepository,
	poItemRepo stock.PurchaseOrderItemRepository,
	evaluator BatchEvaluator,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *BatchService {
	return &BatchService{
		batchRepo:    batchRepo,
		ledgerRepo:   ledgerRepo,
		locationRepo: locationRepo,
		poItemRepo:   poItemRepo,
		evaluator:    evaluator,
		publisher:    publisher,
		logger:       logger,
	}
}

// Create receives a new batch into stock
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*BatchResponse, error) {
	batch, err := stock.NewBatch(
		req.DrugID,
		req.SupplierID,
		req.BatchNumber,
		req.ManufactureDate,
		req.ExpiryDate,
		req.PurchaseDate,
		decimal.NewFromFloat(req.UnitCost),
		decimal.NewFromFloat(req.UnitPrice),
		req.InitialQty,
		req.LowStockThreshold,
	)
	if err != nil {
		return nil, err
	}

	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	s.logger.Info("batch created",
		zap.String("batch_id", batch.ID.String()),
		zap.String("batch_number", batch.BatchNumber),
		zap.Int64("initial_qty", batch.CurrentQty))

	if s.evaluator != nil {
		if err := s.evaluator.EvaluateBatch(ctx, batch.ID); err != nil {
			s.logger.Warn("stock alert evaluation failed",
				zap.String("batch_id", batch.ID.String()),
				zap.Error(err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, stock.NewBatchCreatedEvent(batch, req.UserID)); err != nil {
			s.logger.Warn("event publish failed", zap.Error(err))
		}
	}

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// Get returns a batch by ID
func (s *BatchService) Get(ctx context.Context, id uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(batch)
	return &resp, nil
}

// List returns batches matching the filter together with the total count
func (s *BatchService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[BatchResponse], error) {
	batches, err := s.batchRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.batchRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToBatchResponses(batches), total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListByDrug returns the batches of one drug
func (s *BatchService) ListByDrug(ctx context.Context, drugID uuid.UUID, filter shared.Filter) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindByDrug(ctx, drugID, filter)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(batches), nil
}

// ListExpiringWithin returns batches whose expiry falls within the next
// withinDays days
func (s *BatchService) ListExpiringWithin(ctx context.Context, withinDays int) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindExpiringWithin(ctx, withinDays)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(batches), nil
}

// Delete removes a batch. A batch with ledger entries, location assignments
// or purchase-order references cannot be deleted; callers get
// shared.ErrConflict naming the dependency that blocked the delete.
func (s *BatchService) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ledgerCount, err := s.ledgerRepo.CountByBatch(ctx, id)
	if err != nil {
		return err
	}
	if ledgerCount > 0 {
		return shared.NewDomainError(shared.ErrConflict.Code, "Batch has ledger entries and cannot be deleted")
	}

	locationCount, err := s.locationRepo.CountByBatch(ctx, id)
	if err != nil {
		return err
	}
	if locationCount > 0 {
		return shared.NewDomainError(shared.ErrConflict.Code, "Batch is assigned to storage locations and cannot be deleted")
	}

	poCount, err := s.poItemRepo.CountByBatch(ctx, id)
	if err != nil {
		return err
	}
	if poCount > 0 {
		return shared.NewDomainError(shared.ErrConflict.Code, "Batch is referenced by purchase orders and cannot be deleted")
	}

	if err := s.batchRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("batch deleted",
		zap.String("batch_id", id.String()),
		zap.String("batch_number", batch.BatchNumber))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, stock.NewBatchDeletedEvent(batch, actorID)); err != nil {
			s.logger.Warn("event publish failed", zap.Error(err))
		}
	}
	return nil
}
