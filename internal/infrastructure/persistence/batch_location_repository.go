package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormBatchLocationRepository implements BatchLocationRepository using GORM
type GormBatchLocationRepository struct {
	db *gorm.DB
}

// NewGormBatchLocationRepository creates a new GormBatchLocationRepository
func NewGormBatchLocationRepository(db *gorm.DB) *GormBatchLocationRepository {
	return &GormBatchLocationRepository{db: db}
}

// FindByBatch finds all location assignments of a batch
func (r *GormBatchLocationRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]stock.BatchLocation, error) {
	var locations []stock.BatchLocation
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Create inserts a new assignment
func (r *GormBatchLocationRepository) Create(ctx context.Context, loc *stock.BatchLocation) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

// CountByBatch counts assignments referencing a batch
func (r *GormBatchLocationRepository) CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.BatchLocation{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ stock.BatchLocationRepository = (*GormBatchLocationRepository)(nil)

// GormPurchaseOrderItemRepository implements PurchaseOrderItemRepository using GORM
type GormPurchaseOrderItemRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderItemRepository creates a new GormPurchaseOrderItemRepository
func NewGormPurchaseOrderItemRepository(db *gorm.DB) *GormPurchaseOrderItemRepository {
	return &GormPurchaseOrderItemRepository{db: db}
}

// CountByBatch counts purchase-order items referencing a batch
func (r *GormPurchaseOrderItemRepository) CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.PurchaseOrderItem{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ stock.PurchaseOrderItemRepository = (*GormPurchaseOrderItemRepository)(nil)
