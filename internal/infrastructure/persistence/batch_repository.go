package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// batchSortColumns lists the columns callers may sort batches by
var batchSortColumns = map[string]bool{
	"batch_number":  true,
	"expiry_date":   true,
	"purchase_date": true,
	"current_qty":   true,
	"created_at":    true,
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Batch, error) {
	var batch stock.Batch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAll finds batches matching the filter
func (r *GormBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.Batch, error) {
	var batches []stock.Batch
	query := r.applyFilter(r.db.WithContext(ctx).Model(&stock.Batch{}), filter, true)
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByDrug finds all batches of a drug
func (r *GormBatchRepository) FindByDrug(ctx context.Context, drugID uuid.UUID, filter shared.Filter) ([]stock.Batch, error) {
	var batches []stock.Batch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.Batch{}).Where("drug_id = ?", drugID),
		filter, true,
	)
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpiringWithin finds batches whose expiry date falls within the next
// withinDays calendar days
func (r *GormBatchRepository) FindExpiringWithin(ctx context.Context, withinDays int) ([]stock.Batch, error) {
	var batches []stock.Batch
	now := time.Now()
	threshold := now.AddDate(0, 0, withinDays)

	if err := r.db.WithContext(ctx).
		Where("expiry_date > ? AND expiry_date <= ?", now, threshold).
		Order("expiry_date ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpiredWithStock finds batches past expiry that still hold stock
func (r *GormBatchRepository) FindExpiredWithStock(ctx context.Context) ([]stock.Batch, error) {
	var batches []stock.Batch
	if err := r.db.WithContext(ctx).
		Where("expiry_date <= ? AND current_qty > 0", time.Now()).
		Order("expiry_date ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Create inserts a new batch
func (r *GormBatchRepository) Create(ctx context.Context, batch *stock.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// Save updates an existing batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *stock.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// ApplyDelta atomically applies a signed quantity change to the batch row.
// The non-negative guard sits in the UPDATE predicate, so the check and the
// write are one statement and concurrent debits cannot both slip past zero.
func (r *GormBatchRepository) ApplyDelta(ctx context.Context, id uuid.UUID, delta int64) (*stock.Batch, error) {
	result := r.db.WithContext(ctx).
		Model(&stock.Batch{}).
		Where("id = ? AND current_qty + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"current_qty": gorm.Expr("current_qty + ?", delta),
			"version":     gorm.Expr("version + 1"),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Either the batch is gone or the debit would overdraw it
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&stock.Batch{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, shared.ErrNotFound
		}
		return nil, shared.ErrInsufficientStock
	}
	return r.FindByID(ctx, id)
}

// Delete removes a batch
func (r *GormBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&stock.Batch{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts batches matching the filter
func (r *GormBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&stock.Batch{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	if paginate && filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if paginate {
		query = query.Order(orderClause(filter, batchSortColumns, "expiry_date ASC, created_at ASC"))
	}

	for key, value := range filter.Filters {
		switch key {
		case "drug_id":
			query = query.Where("drug_id = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("current_qty > 0")
			}
		case "expired":
			if value == true {
				query = query.Where("expiry_date <= ?", time.Now())
			}
		}
	}

	return query
}

var _ stock.BatchRepository = (*GormBatchRepository)(nil)
