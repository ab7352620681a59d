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

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// ledgerSortColumns lists the columns callers may sort ledger entries by
var ledgerSortColumns = map[string]bool{
	"transaction_date": true,
	"quantity":         true,
	"type":             true,
	"status":           true,
	"created_at":       true,
}

// FindByID finds a ledger entry by its ID
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.LedgerEntry, error) {
	var entry stock.LedgerEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByBatch finds entries for a batch
func (r *GormLedgerEntryRepository) FindByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]stock.LedgerEntry, error) {
	var entries []stock.LedgerEntry
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.LedgerEntry{}).Where("batch_id = ?", batchID),
		filter,
	)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindPendingSales finds sale entries awaiting approval
func (r *GormLedgerEntryRepository) FindPendingSales(ctx context.Context, filter shared.Filter) ([]stock.LedgerEntry, error) {
	var entries []stock.LedgerEntry
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.LedgerEntry{}).
			Where("type = ? AND status = ?", stock.EntryTypeSale, stock.EntryStatusPending),
		filter,
	)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Create inserts a new entry
func (r *GormLedgerEntryRepository) Create(ctx context.Context, entry *stock.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// UpdateStatus persists a sale status transition guarded on the previous
// status. A concurrent transition that already changed the row loses with
// shared.ErrConcurrencyConflict instead of silently overwriting it.
func (r *GormLedgerEntryRepository) UpdateStatus(ctx context.Context, entry *stock.LedgerEntry, previous stock.EntryStatus) error {
	result := r.db.WithContext(ctx).
		Model(&stock.LedgerEntry{}).
		Where("id = ? AND status = ?", entry.ID, previous).
		Updates(map[string]interface{}{
			"status":     entry.Status,
			"notes":      entry.Notes,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&stock.LedgerEntry{}).
			Where("id = ?", entry.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountByBatch counts entries referencing a batch
func (r *GormLedgerEntryRepository) CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.LedgerEntry{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	query = query.Order(orderClause(filter, ledgerSortColumns, "transaction_date DESC"))

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		}
	}

	return query
}

var _ stock.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
