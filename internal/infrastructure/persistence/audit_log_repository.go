package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/audit"
	"github.com/pharmstock/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements audit.LogRepository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// auditSortColumns lists the columns callers may sort audit entries by
var auditSortColumns = map[string]bool{
	"occurred_at": true,
	"action":      true,
	"created_at":  true,
}

// Create inserts a new audit entry. A foreign key violation on the user
// reference means the acting user was removed after the event fired; that is
// surfaced as audit.ErrUnknownUser so the caller can retry without the user.
func (r *GormAuditLogRepository) Create(ctx context.Context, entry *audit.LogEntry) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	if err != nil && entry.UserID != nil && errors.Is(err, gorm.ErrForeignKeyViolated) {
		return audit.ErrUnknownUser
	}
	return err
}

// FindByEntity finds audit entries for an entity
func (r *GormAuditLogRepository) FindByEntity(ctx context.Context, entityName string, entityID uuid.UUID, filter shared.Filter) ([]audit.LogEntry, error) {
	var entries []audit.LogEntry
	query := r.db.WithContext(ctx).
		Model(&audit.LogEntry{}).
		Where("entity_name = ? AND entity_id = ?", entityName, entityID)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order(orderClause(filter, auditSortColumns, "occurred_at DESC"))

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

var _ audit.LogRepository = (*GormAuditLogRepository)(nil)
