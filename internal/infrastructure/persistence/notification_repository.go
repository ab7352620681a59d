package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/notification"
	"github.com/pharmstock/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// notificationSortColumns lists the columns callers may sort notifications by
var notificationSortColumns = map[string]bool{
	"created_at": true,
	"read_at":    true,
	"severity":   true,
	"type":       true,
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindUnread finds unread notifications matching the filter
func (r *GormNotificationRepository) FindUnread(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&notification.Notification{}).Where("read = ?", false),
		filter,
	)
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindAll finds notifications matching the filter
func (r *GormNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := r.applyFilter(r.db.WithContext(ctx).Model(&notification.Notification{}), filter)
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// HasUnread reports whether an unread notification exists for the
// (type, entityName, entityID) key
func (r *GormNotificationRepository) HasUnread(ctx context.Context, ntype notification.Type, entityName string, entityID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("type = ? AND entity_name = ? AND entity_id = ? AND read = ?", ntype, entityName, entityID, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// Save updates an existing notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// MarkReadByEntity marks all unread notifications for the
// (type, entityName, entityID) key as read and returns the count
func (r *GormNotificationRepository) MarkReadByEntity(ctx context.Context, ntype notification.Type, entityName string, entityID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("type = ? AND entity_name = ? AND entity_id = ? AND read = ?", ntype, entityName, entityID, false).
		Updates(map[string]interface{}{
			"read":       true,
			"read_at":    now,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Count counts notifications matching the filter
func (r *GormNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&notification.Notification{})
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "read":
			query = query.Where("read = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		}
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormNotificationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	query = query.Order(orderClause(filter, notificationSortColumns, "created_at DESC"))

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "read":
			query = query.Where("read = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		}
	}

	return query
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
