package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// Repository defines persistence access for notifications
type Repository interface {
	// FindByID finds a notification by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindUnread finds unread notifications matching the filter
	FindUnread(ctx context.Context, filter shared.Filter) ([]Notification, error)

	// FindAll finds notifications matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Notification, error)

	// HasUnread reports whether an unread notification exists for the
	// (type, entityName, entityID) key
	HasUnread(ctx context.Context, ntype Type, entityName string, entityID uuid.UUID) (bool, error)

	// Create inserts a new notification
	Create(ctx context.Context, n *Notification) error

	// Save updates an existing notification (read-state only)
	Save(ctx context.Context, n *Notification) error

	// MarkReadByEntity marks all unread notifications for the
	// (type, entityName, entityID) key as read and returns the count
	MarkReadByEntity(ctx context.Context, ntype Type, entityName string, entityID uuid.UUID) (int64, error)

	// Count counts notifications matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
