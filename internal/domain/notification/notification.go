package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// Type represents the kind of stock alert
type Type string

const (
	TypeOutOfStock Type = "OUT_OF_STOCK"
	TypeLowStock   Type = "LOW_STOCK"
	TypeNearExpiry Type = "NEAR_EXPIRY"
	TypeExpired    Type = "EXPIRED"
)

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the notification type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypeOutOfStock, TypeLowStock, TypeNearExpiry, TypeExpired:
		return true
	}
	return false
}

// Severity represents how urgent a notification is
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}

// Notification is a derived stock alert. Deduplication uses the structured
// (Type, EntityName, EntityID) key rather than message text. Notifications
// are never deleted; marking them read is the only mutation.
type Notification struct {
	shared.BaseEntity
	Type       Type       `gorm:"type:varchar(20);not null;index:idx_notifications_entity,priority:1"`
	Severity   Severity   `gorm:"type:varchar(10);not null"`
	Message    string     `gorm:"type:varchar(500);not null"`
	EntityName string     `gorm:"type:varchar(50);not null;index:idx_notifications_entity,priority:2"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_entity,priority:3"`
	Read       bool       `gorm:"not null;default:false;index:idx_notifications_read"`
	ReadAt     *time.Time `gorm:"type:timestamptz"`
	ExpiresAt  *time.Time `gorm:"type:timestamptz"`
	UserID     *uuid.UUID `gorm:"type:uuid"` // optional target user, nil means broadcast
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// New creates a new unread notification for an entity
func New(ntype Type, severity Severity, message, entityName string, entityID uuid.UUID) (*Notification, error) {
	if !ntype.IsValid() {
		return nil, shared.NewDomainError("BAD_REQUEST", "Invalid notification type")
	}
	if message == "" {
		return nil, shared.NewDomainError("BAD_REQUEST", "Notification message cannot be empty")
	}
	if entityName == "" || entityID == uuid.Nil {
		return nil, shared.NewDomainError("BAD_REQUEST", "Notification entity reference is required")
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		Type:       ntype,
		Severity:   severity,
		Message:    message,
		EntityName: entityName,
		EntityID:   entityID,
		Read:       false,
	}, nil
}

// WithExpiry sets an expiry timestamp after which the notification is stale
func (n *Notification) WithExpiry(at time.Time) *Notification {
	n.ExpiresAt = &at
	return n
}

// WithUser targets the notification at a specific user
func (n *Notification) WithUser(userID uuid.UUID) *Notification {
	n.UserID = &userID
	return n
}

// MarkRead marks the notification as read. Marking twice is a no-op.
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
}
