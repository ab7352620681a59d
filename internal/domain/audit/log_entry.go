package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// LogEntry is one activity-log record. Writes are fire-and-forget from the
// caller's point of view; a failed write never affects the operation it
// describes.
type LogEntry struct {
	shared.BaseEntity
	EntityName string     `gorm:"type:varchar(50);not null;index:idx_audit_entity,priority:1"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_entity,priority:2"`
	Action     string     `gorm:"type:varchar(50);not null"`
	UserID     *uuid.UUID `gorm:"type:uuid"` // nil when the actor is unknown or removed
	Summary    string     `gorm:"type:varchar(500);not null"`
	OccurredAt time.Time  `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (LogEntry) TableName() string {
	return "audit_logs"
}

// NewLogEntry creates a new audit log entry
func NewLogEntry(entityName string, entityID uuid.UUID, action string, userID *uuid.UUID, summary string) *LogEntry {
	return &LogEntry{
		BaseEntity: shared.NewBaseEntity(),
		EntityName: entityName,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
		Summary:    summary,
		OccurredAt: time.Now(),
	}
}

// ErrUnknownUser is returned by repositories when the acting user referenced
// by an audit entry no longer exists
var ErrUnknownUser = shared.NewDomainError("UNKNOWN_USER", "Acting user no longer exists")

// LogRepository defines persistence access for audit log entries
type LogRepository interface {
	// Create inserts a new audit entry. Returns ErrUnknownUser when the
	// entry references a user that has been removed.
	Create(ctx context.Context, entry *LogEntry) error

	// FindByEntity finds audit entries for an entity
	FindByEntity(ctx context.Context, entityName string, entityID uuid.UUID, filter shared.Filter) ([]LogEntry, error)
}

// Logger is the narrow interface mutating operations report through
type Logger interface {
	// Log records an audit entry. Implementations must not block the caller
	// on the underlying write.
	Log(ctx context.Context, entry *LogEntry) error
}
