package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/notification"
	"github.com/pharmstock/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Response is the API-facing view of a notification
type Response struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Severity   string  `json:"severity"`
	Message    string  `json:"message"`
	EntityName string  `json:"entity_name"`
	EntityID   string  `json:"entity_id"`
	Read       bool    `json:"read"`
	ReadAt     *string `json:"read_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func toResponse(n *notification.Notification) Response {
	resp := Response{
		ID:         n.ID.String(),
		Type:       n.Type.String(),
		Severity:   n.Severity.String(),
		Message:    n.Message,
		EntityName: n.EntityName,
		EntityID:   n.EntityID.String(),
		Read:       n.Read,
		CreatedAt:  n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		s := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &s
	}
	return resp
}

// Service exposes the notification inbox
type Service struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewService creates a notification Service
func NewService(repo notification.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns notifications matching the filter together with the total count
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[Response], error) {
	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]Response, 0, len(items))
	for i := range items {
		responses = append(responses, toResponse(&items[i]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListUnread returns unread notifications matching the filter
func (s *Service) ListUnread(ctx context.Context, filter shared.Filter) ([]Response, error) {
	items, err := s.repo.FindUnread(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]Response, 0, len(items))
	for i := range items {
		responses = append(responses, toResponse(&items[i]))
	}
	return responses, nil
}

// MarkRead marks one notification as read. Marking an already-read
// notification is a no-op.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*Response, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.Read {
		n.MarkRead()
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	resp := toResponse(n)
	return &resp, nil
}
