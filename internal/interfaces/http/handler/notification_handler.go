package handler

import (
	"github.com/gin-gonic/gin"
	appnotification "github.com/pharmstock/backend/internal/application/notification"
	"github.com/pharmstock/backend/internal/interfaces/http/dto"
	"github.com/pharmstock/backend/internal/interfaces/http/middleware"
)

// NotificationHandler handles stock alert HTTP requests
type NotificationHandler struct {
	BaseHandler
	service *appnotification.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service *appnotification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// RegisterRoutes registers the notification routes
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unread", h.ListUnread)
		notifications.POST("/:id/read", h.MarkRead)
	}
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var req dto.ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := h.buildFilter(req.ListRequest)
	if req.Type != "" {
		filter.Filters["type"] = req.Type
	}
	if req.Severity != "" {
		filter.Filters["severity"] = req.Severity
	}
	if req.Read != nil {
		filter.Filters["read"] = *req.Read
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListUnread handles GET /notifications/unread
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	var req dto.ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := h.buildFilter(req.ListRequest)
	if req.Type != "" {
		filter.Filters["type"] = req.Type
	}
	if req.Severity != "" {
		filter.Filters["severity"] = req.Severity
	}

	resp, err := h.service.ListUnread(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkRead handles POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}
