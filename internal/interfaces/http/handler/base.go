package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/pharmstock/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common response helpers for all handlers
type BaseHandler struct{}

// Success sends a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with data and pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps an application error to its HTTP response. Domain errors carry
// their own code; anything else becomes a 500 without leaking the cause.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.ErrorWithCode(c, domainErr.Code, domainErr.Message)
		return
	}
	_ = c.Error(err)
	h.ErrorWithCode(c, dto.ErrCodeInternal, "An internal error occurred")
}

// ErrorWithCode sends an error response with a specific code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	status := dto.GetHTTPStatus(code)
	c.JSON(status, dto.NewErrorResponse(code, message, h.getRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeNotFound, message)
}

func (h *BaseHandler) getRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// actorID reads the acting user from the X-User-ID header. The header is
// optional; movements recorded by unattended integrations carry no user.
func (h *BaseHandler) actorID(c *gin.Context) *uuid.UUID {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// parseID parses the :id path parameter as a UUID
func (h *BaseHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalID parses a UUID string that binding already validated,
// returning nil when absent
func parseOptionalID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// buildFilter converts list request parameters into a repository filter.
// OrderBy stays empty unless the client asked for one, so each repository
// falls back to its own default ordering.
func (h *BaseHandler) buildFilter(req dto.ListRequest) shared.Filter {
	filter := shared.Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	return filter
}
