package handler

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appstock "github.com/pharmstock/backend/internal/application/stock"
	"github.com/pharmstock/backend/internal/domain/stock"
	"github.com/pharmstock/backend/internal/interfaces/http/dto"
	"github.com/pharmstock/backend/internal/interfaces/http/middleware"
)

const defaultExpiryWindowDays = 10

// StockHandler handles batch and ledger HTTP requests
type StockHandler struct {
	BaseHandler
	batchService  *appstock.BatchService
	ledgerService *appstock.LedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(batchService *appstock.BatchService, ledgerService *appstock.LedgerService) *StockHandler {
	return &StockHandler{
		batchService:  batchService,
		ledgerService: ledgerService,
	}
}

// RegisterRoutes registers the batch and ledger routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/batches")
	{
		batches.POST("", h.CreateBatch)
		batches.GET("", h.ListBatches)
		batches.GET("/expiring", h.ListExpiringBatches)
		batches.GET("/:id", h.GetBatch)
		batches.DELETE("/:id", h.DeleteBatch)
		batches.GET("/:id/ledger", h.ListBatchLedger)
	}

	ledger := rg.Group("/ledger")
	{
		ledger.POST("", h.RecordLedgerEntry)
		ledger.GET("/pending", h.ListPendingSales)
		ledger.GET("/:id", h.GetLedgerEntry)
		ledger.POST("/:id/approve", h.ApproveSale)
		ledger.POST("/:id/decline", h.DeclineSale)
	}
}

// CreateBatch handles POST /batches
func (h *StockHandler) CreateBatch(c *gin.Context) {
	var req dto.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	drugID, _ := uuid.Parse(req.DrugID)
	supplierID, _ := uuid.Parse(req.SupplierID)
	manufactureDate, _ := time.Parse("2006-01-02", req.ManufactureDate)
	expiryDate, _ := time.Parse("2006-01-02", req.ExpiryDate)
	purchaseDate, _ := time.Parse("2006-01-02", req.PurchaseDate)

	resp, err := h.batchService.Create(c.Request.Context(), appstock.CreateBatchRequest{
		DrugID:            drugID,
		SupplierID:        supplierID,
		BatchNumber:       req.BatchNumber,
		ManufactureDate:   manufactureDate,
		ExpiryDate:        expiryDate,
		PurchaseDate:      purchaseDate,
		UnitCost:          req.UnitCost,
		UnitPrice:         req.UnitPrice,
		InitialQty:        req.InitialQty,
		LowStockThreshold: req.LowStockThreshold,
		UserID:            h.actorID(c),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// ListBatches handles GET /batches
func (h *StockHandler) ListBatches(c *gin.Context) {
	var req dto.ListBatchesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := h.buildFilter(req.ListRequest)
	if req.DrugID != "" {
		filter.Filters["drug_id"] = req.DrugID
	}
	if req.SupplierID != "" {
		filter.Filters["supplier_id"] = req.SupplierID
	}
	if req.HasStock {
		filter.Filters["has_stock"] = true
	}
	if req.Expired {
		filter.Filters["expired"] = true
	}

	page, err := h.batchService.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetBatch handles GET /batches/:id
func (h *StockHandler) GetBatch(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.batchService.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteBatch handles DELETE /batches/:id
func (h *StockHandler) DeleteBatch(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.batchService.Delete(c.Request.Context(), id, h.actorID(c)); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ListExpiringBatches handles GET /batches/expiring
func (h *StockHandler) ListExpiringBatches(c *gin.Context) {
	var req dto.ExpiringBatchesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.WithinDays == 0 {
		req.WithinDays = defaultExpiryWindowDays
	}

	resp, err := h.batchService.ListExpiringWithin(c.Request.Context(), req.WithinDays)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// ListBatchLedger handles GET /batches/:id/ledger
func (h *StockHandler) ListBatchLedger(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ListLedgerRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := h.buildFilter(req.ListRequest)
	if req.Type != "" {
		filter.Filters["type"] = req.Type
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	resp, err := h.ledgerService.ListByBatch(c.Request.Context(), id, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordLedgerEntry handles POST /ledger
func (h *StockHandler) RecordLedgerEntry(c *gin.Context) {
	var req dto.RecordLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	batchID, _ := uuid.Parse(req.BatchID)
	resp, err := h.ledgerService.Record(c.Request.Context(), appstock.RecordRequest{
		BatchID:        batchID,
		Type:           stock.EntryType(req.Type),
		Quantity:       req.Quantity,
		UserID:         h.actorID(c),
		Notes:          req.Notes,
		FromLocationID: parseOptionalID(req.FromLocationID),
		ToLocationID:   parseOptionalID(req.ToLocationID),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// GetLedgerEntry handles GET /ledger/:id
func (h *StockHandler) GetLedgerEntry(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.ledgerService.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// ListPendingSales handles GET /ledger/pending
func (h *StockHandler) ListPendingSales(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.ledgerService.ListPendingSales(c.Request.Context(), h.buildFilter(req))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// ApproveSale handles POST /ledger/:id/approve
func (h *StockHandler) ApproveSale(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	// The approval body is optional
	var req dto.ApproveSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.ledgerService.ApproveSale(c.Request.Context(), id, h.actorID(c), req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// DeclineSale handles POST /ledger/:id/decline
func (h *StockHandler) DeclineSale(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.DeclineSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.ledgerService.DeclineSale(c.Request.Context(), id, h.actorID(c), req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}
