package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/stock"
)

// RecordRequest is the input for recording a stock movement
type RecordRequest struct {
	BatchID        uuid.UUID
	Type           stock.EntryType
	Quantity       int64
	UserID         *uuid.UUID
	Notes          string
	FromLocationID *uuid.UUID
	ToLocationID   *uuid.UUID
}

// LedgerEntryResponse is the API-facing view of a ledger entry
type LedgerEntryResponse struct {
	ID              string  `json:"id"`
	BatchID         string  `json:"batch_id"`
	Type            string  `json:"type"`
	Quantity        int64   `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	Status          string  `json:"status"`
	UserID          *string `json:"user_id,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	FromLocationID  *string `json:"from_location_id,omitempty"`
	ToLocationID    *string `json:"to_location_id,omitempty"`
	TransactionDate string  `json:"transaction_date"`
	BalanceAfter    *int64  `json:"balance_after,omitempty"`
}

// ToLedgerEntryResponse converts a domain entry to its response form.
// balanceAfter is only known when the entry just moved stock; reads pass nil
// and the field stays off the wire.
func ToLedgerEntryResponse(entry *stock.LedgerEntry, balanceAfter *int64) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		ID:              entry.ID.String(),
		BatchID:         entry.BatchID.String(),
		Type:            entry.Type.String(),
		Quantity:        entry.Quantity,
		UnitPrice:       entry.UnitPrice.InexactFloat64(),
		Status:          entry.Status.String(),
		Notes:           entry.Notes,
		TransactionDate: entry.TransactionDate.Format(time.RFC3339),
		BalanceAfter:    balanceAfter,
	}
	if entry.UserID != nil {
		s := entry.UserID.String()
		resp.UserID = &s
	}
	if entry.FromLocationID != nil {
		s := entry.FromLocationID.String()
		resp.FromLocationID = &s
	}
	if entry.ToLocationID != nil {
		s := entry.ToLocationID.String()
		resp.ToLocationID = &s
	}
	return resp
}

// CreateBatchRequest is the input for receiving a new batch
type CreateBatchRequest struct {
	DrugID            uuid.UUID
	SupplierID        uuid.UUID
	BatchNumber       string
	ManufactureDate   time.Time
	ExpiryDate        time.Time
	PurchaseDate      time.Time
	UnitCost          float64
	UnitPrice         float64
	InitialQty        int64
	LowStockThreshold int64
	UserID            *uuid.UUID
}

// BatchResponse is the API-facing view of a batch
type BatchResponse struct {
	ID                string  `json:"id"`
	DrugID            string  `json:"drug_id"`
	SupplierID        string  `json:"supplier_id"`
	BatchNumber       string  `json:"batch_number"`
	ManufactureDate   string  `json:"manufacture_date"`
	ExpiryDate        string  `json:"expiry_date"`
	PurchaseDate      string  `json:"purchase_date"`
	UnitCost          float64 `json:"unit_cost"`
	UnitPrice         float64 `json:"unit_price"`
	CurrentQty        int64   `json:"current_qty"`
	LowStockThreshold int64   `json:"low_stock_threshold"`
	IsBelowThreshold  bool    `json:"is_below_threshold"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	Version           int     `json:"version"`
}

// ToBatchResponse converts a domain batch to its response form
func ToBatchResponse(batch *stock.Batch) BatchResponse {
	return BatchResponse{
		ID:                batch.ID.String(),
		DrugID:            batch.DrugID.String(),
		SupplierID:        batch.SupplierID.String(),
		BatchNumber:       batch.BatchNumber,
		ManufactureDate:   batch.ManufactureDate.Format("2006-01-02"),
		ExpiryDate:        batch.ExpiryDate.Format("2006-01-02"),
		PurchaseDate:      batch.PurchaseDate.Format("2006-01-02"),
		UnitCost:          batch.UnitCost.InexactFloat64(),
		UnitPrice:         batch.UnitPrice.InexactFloat64(),
		CurrentQty:        batch.CurrentQty,
		LowStockThreshold: batch.LowStockThreshold,
		IsBelowThreshold:  batch.IsBelowThreshold(),
		CreatedAt:         batch.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         batch.UpdatedAt.Format(time.RFC3339),
		Version:           batch.Version,
	}
}

// ToBatchResponses converts a slice of batches
func ToBatchResponses(batches []stock.Batch) []BatchResponse {
	responses := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, ToBatchResponse(&batches[i]))
	}
	return responses
}
