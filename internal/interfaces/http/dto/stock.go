package dto

// CreateBatchRequest is the payload for receiving a new batch into stock
type CreateBatchRequest struct {
	DrugID            string  `json:"drug_id" binding:"required,uuid"`
	SupplierID        string  `json:"supplier_id" binding:"required,uuid"`
	BatchNumber       string  `json:"batch_number" binding:"required,max=100"`
	ManufactureDate   string  `json:"manufacture_date" binding:"required,datetime=2006-01-02"`
	ExpiryDate        string  `json:"expiry_date" binding:"required,datetime=2006-01-02"`
	PurchaseDate      string  `json:"purchase_date" binding:"required,datetime=2006-01-02"`
	UnitCost          float64 `json:"unit_cost" binding:"min=0"`
	UnitPrice         float64 `json:"unit_price" binding:"min=0"`
	InitialQty        int64   `json:"initial_qty" binding:"min=0"`
	LowStockThreshold int64   `json:"low_stock_threshold" binding:"min=0"`
}

// ListBatchesRequest is the query for listing batches
type ListBatchesRequest struct {
	ListRequest
	DrugID     string `form:"drug_id" binding:"omitempty,uuid"`
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
	HasStock   bool   `form:"has_stock"`
	Expired    bool   `form:"expired"`
}

// ExpiringBatchesRequest is the query for listing batches close to expiry
type ExpiringBatchesRequest struct {
	WithinDays int `form:"within_days" binding:"omitempty,min=1,max=365"`
}

// RecordLedgerRequest is the payload for recording a stock movement
type RecordLedgerRequest struct {
	BatchID        string `json:"batch_id" binding:"required,uuid"`
	Type           string `json:"type" binding:"required,oneof=INBOUND SALE RETURN_IN RETURN_OUT"`
	Quantity       int64  `json:"quantity" binding:"required,min=1"`
	Notes          string `json:"notes" binding:"max=500"`
	FromLocationID string `json:"from_location_id" binding:"omitempty,uuid"`
	ToLocationID   string `json:"to_location_id" binding:"omitempty,uuid"`
}

// ApproveSaleRequest is the payload for approving a pending sale
type ApproveSaleRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// DeclineSaleRequest is the payload for declining a pending sale
type DeclineSaleRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListLedgerRequest is the query for listing ledger entries
type ListLedgerRequest struct {
	ListRequest
	Type   string `form:"type" binding:"omitempty,oneof=INBOUND SALE RETURN_IN RETURN_OUT"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING COMPLETED APPROVED DECLINED"`
}
