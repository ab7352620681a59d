package dto

// ListNotificationsRequest is the query for listing notifications
type ListNotificationsRequest struct {
	ListRequest
	Type     string `form:"type" binding:"omitempty,oneof=OUT_OF_STOCK LOW_STOCK NEAR_EXPIRY EXPIRED"`
	Severity string `form:"severity" binding:"omitempty,oneof=HIGH MEDIUM LOW"`
	Read     *bool  `form:"read"`
}
