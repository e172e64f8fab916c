package dto

// StockValidationRequest asks whether quantity units of a product can be sold.
type StockValidationRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"min=0"`
}

type StockValidationResponse struct {
	CanSell           bool   `json:"can_sell"`
	AvailableStock    int    `json:"available_stock"`
	RequestedQuantity int    `json:"requested_quantity"`
	ProductName       string `json:"product_name"`
	Message           string `json:"message"`
}

// StockAlertsResponse buckets every product into its stock tier.
type StockAlertsResponse struct {
	OutOfStock  []ProductResponse `json:"out_of_stock"`
	Critical    []ProductResponse `json:"critical"`
	Low         []ProductResponse `json:"low"`
	Medium      []ProductResponse `json:"medium"`
	Normal      []ProductResponse `json:"normal"`
	TotalAlerts int               `json:"total_alerts"`
}

type MovementFilter struct {
	ProductID string `form:"product" validate:"omitempty,uuid"`
	Kind      string `form:"kind"    validate:"omitempty,oneof=sale sale_reversal sale_edit restock adjustment"`
	Page      int    `form:"page,default=1"    validate:"min=1"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product"`
	ProductName string  `json:"product_name"`
	Kind        string  `json:"kind"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reason      string  `json:"reason"`
	ReferenceID *string `json:"reference_id"`
	CreatedAt   string  `json:"created_at"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
