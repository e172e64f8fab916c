package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name          string          `json:"name"            validate:"required,min=1,max=200"`
	BuyingPrice   decimal.Decimal `json:"buying_price"    validate:"min=0"`
	SellingPrice  decimal.Decimal `json:"selling_price"   validate:"min=0"`
	StockQty      int             `json:"stock_qty"       validate:"min=0"`
	UnitsPerBox   *int            `json:"units_per_box"   validate:"omitempty,min=1"`
	IsBulkProduct bool            `json:"is_bulk_product"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"            validate:"omitempty,min=1,max=200"`
	BuyingPrice   *decimal.Decimal `json:"buying_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	StockQty      *int             `json:"stock_qty"       validate:"omitempty,min=0"`
	UnitsPerBox   *int             `json:"units_per_box"   validate:"omitempty,min=1"`
	IsBulkProduct *bool            `json:"is_bulk_product"`
	RemoveImage   bool             `json:"remove_image"`
}

type RestockRequest struct {
	// Quantity defaults to 10 when omitted.
	Quantity *int `json:"quantity" validate:"omitempty,min=1"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name        string `form:"name"`
	StockStatus string `form:"stock_status" validate:"omitempty,oneof=out_of_stock critical low medium normal"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// DisplayInfo is the presentation summary shown in product pickers. Box
// fields are only set for bulk products.
type DisplayInfo struct {
	Name           string           `json:"name"`
	BoxPrice       *decimal.Decimal `json:"box_price,omitempty"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	TotalBoxes     *int             `json:"total_boxes,omitempty"`
	RemainingUnits *int             `json:"remaining_units,omitempty"`
	TotalUnits     int              `json:"total_units"`
}

type ProductResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	BuyingPrice      decimal.Decimal `json:"buying_price"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	StockQty         int             `json:"stock_qty"`
	ImageURL         *string         `json:"image"`
	IsOutOfStock     bool            `json:"is_out_of_stock"`
	StockStatus      string          `json:"stock_status"`
	UnitsPerBox      int             `json:"units_per_box"`
	IsBulkProduct    bool            `json:"is_bulk_product"`
	UnitBuyingPrice  decimal.Decimal `json:"unit_buying_price"`
	UnitSellingPrice decimal.Decimal `json:"unit_selling_price"`
	TotalBoxes       int             `json:"total_boxes"`
	RemainingUnits   int             `json:"remaining_units"`
	DisplayInfo      DisplayInfo     `json:"display_info"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
