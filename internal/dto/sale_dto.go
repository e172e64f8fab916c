package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateSaleRequest struct {
	ProductID string `json:"product"  validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	// Price defaults to the product's current selling price when omitted.
	Price       *decimal.Decimal `json:"price"`
	Discount    decimal.Decimal  `json:"discount"     validate:"min=0"`
	PaymentType string           `json:"payment_type" validate:"required,oneof=cash mobile bank"`
}

type UpdateSaleRequest struct {
	ProductID   *string          `json:"product"      validate:"omitempty,uuid"`
	Quantity    *int             `json:"quantity"     validate:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price"`
	Discount    *decimal.Decimal `json:"discount"`
	PaymentType *string          `json:"payment_type" validate:"omitempty,oneof=cash mobile bank"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	From        string `form:"from"         validate:"omitempty,datetime=2006-01-02"`
	To          string `form:"to"           validate:"omitempty,datetime=2006-01-02"`
	PaymentType string `form:"payment_type" validate:"omitempty,oneof=cash mobile bank"`
	ProductID   string `form:"product"      validate:"omitempty,uuid"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleResponse struct {
	ID          string          `json:"id"`
	ProductID   *string         `json:"product"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	PaymentType string          `json:"payment_type"`
	UserID      *string         `json:"user"`
	Date        string          `json:"date"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
