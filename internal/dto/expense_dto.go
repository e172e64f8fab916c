package dto

import "github.com/shopspring/decimal"

type CreateExpenseRequest struct {
	Date        string          `json:"date"        validate:"required,datetime=2006-01-02"`
	Description string          `json:"description" validate:"required,min=1,max=255"`
	Category    string          `json:"category"    validate:"required,min=1,max=100"`
	Amount      decimal.Decimal `json:"amount"      validate:"min=0"`
}

type UpdateExpenseRequest struct {
	Date        *string          `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	Description *string          `json:"description" validate:"omitempty,min=1,max=255"`
	Category    *string          `json:"category"    validate:"omitempty,min=1,max=100"`
	Amount      *decimal.Decimal `json:"amount"`
}

type ExpenseFilter struct {
	From  string `form:"from"  validate:"omitempty,datetime=2006-01-02"`
	To    string `form:"to"    validate:"omitempty,datetime=2006-01-02"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
}

type ExpenseListResponse struct {
	Data  []ExpenseResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
