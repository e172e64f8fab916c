// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// StockError is returned when a mutation would take stock below zero. It
// carries enough for the client to show available vs requested quantities.
type StockError struct {
	Detail            string `json:"detail"`
	AvailableStock    int    `json:"available_stock"`
	RequestedQuantity int    `json:"requested_quantity"`
	ProductName       string `json:"product_name"`
}

func NewStock(detail, productName string, available, requested int) *StockError {
	return &StockError{
		Detail:            detail,
		AvailableStock:    available,
		RequestedQuantity: requested,
		ProductName:       productName,
	}
}
