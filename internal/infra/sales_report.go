package infra

import (
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/config"

	"github.com/shopspring/decimal"
)

// SalesReportRow is one sale as printed in an exported report.
type SalesReportRow struct {
	ID          string
	Date        time.Time
	Product     string
	Quantity    int
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	PaymentType string
}

// SalesReport is everything the PDF and XLSX renderers need. Rows are
// already capped and ordered newest first by the caller.
type SalesReport struct {
	Business     config.Business
	PeriodLabel  string
	GeneratedAt  time.Time
	Rows         []SalesReportRow
	TotalRevenue decimal.Decimal
}

func (r *SalesReport) money(d decimal.Decimal) string {
	if r.Business.Currency == "" {
		return d.StringFixed(2)
	}
	return r.Business.Currency + " " + d.StringFixed(2)
}
