package infra

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const salesSheet = "Sales"

var salesColumns = []string{"ID", "Date", "Product", "Quantity", "Price", "Discount", "Total", "Payment Type"}

// RenderSalesXLSX writes one row per sale followed by a summary footer and
// returns the workbook bytes.
func RenderSalesXLSX(report *SalesReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: style: %w", err)
	}

	for i, h := range salesColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(salesSheet, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(salesColumns), 1)
	_ = f.SetCellStyle(salesSheet, "A1", last, bold)

	rowIdx := 2
	for _, r := range report.Rows {
		values := []any{
			r.ID,
			r.Date.Format("2006-01-02 15:04"),
			r.Product,
			r.Quantity,
			r.Price.InexactFloat64(),
			r.Discount.InexactFloat64(),
			r.Total.InexactFloat64(),
			r.PaymentType,
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		if err := f.SetSheetRow(salesSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: row %d: %w", rowIdx, err)
		}
		rowIdx++
	}

	// ── Summary footer ───────────────────────────────────────────────────────
	rowIdx++
	footer := [][]any{
		{"Total revenue", report.TotalRevenue.InexactFloat64()},
		{"Records", len(report.Rows)},
		{"Currency", report.Business.Currency},
	}
	for _, line := range footer {
		cell, _ := excelize.CoordinatesToCellName(6, rowIdx)
		if err := f.SetSheetRow(salesSheet, cell, &line); err != nil {
			return nil, fmt.Errorf("xlsx: footer: %w", err)
		}
		_ = f.SetCellStyle(salesSheet, cell, cell, bold)
		rowIdx++
	}

	_ = f.SetColWidth(salesSheet, "A", "A", 38)
	_ = f.SetColWidth(salesSheet, "B", "B", 18)
	_ = f.SetColWidth(salesSheet, "C", "C", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}
