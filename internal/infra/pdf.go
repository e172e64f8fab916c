package infra

// pdf.go renders the sales report export with go-pdf/fpdf:
//   - business name header and reporting period
//   - one row per sale (date, product, qty, unit price, line total)
//   - summary with total revenue and record count

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// RenderSalesPDF renders report as an A4 portrait PDF and returns its bytes.
func RenderSalesPDF(report *SalesReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Core fonts are cp1252; translate UTF-8 text before it reaches a cell.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(report.Business.Name), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Sales Report", "", 1, "C", false, 0, "")
	if report.PeriodLabel != "" {
		pdf.CellFormat(contentW, 5, report.PeriodLabel, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Generated "+report.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table header ─────────────────────────────────────────────────────────
	colDate := contentW * 0.18
	colProduct := contentW * 0.38
	colQty := contentW * 0.10
	colPrice := contentW * 0.17
	colTotal := contentW * 0.17

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colDate, 7, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colProduct, 7, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colQty, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colPrice, 7, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colTotal, 7, "Total", "1", 1, "R", true, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, row := range report.Rows {
		name := tr(truncateRunes(row.Product, 40))
		pdf.CellFormat(colDate, 6, row.Date.Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colProduct, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", row.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colPrice, 6, row.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 6, row.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	// ── Summary ──────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW-colTotal*2, 7, "Total revenue:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal*2, 7, report.money(report.TotalRevenue), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-colTotal*2, 7, "Records:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal*2, 7, fmt.Sprintf("%d", len(report.Rows)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// truncateRunes shortens s to at most max runes, marking the cut with "...".
func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "..."
}
