package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/config"
	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportFixture(queue ReportQueue, exportLimit int) (*fixture, *reportService) {
	f := newFixture()
	cfg := &config.Config{BusinessName: "Moto Spares", Currency: "TZS", ReportExportLimit: exportLimit}
	svc := NewReportService(f.sales, f.expenses, f.products, queue, f.audit, cfg).(*reportService)
	svc.now = func() time.Time { return time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC) }
	return f, svc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestReportData_WindowIsInclusive(t *testing.T) {
	f, svc := newReportFixture(nil, 0)
	pid := f.products.seed(model.Product{Name: "Pads", BuyingPrice: decimal.NewFromInt(5), StockQty: 10})
	f.sales.seed(model.Sale{ProductID: &pid, Quantity: 2, Price: decimal.NewFromInt(10), PaymentType: model.PaymentCash, CreatedAt: day(2026, 3, 1)})
	f.sales.seed(model.Sale{ProductID: &pid, Quantity: 1, Price: decimal.NewFromInt(10), PaymentType: model.PaymentMobile, CreatedAt: day(2026, 3, 31)})
	f.sales.seed(model.Sale{ProductID: &pid, Quantity: 9, Price: decimal.NewFromInt(10), PaymentType: model.PaymentCash, CreatedAt: day(2026, 4, 1)})
	_ = f.expenses.Create(context.Background(), &model.Expense{Date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local), Description: "Rent", Category: "rent", Amount: decimal.NewFromInt(4)})

	data, err := svc.Data(context.Background(), dto.ReportQuery{From: "2026-03-01", To: "2026-03-31"})
	require.NoError(t, err)

	assert.Equal(t, 2, data.Summary.TotalSales)
	assert.Equal(t, "30", data.Summary.TotalRevenue.String())
	assert.Equal(t, "19", data.ProfitAnalysis.TotalCost.String())
	assert.Equal(t, "4", data.ProfitAnalysis.TotalExpenses.String())
	assert.Equal(t, "11", data.ProfitAnalysis.TotalProfit.String())
	assert.Equal(t, map[string]int{"cash": 1, "mobile": 1}, data.PaymentMethods)
	require.Len(t, data.MonthlyRevenue, 1)
	assert.Equal(t, "2026-03", data.MonthlyRevenue[0].Month)
	assert.Equal(t, 1, data.StockAnalysis.TotalProducts)
}

func TestReportData_EmptyWindow(t *testing.T) {
	_, svc := newReportFixture(nil, 0)

	data, err := svc.Data(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)
	assert.Zero(t, data.Summary.TotalSales)
	assert.True(t, data.ProfitAnalysis.ProfitMargin.IsZero())
	assert.NotNil(t, data.TopProducts)
}

func TestReportData_BadDate(t *testing.T) {
	_, svc := newReportFixture(nil, 0)
	_, err := svc.Data(context.Background(), dto.ReportQuery{From: "03/01/2026"})
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "from", valErr.Field)
}

func TestExportSales_PDFAndExcel(t *testing.T) {
	f, svc := newReportFixture(nil, 2)
	pid := f.products.seed(model.Product{Name: "Pads", StockQty: 10})
	for i := 1; i <= 3; i++ {
		f.sales.seed(model.Sale{ProductID: &pid, Quantity: 1, Price: decimal.NewFromInt(10), PaymentType: model.PaymentCash, CreatedAt: day(2026, 4, i)})
	}

	pdf, err := svc.ExportSales(context.Background(), FormatPDF, "", "")
	require.NoError(t, err)
	assert.Equal(t, "sales_report_20260502.pdf", pdf.Filename)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, bytes.HasPrefix(pdf.Content, []byte("%PDF")))

	xlsx, err := svc.ExportSales(context.Background(), FormatExcel, "2026-04-01", "")
	require.NoError(t, err)
	assert.Equal(t, "sales_report_20260502.xlsx", xlsx.Filename)
	assert.NotEmpty(t, xlsx.Content)

	_, err = svc.ExportSales(context.Background(), "csv", "", "")
	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestEmailSales_QueuesAndAudits(t *testing.T) {
	q := &stubQueue{}
	f, svc := newReportFixture(q, 0)
	actor := adminActor()

	err := svc.EmailSales(context.Background(), actor, dto.EmailReportRequest{To: "owner@example.com", Format: FormatExcel, From: "2026-01-01"})
	require.NoError(t, err)

	require.Len(t, q.payloads, 1)
	assert.Equal(t, "owner@example.com", q.payloads[0].To)
	assert.Equal(t, FormatExcel, q.payloads[0].Format)
	assert.Equal(t, "owner", q.payloads[0].RequestedBy)

	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, model.ActionOther, f.audits.entries[0].Action)
	assert.Equal(t, "Report", f.audits.entries[0].Model)
}

func TestEmailSales_NoQueue(t *testing.T) {
	_, svc := newReportFixture(nil, 0)
	err := svc.EmailSales(context.Background(), adminActor(), dto.EmailReportRequest{To: "a@b.c", Format: FormatPDF})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEmailSales_QueueErrorNotAudited(t *testing.T) {
	f, svc := newReportFixture(&stubQueue{err: errBoom}, 0)
	err := svc.EmailSales(context.Background(), adminActor(), dto.EmailReportRequest{To: "a@b.c", Format: FormatPDF})
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, f.audits.entries)
}
