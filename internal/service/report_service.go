package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/config"
	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/infra"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"
	"github.com/Joe-Bills/moto-spares-manager/internal/report"
	"github.com/Joe-Bills/moto-spares-manager/internal/repository"
	"github.com/Joe-Bills/moto-spares-manager/internal/worker"

	"golang.org/x/sync/errgroup"
)

// Export formats.
const (
	FormatPDF   = "pdf"
	FormatExcel = "excel"
)

// ErrUnavailable is returned when an optional backend (queue, SMTP) is not configured.
var ErrUnavailable = errors.New("service unavailable")

// ReportQueue hands emailed reports to the background workers.
type ReportQueue interface {
	EnqueueReportEmail(ctx context.Context, payload worker.ReportEmailPayload) error
}

type ReportService interface {
	Data(ctx context.Context, q dto.ReportQuery) (*report.Data, error)
	// ExportSales renders the most recent sales of the window as a file.
	ExportSales(ctx context.Context, format, from, to string) (*infra.Attachment, error)
	EmailSales(ctx context.Context, actor Actor, req dto.EmailReportRequest) error
}

type reportService struct {
	sales       repository.SaleRepository
	expenses    repository.ExpenseRepository
	products    repository.ProductRepository
	queue       ReportQueue
	audit       AuditService
	business    config.Business
	exportLimit int
	now         func() time.Time
}

func NewReportService(
	sales repository.SaleRepository,
	expenses repository.ExpenseRepository,
	products repository.ProductRepository,
	queue ReportQueue,
	audit AuditService,
	cfg *config.Config,
) ReportService {
	limit := cfg.ReportExportLimit
	if limit <= 0 {
		limit = 100
	}
	return &reportService{
		sales:       sales,
		expenses:    expenses,
		products:    products,
		queue:       queue,
		audit:       audit,
		business:    cfg.Settings(),
		exportLimit: limit,
		now:         time.Now,
	}
}

// Data loads sales, expenses and products concurrently, then aggregates them.
func (s *reportService) Data(ctx context.Context, q dto.ReportQuery) (*report.Data, error) {
	period, err := parsePeriod(q.From, q.To)
	if err != nil {
		return nil, err
	}

	var (
		sales    []model.Sale
		expenses []model.Expense
		products []model.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = s.sales.ListInPeriod(gctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenses.ListInPeriod(gctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.products.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load report data: %w", err)
	}

	data := report.Build(sales, expenses, products)
	return &data, nil
}

func (s *reportService) ExportSales(ctx context.Context, format, from, to string) (*infra.Attachment, error) {
	if format != FormatPDF && format != FormatExcel {
		return nil, invalid("format", "must be pdf or excel")
	}
	period, err := parsePeriod(from, to)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.Recent(ctx, period, s.exportLimit)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}

	now := s.now()
	doc := &infra.SalesReport{
		Business:     s.business,
		PeriodLabel:  periodLabel(from, to),
		GeneratedAt:  now,
		Rows:         make([]infra.SalesReportRow, len(sales)),
		TotalRevenue: report.Revenue(sales),
	}
	for i := range sales {
		sl := &sales[i]
		doc.Rows[i] = infra.SalesReportRow{
			ID:          sl.ID.String(),
			Date:        sl.CreatedAt,
			Product:     model.ProductLabel(sl.Product, sl.ProductID),
			Quantity:    sl.Quantity,
			Price:       sl.Price,
			Discount:    sl.Discount,
			Total:       sl.LineTotal(),
			PaymentType: sl.PaymentType,
		}
	}

	stamp := now.Format("20060102")
	switch format {
	case FormatPDF:
		content, err := infra.RenderSalesPDF(doc)
		if err != nil {
			return nil, err
		}
		return &infra.Attachment{
			Filename:    "sales_report_" + stamp + ".pdf",
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		content, err := infra.RenderSalesXLSX(doc)
		if err != nil {
			return nil, err
		}
		return &infra.Attachment{
			Filename:    "sales_report_" + stamp + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	}
}

// EmailSales validates the request and queues it; rendering and delivery
// happen in the worker pool.
func (s *reportService) EmailSales(ctx context.Context, actor Actor, req dto.EmailReportRequest) error {
	if req.Format != FormatPDF && req.Format != FormatExcel {
		return invalid("format", "must be pdf or excel")
	}
	if _, err := parsePeriod(req.From, req.Until); err != nil {
		return err
	}
	if s.queue == nil {
		return fmt.Errorf("report email queue: %w", ErrUnavailable)
	}

	payload := worker.ReportEmailPayload{
		To:          req.To,
		Format:      req.Format,
		From:        req.From,
		Until:       req.Until,
		RequestedBy: actor.Username,
	}
	if err := s.queue.EnqueueReportEmail(ctx, payload); err != nil {
		return fmt.Errorf("enqueue report email: %w", err)
	}

	s.audit.Record(ctx, actor, model.ActionOther, "Report", "",
		fmt.Sprintf("Queued %s sales report for %s", req.Format, req.To))
	return nil
}
