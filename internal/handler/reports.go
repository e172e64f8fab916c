package handler

import (
	"fmt"
	"net/http"

	"github.com/Joe-Bills/moto-spares-manager/internal/apierror"
	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Data godoc
// @Summary      Reporting payload
// @Description  Revenue, expenses, profit, monthly revenue, top products, payment methods and stock analysis for the window.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "From date YYYY-MM-DD (inclusive)"
// @Param        to   query string false "To date YYYY-MM-DD (inclusive)"
// @Success      200 {object} report.Data
// @Router       /v1/reports/data [get]
func (h *ReportsHandler) Data(c *gin.Context) {
	var q dto.ReportQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Data(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SalesPDF godoc
// @Summary      Sales report as PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        from query string false "From date YYYY-MM-DD"
// @Param        to   query string false "To date YYYY-MM-DD"
// @Success      200 {file} file
// @Router       /v1/reports/sales/pdf [get]
func (h *ReportsHandler) SalesPDF(c *gin.Context) { h.export(c, service.FormatPDF) }

// SalesExcel godoc
// @Summary      Sales report as XLSX
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        from query string false "From date YYYY-MM-DD"
// @Param        to   query string false "To date YYYY-MM-DD"
// @Success      200 {file} file
// @Router       /v1/reports/sales/excel [get]
func (h *ReportsHandler) SalesExcel(c *gin.Context) { h.export(c, service.FormatExcel) }

func (h *ReportsHandler) export(c *gin.Context, format string) {
	var q dto.ReportQuery
	if !bindQuery(c, &q) {
		return
	}
	att, err := h.svc.ExportSales(c.Request.Context(), format, q.From, q.To)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, att.Filename))
	c.Data(http.StatusOK, att.ContentType, att.Content)
}

// EmailSales godoc
// @Summary      Email a sales report
// @Description  Queues the export; rendering and delivery happen in the background.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.EmailReportRequest true "Recipient, format and window"
// @Success      202
// @Failure      503 {object} apierror.APIError
// @Router       /v1/reports/sales/email [post]
func (h *ReportsHandler) EmailSales(c *gin.Context) {
	var req dto.EmailReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EmailSales(c.Request.Context(), actorFrom(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, apierror.New("Report queued for delivery"))
}
