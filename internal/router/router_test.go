package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/config"
	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/infra"
	"github.com/Joe-Bills/moto-spares-manager/internal/middleware"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"
	"github.com/Joe-Bills/moto-spares-manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "router-test-secret"

// fakeSales answers Create with a stock error for any quantity above 3.
type fakeSales struct {
	service.SaleService
	deleted []uuid.UUID
}

func (f *fakeSales) Create(_ context.Context, _ service.Actor, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if req.Quantity > 3 {
		return nil, &model.InsufficientStockError{ProductName: "Chain", Available: 3, Requested: req.Quantity}
	}
	return &dto.SaleResponse{Quantity: req.Quantity, PaymentType: req.PaymentType}, nil
}

func (f *fakeSales) Get(_ context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	return nil, service.ErrNotFound
}

func (f *fakeSales) Delete(_ context.Context, _ service.Actor, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeReports struct {
	service.ReportService
	emailErr error
}

func (f *fakeReports) ExportSales(_ context.Context, format, _, _ string) (*infra.Attachment, error) {
	return &infra.Attachment{Filename: "sales_report_20260101.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.3")}, nil
}

func (f *fakeReports) EmailSales(context.Context, service.Actor, dto.EmailReportRequest) error {
	return f.emailErr
}

func newTestEngine(t *testing.T) (*gin.Engine, *fakeSales, *fakeReports) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: "test", JWTSecret: secret, BusinessName: "Moto Spares", Currency: "TZS"}
	sales := &fakeSales{}
	reports := &fakeReports{}
	return New(cfg, &Services{Sales: sales, Reports: reports}, nil, nil, nil), sales, reports
}

func token(t *testing.T, role, typ string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   uuid.NewString(),
		Username: role + "-user",
		Role:     role,
		Typ:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func request(r http.Handler, method, path, tok, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes_RequireAccessToken(t *testing.T) {
	r, _, _ := newTestEngine(t)

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/v1/settings", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/v1/settings", token(t, model.RoleStaff, "refresh"), "").Code)

	w := request(r, http.MethodGet, "/v1/settings", token(t, model.RoleStaff, service.TokenAccess), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"business_name":"Moto Spares","currency":"TZS"}`, w.Body.String())
}

func TestRoutes_StaffCannotDelete(t *testing.T) {
	r, sales, _ := newTestEngine(t)
	path := "/v1/sales/" + uuid.NewString()

	w := request(r, http.MethodDelete, path, token(t, model.RoleStaff, service.TokenAccess), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, sales.deleted)

	w = request(r, http.MethodDelete, path, token(t, model.RoleAdmin, service.TokenAccess), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, sales.deleted, 1)
}

func TestRoutes_SaleErrors(t *testing.T) {
	r, _, _ := newTestEngine(t)
	staff := token(t, model.RoleStaff, service.TokenAccess)
	product := uuid.NewString()

	w := request(r, http.MethodPost, "/v1/sales", staff, `{"product":"`+product+`","quantity":2,"payment_type":"cash"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = request(r, http.MethodPost, "/v1/sales", staff, `{"product":"`+product+`","quantity":5,"payment_type":"cash"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var stock struct {
		AvailableStock    int    `json:"available_stock"`
		RequestedQuantity int    `json:"requested_quantity"`
		ProductName       string `json:"product_name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stock))
	assert.Equal(t, 3, stock.AvailableStock)
	assert.Equal(t, 5, stock.RequestedQuantity)
	assert.Equal(t, "Chain", stock.ProductName)

	w = request(r, http.MethodPost, "/v1/sales", staff, `{"product":"`+product+`","quantity":0,"payment_type":"card"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PaymentType")

	assert.Equal(t, http.StatusBadRequest, request(r, http.MethodGet, "/v1/sales/not-a-uuid", staff, "").Code)
	assert.Equal(t, http.StatusNotFound, request(r, http.MethodGet, "/v1/sales/"+uuid.NewString(), staff, "").Code)
}

func TestRoutes_Reports(t *testing.T) {
	r, _, reports := newTestEngine(t)
	admin := token(t, model.RoleSuperuser, service.TokenAccess)

	assert.Equal(t, http.StatusForbidden,
		request(r, http.MethodGet, "/v1/reports/sales/pdf", token(t, model.RoleStaff, service.TokenAccess), "").Code)

	w := request(r, http.MethodGet, "/v1/reports/sales/pdf?from=2026-01-01", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sales_report_20260101.pdf")

	body := `{"to":"owner@example.com","format":"pdf"}`
	assert.Equal(t, http.StatusAccepted, request(r, http.MethodPost, "/v1/reports/sales/email", admin, body).Code)

	reports.emailErr = service.ErrUnavailable
	assert.Equal(t, http.StatusServiceUnavailable, request(r, http.MethodPost, "/v1/reports/sales/email", admin, body).Code)
}
