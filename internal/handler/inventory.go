package handler

import (
	"net/http"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Alerts godoc
// @Summary      Stock alerts
// @Description  Every product bucketed into out_of_stock, critical (1-2), low (3-5), medium (6-10) and normal.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.StockAlertsResponse
// @Router       /v1/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *gin.Context) {
	resp, err := h.svc.Alerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ValidateStock godoc
// @Summary      Check whether a quantity can be sold
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.StockValidationRequest true "Product and quantity"
// @Success      200  {object} dto.StockValidationResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/inventory/stock-validation [post]
func (h *InventoryHandler) ValidateStock(c *gin.Context) {
	var req dto.StockValidationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ValidateStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Movements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
