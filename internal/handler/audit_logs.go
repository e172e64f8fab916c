package handler

import (
	"net/http"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type AuditLogsHandler struct{ svc service.AuditService }

func NewAuditLogsHandler(svc service.AuditService) *AuditLogsHandler {
	return &AuditLogsHandler{svc: svc}
}

// List godoc
// @Summary List audit log entries, newest first
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param model  query string false "Entity name (Product, Sale, ...)"
// @Param action query string false "create | update | delete | login | other"
// @Success 200 {object} dto.AuditLogListResponse
// @Router /v1/audit-logs [get]
func (h *AuditLogsHandler) List(c *gin.Context) {
	var filter dto.AuditLogFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
