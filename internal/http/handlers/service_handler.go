package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/quickfix/internal/http/handlers/common"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/service"
)

// ServiceHandler обслуживает принятые услуги.
type ServiceHandler struct {
	market *service.Marketplace
}

// NewServiceHandler создаёт хэндлер.
func NewServiceHandler(market *service.Marketplace) *ServiceHandler {
	return &ServiceHandler{market: market}
}

// Get обрабатывает GET /service/:id.
func (h *ServiceHandler) Get(c *gin.Context) {
	svc, err := h.market.GetService(c.Request.Context(), common.IDParam(c, "id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// ListByProvider обрабатывает GET /services/provider/:id.
func (h *ServiceHandler) ListByProvider(c *gin.Context) {
	q := service.OwnQuery{
		Status: c.Query("status"),
		Query:  c.Query("query"),
		Budget: common.QueryOptionalFloat(c, "budget"),
	}
	c.JSON(http.StatusOK, h.market.ProviderServices(c.Request.Context(), common.IDParam(c, "id"), q))
}

// UpdateStatus обрабатывает PATCH /service/status.
func (h *ServiceHandler) UpdateStatus(c *gin.Context) {
	var req models.StatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondMessage(c, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	status, err := h.market.UpdateServiceStatus(c.Request.Context(), req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, fmt.Sprintf("Service status updated to '%s'", status))
}
