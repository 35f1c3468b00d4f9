package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/quickfix/internal/repository"
	"github.com/ignatzorin/quickfix/internal/service"
)

// HealthHandler предоставляет endpoint для проверки здоровья стенда.
type HealthHandler struct {
	market *service.Marketplace
}

// NewHealthHandler создаёт новый health handler.
func NewHealthHandler(market *service.Marketplace) *HealthHandler {
	return &HealthHandler{market: market}
}

// HealthResponse представляет ответ health check.
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Store     repository.Stats `json:"store"`
}

// Health обрабатывает GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Store:     h.market.Store().Stats(),
	})
}
