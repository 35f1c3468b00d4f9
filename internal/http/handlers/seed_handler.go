package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/quickfix/internal/http/handlers/common"
	"github.com/ignatzorin/quickfix/internal/service"
)

// SeedHandler заполняет стенд демо-данными.
type SeedHandler struct {
	seedService *service.SeedService
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seedService *service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// SeedResponse представляет ответ на запрос генерации данных.
type SeedResponse struct {
	Message  string                `json:"message"`
	Accounts []service.SeedAccount `json:"accounts"`
}

// Seed обрабатывает POST /seed. Доступен только в development.
func (h *SeedHandler) Seed(c *gin.Context) {
	accounts, err := h.seedService.SeedData(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SeedResponse{Message: "Seed data created", Accounts: accounts})
}
