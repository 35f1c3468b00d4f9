package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/quickfix/internal/http/handlers/common"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/service"
)

// AuthHandler предоставляет HTTP слой для регистрации и логина.
type AuthHandler struct {
	market *service.Marketplace
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(market *service.Marketplace) *AuthHandler {
	return &AuthHandler{market: market}
}

// Login обрабатывает POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondMessage(c, http.StatusBadRequest, "Missing credentials")
		return
	}

	resp, err := h.market.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register обрабатывает POST /user.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.UserForm
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondMessage(c, http.StatusBadRequest, "Missing fields")
		return
	}

	if _, err := h.market.Register(c.Request.Context(), req); err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondMessage(c, http.StatusCreated, "User registered")
}
