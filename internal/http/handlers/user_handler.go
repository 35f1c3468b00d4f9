package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/quickfix/internal/http/handlers/common"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/service"
)

// UserHandler обслуживает профиль пользователя.
type UserHandler struct {
	market *service.Marketplace
}

// NewUserHandler создаёт хэндлер.
func NewUserHandler(market *service.Marketplace) *UserHandler {
	return &UserHandler{market: market}
}

// Me обрабатывает GET /user/me.
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	profile, err := h.market.Me(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Get обрабатывает GET /user/:id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.market.User(c.Request.Context(), common.IDParam(c, "id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update обрабатывает PATCH /user.
func (h *UserHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req models.UserForm
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondMessage(c, http.StatusBadRequest, "No valid fields to update")
		return
	}

	if err := h.market.UpdateUser(c.Request.Context(), userID, req); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "User updated")
}

// Delete обрабатывает DELETE /user.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	if err := h.market.DeleteUser(c.Request.Context(), userID); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "User and all associated data deleted")
}
