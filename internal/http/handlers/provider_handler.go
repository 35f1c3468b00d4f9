package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/quickfix/internal/http/handlers/common"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/service"
)

// ProviderHandler обслуживает ленту исполнителей и роли текущего пользователя.
type ProviderHandler struct {
	market *service.Marketplace
}

// NewProviderHandler создаёт хэндлер.
func NewProviderHandler(market *service.Marketplace) *ProviderHandler {
	return &ProviderHandler{market: market}
}

// List обрабатывает GET /providers.
func (h *ProviderHandler) List(c *gin.Context) {
	userID, _ := common.CurrentUserID(c)

	q := service.DefaultProviderQuery()
	q.ServiceType = c.Query("serviceType")
	q.Query = c.Query("query")
	q.MaxBudget = common.QueryFloat(c, "maxBudget", q.MaxBudget)
	q.MaxDistance = common.QueryInt(c, "maxDistance", q.MaxDistance)

	c.JSON(http.StatusOK, h.market.ListProviders(c.Request.Context(), userID, q))
}

// Details обрабатывает GET /providers/details/:id?role=.
func (h *ProviderHandler) Details(c *gin.Context) {
	listing, err := h.market.ProviderDetails(c.Request.Context(), common.IDParam(c, "id"), c.Query("role"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// MyRoles обрабатывает GET /provider/roles.
func (h *ProviderHandler) MyRoles(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	roles, err := h.market.MyRoles(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// Add обрабатывает POST /provider.
func (h *ProviderHandler) Add(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req models.ProviderRole
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondMessage(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	if err := h.market.AddRole(c.Request.Context(), userID, req); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusCreated, "Role added")
}

// Update обрабатывает PATCH /provider.
func (h *ProviderHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req struct {
		Role         string   `json:"role"`
		Location     *string  `json:"pro_location"`
		Description  *string  `json:"pro_description"`
		PricePerHour *float64 `json:"pro_price_per_hour"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondMessage(c, http.StatusBadRequest, "Missing 'role' field to identify entry")
		return
	}

	err = h.market.UpdateRole(c.Request.Context(), userID, service.RoleUpdate{
		Role:         req.Role,
		Location:     req.Location,
		Description:  req.Description,
		PricePerHour: req.PricePerHour,
	})
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "Role info updated")
}

// Remove обрабатывает DELETE /provider?role=.
func (h *ProviderHandler) Remove(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	if err := h.market.RemoveRole(c.Request.Context(), userID, c.Query("role")); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "Provider role removed")
}

// ServiceTypes обрабатывает GET /serviceTypes.
func (h *ProviderHandler) ServiceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, models.ServiceTypes{Types: h.market.ServiceTypes(c.Request.Context())})
}
