package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/quickfix/internal/http/handlers/common"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/service"
)

// RequestHandler обслуживает заявки на услуги.
type RequestHandler struct {
	market *service.Marketplace
}

// NewRequestHandler создаёт хэндлер.
func NewRequestHandler(market *service.Marketplace) *RequestHandler {
	return &RequestHandler{market: market}
}

// List обрабатывает GET /requests.
func (h *RequestHandler) List(c *gin.Context) {
	q := service.DefaultFeedQuery()
	q.Type = c.Query("spinner")
	q.Query = c.Query("query")
	q.Budget = common.QueryFloat(c, "budget", q.Budget)
	q.MaxDistance = common.QueryInt(c, "maxDistance", q.MaxDistance)

	c.JSON(http.StatusOK, h.market.ListRequests(c.Request.Context(), q))
}

// ClientList обрабатывает GET /requests/client.
func (h *RequestHandler) ClientList(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	q := service.OwnQuery{
		Status: c.Query("status"),
		Query:  c.Query("query"),
		Budget: common.QueryOptionalFloat(c, "budget"),
	}
	c.JSON(http.StatusOK, h.market.ClientRequests(c.Request.Context(), userID, q))
}

// Get обрабатывает GET /request/:id.
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.market.GetRequest(c.Request.Context(), common.IDParam(c, "id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// CheckOwnership обрабатывает GET /request/check-ownership/:id.
func (h *RequestHandler) CheckOwnership(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	owner := h.market.IsOwner(c.Request.Context(), userID, common.IDParam(c, "id"))
	c.JSON(http.StatusOK, models.Ownership{IsOwner: owner})
}

// Create обрабатывает POST /request.
func (h *RequestHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req models.RequestForm
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondMessage(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	id, err := h.market.CreateRequest(c.Request.Context(), userID, req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Service request created", "requestId": id})
}

// Update обрабатывает PATCH /request/:id. Тело разбирается как словарь,
// чтобы отличать отсутствующие поля от пустых.
func (h *RequestHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		common.RespondMessage(c, http.StatusBadRequest, "No valid fields to update")
		return
	}

	if err := h.market.PatchRequest(c.Request.Context(), userID, common.IDParam(c, "id"), body); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "Request updated")
}

// Delete обрабатывает DELETE /request/:id.
func (h *RequestHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	if err := h.market.DeleteRequest(c.Request.Context(), userID, common.IDParam(c, "id")); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "Service request deleted")
}

// Decide обрабатывает PATCH /request/decision.
func (h *RequestHandler) Decide(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req struct {
		RequestID int   `json:"requestId"`
		Accept    *bool `json:"accept"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Accept == nil {
		common.RespondMessage(c, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	decision := models.Decision{RequestID: req.RequestID, Accept: *req.Accept}
	if err := h.market.Decide(c.Request.Context(), userID, decision); err != nil {
		common.Fail(c, err)
		return
	}

	if decision.Accept {
		common.RespondMessage(c, http.StatusOK, "Service request accepted")
		return
	}
	common.RespondMessage(c, http.StatusOK, "Service request returned to pending")
}
