package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/models"
)

// GetService возвращает одну услугу.
func (c *Client) GetService(ctx context.Context, id int) (models.Service, error) {
	var out models.Service
	err := c.do(ctx, call{method: http.MethodGet, path: "/service/" + strconv.Itoa(id), auth: true}, &out)
	return out, err
}

// ListProviderServices возвращает услуги исполнителя. Бюджет задаёт нижнюю границу цены.
func (c *Client) ListProviderServices(ctx context.Context, providerID int, q OwnQuery) ([]models.Service, error) {
	var out []models.Service
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/services/provider/" + strconv.Itoa(providerID),
		query:  q.values(),
		auth:   true,
	}, &out)
	return out, err
}

// UpdateServiceStatus меняет статус услуги.
func (c *Client) UpdateServiceStatus(ctx context.Context, serviceID int, status valueobject.Status) (models.APIResponse, error) {
	var out models.APIResponse
	err := c.do(ctx, call{
		method: http.MethodPatch,
		path:   "/service/status",
		body:   models.StatusUpdate{ServiceID: serviceID, Status: string(status)},
		auth:   true,
	}, &out)
	return out, err
}
