package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/models"
)

// Unbounded: значение, которое сервер понимает как «без ограничения».
// Используется только при сборке запроса: внутри клиента отсутствие ограничения
// передаётся незаданным Optional.
const Unbounded = 999999999

// ListProviders возвращает ленту исполнителей с учётом фильтра.
func (c *Client) ListProviders(ctx context.Context, f valueobject.Filter) ([]models.ProviderListing, error) {
	f = f.Normalize()
	q := url.Values{}
	q.Set("serviceType", f.WireType())
	q.Set("maxBudget", strconv.Itoa(f.Budget.OrElse(Unbounded)))
	q.Set("query", f.Query)
	q.Set("maxDistance", strconv.Itoa(f.Distance.OrElse(Unbounded)))

	var out []models.ProviderListing
	err := c.do(ctx, call{method: http.MethodGet, path: "/providers", query: q, auth: true}, &out)
	return out, err
}

// GetProviderDetails возвращает одну роль исполнителя.
func (c *Client) GetProviderDetails(ctx context.Context, id int, role string) (models.ProviderListing, error) {
	var out models.ProviderListing
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/providers/details/" + strconv.Itoa(id),
		query:  url.Values{"role": {role}},
		auth:   true,
	}, &out)
	return out, err
}

// ListMyRoles возвращает роли текущего исполнителя.
func (c *Client) ListMyRoles(ctx context.Context) ([]models.ProviderListing, error) {
	var out []models.ProviderListing
	err := c.do(ctx, call{method: http.MethodGet, path: "/provider/roles", auth: true}, &out)
	return out, err
}

// AddRole добавляет роль текущему исполнителю.
func (c *Client) AddRole(ctx context.Context, role models.ProviderRole) (models.APIResponse, error) {
	var out models.APIResponse
	err := c.do(ctx, call{method: http.MethodPost, path: "/provider", body: role, auth: true}, &out)
	return out, err
}

// UpdateRole обновляет существующую роль.
func (c *Client) UpdateRole(ctx context.Context, role models.ProviderRoleUpdate) (models.APIResponse, error) {
	var out models.APIResponse
	err := c.do(ctx, call{method: http.MethodPatch, path: "/provider", body: role, auth: true}, &out)
	return out, err
}

// RemoveRole удаляет роль по имени.
func (c *Client) RemoveRole(ctx context.Context, role string) (models.APIResponse, error) {
	var out models.APIResponse
	err := c.do(ctx, call{
		method: http.MethodDelete,
		path:   "/provider",
		query:  url.Values{"role": {role}},
		auth:   true,
	}, &out)
	return out, err
}

// GetServiceTypes возвращает известные типы услуг.
func (c *Client) GetServiceTypes(ctx context.Context) ([]string, error) {
	var out models.ServiceTypes
	err := c.do(ctx, call{method: http.MethodGet, path: "/serviceTypes", auth: true}, &out)
	return out.Types, err
}
