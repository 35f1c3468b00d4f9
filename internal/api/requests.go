package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/models"
)

// OwnQuery: фильтр раздела «мои заявки и услуги».
// Пустой Status означает любой статус; незаданный Budget не отправляется.
type OwnQuery struct {
	Status valueobject.Status
	Query  string
	Budget valueobject.Optional[int]
}

func (q OwnQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	v.Set("query", q.Query)
	if budget, ok := q.Budget.Get(); ok {
		v.Set("budget", strconv.Itoa(budget))
	}
	return v
}

// ListRequests возвращает публичную ленту заявок. Бюджет здесь задаёт нижнюю границу цены,
// поэтому его отсутствие передаётся нулём.
func (c *Client) ListRequests(ctx context.Context, f valueobject.Filter) ([]models.Request, error) {
	f = f.Normalize()
	q := url.Values{}
	q.Set("spinner", f.WireType())
	q.Set("budget", strconv.Itoa(f.Budget.OrElse(0)))
	q.Set("query", f.Query)
	q.Set("maxDistance", strconv.Itoa(f.Distance.OrElse(Unbounded)))

	var out []models.Request
	err := c.do(ctx, call{method: http.MethodGet, path: "/requests", query: q, auth: true}, &out)
	return out, err
}

// ListClientRequests возвращает заявки текущего пользователя.
func (c *Client) ListClientRequests(ctx context.Context, q OwnQuery) ([]models.Request, error) {
	var out []models.Request
	err := c.do(ctx, call{method: http.MethodGet, path: "/requests/client", query: q.values(), auth: true}, &out)
	return out, err
}

// GetRequest возвращает одну заявку.
func (c *Client) GetRequest(ctx context.Context, id int) (models.Request, error) {
	var out models.Request
	err := c.do(ctx, call{method: http.MethodGet, path: "/request/" + strconv.Itoa(id), auth: true}, &out)
	return out, err
}

// CheckOwnership спрашивает у сервера, является ли текущий пользователь автором заявки.
func (c *Client) CheckOwnership(ctx context.Context, id int) (bool, error) {
	var out models.Ownership
	err := c.do(ctx, call{method: http.MethodGet, path: "/request/check-ownership/" + strconv.Itoa(id), auth: true}, &out)
	return out.IsOwner, err
}

// CreateRequest создаёт заявку.
func (c *Client) CreateRequest(ctx context.Context, form models.RequestForm) (models.APIResponse, error) {
	var out models.APIResponse
	err := c.do(ctx, call{method: http.MethodPost, path: "/request", body: form, auth: true}, &out)
	return out, err
}

// UpdateRequest отправляет только заданные поля заявки.
func (c *Client) UpdateRequest(ctx context.Context, id int, patch models.RequestPatch) (models.APIResponse, error) {
	var out models.APIResponse
	err := c.do(ctx, call{method: http.MethodPatch, path: "/request/" + strconv.Itoa(id), body: patch, auth: true}, &out)
	return out, err
}

// DeleteRequest удаляет заявку.
func (c *Client) DeleteRequest(ctx context.Context, id int) (models.APIResponse, error) {
	var out models.APIResponse
	err := c.do(ctx, call{method: http.MethodDelete, path: "/request/" + strconv.Itoa(id), auth: true}, &out)
	return out, err
}

// Decide принимает заявку (accept=true) или возвращает её в ожидание.
func (c *Client) Decide(ctx context.Context, requestID int, accept bool) (models.APIResponse, error) {
	var out models.APIResponse
	err := c.do(ctx, call{
		method: http.MethodPatch,
		path:   "/request/decision",
		body:   models.Decision{RequestID: requestID, Accept: accept},
		auth:   true,
	}, &out)
	return out, err
}
