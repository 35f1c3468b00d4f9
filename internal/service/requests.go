package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/repository"
)

// FeedQuery: параметры ленты заявок. Budget задаёт нижнюю границу цены.
type FeedQuery struct {
	Type        string
	Query       string
	Budget      float64
	MaxDistance int
}

// DefaultFeedQuery возвращает запрос без ограничений.
func DefaultFeedQuery() FeedQuery {
	return FeedQuery{MaxDistance: noLimit}
}

// OwnQuery: фильтр собственных заявок или услуг.
// Для заявок клиента Budget задаёт верхнюю границу, для услуг исполнителя нижнюю.
type OwnQuery struct {
	Status string
	Query  string
	Budget *float64
}

// Поля заявки, которые можно менять через PATCH.
var patchableRequestFields = map[string]struct{}{
	"service_title":       {},
	"service_type":        {},
	"service_description": {},
	"service_location":    {},
	"service_price":       {},
	"service_deadline":    {},
}

// ListRequests возвращает ожидающие заявки по возрастанию расстояния, затем срока.
func (m *Marketplace) ListRequests(ctx context.Context, q FeedQuery) []models.Request {
	out := make([]models.Request, 0)
	for _, r := range m.store.ListRequests() {
		if r.ParsedStatus() != valueobject.StatusPending {
			continue
		}
		if r.Price < q.Budget {
			continue
		}
		if t := strings.TrimSpace(q.Type); t != "" && !containsFold(r.Type, t) {
			continue
		}
		if !matchesAny(q.Query, r.Title, r.Description, r.Location) {
			continue
		}
		if r.DistanceKm > q.MaxDistance {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return byDeadline(out[i].Deadline, out[j].Deadline)
	})
	return out
}

// ClientRequests возвращает заявки пользователя по возрастанию срока.
func (m *Marketplace) ClientRequests(ctx context.Context, userID int, q OwnQuery) []models.Request {
	maxBudget := float64(noLimit)
	if q.Budget != nil {
		maxBudget = *q.Budget
	}

	out := make([]models.Request, 0)
	for _, r := range m.store.ListRequests() {
		if r.ClientID == nil || *r.ClientID != userID {
			continue
		}
		if q.Status != "" && !strings.EqualFold(r.Status, q.Status) {
			continue
		}
		if r.Price > maxBudget {
			continue
		}
		if !matchesAny(q.Query, r.Title, r.Description, r.Location) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return byDeadline(out[i].Deadline, out[j].Deadline) })
	return out
}

// GetRequest возвращает заявку.
func (m *Marketplace) GetRequest(ctx context.Context, id int) (models.Request, error) {
	r, err := m.store.GetRequest(id)
	if err != nil {
		return models.Request{}, notFound(err, "Request not found")
	}
	return r, nil
}

// IsOwner сообщает, создал ли пользователь заявку.
func (m *Marketplace) IsOwner(ctx context.Context, userID, requestID int) bool {
	r, err := m.store.GetRequest(requestID)
	if err != nil {
		return false
	}
	return r.ClientID != nil && *r.ClientID == userID
}

// CreateRequest создаёт заявку в статусе pending от имени пользователя.
func (m *Marketplace) CreateRequest(ctx context.Context, userID int, form models.RequestForm) (int, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Type = strings.TrimSpace(form.Type)
	form.Description = strings.TrimSpace(form.Description)
	form.Location = strings.TrimSpace(form.Location)
	form.Deadline = strings.TrimSpace(form.Deadline)
	if form.Title == "" || form.Type == "" || form.Description == "" || form.Location == "" || form.Deadline == "" {
		return 0, fail(http.StatusBadRequest, "Missing required fields")
	}

	client := userID
	r := m.store.CreateRequest(models.Request{
		Title:       form.Title,
		Type:        form.Type,
		Description: form.Description,
		Location:    form.Location,
		Deadline:    form.Deadline,
		Price:       form.Price,
		Status:      string(valueobject.StatusPending),
		ClientID:    &client,
		DistanceKm:  pseudoDistance(form.Location),
	})
	logger.Log.WithFields(logrus.Fields{"user_id": userID, "request_id": r.ID}).Info("стенд: заявка создана")
	return r.ID, nil
}

// PatchRequest применяет разрешённые поля из тела запроса. Остальные ключи игнорируются.
func (m *Marketplace) PatchRequest(ctx context.Context, userID, id int, body map[string]json.RawMessage) error {
	fields := make(map[string]json.RawMessage)
	for k, v := range body {
		if _, ok := patchableRequestFields[k]; ok {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		return fail(http.StatusBadRequest, "No valid fields to update")
	}

	// Разбираем всё до изменения заявки, чтобы ошибка не оставила её наполовину обновлённой.
	var patch models.RequestForm
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &patch); err != nil {
		return fail(http.StatusBadRequest, "No valid fields to update")
	}

	err = m.store.UpdateRequest(id, func(r *models.Request) error {
		if r.ClientID == nil || *r.ClientID != userID {
			return fail(http.StatusForbidden, "You are not authorized to edit this request")
		}
		for k := range fields {
			switch k {
			case "service_title":
				r.Title = patch.Title
			case "service_type":
				r.Type = patch.Type
			case "service_description":
				r.Description = patch.Description
			case "service_location":
				r.Location = patch.Location
				r.DistanceKm = pseudoDistance(patch.Location)
			case "service_price":
				r.Price = patch.Price
			case "service_deadline":
				r.Deadline = patch.Deadline
			}
		}
		return nil
	})
	return notFound(err, "Request not found")
}

// DeleteRequest удаляет заявку автора.
func (m *Marketplace) DeleteRequest(ctx context.Context, userID, id int) error {
	r, err := m.store.GetRequest(id)
	if err != nil {
		return notFound(err, "Service request not found")
	}
	if r.ClientID == nil || *r.ClientID != userID {
		return fail(http.StatusForbidden, "You are not authorized to delete this request")
	}
	return notFound(m.store.DeleteRequest(id), "Service request not found")
}

// Decide принимает заявку или возвращает её в ожидание.
// Принять можно только ожидающую заявку и только при наличии роли того же типа.
func (m *Marketplace) Decide(ctx context.Context, userID int, d models.Decision) error {
	if d.RequestID <= 0 {
		return fail(http.StatusBadRequest, "Missing or invalid fields")
	}

	if !d.Accept {
		if err := m.store.ReturnRequest(d.RequestID); err != nil {
			return notFound(err, "Service request not found")
		}
		logger.Log.WithFields(logrus.Fields{"user_id": userID, "request_id": d.RequestID}).Info("стенд: заявка возвращена")
		return nil
	}

	roles := m.store.ListRoles(userID)
	svc, err := m.store.AcceptRequest(d.RequestID, userID, func(r models.Request) error {
		if r.ParsedStatus() != valueobject.StatusPending {
			return fail(http.StatusConflict, "Service request has already been accepted or closed")
		}
		for _, role := range roles {
			if strings.EqualFold(role.Role, r.Type) {
				return nil
			}
		}
		return fail(http.StatusForbidden, "You do not have the required role to accept this request")
	})
	if err != nil {
		return notFound(err, "Service request not found")
	}
	logger.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"request_id": d.RequestID,
		"service_id": svc.ID,
	}).Info("стенд: заявка принята")
	return nil
}

// GetService возвращает услугу.
func (m *Marketplace) GetService(ctx context.Context, id int) (models.Service, error) {
	svc, err := m.store.GetService(id)
	if err != nil {
		return models.Service{}, notFound(err, "Service not found")
	}
	return svc, nil
}

// ProviderServices возвращает услуги исполнителя по возрастанию срока.
func (m *Marketplace) ProviderServices(ctx context.Context, providerID int, q OwnQuery) []models.Service {
	minBudget := 0.0
	if q.Budget != nil {
		minBudget = *q.Budget
	}
	status := strings.ToLower(strings.TrimSpace(q.Status))

	out := make([]models.Service, 0)
	for _, svc := range m.store.ListServices() {
		if svc.ProviderID != providerID {
			continue
		}
		if status != "" && strings.ToLower(svc.Status) != status {
			continue
		}
		if svc.Price < minBudget {
			continue
		}
		if !matchesAny(q.Query, svc.Title, svc.Description, svc.Location) {
			continue
		}
		out = append(out, svc)
	}
	sort.SliceStable(out, func(i, j int) bool { return byDeadline(out[i].Deadline, out[j].Deadline) })
	return out
}

// UpdateServiceStatus меняет статус услуги на одно из допустимых значений.
func (m *Marketplace) UpdateServiceStatus(ctx context.Context, upd models.StatusUpdate) (string, error) {
	status, err := valueobject.NewServiceStatus(upd.Status)
	if err != nil || upd.ServiceID <= 0 {
		return "", fail(http.StatusBadRequest, "Missing or invalid fields")
	}
	if err := m.store.SetServiceStatus(upd.ServiceID, string(status)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fail(http.StatusNotFound, "Service not found")
		}
		return "", err
	}
	return string(status), nil
}
