package service

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/repository"
)

// ProviderQuery: параметры ленты исполнителей.
type ProviderQuery struct {
	ServiceType string
	Query       string
	MaxBudget   float64
	MaxDistance int
}

// DefaultProviderQuery возвращает запрос без ограничений.
func DefaultProviderQuery() ProviderQuery {
	return ProviderQuery{MaxBudget: noLimit, MaxDistance: noLimit}
}

// RoleUpdate: изменения роли; nil-поля не трогаются.
type RoleUpdate struct {
	Role         string
	Location     *string
	Description  *string
	PricePerHour *float64
}

// ListProviders возвращает роли других исполнителей, подходящие под фильтр,
// по возрастанию расстояния.
func (m *Marketplace) ListProviders(ctx context.Context, userID int, q ProviderQuery) []models.ProviderListing {
	wantType := strings.ToLower(strings.TrimSpace(q.ServiceType))

	out := make([]models.ProviderListing, 0)
	for _, r := range m.store.ListRoles(0) {
		if r.UserID == userID {
			continue
		}
		user, err := m.store.GetUser(r.UserID)
		if err != nil {
			continue
		}
		if r.PricePerHour > q.MaxBudget {
			continue
		}
		if wantType != "" && !strings.Contains(strings.ToLower(r.Role), wantType) {
			continue
		}
		if !matchesAny(q.Query, user.Name, r.Location, r.Description) {
			continue
		}
		if r.DistanceKm > q.MaxDistance {
			continue
		}
		out = append(out, listing(user, r))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

// ProviderDetails возвращает роль исполнителя; имя роли сравнивается как подстрока.
func (m *Marketplace) ProviderDetails(ctx context.Context, providerID int, role string) (models.ProviderListing, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return models.ProviderListing{}, fail(http.StatusBadRequest, "Role is required")
	}
	user, err := m.store.GetUser(providerID)
	if err != nil {
		return models.ProviderListing{}, notFound(err, "Provider not found")
	}
	for _, r := range m.store.ListRoles(providerID) {
		if containsFold(r.Role, role) {
			return listing(user, r), nil
		}
	}
	return models.ProviderListing{}, fail(http.StatusNotFound, "Role not found for this provider")
}

// MyRoles возвращает роли текущего пользователя.
func (m *Marketplace) MyRoles(ctx context.Context, userID int) ([]models.ProviderListing, error) {
	user, err := m.store.GetUser(userID)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	roles := m.store.ListRoles(userID)
	out := make([]models.ProviderListing, 0, len(roles))
	for _, r := range roles {
		out = append(out, listing(user, r))
	}
	return out, nil
}

// AddRole добавляет роль текущему пользователю.
func (m *Marketplace) AddRole(ctx context.Context, userID int, role models.ProviderRole) error {
	role.Role = strings.TrimSpace(role.Role)
	role.Location = strings.TrimSpace(role.Location)
	role.Description = strings.TrimSpace(role.Description)
	if role.Role == "" || role.Location == "" || role.Description == "" || role.PricePerHour <= 0 {
		return fail(http.StatusBadRequest, "Missing required fields")
	}

	err := m.store.AddRole(repository.RoleRecord{
		UserID:       userID,
		Role:         role.Role,
		Location:     role.Location,
		Description:  role.Description,
		PricePerHour: role.PricePerHour,
		DistanceKm:   pseudoDistance(role.Location),
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		return fail(http.StatusConflict, "Role already exists for this provider")
	}
	return err
}

// UpdateRole меняет переданные поля роли.
func (m *Marketplace) UpdateRole(ctx context.Context, userID int, upd RoleUpdate) error {
	if strings.TrimSpace(upd.Role) == "" {
		return fail(http.StatusBadRequest, "Missing 'role' field to identify entry")
	}
	if upd.Location == nil && upd.Description == nil && upd.PricePerHour == nil {
		return fail(http.StatusBadRequest, "No fields to update")
	}

	err := m.store.UpdateRole(userID, strings.TrimSpace(upd.Role), func(r *repository.RoleRecord) {
		if upd.Location != nil {
			r.Location = *upd.Location
			r.DistanceKm = pseudoDistance(r.Location)
		}
		if upd.Description != nil {
			r.Description = *upd.Description
		}
		if upd.PricePerHour != nil {
			r.PricePerHour = *upd.PricePerHour
		}
	})
	return notFound(err, "Role not found")
}

// RemoveRole удаляет роль текущего пользователя.
func (m *Marketplace) RemoveRole(ctx context.Context, userID int, role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return fail(http.StatusBadRequest, "Missing 'role' parameter")
	}
	return notFound(m.store.DeleteRole(userID, role), "Role not found")
}

// ServiceTypes: объединение типов заявок и ролей исполнителей, с заглавной буквы.
func (m *Marketplace) ServiceTypes(ctx context.Context) []string {
	set := make(map[string]struct{})
	for _, r := range m.store.ListRequests() {
		if t := capitalize(r.Type); t != "" {
			set[t] = struct{}{}
		}
	}
	for _, r := range m.store.ListRoles(0) {
		if t := capitalize(r.Role); t != "" {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func listing(user repository.UserRecord, r repository.RoleRecord) models.ProviderListing {
	return models.ProviderListing{
		ID:           user.ID,
		Name:         user.Name,
		Role:         r.Role,
		Location:     r.Location,
		Description:  r.Description,
		Rating:       user.Rating,
		PricePerHour: r.PricePerHour,
		DistanceKm:   r.DistanceKm,
	}
}
