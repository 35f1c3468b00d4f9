package models

import "strings"

// ProviderRole: роль исполнителя в профиле и тело POST /provider.
type ProviderRole struct {
	Role         string  `json:"role"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	PricePerHour float64 `json:"pricePerHour"`
}

// ProviderRoleUpdate: тело PATCH /provider.
type ProviderRoleUpdate struct {
	Role         string  `json:"role"`
	Location     string  `json:"pro_location"`
	Description  string  `json:"pro_description"`
	PricePerHour float64 `json:"pro_price_per_hour"`
}

// ProviderListing: строка ленты исполнителей и детальная карточка роли.
type ProviderListing struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	Rating       float64 `json:"rating"`
	PricePerHour float64 `json:"pricePerHour"`
	DistanceKm   int     `json:"distanceKm"`
}

// ServiceTypes: ответ GET /serviceTypes.
type ServiceTypes struct {
	Types []string `json:"types"`
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
