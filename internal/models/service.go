package models

import "github.com/ignatzorin/quickfix/internal/domain/valueobject"

// Service: услуга, появившаяся после принятия заявки.
type Service struct {
	ID          int     `json:"service_id"`
	Title       string  `json:"service_title"`
	Type        string  `json:"service_type"`
	Description string  `json:"service_description"`
	Location    string  `json:"service_location"`
	Deadline    string  `json:"service_deadline"`
	Price       float64 `json:"service_price"`
	Status      string  `json:"service_status"`
	ProviderID  int     `json:"service_provider"`
	ClientID    int     `json:"service_client"`
	DistanceKm  int     `json:"distanceKm"`
}

func (s *Service) ParsedStatus() valueobject.Status {
	return valueobject.ParseStatus(s.Status)
}

// StatusUpdate: тело PATCH /service/status.
type StatusUpdate struct {
	ServiceID int    `json:"serviceId"`
	Status    string `json:"status"`
}
