package models

import (
	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
)

// Request: заявка на услугу.
type Request struct {
	ID                int     `json:"request_id"`
	Title             string  `json:"service_title"`
	Type              string  `json:"service_type"`
	Description       string  `json:"service_description"`
	Location          string  `json:"service_location"`
	Deadline          string  `json:"service_deadline"`
	Price             float64 `json:"service_price"`
	Status            string  `json:"request_status"`
	IsAccepted        bool    `json:"service_isAccepted"`
	ClientID          *int    `json:"requester"`
	RequestedProvider *int    `json:"requested_provider"`
	DistanceKm        int     `json:"distanceKm"`
}

// ParsedStatus возвращает статус в виде перечисления.
func (r *Request) ParsedStatus() valueobject.Status {
	return valueobject.ParseStatus(r.Status)
}

// AcceptedBy сообщает, принята ли заявка указанным исполнителем.
func (r *Request) AcceptedBy(userID int) bool {
	return r.ParsedStatus() == valueobject.StatusAccepted &&
		r.RequestedProvider != nil && *r.RequestedProvider == userID
}

// RequestForm: тело POST /request.
type RequestForm struct {
	Title       string  `json:"service_title"`
	Type        string  `json:"service_type"`
	Description string  `json:"service_description"`
	Location    string  `json:"service_location"`
	Price       float64 `json:"service_price"`
	Deadline    string  `json:"service_deadline"`
}

// RequestPatch: разреженное тело PATCH /request/{id}:
// в JSON попадают только заданные поля.
type RequestPatch struct {
	Title       valueobject.Optional[string]  `json:"service_title,omitzero"`
	Type        valueobject.Optional[string]  `json:"service_type,omitzero"`
	Description valueobject.Optional[string]  `json:"service_description,omitzero"`
	Location    valueobject.Optional[string]  `json:"service_location,omitzero"`
	Price       valueobject.Optional[float64] `json:"service_price,omitzero"`
	Deadline    valueobject.Optional[string]  `json:"service_deadline,omitzero"`
}

// IsEmpty сообщает, что ни одно поле не изменено.
func (p RequestPatch) IsEmpty() bool {
	return !p.Title.IsSet() && !p.Type.IsSet() && !p.Description.IsSet() &&
		!p.Location.IsSet() && !p.Price.IsSet() && !p.Deadline.IsSet()
}

// Ownership: ответ GET /request/check-ownership/{id}.
type Ownership struct {
	IsOwner bool `json:"isOwner"`
}

// Decision: тело PATCH /request/decision.
type Decision struct {
	RequestID int  `json:"requestId"`
	Accept    bool `json:"accept"`
}

// APIResponse: типовой ответ сервера с сообщением.
type APIResponse struct {
	Message string `json:"message"`
}
