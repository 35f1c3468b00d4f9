package valueobject

import (
	"strings"

	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

// Status: статус заявки или услуги. Порядок переходов проверяет сервер.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusStarted   Status = "started"
	StatusFinished  Status = "finished"
	StatusPaid      Status = "paid"
	StatusClosed    Status = "closed"
	StatusCancelled Status = "cancelled"
	StatusUnknown   Status = "unknown"
)

// AllStatuses перечисляет известные статусы в порядке жизненного цикла.
var AllStatuses = []Status{
	StatusPending, StatusAccepted, StatusStarted, StatusFinished,
	StatusPaid, StatusClosed, StatusCancelled,
}

// ServiceStatuses: значения, которые сервер принимает в PATCH /service/status.
var ServiceStatuses = []Status{
	StatusAccepted, StatusStarted, StatusFinished,
	StatusPaid, StatusCancelled, StatusClosed,
}

// PickerChoices возвращает варианты выбора статуса услуги: весь словарь сервера,
// кроме текущего статуса.
func (s Status) PickerChoices() []Status {
	out := make([]Status, 0, len(ServiceStatuses))
	for _, status := range ServiceStatuses {
		if status != s {
			out = append(out, status)
		}
	}
	return out
}

func (s Status) IsValid() bool {
	for _, status := range AllStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// Title возвращает название статуса с заглавной буквы, как в фильтрах.
func (s Status) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ParseStatus разбирает строку сервера без учёта регистра.
// Неизвестные значения превращаются в StatusUnknown.
func ParseStatus(raw string) Status {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s.IsValid() {
		return s
	}
	return StatusUnknown
}

// NewServiceStatus проверяет значение, выбранное пользователем для услуги.
func NewServiceStatus(raw string) (Status, error) {
	s := ParseStatus(raw)
	if !isServiceStatus(s) {
		return "", apperror.Validation("Missing or invalid fields")
	}
	return s, nil
}

func isServiceStatus(s Status) bool {
	for _, status := range ServiceStatuses {
		if status == s {
			return true
		}
	}
	return false
}
