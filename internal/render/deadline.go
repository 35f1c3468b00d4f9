package render

import (
	"strings"
	"time"
)

const (
	NoDeadlineShort = "N/A"
	NoDeadlineLong  = "No deadline"
	InvalidDate     = "Invalid date"
)

// Сервер отдаёт дату в ISO-8601, иногда без времени или с часовым поясом в хвосте.
// Разбираем самый длинный подходящий префикс.
var deadlineLayouts = []struct {
	layout string
	size   int
}{
	{"2006-01-02 15:04:05", 19},
	{"2006-01-02 15:04", 16},
	{"2006-01-02", 10},
}

// ParseDeadline разбирает дедлайн заявки. Хвост после секунд игнорируется.
func ParseDeadline(raw string) (time.Time, bool) {
	normalized := strings.TrimSpace(strings.Replace(raw, "T", " ", 1))
	for _, l := range deadlineLayouts {
		if len(normalized) < l.size {
			continue
		}
		if t, err := time.Parse(l.layout, normalized[:l.size]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDeadline возвращает дату и время для строки списка.
// Полночь не показывается: время будет пустым.
func FormatDeadline(raw string) (date, clock string) {
	if strings.TrimSpace(raw) == "" {
		return NoDeadlineShort, ""
	}
	t, ok := ParseDeadline(raw)
	if !ok {
		return InvalidDate, ""
	}
	clock = t.Format("15:04")
	if clock == "00:00" {
		clock = ""
	}
	return t.Format("02-01-2006"), clock
}

// FormatDeadlineLong возвращает дедлайн одной строкой для карточки.
func FormatDeadlineLong(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return NoDeadlineLong
	}
	date, clock := FormatDeadline(raw)
	if clock == "" {
		return date
	}
	return date + " " + clock
}

// WireDeadline собирает дедлайн для отправки на сервер: YYYY-MM-DDTHH:MM:00.
func WireDeadline(t time.Time) string {
	return t.Format("2006-01-02T15:04") + ":00"
}
