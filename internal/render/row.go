package render

import (
	"fmt"
	"strings"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/models"
)

var statusIcons = map[valueobject.Status]string{
	valueobject.StatusPending:   "◷",
	valueobject.StatusAccepted:  "✔",
	valueobject.StatusStarted:   "▶",
	valueobject.StatusFinished:  "■",
	valueobject.StatusPaid:      "€",
	valueobject.StatusClosed:    "✖",
	valueobject.StatusCancelled: "⊘",
}

// StatusIcon подбирает значок статуса; для неизвестных используется значок ожидания.
func StatusIcon(s valueobject.Status) string {
	if icon, ok := statusIcons[s]; ok {
		return icon
	}
	return statusIcons[valueobject.StatusPending]
}

// StatusText возвращает подпись статуса; неизвестный статус показывается как пришёл.
func StatusText(raw string) string {
	s := valueobject.ParseStatus(raw)
	if s == valueobject.StatusUnknown {
		if strings.TrimSpace(raw) == "" {
			return "Unknown"
		}
		return raw
	}
	return s.Title()
}

// Price форматирует цену для списка: ноль показывается как Free.
func Price(amount float64) string {
	m := valueobject.Money(amount)
	if m.IsFree() {
		return "Free"
	}
	return m.String()
}

func Distance(km int) string {
	return fmt.Sprintf("%d km", km)
}

// Row: готовая к выводу строка списка.
type Row struct {
	ID       int
	Icon     string
	Title    string
	Subtitle string
	Date     string
	Time     string
	Price    string
	Distance string
}

func RequestRow(r models.Request) Row {
	date, clock := FormatDeadline(r.Deadline)
	return Row{
		ID:       r.ID,
		Icon:     StatusIcon(r.ParsedStatus()),
		Title:    r.Title,
		Subtitle: r.Type,
		Date:     date,
		Time:     clock,
		Price:    Price(r.Price),
		Distance: Distance(r.DistanceKm),
	}
}

func ServiceRow(s models.Service) Row {
	date, clock := FormatDeadline(s.Deadline)
	return Row{
		ID:       s.ID,
		Icon:     StatusIcon(s.ParsedStatus()),
		Title:    s.Title,
		Subtitle: s.Type,
		Date:     date,
		Time:     clock,
		Price:    Price(s.Price),
		Distance: Distance(s.DistanceKm),
	}
}

func ProviderRow(p models.ProviderListing) Row {
	return Row{
		ID:       p.ID,
		Icon:     "★",
		Title:    p.Name,
		Subtitle: fmt.Sprintf("%s · %.1f", p.Role, p.Rating),
		Price:    valueobject.Money(p.PricePerHour).PerHour(),
		Distance: Distance(p.DistanceKm),
	}
}
