package valueobject

import "strings"

// AnyType: подстановочное значение типа услуги, на сервер уходит пустой строкой.
const AnyType = "Any"

// ViewMode: режим главной ленты.
type ViewMode int

const (
	ViewRequests ViewMode = iota
	ViewProviders
)

func (m ViewMode) String() string {
	switch m {
	case ViewProviders:
		return "PROVIDERS"
	default:
		return "REQUESTS"
	}
}

// Other возвращает противоположный режим.
func (m ViewMode) Other() ViewMode {
	if m == ViewProviders {
		return ViewRequests
	}
	return ViewProviders
}

// Filter: набор фильтров одного режима. Незаданные Budget и Distance
// означают отсутствие ограничения.
type Filter struct {
	Type     string
	Query    string
	Budget   Optional[int]
	Distance Optional[int]
}

// DefaultFilter возвращает фильтр без ограничений.
func DefaultFilter() Filter {
	return Filter{Type: AnyType}
}

// Normalize приводит пустой тип к AnyType и обрезает пробелы в запросе.
func (f Filter) Normalize() Filter {
	f.Query = strings.TrimSpace(f.Query)
	if strings.TrimSpace(f.Type) == "" {
		f.Type = AnyType
	}
	return f
}

// IsActive сообщает, отличается ли хотя бы одно поле от значения по умолчанию.
func (f Filter) IsActive() bool {
	f = f.Normalize()
	return f.Type != AnyType || f.Query != "" || f.Budget.IsSet() || f.Distance.IsSet()
}

// WireType возвращает тип для запроса: AnyType превращается в пустую строку.
func (f Filter) WireType() string {
	if f.Type == AnyType {
		return ""
	}
	return f.Type
}
