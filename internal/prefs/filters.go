package prefs

import (
	"context"
	"strconv"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/logger"
)

const (
	KeyAuthToken = "authToken"
	KeyUserID    = "userId"
	KeyThemeMode = "themeMode"
)

// FilterKeys: ключи фильтров одного режима. Режимы не пересекаются по ключам.
type FilterKeys struct {
	Type     string
	Query    string
	Budget   string
	Distance string
}

// All возвращает все ключи набора.
func (k FilterKeys) All() []string {
	return []string{k.Type, k.Query, k.Budget, k.Distance}
}

// KeysFor возвращает ключи фильтров для режима.
func KeysFor(mode valueobject.ViewMode) FilterKeys {
	suffix := "REQUEST"
	if mode == valueobject.ViewProviders {
		suffix = "PROVIDER"
	}
	return FilterKeys{
		Type:     "FILTER_SPINNER_" + suffix,
		Query:    "FILTER_QUERY_" + suffix,
		Budget:   "FILTER_BUDGET_" + suffix,
		Distance: "FILTER_DISTANCE_" + suffix,
	}
}

// SaveFilter сохраняет фильтр режима одной атомарной записью.
// Незаданные бюджет и дистанция удаляются из хранилища.
func SaveFilter(ctx context.Context, s Store, mode valueobject.ViewMode, f valueobject.Filter) error {
	f = f.Normalize()
	keys := KeysFor(mode)

	set := map[string]string{
		keys.Type:  f.Type,
		keys.Query: f.Query,
	}
	var remove []string

	if budget, ok := f.Budget.Get(); ok {
		set[keys.Budget] = strconv.Itoa(budget)
	} else {
		remove = append(remove, keys.Budget)
	}
	if distance, ok := f.Distance.Get(); ok {
		set[keys.Distance] = strconv.FormatFloat(float64(distance), 'f', -1, 64)
	} else {
		remove = append(remove, keys.Distance)
	}

	return s.Update(ctx, set, remove)
}

// LoadFilter читает сохранённый фильтр режима. Повреждённые числа считаются незаданными.
func LoadFilter(ctx context.Context, s Store, mode valueobject.ViewMode) (valueobject.Filter, error) {
	keys := KeysFor(mode)
	f := valueobject.DefaultFilter()

	if v, ok, err := s.Get(ctx, keys.Type); err != nil {
		return f, err
	} else if ok {
		f.Type = v
	}

	if v, ok, err := s.Get(ctx, keys.Query); err != nil {
		return f, err
	} else if ok {
		f.Query = v
	}

	if v, ok, err := s.Get(ctx, keys.Budget); err != nil {
		return f, err
	} else if ok {
		if budget, err := strconv.Atoi(v); err == nil {
			f.Budget = valueobject.Some(budget)
		} else {
			logger.Log.WithField("key", keys.Budget).Warn("prefs: некорректное значение бюджета, игнорируем")
		}
	}

	if v, ok, err := s.Get(ctx, keys.Distance); err != nil {
		return f, err
	} else if ok {
		if distance, err := strconv.ParseFloat(v, 64); err == nil {
			f.Distance = valueobject.Some(int(distance))
		} else {
			logger.Log.WithField("key", keys.Distance).Warn("prefs: некорректное значение дистанции, игнорируем")
		}
	}

	return f.Normalize(), nil
}

// ClearFilter удаляет сохранённый фильтр режима.
func ClearFilter(ctx context.Context, s Store, mode valueobject.ViewMode) error {
	return Delete(ctx, s, KeysFor(mode).All()...)
}
