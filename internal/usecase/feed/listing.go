package feed

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
	"github.com/ignatzorin/quickfix/internal/prefs"
	"github.com/ignatzorin/quickfix/internal/screen"
	"github.com/ignatzorin/quickfix/internal/validation"
)

// Gateway: вызовы сервера, нужные главной ленте.
type Gateway interface {
	ListRequests(ctx context.Context, f valueobject.Filter) ([]models.Request, error)
	ListProviders(ctx context.Context, f valueobject.Filter) ([]models.ProviderListing, error)
	GetServiceTypes(ctx context.Context) ([]string, error)
}

// Input: сырые значения полей фильтра с экрана.
type Input struct {
	Type     string
	Query    string
	Budget   string
	Distance string
}

// Result: ответ одной загрузки ленты.
type Result struct {
	Ticket    screen.Ticket
	Mode      valueobject.ViewMode
	Requests  []models.Request
	Providers []models.ProviderListing
}

// TargetKind: экран, который открывается по строке ленты.
type TargetKind int

const (
	TargetRequest TargetKind = iota + 1
	TargetProvider
)

// Target описывает переход к детальному экрану.
type Target struct {
	Kind TargetKind
	ID   int
	Role string
}

// ListingUseCase владеет состоянием главной ленты: режимом, фильтром,
// списком типов услуг и последней загруженной коллекцией.
type ListingUseCase struct {
	gateway Gateway
	store   prefs.Store
	gen     screen.Generation

	mu        sync.Mutex
	mode      valueobject.ViewMode
	options   []string
	filter    valueobject.Filter
	active    bool
	requests  []models.Request
	providers []models.ProviderListing
}

func NewListingUseCase(gateway Gateway, store prefs.Store) *ListingUseCase {
	return &ListingUseCase{
		gateway: gateway,
		store:   store,
		mode:    valueobject.ViewRequests,
		filter:  valueobject.DefaultFilter(),
	}
}

// LoadOptions загружает типы услуг с сервера и прикрепляет их к фильтру.
func (uc *ListingUseCase) LoadOptions(ctx context.Context) ([]string, error) {
	types, err := uc.gateway.GetServiceTypes(ctx)
	if err != nil {
		return nil, err
	}
	return uc.SetOptions(types), nil
}

// SetOptions прикрепляет варианты типа услуги; первым всегда идёт «Any».
func (uc *ListingUseCase) SetOptions(types []string) []string {
	options := make([]string, 0, len(types)+1)
	options = append(options, valueobject.AnyType)
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" || t == valueobject.AnyType {
			continue
		}
		options = append(options, t)
	}

	uc.mu.Lock()
	uc.options = options
	uc.mu.Unlock()
	return append([]string(nil), options...)
}

func (uc *ListingUseCase) Options() []string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return append([]string(nil), uc.options...)
}

func (uc *ListingUseCase) Mode() valueobject.ViewMode {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.mode
}

func (uc *ListingUseCase) Filter() valueobject.Filter {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.filter
}

// ActiveIndicator сообщает, отличается ли фильтр текущего режима от значений по умолчанию.
func (uc *ListingUseCase) ActiveIndicator() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.active
}

func (uc *ListingUseCase) Requests() []models.Request {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return append([]models.Request(nil), uc.requests...)
}

func (uc *ListingUseCase) Providers() []models.ProviderListing {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return append([]models.ProviderListing(nil), uc.providers...)
}

// Restore читает сохранённый фильтр текущего режима. Варианты типа услуги должны быть
// прикреплены заранее, иначе сохранённый тип не с чем сопоставить.
func (uc *ListingUseCase) Restore(ctx context.Context) (valueobject.Filter, error) {
	uc.mu.Lock()
	mode, options := uc.mode, uc.options
	uc.mu.Unlock()

	if len(options) == 0 {
		return valueobject.Filter{}, apperror.ErrOptionsNotAttached
	}

	f, err := prefs.LoadFilter(ctx, uc.store, mode)
	if err != nil {
		return valueobject.Filter{}, apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось прочитать фильтр")
	}
	if !containsOption(options, f.Type) {
		logger.Log.WithFields(logrus.Fields{
			"mode": mode.String(),
			"type": f.Type,
		}).Warn("feed: сохранённый тип услуги отсутствует в списке, сбрасываем на Any")
		f.Type = valueobject.AnyType
	}

	uc.mu.Lock()
	uc.filter = f
	uc.active = f.IsActive()
	uc.mu.Unlock()
	return f, nil
}

// ParseInput превращает значения полей в фильтр. Пустые бюджет и дистанция означают
// отсутствие ограничения.
func (uc *ListingUseCase) ParseInput(in Input) (valueobject.Filter, error) {
	f := valueobject.Filter{Type: in.Type, Query: in.Query}

	budget, ok, err := validation.ParseOptionalInt(in.Budget, validation.MsgInvalidBudget)
	if err != nil {
		return valueobject.Filter{}, err
	}
	if ok {
		f.Budget = valueobject.Some(budget)
	}

	distance, ok, err := validation.ParseOptionalInt(in.Distance, validation.MsgInvalidDistance)
	if err != nil {
		return valueobject.Filter{}, err
	}
	if ok {
		f.Distance = valueobject.Some(distance)
	}
	return f.Normalize(), nil
}

// Commit сохраняет фильтр текущего режима одной записью, обновляет индикатор
// и выдаёт билет на новую загрузку.
func (uc *ListingUseCase) Commit(ctx context.Context, f valueobject.Filter) (screen.Ticket, error) {
	f = f.Normalize()
	mode := uc.Mode()

	if err := prefs.SaveFilter(ctx, uc.store, mode, f); err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось сохранить фильтр")
	}

	uc.mu.Lock()
	uc.filter = f
	uc.active = f.IsActive()
	uc.mu.Unlock()
	return uc.gen.Next(), nil
}

// CommitInput разбирает поля и сохраняет фильтр. При ошибке разбора загрузка не запускается.
func (uc *ListingUseCase) CommitInput(ctx context.Context, in Input) (screen.Ticket, error) {
	f, err := uc.ParseInput(in)
	if err != nil {
		return 0, err
	}
	return uc.Commit(ctx, f)
}

// Reset сбрасывает поля и удаляет сохранённый фильтр только текущего режима.
func (uc *ListingUseCase) Reset(ctx context.Context) (screen.Ticket, error) {
	mode := uc.Mode()
	if err := prefs.ClearFilter(ctx, uc.store, mode); err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось очистить фильтр")
	}

	uc.mu.Lock()
	uc.filter = valueobject.DefaultFilter()
	uc.active = false
	uc.mu.Unlock()
	return uc.gen.Next(), nil
}

// SwitchMode переключает ленту, восстанавливает фильтр нового режима и выдаёт билет.
func (uc *ListingUseCase) SwitchMode(ctx context.Context, mode valueobject.ViewMode) (screen.Ticket, error) {
	uc.mu.Lock()
	uc.mode = mode
	uc.requests, uc.providers = nil, nil
	uc.mu.Unlock()

	if _, err := uc.Restore(ctx); err != nil {
		return 0, err
	}
	return uc.gen.Next(), nil
}

// Returned вызывается при возврате с детального экрана: фильтр восстанавливается
// заново, и список перезагружается целиком.
func (uc *ListingUseCase) Returned(ctx context.Context) (screen.Ticket, error) {
	if _, err := uc.Restore(ctx); err != nil {
		return 0, err
	}
	return uc.gen.Next(), nil
}

// Fetch загружает ленту с фильтром, действовавшим на момент вызова.
func (uc *ListingUseCase) Fetch(ctx context.Context, ticket screen.Ticket) (Result, error) {
	uc.mu.Lock()
	mode, f := uc.mode, uc.filter
	uc.mu.Unlock()

	res := Result{Ticket: ticket, Mode: mode}
	var err error
	if mode == valueobject.ViewProviders {
		res.Providers, err = uc.gateway.ListProviders(ctx, f)
	} else {
		res.Requests, err = uc.gateway.ListRequests(ctx, f)
	}
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"mode":  mode.String(),
			"error": err,
		}).Debug("feed: загрузка ленты не удалась")
		return res, err
	}
	return res, nil
}

// Apply заменяет коллекцию целиком, если билет последний и режим не сменился.
// Устаревший результат отбрасывается.
func (uc *ListingUseCase) Apply(res Result) bool {
	if !uc.gen.IsCurrent(res.Ticket) {
		return false
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if res.Mode != uc.mode {
		return false
	}
	if res.Mode == valueobject.ViewProviders {
		uc.providers = res.Providers
	} else {
		uc.requests = res.Requests
	}
	return true
}

// Open возвращает переход для строки с указанным номером в текущей коллекции.
func (uc *ListingUseCase) Open(row int) (Target, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.mode == valueobject.ViewProviders {
		if row < 0 || row >= len(uc.providers) {
			return Target{}, apperror.ErrNotLoaded
		}
		p := uc.providers[row]
		return Target{Kind: TargetProvider, ID: p.ID, Role: p.Role}, nil
	}

	if row < 0 || row >= len(uc.requests) {
		return Target{}, apperror.ErrNotLoaded
	}
	return Target{Kind: TargetRequest, ID: uc.requests[row].ID}, nil
}

func containsOption(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
