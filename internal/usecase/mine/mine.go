package mine

import (
	"context"
	"strings"
	"sync"

	"github.com/ignatzorin/quickfix/internal/api"
	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
	"github.com/ignatzorin/quickfix/internal/screen"
	"github.com/ignatzorin/quickfix/internal/session"
	"github.com/ignatzorin/quickfix/internal/validation"
)

// Gateway: вызовы сервера для раздела «мои заявки и услуги».
type Gateway interface {
	ListClientRequests(ctx context.Context, q api.OwnQuery) ([]models.Request, error)
	ListProviderServices(ctx context.Context, providerID int, q api.OwnQuery) ([]models.Service, error)
}

// Viewer: текущий пользователь.
type Viewer interface {
	UserID() int
}

// Tab: вкладка раздела.
type Tab int

const (
	TabRequests Tab = iota
	TabServices
)

// BudgetHint: подсказка поля бюджета: для заявок это максимум, для услуг минимум.
func (t Tab) BudgetHint() string {
	if t == TabServices {
		return "Min. budget (€)"
	}
	return "Max budget (€)"
}

// AnyStatus: вариант фильтра без ограничения по статусу.
const AnyStatus = "Any"

// StatusOptions: варианты фильтра статуса в порядке жизненного цикла.
func StatusOptions() []string {
	out := []string{AnyStatus}
	for _, s := range valueobject.AllStatuses {
		out = append(out, s.Title())
	}
	return out
}

// Input: значения полей фильтра.
type Input struct {
	Status string
	Query  string
	Budget string
}

// Result: ответ одной загрузки вкладки.
type Result struct {
	Ticket   screen.Ticket
	Tab      Tab
	Requests []models.Request
	Services []models.Service
}

// ListUseCase ведёт раздел «мои заявки и услуги».
type ListUseCase struct {
	gateway Gateway
	viewer  Viewer
	gen     screen.Generation

	mu       sync.Mutex
	tab      Tab
	query    api.OwnQuery
	requests []models.Request
	services []models.Service
}

func NewListUseCase(gateway Gateway, viewer Viewer) *ListUseCase {
	return &ListUseCase{gateway: gateway, viewer: viewer}
}

func (uc *ListUseCase) Tab() Tab {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.tab
}

// SwitchTab переключает вкладку и выдаёт билет на загрузку с текущим фильтром.
func (uc *ListUseCase) SwitchTab(tab Tab) screen.Ticket {
	uc.mu.Lock()
	uc.tab = tab
	uc.requests, uc.services = nil, nil
	uc.mu.Unlock()
	return uc.gen.Next()
}

// Commit разбирает поля фильтра и выдаёт билет. При ошибке загрузка не запускается.
func (uc *ListUseCase) Commit(in Input) (screen.Ticket, error) {
	q := api.OwnQuery{Query: strings.TrimSpace(in.Query)}

	status := strings.TrimSpace(in.Status)
	if status != "" && !strings.EqualFold(status, AnyStatus) {
		parsed := valueobject.ParseStatus(status)
		if parsed == valueobject.StatusUnknown {
			return 0, apperror.Validation("Unknown status: " + status)
		}
		q.Status = parsed
	}

	budget, ok, err := validation.ParseOptionalInt(in.Budget, validation.MsgInvalidBudget)
	if err != nil {
		return 0, err
	}
	if ok {
		q.Budget = valueobject.Some(budget)
	}

	uc.mu.Lock()
	uc.query = q
	uc.mu.Unlock()
	return uc.gen.Next(), nil
}

// Refresh выдаёт билет на повторную загрузку, например после возврата с детального экрана.
func (uc *ListUseCase) Refresh() screen.Ticket {
	return uc.gen.Next()
}

// Fetch загружает текущую вкладку.
func (uc *ListUseCase) Fetch(ctx context.Context, ticket screen.Ticket) (Result, error) {
	uc.mu.Lock()
	tab, q := uc.tab, uc.query
	uc.mu.Unlock()

	res := Result{Ticket: ticket, Tab: tab}
	if tab == TabServices {
		userID := uc.viewer.UserID()
		if userID == session.NoUser {
			return res, apperror.ErrNotLoggedIn
		}
		services, err := uc.gateway.ListProviderServices(ctx, userID, q)
		res.Services = services
		return res, err
	}

	requests, err := uc.gateway.ListClientRequests(ctx, q)
	res.Requests = requests
	return res, err
}

// Apply заменяет коллекцию, если билет последний и вкладка не сменилась.
func (uc *ListUseCase) Apply(res Result) bool {
	if !uc.gen.IsCurrent(res.Ticket) {
		return false
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if res.Tab != uc.tab {
		return false
	}
	if res.Tab == TabServices {
		uc.services = res.Services
	} else {
		uc.requests = res.Requests
	}
	return true
}

func (uc *ListUseCase) Requests() []models.Request {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return append([]models.Request(nil), uc.requests...)
}

func (uc *ListUseCase) Services() []models.Service {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return append([]models.Service(nil), uc.services...)
}

// Open возвращает идентификатор заявки или услуги в строке row текущей вкладки.
func (uc *ListUseCase) Open(row int) (Tab, int, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.tab == TabServices {
		if row < 0 || row >= len(uc.services) {
			return uc.tab, 0, apperror.ErrNotLoaded
		}
		return uc.tab, uc.services[row].ID, nil
	}
	if row < 0 || row >= len(uc.requests) {
		return uc.tab, 0, apperror.ErrNotLoaded
	}
	return uc.tab, uc.requests[row].ID, nil
}
