package detail

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

const (
	unknownName   = "Unknown"
	unknownRating = "-"

	MsgOwnershipCheckFailed = "Ownership check failed."
	MsgRequestRemoved       = "Request removed."
)

// Gateway: вызовы сервера, нужные детальному экрану заявки или услуги.
type Gateway interface {
	GetRequest(ctx context.Context, id int) (models.Request, error)
	CheckOwnership(ctx context.Context, id int) (bool, error)
	GetUser(ctx context.Context, id int) (models.UserProfile, error)
	Decide(ctx context.Context, requestID int, accept bool) (models.APIResponse, error)
	DeleteRequest(ctx context.Context, id int) (models.APIResponse, error)
	GetService(ctx context.Context, id int) (models.Service, error)
	UpdateServiceStatus(ctx context.Context, serviceID int, status valueobject.Status) (models.APIResponse, error)
}

// Viewer: текущий пользователь.
type Viewer interface {
	UserID() int
}

// Kind: что показывает экран. Задаётся при создании и не меняется.
type Kind int

const (
	KindRequest Kind = iota + 1
	KindService
)

// Action: кнопка, доступная пользователю на экране.
type Action int

const (
	ActionEdit Action = iota + 1
	ActionRemove
	ActionAcceptToggle
	ActionUpdateStatus
)

// Person: имя и рейтинг второй стороны.
type Person struct {
	ID     int
	Name   string
	Rating string
}

// ProviderInfo: исполнитель, принявший заявку, и его заметка по типу услуги.
type ProviderInfo struct {
	Person
	Note string
}

// View: всё, что нужно отрисовать на детальном экране.
type View struct {
	Kind     Kind
	Request  models.Request
	Service  models.Service
	Status   valueobject.Status
	IsOwner  bool
	Actions  []Action
	Accepted bool

	// Counterpart: автор заявки для исполнителя или клиент услуги.
	Counterpart Person
	// Provider заполняется только для автора заявки, когда её кто-то принял.
	Provider *ProviderInfo
}

// Has сообщает, доступно ли действие.
func (v View) Has(a Action) bool {
	for _, action := range v.Actions {
		if action == a {
			return true
		}
	}
	return false
}

// Outcome: результат действия, после которого экран закрывается.
type Outcome struct {
	Message     string
	RefreshList bool
}

// LifecycleUseCase ведёт детальный экран заявки или услуги.
type LifecycleUseCase struct {
	gateway Gateway
	viewer  Viewer
	kind    Kind
	id      int

	mu     sync.Mutex
	view   View
	loaded bool
}

func NewRequestDetail(gateway Gateway, viewer Viewer, requestID int) *LifecycleUseCase {
	return &LifecycleUseCase{gateway: gateway, viewer: viewer, kind: KindRequest, id: requestID}
}

func NewServiceDetail(gateway Gateway, viewer Viewer, serviceID int) *LifecycleUseCase {
	return &LifecycleUseCase{gateway: gateway, viewer: viewer, kind: KindService, id: serviceID}
}

func (uc *LifecycleUseCase) Kind() Kind {
	return uc.kind
}

// View возвращает последнее загруженное состояние экрана.
func (uc *LifecycleUseCase) View() (View, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.view, uc.loaded
}

// Load загружает сущность экрана. Для заявки при неудачной проверке авторства
// возвращается вид без действий вместе с ошибкой.
func (uc *LifecycleUseCase) Load(ctx context.Context) (View, error) {
	var (
		view View
		err  error
	)
	if uc.kind == KindService {
		view, err = uc.loadService(ctx)
	} else {
		view, err = uc.loadRequest(ctx)
	}
	if view.Kind == 0 {
		return View{}, err
	}

	uc.mu.Lock()
	uc.view, uc.loaded = view, true
	uc.mu.Unlock()
	return view, err
}

func (uc *LifecycleUseCase) loadRequest(ctx context.Context) (View, error) {
	req, err := uc.gateway.GetRequest(ctx, uc.id)
	if err != nil {
		return View{}, err
	}
	view := View{Kind: KindRequest, Request: req, Status: req.ParsedStatus()}

	owner, err := uc.gateway.CheckOwnership(ctx, uc.id)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"request_id": uc.id,
			"error":      err,
		}).Warn("detail: не удалось проверить авторство заявки")
		return view, apperror.Wrap(err, apperror.ErrCodeApplication, MsgOwnershipCheckFailed)
	}
	view.IsOwner = owner

	if owner {
		view.Actions = []Action{ActionEdit, ActionRemove}
		if req.RequestedProvider != nil {
			view.Provider = uc.resolveProvider(ctx, *req.RequestedProvider, req.Type)
		}
		return view, nil
	}

	view.Actions = []Action{ActionAcceptToggle}
	view.Accepted = req.AcceptedBy(uc.viewer.UserID())
	if req.ClientID != nil && *req.ClientID > 0 {
		view.Counterpart = uc.resolvePerson(ctx, *req.ClientID)
	} else {
		view.Counterpart = Person{Name: unknownName, Rating: unknownRating}
	}
	return view, nil
}

func (uc *LifecycleUseCase) loadService(ctx context.Context) (View, error) {
	svc, err := uc.gateway.GetService(ctx, uc.id)
	if err != nil {
		return View{}, err
	}
	view := View{
		Kind:        KindService,
		Service:     svc,
		Status:      svc.ParsedStatus(),
		Counterpart: uc.resolvePerson(ctx, svc.ClientID),
	}
	if me := uc.viewer.UserID(); me == svc.ProviderID || me == svc.ClientID {
		view.Actions = []Action{ActionUpdateStatus}
	}
	return view, nil
}

func (uc *LifecycleUseCase) resolvePerson(ctx context.Context, userID int) Person {
	user, err := uc.gateway.GetUser(ctx, userID)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"user_id": userID, "error": err}).Debug("detail: профиль недоступен")
		return Person{ID: userID, Name: unknownName, Rating: unknownRating}
	}
	name := user.Name
	if strings.TrimSpace(name) == "" {
		name = unknownName
	}
	return Person{ID: userID, Name: name, Rating: fmt.Sprintf("%.1f", user.Rating)}
}

// resolveProvider ищет имя исполнителя и его описание роли того же типа, что и заявка.
func (uc *LifecycleUseCase) resolveProvider(ctx context.Context, providerID int, serviceType string) *ProviderInfo {
	user, err := uc.gateway.GetUser(ctx, providerID)
	if err != nil {
		return &ProviderInfo{Person: Person{ID: providerID, Name: unknownName, Rating: unknownRating}}
	}
	info := &ProviderInfo{Person: Person{ID: providerID, Name: user.Name, Rating: fmt.Sprintf("%.1f", user.Rating)}}
	if strings.TrimSpace(info.Name) == "" {
		info.Name = unknownName
	}
	if role, ok := user.RoleNamed(serviceType); ok && strings.TrimSpace(role.Description) != "" {
		info.Note = role.Description
	}
	return info
}

// Decide отправляет решение, противоположное текущему положению переключателя.
// Переключатель меняется только после подтверждённого успеха.
func (uc *LifecycleUseCase) Decide(ctx context.Context) (string, error) {
	view, err := uc.requireRequest()
	if err != nil {
		return "", err
	}
	if view.IsOwner {
		return "", apperror.ErrOwnerCannotDecide
	}
	if !view.Has(ActionAcceptToggle) {
		return "", apperror.ErrNotLoaded
	}

	accept := !view.Accepted
	resp, err := uc.gateway.Decide(ctx, uc.id, accept)
	if err != nil {
		return "", err
	}

	uc.mu.Lock()
	uc.view.Accepted = accept
	uc.mu.Unlock()
	logger.Log.WithFields(logrus.Fields{"request_id": uc.id, "accept": accept}).Info("detail: решение по заявке отправлено")
	return resp.Message, nil
}

// Remove удаляет заявку автора. После успеха список нужно перезагрузить.
func (uc *LifecycleUseCase) Remove(ctx context.Context) (Outcome, error) {
	view, err := uc.requireRequest()
	if err != nil {
		return Outcome{}, err
	}
	if !view.IsOwner {
		return Outcome{}, apperror.ErrNotOwner
	}
	if _, err := uc.gateway.DeleteRequest(ctx, uc.id); err != nil {
		return Outcome{}, err
	}
	return Outcome{Message: MsgRequestRemoved, RefreshList: true}, nil
}

// EditTarget возвращает идентификатор заявки для формы редактирования.
func (uc *LifecycleUseCase) EditTarget() (int, error) {
	view, err := uc.requireRequest()
	if err != nil {
		return 0, err
	}
	if !view.IsOwner {
		return 0, apperror.ErrNotOwner
	}
	return view.Request.ID, nil
}

// ProviderTarget возвращает исполнителя, принявшего заявку, для перехода к его карточке.
func (uc *LifecycleUseCase) ProviderTarget() (id int, role string, ok bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.view.Provider == nil {
		return 0, "", false
	}
	return uc.view.Provider.ID, uc.view.Request.Type, true
}

// StatusOptions: статусы, которые можно выбрать для услуги. Текущий не предлагается.
func (uc *LifecycleUseCase) StatusOptions() []valueobject.Status {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.kind != KindService || !uc.loaded {
		return nil
	}
	return uc.view.Status.PickerChoices()
}

// UpdateStatus меняет статус услуги и перечитывает её. Если перечитать не удалось,
// показывается выбранный статус.
func (uc *LifecycleUseCase) UpdateStatus(ctx context.Context, status valueobject.Status) (View, error) {
	uc.mu.Lock()
	view, loaded := uc.view, uc.loaded
	uc.mu.Unlock()

	if uc.kind != KindService || !loaded {
		return View{}, apperror.ErrNotLoaded
	}
	if !view.Has(ActionUpdateStatus) {
		return View{}, apperror.New(apperror.ErrCodeNotAllowed, "статус меняют только участники услуги")
	}
	if _, err := valueobject.NewServiceStatus(string(status)); err != nil {
		return View{}, err
	}
	if status == view.Status {
		return View{}, apperror.Validation(fmt.Sprintf("Service is already %s", status))
	}

	if _, err := uc.gateway.UpdateServiceStatus(ctx, uc.id, status); err != nil {
		return View{}, err
	}

	fresh, err := uc.loadService(ctx)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"service_id": uc.id,
			"error":      err,
		}).Warn("detail: не удалось перечитать услугу, показываем выбранный статус")
		fresh = view
		fresh.Service.Status = string(status)
		fresh.Status = status
	}

	uc.mu.Lock()
	uc.view = fresh
	uc.mu.Unlock()
	return fresh, nil
}

func (uc *LifecycleUseCase) requireRequest() (View, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.kind != KindRequest || !uc.loaded {
		return View{}, apperror.ErrNotLoaded
	}
	return uc.view, nil
}
