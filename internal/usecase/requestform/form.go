package requestform

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
	"github.com/ignatzorin/quickfix/internal/render"
	"github.com/ignatzorin/quickfix/internal/validation"
)

// Сообщения формы показываются пользователю как есть.
const (
	MsgTitleRequired       = "Title is required."
	MsgTypeRequired        = "Service type is required."
	MsgLocationRequired    = "Location is required."
	MsgLocationFormat      = "Location must be in the format 'City, Country' or 'Street, No, City, Country'."
	MsgDescriptionRequired = "Description is required."
	MsgDateRequired        = "Deadline date is required."
	MsgDeadlineInvalid     = "Deadline must be a valid future date and time."
	MsgPricePositive       = "Price must be a positive number."
	MsgNoChanges           = "No changes to save."

	MsgSubmitted = "Request submitted."
	MsgUpdated   = "Request updated."
)

const wireLayout = "2006-01-02T15:04:05"

// Gateway: вызовы сервера для формы заявки.
type Gateway interface {
	GetRequest(ctx context.Context, id int) (models.Request, error)
	CreateRequest(ctx context.Context, form models.RequestForm) (models.APIResponse, error)
	UpdateRequest(ctx context.Context, id int, patch models.RequestPatch) (models.APIResponse, error)
}

// Input: значения полей формы. Date в формате YYYY-MM-DD, Time в формате HH:MM.
type Input struct {
	Title       string
	Type        string
	Description string
	Location    string
	Price       string
	Date        string
	Time        string
}

// Outcome: результат отправки формы.
type Outcome struct {
	Message     string
	RequestID   int
	RefreshList bool
}

// FormUseCase ведёт форму создания или редактирования заявки.
type FormUseCase struct {
	gateway   Gateway
	requestID int
	now       func() time.Time

	original *models.Request
}

func NewCreateForm(gateway Gateway) *FormUseCase {
	return &FormUseCase{gateway: gateway, now: time.Now}
}

func NewEditForm(gateway Gateway, requestID int) *FormUseCase {
	return &FormUseCase{gateway: gateway, requestID: requestID, now: time.Now}
}

func (uc *FormUseCase) EditMode() bool {
	return uc.requestID > 0
}

// Load загружает заявку для редактирования и возвращает заполненные поля.
// В режиме создания возвращает пустую форму.
func (uc *FormUseCase) Load(ctx context.Context) (Input, error) {
	if !uc.EditMode() {
		return Input{}, nil
	}
	r, err := uc.gateway.GetRequest(ctx, uc.requestID)
	if err != nil {
		return Input{}, err
	}
	uc.original = &r

	in := Input{
		Title:       r.Title,
		Type:        r.Type,
		Description: r.Description,
		Location:    r.Location,
		Price:       strconv.FormatFloat(r.Price, 'f', -1, 64),
		Date:        r.Deadline,
		Time:        "00:00",
	}
	if date, clock, ok := strings.Cut(r.Deadline, "T"); ok {
		in.Date = date
		if len(clock) >= 5 {
			in.Time = clock[:5]
		}
	}
	return in, nil
}

// BuildDeadline собирает дедлайн в формате сервера. Без времени берётся полночь.
func BuildDeadline(date, clock string) string {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if clock == "" {
		return date + "T00:00:00"
	}
	return date + "T" + clock + ":00"
}

// Validate проверяет поля в порядке экрана и возвращает тело запроса.
func (uc *FormUseCase) Validate(in Input) (models.RequestForm, error) {
	in = trimInput(in)

	err := validation.First(
		validation.Required(in.Title, MsgTitleRequired),
		validation.Required(in.Type, MsgTypeRequired),
		validation.Required(in.Location, MsgLocationRequired),
		func() error {
			if validation.ValidateLocation(in.Location) != nil {
				return apperror.Validation(MsgLocationFormat)
			}
			return nil
		},
		validation.Required(in.Description, MsgDescriptionRequired),
		validation.Required(in.Date, MsgDateRequired),
	)
	if err != nil {
		return models.RequestForm{}, err
	}

	deadline := BuildDeadline(in.Date, in.Time)
	at, err := time.ParseInLocation(wireLayout, deadline, time.Local)
	if err != nil || !at.After(uc.now()) {
		return models.RequestForm{}, apperror.Validation(MsgDeadlineInvalid)
	}

	price, err := validation.ParsePrice(in.Price)
	if err != nil {
		return models.RequestForm{}, err
	}
	if _, err := valueobject.NewPrice(price); err != nil {
		return models.RequestForm{}, err
	}

	return models.RequestForm{
		Title:       in.Title,
		Type:        in.Type,
		Description: in.Description,
		Location:    in.Location,
		Price:       price,
		Deadline:    render.WireDeadline(at),
	}, nil
}

// Submit создаёт заявку или отправляет только изменённые поля.
func (uc *FormUseCase) Submit(ctx context.Context, in Input) (Outcome, error) {
	form, err := uc.Validate(in)
	if err != nil {
		return Outcome{}, err
	}

	if !uc.EditMode() {
		if _, err := uc.gateway.CreateRequest(ctx, form); err != nil {
			return Outcome{}, err
		}
		return Outcome{Message: MsgSubmitted, RefreshList: true}, nil
	}

	if uc.original == nil {
		return Outcome{}, apperror.ErrNotLoaded
	}
	patch := Diff(*uc.original, form)
	if patch.IsEmpty() {
		return Outcome{}, apperror.Validation(MsgNoChanges)
	}
	if _, err := uc.gateway.UpdateRequest(ctx, uc.requestID, patch); err != nil {
		return Outcome{}, err
	}
	logger.Log.WithFields(logrus.Fields{"request_id": uc.requestID}).Debug("requestform: заявка обновлена")
	return Outcome{Message: MsgUpdated, RequestID: uc.requestID, RefreshList: true}, nil
}

// Diff возвращает патч только с полями, которые отличаются от загруженной заявки.
// Дедлайны сравниваются как моменты времени, а не как строки.
func Diff(original models.Request, form models.RequestForm) models.RequestPatch {
	var patch models.RequestPatch
	if form.Title != original.Title {
		patch.Title = valueobject.Some(form.Title)
	}
	if form.Type != original.Type {
		patch.Type = valueobject.Some(form.Type)
	}
	if form.Description != original.Description {
		patch.Description = valueobject.Some(form.Description)
	}
	if form.Location != original.Location {
		patch.Location = valueobject.Some(form.Location)
	}
	if form.Price != original.Price {
		patch.Price = valueobject.Some(form.Price)
	}
	if !sameDeadline(form.Deadline, original.Deadline) {
		patch.Deadline = valueobject.Some(form.Deadline)
	}
	return patch
}

func sameDeadline(a, b string) bool {
	ta, okA := render.ParseDeadline(a)
	tb, okB := render.ParseDeadline(b)
	if !okA || !okB {
		return a == b
	}
	return ta.Equal(tb)
}

func trimInput(in Input) Input {
	return Input{
		Title:       strings.TrimSpace(in.Title),
		Type:        strings.TrimSpace(in.Type),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Price:       strings.TrimSpace(in.Price),
		Date:        strings.TrimSpace(in.Date),
		Time:        strings.TrimSpace(in.Time),
	}
}
