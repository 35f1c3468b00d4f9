package account

import (
	"context"
	"os"
	"strings"

	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
	"github.com/ignatzorin/quickfix/internal/session"
	"github.com/ignatzorin/quickfix/internal/validation"
)

const (
	MsgSignedUp        = "User signed up!"
	MsgProfileUpdated  = "User information updated successfully"
	MsgAccountDeleted  = "Account deleted."
	MsgImageUnreadable = "Failed to process image"
	MsgSwitchedToLight = "Switched to Light Mode"
	MsgSwitchedToDark  = "Switched to Dark Mode"
)

// ProfileUseCase ведёт профиль: регистрацию, изменение, удаление, аватар и тему.
type ProfileUseCase struct {
	gateway Gateway
	session Session
}

func NewProfileUseCase(gateway Gateway, session Session) *ProfileUseCase {
	return &ProfileUseCase{gateway: gateway, session: session}
}

// Me загружает профиль текущего пользователя.
func (uc *ProfileUseCase) Me(ctx context.Context) (models.UserProfile, error) {
	if uc.session.UserID() == session.NoUser {
		return models.UserProfile{}, apperror.ErrNotLoggedIn
	}
	return uc.gateway.GetMe(ctx)
}

// Register проверяет форму и создаёт аккаунт. Сессия не создаётся:
// после регистрации пользователь входит сам.
func (uc *ProfileUseCase) Register(ctx context.Context, in validation.UserInput) (string, error) {
	if err := validation.ValidateUser(in, false); err != nil {
		return "", err
	}
	if _, err := uc.gateway.CreateUser(ctx, userForm(in)); err != nil {
		return "", err
	}
	return MsgSignedUp, nil
}

// Update проверяет форму и меняет профиль. Пустой пароль не отправляется.
func (uc *ProfileUseCase) Update(ctx context.Context, in validation.UserInput) (string, error) {
	if err := validation.ValidateUser(in, true); err != nil {
		return "", err
	}
	if _, err := uc.gateway.UpdateUser(ctx, userForm(in)); err != nil {
		return "", err
	}
	return MsgProfileUpdated, nil
}

// Delete удаляет аккаунт и очищает локальную сессию.
func (uc *ProfileUseCase) Delete(ctx context.Context) (string, error) {
	if _, err := uc.gateway.DeleteUser(ctx); err != nil {
		return "", err
	}
	if err := uc.session.Clear(ctx); err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось очистить сессию")
	}
	return MsgAccountDeleted, nil
}

// Picture возвращает ссылку на аватар текущего пользователя или пустую строку, если аватара нет.
func (uc *ProfileUseCase) Picture(ctx context.Context) (string, error) {
	userID := uc.session.UserID()
	if userID == session.NoUser {
		return "", apperror.ErrNotLoggedIn
	}
	pic, err := uc.gateway.GetProfilePicture(ctx, userID)
	if err != nil {
		return "", err
	}
	return pic.URL, nil
}

// UploadPicture читает файл с диска и загружает его как аватар.
func (uc *ProfileUseCase) UploadPicture(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeValidation, MsgImageUnreadable)
	}
	res, err := uc.gateway.UploadProfilePicture(ctx, path, data)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

// ToggleTheme переключает тему и возвращает сообщение для пользователя.
func (uc *ProfileUseCase) ToggleTheme(ctx context.Context) (session.Theme, string, error) {
	theme, err := uc.session.ToggleTheme(ctx)
	if err != nil {
		return uc.session.Theme(), "", apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось сохранить тему")
	}
	if theme == session.ThemeDark {
		return theme, MsgSwitchedToDark, nil
	}
	return theme, MsgSwitchedToLight, nil
}

func userForm(in validation.UserInput) models.UserForm {
	form := models.UserForm{
		Name:     strings.TrimSpace(in.Name),
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Location: strings.TrimSpace(in.Location),
	}
	if strings.TrimSpace(in.Password) != "" {
		form.Password = in.Password
	}
	return form
}
