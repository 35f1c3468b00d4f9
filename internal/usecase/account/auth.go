package account

import (
	"context"
	"strings"
	"time"

	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

const (
	MsgUsernameRequired   = "Username required"
	MsgPasswordRequired   = "Password required"
	MsgInvalidCredentials = "Invalid credentials"
)

// AuthUseCase отвечает за вход и выход.
type AuthUseCase struct {
	gateway Gateway
	session Session
	now     func() time.Time
}

func NewAuthUseCase(gateway Gateway, session Session) *AuthUseCase {
	return &AuthUseCase{gateway: gateway, session: session, now: time.Now}
}

// Resume сообщает, можно ли пропустить экран входа.
func (uc *AuthUseCase) Resume() bool {
	return uc.session.LoggedIn(uc.now())
}

// Login проверяет поля, обменивает их на токен и сохраняет сессию.
// Любая ошибка сервера показывается как «Invalid credentials».
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (int, error) {
	username, password = strings.TrimSpace(username), strings.TrimSpace(password)
	if username == "" {
		return 0, apperror.Validation(MsgUsernameRequired)
	}
	if password == "" {
		return 0, apperror.Validation(MsgPasswordRequired)
	}

	resp, err := uc.gateway.Login(ctx, username, password)
	if err != nil {
		logger.Log.WithField("error", err).Debug("account: вход не удался")
		return 0, apperror.Wrap(err, apperror.ErrCodeApplication, MsgInvalidCredentials)
	}
	if err := uc.session.SaveLogin(ctx, resp.Token, resp.UserID); err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось сохранить сессию")
	}
	logger.Log.WithField("user_id", resp.UserID).Info("account: пользователь вошёл")
	return resp.UserID, nil
}

// Logout удаляет токен, идентификатор и сохранённые фильтры.
func (uc *AuthUseCase) Logout(ctx context.Context) error {
	if err := uc.session.Clear(ctx); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось очистить сессию")
	}
	return nil
}
