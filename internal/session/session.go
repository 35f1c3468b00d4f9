package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/prefs"
)

// NoUser: значение идентификатора, когда пользователь не вошёл.
const NoUser = -1

// Theme: режим оформления.
type Theme int

const (
	ThemeLight Theme = 1
	ThemeDark  Theme = 2
)

// Service хранит сессию пользователя поверх локального хранилища.
// Создаётся один раз при старте и передаётся потребителям явно.
type Service struct {
	store prefs.Store

	mu     sync.RWMutex
	token  string
	userID int
	theme  Theme
}

// Load читает сохранённую сессию из хранилища.
func Load(ctx context.Context, store prefs.Store) (*Service, error) {
	s := &Service{store: store, userID: NoUser, theme: ThemeLight}

	token, _, err := store.Get(ctx, prefs.KeyAuthToken)
	if err != nil {
		return nil, err
	}
	s.token = token

	if raw, ok, err := store.Get(ctx, prefs.KeyUserID); err != nil {
		return nil, err
	} else if ok {
		if id, err := strconv.Atoi(raw); err == nil {
			s.userID = id
		}
	}

	if raw, ok, err := store.Get(ctx, prefs.KeyThemeMode); err != nil {
		return nil, err
	} else if ok && raw == strconv.Itoa(int(ThemeDark)) {
		s.theme = ThemeDark
	}

	return s, nil
}

// Token возвращает токен для заголовка Authorization.
func (s *Service) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// UserID возвращает идентификатор пользователя или NoUser.
func (s *Service) UserID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Service) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// LoggedIn сообщает, есть ли действующая сессия. Подпись токена не проверяется:
// это дело сервера, здесь смотрим только на срок действия.
func (s *Service) LoggedIn(now time.Time) bool {
	s.mu.RLock()
	token, userID := s.token, s.userID
	s.mu.RUnlock()

	if token == "" || userID == NoUser {
		return false
	}
	exp, ok := tokenExpiry(token)
	if !ok {
		return true
	}
	return now.Before(exp)
}

// SaveLogin сохраняет токен и идентификатор одной записью.
func (s *Service) SaveLogin(ctx context.Context, token string, userID int) error {
	err := s.store.Update(ctx, map[string]string{
		prefs.KeyAuthToken: token,
		prefs.KeyUserID:    strconv.Itoa(userID),
	}, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token, s.userID = token, userID
	s.mu.Unlock()
	return nil
}

// SetTheme сохраняет режим оформления.
func (s *Service) SetTheme(ctx context.Context, theme Theme) error {
	if err := prefs.Set(ctx, s.store, prefs.KeyThemeMode, strconv.Itoa(int(theme))); err != nil {
		return err
	}
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	return nil
}

// ToggleTheme переключает светлую и тёмную тему.
func (s *Service) ToggleTheme(ctx context.Context) (Theme, error) {
	next := ThemeDark
	if s.Theme() == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(ctx, next)
}

// Clear удаляет все данные пользователя, включая фильтры.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.token, s.userID, s.theme = "", NoUser, ThemeLight
	s.mu.Unlock()
	logger.Log.Debug("session: данные пользователя очищены")
	return nil
}

// Store возвращает хранилище, на котором построена сессия.
func (s *Service) Store() prefs.Store {
	return s.store
}

func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
