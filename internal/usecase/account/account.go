package account

import (
	"context"
	"time"

	"github.com/ignatzorin/quickfix/internal/api"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/session"
)

// Gateway: вызовы сервера для профиля, входа и ролей исполнителя.
type Gateway interface {
	Login(ctx context.Context, username, password string) (models.LoginResponse, error)
	GetMe(ctx context.Context) (models.UserProfile, error)
	CreateUser(ctx context.Context, form models.UserForm) (models.APIResponse, error)
	UpdateUser(ctx context.Context, form models.UserForm) (models.APIResponse, error)
	DeleteUser(ctx context.Context) (models.APIResponse, error)
	GetProfilePicture(ctx context.Context, userID int) (models.ProfilePicture, error)
	UploadProfilePicture(ctx context.Context, filename string, data []byte) (api.UploadResult, error)

	ListMyRoles(ctx context.Context) ([]models.ProviderListing, error)
	AddRole(ctx context.Context, role models.ProviderRole) (models.APIResponse, error)
	UpdateRole(ctx context.Context, role models.ProviderRoleUpdate) (models.APIResponse, error)
	RemoveRole(ctx context.Context, role string) (models.APIResponse, error)
}

// Session: сохранённая сессия пользователя.
type Session interface {
	UserID() int
	LoggedIn(now time.Time) bool
	SaveLogin(ctx context.Context, token string, userID int) error
	Clear(ctx context.Context) error
	Theme() session.Theme
	ToggleTheme(ctx context.Context) (session.Theme, error)
}
