package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/repository"
)

// PublicUser: профиль, который видят другие пользователи. Роли публичны:
// они и так видны в ленте исполнителей.
type PublicUser struct {
	UserID int                   `json:"userId"`
	Name   string                `json:"name"`
	Rating float64               `json:"rating"`
	Roles  []models.ProviderRole `json:"roles"`
}

// Login проверяет учётные данные и выпускает токен.
func (m *Marketplace) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.LoginResponse{}, fail(http.StatusBadRequest, "Missing credentials")
	}

	user, err := m.store.FindUserByUsername(username)
	if err != nil {
		return models.LoginResponse{}, fail(http.StatusUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.LoginResponse{}, fail(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := m.tokens.Issue(user.ID)
	if err != nil {
		return models.LoginResponse{}, err
	}
	logger.Log.WithField("user_id", user.ID).Info("стенд: пользователь вошёл")
	return models.LoginResponse{Token: token, UserID: user.ID}, nil
}

// Register создаёт аккаунт. Все поля формы обязательны.
func (m *Marketplace) Register(ctx context.Context, form models.UserForm) (int, error) {
	form = trimForm(form)
	if form.Name == "" || form.Username == "" || form.Email == "" || form.Location == "" || form.Password == "" {
		return 0, fail(http.StatusBadRequest, "Missing fields")
	}
	if m.store.UsernameTaken(form.Username, 0) {
		return 0, fail(http.StatusConflict, "Username already exists")
	}
	if m.store.EmailTaken(form.Email, 0) {
		return 0, fail(http.StatusConflict, "Email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	user, err := m.store.CreateUser(repository.UserRecord{
		Name:         form.Name,
		Username:     form.Username,
		Email:        form.Email,
		Location:     form.Location,
		PasswordHash: string(hash),
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		return 0, fail(http.StatusConflict, "Username already exists")
	}
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Me возвращает полный профиль вместе с ролями.
func (m *Marketplace) Me(ctx context.Context, userID int) (models.UserProfile, error) {
	user, err := m.store.GetUser(userID)
	if err != nil {
		return models.UserProfile{}, notFound(err, "User not found")
	}

	return models.UserProfile{
		UserID:   user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		Location: user.Location,
		Rating:   user.Rating,
		Roles:    m.profileRoles(userID),
	}, nil
}

// User возвращает публичную часть профиля.
func (m *Marketplace) User(ctx context.Context, id int) (PublicUser, error) {
	user, err := m.store.GetUser(id)
	if err != nil {
		return PublicUser{}, notFound(err, "User not found")
	}
	return PublicUser{UserID: user.ID, Name: user.Name, Rating: user.Rating, Roles: m.profileRoles(id)}, nil
}

func (m *Marketplace) profileRoles(userID int) []models.ProviderRole {
	roles := m.store.ListRoles(userID)
	out := make([]models.ProviderRole, 0, len(roles))
	for _, r := range roles {
		out = append(out, models.ProviderRole{
			Role:         r.Role,
			Location:     r.Location,
			Description:  r.Description,
			PricePerHour: r.PricePerHour,
		})
	}
	return out
}

// UpdateUser меняет непустые поля формы.
func (m *Marketplace) UpdateUser(ctx context.Context, userID int, form models.UserForm) error {
	form = trimForm(form)
	if form == (models.UserForm{}) {
		return fail(http.StatusBadRequest, "No valid fields to update")
	}
	if form.Username != "" && m.store.UsernameTaken(form.Username, userID) {
		return fail(http.StatusConflict, "Username already exists")
	}
	if form.Email != "" && m.store.EmailTaken(form.Email, userID) {
		return fail(http.StatusConflict, "Email already exists")
	}

	var hash []byte
	if form.Password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost); err != nil {
			return err
		}
	}

	err := m.store.UpdateUser(userID, func(u *repository.UserRecord) {
		setIfNotEmpty(&u.Name, form.Name)
		setIfNotEmpty(&u.Username, form.Username)
		setIfNotEmpty(&u.Email, form.Email)
		setIfNotEmpty(&u.Location, form.Location)
		if hash != nil {
			u.PasswordHash = string(hash)
		}
	})
	return notFound(err, "User not found")
}

// DeleteUser удаляет пользователя и все связанные данные.
func (m *Marketplace) DeleteUser(ctx context.Context, userID int) error {
	if err := m.store.DeleteUser(userID); err != nil {
		return notFound(err, "User not found")
	}
	logger.Log.WithField("user_id", userID).Info("стенд: пользователь удалён")
	return nil
}

// Picture возвращает ссылку на аватар или пустую строку.
func (m *Marketplace) Picture(ctx context.Context, userID int) string {
	user, err := m.store.GetUser(userID)
	if err != nil {
		return ""
	}
	return user.PictureURL
}

// SetPicture сохраняет файл аватара и возвращает его адрес.
func (m *Marketplace) SetPicture(ctx context.Context, userID int, name string, media repository.Media) (string, error) {
	url := m.mediaBaseURL + "/media/" + name
	err := m.store.UpdateUser(userID, func(u *repository.UserRecord) {
		u.PictureURL = url
	})
	if err != nil {
		return "", notFound(err, "User not found")
	}
	m.store.PutMedia(name, media)
	return url, nil
}

func trimForm(f models.UserForm) models.UserForm {
	return models.UserForm{
		Name:     strings.TrimSpace(f.Name),
		Username: strings.TrimSpace(f.Username),
		Email:    strings.TrimSpace(f.Email),
		Location: strings.TrimSpace(f.Location),
		Password: f.Password,
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
