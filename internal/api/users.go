package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"

	"github.com/h2non/filetype"

	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

// MsgNotAnImage: ошибка выбора файла, который не является изображением.
const MsgNotAnImage = "Selected file is not an image"

// UploadResult: ответ на загрузку аватара.
type UploadResult struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Login обменивает логин и пароль на токен.
func (c *Client) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/login",
		body:   models.LoginRequest{Username: username, Password: password},
	}, &out)
	return out, err
}

// GetMe возвращает профиль текущего пользователя.
func (c *Client) GetMe(ctx context.Context) (models.UserProfile, error) {
	var out models.UserProfile
	err := c.do(ctx, call{method: http.MethodGet, path: "/user/me", auth: true}, &out)
	return out, err
}

// GetUser возвращает профиль любого пользователя.
func (c *Client) GetUser(ctx context.Context, id int) (models.UserProfile, error) {
	var out models.UserProfile
	err := c.do(ctx, call{method: http.MethodGet, path: "/user/" + strconv.Itoa(id), auth: true}, &out)
	return out, err
}

// CreateUser регистрирует аккаунт; токен не нужен.
func (c *Client) CreateUser(ctx context.Context, form models.UserForm) (models.APIResponse, error) {
	var out models.APIResponse
	err := c.do(ctx, call{method: http.MethodPost, path: "/user", body: form}, &out)
	return out, err
}

// UpdateUser частично обновляет профиль.
func (c *Client) UpdateUser(ctx context.Context, form models.UserForm) (models.APIResponse, error) {
	var out models.APIResponse
	err := c.do(ctx, call{method: http.MethodPatch, path: "/user", body: form, auth: true}, &out)
	return out, err
}

// DeleteUser удаляет аккаунт текущего пользователя.
func (c *Client) DeleteUser(ctx context.Context) (models.APIResponse, error) {
	var out models.APIResponse
	err := c.do(ctx, call{method: http.MethodDelete, path: "/user", auth: true}, &out)
	return out, err
}

// GetProfilePicture возвращает ссылку на аватар; токен не нужен.
func (c *Client) GetProfilePicture(ctx context.Context, userID int) (models.ProfilePicture, error) {
	var out models.ProfilePicture
	err := c.do(ctx, call{method: http.MethodGet, path: "/profilePicture/" + strconv.Itoa(userID)}, &out)
	return out, err
}

// UploadProfilePicture загружает аватар. Тип файла определяется по содержимому,
// не-изображения отклоняются без обращения к серверу.
func (c *Client) UploadProfilePicture(ctx context.Context, filename string, data []byte) (UploadResult, error) {
	var out UploadResult

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !filetype.IsImage(data) {
		return out, apperror.Validation(MsgNotAnImage)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	header.Set("Content-Type", kind.MIME.Value)
	part, err := mw.CreatePart(header)
	if err != nil {
		return out, apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось подготовить файл")
	}
	if _, err := part.Write(data); err != nil {
		return out, apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось подготовить файл")
	}
	if err := mw.Close(); err != nil {
		return out, apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось подготовить файл")
	}

	err = c.do(ctx, call{
		method:      http.MethodPut,
		path:        "/profilePicture",
		raw:         &buf,
		contentType: mw.FormDataContentType(),
		auth:        true,
	}, &out)
	return out, err
}
