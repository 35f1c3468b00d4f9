package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

// maxResponseSize ограничивает чтение тела ответа.
const maxResponseSize = 4 << 20

// TokenSource отдаёт токен для заголовка Authorization.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client: типизированный клиент REST API QuickFix.
// Каждый вызов блокирующий и отменяется через ctx; повторов нет.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// call описывает один запрос к API.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool

	// готовое тело (multipart) вместо JSON
	raw         io.Reader
	contentType string
}

func (c *Client) do(ctx context.Context, req call, out any) error {
	endpoint := c.baseURL + strings.TrimPrefix(req.path, "/")
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	body := req.raw
	contentType := req.contentType
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось сериализовать запрос")
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return apperror.Transport(err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.auth {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	entry := logger.Log.WithFields(logrus.Fields{
		"method":     req.method,
		"path":       req.path,
		"request_id": requestID,
	})

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		entry.WithError(err).Debug("api: ошибка транспорта")
		return apperror.Transport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		entry.WithError(err).Debug("api: не удалось прочитать ответ")
		return apperror.Transport(err)
	}

	entry = entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		appErr := extractError(resp.StatusCode, data)
		entry.WithField("message", appErr.Message).Debug("api: ошибка сервера")
		return appErr
	}

	entry.Debug("api: запрос выполнен")

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperror.Unexpected(resp.StatusCode, fmt.Errorf("api: некорректный ответ %s %s: %w", req.method, req.path, err))
	}
	return nil
}

// extractError достаёт поле message из тела ответа с ошибкой.
// Если тело не JSON или поля нет, возвращается стандартное сообщение.
func extractError(status int, body []byte) *apperror.AppError {
	var payload struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apperror.Unexpected(status, err)
	}
	if payload.Message == nil || strings.TrimSpace(*payload.Message) == "" {
		return apperror.Unexpected(status, nil)
	}
	return apperror.Application(status, *payload.Message)
}
