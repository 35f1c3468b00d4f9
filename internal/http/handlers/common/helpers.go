package common

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/quickfix/internal/http/middleware"
)

// ErrUserNotFound возвращается, если в контексте нет пользователя.
var ErrUserNotFound = errors.New("пользователь не найден в контексте")

// CurrentUserID извлекает ID пользователя, проставленный AuthMiddleware.
func CurrentUserID(c *gin.Context) (int, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, ErrUserNotFound
	}

	userID, ok := raw.(int)
	if !ok {
		return 0, ErrUserNotFound
	}

	return userID, nil
}

// IDParam читает числовой параметр пути. Формат проверяет middleware.IDValidator.
func IDParam(c *gin.Context, name string) int {
	id, _ := strconv.Atoi(c.Param(name))
	return id
}

// QueryInt читает целый параметр запроса; при отсутствии или ошибке возвращает fallback.
func QueryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// QueryFloat читает дробный параметр запроса; при отсутствии или ошибке возвращает fallback.
func QueryFloat(c *gin.Context, key string, fallback float64) float64 {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// QueryOptionalFloat читает дробный параметр или возвращает nil, если его нет.
func QueryOptionalFloat(c *gin.Context, key string) *float64 {
	v, ok := c.GetQuery(key)
	if !ok || v == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// Fail передаёт ошибку в middleware.ErrorHandler и прерывает цепочку.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// RespondMessage отправляет ответ вида {"message": ...}.
func RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
