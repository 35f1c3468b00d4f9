package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

// ErrorHandler превращает ошибки из c.Errors в ответ {"message": ...}.
// Ошибки *apperror.AppError отдаются со своим статусом и текстом, остальные маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		fields := logrus.Fields{
			"error":      err.Error(),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetHeader("X-Request-ID"),
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus >= 400 && appErr.Message != "" {
			logger.Log.WithFields(fields).Debug("Request rejected")
			c.JSON(appErr.HTTPStatus, gin.H{"message": appErr.Message})
			return
		}

		logger.Log.WithFields(fields).Error("Request error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
