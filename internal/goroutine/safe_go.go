package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/ignatzorin/quickfix/internal/logger"
)

// Logger интерфейс для логирования ошибок
type Logger interface {
	Errorf(format string, args ...interface{})
}

// PanicError: паника фоновой задачи, превращённая в ошибку.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создает новый обработчик
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(fn func()) {
	rh.SafeGoWithContext(context.Background(), func(context.Context) { fn() }, nil)
}

// SafeGoWithContext запускает горутину с контекстом. Если fn паникует, паника
// логируется со стеком и передаётся в onPanic (если он задан).
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context), onPanic func(error)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("Panic in goroutine: %v\nStack trace:\n%s", r, debug.Stack())
				if onPanic != nil {
					onPanic(&PanicError{Value: r})
				}
			}
		}()
		fn(ctx)
	}()
}

// processLogger пишет в текущий logger.Log: он переназначается в logger.Init.
type processLogger struct{}

func (processLogger) Errorf(format string, args ...interface{}) {
	logger.Log.Errorf(format, args...)
}

// DefaultRecoveryHandler - глобальный обработчик, пишущий в логгер процесса
var DefaultRecoveryHandler = NewRecoveryHandler(processLogger{})

// SafeGo - упрощенная функция для запуска безопасной горутины
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

// SafeGoWithContext - упрощенная функция для запуска безопасной горутины с контекстом
func SafeGoWithContext(ctx context.Context, fn func(context.Context), onPanic func(error)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn, onPanic)
}
