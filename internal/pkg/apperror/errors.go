package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeTransport          ErrorCode = "TRANSPORT_ERROR"
	ErrCodeApplication        ErrorCode = "APPLICATION_ERROR"
	ErrCodeUnexpected         ErrorCode = "UNEXPECTED_RESPONSE"
	ErrCodeOptionsNotAttached ErrorCode = "OPTIONS_NOT_ATTACHED"
	ErrCodeNotAllowed         ErrorCode = "NOT_ALLOWED"
	ErrCodeStorage            ErrorCode = "STORAGE_ERROR"
)

// FallbackMessage показывается, когда сервер не вернул читаемое сообщение.
const FallbackMessage = "Unexpected error."

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation создаёт ошибку локальной проверки ввода; сетевой вызов не выполняется.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Transport оборачивает ошибку сети: сообщение берётся из исходной ошибки.
func Transport(err error) *AppError {
	return Wrap(err, ErrCodeTransport, err.Error())
}

// Application описывает ответ сервера с кодом не 2xx и читаемым полем message.
func Application(status int, message string) *AppError {
	return &AppError{
		Code:       ErrCodeApplication,
		Message:    message,
		HTTPStatus: status,
	}
}

// Unexpected описывает ответ, который не удалось разобрать.
func Unexpected(status int, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeUnexpected,
		Message:    FallbackMessage,
		HTTPStatus: status,
		Cause:      cause,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeNotAllowed:
		return http.StatusForbidden
	case ErrCodeTransport:
		return 0
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage возвращает текст для короткого уведомления на экране.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Message == "" {
			return FallbackMessage
		}
		return appErr.Message
	}
	return err.Error()
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsTransport(err error) bool {
	return hasCode(err, ErrCodeTransport)
}

func IsApplication(err error) bool {
	return hasCode(err, ErrCodeApplication) || hasCode(err, ErrCodeUnexpected)
}

func IsNotAllowed(err error) bool {
	return hasCode(err, ErrCodeNotAllowed)
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

var (
	ErrOptionsNotAttached = New(ErrCodeOptionsNotAttached, "список типов услуг ещё не загружен")
	ErrNotOwner           = New(ErrCodeNotAllowed, "действие доступно только автору заявки")
	ErrOwnerCannotDecide  = New(ErrCodeNotAllowed, "автор заявки не может принять её")
	ErrNotLoaded          = New(ErrCodeNotAllowed, "данные ещё не загружены")
	ErrNotLoggedIn        = New(ErrCodeNotAllowed, "требуется вход в систему")
)
