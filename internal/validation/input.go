package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

// Сообщения показываются пользователю как есть.
const (
	MsgInvalidEmail    = "Invalid email format"
	MsgInvalidUsername = "Username must contain only lowercase letters and digits (no spaces or special characters)"
	MsgInvalidLocation = "Location must be in the format 'City, Country' or 'Street, No, City, Country'"
	MsgInvalidPrice    = "Invalid price value."
	MsgInvalidBudget   = "Invalid budget value"
	MsgInvalidDistance = "Invalid distance value"
)

var (
	emailRegex    = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)
	usernameRegex = regexp.MustCompile(`^[a-z0-9]+$`)
)

// ValidateEmail проверяет формат local@domain.tld.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return apperror.Validation(MsgInvalidEmail)
	}
	return nil
}

// ValidateUsername допускает только строчные латинские буквы и цифры.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(strings.TrimSpace(username)) {
		return apperror.Validation(MsgInvalidUsername)
	}
	return nil
}

// ValidateLocation требует минимум два сегмента через запятую:
// два последних (город и страна) не должны быть пустыми.
func ValidateLocation(location string) error {
	parts := strings.Split(location, ",")
	if len(parts) < 2 {
		return apperror.Validation(MsgInvalidLocation)
	}
	city := strings.TrimSpace(parts[len(parts)-2])
	country := strings.TrimSpace(parts[len(parts)-1])
	if city == "" || country == "" {
		return apperror.Validation(MsgInvalidLocation)
	}
	return nil
}

// ValidateRequired проверяет, что значение не пустое, и возвращает message иначе.
func ValidateRequired(value, message string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.Validation(message)
	}
	return nil
}

// ParseOptionalInt разбирает необязательное целое поле фильтра.
// Пустая строка означает «не задано».
func ParseOptionalInt(raw, message string) (int, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false, apperror.Validation(message)
	}
	return v, true, nil
}

// ParsePrice разбирает цену с точкой или запятой в качестве разделителя.
// NaN и бесконечность ценой не считаются.
func ParsePrice(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperror.Validation(MsgInvalidPrice)
	}
	return v, nil
}

// First возвращает первую ошибку из списка проверок.
func First(checks ...func() error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Required оборачивает ValidateRequired для использования в First.
func Required(value, message string) func() error {
	return func() error { return ValidateRequired(value, message) }
}

// Check превращает готовую функцию проверки в шаг для First.
func Check(fn func(string) error, value string) func() error {
	return func() error { return fn(value) }
}
