package validation

import (
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

// UserInput: поля формы регистрации и редактирования профиля.
type UserInput struct {
	Name     string
	Username string
	Email    string
	Location string
	Password string
	Confirm  string
}

// ValidateUser проверяет форму профиля в том же порядке, что и экран:
// обязательные поля, пароль, затем форматы.
func ValidateUser(in UserInput, editMode bool) error {
	return First(
		Required(in.Name, "Name is required"),
		Required(in.Username, "Username is required"),
		Required(in.Email, "Email is required"),
		Required(in.Location, "Location is required"),
		func() error { return ValidatePasswords(in.Password, in.Confirm, editMode) },
		Check(ValidateUsername, in.Username),
		Check(ValidateEmail, in.Email),
		Check(ValidateLocation, in.Location),
	)
}

// RoleInput: поля формы роли исполнителя.
type RoleInput struct {
	Role        string
	Location    string
	Description string
	Price       string
}

// ValidateRole проверяет форму роли и возвращает разобранную ставку.
func ValidateRole(in RoleInput) (float64, error) {
	const msgAllRequired = "All fields are required."
	err := First(
		Required(in.Role, msgAllRequired),
		Required(in.Location, msgAllRequired),
		Required(in.Description, msgAllRequired),
		Required(in.Price, msgAllRequired),
	)
	if err != nil {
		return 0, err
	}
	price, err := ParsePrice(in.Price)
	if err != nil {
		return 0, err
	}
	if price < 0 {
		return 0, apperror.Validation(MsgInvalidPrice)
	}
	return price, nil
}
