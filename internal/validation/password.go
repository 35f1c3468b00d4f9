package validation

import (
	"strings"

	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

const (
	MsgPasswordsRequired = "Both password fields are required"
	MsgPasswordsMismatch = "Passwords must be the same"
)

// ValidatePasswords проверяет пароль и его подтверждение.
// В режиме редактирования два пустых поля означают «пароль не меняется».
func ValidatePasswords(password, confirm string, editMode bool) error {
	blank := strings.TrimSpace(password) == "" && strings.TrimSpace(confirm) == ""
	if editMode && blank {
		return nil
	}
	if strings.TrimSpace(password) == "" || strings.TrimSpace(confirm) == "" {
		return apperror.Validation(MsgPasswordsRequired)
	}
	if password != confirm {
		return apperror.Validation(MsgPasswordsMismatch)
	}
	return nil
}
