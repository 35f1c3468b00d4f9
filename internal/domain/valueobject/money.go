package valueobject

import (
	"fmt"

	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

// Money: сумма в евро.
type Money float64

// NewPrice проверяет цену заявки: она должна быть положительной.
func NewPrice(amount float64) (Money, error) {
	if amount <= 0 {
		return 0, apperror.Validation("Price must be a positive number.")
	}
	return Money(amount), nil
}

func (m Money) IsFree() bool {
	return m == 0
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f €", float64(m))
}

// PerHour форматирует почасовую ставку.
func (m Money) PerHour() string {
	return fmt.Sprintf("%.2f €/h", float64(m))
}
