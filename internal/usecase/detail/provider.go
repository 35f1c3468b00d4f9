package detail

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
)

const MsgInvalidProvider = "Invalid service provider."

// ProviderGateway: вызов карточки исполнителя.
type ProviderGateway interface {
	GetProviderDetails(ctx context.Context, id int, role string) (models.ProviderListing, error)
}

// HireState: локальное состояние кнопки найма и подсказка для пользователя.
type HireState struct {
	Hired   bool
	Message string
	// OpenRequestForm предлагает перейти к созданию заявки после нажатия «Hire».
	OpenRequestForm bool
}

// ProviderUseCase ведёт карточку роли исполнителя.
// Кнопка найма пока не связана с сервером: у бэкенда нет такого вызова.
type ProviderUseCase struct {
	gateway ProviderGateway
	id      int
	role    string

	mu       sync.Mutex
	provider models.ProviderListing
	loaded   bool
	hired    bool
}

func NewProviderDetail(gateway ProviderGateway, providerID int, role string) *ProviderUseCase {
	return &ProviderUseCase{gateway: gateway, id: providerID, role: strings.TrimSpace(role)}
}

func (uc *ProviderUseCase) Load(ctx context.Context) (models.ProviderListing, error) {
	if uc.id <= 0 || uc.role == "" {
		return models.ProviderListing{}, apperror.Validation(MsgInvalidProvider)
	}
	p, err := uc.gateway.GetProviderDetails(ctx, uc.id, uc.role)
	if err != nil {
		return models.ProviderListing{}, err
	}

	uc.mu.Lock()
	uc.provider, uc.loaded = p, true
	uc.mu.Unlock()
	return p, nil
}

// ToggleHire переключает кнопку найма. Состояние живёт только на экране.
func (uc *ProviderUseCase) ToggleHire() (HireState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if !uc.loaded {
		return HireState{}, apperror.ErrNotLoaded
	}

	uc.hired = !uc.hired
	logger.Log.WithFields(logrus.Fields{
		"provider_id": uc.id,
		"role":        uc.role,
		"hired":       uc.hired,
	}).Debug("detail: переключение найма без обращения к серверу")

	if uc.hired {
		return HireState{
			Hired:           true,
			Message:         "Requested to hire " + uc.provider.Name,
			OpenRequestForm: true,
		}, nil
	}
	return HireState{Message: "Cancelled request for " + uc.provider.Name}, nil
}
