package account

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/quickfix/internal/logger"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
	"github.com/ignatzorin/quickfix/internal/validation"
)

const (
	MsgRoleAdded   = "Role added successfully."
	MsgRoleUpdated = "Role updated successfully."
	MsgRoleRemoved = "Role removed."
)

// EditorMode: добавить новую роль или изменить существующую.
type EditorMode int

const (
	ModeAdd EditorMode = iota + 1
	ModeEdit
)

// RoleEditor: состояние редактора роли.
type RoleEditor struct {
	Mode  EditorMode
	Input validation.RoleInput
}

// RolesUseCase ведёт роли исполнителя текущего пользователя.
type RolesUseCase struct {
	gateway Gateway
}

func NewRolesUseCase(gateway Gateway) *RolesUseCase {
	return &RolesUseCase{gateway: gateway}
}

func (uc *RolesUseCase) List(ctx context.Context) ([]models.ProviderListing, error) {
	return uc.gateway.ListMyRoles(ctx)
}

// Open готовит редактор: если у пользователя уже есть роль с таким именем,
// поля заполняются и редактор работает в режиме изменения.
func (uc *RolesUseCase) Open(ctx context.Context, roleName string) (RoleEditor, error) {
	profile, err := uc.gateway.GetMe(ctx)
	if err != nil {
		return RoleEditor{}, err
	}
	return editorFor(profile, roleName), nil
}

// Save проверяет форму и добавляет роль или меняет существующую с тем же именем.
func (uc *RolesUseCase) Save(ctx context.Context, in validation.RoleInput) (string, error) {
	price, err := validation.ValidateRole(in)
	if err != nil {
		return "", err
	}
	profile, err := uc.gateway.GetMe(ctx)
	if err != nil {
		return "", err
	}

	name := strings.TrimSpace(in.Role)
	location := strings.TrimSpace(in.Location)
	description := strings.TrimSpace(in.Description)

	if existing, ok := profile.RoleNamed(name); ok {
		_, err := uc.gateway.UpdateRole(ctx, models.ProviderRoleUpdate{
			Role:         existing.Role,
			Location:     location,
			Description:  description,
			PricePerHour: price,
		})
		if err != nil {
			return "", err
		}
		return MsgRoleUpdated, nil
	}

	_, err = uc.gateway.AddRole(ctx, models.ProviderRole{
		Role:         name,
		Location:     location,
		Description:  description,
		PricePerHour: price,
	})
	if err != nil {
		return "", err
	}
	logger.Log.WithFields(logrus.Fields{"role": name}).Info("account: роль добавлена")
	return MsgRoleAdded, nil
}

// Remove удаляет роль по имени.
func (uc *RolesUseCase) Remove(ctx context.Context, roleName string) (string, error) {
	roleName = strings.TrimSpace(roleName)
	if roleName == "" {
		return "", apperror.Validation("All fields are required.")
	}
	if _, err := uc.gateway.RemoveRole(ctx, roleName); err != nil {
		return "", err
	}
	return MsgRoleRemoved, nil
}

func editorFor(profile models.UserProfile, roleName string) RoleEditor {
	role, ok := profile.RoleNamed(roleName)
	if !ok {
		return RoleEditor{Mode: ModeAdd, Input: validation.RoleInput{Role: strings.TrimSpace(roleName)}}
	}
	return RoleEditor{
		Mode: ModeEdit,
		Input: validation.RoleInput{
			Role:        role.Role,
			Location:    role.Location,
			Description: role.Description,
			Price:       strconv.FormatFloat(role.PricePerHour, 'f', -1, 64),
		},
	}
}
