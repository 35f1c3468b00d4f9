package account_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/quickfix/internal/api"
	"github.com/ignatzorin/quickfix/internal/models"
	"github.com/ignatzorin/quickfix/internal/pkg/apperror"
	"github.com/ignatzorin/quickfix/internal/prefs"
	"github.com/ignatzorin/quickfix/internal/session"
	"github.com/ignatzorin/quickfix/internal/usecase/account"
	"github.com/ignatzorin/quickfix/internal/validation"
)

type mockGateway struct {
	loginErr error
	profile  models.UserProfile

	created  []models.UserForm
	updated  []models.UserForm
	deleted  int
	uploads  []string
	added    []models.ProviderRole
	changed  []models.ProviderRoleUpdate
	removed  []string
	pictures map[int]string
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		profile: models.UserProfile{UserID: 2, Name: "Bruno", Roles: []models.ProviderRole{
			{Role: "Plumbing", Location: "Porto, Portugal", Description: "Leaks", PricePerHour: 25},
		}},
		pictures: map[int]string{2: "http://localhost:8080/media/a.png"},
	}
}

func (m *mockGateway) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	if m.loginErr != nil {
		return models.LoginResponse{}, m.loginErr
	}
	return models.LoginResponse{Token: "token-" + username, UserID: 2}, nil
}

func (m *mockGateway) GetMe(ctx context.Context) (models.UserProfile, error) {
	return m.profile, nil
}

func (m *mockGateway) CreateUser(ctx context.Context, form models.UserForm) (models.APIResponse, error) {
	m.created = append(m.created, form)
	return models.APIResponse{Message: "User registered"}, nil
}

func (m *mockGateway) UpdateUser(ctx context.Context, form models.UserForm) (models.APIResponse, error) {
	m.updated = append(m.updated, form)
	return models.APIResponse{Message: "User updated"}, nil
}

func (m *mockGateway) DeleteUser(ctx context.Context) (models.APIResponse, error) {
	m.deleted++
	return models.APIResponse{Message: "User and all associated data deleted"}, nil
}

func (m *mockGateway) GetProfilePicture(ctx context.Context, userID int) (models.ProfilePicture, error) {
	return models.ProfilePicture{URL: m.pictures[userID]}, nil
}

func (m *mockGateway) UploadProfilePicture(ctx context.Context, filename string, data []byte) (api.UploadResult, error) {
	m.uploads = append(m.uploads, filename)
	return api.UploadResult{Message: "Profile picture updated", URL: "http://localhost:8080/media/b.png"}, nil
}

func (m *mockGateway) ListMyRoles(ctx context.Context) ([]models.ProviderListing, error) {
	out := make([]models.ProviderListing, 0, len(m.profile.Roles))
	for _, r := range m.profile.Roles {
		out = append(out, models.ProviderListing{ID: m.profile.UserID, Role: r.Role})
	}
	return out, nil
}

func (m *mockGateway) AddRole(ctx context.Context, role models.ProviderRole) (models.APIResponse, error) {
	m.added = append(m.added, role)
	return models.APIResponse{Message: "Role added"}, nil
}

func (m *mockGateway) UpdateRole(ctx context.Context, role models.ProviderRoleUpdate) (models.APIResponse, error) {
	m.changed = append(m.changed, role)
	return models.APIResponse{Message: "Role info updated"}, nil
}

func (m *mockGateway) RemoveRole(ctx context.Context, role string) (models.APIResponse, error) {
	m.removed = append(m.removed, role)
	return models.APIResponse{Message: "Provider role removed"}, nil
}

func newSession(t *testing.T) (*session.Service, *prefs.MemoryStore) {
	t.Helper()
	store := prefs.NewMemoryStore()
	s, err := session.Load(context.Background(), store)
	require.NoError(t, err)
	return s, store
}

func TestAuth_LoginStoresSession(t *testing.T) {
	ctx := context.Background()
	sess, store := newSession(t)
	uc := account.NewAuthUseCase(newMockGateway(), sess)
	require.False(t, uc.Resume())

	id, err := uc.Login(ctx, " bruno ", "quickfix123")
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	assert.Equal(t, 2, sess.UserID())
	assert.Equal(t, "token-bruno", store.Snapshot()[prefs.KeyAuthToken])
	assert.True(t, uc.Resume())

	require.NoError(t, uc.Logout(ctx))
	assert.Equal(t, session.NoUser, sess.UserID())
	assert.Empty(t, store.Snapshot())
}

func TestAuth_LoginFailureIsInvalidCredentials(t *testing.T) {
	sess, store := newSession(t)
	gw := newMockGateway()
	gw.loginErr = apperror.Application(401, "Invalid credentials")
	uc := account.NewAuthUseCase(gw, sess)

	_, err := uc.Login(context.Background(), "bruno", "wrong")
	assert.Equal(t, account.MsgInvalidCredentials, apperror.UserMessage(err))
	assert.Empty(t, store.Snapshot())

	_, err = uc.Login(context.Background(), "", "x")
	assert.Equal(t, account.MsgUsernameRequired, apperror.UserMessage(err))
	_, err = uc.Login(context.Background(), "bruno", " ")
	assert.Equal(t, account.MsgPasswordRequired, apperror.UserMessage(err))
}

func TestProfile_RegisterValidatesFirst(t *testing.T) {
	sess, _ := newSession(t)
	gw := newMockGateway()
	uc := account.NewProfileUseCase(gw, sess)

	in := validation.UserInput{
		Name: "Ana", Username: "Ana", Email: "ana@mail.pt",
		Location: "Lisbon, Portugal", Password: "pw", Confirm: "pw",
	}
	_, err := uc.Register(context.Background(), in)
	assert.Equal(t, validation.MsgInvalidUsername, apperror.UserMessage(err))
	assert.Empty(t, gw.created)

	in.Username = "ana"
	msg, err := uc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, account.MsgSignedUp, msg)
	require.Len(t, gw.created, 1)
	assert.Equal(t, "pw", gw.created[0].Password)
}

func TestProfile_UpdateOmitsBlankPassword(t *testing.T) {
	sess, _ := newSession(t)
	gw := newMockGateway()
	uc := account.NewProfileUseCase(gw, sess)

	_, err := uc.Update(context.Background(), validation.UserInput{
		Name: "Ana", Username: "ana", Email: "ana@mail.pt", Location: "Lisbon, Portugal",
	})
	require.NoError(t, err)
	require.Len(t, gw.updated, 1)
	assert.Empty(t, gw.updated[0].Password)

	_, err = uc.Update(context.Background(), validation.UserInput{
		Name: "Ana", Username: "ana", Email: "ana@mail.pt", Location: "Lisbon, Portugal", Password: "new",
	})
	assert.Equal(t, validation.MsgPasswordsRequired, apperror.UserMessage(err))
	assert.Len(t, gw.updated, 1)
}

func TestProfile_DeleteClearsSession(t *testing.T) {
	ctx := context.Background()
	sess, store := newSession(t)
	require.NoError(t, sess.SaveLogin(ctx, "token", 2))
	gw := newMockGateway()
	uc := account.NewProfileUseCase(gw, sess)

	msg, err := uc.Delete(ctx)
	require.NoError(t, err)
	assert.Equal(t, account.MsgAccountDeleted, msg)
	assert.Equal(t, 1, gw.deleted)
	assert.Empty(t, store.Snapshot())
	assert.Equal(t, session.NoUser, sess.UserID())
}

func TestProfile_PictureRequiresLogin(t *testing.T) {
	ctx := context.Background()
	sess, _ := newSession(t)
	uc := account.NewProfileUseCase(newMockGateway(), sess)

	_, err := uc.Picture(ctx)
	assert.ErrorIs(t, err, apperror.ErrNotLoggedIn)
	_, err = uc.Me(ctx)
	assert.ErrorIs(t, err, apperror.ErrNotLoggedIn)

	require.NoError(t, sess.SaveLogin(ctx, "token", 2))
	url, err := uc.Picture(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/a.png", url)
}

func TestProfile_UploadPicture(t *testing.T) {
	sess, _ := newSession(t)
	gw := newMockGateway()
	uc := account.NewProfileUseCase(gw, sess)

	_, err := uc.UploadPicture(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Equal(t, account.MsgImageUnreadable, apperror.UserMessage(err))
	assert.Empty(t, gw.uploads)

	path := filepath.Join(t.TempDir(), "me.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0o600))
	url, err := uc.UploadPicture(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/b.png", url)
	assert.Equal(t, []string{path}, gw.uploads)
}

func TestProfile_ToggleTheme(t *testing.T) {
	sess, store := newSession(t)
	uc := account.NewProfileUseCase(newMockGateway(), sess)

	theme, msg, err := uc.ToggleTheme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.ThemeDark, theme)
	assert.Equal(t, account.MsgSwitchedToDark, msg)
	assert.Equal(t, "2", store.Snapshot()[prefs.KeyThemeMode])

	theme, msg, err = uc.ToggleTheme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.ThemeLight, theme)
	assert.Equal(t, account.MsgSwitchedToLight, msg)
}

func TestRoles_EditorPicksAddOrEdit(t *testing.T) {
	uc := account.NewRolesUseCase(newMockGateway())

	editor, err := uc.Open(context.Background(), "plumbing")
	require.NoError(t, err)
	assert.Equal(t, account.ModeEdit, editor.Mode)
	assert.Equal(t, "Plumbing", editor.Input.Role)
	assert.Equal(t, "25", editor.Input.Price)

	editor, err = uc.Open(context.Background(), "Cleaning")
	require.NoError(t, err)
	assert.Equal(t, account.ModeAdd, editor.Mode)
	assert.Empty(t, editor.Input.Location)
}

func TestRoles_SaveUpdatesExistingName(t *testing.T) {
	gw := newMockGateway()
	uc := account.NewRolesUseCase(gw)

	msg, err := uc.Save(context.Background(), validation.RoleInput{
		Role: "PLUMBING", Location: "Braga, Portugal", Description: "Boilers", Price: "30",
	})
	require.NoError(t, err)
	assert.Equal(t, account.MsgRoleUpdated, msg)
	require.Len(t, gw.changed, 1)
	assert.Equal(t, "Plumbing", gw.changed[0].Role)
	assert.Equal(t, 30.0, gw.changed[0].PricePerHour)
	assert.Empty(t, gw.added)

	msg, err = uc.Save(context.Background(), validation.RoleInput{
		Role: "Cleaning", Location: "Porto, Portugal", Description: "Homes", Price: "12.5",
	})
	require.NoError(t, err)
	assert.Equal(t, account.MsgRoleAdded, msg)
	require.Len(t, gw.added, 1)
}

func TestRoles_SaveRejectsInvalidForm(t *testing.T) {
	gw := newMockGateway()
	uc := account.NewRolesUseCase(gw)

	_, err := uc.Save(context.Background(), validation.RoleInput{Role: "Cleaning", Location: "x", Description: "y", Price: "abc"})
	assert.Equal(t, validation.MsgInvalidPrice, apperror.UserMessage(err))
	assert.Empty(t, gw.added)
	assert.Empty(t, gw.changed)
}

func TestRoles_ListAndRemove(t *testing.T) {
	gw := newMockGateway()
	uc := account.NewRolesUseCase(gw)

	roles, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	msg, err := uc.Remove(context.Background(), "Plumbing")
	require.NoError(t, err)
	assert.Equal(t, account.MsgRoleRemoved, msg)
	assert.Equal(t, []string{"Plumbing"}, gw.removed)

	_, err = uc.Remove(context.Background(), " ")
	assert.True(t, apperror.IsValidation(err))
}
