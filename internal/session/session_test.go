package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/prefs"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "5",
		"exp": exp.Unix(),
	}).SignedString([]byte("whatever"))
	require.NoError(t, err)
	return token
}

func TestLoad_Empty(t *testing.T) {
	s, err := Load(context.Background(), prefs.NewMemoryStore())
	require.NoError(t, err)

	assert.Equal(t, NoUser, s.UserID())
	assert.Equal(t, ThemeLight, s.Theme())
	assert.False(t, s.LoggedIn(time.Now()))
}

func TestSaveLogin_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()
	now := time.Now()

	s, err := Load(ctx, store)
	require.NoError(t, err)
	token := signed(t, now.Add(time.Hour))
	require.NoError(t, s.SaveLogin(ctx, token, 5))
	require.NoError(t, s.SetTheme(ctx, ThemeDark))

	reloaded, err := Load(ctx, store)
	require.NoError(t, err)
	got, err := reloaded.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, got)
	assert.Equal(t, 5, reloaded.UserID())
	assert.Equal(t, ThemeDark, reloaded.Theme())
	assert.True(t, reloaded.LoggedIn(now))
	assert.False(t, reloaded.LoggedIn(now.Add(2*time.Hour)))
}

func TestLoggedIn_OpaqueToken(t *testing.T) {
	ctx := context.Background()
	s, err := Load(ctx, prefs.NewMemoryStore())
	require.NoError(t, err)
	require.NoError(t, s.SaveLogin(ctx, "opaque-token", 3))
	assert.True(t, s.LoggedIn(time.Now()))
}

func TestClear_RemovesEverything(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()
	s, err := Load(ctx, store)
	require.NoError(t, err)

	require.NoError(t, s.SaveLogin(ctx, "t", 9))
	require.NoError(t, prefs.SaveFilter(ctx, store, valueobject.ViewRequests, valueobject.Filter{Type: "Cleaning"}))

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, store.Snapshot())
	assert.Equal(t, NoUser, s.UserID())
}

func TestToggleTheme(t *testing.T) {
	ctx := context.Background()
	s, err := Load(ctx, prefs.NewMemoryStore())
	require.NoError(t, err)

	theme, err := s.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	theme, err = s.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)
}
