package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("QUICKFIX_API_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "8080", cfg.Stub.HTTPPort)
	assert.Equal(t, int64(120), cfg.Stub.RateLimitLimit)
	assert.NotEmpty(t, cfg.Stub.JWTSecret)
	assert.Equal(t, "prefs.env", filepath.Base(cfg.PrefsPath))
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	env := "QUICKFIX_API_URL=http://localhost:9090\nQUICKFIX_HTTP_TIMEOUT=5s\nSTUB_RATE_LIMIT_LIMIT=3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("QUICKFIX_API_URL")
		os.Unsetenv("QUICKFIX_HTTP_TIMEOUT")
		os.Unsetenv("STUB_RATE_LIMIT_LIMIT")
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9090/", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, int64(3), cfg.Stub.RateLimitLimit)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("STUB_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/tmp/x", expandHome("/tmp/x"))
	home, err := os.UserHomeDir()
	if err == nil {
		assert.Equal(t, filepath.Join(home, ".quickfix"), expandHome("~/.quickfix"))
	}
}
