package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultAPIURL = "https://quickfix-api.vercel.app/"

// Config хранит параметры клиента и локального стенда.
type Config struct {
	Env         string
	APIURL      string
	HTTPTimeout time.Duration
	LogLevel    string
	LogFile     string

	PrefsPath   string
	PrefsDSN    string
	PrefsSecret string
	Profile     string

	Stub StubConfig
}

// StubConfig: параметры локального сервера для разработки.
type StubConfig struct {
	HTTPPort        string
	JWTSecret       string
	TokenTTL        time.Duration
	RateLimitLimit  int64
	RateLimitPeriod time.Duration
	Seed            bool
}

// Load читает .env и переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("config: не удалось прочитать .env: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:         v.GetString("APP_ENV"),
		APIURL:      normalizeURL(v.GetString("QUICKFIX_API_URL")),
		HTTPTimeout: v.GetDuration("QUICKFIX_HTTP_TIMEOUT"),
		LogLevel:    v.GetString("QUICKFIX_LOG_LEVEL"),
		LogFile:     expandHome(v.GetString("QUICKFIX_LOG_FILE")),
		PrefsPath:   expandHome(v.GetString("QUICKFIX_PREFS_PATH")),
		PrefsDSN:    v.GetString("QUICKFIX_PREFS_DSN"),
		PrefsSecret: v.GetString("QUICKFIX_PREFS_SECRET"),
		Profile:     v.GetString("QUICKFIX_PROFILE"),
		Stub: StubConfig{
			HTTPPort:        v.GetString("STUB_HTTP_PORT"),
			JWTSecret:       v.GetString("STUB_JWT_SECRET"),
			TokenTTL:        v.GetDuration("STUB_TOKEN_TTL"),
			RateLimitLimit:  v.GetInt64("STUB_RATE_LIMIT_LIMIT"),
			RateLimitPeriod: v.GetDuration("STUB_RATE_LIMIT_PERIOD"),
			Seed:            v.GetBool("STUB_SEED"),
		},
	}

	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("config: QUICKFIX_HTTP_TIMEOUT должен быть положительным")
	}
	if cfg.Stub.RateLimitLimit <= 0 || cfg.Stub.RateLimitPeriod <= 0 {
		return nil, fmt.Errorf("config: параметры rate limit должны быть положительными")
	}

	if cfg.Stub.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("config: STUB_JWT_SECRET обязателен в production")
		}
		cfg.Stub.JWTSecret = "quickfix-stub-development-secret"
		log.Printf("config: WARNING - используется дефолтный STUB_JWT_SECRET")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("QUICKFIX_API_URL", DefaultAPIURL)
	v.SetDefault("QUICKFIX_HTTP_TIMEOUT", "30s")
	v.SetDefault("QUICKFIX_LOG_LEVEL", "info")
	v.SetDefault("QUICKFIX_LOG_FILE", "~/.quickfix/quickfix.log")
	v.SetDefault("QUICKFIX_PREFS_PATH", "~/.quickfix/prefs.env")
	v.SetDefault("QUICKFIX_PROFILE", "default")
	v.SetDefault("STUB_HTTP_PORT", "8080")
	v.SetDefault("STUB_TOKEN_TTL", "24h")
	v.SetDefault("STUB_RATE_LIMIT_LIMIT", 120)
	v.SetDefault("STUB_RATE_LIMIT_PERIOD", "1m")
	v.SetDefault("STUB_SEED", true)
}

// normalizeURL гарантирует завершающий слэш у базового адреса.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultAPIURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw
}

// expandHome раскрывает ~ в начале пути.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return strings.TrimPrefix(path, "~/")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
