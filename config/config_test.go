package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spicymarket/config"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"SPICY_CONFIG", "PORT", "LOG_LEVEL", "STORE_DRIVER", "SQLITE_PATH",
		"DATABASE_URL", "REDIS_URL", "SESSION_STORE", "JWT_SECRET", "SESSION_TTL",
		"DEFAULT_LANGUAGE", "LOGIN_RATE_PER_SEC", "LOGIN_BURST", "SEED_DEMO_USER",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.SeedDemoUser)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("LOGIN_BURST", "10")
	t.Setenv("SEED_DEMO_USER", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis", cfg.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.LoginBurst)
	assert.False(t, cfg.SeedDemoUser)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "spicy.yaml")
	content := "port: \"7000\"\nstore_driver: postgres\ndefault_language: fr\nsession_ttl: 2h\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("SPICY_CONFIG", path)
	t.Setenv("PORT", "7001")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "7001", cfg.Port, "env wins over file")
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "fr", cfg.DefaultLanguage)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGIN_RATE_PER_SEC", "zero")

	_, err := config.Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("SPICY_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = config.Load()
	assert.Error(t, err)
}
