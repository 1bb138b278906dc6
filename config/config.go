package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds server configuration.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// StoreDriver selects the collection backend: memory, sqlite, postgres or redis.
	StoreDriver string `yaml:"store_driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`

	// SessionStore is memory or redis.
	SessionStore string        `yaml:"session_store"`
	JWTSecret    string        `yaml:"jwt_secret"`
	SessionTTL   time.Duration `yaml:"session_ttl"`

	DefaultLanguage string `yaml:"default_language"`

	LoginRatePerSec int `yaml:"login_rate_per_sec"`
	LoginBurst      int `yaml:"login_burst"`

	SeedDemoUser bool `yaml:"seed_demo_user"`
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		LogLevel:        "info",
		StoreDriver:     "sqlite",
		SQLitePath:      "spicymarket.db",
		DatabaseURL:     "postgres://spicy@localhost:5432/spicymarket?sslmode=disable",
		RedisURL:        "redis://localhost:6379/0",
		SessionStore:    "memory",
		JWTSecret:       "dev-secret-change-me",
		SessionTTL:      24 * time.Hour,
		DefaultLanguage: "en",
		LoginRatePerSec: 1,
		LoginBurst:      5,
		SeedDemoUser:    true,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// SPICY_CONFIG if set, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("SPICY_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.StoreDriver, "STORE_DRIVER")
	setString(&c.SQLitePath, "SQLITE_PATH")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.SessionStore, "SESSION_STORE")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.DefaultLanguage, "DEFAULT_LANGUAGE")

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	if err := setInt(&c.LoginRatePerSec, "LOGIN_RATE_PER_SEC"); err != nil {
		return err
	}
	if err := setInt(&c.LoginBurst, "LOGIN_BURST"); err != nil {
		return err
	}
	if v := os.Getenv("SEED_DEMO_USER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEED_DEMO_USER: %w", err)
		}
		c.SeedDemoUser = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	*dst = n
	return nil
}
