// Package config loads the scribe server settings from flags, environment
// variables (prefixed SCRIBE_) and an optional config file.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. SCRIBE_REDIS_ADDR.
const EnvPrefix = "SCRIBE"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

type Config struct {
	Port          string        `mapstructure:"port"`
	Env           string        `mapstructure:"env"`
	LogLevel      string        `mapstructure:"log_level"`
	Store         string        `mapstructure:"store"`
	StoreDir      string        `mapstructure:"store_dir"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	EncryptionKey string        `mapstructure:"encryption_key"`
	PIIMask       bool          `mapstructure:"pii_mask"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTIssuer     string        `mapstructure:"jwt_issuer"`
	CatalogDir    string        `mapstructure:"catalog_dir"`
	DatabaseURL   string        `mapstructure:"database_url"`
	Metrics       bool          `mapstructure:"metrics"`
	CORSOrigins   []string      `mapstructure:"cors_origins"`
}

var defaults = map[string]any{
	"port":           "8080",
	"env":            "development",
	"log_level":      "info",
	"store":          StoreMemory,
	"store_dir":      "./sessions",
	"redis_addr":     "localhost:6379",
	"redis_password": "",
	"redis_db":       0,
	"session_ttl":    "24h",
	"encryption_key": "",
	"pii_mask":       false,
	"jwt_secret":     "",
	"jwt_issuer":     "",
	"catalog_dir":    "",
	"database_url":   "",
	"metrics":        true,
	"cors_origins":   []string{},
}

// New returns a viper instance with the defaults and environment binding in
// place. Callers may bind command-line flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// Load reads the optional config file and decodes v into a validated Config.
// A missing file is an error only when file is set explicitly.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	level, err := slogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Validate checks that the configuration is safe to run. In production a JWT
// secret is required so that routes are not served unauthenticated, and an
// encryption key must be a 64-character hex string (32 bytes when decoded).
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreFile:
		if c.StoreDir == "" {
			return fmt.Errorf("store_dir is required when store is %q", StoreFile)
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required when store is %q", StoreRedis)
		}
	default:
		return fmt.Errorf("store must be %q, %q or %q, got %q", StoreMemory, StoreFile, StoreRedis, c.Store)
	}

	if c.SessionTTL < 0 {
		return fmt.Errorf("session_ttl must not be negative, got %s", c.SessionTTL)
	}

	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required in production")
	}

	if c.EncryptionKey != "" {
		keyBytes, err := hex.DecodeString(c.EncryptionKey)
		if err != nil {
			return fmt.Errorf("encryption_key is not valid hex: %w", err)
		}
		if len(keyBytes) != 32 {
			return fmt.Errorf("encryption_key must be 32 bytes (64 hex chars), got %d bytes", len(keyBytes))
		}
	}

	if _, err := slogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func slogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("log_level must be debug, info, warn or error, got %q", s)
	}
	return level, nil
}
