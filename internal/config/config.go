// Package config loads process settings from environment variables and an optional .env file.
// Game rules (weights, pity, banners) live in YAML and are loaded by package game.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all process configuration.
// Priority: environment variables > .env file > defaults.
type Config struct {
	AppEnv      string // dev, staging, prod
	HTTPAddr    string // HTTP API bind address
	GRPCAddr    string // gRPC health bind address; empty disables it
	MetricsAddr string // Prometheus bind address
	RulesDir    string // directory holding default.yaml and banners/
	CatalogPath string // YAML or JSON catalog export
	StoreType   string // memory or redis
	RedisAddr   string
	RedisDB     int
	LogLevel    string
	LogPretty   bool
	SeedSalt    string // when set, pulls draw from a per-player replayable stream
	WatchRules  bool   // hot reload rules and catalog on change
}

// Load reads configuration from environment variables and .env file (if present).
// It does not validate; call Validate before serving.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env") // Optional; silently ignored if file doesn't exist
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	setConfigDefaults(v)

	return &Config{
		AppEnv:      v.GetString("APP_ENV"),
		HTTPAddr:    v.GetString("APP_HTTP_ADDR"),
		GRPCAddr:    v.GetString("APP_GRPC_ADDR"),
		MetricsAddr: v.GetString("METRICS_ADDR"),
		RulesDir:    v.GetString("RULES_DIR"),
		CatalogPath: v.GetString("CATALOG_PATH"),
		StoreType:   v.GetString("STORE_TYPE"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		RedisDB:     v.GetInt("REDIS_DB"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogPretty:   v.GetBool("LOG_PRETTY"),
		SeedSalt:    v.GetString("SEED_SALT"),
		WatchRules:  v.GetBool("WATCH_RULES"),
	}, nil
}

// setConfigDefaults sets values suitable for local development.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_HTTP_ADDR", ":8080")
	v.SetDefault("APP_GRPC_ADDR", ":9091")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("RULES_DIR", "rules")
	v.SetDefault("CATALOG_PATH", "catalog.yaml")
	v.SetDefault("STORE_TYPE", "memory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("SEED_SALT", "")
	v.SetDefault("WATCH_RULES", true)
}

// ValidationError describes a configuration field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Validate returns the first misconfiguration found.
func (c *Config) Validate() error {
	if c.StoreType != "memory" && c.StoreType != "redis" {
		return ValidationError{Field: "STORE_TYPE", Message: fmt.Sprintf("must be 'memory' or 'redis', got '%s'", c.StoreType)}
	}
	if c.StoreType == "redis" && c.RedisAddr == "" {
		return ValidationError{Field: "REDIS_ADDR", Message: "redis address is required when STORE_TYPE=redis"}
	}
	if c.HTTPAddr == "" {
		return ValidationError{Field: "APP_HTTP_ADDR", Message: "HTTP server address cannot be empty"}
	}
	if c.MetricsAddr == "" {
		return ValidationError{Field: "METRICS_ADDR", Message: "metrics server address cannot be empty"}
	}
	if strings.TrimSpace(c.RulesDir) == "" {
		return ValidationError{Field: "RULES_DIR", Message: "rules directory cannot be empty"}
	}
	if strings.TrimSpace(c.CatalogPath) == "" {
		return ValidationError{Field: "CATALOG_PATH", Message: "catalog path cannot be empty"}
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return ValidationError{Field: "LOG_LEVEL", Message: fmt.Sprintf("unknown level '%s'", c.LogLevel)}
	}
	return nil
}
