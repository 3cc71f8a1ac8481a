package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

type Config struct {
	Port          string        `koanf:"port" validate:"required"`
	Environment   string        `koanf:"environment"`
	DatabasePath  string        `koanf:"database_path" validate:"required"`
	TelemetryPath string        `koanf:"telemetry_path"`
	CORSOrigins   string        `koanf:"cors_origins"`
	RateLimit     int           `koanf:"rate_limit" validate:"gte=0"`
	AI            AIConfig      `koanf:"ai"`
	Cache         CacheConfig   `koanf:"cache"`
	Logging       LoggingConfig `koanf:"logging"`
}

type AIConfig struct {
	APIKey        string        `koanf:"api_key"`
	Model         string        `koanf:"model" validate:"required"`
	BaseURL       string        `koanf:"base_url" validate:"required,url"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gt=0"`
	Burst         int           `koanf:"burst" validate:"gte=1"`
}

type CacheConfig struct {
	Backend          string        `koanf:"backend" validate:"oneof=memory firestore redis"`
	TTL              time.Duration `koanf:"ttl" validate:"gt=0"`
	FirestoreProject string        `koanf:"firestore_project" validate:"required_if=Backend firestore"`
	RedisAddr        string        `koanf:"redis_addr" validate:"required_if=Backend redis"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func defaultConfig() *Config {
	return &Config{
		Port:          "8001",
		Environment:   "development",
		DatabasePath:  "database.json",
		TelemetryPath: "data.json",
		CORSOrigins:   "*",
		RateLimit:     100,
		AI: AIConfig{
			Model:         "gemini-2.0-flash",
			BaseURL:       "https://generativelanguage.googleapis.com/v1beta",
			Timeout:       8 * time.Second,
			RatePerSecond: 2,
			Burst:         4,
		},
		Cache: CacheConfig{
			Backend:          "memory",
			TTL:              time.Hour,
			FirestoreProject: "",
			RedisAddr:        "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envKeys maps environment variables onto config paths. Anything else in the
// environment is ignored.
var envKeys = map[string]string{
	"port":                 "port",
	"environment":          "environment",
	"database_path":        "database_path",
	"telemetry_path":       "telemetry_path",
	"cors_origins":         "cors_origins",
	"rate_limit":           "rate_limit",
	"gemini_api_key":       "ai.api_key",
	"gemini_model":         "ai.model",
	"gemini_base_url":      "ai.base_url",
	"ai_timeout":           "ai.timeout",
	"ai_rate_per_second":   "ai.rate_per_second",
	"ai_burst":             "ai.burst",
	"cache_backend":        "cache.backend",
	"cache_ttl":            "cache.ttl",
	"firestore_project_id": "cache.firestore_project",
	"redis_addr":           "cache.redis_addr",
	"log_level":            "logging.level",
	"log_format":           "logging.format",
}

func envTransform(key string) string {
	return envKeys[strings.ToLower(key)]
}

// Load layers defaults, an optional YAML file and the environment, then
// validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// AIEnabled reports whether a generative API credential is configured.
func (c *Config) AIEnabled() bool {
	return c.AI.APIKey != ""
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
