// Package config loads the engine's runtime configuration from environment
// variables, with an optional YAML overlay applied first. Grounded on the
// teacher's Load/getEnv pattern (backend/internal/config/config.go), minus
// the godotenv call: flowcore has no .env convenience loader dependency, so
// callers that want one populate the process environment themselves.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable loaded at startup, per SPEC_FULL.md §10. The
// demo passes MaxParallelNodes, LogLevel, NodeIdleInterval and
// HeartbeatInterval on; DatabaseDSN, OpenAIAPIKey, DefaultNodeTimeout and
// DefaultNodeRetries are loaded and validated but not read elsewhere
// (skills take a DSN or API key from their node inputs, and timeouts and
// retries from their own Definition).
type Config struct {
	MaxParallelNodes   int           `yaml:"max_parallel_nodes"`
	LogLevel           string        `yaml:"log_level"`
	DatabaseDSN        string        `yaml:"database_dsn"`
	OpenAIAPIKey       string        `yaml:"openai_api_key"`
	NodeIdleInterval   time.Duration `yaml:"node_idle_interval"`
	HeartbeatInterval  time.Duration `yaml:"heartbeat_interval"`
	DefaultNodeTimeout time.Duration `yaml:"default_node_timeout"`
	DefaultNodeRetries int           `yaml:"default_node_retries"`
}

// defaults returns the built-in value of each setting, used when neither
// the YAML overlay nor the environment sets it.
func defaults() Config {
	return Config{
		MaxParallelNodes:   5,
		LogLevel:           "info",
		NodeIdleInterval:   100 * time.Millisecond,
		HeartbeatInterval:  500 * time.Millisecond,
		DefaultNodeTimeout: 30 * time.Second,
		DefaultNodeRetries: 1,
	}
}

// Load builds a Config starting from defaults, applying a YAML file at
// yamlPath if non-empty and present, then layering FLOWCORE_* environment
// variables on top. Environment variables always win, matching the
// teacher's env-is-authoritative precedence.
func Load(yamlPath string) (*Config, error) {
	cfg := defaults()

	if yamlPath != "" {
		if data, err := os.ReadFile(yamlPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config overlay %s: %w", yamlPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config overlay %s: %w", yamlPath, err)
		}
	}

	cfg.MaxParallelNodes = getEnvAsInt("FLOWCORE_MAX_PARALLEL_NODES", cfg.MaxParallelNodes)
	cfg.LogLevel = getEnv("FLOWCORE_LOG_LEVEL", cfg.LogLevel)
	cfg.DatabaseDSN = getEnv("FLOWCORE_DATABASE_DSN", cfg.DatabaseDSN)
	cfg.OpenAIAPIKey = getEnv("FLOWCORE_OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.NodeIdleInterval = getEnvAsDuration("FLOWCORE_NODE_IDLE_INTERVAL_MS", cfg.NodeIdleInterval)
	cfg.HeartbeatInterval = getEnvAsDuration("FLOWCORE_HEARTBEAT_INTERVAL_MS", cfg.HeartbeatInterval)
	cfg.DefaultNodeTimeout = getEnvAsDuration("FLOWCORE_DEFAULT_NODE_TIMEOUT_MS", cfg.DefaultNodeTimeout)
	cfg.DefaultNodeRetries = getEnvAsInt("FLOWCORE_DEFAULT_NODE_RETRIES", cfg.DefaultNodeRetries)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would make the engine misbehave rather
// than merely underperform.
func (c *Config) Validate() error {
	if c.MaxParallelNodes < 1 {
		return fmt.Errorf("max_parallel_nodes must be at least 1, got %d", c.MaxParallelNodes)
	}
	if c.DefaultNodeRetries < 0 {
		return fmt.Errorf("default_node_retries must not be negative, got %d", c.DefaultNodeRetries)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration reads key as a count of milliseconds, matching the _MS
// suffix the FLOWCORE_* variable names carry, falling back to defaultValue
// on an absent or unparsable value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	ms, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}
