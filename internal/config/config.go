package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	// Engine
	Engine EngineConfig
}

// EngineConfig holds filter engine configuration
type EngineConfig struct {
	// Workers bounds the number of conditions evaluated in parallel
	// within a single apply call
	Workers int

	// CacheSize is the maximum number of filter results kept in the
	// LRU result cache
	CacheSize int

	// CacheTTL is the maximum age of a cached result; zero disables
	// age-based expiry (LRU eviction still applies)
	CacheTTL time.Duration

	// DefaultDeadline is applied to apply calls whose context carries
	// no deadline; zero means no default deadline
	DefaultDeadline time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Engine: EngineConfig{
			Workers:         getEnvAsInt("ENGINE_WORKERS", runtime.NumCPU()),
			CacheSize:       getEnvAsInt("ENGINE_CACHE_SIZE", 256),
			CacheTTL:        getEnvAsDuration("ENGINE_CACHE_TTL", 5*time.Minute),
			DefaultDeadline: getEnvAsDuration("ENGINE_DEFAULT_DEADLINE", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Engine.Workers < 1 {
		return fmt.Errorf("ENGINE_WORKERS must be at least 1, got %d", c.Engine.Workers)
	}
	if c.Engine.CacheSize < 1 {
		return fmt.Errorf("ENGINE_CACHE_SIZE must be at least 1, got %d", c.Engine.CacheSize)
	}
	if c.Engine.CacheTTL < 0 {
		return fmt.Errorf("ENGINE_CACHE_TTL must be non-negative, got %s", c.Engine.CacheTTL)
	}
	if c.Engine.DefaultDeadline < 0 {
		return fmt.Errorf("ENGINE_DEFAULT_DEADLINE must be non-negative, got %s", c.Engine.DefaultDeadline)
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
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
