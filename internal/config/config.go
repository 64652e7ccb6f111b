// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir          string // Base directory for the run-history database (always absolute)
	Port             int
	LogLevel         string
	DevMode          bool
	DefaultShots     int // Measurement repetitions per reprogramming simulation
	MaxDeliverySteps int // Hard cap on delivery integration steps
	RetentionDays    int // Stored runs older than this are purged
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("NANOCELL_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:          absDataDir,
		Port:             getEnvAsInt("NANOCELL_PORT", 8001),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		DefaultShots:     getEnvAsInt("NANOCELL_DEFAULT_SHOTS", 100),
		MaxDeliverySteps: getEnvAsInt("NANOCELL_MAX_DELIVERY_STEPS", 1000),
		RetentionDays:    getEnvAsInt("NANOCELL_RETENTION_DAYS", 30),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and sane
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DefaultShots <= 0 {
		return fmt.Errorf("default shots must be positive, got %d", c.DefaultShots)
	}
	if c.MaxDeliverySteps <= 0 {
		return fmt.Errorf("max delivery steps must be positive, got %d", c.MaxDeliverySteps)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("retention days must not be negative, got %d", c.RetentionDays)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
