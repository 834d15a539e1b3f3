package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Accrual  AccrualConfig
	Internal InternalConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AccrualConfig holds the commission accrual configuration.
type AccrualConfig struct {
	// DefaultAnnualRatePercent is used when a company has no configured rate.
	DefaultAnnualRatePercent string
	// Schedule is the cron expression for the monthly accrual run.
	Schedule string
	// PromotionSchedule is the cron expression for the daily job that
	// promotes due rows from accrued to available.
	PromotionSchedule string
}

// InternalConfig holds settings for the internal (operator) endpoints.
type InternalConfig struct {
	APIKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/commission_ledger.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Accrual: AccrualConfig{
			DefaultAnnualRatePercent: getEnv("DEFAULT_ANNUAL_RATE_PERCENT", "2.0"),
			// First day of every month at 02:00.
			Schedule: getEnv("ACCRUAL_SCHEDULE", "0 2 1 * *"),
			// Every day at 03:00.
			PromotionSchedule: getEnv("PROMOTION_SCHEDULE", "0 3 * * *"),
		},
		Internal: InternalConfig{
			APIKey: getEnv("INTERNAL_API_KEY", ""),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
