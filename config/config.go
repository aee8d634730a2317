// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Calendar CalendarConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Path string
}

// CalendarConfig holds the hours-tracking API settings. An empty BaseURL
// disables the integration; the server then serves empty calendar hours.
type CalendarConfig struct {
	BaseURL string
	Token   string
}

func Load() (*Config, error) {
	// Missing .env is fine; the environment itself may be fully set.
	_ = godotenv.Load()

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port: appPort,
		Env:  getEnv("APP_ENV", "development"),
	}

	config.Database = DatabaseConfig{
		Path: getEnv("DB_PATH", "salary.db"),
	}

	config.Calendar = CalendarConfig{
		BaseURL: getEnv("CALENDAR_API_URL", ""),
		Token:   getEnv("CALENDAR_API_TOKEN", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Calendar.BaseURL != "" && c.Calendar.Token == "" {
		return fmt.Errorf("CALENDAR_API_TOKEN is required when CALENDAR_API_URL is set")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
