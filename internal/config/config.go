package config

import (
	"os"
	"time"

	"fridgehero-server/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort         string
	LogLevel           string
	SupabaseURL        string
	SupabaseKey        string
	RefreshInterval    time.Duration
	ForegroundDebounce time.Duration
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:  getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL: getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey: getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		// Background status refresh cadence and the minimum gap between an
		// app-foreground signal and an actual fetch.
		RefreshInterval:    getEnvDurationOrDefault("REFRESH_INTERVAL", 30*time.Minute),
		ForegroundDebounce: getEnvDurationOrDefault("FOREGROUND_DEBOUNCE", 5*time.Minute),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetRefreshInterval returns the scheduled status refresh interval
func (c *AppConfig) GetRefreshInterval() time.Duration {
	return c.RefreshInterval
}

// GetForegroundDebounce returns the minimum elapsed time since the last
// successful fetch before a foreground signal triggers a refresh
func (c *AppConfig) GetForegroundDebounce() time.Duration {
	return c.ForegroundDebounce
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
