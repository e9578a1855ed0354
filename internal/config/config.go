package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kyxap1/geoip-legacy/internal/legacydb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port int `json:"port"`

	// Database configuration
	DBFile         string `json:"db_file"`
	AccessMode     string `json:"access_mode"`
	FallbackDBFile string `json:"fallback_db_file"`
	ReloadEnabled  bool   `json:"reload_enabled"`
	ReloadInterval string `json:"reload_interval"`

	// Cache configuration
	CacheEnabled    bool          `json:"cache_enabled"`
	CacheTTL        time.Duration `json:"cache_ttl"`
	CacheMaxEntries int           `json:"cache_max_entries"`

	// Request limits
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`
	BatchMax  int     `json:"batch_max"`

	// Logging configuration
	LogLevel string `json:"log_level"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	cfg := &Config{
		Port:            getEnvInt("HTTP_PORT", 8080),
		DBFile:          getEnvStr("DB_FILE", "./data/GeoLiteCity.dat"),
		AccessMode:      getEnvStr("ACCESS_MODE", "memory"),
		FallbackDBFile:  getEnvStr("FALLBACK_DB_FILE", ""),
		ReloadEnabled:   getEnvBool("RELOAD_ENABLED", true),
		ReloadInterval:  getEnvStr("RELOAD_INTERVAL", "*/10 * * * *"), // Every 10 minutes
		CacheEnabled:    getEnvBool("CACHE_ENABLED", true),
		CacheTTL:        getEnvDuration("CACHE_TTL", 1*time.Hour),
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 10000),
		RateLimit:       getEnvFloat("RATE_LIMIT", 0), // Requests per second, 0 disables
		RateBurst:       getEnvInt("RATE_BURST", 20),
		BatchMax:        getEnvInt("BATCH_MAX", 100),
		LogLevel:        getEnvStr("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DBFile == "" {
		return fmt.Errorf("database file is required")
	}
	if _, err := legacydb.ParseAccessMode(c.AccessMode); err != nil {
		return err
	}
	if c.CacheEnabled && c.CacheMaxEntries < 1 {
		return fmt.Errorf("cache max entries must be positive, got %d", c.CacheMaxEntries)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %g", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("rate burst must be positive when rate limiting, got %d", c.RateBurst)
	}
	if c.BatchMax < 1 {
		return fmt.Errorf("batch max must be positive, got %d", c.BatchMax)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// Mode returns the parsed access mode, falling back to standard file access
func (c *Config) Mode() legacydb.AccessMode {
	mode, err := legacydb.ParseAccessMode(c.AccessMode)
	if err != nil {
		return legacydb.Standard
	}
	return mode
}

// getEnvStr gets string value from environment variable with default
func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets integer value from environment variable with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets float value from environment variable with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool gets boolean value from environment variable with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets duration value from environment variable with default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
