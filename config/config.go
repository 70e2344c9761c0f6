// Package config provides application configuration management.
// It loads configuration from environment variables with sensible defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Ingest IngestConfig
	Cache  CacheConfig
	AI     AIConfig
	Email  EmailConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Environment  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// IngestConfig holds source file ingestion configuration.
type IngestConfig struct {
	// DataDir is where the local file source looks for ledger exports.
	DataDir string

	// MaxUploadSize caps a single uploaded file, in bytes.
	MaxUploadSize int64

	LowStockThreshold int64

	// UploadRateLimit throttles ingestion uploads per client IP.
	UploadRateLimit  int
	UploadRateWindow time.Duration
}

// CacheConfig holds bucket cache configuration.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AIConfig holds the AI advice backend configuration.
type AIConfig struct {
	GeminiAPIKey string
	Model        string
}

// EmailConfig holds alert digest delivery configuration.
type EmailConfig struct {
	ResendAPIKey   string
	FromName       string
	FromEmail      string
	AlertRecipient string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			Environment:  getEnv("ENV", "development"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Ingest: IngestConfig{
			DataDir:           getEnv("INGEST_DATA_DIR", "./data"),
			MaxUploadSize:     getEnvAsInt64("INGEST_MAX_UPLOAD_SIZE", 10<<20),
			LowStockThreshold: getEnvAsInt64("LOW_STOCK_THRESHOLD", 10),
			UploadRateLimit:   getEnvAsInt("INGEST_RATE_LIMIT", 10),
			UploadRateWindow:  getEnvAsDuration("INGEST_RATE_WINDOW", 1*time.Minute),
		},
		Cache: CacheConfig{
			Enabled: getEnvAsBool("CACHE_ENABLED", true),
			TTL:     getEnvAsDuration("CACHE_TTL", 1*time.Hour),
		},
		AI: AIConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		},
		Email: EmailConfig{
			ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
			FromName:       getEnv("RESEND_FROM_NAME", "Store Ledger"),
			FromEmail:      getEnv("RESEND_FROM_EMAIL", "onboarding@resend.dev"),
			AlertRecipient: getEnv("ALERT_RECIPIENT_EMAIL", ""),
		},
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
