package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// Generation provider settings
	Provider        string `json:"provider"` // "gemini" or "openrouter"
	GeminiAPIKey    string `json:"-"`        // Don't expose in JSON
	GeminiModel     string `json:"gemini_model"`
	GeminiBaseURL   string `json:"-"`
	OpenRouterKey   string `json:"-"`
	OpenRouterModel string `json:"openrouter_model"`

	// Outbound call limits
	MaxConcurrentRequests int `json:"max_concurrent_requests"`
	RequestsPerMinute     int `json:"requests_per_minute"`
	MaxRetries            int `json:"max_retries"`

	// Storage settings
	StorageType   string `json:"storage_type"` // "memory", "gcs" or "postgres"
	StorageBucket string `json:"storage_bucket"`
	DatabaseURL   string `json:"-"`
	DocumentTTL   int    `json:"document_ttl_hours"`
	PurgeSchedule string `json:"purge_schedule"` // cron expression

	// Cache settings
	CacheDuration int `json:"cache_duration_hours"`

	// API settings
	APIAuthToken string `json:"-"`

	LogLevel string `json:"log_level"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		Host:                  getEnvOrDefault("HOST", "0.0.0.0"),
		Provider:              strings.ToLower(getEnvOrDefault("AI_PROVIDER", "gemini")),
		GeminiAPIKey:          getEnvOrDefault("GOOGLE_API_KEY", os.Getenv("GEMINI_API_KEY")),
		GeminiModel:           getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-pro"),
		GeminiBaseURL:         getEnvOrDefault("GEMINI_BASE_URL", ""),
		OpenRouterKey:         getEnvOrDefault("OPENROUTER_API_KEY", ""),
		OpenRouterModel:       getEnvOrDefault("OPENROUTER_MODEL", "google/gemini-pro-1.5"),
		MaxConcurrentRequests: getEnvOrDefaultInt("MAX_CONCURRENT_REQUESTS", 3),
		RequestsPerMinute:     getEnvOrDefaultInt("REQUESTS_PER_MINUTE", 30),
		MaxRetries:            getEnvOrDefaultInt("GEMINI_MAX_RETRIES", 3),
		StorageType:           strings.ToLower(getEnvOrDefault("STORAGE_TYPE", "memory")),
		StorageBucket:         getEnvOrDefault("STORAGE_BUCKET", "cv-generator-documents"),
		DatabaseURL:           getEnvOrDefault("DATABASE_URL", ""),
		DocumentTTL:           getEnvOrDefaultInt("DOCUMENT_TTL_HOURS", 24),
		PurgeSchedule:         getEnvOrDefault("PURGE_SCHEDULE", "@every 1h"),
		CacheDuration:         getEnvOrDefaultInt("CACHE_DURATION_HOURS", 24),
		APIAuthToken:          getEnvOrDefault("API_AUTH_TOKEN", ""),
		LogLevel:              LogLevelFromEnv(),
	}

	return config, config.validate()
}

// LogLevelFromEnv reads LOG_LEVEL without loading the rest of the configuration
func LogLevelFromEnv() string {
	return strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
}

// APIKey returns the key of the configured provider, which may be empty.
// An empty key is allowed: the UI then asks for one per request.
func (c *Config) APIKey() string {
	if c.Provider == "openrouter" {
		return c.OpenRouterKey
	}
	return c.GeminiAPIKey
}

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return &ConfigError{Field: "PORT", Message: "must be a number"}
	}
	switch c.Provider {
	case "gemini", "openrouter":
	default:
		return &ConfigError{Field: "AI_PROVIDER", Message: "must be gemini or openrouter"}
	}
	switch c.StorageType {
	case "memory":
	case "gcs":
		if c.StorageBucket == "" {
			return &ConfigError{Field: "STORAGE_BUCKET", Message: "bucket name is required for gcs storage"}
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return &ConfigError{Field: "DATABASE_URL", Message: "database URL is required for postgres storage"}
		}
	default:
		return &ConfigError{Field: "STORAGE_TYPE", Message: "must be memory, gcs or postgres"}
	}
	if c.MaxConcurrentRequests < 1 {
		return &ConfigError{Field: "MAX_CONCURRENT_REQUESTS", Message: "must be at least 1"}
	}
	if c.RequestsPerMinute < 1 {
		return &ConfigError{Field: "REQUESTS_PER_MINUTE", Message: "must be at least 1"}
	}
	if c.MaxRetries < 0 {
		return &ConfigError{Field: "GEMINI_MAX_RETRIES", Message: "must not be negative"}
	}
	if c.DocumentTTL < 1 {
		return &ConfigError{Field: "DOCUMENT_TTL_HOURS", Message: "must be at least 1"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
