package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	OpenAIAPIKey  string

	// GeocoderBaseURL points at a Nominatim-compatible reverse geocoding
	// endpoint. Empty disables reverse geocoding (auto-created locations
	// are left unnamed).
	GeocoderBaseURL string
	GeocoderTimeout time.Duration

	// EscalationInterval is how often the background sweep re-evaluates
	// open tasks. Zero disables the background sweep (the admin endpoint
	// still works).
	EscalationInterval time.Duration
}

func Load() *Config {
	return &Config{
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "workforce"),
		DBPassword:         getEnv("DB_PASSWORD", "workforce"),
		DBName:             getEnv("DB_NAME", "workforce"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		SessionSecret:      getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		GeocoderBaseURL:    getEnv("GEOCODER_BASE_URL", ""),
		GeocoderTimeout:    getDurationEnv("GEOCODER_TIMEOUT", 5*time.Second),
		EscalationInterval: getDurationEnv("ESCALATION_INTERVAL", time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
