package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the signalling service.
type Config struct {
	Port string
	Env  string

	// AssistantURL is the base URL of the external inference service
	// (summary and question answering endpoints).
	AssistantURL string

	// AssistantTimeout bounds each outbound call to the inference
	// service. Expiry is treated as an ordinary call failure.
	AssistantTimeout time.Duration
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "3000"),
		Env:              getEnv("ENV", "development"),
		AssistantURL:     getEnv("ASSISTANT_URL", "http://localhost:8000"),
		AssistantTimeout: time.Duration(getEnvInt("ASSISTANT_TIMEOUT", 30)) * time.Second,
	}

	// In production, require an explicit inference service URL
	if cfg.Env == "production" {
		if os.Getenv("ASSISTANT_URL") == "" {
			panic("ASSISTANT_URL is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
