// Package config provides configuration for the caption service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Upstream model provider
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	JudgeModel    string
	LLMTimeout    time.Duration

	// Database
	DatabaseURL string

	// Curation
	AnchorTag string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 8080),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		Model:         getEnv("MODEL", "gpt-4o-mini"),
		JudgeModel:    getEnv("JUDGE_MODEL", "gpt-4o-mini"),
		LLMTimeout:    time.Duration(getEnvInt("LLM_TIMEOUT_MS", 20000)) * time.Millisecond,
		DatabaseURL:   getEnv("DATABASE_URL", "file:captionforge.db?cache=shared&mode=rwc"),
		AnchorTag:     getEnv("ANCHOR_TAG", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
