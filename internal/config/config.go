package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	TablePrefix string
	// LLM Configuration
	DefaultProvider    string
	DefaultModel       string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	AnthropicAPIKey    string
	LLMMaxRetries      int
	AgentMaxIterations int
	// Movie discovery
	TMDBAPIKey  string
	TMDBBaseURL string
	// Permission checks
	PermitAPIKey string
	PermitPDPURL string
	PermitTenant string
	// Logging
	LogLevel string
	LogDir   string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		// LLM Configuration
		DefaultProvider:    getEnv("DEFAULT_PROVIDER", "openai"),
		DefaultModel:       getEnv("DEFAULT_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		LLMMaxRetries:      getEnvInt("LLM_MAX_RETRIES", 3),
		AgentMaxIterations: getEnvInt("AGENT_MAX_ITERATIONS", 8),
		// Movie discovery
		TMDBAPIKey:  getEnv("TMDB_API_KEY", ""),
		TMDBBaseURL: getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		// Permission checks
		PermitAPIKey: getEnv("PERMIT_API_KEY", ""),
		PermitPDPURL: getEnv("PERMIT_PDP_URL", "https://cloudpdp.api.permit.io"),
		PermitTenant: getEnv("PERMIT_TENANT", "default"),
		// Logging - debug in dev, info everywhere else
		LogLevel: getEnv("LOG_LEVEL", getDefaultLogLevel(env)),
		LogDir:   getEnv("LOG_DIR", "logs"),
	}
}

// ParseLogLevel converts a LOG_LEVEL value to a slog level.
// Unknown values map to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getDefaultLogLevel(env string) string {
	if env == "dev" {
		return "debug"
	}
	return "info"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
