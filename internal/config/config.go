package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	// DBResolverAddr optionally points DNS resolution for the database
	// connection at a specific server ("host:port"). Scoped to the pool only;
	// process-wide resolution is untouched.
	DBResolverAddr string
	CORSOrigins    string

	// Bearer-token verification. When AuthJWKSURL is set the verifier fetches
	// public keys from that endpoint; otherwise AuthJWTSecret is used for HS256.
	AuthJWKSURL   string
	AuthJWTSecret string

	// Completion provider selection and credentials
	CompletionProvider string
	CompletionModel    string // overrides the embedded default when set
	CompletionBaseURL  string // overrides the embedded default when set
	CompletionTimeout  time.Duration
	OpenAIAPIKey       string
	GeminiAPIKey       string
	AnthropicAPIKey    string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "dev"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBResolverAddr: getEnv("DB_RESOLVER_ADDR", ""),
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),

		AuthJWKSURL:   getEnv("AUTH_JWKS_URL", ""),
		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),

		CompletionProvider: getEnv("COMPLETION_PROVIDER", "openai"),
		CompletionModel:    getEnv("COMPLETION_MODEL", ""),
		CompletionBaseURL:  getEnv("COMPLETION_BASE_URL", ""),
		CompletionTimeout:  getDurationEnv("COMPLETION_TIMEOUT_SECONDS", 60*time.Second),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
