package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port          string
	Env           string
	LogLevel      string
	AIProvider    string // gemini|mock
	GeminiAPIKey  string
	GeminiModel   string
	SchemaVersion string // v1|v2|v3
	ArchivePath   string // empty disables the plan archive
	APIToken      string // empty disables the token gate

	DotEnvMissing bool
}

// Load reads .env (if present) and the process environment. It never fails:
// a missing GEMINI_API_KEY is reported when a plan is requested, not here.
func Load() AppConfig {
	// Load .env file if it exists
	envErr := godotenv.Load()

	get := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
		return def
	}
	cfg := AppConfig{
		Port:          get("PORT", "8080"),
		Env:           get("APP_ENV", "production"),
		LogLevel:      get("LOG_LEVEL", "info"),
		AIProvider:    strings.ToLower(get("AI_PROVIDER", "gemini")),
		GeminiAPIKey:  get("GEMINI_API_KEY", ""),
		GeminiModel:   get("GEMINI_MODEL", "gemini-2.0-flash"),
		SchemaVersion: strings.ToLower(get("PLAN_SCHEMA_VERSION", "v3")),
		ArchivePath:   get("ARCHIVE_DB_PATH", ""),
		APIToken:      get("API_TOKEN", ""),
	}
	cfg.DotEnvMissing = envErr != nil
	return cfg
}

// Development reports whether APP_ENV asks for development logging.
func (c AppConfig) Development() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Redacted renders the config for logs with secrets masked.
func (c AppConfig) Redacted() string {
	mask := func(s string) string {
		if s == "" {
			return "<unset>"
		}
		return "<redacted>"
	}
	return fmt.Sprintf(
		"port=%s env=%s log_level=%s ai_provider=%s gemini_model=%s gemini_api_key=%s schema=%s archive=%q api_token=%s",
		c.Port, c.Env, c.LogLevel, c.AIProvider, c.GeminiModel, mask(c.GeminiAPIKey), c.SchemaVersion, c.ArchivePath, mask(c.APIToken),
	)
}
