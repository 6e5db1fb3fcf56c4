package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port               string
	Env                string
	AppVersion         string
	CORSAllowOrigin    []string
	DatabaseURL        string
	MongoDatabase      string
	JWTSecret          string
	TokenTTL           time.Duration
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	LLMModel           string
	LLMTimeout         time.Duration
	RedisURL           string
	AIRatePerMinute    int
	AIRateBurst        int
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	ShutdownTimeout    time.Duration
	LogFormat          string
	LogLevel           string
}

const devJWTSecret = "dev-secret"

// Load reads configuration from .env files and environment variables with sensible defaults.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Port:               v.GetString("PORT"),
		Env:                normalizeEnv(v.GetString("ENV")),
		AppVersion:         v.GetString("APP_VERSION"),
		CORSAllowOrigin:    splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		DatabaseURL:        strings.TrimSpace(v.GetString("DATABASE_URL")),
		MongoDatabase:      v.GetString("MONGODB_DATABASE"),
		JWTSecret:          strings.TrimSpace(v.GetString("JWT_SECRET")),
		TokenTTL:           v.GetDuration("TOKEN_TTL"),
		OpenAIAPIKey:       strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIBaseURL:      v.GetString("OPENAI_BASE_URL"),
		LLMModel:           firstNonEmpty(v.GetString("OPENAI_MODEL"), v.GetString("LLM_MODEL")),
		LLMTimeout:         v.GetDuration("LLM_TIMEOUT"),
		RedisURL:           strings.TrimSpace(v.GetString("REDIS_URL")),
		AIRatePerMinute:    v.GetInt("AI_RATE_LIMIT_PER_MINUTE"),
		AIRateBurst:        v.GetInt("AI_RATE_LIMIT_BURST"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:      v.GetString("UI_REDIRECT_URL"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return Config{}, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required in production")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", "dev")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("MONGODB_DATABASE", "resume-builder")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("LLM_TIMEOUT", "0s")
	v.SetDefault("AI_RATE_LIMIT_PER_MINUTE", 20)
	v.SetDefault("AI_RATE_LIMIT_BURST", 5)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_LEVEL", "info")
}

// IsDevLike reports whether env allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}
