package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath     string
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
	SessionSecret    string
	BaseURL          string
	LogLevel         string
	Port             string
	// APIRateLimit is requests per minute per client on token routes; 0 disables it.
	APIRateLimit     int
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env file: %w", err)
	}

	config := Config{
		DatabasePath:     envOrDefault("DATABASE_PATH", "./data/family-meals.db"),
		OIDCIssuer:       os.Getenv("OIDC_ISSUER"),
		OIDCClientID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		OIDCRedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		BaseURL:          strings.TrimSuffix(envOrDefault("BASE_URL", "http://localhost:8080"), "/"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		Port:             envOrDefault("PORT", "8080"),
	}

	rateLimit, err := strconv.Atoi(envOrDefault("API_RATE_LIMIT", "60"))
	if err != nil || rateLimit < 0 {
		return Config{}, fmt.Errorf("API_RATE_LIMIT must be a non-negative number, got %q", os.Getenv("API_RATE_LIMIT"))
	}
	config.APIRateLimit = rateLimit

	return config, nil
}

// Validate checks the settings required to run the web server.
func (config Config) Validate() error {
	if config.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	return nil
}

func ParseLogLevel(value string) slog.Level {
	switch strings.ToLower(value) {
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

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
