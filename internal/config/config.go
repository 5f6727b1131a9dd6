package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	APIBaseURL     string        `env:"ACTIVITIES_API_URL" envDefault:"http://localhost:8000"`
	APITimeout     time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	RedisURL       string        `env:"REDIS_URL"`
	MessageTTL     time.Duration `env:"MESSAGE_TTL" envDefault:"5s"`
	CSRFKey        string        `env:"CSRF_KEY"`
	SecureCookies  bool          `env:"SECURE_COOKIES" envDefault:"false"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"production"`
}

// Load loads configuration from environment variables, reading .env first if present
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	cfg.AllowedOrigins = parseOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the board cannot run with
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("ACTIVITIES_API_URL must not be empty")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	if c.MessageTTL <= 0 {
		return fmt.Errorf("MESSAGE_TTL must be positive, got %s", c.MessageTTL)
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != 32 {
		return fmt.Errorf("CSRF_KEY must be exactly 32 bytes, got %d", len(c.CSRFKey))
	}
	return nil
}

// CSRFEnabled reports whether form posts are protected with a CSRF token
func (c *Config) CSRFEnabled() bool {
	return c.CSRFKey != ""
}

// parseOrigins trims origins and drops empty entries
func parseOrigins(origins []string) []string {
	result := make([]string, 0, len(origins))
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
