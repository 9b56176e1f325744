// Package config loads runtime settings for splitctl and the sandbox server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all settings, read from SHARESPLIT_* environment variables.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Remote Expense API
	APIBaseURL     string        `envconfig:"API_BASE_URL" default:"http://127.0.0.1:8000"`
	APIToken       string        `envconfig:"API_TOKEN"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`

	// Sandbox server
	ServerAddr      string        `envconfig:"SERVER_ADDR" default:":8000"`
	DBPath          string        `envconfig:"DB_PATH" default:"./data/sharesplit.db"`
	JWTSecret       string        `envconfig:"JWT_SECRET" default:"dev-only-secret-change-me"`
	TokenTTL        time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	RateLimitPerMin int           `envconfig:"RATE_LIMIT_PER_MIN" default:"120"`
}

const envPrefix = "SHARESPLIT"

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid API base URL %q", c.APIBaseURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("unsupported API scheme %q", u.Scheme))
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "request timeout must be positive")
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, "token TTL must be positive")
	}
	if len(c.JWTSecret) < 16 {
		problems = append(problems, "JWT secret must be at least 16 characters")
	}
	if c.RateLimitPerMin < 1 {
		problems = append(problems, "rate limit must be at least 1 request per minute")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
