package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration for the booking client.
type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	ProfileDSN  string
}

// Load parses configuration from the process environment, after folding in an
// optional .env file. Defaults cover local development against a backend on
// port 8000; invalid values are reported together rather than one at a time.
func Load() (Config, error) {
	// A missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := Config{
		APIBaseURL:  "http://localhost:8000/api/v1",
		HTTPTimeout: 10 * time.Second,
		ProfileDSN:  "file:roombook.db?_pragma=busy_timeout(5000)",
	}

	invalid := make([]string, 0, 2)

	if base := strings.TrimSpace(os.Getenv("ROOMBOOK_API_BASE_URL")); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			invalid = append(invalid, "ROOMBOOK_API_BASE_URL")
		} else {
			cfg.APIBaseURL = strings.TrimRight(base, "/")
		}
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("ROOMBOOK_HTTP_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "ROOMBOOK_HTTP_TIMEOUT")
		} else {
			cfg.HTTPTimeout = timeout
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ROOMBOOK_PROFILE_DSN")); dsn != "" {
		cfg.ProfileDSN = dsn
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
