// Package config loads service configuration from the process environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the campus
// events service.
type Config struct {
	HTTPPort   int
	SQLiteDSN  string
	SessionTTL time.Duration
	LogLevel   string
}

// Load parses configuration from the current process environment. A .env file
// in the working directory is applied first when present; explicit environment
// variables win over file entries.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("config: failed to load .env: %w", err)
		}
	}

	cfg := Config{
		HTTPPort:   8080,
		SQLiteDSN:  "file:campus.db?_foreign_keys=on",
		SessionTTL: 12 * time.Hour,
		LogLevel:   "info",
	}

	var invalid []string

	if portValue := strings.TrimSpace(os.Getenv("CAMPUS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "CAMPUS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("CAMPUS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("CAMPUS_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "CAMPUS_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if level := strings.TrimSpace(os.Getenv("CAMPUS_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
