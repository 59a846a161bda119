// Package config resolves runtime settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings of the client.
type Config struct {
	APIURL      string
	WebURL      string
	StatePath   string
	HTTPTimeout time.Duration
	Logger      LoggerConfig
}

type LoggerConfig struct {
	Level    string
	Encoding string
	File     string
}

// Load reads configuration from environment variables (optionally .env)
// and fills in defaults rooted at ~/.boxify.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	dir := stateDir()
	cfg := &Config{
		APIURL:      strings.TrimRight(getString("BOXIFY_API_URL", "http://localhost:5000/api"), "/"),
		WebURL:      strings.TrimRight(getString("BOXIFY_WEB_URL", "http://localhost:5173"), "/"),
		StatePath:   getString("BOXIFY_STATE_PATH", filepath.Join(dir, "state.db")),
		HTTPTimeout: getDuration("BOXIFY_HTTP_TIMEOUT", 30*time.Second),
		Logger: LoggerConfig{
			Level:    getString("BOXIFY_LOG_LEVEL", "info"),
			Encoding: getString("BOXIFY_LOG_ENCODING", "json"),
			File:     getString("BOXIFY_LOG_FILE", filepath.Join(dir, "boxify.log")),
		},
	}
	return cfg, nil
}

// WebPage returns the storefront URL for path, e.g. "/boxes/42".
func (c *Config) WebPage(path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return c.WebURL + path
}

// stateDir returns ~/.boxify, or .boxify in the working directory when the
// home directory is unknown.
func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".boxify"
	}
	return filepath.Join(home, ".boxify")
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
