// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the client configuration.
type Config struct {
	// Server
	ServerURL      string
	RequestTimeout time.Duration
	LoadAttempts   int

	// Push channel
	Watch          bool
	ReconnectDelay time.Duration

	// Loads
	DropStaleLoads bool

	// Display
	Locale      string
	Timezone    string
	OpenBrowser bool

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string

	// Metrics ("" disables the endpoint)
	MetricsAddr string
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL:      envOr("LIVEBROWSE_SERVER", "http://localhost:8080"),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 30*time.Second),
		LoadAttempts:   envInt("LOAD_ATTEMPTS", 1),
		Watch:          envBool("WATCH", true),
		ReconnectDelay: envDuration("RECONNECT_DELAY", 3*time.Second),
		DropStaleLoads: envBool("DROP_STALE_LOADS", true),
		Locale:         envOr("LOCALE", localeFromEnv()),
		Timezone:       envOr("TZ", "Local"),
		OpenBrowser:    envBool("OPEN_BROWSER", false),
		LogLevel:       envOr("LOG_LEVEL", "warn"),
		LogFormat:      envOr("LOG_FORMAT", "console"),
		LogOutput:      envOr("LOG_OUTPUT", ""),
		MetricsAddr:    envOr("METRICS_ADDR", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL must be http or https, got %q", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("server URL %q has no host", c.ServerURL)
	}
	if c.LoadAttempts < 1 {
		return fmt.Errorf("LOAD_ATTEMPTS must be at least 1")
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("RECONNECT_DELAY must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// localeFromEnv turns POSIX locale variables ("de_DE.UTF-8") into a BCP 47 tag ("de-DE").
func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return "en-US"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
