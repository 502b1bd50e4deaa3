// Package config provides the CLI configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the CLI needs to run one banking session.
type Config struct {
	UserID   string
	Password string
	BaseURL  string
	Timeout  time.Duration

	LogLevel  slog.Level
	LogFormat string // "text" or "json"

	// RecordHAR, when set, is where the sanitized session is written.
	RecordHAR string
	// DumpDir, when set, receives one file per HTTP exchange.
	DumpDir string
}

const (
	FormatText = "text"
	FormatJSON = "json"

	defaultBaseURL = "https://ibank.bni.co.id/MBAWeb/FMB"
)

// Load reads configuration from environment variables. It does not check
// credentials; commands that log in call Validate.
func Load() (*Config, error) {
	level, err := parseLevel(getEnv("BNI_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	timeout, err := getEnvDuration("BNI_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Config{
		UserID:    getEnv("BNI_USER_ID", ""),
		Password:  getEnv("BNI_PASSWORD", ""),
		BaseURL:   getEnv("BNI_BASE_URL", defaultBaseURL),
		Timeout:   timeout,
		LogLevel:  level,
		LogFormat: strings.ToLower(getEnv("BNI_LOG_FORMAT", FormatText)),
		RecordHAR: getEnv("BNI_RECORD_HAR", ""),
		DumpDir:   getEnv("BNI_DUMP_DIR", ""),
	}

	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// check validates everything except the credentials.
func (c *Config) check() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BNI_BASE_URL must be an absolute URL, got %q", c.BaseURL)
	}
	if c.LogFormat != FormatText && c.LogFormat != FormatJSON {
		return fmt.Errorf("BNI_LOG_FORMAT must be %q or %q", FormatText, FormatJSON)
	}
	if c.Timeout < 0 {
		return errors.New("BNI_TIMEOUT cannot be negative")
	}
	return nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.UserID == "" {
		return errors.New("BNI_USER_ID cannot be empty")
	}
	if c.Password == "" {
		return errors.New("BNI_PASSWORD cannot be empty")
	}
	return c.check()
}

// Logger builds the slog logger described by the configuration.
func (c *Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == FormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("BNI_LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	// Bare numbers are seconds.
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return 0, fmt.Errorf("%s must be a duration like 30s or a number of seconds, got %q", key, value)
}
