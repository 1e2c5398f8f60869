package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the application
type Config struct {
	// Backend configuration
	APIBaseURL string        `toml:"api_url"`
	APITimeout time.Duration `toml:"-"`

	// Logging configuration
	Debug     bool   `toml:"debug"`
	LogFormat string `toml:"log_format"` // "text", "json" or empty for the command default

	// Digest server configuration
	Port           string `toml:"port"`
	ReportSchedule string `toml:"report_schedule"` // "daily" or "weekly"
	TimeZone       string `toml:"timezone"`

	// Snapshot storage configuration
	StorageBackend   string `toml:"storage_backend"` // "sqlite" or "azure"
	SQLitePath       string `toml:"sqlite_path"`
	StorageAccount   string `toml:"storage_account"`
	StorageContainer string `toml:"storage_container"`

	// Notification configuration
	TeamsWebhookURL   string `toml:"teams_webhook_url"`
	NotificationEmail string `toml:"notification_email"`
	SMTPHost          string `toml:"smtp_host"`
	SMTPPort          int    `toml:"smtp_port"`
	SMTPUsername      string `toml:"smtp_username"`
	SMTPPassword      string `toml:"smtp_password"`

	// Alert when a digest window holds at least this many negative mentions
	NegativeAlertThreshold int `toml:"negative_alert_threshold"`

	// Seconds, mirrored into APITimeout
	APITimeoutSeconds int `toml:"api_timeout_seconds"`
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		APIBaseURL:             "http://127.0.0.1:8000",
		APITimeoutSeconds:      30,
		Port:                   "8080",
		ReportSchedule:         "daily",
		TimeZone:               "UTC",
		StorageBackend:         "sqlite",
		SQLitePath:             filepath.Join(DefaultHome(), "digests.db"),
		StorageContainer:       "digests",
		SMTPPort:               587,
		NegativeAlertThreshold: 10,
	}
}

// DefaultHome returns the directory holding the config file and local data.
// Respects MONITORX_HOME.
func DefaultHome() string {
	if h := os.Getenv("MONITORX_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".monitorx"
	}
	return filepath.Join(home, ".monitorx")
}

// Load builds the configuration from defaults, an optional TOML file and
// environment variables, in that order of precedence. An empty path falls
// back to MONITORX_CONFIG, then to config.toml in the home directory; only
// an explicitly named file is required to exist.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("MONITORX_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = filepath.Join(DefaultHome(), "config.toml")
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.APITimeout = time.Duration(cfg.APITimeoutSeconds) * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.APIBaseURL = getEnv("MONITORX_API_URL", c.APIBaseURL)
	c.APITimeoutSeconds = getIntEnv("API_TIMEOUT", c.APITimeoutSeconds)
	c.Debug = getBoolEnv("DEBUG", c.Debug)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	c.Port = getEnv("PORT", c.Port)
	c.ReportSchedule = getEnv("REPORT_SCHEDULE", c.ReportSchedule)
	c.TimeZone = getEnv("TIMEZONE", c.TimeZone)

	c.StorageBackend = getEnv("STORAGE_BACKEND", c.StorageBackend)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.StorageAccount = getEnv("AZURE_STORAGE_ACCOUNT", c.StorageAccount)
	c.StorageContainer = getEnv("AZURE_STORAGE_CONTAINER", c.StorageContainer)

	c.TeamsWebhookURL = getEnv("TEAMS_WEBHOOK_URL", c.TeamsWebhookURL)
	c.NotificationEmail = getEnv("NOTIFICATION_EMAIL", c.NotificationEmail)
	c.SMTPHost = getEnv("SMTP_HOST", c.SMTPHost)
	c.SMTPPort = getIntEnv("SMTP_PORT", c.SMTPPort)
	c.SMTPUsername = getEnv("SMTP_USERNAME", c.SMTPUsername)
	c.SMTPPassword = getEnv("SMTP_PASSWORD", c.SMTPPassword)

	c.NegativeAlertThreshold = getIntEnv("NEGATIVE_ALERT_THRESHOLD", c.NegativeAlertThreshold)
}

// Validate checks the settings every command relies on
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("MONITORX_API_URL must be an http(s) URL, got %q", c.APIBaseURL)
	}

	if c.APITimeoutSeconds <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json'")
	}

	if c.ReportSchedule != "daily" && c.ReportSchedule != "weekly" {
		return fmt.Errorf("REPORT_SCHEDULE must be 'daily' or 'weekly'")
	}

	return nil
}

// ValidateDigest checks the settings needed by the digest service
func (c *Config) ValidateDigest() error {
	if c.TeamsWebhookURL == "" && c.NotificationEmail == "" {
		return fmt.Errorf("at least one notification method must be configured (TEAMS_WEBHOOK_URL or NOTIFICATION_EMAIL)")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	switch c.StorageBackend {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite storage backend")
		}
	case "azure":
		if c.StorageAccount == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT is required for the azure storage backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be 'sqlite' or 'azure'")
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("TIMEZONE %q is not a valid location: %w", c.TimeZone, err)
	}

	return nil
}

// Location returns the configured time zone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
