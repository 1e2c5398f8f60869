package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config lookup at an empty home so no user file leaks in
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("MONITORX_HOME", dir)
	t.Setenv("MONITORX_CONFIG", "")
	for _, key := range []string{
		"MONITORX_API_URL", "API_TIMEOUT", "DEBUG", "LOG_FORMAT", "PORT",
		"REPORT_SCHEDULE", "TIMEZONE", "STORAGE_BACKEND", "SQLITE_PATH",
		"TEAMS_WEBHOOK_URL", "NOTIFICATION_EMAIL", "NEGATIVE_ALERT_THRESHOLD",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, "daily", cfg.ReportSchedule)
	assert.Equal(t, "sqlite", cfg.StorageBackend)
	assert.Equal(t, filepath.Join(dir, "digests.db"), cfg.SQLitePath)
	assert.Equal(t, 10, cfg.NegativeAlertThreshold)
	assert.Empty(t, cfg.LogFormat)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url = "http://backend:9000"
api_timeout_seconds = 5
report_schedule = "weekly"
negative_alert_threshold = 3
`), 0o600))

	t.Setenv("NEGATIVE_ALERT_THRESHOLD", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, "weekly", cfg.ReportSchedule)
	assert.Equal(t, 7, cfg.NegativeAlertThreshold)
}

func TestLoad_ConfigFromEnvPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "env.toml")
	require.NoError(t, os.WriteFile(path, []byte(`log_format = "json"`), 0o600))
	t.Setenv("MONITORX_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Bad URL", key: "MONITORX_API_URL", value: "ftp://host"},
		{name: "Bad log format", key: "LOG_FORMAT", value: "xml"},
		{name: "Bad schedule", key: "REPORT_SCHEDULE", value: "hourly"},
		{name: "Zero timeout", key: "API_TIMEOUT", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestValidateDigest(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "No notification method",
			modify:  func(c *Config) {},
			wantErr: true,
		},
		{
			name:   "Teams only",
			modify: func(c *Config) { c.TeamsWebhookURL = "https://example.com/hook" },
		},
		{
			name:    "Email without SMTP",
			modify:  func(c *Config) { c.NotificationEmail = "team@example.com" },
			wantErr: true,
		},
		{
			name: "Email with SMTP",
			modify: func(c *Config) {
				c.NotificationEmail = "team@example.com"
				c.SMTPHost = "smtp.example.com"
				c.SMTPUsername = "user"
				c.SMTPPassword = "secret"
			},
		},
		{
			name: "Azure without account",
			modify: func(c *Config) {
				c.TeamsWebhookURL = "https://example.com/hook"
				c.StorageBackend = "azure"
			},
			wantErr: true,
		},
		{
			name: "Unknown storage backend",
			modify: func(c *Config) {
				c.TeamsWebhookURL = "https://example.com/hook"
				c.StorageBackend = "s3"
			},
			wantErr: true,
		},
		{
			name: "Unknown time zone",
			modify: func(c *Config) {
				c.TeamsWebhookURL = "https://example.com/hook"
				c.TimeZone = "Mars/Olympus"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)

			err := cfg.ValidateDigest()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Defaults()
	cfg.TimeZone = "Invalid/Zone"
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.TimeZone = "America/Sao_Paulo"
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
}
