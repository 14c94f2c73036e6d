package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			Host:            "127.0.0.1",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			BrowserRedirect: "https://example.com",
		},
		Database: DatabaseConfig{
			Path:           "./data/test.db",
			MigrationsPath: "file://./migrations",
		},
		Logging: LoggingConfig{Level: "info"},
		YouTube: YouTubeConfig{APIKey: "test-key"},
		Tracker: TrackerConfig{
			Channels:          map[string]string{"furi": "UCb8dLvDvmZ-d92KEy_9oWog"},
			DiscoverySchedule: "30 14,29,44,59 * * * *",
			RefreshSchedule:   "0 0/5 * * * *",
			ChannelSchedule:   "0 0 0/6 * * *",
		},
	}
}

func TestValidate_Success(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.YouTube.APIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestValidate_NoChannels(t *testing.T) {
	cfg := validConfig()
	cfg.Tracker.Channels = nil

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracked channel")
}

func TestValidate_EmptyChannelID(t *testing.T) {
	cfg := validConfig()
	cfg.Tracker.Channels = map[string]string{"furi": ""}

	err := cfg.Validate()
	require.Error(t, err)
}

func TestValidate_BadCronExpression(t *testing.T) {
	cfg := validConfig()
	cfg.Tracker.RefreshSchedule = "every five minutes"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh schedule")
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LIVETRACK_YOUTUBE_APIKEY", "test-key")

	// Channels cannot be provided through a flat env var, so Load fails
	// validation without a config file; defaults must still be applied
	// before validation runs.
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracked channel")
}

func TestLoad_APIKeyFromEnv(t *testing.T) {
	dir := t.TempDir()
	configYAML := []byte("tracker:\n  channels:\n    furi: UCb8dLvDvmZ-d92KEy_9oWog\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), configYAML, 0o600))

	t.Chdir(dir)
	t.Setenv("LIVETRACK_YOUTUBE_APIKEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.YouTube.APIKey)
	assert.Equal(t, map[string]string{"furi": "UCb8dLvDvmZ-d92KEy_9oWog"}, cfg.Tracker.Channels)
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	configYAML := []byte("youtube:\n  apikey: file-key\ntracker:\n  channels:\n    furi: UCb8dLvDvmZ-d92KEy_9oWog\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), configYAML, 0o600))

	t.Chdir(dir)
	t.Setenv("LIVETRACK_YOUTUBE_APIKEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.YouTube.APIKey)
}
