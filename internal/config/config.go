// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	defaultServerPort      = 3000
	defaultServerHost      = "127.0.0.1"
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultBrowserRedirect = "https://github.com/sorekai/livetrack"
	defaultDatabasePath    = "./data/livetrack.db"
	defaultMigrationsPath  = "file://./migrations"
	defaultLogLevel        = "info"
	defaultLogPretty       = false
	envPrefix              = "LIVETRACK"
)

// Cron cadences for the sync jobs. Discovery runs 30 seconds past every
// 14th/29th/44th/59th minute to stay inside the upstream API quota, refresh
// every 5 minutes, channel metadata every 6 hours.
const (
	defaultDiscoverySchedule = "30 14,29,44,59 * * * *"
	defaultRefreshSchedule   = "0 0/5 * * * *"
	defaultChannelSchedule   = "0 0 0/6 * * *"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	YouTube  YouTubeConfig
	Tracker  TrackerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	BrowserRedirect string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path           string
	MigrationsPath string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// YouTubeConfig holds upstream API configuration
type YouTubeConfig struct {
	APIKey string
}

// TrackerConfig holds the tracked channel set and job cadences
type TrackerConfig struct {
	// Channels maps a short alias (usable as a query parameter) to the
	// upstream channel identifier.
	Channels          map[string]string
	DiscoverySchedule string
	RefreshSchedule   string
	ChannelSchedule   string
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/livetrack")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)
	v.SetDefault("server.browserredirect", defaultBrowserRedirect)

	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.migrationspath", defaultMigrationsPath)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	// Viper only surfaces env values for keys it already knows about, so
	// the secret needs an empty default for LIVETRACK_YOUTUBE_APIKEY to
	// be picked up.
	v.SetDefault("youtube.apikey", "")

	v.SetDefault("tracker.discoveryschedule", defaultDiscoverySchedule)
	v.SetDefault("tracker.refreshschedule", defaultRefreshSchedule)
	v.SetDefault("tracker.channelschedule", defaultChannelSchedule)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	if c.YouTube.APIKey == "" {
		return fmt.Errorf("youtube API key is required")
	}

	if len(c.Tracker.Channels) == 0 {
		return fmt.Errorf("at least one tracked channel is required")
	}
	for alias, id := range c.Tracker.Channels {
		if alias == "" || id == "" {
			return fmt.Errorf("tracked channel aliases and ids must be non-empty")
		}
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour |
		cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for name, expr := range map[string]string{
		"discovery": c.Tracker.DiscoverySchedule,
		"refresh":   c.Tracker.RefreshSchedule,
		"channel":   c.Tracker.ChannelSchedule,
	} {
		if _, err := parser.Parse(expr); err != nil {
			return fmt.Errorf("invalid %s schedule %q: %w", name, expr, err)
		}
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
