package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file,
// with environment variable overrides applied on top.
type Config struct {
	Plex     PlexConfig     `toml:"plex"`
	Schedule ScheduleConfig `toml:"schedule"`
	Sync     SyncConfig     `toml:"sync"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

// PlexConfig contains the Plex Media Server connection settings.
type PlexConfig struct {
	Host  string `toml:"host"`
	Token string `toml:"token"`
}

// ScheduleConfig contains the recurring execution settings.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression. Empty means run once.
	Cron string `toml:"cron"`
}

// SyncConfig tunes the per-batch worker pool and the request rate against
// the server.
type SyncConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// DatabaseConfig contains the run-history database settings.
// An empty path disables history recording.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoggingConfig contains log file settings.
type LoggingConfig struct {
	// Dir is the log file directory. Empty logs to stderr only.
	Dir string `toml:"dir"`
	// RetentionDays controls how long rotated-out log files are kept.
	RetentionDays int `toml:"retention_days"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with defaults from the embedded example
// config, plus environment overrides. Used when no config file exists, which
// keeps an env-only deployment (container) working without a file.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// applyEnv overlays the environment variables the original deployment used.
func (c *Config) applyEnv() {
	if host := os.Getenv("PLEX_HOST"); host != "" {
		c.Plex.Host = host
	}
	if token := os.Getenv("PLEX_TOKEN"); token != "" {
		c.Plex.Token = token
	}
	if cron := os.Getenv("CRON_SCHEDULE"); cron != "" {
		c.Schedule.Cron = cron
	}
	if days := os.Getenv("LOG_RETENTION_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil {
			c.Logging.RetentionDays = n
		}
	}
}

// Validate checks mandatory settings. Missing host or token is fatal at
// startup; the process must not begin a pass without them.
func (c *Config) Validate() error {
	if c.Plex.Host == "" {
		return fmt.Errorf("%w: plex host is required", ErrInvalidConfig)
	}
	if c.Plex.Token == "" {
		return fmt.Errorf("%w: plex token is required", ErrInvalidConfig)
	}
	if c.Sync.Workers < 0 {
		return fmt.Errorf("%w: sync workers must not be negative", ErrInvalidConfig)
	}
	if c.Sync.RateLimit < 0 {
		return fmt.Errorf("%w: sync rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
