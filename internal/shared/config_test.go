package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("parses a config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[plex]
host = "http://plex.local:32400"
token = "abc123"

[schedule]
cron = "0 3 * * *"

[sync]
workers = 8
rate_limit = 4.0
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if config.Plex.Host != "http://plex.local:32400" {
			t.Errorf("unexpected host %q", config.Plex.Host)
		}
		if config.Plex.Token != "abc123" {
			t.Errorf("unexpected token %q", config.Plex.Token)
		}
		if config.Schedule.Cron != "0 3 * * *" {
			t.Errorf("unexpected cron %q", config.Schedule.Cron)
		}
		if config.Sync.Workers != 8 || config.Sync.RateLimit != 4.0 {
			t.Errorf("unexpected sync settings: %+v", config.Sync)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("environment overrides file values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[plex]
host = "http://file-host:32400"
token = "file-token"
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		t.Setenv("PLEX_HOST", "http://env-host:32400")
		t.Setenv("PLEX_TOKEN", "env-token")
		t.Setenv("CRON_SCHEDULE", "*/30 * * * *")
		t.Setenv("LOG_RETENTION_DAYS", "14")

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if config.Plex.Host != "http://env-host:32400" {
			t.Errorf("expected env host to win, got %q", config.Plex.Host)
		}
		if config.Plex.Token != "env-token" {
			t.Errorf("expected env token to win, got %q", config.Plex.Token)
		}
		if config.Schedule.Cron != "*/30 * * * *" {
			t.Errorf("expected env cron to win, got %q", config.Schedule.Cron)
		}
		if config.Logging.RetentionDays != 14 {
			t.Errorf("expected retention override, got %d", config.Logging.RetentionDays)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("PLEX_HOST", "")
	t.Setenv("PLEX_TOKEN", "")
	t.Setenv("CRON_SCHEDULE", "")
	t.Setenv("LOG_RETENTION_DAYS", "")

	config := DefaultConfig()

	if config.Sync.Workers != 16 {
		t.Errorf("expected default workers 16, got %d", config.Sync.Workers)
	}
	if config.Sync.RateLimit != 8.0 {
		t.Errorf("expected default rate limit 8.0, got %v", config.Sync.RateLimit)
	}
	if config.Logging.RetentionDays != 7 {
		t.Errorf("expected default retention 7, got %d", config.Logging.RetentionDays)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Plex: PlexConfig{Host: "http://localhost:32400", Token: "token"},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("missing host", func(t *testing.T) {
		config := valid()
		config.Plex.Host = ""
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		config := valid()
		config.Plex.Token = ""
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("negative workers", func(t *testing.T) {
		config := valid()
		config.Sync.Workers = -1
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("writes the example config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected config file to exist: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("generated config must parse: %v", err)
		}
		if config.Sync.Workers != 16 {
			t.Errorf("expected example defaults, got workers %d", config.Sync.Workers)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected an error for an existing config file")
		}
	})
}
