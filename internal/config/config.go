// Package config reads automa client settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultURL is the address of a locally running automa service.
const DefaultURL = "http://localhost:7999"

type Config struct {
	URL           string         // AUTOMA_URL (default "http://localhost:7999")
	StateDir      string         // AUTOMA_STATE_DIR (default "~/.local/state/automa")
	NATSURL       string         // AUTOMA_NATS_URL (optional, empty = poll)
	WatchInterval time.Duration  // AUTOMA_WATCH_INTERVAL (default 5s)
	Location      *time.Location // AUTOMA_TIMEZONE (default system local)

	// Export settings
	ExportS3Bucket   string // AUTOMA_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Key      string // AUTOMA_EXPORT_S3_KEY (default "automa/snapshot.jsonl")
	ExportS3Region   string // AUTOMA_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Endpoint string // AUTOMA_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
}

func Load() (*Config, error) {
	c := &Config{
		URL:              envOrDefault("AUTOMA_URL", DefaultURL),
		StateDir:         os.Getenv("AUTOMA_STATE_DIR"),
		NATSURL:          os.Getenv("AUTOMA_NATS_URL"),
		ExportS3Bucket:   os.Getenv("AUTOMA_EXPORT_S3_BUCKET"),
		ExportS3Key:      envOrDefault("AUTOMA_EXPORT_S3_KEY", "automa/snapshot.jsonl"),
		ExportS3Region:   envOrDefault("AUTOMA_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Endpoint: os.Getenv("AUTOMA_EXPORT_S3_ENDPOINT"),
		Location:         time.Local,
	}

	if c.StateDir == "" {
		dir, err := defaultStateDir()
		if err != nil {
			return nil, err
		}
		c.StateDir = dir
	}

	d, err := time.ParseDuration(envOrDefault("AUTOMA_WATCH_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("AUTOMA_WATCH_INTERVAL: %w", err)
	}
	if d <= 0 {
		return nil, fmt.Errorf("AUTOMA_WATCH_INTERVAL: must be positive, got %s", d)
	}
	c.WatchInterval = d

	if tz := os.Getenv("AUTOMA_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("AUTOMA_TIMEZONE: %w", err)
		}
		c.Location = loc
	}

	return c, nil
}

// SessionPath is the file holding the persisted session token.
func (c *Config) SessionPath() string {
	return filepath.Join(c.StateDir, "session.toml")
}

// defaultStateDir follows XDG_STATE_HOME, falling back to ~/.local/state.
func defaultStateDir() (string, error) {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "automa"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating state directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "automa"), nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
