package config

import (
	"path/filepath"
	"testing"
	"time"
)

// exportEnvVars lists all export-related env vars that must be cleared between tests.
var exportEnvVars = []string{
	"AUTOMA_EXPORT_S3_BUCKET", "AUTOMA_EXPORT_S3_KEY",
	"AUTOMA_EXPORT_S3_REGION", "AUTOMA_EXPORT_S3_ENDPOINT",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"AUTOMA_URL", "AUTOMA_STATE_DIR", "AUTOMA_NATS_URL", "AUTOMA_WATCH_INTERVAL", "AUTOMA_TIMEZONE", "XDG_STATE_HOME"} {
		t.Setenv(key, "")
	}
	for _, key := range exportEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name        string
		env         map[string]string
		wantErr     bool
		wantURL     string
		wantNATSURL string
		wantState   string
	}{
		{
			name:      "Defaults",
			env:       map[string]string{"XDG_STATE_HOME": "/xdg"},
			wantURL:   "http://localhost:7999",
			wantState: "/xdg/automa",
		},
		{
			name: "Custom",
			env: map[string]string{
				"AUTOMA_URL":       "https://automa.example.com",
				"AUTOMA_STATE_DIR": "/var/lib/automa",
				"AUTOMA_NATS_URL":  "nats://localhost:4222",
			},
			wantURL:     "https://automa.example.com",
			wantNATSURL: "nats://localhost:4222",
			wantState:   "/var/lib/automa",
		},
		{
			name:    "BadInterval",
			env:     map[string]string{"AUTOMA_WATCH_INTERVAL": "soon"},
			wantErr: true,
		},
		{
			name:    "ZeroInterval",
			env:     map[string]string{"AUTOMA_WATCH_INTERVAL": "0s"},
			wantErr: true,
		},
		{
			name:    "BadTimezone",
			env:     map[string]string{"AUTOMA_TIMEZONE": "Mars/Olympus"},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.URL != tc.wantURL {
				t.Errorf("URL = %q, want %q", cfg.URL, tc.wantURL)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
			if cfg.StateDir != tc.wantState {
				t.Errorf("StateDir = %q, want %q", cfg.StateDir, tc.wantState)
			}
		})
	}
}

func TestLoad_HomeStateDir(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("HOME", "/home/tester")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join("/home/tester", ".local", "state", "automa"); cfg.StateDir != want {
		t.Errorf("StateDir = %q, want %q", cfg.StateDir, want)
	}
	if cfg.SessionPath() != filepath.Join(cfg.StateDir, "session.toml") {
		t.Errorf("SessionPath() = %q", cfg.SessionPath())
	}
}

func TestLoad_WatchAndTimezone(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WatchInterval != 5*time.Second {
		t.Errorf("WatchInterval = %v, want 5s", cfg.WatchInterval)
	}
	if cfg.Location != time.Local {
		t.Errorf("Location = %v, want Local", cfg.Location)
	}

	t.Setenv("AUTOMA_WATCH_INTERVAL", "30s")
	t.Setenv("AUTOMA_TIMEZONE", "UTC")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WatchInterval != 30*time.Second {
		t.Errorf("WatchInterval = %v, want 30s", cfg.WatchInterval)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("Location = %v, want UTC", cfg.Location)
	}
}

func TestLoad_ExportDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExportS3Bucket != "" {
		t.Errorf("ExportS3Bucket = %q, want empty", cfg.ExportS3Bucket)
	}
	if cfg.ExportS3Key != "automa/snapshot.jsonl" {
		t.Errorf("ExportS3Key = %q", cfg.ExportS3Key)
	}
	if cfg.ExportS3Region != "us-east-1" {
		t.Errorf("ExportS3Region = %q", cfg.ExportS3Region)
	}

	t.Setenv("AUTOMA_EXPORT_S3_BUCKET", "backups")
	t.Setenv("AUTOMA_EXPORT_S3_ENDPOINT", "http://minio:9000")
	cfg, _ = Load()
	if cfg.ExportS3Bucket != "backups" || cfg.ExportS3Endpoint != "http://minio:9000" {
		t.Errorf("export config = %+v", cfg)
	}
}
