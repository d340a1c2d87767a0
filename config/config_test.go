package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aravindadityxa/nayamai/api"
	"github.com/aravindadityxa/nayamai/kv"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"NAYAM_BACKEND_URL", "NAYAM_DATA_DIR", "NAYAM_STORAGE", "NAYAM_REQUEST_TIMEOUT",
		"NAYAM_BRIDGE_ADDR", "NAYAM_BRIDGE_TOKEN", "NAYAM_DEV_MODE",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BackendURL != api.DefaultBaseURL {
		t.Errorf("expected default backend %q, got %q", api.DefaultBaseURL, cfg.BackendURL)
	}
	if cfg.Storage != kv.BackendFile {
		t.Errorf("expected file storage, got %q", cfg.Storage)
	}
	if cfg.Bridge.Addr != DefaultBridgeAddr {
		t.Errorf("expected bridge addr %q, got %q", DefaultBridgeAddr, cfg.Bridge.Addr)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("expected timeout %s, got %s", DefaultRequestTimeout, cfg.RequestTimeout)
	}
	if cfg.DataDir == "" {
		t.Error("expected a default data dir")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.BackendURL != api.DefaultBaseURL {
		t.Errorf("expected default backend, got %q", cfg.BackendURL)
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
backend_url: https://api.nayam.example
data_dir: /tmp/nayam-test
storage: sqlite
bridge:
  addr: 0.0.0.0:9000
  token: file-token
otlp_endpoint: localhost:4318
dev_mode: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BackendURL != "https://api.nayam.example" {
		t.Errorf("backend = %q", cfg.BackendURL)
	}
	if cfg.Storage != kv.BackendSQLite {
		t.Errorf("storage = %q", cfg.Storage)
	}
	if cfg.Bridge.Addr != "0.0.0.0:9000" || cfg.Bridge.Token != "file-token" {
		t.Errorf("bridge = %+v", cfg.Bridge)
	}
	if cfg.OTLPEndpoint != "localhost:4318" || !cfg.DevMode {
		t.Errorf("unexpected otlp/dev: %q %v", cfg.OTLPEndpoint, cfg.DevMode)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("bridge: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend_url: https://from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NAYAM_BACKEND_URL", "https://from-env")
	t.Setenv("NAYAM_STORAGE", "memory")
	t.Setenv("NAYAM_BRIDGE_TOKEN", "env-token")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("NAYAM_DEV_MODE", "true")
	t.Setenv("NAYAM_REQUEST_TIMEOUT", "45s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BackendURL != "https://from-env" {
		t.Errorf("env should win over file, got %q", cfg.BackendURL)
	}
	if cfg.Storage != kv.BackendMemory {
		t.Errorf("storage = %q", cfg.Storage)
	}
	if cfg.Bridge.Token != "env-token" {
		t.Errorf("token = %q", cfg.Bridge.Token)
	}
	if cfg.OTLPEndpoint != "collector:4318" {
		t.Errorf("otlp = %q", cfg.OTLPEndpoint)
	}
	if !cfg.DevMode {
		t.Error("expected dev mode from env")
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("timeout = %s", cfg.RequestTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown storage", func(c *Config) { c.Storage = "redis" }, true},
		{"empty backend", func(c *Config) { c.BackendURL = "" }, true},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"memory without data dir", func(c *Config) { c.Storage = kv.BackendMemory; c.DataDir = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.BackendURL = "https://nayam.example"
	cfg.Storage = kv.BackendSQLite
	cfg.Bridge.Token = "secret"
	cfg.RequestTimeout = 5 * time.Second
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.BackendURL != cfg.BackendURL || loaded.Storage != cfg.Storage || loaded.Bridge.Token != "secret" || loaded.RequestTimeout != 5*time.Second {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}
