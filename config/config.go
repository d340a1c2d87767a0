// Package config loads nayam configuration.
// Source priority (highest to lowest):
// 1. Command-line flags (applied by the caller)
// 2. Environment variables (NAYAM_*, OTEL_EXPORTER_OTLP_ENDPOINT), including .env
// 3. Config file path given via --config, else ~/.config/nayam/config.yaml
// 4. Defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aravindadityxa/nayamai/api"
	"github.com/aravindadityxa/nayamai/kv"
)

const (
	DefaultBridgeAddr     = "127.0.0.1:8080"
	DefaultRequestTimeout = 30 * time.Second
)

// BridgeConfig holds settings for the local WebSocket bridge.
type BridgeConfig struct {
	Addr string `yaml:"addr"`
	// Token authenticates bridge clients. Empty means one is generated at
	// startup.
	Token string `yaml:"token"`
}

// Config is the complete nayam configuration.
type Config struct {
	BackendURL string `yaml:"backend_url"`

	// RequestTimeout bounds each backend call, e.g. "30s".
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// DataDir holds durable client state and the log file.
	DataDir string `yaml:"data_dir"`

	// Storage: "file" (default) | "sqlite" | "memory"
	Storage string `yaml:"storage"`

	Bridge BridgeConfig `yaml:"bridge"`

	// OTLPEndpoint enables trace export when set (host:port or URL).
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	DevMode bool `yaml:"dev_mode"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:     api.DefaultBaseURL,
		RequestTimeout: DefaultRequestTimeout,
		DataDir:        DefaultDataDir(),
		Storage:        kv.BackendFile,
		Bridge:         BridgeConfig{Addr: DefaultBridgeAddr},
	}
}

// DefaultDataDir is ~/.local/share/nayam, or ./.nayam when the home
// directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nayam"
	}
	return filepath.Join(home, ".local", "share", "nayam")
}

// DefaultPath returns ~/.config/nayam/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "nayam", "config.yaml")
}

// Load reads the config file and merges environment overrides. A missing
// file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		configPath = DefaultPath()
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read config file %s: %w", configPath, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := env("NAYAM_BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := env("NAYAM_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		} else {
			slog.Warn("ignoring invalid NAYAM_REQUEST_TIMEOUT", "value", v, "error", err)
		}
	}
	if v := env("NAYAM_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := env("NAYAM_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := env("NAYAM_BRIDGE_ADDR"); v != "" {
		cfg.Bridge.Addr = v
	}
	if v := env("NAYAM_BRIDGE_TOKEN"); v != "" {
		cfg.Bridge.Token = v
	}
	if v := env("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := env("NAYAM_DEV_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DevMode = b
		}
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Storage {
	case kv.BackendFile, kv.BackendSQLite, kv.BackendMemory:
	default:
		return fmt.Errorf("invalid storage %q (want file, sqlite or memory)", c.Storage)
	}
	if c.BackendURL == "" {
		return errors.New("backend_url must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Storage != kv.BackendMemory && c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	return nil
}

// Save writes cfg as YAML to path, creating its directory. The file may
// hold the bridge token, so it is private to the user.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return errors.New("no config path")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
