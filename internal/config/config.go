// ABOUTME: Fitness configuration loaded from a JSON file and the environment.
// ABOUTME: Environment variables override file values; the result is passed explicitly.

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/harperreed/fitness/internal/storage"
)

// Config stores fitness tool configuration.
type Config struct {
	// DataDir is the directory holding fitness.db.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/fitness.
	DataDir string `json:"data_dir,omitempty" env:"FITNESS_DATA_DIR"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty" env:"FITNESS_LOG_LEVEL"`

	// Seed inserts the sample exercise catalog on startup.
	Seed bool `json:"seed,omitempty" env:"FITNESS_SEED"`

	// HTTPAddr is where `fitness serve` listens.
	HTTPAddr string `json:"http_addr,omitempty" env:"FITNESS_HTTP_ADDR"`
}

// DefaultHTTPAddr is used when HTTPAddr is unset.
const DefaultHTTPAddr = "127.0.0.1:8080"

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the SQLite file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), storage.Current.Name)
}

// GetHTTPAddr returns the listen address, defaulting to DefaultHTTPAddr.
func (c *Config) GetHTTPAddr() string {
	if c.HTTPAddr == "" {
		return DefaultHTTPAddr
	}
	return c.HTTPAddr
}

// GetLogLevel parses LogLevel, defaulting to warn.
func (c *Config) GetLogLevel() (log.Level, error) {
	if c.LogLevel == "" {
		return log.WarnLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return log.WarnLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// NewLogger builds the process logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) (*log.Logger, error) {
	level, err := c.GetLogLevel()
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "fitness",
		ReportTimestamp: level == log.DebugLevel,
	}), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fitness", "config.json")
}

// Load reads config from disk, then applies environment overrides.
// A missing file is not an error.
func Load() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(GetConfigPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv overlays environment variables onto target. Unset variables leave
// fields untouched.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
