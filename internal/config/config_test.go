// ABOUTME: Tests for fitness configuration management.
// ABOUTME: Covers load, save, env overrides, defaults, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	// GetDataDir with empty DataDir should return storage.DataDir()
	got := cfg.GetDataDir()
	if got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/fitness-test"}
	if got := cfg.GetDataDir(); got != "/tmp/fitness-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/fitness-test")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/fitness-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "fitness-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestDBPath(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/fitness-test"}
	if got := cfg.DBPath(); got != "/tmp/fitness-test/fitness.db" {
		t.Errorf("DBPath() = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/fitness", filepath.Join(home, "data/fitness")},
		{"data/fitness", "data/fitness"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetHTTPAddr(t *testing.T) {
	if got := (&Config{}).GetHTTPAddr(); got != DefaultHTTPAddr {
		t.Errorf("GetHTTPAddr() = %q, want %q", got, DefaultHTTPAddr)
	}
	if got := (&Config{HTTPAddr: ":9000"}).GetHTTPAddr(); got != ":9000" {
		t.Errorf("GetHTTPAddr() = %q, want :9000", got)
	}
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.WarnLevel, false},
		{"debug", log.DebugLevel, false},
		{"INFO", log.InfoLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", log.WarnLevel, true},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		got, err := cfg.GetLogLevel()
		if (err != nil) != tt.wantErr {
			t.Errorf("GetLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("GetLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	cfg := &Config{LogLevel: "chatty"}
	if _, err := cfg.NewLogger(os.Stderr); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.DataDir != "" {
		t.Errorf("Expected empty DataDir, got %q", cfg.DataDir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		DataDir:  "/tmp/fitness-data",
		LogLevel: "info",
		Seed:     true,
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", *loaded, *cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{DataDir: "/from/file", HTTPAddr: ":1111"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv("FITNESS_DATA_DIR", "/from/env")
	t.Setenv("FITNESS_SEED", "true")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.DataDir != "/from/env" {
		t.Errorf("DataDir = %q, want /from/env", loaded.DataDir)
	}
	if !loaded.Seed {
		t.Error("expected Seed from env")
	}
	if loaded.HTTPAddr != ":1111" {
		t.Errorf("HTTPAddr = %q, want the file value", loaded.HTTPAddr)
	}
}

func TestLoadBadEnvValue(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FITNESS_SEED", "sometimes")

	if _, err := Load(); err == nil {
		t.Error("expected error for unparsable FITNESS_SEED")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{LogLevel: "warn"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "fitness")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "fitness")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "fitness", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
