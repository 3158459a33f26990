package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigWithoutFile(t *testing.T) {
	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", origXDG)

	// Set to a temp dir that doesn't have a config
	tempDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tempDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without config file failed: %v", err)
	}

	// Should return default config
	if cfg.APIAddr != "127.0.0.1:7432" {
		t.Errorf("Loaded config APIAddr = %s, want default", cfg.APIAddr)
	}
	if cfg.SocketPath == "" {
		t.Error("Expected default socket path to be set")
	}
}

func TestLoadConfigWithFile(t *testing.T) {
	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", origXDG)

	tempDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tempDir)

	configDir := filepath.Join(tempDir, "lanes")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configContent := `api_addr: "0.0.0.0:9000"
socket_path: "/tmp/custom.sock"
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with config file failed: %v", err)
	}

	if cfg.APIAddr != "0.0.0.0:9000" {
		t.Errorf("APIAddr = %s, want 0.0.0.0:9000", cfg.APIAddr)
	}
	if cfg.SocketPath != "/tmp/custom.sock" {
		t.Errorf("SocketPath = %s, want /tmp/custom.sock", cfg.SocketPath)
	}
	// Unset fields fall back to defaults
	if cfg.APIBaseURL != "http://127.0.0.1:7432" {
		t.Errorf("APIBaseURL = %s, want default", cfg.APIBaseURL)
	}
}

func TestSaveAndReload(t *testing.T) {
	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", origXDG)

	tempDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tempDir)

	cfg := &Config{APIAddr: "127.0.0.1:8111"}
	cfg.applyDefaults()
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after save failed: %v", err)
	}
	if loaded.APIAddr != "127.0.0.1:8111" {
		t.Errorf("APIAddr = %s, want 127.0.0.1:8111", loaded.APIAddr)
	}
}
