package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annumhq/annum/internal/config"
)

func setupTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ANNUM_URL", "")
	t.Setenv("ANNUM_ANON_KEY", "")
	t.Setenv("ANNUM_TOKEN_FILE", "")
	return home
}

func writeConfig(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadNotFound(t *testing.T) {
	setupTestHome(t)
	tmpDir := t.TempDir()

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Backend.URL != "" {
		t.Errorf("expected empty backend URL, got %q", cfg.Backend.URL)
	}
	if cfg.Serve.Addr != config.DefaultServeAddr {
		t.Errorf("expected default serve addr, got %q", cfg.Serve.Addr)
	}
}

func TestLoadGlobal(t *testing.T) {
	home := setupTestHome(t)
	writeConfig(t, filepath.Join(home, ".config", "annum", "config.toml"), `
[backend]
url = "https://example.supabase.co"
anon-key = "anon-abc"

[auth]
token-file = "/tmp/annum-token.json"
`)

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.URL != "https://example.supabase.co" {
		t.Errorf("expected backend URL from global config, got %q", cfg.Backend.URL)
	}
	if cfg.Backend.AnonKey != "anon-abc" {
		t.Errorf("expected anon key from global config, got %q", cfg.Backend.AnonKey)
	}
	if cfg.Auth.TokenFile != "/tmp/annum-token.json" {
		t.Errorf("expected token file from global config, got %q", cfg.Auth.TokenFile)
	}
}

func TestLocalOverridesGlobal(t *testing.T) {
	home := setupTestHome(t)
	writeConfig(t, filepath.Join(home, ".config", "annum", "config.toml"), `
[backend]
url = "https://global.example"
anon-key = "anon-global"
`)

	localDir := t.TempDir()
	writeConfig(t, filepath.Join(localDir, "annum.toml"), `
[backend]
url = "https://local.example"
`)

	cfg, err := config.Load(localDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.URL != "https://local.example" {
		t.Errorf("expected local URL to win, got %q", cfg.Backend.URL)
	}
	if cfg.Backend.AnonKey != "anon-global" {
		t.Errorf("expected global anon key to survive, got %q", cfg.Backend.AnonKey)
	}
}

func TestEnvOverrides(t *testing.T) {
	home := setupTestHome(t)
	writeConfig(t, filepath.Join(home, ".config", "annum", "config.toml"), `
[backend]
url = "https://file.example"
`)
	t.Setenv("ANNUM_URL", "https://env.example")

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.URL != "https://env.example" {
		t.Errorf("expected env override to win, got %q", cfg.Backend.URL)
	}
}
