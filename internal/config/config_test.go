package config

import (
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"API_BASE_URL", "AUTH_BASE_URL", "HTTP_TIMEOUT_SECONDS", "LEGALAID_DATA_DIR", "LOG_FILE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEGALAID_DATA_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.AuthURL != cfg.API.BaseURL {
		t.Errorf("AuthURL = %q, want base URL", cfg.API.AuthURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Log.File != filepath.Join(cfg.DataDir, "legalaid.log") {
		t.Errorf("log file %q outside data dir %q", cfg.Log.File, cfg.DataDir)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("AUTH_BASE_URL", "https://auth.example.com")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("LEGALAID_DATA_DIR", "/var/lib/legalaid")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.AuthURL != "https://auth.example.com" {
		t.Errorf("AuthURL = %q", cfg.API.AuthURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.DataDir != "/var/lib/legalaid" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEGALAID_DATA_DIR", t.TempDir())

	for _, value := range []string{"abc", "0", "-3"} {
		t.Setenv("HTTP_TIMEOUT_SECONDS", value)
		if _, err := Load(); err == nil {
			t.Errorf("Load accepted HTTP_TIMEOUT_SECONDS=%q", value)
		}
	}
}

func TestParseOptionalIntEnv(t *testing.T) {
	clearEnv(t)

	if val, err := parseOptionalIntEnv("HTTP_TIMEOUT_SECONDS"); err != nil || val != nil {
		t.Errorf("unset key: val=%v err=%v", val, err)
	}

	t.Setenv("HTTP_TIMEOUT_SECONDS", " 42 ")
	val, err := parseOptionalIntEnv("HTTP_TIMEOUT_SECONDS")
	if err != nil || val == nil || *val != 42 {
		t.Errorf("padded value: val=%v err=%v", val, err)
	}
}
