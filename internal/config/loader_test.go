package config

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "hello")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "hello"},
		{"${TEST_VAR:default}", "hello"},
		{"${UNSET_VAR:fallback}", "fallback"},
		{"${UNSET_VAR}", ""},
		{"no vars here", "no vars here"},
		{"prefix-${TEST_VAR}-suffix", "prefix-hello-suffix"},
	}

	for _, tt := range tests {
		got := expandEnvVars(tt.input)
		if got != tt.expected {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoadFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
server:
  host: "0.0.0.0"
  port: 9999
upstream:
  chat_url: "https://lambda.example.com/chat"
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	var cfg Config
	if err := LoadFile(tmpFile.Name(), &cfg); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Upstream.ChatURL != "https://lambda.example.com/chat" {
		t.Errorf("unexpected chat url %s", cfg.Upstream.ChatURL)
	}
}

func TestLoadFile_WithEnvVars(t *testing.T) {
	os.Setenv("TEST_PORT", "7777")
	defer os.Unsetenv("TEST_PORT")

	tmpFile, err := os.CreateTemp("", "test-config-env-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
server:
  host: "${TEST_HOST:127.0.0.1}"
  port: ${TEST_PORT}
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	var cfg Config
	if err := LoadFile(tmpFile.Name(), &cfg); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1 (default), got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("expected port 7777, got %d", cfg.Server.Port)
	}
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	l := NewLoader(dir, logger)
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed for missing file: %v", err)
	}

	cfg := l.Config()
	if cfg.Upstream.Timeout != 55*time.Second {
		t.Errorf("expected default upstream timeout 55s, got %s", cfg.Upstream.Timeout)
	}
	if cfg.Storage.MaxUploadBytes != 5<<20 {
		t.Errorf("expected default max upload 5MiB, got %d", cfg.Storage.MaxUploadBytes)
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	os.Setenv("UPSTREAM_CHAT_URL", "https://api.example.com/invoke")
	os.Setenv("UPSTREAM_TIMEOUT_MS", "30000")
	defer os.Unsetenv("UPSTREAM_CHAT_URL")
	defer os.Unsetenv("UPSTREAM_TIMEOUT_MS")

	cfg := DefaultConfig()
	applyEnv(cfg)

	if cfg.Upstream.ChatURL != "https://api.example.com/invoke" {
		t.Errorf("expected env chat url, got %s", cfg.Upstream.ChatURL)
	}
	if cfg.Upstream.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s from env, got %s", cfg.Upstream.Timeout)
	}
}

func TestApplyEnv_IgnoresInvalidTimeout(t *testing.T) {
	os.Setenv("UPSTREAM_TIMEOUT_MS", "not-a-number")
	defer os.Unsetenv("UPSTREAM_TIMEOUT_MS")

	cfg := DefaultConfig()
	applyEnv(cfg)

	if cfg.Upstream.Timeout != 55*time.Second {
		t.Errorf("expected default timeout kept, got %s", cfg.Upstream.Timeout)
	}
}
