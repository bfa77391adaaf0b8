package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mintu3770/task-planner/internal/plan"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Model != "sonnet" {
		t.Errorf("expected default model sonnet, got %q", cfg.Model)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %s", cfg.Timeout)
	}
	if cfg.Retries != 0 {
		t.Errorf("retries should default to 0, got %d", cfg.Retries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "model: opus\ntimeout: 90s\nretries: 2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "opus" {
		t.Errorf("expected model opus, got %q", cfg.Model)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("expected 90s timeout, got %s", cfg.Timeout)
	}
	if cfg.Retries != 2 {
		t.Errorf("expected 2 retries, got %d", cfg.Retries)
	}
	// Unset fields keep defaults
	if cfg.MaxTokens != Default().MaxTokens {
		t.Errorf("expected default max_tokens, got %d", cfg.MaxTokens)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !plan.IsKind(err, plan.KindConfig) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestLoad_BadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timeout: soonish\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !plan.IsKind(err, plan.KindConfig) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestResolveAPIKey_Missing(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	cfg := Default()
	err := cfg.ResolveAPIKey()
	if !plan.IsKind(err, plan.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestResolveAPIKey_FromEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "sk-test")

	cfg := Default()
	if err := cfg.ResolveAPIKey(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("expected key from env, got %q", cfg.APIKey)
	}
}

func TestValidate_RetriesCapped(t *testing.T) {
	cfg := Default()
	cfg.Retries = 10
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Retries != 3 {
		t.Errorf("expected retries capped at 3, got %d", cfg.Retries)
	}
}
