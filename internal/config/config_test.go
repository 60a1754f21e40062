package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if len(cfg.Topics) == 0 {
		t.Error("expected topics to be populated")
	}
	if len(cfg.Topics["tech"]) == 0 {
		t.Error("expected tech topic to have feeds")
	}
	if cfg.Fetch.MaxRequests != 40 {
		t.Errorf("expected max_requests 40, got %d", cfg.Fetch.MaxRequests)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
topics:
  science:
    - https://example.com/science.xml
fetch:
  max_requests: 10
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Fetch.MaxRequests != 10 {
		t.Errorf("expected max_requests 10, got %d", cfg.Fetch.MaxRequests)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Fetch.Timeout != 8*time.Second {
		t.Errorf("expected default timeout 8s, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Brief.MaxSpansPerStory != 3 {
		t.Errorf("expected default span cap 3, got %d", cfg.Brief.MaxSpansPerStory)
	}
	if len(cfg.FeedsForTopic("science")) != 1 {
		t.Error("expected science topic from file")
	}
}

func TestParseDurations(t *testing.T) {
	data := []byte(`
fetch:
  timeout: 12s
  backoff: 250ms
  per_host_interval: 1s
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse durations: %v", err)
	}
	if cfg.Fetch.Timeout != 12*time.Second {
		t.Errorf("expected timeout 12s, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.Backoff != 250*time.Millisecond {
		t.Errorf("expected backoff 250ms, got %v", cfg.Fetch.Backoff)
	}
	if cfg.Fetch.PerHostInterval != time.Second {
		t.Errorf("expected per-host interval 1s, got %v", cfg.Fetch.PerHostInterval)
	}

	if _, err := parse([]byte("fetch:\n  timeout: fast\n")); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NB_MAX_REQUESTS", "7")
	t.Setenv("NB_TIMEOUT", "2.5")
	t.Setenv("NB_UA", "TestBot/1.0")
	t.Setenv("NB_MAX_RETRIES", "5")
	t.Setenv("NB_BACKOFF", "1")

	cfg, err := parse([]byte("{}"))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	if cfg.Fetch.MaxRequests != 7 {
		t.Errorf("expected max_requests 7, got %d", cfg.Fetch.MaxRequests)
	}
	if cfg.Fetch.Timeout != 2500*time.Millisecond {
		t.Errorf("expected timeout 2.5s, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.UserAgent != "TestBot/1.0" {
		t.Errorf("expected overridden UA, got %q", cfg.Fetch.UserAgent)
	}
	if cfg.Fetch.MaxRetries != 5 {
		t.Errorf("expected max_retries 5, got %d", cfg.Fetch.MaxRetries)
	}
	if cfg.Fetch.Backoff != time.Second {
		t.Errorf("expected backoff 1s, got %v", cfg.Fetch.Backoff)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Topics) == 0 {
		t.Error("expected topics to be populated from file")
	}
}

func TestLabelForDomain(t *testing.T) {
	cfg := &Config{Labels: map[string][]string{
		"tech":    {"example.com", "tech.example.org"},
		"climate": {"green.example.net"},
	}}

	if got := cfg.LabelForDomain("tech.example.org"); got != "tech" {
		t.Errorf("expected 'tech', got %q", got)
	}
	if got := cfg.LabelForDomain("green.example.net"); got != "climate" {
		t.Errorf("expected 'climate', got %q", got)
	}
	if got := cfg.LabelForDomain("unknown.example"); got != "general" {
		t.Errorf("expected 'general', got %q", got)
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	if cfg.GetDataDir() == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}
