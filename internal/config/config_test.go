package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":9090")
	}
	if cfg.LLMMode != "auto" {
		t.Fatalf("LLMMode = %q, want %q", cfg.LLMMode, "auto")
	}
	if cfg.LLMURL != "" {
		t.Fatalf("LLMURL = %q, want empty default", cfg.LLMURL)
	}
	if cfg.DefaultLanguage != "hi" {
		t.Fatalf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "hi")
	}
	if cfg.MaxMessageChars != 5000 {
		t.Fatalf("MaxMessageChars = %d, want 5000", cfg.MaxMessageChars)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("SessionTTL = %v, want 30m", cfg.SessionTTL)
	}
}

func TestLoadUsesExplicitValues(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("LLM_URL", "http://localhost:7777/generate")
	t.Setenv("APP_SESSION_TTL", "10m")
	t.Setenv("APP_HISTORY_LIMIT", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLMURL != "http://localhost:7777/generate" {
		t.Fatalf("LLMURL = %q, want explicit value", cfg.LLMURL)
	}
	if cfg.SessionTTL != 10*time.Minute {
		t.Fatalf("SessionTTL = %v, want 10m", cfg.SessionTTL)
	}
	if cfg.HistoryLimit != 6 {
		t.Fatalf("HistoryLimit = %d, want 6", cfg.HistoryLimit)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_SESSION_TTL", "1s")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() with 1s session TTL should fail")
	}

	setCoreEnvEmpty(t)
	t.Setenv("APP_MAX_MESSAGE_CHARS", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() with non-numeric max message chars should fail")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_DEFAULT_LANGUAGE",
		"APP_MAX_MESSAGE_CHARS",
		"APP_HISTORY_LIMIT",
		"APP_SESSION_TTL",
		"APP_SESSION_SWEEP_INTERVAL",
		"APP_MAX_SESSIONS",
		"APP_ALLOW_ANY_ORIGIN",
		"LLM_MODE",
		"LLM_URL",
		"LLM_TIMEOUT",
		"LLM_RETRIES",
		"TRANSLATE_URL",
		"TRANSLATE_TIMEOUT",
		"TRANSLATE_RETRIES",
		"DATABASE_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
