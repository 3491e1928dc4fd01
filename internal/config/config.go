package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the triage service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string
	AllowAnyOrigin   bool

	DefaultLanguage string
	MaxMessageChars int
	HistoryLimit    int

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	MaxSessions          int

	LLMMode          string
	LLMURL           string
	LLMTimeout       time.Duration
	LLMRetries       int
	TranslateURL     string
	TranslateTimeout time.Duration
	TranslateRetries int

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:             envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:     envOrDefault("APP_METRICS_NAMESPACE", "triage"),
		DefaultLanguage:      envOrDefault("APP_DEFAULT_LANGUAGE", "hi"),
		MaxMessageChars:      5000,
		HistoryLimit:         20,
		SessionTTL:           30 * time.Minute,
		SessionSweepInterval: time.Minute,
		MaxSessions:          10000,
		LLMMode:              envOrDefault("LLM_MODE", "auto"),
		LLMURL:               stringsTrimSpace("LLM_URL"),
		LLMTimeout:           60 * time.Second,
		LLMRetries:           1,
		TranslateURL:         stringsTrimSpace("TRANSLATE_URL"),
		TranslateTimeout:     10 * time.Second,
		TranslateRetries:     1,
		DatabaseURL:          stringsTrimSpace("DATABASE_URL"),
		ShutdownTimeout:      15 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL, err = durationFromEnv("APP_SESSION_TTL", cfg.SessionTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionSweepInterval, err = durationFromEnv("APP_SESSION_SWEEP_INTERVAL", cfg.SessionSweepInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMTimeout, err = durationFromEnv("LLM_TIMEOUT", cfg.LLMTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.TranslateTimeout, err = durationFromEnv("TRANSLATE_TIMEOUT", cfg.TranslateTimeout)
	if err != nil {
		return Config{}, err
	}

	cfg.MaxMessageChars, err = intFromEnv("APP_MAX_MESSAGE_CHARS", cfg.MaxMessageChars)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryLimit, err = intFromEnv("APP_HISTORY_LIMIT", cfg.HistoryLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxSessions, err = intFromEnv("APP_MAX_SESSIONS", cfg.MaxSessions)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMRetries, err = intFromEnv("LLM_RETRIES", cfg.LLMRetries)
	if err != nil {
		return Config{}, err
	}
	cfg.TranslateRetries, err = intFromEnv("TRANSLATE_RETRIES", cfg.TranslateRetries)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.MaxMessageChars <= 0 {
		return Config{}, fmt.Errorf("APP_MAX_MESSAGE_CHARS must be positive")
	}
	if cfg.HistoryLimit <= 0 {
		return Config{}, fmt.Errorf("APP_HISTORY_LIMIT must be positive")
	}
	if cfg.MaxSessions <= 0 {
		return Config{}, fmt.Errorf("APP_MAX_SESSIONS must be positive")
	}
	if cfg.SessionTTL < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_TTL must be at least 5s")
	}
	if cfg.LLMRetries < 0 {
		return Config{}, fmt.Errorf("LLM_RETRIES must be >= 0")
	}
	if cfg.TranslateRetries < 0 {
		return Config{}, fmt.Errorf("TRANSLATE_RETRIES must be >= 0")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}
