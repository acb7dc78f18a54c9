package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	defaultAppEnv          = "dev"
	defaultHTTPAddr        = ":8080"
	defaultLogLevel        = "info"
	defaultRemoteAPIURL    = "http://127.0.0.1:8000/api/"
	defaultRemoteTimeout   = "30s"
	defaultJWTSecret       = "change-me-console-secret"
	defaultSessionTTL      = "12h"
	defaultShortlistTTL    = "30m"
	defaultWorkspaceIdle   = "2h"
	defaultSweepSchedule   = "@every 5m"
	defaultReturnAfter     = "1500ms"
	defaultJournalRetained = "720h"
	defaultCORSOrigins     = "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173"
)

type Config struct {
	AppEnv   string
	HTTPAddr string
	LogLevel string

	RemoteAPIURL  string
	RemoteTimeout time.Duration

	JWTSecret  string
	SessionTTL time.Duration

	// DatabaseURL is optional; without it the commit journal is off.
	DatabaseURL string
	// RedisURL is optional; without it shortlists stay in process memory.
	RedisURL string

	ShortlistTTL        time.Duration
	WorkspaceIdleTTL    time.Duration
	SweepSchedule       string
	CampaignReturnAfter time.Duration
	JournalRetention    time.Duration
	CORSAllowedOrigins  []string
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		AppEnv:             strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", defaultAppEnv))),
		HTTPAddr:           strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr)),
		LogLevel:           strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)),
		RemoteAPIURL:       strings.TrimSpace(getEnv("REMOTE_API_URL", defaultRemoteAPIURL)),
		JWTSecret:          strings.TrimSpace(getEnv("CONSOLE_JWT_SECRET", defaultJWTSecret)),
		DatabaseURL:        strings.TrimSpace(getEnv("DATABASE_URL", "")),
		RedisURL:           strings.TrimSpace(getEnv("REDIS_URL", "")),
		SweepSchedule:      strings.TrimSpace(getEnv("SWEEP_SCHEDULE", defaultSweepSchedule)),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins)),
	}

	durations := []struct {
		name     string
		fallback string
		dst      *time.Duration
	}{
		{"REMOTE_TIMEOUT", defaultRemoteTimeout, &cfg.RemoteTimeout},
		{"CONSOLE_SESSION_TTL", defaultSessionTTL, &cfg.SessionTTL},
		{"SHORTLIST_TTL", defaultShortlistTTL, &cfg.ShortlistTTL},
		{"WORKSPACE_IDLE_TTL", defaultWorkspaceIdle, &cfg.WorkspaceIdleTTL},
		{"CAMPAIGN_RETURN_AFTER", defaultReturnAfter, &cfg.CampaignReturnAfter},
		{"JOURNAL_RETENTION", defaultJournalRetained, &cfg.JournalRetention},
	}
	for _, d := range durations {
		v, err := parseDurationEnv(d.name, d.fallback)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	u, err := url.Parse(cfg.RemoteAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("REMOTE_API_URL must be an absolute URL, got %q", cfg.RemoteAPIURL)
	}
	if cfg.RemoteTimeout <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT must be > 0")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("CONSOLE_SESSION_TTL must be > 0")
	}
	if cfg.ShortlistTTL <= 0 {
		return fmt.Errorf("SHORTLIST_TTL must be > 0")
	}
	if cfg.WorkspaceIdleTTL < 0 {
		return fmt.Errorf("WORKSPACE_IDLE_TTL must be >= 0")
	}
	if cfg.CampaignReturnAfter <= 0 {
		return fmt.Errorf("CAMPAIGN_RETURN_AFTER must be > 0")
	}
	if cfg.JournalRetention < 0 {
		return fmt.Errorf("JOURNAL_RETENTION must be >= 0")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	if _, err := cron.ParseStandard(cfg.SweepSchedule); err != nil {
		return fmt.Errorf("invalid SWEEP_SCHEDULE %q: %w", cfg.SweepSchedule, err)
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release CONSOLE_JWT_SECRET must be set and not default")
		}
		if len(cfg.JWTSecret) < 32 {
			return fmt.Errorf("in prod/release CONSOLE_JWT_SECRET must be at least 32 characters")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
