package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string
	DefaultPerPage     int
	MaxPerPage         int
	ReportCacheTTL     time.Duration
	HolidayBaseURL     string
	HolidayCountry     string
	HolidayTimeout     time.Duration
	RateLimitWindow    time.Duration
	RateLimitMax       int
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		DefaultPerPage:     parseInt(k.String("PAGINATION_DEFAULT_LIMIT"), 20),
		MaxPerPage:         parseInt(k.String("PAGINATION_MAX_LIMIT"), 100),
		ReportCacheTTL:     parseDuration(k.String("REPORT_CACHE_TTL"), "5m"),
		HolidayBaseURL:     valueOrDefault(k.String("HOLIDAY_FEED_BASE_URL"), "https://date.nager.at"),
		HolidayCountry:     valueOrDefault(k.String("HOLIDAY_FEED_COUNTRY"), "US"),
		HolidayTimeout:     parseDuration(k.String("HOLIDAY_FEED_TIMEOUT"), "5s"),
		RateLimitWindow:    parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:       parseInt(k.String("RATE_LIMIT_MAX"), 300),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	return cfg, nil
}

func valueOrDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func splitAndTrim(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseInt(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseDuration(value, def string) time.Duration {
	if strings.TrimSpace(value) == "" {
		value = def
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
