// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/props.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/albapepper/scoracle-props/internal/provider/oddsapi"
)

// --------------------------------------------------------------------------
// Season calendar
// --------------------------------------------------------------------------

// Default week-1 window of the 2025 regular season, in UTC.
var (
	DefaultWeek1Start = time.Date(2025, time.September, 4, 0, 0, 0, 0, time.UTC)
	DefaultWeek1End   = time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)
)

// --------------------------------------------------------------------------
// Table names: single source of truth for the waitlist schema
// --------------------------------------------------------------------------

const (
	WaitlistTable = "waitlist"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Odds provider
	OddsAPIKey               string
	OddsAPIBaseURL           string
	OddsAPIRequestsPerMinute int
	OddsCacheTTL             time.Duration
	OddsDefaultRegions       string

	// Database (optional; waitlist falls back to CSV)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// Logging
	LogLevel  string
	LogFormat string // text or json

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
	RedisURL     string

	// Domain
	MarketsFile      string
	WaitlistCSV      string
	Week1Start       time.Time
	Week1End         time.Time
	DiscoveryWorkers int
	ProGateEnabled   bool

	// Maintenance (0 disables)
	WarmGamesInterval     time.Duration
	WarmDiscoveryInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A missing odds API key is not an error here: handlers report it per request.
func Load() (*Config, error) {
	week1Start, err := envTime("WEEK1_START", DefaultWeek1Start)
	if err != nil {
		return nil, err
	}
	week1End, err := envTime("WEEK1_END", DefaultWeek1End)
	if err != nil {
		return nil, err
	}
	if !week1End.After(week1Start) {
		return nil, fmt.Errorf("WEEK1_END (%s) must be after WEEK1_START (%s)",
			week1End.Format(time.RFC3339), week1Start.Format(time.RFC3339))
	}

	cfg := &Config{
		OddsAPIKey:               envOr("ODDS_API_KEY", ""),
		OddsAPIBaseURL:           envOr("ODDS_API_BASE_URL", oddsapi.DefaultBaseURL),
		OddsAPIRequestsPerMinute: envInt("ODDS_API_REQUESTS_PER_MINUTE", 120),
		OddsCacheTTL:             time.Duration(envInt("ODDS_CACHE_TTL_SECONDS", 90)) * time.Second,
		OddsDefaultRegions:       envOr("ODDS_DEFAULT_REGIONS", oddsapi.DefaultRegions),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "text"),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		RedisURL:     envOr("REDIS_URL", ""),

		MarketsFile:      envOr("MARKETS_FILE", ""),
		WaitlistCSV:      envOr("WAITLIST_CSV", "sql/waitlist.csv"),
		Week1Start:       week1Start,
		Week1End:         week1End,
		DiscoveryWorkers: envInt("DISCOVERY_WORKERS", 4),
		ProGateEnabled:   envBool("PRO_GATE_ENABLED", true),

		WarmGamesInterval:     time.Duration(envInt("WARM_GAMES_SECONDS", 0)) * time.Second,
		WarmDiscoveryInterval: time.Duration(envInt("WARM_DISCOVERY_SECONDS", 0)) * time.Second,
	}

	if cfg.DiscoveryWorkers < 1 {
		cfg.DiscoveryWorkers = 1
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT. DEBUG
// forces debug level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if c.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// envTime accepts RFC 3339 timestamps or bare dates (midnight UTC).
func envTime(key string, fallback time.Time) (time.Time, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%s: expected RFC 3339 time or YYYY-MM-DD, got %q", key, v)
}
