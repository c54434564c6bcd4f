package config

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ODDS_API_KEY", "ODDS_CACHE_TTL_SECONDS", "WEEK1_START", "WEEK1_END", "DATABASE_URL", "PRO_GATE_ENABLED", "DISCOVERY_WORKERS", "ODDS_DEFAULT_REGIONS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OddsCacheTTL != 90*time.Second {
		t.Errorf("OddsCacheTTL = %v", cfg.OddsCacheTTL)
	}
	if cfg.OddsDefaultRegions != "us,us2" {
		t.Errorf("OddsDefaultRegions = %q", cfg.OddsDefaultRegions)
	}
	if !cfg.Week1Start.Equal(DefaultWeek1Start) || !cfg.Week1End.Equal(DefaultWeek1End) {
		t.Errorf("week1 = %v..%v", cfg.Week1Start, cfg.Week1End)
	}
	if !cfg.ProGateEnabled || cfg.DatabaseURL != "" || cfg.DiscoveryWorkers != 4 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ODDS_API_KEY", "k")
	t.Setenv("ODDS_CACHE_TTL_SECONDS", "30")
	t.Setenv("WEEK1_START", "2026-09-10")
	t.Setenv("WEEK1_END", "2026-09-16T00:00:00Z")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.test , ,https://b.test")
	t.Setenv("PRO_GATE_ENABLED", "false")
	t.Setenv("DISCOVERY_WORKERS", "0")
	t.Setenv("API_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OddsAPIKey != "k" || cfg.OddsCacheTTL != 30*time.Second {
		t.Errorf("odds = %q %v", cfg.OddsAPIKey, cfg.OddsCacheTTL)
	}
	if want := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC); !cfg.Week1Start.Equal(want) {
		t.Errorf("Week1Start = %v", cfg.Week1Start)
	}
	if strings.Join(cfg.CORSAllowOrigins, "|") != "https://a.test|https://b.test" {
		t.Errorf("CORSAllowOrigins = %v", cfg.CORSAllowOrigins)
	}
	if cfg.ProGateEnabled {
		t.Error("ProGateEnabled should be false")
	}
	if cfg.DiscoveryWorkers != 1 {
		t.Errorf("DiscoveryWorkers = %d, want 1", cfg.DiscoveryWorkers)
	}
	if cfg.APIPort != 8000 {
		t.Errorf("APIPort = %d, want fallback 8000", cfg.APIPort)
	}
}

func TestLoad_BadWeek1(t *testing.T) {
	t.Setenv("WEEK1_START", "next thursday")
	if _, err := Load(); err == nil {
		t.Error("expected error for unparseable WEEK1_START")
	}

	t.Setenv("WEEK1_START", "2025-09-10")
	t.Setenv("WEEK1_END", "2025-09-04")
	if _, err := Load(); err == nil {
		t.Error("expected error for inverted week-1 window")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info logged at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected json output, got %q", out)
	}

	buf.Reset()
	cfg = &Config{LogLevel: "error", Debug: true}
	cfg.NewLogger(&buf).Debug("dbg")
	if !strings.Contains(buf.String(), "msg=dbg") {
		t.Errorf("DEBUG should force debug level, got %q", buf.String())
	}
}
