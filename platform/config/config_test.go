package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tre")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetAgentStatsWindow() != 90*24*time.Hour {
		t.Fatalf("expected 90 day window, got %s", cfg.GetAgentStatsWindow())
	}
	if cfg.GetAgentStatsClosedProbability() != 0.3 {
		t.Fatalf("expected closed probability 0.3, got %v", cfg.GetAgentStatsClosedProbability())
	}
	if cfg.IsCacheEnabled() {
		t.Fatal("cache must be disabled without REDIS_URL")
	}
	if cfg.GetDefaultPhoneRegion() != "US" {
		t.Fatalf("unexpected phone region %q", cfg.GetDefaultPhoneRegion())
	}
}

func TestLoadRejectsInvalidStatsPolicy(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tre")

	t.Setenv("AGENT_STATS_CLOSED_PROBABILITY", "1.5")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for probability above 1")
	}

	t.Setenv("AGENT_STATS_CLOSED_PROBABILITY", "NaN")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for NaN probability")
	}

	t.Setenv("AGENT_STATS_CLOSED_PROBABILITY", "0.3")
	t.Setenv("AGENT_STATS_WINDOW_DAYS", "zero")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid window")
	}

	for _, days := range []string{"106752", "36501", "-5"} {
		t.Setenv("AGENT_STATS_WINDOW_DAYS", days)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for window of %s days", days)
		}
	}

	t.Setenv("AGENT_STATS_WINDOW_DAYS", "36500")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error for maximum window: %v", err)
	}
	if cfg.GetAgentStatsWindow() != 36500*24*time.Hour {
		t.Fatalf("unexpected window %s", cfg.GetAgentStatsWindow())
	}
}

func TestLoadRejectsMalformedCacheTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tre")

	t.Setenv("LEADS_CACHE_TTL", "30")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for TTL without a unit")
	}

	t.Setenv("LEADS_CACHE_TTL", "0s")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IsCacheEnabled() {
		t.Fatal("a zero TTL disables the cache")
	}
}

func TestLoadWildcardCORSConflictsWithCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tre")
	t.Setenv("CORS_ORIGINS", "https://crm.example.com, *")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when wildcard origins allow credentials")
	}
}
