package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("CATALOG_CACHE_TTL", "")
	t.Setenv("OPTIMIZER_MAX_ROUNDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("expected development, got %s", cfg.AppEnv)
	}
	if cfg.HTTPAddr() != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.HTTPAddr())
	}
	if cfg.CatalogCacheTTL != 5*time.Minute {
		t.Fatalf("expected 5m TTL, got %s", cfg.CatalogCacheTTL)
	}
	if cfg.OptimizerMaxRounds != 0 {
		t.Fatalf("expected 0 (engine default), got %d", cfg.OptimizerMaxRounds)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("OPTIMIZER_MAX_ROUNDS", "50")
	t.Setenv("CATALOG_CACHE_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr() != ":9000" {
		t.Fatalf("expected :9000, got %s", cfg.HTTPAddr())
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.OptimizerMaxRounds != 50 {
		t.Fatalf("expected 50 rounds, got %d", cfg.OptimizerMaxRounds)
	}
	if cfg.CatalogCacheTTL != 30*time.Second {
		t.Fatalf("expected 30s TTL, got %s", cfg.CatalogCacheTTL)
	}
}

func TestInvalidRoundsFallsBack(t *testing.T) {
	t.Setenv("OPTIMIZER_MAX_ROUNDS", "banana")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OptimizerMaxRounds != 0 {
		t.Fatalf("expected fallback 0, got %d", cfg.OptimizerMaxRounds)
	}
}
