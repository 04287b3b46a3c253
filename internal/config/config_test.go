package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/corebank/transfer-engine/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("MIGRATIONS_DIR", "")
	t.Setenv("SESSION_TTL_MINUTES", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected default listen addr :8080, got %s", cfg.ListenAddr)
	}
	if cfg.MigrationsDir != "migrations" {
		t.Errorf("expected default migrations dir, got %s", cfg.MigrationsDir)
	}
	if cfg.SessionTTL != 0 {
		t.Errorf("expected session TTL disabled by default, got %s", cfg.SessionTTL)
	}
}

func TestLoadNormalizesSemicolonDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "Host=db;Port=5433;Database=bank;Username=app;Password=secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	for _, want := range []string{"host=db", "port=5433", "dbname=bank", "user=app", "password=secret", "sslmode=disable"} {
		if !strings.Contains(cfg.DatabaseDSN, want) {
			t.Errorf("expected DSN to contain %q, got %q", want, cfg.DatabaseDSN)
		}
	}
}

func TestLoadSessionTTL(t *testing.T) {
	t.Setenv("SESSION_TTL_MINUTES", "30")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m session TTL, got %s", cfg.SessionTTL)
	}
}

func TestLoadRejectsBadSessionTTL(t *testing.T) {
	for _, raw := range []string{"abc", "-5"} {
		t.Setenv("SESSION_TTL_MINUTES", raw)
		if _, err := config.Load(); err == nil {
			t.Errorf("SESSION_TTL_MINUTES=%q: expected error, got nil", raw)
		}
	}
}
