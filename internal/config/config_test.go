package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9000"
database:
  url: "postgres://file"
auth:
  jwt_secret: "from-file"
ai:
  timeout: 15s
`)
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":9000" {
		t.Fatalf("expected address from file, got %q", cfg.Server.Address)
	}
	if cfg.Database.URL != "postgres://env" {
		t.Fatalf("expected env override, got %q", cfg.Database.URL)
	}
	if cfg.AI.Timeout != 15*time.Second {
		t.Fatalf("expected ai timeout 15s, got %s", cfg.AI.Timeout)
	}
	if cfg.Database.Driver != "pgx" {
		t.Fatalf("expected default driver, got %q", cfg.Database.Driver)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":4001" {
		t.Fatalf("unexpected default address %q", cfg.Server.Address)
	}
	if cfg.AIEnabled() {
		t.Fatalf("ai must be disabled without api key")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty database url")
	}

	cfg.Database.URL = "postgres://x"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty jwt secret")
	}

	cfg.Auth.JWTSecret = "s"
	cfg.AI.APIKey = "k"
	cfg.AI.RatePerMinute = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero ai rate")
	}

	cfg.AI.RatePerMinute = 5
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
