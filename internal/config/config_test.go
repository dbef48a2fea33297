package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file:test.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOGS_LEVEL", "debug")

	cfg, err := Load()

	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("JWT.Secret = %q, want env-secret", cfg.JWT.Secret)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	// Untouched keys keep their defaults.
	if cfg.JWT.TTL != 168*time.Hour {
		t.Errorf("JWT.TTL = %v, want 168h", cfg.JWT.TTL)
	}

	if cfg.Sweeper.Interval != time.Minute {
		t.Errorf("Sweeper.Interval = %v, want 1m", cfg.Sweeper.Interval)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_DSN", "postgres://localhost/ladle")

	if _, err := Load(); err == nil {
		t.Error("expected an error when the JWT secret is missing")
	}
}

func TestLoadRequiresDSNForServerDatabases(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "")

	if _, err := Load(); err == nil {
		t.Error("expected an error when the DSN is missing for postgres")
	}
}

func TestSqliteNeedsNoDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "")

	cfg, err := Load()

	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
}
