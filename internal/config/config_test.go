package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()

	if cfg.Env != "dev" {
		t.Fatalf("env: got %q want dev", cfg.Env)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port: got %d want 8080", cfg.Port)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("bcrypt cost: got %d want 10", cfg.BcryptCost)
	}
	if cfg.DBDriver != DriverPostgres {
		t.Fatalf("driver: got %q want %q", cfg.DBDriver, DriverPostgres)
	}
	if cfg.CacheTTL != 15*time.Second {
		t.Fatalf("cache ttl: got %s", cfg.CacheTTL)
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg := Load()
	if cfg.Port != 8080 {
		t.Fatalf("got port %d, want fallback 8080", cfg.Port)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tt")

	cfg := Load()

	if cfg.DBDriver != DriverSQLite {
		t.Fatalf("driver: got %q", cfg.DBDriver)
	}
	if cfg.SQLitePath != "/tmp/x.db" {
		t.Fatalf("sqlite path: got %q", cfg.SQLitePath)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("origins: got %v", cfg.AllowedOrigins)
	}
	if cfg.DBURL != "postgres://u:p@db:5432/tt" {
		t.Fatalf("db url: got %q", cfg.DBURL)
	}
}
