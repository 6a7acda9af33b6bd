package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.HTTP.ReadTimeout.Duration() != 10*time.Second {
		t.Errorf("unexpected HTTP config: %+v", cfg.HTTP)
	}
	if cfg.DB.Driver != DriverSQLite || cfg.DB.Path == "" {
		t.Errorf("unexpected DB config: %+v", cfg.DB)
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis should be off by default")
	}
	if cfg.Redis.CacheTTL.Duration() != 5*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.Redis.CacheTTL.Duration())
	}
	if cfg.Auth.SessionTTL.Duration() != 24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.Auth.SessionTTL.Duration())
	}
	if cfg.App.Production() {
		t.Error("dev must not be production")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("expected error for empty AUTH_SECRET")
	}

	os.Unsetenv("AUTH_SECRET")
	if _, err := Load(); err == nil {
		t.Error("expected error without AUTH_SECRET")
	}
}

func TestLoadRedisURL(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("REDIS_URL", "redis://default:pw@cache.internal:6380/2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Redis.Addr != "cache.internal:6380" || cfg.Redis.Password != "pw" || cfg.Redis.DB != 2 {
		t.Errorf("unexpected Redis config: %+v", cfg.Redis)
	}
}

func TestLoadDriver(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	t.Run("postgres needs a DSN", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		if _, err := Load(); err == nil {
			t.Error("expected error without PG_DSN")
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		if _, err := Load(); err == nil {
			t.Error("expected error for unknown driver")
		}
	})
}

func TestParseDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"10":     10 * time.Second,
		"10s":    10 * time.Second,
		"5m":     5 * time.Minute,
		`"90s"`:  90 * time.Second,
		" 1h30m": 90 * time.Minute,
	}
	for in, want := range tests {
		got, err := parseDuration(in)
		if err != nil || got != want {
			t.Errorf("parseDuration(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	for _, bad := range []string{"", "ten", "''"} {
		if _, err := parseDuration(bad); err == nil {
			t.Errorf("parseDuration(%q) should fail", bad)
		}
	}
}

func TestParseRedisURL(t *testing.T) {
	if _, _, _, err := parseRedisURL("http://host:6379"); err == nil {
		t.Error("expected scheme error")
	}
	if _, _, _, err := parseRedisURL("redis:///0"); err == nil {
		t.Error("expected missing host error")
	}
	addr, pw, db, err := parseRedisURL("rediss://host:6379")
	if err != nil || addr != "host:6379" || pw != "" || db != 0 {
		t.Errorf("got %q %q %d %v", addr, pw, db, err)
	}
}
