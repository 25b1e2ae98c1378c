package config

import (
	"os"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "GIN_MODE", "SESSION_SECRET", "SESSION_STORE", "SESSION_REDIS_URL",
		"SESSION_MAX_AGE_HOURS", "DATABASE_DRIVER", "DATABASE_URL", "BCRYPT_COST",
		"CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
	// .env.local を拾わないよう空のディレクトリで実行する
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "5555" {
		t.Fatalf("Port = %q, want 5555", cfg.Port)
	}
	if cfg.DatabaseDriver != DriverSQLite || cfg.DatabaseURL != "app.db" {
		t.Fatalf("unexpected database settings: %s %s", cfg.DatabaseDriver, cfg.DatabaseURL)
	}
	if cfg.SessionStore != SessionStoreCookie {
		t.Fatalf("SessionStore = %q, want cookie", cfg.SessionStore)
	}
	if cfg.SessionSecret != DevSessionSecret {
		t.Fatalf("SessionSecret = %q, want development default", cfg.SessionSecret)
	}
	if cfg.SessionMaxAgeHours != 12 || cfg.BcryptCost != 10 {
		t.Fatalf("unexpected numeric defaults: maxAge=%d cost=%d", cfg.SessionMaxAgeHours, cfg.BcryptCost)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/auth")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9000" || cfg.DatabaseDriver != DriverPostgres || cfg.SessionStore != SessionStoreRedis {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("invalid BCRYPT_COST should fall back to default, got %d", cfg.BcryptCost)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		GinMode:            "debug",
		SessionSecret:      DevSessionSecret,
		SessionStore:       SessionStoreCookie,
		SessionRedisURL:    "redis://127.0.0.1:6379/0",
		SessionMaxAgeHours: 12,
		DatabaseDriver:     DriverSQLite,
		DatabaseURL:        "app.db",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "debug defaults", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.DatabaseDriver = "mysql" }, wantErr: "DATABASE_DRIVER"},
		{name: "unknown store", mutate: func(c *Config) { c.SessionStore = "memcached" }, wantErr: "SESSION_STORE"},
		{name: "redis without url", mutate: func(c *Config) {
			c.SessionStore = SessionStoreRedis
			c.SessionRedisURL = ""
		}, wantErr: "SESSION_REDIS_URL"},
		{name: "non positive max age", mutate: func(c *Config) { c.SessionMaxAgeHours = 0 }, wantErr: "SESSION_MAX_AGE_HOURS"},
		{name: "release with dev secret", mutate: func(c *Config) { c.GinMode = "release" }, wantErr: "SESSION_SECRET"},
		{name: "release with real secret", mutate: func(c *Config) {
			c.GinMode = "release"
			c.SessionSecret = "a-real-secret"
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
