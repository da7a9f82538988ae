package config

import (
	"os"
	"testing"
)

var envKeys = []string{
	"APP_PORT", "APP_ENV", "LOG_LEVEL", "DATABASE_DRIVER", "DATABASE_DSN",
	"SESSION_COOKIE_NAME", "COOKIE_SECURE", "SESSION_TTL_HOURS",
	"POSTS_PAGE_SIZE", "PROFILE_PAGE_SIZE", "MAX_UPLOAD_MB", "CORS_ORIGINS",
}

func clearEnv() {
	for _, k := range envKeys {
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Load() Port = %v, want 8080", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Errorf("Load() Env = %v, want dev", cfg.Env)
	}
	if cfg.DatabaseDriver != DriverPostgres {
		t.Errorf("Load() DatabaseDriver = %v, want postgres", cfg.DatabaseDriver)
	}
	if cfg.SessionCookieName != "session_id" {
		t.Errorf("Load() SessionCookieName = %v, want session_id", cfg.SessionCookieName)
	}
	if cfg.SessionTTLHours != 0 {
		t.Errorf("Load() SessionTTLHours = %v, want 0", cfg.SessionTTLHours)
	}
	if cfg.PostsPageSize != 10 || cfg.ProfilePageSize != 10 {
		t.Errorf("Load() page sizes = %d/%d, want 10/10", cfg.PostsPageSize, cfg.ProfilePageSize)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Errorf("Load() CORSOrigins = %v, want empty", cfg.CORSOrigins)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv()
	os.Setenv("APP_PORT", "9090")
	os.Setenv("APP_ENV", "prod")
	os.Setenv("DATABASE_DRIVER", "SQLite")
	os.Setenv("DATABASE_DSN", "file:test.db")
	os.Setenv("SESSION_COOKIE_NAME", "sid")
	os.Setenv("COOKIE_SECURE", "true")
	os.Setenv("SESSION_TTL_HOURS", "24")
	os.Setenv("PROFILE_PAGE_SIZE", "5")
	os.Setenv("CORS_ORIGINS", "http://a.test/, http://b.test")
	defer clearEnv()

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Load() Port = %v, want 9090", cfg.Port)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Errorf("Load() DatabaseDriver = %v, want sqlite", cfg.DatabaseDriver)
	}
	if cfg.DatabaseDSN != "file:test.db" {
		t.Errorf("Load() DatabaseDSN = %v, want file:test.db", cfg.DatabaseDSN)
	}
	if cfg.SessionCookieName != "sid" {
		t.Errorf("Load() SessionCookieName = %v, want sid", cfg.SessionCookieName)
	}
	if !cfg.CookieSecure {
		t.Error("Load() CookieSecure = false, want true")
	}
	if cfg.SessionTTLHours != 24 {
		t.Errorf("Load() SessionTTLHours = %v, want 24", cfg.SessionTTLHours)
	}
	if cfg.ProfilePageSize != 5 {
		t.Errorf("Load() ProfilePageSize = %v, want 5", cfg.ProfilePageSize)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "http://a.test" {
		t.Errorf("Load() CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_InvalidNumbers(t *testing.T) {
	clearEnv()
	os.Setenv("POSTS_PAGE_SIZE", "invalid")
	os.Setenv("SESSION_TTL_HOURS", "-5")
	defer clearEnv()

	cfg := Load()

	// Should fall back to defaults
	if cfg.PostsPageSize != 10 {
		t.Errorf("Load() PostsPageSize = %v, want 10 (default)", cfg.PostsPageSize)
	}
	if cfg.SessionTTLHours != 0 {
		t.Errorf("Load() SessionTTLHours = %v, want 0 (default)", cfg.SessionTTLHours)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:              "8080",
			Env:               "dev",
			DatabaseDriver:    DriverPostgres,
			DatabaseDSN:       "postgres://localhost/test",
			SessionCookieName: "session_id",
			PostsPageSize:     10,
			ProfilePageSize:   10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid dev config", func(c *Config) {}, false},
		{"valid sqlite config", func(c *Config) { c.DatabaseDriver = DriverSQLite }, false},
		{"valid prod config", func(c *Config) { c.Env = "prod"; c.CookieSecure = true }, false},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"empty dsn", func(c *Config) { c.DatabaseDSN = "" }, true},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, true},
		{"empty cookie name", func(c *Config) { c.SessionCookieName = "" }, true},
		{"zero page size", func(c *Config) { c.PostsPageSize = 0 }, true},
		{"insecure cookie in prod", func(c *Config) { c.Env = "prod" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
