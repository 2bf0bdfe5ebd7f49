// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.DefaultCounter != "lxze" {
		t.Errorf("expected default counter lxze, got %q", cfg.DefaultCounter)
	}
	if cfg.DefaultLabel != "Profile views" {
		t.Errorf("unexpected default label %q", cfg.DefaultLabel)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("rate limiting should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfigFile, "")
	t.Setenv("VIEWBADGE_PORT", "9090")
	t.Setenv("VIEWBADGE_DATABASE_URL", "memory://")
	t.Setenv("VIEWBADGE_AUTO_REGISTER", "yes")
	t.Setenv("VIEWBADGE_RATELIMIT_BADGE_REQUESTS", "5")
	t.Setenv("VIEWBADGE_RATELIMIT_BRUTEFORCE_BAN", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "memory://" {
		t.Errorf("unexpected database url %q", cfg.DatabaseURL)
	}
	if !cfg.AutoRegister {
		t.Error("expected auto register")
	}
	if cfg.RateLimit.Badge.Requests != 5 {
		t.Errorf("expected 5 badge requests, got %d", cfg.RateLimit.Badge.Requests)
	}
	if cfg.RateLimit.BruteForceBan != time.Hour {
		t.Errorf("expected 1h ban, got %v", cfg.RateLimit.BruteForceBan)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "viewbadge.toml", `
port = 3000
database_url = "redis://localhost:6379/0"
default_label = "Visitors"
cache_max_age = 60

[ratelimit]
enabled = false

[ratelimit.badge]
requests = 10
period = "30s"
burst = 3
`)
	t.Setenv(EnvConfigFile, path)
	t.Setenv("VIEWBADGE_DEFAULT_LABEL", "Views")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "redis://localhost:6379/0" {
		t.Errorf("unexpected database url %q", cfg.DatabaseURL)
	}
	if cfg.DefaultLabel != "Views" {
		t.Errorf("env should override file, got %q", cfg.DefaultLabel)
	}
	if cfg.CacheMaxAge != 60 {
		t.Errorf("expected cache max age 60, got %d", cfg.CacheMaxAge)
	}
	if cfg.RateLimit.Enabled {
		t.Error("expected rate limiting disabled")
	}
	if cfg.RateLimit.Badge.Period != 30*time.Second || cfg.RateLimit.Badge.Burst != 3 {
		t.Errorf("unexpected badge limits %+v", cfg.RateLimit.Badge)
	}
	// Keys absent from the file keep their defaults.
	if cfg.DefaultCounter != "lxze" {
		t.Errorf("expected default counter to survive, got %q", cfg.DefaultCounter)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("VIEWBADGE_DEFAULT_COUNTER=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigFile, "")
	// Registered so t cleans it up; godotenv never overrides a set variable.
	t.Setenv("VIEWBADGE_DEFAULT_COUNTER", "")
	os.Unsetenv("VIEWBADGE_DEFAULT_COUNTER")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultCounter != "from-dotenv" {
		t.Errorf("expected counter from .env, got %q", cfg.DefaultCounter)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("missing file", func(t *testing.T) {
		t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "nope.toml"))
		if _, err := Load(); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("bad toml", func(t *testing.T) {
		t.Setenv(EnvConfigFile, writeFile(t, "bad.toml", "port = ["))
		if _, err := Load(); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv(EnvConfigFile, "")
		t.Setenv("VIEWBADGE_PORT", "70000")
		if _, err := Load(); err == nil {
			t.Error("expected error")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"zero port", func(c *Config) { c.Port = 0 }, true},
		{"no database", func(c *Config) { c.DatabaseURL = "" }, true},
		{"negative max age", func(c *Config) { c.CacheMaxAge = -1 }, true},
		{"json logs", func(c *Config) { c.LogFormat = "json" }, false},
		{"xml logs", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("VB_TEST_BOOL", "no")
	t.Setenv("VB_TEST_INT", "abc")
	t.Setenv("VB_TEST_DUR", "2m")

	if getEnvBool("VB_TEST_BOOL", true) {
		t.Error("expected false")
	}
	if getEnvBool("VB_TEST_UNSET", true) != true {
		t.Error("expected default")
	}
	if getEnvInt("VB_TEST_INT", 7) != 7 {
		t.Error("invalid int should fall back to default")
	}
	if getEnvDuration("VB_TEST_DUR", time.Second) != 2*time.Minute {
		t.Error("expected 2m")
	}
}
