// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads server settings from an optional .env file, an
// optional TOML file and VIEWBADGE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvConfigFile names the variable holding the TOML config path.
const EnvConfigFile = "VIEWBADGE_CONFIG"

// Config holds server configuration.
type Config struct {
	Port        int    `toml:"port"`
	DatabaseURL string `toml:"database_url"`

	FontPath   string `toml:"font_path"`
	FontFamily string `toml:"font_family"`

	DefaultCounter string `toml:"default_counter"`
	DefaultLabel   string `toml:"default_label"`
	AutoRegister   bool   `toml:"auto_register"`
	AdminToken     string `toml:"admin_token"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// CacheMaxAge is the max-age, in seconds, sent with badge responses.
	CacheMaxAge int `toml:"cache_max_age"`

	RateLimit RateLimitConfig `toml:"ratelimit"`
}

// RateLimitRouteConfig holds configuration for a specific route type
type RateLimitRouteConfig struct {
	Requests int           `toml:"requests"`
	Period   time.Duration `toml:"period"`
	Burst    int           `toml:"burst"`
}

// RateLimitConfig holds all rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `toml:"enabled"`
	CleanupInterval time.Duration `toml:"cleanup_interval"`

	Badge RateLimitRouteConfig `toml:"badge"`
	Admin RateLimitRouteConfig `toml:"admin"`

	BruteForceThreshold int           `toml:"bruteforce_threshold"`
	BruteForceBan       time.Duration `toml:"bruteforce_ban"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           8080,
		DatabaseURL:    "sqlite:///data/sqlite.db",
		DefaultCounter: "lxze",
		DefaultLabel:   "Profile views",
		LogLevel:       "info",
		LogFormat:      "text",
		CacheMaxAge:    0,
		RateLimit:      defaultRateLimit(),
	}
}

func defaultRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Enabled:         true,
		CleanupInterval: 10 * time.Minute,
		Badge: RateLimitRouteConfig{
			Requests: 60,
			Period:   time.Minute,
			Burst:    20,
		},
		Admin: RateLimitRouteConfig{
			Requests: 30,
			Period:   time.Minute,
			Burst:    10,
		},
		BruteForceThreshold: 5,
		BruteForceBan:       15 * time.Minute,
	}
}

// Load builds the configuration. A missing .env file is ignored; a config
// file named by VIEWBADGE_CONFIG must exist and parse.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvInt("VIEWBADGE_PORT", c.Port)
	c.DatabaseURL = getEnv("VIEWBADGE_DATABASE_URL", c.DatabaseURL)
	c.FontPath = getEnv("VIEWBADGE_FONT_PATH", c.FontPath)
	c.FontFamily = getEnv("VIEWBADGE_FONT_FAMILY", c.FontFamily)
	c.DefaultCounter = getEnv("VIEWBADGE_DEFAULT_COUNTER", c.DefaultCounter)
	c.DefaultLabel = getEnv("VIEWBADGE_DEFAULT_LABEL", c.DefaultLabel)
	c.AutoRegister = getEnvBool("VIEWBADGE_AUTO_REGISTER", c.AutoRegister)
	c.AdminToken = getEnv("VIEWBADGE_ADMIN_TOKEN", c.AdminToken)
	c.LogLevel = getEnv("VIEWBADGE_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("VIEWBADGE_LOG_FORMAT", c.LogFormat)
	c.CacheMaxAge = getEnvInt("VIEWBADGE_CACHE_MAX_AGE", c.CacheMaxAge)
	c.RateLimit = LoadRateLimitConfig(c.RateLimit)
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database url is required")
	}
	if c.CacheMaxAge < 0 {
		return fmt.Errorf("invalid cache max age %d", c.CacheMaxAge)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// LoadRateLimitConfig overlays rate limiting environment variables on base.
func LoadRateLimitConfig(base RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{
		Enabled:         getEnvBool("VIEWBADGE_RATELIMIT_ENABLED", base.Enabled),
		CleanupInterval: getEnvDuration("VIEWBADGE_RATELIMIT_CLEANUP_INTERVAL", base.CleanupInterval),

		Badge: RateLimitRouteConfig{
			Requests: getEnvInt("VIEWBADGE_RATELIMIT_BADGE_REQUESTS", base.Badge.Requests),
			Period:   getEnvDuration("VIEWBADGE_RATELIMIT_BADGE_PERIOD", base.Badge.Period),
			Burst:    getEnvInt("VIEWBADGE_RATELIMIT_BADGE_BURST", base.Badge.Burst),
		},
		Admin: RateLimitRouteConfig{
			Requests: getEnvInt("VIEWBADGE_RATELIMIT_ADMIN_REQUESTS", base.Admin.Requests),
			Period:   getEnvDuration("VIEWBADGE_RATELIMIT_ADMIN_PERIOD", base.Admin.Period),
			Burst:    getEnvInt("VIEWBADGE_RATELIMIT_ADMIN_BURST", base.Admin.Burst),
		},

		BruteForceThreshold: getEnvInt("VIEWBADGE_RATELIMIT_BRUTEFORCE_THRESHOLD", base.BruteForceThreshold),
		BruteForceBan:       getEnvDuration("VIEWBADGE_RATELIMIT_BRUTEFORCE_BAN", base.BruteForceBan),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "true" || val == "1" || val == "yes" {
			return true
		}
		if val == "false" || val == "0" || val == "no" {
			return false
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
