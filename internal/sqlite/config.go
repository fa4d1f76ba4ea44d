// File path: internal/sqlite/config.go
package sqlite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultPath is the location of the dataset when nothing else is configured.
var DefaultPath = filepath.Join("db", "bellybutton.sqlite")

// Config describes how the read-only dataset connection pool is opened.
type Config struct {
	Path string `json:"path"`

	MaxOpenConns int `json:"max_open_conns"`
	MaxIdleConns int `json:"max_idle_conns"`

	ConnMaxLifetime       time.Duration `json:"-"`
	ConnMaxLifetimeString string        `json:"conn_max_lifetime"`

	ConnMaxIdleTime       time.Duration `json:"-"`
	ConnMaxIdleTimeString string        `json:"conn_max_idle_time"`

	BusyTimeout       time.Duration `json:"-"`
	BusyTimeoutString string        `json:"busy_timeout"`
}

// Merge overlays the non-zero fields of override onto c.
func (c Config) Merge(override Config) Config {
	result := c
	if trimmed := strings.TrimSpace(override.Path); trimmed != "" {
		result.Path = trimmed
	}
	if override.MaxOpenConns > 0 {
		result.MaxOpenConns = override.MaxOpenConns
	}
	if override.MaxIdleConns > 0 {
		result.MaxIdleConns = override.MaxIdleConns
	}
	if override.ConnMaxLifetime > 0 {
		result.ConnMaxLifetime = override.ConnMaxLifetime
	}
	if trimmed := strings.TrimSpace(override.ConnMaxLifetimeString); trimmed != "" {
		result.ConnMaxLifetimeString = trimmed
	}
	if override.ConnMaxIdleTime > 0 {
		result.ConnMaxIdleTime = override.ConnMaxIdleTime
	}
	if trimmed := strings.TrimSpace(override.ConnMaxIdleTimeString); trimmed != "" {
		result.ConnMaxIdleTimeString = trimmed
	}
	if override.BusyTimeout > 0 {
		result.BusyTimeout = override.BusyTimeout
	}
	if trimmed := strings.TrimSpace(override.BusyTimeoutString); trimmed != "" {
		result.BusyTimeoutString = trimmed
	}
	return result
}

// LoadConfig reads the optional JSON file named by SQLITE_CONFIG_FILE, then
// the SQLITE_* environment variables, and finally fills in defaults.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if path := strings.TrimSpace(os.Getenv("SQLITE_CONFIG_FILE")); path != "" {
		fileCfg, err := loadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.Merge(fileCfg)
	}
	envCfg, err := loadConfigEnv()
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.Merge(envCfg)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Path) == "" {
		c.Path = DefaultPath
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 4
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = c.MaxOpenConns
	}
	c.ConnMaxLifetime = resolveDuration(c.ConnMaxLifetime, c.ConnMaxLifetimeString, 30*time.Minute)
	c.ConnMaxIdleTime = resolveDuration(c.ConnMaxIdleTime, c.ConnMaxIdleTimeString, 5*time.Minute)
	c.BusyTimeout = resolveDuration(c.BusyTimeout, c.BusyTimeoutString, 5*time.Second)
}

func resolveDuration(current time.Duration, raw string, fallback time.Duration) time.Duration {
	if current > 0 {
		return current
	}
	if raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read sqlite config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse sqlite config: %w", err)
	}
	return cfg, nil
}

func loadConfigEnv() (Config, error) {
	cfg := Config{}
	if path := strings.TrimSpace(os.Getenv("SQLITE_PATH")); path != "" {
		cfg.Path = path
	}
	var err error
	if cfg.MaxOpenConns, err = intEnv("SQLITE_MAX_OPEN_CONNS"); err != nil {
		return Config{}, err
	}
	if cfg.MaxIdleConns, err = intEnv("SQLITE_MAX_IDLE_CONNS"); err != nil {
		return Config{}, err
	}
	cfg.ConnMaxLifetimeString = strings.TrimSpace(os.Getenv("SQLITE_CONN_MAX_LIFETIME"))
	cfg.ConnMaxIdleTimeString = strings.TrimSpace(os.Getenv("SQLITE_CONN_MAX_IDLE_TIME"))
	cfg.BusyTimeoutString = strings.TrimSpace(os.Getenv("SQLITE_BUSY_TIMEOUT"))
	return cfg, nil
}

func intEnv(name string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if value < 0 {
		return 0, nil
	}
	return value, nil
}
