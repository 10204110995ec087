package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Data sources the dashboard can load from.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config holds application configuration. Values come from defaults, then
// an optional YAML file named by PAXDASH_CONFIG, then environment variables.
// Command-line flags are applied on top by the caller.
type Config struct {
	Port     int    `yaml:"port"`
	DataPath string `yaml:"data_path"` // file or glob of boarding exports
	DBPath   string `yaml:"db_path"`
	Source   string `yaml:"source"` // csv or sqlite

	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`

	RedisAddr     string `yaml:"redis_addr"` // empty = in-process cache
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	LogLevel string `yaml:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Port:      8080,
		DataPath:  "./passenger.csv",
		DBPath:    "./paxdash.db",
		Source:    SourceCSV,
		CacheSize: 256,
		CacheTTL:  10 * time.Minute,
		LogLevel:  "info",
	}
}

// Load reads configuration from the YAML file and environment variables.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("PAXDASH_CONFIG"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = envInt("PAXDASH_PORT", cfg.Port)
	cfg.DataPath = envStr("PAXDASH_DATA_PATH", cfg.DataPath)
	cfg.DBPath = envStr("PAXDASH_DB_PATH", cfg.DBPath)
	cfg.Source = envStr("PAXDASH_SOURCE", cfg.Source)
	cfg.CacheSize = envInt("PAXDASH_CACHE_SIZE", cfg.CacheSize)
	cfg.CacheTTL = envDuration("PAXDASH_CACHE_TTL", cfg.CacheTTL)
	cfg.RedisAddr = envStr("PAXDASH_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = envStr("PAXDASH_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = envInt("PAXDASH_REDIS_DB", cfg.RedisDB)
	cfg.LogLevel = envStr("PAXDASH_LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceCSV, SourceSQLite:
	default:
		return fmt.Errorf("invalid source %q: want %s or %s", c.Source, SourceCSV, SourceSQLite)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DataPath == "" && c.Source == SourceCSV {
		return fmt.Errorf("data path is required for the csv source")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("invalid cache size %d", c.CacheSize)
	}
	return nil
}

// Level maps LogLevel to a slog level. Unknown values mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
