// Package common provides shared utilities for Tickerscope
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Tickerscope
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Provider    ProviderConfig `toml:"provider"`
	Cache       CacheConfig    `toml:"cache"`
	Scan        ScanConfig     `toml:"scan"`
	Batch       BatchConfig    `toml:"batch"`
	Auth        AuthConfig     `toml:"auth"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection settings.
// An empty Address selects the in-memory backend.
type StorageConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ProviderConfig holds market data provider configuration
type ProviderConfig struct {
	ChartURL   string `toml:"chart_url"`
	SummaryURL string `toml:"summary_url"`
	CookieURL  string `toml:"cookie_url"`
	CrumbURL   string `toml:"crumb_url"`
	Timeout    string `toml:"timeout"`
	RateLimit  int    `toml:"rate_limit"`
	SessionTTL string `toml:"session_ttl"`
}

// GetTimeout parses and returns the timeout duration
func (c *ProviderConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// GetSessionTTL parses and returns the crumb session lifetime
func (c *ProviderConfig) GetSessionTTL() time.Duration {
	return parseDuration(c.SessionTTL, time.Hour)
}

// CacheConfig holds the optional Redis cache in front of the provider
type CacheConfig struct {
	RedisURL string `toml:"redis_url"`
	TTL      string `toml:"ttl"`
}

// Enabled reports whether a Redis URL is configured
func (c *CacheConfig) Enabled() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

// GetTTL parses and returns the cache entry lifetime
func (c *CacheConfig) GetTTL() time.Duration {
	return parseDuration(c.TTL, 15*time.Minute)
}

// ScanConfig holds market scan defaults
type ScanConfig struct {
	Delay             string   `toml:"delay"`
	DefaultPeriod     string   `toml:"default_period"`
	DefaultThreshold  int      `toml:"default_threshold"`
	DefaultCategories []string `toml:"default_categories"`
	Interval          string   `toml:"interval"`
}

// GetDelay parses and returns the pause between symbols
func (c *ScanConfig) GetDelay() time.Duration {
	return parseDuration(c.Delay, 400*time.Millisecond)
}

// BatchConfig holds watchlist batch settings
type BatchConfig struct {
	Period   string `toml:"period"`
	Delay    string `toml:"delay"`
	Schedule string `toml:"schedule"` // cron expression with seconds field, empty disables
}

// GetDelay parses and returns the pause between symbols
func (c *BatchConfig) GetDelay() time.Duration {
	return parseDuration(c.Delay, 400*time.Millisecond)
}

// AuthConfig holds bearer token validation settings.
// An empty JWTSecret disables authentication.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// Enabled reports whether bearer authentication is required
func (c *AuthConfig) Enabled() bool {
	return c.JWTSecret != ""
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Namespace: "tickerscope",
			Database:  "tickerscope",
			Username:  "root",
			Password:  "root",
		},
		Provider: ProviderConfig{
			ChartURL:   "https://query1.finance.yahoo.com/v8/finance/chart",
			SummaryURL: "https://query1.finance.yahoo.com/v10/finance/quoteSummary",
			CookieURL:  "https://fc.yahoo.com",
			CrumbURL:   "https://query1.finance.yahoo.com/v1/test/getcrumb",
			Timeout:    "30s",
			RateLimit:  5,
			SessionTTL: "1h",
		},
		Cache: CacheConfig{
			TTL: "15m",
		},
		Scan: ScanConfig{
			Delay:             "400ms",
			DefaultPeriod:     "6M",
			DefaultThreshold:  90,
			DefaultCategories: []string{"sp500"},
			Interval:          "1d",
		},
		Batch: BatchConfig{
			Period: "1Y",
			Delay:  "400ms",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/tickerscope.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TICKERSCOPE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("TICKERSCOPE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("TICKERSCOPE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("TICKERSCOPE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("TICKERSCOPE_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}

	if url := os.Getenv("TICKERSCOPE_REDIS_URL"); url != "" {
		config.Cache.RedisURL = url
	}

	if v := os.Getenv("TICKERSCOPE_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}

	if v := os.Getenv("TICKERSCOPE_BATCH_SCHEDULE"); v != "" {
		config.Batch.Schedule = v
	}

	if v := os.Getenv("TICKERSCOPE_SCAN_DELAY"); v != "" {
		config.Scan.Delay = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
