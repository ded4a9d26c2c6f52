package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Scan.DefaultPeriod != "6M" {
		t.Errorf("Scan.DefaultPeriod = %q, want %q", cfg.Scan.DefaultPeriod, "6M")
	}
	if cfg.Scan.DefaultThreshold != 90 {
		t.Errorf("Scan.DefaultThreshold = %d, want 90", cfg.Scan.DefaultThreshold)
	}
	if cfg.Batch.Period != "1Y" {
		t.Errorf("Batch.Period = %q, want %q", cfg.Batch.Period, "1Y")
	}
	if cfg.Cache.Enabled() {
		t.Error("cache should be disabled by default")
	}
	if cfg.Auth.Enabled() {
		t.Error("auth should be disabled by default")
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("TICKERSCOPE_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("TICKERSCOPE_PORT", "not-a-port")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
}

func TestConfig_ServiceEnvOverrides(t *testing.T) {
	t.Setenv("TICKERSCOPE_STORAGE_ADDRESS", "ws://db:8000/rpc")
	t.Setenv("TICKERSCOPE_REDIS_URL", "redis://cache:6379/0")
	t.Setenv("TICKERSCOPE_JWT_SECRET", "s3cret")
	t.Setenv("TICKERSCOPE_BATCH_SCHEDULE", "0 0 22 * * 1-5")
	t.Setenv("TICKERSCOPE_SCAN_DELAY", "1s")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Storage.Address != "ws://db:8000/rpc" {
		t.Errorf("Storage.Address = %q", cfg.Storage.Address)
	}
	if !cfg.Cache.Enabled() {
		t.Error("cache should be enabled after REDIS_URL override")
	}
	if !cfg.Auth.Enabled() {
		t.Error("auth should be enabled after JWT_SECRET override")
	}
	if cfg.Batch.Schedule != "0 0 22 * * 1-5" {
		t.Errorf("Batch.Schedule = %q", cfg.Batch.Schedule)
	}
	if cfg.Scan.GetDelay() != time.Second {
		t.Errorf("Scan.GetDelay() = %v, want 1s", cfg.Scan.GetDelay())
	}
}

func TestConfig_DurationFallbacks(t *testing.T) {
	cfg := &Config{}
	if got := cfg.Provider.GetTimeout(); got != 30*time.Second {
		t.Errorf("Provider.GetTimeout() = %v, want 30s", got)
	}
	if got := cfg.Provider.GetSessionTTL(); got != time.Hour {
		t.Errorf("Provider.GetSessionTTL() = %v, want 1h", got)
	}
	if got := cfg.Cache.GetTTL(); got != 15*time.Minute {
		t.Errorf("Cache.GetTTL() = %v, want 15m", got)
	}
	cfg.Scan.Delay = "garbage"
	if got := cfg.Scan.GetDelay(); got != 400*time.Millisecond {
		t.Errorf("Scan.GetDelay() = %v, want 400ms", got)
	}
}

func TestLoadConfig_FileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tickerscope.toml")
	content := `
environment = "production"

[server]
port = 9999

[scan]
default_threshold = 80
default_categories = ["nasdaq100", "etfs"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(filepath.Join(dir, "missing.toml"), path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
	if cfg.Scan.DefaultThreshold != 80 {
		t.Errorf("Scan.DefaultThreshold = %d, want 80", cfg.Scan.DefaultThreshold)
	}
	if len(cfg.Scan.DefaultCategories) != 2 || cfg.Scan.DefaultCategories[1] != "etfs" {
		t.Errorf("Scan.DefaultCategories = %v", cfg.Scan.DefaultCategories)
	}
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[server\nport = "), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error for invalid TOML")
	}
}
