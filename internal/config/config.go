package config

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// Config holds all configuration for croniclectl.
// Values are loaded from environment variables; see the CLI usage text
// for the full list.
type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`

	HTTPTimeout    time.Duration `json:"-"`
	HTTPTimeoutStr string        `json:"http_timeout"`

	RedisAddr string `json:"redis_addr,omitempty"`

	MetricsEnabled bool   `json:"metrics_enabled"`
	MetricsAddr    string `json:"metrics_addr"`
	MetricsPath    string `json:"metrics_path"`

	// BreakerThreshold: 0 disables the circuit breaker.
	BreakerThreshold   int           `json:"breaker_threshold"`
	BreakerCooldown    time.Duration `json:"-"`
	BreakerCooldownStr string        `json:"breaker_cooldown"`

	SweepInterval    time.Duration `json:"-"`
	SweepIntervalStr string        `json:"sweep_interval"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	cfg := Config{
		APIKey:             os.Getenv("CRONICLE_API_KEY"),
		BaseURL:            os.Getenv("CRONICLE_BASE_URL"),
		HTTPTimeoutStr:     os.Getenv("CRONICLE_HTTP_TIMEOUT"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		MetricsEnabled:     os.Getenv("METRICS_ENABLED") == "true",
		MetricsAddr:        os.Getenv("METRICS_ADDR"),
		MetricsPath:        os.Getenv("METRICS_PATH"),
		BreakerCooldownStr: os.Getenv("BREAKER_COOLDOWN"),
		SweepIntervalStr:   os.Getenv("SWEEP_INTERVAL"),
	}

	if thresholdStr := os.Getenv("BREAKER_THRESHOLD"); thresholdStr != "" {
		if n, err := parseInt(thresholdStr); err == nil {
			cfg.BreakerThreshold = n
		} else {
			log.Printf("config: invalid BREAKER_THRESHOLD %q, using default 5", thresholdStr)
			cfg.BreakerThreshold = 5
		}
	} else {
		cfg.BreakerThreshold = 5
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:3012"
	}
	if cfg.HTTPTimeoutStr == "" {
		cfg.HTTPTimeoutStr = "30s"
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = ":9090"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.BreakerCooldownStr == "" {
		cfg.BreakerCooldownStr = "2m"
	}
	if cfg.SweepIntervalStr == "" {
		cfg.SweepIntervalStr = "5m"
	}

	// Parse durations; validation is handled separately by Validate().
	if d, err := time.ParseDuration(cfg.HTTPTimeoutStr); err == nil {
		cfg.HTTPTimeout = d
	}
	if d, err := time.ParseDuration(cfg.BreakerCooldownStr); err == nil {
		cfg.BreakerCooldown = d
	}
	if d, err := time.ParseDuration(cfg.SweepIntervalStr); err == nil {
		cfg.SweepInterval = d
	}

	return cfg
}

// parseInt parses a string as a non-negative integer.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, os.ErrInvalid
	}
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, os.ErrInvalid
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// MaskedJSON returns the configuration as JSON with the API key masked.
func (c Config) MaskedJSON() ([]byte, error) {
	masked := struct {
		APIKey           string `json:"api_key"`
		BaseURL          string `json:"base_url"`
		HTTPTimeout      string `json:"http_timeout"`
		RedisAddr        string `json:"redis_addr,omitempty"`
		MetricsEnabled   bool   `json:"metrics_enabled"`
		MetricsAddr      string `json:"metrics_addr"`
		MetricsPath      string `json:"metrics_path"`
		BreakerThreshold int    `json:"breaker_threshold"`
		BreakerCooldown  string `json:"breaker_cooldown"`
		SweepInterval    string `json:"sweep_interval"`
	}{
		APIKey:           maskSecret(c.APIKey),
		BaseURL:          c.BaseURL,
		HTTPTimeout:      c.HTTPTimeoutStr,
		RedisAddr:        c.RedisAddr,
		MetricsEnabled:   c.MetricsEnabled,
		MetricsAddr:      c.MetricsAddr,
		MetricsPath:      c.MetricsPath,
		BreakerThreshold: c.BreakerThreshold,
		BreakerCooldown:  c.BreakerCooldownStr,
		SweepInterval:    c.SweepIntervalStr,
	}
	return json.MarshalIndent(masked, "", "  ")
}

// maskSecret masks a secret value, preserving only a short prefix so
// operators can tell keys apart.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "***"
	}
	return s[:4] + "***"
}
