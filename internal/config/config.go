package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultBaseURL     = "http://imagens.seplag.ce.gov.br"
	DefaultTimeout     = 10 * time.Second
	DefaultMaxParts    = 10
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultRate        = 1.0               // requests per second
	DefaultUserAgent   = "doe-scan/1.0 (+https://github.com/doe-tools/doe-scan)"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the gazette scanner
type Config struct {
	// Remote source configuration
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Rate      float64 // outbound requests per second

	// Pagination configuration
	MaxParts int // safety ceiling on sequential part probing per date

	// Document configuration
	MaxFileSize int64 // maximum PDF size in bytes
	LayoutText  bool  // layout-preserving text extraction

	// Local cache configuration
	CacheDir  string
	SaveLocal bool // persist downloaded documents into CacheDir
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		Rate:        DefaultRate,
		MaxParts:    DefaultMaxParts,
		MaxFileSize: DefaultMaxFileSize,
		LayoutText:  false,
		CacheDir:    ".",
		SaveLocal:   false,
	}
}

// SetDefaults registers the configuration defaults with viper so that
// values resolve even when neither flag, env, nor config file set them.
func SetDefaults(v *viper.Viper) {
	cfg := DefaultConfig()
	v.SetDefault("base-url", cfg.BaseURL)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("user-agent", cfg.UserAgent)
	v.SetDefault("rate", cfg.Rate)
	v.SetDefault("max-parts", cfg.MaxParts)
	v.SetDefault("max-file-size", cfg.MaxFileSize)
	v.SetDefault("layout", cfg.LayoutText)
	v.SetDefault("cache-dir", cfg.CacheDir)
	v.SetDefault("save-local", cfg.SaveLocal)
}

// Load builds a Config from the resolved viper state and validates it
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		BaseURL:     v.GetString("base-url"),
		Timeout:     v.GetDuration("timeout"),
		UserAgent:   v.GetString("user-agent"),
		Rate:        v.GetFloat64("rate"),
		MaxParts:    v.GetInt("max-parts"),
		MaxFileSize: v.GetInt64("max-file-size"),
		LayoutText:  v.GetBool("layout"),
		CacheDir:    v.GetString("cache-dir"),
		SaveLocal:   v.GetBool("save-local"),
	}

	if cfg.CacheDir != "" {
		if expandedPath, err := filepath.Abs(cfg.CacheDir); err == nil {
			cfg.CacheDir = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL cannot be empty")
	}

	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if c.Timeout > time.Minute {
		return fmt.Errorf("timeout too large: %s (max: 1m)", c.Timeout)
	}

	if c.Rate <= 0 {
		return errors.New("request rate must be positive")
	}

	if c.MaxParts < 1 {
		return errors.New("max parts must be at least 1")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.CacheDir == "" {
		return errors.New("cache directory cannot be empty")
	}

	return nil
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{BaseURL: %s, Timeout: %s, MaxParts: %d, CacheDir: %s, Rate: %.2f, MaxFileSize: %d}",
		c.BaseURL, c.Timeout, c.MaxParts, c.CacheDir, c.Rate, c.MaxFileSize)
}
