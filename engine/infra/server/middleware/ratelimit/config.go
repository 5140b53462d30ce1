package ratelimit

import (
	"fmt"
	"time"

	"github.com/ulule/limiter/v3"
)

// Config represents rate limiting configuration.
type Config struct {
	// Global rate limit applied per client IP across the API.
	GlobalRate RateConfig `yaml:"global_rate"`

	// OTPRate throttles the endpoints that send verification emails.
	OTPRate RateConfig `yaml:"otp_rate"`

	// Options
	Prefix string `yaml:"prefix"`

	// Header configuration
	DisableHeaders bool `yaml:"disable_headers"`

	// Exclude patterns
	ExcludedPaths []string `yaml:"excluded_paths"`
}

// RateConfig represents a single rate limit configuration.
type RateConfig struct {
	Period   time.Duration `yaml:"period"`
	Limit    int64         `yaml:"limit"`
	Disabled bool          `yaml:"disabled,omitempty"`
}

// DefaultConfig returns default rate limiting configuration.
func DefaultConfig() *Config {
	return &Config{
		GlobalRate: RateConfig{
			Limit:  300,
			Period: 1 * time.Minute,
		},
		OTPRate: RateConfig{
			Limit:  5,
			Period: 1 * time.Minute,
		},
		Prefix:         "equipsight:ratelimit:",
		DisableHeaders: false,
		ExcludedPaths: []string{
			"/healthz",
			"/metrics",
		},
	}
}

// ToLimiterRate converts RateConfig to limiter.Rate.
func (rc RateConfig) ToLimiterRate() limiter.Rate {
	return limiter.Rate{
		Period: rc.Period,
		Limit:  rc.Limit,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.GlobalRate.Limit <= 0 {
		return fmt.Errorf("global rate limit must be positive")
	}
	if c.OTPRate.Limit <= 0 {
		return fmt.Errorf("OTP rate limit must be positive")
	}
	return nil
}
