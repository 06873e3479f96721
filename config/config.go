// Package config loads the gateway's process configuration.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file named by AUTHGATE_CONFIG, and finally environment variables. The
// signing secret has no default: a process without JWT_SECRET (or a file
// value) must fail to start rather than fall back to a fixed literal.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

// ErrMissingSecret is returned when no signing secret is configured.
var ErrMissingSecret = errors.New("JWT_SECRET is required")

const (
	// DefaultPort is the listening port when PORT is unset.
	DefaultPort = "3000"

	// DefaultAccessTokenTTL is the access token lifetime.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the refresh token lifetime.
	DefaultRefreshTokenTTL = 30 * time.Minute
)

// EnvConfigFile names the environment variable pointing at the optional
// YAML configuration file.
const EnvConfigFile = "AUTHGATE_CONFIG"

// Config holds runtime settings for the gateway.
type Config struct {
	Port            string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	MetricsEnabled  bool
}

// fileConfig is the YAML shape of the config file. Durations are strings in
// time.ParseDuration format.
type fileConfig struct {
	Port            string `yaml:"port"`
	JWTSecret       string `yaml:"jwt_secret"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
	MetricsEnabled  *bool  `yaml:"metrics_enabled"`
}

// Load builds a Config by applying defaults, then overlaying the optional
// YAML file, then environment variables. Fails if no signing secret is set.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            DefaultPort,
		AccessTokenTTL:  DefaultAccessTokenTTL,
		RefreshTokenTTL: DefaultRefreshTokenTTL,
		MetricsEnabled:  true,
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := overlayEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("authgate/config: %w", ErrMissingSecret)
	}
	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("authgate/config: read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("authgate/config: parse %s: %w", path, err)
	}

	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.JWTSecret != "" {
		cfg.JWTSecret = fc.JWTSecret
	}
	if fc.AccessTokenTTL != "" {
		d, err := time.ParseDuration(fc.AccessTokenTTL)
		if err != nil {
			return fmt.Errorf("authgate/config: access_token_ttl: %w", err)
		}
		cfg.AccessTokenTTL = d
	}
	if fc.RefreshTokenTTL != "" {
		d, err := time.ParseDuration(fc.RefreshTokenTTL)
		if err != nil {
			return fmt.Errorf("authgate/config: refresh_token_ttl: %w", err)
		}
		cfg.RefreshTokenTTL = d
	}
	if fc.MetricsEnabled != nil {
		cfg.MetricsEnabled = *fc.MetricsEnabled
	}
	return nil
}

func overlayEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("authgate/config: ACCESS_TOKEN_TTL: %w", err)
		}
		cfg.AccessTokenTTL = d
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("authgate/config: REFRESH_TOKEN_TTL: %w", err)
		}
		cfg.RefreshTokenTTL = d
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("authgate/config: METRICS_ENABLED: %w", err)
		}
		cfg.MetricsEnabled = b
	}
	return nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + c.Port
}
