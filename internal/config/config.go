// Package config provides configuration management for Cartograph.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with CT_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./configs/config.yaml, ~/.cartograph/config.yaml, /etc/cartograph/config.yaml)
//  3. .env files
//  4. Environment variables (CT_ prefix)
//
// # Usage Example
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Server: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
//
// # Environment Variables
//
// Environment variables override all other configuration sources.
// Use CT_ prefix and underscores for nested keys:
//   - CT_SERVER_PORT=8097
//   - CT_COMPUTE_URL=http://controller:8774
//   - CT_MODEL_REFRESH_INTERVAL=5m
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure for Cartograph.
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Compute contains the cluster inventory service connection settings
	Compute ComputeConfig `mapstructure:"compute"`

	// Identity contains the identity service connection settings
	Identity IdentityConfig `mapstructure:"identity"`

	// Model contains model builder and refresh settings
	Model ModelConfig `mapstructure:"model"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging"`

	// Security contains rate limiting and CORS settings
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address (default: 0.0.0.0)
	Host string `mapstructure:"host"`

	// Port is the server listen port (default: 8097)
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Debug enables debug logging
	Debug bool `mapstructure:"debug"`
}

// ComputeConfig contains the inventory service connection settings.
type ComputeConfig struct {
	// URL is the inventory API base URL (e.g. http://controller:8774)
	URL string `mapstructure:"url"`

	// Token is the bearer token sent with every request (optional)
	Token string `mapstructure:"token"`

	// Timeout bounds each inventory call
	Timeout time.Duration `mapstructure:"timeout"`
}

// IdentityConfig contains the identity service connection settings.
// The directory is optional; it is only needed when scopes exclude
// projects by name.
type IdentityConfig struct {
	// Enabled wires the identity directory into the builder
	Enabled bool `mapstructure:"enabled"`

	// URL is the identity API base URL (e.g. http://controller:5000)
	URL string `mapstructure:"url"`

	// Token is the bearer token sent with every request (optional)
	Token string `mapstructure:"token"`

	// Timeout bounds each identity call
	Timeout time.Duration `mapstructure:"timeout"`
}

// ModelConfig contains model builder settings.
type ModelConfig struct {
	// RefreshInterval is how often the background scheduler rebuilds
	// the model; zero disables periodic refresh
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`

	// RefreshOnlyStale limits periodic refresh to runs where
	// notifications marked the model stale
	RefreshOnlyStale bool `mapstructure:"refresh_only_stale"`

	// BuildTimeout bounds one full model build
	BuildTimeout time.Duration `mapstructure:"build_timeout"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the log format (json, text)
	Format string `mapstructure:"format"`
}

// SecurityConfig contains rate limiting and CORS settings.
type SecurityConfig struct {
	// RateLimit is the maximum requests per second per client
	RateLimit int `mapstructure:"rate_limit"`

	// AllowedOrigins are the CORS allowed origins
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

var cfg *Config

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (CT_ prefix)
//  2. .env file
//  3. Configuration file
//  4. Default values
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.cartograph")
		v.AddConfigPath("/etc/cartograph")
	}

	if err := v.ReadInConfig(); err != nil {
		// An explicitly specified file may be missing; proceed with
		// defaults in that case, fail on anything else
		if cfgFile != "" {
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("CT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8097)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)

	v.SetDefault("compute.url", "http://localhost:8774")
	v.SetDefault("compute.timeout", "30s")

	v.SetDefault("identity.enabled", false)
	v.SetDefault("identity.url", "http://localhost:5000")
	v.SetDefault("identity.timeout", "30s")

	v.SetDefault("model.refresh_interval", "0s")
	v.SetDefault("model.refresh_only_stale", true)
	v.SetDefault("model.build_timeout", "5m")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.allowed_origins", []string{"*"})
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Compute.URL == "" {
		return fmt.Errorf("compute url is required")
	}

	if cfg.Identity.Enabled && cfg.Identity.URL == "" {
		return fmt.Errorf("identity url is required when identity is enabled")
	}

	return nil
}

func Get() *Config {
	return cfg
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
