package config

import (
	"fmt"
	"time"

	"github.com/soltixdb/rainflow/internal/analytics/rainflow"
	"github.com/soltixdb/rainflow/internal/compression"
	"github.com/soltixdb/rainflow/internal/seriesio"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Counting CountingConfig `mapstructure:"counting"`
	Input    InputConfig    `mapstructure:"input"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`              // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort        int           `mapstructure:"http_port"`         // HTTP server port
	BodyLimit       int           `mapstructure:"body_limit"`        // Max request body in bytes
	MaxSeriesLength int           `mapstructure:"max_series_length"` // Max values accepted per request
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// CountingConfig holds the default binning used when a request or the CLI
// does not choose one
type CountingConfig struct {
	Mode    string  `mapstructure:"mode"` // raw, digits, nbins, binsize
	NDigits int     `mapstructure:"ndigits"`
	NBins   int     `mapstructure:"nbins"`
	BinSize float64 `mapstructure:"binsize"`
	MaxBins int     `mapstructure:"max_bins"` // Histogram length cap for nbins and binsize
}

// InputConfig describes how the CLI reads series files
type InputConfig struct {
	Format      string `mapstructure:"format"`      // auto, text, csv, json, binary
	Column      int    `mapstructure:"column"`      // CSV column index
	Compression string `mapstructure:"compression"` // none, snappy, snappy-framed
	SkipHeader  bool   `mapstructure:"skip_header"`
}

// MetricsConfig represents prometheus exposition settings
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Counting.Validate(); err != nil {
		return fmt.Errorf("counting config: %w", err)
	}

	if err := c.Input.Validate(); err != nil {
		return fmt.Errorf("input config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.BodyLimit <= 0 {
		return fmt.Errorf("body_limit must be positive")
	}

	if c.MaxSeriesLength <= 0 {
		return fmt.Errorf("max_series_length must be positive")
	}

	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}

	return nil
}

// Validate validates auth configuration
func (c *AuthConfig) Validate() error {
	if c.Enabled && len(c.APIKeys) == 0 {
		return fmt.Errorf("auth.api_keys is required when auth is enabled")
	}
	return nil
}

// Validate checks that the selected mode has a usable parameter
func (c *CountingConfig) Validate() error {
	if c.MaxBins <= 0 {
		return fmt.Errorf("counting.max_bins must be positive")
	}
	cfg, err := c.CountConfig()
	if err != nil {
		return err
	}
	return cfg.Validate()
}

// CountConfig converts the section into the counting options for the
// selected mode. Parameters of the other modes are ignored.
func (c *CountingConfig) CountConfig() (rainflow.CountConfig, error) {
	var cfg rainflow.CountConfig
	switch rainflow.BinningMode(c.Mode) {
	case "", rainflow.ModeRaw:
	case rainflow.ModeDigits:
		cfg = rainflow.Digits(c.NDigits)
	case rainflow.ModeNBins:
		cfg = rainflow.Bins(c.NBins)
	case rainflow.ModeBinSize:
		cfg = rainflow.BinWidth(c.BinSize)
	default:
		return rainflow.CountConfig{}, fmt.Errorf("counting.mode must be one of: raw, digits, nbins, binsize")
	}
	cfg.MaxBins = c.MaxBins
	return cfg, nil
}

// Validate validates input configuration
func (c *InputConfig) Validate() error {
	_, err := c.Options()
	return err
}

// Options converts the section into series decoding options
func (c *InputConfig) Options() (seriesio.Options, error) {
	format, err := seriesio.ParseFormat(c.Format)
	if err != nil {
		return seriesio.Options{}, err
	}

	algo, err := compression.ParseAlgorithm(c.Compression)
	if err != nil {
		return seriesio.Options{}, err
	}

	if c.Column < 0 {
		return seriesio.Options{}, fmt.Errorf("input.column cannot be negative")
	}

	return seriesio.Options{
		Format:      format,
		Column:      c.Column,
		SkipHeader:  c.SkipHeader,
		Compression: algo,
	}, nil
}

// Validate validates metrics configuration
func (c *MetricsConfig) Validate() error {
	if c.Enabled && (c.Path == "" || c.Path[0] != '/') {
		return fmt.Errorf("metrics.path must start with '/'")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
