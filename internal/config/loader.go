package config

import (
	"fmt"
	"strings"

	"github.com/soltixdb/rainflow/internal/utils"
	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")             // Current directory
		v.AddConfigPath("./configs")     // Project configs directory
		v.AddConfigPath("./config")      // Alternative config directory
		v.AddConfigPath("/etc/rainflow") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides, e.g. RAINFLOW_SERVER_HTTP_PORT
	v.SetEnvPrefix("RAINFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)
	v.SetDefault("server.max_series_length", d.Server.MaxSeriesLength)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)

	// Auth defaults
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.api_keys", []string{})

	// Counting defaults
	v.SetDefault("counting.mode", d.Counting.Mode)
	v.SetDefault("counting.ndigits", d.Counting.NDigits)
	v.SetDefault("counting.nbins", d.Counting.NBins)
	v.SetDefault("counting.binsize", d.Counting.BinSize)
	v.SetDefault("counting.max_bins", d.Counting.MaxBins)

	// Input defaults
	v.SetDefault("input.format", d.Input.Format)
	v.SetDefault("input.column", d.Input.Column)
	v.SetDefault("input.compression", d.Input.Compression)
	v.SetDefault("input.skip_header", d.Input.SkipHeader)

	// Metrics defaults
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			HTTPPort:        5555,
			BodyLimit:       utils.DefaultBodyLimit,
			MaxSeriesLength: utils.DefaultMaxSeriesLength,
			ReadTimeout:     utils.DefaultRequestTimeout,
			WriteTimeout:    utils.DefaultRequestTimeout,
		},
		Counting: CountingConfig{
			Mode:    "raw",
			NDigits: 0,
			NBins:   10,
			BinSize: 1,
			MaxBins: utils.DefaultMaxBins,
		},
		Input: InputConfig{
			Format:      "auto",
			Compression: "none",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "rainflow",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "RFC3339",
		},
	}
}
