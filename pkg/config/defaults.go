package config

import (
	"strings"
	"time"

	"github.com/bookerd/bookerd/pkg/booking"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyMetricsDefaults(&cfg.Metrics)
	applyCatalogDefaults(&cfg.Catalog)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyServerDefaults sets listener and lifecycle defaults.
func applyServerDefaults(cfg *ServerConfig) {
	if len(cfg.Listeners) == 0 {
		cfg.Listeners = []ListenerConfig{{Bind: "0.0.0.0", Port: telnetDefaultPort}}
	}
	for i := range cfg.Listeners {
		if cfg.Listeners[i].Port == 0 {
			cfg.Listeners[i].Port = telnetDefaultPort
		}
	}

	// MaxConnections defaults to 0 (unlimited)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	// Enabled defaults to false (opt-in for metrics)
	// Port defaults to 9090 if metrics are enabled
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// applyCatalogDefaults fills in the sample catalog when neither a document
// path nor inline movies are configured.
func applyCatalogDefaults(cfg *CatalogConfig) {
	if cfg.File == "" && len(cfg.Movies) == 0 {
		cfg.Movies = defaultCatalog()
	}
}

// defaultCatalog is the catalog the server offers out of the box.
func defaultCatalog() []booking.MovieConfig {
	return []booking.MovieConfig{
		{
			Movie:    "GodFather",
			Theatres: []string{"Tokyo", "Delhi", "Shanghai", "SaoPaulo", "MexicoCity"},
		},
		{
			Movie:    "Matrix",
			Theatres: []string{"Tokyo", "MexicoCity"},
		},
		{
			Movie:    "Inception",
			Theatres: []string{"Shanghai", "SaoPaulo", "MexicoCity"},
		},
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
