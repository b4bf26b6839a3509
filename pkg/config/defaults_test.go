package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected level INFO, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected format text, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected output stdout, got %q", cfg.Logging.Output)
	}
	if len(cfg.Server.Listeners) != 1 {
		t.Fatalf("Expected one default listener, got %d", len(cfg.Server.Listeners))
	}
	if cfg.Server.Listeners[0].Port != telnetDefaultPort {
		t.Errorf("Expected default port %d, got %d", telnetDefaultPort, cfg.Server.Listeners[0].Port)
	}
	if cfg.Server.MaxConnections != 0 {
		t.Errorf("Expected unlimited connections by default, got %d", cfg.Server.MaxConnections)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected shutdown timeout 10s, got %v", cfg.Server.ShutdownTimeout)
	}
	if len(cfg.Catalog.Movies) != 3 {
		t.Errorf("Expected the 3-movie sample catalog, got %d", len(cfg.Catalog.Movies))
	}
}

func TestApplyDefaults_NormalizesLogLevel(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "debug"}}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected normalized level DEBUG, got %q", cfg.Logging.Level)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Listeners:       []ListenerConfig{{Bind: "127.0.0.1", Port: 51000}},
			MaxConnections:  8,
			ShutdownTimeout: time.Minute,
		},
	}
	ApplyDefaults(cfg)

	if cfg.Server.Listeners[0].Port != 51000 {
		t.Errorf("Explicit port was overwritten: %d", cfg.Server.Listeners[0].Port)
	}
	if cfg.Server.MaxConnections != 8 {
		t.Errorf("Explicit max_connections was overwritten: %d", cfg.Server.MaxConnections)
	}
	if cfg.Server.ShutdownTimeout != time.Minute {
		t.Errorf("Explicit shutdown_timeout was overwritten: %v", cfg.Server.ShutdownTimeout)
	}
}

func TestApplyDefaults_ListenerPortFill(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Listeners: []ListenerConfig{{Bind: "10.0.0.1"}},
		},
	}
	ApplyDefaults(cfg)

	if cfg.Server.Listeners[0].Port != telnetDefaultPort {
		t.Errorf("Expected port fill to %d, got %d", telnetDefaultPort, cfg.Server.Listeners[0].Port)
	}
	if cfg.Server.Listeners[0].Bind != "10.0.0.1" {
		t.Errorf("Bind address was overwritten: %q", cfg.Server.Listeners[0].Bind)
	}
}

func TestApplyDefaults_MetricsPortOnlyWhenEnabled(t *testing.T) {
	disabled := &Config{}
	ApplyDefaults(disabled)
	if disabled.Metrics.Port != 0 {
		t.Errorf("Expected no metrics port when disabled, got %d", disabled.Metrics.Port)
	}

	enabled := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(enabled)
	if enabled.Metrics.Port != 9090 {
		t.Errorf("Expected metrics port 9090, got %d", enabled.Metrics.Port)
	}
}

func TestApplyDefaults_CatalogFileSuppressesSample(t *testing.T) {
	cfg := &Config{Catalog: CatalogConfig{File: "/etc/bookerd/catalog.json"}}
	ApplyDefaults(cfg)

	if len(cfg.Catalog.Movies) != 0 {
		t.Errorf("Sample catalog applied despite a document path: %+v", cfg.Catalog.Movies)
	}
}

func TestGetDefaultConfig_Validates(t *testing.T) {
	cfg := GetDefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Errorf("Default config does not validate: %v", err)
	}
}
