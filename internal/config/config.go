// Package config provides centralized configuration management for the
// endpoint checker. It loads configuration from environment variables
// with sensible defaults and validates all settings on startup to fail
// fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Pipeline  PipelineConfig
	Discovery DiscoveryConfig
	Logging   LoggingConfig
}

// PipelineConfig holds CSV processing settings.
type PipelineConfig struct {
	// OutputPath is where annotated rows are written when no output path
	// is given on the command line (default: output.csv)
	OutputPath string `env:"OUTPUT_PATH" default:"output.csv"`

	// FlushInterval is how many rows may be written between forced
	// flushes to stable storage (default: 50)
	FlushInterval int `env:"FLUSH_INTERVAL" default:"50"`
}

// DiscoveryConfig holds certificate-discovery settings.
type DiscoveryConfig struct {
	// DNSResolver is the nameserver to query for CERT records, as
	// "host" or "host:port". Empty uses the system resolver.
	DNSResolver string `env:"DISCOVERY_DNS_RESOLVER"`

	// DNSTimeout bounds a single CERT query (default: 5s)
	DNSTimeout time.Duration `env:"DISCOVERY_DNS_TIMEOUT" default:"5s"`

	// LDAPTimeout bounds each LDAP dial, bind and search (default: 10s)
	LDAPTimeout time.Duration `env:"DISCOVERY_LDAP_TIMEOUT" default:"10s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
