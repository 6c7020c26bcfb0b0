package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Pipeline.OutputPath != "output.csv" {
		t.Errorf("Pipeline.OutputPath = %q, want %q", cfg.Pipeline.OutputPath, "output.csv")
	}
	if cfg.Pipeline.FlushInterval != 50 {
		t.Errorf("Pipeline.FlushInterval = %d, want %d", cfg.Pipeline.FlushInterval, 50)
	}
	if cfg.Discovery.DNSTimeout != 5*time.Second {
		t.Errorf("Discovery.DNSTimeout = %v, want %v", cfg.Discovery.DNSTimeout, 5*time.Second)
	}
	if cfg.Discovery.LDAPTimeout != 10*time.Second {
		t.Errorf("Discovery.LDAPTimeout = %v, want %v", cfg.Discovery.LDAPTimeout, 10*time.Second)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("FLUSH_INTERVAL", "10")
	os.Setenv("OUTPUT_PATH", "annotated.csv")
	os.Setenv("DISCOVERY_DNS_TIMEOUT", "2s")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("FLUSH_INTERVAL")
		os.Unsetenv("OUTPUT_PATH")
		os.Unsetenv("DISCOVERY_DNS_TIMEOUT")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pipeline.FlushInterval != 10 {
		t.Errorf("Pipeline.FlushInterval = %d, want %d", cfg.Pipeline.FlushInterval, 10)
	}
	if cfg.Pipeline.OutputPath != "annotated.csv" {
		t.Errorf("Pipeline.OutputPath = %q, want %q", cfg.Pipeline.OutputPath, "annotated.csv")
	}
	if cfg.Discovery.DNSTimeout != 2*time.Second {
		t.Errorf("Discovery.DNSTimeout = %v, want %v", cfg.Discovery.DNSTimeout, 2*time.Second)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"negative flush interval", "FLUSH_INTERVAL", "-1"},
		{"non-numeric flush interval", "FLUSH_INTERVAL", "often"},
		{"bad duration", "DISCOVERY_LDAP_TIMEOUT", "soon"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.env, tt.value)
			defer os.Unsetenv(tt.env)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q, want error", tt.env, tt.value)
			}
		})
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := &Config{
		Pipeline:  PipelineConfig{OutputPath: "output.csv", FlushInterval: 50},
		Discovery: DiscoveryConfig{DNSTimeout: time.Second, LDAPTimeout: time.Second},
		Logging:   LoggingConfig{Level: "verbose", Format: "text"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestConfig_String(t *testing.T) {
	cfg := MustLoad()

	s := cfg.String()
	if !strings.Contains(s, "output.csv") {
		t.Errorf("String() = %q, want it to mention the output path", s)
	}
	if !strings.Contains(s, "FlushInterval: 50") {
		t.Errorf("String() = %q, want it to mention the flush interval", s)
	}
}
