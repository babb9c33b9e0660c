// Package config loads repolens settings from file, environment, and
// defaults.
package config

import "errors"

// Config is the top-level configuration struct for repolens.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Ingest        IngestConfig        `mapstructure:"ingest"`
	GitHub        GitHubConfig        `mapstructure:"github"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	MCP           MCPConfig           `mapstructure:"mcp"`
}

// IngestConfig holds pipeline knobs.
type IngestConfig struct {
	// Workers bounds concurrent file reads during the tree build.
	Workers int `mapstructure:"workers"`

	// SkipMetadata disables the remote metadata fetch entirely.
	SkipMetadata bool `mapstructure:"skip_metadata"`
}

// GitHubConfig holds remote API settings. The token itself comes from
// GH_TOKEN or GITHUB_TOKEN, never from the config file.
type GitHubConfig struct {
	// BaseURL overrides the API endpoint, for Enterprise hosts.
	BaseURL string `mapstructure:"base_url"`
}

// ObservabilityConfig holds telemetry settings.
type ObservabilityConfig struct {
	// Mode selects the telemetry profile: "off", "local", or "otlp".
	Mode string `mapstructure:"mode"`

	// OTLPEndpoint is the collector address for mode "otlp".
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// OTLPInsecure disables TLS on the collector connection.
	OTLPInsecure bool `mapstructure:"otlp_insecure"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `mapstructure:"log_level"`

	// LogJSON switches log output from text to JSON.
	LogJSON bool `mapstructure:"log_json"`

	// DiagnosticsAddr, when non-empty, serves /healthz, /readyz, and
	// /metrics on that address.
	DiagnosticsAddr string `mapstructure:"diagnostics_addr"`
}

// MCPConfig holds server settings for the MCP surface.
type MCPConfig struct {
	// CacheSize bounds the number of ingestion results kept in memory.
	CacheSize int `mapstructure:"cache_size"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidWorkers indicates the workers value is negative.
	ErrInvalidWorkers = errors.New("ingest.workers must be non-negative")
	// ErrInvalidMode indicates an unknown observability mode.
	ErrInvalidMode = errors.New("observability.mode must be off, local, or otlp")
	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("observability.log_level must be debug, info, warn, or error")
	// ErrInvalidCacheSize indicates the cache size is not positive.
	ErrInvalidCacheSize = errors.New("mcp.cache_size must be positive")
	// ErrMissingOTLPEndpoint indicates mode otlp without a collector address.
	ErrMissingOTLPEndpoint = errors.New("observability.otlp_endpoint required for mode otlp")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Ingest.Workers < 0 {
		return ErrInvalidWorkers
	}

	switch c.Observability.Mode {
	case "off", "local", "otlp":
	default:
		return ErrInvalidMode
	}

	if c.Observability.Mode == "otlp" && c.Observability.OTLPEndpoint == "" {
		return ErrMissingOTLPEndpoint
	}

	switch c.Observability.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	if c.MCP.CacheSize < 1 {
		return ErrInvalidCacheSize
	}

	return nil
}
