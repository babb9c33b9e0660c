// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for all repolens application modes (CLI, MCP).
package observability

import "log/slog"

// Mode selects the telemetry profile.
type Mode string

const (
	// ModeOff disables tracing and metrics; only logging remains.
	ModeOff Mode = "off"

	// ModeLocal keeps tracing off but collects metrics into a local
	// Prometheus registry, served by the diagnostics endpoint.
	ModeLocal Mode = "local"

	// ModeOTLP exports traces to an OTLP gRPC collector and collects
	// metrics into the local Prometheus registry.
	ModeOTLP Mode = "otlp"
)

const (
	// defaultServiceName is the default OTel service name.
	defaultServiceName = "repolens"

	// defaultShutdownTimeoutSec is the default shutdown timeout in seconds.
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Mode selects the telemetry profile.
	Mode Mode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Required for ModeOTLP.
	OTLPEndpoint string

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON-formatted log output.
	LogJSON bool

	// ShutdownTimeoutSec is the maximum seconds to wait for flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config with sensible defaults for zero-config
// startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeOff,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// ParseLevel maps a config string to a slog level. Unknown strings fall back
// to info.
func ParseLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
