// Package config loads .chainlint.yaml: runner, oracle, logging and telemetry
// settings plus per-rule overrides.
package config

// Runner defaults.
const (
	DefaultRunnerWorkers      = 0 // GOMAXPROCS.
	DefaultRunnerMaxFileSize  = "1MiB"
	DefaultRunnerMaxFixPasses = 8
	DefaultRunnerFailOn       = "Style"
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// Telemetry defaults.
const (
	DefaultTelemetrySampleRatio = 0.0
	DefaultTelemetryInsecure    = false
)
