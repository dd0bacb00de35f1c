package instrumentation

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/teemow/gworkspace/internal/env"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the OpenTelemetry service name (default: gworkspace).
	ServiceName string

	// ServiceVersion is the version of the binary.
	ServiceVersion string

	// InstanceID identifies this process (default: hostname).
	InstanceID string

	// Enabled turns metrics and tracing on (INSTRUMENTATION_ENABLED, default: true).
	Enabled bool

	// MetricsExporter is one of prometheus, otlp or stdout (default: prometheus).
	MetricsExporter string

	// TracingExporter is one of otlp, stdout or none (default: none).
	TracingExporter string

	// OTLPEndpoint is the collector address without scheme, e.g. "localhost:4318".
	OTLPEndpoint string

	// OTLPInsecure exports over plain HTTP. Spans carry recipient domains and
	// command names, so only use it against a local collector.
	OTLPInsecure bool

	// TraceSamplingRate is the ratio of sampled traces (default: 0.1).
	TraceSamplingRate float64

	// Audit configures the command audit log.
	Audit AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled writes one record per command run (default: true).
	Enabled bool

	// IncludePII logs full recipient addresses instead of their domain.
	IncludePII bool
}

// Constants for metric label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	OAuthResultSuccess = "success"
	OAuthResultFailure = "failure"

	ServiceGmail    = "gmail"
	ServiceCalendar = "calendar"
	ServiceKeep     = "keep"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	// DefaultMetricInterval is the export interval of push exporters.
	DefaultMetricInterval = 10 * time.Second
)

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// DefaultConfig reads the configuration from the environment, .env files
// included.
func DefaultConfig() Config {
	return ConfigFromEnv(env.Getenv)
}

// ConfigFromEnv builds a Config from the variables returned by getenv.
// Unset or unparsable values fall back to the defaults.
func ConfigFromEnv(getenv func(string) string) Config {
	get := func(name, fallback string) string {
		if v := getenv(name); v != "" {
			return v
		}
		return fallback
	}

	return Config{
		ServiceName:       get("OTEL_SERVICE_NAME", "gworkspace"),
		ServiceVersion:    "unknown",
		InstanceID:        get("OTEL_SERVICE_INSTANCE_ID", ""),
		Enabled:           parseBool(getenv("INSTRUMENTATION_ENABLED"), true),
		MetricsExporter:   get("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   get("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure:      parseBool(getenv("OTEL_EXPORTER_OTLP_INSECURE"), false),
		TraceSamplingRate: parseFloat(getenv("OTEL_TRACES_SAMPLER_ARG"), 0.1),
		Audit: AuditLoggingConfig{
			Enabled:    parseBool(getenv("AUDIT_LOGGING_ENABLED"), true),
			IncludePII: parseBool(getenv("AUDIT_LOGGING_INCLUDE_PII"), false),
		},
	}
}

// Validate reports every problem of the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		errs = append(errs, fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %g", c.TraceSamplingRate))
	}
	if c.MetricsExporter != "" && !slices.Contains(metricsExporters, c.MetricsExporter) {
		errs = append(errs, fmt.Errorf("invalid metrics exporter %q, must be one of %v", c.MetricsExporter, metricsExporters))
	}
	if c.TracingExporter != "" && !slices.Contains(tracingExporters, c.TracingExporter) {
		errs = append(errs, fmt.Errorf("invalid tracing exporter %q, must be one of %v", c.TracingExporter, tracingExporters))
	}
	if c.OTLPEndpoint == "" && (c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP) {
		errs = append(errs, errors.New("OTLP endpoint is required by the otlp exporter; set OTEL_EXPORTER_OTLP_ENDPOINT"))
	}

	return errors.Join(errs...)
}

func parseBool(value string, fallback bool) bool {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseFloat(value string, fallback float64) float64 {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
