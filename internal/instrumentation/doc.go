// Package instrumentation wires OpenTelemetry into gworkspace: the meter and
// tracer providers, the metric instruments, span helpers and the audit log
// of command runs.
//
// # Metrics
//
//	http_requests_total                    method, path, status
//	http_request_duration_seconds          method, path, status
//	active_sessions                        (gauge)
//	command_invocations_total              command, status, kind
//	command_duration_seconds               command, status
//	google_api_operations_total            service, operation, status
//	google_api_operation_duration_seconds  service, operation, status
//	credential_resolutions_total           path (static, refreshable, refreshed)
//	oauth_token_refresh_total              result
//	mcp_tool_invocations_total             tool, status
//	mcp_tool_duration_seconds              tool, status
//
// With the prometheus exporter the Provider owns its registry and serves it
// through PrometheusHandler. A disabled Provider still hands out Metrics,
// backed by a noop meter.
//
// # Spans
//
// StartToolSpan opens "tool.<name>" for each MCP tool call and
// StartCommandSpan opens "google.<service>.<operation>" below it for the
// Google API call.
//
// # Environment
//
//	INSTRUMENTATION_ENABLED      default true
//	METRICS_EXPORTER             prometheus (default), otlp, stdout
//	TRACING_EXPORTER             none (default), otlp, stdout
//	OTEL_EXPORTER_OTLP_ENDPOINT  required by the otlp exporters
//	OTEL_EXPORTER_OTLP_INSECURE  plain HTTP to the collector
//	OTEL_TRACES_SAMPLER_ARG      0.0 to 1.0, default 0.1
//	OTEL_SERVICE_NAME            default gworkspace
//	OTEL_SERVICE_INSTANCE_ID     default the hostname
//	AUDIT_LOGGING_ENABLED        default true
//	AUDIT_LOGGING_INCLUDE_PII    log full recipient addresses
package instrumentation
