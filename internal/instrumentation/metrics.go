package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrTool      = "tool"
	attrCommand   = "command"
	attrKind      = "kind"
	attrSource    = "path"
)

var (
	httpBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0}
	callBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
)

// Metrics records the gworkspace metrics. A nil or zero Metrics records
// nothing.
type Metrics struct {
	httpRequests   metric.Int64Counter
	httpDuration   metric.Float64Histogram
	activeSessions metric.Int64UpDownCounter

	commands        metric.Int64Counter
	commandDuration metric.Float64Histogram

	apiOperations   metric.Int64Counter
	apiDuration     metric.Float64Histogram
	credentials     metric.Int64Counter
	tokenRefreshes  metric.Int64Counter
	toolInvocations metric.Int64Counter
	toolDuration    metric.Float64Histogram
}

// instruments creates counters and histograms on one meter and collects
// every creation error.
type instruments struct {
	meter metric.Meter
	errs  []error
}

func (in *instruments) counter(name, description, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("failed to create %s: %w", name, err))
	}
	return c
}

func (in *instruments) histogram(name, description string, buckets []float64) metric.Float64Histogram {
	h, err := in.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("failed to create %s: %w", name, err))
	}
	return h
}

func (in *instruments) upDownCounter(name, description, unit string) metric.Int64UpDownCounter {
	c, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("failed to create %s: %w", name, err))
	}
	return c
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	in := &instruments{meter: meter}

	m := &Metrics{
		httpRequests:   in.counter("http_requests_total", "Total number of HTTP requests to the MCP endpoint", "{request}"),
		httpDuration:   in.histogram("http_request_duration_seconds", "MCP endpoint request duration in seconds", httpBuckets),
		activeSessions: in.upDownCounter("active_sessions", "Number of active MCP sessions", "{session}"),

		commands:        in.counter("command_invocations_total", "Total number of extension command invocations", "{invocation}"),
		commandDuration: in.histogram("command_duration_seconds", "Extension command duration in seconds", callBuckets),

		apiOperations:   in.counter("google_api_operations_total", "Total number of Google API operations", "{operation}"),
		apiDuration:     in.histogram("google_api_operation_duration_seconds", "Google API operation duration in seconds", callBuckets),
		credentials:     in.counter("credential_resolutions_total", "Total number of resolved Google credentials by resolution path", "{resolution}"),
		tokenRefreshes:  in.counter("oauth_token_refresh_total", "Total number of OAuth token refresh attempts", "{attempt}"),
		toolInvocations: in.counter("mcp_tool_invocations_total", "Total number of MCP tool invocations", "{invocation}"),
		toolDuration:    in.histogram("mcp_tool_duration_seconds", "MCP tool execution duration in seconds", callBuckets),
	}

	if err := errors.Join(in.errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordHTTPRequest records one request to the MCP endpoint.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequests == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequests.Add(ctx, 1, attrs)
	m.httpDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCommand records one extension command run. Kind is the error kind
// of a failed run and is empty on success; it is not a label of the
// duration histogram.
func (m *Metrics) RecordCommand(ctx context.Context, command, status, kind string, duration time.Duration) {
	if m == nil || m.commands == nil {
		return
	}

	base := []attribute.KeyValue{
		attribute.String(attrCommand, command),
		attribute.String(attrStatus, status),
	}
	counted := base
	if kind != "" {
		counted = append(counted[:len(counted):len(counted)], attribute.String(attrKind, kind))
	}

	m.commands.Add(ctx, 1, metric.WithAttributes(counted...))
	m.commandDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(base...))
}

// RecordGoogleAPIOperation records one Google API call made by a command,
// e.g. ("gmail", "send", "success").
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.apiOperations == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.apiOperations.Add(ctx, 1, attrs)
	m.apiDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCredentialResolution records which path produced a credential:
// "static", "refreshable" or "refreshed".
func (m *Metrics) RecordCredentialResolution(ctx context.Context, source string) {
	if m == nil || m.credentials == nil {
		return
	}
	m.credentials.Add(ctx, 1, metric.WithAttributes(attribute.String(attrSource, source)))
}

// RecordOAuthTokenRefresh records a token refresh attempt with its result.
func (m *Metrics) RecordOAuthTokenRefresh(ctx context.Context, result string) {
	if m == nil || m.tokenRefreshes == nil {
		return
	}
	m.tokenRefreshes.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordToolInvocation records one MCP tool call.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocations == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	)
	m.toolInvocations.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}

// IncrementActiveSessions increments the active sessions counter.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions counter.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, -1)
}
