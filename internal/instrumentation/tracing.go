package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every gworkspace span.
const TracerName = "github.com/teemow/gworkspace"

// Span attribute keys.
const (
	SpanAttrTool      = "mcp.tool"
	SpanAttrReadOnly  = "mcp.read_only"
	SpanAttrService   = "google.service"
	SpanAttrOperation = "google.operation"
	SpanAttrCommand   = "gworkspace.command"
)

// CommandAttributes describes an extension command on a span.
func CommandAttributes(command, service, operation string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if command != "" {
		attrs = append(attrs, attribute.String(SpanAttrCommand, command))
	}
	if service != "" {
		attrs = append(attrs, attribute.String(SpanAttrService, service))
	}
	if operation != "" {
		attrs = append(attrs, attribute.String(SpanAttrOperation, operation))
	}
	return attrs
}

// StartToolSpan starts the server span of one MCP tool call, named
// "tool.<tool>".
func StartToolSpan(ctx context.Context, tool string, readOnly bool, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{
		attribute.String(SpanAttrTool, tool),
		attribute.Bool(SpanAttrReadOnly, readOnly),
	}, attrs...)

	return otel.Tracer(TracerName).Start(ctx, "tool."+tool,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartCommandSpan starts the client span of one command run against a
// Google API, named "google.<service>.<operation>".
func StartCommandSpan(ctx context.Context, command, service, operation string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, "google."+service+"."+operation,
		trace.WithAttributes(CommandAttributes(command, service, operation)...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// FinishSpan sets the span status from err. It does not end the span.
func FinishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
