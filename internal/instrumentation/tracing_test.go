package instrumentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs a global tracer provider recording every span.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[string]any {
	m := make(map[string]any, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value.AsInterface()
	}
	return m
}

func TestCommandAttributes(t *testing.T) {
	attrs := CommandAttributes("Google - Get Emails", ServiceGmail, OperationList)
	assert.Equal(t, map[string]any{
		SpanAttrCommand:   "Google - Get Emails",
		SpanAttrService:   ServiceGmail,
		SpanAttrOperation: OperationList,
	}, attrMap(attrs))

	assert.Empty(t, CommandAttributes("", "", ""))
}

func TestStartToolSpan(t *testing.T) {
	recorder := recordSpans(t)

	ctx, span := StartToolSpan(context.Background(), "google_get_emails", true,
		CommandAttributes("Google - Get Emails", ServiceGmail, OperationList)...)
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())
	FinishSpan(span, nil)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "tool.google_get_emails", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "google_get_emails", attrs[SpanAttrTool])
	assert.Equal(t, true, attrs[SpanAttrReadOnly])
	assert.Equal(t, "Google - Get Emails", attrs[SpanAttrCommand])
}

func TestStartCommandSpan(t *testing.T) {
	recorder := recordSpans(t)

	toolCtx, parent := StartToolSpan(context.Background(), "google_send_email", false)
	_, span := StartCommandSpan(toolCtx, "Google - Send Email", ServiceGmail, OperationSend)
	FinishSpan(span, errors.New("quota exceeded"))
	span.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	child := spans[0]
	assert.Equal(t, "google.gmail.send", child.Name())
	assert.Equal(t, trace.SpanKindClient, child.SpanKind())
	assert.Equal(t, codes.Error, child.Status().Code)
	assert.Equal(t, "quota exceeded", child.Status().Description)
	assert.Equal(t, spans[1].SpanContext().SpanID(), child.Parent().SpanID())
	require.Len(t, child.Events(), 1)
	assert.Equal(t, "exception", child.Events()[0].Name)
}
