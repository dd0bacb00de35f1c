package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/gworkspace/internal/extension"
	"github.com/teemow/gworkspace/internal/instrumentation"
)

func newTestExtension(t *testing.T, cfg extension.Config) *extension.Extension {
	t.Helper()
	return extension.New(context.Background(), cfg, extension.Options{
		AccessToken:           "static-token",
		ConversationDirectory: t.TempDir(),
	})
}

func enabledConfig() extension.Config {
	return extension.Config{ClientID: "client-id", ClientSecret: "client-secret"}
}

func newTestServerContext(t *testing.T, cfg extension.Config, opts ...Option) *ServerContext {
	t.Helper()
	sc, err := NewServerContext(context.Background(), newTestExtension(t, cfg), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestNewServerContext_RequiresExtension(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nil)
	assert.Error(t, err)
	assert.Nil(t, sc)
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := newTestServerContext(t, enabledConfig())

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.ErrorIs(t, sc.Context().Err(), context.Canceled)

	// second call is a no-op
	assert.NoError(t, sc.Shutdown())
}

func TestServerContext_Instrumentation(t *testing.T) {
	bare := newTestServerContext(t, enabledConfig())
	assert.Nil(t, bare.Metrics())
	assert.Nil(t, bare.AuditLogger())

	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	audit := instrumentation.NewAuditLogger(nil)

	sc := newTestServerContext(t, enabledConfig(), WithMetrics(metrics), WithAuditLogger(audit))

	assert.Same(t, metrics, sc.Metrics())
	assert.Same(t, audit, sc.AuditLogger())
	assert.NotNil(t, sc.Extension())
}
