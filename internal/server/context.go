package server

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/teemow/gworkspace/internal/extension"
	"github.com/teemow/gworkspace/internal/instrumentation"
)

// ServerContext is shared by every tool handler of one MCP server. Its
// context is cancelled on Shutdown.
type ServerContext struct {
	ctx       context.Context
	cancel    context.CancelFunc
	extension *extension.Extension
	metrics   *instrumentation.Metrics
	audit     *instrumentation.AuditLogger
	shutdown  atomic.Bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithMetrics records tool invocations and HTTP requests on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) { sc.metrics = m }
}

// WithAuditLogger writes an audit record for every tool invocation to al.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) { sc.audit = al }
}

// NewServerContext creates a ServerContext that runs commands through ext.
func NewServerContext(ctx context.Context, ext *extension.Extension, opts ...Option) (*ServerContext, error) {
	if ext == nil {
		return nil, errors.New("extension is required")
	}

	sc := &ServerContext{extension: ext}
	sc.ctx, sc.cancel = context.WithCancel(ctx)
	for _, opt := range opts {
		opt(sc)
	}
	return sc, nil
}

func (sc *ServerContext) Context() context.Context { return sc.ctx }

// Extension returns the Google extension commands are run through.
func (sc *ServerContext) Extension() *extension.Extension { return sc.extension }

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics { return sc.metrics }

// AuditLogger returns the audit logger, or nil when auditing is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger { return sc.audit }

func (sc *ServerContext) IsShutdown() bool { return sc.shutdown.Load() }

// Shutdown cancels the context. Calling it again does nothing.
func (sc *ServerContext) Shutdown() error {
	if sc.shutdown.CompareAndSwap(false, true) {
		sc.cancel()
	}
	return nil
}
