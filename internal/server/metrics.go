package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/teemow/gworkspace/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is the default address for the metrics server.
	DefaultMetricsAddr = ":9090"

	// DefaultMetricsTimeout bounds reading, writing and idling on the metrics server.
	DefaultMetricsTimeout = 10 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful server shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// MetricsServer serves the Prometheus scrape endpoint on its own listener,
// away from the MCP endpoint.
type MetricsServer struct {
	addr       string
	metrics    http.Handler
	httpServer *http.Server
}

// NewMetricsServer creates a metrics server for provider on addr
// (DefaultMetricsAddr when empty). The provider must be enabled and export
// to Prometheus.
func NewMetricsServer(provider *instrumentation.Provider, addr string) (*MetricsServer, error) {
	if provider == nil {
		return nil, errors.New("instrumentation provider is required for metrics server")
	}
	if !provider.Enabled() {
		return nil, errors.New("instrumentation provider is not enabled")
	}
	handler := provider.PrometheusHandler()
	if handler == nil {
		return nil, errors.New("metrics exporter does not serve Prometheus")
	}
	if addr == "" {
		addr = DefaultMetricsAddr
	}

	return &MetricsServer{addr: addr, metrics: handler}, nil
}

// Handler serves /metrics and a /healthz probe for the metrics server itself.
func (s *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", s.metrics)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start serves until Shutdown is called.
func (s *MetricsServer) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultMetricsTimeout,
		WriteTimeout:      DefaultMetricsTimeout,
		IdleTimeout:       DefaultMetricsTimeout,
	}

	slog.Info("starting metrics server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	slog.Info("shutting down metrics server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server listens on.
func (s *MetricsServer) Addr() string {
	return s.addr
}
