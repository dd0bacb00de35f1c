package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// DefaultEndpointPath is the path the MCP endpoint is served on.
	DefaultEndpointPath = "/mcp"

	// DefaultHTTPReadHeaderTimeout is the read header timeout of the MCP server.
	DefaultHTTPReadHeaderTimeout = 10 * time.Second

	// DefaultHTTPIdleTimeout is the idle timeout of the MCP server.
	DefaultHTTPIdleTimeout = 120 * time.Second
)

// HTTPServerConfig holds configuration for the streamable HTTP server.
type HTTPServerConfig struct {
	// EndpointPath is the MCP endpoint path (default: "/mcp").
	EndpointPath string

	// DisableStreaming answers every request with a single JSON response.
	DisableStreaming bool

	// AuthToken, when set, is the bearer token clients must present on the
	// MCP endpoint.
	AuthToken string
}

// HTTPServer serves an MCP server over the streamable HTTP transport,
// together with the health endpoints.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	sc         *ServerContext
	health     *HealthChecker
	config     HTTPServerConfig
	httpServer *http.Server
}

// NewHTTPServer creates a new streamable HTTP server for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("MCP server is required")
	}
	if sc == nil {
		return nil, fmt.Errorf("server context is required")
	}
	if config.EndpointPath == "" {
		config.EndpointPath = DefaultEndpointPath
	}
	if !strings.HasPrefix(config.EndpointPath, "/") {
		return nil, fmt.Errorf("endpoint path must start with /: %q", config.EndpointPath)
	}

	return &HTTPServer{
		mcpServer: mcpServer,
		sc:        sc,
		health:    NewHealthChecker(sc),
		config:    config,
	}, nil
}

// HealthChecker returns the health checker behind /healthz and /readyz.
func (s *HTTPServer) HealthChecker() *HealthChecker {
	return s.health
}

// Handler returns the HTTP handler serving the MCP and health endpoints.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	s.health.RegisterHealthEndpoints(mux)

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(s.config.EndpointPath),
		mcpserver.WithDisableStreaming(s.config.DisableStreaming),
	)

	var mcpHandler http.Handler = streamable
	if s.config.AuthToken != "" {
		mcpHandler = requireBearer(s.config.AuthToken, mcpHandler)
	}
	mcpHandler = otelhttp.NewHandler(mcpHandler, "mcp")
	mux.Handle(s.config.EndpointPath, s.recordRequests(mcpHandler))

	return mux
}

// Start starts the HTTP server in a blocking manner.
func (s *HTTPServer) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultHTTPReadHeaderTimeout,
		IdleTimeout:       DefaultHTTPIdleTimeout,
	}

	slog.Info("starting MCP server", "addr", addr, "endpoint", s.config.EndpointPath)
	return s.httpServer.ListenAndServe()
}

// Shutdown marks the server as not ready and gracefully shuts it down.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// recordRequests records the status and duration of every request.
func (s *HTTPServer) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		if metrics := s.sc.Metrics(); metrics != nil {
			metrics.RecordHTTPRequest(r.Context(), r.Method, s.config.EndpointPath, m.Code, m.Duration)
		}
	})
}

func requireBearer(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionHooks returns MCP hooks that track active sessions in the
// server context's metrics.
func SessionHooks(sc *ServerContext) *mcpserver.Hooks {
	hooks := &mcpserver.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		if m := sc.Metrics(); m != nil {
			m.IncrementActiveSessions(ctx)
		}
		slog.Debug("mcp session registered", "session_id", session.SessionID())
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		if m := sc.Metrics(); m != nil {
			m.DecrementActiveSessions(ctx)
		}
		slog.Debug("mcp session unregistered", "session_id", session.SessionID())
	})
	return hooks
}
