package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gworkspace/internal/env"
	"github.com/teemow/gworkspace/internal/instrumentation"
	"github.com/teemow/gworkspace/internal/logging"
	"github.com/teemow/gworkspace/internal/resources"
	"github.com/teemow/gworkspace/internal/server"
	"github.com/teemow/gworkspace/internal/tools/google_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// serveOptions holds the flags of the serve command.
type serveOptions struct {
	transport        string
	httpAddr         string
	readOnly         bool
	disableStreaming bool
	authToken        string
	metrics          MetricsConfig
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long:  `Start the Model Context Protocol (MCP) server advertising every Google
command as a tool (google_get_emails, google_send_email, ...).

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp

Credentials:
  GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set for any tool to be
  advertised. Google access is then resolved from, in order:
    --api-key / AGIXT_API_KEY: tokens are fetched from the agent platform
    GOOGLE_REFRESH_TOKEN: refreshed locally through the token endpoint
    --access-token / GOOGLE_ACCESS_TOKEN: used as is until it expires

Attachments:
  Downloaded attachments are saved to --conversation-dir. Drafts and replies
  only attach files inside that directory; other paths are rejected.

Safety Mode:
  Use --read-only to register only commands that leave the account unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("auth-token") {
				opts.authToken = env.Getenv("MCP_AUTH_TOKEN")
			}
			if !cmd.Flags().Changed("metrics-enabled") && env.Bool("METRICS_ENABLED") {
				opts.metrics.Enabled = true
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := env.Getenv("METRICS_ADDR"); addr != "" {
					opts.metrics.Addr = addr
				}
			}
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "Only register commands that leave the Google account unchanged")
	cmd.Flags().BoolVar(&opts.disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().StringVar(&opts.authToken, "auth-token", "", "Bearer token required on the MCP endpoint (env: MCP_AUTH_TOKEN)")
	cmd.Flags().BoolVar(&opts.metrics.Enabled, "metrics-enabled", false, "Serve Prometheus metrics on a dedicated port (env: METRICS_ENABLED)")
	cmd.Flags().StringVar(&opts.metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address (env: METRICS_ADDR)")

	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	if opts.transport != transportStdio && opts.transport != transportStreamableHTTP {
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	ext, cleanup, err := newExtension(shutdownCtx, provider.Metrics())
	if err != nil {
		return err
	}
	defer cleanup()

	var scOpts []server.Option
	if provider.Enabled() {
		scOpts = append(scOpts,
			server.WithMetrics(provider.Metrics()),
			server.WithAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.Audit)))
	}

	serverContext, err := server.NewServerContext(shutdownCtx, ext, scOpts...)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			slog.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("gworkspace", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithRecovery(),
		mcpserver.WithHooks(server.SessionHooks(serverContext)),
	)

	tools, err := google_tools.RegisterGoogleTools(mcpSrv, serverContext, opts.readOnly)
	if err != nil {
		return fmt.Errorf("failed to register Google tools: %w", err)
	}
	if len(tools) == 0 {
		slog.Warn("no tools registered; set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
	}
	if err := resources.RegisterResources(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register resources: %w", err)
	}
	slog.Info("registered tools",
		"count", len(tools),
		"read_only", opts.readOnly,
		"transport", opts.transport)

	switch opts.transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	default:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, provider, opts)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, provider *instrumentation.Provider, opts serveOptions) error {
	// Start metrics server if enabled
	if opts.metrics.Enabled && provider.Enabled() {
		metricsServer, err := server.NewMetricsServer(provider, opts.metrics.Addr)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server stopped", logging.Err(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	httpServer, err := server.NewHTTPServer(mcpSrv, sc, server.HTTPServerConfig{
		DisableStreaming: opts.disableStreaming,
		AuthToken:        opts.authToken,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}
	if opts.authToken == "" {
		slog.Warn("MCP endpoint is not protected; set --auth-token or MCP_AUTH_TOKEN")
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(opts.httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		slog.Info("HTTP server stopped normally")
	}

	slog.Info("HTTP server gracefully stopped")
	return nil
}
