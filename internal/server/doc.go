// Package server provides the MCP server context, health endpoints, and
// HTTP servers for the gworkspace application.
//
// # Key Components
//
// ServerContext holds the Google extension every tool call is run through,
// together with the optional metrics recorder and audit logger.
//
// HTTPServer serves an MCP server over the streamable HTTP transport on
// /mcp, next to the Kubernetes health endpoints:
//   - /healthz: liveness
//   - /readyz: readiness, failing while no command is advertised
//   - /healthz/detailed: uptime, advertised commands and timezone
//
// Every request to the MCP endpoint is traced with otelhttp and counted in
// http_requests_total. SessionHooks keeps active_sessions current.
//
// MetricsServer exposes Prometheus metrics on a dedicated port.
package server
