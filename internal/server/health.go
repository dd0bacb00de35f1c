package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Health status values reported by the probes.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusNoCommands   = "no commands advertised"
)

// HealthChecker serves the Kubernetes probes of the MCP server. A nil
// ServerContext only exercises the ready flag.
type HealthChecker struct {
	ready     atomic.Bool
	sc        *ServerContext
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{sc: sc, startTime: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status        string   `json:"status"`
	Uptime        string   `json:"uptime"`
	Commands      []string `json:"commands"`
	Authenticator bool     `json:"authenticator"`
	Timezone      string   `json:"timezone,omitempty"`
}

type readinessCheck struct {
	name    string
	failure string
	ok      func(h *HealthChecker) bool
}

// readinessChecks run in order; the first failure names the detailed status.
var readinessChecks = []readinessCheck{
	{
		name:    "ready",
		failure: healthStatusNotReady,
		ok:      (*HealthChecker).IsReady,
	},
	{
		name:    "shutdown",
		failure: healthStatusShuttingDown,
		ok:      func(h *HealthChecker) bool { return h.sc == nil || !h.sc.IsShutdown() },
	},
	{
		name:    "commands",
		failure: healthStatusNoCommands,
		ok:      func(h *HealthChecker) bool { return h.sc == nil || len(h.sc.Extension().Commands()) > 0 },
	},
}

// evaluate runs every readiness check and returns the per-check results and
// the failure of the first failing check, or "" when all pass.
func (h *HealthChecker) evaluate() (map[string]string, string) {
	checks := make(map[string]string, len(readinessChecks))
	failure := ""
	for _, c := range readinessChecks {
		if c.ok(h) {
			checks[c.name] = healthStatusOK
			continue
		}
		checks[c.name] = c.failure
		if failure == "" {
			failure = c.failure
		}
	}
	return checks, failure
}

// LivenessHandler serves /healthz. It only reports that the process runs.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz. The server is ready while it is marked
// ready, not shutting down, and advertises at least one command.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks, failure := h.evaluate()
		if failure != "" {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: healthStatusNotReady, Checks: checks})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK, Checks: checks})
	})
}

// DetailedHealthHandler serves /healthz/detailed with the uptime, the
// advertised commands and the extension timezone.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := DetailedHealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		}
		if h.sc != nil {
			ext := h.sc.Extension()
			response.Commands = ext.Commands()
			response.Authenticator = ext.Authenticator() != nil
			response.Timezone = ext.Timezone()
		}

		code := http.StatusOK
		if _, failure := h.evaluate(); failure != "" {
			response.Status = failure
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, response)
	})
}

// RegisterHealthEndpoints registers the probes on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
