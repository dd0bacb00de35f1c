package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// CommandInvocation captures one extension command run for audit logging.
//
// # Privacy Considerations
//
// The Recipient field contains PII. When logging, consider:
//   - Using RecipientDomain() for metrics and general logs
//   - Only logging the full address in audit-specific log streams
type CommandInvocation struct {
	// ID identifies this invocation across audit and application logs.
	ID string

	// Command is the registered command name.
	Command string

	// Tool is the MCP tool name, empty when not run through MCP.
	Tool string

	// Recipient is the addressee of outgoing mail, if any.
	Recipient string

	ServiceName string // gmail, calendar, keep
	Operation   string // list, get, create, update, delete, send, search

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	ErrorKind string
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// RecipientDomain returns the domain of the recipient for lower-cardinality logging.
func (ci *CommandInvocation) RecipientDomain() string {
	return DomainOf(ci.Recipient)
}

// Status returns "success" or "error" based on the Success field.
func (ci *CommandInvocation) Status() string {
	if ci.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for operational logging. The recipient is
// reduced to its domain.
func (ci *CommandInvocation) LogAttrs() []slog.Attr {
	attrs := ci.baseAttrs()
	if ci.Recipient != "" {
		attrs = append(attrs, slog.String("recipient_domain", ci.RecipientDomain()))
	}
	return ci.appendOptional(attrs, false)
}

// LogAuditAttrs returns slog attributes for full audit logging, including
// the full recipient address.
func (ci *CommandInvocation) LogAuditAttrs() []slog.Attr {
	attrs := ci.baseAttrs()
	if ci.Recipient != "" {
		attrs = append(attrs, slog.String("recipient", ci.Recipient))
	}
	return ci.appendOptional(attrs, true)
}

func (ci *CommandInvocation) baseAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("invocation_id", ci.ID),
		slog.String("command", ci.Command),
		slog.Duration("duration", ci.Duration),
		slog.Bool("success", ci.Success),
		slog.String("status", ci.Status()),
	}
}

func (ci *CommandInvocation) appendOptional(attrs []slog.Attr, withSpan bool) []slog.Attr {
	if ci.Tool != "" {
		attrs = append(attrs, slog.String("tool", ci.Tool))
	}
	if ci.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ci.ServiceName))
	}
	if ci.Operation != "" {
		attrs = append(attrs, slog.String("operation", ci.Operation))
	}
	if ci.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ci.TraceID))
	}
	if withSpan && ci.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ci.SpanID))
	}
	if ci.ErrorKind != "" {
		attrs = append(attrs, slog.String("error_kind", ci.ErrorKind))
	}
	if ci.Error != "" {
		attrs = append(attrs, slog.String("error", ci.Error))
	}
	return attrs
}

// NewCommandInvocation creates a new CommandInvocation with timing started.
// Call Complete() when the command finishes.
func NewCommandInvocation(command string) *CommandInvocation {
	return &CommandInvocation{
		ID:        uuid.NewString(),
		Command:   command,
		StartTime: time.Now(),
	}
}

// WithTool sets the MCP tool name.
func (ci *CommandInvocation) WithTool(tool string) *CommandInvocation {
	ci.Tool = tool
	return ci
}

// WithRecipient sets the recipient address.
func (ci *CommandInvocation) WithRecipient(email string) *CommandInvocation {
	ci.Recipient = email
	return ci
}

// WithService sets the Google service and operation.
func (ci *CommandInvocation) WithService(serviceName, operation string) *CommandInvocation {
	ci.ServiceName = serviceName
	ci.Operation = operation
	return ci
}

// WithSpanContext extracts trace context from the current span.
func (ci *CommandInvocation) WithSpanContext(ctx context.Context) *CommandInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ci.TraceID = span.SpanContext().TraceID().String()
		ci.SpanID = span.SpanContext().SpanID().String()
	}
	return ci
}

// Complete marks the invocation as completed and calculates duration.
func (ci *CommandInvocation) Complete(err error, kind string) *CommandInvocation {
	ci.Duration = time.Since(ci.StartTime)
	ci.Success = err == nil
	if err != nil {
		ci.Error = err.Error()
		ci.ErrorKind = kind
	}
	return ci
}

// AuditLogger provides structured audit logging for command runs.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// By default, PII is not included in logs.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// LogCommand logs a command run. Full recipient addresses are only logged
// when the logger is configured with IncludePII.
func (al *AuditLogger) LogCommand(ci *CommandInvocation) {
	if al == nil || !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includePII {
		attrs = ci.LogAuditAttrs()
	} else {
		attrs = ci.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ci.Success {
		al.logger.Info("command_executed", args...)
	} else {
		al.logger.Warn("command_failed", args...)
	}
}
