package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gworkspace/internal/extension"
	"github.com/teemow/gworkspace/internal/instrumentation"
	"github.com/teemow/gworkspace/internal/server"
)

// InstrumentedToolHandler wraps the handler of the tool exposing cmd with a
// tool span, tool invocation metrics and an audit record.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler(cmd, sc, readOnly, handler))
func InstrumentedToolHandler(
	cmd extension.Command,
	sc *server.ServerContext,
	readOnly bool,
	handler mcpserver.ToolHandlerFunc,
) mcpserver.ToolHandlerFunc {
	toolName := cmd.Slug()
	attrs := instrumentation.CommandAttributes(cmd.Name, cmd.Service, cmd.Operation)

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, readOnly, attrs...)
		defer span.End()

		// Get metrics and audit logger (may be nil if not configured)
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		start := time.Now()
		invocation := instrumentation.NewCommandInvocation(cmd.Name).
			WithTool(toolName).
			WithService(cmd.Service, cmd.Operation).
			WithSpanContext(ctx)
		if recipient := RecipientFromArgs(request.GetArguments()); recipient != "" {
			invocation.WithRecipient(recipient)
		}

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.Complete(err, string(extension.Classify(err)))
			instrumentation.FinishSpan(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(errorOf(result), ResultKind(result))
			instrumentation.FinishSpan(span, errorOf(result))
		default:
			invocation.Complete(nil, "")
			instrumentation.FinishSpan(span, nil)
		}

		metrics.RecordToolInvocation(ctx, toolName, status, duration)
		auditLogger.LogCommand(invocation)

		return result, err
	}
}

// errorOf returns the error reported by a tool error result.
func errorOf(result *mcp.CallToolResult) error {
	if cr, ok := result.StructuredContent.(CommandResult); ok && cr.Error != "" {
		return errors.New(cr.Error)
	}
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return errors.New(text.Text)
		}
	}
	return errors.New("tool returned an error result")
}
