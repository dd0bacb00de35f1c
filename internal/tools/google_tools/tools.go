package google_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gworkspace/internal/extension"
	"github.com/teemow/gworkspace/internal/instrumentation"
	"github.com/teemow/gworkspace/internal/server"
	"github.com/teemow/gworkspace/internal/tools/common"
)

// RegisterGoogleTools registers a tool for every command the extension
// advertises. It returns the names of the registered tools.
func RegisterGoogleTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) ([]string, error) {
	ext := sc.Extension()

	var registered []string
	for _, name := range ext.Commands() {
		cmd, ok := ext.Command(name)
		if !ok {
			return registered, fmt.Errorf("command %q is advertised but not registered", name)
		}
		if readOnly && !cmd.ReadOnly() {
			continue
		}

		s.AddTool(NewTool(cmd), common.InstrumentedToolHandler(cmd, sc, readOnly, commandHandler(sc, cmd.Name)))
		registered = append(registered, cmd.Slug())
	}

	return registered, nil
}

// NewTool builds the MCP tool definition of cmd.
func NewTool(cmd extension.Command) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(cmd.Description),
		mcp.WithTitleAnnotation(cmd.Name),
		mcp.WithReadOnlyHintAnnotation(cmd.ReadOnly()),
		mcp.WithDestructiveHintAnnotation(cmd.Operation == instrumentation.OperationDelete),
		mcp.WithOpenWorldHintAnnotation(true),
	}

	for _, p := range cmd.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}

		switch p.Type {
		case extension.ParamInteger:
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		case extension.ParamArray:
			props = append(props, mcp.WithStringItems())
			opts = append(opts, mcp.WithArray(p.Name, props...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}

	return mcp.NewTool(cmd.Slug(), opts...)
}

func commandHandler(sc *server.ServerContext, name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := sc.Extension().Execute(ctx, name, extension.Args(request.GetArguments()))
		return common.NewToolResult(res), nil
	}
}
