package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/gworkspace/internal/extension"
)

// CommandResult is the structured content of a tool result.
type CommandResult struct {
	Value any    `json:"value"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// NewToolResult converts a command result into an MCP tool result. String
// values are returned as text, anything else JSON-encoded. A failed command
// is an error result carrying the fallback value and the error kind.
func NewToolResult(res extension.Result) *mcp.CallToolResult {
	structured := CommandResult{Value: res.Value}
	text := valueText(res.Value)

	if !res.OK() {
		structured.Error = res.Err.Error()
		structured.Kind = string(res.Kind)
		if text != "" {
			text += "\n"
		}
		text += fmt.Sprintf("%s: %v", res.Kind, res.Err)
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.NewTextContent(text)},
		StructuredContent: structured,
		IsError:           !res.OK(),
	}
}

// ResultKind returns the error kind of a tool result built by NewToolResult.
func ResultKind(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	if cr, ok := result.StructuredContent.(CommandResult); ok {
		return cr.Kind
	}
	return ""
}

func valueText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// RecipientFromArgs returns the recipient address of a mail command, if any.
func RecipientFromArgs(args map[string]any) string {
	for _, name := range []string{"to", "recipient"} {
		if v, ok := args[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
