package common

import (
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gworkspace/internal/extension"
	"github.com/teemow/gworkspace/internal/keep"
)

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestNewToolResult(t *testing.T) {
	tests := []struct {
		name      string
		result    extension.Result
		wantText  string
		wantError bool
		wantKind  string
	}{
		{
			name:     "string value",
			result:   extension.Result{Value: "Email sent successfully."},
			wantText: "Email sent successfully.",
		},
		{
			name:   "list value",
			result: extension.Result{Value: []keep.Note{{Name: "notes/1", Title: "Groceries"}}},
			wantText: `[
  {
    "name": "notes/1",
    "title": "Groceries",
    "content": "",
    "create_time": "",
    "update_time": "",
    "trashed": false
  }
]`,
		},
		{
			name: "failure with text fallback",
			result: extension.Result{
				Value: "Failed to send email.",
				Err:   errors.New("boom"),
				Kind:  extension.KindAPI,
			},
			wantText:  "Failed to send email.\napi: boom",
			wantError: true,
			wantKind:  "api",
		},
		{
			name: "failure with list fallback",
			result: extension.Result{
				Value: []keep.Note{},
				Err:   errors.New("denied"),
				Kind:  extension.KindAuth,
			},
			wantText:  "[]\nauth: denied",
			wantError: true,
			wantKind:  "auth",
		},
		{
			name: "unknown command",
			result: extension.Result{
				Err:  errors.New("command not found"),
				Kind: extension.KindInvalidArgument,
			},
			wantText:  "invalid_argument: command not found",
			wantError: true,
			wantKind:  "invalid_argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewToolResult(tt.result)
			assert.Equal(t, tt.wantText, textOf(t, result))
			assert.Equal(t, tt.wantError, result.IsError)
			assert.Equal(t, tt.wantKind, ResultKind(result))

			structured, ok := result.StructuredContent.(CommandResult)
			require.True(t, ok)
			assert.Equal(t, tt.result.Value, structured.Value)
		})
	}
}

func TestResultKind_ForeignResult(t *testing.T) {
	assert.Empty(t, ResultKind(nil))
	assert.Empty(t, ResultKind(mcp.NewToolResultError("boom")))
}

func TestRecipientFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "to", args: map[string]any{"to": "a@example.com"}, want: "a@example.com"},
		{name: "recipient", args: map[string]any{"recipient": "b@example.com"}, want: "b@example.com"},
		{name: "to wins", args: map[string]any{"to": "a@example.com", "recipient": "b@example.com"}, want: "a@example.com"},
		{name: "not a string", args: map[string]any{"to": 42}, want: ""},
		{name: "none", args: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecipientFromArgs(tt.args))
		})
	}
}
