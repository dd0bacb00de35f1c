package google_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	keepapi "google.golang.org/api/keep/v1"

	"github.com/teemow/gworkspace/internal/extension"
	"github.com/teemow/gworkspace/internal/server"
	"github.com/teemow/gworkspace/internal/tools/common"
)

// fakeKeep serves the Keep notes listing and fails everything else.
func fakeKeep(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodGet && r.URL.Path == "/v1/notes" {
		_ = json.NewEncoder(w).Encode(&keepapi.ListNotesResponse{Notes: []*keepapi.Note{{
			Name:  "notes/n1",
			Title: "Groceries",
			Body:  &keepapi.Section{Text: &keepapi.TextContent{Text: "milk"}},
		}}})
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":{"code":500,"message":"failure"}}`))
}

func newTestServerContext(t *testing.T, cfg extension.Config) *server.ServerContext {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(fakeKeep))
	t.Cleanup(srv.Close)

	ext := extension.New(context.Background(), cfg, extension.Options{
		AccessToken:           "static-token",
		ConversationDirectory: t.TempDir(),
		HTTPClient:            srv.Client(),
		Endpoint:              srv.URL + "/",
	})
	sc, err := server.NewServerContext(context.Background(), ext)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

var enabledConfig = extension.Config{ClientID: "client-id", ClientSecret: "client-secret", Timezone: "UTC"}

func newTestClient(t *testing.T, sc *server.ServerContext, readOnly bool) *client.Client {
	t.Helper()
	ctx := context.Background()

	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))
	_, err := RegisterGoogleTools(s, sc, readOnly)
	require.NoError(t, err)

	c, err := client.NewInProcessClient(s)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Start(ctx))

	init := mcp.InitializeRequest{}
	init.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	init.Params.ClientInfo = mcp.Implementation{Name: "test", Version: "1.0.0"}
	_, err = c.Initialize(ctx, init)
	require.NoError(t, err)
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestRegisterGoogleTools(t *testing.T) {
	sc := newTestServerContext(t, enabledConfig)
	s := mcpserver.NewMCPServer("test", "1.0.0")

	names, err := RegisterGoogleTools(s, sc, false)
	require.NoError(t, err)
	require.Len(t, names, len(sc.Extension().Commands()))
	assert.Contains(t, names, "google_send_email")
	assert.Contains(t, names, "google_get_keep_notes")
}

func TestRegisterGoogleTools_ReadOnly(t *testing.T) {
	sc := newTestServerContext(t, enabledConfig)
	s := mcpserver.NewMCPServer("test", "1.0.0")

	names, err := RegisterGoogleTools(s, sc, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"google_get_emails",
		"google_search_emails",
		"google_process_attachments",
		"google_get_calendar_items",
		"google_get_keep_notes",
	}, names)
}

func TestRegisterGoogleTools_NotConfigured(t *testing.T) {
	sc := newTestServerContext(t, extension.Config{})
	s := mcpserver.NewMCPServer("test", "1.0.0")

	names, err := RegisterGoogleTools(s, sc, false)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestNewTool(t *testing.T) {
	cmd, ok := extension.Lookup(extension.CommandCreateDraftEmail)
	require.True(t, ok)

	tool := NewTool(cmd)
	assert.Equal(t, "google_create_draft_email", tool.Name)
	assert.Equal(t, cmd.Description, tool.Description)
	assert.ElementsMatch(t, []string{"recipient", "subject", "body"}, tool.InputSchema.Required)
	require.Contains(t, tool.InputSchema.Properties, "attachments")

	attachments, ok := tool.InputSchema.Properties["attachments"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", attachments["type"])

	require.NotNil(t, tool.Annotations.ReadOnlyHint)
	assert.False(t, *tool.Annotations.ReadOnlyHint)
}

func TestNewTool_IntegerParam(t *testing.T) {
	cmd, ok := extension.Lookup(extension.CommandGetEmails)
	require.True(t, ok)

	tool := NewTool(cmd)
	maxEmails, ok := tool.InputSchema.Properties["max_emails"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "number", maxEmails["type"])
	assert.Empty(t, tool.InputSchema.Required)
	assert.True(t, *tool.Annotations.ReadOnlyHint)
}

func TestCallTool_Success(t *testing.T) {
	c := newTestClient(t, newTestServerContext(t, enabledConfig), false)

	res := callTool(t, c, "google_get_keep_notes", map[string]any{})
	assert.False(t, res.IsError)

	var notes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "Groceries", notes[0]["title"])
	assert.Equal(t, "milk", notes[0]["content"])
}

func TestCallTool_FailureReturnsFallback(t *testing.T) {
	c := newTestClient(t, newTestServerContext(t, enabledConfig), false)

	res := callTool(t, c, "google_send_email", map[string]any{
		"to":           "bob@example.com",
		"subject":      "Hi",
		"message_text": "Hello",
	})
	assert.True(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Failed to send email.")
	assert.Contains(t, text, string(extension.KindAPI))
}

func TestCallTool_MissingArgument(t *testing.T) {
	c := newTestClient(t, newTestServerContext(t, enabledConfig), false)

	res := callTool(t, c, "google_delete_email", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), string(extension.KindInvalidArgument))
}

func TestCommandHandler_StructuredResult(t *testing.T) {
	sc := newTestServerContext(t, enabledConfig)
	handler := commandHandler(sc, extension.CommandDeleteKeepNote)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"note_id": "n1"}
	res, err := handler(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Equal(t, string(extension.KindAPI), common.ResultKind(res))
}
