package extension

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	calendarapi "google.golang.org/api/calendar/v3"
	gmailapi "google.golang.org/api/gmail/v1"
	keepapi "google.golang.org/api/keep/v1"

	"github.com/teemow/gworkspace/internal/google"
)

const (
	testMessageID      = "msg-1"
	testAttachmentName = "report.txt"
	testAttachmentBody = "quarterly numbers\n"
)

// fakeGoogle serves the subset of the Gmail, Calendar and Keep APIs the
// commands use, on one server.
type fakeGoogle struct {
	mu sync.Mutex

	status   int  // when non-zero, every request fails with this code
	nulls    bool // list endpoints answer with null entries
	authz    []string
	requests []string
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.authz = append(f.authz, r.Header.Get("Authorization"))
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	status := f.status
	nulls := f.nulls
	f.mu.Unlock()

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"failure"}}`, status)
		return
	}

	path := r.URL.Path
	if nulls && r.Method == http.MethodGet {
		if body, ok := nullLists[path]; ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
			return
		}
	}

	switch {
	// Gmail
	case r.Method == http.MethodGet && path == "/gmail/v1/users/me/messages":
		writeJSON(w, &gmailapi.ListMessagesResponse{Messages: []*gmailapi.Message{{Id: testMessageID}}})
	case r.Method == http.MethodGet && path == "/gmail/v1/users/me/messages/"+testMessageID:
		if r.URL.Query().Get("format") == "raw" {
			raw := "From: Alice <alice@example.com>\r\nSubject: Lunch\r\nMessage-ID: <orig@example.com>\r\n\r\nHi\r\n"
			writeJSON(w, &gmailapi.Message{Id: testMessageID, ThreadId: "thread-1", Raw: base64.URLEncoding.EncodeToString([]byte(raw))})
			return
		}
		writeJSON(w, testMessage())
	case r.Method == http.MethodPost && path == "/gmail/v1/users/me/messages/send":
		writeJSON(w, &gmailapi.Message{Id: "sent-1"})
	case r.Method == http.MethodPost && path == "/gmail/v1/users/me/drafts":
		writeJSON(w, &gmailapi.Draft{Id: "draft-1"})
	case r.Method == http.MethodDelete && path == "/gmail/v1/users/me/messages/"+testMessageID:
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && path == "/gmail/v1/users/me/labels":
		writeJSON(w, &gmailapi.ListLabelsResponse{Labels: []*gmailapi.Label{{Id: "Label_1", Name: "Receipts"}}})
	case r.Method == http.MethodPost && path == "/gmail/v1/users/me/labels":
		writeJSON(w, &gmailapi.Label{Id: "Label_2", Name: "Travel"})
	case r.Method == http.MethodPost && path == "/gmail/v1/users/me/messages/"+testMessageID+"/modify":
		writeJSON(w, &gmailapi.Message{Id: testMessageID})

	// Calendar
	case r.Method == http.MethodGet && path == "/calendars/primary/events":
		writeJSON(w, &calendarapi.Events{Items: []*calendarapi.Event{{
			Id:        "event-1",
			Summary:   "Standup",
			Start:     &calendarapi.EventDateTime{DateTime: "2026-10-19T09:00:00Z"},
			End:       &calendarapi.EventDateTime{DateTime: "2026-10-19T09:15:00Z"},
			Organizer: &calendarapi.EventOrganizer{Email: "lead@example.com"},
		}}})
	case r.Method == http.MethodPost && path == "/calendars/primary/events":
		writeJSON(w, &calendarapi.Event{Id: "event-2"})
	case r.Method == http.MethodDelete && path == "/calendars/primary/events/event-1":
		w.WriteHeader(http.StatusNoContent)

	// Keep
	case r.Method == http.MethodGet && path == "/v1/notes":
		writeJSON(w, &keepapi.ListNotesResponse{Notes: []*keepapi.Note{{
			Name:  "notes/n1",
			Title: "Groceries",
			Body:  &keepapi.Section{Text: &keepapi.TextContent{Text: "milk"}},
		}}})
	case r.Method == http.MethodPost && path == "/v1/notes":
		writeJSON(w, &keepapi.Note{Name: "notes/n2"})
	case r.Method == http.MethodDelete && path == "/v1/notes/n1":
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
	}
}

var nullLists = map[string]string{
	"/gmail/v1/users/me/messages": `{"messages":[null,{}]}`,
	"/calendars/primary/events":   `{"items":[null]}`,
	"/v1/notes":                   `{"notes":[null]}`,
}

func (f *fakeGoogle) serveNulls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nulls = true
}

func (f *fakeGoogle) failWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakeGoogle) authorizations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authz...)
}

func (f *fakeGoogle) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func testMessage() *gmailapi.Message {
	return &gmailapi.Message{
		Id:           testMessageID,
		Snippet:      "numbers attached",
		InternalDate: 1760000000000,
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "From", Value: "bob@example.com"},
				{Name: "Subject", Value: "Report"},
			},
			Parts: []*gmailapi.MessagePart{
				{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte("see attached"))}},
				{
					MimeType: "text/plain",
					Filename: testAttachmentName,
					Body:     &gmailapi.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte(testAttachmentBody))},
				},
			},
		},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// fakeAuthenticator is an in-memory Auth collaborator.
type fakeAuthenticator struct {
	mu sync.Mutex

	data       *google.OAuthData
	dataErr    error
	refreshed  string
	refreshErr error
	timezone   string
	tzErr      error

	oauthCalls   int
	refreshCalls int
}

func (f *fakeAuthenticator) OAuthFunctions(_ context.Context, _ string) (*google.OAuthData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.oauthCalls++
	return f.data, f.dataErr
}

func (f *fakeAuthenticator) RefreshOAuthToken(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	return f.refreshed, f.refreshErr
}

func (f *fakeAuthenticator) Timezone(context.Context) (string, error) {
	return f.timezone, f.tzErr
}

var testConfig = Config{
	ClientID:     "client-id",
	ClientSecret: "client-secret",
	TokenURL:     google.DefaultTokenURL,
	Timezone:     "UTC",
}

// newTestExtension builds an extension talking to a fake Google server.
func newTestExtension(t *testing.T, opts Options) (*Extension, *fakeGoogle) {
	t.Helper()
	return newTestExtensionWithConfig(t, testConfig, opts)
}

func newTestExtensionWithConfig(t *testing.T, cfg Config, opts Options) (*Extension, *fakeGoogle) {
	t.Helper()

	fake := &fakeGoogle{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	if opts.AccessToken == "" {
		opts.AccessToken = "static-token"
	}
	if opts.ConversationDirectory == "" {
		opts.ConversationDirectory = t.TempDir()
	}
	opts.HTTPClient = srv.Client()
	opts.Endpoint = srv.URL + "/"

	return New(context.Background(), cfg, opts), fake
}
