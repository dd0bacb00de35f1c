package gmail

import (
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// fakeGmail serves the subset of the Gmail API used by Client.
type fakeGmail struct {
	mu sync.Mutex

	messages    map[string]*gmail.Message
	attachments map[string]string
	labels      []*gmail.Label
	listExtra   []*gmail.Message // appended verbatim to list responses
	fail        bool

	listQuery  string
	listMax    string
	sent       []*gmail.Message
	drafts     []*gmail.Draft
	created    []string
	modified   map[string][]string
	deleted    []string
	getFormats []string
}

func newFakeGmail() *fakeGmail {
	return &fakeGmail{
		messages:    map[string]*gmail.Message{},
		attachments: map[string]string{},
		modified:    map[string][]string{},
	}
}

func (f *fakeGmail) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/gmail/v1/users/me/")
	switch {
	case r.Method == http.MethodGet && path == "messages":
		f.listQuery = r.URL.Query().Get("q")
		f.listMax = r.URL.Query().Get("maxResults")
		res := &gmail.ListMessagesResponse{}
		for _, id := range slices.Sorted(maps.Keys(f.messages)) {
			res.Messages = append(res.Messages, &gmail.Message{Id: id})
		}
		res.Messages = append(res.Messages, f.listExtra...)
		writeJSON(w, res)

	case r.Method == http.MethodPost && path == "messages/send":
		var msg gmail.Message
		_ = json.NewDecoder(r.Body).Decode(&msg)
		f.sent = append(f.sent, &msg)
		writeJSON(w, &gmail.Message{Id: "sent-1"})

	case r.Method == http.MethodPost && path == "drafts":
		var d gmail.Draft
		_ = json.NewDecoder(r.Body).Decode(&d)
		f.drafts = append(f.drafts, &d)
		writeJSON(w, &gmail.Draft{Id: "draft-1"})

	case r.Method == http.MethodGet && path == "labels":
		writeJSON(w, &gmail.ListLabelsResponse{Labels: f.labels})

	case r.Method == http.MethodPost && path == "labels":
		var l gmail.Label
		_ = json.NewDecoder(r.Body).Decode(&l)
		l.Id = "Label_" + l.Name
		f.labels = append(f.labels, &l)
		f.created = append(f.created, l.Name)
		writeJSON(w, &l)

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/modify"):
		id := strings.TrimSuffix(strings.TrimPrefix(path, "messages/"), "/modify")
		var req gmail.ModifyMessageRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.modified[id] = append(f.modified[id], req.AddLabelIds...)
		writeJSON(w, &gmail.Message{Id: id})

	case r.Method == http.MethodGet && strings.Contains(path, "/attachments/"):
		id := path[strings.LastIndex(path, "/")+1:]
		data, ok := f.attachments[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, &gmail.MessagePartBody{AttachmentId: id, Data: data, Size: int64(len(data))})

	case r.Method == http.MethodGet && strings.HasPrefix(path, "messages/"):
		id := strings.TrimPrefix(path, "messages/")
		msg, ok := f.messages[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		f.getFormats = append(f.getFormats, r.URL.Query().Get("format"))
		writeJSON(w, msg)

	case r.Method == http.MethodDelete && strings.HasPrefix(path, "messages/"):
		id := strings.TrimPrefix(path, "messages/")
		if _, ok := f.messages[id]; !ok {
			http.NotFound(w, r)
			return
		}
		delete(f.messages, id)
		f.deleted = append(f.deleted, id)
		w.WriteHeader(http.StatusNoContent)

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, f *fakeGmail) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return c
}
