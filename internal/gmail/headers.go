package gmail

import (
	"slices"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// HeaderValue returns the first top-level header of m named header, compared
// case-insensitively, or "" when m has no such header.
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	i := slices.IndexFunc(m.Payload.Headers, func(h *gmail.MessagePartHeader) bool {
		return h != nil && strings.EqualFold(h.Name, header)
	})
	if i < 0 {
		return ""
	}
	return m.Payload.Headers[i].Value
}
