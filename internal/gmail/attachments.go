package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// MaxAttachmentSize is the largest attachment GetAttachment accepts, 25MB.
const MaxAttachmentSize = 25 * 1024 * 1024

// fallbackFilename names attachments whose filename has no usable last element.
const fallbackFilename = "attachment"

// SanitizeFilename reduces an attachment filename to its last path element.
// Both slash styles separate elements. Dots inside a name are kept.
func SanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	switch name {
	case ".", "..", "/":
		return fallbackFilename
	}
	return name
}

// parts yields root and every nested part depth first, in message order.
func parts(root *gmail.MessagePart) iter.Seq[*gmail.MessagePart] {
	return func(yield func(*gmail.MessagePart) bool) {
		stack := []*gmail.MessagePart{root}
		for len(stack) > 0 {
			part := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if part == nil {
				continue
			}
			if !yield(part) {
				return
			}
			for i := len(part.Parts) - 1; i >= 0; i-- {
				stack = append(stack, part.Parts[i])
			}
		}
	}
}

// attachmentNames lists the filenames of msg. It is never nil.
func attachmentNames(msg *gmail.Message) []string {
	names := []string{}
	for part := range parts(msg.Payload) {
		if part.Filename != "" {
			names = append(names, part.Filename)
		}
	}
	return names
}

// SaveAttachments writes every attachment of a message into dir, which must
// exist, and returns the written paths in message order.
func (c *Client) SaveAttachments(ctx context.Context, messageID, dir string) ([]string, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}

	msg, err := c.getMessage(ctx, messageID, "full")
	if err != nil {
		return nil, err
	}

	saved := []string{}
	for part := range parts(msg.Payload) {
		if part.Filename == "" || part.Body == nil {
			continue
		}

		var data []byte
		if id := part.Body.AttachmentId; id != "" {
			data, err = c.GetAttachment(ctx, messageID, id)
		} else {
			data, err = decodeBase64(part.Body.Data)
		}
		if err != nil {
			return nil, err
		}

		dest := filepath.Join(dir, SanitizeFilename(part.Filename))
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to save attachment %s: %w", part.Filename, err)
		}
		saved = append(saved, dest)
	}
	return saved, nil
}

// GetAttachment downloads and decodes one attachment of a message.
func (c *Client) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	switch {
	case messageID == "":
		return nil, fmt.Errorf("messageID is required")
	case attachmentID == "":
		return nil, fmt.Errorf("attachmentID is required")
	}

	body, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}
	if body.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment %s is %d bytes, limit is %d", attachmentID, body.Size, MaxAttachmentSize)
	}
	return decodeBase64(body.Data)
}

// decodeBase64 decodes Gmail body data. Gmail sends base64url; padded and
// standard alphabets are accepted too.
func decodeBase64(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{base64.URLEncoding, base64.RawURLEncoding, base64.StdEncoding} {
		if data, err := enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("failed to decode attachment data: not base64")
}
