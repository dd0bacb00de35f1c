package gmail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// defaultContentType is used for attachments whose type cannot be guessed.
const defaultContentType = "application/octet-stream"

// base64LineLength is the RFC 2045 maximum encoded line length.
const base64LineLength = 76

// outgoingMessage is an RFC 2822 message before encoding.
type outgoingMessage struct {
	To          string
	Subject     string
	Body        string
	InReplyTo   string
	References  string
	Attachments []string
}

// encodeRFC2047 encodes a string for use in email headers according to RFC 2047
// This is necessary for non-ASCII characters (like German umlauts) in subjects
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

// contentTypeFor guesses the content type of a file from its extension.
func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return defaultContentType
}

// raw renders the message as multipart/mixed and encodes it the way the
// Gmail API expects in Message.Raw.
func (m *outgoingMessage) raw() (string, error) {
	data, err := m.bytes()
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

func (m *outgoingMessage) bytes() ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "To", m.To)
	writeHeader(&buf, "Subject", encodeRFC2047(m.Subject))
	if m.InReplyTo != "" {
		writeHeader(&buf, "In-Reply-To", m.InReplyTo)
	}
	if m.References != "" {
		writeHeader(&buf, "References", m.References)
	}
	writeHeader(&buf, "Content-Type", mime.FormatMediaType("multipart/mixed", map[string]string{"boundary": mw.Boundary()}))
	buf.WriteString("\r\n")

	if err := writeTextPart(mw, m.Body); err != nil {
		return nil, err
	}
	for _, path := range m.Attachments {
		if err := writeAttachmentPart(mw, path); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish message: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, name, value string) {
	buf.WriteString(name)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

func writeTextPart(mw *multipart.Writer, body string) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", `text/plain; charset="UTF-8"`)
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	pw, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create body part: %w", err)
	}
	qp := quotedprintable.NewWriter(pw)
	if _, err := qp.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return qp.Close()
}

func writeAttachmentPart(mw *multipart.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read attachment %s: %w", path, err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentTypeFor(path))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filepath.Base(path)}))
	h.Set("Content-Transfer-Encoding", "base64")

	pw, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create attachment part: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	var lines strings.Builder
	for len(encoded) > base64LineLength {
		lines.WriteString(encoded[:base64LineLength])
		lines.WriteString("\r\n")
		encoded = encoded[base64LineLength:]
	}
	lines.WriteString(encoded)
	lines.WriteString("\r\n")

	_, err = pw.Write([]byte(lines.String()))
	return err
}

// replySubject prefixes subject with "Re: " unless it already is a reply.
func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

// replyReferences extends the References chain with the replied-to message ID.
func replyReferences(references, messageID string) string {
	switch {
	case references == "":
		return messageID
	case messageID == "":
		return references
	default:
		return references + " " + messageID
	}
}
