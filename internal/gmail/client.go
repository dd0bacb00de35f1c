package gmail

import (
	"context"
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Client wraps the Gmail Users service
type Client struct {
	svc      *gmail.UsersService
	location *time.Location
}

// NewClient creates a Gmail client. Authorization comes from opts.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{
		svc:      svc.Users,
		location: time.Local,
	}, nil
}

// SetLocation sets the zone ReceivedTime is rendered in. nil keeps the current one.
func (c *Client) SetLocation(loc *time.Location) {
	if loc != nil {
		c.location = loc
	}
}

// ListEmails returns up to maxResults messages matching query, newest first.
// An empty query lists all messages.
func (c *Client) ListEmails(ctx context.Context, query string, maxResults int64) ([]Email, error) {
	req := c.svc.Messages.List("me").MaxResults(maxResults).Context(ctx)
	if query != "" {
		req = req.Q(query)
	}
	res, err := req.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	emails := make([]Email, 0, len(res.Messages))
	for _, m := range res.Messages {
		if m == nil || m.Id == "" {
			continue
		}
		msg, err := c.getMessage(ctx, m.Id, "")
		if err != nil {
			return nil, err
		}
		emails = append(emails, c.toEmail(msg))
	}
	return emails, nil
}

func (c *Client) toEmail(msg *gmail.Message) Email {
	return Email{
		ID:           msg.Id,
		Sender:       HeaderValue(msg, "From"),
		Subject:      HeaderValue(msg, "Subject"),
		Body:         msg.Snippet,
		Attachments:  attachmentNames(msg),
		ReceivedTime: time.UnixMilli(msg.InternalDate).In(c.location).Format(ReceivedTimeLayout),
	}
}

// getMessage retrieves a message; an empty format uses the API default.
func (c *Client) getMessage(ctx context.Context, messageID, format string) (*gmail.Message, error) {
	req := c.svc.Messages.Get("me", messageID).Context(ctx)
	if format != "" {
		req = req.Format(format)
	}
	msg, err := req.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// SendEmail sends a plain text email through Gmail API
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("recipient is required")
	}

	raw, err := (&outgoingMessage{To: to, Subject: subject, Body: body}).raw()
	if err != nil {
		return "", err
	}

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}

// CreateDraft stores a draft, attaching the given local files.
func (c *Client) CreateDraft(ctx context.Context, d Draft) (string, error) {
	if d.To == "" {
		return "", fmt.Errorf("recipient is required")
	}

	raw, err := (&outgoingMessage{
		To:          d.To,
		Subject:     d.Subject,
		Body:        d.Body,
		Attachments: d.Attachments,
	}).raw()
	if err != nil {
		return "", err
	}

	draft, err := c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{Raw: raw},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create draft: %w", err)
	}
	return draft.Id, nil
}

// ReplyToEmail replies to the sender of an existing message, keeping it in
// the same thread.
func (c *Client) ReplyToEmail(ctx context.Context, messageID, body string, attachments []string) (string, error) {
	if messageID == "" {
		return "", fmt.Errorf("messageID is required")
	}

	original, err := c.getMessage(ctx, messageID, "raw")
	if err != nil {
		return "", fmt.Errorf("failed to get original message: %w", err)
	}
	data, err := decodeBase64(original.Raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode original message: %w", err)
	}
	parsed, err := mail.ReadMessage(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse original message: %w", err)
	}

	from := parsed.Header.Get("From")
	if from == "" {
		return "", fmt.Errorf("original message has no From header")
	}
	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	if err != nil {
		subject = parsed.Header.Get("Subject")
	}
	originalID := parsed.Header.Get("Message-ID")

	raw, err := (&outgoingMessage{
		To:          from,
		Subject:     replySubject(subject),
		Body:        body,
		InReplyTo:   originalID,
		References:  replyReferences(parsed.Header.Get("References"), originalID),
		Attachments: attachments,
	}).raw()
	if err != nil {
		return "", err
	}

	sent, err := c.svc.Messages.Send("me", &gmail.Message{
		Raw:      raw,
		ThreadId: original.ThreadId,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send reply: %w", err)
	}
	return sent.Id, nil
}

// MoveToLabel adds the label named labelName to a message, creating the
// label when it does not exist yet.
func (c *Client) MoveToLabel(ctx context.Context, messageID, labelName string) error {
	if messageID == "" {
		return fmt.Errorf("messageID is required")
	}
	if labelName == "" {
		return fmt.Errorf("label name is required")
	}

	labelID, err := c.labelID(ctx, labelName)
	if err != nil {
		return err
	}

	_, err = c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds: []string{labelID},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to move message %s: %w", messageID, err)
	}
	return nil
}

// labelID finds a label by exact name or creates it.
func (c *Client) labelID(ctx context.Context, name string) (string, error) {
	labels, err := c.svc.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list labels: %w", err)
	}
	for _, l := range labels.Labels {
		if l.Name == name {
			return l.Id, nil
		}
	}

	label, err := c.svc.Labels.Create("me", &gmail.Label{Name: name}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create label %s: %w", name, err)
	}
	return label.Id, nil
}

// DeleteEmail permanently deletes a message.
func (c *Client) DeleteEmail(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("messageID is required")
	}
	if err := c.svc.Messages.Delete("me", messageID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}
