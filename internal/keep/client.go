package keep

import (
	"context"
	"fmt"

	keep "google.golang.org/api/keep/v1"
	"google.golang.org/api/option"
)

// Client wraps the Google Keep service
type Client struct {
	svc *keep.Service
}

// NewClient creates a Keep client. Authorization comes from opts.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := keep.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Keep service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListNotes returns every note visible to the user, following all pages.
func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	notes := []Note{}
	err := c.svc.Notes.List().Pages(ctx, func(res *keep.ListNotesResponse) error {
		for _, n := range res.Notes {
			if n == nil {
				continue
			}
			notes = append(notes, toNote(n))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// CreateNote creates a text note and returns its resource name.
func (c *Client) CreateNote(ctx context.Context, title, content string) (string, error) {
	note := &keep.Note{
		Title: title,
		Body: &keep.Section{
			Text: &keep.TextContent{Text: content},
		},
	}

	created, err := c.svc.Notes.Create(note).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create note: %w", err)
	}
	return created.Name, nil
}

// DeleteNote deletes a note by ID or resource name.
func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	if noteID == "" {
		return fmt.Errorf("note ID is required")
	}
	if _, err := c.svc.Notes.Delete(noteName(noteID)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete note %s: %w", noteID, err)
	}
	return nil
}
