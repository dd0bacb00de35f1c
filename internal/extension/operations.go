package extension

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/teemow/gworkspace/internal/calendar"
	"github.com/teemow/gworkspace/internal/gmail"
	"github.com/teemow/gworkspace/internal/keep"
)

func (e *Extension) gmailClient(ctx context.Context) (*gmail.Client, error) {
	opts, err := e.clientOptions(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gmail.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if loc, err := time.LoadLocation(e.timezone); err == nil {
		c.SetLocation(loc)
	}
	return c, nil
}

func (e *Extension) calendarClient(ctx context.Context) (*calendar.Client, error) {
	opts, err := e.clientOptions(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.NewClient(ctx, opts...)
}

func (e *Extension) keepClient(ctx context.Context) (*keep.Client, error) {
	opts, err := e.clientOptions(ctx)
	if err != nil {
		return nil, err
	}
	return keep.NewClient(ctx, opts...)
}

func (e *Extension) listEmails(ctx context.Context, query string, maxEmails int) ([]gmail.Email, error) {
	if maxEmails <= 0 {
		maxEmails = DefaultMaxResults
	}
	c, err := e.gmailClient(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListEmails(ctx, query, int64(maxEmails))
}

func (e *Extension) sendEmail(ctx context.Context, to, subject, text string) (string, error) {
	c, err := e.gmailClient(ctx)
	if err != nil {
		return "", err
	}
	if _, err := c.SendEmail(ctx, to, subject, text); err != nil {
		return "", err
	}
	return "Email sent successfully.", nil
}

func (e *Extension) moveEmailToFolder(ctx context.Context, messageID, folder string) (string, error) {
	c, err := e.gmailClient(ctx)
	if err != nil {
		return "", err
	}
	if err := c.MoveToLabel(ctx, messageID, folder); err != nil {
		return "", err
	}
	return fmt.Sprintf("Email moved to %s folder.", folder), nil
}

// attachmentPaths resolves files to attach. Relative paths are taken from the
// conversation directory, and every file must resolve, symlinks included, to a
// location inside it.
func (e *Extension) attachmentPaths(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	root, err := filepath.EvalSymlinks(e.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve conversation directory: %w", err)
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(e.dir, p)
		}
		target, err := filepath.EvalSymlinks(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment %s: %w", p, err)
		}
		target, err = filepath.Abs(target)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%w: attachment %s is outside %s", ErrInvalidArgument, p, e.dir)
		}
		resolved = append(resolved, target)
	}
	return resolved, nil
}

func (e *Extension) createDraftEmail(ctx context.Context, recipient, subject, body string, attachments []string) (string, error) {
	attachments, err := e.attachmentPaths(attachments)
	if err != nil {
		return "", err
	}
	c, err := e.gmailClient(ctx)
	if err != nil {
		return "", err
	}
	draft := gmail.Draft{To: recipient, Subject: subject, Body: body, Attachments: attachments}
	if _, err := c.CreateDraft(ctx, draft); err != nil {
		return "", err
	}
	return "Draft email created successfully.", nil
}

func (e *Extension) deleteEmail(ctx context.Context, messageID string) (string, error) {
	c, err := e.gmailClient(ctx)
	if err != nil {
		return "", err
	}
	if err := c.DeleteEmail(ctx, messageID); err != nil {
		return "", err
	}
	return "Email deleted successfully.", nil
}

func (e *Extension) replyToEmail(ctx context.Context, messageID, body string, attachments []string) (string, error) {
	attachments, err := e.attachmentPaths(attachments)
	if err != nil {
		return "", err
	}
	c, err := e.gmailClient(ctx)
	if err != nil {
		return "", err
	}
	if _, err := c.ReplyToEmail(ctx, messageID, body, attachments); err != nil {
		return "", err
	}
	return "Reply sent successfully.", nil
}

func (e *Extension) processAttachments(ctx context.Context, messageID string) ([]string, error) {
	c, err := e.gmailClient(ctx)
	if err != nil {
		return nil, err
	}
	return c.SaveAttachments(ctx, messageID, e.dir)
}

func (e *Extension) listCalendarItems(ctx context.Context, start, end time.Time, maxItems int) ([]calendar.Item, error) {
	if maxItems <= 0 {
		maxItems = DefaultMaxResults
	}
	c, err := e.calendarClient(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListItems(ctx, start, end, int64(maxItems))
}

func (e *Extension) addCalendarItem(ctx context.Context, subject, start, end, location string, attendees []string) (string, error) {
	c, err := e.calendarClient(ctx)
	if err != nil {
		return "", err
	}
	input := calendar.ItemInput{
		Subject:   subject,
		Start:     start,
		End:       end,
		Location:  location,
		Attendees: attendees,
		TimeZone:  e.timezone,
	}
	if _, err := c.AddItem(ctx, input); err != nil {
		return "", err
	}
	return "Calendar item added successfully.", nil
}

func (e *Extension) removeCalendarItem(ctx context.Context, itemID string) (string, error) {
	c, err := e.calendarClient(ctx)
	if err != nil {
		return "", err
	}
	if err := c.RemoveItem(ctx, itemID); err != nil {
		return "", err
	}
	return "Calendar item removed successfully.", nil
}

func (e *Extension) listKeepNotes(ctx context.Context) ([]keep.Note, error) {
	c, err := e.keepClient(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListNotes(ctx)
}

func (e *Extension) createKeepNote(ctx context.Context, title, content string) (string, error) {
	c, err := e.keepClient(ctx)
	if err != nil {
		return "", err
	}
	if _, err := c.CreateNote(ctx, title, content); err != nil {
		return "", err
	}
	return "Note created successfully.", nil
}

func (e *Extension) deleteKeepNote(ctx context.Context, noteID string) (string, error) {
	c, err := e.keepClient(ctx)
	if err != nil {
		return "", err
	}
	if err := c.DeleteNote(ctx, noteID); err != nil {
		return "", err
	}
	return "Note deleted successfully.", nil
}
