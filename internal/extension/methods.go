package extension

import (
	"context"
	"time"

	"github.com/teemow/gworkspace/internal/calendar"
	"github.com/teemow/gworkspace/internal/gmail"
	"github.com/teemow/gworkspace/internal/keep"
)

// The methods below run one command each without going through the
// registry. They never fail: errors are logged and the command's fallback
// is returned instead.

// GetEmails lists up to maxEmails messages matching query (all messages when
// query is empty). maxEmails <= 0 means DefaultMaxResults.
func (e *Extension) GetEmails(ctx context.Context, query string, maxEmails int) []gmail.Email {
	return e.call(ctx, CommandGetEmails, func(ctx context.Context) (any, error) {
		return e.listEmails(ctx, query, maxEmails)
	}).Value.([]gmail.Email)
}

// SearchEmails lists up to maxEmails messages matching query.
func (e *Extension) SearchEmails(ctx context.Context, query string, maxEmails int) []gmail.Email {
	return e.call(ctx, CommandSearchEmails, func(ctx context.Context) (any, error) {
		return e.listEmails(ctx, query, maxEmails)
	}).Value.([]gmail.Email)
}

// SendEmail sends a plain text message.
func (e *Extension) SendEmail(ctx context.Context, to, subject, messageText string) string {
	return e.call(ctx, CommandSendEmail, func(ctx context.Context) (any, error) {
		return e.sendEmail(ctx, to, subject, messageText)
	}).Value.(string)
}

// MoveEmailToFolder labels the message with folderName, creating the label
// when it does not exist.
func (e *Extension) MoveEmailToFolder(ctx context.Context, messageID, folderName string) string {
	return e.call(ctx, CommandMoveEmailToFolder, func(ctx context.Context) (any, error) {
		return e.moveEmailToFolder(ctx, messageID, folderName)
	}).Value.(string)
}

// CreateDraftEmail stores a draft with the given local files attached.
func (e *Extension) CreateDraftEmail(ctx context.Context, recipient, subject, body string, attachments []string) string {
	return e.call(ctx, CommandCreateDraftEmail, func(ctx context.Context) (any, error) {
		return e.createDraftEmail(ctx, recipient, subject, body, attachments)
	}).Value.(string)
}

// DeleteEmail permanently deletes a message.
func (e *Extension) DeleteEmail(ctx context.Context, messageID string) string {
	return e.call(ctx, CommandDeleteEmail, func(ctx context.Context) (any, error) {
		return e.deleteEmail(ctx, messageID)
	}).Value.(string)
}

// ReplyToEmail answers a message in its thread.
func (e *Extension) ReplyToEmail(ctx context.Context, messageID, body string, attachments []string) string {
	return e.call(ctx, CommandReplyToEmail, func(ctx context.Context) (any, error) {
		return e.replyToEmail(ctx, messageID, body, attachments)
	}).Value.(string)
}

// ProcessAttachments saves the attachments of a message to AttachmentsDir
// and returns the written paths.
func (e *Extension) ProcessAttachments(ctx context.Context, messageID string) []string {
	return e.call(ctx, CommandProcessAttachments, func(ctx context.Context) (any, error) {
		return e.processAttachments(ctx, messageID)
	}).Value.([]string)
}

// GetCalendarItems lists primary calendar events between start and end.
// A zero start means now, a zero end means calendar.DefaultWindow from now.
func (e *Extension) GetCalendarItems(ctx context.Context, start, end time.Time, maxItems int) []calendar.Item {
	return e.call(ctx, CommandGetCalendarItems, func(ctx context.Context) (any, error) {
		return e.listCalendarItems(ctx, start, end, maxItems)
	}).Value.([]calendar.Item)
}

// AddCalendarItem creates a primary calendar event in the extension's
// timezone.
func (e *Extension) AddCalendarItem(ctx context.Context, subject, startTime, endTime, location string, attendees []string) string {
	return e.call(ctx, CommandAddCalendarItem, func(ctx context.Context) (any, error) {
		return e.addCalendarItem(ctx, subject, startTime, endTime, location, attendees)
	}).Value.(string)
}

// RemoveCalendarItem deletes a primary calendar event.
func (e *Extension) RemoveCalendarItem(ctx context.Context, itemID string) string {
	return e.call(ctx, CommandRemoveCalendarItem, func(ctx context.Context) (any, error) {
		return e.removeCalendarItem(ctx, itemID)
	}).Value.(string)
}

// GetKeepNotes lists all notes.
func (e *Extension) GetKeepNotes(ctx context.Context) []keep.Note {
	return e.call(ctx, CommandGetKeepNotes, func(ctx context.Context) (any, error) {
		return e.listKeepNotes(ctx)
	}).Value.([]keep.Note)
}

// CreateKeepNote creates a text note.
func (e *Extension) CreateKeepNote(ctx context.Context, title, content string) string {
	return e.call(ctx, CommandCreateKeepNote, func(ctx context.Context) (any, error) {
		return e.createKeepNote(ctx, title, content)
	}).Value.(string)
}

// DeleteKeepNote deletes a note by ID or resource name.
func (e *Extension) DeleteKeepNote(ctx context.Context, noteID string) string {
	return e.call(ctx, CommandDeleteKeepNote, func(ctx context.Context) (any, error) {
		return e.deleteKeepNote(ctx, noteID)
	}).Value.(string)
}
