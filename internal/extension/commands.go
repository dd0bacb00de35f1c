package extension

import (
	"context"
	"log/slog"
	"strings"

	"github.com/teemow/gworkspace/internal/calendar"
	"github.com/teemow/gworkspace/internal/gmail"
	"github.com/teemow/gworkspace/internal/instrumentation"
	"github.com/teemow/gworkspace/internal/keep"
)

// Provider is the label every command name is namespaced with.
const Provider = "Google"

// Command names as advertised to the agent framework.
const (
	CommandGetEmails          = "Google - Get Emails"
	CommandSendEmail          = "Google - Send Email"
	CommandMoveEmailToFolder  = "Google - Move Email to Folder"
	CommandCreateDraftEmail   = "Google - Create Draft Email"
	CommandDeleteEmail        = "Google - Delete Email"
	CommandSearchEmails       = "Google - Search Emails"
	CommandReplyToEmail       = "Google - Reply to Email"
	CommandProcessAttachments = "Google - Process Attachments"
	CommandGetCalendarItems   = "Google - Get Calendar Items"
	CommandAddCalendarItem    = "Google - Add Calendar Item"
	CommandRemoveCalendarItem = "Google - Remove Calendar Item"
	CommandGetKeepNotes       = "Google - Get Keep Notes"
	CommandCreateKeepNote     = "Google - Create Keep Note"
	CommandDeleteKeepNote     = "Google - Delete Keep Note"
)

// Services a command talks to.
const (
	ServiceGmail    = instrumentation.ServiceGmail
	ServiceCalendar = instrumentation.ServiceCalendar
	ServiceKeep     = instrumentation.ServiceKeep
)

// ParamType is the JSON type of a command argument.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamArray   ParamType = "array"
)

// Param describes one argument of a command.
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string
}

type runFunc func(ctx context.Context, e *Extension, args Args) (any, error)

// Command is one entry of the capability table.
type Command struct {
	Name        string
	Description string
	Params      []Param
	Service     string
	Operation   string

	// Fallback is the value returned when the command fails.
	Fallback any

	// failure is the log message written when the command fails, at level.
	failure string
	level   slog.Level
	run     runFunc
}

// Slug returns the name in snake case without the provider separator,
// e.g. "google_send_email".
func (c Command) Slug() string {
	var b strings.Builder
	for _, field := range strings.Fields(strings.ToLower(c.Name)) {
		if field == "-" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		b.WriteString(field)
	}
	return b.String()
}

// ReadOnly reports whether the command leaves the Google account unchanged.
func (c Command) ReadOnly() bool {
	switch c.Operation {
	case instrumentation.OperationList, instrumentation.OperationGet, instrumentation.OperationSearch:
		return true
	}
	return false
}

var (
	messageIDParam = Param{Name: "message_id", Type: ParamString, Required: true, Description: "ID of the Gmail message"}
	maxEmailsParam = Param{Name: "max_emails", Type: ParamInteger, Description: "Maximum number of emails to return (default 10)"}
	attachmentsArg = Param{Name: "attachments", Type: ParamArray, Description: "Files to attach, inside the conversation directory; relative paths start there"}
)

// commandTable is the fixed set of commands, in advertised order.
var commandTable = []Command{
	{
		Name:        CommandGetEmails,
		Description: "List the most recent emails, optionally filtered by a Gmail search query.",
		Params: []Param{
			{Name: "query", Type: ParamString, Description: "Gmail search query"},
			maxEmailsParam,
		},
		Service:   ServiceGmail,
		Operation: instrumentation.OperationList,
		Fallback:  []gmail.Email{},
		failure:   "error retrieving emails",
		level:     slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			query, err := args.OptionalString("query")
			if err != nil {
				return nil, err
			}
			maxEmails, err := args.Int("max_emails", DefaultMaxResults)
			if err != nil {
				return nil, err
			}
			return e.listEmails(ctx, query, maxEmails)
		},
	},
	{
		Name:        CommandSendEmail,
		Description: "Send a plain text email.",
		Params: []Param{
			{Name: "to", Type: ParamString, Required: true, Description: "Recipient email address"},
			{Name: "subject", Type: ParamString, Required: true, Description: "Email subject"},
			{Name: "message_text", Type: ParamString, Required: true, Description: "Email body"},
		},
		Service:   ServiceGmail,
		Operation: instrumentation.OperationSend,
		Fallback:  "Failed to send email.",
		failure:   "error sending email",
		level:     slog.LevelError,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			values, err := args.Required("to", "subject", "message_text")
			if err != nil {
				return nil, err
			}
			return e.sendEmail(ctx, values[0], values[1], values[2])
		},
	},
	{
		Name:        CommandMoveEmailToFolder,
		Description: "Move an email to a folder (Gmail label), creating the label when missing.",
		Params: []Param{
			messageIDParam,
			{Name: "folder_name", Type: ParamString, Required: true, Description: "Name of the target folder"},
		},
		Service:   ServiceGmail,
		Operation: instrumentation.OperationUpdate,
		Fallback:  "Failed to move email.",
		failure:   "error moving email",
		level:     slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			messageID, err := args.String("message_id")
			if err != nil {
				return nil, err
			}
			folder, err := args.String("folder_name")
			if err != nil {
				return nil, err
			}
			return e.moveEmailToFolder(ctx, messageID, folder)
		},
	},
	{
		Name:        CommandCreateDraftEmail,
		Description: "Create a draft email, optionally with attachments.",
		Params: []Param{
			{Name: "recipient", Type: ParamString, Required: true, Description: "Recipient email address"},
			{Name: "subject", Type: ParamString, Required: true, Description: "Email subject"},
			{Name: "body", Type: ParamString, Required: true, Description: "Email body"},
			attachmentsArg,
		},
		Service:   ServiceGmail,
		Operation: instrumentation.OperationCreate,
		Fallback:  "Failed to create draft email.",
		failure:   "error creating draft email",
		level:     slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			values, err := args.Required("recipient", "subject", "body")
			if err != nil {
				return nil, err
			}
			attachments, err := args.StringList("attachments")
			if err != nil {
				return nil, err
			}
			return e.createDraftEmail(ctx, values[0], values[1], values[2], attachments)
		},
	},
	{
		Name:        CommandDeleteEmail,
		Description: "Permanently delete an email.",
		Params:      []Param{messageIDParam},
		Service:     ServiceGmail,
		Operation:   instrumentation.OperationDelete,
		Fallback:    "Failed to delete email.",
		failure:     "error deleting email",
		level:       slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			messageID, err := args.String("message_id")
			if err != nil {
				return nil, err
			}
			return e.deleteEmail(ctx, messageID)
		},
	},
	{
		Name:        CommandSearchEmails,
		Description: "Search emails with a Gmail search query.",
		Params: []Param{
			{Name: "query", Type: ParamString, Required: true, Description: "Gmail search query"},
			maxEmailsParam,
		},
		Service:   ServiceGmail,
		Operation: instrumentation.OperationSearch,
		Fallback:  []gmail.Email{},
		failure:   "error searching emails",
		level:     slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			query, err := args.String("query")
			if err != nil {
				return nil, err
			}
			maxEmails, err := args.Int("max_emails", DefaultMaxResults)
			if err != nil {
				return nil, err
			}
			return e.listEmails(ctx, query, maxEmails)
		},
	},
	{
		Name:        CommandReplyToEmail,
		Description: "Reply to an email in its thread, optionally with attachments.",
		Params: []Param{
			messageIDParam,
			{Name: "body", Type: ParamString, Required: true, Description: "Reply body"},
			attachmentsArg,
		},
		Service:   ServiceGmail,
		Operation: instrumentation.OperationSend,
		Fallback:  "Failed to send reply.",
		failure:   "error replying to email",
		level:     slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			messageID, err := args.String("message_id")
			if err != nil {
				return nil, err
			}
			body, err := args.String("body")
			if err != nil {
				return nil, err
			}
			attachments, err := args.StringList("attachments")
			if err != nil {
				return nil, err
			}
			return e.replyToEmail(ctx, messageID, body, attachments)
		},
	},
	{
		Name:        CommandProcessAttachments,
		Description: "Download the attachments of an email into the conversation directory.",
		Params:      []Param{messageIDParam},
		Service:     ServiceGmail,
		Operation:   instrumentation.OperationGet,
		Fallback:    []string{},
		failure:     "error processing attachments",
		level:       slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			messageID, err := args.String("message_id")
			if err != nil {
				return nil, err
			}
			return e.processAttachments(ctx, messageID)
		},
	},
	{
		Name:        CommandGetCalendarItems,
		Description: "List events of the primary calendar, by default for the next seven days.",
		Params: []Param{
			{Name: "start_date", Type: ParamString, Description: "Start of the range (RFC 3339 or YYYY-MM-DD), default now"},
			{Name: "end_date", Type: ParamString, Description: "End of the range (RFC 3339 or YYYY-MM-DD), default seven days from now"},
			{Name: "max_items", Type: ParamInteger, Description: "Maximum number of items to return (default 10)"},
		},
		Service:   ServiceCalendar,
		Operation: instrumentation.OperationList,
		Fallback:  []calendar.Item{},
		failure:   "error retrieving calendar items",
		level:     slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			start, err := args.Time("start_date")
			if err != nil {
				return nil, err
			}
			end, err := args.Time("end_date")
			if err != nil {
				return nil, err
			}
			maxItems, err := args.Int("max_items", DefaultMaxResults)
			if err != nil {
				return nil, err
			}
			return e.listCalendarItems(ctx, start, end, maxItems)
		},
	},
	{
		Name:        CommandAddCalendarItem,
		Description: "Add an event to the primary calendar.",
		Params: []Param{
			{Name: "subject", Type: ParamString, Required: true, Description: "Event title"},
			{Name: "start_time", Type: ParamString, Required: true, Description: "Start date-time (RFC 3339) or date for all-day events"},
			{Name: "end_time", Type: ParamString, Required: true, Description: "End date-time (RFC 3339) or date for all-day events"},
			{Name: "location", Type: ParamString, Required: true, Description: "Event location"},
			{Name: "attendees", Type: ParamArray, Description: "Email addresses of attendees"},
		},
		Service:   ServiceCalendar,
		Operation: instrumentation.OperationCreate,
		Fallback:  "Failed to add calendar item.",
		failure:   "error adding calendar item",
		level:     slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			values, err := args.Required("subject", "start_time", "end_time")
			if err != nil {
				return nil, err
			}
			location, err := args.String("location")
			if err != nil {
				return nil, err
			}
			attendees, err := args.StringList("attendees")
			if err != nil {
				return nil, err
			}
			return e.addCalendarItem(ctx, values[0], values[1], values[2], location, attendees)
		},
	},
	{
		Name:        CommandRemoveCalendarItem,
		Description: "Remove an event from the primary calendar.",
		Params: []Param{
			{Name: "item_id", Type: ParamString, Required: true, Description: "ID of the calendar event"},
		},
		Service:   ServiceCalendar,
		Operation: instrumentation.OperationDelete,
		Fallback:  "Failed to remove calendar item.",
		failure:   "error removing calendar item",
		level:     slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			itemID, err := args.String("item_id")
			if err != nil {
				return nil, err
			}
			return e.removeCalendarItem(ctx, itemID)
		},
	},
	{
		Name:        CommandGetKeepNotes,
		Description: "List Google Keep notes.",
		Service:     ServiceKeep,
		Operation:   instrumentation.OperationList,
		Fallback:    []keep.Note{},
		failure:     "error retrieving notes",
		level:       slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, _ Args) (any, error) {
			return e.listKeepNotes(ctx)
		},
	},
	{
		Name:        CommandCreateKeepNote,
		Description: "Create a Google Keep note.",
		Params: []Param{
			{Name: "title", Type: ParamString, Required: true, Description: "Note title"},
			{Name: "content", Type: ParamString, Required: true, Description: "Note text"},
		},
		Service:   ServiceKeep,
		Operation: instrumentation.OperationCreate,
		Fallback:  "Failed to create note.",
		failure:   "error creating note",
		level:     slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			title, err := args.String("title")
			if err != nil {
				return nil, err
			}
			content, err := args.String("content")
			if err != nil {
				return nil, err
			}
			return e.createKeepNote(ctx, title, content)
		},
	},
	{
		Name:        CommandDeleteKeepNote,
		Description: "Delete a Google Keep note.",
		Params: []Param{
			{Name: "note_id", Type: ParamString, Required: true, Description: "Note ID, with or without the notes/ prefix"},
		},
		Service:   ServiceKeep,
		Operation: instrumentation.OperationDelete,
		Fallback:  "Failed to delete note.",
		failure:   "error deleting note",
		level:     slog.LevelInfo,
		run: func(ctx context.Context, e *Extension, args Args) (any, error) {
			noteID, err := args.String("note_id")
			if err != nil {
				return nil, err
			}
			return e.deleteKeepNote(ctx, noteID)
		},
	},
}

var commandsByName = func() map[string]Command {
	m := make(map[string]Command, len(commandTable))
	for _, c := range commandTable {
		m[c.Name] = c
	}
	return m
}()

// EnabledCommands returns the names of the commands advertised for cfg, in
// table order. The result is empty unless both the OAuth client id and secret
// are set.
func EnabledCommands(cfg Config) []string {
	if !cfg.Enabled() {
		return []string{}
	}
	names := make([]string, 0, len(commandTable))
	for _, c := range commandTable {
		names = append(names, c.Name)
	}
	return names
}

// Lookup returns the table entry for name, whether or not it is advertised.
func Lookup(name string) (Command, bool) {
	c, ok := commandsByName[name]
	return c, ok
}
