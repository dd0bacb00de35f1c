package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar service
type Client struct {
	svc *calendar.Service
	now func() time.Time
}

// NewClient creates a Calendar client. Authorization comes from opts.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{
		svc: svc,
		now: time.Now,
	}, nil
}

// ListItems lists up to maxResults items of the primary calendar between
// timeMin and timeMax. A zero timeMin means now; a zero timeMax means
// DefaultWindow after now.
func (c *Client) ListItems(ctx context.Context, timeMin, timeMax time.Time, maxResults int64) ([]Item, error) {
	now := c.now().UTC()
	if timeMin.IsZero() {
		timeMin = now
	}
	if timeMax.IsZero() {
		timeMax = now.Add(DefaultWindow)
	}

	events, err := c.svc.Events.List(PrimaryCalendar).
		TimeMin(timeMin.UTC().Format(time.RFC3339)).
		TimeMax(timeMax.UTC().Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	items := make([]Item, 0, len(events.Items))
	for _, event := range events.Items {
		if event == nil {
			continue
		}
		items = append(items, toItem(event))
	}
	return items, nil
}

// AddItem creates an item in the primary calendar and returns its ID.
func (c *Client) AddItem(ctx context.Context, input ItemInput) (string, error) {
	if input.Start == "" || input.End == "" {
		return "", fmt.Errorf("start and end time are required")
	}
	if input.TimeZone == "" {
		input.TimeZone = DefaultTimeZone
	}

	event := &calendar.Event{
		Summary:  input.Subject,
		Location: input.Location,
		Start:    toEventDateTime(input.Start, input.TimeZone),
		End:      toEventDateTime(input.End, input.TimeZone),
	}

	// Set attendees
	for _, email := range input.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{
			Email: email,
		})
	}

	created, err := c.svc.Events.Insert(PrimaryCalendar, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return created.Id, nil
}

// RemoveItem deletes an item from the primary calendar.
func (c *Client) RemoveItem(ctx context.Context, itemID string) error {
	if itemID == "" {
		return fmt.Errorf("item ID is required")
	}
	if err := c.svc.Events.Delete(PrimaryCalendar, itemID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
