package calendar

import (
	"strings"
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

const (
	// PrimaryCalendar is the calendar every operation works on.
	PrimaryCalendar = "primary"

	// DefaultWindow is the listing range used when no end is given.
	DefaultWindow = 7 * 24 * time.Hour

	// DefaultTimeZone is used for new items when none is configured.
	DefaultTimeZone = "UTC"

	dateLayout = "2006-01-02"
)

// Item is the flat record returned for calendar events.
type Item struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
	Organizer string `json:"organizer"`
}

// ItemInput describes a new calendar item.
//
// Start and End are RFC 3339 date-times, date-times without offset (read in
// TimeZone), or plain dates for all-day items.
type ItemInput struct {
	Subject   string
	Start     string
	End       string
	Location  string
	Attendees []string
	TimeZone  string
}

// toItem converts a Google Calendar event to an Item
func toItem(event *calendar.Event) Item {
	item := Item{
		ID:       event.Id,
		Subject:  event.Summary,
		Location: event.Location,
	}
	item.StartTime = eventTime(event.Start)
	item.EndTime = eventTime(event.End)
	if event.Organizer != nil {
		item.Organizer = event.Organizer.Email
	}
	return item
}

// eventTime returns the date-time of t, or its date for all-day events.
func eventTime(t *calendar.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// toEventDateTime builds the API representation of a user supplied time.
func toEventDateTime(value, timeZone string) *calendar.EventDateTime {
	if isDate(value) {
		return &calendar.EventDateTime{Date: value}
	}
	return &calendar.EventDateTime{
		DateTime: value,
		TimeZone: timeZone,
	}
}

func isDate(value string) bool {
	if strings.Contains(value, "T") {
		return false
	}
	_, err := time.Parse(dateLayout, value)
	return err == nil
}
