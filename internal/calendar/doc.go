// Package calendar provides a client for the primary Google Calendar of the
// authenticated user.
//
// Events are exposed as flat Item records. Listing expands recurring events
// into single instances ordered by start time; without explicit bounds the
// window is the next seven days.
//
// Example usage:
//
//	client, err := calendar.NewClient(ctx, cred.ClientOptions(ctx)...)
//	if err != nil {
//	    return err
//	}
//	items, err := client.ListItems(ctx, time.Time{}, time.Time{}, 10)
package calendar
