// Package gmail provides a client for the Gmail operations the workspace
// extension exposes.
//
// The client covers:
//   - Listing and searching messages as flat Email records
//   - Sending messages, replies and drafts (with file attachments)
//   - Moving messages into a label, creating the label on demand
//   - Deleting messages
//   - Saving a message's attachments to a directory
//
// A Client is built from google.golang.org/api client options, normally the
// token source of a freshly resolved credential:
//
//	cred, err := resolver.Authenticate(ctx)
//	if err != nil {
//	    return err
//	}
//	client, err := gmail.NewClient(ctx, cred.ClientOptions(ctx)...)
//	if err != nil {
//	    return err
//	}
//	emails, err := client.ListEmails(ctx, "is:unread", 10)
package gmail
