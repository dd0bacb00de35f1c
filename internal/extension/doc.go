// Package extension implements the Google Workspace extension: a fixed table
// of named commands over Gmail, Calendar and Keep, advertised only when the
// Google OAuth client is configured.
//
// Every command authenticates on its own. Credentials are resolved per call by
// a google.Resolver, optionally backed by an Authenticator that owns the
// user's refresh token.
//
// Commands can be reached two ways:
//
//   - Execute runs a command by its registered name with loosely typed
//     arguments and returns a Result carrying the value, the error and its
//     ErrorKind.
//   - The typed methods (SendEmail, GetCalendarItems, ...) never fail: on any
//     error they log it and return the command's fallback value, an empty
//     list or a fixed failure phrase.
//
// Example usage:
//
//	ext := extension.New(ctx, extension.ConfigFromEnv(), extension.Options{
//	    AccessToken: token,
//	})
//	for _, name := range ext.Commands() {
//	    fmt.Println(name)
//	}
//	res := ext.Execute(ctx, extension.CommandSendEmail, extension.Args{
//	    "to":           "someone@example.com",
//	    "subject":      "Hello",
//	    "message_text": "Hi there",
//	})
package extension
