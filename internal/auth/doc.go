// Package auth provides the collaborators that own a user's Google OAuth
// tokens on behalf of the extension.
//
// Client talks to the host agent platform over HTTP using the user's api key.
// StoreAuthenticator keeps tokens in an mcp-oauth token store and refreshes
// them directly against Google's token endpoint, for standalone use without a
// host platform.
//
// Both satisfy google.Authenticator.
package auth
