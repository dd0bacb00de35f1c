// Package google resolves delegated Google OAuth credentials for Workspace API calls.
//
// A Resolver decides, once per API call, how to build the credential for that
// call. Without an Authenticator it wraps the access token it was given. With
// an Authenticator it asks for the stored OAuth data first and builds a
// refreshable credential when a refresh token is available. Otherwise it asks
// the Authenticator for a freshly refreshed access token and wraps that.
//
// Credentials are never cached between calls. Every credential requests the
// same scope superset (see CredentialScopes).
package google
