package google

import (
	"context"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// DefaultTokenURL is Google's OAuth 2.0 token endpoint.
var DefaultTokenURL = googleoauth.Endpoint.TokenURL

// CredentialSource describes which resolution path produced a credential.
type CredentialSource string

const (
	// SourceStatic is a credential built from the held access token without an Authenticator.
	SourceStatic CredentialSource = "static"
	// SourceRefreshable is a credential carrying a refresh token from the Authenticator.
	SourceRefreshable CredentialSource = "refreshable"
	// SourceRefreshed is a credential built from an access token the Authenticator just refreshed.
	SourceRefreshed CredentialSource = "refreshed"
)

// OAuthConfig holds the client registration used to build credentials.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// Credential is everything needed to authorize one Google API call.
// It is assembled locally; building one performs no network I/O.
type Credential struct {
	AccessToken  string
	RefreshToken string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Source       CredentialSource
}

// Refreshable reports whether the credential carries a refresh token.
func (c *Credential) Refreshable() bool {
	return c.RefreshToken != ""
}

// OAuth2Config returns the oauth2 client configuration of the credential.
func (c *Credential) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleoauth.Endpoint.AuthURL,
			TokenURL: c.TokenURL,
		},
		Scopes: c.Scopes,
	}
}

// Token returns the credential as an oauth2 token.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
	}
}

// TokenSource returns a token source for the credential.
// Refreshable credentials go back to the token endpoint when the access token
// is missing; the others always hand out the same access token.
func (c *Credential) TokenSource(ctx context.Context) oauth2.TokenSource {
	if c.Refreshable() {
		return c.OAuth2Config().TokenSource(ctx, c.Token())
	}
	return oauth2.StaticTokenSource(c.Token())
}

// ClientOptions returns the google.golang.org/api options that authorize a
// service with this credential.
func (c *Credential) ClientOptions(ctx context.Context) []option.ClientOption {
	return []option.ClientOption{option.WithTokenSource(c.TokenSource(ctx))}
}
