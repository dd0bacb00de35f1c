package extension

import (
	"golang.org/x/oauth2"

	"github.com/teemow/gworkspace/internal/env"
	"github.com/teemow/gworkspace/internal/google"
)

// DefaultAttachmentsDir is used when no conversation directory is given.
const DefaultAttachmentsDir = "./WORKSPACE/attachments"

// Config is the environment sourced configuration of the extension.
type Config struct {
	// ClientID and ClientSecret identify the Google OAuth client. Both are
	// required for any command to be advertised.
	ClientID     string
	ClientSecret string

	// TokenURL is the OAuth token endpoint (default: Google's).
	TokenURL string

	// Timezone is used for new calendar items until the Authenticator
	// reports the user's own.
	Timezone string

	// AgentURI is the base URL of the agent platform the default
	// Authenticator talks to.
	AgentURI string
}

// ConfigFromEnv reads the configuration from the process environment.
func ConfigFromEnv() Config {
	tokenURL := env.Getenv("GOOGLE_TOKEN_URI")
	if tokenURL == "" {
		tokenURL = google.DefaultTokenURL
	}
	return Config{
		ClientID:     env.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: env.Getenv("GOOGLE_CLIENT_SECRET"),
		TokenURL:     tokenURL,
		Timezone:     env.Getenv("TZ"),
		AgentURI:     env.Getenv("AGIXT_URI"),
	}
}

// Enabled reports whether the OAuth client is fully configured.
func (c Config) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// OAuth2Config returns the oauth2 client configuration used to refresh
// stored tokens.
func (c Config) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: c.TokenURL},
		Scopes:       google.Scopes(),
	}
}

func (c Config) oauth() google.OAuthConfig {
	return google.OAuthConfig{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
	}
}
