package google

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ProviderName is the provider key used with the Authenticator.
const ProviderName = "google"

var (
	// ErrOAuthData wraps failures to read the stored OAuth data.
	ErrOAuthData = errors.New("failed to get google OAuth data")

	// ErrTokenRefresh wraps failures to refresh the access token.
	ErrTokenRefresh = errors.New("failed to refresh google OAuth token")
)

// OAuthData is what an Authenticator knows about a user's Google connection.
type OAuthData struct {
	AccessToken  string
	RefreshToken string
}

// Authenticator is the external collaborator that owns the user's OAuth tokens.
// Its lifetime is managed by the caller; the Resolver only borrows it.
type Authenticator interface {
	// OAuthFunctions returns the stored OAuth data for provider.
	OAuthFunctions(ctx context.Context, provider string) (*OAuthData, error)

	// RefreshOAuthToken refreshes the provider connection and returns the new access token.
	RefreshOAuthToken(ctx context.Context, provider string) (string, error)

	// Timezone returns the user's IANA timezone name.
	Timezone(ctx context.Context) (string, error)
}

// Resolver builds a Credential for each Google API call.
type Resolver struct {
	config OAuthConfig
	auth   Authenticator

	mu          sync.Mutex
	accessToken string
}

// NewResolver creates a resolver holding accessToken. auth may be nil.
func NewResolver(config OAuthConfig, accessToken string, auth Authenticator) *Resolver {
	if config.TokenURL == "" {
		config.TokenURL = DefaultTokenURL
	}
	return &Resolver{
		config:      config,
		auth:        auth,
		accessToken: accessToken,
	}
}

// AccessToken returns the current access token.
func (r *Resolver) AccessToken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accessToken
}

// Authenticator returns the collaborator, or nil when none is configured.
func (r *Resolver) Authenticator() Authenticator {
	return r.auth
}

// Authenticate returns a credential usable for exactly one outbound call.
//
// Errors come only from the Authenticator and are returned unchanged in
// wrapped form. The one side effect is replacing the held access token when
// the Authenticator had no refresh token and a refresh was requested instead.
func (r *Resolver) Authenticate(ctx context.Context) (*Credential, error) {
	if r.auth == nil {
		return r.credential(r.AccessToken(), "", SourceStatic), nil
	}

	data, err := r.auth.OAuthFunctions(ctx, ProviderName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOAuthData, err)
	}

	if data != nil && data.RefreshToken != "" {
		return r.credential(r.AccessToken(), data.RefreshToken, SourceRefreshable), nil
	}

	refreshed, err := r.auth.RefreshOAuthToken(ctx, ProviderName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenRefresh, err)
	}

	r.mu.Lock()
	r.accessToken = refreshed
	r.mu.Unlock()

	return r.credential(refreshed, "", SourceRefreshed), nil
}

func (r *Resolver) credential(accessToken, refreshToken string, source CredentialSource) *Credential {
	return &Credential{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenURL:     r.config.TokenURL,
		ClientID:     r.config.ClientID,
		ClientSecret: r.config.ClientSecret,
		Scopes:       Scopes(),
		Source:       source,
	}
}
