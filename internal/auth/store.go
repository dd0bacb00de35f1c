package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/giantswarm/mcp-oauth/storage"
	"golang.org/x/oauth2"

	"github.com/teemow/gworkspace/internal/google"
)

// ErrNoRefreshToken is returned when a refresh is requested for a token that
// carries no refresh token.
var ErrNoRefreshToken = errors.New("no refresh token stored")

// StoreAuthenticator keeps OAuth tokens in an mcp-oauth token store.
// Tokens are keyed by user and provider.
type StoreAuthenticator struct {
	store    storage.TokenStore
	config   *oauth2.Config
	userID   string
	timezone string
}

var _ google.Authenticator = (*StoreAuthenticator)(nil)

// NewStoreAuthenticator creates an authenticator for userID. config supplies
// the client registration and token endpoint used for refreshes.
func NewStoreAuthenticator(store storage.TokenStore, config *oauth2.Config, userID, timezone string) *StoreAuthenticator {
	return &StoreAuthenticator{
		store:    store,
		config:   config,
		userID:   userID,
		timezone: timezone,
	}
}

func (s *StoreAuthenticator) key(provider string) string {
	return s.userID + "/" + provider
}

// Seed stores an initial token for provider.
func (s *StoreAuthenticator) Seed(ctx context.Context, provider string, token *oauth2.Token) error {
	if err := s.store.SaveToken(ctx, s.key(provider), token); err != nil {
		return fmt.Errorf("failed to store %s token: %w", provider, err)
	}
	return nil
}

// OAuthFunctions returns the stored token for provider.
func (s *StoreAuthenticator) OAuthFunctions(ctx context.Context, provider string) (*google.OAuthData, error) {
	token, err := s.store.GetToken(ctx, s.key(provider))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s token: %w", provider, err)
	}
	return &google.OAuthData{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

// RefreshOAuthToken exchanges the stored refresh token for a new access token
// and saves the result.
func (s *StoreAuthenticator) RefreshOAuthToken(ctx context.Context, provider string) (string, error) {
	stored, err := s.store.GetToken(ctx, s.key(provider))
	if err != nil {
		return "", fmt.Errorf("failed to load %s token: %w", provider, err)
	}
	if stored.RefreshToken == "" {
		return "", fmt.Errorf("%s: %w", provider, ErrNoRefreshToken)
	}

	// Only the refresh token is passed so the source always hits the endpoint.
	fresh, err := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: stored.RefreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh %s token: %w", provider, err)
	}

	if err := s.store.SaveToken(ctx, s.key(provider), fresh); err != nil {
		return "", fmt.Errorf("failed to store %s token: %w", provider, err)
	}
	return fresh.AccessToken, nil
}

// Timezone returns the configured timezone.
func (s *StoreAuthenticator) Timezone(context.Context) (string, error) {
	return s.timezone, nil
}
