package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/giantswarm/mcp-oauth/storage/memory"
	"golang.org/x/oauth2"

	"github.com/teemow/gworkspace/internal/auth"
	"github.com/teemow/gworkspace/internal/env"
	"github.com/teemow/gworkspace/internal/extension"
	"github.com/teemow/gworkspace/internal/google"
	"github.com/teemow/gworkspace/internal/logging"
)

// newExtension builds the Google extension from the global flags and the
// environment. Without an api key, a GOOGLE_REFRESH_TOKEN seeds an in-memory
// token store that serves as the Auth collaborator. The returned cleanup
// releases that store.
func newExtension(ctx context.Context, recorder extension.Recorder) (*extension.Extension, func(), error) {
	cfg := extension.ConfigFromEnv()
	opts := extension.Options{
		APIKey:                globals.apiKey,
		AccessToken:           globals.accessToken,
		ConversationDirectory: globals.conversationDir,
		Logger:                slog.Default(),
		Recorder:              recorder,
	}
	cleanup := func() {}

	if opts.APIKey == "" {
		if refreshToken := env.Getenv("GOOGLE_REFRESH_TOKEN"); refreshToken != "" {
			store := memory.New()
			cleanup = store.Stop

			authenticator := auth.NewStoreAuthenticator(store, cfg.OAuth2Config(), env.DefaultUser(), cfg.Timezone)
			token := &oauth2.Token{AccessToken: opts.AccessToken, RefreshToken: refreshToken}
			if err := authenticator.Seed(ctx, google.ProviderName, token); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("failed to seed token store: %w", err)
			}
			opts.Authenticator = authenticator

			slog.Debug("using stored refresh token",
				logging.User(env.DefaultUser()),
				"refresh_token", logging.SanitizeToken(refreshToken))
		}
	}

	return extension.New(ctx, cfg, opts), cleanup, nil
}
