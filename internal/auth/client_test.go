package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlatform(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "api-key-123", srv.Client())
}

func TestClient_Timezone(t *testing.T) {
	client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer api-key-123", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"email":"user@example.com","timezone":"Europe/Berlin"}`)
	})

	tz, err := client.Timezone(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", tz)
}

func TestClient_OAuthFunctions(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantRefresh string
	}{
		{"with refresh token", `{"access_token":"a","refresh_token":"r"}`, "r"},
		{"without refresh token", `{"access_token":"a"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/oauth2/google", r.URL.Path)
				fmt.Fprint(w, tt.body)
			})

			data, err := client.OAuthFunctions(context.Background(), "google")
			require.NoError(t, err)
			assert.Equal(t, "a", data.AccessToken)
			assert.Equal(t, tt.wantRefresh, data.RefreshToken)
		})
	}
}

func TestClient_RefreshOAuthToken(t *testing.T) {
	client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/oauth2/google/refresh", r.URL.Path)
		fmt.Fprint(w, `{"access_token":"fresh"}`)
	})

	token, err := client.RefreshOAuthToken(context.Background(), "google")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

func TestClient_RefreshOAuthTokenEmpty(t *testing.T) {
	client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	_, err := client.RefreshOAuthToken(context.Background(), "google")
	assert.Error(t, err)
}

func TestClient_APIError(t *testing.T) {
	client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	})

	_, err := client.Timezone(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "/v1/user", apiErr.Path)
	assert.Equal(t, "invalid api key", apiErr.Body)
	assert.Contains(t, apiErr.Error(), "401")
}

func TestClient_BadJSON(t *testing.T) {
	client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	})

	_, err := client.OAuthFunctions(context.Background(), "google")
	assert.ErrorContains(t, err, "failed to decode")
}
