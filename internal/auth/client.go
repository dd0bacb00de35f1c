package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/teemow/gworkspace/internal/google"
)

// maxErrorBody bounds how much of an error response is kept in APIError.
const maxErrorBody = 4096

// defaultHTTPClient is used when NewClient is given no client.
var defaultHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// APIError is returned for non-2xx responses from the platform.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: http status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: http status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client is an HTTP client for the agent platform's user and OAuth endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ google.Authenticator = (*Client)(nil)

// NewClient creates a platform client. httpClient may be nil.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = defaultHTTPClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Timezone returns the user's configured timezone.
func (c *Client) Timezone(ctx context.Context) (string, error) {
	var user struct {
		Timezone string `json:"timezone"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/user", &user); err != nil {
		return "", fmt.Errorf("failed to get user timezone: %w", err)
	}
	return user.Timezone, nil
}

// OAuthFunctions returns the OAuth data the platform holds for provider.
func (c *Client) OAuthFunctions(ctx context.Context, provider string) (*google.OAuthData, error) {
	var data struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/oauth2/"+url.PathEscape(provider), &data); err != nil {
		return nil, err
	}
	return &google.OAuthData{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
	}, nil
}

// RefreshOAuthToken asks the platform to refresh the provider connection.
func (c *Client) RefreshOAuthToken(ctx context.Context, provider string) (string, error) {
	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/oauth2/"+url.PathEscape(provider)+"/refresh", &data); err != nil {
		return "", err
	}
	if data.AccessToken == "" {
		return "", fmt.Errorf("refresh of %s returned no access token", provider)
	}
	return data.AccessToken, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: res.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
