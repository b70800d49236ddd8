package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heatchat/auth-service/internal/auth"
	"github.com/heatchat/auth-service/internal/config"
)

const (
	defaultAuthorizeURL = "https://github.com/login/oauth/authorize"
	defaultTokenURL     = "https://github.com/login/oauth/access_token"
	defaultUserURL      = "https://api.github.com/user"
)

// Client talks to GitHub's OAuth and user endpoints. It implements
// auth.Provider.
type Client struct {
	clientID     string
	clientSecret string
	scopes       []string
	httpClient   *http.Client

	// Overridable in tests
	authorizeURL string
	tokenURL     string
	userURL      string
}

// NewClient creates a GitHub client
func NewClient(cfg config.GitHubConfig) *Client {
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scopes:       cfg.Scopes,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		authorizeURL: defaultAuthorizeURL,
		tokenURL:     defaultTokenURL,
		userURL:      defaultUserURL,
	}
}

// AuthorizeURL returns the GitHub authorization URL for the given state
func (c *Client) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("scope", strings.Join(c.scopes, " "))
	params.Set("state", state)

	return c.authorizeURL + "?" + params.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ExchangeCode exchanges an authorization code for an access token.
// GitHub takes the credentials as query parameters and answers with
// JSON when asked to; a bad code comes back as a 200 with an error
// payload, so the missing access_token check is what catches it.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("client_secret", c.clientSecret)
	params.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", auth.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", auth.ErrProviderUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("%w: status %d: %s", auth.ErrProviderUnavailable, resp.StatusCode, body)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", auth.ErrInvalidAuthorizationCode, resp.StatusCode, body)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("%w: invalid JSON: %v", auth.ErrInvalidAuthorizationCode, err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: %s", auth.ErrInvalidAuthorizationCode, body)
	}

	return tokenResp.AccessToken, nil
}

type githubUser struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	AvatarURL string  `json:"avatar_url"`
	Name      *string `json:"name"`
}

// FetchProfile fetches the profile of the account the token belongs to
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*auth.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrProfileFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", auth.ErrProfileFetchFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", auth.ErrProfileFetchFailed, resp.StatusCode, body)
	}

	var gu githubUser
	if err := json.Unmarshal(body, &gu); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", auth.ErrProfileFetchFailed, err)
	}

	if gu.ID == 0 {
		return nil, fmt.Errorf("%w: response missing account id", auth.ErrProfileFetchFailed)
	}

	return &auth.Profile{
		ID:        gu.ID,
		Login:     gu.Login,
		AvatarURL: gu.AvatarURL,
		Name:      gu.Name,
	}, nil
}
