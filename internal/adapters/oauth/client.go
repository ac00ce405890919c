package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://discord.com/api/v10"

// Client drives the Discord OAuth2 authorization-code flow far enough
// to learn who the user is. The access token is revoked as soon as the
// identity has been read; we never hold user credentials past login.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string

	http    *http.Client
	baseURL string
}

func NewClient(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		http:         &http.Client{Timeout: 10 * time.Second},
		baseURL:      defaultBaseURL,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID string `json:"id"`
}

// ExchangeCode turns an authorization code into the user's ID.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)

	var tok tokenResponse
	if err := c.postForm(ctx, "/oauth2/token", form, &tok); err != nil {
		return "", fmt.Errorf("exchanging code: %w", err)
	}

	user, err := c.identify(ctx, tok)
	if err != nil {
		return "", err
	}

	// Best effort, the token expires on its own either way.
	_ = c.revoke(ctx, tok.AccessToken)

	return user.ID, nil
}

func (c *Client) identify(ctx context.Context, tok tokenResponse) (userResponse, error) {
	var user userResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/@me", nil)
	if err != nil {
		return user, err
	}
	req.Header.Set("Authorization", tok.TokenType+" "+tok.AccessToken)

	res, err := c.http.Do(req)
	if err != nil {
		return user, fmt.Errorf("fetching identity: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return user, fmt.Errorf("fetching identity: unexpected status %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
		return user, fmt.Errorf("decoding identity: %w", err)
	}
	return user, nil
}

func (c *Client) revoke(ctx context.Context, accessToken string) error {
	form := url.Values{}
	form.Set("token", accessToken)
	form.Set("token_type_hint", "access_token")
	return c.postForm(ctx, "/oauth2/token/revoke", form, nil)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
