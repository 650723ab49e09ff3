package semaphore

import (
	"context"
	"fmt"
	"net/http"
)

// CreateToken mints an API token for the session user. Token creation
// requires a session cookie; the server rejects token-authenticated calls.
func (c *Client) CreateToken(ctx context.Context, creds Credentials) (*APIToken, error) {
	var token APIToken
	if err := c.do(ctx, &creds, http.MethodPost, "/api/user/tokens", nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (c *Client) ListTokens(ctx context.Context, creds Credentials) ([]APIToken, error) {
	var tokens []APIToken
	if err := c.do(ctx, &creds, http.MethodGet, "/api/user/tokens", nil, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// ExpireToken invalidates a token by ID.
func (c *Client) ExpireToken(ctx context.Context, creds Credentials, tokenID string) error {
	path := fmt.Sprintf("/api/user/tokens/%s", tokenID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}
