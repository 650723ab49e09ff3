package semaphore

import (
	"context"
	"net/http"

	apperrors "github.com/ebdruplab/semactl/internal/errors"
)

// Ping checks reachability. The endpoint is unauthenticated and answers
// plain "pong".
func (c *Client) Ping(ctx context.Context) error {
	text, _, err := c.doRaw(ctx, nil, http.MethodGet, "/api/ping")
	if err != nil {
		return err
	}
	if text != "pong" {
		return apperrors.New(apperrors.CodeDecodeError, "unexpected ping response: "+text)
	}
	return nil
}

func (c *Client) Info(ctx context.Context, creds Credentials) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.do(ctx, &creds, http.MethodGet, "/api/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) ListApps(ctx context.Context, creds Credentials) ([]App, error) {
	var apps []App
	if err := c.do(ctx, &creds, http.MethodGet, "/api/apps", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) Events(ctx context.Context, creds Credentials) ([]Event, error) {
	var events []Event
	if err := c.do(ctx, &creds, http.MethodGet, "/api/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) LastEvents(ctx context.Context, creds Credentials) ([]Event, error) {
	var events []Event
	if err := c.do(ctx, &creds, http.MethodGet, "/api/events/last", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}
