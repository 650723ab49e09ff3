package semaphore

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) CreateKey(ctx context.Context, creds Credentials, projectID int, req AccessKeyRequest) (*AccessKey, error) {
	req.ProjectID = projectID
	var key AccessKey
	path := fmt.Sprintf("/api/project/%d/keys", projectID)
	if err := c.do(ctx, &creds, http.MethodPost, path, req, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

func (c *Client) ListKeys(ctx context.Context, creds Credentials, projectID int, opts ListOptions) ([]AccessKey, error) {
	var keys []AccessKey
	path := fmt.Sprintf("/api/project/%d/keys%s", projectID, opts.query())
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (c *Client) GetKey(ctx context.Context, creds Credentials, projectID, keyID int) (*AccessKey, error) {
	var key AccessKey
	path := fmt.Sprintf("/api/project/%d/keys/%d", projectID, keyID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

func (c *Client) UpdateKey(ctx context.Context, creds Credentials, projectID, keyID int, req AccessKeyRequest) error {
	req.ID = keyID
	req.ProjectID = projectID
	path := fmt.Sprintf("/api/project/%d/keys/%d", projectID, keyID)
	return c.do(ctx, &creds, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteKey(ctx context.Context, creds Credentials, projectID, keyID int) error {
	path := fmt.Sprintf("/api/project/%d/keys/%d", projectID, keyID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}
