package semaphore

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) CreateView(ctx context.Context, creds Credentials, projectID int, req ViewRequest) (*View, error) {
	req.ProjectID = projectID
	var view View
	path := fmt.Sprintf("/api/project/%d/views", projectID)
	if err := c.do(ctx, &creds, http.MethodPost, path, req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) ListViews(ctx context.Context, creds Credentials, projectID int) ([]View, error) {
	var views []View
	path := fmt.Sprintf("/api/project/%d/views", projectID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Client) GetView(ctx context.Context, creds Credentials, projectID, viewID int) (*View, error) {
	var view View
	path := fmt.Sprintf("/api/project/%d/views/%d", projectID, viewID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) UpdateView(ctx context.Context, creds Credentials, projectID, viewID int, req ViewRequest) error {
	req.ID = viewID
	req.ProjectID = projectID
	path := fmt.Sprintf("/api/project/%d/views/%d", projectID, viewID)
	return c.do(ctx, &creds, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteView(ctx context.Context, creds Credentials, projectID, viewID int) error {
	path := fmt.Sprintf("/api/project/%d/views/%d", projectID, viewID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}
