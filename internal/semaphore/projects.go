package semaphore

import (
	"context"
	"fmt"
	"net/http"

	jsonit "github.com/json-iterator/go"
)

func (c *Client) CreateProject(ctx context.Context, creds Credentials, req ProjectRequest) (*Project, error) {
	var project Project
	if err := c.do(ctx, &creds, http.MethodPost, "/api/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) ListProjects(ctx context.Context, creds Credentials) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, &creds, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, creds Credentials, projectID int) (*Project, error) {
	var project Project
	path := fmt.Sprintf("/api/project/%d", projectID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) UpdateProject(ctx context.Context, creds Credentials, projectID int, req ProjectRequest) error {
	path := fmt.Sprintf("/api/project/%d", projectID)
	return c.do(ctx, &creds, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteProject(ctx context.Context, creds Credentials, projectID int) error {
	path := fmt.Sprintf("/api/project/%d", projectID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}

// ProjectRole returns the caller's role within the project.
func (c *Client) ProjectRole(ctx context.Context, creds Credentials, projectID int) (string, error) {
	var out struct {
		Role string `json:"role"`
	}
	path := fmt.Sprintf("/api/project/%d/role", projectID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.Role, nil
}

// BackupProject returns the server-side export of a project as raw JSON.
func (c *Client) BackupProject(ctx context.Context, creds Credentials, projectID int) (jsonit.RawMessage, error) {
	var backup jsonit.RawMessage
	path := fmt.Sprintf("/api/project/%d/backup", projectID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &backup); err != nil {
		return nil, err
	}
	return backup, nil
}

// RestoreProject recreates a project from a backup document.
func (c *Client) RestoreProject(ctx context.Context, creds Credentials, backup jsonit.RawMessage) (*Project, error) {
	var project Project
	if err := c.do(ctx, &creds, http.MethodPost, "/api/projects/restore", backup, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) ProjectEvents(ctx context.Context, creds Credentials, projectID int) ([]Event, error) {
	var events []Event
	path := fmt.Sprintf("/api/project/%d/events", projectID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}
