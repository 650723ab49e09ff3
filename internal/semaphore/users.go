package semaphore

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) CreateUser(ctx context.Context, creds Credentials, req UserRequest) (*User, error) {
	var user User
	if err := c.do(ctx, &creds, http.MethodPost, "/api/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListUsers(ctx context.Context, creds Credentials) ([]User, error) {
	var users []User
	if err := c.do(ctx, &creds, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, creds Credentials, userID int) (*User, error) {
	var user User
	path := fmt.Sprintf("/api/users/%d", userID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, creds Credentials, userID int, req UserRequest) error {
	path := fmt.Sprintf("/api/users/%d", userID)
	return c.do(ctx, &creds, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteUser(ctx context.Context, creds Credentials, userID int) error {
	path := fmt.Sprintf("/api/users/%d", userID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}

func (c *Client) SetUserPassword(ctx context.Context, creds Credentials, userID int, password string) error {
	path := fmt.Sprintf("/api/users/%d/password", userID)
	body := map[string]string{"password": password}
	return c.do(ctx, &creds, http.MethodPost, path, body, nil)
}

// CurrentUser returns the user the credentials belong to.
func (c *Client) CurrentUser(ctx context.Context, creds Credentials) (*User, error) {
	var user User
	if err := c.do(ctx, &creds, http.MethodGet, "/api/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Project membership.

func (c *Client) AddProjectUser(ctx context.Context, creds Credentials, projectID int, req ProjectUserRequest) error {
	path := fmt.Sprintf("/api/project/%d/users", projectID)
	return c.do(ctx, &creds, http.MethodPost, path, req, nil)
}

func (c *Client) ListProjectUsers(ctx context.Context, creds Credentials, projectID int, opts ListOptions) ([]ProjectUser, error) {
	var users []ProjectUser
	path := fmt.Sprintf("/api/project/%d/users%s", projectID, opts.query())
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) UpdateProjectUser(ctx context.Context, creds Credentials, projectID, userID int, role string) error {
	path := fmt.Sprintf("/api/project/%d/users/%d", projectID, userID)
	body := map[string]string{"role": role}
	return c.do(ctx, &creds, http.MethodPut, path, body, nil)
}

func (c *Client) RemoveProjectUser(ctx context.Context, creds Credentials, projectID, userID int) error {
	path := fmt.Sprintf("/api/project/%d/users/%d", projectID, userID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}
