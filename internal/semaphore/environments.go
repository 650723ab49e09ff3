package semaphore

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/ebdruplab/semactl/internal/errors"
)

// EncodeEnvironmentVars serializes an environment's variable map into the
// JSON string form the API stores.
func EncodeEnvironmentVars(vars map[string]string) (string, error) {
	if len(vars) == 0 {
		return "", nil
	}
	encoded, err := json.Marshal(vars)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "failed to serialize environment variables")
	}
	return string(encoded), nil
}

// EncodeEnvironmentJSON serializes the extra-variables object the same way.
func EncodeEnvironmentJSON(extra map[string]any) (string, error) {
	if len(extra) == 0 {
		return "", nil
	}
	encoded, err := json.Marshal(extra)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "failed to serialize environment extra variables")
	}
	return string(encoded), nil
}

func (c *Client) CreateEnvironment(ctx context.Context, creds Credentials, projectID int, req EnvironmentRequest) (*Environment, error) {
	req.ProjectID = projectID
	var env Environment
	path := fmt.Sprintf("/api/project/%d/environment", projectID)
	if err := c.do(ctx, &creds, http.MethodPost, path, req, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Client) ListEnvironments(ctx context.Context, creds Credentials, projectID int, opts ListOptions) ([]Environment, error) {
	var envs []Environment
	path := fmt.Sprintf("/api/project/%d/environment%s", projectID, opts.query())
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &envs); err != nil {
		return nil, err
	}
	return envs, nil
}

func (c *Client) GetEnvironment(ctx context.Context, creds Credentials, projectID, environmentID int) (*Environment, error) {
	var env Environment
	path := fmt.Sprintf("/api/project/%d/environment/%d", projectID, environmentID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Client) UpdateEnvironment(ctx context.Context, creds Credentials, projectID, environmentID int, req EnvironmentRequest) error {
	req.ID = environmentID
	req.ProjectID = projectID
	path := fmt.Sprintf("/api/project/%d/environment/%d", projectID, environmentID)
	return c.do(ctx, &creds, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteEnvironment(ctx context.Context, creds Credentials, projectID, environmentID int) error {
	path := fmt.Sprintf("/api/project/%d/environment/%d", projectID, environmentID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}
