package semaphore

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) CreateRepository(ctx context.Context, creds Credentials, projectID int, req RepositoryRequest) (*Repository, error) {
	req.ProjectID = projectID
	var repo Repository
	path := fmt.Sprintf("/api/project/%d/repositories", projectID)
	if err := c.do(ctx, &creds, http.MethodPost, path, req, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

func (c *Client) ListRepositories(ctx context.Context, creds Credentials, projectID int, opts ListOptions) ([]Repository, error) {
	var repos []Repository
	path := fmt.Sprintf("/api/project/%d/repositories%s", projectID, opts.query())
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) UpdateRepository(ctx context.Context, creds Credentials, projectID, repositoryID int, req RepositoryRequest) error {
	req.ID = repositoryID
	req.ProjectID = projectID
	path := fmt.Sprintf("/api/project/%d/repositories/%d", projectID, repositoryID)
	return c.do(ctx, &creds, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteRepository(ctx context.Context, creds Credentials, projectID, repositoryID int) error {
	path := fmt.Sprintf("/api/project/%d/repositories/%d", projectID, repositoryID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}
