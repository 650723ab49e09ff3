package semaphore

import (
	"context"
	"fmt"
	"net/http"
)

// StartTask queues a run of a template.
func (c *Client) StartTask(ctx context.Context, creds Credentials, projectID int, req TaskRequest) (*Task, error) {
	var task Task
	path := fmt.Sprintf("/api/project/%d/tasks", projectID)
	if err := c.do(ctx, &creds, http.MethodPost, path, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) ListTasks(ctx context.Context, creds Credentials, projectID int) ([]Task, error) {
	var tasks []Task
	path := fmt.Sprintf("/api/project/%d/tasks", projectID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, creds Credentials, projectID, taskID int) (*Task, error) {
	var task Task
	path := fmt.Sprintf("/api/project/%d/tasks/%d", projectID, taskID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CancelTask stops a queued or running task. The server answers 204.
func (c *Client) CancelTask(ctx context.Context, creds Credentials, projectID, taskID int) error {
	path := fmt.Sprintf("/api/project/%d/tasks/%d/cancel", projectID, taskID)
	return c.do(ctx, &creds, http.MethodPost, path, nil, nil)
}

func (c *Client) DeleteTask(ctx context.Context, creds Credentials, projectID, taskID int) error {
	path := fmt.Sprintf("/api/project/%d/tasks/%d", projectID, taskID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}

func (c *Client) TaskOutput(ctx context.Context, creds Credentials, projectID, taskID int) ([]TaskOutput, error) {
	var output []TaskOutput
	path := fmt.Sprintf("/api/project/%d/tasks/%d/output", projectID, taskID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &output); err != nil {
		return nil, err
	}
	return output, nil
}

// TaskRawOutput returns the task log as plain text.
func (c *Client) TaskRawOutput(ctx context.Context, creds Credentials, projectID, taskID int) (string, error) {
	path := fmt.Sprintf("/api/project/%d/tasks/%d/raw_output", projectID, taskID)
	text, _, err := c.doRaw(ctx, &creds, http.MethodGet, path)
	return text, err
}
