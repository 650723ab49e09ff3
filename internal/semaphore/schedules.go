package semaphore

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) CreateSchedule(ctx context.Context, creds Credentials, projectID int, req ScheduleRequest) (*Schedule, error) {
	req.ProjectID = projectID
	var schedule Schedule
	path := fmt.Sprintf("/api/project/%d/schedules", projectID)
	if err := c.do(ctx, &creds, http.MethodPost, path, req, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *Client) ListSchedules(ctx context.Context, creds Credentials, projectID int) ([]Schedule, error) {
	var schedules []Schedule
	path := fmt.Sprintf("/api/project/%d/schedules", projectID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (c *Client) GetSchedule(ctx context.Context, creds Credentials, projectID, scheduleID int) (*Schedule, error) {
	var schedule Schedule
	path := fmt.Sprintf("/api/project/%d/schedules/%d", projectID, scheduleID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *Client) UpdateSchedule(ctx context.Context, creds Credentials, projectID, scheduleID int, req ScheduleRequest) error {
	req.ID = scheduleID
	req.ProjectID = projectID
	path := fmt.Sprintf("/api/project/%d/schedules/%d", projectID, scheduleID)
	return c.do(ctx, &creds, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteSchedule(ctx context.Context, creds Credentials, projectID, scheduleID int) error {
	path := fmt.Sprintf("/api/project/%d/schedules/%d", projectID, scheduleID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}
