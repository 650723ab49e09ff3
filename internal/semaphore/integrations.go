package semaphore

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) CreateIntegration(ctx context.Context, creds Credentials, projectID int, req IntegrationRequest) (*Integration, error) {
	req.ProjectID = projectID
	req.Searchable = false
	var integration Integration
	path := fmt.Sprintf("/api/project/%d/integrations", projectID)
	if err := c.do(ctx, &creds, http.MethodPost, path, req, &integration); err != nil {
		return nil, err
	}
	return &integration, nil
}

func (c *Client) ListIntegrations(ctx context.Context, creds Credentials, projectID int) ([]Integration, error) {
	var integrations []Integration
	path := fmt.Sprintf("/api/project/%d/integrations", projectID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &integrations); err != nil {
		return nil, err
	}
	return integrations, nil
}

func (c *Client) GetIntegration(ctx context.Context, creds Credentials, projectID, integrationID int) (*Integration, error) {
	var integration Integration
	path := fmt.Sprintf("/api/project/%d/integrations/%d", projectID, integrationID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &integration); err != nil {
		return nil, err
	}
	return &integration, nil
}

func (c *Client) UpdateIntegration(ctx context.Context, creds Credentials, projectID, integrationID int, req IntegrationRequest) error {
	req.ID = integrationID
	req.ProjectID = projectID
	req.Searchable = false
	path := fmt.Sprintf("/api/project/%d/integrations/%d", projectID, integrationID)
	return c.do(ctx, &creds, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteIntegration(ctx context.Context, creds Credentials, projectID, integrationID int) error {
	path := fmt.Sprintf("/api/project/%d/integrations/%d", projectID, integrationID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}

// Matchers and extracted values are sub-resources of an integration.

func (c *Client) CreateIntegrationMatcher(ctx context.Context, creds Credentials, projectID, integrationID int, matcher IntegrationMatcher) (*IntegrationMatcher, error) {
	matcher.IntegrationID = integrationID
	var out IntegrationMatcher
	path := fmt.Sprintf("/api/project/%d/integrations/%d/matchers", projectID, integrationID)
	if err := c.do(ctx, &creds, http.MethodPost, path, matcher, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListIntegrationMatchers(ctx context.Context, creds Credentials, projectID, integrationID int) ([]IntegrationMatcher, error) {
	var matchers []IntegrationMatcher
	path := fmt.Sprintf("/api/project/%d/integrations/%d/matchers", projectID, integrationID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &matchers); err != nil {
		return nil, err
	}
	return matchers, nil
}

func (c *Client) DeleteIntegrationMatcher(ctx context.Context, creds Credentials, projectID, integrationID, matcherID int) error {
	path := fmt.Sprintf("/api/project/%d/integrations/%d/matchers/%d", projectID, integrationID, matcherID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}

func (c *Client) CreateIntegrationExtractValue(ctx context.Context, creds Credentials, projectID, integrationID int, value IntegrationExtractValue) (*IntegrationExtractValue, error) {
	value.IntegrationID = integrationID
	var out IntegrationExtractValue
	path := fmt.Sprintf("/api/project/%d/integrations/%d/values", projectID, integrationID)
	if err := c.do(ctx, &creds, http.MethodPost, path, value, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListIntegrationExtractValues(ctx context.Context, creds Credentials, projectID, integrationID int) ([]IntegrationExtractValue, error) {
	var values []IntegrationExtractValue
	path := fmt.Sprintf("/api/project/%d/integrations/%d/values", projectID, integrationID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (c *Client) DeleteIntegrationExtractValue(ctx context.Context, creds Credentials, projectID, integrationID, valueID int) error {
	path := fmt.Sprintf("/api/project/%d/integrations/%d/values/%d", projectID, integrationID, valueID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}
