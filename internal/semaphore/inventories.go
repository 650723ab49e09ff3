package semaphore

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/ebdruplab/semactl/internal/errors"
)

// normalizeInventory derives inventory_mode from the inventory type and
// checks the type-specific required fields, mirroring the API's expectations.
func normalizeInventory(req *InventoryRequest) error {
	switch req.Type {
	case InventoryTypeStatic:
		req.InventoryMode = "text"
	case InventoryTypeStaticYAML:
		req.InventoryMode = "yaml"
	case InventoryTypeFile:
		if req.RepositoryID == 0 {
			return apperrors.New(apperrors.CodeConfigValidation,
				"inventory of type 'file' requires repository_id")
		}
		req.InventoryMode = "file"
	default:
		return apperrors.New(apperrors.CodeConfigValidation,
			fmt.Sprintf("invalid inventory type %q, must be one of: static, static-yaml, file", req.Type))
	}
	if req.Inventory == "" {
		return apperrors.New(apperrors.CodeConfigValidation,
			fmt.Sprintf("inventory of type %q requires inventory content", req.Type))
	}
	return nil
}

func (c *Client) CreateInventory(ctx context.Context, creds Credentials, projectID int, req InventoryRequest) (*Inventory, error) {
	req.ProjectID = projectID
	if err := normalizeInventory(&req); err != nil {
		return nil, err
	}
	var inv Inventory
	path := fmt.Sprintf("/api/project/%d/inventory", projectID)
	if err := c.do(ctx, &creds, http.MethodPost, path, req, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *Client) ListInventories(ctx context.Context, creds Credentials, projectID int, opts ListOptions) ([]Inventory, error) {
	var invs []Inventory
	path := fmt.Sprintf("/api/project/%d/inventory%s", projectID, opts.query())
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &invs); err != nil {
		return nil, err
	}
	return invs, nil
}

func (c *Client) GetInventory(ctx context.Context, creds Credentials, projectID, inventoryID int) (*Inventory, error) {
	var inv Inventory
	path := fmt.Sprintf("/api/project/%d/inventory/%d", projectID, inventoryID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *Client) UpdateInventory(ctx context.Context, creds Credentials, projectID, inventoryID int, req InventoryRequest) error {
	req.ID = inventoryID
	req.ProjectID = projectID
	if err := normalizeInventory(&req); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/project/%d/inventory/%d", projectID, inventoryID)
	return c.do(ctx, &creds, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteInventory(ctx context.Context, creds Credentials, projectID, inventoryID int) error {
	path := fmt.Sprintf("/api/project/%d/inventory/%d", projectID, inventoryID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}
