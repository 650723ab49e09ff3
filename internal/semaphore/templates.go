package semaphore

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/ebdruplab/semactl/internal/errors"
)

func normalizeTemplate(req *TemplateRequest) error {
	if req.App == "" {
		req.App = "ansible"
	}
	switch req.Type {
	case TemplateTypeJob, TemplateTypeDeploy, TemplateTypeBuild:
	case "job":
		req.Type = TemplateTypeJob
	default:
		return apperrors.New(apperrors.CodeConfigValidation,
			fmt.Sprintf("template type must be one of '', job, deploy, build; got %q", req.Type))
	}
	// Only build templates carry a build template reference or a start
	// version.
	if req.Type != TemplateTypeBuild {
		req.BuildTemplateID = nil
		req.StartVersion = ""
	}
	if req.Name == "" || req.Playbook == "" || req.InventoryID == 0 || req.RepositoryID == 0 {
		return apperrors.New(apperrors.CodeConfigValidation,
			"template requires name, playbook, inventory_id and repository_id")
	}
	if err := normalizeSurveyVars(req.SurveyVars); err != nil {
		return err
	}
	return validateVaults(req.Vaults)
}

// normalizeSurveyVars validates survey definitions in place. The server
// rejects defaults on secret variables, so those are dropped rather than
// forwarded.
func normalizeSurveyVars(vars []TemplateSurveyVar) error {
	for i := range vars {
		sv := &vars[i]
		if sv.Name == "" || sv.Title == "" || sv.Type == "" {
			return apperrors.New(apperrors.CodeConfigValidation,
				fmt.Sprintf("survey variable %d requires name, title and type", i+1))
		}
		switch sv.Type {
		case "integer", "number":
			sv.Type = "int"
		case "string", "int", "secret", "enum":
		default:
			return apperrors.New(apperrors.CodeConfigValidation,
				fmt.Sprintf("survey variable %q type must be one of string, int, secret, enum; got %q", sv.Name, sv.Type))
		}
		if sv.Type == "secret" {
			sv.DefaultValue = ""
		}
		if sv.Type == "enum" {
			if len(sv.Values) == 0 {
				return apperrors.New(apperrors.CodeConfigValidation,
					fmt.Sprintf("survey variable %q requires a non-empty values list for enum type", sv.Name))
			}
			for _, item := range sv.Values {
				if item.Name == "" || item.Value == "" {
					return apperrors.New(apperrors.CodeConfigValidation,
						fmt.Sprintf("survey variable %q enum values require name and value", sv.Name))
				}
			}
		}
	}
	return nil
}

func validateVaults(vaults []TemplateVault) error {
	for i, v := range vaults {
		switch v.Type {
		case VaultTypePassword, VaultTypeKey:
			if v.VaultKeyID == 0 {
				return apperrors.New(apperrors.CodeConfigValidation,
					fmt.Sprintf("vault %d of type %q requires vault_key_id", i+1, v.Type))
			}
		case VaultTypeScript:
		default:
			return apperrors.New(apperrors.CodeConfigValidation,
				fmt.Sprintf("vault %d type must be one of password, key, script; got %q", i+1, v.Type))
		}
	}
	return nil
}

func (c *Client) CreateTemplate(ctx context.Context, creds Credentials, projectID int, req TemplateRequest) (*Template, error) {
	req.ProjectID = projectID
	if err := normalizeTemplate(&req); err != nil {
		return nil, err
	}
	var tpl Template
	path := fmt.Sprintf("/api/project/%d/templates", projectID)
	if err := c.do(ctx, &creds, http.MethodPost, path, req, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (c *Client) ListTemplates(ctx context.Context, creds Credentials, projectID int, opts ListOptions) ([]Template, error) {
	var tpls []Template
	path := fmt.Sprintf("/api/project/%d/templates%s", projectID, opts.query())
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &tpls); err != nil {
		return nil, err
	}
	return tpls, nil
}

func (c *Client) GetTemplate(ctx context.Context, creds Credentials, projectID, templateID int) (*Template, error) {
	var tpl Template
	path := fmt.Sprintf("/api/project/%d/templates/%d", projectID, templateID)
	if err := c.do(ctx, &creds, http.MethodGet, path, nil, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (c *Client) UpdateTemplate(ctx context.Context, creds Credentials, projectID, templateID int, req TemplateRequest) error {
	req.ID = templateID
	req.ProjectID = projectID
	if err := normalizeTemplate(&req); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/project/%d/templates/%d", projectID, templateID)
	return c.do(ctx, &creds, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteTemplate(ctx context.Context, creds Credentials, projectID, templateID int) error {
	path := fmt.Sprintf("/api/project/%d/templates/%d", projectID, templateID)
	return c.do(ctx, &creds, http.MethodDelete, path, nil, nil)
}
