// Package manifest loads and validates the declarative project manifest.
package manifest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ebdruplab/semactl/internal/core/domain"
	apperrors "github.com/ebdruplab/semactl/internal/errors"
)

// Load reads a manifest file, decodes it strictly and validates it. Unknown
// YAML keys are rejected so a typoed field fails loudly instead of silently
// deploying nothing.
func Load(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapUserFacing(err, apperrors.CodeManifestReadError,
			fmt.Sprintf("cannot read manifest file %q", path),
			"Check that the file exists and is readable.")
	}
	return Parse(data)
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*domain.Manifest, error) {
	var m domain.Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, apperrors.WrapUserFacing(err, apperrors.CodeManifestParseError,
			"manifest is not valid YAML",
			"Fix the YAML syntax or remove the unknown field named in the error.")
	}
	if err := Validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate applies struct validation plus the cross-field rules that tags
// cannot express.
func Validate(m *domain.Manifest) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(m); err != nil {
		return apperrors.WrapUserFacing(err, apperrors.CodeManifestValidation,
			"manifest failed validation",
			"Fix the fields named in the error details.")
	}

	if err := validateOptions(m.Options); err != nil {
		return err
	}
	if err := validateKeys(m.Keys); err != nil {
		return err
	}
	if err := validateTemplates(m.Templates); err != nil {
		return err
	}
	return validateUniqueNames(m)
}

func validateOptions(opts domain.DeployOptions) error {
	set := 0
	for _, f := range []bool{opts.ForceProjectCreation, opts.ForceProjectUpdate, opts.ForceProjectDelete} {
		if f {
			set++
		}
	}
	if set > 1 {
		return apperrors.NewUserFacing(apperrors.CodeConfigConflict,
			"force_project_creation, force_project_update and force_project_delete are mutually exclusive",
			"Set at most one of the three force flags.")
	}
	if opts.ForceProjectDeleteTimer > 0 && !opts.ForceProjectDelete {
		return apperrors.NewUserFacing(apperrors.CodeConfigConflict,
			"force_project_delete_timer requires force_project_delete",
			"Either set force_project_delete: true or drop the timer.")
	}
	return nil
}

func validateKeys(keys map[string]domain.KeySpec) error {
	for handle, key := range keys {
		switch key.Type {
		case "ssh":
			if key.SSH == nil {
				return apperrors.NewUserFacing(apperrors.CodeManifestValidation,
					fmt.Sprintf("key %q has type ssh but no ssh block", handle),
					"Add an ssh block with the private key material.")
			}
		case "login_password":
			if key.LoginPassword == nil {
				return apperrors.NewUserFacing(apperrors.CodeManifestValidation,
					fmt.Sprintf("key %q has type login_password but no login_password block", handle),
					"Add a login_password block with login and password.")
			}
		}
	}
	return nil
}

func validateTemplates(templates map[string]domain.TemplateSpec) error {
	for handle, tpl := range templates {
		for i, vault := range tpl.Vaults {
			if (vault.Type == "password" || vault.Type == "key") && vault.KeyName == "" {
				return apperrors.NewUserFacing(apperrors.CodeManifestValidation,
					fmt.Sprintf("template %q vault %d has type %s but no key_name", handle, i+1, vault.Type),
					"Password and key vault entries must name the access key they use.")
			}
		}
		for _, sv := range tpl.SurveyVars {
			if sv.Type == "enum" && len(sv.Values) == 0 {
				return apperrors.NewUserFacing(apperrors.CodeManifestValidation,
					fmt.Sprintf("template %q survey variable %q needs a values list for enum type", handle, sv.Name),
					"List the selectable values, each with a name and a value.")
			}
		}
	}
	return nil
}

// validateUniqueNames rejects two handles in one category that point at the
// same remote name. Duplicate names would make reference resolution
// ambiguous.
func validateUniqueNames(m *domain.Manifest) error {
	check := func(category domain.Category, names []string) error {
		seen := map[string]bool{}
		for _, name := range names {
			if seen[name] {
				return apperrors.NewUserFacing(apperrors.CodeManifestValidation,
					fmt.Sprintf("duplicate %s name %q in manifest", category, name),
					"Give each resource in a category a distinct name.")
			}
			seen[name] = true
		}
		return nil
	}

	if err := check(domain.CategoryKeys, specNames(m.Keys, func(s domain.KeySpec) string { return s.Name })); err != nil {
		return err
	}
	if err := check(domain.CategoryRepositories, specNames(m.Repositories, func(s domain.RepositorySpec) string { return s.Name })); err != nil {
		return err
	}
	if err := check(domain.CategoryViews, specNames(m.Views, func(s domain.ViewSpec) string { return s.Title })); err != nil {
		return err
	}
	if err := check(domain.CategoryInventories, specNames(m.Inventories, func(s domain.InventorySpec) string { return s.Name })); err != nil {
		return err
	}
	if err := check(domain.CategoryEnvironments, specNames(m.Environments, func(s domain.EnvironmentSpec) string { return s.Name })); err != nil {
		return err
	}
	if err := check(domain.CategoryTemplates, specNames(m.Templates, func(s domain.TemplateSpec) string { return s.Name })); err != nil {
		return err
	}
	if err := check(domain.CategorySchedules, specNames(m.Schedules, func(s domain.ScheduleSpec) string { return s.Name })); err != nil {
		return err
	}
	return check(domain.CategoryIntegrations, specNames(m.Integrations, func(s domain.IntegrationSpec) string { return s.Name }))
}

func specNames[T any](specs map[string]T, name func(T) string) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, name(s))
	}
	return out
}
