package service

import (
	"context"
	"sort"

	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"

	"github.com/ebdruplab/semactl/internal/core/domain"
	apperrors "github.com/ebdruplab/semactl/internal/errors"
	"github.com/ebdruplab/semactl/internal/semaphore"
)

func (r *deployRun) applyTemplates(ctx context.Context) error {
	remote, err := r.client.ListTemplates(ctx, r.creds, r.projectID, semaphore.ListOptions{})
	if err != nil {
		return err
	}
	byName := map[string]semaphore.Template{}
	for _, tpl := range remote {
		r.refs.put(domain.CategoryTemplates, tpl.Name, tpl.ID)
		if _, ok := byName[tpl.Name]; !ok {
			byName[tpl.Name] = tpl
		}
	}

	for _, handle := range templateOrder(r.manifest.Templates) {
		spec := r.manifest.Templates[handle]
		desired, err := r.templateRequest(spec)
		if err != nil {
			r.record(domain.CategoryTemplates, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}

		if existing, ok := byName[spec.Name]; ok {
			current := semaphore.TemplateRequest{
				Name:              existing.Name,
				App:               existing.App,
				Playbook:          existing.Playbook,
				InventoryID:       existing.InventoryID,
				RepositoryID:      existing.RepositoryID,
				EnvironmentID:     existing.EnvironmentID,
				ViewID:            existing.ViewID,
				Type:              existing.Type,
				BuildTemplateID:   existing.BuildTemplateID,
				StartVersion:      existing.StartVersion,
				Description:       existing.Description,
				GitBranch:         existing.GitBranch,
				Arguments:         existing.Arguments,
				Limit:             existing.Limit,
				Tags:              existing.Tags,
				SkipTags:          existing.SkipTags,
				VaultPassword:     existing.VaultPassword,
				SurveyVars:        existing.SurveyVars,
				Vaults:            existing.Vaults,
				TaskParams:        existing.TaskParams,
				Autorun:           existing.Autorun,
				AllowOverrideArgs: existing.AllowOverrideArgs,
				AllowParallel:     existing.AllowParallel,
				SuppressSuccess:   existing.SuppressSuccess,
			}
			if !r.updateMode || cmp.Equal(desired, current) {
				r.record(domain.CategoryTemplates, spec.Name, domain.ActionSkipped, existing.ID, "up to date", nil)
				continue
			}
			if err := r.client.UpdateTemplate(ctx, r.creds, r.projectID, existing.ID, desired); err != nil {
				r.record(domain.CategoryTemplates, spec.Name, domain.ActionFailed, existing.ID, "", err)
				return err
			}
			r.record(domain.CategoryTemplates, spec.Name, domain.ActionUpdated, existing.ID, "", nil)
			continue
		}

		created, err := r.client.CreateTemplate(ctx, r.creds, r.projectID, desired)
		if err != nil {
			r.record(domain.CategoryTemplates, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		r.refs.put(domain.CategoryTemplates, spec.Name, created.ID)
		r.record(domain.CategoryTemplates, spec.Name, domain.ActionCreated, created.ID, "", nil)
	}
	return nil
}

// templateOrder sorts template handles so templates without a build template
// reference come first. A deploy template can then refer to a build template
// declared anywhere in the manifest.
func templateOrder(specs map[string]domain.TemplateSpec) []string {
	handles := sortedHandles(specs)
	sort.SliceStable(handles, func(i, j int) bool {
		return specs[handles[i]].BuildTemplateName == "" && specs[handles[j]].BuildTemplateName != ""
	})
	return handles
}

func (r *deployRun) templateRequest(spec domain.TemplateSpec) (semaphore.TemplateRequest, error) {
	req := semaphore.TemplateRequest{
		Name:              spec.Name,
		App:               spec.App,
		Playbook:          spec.Playbook,
		Type:              spec.Type,
		StartVersion:      spec.StartVersion,
		Description:       spec.Description,
		GitBranch:         spec.GitBranch,
		Limit:             spec.Limit,
		Tags:              spec.Tags,
		SkipTags:          spec.SkipTags,
		VaultPassword:     spec.VaultPassword,
		SurveyVars:        surveyVarsRequest(spec.SurveyVars),
		Autorun:           spec.Autorun,
		AllowOverrideArgs: spec.AllowOverrideArgs,
		AllowParallel:     spec.AllowParallel,
		SuppressSuccess:   spec.SuppressSuccess,
	}
	if req.App == "" {
		req.App = "ansible"
	}
	if req.Type == "job" {
		req.Type = semaphore.TemplateTypeJob
	}

	var err error
	if req.InventoryID, err = r.refs.resolve(domain.CategoryInventories, spec.InventoryName); err != nil {
		return req, err
	}
	if req.RepositoryID, err = r.refs.resolve(domain.CategoryRepositories, spec.RepositoryName); err != nil {
		return req, err
	}
	if req.EnvironmentID, err = r.refs.resolveOptional(domain.CategoryEnvironments, spec.EnvironmentName); err != nil {
		return req, err
	}
	if req.ViewID, err = r.refs.resolveOptional(domain.CategoryViews, spec.ViewName); err != nil {
		return req, err
	}
	if req.BuildTemplateID, err = r.refs.resolveOptional(domain.CategoryTemplates, spec.BuildTemplateName); err != nil {
		return req, err
	}
	if req.Vaults, err = r.vaultsRequest(spec.Vaults); err != nil {
		return req, err
	}
	// The client strips these from non-build payloads; mirror that here so
	// the remote compare stays stable across runs.
	if req.Type != semaphore.TemplateTypeBuild {
		req.BuildTemplateID = nil
		req.StartVersion = ""
	}

	if len(spec.Arguments) > 0 {
		encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(spec.Arguments)
		if err != nil {
			return req, apperrors.Wrap(err, apperrors.CodeInternal, "failed to serialize template arguments")
		}
		req.Arguments = string(encoded)
	}
	return req, nil
}

// surveyVarsRequest converts survey definitions to the wire shape. Secret
// variables lose their default here as well, so a redeploy compares equal to
// what the server stored.
func surveyVarsRequest(specs []domain.SurveyVarSpec) []semaphore.TemplateSurveyVar {
	if len(specs) == 0 {
		return nil
	}
	out := make([]semaphore.TemplateSurveyVar, 0, len(specs))
	for _, sv := range specs {
		def := sv.DefaultValue
		if sv.Type == "secret" {
			def = ""
		}
		values := make([]semaphore.TemplateSurveyEnumItem, 0, len(sv.Values))
		for _, item := range sv.Values {
			values = append(values, semaphore.TemplateSurveyEnumItem{Name: item.Name, Value: item.Value})
		}
		if len(values) == 0 {
			values = nil
		}
		out = append(out, semaphore.TemplateSurveyVar{
			Name:         sv.Name,
			Title:        sv.Title,
			Type:         sv.Type,
			Description:  sv.Description,
			Required:     sv.Required,
			DefaultValue: def,
			Values:       values,
		})
	}
	return out
}

// vaultsRequest resolves vault key names. Script vaults carry their payload
// inline and skip resolution.
func (r *deployRun) vaultsRequest(specs []domain.TemplateVaultSpec) ([]semaphore.TemplateVault, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]semaphore.TemplateVault, 0, len(specs))
	for _, v := range specs {
		entry := semaphore.TemplateVault{Type: v.Type, Name: v.Name, Script: v.Script}
		if v.Type == semaphore.VaultTypePassword || v.Type == semaphore.VaultTypeKey {
			id, err := r.refs.resolve(domain.CategoryKeys, v.KeyName)
			if err != nil {
				return nil, err
			}
			entry.VaultKeyID = id
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *deployRun) applySchedules(ctx context.Context) error {
	remote, err := r.client.ListSchedules(ctx, r.creds, r.projectID)
	if err != nil {
		return err
	}
	byName := map[string]semaphore.Schedule{}
	for _, sched := range remote {
		r.refs.put(domain.CategorySchedules, sched.Name, sched.ID)
		if _, ok := byName[sched.Name]; !ok {
			byName[sched.Name] = sched
		}
	}

	for _, handle := range sortedHandles(r.manifest.Schedules) {
		spec := r.manifest.Schedules[handle]
		templateID, err := r.refs.resolve(domain.CategoryTemplates, spec.TemplateName)
		if err != nil {
			r.record(domain.CategorySchedules, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		desired := semaphore.ScheduleRequest{
			Name:       spec.Name,
			CronFormat: spec.CronFormat,
			TemplateID: templateID,
			Active:     spec.ScheduleActive(),
		}

		if existing, ok := byName[spec.Name]; ok {
			current := semaphore.ScheduleRequest{
				Name:       existing.Name,
				CronFormat: existing.CronFormat,
				TemplateID: existing.TemplateID,
				Active:     existing.Active,
			}
			if !r.updateMode || desired == current {
				r.record(domain.CategorySchedules, spec.Name, domain.ActionSkipped, existing.ID, "up to date", nil)
				continue
			}
			if err := r.client.UpdateSchedule(ctx, r.creds, r.projectID, existing.ID, desired); err != nil {
				r.record(domain.CategorySchedules, spec.Name, domain.ActionFailed, existing.ID, "", err)
				return err
			}
			r.record(domain.CategorySchedules, spec.Name, domain.ActionUpdated, existing.ID, "", nil)
			continue
		}

		created, err := r.client.CreateSchedule(ctx, r.creds, r.projectID, desired)
		if err != nil {
			r.record(domain.CategorySchedules, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		r.refs.put(domain.CategorySchedules, spec.Name, created.ID)
		r.record(domain.CategorySchedules, spec.Name, domain.ActionCreated, created.ID, "", nil)
	}
	return nil
}

func (r *deployRun) applyIntegrations(ctx context.Context) error {
	remote, err := r.client.ListIntegrations(ctx, r.creds, r.projectID)
	if err != nil {
		return err
	}
	byName := map[string]semaphore.Integration{}
	for _, integration := range remote {
		r.refs.put(domain.CategoryIntegrations, integration.Name, integration.ID)
		if _, ok := byName[integration.Name]; !ok {
			byName[integration.Name] = integration
		}
	}

	for _, handle := range sortedHandles(r.manifest.Integrations) {
		spec := r.manifest.Integrations[handle]
		templateID, err := r.refs.resolve(domain.CategoryTemplates, spec.TemplateName)
		if err != nil {
			r.record(domain.CategoryIntegrations, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		authSecretID, err := r.refs.resolveOptional(domain.CategoryKeys, spec.KeyName)
		if err != nil {
			r.record(domain.CategoryIntegrations, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		desired := semaphore.IntegrationRequest{
			Name:         spec.Name,
			TemplateID:   templateID,
			AuthMethod:   spec.AuthMethod,
			AuthHeader:   spec.AuthHeader,
			AuthSecretID: authSecretID,
		}

		if existing, ok := byName[spec.Name]; ok {
			current := semaphore.IntegrationRequest{
				Name:         existing.Name,
				TemplateID:   existing.TemplateID,
				AuthMethod:   existing.AuthMethod,
				AuthHeader:   existing.AuthHeader,
				AuthSecretID: existing.AuthSecretID,
			}
			if !r.updateMode || cmp.Equal(desired, current) {
				r.record(domain.CategoryIntegrations, spec.Name, domain.ActionSkipped, existing.ID, "up to date", nil)
				continue
			}
			if err := r.client.UpdateIntegration(ctx, r.creds, r.projectID, existing.ID, desired); err != nil {
				r.record(domain.CategoryIntegrations, spec.Name, domain.ActionFailed, existing.ID, "", err)
				return err
			}
			r.record(domain.CategoryIntegrations, spec.Name, domain.ActionUpdated, existing.ID, "", nil)
			continue
		}

		created, err := r.client.CreateIntegration(ctx, r.creds, r.projectID, desired)
		if err != nil {
			r.record(domain.CategoryIntegrations, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		r.refs.put(domain.CategoryIntegrations, spec.Name, created.ID)
		r.record(domain.CategoryIntegrations, spec.Name, domain.ActionCreated, created.ID, "", nil)
	}
	return nil
}
