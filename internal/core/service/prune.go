package service

import (
	"context"

	"github.com/ebdruplab/semactl/internal/core/domain"
	apperrors "github.com/ebdruplab/semactl/internal/errors"
	"github.com/ebdruplab/semactl/internal/semaphore"
)

// prune deletes remote schedules, integrations and templates whose names are
// absent from the manifest. Referencing categories go first so a template is
// never deleted while a schedule still points at it.
func (r *deployRun) prune(ctx context.Context) error {
	for _, category := range domain.PruneOrder() {
		if err := r.pruneCategory(ctx, category); err != nil {
			return err
		}
	}
	return nil
}

func (r *deployRun) pruneCategory(ctx context.Context, category domain.Category) error {
	switch category {
	case domain.CategorySchedules:
		remote, err := r.client.ListSchedules(ctx, r.creds, r.projectID)
		if err != nil {
			return err
		}
		desired := map[string]bool{}
		for _, spec := range r.manifest.Schedules {
			desired[spec.Name] = true
		}
		for _, sched := range remote {
			if desired[sched.Name] {
				continue
			}
			if err := r.client.DeleteSchedule(ctx, r.creds, r.projectID, sched.ID); err != nil {
				r.record(category, sched.Name, domain.ActionFailed, sched.ID, "", err)
				return err
			}
			r.record(category, sched.Name, domain.ActionDeleted, sched.ID, "pruned", nil)
		}
		return nil

	case domain.CategoryIntegrations:
		remote, err := r.client.ListIntegrations(ctx, r.creds, r.projectID)
		if err != nil {
			return err
		}
		desired := map[string]bool{}
		for _, spec := range r.manifest.Integrations {
			desired[spec.Name] = true
		}
		for _, integration := range remote {
			if desired[integration.Name] {
				continue
			}
			if err := r.client.DeleteIntegration(ctx, r.creds, r.projectID, integration.ID); err != nil {
				r.record(category, integration.Name, domain.ActionFailed, integration.ID, "", err)
				return err
			}
			r.record(category, integration.Name, domain.ActionDeleted, integration.ID, "pruned", nil)
		}
		return nil

	case domain.CategoryTemplates:
		remote, err := r.client.ListTemplates(ctx, r.creds, r.projectID, semaphore.ListOptions{})
		if err != nil {
			return err
		}
		desired := map[string]bool{}
		for _, spec := range r.manifest.Templates {
			desired[spec.Name] = true
		}
		for _, tpl := range remote {
			if desired[tpl.Name] {
				continue
			}
			if err := r.client.DeleteTemplate(ctx, r.creds, r.projectID, tpl.ID); err != nil {
				r.record(category, tpl.Name, domain.ActionFailed, tpl.ID, "", err)
				return err
			}
			r.record(category, tpl.Name, domain.ActionDeleted, tpl.ID, "pruned", nil)
		}
		return nil

	default:
		return apperrors.New(apperrors.CodeInternal, "category not subject to pruning: "+category.String())
	}
}
