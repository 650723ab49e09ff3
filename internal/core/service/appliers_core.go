package service

import (
	"context"

	"github.com/ebdruplab/semactl/internal/core/domain"
	"github.com/ebdruplab/semactl/internal/semaphore"
)

// Appliers follow one shape: list the remote resources, seed the reference
// table, then walk the desired specs in stable handle order. A desired name
// with no remote match is created; a match is updated in update mode when
// the resolved payload differs, otherwise skipped.

func (r *deployRun) applyKeys(ctx context.Context) error {
	remote, err := r.client.ListKeys(ctx, r.creds, r.projectID, semaphore.ListOptions{})
	if err != nil {
		return err
	}
	byName := map[string]semaphore.AccessKey{}
	for _, k := range remote {
		r.refs.put(domain.CategoryKeys, k.Name, k.ID)
		if _, ok := byName[k.Name]; !ok {
			byName[k.Name] = k
		}
	}

	for _, handle := range sortedHandles(r.manifest.Keys) {
		spec := r.manifest.Keys[handle]
		if existing, ok := byName[spec.Name]; ok {
			// Key material is write-only on the server, so there is nothing
			// to compare. Secrets are only replaced on explicit request.
			if r.updateMode && spec.OverrideSecret {
				r.logSensitive(ctx, "replacing secret for key %q: %+v", spec.Name, keyRequest(spec))
				if err := r.client.UpdateKey(ctx, r.creds, r.projectID, existing.ID, keyRequest(spec)); err != nil {
					r.record(domain.CategoryKeys, spec.Name, domain.ActionFailed, existing.ID, "", err)
					return err
				}
				r.record(domain.CategoryKeys, spec.Name, domain.ActionUpdated, existing.ID, "secret replaced", nil)
			} else {
				r.record(domain.CategoryKeys, spec.Name, domain.ActionSkipped, existing.ID, "exists", nil)
			}
			continue
		}
		r.logSensitive(ctx, "creating key %q: %+v", spec.Name, keyRequest(spec))
		created, err := r.client.CreateKey(ctx, r.creds, r.projectID, keyRequest(spec))
		if err != nil {
			r.record(domain.CategoryKeys, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		r.refs.put(domain.CategoryKeys, spec.Name, created.ID)
		r.record(domain.CategoryKeys, spec.Name, domain.ActionCreated, created.ID, "", nil)
	}
	return nil
}

func keyRequest(spec domain.KeySpec) semaphore.AccessKeyRequest {
	req := semaphore.AccessKeyRequest{
		Name:           spec.Name,
		Type:           spec.Type,
		OverrideSecret: spec.OverrideSecret,
	}
	if spec.SSH != nil {
		req.SSH = &semaphore.AccessKeySSH{
			Login:      spec.SSH.Login,
			Passphrase: spec.SSH.Passphrase,
			PrivateKey: spec.SSH.PrivateKey,
		}
	}
	if spec.LoginPassword != nil {
		req.LoginPassword = &semaphore.AccessKeyLoginPassword{
			Login:    spec.LoginPassword.Login,
			Password: spec.LoginPassword.Password,
		}
	}
	return req
}

func (r *deployRun) applyRepositories(ctx context.Context) error {
	remote, err := r.client.ListRepositories(ctx, r.creds, r.projectID, semaphore.ListOptions{})
	if err != nil {
		return err
	}
	byName := map[string]semaphore.Repository{}
	for _, repo := range remote {
		r.refs.put(domain.CategoryRepositories, repo.Name, repo.ID)
		if _, ok := byName[repo.Name]; !ok {
			byName[repo.Name] = repo
		}
	}

	for _, handle := range sortedHandles(r.manifest.Repositories) {
		spec := r.manifest.Repositories[handle]
		keyID, err := r.refs.resolve(domain.CategoryKeys, spec.KeyName)
		if err != nil {
			r.record(domain.CategoryRepositories, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		desired := semaphore.RepositoryRequest{
			Name:      spec.Name,
			GitURL:    spec.GitURL,
			GitBranch: spec.GitBranch,
			SSHKeyID:  keyID,
		}

		if existing, ok := byName[spec.Name]; ok {
			current := semaphore.RepositoryRequest{
				Name:      existing.Name,
				GitURL:    existing.GitURL,
				GitBranch: existing.GitBranch,
				SSHKeyID:  existing.SSHKeyID,
			}
			if !r.updateMode || desired == current {
				r.record(domain.CategoryRepositories, spec.Name, domain.ActionSkipped, existing.ID, "up to date", nil)
				continue
			}
			if err := r.client.UpdateRepository(ctx, r.creds, r.projectID, existing.ID, desired); err != nil {
				r.record(domain.CategoryRepositories, spec.Name, domain.ActionFailed, existing.ID, "", err)
				return err
			}
			r.record(domain.CategoryRepositories, spec.Name, domain.ActionUpdated, existing.ID, "", nil)
			continue
		}

		created, err := r.client.CreateRepository(ctx, r.creds, r.projectID, desired)
		if err != nil {
			r.record(domain.CategoryRepositories, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		r.refs.put(domain.CategoryRepositories, spec.Name, created.ID)
		r.record(domain.CategoryRepositories, spec.Name, domain.ActionCreated, created.ID, "", nil)
	}
	return nil
}

func (r *deployRun) applyViews(ctx context.Context) error {
	remote, err := r.client.ListViews(ctx, r.creds, r.projectID)
	if err != nil {
		return err
	}
	byTitle := map[string]semaphore.View{}
	for _, v := range remote {
		r.refs.put(domain.CategoryViews, v.Title, v.ID)
		if _, ok := byTitle[v.Title]; !ok {
			byTitle[v.Title] = v
		}
	}

	for _, handle := range sortedHandles(r.manifest.Views) {
		spec := r.manifest.Views[handle]
		desired := semaphore.ViewRequest{Title: spec.Title, Position: spec.Position}

		if existing, ok := byTitle[spec.Title]; ok {
			if !r.updateMode || (existing.Title == desired.Title && existing.Position == desired.Position) {
				r.record(domain.CategoryViews, spec.Title, domain.ActionSkipped, existing.ID, "up to date", nil)
				continue
			}
			if err := r.client.UpdateView(ctx, r.creds, r.projectID, existing.ID, desired); err != nil {
				r.record(domain.CategoryViews, spec.Title, domain.ActionFailed, existing.ID, "", err)
				return err
			}
			r.record(domain.CategoryViews, spec.Title, domain.ActionUpdated, existing.ID, "", nil)
			continue
		}

		created, err := r.client.CreateView(ctx, r.creds, r.projectID, desired)
		if err != nil {
			r.record(domain.CategoryViews, spec.Title, domain.ActionFailed, 0, "", err)
			return err
		}
		r.refs.put(domain.CategoryViews, spec.Title, created.ID)
		r.record(domain.CategoryViews, spec.Title, domain.ActionCreated, created.ID, "", nil)
	}
	return nil
}

func (r *deployRun) applyInventories(ctx context.Context) error {
	remote, err := r.client.ListInventories(ctx, r.creds, r.projectID, semaphore.ListOptions{})
	if err != nil {
		return err
	}
	byName := map[string]semaphore.Inventory{}
	for _, inv := range remote {
		r.refs.put(domain.CategoryInventories, inv.Name, inv.ID)
		if _, ok := byName[inv.Name]; !ok {
			byName[inv.Name] = inv
		}
	}

	for _, handle := range sortedHandles(r.manifest.Inventories) {
		spec := r.manifest.Inventories[handle]
		desired, err := r.inventoryRequest(spec)
		if err != nil {
			r.record(domain.CategoryInventories, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}

		if existing, ok := byName[spec.Name]; ok {
			current := semaphore.InventoryRequest{
				Name:         existing.Name,
				Type:         existing.Type,
				Inventory:    existing.Inventory,
				RepositoryID: existing.RepositoryID,
				SSHKeyID:     existing.SSHKeyID,
				BecomeKeyID:  existing.BecomeKeyID,
			}
			if !r.updateMode || desired == current {
				r.record(domain.CategoryInventories, spec.Name, domain.ActionSkipped, existing.ID, "up to date", nil)
				continue
			}
			if err := r.client.UpdateInventory(ctx, r.creds, r.projectID, existing.ID, desired); err != nil {
				r.record(domain.CategoryInventories, spec.Name, domain.ActionFailed, existing.ID, "", err)
				return err
			}
			r.record(domain.CategoryInventories, spec.Name, domain.ActionUpdated, existing.ID, "", nil)
			continue
		}

		created, err := r.client.CreateInventory(ctx, r.creds, r.projectID, desired)
		if err != nil {
			r.record(domain.CategoryInventories, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		r.refs.put(domain.CategoryInventories, spec.Name, created.ID)
		r.record(domain.CategoryInventories, spec.Name, domain.ActionCreated, created.ID, "", nil)
	}
	return nil
}

func (r *deployRun) inventoryRequest(spec domain.InventorySpec) (semaphore.InventoryRequest, error) {
	req := semaphore.InventoryRequest{
		Name:      spec.Name,
		Type:      spec.Type,
		Inventory: spec.Inventory,
	}
	var err error
	if spec.RepositoryName != "" {
		if req.RepositoryID, err = r.refs.resolve(domain.CategoryRepositories, spec.RepositoryName); err != nil {
			return req, err
		}
	}
	if spec.KeyName != "" {
		if req.SSHKeyID, err = r.refs.resolve(domain.CategoryKeys, spec.KeyName); err != nil {
			return req, err
		}
	}
	if spec.BecomeKeyName != "" {
		if req.BecomeKeyID, err = r.refs.resolve(domain.CategoryKeys, spec.BecomeKeyName); err != nil {
			return req, err
		}
	}
	return req, nil
}

func (r *deployRun) applyEnvironments(ctx context.Context) error {
	remote, err := r.client.ListEnvironments(ctx, r.creds, r.projectID, semaphore.ListOptions{})
	if err != nil {
		return err
	}
	byName := map[string]semaphore.Environment{}
	for _, env := range remote {
		r.refs.put(domain.CategoryEnvironments, env.Name, env.ID)
		if _, ok := byName[env.Name]; !ok {
			byName[env.Name] = env
		}
	}

	for _, handle := range sortedHandles(r.manifest.Environments) {
		spec := r.manifest.Environments[handle]
		envStr, err := semaphore.EncodeEnvironmentVars(spec.Env)
		if err != nil {
			r.record(domain.CategoryEnvironments, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		jsonStr, err := semaphore.EncodeEnvironmentJSON(spec.JSON)
		if err != nil {
			r.record(domain.CategoryEnvironments, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		desired := semaphore.EnvironmentRequest{
			Name:     spec.Name,
			Password: spec.Password,
			Env:      envStr,
			JSON:     jsonStr,
		}

		if existing, ok := byName[spec.Name]; ok {
			same := existing.Env == desired.Env && existing.JSON == desired.JSON
			if !r.updateMode || same {
				r.record(domain.CategoryEnvironments, spec.Name, domain.ActionSkipped, existing.ID, "up to date", nil)
				continue
			}
			r.logSensitive(ctx, "updating environment %q: env=%s json=%s", spec.Name, desired.Env, desired.JSON)
			if err := r.client.UpdateEnvironment(ctx, r.creds, r.projectID, existing.ID, desired); err != nil {
				r.record(domain.CategoryEnvironments, spec.Name, domain.ActionFailed, existing.ID, "", err)
				return err
			}
			r.record(domain.CategoryEnvironments, spec.Name, domain.ActionUpdated, existing.ID, "", nil)
			continue
		}

		r.logSensitive(ctx, "creating environment %q: env=%s json=%s", spec.Name, desired.Env, desired.JSON)
		created, err := r.client.CreateEnvironment(ctx, r.creds, r.projectID, desired)
		if err != nil {
			r.record(domain.CategoryEnvironments, spec.Name, domain.ActionFailed, 0, "", err)
			return err
		}
		r.refs.put(domain.CategoryEnvironments, spec.Name, created.ID)
		r.record(domain.CategoryEnvironments, spec.Name, domain.ActionCreated, created.ID, "", nil)
	}
	return nil
}
