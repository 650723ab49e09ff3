// Package service contains the deployment engine that reconciles a manifest
// against a Semaphore server. Resources are applied strictly sequentially in
// dependency order so every name reference resolves before its referrer is
// sent.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ebdruplab/semactl/internal/core/domain"
	"github.com/ebdruplab/semactl/internal/core/ports"
	apperrors "github.com/ebdruplab/semactl/internal/errors"
	"github.com/ebdruplab/semactl/internal/semaphore"
)

// AuthConfig selects how the engine authenticates. A token wins over a
// username/password pair; session logins are logged out when the run ends.
type AuthConfig struct {
	APIToken string
	Username string
	Password string
}

type Engine struct {
	client   *semaphore.Client
	manifest *domain.Manifest
	reporter ports.Reporter
	logger   ports.Logger
	auth     AuthConfig
}

var _ ports.Deployer = (*Engine)(nil)

func NewEngine(client *semaphore.Client, manifest *domain.Manifest, reporter ports.Reporter, logger ports.Logger, auth AuthConfig) (*Engine, error) {
	if client == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "engine requires a client")
	}
	if manifest == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "engine requires a manifest")
	}
	if reporter == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "engine requires a reporter")
	}
	if logger == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "engine requires a logger")
	}
	if auth.APIToken == "" && auth.Username == "" {
		return nil, apperrors.NewUserFacing(apperrors.CodeConfigValidation,
			"no credentials configured",
			"Set an API token or a username and password.")
	}
	return &Engine{
		client:   client,
		manifest: manifest,
		reporter: reporter,
		logger:   logger,
		auth:     auth,
	}, nil
}

// Run converges the server toward the manifest. On failure the run stops at
// the failing resource; everything applied up to that point is still
// reported. There is no rollback, a rerun converges from wherever the
// previous run stopped.
func (e *Engine) Run(ctx context.Context) error {
	creds, logout, err := e.authenticate(ctx)
	if err != nil {
		return err
	}
	defer logout()

	run := &deployRun{
		client:   e.client,
		creds:    creds,
		manifest: e.manifest,
		logger:   e.logger,
		refs:     newRefTable(),
	}
	runErr := run.execute(ctx)

	if repErr := e.reporter.Report(ctx, run.results); repErr != nil {
		e.logger.Errorf(ctx, repErr, "failed to write apply report")
	}
	return runErr
}

// Destroy deletes every project matching the manifest's project name,
// honoring the configured delete timer.
func (e *Engine) Destroy(ctx context.Context) error {
	creds, logout, err := e.authenticate(ctx)
	if err != nil {
		return err
	}
	defer logout()

	run := &deployRun{
		client:   e.client,
		creds:    creds,
		manifest: e.manifest,
		logger:   e.logger,
		refs:     newRefTable(),
	}
	runErr := run.deleteProjects(ctx)

	if repErr := e.reporter.Report(ctx, run.results); repErr != nil {
		e.logger.Errorf(ctx, repErr, "failed to write apply report")
	}
	return runErr
}

func (e *Engine) authenticate(ctx context.Context) (semaphore.Credentials, func(), error) {
	if e.auth.APIToken != "" {
		return semaphore.TokenCredentials(e.auth.APIToken), func() {}, nil
	}
	creds, err := e.client.Login(ctx, e.auth.Username, e.auth.Password)
	if err != nil {
		return semaphore.Credentials{}, nil, err
	}
	logout := func() {
		if err := e.client.Logout(context.WithoutCancel(ctx), creds); err != nil {
			e.logger.Warnf(ctx, "logout failed: %v", err)
		}
	}
	return creds, logout, nil
}

// deployRun carries the per-run state: credentials, the reference table and
// the results accumulated so far.
type deployRun struct {
	client     *semaphore.Client
	creds      semaphore.Credentials
	manifest   *domain.Manifest
	logger     ports.Logger
	refs       *refTable
	projectID  int
	updateMode bool
	results    []domain.ApplyResult
}

func (r *deployRun) execute(ctx context.Context) error {
	if err := r.selectProject(ctx); err != nil {
		return err
	}

	for _, category := range domain.ApplyOrder() {
		if err := r.applyCategory(ctx, category); err != nil {
			return err
		}
	}

	if r.manifest.Options.Prune {
		return r.prune(ctx)
	}
	return nil
}

func (r *deployRun) applyCategory(ctx context.Context, category domain.Category) error {
	switch category {
	case domain.CategoryKeys:
		return r.applyKeys(ctx)
	case domain.CategoryRepositories:
		return r.applyRepositories(ctx)
	case domain.CategoryViews:
		return r.applyViews(ctx)
	case domain.CategoryInventories:
		return r.applyInventories(ctx)
	case domain.CategoryEnvironments:
		return r.applyEnvironments(ctx)
	case domain.CategoryTemplates:
		return r.applyTemplates(ctx)
	case domain.CategorySchedules:
		return r.applySchedules(ctx)
	case domain.CategoryIntegrations:
		return r.applyIntegrations(ctx)
	case domain.CategoryUsersAccess:
		return r.applyUsersAccess(ctx)
	default:
		return apperrors.New(apperrors.CodeInternal, fmt.Sprintf("no applier for category %q", category))
	}
}

// selectProject finds or creates the target project. The delete flag removes
// every existing match and then creates a fresh project, so the rest of the
// run converges onto a clean slate.
func (r *deployRun) selectProject(ctx context.Context) error {
	opts := r.manifest.Options
	name := r.manifest.Project.Name

	projects, err := r.client.ListProjects(ctx, r.creds)
	if err != nil {
		return err
	}
	var matches []semaphore.Project
	for _, p := range projects {
		if p.Name == name {
			matches = append(matches, p)
		}
	}

	switch {
	case len(matches) == 0 || opts.ForceProjectCreation:
		return r.createFreshProject(ctx)

	case opts.ForceProjectDelete:
		if err := r.deleteProjects(ctx); err != nil {
			return err
		}
		return r.createFreshProject(ctx)

	case opts.ForceProjectUpdate:
		r.projectID = matches[0].ID
		r.updateMode = true
		return r.updateProject(ctx, matches[0])

	default:
		err := apperrors.NewUserFacing(apperrors.CodeConfigConflict,
			fmt.Sprintf("project %q already exists", name),
			"Set force_project_update to manage it, force_project_creation to create another, or force_project_delete to remove it.")
		r.record(domain.CategoryProject, name, domain.ActionFailed, matches[0].ID, "", err)
		return err
	}
}

func (r *deployRun) createFreshProject(ctx context.Context) error {
	name := r.manifest.Project.Name
	project, err := r.createProject(ctx)
	if err != nil {
		r.record(domain.CategoryProject, name, domain.ActionFailed, 0, "", err)
		return err
	}
	r.projectID = project.ID
	r.record(domain.CategoryProject, name, domain.ActionCreated, project.ID, "", nil)
	return nil
}

func (r *deployRun) createProject(ctx context.Context) (*semaphore.Project, error) {
	spec := r.manifest.Project
	return r.client.CreateProject(ctx, r.creds, semaphore.ProjectRequest{
		Name:             spec.Name,
		Alert:            spec.Alert,
		AlertChat:        spec.AlertChat,
		MaxParallelTasks: spec.MaxParallelTasks,
		Type:             spec.Type,
		Demo:             spec.Demo,
	})
}

func (r *deployRun) updateProject(ctx context.Context, remote semaphore.Project) error {
	spec := r.manifest.Project
	desired := semaphore.ProjectRequest{
		Name:             spec.Name,
		Alert:            spec.Alert,
		AlertChat:        spec.AlertChat,
		MaxParallelTasks: spec.MaxParallelTasks,
		Type:             spec.Type,
	}
	current := semaphore.ProjectRequest{
		Name:             remote.Name,
		Alert:            remote.Alert,
		AlertChat:        remote.AlertChat,
		MaxParallelTasks: remote.MaxParallelTasks,
		Type:             remote.Type,
	}
	if desired == current {
		r.record(domain.CategoryProject, spec.Name, domain.ActionSkipped, remote.ID, "up to date", nil)
		return nil
	}
	if err := r.client.UpdateProject(ctx, r.creds, remote.ID, desired); err != nil {
		r.record(domain.CategoryProject, spec.Name, domain.ActionFailed, remote.ID, "", err)
		return err
	}
	r.record(domain.CategoryProject, spec.Name, domain.ActionUpdated, remote.ID, "", nil)
	return nil
}

// deleteProjects removes every project whose name matches the manifest,
// after waiting out the configured timer.
func (r *deployRun) deleteProjects(ctx context.Context) error {
	name := r.manifest.Project.Name
	projects, err := r.client.ListProjects(ctx, r.creds)
	if err != nil {
		return err
	}
	var matches []semaphore.Project
	for _, p := range projects {
		if p.Name == name {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		r.record(domain.CategoryProject, name, domain.ActionSkipped, 0, "not found", nil)
		return nil
	}

	if err := waitTimer(ctx, r.manifest.Options.ForceProjectDeleteTimer); err != nil {
		return err
	}
	for _, p := range matches {
		if err := r.client.DeleteProject(ctx, r.creds, p.ID); err != nil {
			r.record(domain.CategoryProject, name, domain.ActionFailed, p.ID, "", err)
			return err
		}
		r.record(domain.CategoryProject, name, domain.ActionDeleted, p.ID, "", nil)
	}
	return nil
}

func waitTimer(ctx context.Context, seconds int) error {
	if seconds <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(seconds) * time.Second)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return apperrors.Wrap(ctx.Err(), apperrors.CodeInternal, "delete timer interrupted")
	}
}

func (r *deployRun) record(category domain.Category, name string, action domain.ApplyAction, id int, details string, err error) {
	r.results = append(r.results, domain.ApplyResult{
		Category: category,
		Name:     name,
		Action:   action,
		ID:       id,
		Details:  details,
		Error:    err,
	})
}

// logSensitive emits payload details at debug level. Suppressed entirely
// when the manifest sets no_log_sensitive, so secret material never reaches
// the logs.
func (r *deployRun) logSensitive(ctx context.Context, format string, args ...any) {
	if r.manifest.Options.NoLogSensitive {
		return
	}
	r.logger.Debugf(ctx, format, args...)
}

// sortedHandles returns map keys in a stable order so runs are
// deterministic.
func sortedHandles[T any](specs map[string]T) []string {
	handles := make([]string, 0, len(specs))
	for h := range specs {
		handles = append(handles, h)
	}
	sort.Strings(handles)
	return handles
}
