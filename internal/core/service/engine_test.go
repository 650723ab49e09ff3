package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebdruplab/semactl/internal/core/domain"
	"github.com/ebdruplab/semactl/internal/core/service"
	apperrors "github.com/ebdruplab/semactl/internal/errors"
	"github.com/ebdruplab/semactl/internal/log"
	"github.com/ebdruplab/semactl/internal/semaphore"
	"github.com/ebdruplab/semactl/internal/semaphore/semaphoretest"
)

// recordingReporter captures the results the engine hands to it.
type recordingReporter struct {
	results []domain.ApplyResult
}

func (r *recordingReporter) Report(_ context.Context, results []domain.ApplyResult) error {
	r.results = results
	return nil
}

func (r *recordingReporter) actions(category domain.Category) []domain.ApplyAction {
	var out []domain.ApplyAction
	for _, res := range r.results {
		if res.Category == category {
			out = append(out, res.Action)
		}
	}
	return out
}

func (r *recordingReporter) find(category domain.Category, name string) (domain.ApplyResult, bool) {
	for _, res := range r.results {
		if res.Category == category && res.Name == name {
			return res, true
		}
	}
	return domain.ApplyResult{}, false
}

func testManifest() *domain.Manifest {
	return &domain.Manifest{
		Project: domain.ProjectSpec{Name: "web"},
		Keys: map[string]domain.KeySpec{
			"deploy": {
				Name: "deploy-key",
				Type: "ssh",
				SSH:  &domain.SSHKeySpec{PrivateKey: "-----BEGIN KEY-----"},
			},
		},
		Repositories: map[string]domain.RepositorySpec{
			"app": {
				Name:      "app-repo",
				GitURL:    "git@example.com:org/app.git",
				GitBranch: "main",
				KeyName:   "deploy-key",
			},
		},
		Inventories: map[string]domain.InventorySpec{
			"prod": {
				Name:      "prod",
				Type:      "static",
				Inventory: "[web]\nhost1",
				KeyName:   "deploy-key",
			},
		},
		Environments: map[string]domain.EnvironmentSpec{
			"prod": {
				Name: "prod-env",
				Env:  map[string]string{"STAGE": "prod"},
			},
		},
		Templates: map[string]domain.TemplateSpec{
			"deploy": {
				Name:            "deploy-web",
				Playbook:        "site.yml",
				InventoryName:   "prod",
				RepositoryName:  "app-repo",
				EnvironmentName: "prod-env",
			},
		},
		Schedules: map[string]domain.ScheduleSpec{
			"nightly": {
				Name:         "nightly",
				CronFormat:   "0 2 * * *",
				TemplateName: "deploy-web",
			},
		},
	}
}

func newTestEngine(t *testing.T, srv *semaphoretest.Server, m *domain.Manifest, auth service.AuthConfig) (*service.Engine, *recordingReporter) {
	t.Helper()
	logger, err := log.NewLogger(log.Config{Level: log.LevelError, Format: log.FormatText})
	require.NoError(t, err)

	client, err := semaphore.NewClient(srv.Config(), logger)
	require.NoError(t, err)

	reporter := &recordingReporter{}
	engine, err := service.NewEngine(client, m, reporter, logger, auth)
	require.NoError(t, err)
	return engine, reporter
}

func tokenAuth() service.AuthConfig {
	return service.AuthConfig{APIToken: semaphoretest.DefaultToken}
}

func verifyClient(t *testing.T, srv *semaphoretest.Server) (*semaphore.Client, semaphore.Credentials) {
	t.Helper()
	logger, err := log.NewLogger(log.Config{Level: log.LevelError, Format: log.FormatText})
	require.NoError(t, err)
	client, err := semaphore.NewClient(srv.Config(), logger)
	require.NoError(t, err)
	return client, srv.Token()
}

func TestRunCreatesEverythingInOrder(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	engine, reporter := newTestEngine(t, srv, testManifest(), tokenAuth())
	require.NoError(t, engine.Run(context.Background()))

	var order []domain.Category
	for _, res := range reporter.results {
		require.NoError(t, res.Error)
		assert.Equal(t, domain.ActionCreated, res.Action)
		order = append(order, res.Category)
	}
	assert.Equal(t, []domain.Category{
		domain.CategoryProject,
		domain.CategoryKeys,
		domain.CategoryRepositories,
		domain.CategoryInventories,
		domain.CategoryEnvironments,
		domain.CategoryTemplates,
		domain.CategorySchedules,
	}, order)

	// The created template must point at the real remote IDs.
	client, creds := verifyClient(t, srv)
	project, _ := reporter.find(domain.CategoryProject, "web")
	templates, err := client.ListTemplates(context.Background(), creds, project.ID, semaphore.ListOptions{})
	require.NoError(t, err)
	require.Len(t, templates, 1)

	keyRes, _ := reporter.find(domain.CategoryKeys, "deploy-key")
	repoRes, _ := reporter.find(domain.CategoryRepositories, "app-repo")
	invRes, _ := reporter.find(domain.CategoryInventories, "prod")
	assert.Equal(t, invRes.ID, templates[0].InventoryID)
	assert.Equal(t, repoRes.ID, templates[0].RepositoryID)

	repos, err := client.ListRepositories(context.Background(), creds, project.ID, semaphore.ListOptions{})
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, keyRes.ID, repos[0].SSHKeyID)
}

func TestSecondRunSkipsEverything(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	m := testManifest()
	engine, _ := newTestEngine(t, srv, m, tokenAuth())
	require.NoError(t, engine.Run(context.Background()))

	m2 := testManifest()
	m2.Options.ForceProjectUpdate = true
	engine2, reporter := newTestEngine(t, srv, m2, tokenAuth())
	require.NoError(t, engine2.Run(context.Background()))

	require.NotEmpty(t, reporter.results)
	for _, res := range reporter.results {
		assert.Equal(t, domain.ActionSkipped, res.Action, "category %s name %s", res.Category, res.Name)
	}
}

func TestExistingProjectWithoutFlagsConflicts(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	engine, _ := newTestEngine(t, srv, testManifest(), tokenAuth())
	require.NoError(t, engine.Run(context.Background()))

	engine2, reporter := newTestEngine(t, srv, testManifest(), tokenAuth())
	err := engine2.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigConflict, apperrors.GetCode(err))

	// Nothing was mutated: only the failed project result is reported.
	require.Len(t, reporter.results, 1)
	assert.Equal(t, domain.ActionFailed, reporter.results[0].Action)
}

func TestUnresolvedReferenceAbortsBeforeCreate(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	m := testManifest()
	m.Templates["deploy"] = domain.TemplateSpec{
		Name:           "deploy-web",
		Playbook:       "site.yml",
		InventoryName:  "missing-inventory",
		RepositoryName: "app-repo",
	}

	engine, reporter := newTestEngine(t, srv, m, tokenAuth())
	err := engine.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeReferenceError, apperrors.GetCode(err))

	// The failing template was never sent to the server.
	client, creds := verifyClient(t, srv)
	project, ok := reporter.find(domain.CategoryProject, "web")
	require.True(t, ok)
	templates, listErr := client.ListTemplates(context.Background(), creds, project.ID, semaphore.ListOptions{})
	require.NoError(t, listErr)
	assert.Empty(t, templates)

	// Earlier categories were still applied and reported.
	assert.Equal(t, []domain.ApplyAction{domain.ActionCreated}, reporter.actions(domain.CategoryRepositories))
	res, ok := reporter.find(domain.CategoryTemplates, "deploy-web")
	require.True(t, ok)
	assert.Equal(t, domain.ActionFailed, res.Action)
}

func TestUpdateModeFlipsScheduleActive(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	engine, _ := newTestEngine(t, srv, testManifest(), tokenAuth())
	require.NoError(t, engine.Run(context.Background()))

	inactive := false
	m2 := testManifest()
	m2.Options.ForceProjectUpdate = true
	m2.Schedules["nightly"] = domain.ScheduleSpec{
		Name:         "nightly",
		CronFormat:   "0 2 * * *",
		TemplateName: "deploy-web",
		Active:       &inactive,
	}

	engine2, reporter := newTestEngine(t, srv, m2, tokenAuth())
	require.NoError(t, engine2.Run(context.Background()))

	res, ok := reporter.find(domain.CategorySchedules, "nightly")
	require.True(t, ok)
	assert.Equal(t, domain.ActionUpdated, res.Action)

	client, creds := verifyClient(t, srv)
	project, _ := reporter.find(domain.CategoryProject, "web")
	schedules, err := client.ListSchedules(context.Background(), creds, project.ID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.False(t, schedules[0].Active)
}

func TestTemplateSurveysAndVaultsConverge(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	m := testManifest()
	tpl := m.Templates["deploy"]
	tpl.SurveyVars = []domain.SurveyVarSpec{
		{Name: "api_key", Title: "API key", Type: "secret", Required: true, DefaultValue: "hunter2"},
	}
	tpl.Vaults = []domain.TemplateVaultSpec{{Type: "password", KeyName: "deploy-key"}}
	m.Templates["deploy"] = tpl

	engine, reporter := newTestEngine(t, srv, m, tokenAuth())
	require.NoError(t, engine.Run(context.Background()))

	client, creds := verifyClient(t, srv)
	project, _ := reporter.find(domain.CategoryProject, "web")
	keyRes, _ := reporter.find(domain.CategoryKeys, "deploy-key")
	templates, err := client.ListTemplates(context.Background(), creds, project.ID, semaphore.ListOptions{})
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Len(t, templates[0].Vaults, 1)
	assert.Equal(t, keyRes.ID, templates[0].Vaults[0].VaultKeyID)
	require.Len(t, templates[0].SurveyVars, 1)
	assert.Empty(t, templates[0].SurveyVars[0].DefaultValue)

	// A second run in update mode sees no drift even though the manifest
	// still carries the secret default.
	m2 := testManifest()
	m2.Templates["deploy"] = tpl
	m2.Options.ForceProjectUpdate = true
	engine2, reporter2 := newTestEngine(t, srv, m2, tokenAuth())
	require.NoError(t, engine2.Run(context.Background()))
	res, ok := reporter2.find(domain.CategoryTemplates, "deploy-web")
	require.True(t, ok)
	assert.Equal(t, domain.ActionSkipped, res.Action)
}

func TestForceProjectDeleteRecreatesFresh(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	engine, reporter1 := newTestEngine(t, srv, testManifest(), tokenAuth())
	require.NoError(t, engine.Run(context.Background()))
	old, ok := reporter1.find(domain.CategoryProject, "web")
	require.True(t, ok)

	m2 := testManifest()
	m2.Options.ForceProjectDelete = true
	engine2, reporter := newTestEngine(t, srv, m2, tokenAuth())
	require.NoError(t, engine2.Run(context.Background()))

	// The matching project is deleted and a fresh one is created in the same
	// run, so the server ends up converged, not empty.
	assert.Equal(t, []domain.ApplyAction{domain.ActionDeleted, domain.ActionCreated},
		reporter.actions(domain.CategoryProject))

	client, creds := verifyClient(t, srv)
	projects, err := client.ListProjects(context.Background(), creds)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.NotEqual(t, old.ID, projects[0].ID)

	keys, err := client.ListKeys(context.Background(), creds, projects[0].ID, semaphore.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, keys, 1)
	templates, err := client.ListTemplates(context.Background(), creds, projects[0].ID, semaphore.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, templates, 1)
}

func TestPruneDeletesUnmanagedResources(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	engine, reporter := newTestEngine(t, srv, testManifest(), tokenAuth())
	require.NoError(t, engine.Run(context.Background()))
	project, _ := reporter.find(domain.CategoryProject, "web")

	// Add an out-of-manifest template and schedule directly.
	client, creds := verifyClient(t, srv)
	ctx := context.Background()
	invRes, _ := reporter.find(domain.CategoryInventories, "prod")
	repoRes, _ := reporter.find(domain.CategoryRepositories, "app-repo")
	stray, err := client.CreateTemplate(ctx, creds, project.ID, semaphore.TemplateRequest{
		Name: "stray", Playbook: "stray.yml", InventoryID: invRes.ID, RepositoryID: repoRes.ID,
	})
	require.NoError(t, err)
	_, err = client.CreateSchedule(ctx, creds, project.ID, semaphore.ScheduleRequest{
		Name: "stray-schedule", CronFormat: "* * * * *", TemplateID: stray.ID, Active: true,
	})
	require.NoError(t, err)

	m2 := testManifest()
	m2.Options.ForceProjectUpdate = true
	m2.Options.Prune = true
	engine2, reporter2 := newTestEngine(t, srv, m2, tokenAuth())
	require.NoError(t, engine2.Run(ctx))

	res, ok := reporter2.find(domain.CategoryTemplates, "stray")
	require.True(t, ok)
	assert.Equal(t, domain.ActionDeleted, res.Action)
	res, ok = reporter2.find(domain.CategorySchedules, "stray-schedule")
	require.True(t, ok)
	assert.Equal(t, domain.ActionDeleted, res.Action)

	templates, err := client.ListTemplates(ctx, creds, project.ID, semaphore.ListOptions{})
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "deploy-web", templates[0].Name)
}

func TestRunWithSessionLogin(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	auth := service.AuthConfig{
		Username: semaphoretest.DefaultUsername,
		Password: semaphoretest.DefaultPassword,
	}
	engine, reporter := newTestEngine(t, srv, testManifest(), auth)
	require.NoError(t, engine.Run(context.Background()))

	_, ok := reporter.find(domain.CategoryProject, "web")
	assert.True(t, ok)
}

func TestRunWithBadPasswordFailsAuth(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	auth := service.AuthConfig{Username: semaphoretest.DefaultUsername, Password: "wrong"}
	engine, _ := newTestEngine(t, srv, testManifest(), auth)

	err := engine.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuthError, apperrors.GetCode(err))
}

func TestUsersAccessGrantsRole(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	client, creds := verifyClient(t, srv)
	user, err := client.CreateUser(context.Background(), creds, semaphore.UserRequest{
		Name: "Jo Doe", Username: "jdoe", Email: "jdoe@example.com", Password: "x",
	})
	require.NoError(t, err)

	m := testManifest()
	m.UsersAccess = []domain.UserAccessSpec{{Username: "jdoe", Role: semaphore.RoleManager}}

	engine, reporter := newTestEngine(t, srv, m, tokenAuth())
	require.NoError(t, engine.Run(context.Background()))

	res, ok := reporter.find(domain.CategoryUsersAccess, "jdoe")
	require.True(t, ok)
	assert.Equal(t, domain.ActionCreated, res.Action)
	assert.Equal(t, user.ID, res.ID)
}

func TestUsersAccessUnknownUserFails(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	m := testManifest()
	m.UsersAccess = []domain.UserAccessSpec{{Username: "ghost", Role: semaphore.RoleGuest}}

	engine, _ := newTestEngine(t, srv, m, tokenAuth())
	err := engine.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeReferenceError, apperrors.GetCode(err))
}

func TestDestroyDeletesProject(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	engine, _ := newTestEngine(t, srv, testManifest(), tokenAuth())
	require.NoError(t, engine.Run(context.Background()))

	engine2, reporter := newTestEngine(t, srv, testManifest(), tokenAuth())
	require.NoError(t, engine2.Destroy(context.Background()))

	res, ok := reporter.find(domain.CategoryProject, "web")
	require.True(t, ok)
	assert.Equal(t, domain.ActionDeleted, res.Action)
}

func TestDestroyMissingProjectSkips(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	engine, reporter := newTestEngine(t, srv, testManifest(), tokenAuth())
	require.NoError(t, engine.Destroy(context.Background()))

	res, ok := reporter.find(domain.CategoryProject, "web")
	require.True(t, ok)
	assert.Equal(t, domain.ActionSkipped, res.Action)
}

func TestNewEngineRequiresCredentials(t *testing.T) {
	srv := semaphoretest.New()
	t.Cleanup(srv.Close)

	logger, err := log.NewLogger(log.Config{Level: log.LevelError, Format: log.FormatText})
	require.NoError(t, err)
	client, err := semaphore.NewClient(srv.Config(), logger)
	require.NoError(t, err)

	_, err = service.NewEngine(client, testManifest(), &recordingReporter{}, logger, service.AuthConfig{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigValidation, apperrors.GetCode(err))
}
