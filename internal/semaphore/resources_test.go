package semaphore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ebdruplab/semactl/internal/errors"
	"github.com/ebdruplab/semactl/internal/semaphore"
)

func newTestProject(t *testing.T) (*semaphore.Client, semaphore.Credentials, int) {
	t.Helper()
	client, srv := newTestClient(t)
	creds := srv.Token()

	project, err := client.CreateProject(context.Background(), creds, semaphore.ProjectRequest{Name: "fixture"})
	require.NoError(t, err)
	return client, creds, project.ID
}

func TestKeyLifecycle(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	created, err := client.CreateKey(ctx, creds, projectID, semaphore.AccessKeyRequest{
		Name: "deploy",
		Type: semaphore.KeyTypeSSH,
		SSH:  &semaphore.AccessKeySSH{PrivateKey: "-----BEGIN KEY-----"},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	keys, err := client.ListKeys(ctx, creds, projectID, semaphore.ListOptions{})
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "deploy", keys[0].Name)

	err = client.UpdateKey(ctx, creds, projectID, created.ID, semaphore.AccessKeyRequest{
		Name:           "deploy",
		Type:           semaphore.KeyTypeSSH,
		OverrideSecret: true,
		SSH:            &semaphore.AccessKeySSH{PrivateKey: "-----BEGIN NEW-----"},
	})
	require.NoError(t, err)

	require.NoError(t, client.DeleteKey(ctx, creds, projectID, created.ID))

	_, err = client.GetKey(ctx, creds, projectID, created.ID)
	assert.True(t, semaphore.IsNotFound(err))
}

func TestCreateKeyRequiresSecretBlock(t *testing.T) {
	client, creds, projectID := newTestProject(t)

	_, err := client.CreateKey(context.Background(), creds, projectID, semaphore.AccessKeyRequest{
		Name: "broken",
		Type: semaphore.KeyTypeSSH,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAPIError, apperrors.GetCode(err))
}

func TestListKeysSortPassthrough(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := client.CreateKey(ctx, creds, projectID, semaphore.AccessKeyRequest{
			Name: name,
			Type: semaphore.KeyTypeNone,
		})
		require.NoError(t, err)
	}

	keys, err := client.ListKeys(ctx, creds, projectID, semaphore.ListOptions{Sort: "name", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, "alpha", keys[0].Name)
	assert.Equal(t, "zeta", keys[2].Name)
}

func TestRepositoryLifecycle(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	key, err := client.CreateKey(ctx, creds, projectID, semaphore.AccessKeyRequest{Name: "k", Type: semaphore.KeyTypeNone})
	require.NoError(t, err)

	created, err := client.CreateRepository(ctx, creds, projectID, semaphore.RepositoryRequest{
		Name:      "app",
		GitURL:    "git@example.com:org/app.git",
		GitBranch: "main",
		SSHKeyID:  key.ID,
	})
	require.NoError(t, err)

	err = client.UpdateRepository(ctx, creds, projectID, created.ID, semaphore.RepositoryRequest{
		Name:      "app",
		GitURL:    "git@example.com:org/app.git",
		GitBranch: "release",
		SSHKeyID:  key.ID,
	})
	require.NoError(t, err)

	repos, err := client.ListRepositories(ctx, creds, projectID, semaphore.ListOptions{})
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "release", repos[0].GitBranch)

	require.NoError(t, client.DeleteRepository(ctx, creds, projectID, created.ID))
}

func TestViewLifecycle(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	created, err := client.CreateView(ctx, creds, projectID, semaphore.ViewRequest{Title: "Main", Position: 1})
	require.NoError(t, err)

	err = client.UpdateView(ctx, creds, projectID, created.ID, semaphore.ViewRequest{Title: "Main", Position: 2})
	require.NoError(t, err)

	got, err := client.GetView(ctx, creds, projectID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Position)

	require.NoError(t, client.DeleteView(ctx, creds, projectID, created.ID))
}

func TestInventoryLifecycle(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	created, err := client.CreateInventory(ctx, creds, projectID, semaphore.InventoryRequest{
		Name:      "prod",
		Type:      semaphore.InventoryTypeStatic,
		Inventory: "[web]\nhost1",
	})
	require.NoError(t, err)
	assert.Equal(t, "text", created.InventoryMode)

	err = client.UpdateInventory(ctx, creds, projectID, created.ID, semaphore.InventoryRequest{
		Name:      "prod",
		Type:      semaphore.InventoryTypeStaticYAML,
		Inventory: "web:\n  hosts:\n    host1:",
	})
	require.NoError(t, err)

	got, err := client.GetInventory(ctx, creds, projectID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "yaml", got.InventoryMode)

	require.NoError(t, client.DeleteInventory(ctx, creds, projectID, created.ID))
}

func TestCreateInventoryValidation(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  semaphore.InventoryRequest
	}{
		{"file without repository", semaphore.InventoryRequest{Name: "i", Type: semaphore.InventoryTypeFile, Inventory: "hosts.ini"}},
		{"unknown type", semaphore.InventoryRequest{Name: "i", Type: "dynamic", Inventory: "x"}},
		{"missing content", semaphore.InventoryRequest{Name: "i", Type: semaphore.InventoryTypeStatic}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateInventory(ctx, creds, projectID, tt.req)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeConfigValidation, apperrors.GetCode(err))
		})
	}
}

func TestEnvironmentLifecycle(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	envStr, err := semaphore.EncodeEnvironmentVars(map[string]string{"STAGE": "prod"})
	require.NoError(t, err)
	jsonStr, err := semaphore.EncodeEnvironmentJSON(map[string]any{"replicas": 3})
	require.NoError(t, err)

	created, err := client.CreateEnvironment(ctx, creds, projectID, semaphore.EnvironmentRequest{
		Name: "prod-env",
		Env:  envStr,
		JSON: jsonStr,
	})
	require.NoError(t, err)
	assert.Contains(t, created.Env, "STAGE")

	require.NoError(t, client.DeleteEnvironment(ctx, creds, projectID, created.ID))
}

func TestEncodeEnvironmentEmptyMaps(t *testing.T) {
	envStr, err := semaphore.EncodeEnvironmentVars(nil)
	require.NoError(t, err)
	assert.Empty(t, envStr)

	jsonStr, err := semaphore.EncodeEnvironmentJSON(nil)
	require.NoError(t, err)
	assert.Empty(t, jsonStr)
}

func TestTemplateLifecycle(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	inv, err := client.CreateInventory(ctx, creds, projectID, semaphore.InventoryRequest{
		Name: "prod", Type: semaphore.InventoryTypeStatic, Inventory: "[web]\nhost1",
	})
	require.NoError(t, err)
	key, err := client.CreateKey(ctx, creds, projectID, semaphore.AccessKeyRequest{Name: "k", Type: semaphore.KeyTypeNone})
	require.NoError(t, err)
	repo, err := client.CreateRepository(ctx, creds, projectID, semaphore.RepositoryRequest{
		Name: "app", GitURL: "git@example.com:org/app.git", GitBranch: "main", SSHKeyID: key.ID,
	})
	require.NoError(t, err)

	created, err := client.CreateTemplate(ctx, creds, projectID, semaphore.TemplateRequest{
		Name:         "deploy-web",
		Playbook:     "site.yml",
		InventoryID:  inv.ID,
		RepositoryID: repo.ID,
		Type:         "job",
	})
	require.NoError(t, err)
	// The app defaults to ansible and type "job" is normalized to the empty
	// job type before the request is sent.
	assert.Equal(t, "ansible", created.App)
	assert.Equal(t, semaphore.TemplateTypeJob, created.Type)

	err = client.UpdateTemplate(ctx, creds, projectID, created.ID, semaphore.TemplateRequest{
		Name:         "deploy-web",
		Playbook:     "deploy.yml",
		InventoryID:  inv.ID,
		RepositoryID: repo.ID,
	})
	require.NoError(t, err)

	got, err := client.GetTemplate(ctx, creds, projectID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "deploy.yml", got.Playbook)

	require.NoError(t, client.DeleteTemplate(ctx, creds, projectID, created.ID))
}

func TestCreateTemplateValidation(t *testing.T) {
	client, creds, projectID := newTestProject(t)

	_, err := client.CreateTemplate(context.Background(), creds, projectID, semaphore.TemplateRequest{
		Name: "broken", Playbook: "site.yml", Type: "cron",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigValidation, apperrors.GetCode(err))
}

func TestTemplateBuildReferenceOnlyOnBuildTemplates(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	inv, err := client.CreateInventory(ctx, creds, projectID, semaphore.InventoryRequest{
		Name: "prod", Type: semaphore.InventoryTypeStatic, Inventory: "[web]\nhost1",
	})
	require.NoError(t, err)
	key, err := client.CreateKey(ctx, creds, projectID, semaphore.AccessKeyRequest{Name: "k", Type: semaphore.KeyTypeNone})
	require.NoError(t, err)
	repo, err := client.CreateRepository(ctx, creds, projectID, semaphore.RepositoryRequest{
		Name: "app", GitURL: "u", GitBranch: "main", SSHKeyID: key.ID,
	})
	require.NoError(t, err)
	build, err := client.CreateTemplate(ctx, creds, projectID, semaphore.TemplateRequest{
		Name: "build-artifact", Playbook: "build.yml", InventoryID: inv.ID, RepositoryID: repo.ID,
		Type: semaphore.TemplateTypeBuild, StartVersion: "1.0.0",
	})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", build.StartVersion)

	// A deploy template never sends build_template_id or start_version; the
	// server derives the chain itself.
	deploy, err := client.CreateTemplate(ctx, creds, projectID, semaphore.TemplateRequest{
		Name: "deploy-artifact", Playbook: "deploy.yml", InventoryID: inv.ID, RepositoryID: repo.ID,
		Type: semaphore.TemplateTypeDeploy, BuildTemplateID: &build.ID, StartVersion: "1.0.0",
	})
	require.NoError(t, err)
	assert.Nil(t, deploy.BuildTemplateID)
	assert.Empty(t, deploy.StartVersion)
}

func TestTemplateSurveyVarsAndVaults(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	inv, err := client.CreateInventory(ctx, creds, projectID, semaphore.InventoryRequest{
		Name: "prod", Type: semaphore.InventoryTypeStatic, Inventory: "[web]\nhost1",
	})
	require.NoError(t, err)
	key, err := client.CreateKey(ctx, creds, projectID, semaphore.AccessKeyRequest{Name: "vault-key", Type: semaphore.KeyTypeNone})
	require.NoError(t, err)
	repo, err := client.CreateRepository(ctx, creds, projectID, semaphore.RepositoryRequest{
		Name: "app", GitURL: "u", GitBranch: "main", SSHKeyID: key.ID,
	})
	require.NoError(t, err)

	created, err := client.CreateTemplate(ctx, creds, projectID, semaphore.TemplateRequest{
		Name: "survey", Playbook: "site.yml", InventoryID: inv.ID, RepositoryID: repo.ID,
		SurveyVars: []semaphore.TemplateSurveyVar{
			{Name: "api_key", Title: "API key", Type: "secret", Required: true, DefaultValue: "hunter2"},
			{Name: "replicas", Title: "Replicas", Type: "integer", DefaultValue: "3"},
			{Name: "stage", Title: "Stage", Type: "enum", Values: []semaphore.TemplateSurveyEnumItem{
				{Name: "Production", Value: "prod"},
			}},
		},
		Vaults: []semaphore.TemplateVault{
			{Type: semaphore.VaultTypePassword, VaultKeyID: key.ID},
			{Type: semaphore.VaultTypeScript, Name: "client", Script: "vault-client.py"},
		},
	})
	require.NoError(t, err)

	// Secret defaults are dropped and integer aliases to int before send.
	require.Len(t, created.SurveyVars, 3)
	assert.Empty(t, created.SurveyVars[0].DefaultValue)
	assert.Equal(t, "int", created.SurveyVars[1].Type)
	assert.Equal(t, "3", created.SurveyVars[1].DefaultValue)
	require.Len(t, created.Vaults, 2)
	assert.Equal(t, key.ID, created.Vaults[0].VaultKeyID)

	_, err = client.CreateTemplate(ctx, creds, projectID, semaphore.TemplateRequest{
		Name: "bad-enum", Playbook: "site.yml", InventoryID: inv.ID, RepositoryID: repo.ID,
		SurveyVars: []semaphore.TemplateSurveyVar{{Name: "stage", Title: "Stage", Type: "enum"}},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigValidation, apperrors.GetCode(err))

	_, err = client.CreateTemplate(ctx, creds, projectID, semaphore.TemplateRequest{
		Name: "bad-vault", Playbook: "site.yml", InventoryID: inv.ID, RepositoryID: repo.ID,
		Vaults: []semaphore.TemplateVault{{Type: semaphore.VaultTypeKey}},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigValidation, apperrors.GetCode(err))
}

func TestScheduleLifecycle(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	inv, err := client.CreateInventory(ctx, creds, projectID, semaphore.InventoryRequest{
		Name: "prod", Type: semaphore.InventoryTypeStatic, Inventory: "[web]\nhost1",
	})
	require.NoError(t, err)
	key, err := client.CreateKey(ctx, creds, projectID, semaphore.AccessKeyRequest{Name: "k", Type: semaphore.KeyTypeNone})
	require.NoError(t, err)
	repo, err := client.CreateRepository(ctx, creds, projectID, semaphore.RepositoryRequest{
		Name: "app", GitURL: "u", GitBranch: "main", SSHKeyID: key.ID,
	})
	require.NoError(t, err)
	tpl, err := client.CreateTemplate(ctx, creds, projectID, semaphore.TemplateRequest{
		Name: "t", Playbook: "site.yml", InventoryID: inv.ID, RepositoryID: repo.ID,
	})
	require.NoError(t, err)

	created, err := client.CreateSchedule(ctx, creds, projectID, semaphore.ScheduleRequest{
		Name: "nightly", CronFormat: "0 2 * * *", TemplateID: tpl.ID, Active: true,
	})
	require.NoError(t, err)
	assert.True(t, created.Active)

	err = client.UpdateSchedule(ctx, creds, projectID, created.ID, semaphore.ScheduleRequest{
		Name: "nightly", CronFormat: "0 2 * * *", TemplateID: tpl.ID, Active: false,
	})
	require.NoError(t, err)

	got, err := client.GetSchedule(ctx, creds, projectID, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.NoError(t, client.DeleteSchedule(ctx, creds, projectID, created.ID))
}

func TestUserAndProjectAccess(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	user, err := client.CreateUser(ctx, creds, semaphore.UserRequest{
		Name: "Jo Doe", Username: "jdoe", Email: "jdoe@example.com", Password: "s3cret",
	})
	require.NoError(t, err)

	err = client.AddProjectUser(ctx, creds, projectID, semaphore.ProjectUserRequest{
		UserID: user.ID, Role: semaphore.RoleManager,
	})
	require.NoError(t, err)

	members, err := client.ListProjectUsers(ctx, creds, projectID, semaphore.ListOptions{})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, semaphore.RoleManager, members[0].Role)

	require.NoError(t, client.UpdateProjectUser(ctx, creds, projectID, user.ID, semaphore.RoleGuest))

	members, err = client.ListProjectUsers(ctx, creds, projectID, semaphore.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, semaphore.RoleGuest, members[0].Role)

	require.NoError(t, client.RemoveProjectUser(ctx, creds, projectID, user.ID))
	require.NoError(t, client.SetUserPassword(ctx, creds, user.ID, "n3w-s3cret"))
	require.NoError(t, client.DeleteUser(ctx, creds, user.ID))
}

func TestTokenLifecycle(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()
	creds := srv.Token()

	token, err := client.CreateToken(ctx, creds)
	require.NoError(t, err)
	assert.NotEmpty(t, token.ID)

	tokens, err := client.ListTokens(ctx, creds)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(tokens), 2)

	require.NoError(t, client.ExpireToken(ctx, creds, token.ID))

	// An expired token no longer authenticates.
	_, err = client.ListProjects(ctx, semaphore.TokenCredentials(token.ID))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuthError, apperrors.GetCode(err))
}

func TestTaskLifecycle(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	inv, err := client.CreateInventory(ctx, creds, projectID, semaphore.InventoryRequest{
		Name: "prod", Type: semaphore.InventoryTypeStatic, Inventory: "[web]\nhost1",
	})
	require.NoError(t, err)
	key, err := client.CreateKey(ctx, creds, projectID, semaphore.AccessKeyRequest{Name: "k", Type: semaphore.KeyTypeNone})
	require.NoError(t, err)
	repo, err := client.CreateRepository(ctx, creds, projectID, semaphore.RepositoryRequest{
		Name: "app", GitURL: "u", GitBranch: "main", SSHKeyID: key.ID,
	})
	require.NoError(t, err)
	tpl, err := client.CreateTemplate(ctx, creds, projectID, semaphore.TemplateRequest{
		Name: "t", Playbook: "site.yml", InventoryID: inv.ID, RepositoryID: repo.ID,
	})
	require.NoError(t, err)

	task, err := client.StartTask(ctx, creds, projectID, semaphore.TaskRequest{TemplateID: tpl.ID, Message: "manual run"})
	require.NoError(t, err)
	assert.NotZero(t, task.ID)

	require.NoError(t, client.CancelTask(ctx, creds, projectID, task.ID))

	got, err := client.GetTask(ctx, creds, projectID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "stopped", got.Status)

	output, err := client.TaskOutput(ctx, creds, projectID, task.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, output)

	require.NoError(t, client.DeleteTask(ctx, creds, projectID, task.ID))
}

func TestIntegrationLifecycle(t *testing.T) {
	client, creds, projectID := newTestProject(t)
	ctx := context.Background()

	inv, err := client.CreateInventory(ctx, creds, projectID, semaphore.InventoryRequest{
		Name: "prod", Type: semaphore.InventoryTypeStatic, Inventory: "[web]\nhost1",
	})
	require.NoError(t, err)
	key, err := client.CreateKey(ctx, creds, projectID, semaphore.AccessKeyRequest{Name: "k", Type: semaphore.KeyTypeNone})
	require.NoError(t, err)
	repo, err := client.CreateRepository(ctx, creds, projectID, semaphore.RepositoryRequest{
		Name: "app", GitURL: "u", GitBranch: "main", SSHKeyID: key.ID,
	})
	require.NoError(t, err)
	tpl, err := client.CreateTemplate(ctx, creds, projectID, semaphore.TemplateRequest{
		Name: "t", Playbook: "site.yml", InventoryID: inv.ID, RepositoryID: repo.ID,
	})
	require.NoError(t, err)

	created, err := client.CreateIntegration(ctx, creds, projectID, semaphore.IntegrationRequest{
		Name: "gh-hook", TemplateID: tpl.ID, AuthMethod: semaphore.IntegrationAuthGitHub,
	})
	require.NoError(t, err)

	err = client.UpdateIntegration(ctx, creds, projectID, created.ID, semaphore.IntegrationRequest{
		Name: "gh-hook", TemplateID: tpl.ID, AuthMethod: semaphore.IntegrationAuthNone,
	})
	require.NoError(t, err)

	integrations, err := client.ListIntegrations(ctx, creds, projectID)
	require.NoError(t, err)
	require.Len(t, integrations, 1)
	assert.Equal(t, semaphore.IntegrationAuthNone, integrations[0].AuthMethod)

	require.NoError(t, client.DeleteIntegration(ctx, creds, projectID, created.ID))
}
