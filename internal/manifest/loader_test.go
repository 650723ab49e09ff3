package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ebdruplab/semactl/internal/errors"
	"github.com/ebdruplab/semactl/internal/manifest"
)

const validManifest = `
project:
  name: web
keys:
  deploy:
    name: deploy-key
    type: ssh
    ssh:
      private_key: "-----BEGIN KEY-----"
repositories:
  app:
    name: app-repo
    git_url: git@example.com:org/app.git
    git_branch: main
    key_name: deploy-key
inventories:
  prod:
    name: prod
    type: static
    inventory: "[web]\nhost1"
templates:
  deploy:
    name: deploy-web
    playbook: site.yml
    inventory_name: prod
    repository_name: app-repo
schedules:
  nightly:
    name: nightly
    cron_format: "0 2 * * *"
    template_name: deploy-web
    active: false
`

func TestParseValidManifest(t *testing.T) {
	m, err := manifest.Parse([]byte(validManifest))
	require.NoError(t, err)

	assert.Equal(t, "web", m.Project.Name)
	assert.Len(t, m.Keys, 1)
	assert.Equal(t, "deploy-key", m.Repositories["app"].KeyName)
	require.Contains(t, m.Schedules, "nightly")
	assert.False(t, m.Schedules["nightly"].ScheduleActive())
}

func TestScheduleActiveDefaultsTrue(t *testing.T) {
	m, err := manifest.Parse([]byte(`
project:
  name: web
schedules:
  s:
    name: s
    cron_format: "* * * * *"
    template_name: t
`))
	require.NoError(t, err)
	assert.True(t, m.Schedules["s"].ScheduleActive())
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := manifest.Parse([]byte(`
project:
  name: web
  colour: blue
`))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeManifestParseError, apperrors.GetCode(err))
}

func TestParseRejectsMissingProjectName(t *testing.T) {
	_, err := manifest.Parse([]byte(`
project:
  alert: true
`))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeManifestValidation, apperrors.GetCode(err))
}

func TestParseRejectsDuplicateNames(t *testing.T) {
	_, err := manifest.Parse([]byte(`
project:
  name: web
views:
  a:
    title: Main
  b:
    title: Main
`))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeManifestValidation, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParseRejectsConflictingForceFlags(t *testing.T) {
	_, err := manifest.Parse([]byte(`
project:
  name: web
options:
  force_project_update: true
  force_project_delete: true
`))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigConflict, apperrors.GetCode(err))
}

func TestParseRejectsTimerWithoutDelete(t *testing.T) {
	_, err := manifest.Parse([]byte(`
project:
  name: web
options:
  force_project_delete_timer: 5
`))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigConflict, apperrors.GetCode(err))
}

func TestParseRejectsSSHKeyWithoutMaterial(t *testing.T) {
	_, err := manifest.Parse([]byte(`
project:
  name: web
keys:
  k:
    name: k
    type: ssh
`))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeManifestValidation, apperrors.GetCode(err))
}

func TestParseRejectsFileInventoryWithoutRepository(t *testing.T) {
	_, err := manifest.Parse([]byte(`
project:
  name: web
inventories:
  i:
    name: i
    type: file
    inventory: hosts.ini
`))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeManifestValidation, apperrors.GetCode(err))
}

func TestParseRejectsVaultWithoutKeyName(t *testing.T) {
	_, err := manifest.Parse([]byte(`
project:
  name: web
templates:
  deploy:
    name: deploy-web
    playbook: site.yml
    inventory_name: prod
    repository_name: app-repo
    vaults:
      - type: password
`))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeManifestValidation, apperrors.GetCode(err))
}

func TestParseRejectsEnumSurveyWithoutValues(t *testing.T) {
	_, err := manifest.Parse([]byte(`
project:
  name: web
templates:
  deploy:
    name: deploy-web
    playbook: site.yml
    inventory_name: prod
    repository_name: app-repo
    survey_vars:
      - name: stage
        title: Stage
        type: enum
`))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeManifestValidation, apperrors.GetCode(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := manifest.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeManifestReadError, apperrors.GetCode(err))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validManifest), 0o600))

	m, err := manifest.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "web", m.Project.Name)
}
