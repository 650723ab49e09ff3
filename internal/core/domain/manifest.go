package domain

// Manifest is the declarative description of one Semaphore project and the
// resources that belong to it. Map keys are operator-chosen handles; the
// remote identity of a resource is its name field, never the handle.
type Manifest struct {
	Project      ProjectSpec                `yaml:"project" validate:"required"`
	Keys         map[string]KeySpec         `yaml:"keys" validate:"dive"`
	Repositories map[string]RepositorySpec  `yaml:"repositories" validate:"dive"`
	Views        map[string]ViewSpec        `yaml:"views" validate:"dive"`
	Inventories  map[string]InventorySpec   `yaml:"inventories" validate:"dive"`
	Environments map[string]EnvironmentSpec `yaml:"environments" validate:"dive"`
	Templates    map[string]TemplateSpec    `yaml:"templates" validate:"dive"`
	Schedules    map[string]ScheduleSpec    `yaml:"schedules" validate:"dive"`
	Integrations map[string]IntegrationSpec `yaml:"integrations" validate:"dive"`
	UsersAccess  []UserAccessSpec           `yaml:"users_access" validate:"dive"`
	Options      DeployOptions              `yaml:"options"`
}

type ProjectSpec struct {
	Name             string `yaml:"name" validate:"required"`
	Alert            bool   `yaml:"alert"`
	AlertChat        string `yaml:"alert_chat"`
	MaxParallelTasks int    `yaml:"max_parallel_tasks" validate:"gte=0"`
	Type             string `yaml:"type"`
	Demo             bool   `yaml:"demo"`
}

type KeySpec struct {
	Name           string             `yaml:"name" validate:"required"`
	Type           string             `yaml:"type" validate:"required,oneof=ssh login_password none"`
	OverrideSecret bool               `yaml:"override_secret"`
	SSH            *SSHKeySpec        `yaml:"ssh" validate:"omitempty"`
	LoginPassword  *LoginPasswordSpec `yaml:"login_password" validate:"omitempty"`
}

type SSHKeySpec struct {
	Login      string `yaml:"login"`
	Passphrase string `yaml:"passphrase"`
	PrivateKey string `yaml:"private_key" validate:"required"`
}

type LoginPasswordSpec struct {
	Login    string `yaml:"login" validate:"required"`
	Password string `yaml:"password" validate:"required"`
}

type RepositorySpec struct {
	Name      string `yaml:"name" validate:"required"`
	GitURL    string `yaml:"git_url" validate:"required"`
	GitBranch string `yaml:"git_branch" validate:"required"`
	KeyName   string `yaml:"key_name" validate:"required"`
}

type ViewSpec struct {
	Title    string `yaml:"title" validate:"required"`
	Position int    `yaml:"position" validate:"gte=0"`
}

type InventorySpec struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required,oneof=static static-yaml file"`
	// Inventory holds the static content for static types, or the file path
	// inside the repository for type "file".
	Inventory      string `yaml:"inventory" validate:"required"`
	RepositoryName string `yaml:"repository_name" validate:"required_if=Type file"`
	KeyName        string `yaml:"key_name"`
	BecomeKeyName  string `yaml:"become_key_name"`
}

type EnvironmentSpec struct {
	Name     string            `yaml:"name" validate:"required"`
	Password string            `yaml:"password"`
	Env      map[string]string `yaml:"env"`
	JSON     map[string]any    `yaml:"json"`
}

type TemplateSpec struct {
	Name              string              `yaml:"name" validate:"required"`
	App               string              `yaml:"app"`
	Playbook          string              `yaml:"playbook" validate:"required"`
	InventoryName     string              `yaml:"inventory_name" validate:"required"`
	RepositoryName    string              `yaml:"repository_name" validate:"required"`
	EnvironmentName   string              `yaml:"environment_name"`
	ViewName          string              `yaml:"view_name"`
	Type              string              `yaml:"type" validate:"omitempty,oneof=job deploy build"`
	BuildTemplateName string              `yaml:"build_template_name"`
	StartVersion      string              `yaml:"start_version"`
	Description       string              `yaml:"description"`
	GitBranch         string              `yaml:"git_branch"`
	Arguments         []string            `yaml:"arguments"`
	Limit             string              `yaml:"limit"`
	Tags              string              `yaml:"tags"`
	SkipTags          string              `yaml:"skip_tags"`
	VaultPassword     string              `yaml:"vault_password"`
	SurveyVars        []SurveyVarSpec     `yaml:"survey_vars" validate:"dive"`
	Vaults            []TemplateVaultSpec `yaml:"vaults" validate:"dive"`
	Autorun           bool                `yaml:"autorun"`
	AllowOverrideArgs bool                `yaml:"allow_override_args_in_task"`
	AllowParallel     bool                `yaml:"allow_parallel_tasks"`
	SuppressSuccess   bool                `yaml:"suppress_success_alerts"`
}

// SurveyVarSpec declares one field of the survey shown when a task is
// started from the template. Secret variables cannot carry a default; the
// engine drops it before sending.
type SurveyVarSpec struct {
	Name         string                `yaml:"name" validate:"required"`
	Title        string                `yaml:"title" validate:"required"`
	Type         string                `yaml:"type" validate:"required,oneof=string int secret enum"`
	Description  string                `yaml:"description"`
	Required     bool                  `yaml:"required"`
	DefaultValue string                `yaml:"default_value"`
	Values       []SurveyEnumValueSpec `yaml:"values" validate:"dive"`
}

type SurveyEnumValueSpec struct {
	Name  string `yaml:"name" validate:"required"`
	Value string `yaml:"value" validate:"required"`
}

// TemplateVaultSpec attaches a vault source to a template. Password and key
// entries reference an access key by name; script entries carry the script
// inline and need no key.
type TemplateVaultSpec struct {
	Type    string `yaml:"type" validate:"required,oneof=password key script"`
	KeyName string `yaml:"key_name"`
	Name    string `yaml:"name"`
	Script  string `yaml:"script"`
}

type ScheduleSpec struct {
	Name         string `yaml:"name" validate:"required"`
	CronFormat   string `yaml:"cron_format" validate:"required"`
	TemplateName string `yaml:"template_name" validate:"required"`
	Active       *bool  `yaml:"active"`
}

type IntegrationSpec struct {
	Name         string `yaml:"name" validate:"required"`
	TemplateName string `yaml:"template_name" validate:"required"`
	AuthMethod   string `yaml:"auth_method" validate:"omitempty,oneof=none github token hmac"`
	AuthHeader   string `yaml:"auth_header"`
	KeyName      string `yaml:"key_name"`
}

type UserAccessSpec struct {
	Username string `yaml:"username" validate:"required"`
	Role     string `yaml:"role" validate:"required,oneof=owner manager task_runner guest"`
}

// DeployOptions are the run-level control flags. Exactly one of the three
// force flags may be set; the manifest loader enforces that.
type DeployOptions struct {
	ForceProjectCreation    bool `yaml:"force_project_creation"`
	ForceProjectUpdate      bool `yaml:"force_project_update"`
	ForceProjectDelete      bool `yaml:"force_project_delete"`
	ForceProjectDeleteTimer int  `yaml:"force_project_delete_timer" validate:"gte=0"`
	Prune                   bool `yaml:"prune"`
	NoLogSensitive          bool `yaml:"no_log_sensitive"`
}

// ScheduleActive applies the schedule default: a schedule is active unless
// the manifest says otherwise.
func (s ScheduleSpec) ScheduleActive() bool {
	if s.Active == nil {
		return true
	}
	return *s.Active
}
