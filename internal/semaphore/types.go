package semaphore

// Entity types mirror the JSON documents of the Semaphore UI API. Fields the
// server never returns (key material, passwords) exist only on the request
// structs.

type Project struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Alert            bool   `json:"alert"`
	AlertChat        string `json:"alert_chat"`
	MaxParallelTasks int    `json:"max_parallel_tasks"`
	Type             string `json:"type"`
	Created          string `json:"created,omitempty"`
}

type ProjectRequest struct {
	Name             string `json:"name"`
	Alert            bool   `json:"alert"`
	AlertChat        string `json:"alert_chat"`
	MaxParallelTasks int    `json:"max_parallel_tasks"`
	Type             string `json:"type"`
	Demo             bool   `json:"demo"`
}

const (
	KeyTypeSSH           = "ssh"
	KeyTypeLoginPassword = "login_password"
	KeyTypeNone          = "none"
)

type AccessKey struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	ProjectID int    `json:"project_id"`
}

type AccessKeySSH struct {
	Login      string `json:"login,omitempty"`
	Passphrase string `json:"passphrase,omitempty"`
	PrivateKey string `json:"private_key"`
}

type AccessKeyLoginPassword struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type AccessKeyRequest struct {
	ID             int                     `json:"id,omitempty"`
	Name           string                  `json:"name"`
	Type           string                  `json:"type"`
	ProjectID      int                     `json:"project_id"`
	OverrideSecret bool                    `json:"override_secret"`
	SSH            *AccessKeySSH           `json:"ssh,omitempty"`
	LoginPassword  *AccessKeyLoginPassword `json:"login_password,omitempty"`
}

type Repository struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ProjectID int    `json:"project_id"`
	GitURL    string `json:"git_url"`
	GitBranch string `json:"git_branch"`
	SSHKeyID  int    `json:"ssh_key_id"`
}

type RepositoryRequest struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ProjectID int    `json:"project_id"`
	GitURL    string `json:"git_url"`
	GitBranch string `json:"git_branch"`
	SSHKeyID  int    `json:"ssh_key_id"`
}

const (
	InventoryTypeStatic     = "static"
	InventoryTypeStaticYAML = "static-yaml"
	InventoryTypeFile       = "file"
)

type Inventory struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	ProjectID     int    `json:"project_id"`
	Type          string `json:"type"`
	Inventory     string `json:"inventory"`
	InventoryMode string `json:"inventory_mode,omitempty"`
	RepositoryID  int    `json:"repository_id,omitempty"`
	SSHKeyID      int    `json:"ssh_key_id,omitempty"`
	BecomeKeyID   int    `json:"become_key_id,omitempty"`
}

type InventoryRequest struct {
	ID            int    `json:"id,omitempty"`
	Name          string `json:"name"`
	ProjectID     int    `json:"project_id"`
	Type          string `json:"type"`
	Inventory     string `json:"inventory"`
	InventoryMode string `json:"inventory_mode,omitempty"`
	RepositoryID  int    `json:"repository_id,omitempty"`
	SSHKeyID      int    `json:"ssh_key_id,omitempty"`
	BecomeKeyID   int    `json:"become_key_id,omitempty"`
}

type Environment struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ProjectID int    `json:"project_id"`
	Env       string `json:"env,omitempty"`
	JSON      string `json:"json,omitempty"`
}

type EnvironmentRequest struct {
	ID        int    `json:"id,omitempty"`
	Name      string `json:"name"`
	ProjectID int    `json:"project_id"`
	Password  string `json:"password,omitempty"`
	// Env and JSON are JSON-encoded objects, serialized before send the way
	// the API expects.
	Env  string `json:"env,omitempty"`
	JSON string `json:"json,omitempty"`
}

const (
	TemplateTypeJob    = ""
	TemplateTypeDeploy = "deploy"
	TemplateTypeBuild  = "build"
)

const (
	VaultTypePassword = "password"
	VaultTypeKey      = "key"
	VaultTypeScript   = "script"
)

// TemplateSurveyVar is one field of the survey dialog shown when a task is
// started from the template. Secret variables never carry a default; the
// server rejects it.
type TemplateSurveyVar struct {
	Name         string                   `json:"name"`
	Title        string                   `json:"title"`
	Type         string                   `json:"type"`
	Description  string                   `json:"description,omitempty"`
	Required     bool                     `json:"required"`
	DefaultValue string                   `json:"default_value,omitempty"`
	Values       []TemplateSurveyEnumItem `json:"values,omitempty"`
}

type TemplateSurveyEnumItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TemplateVault attaches an Ansible Vault source to a template. Password and
// key entries reference an access key; script entries carry the script
// inline instead.
type TemplateVault struct {
	Type       string `json:"type"`
	VaultKeyID int    `json:"vault_key_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Script     string `json:"script,omitempty"`
}

// TemplateTaskParams overrides run parameters for tasks started from the
// template.
type TemplateTaskParams struct {
	AllowDebug bool     `json:"allow_debug"`
	Limit      []string `json:"limit,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	SkipTags   []string `json:"skip_tags,omitempty"`
}

type Template struct {
	ID                int                 `json:"id"`
	ProjectID         int                 `json:"project_id"`
	Name              string              `json:"name"`
	App               string              `json:"app"`
	Playbook          string              `json:"playbook"`
	InventoryID       int                 `json:"inventory_id"`
	RepositoryID      int                 `json:"repository_id"`
	EnvironmentID     *int                `json:"environment_id,omitempty"`
	ViewID            *int                `json:"view_id,omitempty"`
	Type              string              `json:"type"`
	BuildTemplateID   *int                `json:"build_template_id,omitempty"`
	StartVersion      string              `json:"start_version,omitempty"`
	Description       string              `json:"description,omitempty"`
	GitBranch         string              `json:"git_branch,omitempty"`
	Arguments         string              `json:"arguments,omitempty"`
	Limit             string              `json:"limit,omitempty"`
	Tags              string              `json:"tags,omitempty"`
	SkipTags          string              `json:"skip_tags,omitempty"`
	VaultPassword     string              `json:"vault_password,omitempty"`
	SurveyVars        []TemplateSurveyVar `json:"survey_vars,omitempty"`
	Vaults            []TemplateVault     `json:"vaults,omitempty"`
	TaskParams        *TemplateTaskParams `json:"task_params,omitempty"`
	Autorun           bool                `json:"autorun"`
	AllowOverrideArgs bool                `json:"allow_override_args_in_task"`
	AllowParallel     bool                `json:"allow_parallel_tasks"`
	SuppressSuccess   bool                `json:"suppress_success_alerts"`
}

type TemplateRequest struct {
	ID                int                 `json:"id,omitempty"`
	ProjectID         int                 `json:"project_id"`
	Name              string              `json:"name"`
	App               string              `json:"app"`
	Playbook          string              `json:"playbook"`
	InventoryID       int                 `json:"inventory_id"`
	RepositoryID      int                 `json:"repository_id"`
	EnvironmentID     *int                `json:"environment_id,omitempty"`
	ViewID            *int                `json:"view_id,omitempty"`
	Type              string              `json:"type"`
	BuildTemplateID   *int                `json:"build_template_id,omitempty"`
	StartVersion      string              `json:"start_version,omitempty"`
	Description       string              `json:"description,omitempty"`
	GitBranch         string              `json:"git_branch,omitempty"`
	Arguments         string              `json:"arguments,omitempty"`
	Limit             string              `json:"limit,omitempty"`
	Tags              string              `json:"tags,omitempty"`
	SkipTags          string              `json:"skip_tags,omitempty"`
	VaultPassword     string              `json:"vault_password,omitempty"`
	SurveyVars        []TemplateSurveyVar `json:"survey_vars,omitempty"`
	Vaults            []TemplateVault     `json:"vaults,omitempty"`
	TaskParams        *TemplateTaskParams `json:"task_params,omitempty"`
	Autorun           bool                `json:"autorun"`
	AllowOverrideArgs bool                `json:"allow_override_args_in_task"`
	AllowParallel     bool                `json:"allow_parallel_tasks"`
	SuppressSuccess   bool                `json:"suppress_success_alerts"`
}

type Schedule struct {
	ID         int    `json:"id"`
	ProjectID  int    `json:"project_id"`
	TemplateID int    `json:"template_id"`
	Name       string `json:"name"`
	CronFormat string `json:"cron_format"`
	Active     bool   `json:"active"`
}

type ScheduleRequest struct {
	ID         int    `json:"id,omitempty"`
	ProjectID  int    `json:"project_id,omitempty"`
	TemplateID int    `json:"template_id"`
	Name       string `json:"name"`
	CronFormat string `json:"cron_format"`
	Active     bool   `json:"active"`
}

type View struct {
	ID        int    `json:"id"`
	ProjectID int    `json:"project_id"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
}

type ViewRequest struct {
	ID        int    `json:"id,omitempty"`
	ProjectID int    `json:"project_id"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
}

type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Alert    bool   `json:"alert"`
	Admin    bool   `json:"admin"`
	External bool   `json:"external"`
	Created  string `json:"created,omitempty"`
}

type UserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Alert    bool   `json:"alert"`
	Admin    bool   `json:"admin"`
	External bool   `json:"external"`
}

const (
	RoleOwner      = "owner"
	RoleManager    = "manager"
	RoleTaskRunner = "task_runner"
	RoleGuest      = "guest"
)

// ProjectUser is a user entry as returned by the project users endpoint,
// i.e. a user plus their role within the project.
type ProjectUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type ProjectUserRequest struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
}

type APIToken struct {
	ID      string `json:"id"`
	Created string `json:"created"`
	Expired bool   `json:"expired"`
	UserID  int    `json:"user_id"`
}

const (
	IntegrationAuthNone   = "none"
	IntegrationAuthGitHub = "github"
	IntegrationAuthToken  = "token"
	IntegrationAuthHMAC   = "hmac"
)

type Integration struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	ProjectID    int    `json:"project_id"`
	TemplateID   int    `json:"template_id"`
	AuthMethod   string `json:"auth_method,omitempty"`
	AuthHeader   string `json:"auth_header,omitempty"`
	AuthSecretID *int   `json:"auth_secret_id,omitempty"`
	Searchable   bool   `json:"searchable"`
}

type IntegrationRequest struct {
	ID           int    `json:"id,omitempty"`
	Name         string `json:"name"`
	ProjectID    int    `json:"project_id"`
	TemplateID   int    `json:"template_id"`
	AuthMethod   string `json:"auth_method,omitempty"`
	AuthHeader   string `json:"auth_header,omitempty"`
	AuthSecretID *int   `json:"auth_secret_id,omitempty"`
	Searchable   bool   `json:"searchable"`
}

type IntegrationMatcher struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	IntegrationID int    `json:"integration_id"`
	MatchType     string `json:"match_type"`
	Method        string `json:"method"`
	BodyDataType  string `json:"body_data_type"`
	Key           string `json:"key"`
	Value         string `json:"value"`
}

type IntegrationExtractValue struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	IntegrationID int    `json:"integration_id"`
	ValueSource   string `json:"value_source"`
	BodyDataType  string `json:"body_data_type"`
	Key           string `json:"key"`
	Variable      string `json:"variable"`
	VariableType  string `json:"variable_type"`
}

type Task struct {
	ID          int    `json:"id"`
	TemplateID  int    `json:"template_id"`
	ProjectID   int    `json:"project_id"`
	Status      string `json:"status"`
	Playbook    string `json:"playbook,omitempty"`
	Environment string `json:"environment,omitempty"`
	Limit       string `json:"limit,omitempty"`
	Message     string `json:"message,omitempty"`
	Created     string `json:"created,omitempty"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
}

type TaskRequest struct {
	TemplateID  int    `json:"template_id"`
	DebugLevel  int    `json:"debug_level,omitempty"`
	DryRun      bool   `json:"dry_run,omitempty"`
	Diff        bool   `json:"diff,omitempty"`
	Playbook    string `json:"playbook,omitempty"`
	Environment string `json:"environment,omitempty"`
	Limit       string `json:"limit,omitempty"`
	Message     string `json:"message,omitempty"`
}

type TaskOutput struct {
	TaskID int    `json:"task_id"`
	Task   string `json:"task"`
	Time   string `json:"time"`
	Output string `json:"output"`
}

type ServerInfo struct {
	Version string `json:"version"`
	Update  string `json:"updateBody,omitempty"`
}

type Event struct {
	ProjectID   *int   `json:"project_id"`
	UserID      *int   `json:"user_id"`
	ObjectID    *int   `json:"object_id"`
	ObjectType  string `json:"object_type"`
	Description string `json:"description"`
	Created     string `json:"created"`
}

type App struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
	Color  string `json:"color,omitempty"`
	Active bool   `json:"active"`
}
