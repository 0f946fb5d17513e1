package trigger

// CallURLConfig is an optional outbound relay target for a trigger.
type CallURLConfig struct {
	URL string `yaml:"url" json:"url"`
	// JSON sends the payload as a JSON body.
	JSON bool `yaml:"json" json:"json"`
	// Post uses POST instead of GET.
	Post bool `yaml:"post" json:"post"`
}

// Config identifies one actionable webhook target. Constructed once at load,
// immutable thereafter.
type Config struct {
	TriggerKey string `yaml:"trigger_key" json:"trigger_key"`

	// Repo is the Git repository URL to synchronize, if any.
	Repo string `yaml:"repo" json:"repo,omitempty"`
	// RepoParent overrides the process-wide repos cache dir.
	RepoParent string `yaml:"repo_parent" json:"repo_parent,omitempty"`
	// Branch restricts execution to pushes on this branch when set; unset
	// means every push fires, with the checkout falling back to master.
	Branch string `yaml:"branch" json:"branch,omitempty"`
	// Command is a shell template executed after the repo sync.
	Command string `yaml:"command" json:"command,omitempty"`

	// Authors maps VCS usernames to friendly email addresses.
	Authors map[string]string `yaml:"authors" json:"authors,omitempty"`

	// Notify controls notification on success; absent means notify.
	Notify *bool `yaml:"notify" json:"notify,omitempty"`
	// NotifyOnError additionally notifies on failures.
	NotifyOnError bool `yaml:"notify_on_error" json:"notify_on_error,omitempty"`

	CallURL *CallURLConfig `yaml:"call_url" json:"call_url,omitempty"`

	TelegramChatID string `yaml:"telegram_chat_id" json:"telegram_chat_id,omitempty"`
	TelegramToken  string `yaml:"telegram_token" json:"telegram_token,omitempty"`

	// Ignore lists substrings that suppress matching error-tracking titles.
	Ignore []string `yaml:"ignore" json:"ignore,omitempty"`
}

// ShouldNotify reports whether a successful run notifies. Absent means yes.
func (c Config) ShouldNotify() bool {
	return c.Notify == nil || *c.Notify
}

// BranchOrDefault returns the configured branch, defaulting to master.
func (c Config) BranchOrDefault() string {
	if c.Branch == "" {
		return "master"
	}
	return c.Branch
}

// Project groups triggers behind one app_key.
type Project struct {
	AppKey   string            `yaml:"app_key" json:"app_key"`
	Triggers map[string]Config `yaml:"triggers" json:"triggers"`
}

// Resolved is the result of a registry lookup: the owning project, the
// trigger's title within it, and a copy of its configuration.
type Resolved struct {
	Project string `json:"project"`
	Title   string `json:"title"`
	Config  Config `json:"config"`
}

// TriggerInfo is one entry in the admin trigger listing.
type TriggerInfo struct {
	Title      string `json:"title"`
	TriggerKey string `json:"trigger_key"`
	URL        string `json:"url"`
}

// ProjectInfo is one project in the admin trigger listing.
type ProjectInfo struct {
	Title    string        `json:"title"`
	AppKey   string        `json:"app_key"`
	Triggers []TriggerInfo `json:"triggers"`
}
