package model

// EventType classifies the incoming webhook event.
type EventType string

const (
	EventPush             EventType = "push"
	EventMerge            EventType = "merge"
	EventNew              EventType = "new"
	EventNewsItem         EventType = "news_item"
	EventStatuspageUpdate EventType = "statuspage_update"
	EventFreshpingMonitor EventType = "freshping_monitor"
)

// VCSSource identifies the platform that delivered the webhook.
type VCSSource string

const (
	SourceGitea     VCSSource = "Gitea"
	SourceGogs      VCSSource = "Gogs"
	SourceGitHub    VCSSource = "GitHub"
	SourceBitBucket VCSSource = "BitBucket"
	// SourceNA is used for non-VCS senders such as Sentry.
	SourceNA      VCSSource = "n/a"
	SourceUnknown VCSSource = "<unknown>"
)

// StacktraceNotAvailable is the sentinel for Sentry events without frames.
const StacktraceNotAvailable = "Not available"

// Commit is one commit included in a push, in payload order.
type Commit struct {
	Hash  string `json:"hash"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// IncidentUpdate is one Statuspage incident update entry.
type IncidentUpdate struct {
	Status    string `json:"status"`
	DisplayAt string `json:"display_at"`
	Body      string `json:"body"`
}

// HookInfo is the canonical representation of one inbound webhook event,
// assembled by the normalizer and consumed by the pipeline and notifier.
// It is created fresh per request and never mutated after enqueue.
type HookInfo struct {
	EventType EventType `json:"event_type"`
	VCSSource VCSSource `json:"vcs_source,omitempty"`

	// Push fields
	Branch       string `json:"branch,omitempty"`
	BranchBefore string `json:"branch_before,omitempty"`
	Tag          string `json:"tag,omitempty"`
	Ref          string `json:"ref,omitempty"`
	// CommitBefore is nil when the push created a new branch.
	CommitBefore *string  `json:"commit_before,omitempty"`
	CommitAfter  string   `json:"commit_after,omitempty"`
	CompareURL   string   `json:"compare_url,omitempty"`
	Closed       bool     `json:"closed,omitempty"`
	Commits      []Commit `json:"commits,omitempty"`

	// Actor identity, enriched from the trigger's authors mapping.
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`

	RepoName    string `json:"repo_name,omitempty"`
	ProjectName string `json:"project_name,omitempty"`

	// Pull request fields (BitBucket)
	PullRequestStatus            string `json:"pullrequest_status,omitempty"`
	PullRequestTitle             string `json:"pullrequest_title,omitempty"`
	PullRequestDescription       string `json:"pullrequest_description,omitempty"`
	PullRequestCloseSourceBranch bool   `json:"pullrequest_close_source_branch,omitempty"`
	PullRequestAuthor            string `json:"pullrequest_author,omitempty"`
	PullRequestClosedBy          string `json:"pullrequest_closed_by,omitempty"`
	PullRequestURL               string `json:"pullrequest_url,omitempty"`

	// Error tracking / news / incident fields
	Title      string `json:"title,omitempty"`
	Culprit    string `json:"culprit,omitempty"`
	URL        string `json:"url,omitempty"`
	Message    string `json:"message,omitempty"`
	Stacktrace string `json:"stacktrace,omitempty"`

	// Statuspage incident fields
	Impact          string           `json:"impact,omitempty"`
	Status          string           `json:"status,omitempty"`
	CreatedAt       string           `json:"created_at,omitempty"`
	UpdatedAt       string           `json:"updated_at,omitempty"`
	IncidentUpdates []IncidentUpdate `json:"incident_updates,omitempty"`

	// Freshping monitor fields
	CheckName       string `json:"check_name,omitempty"`
	CheckURL        string `json:"check_url,omitempty"`
	ResponseState   string `json:"response_state,omitempty"`
	ResponseSummary string `json:"response_summary,omitempty"`
	Text            string `json:"text,omitempty"`
}

// StringFields returns the populated string-valued fields keyed by their
// snake_case payload names. Command templates substitute these keys
// upper-cased.
func (h HookInfo) StringFields() map[string]string {
	fields := map[string]string{
		"event_type":              string(h.EventType),
		"vcs_source":              string(h.VCSSource),
		"branch":                  h.Branch,
		"branch_before":           h.BranchBefore,
		"tag":                     h.Tag,
		"ref":                     h.Ref,
		"commit_after":            h.CommitAfter,
		"compare_url":             h.CompareURL,
		"username":                h.Username,
		"email":                   h.Email,
		"repo_name":               h.RepoName,
		"project_name":            h.ProjectName,
		"pullrequest_status":      h.PullRequestStatus,
		"pullrequest_title":       h.PullRequestTitle,
		"pullrequest_description": h.PullRequestDescription,
		"pullrequest_author":      h.PullRequestAuthor,
		"pullrequest_closed_by":   h.PullRequestClosedBy,
		"pullrequest_url":         h.PullRequestURL,
		"title":                   h.Title,
		"culprit":                 h.Culprit,
		"url":                     h.URL,
		"message":                 h.Message,
		"stacktrace":              h.Stacktrace,
		"impact":                  h.Impact,
		"status":                  h.Status,
		"created_at":              h.CreatedAt,
		"updated_at":              h.UpdatedAt,
		"check_name":              h.CheckName,
		"check_url":               h.CheckURL,
		"response_state":          h.ResponseState,
		"response_summary":        h.ResponseSummary,
		"text":                    h.Text,
	}
	if h.CommitBefore != nil {
		fields["commit_before"] = *h.CommitBefore
	}
	for key, value := range fields {
		if value == "" {
			delete(fields, key)
		}
	}
	return fields
}
