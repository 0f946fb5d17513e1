package webhook

import "encoding/json"

// Per-provider payload shapes. Optional keys are pointers so that absent
// and empty can be told apart where the semantics differ.

type htmlLink struct {
	Href string `json:"href"`
}

type payloadLinks struct {
	HTML *htmlLink `json:"html"`
}

type repositoryPayload struct {
	FullName string        `json:"full_name"`
	Name     *string       `json:"name"`
	HTMLURL  string        `json:"html_url"`
	Links    *payloadLinks `json:"links"`
}

type pusherPayload struct {
	// Gitea/Gogs use username, GitHub uses name.
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type actorPayload struct {
	Nickname    string  `json:"nickname"`
	DisplayName *string `json:"display_name"`
}

type commitAuthorPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type genericCommitPayload struct {
	SHA    *string              `json:"sha"`
	ID     *string              `json:"id"`
	Author *commitAuthorPayload `json:"author"`
}

// pushEventPayload covers the common Git push shape (GitHub/Gitea/Gogs)
// plus the BitBucket containers.
type pushEventPayload struct {
	Ref        *string                `json:"ref"`
	Before     *string                `json:"before"`
	After      *string                `json:"after"`
	Compare    *string                `json:"compare"`
	CompareURL *string                `json:"compare_url"`
	Repository *repositoryPayload     `json:"repository"`
	Pusher     *pusherPayload         `json:"pusher"`
	Actor      *actorPayload          `json:"actor"`
	Commits    []genericCommitPayload `json:"commits"`

	Push        *bitbucketPushPayload `json:"push"`
	PullRequest *bitbucketPRPayload   `json:"pullrequest"`
}

type bitbucketPushPayload struct {
	Changes []bitbucketChange `json:"changes"`
}

type bitbucketChange struct {
	Old     *bitbucketRefState `json:"old"`
	New     *bitbucketRefState `json:"new"`
	Links   *payloadLinks      `json:"links"`
	Closed  bool               `json:"closed"`
	Commits []bitbucketCommit  `json:"commits"`
}

type bitbucketRefState struct {
	Name   string `json:"name"`
	Target struct {
		Hash string `json:"hash"`
	} `json:"target"`
	Links *payloadLinks `json:"links"`
}

type bitbucketCommit struct {
	Hash   string `json:"hash"`
	Author struct {
		Raw  string `json:"raw"`
		User *struct {
			Username *string `json:"username"`
			Nickname string  `json:"nickname"`
		} `json:"user"`
	} `json:"author"`
}

type bitbucketPRPayload struct {
	Rendered *struct {
		Title struct {
			Raw string `json:"raw"`
		} `json:"title"`
		Description struct {
			Raw string `json:"raw"`
		} `json:"description"`
	} `json:"rendered"`
	CloseSourceBranch *bool   `json:"close_source_branch"`
	State             *string `json:"state"`
	Author            struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
	ClosedBy struct {
		DisplayName string `json:"display_name"`
	} `json:"closed_by"`
	Links *payloadLinks `json:"links"`
}

type sentryPayload struct {
	ProjectName *string      `json:"project_name"`
	Culprit     *string      `json:"culprit"`
	URL         *string      `json:"url"`
	Message     *string      `json:"message"`
	Event       *sentryEvent `json:"event"`
}

type sentryEvent struct {
	Title     *string `json:"title"`
	Exception *struct {
		Values []sentryExceptionValue `json:"values"`
	} `json:"exception"`
	Logentry *struct {
		Message   any `json:"message"`
		Formatted any `json:"formatted"`
	} `json:"logentry"`
	Metadata *struct {
		Value string `json:"value"`
	} `json:"metadata"`
	Request *struct {
		URL string `json:"url"`
	} `json:"request"`
}

type sentryExceptionValue struct {
	Stacktrace *struct {
		Frames []sentryFrame `json:"frames"`
	} `json:"stacktrace"`
}

type sentryFrame struct {
	Filename string  `json:"filename"`
	Function *string `json:"function"`
	Lineno   *int    `json:"lineno"`
}

type statuspagePayload struct {
	Incident *struct {
		Name            string `json:"name"`
		Impact          string `json:"impact"`
		Status          string `json:"status"`
		CreatedAt       string `json:"created_at"`
		UpdatedAt       string `json:"updated_at"`
		Shortlink       string `json:"shortlink"`
		IncidentUpdates []struct {
			Status    string `json:"status"`
			DisplayAt string `json:"display_at"`
			Body      string `json:"body"`
		} `json:"incident_updates"`
	} `json:"incident"`
}

type freshpingPayload struct {
	CheckName       string `json:"check_name"`
	CheckURL        string `json:"check_url"`
	ResponseState   string `json:"response_state"`
	ResponseSummary string `json:"response_summary"`
	Text            string `json:"text"`
}

type rssPayload struct {
	Items []rssItem `json:"items"`
}

type rssItem struct {
	Title     *string    `json:"title"`
	Canonical []htmlLink `json:"canonical"`
	Summary   *struct {
		Content string `json:"content"`
	} `json:"summary"`
}

// probePayload is the shallow decode used to tell event families apart
// before committing to a provider-specific parse.
type probePayload struct {
	Repository *repositoryPayload `json:"repository"`
	Items      []rssItem          `json:"items"`
	Incident   *json.RawMessage   `json:"incident"`
	CheckURL   string             `json:"check_url"`
}
