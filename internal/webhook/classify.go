package webhook

import (
	"net/http"
	"strings"

	"webhaak/internal/model"
)

// Classification is the provider verdict for one request, derived from
// headers before the body is parsed.
type Classification struct {
	Source model.VCSSource
	// Sentry marks an error-tracking delivery (no VCS involved).
	Sentry bool
	// PullRequestStatus is set for BitBucket pullrequest:* event keys.
	PullRequestStatus string
	// EventType override derived from the headers (BitBucket merges/news).
	EventType model.EventType
	// Push is true when the headers announce a plain Git push.
	Push bool
	// Ping is true for GitHub's handshake event, answered without a job.
	Ping bool
}

// Classify determines the webhook provider from request headers.
// Precedence: Gitea, Gogs, GitHub, BitBucket event key, Sentry trace,
// otherwise unknown.
func Classify(header http.Header) Classification {
	cls := Classification{EventType: model.EventPush}

	switch {
	case header.Get("X-Gitea-Event") != "":
		cls.Source = model.SourceGitea
		cls.Push = header.Get("X-Gitea-Event") == "push"
	case header.Get("X-Gogs-Event") != "":
		cls.Source = model.SourceGogs
		cls.Push = header.Get("X-Gogs-Event") == "push"
	case header.Get("X-GitHub-Event") != "":
		cls.Source = model.SourceGitHub
		cls.Push = header.Get("X-GitHub-Event") == "push"
		cls.Ping = header.Get("X-GitHub-Event") == "ping"
	case header.Get("X-Event-Key") != "":
		cls.Source = model.SourceBitBucket
		eventKey := header.Get("X-Event-Key")
		cls.Push = eventKey == "repo:push"
		// Examples: pullrequest:fulfilled pullrequest:created
		if strings.Contains(eventKey, "pullrequest:") {
			cls.PullRequestStatus = strings.TrimSpace(strings.SplitN(eventKey, ":", 2)[1])
			switch cls.PullRequestStatus {
			case "fulfilled":
				cls.EventType = model.EventMerge
			case "created":
				cls.EventType = model.EventNew
			}
		}
	case header.Get("Sentry-Trace") != "":
		cls.Source = model.SourceNA
		cls.Sentry = true
	default:
		cls.Source = model.SourceUnknown
	}

	return cls
}
