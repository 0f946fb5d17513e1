package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"webhaak/internal/model"
	"webhaak/internal/trigger"
)

// NormalizePush parses a Git push or BitBucket pull request payload into the
// canonical HookInfo. eventInfo is the human-readable summary built so far;
// the enriched version is returned.
func NormalizePush(payload []byte, info *model.HookInfo, cfg trigger.Config, eventInfo string) (string, error) {
	var p pushEventPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return eventInfo, fmt.Errorf("failed to decode push payload: %w", err)
	}

	if p.Push != nil {
		// BitBucket, which has a completely different format
		if err := normalizeBitbucketPush(p.Push, info); err != nil {
			return eventInfo, err
		}
	}
	if p.PullRequest != nil {
		normalizeBitbucketPullRequest(p.PullRequest, info)
	}

	if p.Ref != nil {
		info.Ref = *p.Ref
		if strings.Contains(*p.Ref, "heads") {
			info.Branch = strings.Replace(*p.Ref, "refs/heads/", "", 1)
		} else if strings.Contains(*p.Ref, "tags") {
			info.Tag = strings.Replace(*p.Ref, "refs/tags/", "", 1)
		}
	}
	if p.Repository != nil {
		eventInfo += p.Repository.FullName
		info.RepoName = p.Repository.FullName
		if p.Repository.Name != nil {
			info.ProjectName = *p.Repository.Name
		}
	}
	if p.Actor != nil {
		// BitBucket pusher; no email address known here though
		eventInfo = normalizeBitbucketActor(p.Actor, info, cfg, eventInfo)
	}
	if p.Pusher != nil {
		eventInfo = normalizeGitActor(p.Pusher, info, eventInfo)
	}
	if p.Compare != nil {
		eventInfo += ", compare: " + *p.Compare
		info.CompareURL = *p.Compare
	} else if p.CompareURL != nil {
		eventInfo += ", compare: " + *p.CompareURL
		info.CompareURL = *p.CompareURL
	}
	if p.Before != nil {
		info.CommitBefore = p.Before
	}
	if p.After != nil {
		info.CommitAfter = *p.After
	}
	if p.Commits != nil {
		normalizeCommits(p.Commits, info)
	}

	return eventInfo, nil
}

// normalizeGitActor records the pusher identity. Gitea and Gogs carry a
// username field, GitHub a name field.
func normalizeGitActor(pusher *pusherPayload, info *model.HookInfo, eventInfo string) string {
	switch info.VCSSource {
	case model.SourceGitea, model.SourceGogs:
		eventInfo += " by " + pusher.Username
		info.Username = pusher.Username
		info.Email = pusher.Email
	case model.SourceGitHub:
		eventInfo += " by " + pusher.Name
		info.Username = pusher.Name
		info.Email = pusher.Email
	}
	return eventInfo
}

// normalizeCommits gathers info on the commits included in this push.
func normalizeCommits(commits []genericCommitPayload, info *model.HookInfo) {
	info.Commits = make([]model.Commit, 0, len(commits))
	for _, c := range commits {
		commit := model.Commit{}
		if c.SHA != nil {
			commit.Hash = *c.SHA
		} else if c.ID != nil {
			commit.Hash = *c.ID
		}
		if c.Author != nil {
			commit.Name = c.Author.Name
			commit.Email = c.Author.Email
		}
		info.Commits = append(info.Commits, commit)
	}
}

// NormalizeSentry assembles the Sentry issue details so an appropriate
// notification can be sent later.
func NormalizeSentry(payload []byte, info *model.HookInfo, eventInfo string) (string, error) {
	var p sentryPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return eventInfo, fmt.Errorf("failed to decode sentry payload: %w", err)
	}

	if p.ProjectName != nil {
		eventInfo += *p.ProjectName
		info.ProjectName = *p.ProjectName
	}
	if p.Culprit != nil {
		info.Culprit = *p.Culprit
	}
	if p.URL != nil {
		info.URL = *p.URL
	}
	if p.Message != nil {
		info.Message = *p.Message
	}
	info.Stacktrace = model.StacktraceNotAvailable

	if p.Event != nil && p.Event.Title != nil {
		info.Title = *p.Event.Title
		var stacktrace []string
		if p.Event.Exception != nil && len(p.Event.Exception.Values) > 0 {
			// Always take the last set
			last := p.Event.Exception.Values[len(p.Event.Exception.Values)-1]
			if last.Stacktrace != nil {
				for _, frame := range last.Stacktrace.Frames {
					function := "unknown"
					if frame.Function != nil {
						function = *frame.Function
					}
					atLine := ""
					if frame.Lineno != nil {
						atLine = fmt.Sprintf(" at line %d", *frame.Lineno)
					}
					stacktrace = append(stacktrace, fmt.Sprintf("%s in %s%s", frame.Filename, function, atLine))
				}
			}
			// Sentry puts the items of the trace from last to first in the
			// json, so reverse the trace
			for i, j := 0, len(stacktrace)-1; i < j; i, j = i+1, j-1 {
				stacktrace[i], stacktrace[j] = stacktrace[j], stacktrace[i]
			}
		} else if p.Event.Logentry != nil {
			if p.Event.Logentry.Message != nil {
				stacktrace = append(stacktrace, fmt.Sprint(p.Event.Logentry.Message))
			}
			if p.Event.Logentry.Formatted != nil {
				stacktrace = append(stacktrace, fmt.Sprint(p.Event.Logentry.Formatted))
			}
		}
		info.Stacktrace = strings.Join(stacktrace, "\n")

		if info.Message == "" {
			info.Message = "n/a"
			if p.Event.Metadata != nil && p.Event.Metadata.Value != "" {
				info.Message = p.Event.Metadata.Value
			}
		}
		if info.Culprit == "" {
			// Mention the URL it happened on instead, if available
			info.Culprit = "n/a"
			if p.Event.Request != nil && p.Event.Request.URL != "" {
				info.Culprit = p.Event.Request.URL
			}
		}
	}

	return eventInfo, nil
}

// NormalizeStatuspage copies the Statuspage incident fields verbatim.
func NormalizeStatuspage(payload []byte, info *model.HookInfo, eventInfo string) (string, error) {
	var p statuspagePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return eventInfo, fmt.Errorf("failed to decode statuspage payload: %w", err)
	}
	if p.Incident == nil {
		return eventInfo, fmt.Errorf("statuspage payload has no incident")
	}

	eventInfo += p.Incident.Name
	info.Title = p.Incident.Name
	info.Impact = p.Incident.Impact
	info.Status = p.Incident.Status
	info.CreatedAt = p.Incident.CreatedAt
	info.UpdatedAt = p.Incident.UpdatedAt
	info.URL = p.Incident.Shortlink
	info.IncidentUpdates = make([]model.IncidentUpdate, 0, len(p.Incident.IncidentUpdates))
	for _, update := range p.Incident.IncidentUpdates {
		info.IncidentUpdates = append(info.IncidentUpdates, model.IncidentUpdate{
			Status:    update.Status,
			DisplayAt: update.DisplayAt,
			Body:      update.Body,
		})
	}

	return eventInfo, nil
}

// NormalizeFreshping adopts the monitoring payload wholesale; it already
// carries the shape the notifier needs.
func NormalizeFreshping(payload []byte, info *model.HookInfo, eventInfo string) (string, error) {
	var p freshpingPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return eventInfo, fmt.Errorf("failed to decode freshping payload: %w", err)
	}

	checkName := p.CheckName
	if checkName == "" {
		checkName = "unknown"
	}
	eventInfo += checkName

	info.CheckName = p.CheckName
	info.CheckURL = p.CheckURL
	info.ResponseState = p.ResponseState
	info.ResponseSummary = p.ResponseSummary
	info.Text = p.Text

	return eventInfo, nil
}

// NormalizeRSSItem records the first pushed feed item.
func NormalizeRSSItem(payload []byte, info *model.HookInfo, eventInfo string) (string, error) {
	var p rssPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return eventInfo, fmt.Errorf("failed to decode rss payload: %w", err)
	}
	if len(p.Items) == 0 {
		return eventInfo, fmt.Errorf("rss payload has no items")
	}

	item := p.Items[0]
	info.Title = "[untitled]"
	if item.Title != nil {
		info.Title = *item.Title
	}
	info.URL = "unknown"
	if len(item.Canonical) > 0 && item.Canonical[0].Href != "" {
		info.URL = item.Canonical[0].Href
	}
	info.Message = "[untitled]"
	if item.Summary != nil && item.Summary.Content != "" {
		info.Message = item.Summary.Content
	}
	eventInfo += info.Title

	return eventInfo, nil
}
