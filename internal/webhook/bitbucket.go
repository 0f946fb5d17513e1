package webhook

import (
	"fmt"
	"strings"

	"webhaak/internal/model"
	"webhaak/internal/trigger"
)

// normalizeBitbucketPush handles an incoming Git push hook from BitBucket.
// Only the first entry of push.changes is consulted.
func normalizeBitbucketPush(push *bitbucketPushPayload, info *model.HookInfo) error {
	if len(push.Changes) == 0 {
		return fmt.Errorf("bitbucket push payload has no changes")
	}
	change := push.Changes[0]
	if change.Old == nil && change.New == nil {
		return fmt.Errorf("bitbucket push change has neither old nor new state")
	}

	// When a branch is created, old is null; commit_before stays unset.
	if change.Old != nil {
		// Info on the previous commit is available (so not a new branch)
		hash := change.Old.Target.Hash
		info.CommitBefore = &hash
		info.BranchBefore = change.Old.Name
	}
	if change.New != nil {
		// Info about the (merge) commit is known
		info.CommitAfter = change.New.Target.Hash
		info.Branch = change.New.Name
	} else {
		// Likely a 'None' merge commit, so get the info from the branch
		// that is getting merged
		info.CommitAfter = change.Old.Target.Hash
	}

	switch {
	case change.Links != nil && change.Links.HTML != nil:
		info.CompareURL = change.Links.HTML.Href
	case change.Old != nil && change.Old.Links != nil && change.Old.Links.HTML != nil:
		info.CompareURL = change.Old.Links.HTML.Href
	default:
		info.CompareURL = ""
	}

	// Whether branch was closed; most likely after a merge
	info.Closed = change.Closed
	info.Commits = make([]model.Commit, 0, len(change.Commits))
	for _, c := range change.Commits {
		commit := model.Commit{Hash: c.Hash, Email: c.Author.Raw}
		if c.Author.User != nil {
			if c.Author.User.Username != nil {
				commit.Name = *c.Author.User.Username
			} else {
				commit.Name = c.Author.User.Nickname
			}
		}
		info.Commits = append(info.Commits, commit)
	}

	return nil
}

// normalizeBitbucketPullRequest handles an incoming pull request hook.
func normalizeBitbucketPullRequest(pr *bitbucketPRPayload, info *model.HookInfo) {
	if pr.Rendered != nil {
		info.PullRequestTitle = pr.Rendered.Title.Raw
		info.PullRequestDescription = pr.Rendered.Description.Raw
	}
	if pr.CloseSourceBranch != nil {
		info.PullRequestCloseSourceBranch = *pr.CloseSourceBranch
	}
	if pr.State != nil && *pr.State == "MERGED" {
		info.PullRequestAuthor = pr.Author.DisplayName
		info.PullRequestClosedBy = pr.ClosedBy.DisplayName
	}
	if pr.Links != nil && pr.Links.HTML != nil {
		info.PullRequestURL = pr.Links.HTML.Href
	}
}

// normalizeBitbucketActor records who pushed. The email address is resolved
// through the trigger's authors mapping, case-insensitively.
func normalizeBitbucketActor(actor *actorPayload, info *model.HookInfo, cfg trigger.Config, eventInfo string) string {
	eventInfo += " by " + actor.Nickname
	if actor.DisplayName != nil {
		eventInfo += fmt.Sprintf(" (%s)", *actor.DisplayName)
	}
	info.Username = actor.Nickname

	for author, email := range cfg.Authors {
		if strings.EqualFold(author, info.Username) {
			info.Email = email
			break
		}
	}
	return eventInfo
}
