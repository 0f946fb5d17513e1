package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"webhaak/internal/model"
	"webhaak/internal/queue"
	"webhaak/internal/trigger"
)

// Execute runs the job, persists its command log and sends the configured
// notifications. The returned status is finished for OK results and failed
// otherwise.
func (p *implPipeline) Execute(ctx context.Context, job queue.Job) (model.Result, string) {
	start := time.Now()

	var result model.Result
	switch job.Kind {
	case queue.KindSentry:
		result = p.runNotifyOnly(ctx, job, p.notifier.NotifySentry(ctx, job.Hook, job.Trigger))
	case queue.KindStatuspage:
		result = p.runNotifyOnly(ctx, job, p.notifier.NotifyStatuspage(ctx, job.Hook))
	case queue.KindFreshping:
		result = p.runNotifyOnly(ctx, job, p.notifier.NotifyFreshping(ctx, job.Hook, job.Trigger))
	case queue.KindRSS:
		result = p.runNewsItem(ctx, job)
	default:
		var notifiable bool
		result, notifiable = p.runTrigger(ctx, job)
		result.Runtime = time.Since(start)
		result.JobURL = job.JobURL
		if notifiable && p.shouldNotify(job.Trigger, result) {
			if err := p.notifier.NotifyResult(ctx, result, job.Project, job.TriggerTitle, job.Trigger); err != nil {
				p.l.Warnf(ctx, "Failed to notify for job %s: %v", job.ID, err)
			}
		}
	}
	result.Runtime = time.Since(start)
	result.JobURL = job.JobURL

	status := queue.StatusFinished
	if result.Status == model.StatusError {
		status = queue.StatusFailed
	}
	jobsTotal.WithLabelValues(status).Inc()
	pipelineDuration.Observe(result.Runtime.Seconds())
	return result, status
}

// runNotifyOnly wraps the outcome of a notification-only job kind. A failed
// delivery does not fail the job; the error taxonomy only covers pipeline
// work, so the outcome lands in the message instead.
func (p *implPipeline) runNotifyOnly(ctx context.Context, job queue.Job, err error) model.Result {
	if err != nil {
		p.l.Warnf(ctx, "Failed to notify for job %s: %v", job.ID, err)
		return model.OKResult(fmt.Sprintf("notification failed: %v", err))
	}
	return model.OKResult("notification sent")
}

// runNewsItem forwards a normalized feed item to the trigger's call_url.
// Like the notification-only kinds it never touches the repository or
// command steps, and a failed delivery does not fail the job.
func (p *implPipeline) runNewsItem(ctx context.Context, job queue.Job) model.Result {
	payload, err := json.Marshal(job.Hook)
	if err != nil {
		p.l.Errorf(ctx, "Job %s: failed to marshal news item: %v", job.ID, err)
		return model.OKResult(fmt.Sprintf("relay failed: %v", err))
	}

	status, body := p.notifier.Relay(ctx, job.Trigger, payload)
	if status != "OK" {
		p.l.Warnf(ctx, "Job %s: news item relay failed: %s", job.ID, body)
		return model.OKResult(fmt.Sprintf("relay failed: %s", body))
	}
	return model.OKResult("news item relayed")
}

// runTrigger handles repository sync and command execution for push-style
// jobs. The second return value is false when the job was skipped and no
// run notification should go out.
func (p *implPipeline) runTrigger(ctx context.Context, job queue.Job) (model.Result, bool) {
	cfg := job.Trigger
	hook := job.Hook

	// Pushes to other branches than the configured one are silently
	// skipped. Without an explicit branch the trigger always fires; the
	// master default only applies to the checkout itself.
	if cfg.Branch != "" && hook.Branch != "" && hook.Branch != cfg.Branch {
		p.l.Infof(ctx, "Job %s: branch %q does not match %q, skipping", job.ID, hook.Branch, cfg.Branch)
		return model.OKResult(fmt.Sprintf("skipped: push to branch %q does not match trigger branch %q",
			hook.Branch, cfg.Branch)), false
	}

	repoDir := p.resolveRepoDir(cfg.Repo, cfg.RepoParent)
	result := model.OKResult("")

	if cfg.Repo != "" {
		// Concurrent jobs on the same checkout serialize here.
		lock := p.locks.forPath(repoDir)
		lock.Lock()
		defer lock.Unlock()

		if err := os.MkdirAll(filepath.Dir(repoDir), 0o755); err != nil {
			return model.ErrorResult(model.ErrorTypeOS, err.Error()), true
		}
		repoResult, err := p.git.Update(ctx, cfg.Repo, repoDir, cfg.BranchOrDefault())
		if err != nil {
			p.l.Errorf(ctx, "Job %s: repo update failed: %v", job.ID, err)
			return model.ErrorResult(model.ErrorTypeGit, err.Error()), true
		}
		p.l.Infof(ctx, "Job %s: %s", job.ID, repoResult)
		result.RepoResult = repoResult
	}

	if cfg.Command != "" {
		if cmdResult := p.runCommand(ctx, job, repoDir); cmdResult.Status == model.StatusError {
			cmdResult.RepoResult = result.RepoResult
			return cmdResult, true
		}
	}

	result.Message = "completed"
	return result, true
}

// runCommand renders the command template, executes it and appends the
// outcome to the job log.
func (p *implPipeline) runCommand(ctx context.Context, job queue.Job, repoDir string) model.Result {
	version := ""
	if job.Trigger.Repo != "" {
		version = p.git.Describe(ctx, repoDir)
	}
	command := renderCommand(job.Trigger.Command, repoDir, p.cacheRoot, version, job.Hook)
	p.l.Infof(ctx, "Job %s: running command %q", job.ID, command)

	stdout, stderr, code, err := p.runner.Run(ctx, command, repoDir)
	if err != nil {
		return model.ErrorResult(model.ErrorTypeCommand, err.Error())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "== Command returncode: %d ======\n", code)
	fmt.Fprintf(&b, "== Command output ======\n%s\n", stdout)
	fmt.Fprintf(&b, "== Command error, if any ======\n%s\n", stderr)
	if logErr := p.jobLogs.Append(job.ID, b.String()); logErr != nil {
		p.l.Warnf(ctx, "Job %s: failed to persist command log: %v", job.ID, logErr)
	}

	if code != 0 {
		message := strings.TrimSpace(stderr)
		if message == "" {
			message = fmt.Sprintf("exit status %d", code)
		}
		return model.ErrorResult(model.ErrorTypeCommand, message)
	}
	return model.OKResult("")
}

// resolveRepoDir derives the local checkout path from the repo URL: its
// basename without a .git suffix, under the trigger's repo_parent or the
// process-wide cache root.
func (p *implPipeline) resolveRepoDir(repoURL, repoParent string) string {
	parent := repoParent
	if parent == "" {
		parent = p.cacheRoot
	}
	if repoURL == "" {
		return parent
	}
	name := strings.TrimSuffix(filepath.Base(strings.TrimSuffix(repoURL, "/")), ".git")
	return filepath.Join(parent, name)
}

func (p *implPipeline) shouldNotify(cfg trigger.Config, result model.Result) bool {
	return cfg.ShouldNotify() || (result.Status == model.StatusError && cfg.NotifyOnError)
}
