package queue

import (
	"time"

	"webhaak/internal/model"
	"webhaak/internal/trigger"
)

// Job kinds, deciding which pipeline steps apply to the event.
const (
	KindPush       = "push"
	KindRSS        = "rss"
	KindSentry     = "sentry"
	KindStatuspage = "statuspage"
	KindFreshping  = "freshping"
)

// Job is one enqueued unit of work: the resolved trigger configuration
// snapshot plus the normalized event.
type Job struct {
	ID           string         `json:"id"`
	Kind         string         `json:"kind"`
	Project      string         `json:"project"`
	TriggerTitle string         `json:"trigger_title"`
	Trigger      trigger.Config `json:"trigger"`
	Hook         model.HookInfo `json:"hook"`
	EventInfo    string         `json:"event_info"`
	JobURL       string         `json:"job_url"`
	EnqueuedAt   time.Time      `json:"enqueued_at"`
}

// Job lifecycle states.
const (
	StatusQueued   = "queued"
	StatusStarted  = "started"
	StatusFinished = "finished"
	StatusFailed   = "failed"
	StatusUnknown  = "unknown"
)

// State is what the status endpoint observes for one job.
type State struct {
	Status string
	// Result is nil while the job is still queued or running.
	Result *model.Result
}
