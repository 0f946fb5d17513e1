package webhook

import (
	"github.com/google/uuid"

	"webhaak/internal/joblog"
	"webhaak/internal/notify"
	"webhaak/internal/queue"
	"webhaak/internal/trigger"
	"webhaak/pkg/log"
)

// Handler receives webhook deliveries, normalizes them and enqueues jobs.
type Handler struct {
	l        log.Logger
	registry *trigger.Registry
	queue    queue.Queue
	jobLogs  *joblog.Store
	archiver *Archiver
	notifier notify.Notifier
	security *SecurityValidator

	// serverURL is the externally visible base URL, with trailing slash.
	serverURL string
	newID     func() string
}

// Config bundles the handler dependencies.
type Config struct {
	Logger    log.Logger
	Registry  *trigger.Registry
	Queue     queue.Queue
	JobLogs   *joblog.Store
	Archiver  *Archiver
	Notifier  notify.Notifier
	Security  *SecurityValidator
	ServerURL string
}

// NewHandler builds the webhook receiver.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		l:         cfg.Logger,
		registry:  cfg.Registry,
		queue:     cfg.Queue,
		jobLogs:   cfg.JobLogs,
		archiver:  cfg.Archiver,
		notifier:  cfg.Notifier,
		security:  cfg.Security,
		serverURL: cfg.ServerURL,
		newID:     func() string { return uuid.NewString() },
	}
}
