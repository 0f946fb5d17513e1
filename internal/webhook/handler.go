package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"webhaak/internal/model"
	"webhaak/internal/queue"
	"webhaak/internal/trigger"
	"webhaak/pkg/response"
)

// HandleTrigger fires a trigger. GET and OPTIONS requests fire it without a
// payload; POST requests carry a provider payload that is normalized first.
//
//	@Summary		Fire a webhook trigger
//	@Description	Accepts Git host, Sentry, Statuspage and Freshping deliveries
//	@Tags			hooks
//	@Param			appkey		path	string	true	"Application key"
//	@Param			triggerkey	path	string	true	"Trigger key"
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Failure		404	{object}	response.Resp
//	@Router			/app/{appkey}/{triggerkey} [post]
func (h *Handler) HandleTrigger(c *gin.Context) {
	ctx := c.Request.Context()
	appKey := c.Param("appkey")
	triggerKey := c.Param("triggerkey")

	resolved, err := h.registry.Resolve(appKey, triggerKey)
	if err != nil {
		h.l.Warnf(ctx, "Trigger lookup failed for %s/%s: %v", appKey, triggerKey, err)
		response.NotFound(c, "unknown app_key and trigger_key combination")
		return
	}

	if err := h.security.CheckRateLimit(appKey); err != nil {
		c.JSON(http.StatusTooManyRequests, gin.H{"status": "error", "message": "rate limit exceeded"})
		return
	}

	if c.Request.Method != http.MethodPost {
		// GET and OPTIONS fire the trigger without event details.
		hook := model.HookInfo{EventType: model.EventPush, VCSSource: model.SourceNA}
		h.enqueue(c, resolved, queue.KindPush, hook, "Trigger fired manually")
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.decodeError(c, fmt.Errorf("failed to read request body: %w", err))
		return
	}

	cls := Classify(c.Request.Header)
	if cls.Ping {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Hi!"})
		return
	}

	if h.archiver != nil {
		if err := h.archiver.Archive(payload, c.Request.Header); err != nil {
			h.l.Warnf(ctx, "Failed to archive event payload: %v", err)
		}
	}

	var probe probePayload
	if err := json.Unmarshal(payload, &probe); err != nil {
		h.decodeError(c, fmt.Errorf("failed to decode payload: %w", err))
		return
	}

	// Synchronous relay triggers forward the raw payload and report the
	// remote verdict directly.
	if resolved.Config.CallURL != nil {
		status, body := h.notifier.Relay(ctx, resolved.Config, payload)
		c.JSON(http.StatusOK, gin.H{"status": status, "message": body})
		return
	}

	hook := model.HookInfo{EventType: cls.EventType, VCSSource: cls.Source}
	if cls.PullRequestStatus != "" {
		hook.PullRequestStatus = cls.PullRequestStatus
	}

	var kind, eventInfo string
	switch {
	case cls.Sentry:
		kind = queue.KindSentry
		eventInfo, err = NormalizeSentry(payload, &hook, "Error event for project ")
	case probe.Incident != nil:
		kind = queue.KindStatuspage
		hook.EventType = model.EventStatuspageUpdate
		hook.VCSSource = model.SourceNA
		eventInfo, err = NormalizeStatuspage(payload, &hook, "Status page incident update: ")
	case probe.CheckURL != "":
		kind = queue.KindFreshping
		hook.EventType = model.EventFreshpingMonitor
		hook.VCSSource = model.SourceNA
		eventInfo, err = NormalizeFreshping(payload, &hook, "Monitor state change: ")
	case len(probe.Items) > 0 && probe.Repository == nil:
		kind = queue.KindRSS
		hook.EventType = model.EventNewsItem
		hook.VCSSource = model.SourceNA
		eventInfo, err = NormalizeRSSItem(payload, &hook, "News item: ")
	default:
		kind = queue.KindPush
		prefix := fmt.Sprintf("%s %s event on ", cls.Source, cls.EventType)
		eventInfo, err = NormalizePush(payload, &hook, resolved.Config, prefix)
	}
	if err != nil {
		h.decodeError(c, err)
		return
	}

	h.enqueue(c, resolved, kind, hook, eventInfo)
}

// enqueue creates the job, seeds its log with the event summary and
// responds with the status URL the caller can poll.
func (h *Handler) enqueue(c *gin.Context, resolved trigger.Resolved, kind string, hook model.HookInfo, eventInfo string) {
	ctx := c.Request.Context()
	jobID := h.newID()
	jobURL := fmt.Sprintf("%sstatus/%s", h.serverURL, jobID)

	job := queue.Job{
		ID:           jobID,
		Kind:         kind,
		Project:      resolved.Project,
		TriggerTitle: resolved.Title,
		Trigger:      resolved.Config,
		Hook:         hook,
		EventInfo:    eventInfo,
		JobURL:       jobURL,
		EnqueuedAt:   time.Now(),
	}
	if err := h.queue.Enqueue(ctx, job); err != nil {
		h.l.Errorf(ctx, "Failed to enqueue job %s: %v", jobID, err)
		response.InternalError(c, err)
		return
	}
	if err := h.jobLogs.Write(jobID, eventInfo+"\n"); err != nil {
		h.l.Warnf(ctx, "Failed to seed job log for %s: %v", jobID, err)
	}

	h.l.Infof(ctx, "Enqueued %s job %s for %s>%s: %s", kind, jobID, resolved.Project, resolved.Title, eventInfo)
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": eventInfo,
		"job_id":  jobID,
		"url":     jobURL,
	})
}

// decodeError rejects a malformed payload. The rejection is part of the
// normal JSON contract, so the HTTP status stays 200.
func (h *Handler) decodeError(c *gin.Context, err error) {
	h.l.Warnf(c.Request.Context(), "Rejecting undecodable payload: %v", err)
	c.JSON(http.StatusOK, gin.H{
		"status":  "error",
		"type":    model.ErrorTypeDecode,
		"message": err.Error(),
	})
}
