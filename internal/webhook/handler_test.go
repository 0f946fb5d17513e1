package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"webhaak/internal/joblog"
	"webhaak/internal/model"
	"webhaak/internal/notify"
	"webhaak/internal/queue"
	"webhaak/internal/trigger"
	"webhaak/pkg/log"
)

const handlerProjectsYAML = `
myproject:
  app_key: abc123
  triggers:
    deploy:
      trigger_key: deploykey
      repo: https://example.com/myrepo.git
      branch: main
      command: deploy.sh REPODIR
    relay:
      trigger_key: relaykey
      call_url:
        url: https://example.com/receiver
        post: true
        json: true
`

type mockQueue struct {
	enqueueFunc func(ctx context.Context, job queue.Job) error
	jobs        []queue.Job
}

func (m *mockQueue) Enqueue(ctx context.Context, job queue.Job) error {
	m.jobs = append(m.jobs, job)
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, job)
	}
	return nil
}

func (m *mockQueue) Dequeue(ctx context.Context) (queue.Job, error) {
	return queue.Job{}, nil
}

func (m *mockQueue) SetStatus(ctx context.Context, jobID, status string) error { return nil }

func (m *mockQueue) SetResult(ctx context.Context, jobID, status string, result model.Result) error {
	return nil
}

func (m *mockQueue) State(ctx context.Context, jobID string) (queue.State, error) {
	return queue.State{Status: queue.StatusUnknown}, nil
}

type mockRelayNotifier struct {
	notify.Notifier
	relayFunc func(ctx context.Context, cfg trigger.Config, payload []byte) (string, string)
	relayed   [][]byte
}

func (m *mockRelayNotifier) Relay(ctx context.Context, cfg trigger.Config, payload []byte) (string, string) {
	m.relayed = append(m.relayed, payload)
	if m.relayFunc != nil {
		return m.relayFunc(ctx, cfg, payload)
	}
	return "OK", "received"
}

func newTestRouter(t *testing.T, q *mockQueue, notifier *mockRelayNotifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry, err := trigger.Parse([]byte(handlerProjectsYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	handler := NewHandler(Config{
		Logger:    log.Init(log.ZapConfig{Level: "debug"}),
		Registry:  registry,
		Queue:     q,
		JobLogs:   joblog.New(t.TempDir()),
		Notifier:  notifier,
		Security:  NewSecurityValidator(SecurityConfig{SecretKey: "secret", RateLimitPerMin: 1000}),
		ServerURL: "http://localhost:8081/",
	})

	router := gin.New()
	router.Any("/app/:appkey/:triggerkey", handler.HandleTrigger)
	return router
}

func performRequest(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleTrigger(t *testing.T) {
	t.Run("Unknown Trigger", func(t *testing.T) {
		router := newTestRouter(t, &mockQueue{}, &mockRelayNotifier{})
		w := performRequest(router, http.MethodGet, "/app/abc123/nosuchkey", "", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("Get Fires Without Payload", func(t *testing.T) {
		q := &mockQueue{}
		router := newTestRouter(t, q, &mockRelayNotifier{})
		w := performRequest(router, http.MethodGet, "/app/abc123/deploykey", "", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if len(q.jobs) != 1 {
			t.Fatalf("expected 1 job, got %d", len(q.jobs))
		}
		job := q.jobs[0]
		if job.Kind != queue.KindPush || job.Project != "myproject" || job.TriggerTitle != "deploy" {
			t.Errorf("unexpected job %+v", job)
		}

		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body["status"] != "OK" || body["job_id"] != job.ID {
			t.Errorf("unexpected response %v", body)
		}
		if url, _ := body["url"].(string); url != "http://localhost:8081/status/"+job.ID {
			t.Errorf("unexpected url %q", url)
		}
	})

	t.Run("GitHub Ping Gets A Greeting", func(t *testing.T) {
		q := &mockQueue{}
		router := newTestRouter(t, q, &mockRelayNotifier{})
		w := performRequest(router, http.MethodPost, "/app/abc123/deploykey",
			`{"zen": "Design for failure."}`, map[string]string{"X-GitHub-Event": "ping"})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Hi!") {
			t.Errorf("expected greeting, got %s", w.Body.String())
		}
		if len(q.jobs) != 0 {
			t.Errorf("expected no jobs, got %d", len(q.jobs))
		}
	})

	t.Run("GitHub Push Enqueues Job", func(t *testing.T) {
		q := &mockQueue{}
		router := newTestRouter(t, q, &mockRelayNotifier{})
		payload := `{
			"ref": "refs/heads/main",
			"after": "bbb222",
			"repository": {"full_name": "owner/myrepo", "name": "myrepo"},
			"pusher": {"name": "alice", "email": "alice@example.com"}
		}`
		w := performRequest(router, http.MethodPost, "/app/abc123/deploykey",
			payload, map[string]string{"X-GitHub-Event": "push"})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if len(q.jobs) != 1 {
			t.Fatalf("expected 1 job, got %d", len(q.jobs))
		}
		job := q.jobs[0]
		if job.Kind != queue.KindPush || job.Hook.Branch != "main" || job.Hook.VCSSource != model.SourceGitHub {
			t.Errorf("unexpected job %+v", job)
		}
		if job.Hook.RepoName != "owner/myrepo" {
			t.Errorf("unexpected repo name %q", job.Hook.RepoName)
		}
	})

	t.Run("Sentry Event Enqueues Sentry Job", func(t *testing.T) {
		q := &mockQueue{}
		router := newTestRouter(t, q, &mockRelayNotifier{})
		payload := `{"project_name": "backend", "event": {"title": "Boom"}}`
		w := performRequest(router, http.MethodPost, "/app/abc123/deploykey",
			payload, map[string]string{"Sentry-Trace": "abc"})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if len(q.jobs) != 1 || q.jobs[0].Kind != queue.KindSentry {
			t.Fatalf("expected sentry job, got %+v", q.jobs)
		}
		if q.jobs[0].Hook.Title != "Boom" {
			t.Errorf("unexpected hook %+v", q.jobs[0].Hook)
		}
	})

	t.Run("Statuspage Event Enqueues Statuspage Job", func(t *testing.T) {
		q := &mockQueue{}
		router := newTestRouter(t, q, &mockRelayNotifier{})
		payload := `{"incident": {"name": "Outage", "impact": "major", "status": "investigating"}}`
		w := performRequest(router, http.MethodPost, "/app/abc123/deploykey", payload, nil)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if len(q.jobs) != 1 || q.jobs[0].Kind != queue.KindStatuspage {
			t.Fatalf("expected statuspage job, got %+v", q.jobs)
		}
	})

	t.Run("Bad JSON Is A Decode Error", func(t *testing.T) {
		q := &mockQueue{}
		router := newTestRouter(t, q, &mockRelayNotifier{})
		w := performRequest(router, http.MethodPost, "/app/abc123/deploykey",
			"not json", map[string]string{"X-GitHub-Event": "push"})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), model.ErrorTypeDecode) {
			t.Errorf("expected decode_error in %s", w.Body.String())
		}
		if len(q.jobs) != 0 {
			t.Errorf("expected no jobs, got %d", len(q.jobs))
		}
	})

	t.Run("Call URL Relays Synchronously", func(t *testing.T) {
		q := &mockQueue{}
		notifier := &mockRelayNotifier{}
		router := newTestRouter(t, q, notifier)
		payload := `{"ref": "refs/heads/main", "repository": {"full_name": "owner/repo"}}`
		w := performRequest(router, http.MethodPost, "/app/abc123/relaykey",
			payload, map[string]string{"X-GitHub-Event": "push"})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if len(notifier.relayed) != 1 || string(notifier.relayed[0]) != payload {
			t.Errorf("expected raw payload relayed, got %v", notifier.relayed)
		}
		if len(q.jobs) != 0 {
			t.Errorf("expected no jobs for relay trigger, got %d", len(q.jobs))
		}
		if !strings.Contains(w.Body.String(), `"status":"OK"`) {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})
}
