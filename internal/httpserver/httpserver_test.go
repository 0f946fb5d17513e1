package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"webhaak/internal/joblog"
	"webhaak/internal/model"
	"webhaak/internal/queue"
	"webhaak/internal/trigger"
	"webhaak/internal/webhook"
	"webhaak/pkg/log"
)

const serverProjectsYAML = `
myproject:
  app_key: abc123
  triggers:
    deploy:
      trigger_key: deploykey
      repo: https://example.com/myrepo.git
`

type stubQueue struct {
	stateFunc func(ctx context.Context, jobID string) (queue.State, error)
}

func (s *stubQueue) Enqueue(ctx context.Context, job queue.Job) error          { return nil }
func (s *stubQueue) Dequeue(ctx context.Context) (queue.Job, error)            { return queue.Job{}, nil }
func (s *stubQueue) SetStatus(ctx context.Context, jobID, status string) error { return nil }

func (s *stubQueue) SetResult(ctx context.Context, jobID, status string, result model.Result) error {
	return nil
}

func (s *stubQueue) State(ctx context.Context, jobID string) (queue.State, error) {
	if s.stateFunc != nil {
		return s.stateFunc(ctx, jobID)
	}
	return queue.State{Status: queue.StatusUnknown}, nil
}

func newTestServer(t *testing.T, q queue.Queue, logs *joblog.Store) *gin.Engine {
	t.Helper()

	logger := log.Init(log.ZapConfig{Level: "debug"})
	registry, err := trigger.Parse([]byte(serverProjectsYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	security := webhook.NewSecurityValidator(webhook.SecurityConfig{SecretKey: "topsecret", RateLimitPerMin: 1000})

	if logs == nil {
		logs = joblog.New(t.TempDir())
	}
	handler := webhook.NewHandler(webhook.Config{
		Logger:    logger,
		Registry:  registry,
		Queue:     q,
		JobLogs:   logs,
		Security:  security,
		ServerURL: "http://localhost:8081/",
	})

	srv, err := New(logger, Config{
		Port:           8081,
		Mode:           gin.TestMode,
		Environment:    "test",
		ServerURL:      "http://localhost:8081/",
		Registry:       registry,
		Queue:          q,
		JobLogs:        logs,
		WebhookHandler: handler,
		Security:       security,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv.Engine()
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSystemRoutes(t *testing.T) {
	router := newTestServer(t, &stubQueue{}, nil)

	t.Run("Monitor", func(t *testing.T) {
		for _, path := range []string{"/monitor", "/monitor/", "/monitor/monitor.html"} {
			if w := get(router, path); w.Code != http.StatusOK || w.Body.String() != "OK" {
				t.Errorf("GET %s = %d %q", path, w.Code, w.Body.String())
			}
		}
	})

	t.Run("Index", func(t *testing.T) {
		if w := get(router, "/"); w.Code != http.StatusOK {
			t.Errorf("GET / = %d", w.Code)
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		if w := get(router, "/metrics"); w.Code != http.StatusOK {
			t.Errorf("GET /metrics = %d", w.Code)
		}
	})
}

func TestAdminRoutes(t *testing.T) {
	router := newTestServer(t, &stubQueue{}, nil)

	t.Run("List With Valid Secret", func(t *testing.T) {
		w := get(router, "/admin/topsecret/list")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var body map[string]trigger.ProjectInfo
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		project, ok := body["myproject"]
		if !ok || project.AppKey != "abc123" {
			t.Fatalf("unexpected listing %v", body)
		}
		if len(project.Triggers) != 1 || project.Triggers[0].URL != "http://localhost:8081/app/abc123/deploykey" {
			t.Errorf("unexpected triggers %v", project.Triggers)
		}
	})

	t.Run("List With Wrong Secret", func(t *testing.T) {
		if w := get(router, "/admin/wrong/list"); w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("Generate App Key", func(t *testing.T) {
		w := get(router, "/admin/topsecret/get_app_key")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(body["app_key"]) != 48 {
			t.Errorf("unexpected app key %q", body["app_key"])
		}
	})
}

func TestJobStatus(t *testing.T) {
	t.Run("Unknown Job", func(t *testing.T) {
		router := newTestServer(t, &stubQueue{}, nil)
		w := get(router, "/status/nosuchjob")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"status":"unknown"`) {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("Finished Job With Result And Log", func(t *testing.T) {
		q := &stubQueue{
			stateFunc: func(ctx context.Context, jobID string) (queue.State, error) {
				return queue.State{
					Status: queue.StatusFailed,
					Result: &model.Result{
						Status:  model.StatusError,
						Type:    model.ErrorTypeCommand,
						Message: "line one\nline two",
						Runtime: 1500 * time.Millisecond,
					},
				}, nil
			},
		}
		logs := joblog.New(t.TempDir())
		if err := logs.Write("job42", "push event\n== Command output ======\nhello\n"); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		router := newTestServer(t, q, logs)
		w := get(router, "/status/job42")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var body struct {
			JobID  string `json:"job_id"`
			Status string `json:"status"`
			Result struct {
				Status  string   `json:"status"`
				Type    string   `json:"type"`
				Message []string `json:"message"`
				Runtime float64  `json:"runtime"`
			} `json:"result"`
			Log []string `json:"log"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if body.Status != queue.StatusFailed || body.Result.Type != model.ErrorTypeCommand {
			t.Errorf("unexpected body %+v", body)
		}
		if len(body.Result.Message) != 2 || body.Result.Message[0] != "line one" {
			t.Errorf("unexpected message lines %v", body.Result.Message)
		}
		if body.Result.Runtime != 1.5 {
			t.Errorf("unexpected runtime %v", body.Result.Runtime)
		}
		if len(body.Log) < 3 || body.Log[0] != "push event" {
			t.Errorf("unexpected log %v", body.Log)
		}
	})
}
