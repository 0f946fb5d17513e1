package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"webhaak/internal/model"
	"webhaak/internal/trigger"
	"webhaak/pkg/log"
	"webhaak/pkg/pushover"
)

type mockPushover struct {
	sendFunc func(ctx context.Context, msg pushover.Message) error
	sent     []pushover.Message
}

func (m *mockPushover) Send(ctx context.Context, msg pushover.Message) error {
	m.sent = append(m.sent, msg)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

type mockTelegram struct {
	sent []string
}

func (m *mockTelegram) SendMessage(ctx context.Context, chatID, text string) error {
	m.sent = append(m.sent, chatID+"|"+text)
	return nil
}

func newTestNotifier(t *testing.T, po *mockPushover, tg *mockTelegram) Notifier {
	t.Helper()
	l := log.Init(log.ZapConfig{Level: "debug"})
	return NewWithSenders(l, po, func(token string) TelegramSender { return tg }, &http.Client{Timeout: 5 * time.Second})
}

func TestNotifyResult(t *testing.T) {
	ctx := context.Background()

	t.Run("Success Via Pushover", func(t *testing.T) {
		po := &mockPushover{}
		n := newTestNotifier(t, po, &mockTelegram{})

		result := model.Result{Status: model.StatusOK, Runtime: 1250 * time.Millisecond, JobURL: "http://localhost/status/abc"}
		cfg := trigger.Config{Repo: "https://example.com/repo.git", Command: "make deploy"}
		if err := n.NotifyResult(ctx, result, "myproject", "deploy", cfg); err != nil {
			t.Fatalf("NotifyResult() error = %v", err)
		}

		if len(po.sent) != 1 {
			t.Fatalf("expected 1 pushover message, got %d", len(po.sent))
		}
		msg := po.sent[0]
		if msg.Title != "Hook for myproject>deploy ran successfully" {
			t.Errorf("unexpected title %q", msg.Title)
		}
		want := "repo: https://example.com/repo.git\nbranch: master\ncommand: make deploy\nruntime: 1.25s"
		if msg.Text != want {
			t.Errorf("unexpected text %q, want %q", msg.Text, want)
		}
		if msg.URL != "http://localhost/status/abc" || msg.URLTitle != "Job results" {
			t.Errorf("unexpected link fields %q %q", msg.URL, msg.URLTitle)
		}
	})

	t.Run("Failure Appends Error Message", func(t *testing.T) {
		po := &mockPushover{}
		n := newTestNotifier(t, po, &mockTelegram{})

		result := model.Result{Status: model.StatusError, Type: model.ErrorTypeCommand, Message: "exit status 2"}
		if err := n.NotifyResult(ctx, result, "myproject", "deploy", trigger.Config{}); err != nil {
			t.Fatalf("NotifyResult() error = %v", err)
		}

		msg := po.sent[0]
		if msg.Title != "Hook for myproject>deploy failed: command_error" {
			t.Errorf("unexpected title %q", msg.Title)
		}
		if !strings.Contains(msg.Text, "repo: n/a") || !strings.Contains(msg.Text, "command: n/a") {
			t.Errorf("expected n/a defaults in %q", msg.Text)
		}
		if !strings.HasSuffix(msg.Text, "\n\nexit status 2") {
			t.Errorf("expected error message appended, got %q", msg.Text)
		}
	})

	t.Run("Telegram When Configured", func(t *testing.T) {
		po := &mockPushover{}
		tg := &mockTelegram{}
		n := newTestNotifier(t, po, tg)

		cfg := trigger.Config{TelegramChatID: "42", TelegramToken: "tok"}
		result := model.Result{Status: model.StatusOK}
		if err := n.NotifyResult(ctx, result, "p", "t", cfg); err != nil {
			t.Fatalf("NotifyResult() error = %v", err)
		}

		if len(po.sent) != 0 {
			t.Errorf("expected no pushover messages, got %d", len(po.sent))
		}
		if len(tg.sent) != 1 || !strings.HasPrefix(tg.sent[0], "42|Hook for p>t ran successfully\n\n") {
			t.Errorf("unexpected telegram sends %v", tg.sent)
		}
	})
}

func TestNotifySentry(t *testing.T) {
	ctx := context.Background()
	hook := model.HookInfo{
		ProjectName: "backend",
		Title:       "ZeroDivisionError: division by zero",
		Culprit:     "app.views.divide",
		Stacktrace:  "app.py in divide at line 12",
		URL:         "https://sentry.example.com/issues/1/?referrer=webhooks_plugin",
	}

	t.Run("Formats And Sends", func(t *testing.T) {
		po := &mockPushover{}
		n := newTestNotifier(t, po, &mockTelegram{})

		if err := n.NotifySentry(ctx, hook, trigger.Config{}); err != nil {
			t.Fatalf("NotifySentry() error = %v", err)
		}

		msg := po.sent[0]
		if msg.Title != "💣 [backend] ZeroDivisionError: division by zero" {
			t.Errorf("unexpected title %q", msg.Title)
		}
		if !strings.Contains(msg.Text, "`app.views.divide`") {
			t.Errorf("expected culprit in %q", msg.Text)
		}
		if !strings.Contains(msg.Text, "```python\napp.py in divide at line 12\n```") {
			t.Errorf("expected stacktrace block in %q", msg.Text)
		}
		if strings.Contains(msg.Text, "referrer=webhooks_plugin") {
			t.Errorf("expected referrer stripped from %q", msg.Text)
		}
		if msg.URL != "https://sentry.example.com/issues/1/" {
			t.Errorf("unexpected url %q", msg.URL)
		}
	})

	t.Run("Ignore List Suppresses", func(t *testing.T) {
		po := &mockPushover{}
		n := newTestNotifier(t, po, &mockTelegram{})

		cfg := trigger.Config{Ignore: []string{"ZeroDivisionError"}}
		if err := n.NotifySentry(ctx, hook, cfg); err != nil {
			t.Fatalf("NotifySentry() error = %v", err)
		}
		if len(po.sent) != 0 {
			t.Errorf("expected suppressed message, got %d sends", len(po.sent))
		}
	})
}

func TestMakeStatuspageMessage(t *testing.T) {
	hook := model.HookInfo{
		Title:     "Elevated API errors",
		Impact:    "major",
		Status:    "investigating",
		CreatedAt: "2024-05-01T10:00:00Z",
		UpdatedAt: "2024-05-01T10:30:00Z",
		URL:       "https://status.example.com/incidents/xyz",
		IncidentUpdates: []model.IncidentUpdate{
			{Status: "investigating", DisplayAt: "2024-05-01T10:30:00Z", Body: "We are looking into it"},
		},
	}

	title, message := makeStatuspageMessage(hook)
	if title != "⚠️ Elevated API errors" {
		t.Errorf("unexpected title %q", title)
	}
	for _, want := range []string{
		"Impact: major",
		"Status: investigating",
		"Started: 2024-05-01T10:00:00Z",
		"Updated: 2024-05-01T10:30:00Z",
		"investigating at 2024-05-01T10:30:00Z:\nWe are looking into it",
		"https://status.example.com/incidents/xyz",
	} {
		if !strings.Contains(message, want) {
			t.Errorf("expected %q in message %q", want, message)
		}
	}
}

func TestMakeFreshpingMessage(t *testing.T) {
	t.Run("Available", func(t *testing.T) {
		hook := model.HookInfo{
			CheckName:       "API",
			CheckURL:        "https://api.example.com",
			ResponseState:   "Responding",
			ResponseSummary: "Available",
			Text:            "API is up",
		}
		title, message := makeFreshpingMessage(hook)
		if title != "✅ [API] Responding" {
			t.Errorf("unexpected title %q", title)
		}
		if !strings.Contains(message, "→ Available") || !strings.Contains(message, "🔗 https://api.example.com") {
			t.Errorf("unexpected message %q", message)
		}
	})

	t.Run("Down", func(t *testing.T) {
		hook := model.HookInfo{CheckName: "API", ResponseState: "Not Responding", ResponseSummary: "Unavailable"}
		title, _ := makeFreshpingMessage(hook)
		if title != "🚨 [API] Not Responding" {
			t.Errorf("unexpected title %q", title)
		}
	})
}

func TestRelay(t *testing.T) {
	ctx := context.Background()

	t.Run("Post JSON", func(t *testing.T) {
		var gotMethod, gotAgent, gotType, gotBody string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotAgent = r.Header.Get("User-Agent")
			gotType = r.Header.Get("Content-Type")
			raw, _ := io.ReadAll(r.Body)
			gotBody = string(raw)
			w.Write([]byte("received"))
		}))
		defer server.Close()

		n := newTestNotifier(t, &mockPushover{}, &mockTelegram{})
		cfg := trigger.Config{CallURL: &trigger.CallURLConfig{URL: server.URL, Post: true, JSON: true}}
		status, body := n.Relay(ctx, cfg, []byte(`{"event_type":"push"}`))

		if status != "OK" || body != "received" {
			t.Errorf("Relay() = %q, %q", status, body)
		}
		if gotMethod != http.MethodPost || gotAgent != "webhaak" || gotType != "application/json" {
			t.Errorf("unexpected request: method=%q agent=%q type=%q", gotMethod, gotAgent, gotType)
		}
		if gotBody != `{"event_type":"push"}` {
			t.Errorf("unexpected body %q", gotBody)
		}
	})

	t.Run("Get", func(t *testing.T) {
		var gotMethod string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			w.Write([]byte("ok"))
		}))
		defer server.Close()

		n := newTestNotifier(t, &mockPushover{}, &mockTelegram{})
		cfg := trigger.Config{CallURL: &trigger.CallURLConfig{URL: server.URL}}
		status, _ := n.Relay(ctx, cfg, nil)

		if status != "OK" || gotMethod != http.MethodGet {
			t.Errorf("Relay() status=%q method=%q", status, gotMethod)
		}
	})

	t.Run("Error Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}))
		defer server.Close()

		n := newTestNotifier(t, &mockPushover{}, &mockTelegram{})
		cfg := trigger.Config{CallURL: &trigger.CallURLConfig{URL: server.URL, Post: true}}
		status, body := n.Relay(ctx, cfg, nil)

		if status != "ERROR" || body != "boom" {
			t.Errorf("Relay() = %q, %q", status, body)
		}
	})

	t.Run("No Call URL", func(t *testing.T) {
		n := newTestNotifier(t, &mockPushover{}, &mockTelegram{})
		status, body := n.Relay(ctx, trigger.Config{}, nil)
		if status != "ERROR" || body != "no call_url configured" {
			t.Errorf("Relay() = %q, %q", status, body)
		}
	})
}
