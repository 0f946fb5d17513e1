package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"webhaak/internal/model"
	"webhaak/internal/trigger"
	"webhaak/pkg/pushover"
)

// relayUserAgent identifies outbound relay requests to the receiving end.
const relayUserAgent = "webhaak"

func (n *implNotifier) NotifyResult(ctx context.Context, result model.Result, project, title string, cfg trigger.Config) error {
	repo := cfg.Repo
	if repo == "" {
		repo = "n/a"
	}
	command := cfg.Command
	if command == "" {
		command = "n/a"
	}

	message := fmt.Sprintf("repo: %s\nbranch: %s\ncommand: %s\nruntime: %.2fs",
		repo, cfg.BranchOrDefault(), command, result.Runtime.Seconds())

	var header string
	if result.Status == model.StatusOK {
		header = fmt.Sprintf("Hook for %s>%s ran successfully", project, title)
	} else {
		header = fmt.Sprintf("Hook for %s>%s failed: %s", project, title, result.Type)
		if result.Message != "" {
			message += "\n\n" + result.Message
		}
	}

	if usesTelegram(cfg) {
		return n.sendTelegram(ctx, cfg, header+"\n\n"+message)
	}
	return n.pushover.Send(ctx, pushover.Message{
		Text:     message,
		Title:    header,
		URL:      result.JobURL,
		URLTitle: "Job results",
	})
}

func (n *implNotifier) NotifySentry(ctx context.Context, hook model.HookInfo, cfg trigger.Config) error {
	for _, entry := range cfg.Ignore {
		if entry != "" && strings.Contains(hook.Title, entry) {
			n.l.Infof(ctx, "Suppressing error event matching ignore entry %q", entry)
			return nil
		}
	}

	title, message, url := makeSentryMessage(hook)
	if usesTelegram(cfg) {
		return n.sendTelegram(ctx, cfg, title+"\n\n"+message)
	}
	return n.pushover.Send(ctx, pushover.Message{
		Text:     message,
		Title:    title,
		URL:      url,
		URLTitle: "View issue",
	})
}

func (n *implNotifier) NotifyStatuspage(ctx context.Context, hook model.HookInfo) error {
	title, message := makeStatuspageMessage(hook)
	return n.pushover.Send(ctx, pushover.Message{Text: message, Title: title})
}

func (n *implNotifier) NotifyFreshping(ctx context.Context, hook model.HookInfo, cfg trigger.Config) error {
	title, message := makeFreshpingMessage(hook)
	if usesTelegram(cfg) {
		return n.sendTelegram(ctx, cfg, title+"\n\n"+message)
	}
	return n.pushover.Send(ctx, pushover.Message{Text: message, Title: title})
}

// Relay forwards the payload to the trigger's call_url. The call is
// considered OK for response codes up to and including 200.
func (n *implNotifier) Relay(ctx context.Context, cfg trigger.Config, payload []byte) (string, string) {
	if cfg.CallURL == nil || cfg.CallURL.URL == "" {
		return "ERROR", "no call_url configured"
	}

	var req *http.Request
	var err error
	if cfg.CallURL.Post {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, cfg.CallURL.URL, bytes.NewReader(payload))
		if err == nil {
			req.Header.Set("User-Agent", relayUserAgent)
			if cfg.CallURL.JSON {
				req.Header.Set("Content-Type", "application/json")
			}
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, cfg.CallURL.URL, nil)
	}
	if err != nil {
		return "ERROR", err.Error()
	}

	resp, err := n.client.Do(req)
	if err != nil {
		n.l.Warnf(ctx, "Outgoing call to %s failed: %v", cfg.CallURL.URL, err)
		return "ERROR", err.Error()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "ERROR", err.Error()
	}
	if resp.StatusCode > http.StatusOK {
		return "ERROR", string(body)
	}
	return "OK", string(body)
}

func usesTelegram(cfg trigger.Config) bool {
	return cfg.TelegramChatID != "" && cfg.TelegramToken != ""
}

func (n *implNotifier) sendTelegram(ctx context.Context, cfg trigger.Config, text string) error {
	return n.telegram(cfg.TelegramToken).SendMessage(ctx, cfg.TelegramChatID, text)
}
