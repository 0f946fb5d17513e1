package notify

import (
	"context"

	"webhaak/internal/model"
	"webhaak/internal/trigger"
	"webhaak/pkg/pushover"
)

// Notifier reports pipeline outcomes and relays event payloads.
type Notifier interface {
	// NotifyResult sends the generic run summary via Telegram when the
	// trigger configures it, via the process-wide Pushover identity
	// otherwise.
	NotifyResult(ctx context.Context, result model.Result, project, title string, cfg trigger.Config) error

	// NotifySentry formats and delivers an error-tracking event; messages
	// matching the trigger's ignore list are suppressed.
	NotifySentry(ctx context.Context, hook model.HookInfo, cfg trigger.Config) error

	// NotifyStatuspage delivers a status-page incident update via Pushover.
	NotifyStatuspage(ctx context.Context, hook model.HookInfo) error

	// NotifyFreshping delivers an uptime-monitor state change.
	NotifyFreshping(ctx context.Context, hook model.HookInfo, cfg trigger.Config) error

	// Relay forwards a raw payload to the trigger's call_url and returns
	// the call status ("OK"/"ERROR") plus the response body.
	Relay(ctx context.Context, cfg trigger.Config, payload []byte) (string, string)
}

// TelegramSender sends one text message to a chat.
type TelegramSender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// PushoverSender sends one Pushover message.
type PushoverSender interface {
	Send(ctx context.Context, msg pushover.Message) error
}

// TelegramFactory builds a sender for a per-trigger bot token.
type TelegramFactory func(token string) TelegramSender
