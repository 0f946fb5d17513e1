package notify

import (
	"net/http"
	"time"

	"webhaak/pkg/log"
	"webhaak/pkg/telegram"
)

type implNotifier struct {
	l        log.Logger
	pushover PushoverSender
	telegram TelegramFactory
	client   *http.Client
}

// New builds the notifier. The Pushover sender carries the process-wide
// user key and app token; Telegram bots are built per trigger token.
func New(l log.Logger, po PushoverSender) Notifier {
	return &implNotifier{
		l:        l,
		pushover: po,
		telegram: func(token string) TelegramSender {
			return telegram.NewBot(token)
		},
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewWithSenders wires explicit senders and relay client, for tests.
func NewWithSenders(l log.Logger, po PushoverSender, tf TelegramFactory, client *http.Client) Notifier {
	return &implNotifier{
		l:        l,
		pushover: po,
		telegram: tf,
		client:   client,
	}
}
