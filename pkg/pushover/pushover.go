// Package pushover is a minimal client for the Pushover message API.
package pushover

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.pushover.net/1/messages.json"

// Message is one Pushover notification.
type Message struct {
	Text     string
	Title    string
	URL      string
	URLTitle string
}

// Client sends messages for one user/app identity.
type Client struct {
	userKey    string
	appToken   string
	apiURL     string
	httpClient *http.Client
}

// New creates a Pushover client for the given user key and app token.
func New(userKey, appToken string) *Client {
	return &Client{
		userKey:    userKey,
		appToken:   appToken,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SetAPIURL overrides the default Pushover API URL for testing purposes.
func (c *Client) SetAPIURL(apiURL string) {
	c.apiURL = apiURL
}

// Send posts the message as a form-encoded request.
func (c *Client) Send(ctx context.Context, msg Message) error {
	form := url.Values{}
	form.Set("user", c.userKey)
	form.Set("token", c.appToken)
	form.Set("message", msg.Text)
	if msg.Title != "" {
		form.Set("title", msg.Title)
	}
	if msg.URL != "" {
		form.Set("url", msg.URL)
	}
	if msg.URLTitle != "" {
		form.Set("url_title", msg.URLTitle)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send pushover message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pushover API error %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
