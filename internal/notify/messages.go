package notify

import (
	"fmt"
	"strings"

	"webhaak/internal/model"
)

// makeSentryMessage formats an error-tracking event as a Markdown
// notification. The referrer marker Sentry appends to issue links is
// stripped so the link stays canonical.
func makeSentryMessage(hook model.HookInfo) (title, message, url string) {
	title = fmt.Sprintf("💣 [%s] %s", hook.ProjectName, hook.Title)
	url = strings.Replace(hook.URL, "?referrer=webhooks_plugin", "", 1)

	var b strings.Builder
	fmt.Fprintf(&b, "`%s`", hook.Culprit)
	if hook.Message != "" {
		fmt.Fprintf(&b, "\n\n%s", hook.Message)
	}
	fmt.Fprintf(&b, "\n\n```python\n%s\n```", hook.Stacktrace)
	fmt.Fprintf(&b, "\n\n[%s](%s)", url, url)
	return title, b.String(), url
}

// makeStatuspageMessage formats a status-page incident update, most recent
// updates included in payload order.
func makeStatuspageMessage(hook model.HookInfo) (title, message string) {
	title = "⚠️ " + hook.Title

	var b strings.Builder
	fmt.Fprintf(&b, "Impact: %s\nStatus: %s\nStarted: %s\nUpdated: %s",
		hook.Impact, hook.Status, hook.CreatedAt, hook.UpdatedAt)
	for _, update := range hook.IncidentUpdates {
		fmt.Fprintf(&b, "\n\n%s at %s:\n%s", update.Status, update.DisplayAt, update.Body)
	}
	if hook.URL != "" {
		fmt.Fprintf(&b, "\n\n%s", hook.URL)
	}
	return title, b.String()
}

// makeFreshpingMessage formats an uptime-monitor state change. Available
// checks get a green check, everything else the alarm marker.
func makeFreshpingMessage(hook model.HookInfo) (title, message string) {
	state := "🚨"
	if hook.ResponseSummary == "Available" {
		state = "✅"
	}
	title = fmt.Sprintf("%s [%s] %s", state, hook.CheckName, hook.ResponseState)

	var b strings.Builder
	b.WriteString(hook.Text)
	if hook.ResponseSummary != "" {
		fmt.Fprintf(&b, "\n\n→ %s", hook.ResponseSummary)
	}
	if hook.CheckURL != "" {
		fmt.Fprintf(&b, "\n\n🔗 %s", hook.CheckURL)
	}
	return title, b.String()
}
