package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendMessage(t *testing.T) {
	t.Run("Sends Chat ID And Text", func(t *testing.T) {
		var gotPath, gotChatID, gotText string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotChatID = r.URL.Query().Get("chat_id")
			gotText = r.URL.Query().Get("text")
			w.Write([]byte(`{"ok": true}`))
		}))
		defer server.Close()

		bot := NewBot("testtoken")
		bot.SetAPIURL(server.URL)

		if err := bot.SendMessage(context.Background(), "42", "hello there"); err != nil {
			t.Fatalf("SendMessage() error = %v", err)
		}
		if gotPath != "/sendMessage" {
			t.Errorf("unexpected path %q", gotPath)
		}
		if gotChatID != "42" || gotText != "hello there" {
			t.Errorf("unexpected params chat_id=%q text=%q", gotChatID, gotText)
		}
	})

	t.Run("API Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
		}))
		defer server.Close()

		bot := NewBot("testtoken")
		bot.SetAPIURL(server.URL)

		err := bot.SendMessage(context.Background(), "42", "hello")
		if err == nil {
			t.Fatal("expected error for ok=false response")
		}
	})
}
