package pushover

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend(t *testing.T) {
	t.Run("Posts Form Fields", func(t *testing.T) {
		var gotForm map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Errorf("ParseForm() error = %v", err)
			}
			gotForm = map[string]string{}
			for key := range r.PostForm {
				gotForm[key] = r.PostForm.Get(key)
			}
		}))
		defer server.Close()

		client := New("userkey", "apptoken")
		client.SetAPIURL(server.URL)

		msg := Message{
			Text:     "repo: x\nbranch: master",
			Title:    "Hook for p>t ran successfully",
			URL:      "http://localhost/status/abc",
			URLTitle: "Job results",
		}
		if err := client.Send(context.Background(), msg); err != nil {
			t.Fatalf("Send() error = %v", err)
		}

		want := map[string]string{
			"user":      "userkey",
			"token":     "apptoken",
			"message":   "repo: x\nbranch: master",
			"title":     "Hook for p>t ran successfully",
			"url":       "http://localhost/status/abc",
			"url_title": "Job results",
		}
		for key, value := range want {
			if gotForm[key] != value {
				t.Errorf("form[%q] = %q, want %q", key, gotForm[key], value)
			}
		}
	})

	t.Run("Non-200 Is An Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errors": ["user key is invalid"]}`))
		}))
		defer server.Close()

		client := New("userkey", "apptoken")
		client.SetAPIURL(server.URL)

		if err := client.Send(context.Background(), Message{Text: "x"}); err == nil {
			t.Fatal("expected error for 400 response")
		}
	})
}
