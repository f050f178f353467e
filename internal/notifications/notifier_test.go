package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"srttranslate/internal/config"
	"srttranslate/internal/notifications"
)

func TestNewReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	n := notifications.New(&cfg)
	if err := n.RunCompleted(context.Background(), "/media/a.srt", 3, time.Second); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.New(nil).Test(context.Background()); err != nil {
		t.Fatalf("nil config notifier: %v", err)
	}
}

func TestNtfyNotifierFormatsMessages(t *testing.T) {
	type request struct {
		title, tags, priority, body string
	}
	var got []request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = append(got, request{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	n := notifications.New(&cfg)
	ctx := context.Background()

	if err := n.RunCompleted(ctx, "/media/Show/e01.srt", 12, 95*time.Second); err != nil {
		t.Fatalf("RunCompleted: %v", err)
	}
	if err := n.RunFailed(ctx, "/media/e02.srt", errors.New("timeout: verify")); err != nil {
		t.Fatalf("RunFailed: %v", err)
	}
	if err := n.BatchCompleted(ctx, 3, 1, time.Minute); err != nil {
		t.Fatalf("BatchCompleted: %v", err)
	}

	want := []request{
		{title: "srt-translate - Translated", tags: "srt-translate,translate,completed", body: "e01.srt: 12 entries in 1m35s"},
		{title: "srt-translate - Failed", tags: "srt-translate,error,alert", priority: "high", body: "e02.srt: timeout: verify"},
		{title: "srt-translate - Batch Complete", tags: "srt-translate,batch,completed", body: "3 translated, 1 failed in 1m0s"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d requests, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("request %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNtfyNotifierReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic reserved", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	err := notifications.New(&cfg).Test(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "topic reserved") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}
