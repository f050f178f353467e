package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"srttranslate/internal/config"
)

const userAgent = "srt-translate/0.1.0"

// Notifier reports run outcomes.
type Notifier interface {
	RunCompleted(ctx context.Context, input string, entries int, duration time.Duration) error
	RunFailed(ctx context.Context, input string, err error) error
	BatchCompleted(ctx context.Context, processed, failed int, duration time.Duration) error
	Test(ctx context.Context) error
}

// New returns an ntfy-backed notifier, or a noop one when no topic is set.
func New(cfg *config.Config) Notifier {
	if cfg == nil {
		return noopNotifier{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopNotifier{}
	}
	timeout := cfg.NotificationTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyNotifier{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyNotifier struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyNotifier) RunCompleted(ctx context.Context, input string, entries int, duration time.Duration) error {
	return n.send(ctx, message{
		title: "srt-translate - Translated",
		body:  fmt.Sprintf("%s: %d entries in %s", filepath.Base(input), entries, duration.Round(time.Second)),
		tags:  []string{"srt-translate", "translate", "completed"},
	})
}

func (n *ntfyNotifier) RunFailed(ctx context.Context, input string, runErr error) error {
	var b strings.Builder
	b.WriteString(filepath.Base(input))
	if runErr != nil {
		b.WriteString(": ")
		b.WriteString(runErr.Error())
	}
	return n.send(ctx, message{
		title:    "srt-translate - Failed",
		body:     b.String(),
		tags:     []string{"srt-translate", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyNotifier) BatchCompleted(ctx context.Context, processed, failed int, duration time.Duration) error {
	body := fmt.Sprintf("%d files translated in %s", processed, duration.Round(time.Second))
	if failed > 0 {
		body = fmt.Sprintf("%d translated, %d failed in %s", processed, failed, duration.Round(time.Second))
	}
	return n.send(ctx, message{
		title: "srt-translate - Batch Complete",
		body:  body,
		tags:  []string{"srt-translate", "batch", "completed"},
	})
}

func (n *ntfyNotifier) Test(ctx context.Context) error {
	return n.send(ctx, message{
		title:    "srt-translate - Test",
		body:     "Notification system test",
		tags:     []string{"srt-translate", "test"},
		priority: "low",
	})
}

func (n *ntfyNotifier) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) RunCompleted(context.Context, string, int, time.Duration) error { return nil }
func (noopNotifier) RunFailed(context.Context, string, error) error                 { return nil }
func (noopNotifier) BatchCompleted(context.Context, int, int, time.Duration) error  { return nil }
func (noopNotifier) Test(context.Context) error                                     { return nil }
