// Package notify pushes publish and failure events to an ntfy topic.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Event names accepted in the events filter.
const (
	EventPublished = "published"
	EventFailed    = "failed"
)

// Client posts to ntfy.sh or a self-hosted ntfy server. A nil *Client is a
// valid, disabled notifier.
type Client struct {
	url    string
	token  string
	events map[string]bool
	http   *http.Client
}

// New returns nil when topic is empty. topic is either a bare topic name
// (expanded to https://ntfy.sh/{topic}) or a full URL. events is a
// comma-separated filter such as "published,failed".
func New(topic, token, events string) *Client {
	if topic == "" {
		return nil
	}
	url := topic
	if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		url = "https://ntfy.sh/" + topic
	}
	ev := make(map[string]bool)
	for _, e := range strings.Split(events, ",") {
		if e = strings.TrimSpace(e); e != "" {
			ev[e] = true
		}
	}
	return &Client{url: url, token: token, events: ev, http: &http.Client{Timeout: 10 * time.Second}}
}

// Enabled reports whether event would be sent.
func (c *Client) Enabled(event string) bool {
	return c != nil && c.events[event]
}

// SendPublished announces a new post; the notification links to it.
func (c *Client) SendPublished(ctx context.Context, title, url string) error {
	if !c.Enabled(EventPublished) {
		return nil
	}
	return c.post(ctx, message{
		title:    "New post published",
		body:     title,
		priority: "default",
		tags:     "sparkles",
		click:    url,
	})
}

// SendFailure reports a failed run.
func (c *Client) SendFailure(ctx context.Context, topic string, runErr error) error {
	if !c.Enabled(EventFailed) {
		return nil
	}
	body := runErr.Error()
	if topic != "" {
		body = topic + ": " + body
	}
	return c.post(ctx, message{
		title:    "Blog run failed",
		body:     body,
		priority: "high",
		tags:     "x",
	})
}

// SendTest sends a notification regardless of the events filter.
func (c *Client) SendTest(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("ntfy: no topic configured")
	}
	return c.post(ctx, message{title: "astroblog test", body: "Push notifications are working!", priority: "default", tags: "test_tube"})
}

type message struct {
	title, body, priority, tags, click string
}

func (c *Client) post(ctx context.Context, m message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(m.body))
	if err != nil {
		return fmt.Errorf("ntfy: build request: %w", err)
	}
	req.Header.Set("Title", m.title)
	req.Header.Set("Priority", m.priority)
	req.Header.Set("Tags", m.tags)
	if m.click != "" {
		req.Header.Set("Click", m.click)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("ntfy post failed", "error", err)
		return fmt.Errorf("ntfy: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		err := fmt.Errorf("ntfy: HTTP %d", resp.StatusCode)
		slog.Warn("ntfy rejected notification", "status", resp.StatusCode)
		return err
	}
	return nil
}
