package notify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestNewDisabledWithoutTopic(t *testing.T) {
	c := New("", "tok", "published")
	if c != nil {
		t.Fatal("expected nil client")
	}
	if c.Enabled(EventPublished) {
		t.Fatal("nil client should not be enabled")
	}
	if err := c.SendPublished(context.Background(), "x", "y"); err != nil {
		t.Fatalf("nil client send: %v", err)
	}
}

func TestNewBareTopic(t *testing.T) {
	c := New("astro-posts", "", "published")
	if c.url != "https://ntfy.sh/astro-posts" {
		t.Fatalf("got %q", c.url)
	}
}

func TestEventFilteringWhitespace(t *testing.T) {
	c := New("https://ntfy.example.com/t", "", " published , failed ")
	if !c.Enabled(EventPublished) || !c.Enabled(EventFailed) {
		t.Fatal("both should be enabled")
	}
}

type captured struct {
	mu    sync.Mutex
	calls int

	title, body, priority, click, auth string
}

func capture(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.calls++
		c.title = r.Header.Get("Title")
		c.priority = r.Header.Get("Priority")
		c.click = r.Header.Get("Click")
		c.auth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		c.body = string(b)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestSendPublished(t *testing.T) {
	srv, got := capture(t, http.StatusOK)
	c := New(srv.URL, "secret", "published,failed")

	err := c.SendPublished(context.Background(), "Full Moon Release Rituals", "https://astroaura.me/blog/posts/full-moon.html")
	if err != nil {
		t.Fatal(err)
	}
	got.mu.Lock()
	defer got.mu.Unlock()
	if got.title != "New post published" || got.body != "Full Moon Release Rituals" {
		t.Fatalf("title=%q body=%q", got.title, got.body)
	}
	if got.click != "https://astroaura.me/blog/posts/full-moon.html" {
		t.Fatalf("click = %q", got.click)
	}
	if got.auth != "Bearer secret" {
		t.Fatalf("auth = %q", got.auth)
	}
}

func TestSendFailure(t *testing.T) {
	srv, got := capture(t, http.StatusOK)
	c := New(srv.URL, "", "failed")

	if err := c.SendFailure(context.Background(), "New Moon", errors.New("write page: disk full")); err != nil {
		t.Fatal(err)
	}
	got.mu.Lock()
	defer got.mu.Unlock()
	if got.priority != "high" || got.body != "New Moon: write page: disk full" {
		t.Fatalf("priority=%q body=%q", got.priority, got.body)
	}
	if got.auth != "" {
		t.Fatalf("unexpected auth header %q", got.auth)
	}
}

func TestEventFiltered(t *testing.T) {
	srv, got := capture(t, http.StatusOK)
	c := New(srv.URL, "", "failed")
	if err := c.SendPublished(context.Background(), "t", "u"); err != nil {
		t.Fatal(err)
	}
	got.mu.Lock()
	defer got.mu.Unlock()
	if got.calls != 0 {
		t.Fatal("published event should be filtered")
	}
}

func TestHTTPError(t *testing.T) {
	srv, _ := capture(t, http.StatusForbidden)
	err := New(srv.URL, "", "").SendTest(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("err = %v", err)
	}
}
