// Package trends collects candidate topics from public trend feeds and
// normalizes them into categorized Topic records.
package trends

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Source is one external trend provider. Fetch never fails: a provider that
// errors is logged and contributes nothing.
type Source interface {
	Name() string
	Fetch(ctx context.Context) []string
}

const userAgent = "astroblog/1.0 (+https://astroaura.me)"

// Fetcher is the HTTP plumbing shared by every adapter: one client, one
// limiter, so a run never bursts the public endpoints.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetcher creates a Fetcher with the given per-request timeout and
// sustained request rate.
func NewFetcher(timeout time.Duration, perSec float64) *Fetcher {
	if perSec <= 0 {
		perSec = 1
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(perSec), 1),
	}
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return body, nil
}

// Collect runs every source in order and returns their outputs in the same
// order. Earlier sources rank higher during normalization.
func Collect(ctx context.Context, sources []Source) []Labeled {
	out := make([]Labeled, 0, len(sources))
	for _, s := range sources {
		items := s.Fetch(ctx)
		slog.Debug("trend source fetched", "source", s.Name(), "count", len(items))
		out = append(out, Labeled{Source: s.Name(), Items: items})
	}
	return out
}

func limit(items []string, n int) []string {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
