package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
)

const (
	googleTrendsURL  = "https://trends.google.com/trending/rss"
	googleSuggestURL = "https://suggestqueries.google.com/complete/search"
)

// GoogleTrends reads the daily trending searches feed for one region.
type GoogleTrends struct {
	Geo     string
	BaseURL string
	Max     int
	fetcher *Fetcher
}

func NewGoogleTrends(f *Fetcher, geo string, max int) *GoogleTrends {
	return &GoogleTrends{Geo: strings.ToUpper(geo), BaseURL: googleTrendsURL, Max: max, fetcher: f}
}

func (g *GoogleTrends) Name() string { return "google_trends:" + g.Geo }

func (g *GoogleTrends) Fetch(ctx context.Context) []string {
	items, err := g.fetch(ctx)
	if err != nil {
		slog.Warn("google trends fetch failed", "geo", g.Geo, "error", err)
		return nil
	}
	return limit(items, g.Max)
}

func (g *GoogleTrends) fetch(ctx context.Context) ([]string, error) {
	body, err := g.fetcher.get(ctx, g.BaseURL+"?geo="+url.QueryEscape(g.Geo))
	if err != nil {
		return nil, err
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse trends feed: %w", err)
	}
	var out []string
	for _, it := range feed.Items {
		if t := strings.TrimSpace(it.Title); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// RelatedQueries expands seed terms through the search suggestion endpoint,
// which returns ["seed", ["suggestion", ...]].
type RelatedQueries struct {
	Seeds   []string
	BaseURL string
	Max     int
	fetcher *Fetcher
}

func NewRelatedQueries(f *Fetcher, seeds []string, max int) *RelatedQueries {
	return &RelatedQueries{Seeds: seeds, BaseURL: googleSuggestURL, Max: max, fetcher: f}
}

func (r *RelatedQueries) Name() string { return "related_queries" }

func (r *RelatedQueries) Fetch(ctx context.Context) []string {
	var out []string
	for _, seed := range r.Seeds {
		items, err := r.fetchSeed(ctx, seed)
		if err != nil {
			slog.Warn("related queries fetch failed", "seed", seed, "error", err)
			continue
		}
		out = append(out, items...)
	}
	return limit(out, r.Max)
}

func (r *RelatedQueries) fetchSeed(ctx context.Context, seed string) ([]string, error) {
	u := r.BaseURL + "?client=firefox&q=" + url.QueryEscape(seed)
	body, err := r.fetcher.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("unexpected suggestion payload")
	}
	var suggestions []string
	if err := json.Unmarshal(raw[1], &suggestions); err != nil {
		return nil, fmt.Errorf("parse suggestion list: %w", err)
	}
	var out []string
	for _, s := range suggestions {
		s = strings.TrimSpace(s)
		if s != "" && !strings.EqualFold(s, seed) {
			out = append(out, s)
		}
	}
	return out, nil
}
