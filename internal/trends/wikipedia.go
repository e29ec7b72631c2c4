package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const wikipediaTopURL = "https://wikimedia.org/api/rest_v1/metrics/pageviews/top/en.wikipedia/all-access"

// Wikipedia reads yesterday's most viewed English Wikipedia articles.
type Wikipedia struct {
	BaseURL string
	Max     int
	Now     func() time.Time
	fetcher *Fetcher
}

func NewWikipedia(f *Fetcher, max int) *Wikipedia {
	return &Wikipedia{BaseURL: wikipediaTopURL, Max: max, Now: time.Now, fetcher: f}
}

func (w *Wikipedia) Name() string { return "wikipedia" }

type pageviewsResponse struct {
	Items []struct {
		Articles []struct {
			Article string `json:"article"`
			Views   int    `json:"views"`
			Rank    int    `json:"rank"`
		} `json:"articles"`
	} `json:"items"`
}

func (w *Wikipedia) Fetch(ctx context.Context) []string {
	items, err := w.fetch(ctx)
	if err != nil {
		slog.Warn("wikipedia pageviews fetch failed", "error", err)
		return nil
	}
	return limit(items, w.Max)
}

func (w *Wikipedia) fetch(ctx context.Context) ([]string, error) {
	day := w.Now().UTC().AddDate(0, 0, -1)
	body, err := w.fetcher.get(ctx, w.BaseURL+day.Format("/2006/01/02"))
	if err != nil {
		return nil, err
	}
	var resp pageviewsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse pageviews: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	var out []string
	for _, a := range resp.Items[0].Articles {
		// Main_Page and namespaced pages (Special:, File:, ...) are not topics.
		if a.Article == "Main_Page" || strings.Contains(a.Article, ":") {
			continue
		}
		out = append(out, strings.ReplaceAll(a.Article, "_", " "))
	}
	return out, nil
}
