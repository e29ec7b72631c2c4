package quality

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is the part of a rendered post page the validator scores.
type Page struct {
	Title     string
	Content   string // article body HTML without the post header
	Meta      string
	Published time.Time // zero when the page carries no publish time
}

// ParsePage extracts a post from a rendered HTML page. Pages without an
// article element are scored on their whole body.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	p := &Page{}
	p.Title = strings.TrimSpace(doc.Find("article h1").First().Text())
	if p.Title == "" {
		p.Title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
	}
	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	p.Title = strings.TrimSpace(p.Title)

	p.Meta, _ = doc.Find(`meta[name="description"]`).Attr("content")
	p.Meta = strings.TrimSpace(p.Meta)

	if v, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			p.Published = t
		}
	}

	body := doc.Find("article").First()
	if body.Length() == 0 {
		body = doc.Find("body")
	}
	body.Find("header").Remove()
	html, err := body.Html()
	if err != nil {
		return nil, fmt.Errorf("read article: %w", err)
	}
	p.Content = strings.TrimSpace(html)
	return p, nil
}
