package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/post"
)

// ErrNoURLSet means an existing sitemap has no closing </urlset> to insert before.
var ErrNoURLSet = errors.New("sitemap has no closing </urlset>")

const urlsetClose = "</urlset>"

type staticPage struct {
	path       string
	priority   string
	changefreq string
}

var staticPages = []staticPage{
	{"", "1.0", "daily"},
	{"features.html", "0.9", "weekly"},
	{"about.html", "0.8", "monthly"},
	{"contact.html", "0.7", "monthly"},
	{"privacy.html", "0.6", "yearly"},
	{"cosmic-insights.html", "0.8", "weekly"},
	{"blog/", "0.9", "daily"},
}

// NewSitemap returns a sitemap listing only the static site pages.
func NewSitemap(site config.SiteConfig, now time.Time) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">` + "\n")
	day := now.Format(time.DateOnly)
	for _, p := range staticPages {
		fmt.Fprintf(&b, "  <url>\n    <loc>%s</loc>\n    <lastmod>%s</lastmod>\n    <changefreq>%s</changefreq>\n    <priority>%s</priority>\n",
			escape(site.URL+"/"+p.path), day, p.changefreq, p.priority)
		if p.path == "" || p.path == "features.html" {
			writeImage(&b, site.URL+"/assets/icons/app_icon.png", "AstroAura - AI-Powered Astrology App")
		}
		b.WriteString("  </url>\n")
	}
	b.WriteString(urlsetClose + "\n")
	return b.String()
}

// AppendURLs inserts a <url> entry for every post whose URL is not already
// present as a <loc> in doc. It returns the new document and how many entries
// were added.
func AppendURLs(doc string, site config.SiteConfig, posts []post.Record) (string, int, error) {
	end := strings.LastIndex(doc, urlsetClose)
	if end < 0 {
		return doc, 0, ErrNoURLSet
	}

	var b strings.Builder
	added := 0
	seen := make(map[string]bool)
	for _, p := range posts {
		loc := "<loc>" + escape(site.PostURL(p.Slug)) + "</loc>"
		if seen[loc] || strings.Contains(doc, loc) {
			continue
		}
		seen[loc] = true
		fmt.Fprintf(&b, "  <url>\n    %s\n    <lastmod>%s</lastmod>\n    <changefreq>monthly</changefreq>\n    <priority>0.7</priority>\n",
			loc, p.Date.Format(time.DateOnly))
		image := p.Image
		if image == "" {
			image = site.Image
		}
		writeImage(&b, image, truncate(p.Title, 100))
		b.WriteString("  </url>\n")
		added++
	}
	if added == 0 {
		return doc, 0, nil
	}
	return doc[:end] + b.String() + doc[end:], added, nil
}

func writeImage(b *strings.Builder, loc, caption string) {
	fmt.Fprintf(b, "    <image:image>\n      <image:loc>%s</image:loc>\n      <image:caption>%s</image:caption>\n    </image:image>\n",
		escape(loc), escape(caption))
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
