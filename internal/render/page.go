package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
)

// PageData is everything the standalone post page needs.
type PageData struct {
	Title       string
	Description string
	URL         string
	Image       string
	Author      string
	Category    string
	Keywords    []string
	Date        time.Time
	ReadingTime int
	Body        string // trusted HTML from FromText or Fallback

	SiteName string
	SiteURL  string
	BlogURL  string
	Language string
}

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"join": strings.Join,
	"iso":  func(t time.Time) string { return t.Format(time.RFC3339) },
	"human": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
}).Parse(`<!DOCTYPE html>
<html lang="{{.Language}}">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} | {{.SiteName}}</title>
    <meta name="description" content="{{.Description}}">
    <meta name="keywords" content="{{join .Keywords ", "}}">
    <meta name="author" content="{{.Author}}">
    <link rel="canonical" href="{{.URL}}">
    <meta property="og:type" content="article">
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:description" content="{{.Description}}">
    <meta property="og:url" content="{{.URL}}">
    <meta property="og:image" content="{{.Image}}">
    <meta property="og:site_name" content="{{.SiteName}}">
    <meta property="article:published_time" content="{{iso .Date}}">
    <meta property="article:section" content="{{.Category}}">
    <meta name="twitter:card" content="summary_large_image">
    <meta name="twitter:title" content="{{.Title}}">
    <meta name="twitter:description" content="{{.Description}}">
    <link rel="alternate" type="application/rss+xml" title="{{.SiteName}}" href="{{.BlogURL}}/rss.xml">
    <link rel="alternate" type="application/atom+xml" title="{{.SiteName}}" href="{{.BlogURL}}/atom.xml">
    <link rel="alternate" type="application/feed+json" title="{{.SiteName}}" href="{{.BlogURL}}/feed.json">
    <link rel="stylesheet" href="/assets/css/blog.css">
    <script type="application/ld+json">{{.JSONLD}}</script>
</head>
<body>
    <header class="site-header">
        <a href="{{.SiteURL}}" class="logo">AstroAura</a>
        <nav><a href="{{.BlogURL}}/">Blog</a> <a href="{{.SiteURL}}/features.html">Features</a></nav>
    </header>
    <main>
        <article class="blog-post">
            <header class="post-header">
                <span class="post-category">{{.Category}}</span>
                <h1>{{.Title}}</h1>
                <p class="post-meta">By {{.Author}} · <time datetime="{{iso .Date}}">{{human .Date}}</time> · {{.ReadingTime}} min read</p>
            </header>
            {{.BodyHTML}}
        </article>
    </main>
    <footer class="site-footer">
        <p>&copy; {{.Date.Year}} AstroAura. <a href="{{.BlogURL}}/rss.xml">RSS</a></p>
    </footer>
</body>
</html>
`))

type pageView struct {
	PageData
	BodyHTML template.HTML
	JSONLD   template.JS
}

type blogPosting struct {
	Context       string            `json:"@context"`
	Type          string            `json:"@type"`
	Headline      string            `json:"headline"`
	Description   string            `json:"description"`
	Image         string            `json:"image,omitempty"`
	DatePublished string            `json:"datePublished"`
	DateModified  string            `json:"dateModified"`
	Author        map[string]string `json:"author"`
	Publisher     map[string]string `json:"publisher"`
	Keywords      string            `json:"keywords,omitempty"`
	URL           string            `json:"url"`
}

// Page writes the complete HTML document for one post.
func Page(w io.Writer, p PageData) error {
	ld, err := json.Marshal(blogPosting{
		Context:       "https://schema.org",
		Type:          "BlogPosting",
		Headline:      p.Title,
		Description:   p.Description,
		Image:         p.Image,
		DatePublished: p.Date.Format(time.RFC3339),
		DateModified:  p.Date.Format(time.RFC3339),
		Author:        map[string]string{"@type": "Organization", "name": p.Author},
		Publisher:     map[string]string{"@type": "Organization", "name": p.SiteName, "url": p.SiteURL},
		Keywords:      strings.Join(p.Keywords, ", "),
		URL:           p.URL,
	})
	if err != nil {
		return fmt.Errorf("marshal json-ld: %w", err)
	}
	view := pageView{
		PageData: p,
		BodyHTML: template.HTML(p.Body),
		JSONLD:   template.JS(ld),
	}
	if err := pageTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
