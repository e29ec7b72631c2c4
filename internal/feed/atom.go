package feed

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/post"
	"github.com/google/uuid"
)

type atomFeed struct {
	XMLName   xml.Name      `xml:"http://www.w3.org/2005/Atom feed"`
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Subtitle  string        `xml:"subtitle"`
	Updated   string        `xml:"updated"`
	Links     []atomLink    `xml:"link"`
	Author    atomAuthor    `xml:"author"`
	Generator atomGenerator `xml:"generator"`
	Entries   []atomEntry   `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr,omitempty"`
}

type atomAuthor struct {
	Name  string `xml:"name"`
	Email string `xml:"email,omitempty"`
}

type atomGenerator struct {
	Version string `xml:"version,attr"`
	Value   string `xml:",chardata"`
}

type atomEntry struct {
	Title      string         `xml:"title"`
	Link       atomLink       `xml:"link"`
	ID         string         `xml:"id"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
	Summary    atomText       `xml:"summary"`
	Author     atomAuthor     `xml:"author"`
	Categories []atomCategory `xml:"category"`
}

type atomText struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type atomCategory struct {
	Term  string `xml:"term,attr"`
	Label string `xml:"label,attr"`
}

// FeedID is the stable Atom feed identifier for a blog URL.
func FeedID(blogURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(blogURL)).URN()
}

// RenderAtom renders an Atom 1.0 document for posts in the given order.
func RenderAtom(site config.SiteConfig, posts []post.Record, now time.Time) ([]byte, error) {
	feed := atomFeed{
		ID:       FeedID(site.BlogURL),
		Title:    site.Title,
		Subtitle: site.Description,
		Updated:  now.Format(time.RFC3339),
		Links: []atomLink{
			{Href: site.BlogURL + "/atom.xml", Rel: "self", Type: "application/atom+xml"},
			{Href: site.BlogURL, Rel: "alternate", Type: "text/html"},
		},
		Author:    atomAuthor{Name: site.Author, Email: site.Email},
		Generator: atomGenerator{Version: "1.0", Value: site.Generator},
	}
	for _, p := range posts {
		link := site.PostURL(p.Slug)
		date := p.Date.Format(time.RFC3339)
		entry := atomEntry{
			Title:     p.Title,
			Link:      atomLink{Href: link, Rel: "alternate", Type: "text/html"},
			ID:        link,
			Published: date,
			Updated:   date,
			Summary:   atomText{Type: "text", Value: p.MetaDescription},
			Author:    atomAuthor{Name: authorOf(site, p)},
		}
		for _, k := range firstN(p.Keywords, maxCategories) {
			entry.Categories = append(entry.Categories, atomCategory{Term: k, Label: label(k)})
		}
		feed.Entries = append(feed.Entries, entry)
	}
	return marshalXML(feed)
}

// label turns a keyword like "moon-phases" into "Moon Phases".
func label(term string) string {
	words := strings.Fields(strings.ReplaceAll(term, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
