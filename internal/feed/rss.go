package feed

import (
	"bytes"
	"encoding/xml"
	"time"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/post"
)

// maxCategories bounds per-item categories and tags in every feed format.
const maxCategories = 5

type rssDoc struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	AtomNS    string     `xml:"xmlns:atom,attr"`
	ContentNS string     `xml:"xmlns:content,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Generator     string    `xml:"generator"`
	Category      string    `xml:"category,omitempty"`
	AtomLink      rssLink   `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type rssLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author"`
	PubDate     string   `xml:"pubDate"`
	GUID        rssGUID  `xml:"guid"`
	Categories  []string `xml:"category"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// RenderRSS renders an RSS 2.0 document for posts in the given order.
func RenderRSS(site config.SiteConfig, posts []post.Record, now time.Time) ([]byte, error) {
	doc := rssDoc{
		Version:   "2.0",
		AtomNS:    "http://www.w3.org/2005/Atom",
		ContentNS: "http://purl.org/rss/1.0/modules/content/",
		Channel: rssChannel{
			Title:         site.Title,
			Link:          site.BlogURL,
			Description:   site.Description,
			Language:      site.Language,
			LastBuildDate: now.Format(time.RFC1123Z),
			Generator:     site.Generator,
			Category:      "Lifestyle/Spirituality",
			AtomLink: rssLink{
				Href: site.BlogURL + "/rss.xml",
				Rel:  "self",
				Type: "application/rss+xml",
			},
		},
	}
	for _, p := range posts {
		link := site.PostURL(p.Slug)
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.MetaDescription,
			Author:      site.Email + " (" + authorOf(site, p) + ")",
			PubDate:     p.Date.Format(time.RFC1123Z),
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			Categories:  firstN(p.Keywords, maxCategories),
		})
	}
	return marshalXML(doc)
}

func marshalXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func authorOf(site config.SiteConfig, p post.Record) string {
	if p.Author != "" {
		return p.Author
	}
	return site.Author
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
