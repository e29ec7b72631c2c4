package feed

import (
	"encoding/json"
	"time"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/post"
)

const jsonFeedVersion = "https://jsonfeed.org/version/1.1"

type jsonFeed struct {
	Version     string       `json:"version"`
	Title       string       `json:"title"`
	HomePageURL string       `json:"home_page_url"`
	FeedURL     string       `json:"feed_url"`
	Description string       `json:"description"`
	Language    string       `json:"language"`
	Authors     []jsonAuthor `json:"authors"`
	Items       []jsonItem   `json:"items"`
}

type jsonAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type jsonItem struct {
	ID            string       `json:"id"`
	URL           string       `json:"url"`
	Title         string       `json:"title"`
	Summary       string       `json:"summary"`
	DatePublished string       `json:"date_published"`
	DateModified  string       `json:"date_modified"`
	Authors       []jsonAuthor `json:"authors"`
	Tags          []string     `json:"tags,omitempty"`
	Image         string       `json:"image,omitempty"`
}

// RenderJSONFeed renders a JSON Feed 1.1 document for posts in the given order.
func RenderJSONFeed(site config.SiteConfig, posts []post.Record) ([]byte, error) {
	feed := jsonFeed{
		Version:     jsonFeedVersion,
		Title:       site.Title,
		HomePageURL: site.BlogURL,
		FeedURL:     site.BlogURL + "/feed.json",
		Description: site.Description,
		Language:    site.Language,
		Authors:     []jsonAuthor{{Name: site.Author, Email: site.Email}},
		Items:       []jsonItem{},
	}
	for _, p := range posts {
		link := site.PostURL(p.Slug)
		date := p.Date.Format(time.RFC3339)
		feed.Items = append(feed.Items, jsonItem{
			ID:            link,
			URL:           link,
			Title:         p.Title,
			Summary:       p.MetaDescription,
			DatePublished: date,
			DateModified:  date,
			Authors:       []jsonAuthor{{Name: authorOf(site, p)}},
			Tags:          firstN(p.Keywords, maxCategories),
			Image:         p.Image,
		})
	}
	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
