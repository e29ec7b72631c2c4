package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/astroaura/astroblog/internal/astro"
	"github.com/astroaura/astroblog/internal/post"
)

// IndexVersion is written into every persisted index.
const IndexVersion = "2.0"

type Metadata struct {
	LastUpdated time.Time `json:"last_updated"`
	TotalPosts  int       `json:"total_posts"`
	Version     string    `json:"version"`
}

// UnmarshalJSON accepts the zone-less last_updated older indexes carry.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var aux struct {
		LastUpdated string `json:"last_updated"`
		TotalPosts  int    `json:"total_posts"`
		Version     string `json:"version"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := astro.ParseDate(aux.LastUpdated)
	if err != nil {
		return err
	}
	*m = Metadata{LastUpdated: t, TotalPosts: aux.TotalPosts, Version: aux.Version}
	return nil
}

// Index is the authoritative list of posts, newest first. Every other artifact
// is derived from it.
type Index struct {
	Posts    []post.Record `json:"posts"`
	Metadata Metadata      `json:"metadata"`
}

// DecodeIndex parses a persisted index.
func DecodeIndex(data []byte) (*Index, error) {
	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return &ix, nil
}

// Upsert replaces the record with the same slug in place, or prepends rec when
// the slug is new, then drops the oldest records beyond limit. It reports
// whether an existing record was replaced. The stored copy has no HTML body.
func (ix *Index) Upsert(rec post.Record, limit int) bool {
	rec.Content = ""

	replaced := false
	for i := range ix.Posts {
		if ix.Posts[i].Slug == rec.Slug {
			ix.Posts[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		ix.Posts = append([]post.Record{rec}, ix.Posts...)
	}
	if limit > 0 && len(ix.Posts) > limit {
		ix.Posts = ix.Posts[:limit]
	}
	return replaced
}

// Slugs lists slugs in index order.
func (ix *Index) Slugs() []string {
	out := make([]string, len(ix.Posts))
	for i, p := range ix.Posts {
		out[i] = p.Slug
	}
	return out
}

func (ix *Index) encode(now time.Time) ([]byte, error) {
	ix.Metadata = Metadata{
		LastUpdated: now,
		TotalPosts:  len(ix.Posts),
		Version:     IndexVersion,
	}
	if ix.Posts == nil {
		ix.Posts = []post.Record{}
	}
	data, err := json.MarshalIndent(ix, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
