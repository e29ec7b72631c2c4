package feed

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Verification compares each feed's item order with the index.
type Verification struct {
	Index    []string            `json:"index"`
	Feeds    map[string][]string `json:"feeds"`
	Problems []string            `json:"problems"`
}

func (v *Verification) OK() bool { return len(v.Problems) == 0 }

// Verify parses the feeds in dir with a generic feed reader and checks that
// each lists exactly the indexed slugs in index order.
func Verify(dir, blogURL string) (*Verification, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	ix, err := DecodeIndex(data)
	if err != nil {
		return nil, err
	}

	v := &Verification{Index: ix.Slugs(), Feeds: make(map[string][]string)}
	parser := gofeed.NewParser()
	prefix := blogURL + "/posts/"

	for _, name := range []string{RSSFile, RSSAliasFile, AtomFile, JSONFeedFile} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			v.Problems = append(v.Problems, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		f, err := parser.Parse(bytes.NewReader(raw))
		if err != nil {
			v.Problems = append(v.Problems, fmt.Sprintf("%s: parse: %v", name, err))
			continue
		}
		slugs := make([]string, 0, len(f.Items))
		for _, item := range f.Items {
			slugs = append(slugs, SlugFromURL(item.Link, prefix))
		}
		v.Feeds[name] = slugs
		if !slices.Equal(slugs, v.Index) {
			v.Problems = append(v.Problems, fmt.Sprintf("%s: %d items differ from index (%d posts)", name, len(slugs), len(v.Index)))
		}
	}
	return v, nil
}

// SlugFromURL extracts the slug from a post URL under prefix.
func SlugFromURL(link, prefix string) string {
	s := strings.TrimPrefix(link, prefix)
	return strings.TrimSuffix(s, ".html")
}
