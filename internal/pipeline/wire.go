package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/content"
	"github.com/astroaura/astroblog/internal/feed"
	"github.com/astroaura/astroblog/internal/notify"
	"github.com/astroaura/astroblog/internal/post"
	"github.com/astroaura/astroblog/internal/quality"
	"github.com/astroaura/astroblog/internal/store"
	"github.com/astroaura/astroblog/internal/trends"
)

// FromConfig assembles a Runner from the loaded configuration. st may be nil.
// The returned close func releases the trend cache connection.
func FromConfig(cfg *config.Config, st *store.Store) (*Runner, func() error, error) {
	chain, err := content.FromPriority(cfg.Providers.Priority, cfg.Providers.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("content providers: %w", err)
	}
	disc := trends.FromConfig(cfg.Trends)

	builder := post.NewBuilder(chain, post.NewRand(cfg.Seed), nil, post.Site{
		Author:  cfg.Site.Author,
		SiteURL: cfg.Site.URL,
		BlogURL: cfg.Site.BlogURL,
		Image:   cfg.Site.Image,
	})

	r := &Runner{
		Topics:     disc,
		Builder:    builder,
		Feeds:      feed.New(feed.OptionsFromConfig(cfg)),
		Store:      st,
		Notify:     notify.New(cfg.Notify.Topic, cfg.Notify.Token, cfg.Notify.Events),
		Site:       cfg.Site,
		PagesDir:   filepath.Join(cfg.Output.Dir, cfg.Output.PostsDir),
		BlockBelow: cfg.Quality.BlockBelow,
	}
	if cfg.Quality.Enabled {
		r.Validator = quality.New()
	}
	return r, disc.Close, nil
}
