package trends

import (
	"context"
	"log/slog"

	"github.com/astroaura/astroblog/internal/config"
)

// Discoverer collects from every configured source and normalizes the result.
type Discoverer struct {
	Sources    []Source
	Normalizer *Normalizer

	closer func() error
}

// FromConfig wires the adapters enabled in cfg. With a redis address the
// trend cache is shared between processes; otherwise it lives in memory.
func FromConfig(cfg config.TrendsConfig) *Discoverer {
	f := NewFetcher(cfg.Timeout, cfg.RatePerSec)

	var cache Cache
	d := &Discoverer{Normalizer: NewNormalizer(cfg.TopK)}
	if cfg.RedisAddr != "" {
		rc := NewRedisCache(cfg.RedisAddr)
		cache = rc
		d.closer = rc.Close
	} else {
		cache = NewMemoryCache()
	}

	var sources []Source
	for _, geo := range cfg.Regions {
		sources = append(sources, NewGoogleTrends(f, geo, cfg.PerSource))
	}
	if len(cfg.Seeds) > 0 {
		sources = append(sources, NewRelatedQueries(f, cfg.Seeds, cfg.PerSource))
	}
	if cfg.Wikipedia {
		sources = append(sources, NewWikipedia(f, cfg.PerSource))
	}
	for _, s := range sources {
		d.Sources = append(d.Sources, Cached(s, cache, cfg.CacheTTL))
	}
	return d
}

// Discover returns ranked topics; never empty.
func (d *Discoverer) Discover(ctx context.Context) []Topic {
	topics := d.Normalizer.Normalize(Collect(ctx, d.Sources))
	slog.Info("trending topics discovered", "sources", len(d.Sources), "topics", len(topics))
	return topics
}

// Describe categorizes an explicitly requested topic.
func (d *Discoverer) Describe(name, source string) Topic {
	return d.Normalizer.Describe(name, source)
}

// Close releases the shared cache connection, if any.
func (d *Discoverer) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer()
}
