// Package feed keeps the post index and every artifact derived from it (RSS,
// Atom, JSON Feed, sitemap and robots.txt) consistent with each other.
package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/post"
)

// Artifact file names.
const (
	IndexFile    = "posts_index.json"
	RSSFile      = "rss.xml"
	RSSAliasFile = "feed.xml"
	AtomFile     = "atom.xml"
	JSONFeedFile = "feed.json"
	SitemapFile  = "sitemap.xml"
	RobotsFile   = "robots.txt"
)

// ErrIndexUnreadable marks an index file that exists but does not parse. The
// file is left as it is and nothing derived from it is rewritten.
var ErrIndexUnreadable = errors.New("index unreadable")

// Options configures a Synchronizer.
type Options struct {
	Dir     string // blog output directory holding the index and feeds
	SiteDir string // directory holding sitemap.xml and robots.txt
	Cap     int
	Site    config.SiteConfig
	Lock    bool
	FS      FileSystem
	Now     func() time.Time
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Dir:     cfg.Output.Dir,
		SiteDir: cfg.Output.SiteRoot(),
		Cap:     cfg.Index.Cap,
		Site:    cfg.Site,
		Lock:    cfg.Sync.Lock,
	}
}

// Skip records a derived artifact that could not be updated.
type Skip struct {
	Artifact string
	Err      error
}

// Result lists what a sync touched.
type Result struct {
	Replaced bool // the post's slug was already indexed
	Updated  []string
	Skipped  []Skip
	Added    int // new sitemap entries
}

// OK reports whether every artifact was updated.
func (r *Result) OK() bool { return len(r.Skipped) == 0 }

// Synchronizer owns the in-memory index. It is safe for concurrent use.
type Synchronizer struct {
	opts Options
	fs   FileSystem

	mu      sync.Mutex
	index   *Index
	corrupt error // set while the persisted index fails to parse
}

func New(opts Options) *Synchronizer {
	if opts.FS == nil {
		opts.FS = NewOSFileSystem()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SiteDir == "" {
		opts.SiteDir = filepath.Dir(filepath.Clean(opts.Dir))
	}
	return &Synchronizer{opts: opts, fs: opts.FS}
}

func (s *Synchronizer) path(name string) string {
	if name == SitemapFile || name == RobotsFile {
		return filepath.Join(s.opts.SiteDir, name)
	}
	return filepath.Join(s.opts.Dir, name)
}

// Load reads the persisted index. A missing index starts empty. An index that
// fails to parse is also read as empty, but it is never overwritten and the
// artifacts derived from it are skipped until it is repaired.
func (s *Synchronizer) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Synchronizer) load() error {
	s.corrupt = nil
	data, err := s.fs.ReadFile(s.path(IndexFile))
	switch {
	case s.fs.IsNotExist(err):
		s.index = &Index{}
		return nil
	case err != nil:
		return fmt.Errorf("read index: %w", err)
	}
	ix, err := DecodeIndex(data)
	if err != nil {
		slog.Warn("index unreadable, leaving it untouched", "path", s.path(IndexFile), "error", err)
		s.corrupt = fmt.Errorf("%w: %v", ErrIndexUnreadable, err)
		ix = &Index{}
	}
	s.index = ix
	return nil
}

func (s *Synchronizer) ensureLoaded() error {
	if s.index != nil {
		return nil
	}
	return s.load()
}

// usable is ensureLoaded for writers: it also refuses an unreadable index.
func (s *Synchronizer) usable() error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	return s.corrupt
}

// Posts returns a copy of the indexed records, newest first.
func (s *Synchronizer) Posts() ([]post.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return append([]post.Record(nil), s.index.Posts...), nil
}

// Upsert adds rec to the in-memory index without writing anything.
func (s *Synchronizer) Upsert(rec post.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return false, err
	}
	return s.index.Upsert(rec, s.opts.Cap), nil
}

// PersistIndex writes the index with fresh metadata.
func (s *Synchronizer) PersistIndex() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistIndex()
}

func (s *Synchronizer) persistIndex() error {
	if err := s.usable(); err != nil {
		return err
	}
	data, err := s.index.encode(s.opts.Now())
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := s.write(IndexFile, data); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// RebuildRSS writes rss.xml and its feed.xml mirror.
func (s *Synchronizer) RebuildRSS() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildRSS()
}

func (s *Synchronizer) rebuildRSS() error {
	if err := s.usable(); err != nil {
		return err
	}
	data, err := RenderRSS(s.opts.Site, s.index.Posts, s.opts.Now())
	if err != nil {
		return fmt.Errorf("render rss: %w", err)
	}
	if err := s.write(RSSFile, data); err != nil {
		return err
	}
	return s.write(RSSAliasFile, data)
}

func (s *Synchronizer) RebuildAtom() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildAtom()
}

func (s *Synchronizer) rebuildAtom() error {
	if err := s.usable(); err != nil {
		return err
	}
	data, err := RenderAtom(s.opts.Site, s.index.Posts, s.opts.Now())
	if err != nil {
		return fmt.Errorf("render atom: %w", err)
	}
	return s.write(AtomFile, data)
}

func (s *Synchronizer) RebuildJSONFeed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildJSONFeed()
}

func (s *Synchronizer) rebuildJSONFeed() error {
	if err := s.usable(); err != nil {
		return err
	}
	data, err := RenderJSONFeed(s.opts.Site, s.index.Posts)
	if err != nil {
		return fmt.Errorf("render json feed: %w", err)
	}
	return s.write(JSONFeedFile, data)
}

// AppendSitemapURLs adds entries for posts not yet listed, creating the
// sitemap with the static pages and every indexed post when it does not
// exist. It returns the number of entries added.
func (s *Synchronizer) AppendSitemapURLs(posts []post.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendSitemapURLs(posts)
}

func (s *Synchronizer) appendSitemapURLs(posts []post.Record) (int, error) {
	if err := s.usable(); err != nil {
		return 0, err
	}
	var doc string
	data, err := s.fs.ReadFile(s.path(SitemapFile))
	switch {
	case s.fs.IsNotExist(err):
		// A new sitemap lists everything indexed, not only posts.
		doc = NewSitemap(s.opts.Site, s.opts.Now())
		posts = append(append([]post.Record(nil), posts...), s.index.Posts...)
	case err != nil:
		return 0, fmt.Errorf("read sitemap: %w", err)
	default:
		doc = string(data)
	}

	out, added, err := AppendURLs(doc, s.opts.Site, posts)
	if err != nil {
		return 0, err
	}
	if added == 0 && data != nil {
		return 0, nil
	}
	if err := s.write(SitemapFile, []byte(out)); err != nil {
		return 0, err
	}
	return added, nil
}

// EnsureRobots writes robots.txt when it does not exist.
func (s *Synchronizer) EnsureRobots() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureRobots()
}

func (s *Synchronizer) ensureRobots() error {
	_, err := s.fs.ReadFile(s.path(RobotsFile))
	if err == nil {
		return nil
	}
	if !s.fs.IsNotExist(err) {
		return fmt.Errorf("read robots: %w", err)
	}
	return s.write(RobotsFile, []byte(Robots(s.opts.Site.URL)))
}

// Sync upserts rec, persists the index and refreshes every derived artifact.
// Only an index write failure is returned as an error; derived artifacts that
// fail are logged and reported in Result.Skipped. When the persisted index is
// unreadable it is skipped too, together with everything derived from it.
func (s *Synchronizer) Sync(rec post.Record) (*Result, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-read so another process's writes under the lock are not lost.
	if err := s.load(); err != nil {
		return nil, err
	}
	if s.corrupt != nil {
		res := &Result{Skipped: []Skip{{Artifact: IndexFile, Err: s.corrupt}}}
		s.derive(res, []post.Record{rec})
		slog.Warn("post not indexed", "slug", rec.Slug, "error", s.corrupt)
		return res, nil
	}
	res := &Result{Replaced: s.index.Upsert(rec, s.opts.Cap)}
	if err := s.persistIndex(); err != nil {
		return nil, err
	}
	res.Updated = append(res.Updated, IndexFile)

	s.derive(res, []post.Record{rec})
	slog.Info("feeds synchronized", "slug", rec.Slug, "posts", len(s.index.Posts),
		"updated", len(res.Updated), "skipped", len(res.Skipped))
	return res, nil
}

// Resync rebuilds every derived artifact from the persisted index alone. The
// index itself is not rewritten.
func (s *Synchronizer) Resync() (*Result, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}
	res := &Result{}
	s.derive(res, s.index.Posts)
	slog.Info("feeds rebuilt from index", "posts", len(s.index.Posts),
		"updated", len(res.Updated), "skipped", len(res.Skipped))
	return res, nil
}

func (s *Synchronizer) derive(res *Result, sitemapPosts []post.Record) {
	steps := []struct {
		name string
		run  func() error
	}{
		{RSSFile, s.rebuildRSS},
		{AtomFile, s.rebuildAtom},
		{JSONFeedFile, s.rebuildJSONFeed},
		{SitemapFile, func() error {
			n, err := s.appendSitemapURLs(sitemapPosts)
			res.Added = n
			return err
		}},
		{RobotsFile, s.ensureRobots},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			slog.Warn("artifact skipped", "artifact", step.name, "error", err)
			res.Skipped = append(res.Skipped, Skip{Artifact: step.name, Err: err})
			continue
		}
		res.Updated = append(res.Updated, step.name)
	}
}

func (s *Synchronizer) lock() (func(), error) {
	if !s.opts.Lock {
		return func() {}, nil
	}
	l, err := AcquireLock(s.opts.Dir)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := l.Release(); err != nil {
			slog.Warn("lock release failed", "error", err)
		}
	}, nil
}

func (s *Synchronizer) write(name string, data []byte) error {
	p := s.path(name)
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return s.fs.WriteFile(p, data, 0o644)
}

