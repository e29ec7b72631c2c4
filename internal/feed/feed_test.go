package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/post"
	"github.com/mmcdole/gofeed"
)

var (
	testSite = config.Default().Site
	fixedNow = time.Date(2025, time.May, 3, 12, 0, 0, 0, time.UTC)
)

func record(slug string, age time.Duration) post.Record {
	return post.Record{
		Title:           "Title for " + slug,
		Slug:            slug,
		Date:            fixedNow.Add(-age),
		MetaDescription: "About " + slug + ". Get personalized insights with AstroAura's AI-powered astrology app.",
		Keywords:        []string{"moon-phases", "wellness", "astrology", "astroaura", "mindfulness", "extra-one", "extra-two"},
		Author:          "AstroAura AI Cosmic Team",
		URL:             testSite.PostURL(slug),
		Image:           "https://astroaura.me/assets/images/blog/wellness.jpg",
		Content:         "<div><p>body</p></div>",
	}
}

func newTestSync(t *testing.T, fsys FileSystem) (*Synchronizer, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "blog")
	s := New(Options{
		Dir:  dir,
		Cap:  50,
		Site: testSite,
		FS:   fsys,
		Now:  func() time.Time { return fixedNow },
	})
	return s, root
}

func readIndex(t *testing.T, dir string) *Index {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	ix, err := DecodeIndex(data)
	if err != nil {
		t.Fatalf("decode index: %v", err)
	}
	return ix
}

func TestIndexUpsertIdempotent(t *testing.T) {
	ix := &Index{}
	a, b := record("a", time.Hour), record("b", 0)
	ix.Upsert(a, 50)
	ix.Upsert(b, 50)

	if replaced := ix.Upsert(a, 50); !replaced {
		t.Fatal("second upsert of same slug should replace")
	}
	if got := strings.Join(ix.Slugs(), ","); got != "b,a" {
		t.Fatalf("slugs = %s, want b,a (replace keeps position)", got)
	}
	if ix.Posts[1].Content != "" {
		t.Fatal("index should not carry the HTML body")
	}
}

func TestIndexBoundedGrowth(t *testing.T) {
	ix := &Index{}
	const limit = 3
	for i := 0; i < limit+4; i++ {
		ix.Upsert(record(fmt.Sprintf("p%d", i), time.Duration(10-i)*time.Hour), limit)
	}
	if len(ix.Posts) != limit {
		t.Fatalf("len = %d, want %d", len(ix.Posts), limit)
	}
	if got := strings.Join(ix.Slugs(), ","); got != "p6,p5,p4" {
		t.Fatalf("slugs = %s, want the most recent three", got)
	}
}

func TestSyncCrossArtifactConsistency(t *testing.T) {
	s, root := newTestSync(t, nil)
	dir := filepath.Join(root, "blog")

	for i, slug := range []string{"first", "second", "third"} {
		res, err := s.Sync(record(slug, time.Duration(3-i)*time.Hour))
		if err != nil {
			t.Fatalf("sync %s: %v", slug, err)
		}
		if !res.OK() {
			t.Fatalf("sync %s skipped artifacts: %+v", slug, res.Skipped)
		}
	}

	v, err := Verify(dir, testSite.BlogURL)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !v.OK() {
		t.Fatalf("verify problems: %v", v.Problems)
	}
	if got := strings.Join(v.Index, ","); got != "third,second,first" {
		t.Fatalf("index order = %s", got)
	}
	for name, slugs := range v.Feeds {
		if strings.Join(slugs, ",") != "third,second,first" {
			t.Errorf("%s order = %v", name, slugs)
		}
	}

	ix := readIndex(t, dir)
	if ix.Metadata.Version != "2.0" || ix.Metadata.TotalPosts != 3 || !ix.Metadata.LastUpdated.Equal(fixedNow) {
		t.Errorf("metadata = %+v", ix.Metadata)
	}

	sitemap, err := os.ReadFile(filepath.Join(root, SitemapFile))
	if err != nil {
		t.Fatalf("sitemap: %v", err)
	}
	for _, slug := range v.Index {
		if n := strings.Count(string(sitemap), "<loc>"+testSite.PostURL(slug)+"</loc>"); n != 1 {
			t.Errorf("sitemap has %d entries for %s", n, slug)
		}
	}
	if _, err := os.Stat(filepath.Join(root, RobotsFile)); err != nil {
		t.Errorf("robots.txt not written: %v", err)
	}
}

func TestSyncSamePostTwice(t *testing.T) {
	s, root := newTestSync(t, nil)
	rec := record("mercury-retrograde-survival-guide", 0)

	if _, err := s.Sync(rec); err != nil {
		t.Fatal(err)
	}
	res, err := s.Sync(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Replaced || res.Added != 0 {
		t.Fatalf("second sync: replaced=%v added=%d", res.Replaced, res.Added)
	}

	ix := readIndex(t, filepath.Join(root, "blog"))
	if len(ix.Posts) != 1 {
		t.Fatalf("index has %d posts, want 1", len(ix.Posts))
	}
	sitemap, _ := os.ReadFile(filepath.Join(root, SitemapFile))
	if n := strings.Count(string(sitemap), "<loc>"+rec.URL+"</loc>"); n != 1 {
		t.Fatalf("sitemap mentions slug %d times", n)
	}
}

func TestSyncRespectsCap(t *testing.T) {
	s, root := newTestSync(t, nil)
	s.opts.Cap = 2
	for i := 0; i < 4; i++ {
		if _, err := s.Sync(record(fmt.Sprintf("p%d", i), time.Duration(4-i)*time.Hour)); err != nil {
			t.Fatal(err)
		}
	}
	v, err := Verify(filepath.Join(root, "blog"), testSite.BlogURL)
	if err != nil {
		t.Fatal(err)
	}
	if !v.OK() || strings.Join(v.Index, ",") != "p3,p2" {
		t.Fatalf("index = %v problems = %v", v.Index, v.Problems)
	}
}

func TestAppendURLsIdempotent(t *testing.T) {
	posts := []post.Record{record("a", 0), record("b", time.Hour), record("a", 0)}
	doc := NewSitemap(testSite, fixedNow)

	once, added, err := AppendURLs(doc, testSite, posts)
	if err != nil {
		t.Fatal(err)
	}
	if added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}
	twice, added, err := AppendURLs(once, testSite, posts)
	if err != nil {
		t.Fatal(err)
	}
	if added != 0 || twice != once {
		t.Fatalf("second append changed the document (added %d)", added)
	}
	if !strings.HasSuffix(strings.TrimSpace(twice), "</urlset>") {
		t.Fatal("entries not inserted before closing tag")
	}
	if !strings.Contains(twice, "<lastmod>2025-05-03</lastmod>") {
		t.Error("lastmod should be the date part")
	}
}

func TestAppendURLsNoURLSet(t *testing.T) {
	_, _, err := AppendURLs("<html>not a sitemap</html>", testSite, []post.Record{record("a", 0)})
	if !errors.Is(err, ErrNoURLSet) {
		t.Fatalf("err = %v, want ErrNoURLSet", err)
	}
}

func TestNewSitemapStaticPages(t *testing.T) {
	doc := NewSitemap(testSite, fixedNow)
	for _, loc := range []string{"https://astroaura.me/", "https://astroaura.me/features.html", "https://astroaura.me/blog/"} {
		if !strings.Contains(doc, "<loc>"+loc+"</loc>") {
			t.Errorf("missing static page %s", loc)
		}
	}
	if n := strings.Count(doc, "<url>"); n != len(staticPages) {
		t.Errorf("url entries = %d, want %d", n, len(staticPages))
	}
}

func TestSyncSkipsCorruptSitemap(t *testing.T) {
	s, root := newTestSync(t, nil)
	garbage := []byte("<urlset><url>")
	if err := os.WriteFile(filepath.Join(root, SitemapFile), garbage, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := s.Sync(record("a", 0))
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Artifact != SitemapFile || !errors.Is(res.Skipped[0].Err, ErrNoURLSet) {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
	for _, name := range []string{IndexFile, RSSFile, AtomFile, JSONFeedFile} {
		if !slices.Contains(res.Updated, name) {
			t.Errorf("%s not updated", name)
		}
	}
	after, _ := os.ReadFile(filepath.Join(root, SitemapFile))
	if !bytes.Equal(after, garbage) {
		t.Error("corrupt sitemap was rewritten")
	}
}

func TestSyncLeavesCorruptIndexUntouched(t *testing.T) {
	s, root := newTestSync(t, nil)
	dir := filepath.Join(root, "blog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	garbage := []byte("{not json")
	if err := os.WriteFile(filepath.Join(dir, IndexFile), garbage, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := s.Sync(record("fresh", 0))
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	var skipped []string
	for _, sk := range res.Skipped {
		if !errors.Is(sk.Err, ErrIndexUnreadable) {
			t.Errorf("%s skipped with %v", sk.Artifact, sk.Err)
		}
		skipped = append(skipped, sk.Artifact)
	}
	for _, name := range []string{IndexFile, RSSFile, AtomFile, JSONFeedFile, SitemapFile} {
		if !slices.Contains(skipped, name) {
			t.Errorf("%s not skipped", name)
		}
	}

	after, _ := os.ReadFile(filepath.Join(dir, IndexFile))
	if !bytes.Equal(after, garbage) {
		t.Fatalf("corrupt index was rewritten: %q", after)
	}
	for _, name := range []string{RSSFile, AtomFile, JSONFeedFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s written from an unreadable index", name)
		}
	}

	res, err = s.Resync()
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() {
		t.Fatal("resync should skip artifacts of an unreadable index")
	}
}

func TestSyncKeepsLegacyIndex(t *testing.T) {
	s, root := newTestSync(t, nil)
	dir := filepath.Join(root, "blog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	legacy := `{
  "posts": [
    {"title": "Old One", "slug": "old-one", "date": "2025-08-10T12:34:56.123456",
     "meta_description": "Old.", "keywords": ["astrology"], "author": "AstroAura",
     "astronomical_data": {"date": "2025-08-10", "moon_phase": "Waxing Crescent", "sun_sign": "Leo",
       "season": "Summer", "mercury_retrograde": false, "notable_transits": ["Jupiter trine Neptune"]}},
    {"title": "Old Two", "slug": "old-two", "date": "2025-08-09T08:00:00",
     "meta_description": "Older.", "keywords": ["astrology"], "author": "AstroAura"}
  ],
  "metadata": {"last_updated": "2025-08-10T12:34:56.123456", "total_posts": 2, "version": "2.0"}
}`
	if err := os.WriteFile(filepath.Join(dir, IndexFile), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := s.Sync(record("new", 0))
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !res.OK() {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
	ix := readIndex(t, dir)
	if got := strings.Join(ix.Slugs(), ","); got != "new,old-one,old-two" {
		t.Fatalf("index = %s", got)
	}
	want := time.Date(2025, time.August, 10, 12, 34, 56, 123456000, time.Local)
	if !ix.Posts[1].Date.Equal(want) {
		t.Errorf("legacy date = %v, want %v", ix.Posts[1].Date, want)
	}
	if ix.Posts[1].Astronomical == nil || ix.Posts[1].Astronomical.SunSign != "Leo" {
		t.Errorf("astronomical data = %+v", ix.Posts[1].Astronomical)
	}
}

func TestSyncNewSitemapListsWholeIndex(t *testing.T) {
	s, root := newTestSync(t, nil)
	for i, slug := range []string{"a", "b"} {
		if _, err := s.Sync(record(slug, time.Duration(2-i)*time.Hour)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Remove(filepath.Join(root, SitemapFile)); err != nil {
		t.Fatal(err)
	}

	res, err := s.Sync(record("c", 0))
	if err != nil {
		t.Fatal(err)
	}
	if res.Added != 3 {
		t.Fatalf("added = %d, want 3", res.Added)
	}
	sitemap, _ := os.ReadFile(filepath.Join(root, SitemapFile))
	for _, slug := range []string{"a", "b", "c"} {
		if n := strings.Count(string(sitemap), "<loc>"+testSite.PostURL(slug)+"</loc>"); n != 1 {
			t.Errorf("sitemap has %d entries for %s", n, slug)
		}
	}
}

type failFS struct {
	*OSFileSystem
	fail map[string]bool
}

func (f failFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	if f.fail[filepath.Base(name)] {
		return errors.New("disk full")
	}
	return f.OSFileSystem.WriteFile(name, data, perm)
}

func TestSyncSkipsFailingArtifact(t *testing.T) {
	fsys := failFS{OSFileSystem: NewOSFileSystem(), fail: map[string]bool{AtomFile: true}}
	s, root := newTestSync(t, fsys)

	res, err := s.Sync(record("a", 0))
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Artifact != AtomFile {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
	if _, err := os.Stat(filepath.Join(root, "blog", JSONFeedFile)); err != nil {
		t.Errorf("json feed should still be written: %v", err)
	}
}

func TestSyncIndexWriteFailure(t *testing.T) {
	fsys := failFS{OSFileSystem: NewOSFileSystem(), fail: map[string]bool{IndexFile: true}}
	s, root := newTestSync(t, fsys)

	if _, err := s.Sync(record("a", 0)); err == nil {
		t.Fatal("expected index write failure to be returned")
	}
	if _, err := os.Stat(filepath.Join(root, "blog", RSSFile)); !os.IsNotExist(err) {
		t.Error("feeds should not be written after the index fails")
	}
}

func TestResyncFromIndexAlone(t *testing.T) {
	s, root := newTestSync(t, nil)
	dir := filepath.Join(root, "blog")
	for i, slug := range []string{"a", "b"} {
		if _, err := s.Sync(record(slug, time.Duration(2-i)*time.Hour)); err != nil {
			t.Fatal(err)
		}
	}
	indexBefore, _ := os.ReadFile(filepath.Join(dir, IndexFile))
	for _, name := range []string{RSSFile, AtomFile, JSONFeedFile} {
		os.Remove(filepath.Join(dir, name))
	}
	os.Remove(filepath.Join(root, SitemapFile))

	fresh := New(Options{Dir: dir, Cap: 50, Site: testSite, Now: func() time.Time { return fixedNow }})
	res, err := fresh.Resync()
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() || res.Added != 2 {
		t.Fatalf("resync: added=%d skipped=%+v", res.Added, res.Skipped)
	}
	v, err := Verify(dir, testSite.BlogURL)
	if err != nil || !v.OK() {
		t.Fatalf("verify after resync: %v %v", err, v)
	}
	indexAfter, _ := os.ReadFile(filepath.Join(dir, IndexFile))
	if !bytes.Equal(indexBefore, indexAfter) {
		t.Error("resync rewrote the index")
	}
}

func TestRenderRSS(t *testing.T) {
	data, err := RenderRSS(testSite, []post.Record{record("a", 0)}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`<guid isPermaLink="true">https://astroaura.me/blog/posts/a.html</guid>`,
		`<atom:link href="https://astroaura.me/blog/rss.xml" rel="self" type="application/rss+xml"></atom:link>`,
		`<author>cosmic@astroaura.me (AstroAura AI Cosmic Team)</author>`,
		`<pubDate>Sat, 03 May 2025 12:00:00 +0000</pubDate>`,
		`<language>en-US</language>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rss missing %s", want)
		}
	}

	f, err := gofeed.NewParser().ParseString(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Title != "AstroAura Cosmic Insights Blog" || len(f.Items) != 1 {
		t.Fatalf("feed = %q with %d items", f.Title, len(f.Items))
	}
	if n := len(f.Items[0].Categories); n != maxCategories {
		t.Errorf("categories = %d, want %d", n, maxCategories)
	}
}

func TestRenderAtom(t *testing.T) {
	data, err := RenderAtom(testSite, []post.Record{record("a", 0)}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `<feed xmlns="http://www.w3.org/2005/Atom">`) {
		t.Error("atom namespace missing")
	}
	if !strings.Contains(out, `<category term="moon-phases" label="Moon Phases"></category>`) {
		t.Error("category label not title-cased")
	}
	if !strings.Contains(out, `<summary type="text">`) {
		t.Error("summary type missing")
	}

	f, err := gofeed.NewParser().ParseString(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.FeedType != "atom" || len(f.Items) != 1 || f.Items[0].Link != testSite.PostURL("a") {
		t.Fatalf("atom parsed as %s with %d items", f.FeedType, len(f.Items))
	}
}

func TestRenderJSONFeed(t *testing.T) {
	data, err := RenderJSONFeed(testSite, []post.Record{record("a", 0)})
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["version"] != "https://jsonfeed.org/version/1.1" {
		t.Errorf("version = %v", doc["version"])
	}
	items := doc["items"].([]any)
	item := items[0].(map[string]any)
	if len(item["tags"].([]any)) != maxCategories {
		t.Errorf("tags = %v", item["tags"])
	}
	if item["date_published"] != "2025-05-03T12:00:00Z" {
		t.Errorf("date_published = %v", item["date_published"])
	}
}

func TestFeedIDStable(t *testing.T) {
	a, b := FeedID(testSite.BlogURL), FeedID(testSite.BlogURL)
	if a != b || !strings.HasPrefix(a, "urn:uuid:") {
		t.Fatalf("feed ids %q %q", a, b)
	}
	if FeedID("https://example.com/blog") == a {
		t.Fatal("different blogs share a feed id")
	}
}

func TestSlugFromURL(t *testing.T) {
	got := SlugFromURL("https://astroaura.me/blog/posts/new-moon.html", "https://astroaura.me/blog/posts/")
	if got != "new-moon" {
		t.Fatalf("slug = %q", got)
	}
}
