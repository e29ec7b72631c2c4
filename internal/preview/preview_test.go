package preview

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/feed"
	"github.com/astroaura/astroblog/internal/post"
	"github.com/astroaura/astroblog/internal/store"
)

var fixedNow = time.Date(2025, time.May, 3, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, withStore bool) (*Server, *httptest.Server) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "blog")
	site := config.Default().Site

	feeds := feed.New(feed.Options{Dir: dir, Cap: 50, Site: site, Now: func() time.Time { return fixedNow }})
	rec := post.Record{
		Title:           "Full Moon Release Rituals",
		Slug:            "full-moon-release-rituals",
		Date:            fixedNow,
		MetaDescription: "Let go under the full moon.",
		Author:          site.Author,
		URL:             site.PostURL("full-moon-release-rituals"),
	}
	if _, err := feeds.Sync(rec); err != nil {
		t.Fatalf("sync: %v", err)
	}

	s := &Server{Root: root, BlogDir: dir, BlogURL: site.BlogURL, Feeds: feeds}
	if withStore {
		st, err := store.Open(":memory:")
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { st.Close() })
		run := &store.Run{ID: "run-1", Trigger: "manual", StartedAt: fixedNow}
		if err := st.CreateRun(run); err != nil {
			t.Fatal(err)
		}
		if err := st.FinishRun("run-1", store.Outcome{Status: store.StatusPublished, Slug: rec.Slug, Provider: "fallback"}); err != nil {
			t.Fatal(err)
		}
		s.Store = st
	}
	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return s, srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(b)
}

func TestHealthz(t *testing.T) {
	_, srv := newTestServer(t, false)
	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Fatalf("status %d body %s", resp.StatusCode, body)
	}
}

func TestServesGeneratedFiles(t *testing.T) {
	_, srv := newTestServer(t, false)

	resp, body := get(t, srv.URL+"/blog/rss.xml")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "full-moon-release-rituals") {
		t.Fatalf("rss: status %d", resp.StatusCode)
	}
	resp, body = get(t, srv.URL+"/sitemap.xml")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "<urlset") {
		t.Fatalf("sitemap: status %d", resp.StatusCode)
	}
}

func TestPostsEndpoint(t *testing.T) {
	_, srv := newTestServer(t, false)
	resp, body := get(t, srv.URL+"/api/posts")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var posts []post.Record
	if err := json.Unmarshal([]byte(body), &posts); err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 || posts[0].Slug != "full-moon-release-rituals" {
		t.Fatalf("posts = %+v", posts)
	}
}

func TestStatsAndRuns(t *testing.T) {
	_, srv := newTestServer(t, true)

	resp, body := get(t, srv.URL+"/api/stats")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status %d", resp.StatusCode)
	}
	var st store.Stats
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatal(err)
	}
	if st.Runs != 1 || st.Published != 1 || st.ByProvider["fallback"] != 1 {
		t.Fatalf("stats = %+v", st)
	}

	resp, body = get(t, srv.URL+"/api/runs?limit=5")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"id":"run-1"`) {
		t.Fatalf("runs: %d %s", resp.StatusCode, body)
	}

	resp, _ = get(t, srv.URL+"/api/runs?limit=zero")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad limit status %d", resp.StatusCode)
	}

	resp, body = get(t, srv.URL+"/api/runs/run-1")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"status":"published"`) {
		t.Fatalf("run: %d %s", resp.StatusCode, body)
	}
	resp, _ = get(t, srv.URL+"/api/runs/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing run status %d", resp.StatusCode)
	}
}

func TestStatsWithoutStore(t *testing.T) {
	_, srv := newTestServer(t, false)
	resp, _ := get(t, srv.URL+"/api/stats")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	s, srv := newTestServer(t, false)

	resp, _ := get(t, srv.URL+"/api/verify")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	if err := os.Remove(filepath.Join(s.BlogDir, feed.AtomFile)); err != nil {
		t.Fatal(err)
	}
	resp, body := get(t, srv.URL+"/api/verify")
	if resp.StatusCode != http.StatusConflict || !strings.Contains(body, "atom.xml") {
		t.Fatalf("status %d body %s", resp.StatusCode, body)
	}
}
