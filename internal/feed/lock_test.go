//go:build unix

package feed

import (
	"testing"
	"time"

	"github.com/astroaura/astroblog/internal/post"
)

func TestLockExclusive(t *testing.T) {
	dir := t.TempDir()
	l, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if _, ok, err := TryLock(dir); err != nil || ok {
		t.Fatalf("second lock: ok=%v err=%v, want held elsewhere", ok, err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	l2, ok, err := TryLock(dir)
	if err != nil || !ok {
		t.Fatalf("lock after release: ok=%v err=%v", ok, err)
	}
	l2.Release()
}

func TestSyncWithLockReleases(t *testing.T) {
	s, _ := newTestSync(t, nil)
	s.opts.Lock = true
	for _, slug := range []string{"a", "b"} {
		if _, err := s.Sync(post.Record{Slug: slug, Title: slug, Date: time.Now()}); err != nil {
			t.Fatalf("sync %s: %v", slug, err)
		}
	}
	l, ok, err := TryLock(s.opts.Dir)
	if err != nil || !ok {
		t.Fatalf("lock still held after sync: ok=%v err=%v", ok, err)
	}
	l.Release()
}
