package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindFileWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, DefaultFile), []byte("seed: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "blog", "posts")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	got := FindFile(DefaultFile)
	want, _ := filepath.EvalSymlinks(filepath.Join(root, DefaultFile))
	if g, _ := filepath.EvalSymlinks(got); g != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFindFileStopsAtRepoRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, DefaultFile), []byte("seed: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	repo := filepath.Join(root, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(repo)

	if got := FindFile(DefaultFile); got != DefaultFile {
		t.Fatalf("got %q, want bare name", got)
	}
}

func TestFindFileAbsolute(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "custom.yaml")
	if got := FindFile(abs); got != abs {
		t.Fatalf("got %q", got)
	}
}
