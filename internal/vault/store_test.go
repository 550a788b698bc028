package vault

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestVault(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}
	return store, dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestReadNoteWithFrontMatter(t *testing.T) {
	store, dir := newTestVault(t)
	writeFile(t, filepath.Join(dir, "daily.md"), "---\ntitle: Daily\ntags: [log]\n---\nbody text #count\n")
	meta, body, err := store.ReadNote("daily.md")
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if meta["title"] != "Daily" {
		t.Fatalf("meta = %v", meta)
	}
	if body != "body text #count\n" {
		t.Fatalf("body = %q", body)
	}
}

func TestReadNoteWithoutFrontMatter(t *testing.T) {
	store, dir := newTestVault(t)
	writeFile(t, filepath.Join(dir, "plain.md"), "just text\n")
	meta, body, err := store.ReadNote("plain.md")
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if len(meta) != 0 {
		t.Fatalf("expected empty meta, got %v", meta)
	}
	if body != "just text\n" {
		t.Fatalf("body = %q", body)
	}
}

func TestReadNoteMissing(t *testing.T) {
	store, _ := newTestVault(t)
	if _, _, err := store.ReadNote("nope.md"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadSourceVaultRelative(t *testing.T) {
	store, dir := newTestVault(t)
	writeFile(t, filepath.Join(dir, "scripts", "count.go"), "package main\n")
	src, err := store.ReadSource("scripts/count.go")
	if err != nil {
		t.Fatalf("read source: %v", err)
	}
	if src != "package main\n" {
		t.Fatalf("src = %q", src)
	}
}

func TestReadSourceCommunityAlias(t *testing.T) {
	store, dir := newTestVault(t)
	writeFile(t, filepath.Join(dir, MarginaliaDir, "community", "badge.go"), "package main\n")
	src, err := store.ReadSource("community:badge.go")
	if err != nil {
		t.Fatalf("read community source: %v", err)
	}
	if src != "package main\n" {
		t.Fatalf("src = %q", src)
	}
}

func TestReadSourceEscapeRejected(t *testing.T) {
	store, _ := newTestVault(t)
	if _, err := store.ReadSource("../outside.go"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for escaping path, got %v", err)
	}
}

func TestNotesSkipsMarginaliaDir(t *testing.T) {
	store, dir := newTestVault(t)
	writeFile(t, filepath.Join(dir, "a.md"), "a")
	writeFile(t, filepath.Join(dir, "sub", "b.md"), "b")
	writeFile(t, filepath.Join(dir, MarginaliaDir, "c.md"), "c")
	writeFile(t, filepath.Join(dir, "script.go"), "package main")
	notes, err := store.Notes()
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if !reflect.DeepEqual(notes, []string{"a.md", "sub/b.md"}) {
		t.Fatalf("notes = %v", notes)
	}
}

func TestSplitFrontMatterMalformed(t *testing.T) {
	if _, _, err := SplitFrontMatter([]byte("---\n- not a mapping\n---\nbody")); !errors.Is(err, ErrMalformedFrontMatter) {
		t.Fatalf("expected ErrMalformedFrontMatter, got %v", err)
	}
}
