// Package vault reads notes and generator sources from a Markdown note
// collection on disk. The engine never touches the filesystem directly;
// everything goes through a Store.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// MarginaliaDir is the directory created inside every vault.
	MarginaliaDir = ".marginalia"
	// CommunityPrefix is the reserved alias namespace for generator
	// references that resolve against the locally materialized community
	// store instead of the vault itself.
	CommunityPrefix = "community:"
)

// ErrNotFound indicates a note or generator source does not exist.
var ErrNotFound = errors.New("vault: not found")

// Store provides read access to one vault directory.
type Store struct {
	root         string
	communityDir string
}

// Open validates the vault root and returns a store. The community
// directory lives under .marginalia/community.
func Open(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("vault: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: open %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault: %s is not a directory", abs)
	}
	return &Store{
		root:         abs,
		communityDir: filepath.Join(abs, MarginaliaDir, "community"),
	}, nil
}

// Root returns the absolute vault root.
func (s *Store) Root() string { return s.root }

// ReadNote loads a note by vault-relative path and splits its
// frontmatter from the body.
func (s *Store) ReadNote(path string) (map[string]any, string, error) {
	abs, err := s.resolve(s.root, path)
	if err != nil {
		return nil, "", err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("vault: note %s: %w", path, ErrNotFound)
		}
		return nil, "", fmt.Errorf("vault: read note %s: %w", path, err)
	}
	meta, body, err := SplitFrontMatter(content)
	if err != nil {
		return nil, "", fmt.Errorf("vault: note %s: %w", path, err)
	}
	return meta, string(body), nil
}

// FrontMatter returns only the metadata block of a note.
func (s *Store) FrontMatter(path string) (map[string]any, error) {
	meta, _, err := s.ReadNote(path)
	return meta, err
}

// ReadSource resolves a generator reference to source text. Plain
// references are vault-relative paths; the community: prefix resolves
// against the materialized community directory.
func (s *Store) ReadSource(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("vault: empty generator reference: %w", ErrNotFound)
	}
	base := s.root
	rel := ref
	if strings.HasPrefix(ref, CommunityPrefix) {
		base = s.communityDir
		rel = strings.TrimPrefix(ref, CommunityPrefix)
	}
	abs, err := s.resolve(base, rel)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("vault: generator %s: %w", ref, ErrNotFound)
		}
		return "", fmt.Errorf("vault: read generator %s: %w", ref, err)
	}
	return string(content), nil
}

// Notes walks the vault and returns every Markdown note path, sorted,
// skipping the .marginalia directory.
func (s *Store) Notes() ([]string, error) {
	var notes []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == MarginaliaDir || strings.HasPrefix(d.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		notes = append(notes, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault: list notes: %w", err)
	}
	sort.Strings(notes)
	return notes, nil
}

// resolve joins a vault-relative path onto base and rejects escapes.
func (s *Store) resolve(base, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return "", fmt.Errorf("vault: empty path: %w", ErrNotFound)
	}
	abs := filepath.Join(base, filepath.FromSlash(rel))
	cleanBase := filepath.Clean(base) + string(filepath.Separator)
	if !strings.HasPrefix(abs, cleanBase) {
		return "", fmt.Errorf("vault: path %s escapes the vault: %w", rel, ErrNotFound)
	}
	return abs, nil
}
