// Package community loads generator bundles materialized under
// .marginalia/community. A bundle is a directory with a community.yaml
// manifest listing the generator scripts it ships; mappings reference
// them with the community: prefix.
package community

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const manifestFilename = "community.yaml"

// Meta captures the required frontmatter for marginalia-managed bundles.
type Meta struct {
	Type    string `yaml:"type"`
	Version int    `yaml:"version"`
}

// GeneratorEntry describes one script shipped by a bundle.
type GeneratorEntry struct {
	Name        string `yaml:"name"`
	Path        string `yaml:"path"`
	Description string `yaml:"description,omitempty"`
}

// Manifest models the on-disk community.yaml schema.
type Manifest struct {
	Marginalia  Meta             `yaml:"marginalia"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Repository  string           `yaml:"repository,omitempty"`
	Generators  []GeneratorEntry `yaml:"generators"`
}

// Bundle represents a loaded community bundle.
type Bundle struct {
	Root     string
	Manifest Manifest
}

// Load reads and validates a community.yaml file from the provided directory.
func Load(root string) (*Bundle, error) {
	manifestPath := filepath.Join(root, manifestFilename)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("community: read %s: %w", manifestPath, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("community: parse %s: %w", manifestPath, err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("community: %w", err)
	}
	m.normalize()

	return &Bundle{Root: root, Manifest: m}, nil
}

// Discover loads every bundle directly under the community root.
// Directories without a manifest are skipped.
func Discover(communityDir string) ([]*Bundle, error) {
	entries, err := os.ReadDir(communityDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("community: scan %s: %w", communityDir, err)
	}
	var bundles []*Bundle
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		root := filepath.Join(communityDir, entry.Name())
		if _, err := os.Stat(filepath.Join(root, manifestFilename)); err != nil {
			continue
		}
		bundle, err := Load(root)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, bundle)
	}
	return bundles, nil
}

// ResolvePath converts a relative bundle path into an absolute path.
func (b *Bundle) ResolvePath(rel string) string {
	trimmed := strings.TrimSpace(rel)
	if trimmed == "" {
		return b.Root
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Join(b.Root, filepath.FromSlash(trimmed))
}

// Ref returns the mapping reference for one of the bundle's scripts,
// suitable for a config.yaml generator field.
func (b *Bundle) Ref(entry GeneratorEntry) string {
	return "community:" + filepath.ToSlash(filepath.Join(filepath.Base(b.Root), entry.Path))
}

func (m *Manifest) validate() error {
	if strings.ToLower(strings.TrimSpace(m.Marginalia.Type)) != "community" {
		return fmt.Errorf("marginalia.type must be 'community'")
	}
	if m.Marginalia.Version < 1 {
		return fmt.Errorf("marginalia.version must be >= 1")
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(m.Generators) == 0 {
		return fmt.Errorf("generators list is required")
	}
	for i, entry := range m.Generators {
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("generators[%d].name is required", i)
		}
		if strings.TrimSpace(entry.Path) == "" {
			return fmt.Errorf("generators[%d].path is required", i)
		}
	}
	return nil
}

func (m *Manifest) normalize() {
	for i := range m.Generators {
		m.Generators[i].Name = strings.TrimSpace(m.Generators[i].Name)
		m.Generators[i].Path = cleanPath(m.Generators[i].Path)
	}
}

func cleanPath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Clean(trimmed))
}
