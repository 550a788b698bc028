// Package config handles the .marginalia directory inside a vault and
// the config.yaml file that maps annotation names to generator scripts.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hferrand/marginalia/internal/mapping"
	"github.com/hferrand/marginalia/internal/vault"
)

const defaultConfigYAML = `# marginalia configuration
version: 1

# Map annotation names to generator scripts. References are
# vault-relative paths, or community:<path> for generators materialized
# under .marginalia/community.
mappings:
  - name: count
    generator: scripts/count.go
    enabled: true

editor:
  # live-preview replaces annotations unless the cursor touches them;
  # source always shows raw text.
  mode: live-preview
`

// MappingEntry is one name→generator association in config.yaml. A
// missing enabled key means enabled.
type MappingEntry struct {
	Name      string `yaml:"name"`
	Generator string `yaml:"generator"`
	Enabled   *bool  `yaml:"enabled,omitempty"`
}

// EditorConfig captures live surface preferences.
type EditorConfig struct {
	Mode string `yaml:"mode"`
}

// File models .marginalia/config.yaml.
type File struct {
	Version  int            `yaml:"version"`
	Mappings []MappingEntry `yaml:"mappings"`
	Editor   EditorConfig   `yaml:"editor"`
}

// Config is the loaded runtime configuration for one vault.
type Config struct {
	VaultDir      string
	MarginaliaDir string

	File File
}

// Init creates the .marginalia directory structure and a default
// config.yaml if none exists.
//
// Structure created:
//
//	.marginalia/
//	├── config.yaml
//	├── logs/       <- engine activity log
//	└── community/  <- materialized community generators
func Init(vaultDir string) error {
	dir := filepath.Join(vaultDir, vault.MarginaliaDir)
	for _, sub := range []string{
		filepath.Join(dir, "logs"),
		filepath.Join(dir, "community"),
	} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", sub, err)
		}
	}
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write default config: %w", err)
	}
	return nil
}

// Load reads the vault's configuration. A missing config file yields
// the defaults.
func Load(vaultDir string) (*Config, error) {
	cfg := &Config{
		VaultDir:      vaultDir,
		MarginaliaDir: filepath.Join(vaultDir, vault.MarginaliaDir),
	}
	data, err := os.ReadFile(cfg.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", cfg.Path(), err)
	}
	if err := yaml.Unmarshal(data, &cfg.File); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", cfg.Path(), err)
	}
	return cfg, nil
}

// Path returns the on-disk location of config.yaml.
func (c *Config) Path() string {
	return filepath.Join(c.MarginaliaDir, "config.yaml")
}

// LogPath returns the engine log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.MarginaliaDir, "logs", "marginalia.log")
}

// EditorMode returns the configured live surface mode.
func (c *Config) EditorMode() string {
	mode := strings.TrimSpace(c.File.Editor.Mode)
	if mode == "" {
		return "live-preview"
	}
	return mode
}

// MappingSnapshot converts the config entries into the mapping table's
// input form.
func (c *Config) MappingSnapshot() []mapping.Mapping {
	out := make([]mapping.Mapping, 0, len(c.File.Mappings))
	for _, entry := range c.File.Mappings {
		enabled := entry.Enabled == nil || *entry.Enabled
		out = append(out, mapping.Mapping{
			Name:         entry.Name,
			GeneratorRef: entry.Generator,
			Enabled:      enabled,
		})
	}
	return out
}
