// Package mapping maintains the configured association between
// annotation names and generator references.
package mapping

import (
	"sort"
	"strings"
	"sync"
)

// Mapping connects one annotation name to a generator reference. Names
// are matched case-insensitively.
type Mapping struct {
	Name         string
	GeneratorRef string
	Enabled      bool
}

// Table is a read-optimized index over the configured mappings. It is
// rebuilt wholesale from every configuration snapshot; disabled entries
// never enter the index.
type Table struct {
	mu    sync.RWMutex
	index map[string]Mapping
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: map[string]Mapping{}}
}

// Rebuild clears and repopulates the index in one pass. Later entries
// with the same lowercased name win.
func (t *Table) Rebuild(mappings []Mapping) {
	index := make(map[string]Mapping, len(mappings))
	for _, m := range mappings {
		name := strings.ToLower(strings.TrimSpace(m.Name))
		if name == "" || !m.Enabled {
			continue
		}
		ref := strings.TrimSpace(m.GeneratorRef)
		if ref == "" {
			continue
		}
		index[name] = Mapping{Name: name, GeneratorRef: ref, Enabled: true}
	}
	t.mu.Lock()
	t.index = index
	t.mu.Unlock()
}

// Lookup resolves a name to its mapping, case-insensitively.
func (t *Table) Lookup(name string) (Mapping, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// Names returns the indexed annotation names, sorted.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.index))
	for name := range t.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
