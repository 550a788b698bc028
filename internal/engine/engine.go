// Package engine owns the shared mutable state of the annotation
// renderer: the mapping table, the generator cache, and the live
// decoration version. All writes happen synchronously on the event
// path in response to configuration and command events.
package engine

import (
	"github.com/hferrand/marginalia/internal/generator"
	"github.com/hferrand/marginalia/internal/live"
	"github.com/hferrand/marginalia/internal/logbook"
	"github.com/hferrand/marginalia/internal/mapping"
)

// Engine ties the mapping table, generator cache, and invalidation
// signal together and enforces their coupling: rebuilding mappings
// always clears the cache, while clearing the cache never touches
// mappings.
type Engine struct {
	Table   *mapping.Table
	Loader  *generator.Loader
	Version *live.Version

	log *logbook.Logbook
}

// New builds an engine around the given loader.
func New(loader *generator.Loader, log *logbook.Logbook) *Engine {
	return &Engine{
		Table:   mapping.NewTable(),
		Loader:  loader,
		Version: &live.Version{},
		log:     log,
	}
}

// RebuildMappings replaces the mapping index from a configuration
// snapshot. Stale compiled generators must never run against mappings
// that no longer point at them, so the cache is cleared and live
// decorations invalidated in the same step.
func (e *Engine) RebuildMappings(mappings []mapping.Mapping) {
	e.Table.Rebuild(mappings)
	e.Loader.Clear()
	e.Version.Bump()
	e.log.Info("mappings rebuilt: %d active", len(e.Table.Names()))
}

// ClearCache drops every compiled generator without touching mappings.
func (e *Engine) ClearCache() {
	e.Loader.Clear()
	e.Version.Bump()
	e.log.Info("generator cache cleared")
}

// InvalidateLive forces live surfaces to rebuild their decoration sets.
func (e *Engine) InvalidateLive() {
	e.Version.Bump()
}
