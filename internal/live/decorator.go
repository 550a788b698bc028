// Package live decorates the editable surface: it re-scans the
// document on every relevant update and decides, per annotation, whether
// the user sees raw text or generated content.
package live

import (
	"github.com/hferrand/marginalia/internal/annot"
	"github.com/hferrand/marginalia/internal/mapping"
	"github.com/hferrand/marginalia/internal/pipeline"
	"github.com/hferrand/marginalia/internal/surface"
)

// State classifies one scanned character range.
type State int

const (
	// StateUnmatched means no annotation (not emitted as a decoration).
	StateUnmatched State = iota
	// StateNoMapping means an annotation with no configured generator;
	// rendered as native text with no further action.
	StateNoMapping
	// StateMapped means the annotation is a replacement candidate.
	StateMapped
)

// Decoration is one entry of a rebuilt decoration set.
type Decoration struct {
	Match    annot.Match
	State    State
	Decision Decision
	Handle   *Handle
}

// Decorator maintains the decoration set for one document on the live
// surface. Rebuilds happen on the cooperative update path (never
// concurrently); only handle population runs in the background.
type Decorator struct {
	table   *mapping.Table
	pipe    *pipeline.Pipeline
	version *Version
	path    string

	seenVersion int64
	handles     map[string]*Handle
	frontMatter func() map[string]any
	onPopulated func(*Handle)
}

// NewDecorator builds a decorator for one document. frontMatter is
// consulted lazily per population; onPopulated fires from a background
// goroutine whenever a handle finishes loading (may be nil).
func NewDecorator(table *mapping.Table, pipe *pipeline.Pipeline, version *Version, path string, frontMatter func() map[string]any, onPopulated func(*Handle)) *Decorator {
	return &Decorator{
		table:       table,
		pipe:        pipe,
		version:     version,
		path:        path,
		seenVersion: version.Current(),
		handles:     map[string]*Handle{},
		frontMatter: frontMatter,
		onPopulated: onPopulated,
	}
}

// Rebuild discards the previous decoration set and recomputes it from
// the current text, selection, and mode. A version change since the
// last rebuild drops every cached handle first, forcing generators to
// re-run against the new configuration.
func (d *Decorator) Rebuild(text string, sel surface.Selection, mode surface.Mode) []Decoration {
	if current := d.version.Current(); current != d.seenVersion {
		d.seenVersion = current
		d.discardHandles()
	}
	var set []Decoration
	live := map[string]bool{}
	for _, match := range annot.Parse(text) {
		m, ok := d.table.Lookup(match.Name)
		if !ok {
			set = append(set, Decoration{Match: match, State: StateNoMapping, Decision: ShowNative})
			continue
		}
		dec := Decoration{Match: match, State: StateMapped}
		dec.Decision = Decide(match.Start, match.Length, sel, mode)
		if dec.Decision == ShowReplacement {
			dec.Handle = d.handleFor(m, match)
			live[handleKey(match.Name, d.path)] = true
		}
		set = append(set, dec)
	}
	// Handles that no replacement references anymore are detached so
	// any in-flight population resolves into nothing.
	for key, h := range d.handles {
		if !live[key] {
			h.detach()
			delete(d.handles, key)
		}
	}
	return set
}

// handleFor reuses an existing handle for (name, path) or creates one
// and starts its async population. Reuse tolerates argument-only
// changes as a staleness edge case.
func (d *Decorator) handleFor(m mapping.Mapping, match annot.Match) *Handle {
	key := handleKey(match.Name, d.path)
	if h, ok := d.handles[key]; ok {
		return h
	}
	h := newHandle(match.Name, d.path)
	d.handles[key] = h
	go d.populate(h, m, match.Args)
	return h
}

func (d *Decorator) populate(h *Handle, m mapping.Mapping, args *annot.Args) {
	var fm map[string]any
	if d.frontMatter != nil {
		fm = d.frontMatter()
	}
	result := d.pipe.Execute(m, d.path, fm, args)
	if h.populate(result.Node()) && d.onPopulated != nil {
		d.onPopulated(h)
	}
}

func (d *Decorator) discardHandles() {
	for key, h := range d.handles {
		h.detach()
		delete(d.handles, key)
	}
}

func handleKey(name, path string) string {
	return name + "\x00" + path
}
