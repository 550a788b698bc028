// Package staticrender replaces annotation occurrences inside an
// already-built fragment with generator output. It operates on the
// static surface: one pass per render, occurrences processed
// concurrently with no ordering between them.
package staticrender

import (
	"sync"

	"github.com/hferrand/marginalia/internal/annot"
	"github.com/hferrand/marginalia/internal/mapping"
	"github.com/hferrand/marginalia/internal/pipeline"
	"github.com/hferrand/marginalia/internal/surface"
)

// Renderer walks fragments and applies the pipeline per occurrence.
type Renderer struct {
	table *mapping.Table
	pipe  *pipeline.Pipeline
}

// New wires the renderer to the shared mapping table and pipeline.
func New(table *mapping.Table, pipe *pipeline.Pipeline) *Renderer {
	return &Renderer{table: table, pipe: pipe}
}

// RenderFragment replaces every mapped annotation occurrence in the
// fragment in place. Occurrences without a mapping are left untouched,
// so re-running on already-rendered output is a no-op. Each occurrence
// is rendered in its own goroutine; a failure in one never blocks the
// others, and the call returns once all replacements are applied.
func (r *Renderer) RenderFragment(frag *surface.Fragment, frontMatter map[string]any) {
	if frag == nil {
		return
	}
	var wg sync.WaitGroup
	for _, occ := range frag.Occurrences() {
		markerText := occ.Marker.PlainText()
		adjacent := occ.NextSibling()
		full := markerText
		if adjacent != nil && adjacent.Kind == surface.KindText {
			full += adjacent.Text
		}
		matches := annot.Parse(full)
		if len(matches) == 0 || matches[0].Start != 0 {
			continue
		}
		match := matches[0]
		m, ok := r.table.Lookup(match.Name)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(occ surface.Occurrence, match annot.Match, m mapping.Mapping, markerLen int, adjacent *surface.Node) {
			defer wg.Done()
			result := r.pipe.Execute(m, frag.Path, frontMatter, match.Args)
			occ.Replace(result.Node())
			// Strip exactly the argument-literal bytes the match
			// consumed from the adjacent text; unrelated trailing text
			// stays.
			if consumed := match.End() - markerLen; consumed > 0 && adjacent != nil {
				adjacent.Text = adjacent.Text[consumed:]
			}
		}(occ, match, m, len(markerText), adjacentText(adjacent))
	}
	wg.Wait()
}

func adjacentText(n *surface.Node) *surface.Node {
	if n != nil && n.Kind == surface.KindText {
		return n
	}
	return nil
}
