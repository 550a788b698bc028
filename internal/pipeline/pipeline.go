// Package pipeline runs one annotation through its generator and
// classifies whatever comes back. Every failure mode is contained here:
// callers always get a Result, never an error.
package pipeline

import (
	"fmt"

	"github.com/hferrand/marginalia"
	"github.com/hferrand/marginalia/internal/annot"
	"github.com/hferrand/marginalia/internal/generator"
	"github.com/hferrand/marginalia/internal/logbook"
	"github.com/hferrand/marginalia/internal/mapping"
	"github.com/hferrand/marginalia/internal/surface"
)

// Kind tags the classification of a generator's return value.
type Kind int

const (
	// KindEmpty renders nothing (generator returned nil).
	KindEmpty Kind = iota
	// KindText renders a literal text node, never interpreted as markup.
	KindText
	// KindElement renders the returned node tree as-is.
	KindElement
	// KindInvalid renders an inline error marker naming the annotation.
	KindInvalid
)

// Result is the outcome of executing one annotation.
type Result struct {
	Kind    Kind
	Text    string
	Element *surface.Node
	Name    string
	Err     error
}

// Node converts the result into a surface node. Empty results become an
// empty text node; invalid results become the error marker.
func (r Result) Node() *surface.Node {
	switch r.Kind {
	case KindText:
		return surface.NewLiteralText(r.Text)
	case KindElement:
		return r.Element
	case KindInvalid:
		return ErrorMarker(r.Name)
	default:
		return surface.NewText("")
	}
}

// ErrorMarker builds the visible inline marker shown for a failed
// annotation.
func ErrorMarker(name string) *surface.Node {
	marker := surface.NewElement("span", surface.NewText(fmt.Sprintf("⚠ #%s failed", name)))
	marker.SetAttr("class", "marginalia-error")
	return marker
}

// Notifier delivers transient user-facing messages.
type Notifier interface {
	Notify(message string)
}

// Pipeline executes generators for both surfaces.
type Pipeline struct {
	loader   *generator.Loader
	notifier Notifier
	log      *logbook.Logbook
}

// New wires the pipeline to its loader, notifier, and log. Notifier and
// log may be nil.
func New(loader *generator.Loader, notifier Notifier, log *logbook.Logbook) *Pipeline {
	return &Pipeline{loader: loader, notifier: notifier, log: log}
}

// Execute loads the mapped generator, invokes it with a fresh context,
// and classifies the result. Load and execution failures surface as an
// error-marker result plus a notification; an unsupported return value
// is marker-only, treated as a script bug rather than a host fault.
// Execute never panics and never returns an error to the caller.
func (p *Pipeline) Execute(m mapping.Mapping, docPath string, frontMatter map[string]any, args *annot.Args) (result Result) {
	result = Result{Kind: KindEmpty, Name: m.Name}
	defer func() {
		if rec := recover(); rec != nil {
			result = p.fail(m, docPath, fmt.Errorf("generator %s panicked: %v", m.GeneratorRef, rec))
		}
	}()

	fn, err := p.loader.Load(m.GeneratorRef)
	if err != nil {
		return p.fail(m, docPath, err)
	}

	ctx := &marginalia.Context{
		Name:        m.Name,
		Args:        args.Map(),
		Path:        docPath,
		FrontMatter: frontMatter,
		Notify:      p.notify,
	}
	out, err := fn(ctx)
	if err != nil {
		return p.fail(m, docPath, fmt.Errorf("generator %s: %w", m.GeneratorRef, err))
	}
	return p.classify(m, out)
}

func (p *Pipeline) classify(m mapping.Mapping, out any) Result {
	switch v := out.(type) {
	case nil:
		return Result{Kind: KindEmpty, Name: m.Name}
	case string:
		return Result{Kind: KindText, Text: v, Name: m.Name}
	case *surface.Node:
		if v == nil {
			return Result{Kind: KindEmpty, Name: m.Name}
		}
		return Result{Kind: KindElement, Element: v, Name: m.Name}
	default:
		err := fmt.Errorf("generator %s returned unsupported %T", m.GeneratorRef, out)
		p.logf("render #%s: %v", m.Name, err)
		return Result{Kind: KindInvalid, Name: m.Name, Err: err}
	}
}

// fail records a load or execution failure: inline marker plus a
// transient notification.
func (p *Pipeline) fail(m mapping.Mapping, docPath string, err error) Result {
	p.logf("render #%s in %s: %v", m.Name, docPath, err)
	p.notify(fmt.Sprintf("annotation #%s failed: %v", m.Name, err))
	return Result{Kind: KindInvalid, Name: m.Name, Err: err}
}

func (p *Pipeline) notify(message string) {
	if p.notifier != nil {
		p.notifier.Notify(message)
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.log != nil {
		p.log.Error(format, args...)
	}
}
