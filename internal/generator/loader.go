package generator

import (
	"fmt"
	"sync"
)

// SourceStore resolves a generator reference to source text.
type SourceStore interface {
	ReadSource(ref string) (string, error)
}

// Loader resolves generator references to compiled functions, memoizing
// successful compilations by the literal reference string. Entries never
// expire on their own; only Clear removes them.
type Loader struct {
	store    SourceStore
	compiler Compiler

	mu    sync.Mutex
	cache map[string]Func
}

// NewLoader wires a loader to its source store and compiler.
func NewLoader(store SourceStore, compiler Compiler) *Loader {
	return &Loader{
		store:    store,
		compiler: compiler,
		cache:    map[string]Func{},
	}
}

// Load returns the compiled function for ref, compiling on first use.
// Failures are returned and never cached, so a fixed generator source
// compiles on the next attempt without a cache clear.
func (l *Loader) Load(ref string) (Func, error) {
	l.mu.Lock()
	if fn, ok := l.cache[ref]; ok {
		l.mu.Unlock()
		return fn, nil
	}
	l.mu.Unlock()

	src, err := l.store.ReadSource(ref)
	if err != nil {
		return nil, fmt.Errorf("generator: load %s: %w", ref, err)
	}
	fn, err := l.compiler.Compile(ref, src)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[ref] = fn
	l.mu.Unlock()
	return fn, nil
}

// Clear drops every cached compilation.
func (l *Loader) Clear() {
	l.mu.Lock()
	l.cache = map[string]Func{}
	l.mu.Unlock()
}

// IsCached reports whether ref has a cached compilation.
func (l *Loader) IsCached(ref string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[ref]
	return ok
}
