package live

import (
	"fmt"
	"sync"

	"github.com/hferrand/marginalia/internal/surface"
)

// Handle is a two-phase replacement element: constructed synchronously
// as a placeholder, populated asynchronously once its generator
// resolves. Identity is (annotation name, document path); the decorator
// reuses a handle across rebuilds to avoid re-invoking the generator.
type Handle struct {
	Name string
	Path string

	mu       sync.Mutex
	node     *surface.Node
	ready    bool
	detached bool
}

func newHandle(name, path string) *Handle {
	return &Handle{Name: name, Path: path}
}

// Node returns the populated content, or a loading placeholder until
// population completes.
func (h *Handle) Node() *surface.Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready {
		return h.node
	}
	placeholder := surface.NewElement("span", surface.NewText(fmt.Sprintf("… #%s", h.Name)))
	placeholder.SetAttr("class", "marginalia-loading")
	return placeholder
}

// Ready reports whether population has completed.
func (h *Handle) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

// populate stores the resolved content. Only the first population wins;
// a population arriving after the handle was detached is a no-op.
func (h *Handle) populate(node *surface.Node) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready || h.detached {
		return false
	}
	h.node = node
	h.ready = true
	return true
}

// detach marks the handle as no longer referenced by any decoration
// set. In-flight populations for it resolve into nothing.
func (h *Handle) detach() {
	h.mu.Lock()
	h.detached = true
	h.mu.Unlock()
}
