// Package marginalia is the API surface exposed to generator scripts.
//
// A generator is a Go source file inside the vault, interpreted at
// runtime. It imports "marginalia" and defines:
//
//	func Render(ctx *marginalia.Context) (any, error)
//
// The returned value decides what replaces the annotation: a string is
// rendered as literal text, a node built with Element/Text is rendered
// as structured content, nil renders nothing. Anything else is reported
// as a script bug.
package marginalia

import (
	"reflect"

	"github.com/hferrand/marginalia/internal/surface"
)

// Node is the element tree type generators build replacement content
// from.
type Node = surface.Node

// Context carries everything a generator invocation can see: the
// annotation that triggered it, the note it lives in, and a notifier
// for transient user-facing messages.
type Context struct {
	Name        string
	Args        map[string]any
	Path        string
	FrontMatter map[string]any
	Notify      func(message string)
}

// Element builds an element node.
func Element(tag string, children ...*Node) *Node {
	return surface.NewElement(tag, children...)
}

// Text builds a literal text node. Its content always renders as the
// characters given, never as markup.
func Text(text string) *Node {
	return surface.NewLiteralText(text)
}

// Symbols returns the package's exported identifiers in the layout the
// script interpreter expects, so generator sources can import
// "marginalia" without the module being on their GOPATH.
func Symbols() map[string]map[string]reflect.Value {
	return map[string]map[string]reflect.Value{
		"marginalia/marginalia": {
			"Context": reflect.ValueOf((*Context)(nil)),
			"Node":    reflect.ValueOf((*Node)(nil)),
			"Element": reflect.ValueOf(Element),
			"Text":    reflect.ValueOf(Text),
		},
	}
}
