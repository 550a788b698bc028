package surface

// Fragment is a rendered slice of a document: a node tree plus the path
// of the note it came from.
type Fragment struct {
	Root *Node
	Path string
}

// Occurrence points at one baseline-recognized annotation node inside a
// fragment, addressed by its parent so the renderer can splice a
// replacement in place.
type Occurrence struct {
	Marker *Node
	Parent *Node
	Index  int
}

// Occurrences walks the fragment and collects every annotation node the
// baseline markup pass tagged. Order is document order.
func (f *Fragment) Occurrences() []Occurrence {
	if f == nil || f.Root == nil {
		return nil
	}
	var found []Occurrence
	var walk func(parent *Node)
	walk = func(parent *Node) {
		for i, child := range parent.Children {
			if child.Kind == KindElement && child.Attr("annotation") != "" {
				found = append(found, Occurrence{Marker: child, Parent: parent, Index: i})
				continue
			}
			if child.Kind == KindElement {
				walk(child)
			}
		}
	}
	walk(f.Root)
	return found
}

// Replace swaps the occurrence's marker node for the given node. The
// occurrence stays valid for its siblings: replacement never changes the
// child count of the parent.
func (o Occurrence) Replace(node *Node) {
	if o.Parent == nil || o.Index < 0 || o.Index >= len(o.Parent.Children) {
		return
	}
	if node == nil {
		node = NewText("")
	}
	o.Parent.Children[o.Index] = node
}

// NextSibling returns the node immediately after the marker, or nil.
func (o Occurrence) NextSibling() *Node {
	if o.Parent == nil || o.Index+1 >= len(o.Parent.Children) {
		return nil
	}
	return o.Parent.Children[o.Index+1]
}
