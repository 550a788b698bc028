package surface

import "strings"

// NodeKind distinguishes element nodes from text nodes.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindText
)

// Node is the minimal render tree both surfaces operate on. Generators
// return *Node values when they produce structured content instead of
// plain text.
type Node struct {
	Kind NodeKind
	Tag  string
	Text string
	// Literal marks generator-produced text: flatteners must escape it
	// so markup-significant characters display as written instead of
	// being interpreted.
	Literal  bool
	Attrs    map[string]string
	Children []*Node
}

// NewElement builds an element node with the given child nodes.
func NewElement(tag string, children ...*Node) *Node {
	return &Node{Kind: KindElement, Tag: tag, Children: children}
}

// NewText builds a text node.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// NewLiteralText builds a text node for generator output. Its content
// renders as the literal characters it contains: flatteners escape
// anything a downstream markup renderer would otherwise interpret.
func NewLiteralText(text string) *Node {
	return &Node{Kind: KindText, Text: text, Literal: true}
}

// AppendChild adds a child to an element node.
func (n *Node) AppendChild(child *Node) {
	if n == nil || child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// SetAttr sets an attribute on an element node.
func (n *Node) SetAttr(key, value string) {
	if n == nil || key == "" {
		return
	}
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[key] = value
}

// Attr returns the attribute value or "".
func (n *Node) Attr(key string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// PlainText concatenates the text content of the subtree.
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for _, child := range n.Children {
		b.WriteString(child.PlainText())
	}
	return b.String()
}
