// Package markdown builds surface fragments from note bodies. It is the
// baseline markup pass: it parses Markdown with goldmark and tags every
// annotation occurrence it finds in plain text, leaving the argument
// literal as the adjacent text node. Code spans and code blocks are
// never scanned for annotations.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hferrand/marginalia/internal/annot"
	"github.com/hferrand/marginalia/internal/surface"
)

// Build parses a note body into a fragment with annotation occurrences
// pre-marked.
func Build(path, body string) *surface.Fragment {
	src := []byte(body)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	root := surface.NewElement("article")
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		if node := convert(child, src); node != nil {
			root.AppendChild(node)
		}
	}
	return &surface.Fragment{Root: root, Path: path}
}

func convert(n ast.Node, src []byte) *surface.Node {
	switch v := n.(type) {
	case *ast.Heading:
		return convertChildren(surface.NewElement(headingTag(v.Level)), n, src)
	case *ast.Paragraph:
		return convertChildren(surface.NewElement("p"), n, src)
	case *ast.TextBlock:
		return convertChildren(surface.NewElement("span"), n, src)
	case *ast.Blockquote:
		return convertChildren(surface.NewElement("blockquote"), n, src)
	case *ast.List:
		tag := "ul"
		if v.IsOrdered() {
			tag = "ol"
		}
		return convertChildren(surface.NewElement(tag), n, src)
	case *ast.ListItem:
		return convertChildren(surface.NewElement("li"), n, src)
	case *ast.ThematicBreak:
		return surface.NewElement("hr")
	case *ast.Emphasis:
		tag := "em"
		if v.Level >= 2 {
			tag = "strong"
		}
		return convertChildren(surface.NewElement(tag), n, src)
	case *ast.Link:
		node := convertChildren(surface.NewElement("a"), n, src)
		node.SetAttr("href", string(v.Destination))
		return node
	case *ast.AutoLink:
		url := string(v.URL(src))
		node := surface.NewElement("a", surface.NewText(url))
		node.SetAttr("href", url)
		return node
	case *ast.CodeSpan:
		return surface.NewElement("code", surface.NewText(string(v.Text(src))))
	case *ast.FencedCodeBlock:
		return codeBlock(v.BaseBlock, src)
	case *ast.CodeBlock:
		return codeBlock(v.BaseBlock, src)
	case *ast.Text:
		// Handled by the parent via appendText; standalone fallback.
		return surface.NewText(string(v.Segment.Value(src)))
	default:
		return convertChildren(surface.NewElement("div"), n, src)
	}
}

func convertChildren(parent *surface.Node, n ast.Node, src []byte) *surface.Node {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			appendText(parent, string(textNode.Segment.Value(src)))
			if textNode.SoftLineBreak() || textNode.HardLineBreak() {
				parent.AppendChild(surface.NewText("\n"))
			}
			continue
		}
		if node := convert(child, src); node != nil {
			parent.AppendChild(node)
		}
	}
	return parent
}

func codeBlock(block ast.BaseBlock, src []byte) *surface.Node {
	var content []byte
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		content = append(content, segment.Value(src)...)
	}
	return surface.NewElement("pre", surface.NewElement("code", surface.NewText(string(content))))
}

// appendText splits a text run around annotation matches. The marker
// node carries only the marker and name; the argument literal stays as
// the immediately following text node, mirroring how the baseline pass
// leaves argument text for the renderer to strip.
func appendText(parent *surface.Node, content string) {
	matches := annot.Parse(content)
	if len(matches) == 0 {
		if content != "" {
			parent.AppendChild(surface.NewText(content))
		}
		return
	}
	cursor := 0
	for _, m := range matches {
		if m.Start > cursor {
			parent.AppendChild(surface.NewText(content[cursor:m.Start]))
		}
		nameEnd := m.Start + 1 + len(m.Name)
		marker := surface.NewElement("span", surface.NewText(content[m.Start:nameEnd]))
		marker.SetAttr("annotation", m.Name)
		parent.AppendChild(marker)
		if nameEnd < m.End() {
			parent.AppendChild(surface.NewText(content[nameEnd:m.End()]))
		}
		cursor = m.End()
	}
	if cursor < len(content) {
		parent.AppendChild(surface.NewText(content[cursor:]))
	}
}

func headingTag(level int) string {
	switch level {
	case 1:
		return "h1"
	case 2:
		return "h2"
	case 3:
		return "h3"
	case 4:
		return "h4"
	case 5:
		return "h5"
	default:
		return "h6"
	}
}
