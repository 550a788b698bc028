package markdown

import (
	"fmt"
	"strings"

	"github.com/hferrand/marginalia/internal/surface"
)

// ToMarkdown flattens a (possibly annotation-replaced) fragment back to
// Markdown text for terminal display.
func ToMarkdown(frag *surface.Fragment) string {
	if frag == nil || frag.Root == nil {
		return ""
	}
	var b strings.Builder
	for _, child := range frag.Root.Children {
		writeBlock(&b, child)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeBlock(b *strings.Builder, n *surface.Node) {
	if n == nil {
		return
	}
	if n.Kind == surface.KindText {
		b.WriteString(textContent(n))
		b.WriteString("\n\n")
		return
	}
	switch n.Tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Tag[1] - '0')
		b.WriteString(strings.Repeat("#", level))
		b.WriteByte(' ')
		b.WriteString(inline(n))
		b.WriteString("\n\n")
	case "p", "span", "div":
		text := inline(n)
		if strings.TrimSpace(text) != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	case "blockquote":
		var inner strings.Builder
		for _, child := range n.Children {
			writeBlock(&inner, child)
		}
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			b.WriteString("> ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	case "ul":
		writeList(b, n, func(int) string { return "- " })
		b.WriteByte('\n')
	case "ol":
		writeList(b, n, func(i int) string { return fmt.Sprintf("%d. ", i+1) })
		b.WriteByte('\n')
	case "pre":
		b.WriteString("```\n")
		b.WriteString(strings.TrimRight(n.PlainText(), "\n"))
		b.WriteString("\n```\n\n")
	case "hr":
		b.WriteString("---\n\n")
	default:
		b.WriteString(inline(n))
		b.WriteString("\n\n")
	}
}

func writeList(b *strings.Builder, list *surface.Node, bullet func(int) string) {
	for i, item := range list.Children {
		b.WriteString(bullet(i))
		b.WriteString(strings.TrimSpace(inline(item)))
		b.WriteByte('\n')
	}
}

// inline renders a node's content as inline Markdown.
func inline(n *surface.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == surface.KindText {
		return textContent(n)
	}
	var b strings.Builder
	for _, child := range n.Children {
		b.WriteString(inlineNode(child))
	}
	return b.String()
}

func inlineNode(n *surface.Node) string {
	if n.Kind == surface.KindText {
		return textContent(n)
	}
	content := inline(n)
	switch n.Tag {
	case "em":
		return "*" + content + "*"
	case "strong":
		return "**" + content + "**"
	case "code":
		return "`" + content + "`"
	case "a":
		if href := n.Attr("href"); href != "" {
			return "[" + content + "](" + href + ")"
		}
		return content
	case "span":
		if n.Attr("class") == "marginalia-error" {
			return "**" + content + "**"
		}
		return content
	default:
		return content
	}
}

// textContent emits a text node, escaping generator-produced content.
// Document-sourced text passes through unchanged so flattening stays a
// round trip.
func textContent(n *surface.Node) string {
	if n.Literal {
		return EscapeText(n.Text)
	}
	return n.Text
}

// EscapeText backslash-escapes every character Markdown or inline HTML
// could interpret, so generator output renders as the literal string
// the generator returned.
func EscapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune("\\`*_{}[]()#+-.!<>|~&", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
