package live

import (
	"strings"

	"github.com/hferrand/marginalia/internal/markdown"
)

// Overlay renders the live view of a document: ShowReplacement spans
// are substituted with their handle's current content (placeholder or
// populated), everything else stays raw text. Substituted content is
// escaped so generator output displays literally when the overlay is
// fed to a Markdown renderer.
func Overlay(text string, set []Decoration) string {
	var b strings.Builder
	cursor := 0
	for _, dec := range set {
		if dec.Decision != ShowReplacement || dec.Handle == nil {
			continue
		}
		if dec.Match.Start < cursor {
			continue
		}
		b.WriteString(text[cursor:dec.Match.Start])
		b.WriteString(markdown.EscapeText(dec.Handle.Node().PlainText()))
		cursor = dec.Match.End()
	}
	b.WriteString(text[cursor:])
	return b.String()
}
