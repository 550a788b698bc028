package markdown

import (
	"strings"
	"testing"

	"github.com/hferrand/marginalia/internal/surface"
)

func TestBuildMarksAnnotations(t *testing.T) {
	frag := Build("daily.md", "intro #count{limit: 5} outro\n")
	occ := frag.Occurrences()
	if len(occ) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occ))
	}
	marker := occ[0].Marker
	if marker.Attr("annotation") != "count" {
		t.Fatalf("annotation attr = %q", marker.Attr("annotation"))
	}
	if marker.PlainText() != "#count" {
		t.Fatalf("marker text = %q", marker.PlainText())
	}
	sibling := occ[0].NextSibling()
	if sibling == nil || sibling.Kind != surface.KindText {
		t.Fatalf("expected adjacent text node, got %+v", sibling)
	}
	if sibling.Text != "{limit: 5}" {
		t.Fatalf("adjacent args literal = %q", sibling.Text)
	}
}

func TestBuildSkipsCode(t *testing.T) {
	body := "para #real\n\n```\n#fenced{a: 1}\n```\n\nand `#span` inline\n"
	frag := Build("n.md", body)
	occ := frag.Occurrences()
	if len(occ) != 1 {
		t.Fatalf("expected only the paragraph annotation, got %d", len(occ))
	}
	if occ[0].Marker.Attr("annotation") != "real" {
		t.Fatalf("annotation = %q", occ[0].Marker.Attr("annotation"))
	}
}

func TestBuildHeadingsAndLists(t *testing.T) {
	frag := Build("n.md", "## Title\n\n- one #item\n- two\n")
	root := frag.Root
	if len(root.Children) < 2 {
		t.Fatalf("expected heading and list, got %d children", len(root.Children))
	}
	if root.Children[0].Tag != "h2" || root.Children[0].PlainText() != "Title" {
		t.Fatalf("heading = %+v", root.Children[0])
	}
	if root.Children[1].Tag != "ul" {
		t.Fatalf("list = %+v", root.Children[1])
	}
	if len(frag.Occurrences()) != 1 {
		t.Fatalf("expected annotation inside list item")
	}
}

func TestToMarkdownRoundTrip(t *testing.T) {
	frag := Build("n.md", "# Head\n\nsome *emphasis* and **bold** text\n")
	out := ToMarkdown(frag)
	for _, want := range []string{"# Head", "*emphasis*", "**bold**"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestToMarkdownAfterReplacement(t *testing.T) {
	frag := Build("n.md", "count is #count\n")
	occ := frag.Occurrences()
	if len(occ) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occ))
	}
	occ[0].Replace(surface.NewText("5"))
	out := ToMarkdown(frag)
	if !strings.Contains(out, "count is 5") {
		t.Fatalf("output = %q", out)
	}
}

func TestToMarkdownEscapesGeneratedText(t *testing.T) {
	frag := Build("n.md", "says #markup here\n")
	occ := frag.Occurrences()
	if len(occ) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occ))
	}
	occ[0].Replace(surface.NewLiteralText("**hi** and <b>bye</b>"))
	out := ToMarkdown(frag)
	want := `says \*\*hi\*\* and \<b\>bye\</b\> here` + "\n"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestEscapeText(t *testing.T) {
	got := EscapeText("a `b` #c \\d [e](f)")
	want := "a \\`b\\` \\#c \\\\d \\[e\\]\\(f\\)"
	if got != want {
		t.Fatalf("EscapeText = %q, want %q", got, want)
	}
}
