package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hferrand/marginalia/internal/live"
	"github.com/hferrand/marginalia/internal/markdown"
	"github.com/hferrand/marginalia/internal/staticrender"
	"github.com/hferrand/marginalia/internal/surface"
)

// staticPreviewMsg carries a finished static render back to the editor.
type staticPreviewMsg struct {
	path    string
	content string
}

// editorView is the two-pane note editor: raw source on the left,
// decorated preview on the right. The preview shows the live overlay
// (annotations replaced unless the cursor touches them) rendered
// through glamour.
type editorView struct {
	app  *App
	path string

	frontMatter map[string]any
	rawPrefix   string // frontmatter block as read from disk, kept verbatim on save
	dirty       bool

	textarea  textarea.Model
	preview   viewport.Model
	decorator *live.Decorator
	mode      surface.Mode

	// staticView pins the preview to a full static render until the
	// next edit or cursor move.
	staticView bool

	width  int
	height int
}

func newEditorView(a *App, path string) (*editorView, error) {
	frontMatter, body, err := a.store.ReadNote(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(filepath.Join(a.store.Root(), path))
	if err != nil {
		return nil, err
	}
	prefix := ""
	if n := len(raw) - len(body); n > 0 && strings.HasSuffix(string(raw), body) {
		prefix = string(raw[:n])
	}

	ta := textarea.New()
	ta.SetValue(body)
	ta.Focus()
	ta.CharLimit = 0

	ev := &editorView{
		app:         a,
		path:        path,
		frontMatter: frontMatter,
		rawPrefix:   prefix,
		textarea:    ta,
		preview:     viewport.New(0, 0),
		mode:        modeFromConfig(a.cfg.EditorMode()),
	}
	ev.decorator = live.NewDecorator(
		a.engine.Table,
		a.pipe,
		a.engine.Version,
		path,
		func() map[string]any { return ev.frontMatter },
		func(*live.Handle) {
			select {
			case a.msgs <- decorationReadyMsg{}:
			default:
			}
		},
	)
	return ev, nil
}

func modeFromConfig(mode string) surface.Mode {
	if mode == "source" {
		return surface.ModeSource
	}
	return surface.ModeLivePreview
}

func (e *editorView) Init() tea.Cmd {
	return textarea.Blink
}

func (e *editorView) resize(width, height int) {
	e.width = width
	e.height = height
	paneWidth := max(20, width/2-3)
	paneHeight := max(5, height-14)
	e.textarea.SetWidth(paneWidth)
	e.textarea.SetHeight(paneHeight)
	e.preview.Width = paneWidth
	e.preview.Height = paneHeight
	e.refreshPreview()
}

func (e *editorView) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+p":
			if e.mode == surface.ModeLivePreview {
				e.mode = surface.ModeSource
			} else {
				e.mode = surface.ModeLivePreview
			}
			e.staticView = false
			e.refreshPreview()
			return nil
		case "ctrl+r":
			return e.renderStatic()
		case "ctrl+s":
			if err := e.save(); err != nil {
				e.app.statusMsg = fmt.Sprintf("Save failed: %v", err)
				e.app.logError("Save %s failed: %v", e.path, err)
			} else {
				e.app.statusMsg = fmt.Sprintf("Saved %s", e.path)
			}
			return nil
		}
	}
	if m, ok := msg.(staticPreviewMsg); ok {
		if m.path == e.path && e.staticView {
			e.preview.SetContent(m.content)
		}
		return nil
	}

	before := e.textarea.Value()
	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)
	if e.textarea.Value() != before {
		e.dirty = true
	}
	if _, isKey := msg.(tea.KeyMsg); isKey {
		e.staticView = false
		e.refreshPreview()
	}
	return cmd
}

// cursorSelection converts the textarea cursor into a byte-offset
// selection over the note body.
func (e *editorView) cursorSelection() surface.Selection {
	value := e.textarea.Value()
	lines := strings.Split(value, "\n")
	row := e.textarea.Line()
	if row >= len(lines) {
		row = len(lines) - 1
	}
	offset := 0
	for i := 0; i < row; i++ {
		offset += len(lines[i]) + 1
	}
	info := e.textarea.LineInfo()
	col := info.StartColumn + info.CharOffset
	runes := []rune(lines[row])
	if col > len(runes) {
		col = len(runes)
	}
	offset += len(string(runes[:col]))
	return surface.Selection{From: offset, To: offset}
}

// refreshPreview rebuilds the decoration set for the current text and
// cursor, overlays replacements, and renders the result.
func (e *editorView) refreshPreview() {
	if e.staticView {
		return
	}
	text := e.textarea.Value()
	set := e.decorator.Rebuild(text, e.cursorSelection(), e.mode)
	e.preview.SetContent(e.renderMarkdown(live.Overlay(text, set)))
}

// renderStatic runs the full static surface pipeline off the update
// loop and pins the preview to the result.
func (e *editorView) renderStatic() tea.Cmd {
	e.staticView = true
	e.preview.SetContent("Rendering...")
	path := e.path
	body := e.textarea.Value()
	frontMatter := e.frontMatter
	renderer := staticrender.New(e.app.engine.Table, e.app.pipe)
	render := func() string {
		frag := markdown.Build(path, body)
		renderer.RenderFragment(frag, frontMatter)
		return e.renderMarkdown(markdown.ToMarkdown(frag))
	}
	return func() tea.Msg {
		return staticPreviewMsg{path: path, content: render()}
	}
}

func (e *editorView) renderMarkdown(md string) string {
	width := e.preview.Width
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// save writes the note back to disk, frontmatter untouched.
func (e *editorView) save() error {
	full := filepath.Join(e.app.store.Root(), e.path)
	if err := os.WriteFile(full, []byte(e.rawPrefix+e.textarea.Value()), 0o644); err != nil {
		return err
	}
	e.dirty = false
	e.app.logInfo("Saved %s", e.path)
	return nil
}

func (e *editorView) View() string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1)
	previewTitle := "PREVIEW"
	if e.staticView {
		previewTitle = "PREVIEW · static"
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).Render("SOURCE"),
		e.textarea.View(),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).Render(previewTitle),
		e.preview.View(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, border.Render(left), border.Render(right))
}
