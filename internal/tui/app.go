// internal/tui/app.go
//
// The marginalia TUI follows The Elm Architecture via bubbletea:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hferrand/marginalia/internal/config"
	"github.com/hferrand/marginalia/internal/engine"
	"github.com/hferrand/marginalia/internal/generator"
	"github.com/hferrand/marginalia/internal/logbook"
	"github.com/hferrand/marginalia/internal/pipeline"
	"github.com/hferrand/marginalia/internal/surface"
	"github.com/hferrand/marginalia/internal/vault"
)

// appState represents which "screen" we're on
type appState int

const (
	stateNotePicker appState = iota // Note list for the open vault
	stateEditor                     // Two-pane editor for one note
)

// notifyMsg carries a user-facing notification from the render
// pipeline onto the status line.
type notifyMsg struct {
	text string
}

// decorationReadyMsg signals that a background generator run finished
// and the live preview should re-overlay.
type decorationReadyMsg struct{}

// configChangedMsg signals a debounced change under .marginalia or the
// vault's scripts directory.
type configChangedMsg struct{}

// teaNotifier bridges pipeline notifications into the bubbletea
// message loop. Notify never blocks; a full channel drops the message
// (the logbook still has it).
type teaNotifier struct {
	msgs chan tea.Msg
}

func (n teaNotifier) Notify(message string) {
	select {
	case n.msgs <- notifyMsg{text: message}:
	default:
	}
}

// AppOption customizes App construction for tests.
type AppOption func(*App)

// WithoutWatcher disables the filesystem config watcher.
func WithoutWatcher() AppOption {
	return func(a *App) {
		if a.watcher != nil {
			_ = a.watcher.Close()
			a.watcher = nil
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	cfg     *config.Config
	store   *vault.Store
	engine  *engine.Engine
	pipe    *pipeline.Pipeline
	logbook *logbook.Logbook
	watcher *config.Watcher

	msgs chan tea.Msg

	noteMenu  list.Model
	editor    *editorView
	statusMsg string
	err       error

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// noteItem implements list.Item for vault notes.
type noteItem struct {
	path string
}

func (i noteItem) Title() string       { return i.path }
func (i noteItem) Description() string { return filepath.Dir(i.path) }
func (i noteItem) FilterValue() string { return i.path }

// NewApp opens the vault, loads configuration, and wires the render
// engine behind the editor.
func NewApp(vaultDir string, opts ...AppOption) (*App, error) {
	if err := config.Init(vaultDir); err != nil {
		return nil, err
	}
	cfg, err := config.Load(vaultDir)
	if err != nil {
		return nil, err
	}
	store, err := vault.Open(vaultDir)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		return nil, err
	}
	lb.Info("Session opened · vault: %s", vaultDir)

	msgs := make(chan tea.Msg, 16)
	loader := generator.NewLoader(store, generator.YaegiCompiler{})
	pipe := pipeline.New(loader, teaNotifier{msgs: msgs}, lb)
	eng := engine.New(loader, lb)
	eng.RebuildMappings(cfg.MappingSnapshot())

	noteMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	noteMenu.Title = "✎ MARGINALIA"
	noteMenu.SetShowStatusBar(false)

	app := &App{
		state:    stateNotePicker,
		cfg:      cfg,
		store:    store,
		engine:   eng,
		pipe:     pipe,
		logbook:  lb,
		msgs:     msgs,
		noteMenu: noteMenu,
	}
	if watcher, err := config.NewWatcher(cfg.MarginaliaDir, filepath.Join(vaultDir, "scripts")); err == nil {
		app.watcher = watcher
	} else {
		lb.Warn("Config watcher unavailable: %v", err)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if err := app.refreshNoteMenu(); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) refreshNoteMenu() error {
	notes, err := a.store.Notes()
	if err != nil {
		return err
	}
	items := make([]list.Item, len(notes))
	for i, path := range notes {
		items[i] = noteItem{path: path}
	}
	a.noteMenu.SetItems(items)
	return nil
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.waitForMessage()}
	if a.watcher != nil {
		cmds = append(cmds, a.waitForConfigChange())
	}
	return tea.Batch(cmds...)
}

// waitForMessage forwards pipeline notifications and decoration
// signals into the update loop. Re-armed after every receipt.
func (a *App) waitForMessage() tea.Cmd {
	return func() tea.Msg {
		return <-a.msgs
	}
}

func (a *App) waitForConfigChange() tea.Cmd {
	watcher := a.watcher
	return func() tea.Msg {
		if watcher == nil {
			return nil
		}
		if _, ok := <-watcher.Events(); !ok {
			return nil
		}
		return configChangedMsg{}
	}
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.noteMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		if a.editor != nil {
			a.editor.resize(msg.Width, msg.Height)
		}
		return a, nil

	case notifyMsg:
		a.statusMsg = msg.text
		return a, a.waitForMessage()

	case decorationReadyMsg:
		if a.editor != nil {
			a.editor.refreshPreview()
		}
		return a, a.waitForMessage()

	case configChangedMsg:
		return a, tea.Batch(a.reloadConfig(), a.waitForConfigChange())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateNotePicker && !a.noteMenu.SettingFilter() {
				return a, tea.Quit
			}
		case "esc":
			if a.state == stateEditor {
				return a.returnToNotePicker()
			}
		case "enter":
			if a.state == stateNotePicker && !a.noteMenu.SettingFilter() {
				return a.openSelectedNote()
			}
		}
	}

	var cmds []tea.Cmd
	switch a.state {
	case stateNotePicker:
		var menuCmd tea.Cmd
		a.noteMenu, menuCmd = a.noteMenu.Update(msg)
		if menuCmd != nil {
			cmds = append(cmds, menuCmd)
		}
	case stateEditor:
		if a.editor != nil {
			if cmd := a.editor.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return a, tea.Batch(cmds...)
}

// reloadConfig re-reads config.yaml and rebuilds the mapping table.
// Script changes flow through the same path: the rebuild clears the
// generator cache so edited sources recompile on next use.
func (a *App) reloadConfig() tea.Cmd {
	cfg, err := config.Load(a.cfg.VaultDir)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Config reload failed: %v", err)
		a.logError("Config reload failed: %v", err)
		return nil
	}
	a.cfg = cfg
	a.engine.RebuildMappings(cfg.MappingSnapshot())
	a.statusMsg = fmt.Sprintf("Config reloaded · %d mapping(s)", len(a.engine.Table.Names()))
	if a.editor != nil {
		a.editor.refreshPreview()
	}
	return nil
}

func (a *App) openSelectedNote() (tea.Model, tea.Cmd) {
	item, ok := a.noteMenu.SelectedItem().(noteItem)
	if !ok {
		return a, nil
	}
	editor, err := newEditorView(a, item.path)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Open failed: %v", err)
		a.logError("Open %s failed: %v", item.path, err)
		return a, nil
	}
	a.editor = editor
	a.state = stateEditor
	a.statusMsg = fmt.Sprintf("Editing %s", item.path)
	a.logInfo("Opened %s", item.path)
	if a.width > 0 && a.height > 0 {
		a.editor.resize(a.width, a.height)
	}
	a.editor.refreshPreview()
	return a, a.editor.Init()
}

func (a *App) returnToNotePicker() (tea.Model, tea.Cmd) {
	if a.editor != nil && a.editor.dirty {
		if err := a.editor.save(); err != nil {
			a.statusMsg = fmt.Sprintf("Save failed: %v", err)
			a.logError("Save %s failed: %v", a.editor.path, err)
			return a, nil
		}
	}
	a.state = stateNotePicker
	a.editor = nil
	a.statusMsg = ""
	if err := a.refreshNoteMenu(); err != nil {
		a.statusMsg = fmt.Sprintf("Vault scan failed: %v", err)
	}
	return a, nil
}

// View renders the current state to a string.
func (a *App) View() string {
	var content string
	switch a.state {
	case stateNotePicker:
		content = a.noteMenu.View()
	case stateEditor:
		if a.editor != nil {
			content = a.editor.View()
		} else {
			content = "Loading note..."
		}
	}
	sections := []string{a.renderHeader(), content}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, a.renderFooter())
	return strings.Join(sections, "\n")
}

func (a *App) renderHeader() string {
	title := "✎ MARGINALIA"
	if a.editor != nil {
		title += " · " + a.editor.path
		if a.editor.mode == surface.ModeLivePreview {
			title += " · live preview"
		} else {
			title += " · source"
		}
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		MarginBottom(1).
		Render(title)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", filepath.Base(a.logbook.Path())))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderFooter() string {
	hint := "Enter → open    q → quit"
	if a.state == stateEditor {
		hint = "Ctrl+P → toggle mode    Ctrl+R → static render    Ctrl+S → save    Esc → back"
	}
	status := a.statusMsg
	if status != "" {
		status += "    "
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(status + hint)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
