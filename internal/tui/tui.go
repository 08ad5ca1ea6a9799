// Package tui is the terminal front end of the editor: a tab strip over one
// editor pane, a docked search/replace panel, a status bar and modal dialogs.
package tui

import (
	"context"
	"errors"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/vate/internal/buffer"
	"github.com/xonecas/vate/internal/config"
	"github.com/xonecas/vate/internal/diff"
	"github.com/xonecas/vate/internal/filesearch"
	"github.com/xonecas/vate/internal/highlight"
	"github.com/xonecas/vate/internal/shell"
	"github.com/xonecas/vate/internal/store"
	"github.com/xonecas/vate/internal/tabs"
	"github.com/xonecas/vate/internal/tui/editor"
	"github.com/xonecas/vate/internal/tui/modal"
	"github.com/xonecas/vate/internal/watch"
)

type focusArea int

const (
	focusEditor focusArea = iota
	focusSearch
)

// Options are the collaborators of the UI. Only Config is required.
type Options struct {
	Config     *config.Config
	ConfigPath string // where the session is written on quit; "" skips it
	Store      *store.Store
	Watcher    *watch.Watcher
	Shell      *shell.Shell
	Searcher   *filesearch.Searcher
	Files      []string // opened at start; an untitled tab when empty
}

// tabState is the view state kept per tab.
type tabState struct {
	ed       *editor.Model
	baseline string // file content at load or save
	stale    bool   // buffer changed since the diff marks were computed
	detach   func()
}

// Model is the application model.
type Model struct {
	width  int
	height int
	layout layout

	cfg      *config.Config
	cfgPath  string
	store    *store.Store
	watcher  *watch.Watcher
	shell    *shell.Shell
	searcher *filesearch.Searcher

	palette highlight.Palette
	styles  Styles

	tabs  *tabs.Collection
	state map[string]*tabState
	focus focusArea

	search *searchDialog

	picker   *modal.Model
	onPick   func(m *Model, it modal.Item) tea.Cmd
	confirm  *modal.Confirm
	onChoose func(m *Model, button int) tea.Cmd
	prompt   *prompt

	status    string
	statusErr bool
	statusSeq int

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the UI and opens opts.Files.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	pal := highlight.ThemePalette(cfg.Colors.SyntaxTheme).Override(
		cfg.Colors.Background, cfg.Colors.Foreground,
		cfg.Colors.LineNumbers, cfg.Colors.LineNumbersBack,
		cfg.Colors.Selection, cfg.Colors.MatchHighlight,
	)
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		cfg:      cfg,
		cfgPath:  opts.ConfigPath,
		store:    opts.Store,
		watcher:  opts.Watcher,
		shell:    opts.Shell,
		searcher: opts.Searcher,
		palette:  pal,
		styles:   newStyles(pal),
		tabs:     tabs.New(),
		state:    make(map[string]*tabState),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, p := range opts.Files {
		if err := m.openPath(p); err != nil && !errors.Is(err, tabs.ErrAlreadyOpen) {
			log.Warn().Err(err).Str("path", p).Msg("failed to open file")
			m.setStatus(err.Error(), true)
		}
	}
	if m.tabs.Len() == 0 {
		m.newUntitled()
	} else if a := cfg.Session.Active; len(opts.Files) == len(cfg.Session.OpenFiles) && a >= 0 && a < m.tabs.Len() {
		m.tabs.Activate(a)
	}
	return m
}

// Init starts listening for file changes.
func (m Model) Init() tea.Cmd {
	return waitForFileEvent(m.watcher)
}

// Tabs exposes the tab collection.
func (m Model) Tabs() *tabs.Collection { return m.tabs }

// ---------------------------------------------------------------------------
// Tab state
// ---------------------------------------------------------------------------

func (m *Model) newEditor(buf *buffer.Buffer, path string) *editor.Model {
	ed := editor.New(buf)
	ed.ShowLineNumbers = m.cfg.Editor.LineNumbers
	ed.TabWidth = m.cfg.Editor.TabWidth
	ed.Language = highlight.Detect(path, buf.Text())
	ed.SyntaxTheme = m.cfg.Colors.SyntaxTheme
	ed.BgHex = m.palette.Bg
	ed.LineNumStyle = m.styles.LineNum
	ed.SelectionStyle = m.styles.Selection
	ed.MatchStyle = m.styles.Match
	ed.CursorStyle = m.styles.Cursor
	ed.AddStyle = m.styles.Add
	ed.ChangeStyle = m.styles.Change
	ed.DeleteStyle = m.styles.Delete
	ed.Focus()
	if !m.layout.editor.Empty() {
		ed.SetWidth(m.layout.editor.Dx())
		ed.SetHeight(m.layout.editor.Dy())
	}
	return &ed
}

func (m *Model) track(t tabs.Tab) *tabState {
	st := &tabState{}
	switch t := t.(type) {
	case *tabs.EditorTab:
		st.ed = m.newEditor(t.Buffer(), t.Path())
		st.baseline = t.Buffer().Text()
		st.detach = t.Buffer().OnChange(func(buffer.Change) { st.stale = true })
		if t.Path() != "" {
			m.watchPath(t.Path())
		}
	case *tabs.InfoTab:
		st.ed = m.newEditor(buffer.FromString("", t.Body()), "")
		st.ed.ReadOnly = true
		st.ed.ShowLineNumbers = false
	}
	m.state[t.ID()] = st
	return st
}

// active returns the active tab and its state.
func (m *Model) active() (tabs.Tab, *tabState) {
	t := m.tabs.Active()
	if t == nil {
		return nil, nil
	}
	return t, m.state[t.ID()]
}

func (m *Model) activeEditorTab() (*tabs.EditorTab, *tabState) {
	t, st := m.active()
	et, ok := t.(*tabs.EditorTab)
	if !ok {
		return nil, nil
	}
	return et, st
}

func (m *Model) newUntitled() {
	t := m.tabs.NewUntitled()
	t.Buffer().SetLineEnding(buffer.ParseLineEnding(m.cfg.Editor.LineSeparator))
	m.track(t)
}

// openPath opens path in a tab, or activates the tab that already has it.
func (m *Model) openPath(path string) error {
	if expanded, err := shell.Expand(path); err == nil && expanded != "" {
		path = expanded
	}
	t, err := m.tabs.Open(path)
	if err != nil {
		return err
	}
	m.track(t)
	m.store.AddRecent(t.Path(), m.cfg.Recent.Max)
	return nil
}

func (m *Model) watchPath(path string) {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Add(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to watch file")
	}
}

func (m *Model) unwatchPath(path string) {
	if m.watcher == nil || path == "" || m.tabs.IndexOf(path) >= 0 {
		return
	}
	if err := m.watcher.Remove(path); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("failed to unwatch file")
	}
}

// refreshMarks recomputes the diff gutter of the active tab when its buffer
// changed since the last computation.
func (m *Model) refreshMarks() {
	et, st := m.activeEditorTab()
	if et == nil || st == nil {
		return
	}
	if !st.stale && st.ed.Marks != nil {
		return
	}
	st.stale = false
	text := et.Buffer().Text()
	if et.Path() == "" || text == st.baseline {
		st.ed.Marks = map[int]diff.Mark{}
		return
	}
	marks := diff.Markers(st.baseline, text)
	if marks == nil {
		marks = map[int]diff.Mark{}
	}
	st.ed.Marks = marks
}

// rebase records the buffer text as the new on-disk state after a load or save.
func (m *Model) rebase(et *tabs.EditorTab) {
	if st := m.state[et.ID()]; st != nil {
		st.baseline = et.Buffer().Text()
		st.ed.Marks = nil
	}
}

// onDisk reads path and decodes it the way buffers are loaded.
func onDisk(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // open document
	if err != nil {
		return "", err
	}
	return decodeDoc(data)
}

func decodeDoc(data []byte) (string, error) {
	text, err := buffer.Decode(data)
	if err != nil {
		return "", err
	}
	return buffer.FromString("", text).Text(), nil
}

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.status = msg
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}
