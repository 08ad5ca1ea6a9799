package tui

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/vate/internal/search"
	"github.com/xonecas/vate/internal/store"
)

const historyLimit = 50

// searchDialog is the docked find/replace panel. It owns one search
// session, discarded when the panel closes.
type searchDialog struct {
	session *search.Session
	find    textinput.Model
	repl    textinput.Model
	field   int // 0 find, 1 replace

	replaceEnabled bool
	searched       bool // pattern unchanged since the last search

	history map[store.Kind][]string
	histPos int // -1 when not browsing
}

// textinput keys forwarded to the focused field
var fieldKeys = map[string]bool{
	"backspace": true, "delete": true, "left": true, "right": true,
	"home": true, "end": true, "ctrl+left": true, "ctrl+right": true,
	"alt+backspace": true, "ctrl+k": true, "ctrl+u": true,
}

func newSearchDialog(tabs search.Tabs, st *store.Store, withReplace bool) *searchDialog {
	find := textinput.New()
	find.Prompt = "Find:    "
	find.Placeholder = "text"
	repl := textinput.New()
	repl.Prompt = "Replace: "
	repl.Placeholder = "replacement"

	d := &searchDialog{
		session:        search.NewSession(tabs),
		find:           find,
		repl:           repl,
		replaceEnabled: withReplace,
		histPos:        -1,
		history: map[store.Kind][]string{
			store.KindSearch:  st.History(store.KindSearch, historyLimit),
			store.KindReplace: st.History(store.KindReplace, historyLimit),
		},
	}
	d.find.Focus()
	return d
}

func (d *searchDialog) focusField(i int) {
	d.field = i
	d.histPos = -1
	if i == 0 {
		d.find.Focus()
		d.repl.Blur()
	} else {
		d.repl.Focus()
		d.find.Blur()
	}
}

func (d *searchDialog) input() *textinput.Model {
	if d.field == 1 {
		return &d.repl
	}
	return &d.find
}

func (d *searchDialog) kind() store.Kind {
	if d.field == 1 {
		return store.KindReplace
	}
	return store.KindSearch
}

// browseHistory steps through the stored terms of the focused field.
// step 1 goes to older entries.
func (d *searchDialog) browseHistory(step int) {
	h := d.history[d.kind()]
	if len(h) == 0 {
		return
	}
	pos := d.histPos + step
	if pos < -1 {
		pos = -1
	}
	if pos >= len(h) {
		pos = len(h) - 1
	}
	d.histPos = pos
	in := d.input()
	if pos == -1 {
		in.SetValue("")
	} else {
		in.SetValue(h[pos])
	}
	in.CursorEnd()
	if d.field == 0 {
		d.searched = false
	}
}

func (d *searchDialog) remember(kind store.Kind, term string) {
	if term == "" {
		return
	}
	h := d.history[kind]
	out := []string{term}
	for _, t := range h {
		if t != term && len(out) < historyLimit {
			out = append(out, t)
		}
	}
	d.history[kind] = out
}

// swap exchanges the find and replace texts.
func (d *searchDialog) swap() {
	f, r := d.find.Value(), d.repl.Value()
	d.find.SetValue(r)
	d.repl.SetValue(f)
	d.find.CursorEnd()
	d.repl.CursorEnd()
	d.searched = false
}

// ---------------------------------------------------------------------------
// Model glue
// ---------------------------------------------------------------------------

// openSearch opens the panel, or focuses it when already open.
func (m *Model) openSearch(withReplace bool) tea.Cmd {
	if m.search == nil {
		m.search = newSearchDialog(m.tabs, m.store, withReplace)
		if _, st := m.activeEditorTab(); st != nil {
			if sel := st.ed.SelectedText(); sel != "" && !strings.Contains(sel, "\n") {
				m.search.find.SetValue(sel)
				m.search.find.CursorEnd()
			}
		}
		m.relayout()
	} else if withReplace {
		m.search.replaceEnabled = true
	}
	m.focus = focusSearch
	for _, st := range m.state {
		st.ed.Blur()
	}
	if withReplace && m.search.find.Value() != "" {
		m.search.focusField(1)
	} else {
		m.search.focusField(0)
	}
	return nil
}

func (m *Model) closeSearch() {
	m.search = nil
	m.focusEditor()
	m.relayout()
}

// runSearch searches for the find text, or steps to the next match when
// the text has not changed since the last search.
func (m *Model) runSearch(forward bool) tea.Cmd {
	d := m.search
	pattern := d.find.Value()
	if pattern == "" {
		d.session.Reset()
		d.searched = false
		return nil
	}
	if !d.searched || d.session.State() == search.Idle {
		d.session.Search(pattern)
		d.searched = true
		d.remember(store.KindSearch, pattern)
		m.store.AddHistory(store.KindSearch, pattern)
		if !forward && d.session.Total() > 1 {
			// the search selected the first match; wrap back to the last
			d.session.Previous()
		}
	} else if forward {
		d.session.Next()
	} else {
		d.session.Previous()
	}
	m.revealMatch()
	return nil
}

// replaceOne replaces the current match and moves to the next one.
func (m *Model) replaceOne() tea.Cmd {
	d := m.search
	if !d.replaceEnabled {
		return m.setStatus("Replace is off (ctrl+e)", true)
	}
	if !d.searched || d.session.State() != search.HasResults {
		return m.runSearch(true)
	}
	repl := d.repl.Value()
	ok, err := d.session.ReplaceCurrent(repl)
	if err != nil {
		log.Warn().Err(err).Msg("replace failed")
		return m.setStatus("Replace failed: "+err.Error(), true)
	}
	m.rememberReplacement(repl)
	m.revealMatch()
	if !ok {
		return m.setStatus("Text changed since the search; results refreshed", false)
	}
	return nil
}

// replaceAll replaces every match in the session's scope.
func (m *Model) replaceAll() tea.Cmd {
	d := m.search
	if !d.replaceEnabled {
		return m.setStatus("Replace is off (ctrl+e)", true)
	}
	if pattern := d.find.Value(); !d.searched && pattern != "" {
		d.session.Search(pattern)
		d.searched = true
	}
	repl := d.repl.Value()
	n, err := d.session.ReplaceAll(repl)
	if err != nil {
		log.Warn().Err(err).Msg("replace all failed")
		return m.setStatus("Replace failed: "+err.Error(), true)
	}
	m.rememberReplacement(repl)
	m.revealMatch()
	if n == 1 {
		return m.setStatus("Replaced 1 occurrence", false)
	}
	return m.setStatus("Replaced "+strconv.Itoa(n)+" occurrences", false)
}

func (m *Model) rememberReplacement(repl string) {
	m.search.remember(store.KindReplace, repl)
	m.store.AddHistory(store.KindReplace, repl)
}

// revealMatch scrolls the active editor to the selected match.
func (m *Model) revealMatch() {
	if _, st := m.active(); st != nil {
		st.ed.ScrollToCaret()
	}
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	d := m.search
	key := msg.Keystroke()
	switch key {
	case "esc":
		m.closeSearch()
		return nil, true
	case "enter", "f3":
		return m.runSearch(true), true
	case "shift+enter", "shift+f3":
		return m.runSearch(false), true
	case "tab", "shift+tab":
		if d.replaceEnabled {
			d.focusField(1 - d.field)
		}
		return nil, true
	case "up":
		d.browseHistory(1)
		return nil, true
	case "down":
		d.browseHistory(-1)
		return nil, true
	case "ctrl+t":
		if d.session.Scope() == search.AllTabs {
			d.session.SetScope(search.ActiveTab)
		} else {
			d.session.SetScope(search.AllTabs)
		}
		m.revealMatch()
		return nil, true
	case "ctrl+e":
		d.replaceEnabled = !d.replaceEnabled
		if !d.replaceEnabled {
			d.focusField(0)
		}
		return nil, true
	case "ctrl+x":
		d.swap()
		return nil, true
	case "ctrl+r":
		return m.replaceOne(), true
	case "alt+a":
		return m.replaceAll(), true
	}

	if msg.Text == "" && !fieldKeys[key] {
		return nil, false
	}
	if d.field == 1 && !d.replaceEnabled {
		return nil, true
	}
	in := d.input()
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if d.field == 0 && in.Value() != before {
		d.searched = false
		d.histPos = -1
	}
	return cmd, true
}
