package tui

import (
	"strconv"

	tea "charm.land/bubbletea/v2"
)

type keyHandler func(*Model) tea.Cmd

// handleKeyPress runs the global binding for msg. Returns false when the key
// is not bound, so the editor gets it.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	key := msg.Keystroke()
	if h := keyPressHandlers[key]; h != nil {
		return h(m), true
	}
	if i, ok := tabNumber(key); ok {
		m.activateTab(i)
		return nil, true
	}
	return nil, false
}

var keyPressHandlers = map[string]keyHandler{
	"ctrl+n":       (*Model).handleNew,
	"ctrl+o":       (*Model).openFileModal,
	"alt+o":        (*Model).openRecentModal,
	"ctrl+s":       (*Model).handleSave,
	"ctrl+shift+s": (*Model).handleSaveAs,
	"f12":          (*Model).handleSaveAs,
	"alt+s":        (*Model).handleSaveAll,
	"ctrl+w":       (*Model).handleCloseTab,
	"ctrl+q":       (*Model).handleQuit,
	"ctrl+c":       (*Model).handleQuit,
	"ctrl+f":       (*Model).handleFind,
	"ctrl+r":       (*Model).handleReplace,
	"f3":           (*Model).handleFindNext,
	"shift+f3":     (*Model).handleFindPrevious,
	"alt+f":        (*Model).openGrepModal,
	"alt+e":        (*Model).handleExport,
	"alt+r":        (*Model).handleReveal,
	"alt+u":        (*Model).handleReload,
	"alt+b":        (*Model).handleRestoreBackup,
	"f1":           (*Model).openKeybindsModal,
	"f2":           (*Model).handleLicenses,
	"ctrl+pgdown":  (*Model).handleNextTab,
	"alt+right":    (*Model).handleNextTab,
	"ctrl+pgup":    (*Model).handlePrevTab,
	"alt+left":     (*Model).handlePrevTab,
	"esc":          (*Model).handleEsc,
}

// tabNumber parses alt+1 … alt+9 into a tab index.
func tabNumber(key string) (int, bool) {
	if len(key) != 5 || key[:4] != "alt+" {
		return 0, false
	}
	n, err := strconv.Atoi(key[4:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

func (m *Model) handleNew() tea.Cmd {
	m.newUntitled()
	m.focusEditor()
	return nil
}

func (m *Model) handleFind() tea.Cmd    { return m.openSearch(false) }
func (m *Model) handleReplace() tea.Cmd { return m.openSearch(true) }

func (m *Model) handleFindNext() tea.Cmd {
	if m.search == nil {
		return m.openSearch(false)
	}
	return m.runSearch(true)
}

func (m *Model) handleFindPrevious() tea.Cmd {
	if m.search == nil {
		return m.openSearch(false)
	}
	return m.runSearch(false)
}

func (m *Model) handleNextTab() tea.Cmd {
	m.tabs.Cycle(1)
	m.tabChanged()
	return nil
}

func (m *Model) handlePrevTab() tea.Cmd {
	m.tabs.Cycle(-1)
	m.tabChanged()
	return nil
}

func (m *Model) activateTab(i int) {
	if m.tabs.Activate(i) {
		m.tabChanged()
	}
}

// tabChanged gives the new active tab the editor focus unless the search
// panel has it.
func (m *Model) tabChanged() {
	if m.focus == focusEditor {
		m.focusEditor()
	}
	if _, st := m.active(); st != nil {
		st.ed.ScrollToCaret()
	}
}

// handleEsc moves focus between the search panel and the editor, and
// clears the selection when there is nothing else to do.
func (m *Model) handleEsc() tea.Cmd {
	if m.search != nil && m.focus == focusEditor {
		m.closeSearch()
		return nil
	}
	if _, st := m.active(); st != nil {
		st.ed.ClearSelection()
	}
	return nil
}

func (m *Model) focusEditor() {
	m.focus = focusEditor
	for id, st := range m.state {
		if t := m.tabs.Active(); t != nil && t.ID() == id {
			st.ed.Focus()
		} else {
			st.ed.Blur()
		}
	}
}

func (m *Model) focusSearchPanel() {
	if m.search == nil {
		return
	}
	m.focus = focusSearch
	m.search.focusField(m.search.field)
	for _, st := range m.state {
		st.ed.Blur()
	}
}
