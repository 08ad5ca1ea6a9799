package tui

import (
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/vate/internal/shell"
	"github.com/xonecas/vate/internal/tabs"
	"github.com/xonecas/vate/internal/watch"
)

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.refreshMarks()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()
		return nil

	case fileEventMsg:
		return tea.Batch(m.handleFileEvent(watch.Event(msg)), waitForFileEvent(m.watcher))
	case watchClosedMsg:
		return nil

	case exportDoneMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Str("path", msg.path).Msg("export failed")
			return m.setStatus("Export failed: "+msg.err.Error(), true)
		}
		return m.setStatus("Exported "+msg.path, false)
	case revealDoneMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Int("exit", shell.ExitCode(msg.err)).Msg("reveal failed")
			return m.setStatus("Reveal failed: "+msg.err.Error(), true)
		}
		return nil
	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return nil
	}

	// Overlays take every input event while open.
	switch {
	case m.prompt != nil:
		return m.handlePromptMsg(msg)
	case m.confirm != nil:
		return m.updateConfirm(msg)
	case m.picker != nil:
		return m.updatePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.PasteMsg:
		m.insertPaste(msg.Content)
		return nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyPressMsg:
		if m.search != nil && m.focus == focusSearch {
			if cmd, handled := m.handleSearchKey(msg); handled {
				return cmd
			}
		}
		if cmd, handled := m.handleKeyPress(msg); handled {
			return cmd
		}
		if _, st := m.active(); st != nil {
			ed, cmd := st.ed.Update(msg)
			*st.ed = ed
			return cmd
		}
	}
	return nil
}

// relayout recomputes the layout and resizes every editor.
func (m *Model) relayout() {
	m.layout = generateLayout(m.width, m.height, m.search != nil)
	for _, st := range m.state {
		st.ed.SetWidth(m.layout.editor.Dx())
		st.ed.SetHeight(m.layout.editor.Dy())
	}
}

// insertPaste inserts pasted text into the focused component.
func (m *Model) insertPaste(text string) {
	if text == "" {
		return
	}
	if m.search != nil && m.focus == focusSearch {
		if m.search.field == 1 && !m.search.replaceEnabled {
			return
		}
		in := m.search.input()
		in.SetValue(in.Value() + text)
		in.CursorEnd()
		if m.search.field == 0 {
			m.search.searched = false
		}
		return
	}
	if _, st := m.active(); st != nil {
		st.ed.InsertText(text)
		st.ed.ScrollToCaret()
	}
}

// handleFileEvent marks open tabs whose file changed under them. Changes
// that match what the editor last loaded or saved are our own writes.
func (m *Model) handleFileEvent(ev watch.Event) tea.Cmd {
	i := m.tabs.IndexOf(ev.Path)
	if i < 0 {
		return nil
	}
	et, ok := m.tabs.At(i).(*tabs.EditorTab)
	if !ok {
		return nil
	}
	st := m.state[et.ID()]
	if ev.Op == watch.Removed {
		et.SetChangedOnDisk(true)
		return m.setStatus(et.Title()+" was deleted on disk", true)
	}
	text, err := onDisk(ev.Path)
	if err != nil {
		log.Debug().Err(err).Str("path", ev.Path).Msg("changed file unreadable")
		return nil
	}
	if st != nil && text == st.baseline {
		return nil
	}
	et.SetChangedOnDisk(true)
	return m.setStatus(et.Title()+" changed on disk (alt+u reloads)", false)
}

// reload replaces the active buffer with the file on disk.
func (m *Model) reload(et *tabs.EditorTab) tea.Cmd {
	if err := et.Reload(); err != nil {
		log.Warn().Err(err).Str("path", et.Path()).Msg("reload failed")
		return m.setStatus("Reload failed: "+err.Error(), true)
	}
	m.rebase(et)
	if m.search != nil {
		m.search.session.Reset()
		m.search.searched = false
	}
	return m.setStatus("Reloaded "+et.Title(), false)
}
