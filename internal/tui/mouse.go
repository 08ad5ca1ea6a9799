package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// ---------------------------------------------------------------------------
// Mouse filter: throttle high-frequency events at program level.
// ---------------------------------------------------------------------------

var lastMouseEvent time.Time

// MouseEventFilter rate-limits wheel and motion events (15 ms).
// Pass to tea.WithFilter. Never drops clicks or releases.
func MouseEventFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	switch msg.(type) {
	case tea.MouseWheelMsg, tea.MouseMotionMsg:
		now := time.Now()
		if now.Sub(lastMouseEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseEvent = now
	}
	return msg
}

// ---------------------------------------------------------------------------
// Mouse handling: overlays swallow the mouse, then regions by layout rect.
// ---------------------------------------------------------------------------

func mouseXY(msg tea.MouseMsg) (int, int) {
	m := msg.Mouse()
	return m.X, m.Y
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	x, y := mouseXY(msg)
	_, st := m.active()

	switch ev := msg.(type) {
	case tea.MouseClickMsg:
		switch {
		case inRect(x, y, m.layout.tabs):
			return m.handleTabClick(ev, x)
		case inRect(x, y, m.layout.search) && ev.Button == tea.MouseLeft:
			m.handleSearchClick(y)
			return nil
		case !inRect(x, y, m.layout.editor):
			return nil
		}
		if ev.Button == tea.MouseLeft {
			m.focusEditor()
		}

	case tea.MouseWheelMsg:
		if !inRect(x, y, m.layout.editor) {
			return nil
		}
	}

	// Motion and release go to the editor wherever they happen so a drag
	// selection can leave the pane.
	if st == nil {
		return nil
	}
	ed, cmd := st.ed.Update(m.translateMouse(msg, m.layout.editor.Min.X, m.layout.editor.Min.Y))
	*st.ed = ed
	return cmd
}

// handleTabClick activates the clicked tab; a middle click closes it.
func (m *Model) handleTabClick(ev tea.MouseClickMsg, x int) tea.Cmd {
	for _, sp := range m.tabSpans() {
		if x < sp.start || x >= sp.end {
			continue
		}
		switch ev.Button {
		case tea.MouseLeft:
			m.activateTab(sp.index)
		case tea.MouseMiddle:
			m.activateTab(sp.index)
			return m.handleCloseTab()
		}
		return nil
	}
	return nil
}

// handleSearchClick focuses the search panel field under row y.
func (m *Model) handleSearchClick(y int) {
	if m.search == nil {
		return
	}
	field := 0
	if y-m.layout.search.Min.Y >= 2 && m.search.replaceEnabled {
		field = 1
	}
	m.focusSearchPanel()
	m.search.focusField(field)
}

// translateMouse offsets a mouse message's coordinates for child components.
func (m Model) translateMouse(msg tea.MouseMsg, offX, offY int) tea.Msg {
	switch ev := msg.(type) {
	case tea.MouseClickMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	case tea.MouseMotionMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	case tea.MouseReleaseMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	case tea.MouseWheelMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	}
	return msg
}
