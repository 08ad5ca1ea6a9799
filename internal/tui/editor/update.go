package editor

import tea "charm.land/bubbletea/v2"

// Update handles keys and mouse events addressed to the editor. Mouse
// coordinates are relative to the editor's top-left corner.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.buf == nil {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if !m.focus {
			break
		}
		if m.handleKey(msg) {
			m.ScrollToCaret()
		}

	case tea.MouseClickMsg:
		if !m.focus || msg.Button != tea.MouseLeft {
			break
		}
		off := m.screenToOffset(msg.X, msg.Y)
		m.dragging = true
		m.moveTo(off, false)
		m.anchor = off
		m.wantCol = -1

	case tea.MouseMotionMsg:
		if m.focus && m.dragging {
			m.moveTo(m.screenToOffset(msg.X, msg.Y), true)
			m.ScrollToCaret()
		}

	case tea.MouseReleaseMsg:
		m.dragging = false
		if !m.HasSelection() {
			m.anchor = -1
		}

	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.scroll -= 3
		case tea.MouseWheelDown:
			m.scroll += 3
		}
		m.clampScroll()
	}
	return m, nil
}

// handleKey applies one key. Returns true when the key was consumed.
func (m *Model) handleKey(msg tea.KeyPressMsg) bool {
	key := msg.Keystroke()
	switch key {
	case "up", "shift+up":
		m.lineStep(-1, key != "up")
		return true
	case "down", "shift+down":
		m.lineStep(1, key != "down")
		return true
	case "pgup", "shift+pgup":
		m.lineStep(-max(m.height, 1), key != "pgup")
		return true
	case "pgdown", "shift+pgdown":
		m.lineStep(max(m.height, 1), key != "pgdown")
		return true
	}

	m.wantCol = -1
	caret := m.buf.Caret()
	switch key {
	case "left", "shift+left":
		if start, n := m.buf.Selection(); n > 0 && key == "left" {
			m.moveTo(start, false)
		} else {
			m.moveTo(max(caret-1, 0), key != "left")
		}
	case "right", "shift+right":
		if start, n := m.buf.Selection(); n > 0 && key == "right" {
			m.moveTo(start+n, false)
		} else {
			m.moveTo(min(caret+1, m.buf.Len()), key != "right")
		}
	case "home", "shift+home":
		m.moveTo(m.lineStart(), key != "home")
	case "end", "shift+end":
		m.moveTo(m.lineEnd(), key != "end")
	case "ctrl+home", "ctrl+shift+home":
		m.moveTo(0, key != "ctrl+home")
	case "ctrl+end", "ctrl+shift+end":
		m.moveTo(m.buf.Len(), key != "ctrl+end")
	case "ctrl+a":
		m.SelectAll()

	case "backspace":
		m.deleteBack()
	case "delete":
		m.deleteForward()
	case "enter":
		m.insertNewline()
	case "tab":
		m.tabIndent()
	case "ctrl+z":
		m.Undo()
	case "ctrl+y", "ctrl+shift+z":
		m.Redo()

	default:
		if m.ReadOnly || msg.Text == "" {
			return false
		}
		m.InsertText(msg.Text)
	}
	return true
}

// screenToOffset converts editor-relative x,y to a buffer offset.
func (m *Model) screenToOffset(x, y int) int {
	lines := m.buf.Lines()
	row := m.scroll + y
	if row < 0 {
		row = 0
	}
	if row >= len(lines) {
		row = len(lines) - 1
	}
	m.textWidth()
	vx := x - m.gutterWidth
	if vx < 0 {
		vx = 0
	}
	return m.buf.Offset(row, bufferCol(lines[row], m.xscroll+vx, m.TabWidth))
}
