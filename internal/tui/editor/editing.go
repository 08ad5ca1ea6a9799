package editor

// InsertText replaces the selection (if any) with text at the caret.
// Carriage returns are dropped; the buffer stores '\n' line endings.
func (m *Model) InsertText(text string) {
	if m.ReadOnly || text == "" {
		return
	}
	clean := make([]rune, 0, len(text))
	for _, r := range text {
		if r != '\r' {
			clean = append(clean, r)
		}
	}
	start, n := m.buf.Selection()
	if n == 0 {
		start = m.buf.Caret()
	}
	_ = m.buf.Splice(start, n, string(clean))
	m.anchor = -1
	m.wantCol = -1
}

// DeleteSelection removes the selected text. Returns false when nothing is
// selected.
func (m *Model) DeleteSelection() bool {
	if m.ReadOnly {
		return false
	}
	start, n := m.buf.Selection()
	if n == 0 {
		return false
	}
	_ = m.buf.Delete(start, n)
	m.anchor = -1
	return true
}

// SelectedText returns the selected text, "" when nothing is selected.
func (m Model) SelectedText() string {
	start, n := m.buf.Selection()
	if n == 0 {
		return ""
	}
	return string(m.buf.Runes()[start : start+n])
}

func (m *Model) deleteBack() {
	if m.ReadOnly || m.DeleteSelection() {
		return
	}
	if c := m.buf.Caret(); c > 0 {
		_ = m.buf.Delete(c-1, 1)
	}
}

func (m *Model) deleteForward() {
	if m.ReadOnly || m.DeleteSelection() {
		return
	}
	if c := m.buf.Caret(); c < m.buf.Len() {
		_ = m.buf.Delete(c, 1)
	}
}

// insertNewline breaks the line and carries over its leading whitespace.
func (m *Model) insertNewline() {
	if m.ReadOnly {
		return
	}
	m.DeleteSelection()
	line, _ := m.buf.LineCol(m.buf.Caret())
	m.InsertText("\n" + leadingSpace(m.buf.Lines()[line]))
}

// tabIndent inserts a tab, or the indentation of the line above when the
// caret is at the start of an empty line.
func (m *Model) tabIndent() {
	if m.ReadOnly {
		return
	}
	line, col := m.buf.LineCol(m.buf.Caret())
	lines := m.buf.Lines()
	indent := "\t"
	if col == 0 && len(lines[line]) == 0 && line > 0 {
		if above := leadingSpace(lines[line-1]); above != "" {
			indent = above
		}
	}
	m.InsertText(indent)
}

func leadingSpace(line []rune) string {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return string(line[:n])
}

// Undo reverts the last edit of the buffer.
func (m *Model) Undo() bool {
	if m.ReadOnly || !m.buf.CanUndo() {
		return false
	}
	m.anchor = -1
	return m.buf.Undo()
}

// Redo re-applies the last undone edit.
func (m *Model) Redo() bool {
	if m.ReadOnly || !m.buf.CanRedo() {
		return false
	}
	m.anchor = -1
	return m.buf.Redo()
}
