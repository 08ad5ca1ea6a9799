package editor

// moveTo moves the caret to off. With extend the selection grows from the
// anchor to off; otherwise the selection is dropped.
func (m *Model) moveTo(off int, extend bool) {
	if !extend {
		m.anchor = -1
		m.buf.ClearSelection()
		m.buf.SetCaret(off)
		return
	}
	if m.anchor < 0 {
		m.anchor = m.buf.Caret()
		if start, n := m.buf.Selection(); n > 0 {
			// keep the far end of an existing selection as the anchor
			if m.anchor == start+n {
				m.anchor = start
			} else {
				m.anchor = start + n
			}
		}
	}
	lo, hi := m.anchor, off
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi > lo {
		m.buf.Select(lo, hi-lo)
	} else {
		m.buf.ClearSelection()
	}
	m.buf.SetCaret(off)
}

// SelectAll selects the whole buffer.
func (m *Model) SelectAll() {
	m.anchor = 0
	m.buf.Select(0, m.buf.Len())
}

// ClearSelection drops the selection and the anchor.
func (m *Model) ClearSelection() {
	m.anchor = -1
	m.buf.ClearSelection()
}

// HasSelection reports whether text is selected.
func (m Model) HasSelection() bool {
	_, n := m.buf.Selection()
	return n > 0
}

// lineStep moves the caret delta lines, keeping the wanted column.
func (m *Model) lineStep(delta int, extend bool) {
	lines := m.buf.Lines()
	line, col := m.buf.LineCol(m.buf.Caret())
	if m.wantCol < 0 {
		m.wantCol = expandedCol(lines[line], col, m.TabWidth)
	}
	target := line + delta
	if target < 0 {
		target = 0
	}
	if target >= len(lines) {
		target = len(lines) - 1
	}
	bc := bufferCol(lines[target], m.wantCol, m.TabWidth)
	want := m.wantCol
	m.moveTo(m.buf.Offset(target, bc), extend)
	m.wantCol = want
}

func (m *Model) lineStart() int {
	line, _ := m.buf.LineCol(m.buf.Caret())
	return m.buf.Offset(line, 0)
}

func (m *Model) lineEnd() int {
	line, _ := m.buf.LineCol(m.buf.Caret())
	return m.buf.Offset(line, len(m.buf.Lines()[line]))
}
