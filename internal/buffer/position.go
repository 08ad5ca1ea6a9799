package buffer

// Lines returns the content split on '\n'. There is always at least one line.
func (b *Buffer) Lines() [][]rune {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return splitLines(b.text)
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 1
	for _, r := range b.text {
		if r == '\n' {
			n++
		}
	}
	return n
}

// LineCol converts a rune offset to a 0-indexed line and column.
// Offsets past the end are clamped.
func (b *Buffer) LineCol(off int) (line, col int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineCol(b.text, off)
}

// Offset converts a 0-indexed line and column to a rune offset. Columns past
// the end of the line land on its last position.
func (b *Buffer) Offset(line, col int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return offset(b.text, line, col)
}

func splitLines(text []rune) [][]rune {
	lines := make([][]rune, 0, 16)
	start := 0
	for i, r := range text {
		if r == '\n' {
			lines = append(lines, text[start:i:i])
			start = i + 1
		}
	}
	return append(lines, text[start:len(text):len(text)])
}

func lineCol(text []rune, off int) (line, col int) {
	off = clamp(off, 0, len(text))
	for i := 0; i < off; i++ {
		if text[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

func offset(text []rune, line, col int) int {
	if line < 0 {
		return 0
	}
	i := 0
	for l := 0; l < line; l++ {
		for i < len(text) && text[i] != '\n' {
			i++
		}
		if i == len(text) {
			return len(text)
		}
		i++ // past '\n'
	}
	for c := 0; c < col && i < len(text) && text[i] != '\n'; c++ {
		i++
	}
	return i
}
