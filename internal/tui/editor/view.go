package editor

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/vate/internal/diff"
)

// cell kinds, in increasing precedence
const (
	kindText = iota
	kindMatch
	kindSelection
	kindCursor
)

// View renders exactly height lines of width cells.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 || m.buf == nil {
		return ""
	}
	tw := m.textWidth()
	bg := lipgloss.NewStyle()
	if m.BgHex != "" {
		bg = bg.Background(lipgloss.Color(m.BgHex))
	}
	gutter := m.LineNumStyle
	if m.BgHex != "" {
		gutter = gutter.Background(lipgloss.Color(m.BgHex))
	}

	lines := m.buf.Lines()
	starts := lineStarts(lines)
	caret := m.buf.Caret()
	selStart, selLen := m.buf.Selection()
	hasSyntax := m.Language != "" && m.SyntaxTheme != ""

	var b strings.Builder
	for vi := 0; vi < m.height; vi++ {
		if vi > 0 {
			b.WriteByte('\n')
		}
		row := m.scroll + vi
		if row >= len(lines) {
			b.WriteString(bg.Render(strings.Repeat(" ", m.width)))
			continue
		}

		if m.ShowLineNumbers {
			digits := m.gutterWidth - 2
			b.WriteString(gutter.Render(fmt.Sprintf("%*d ", digits, row+1)))
			b.WriteString(m.renderMark(row, gutter))
		}

		line := lines[row]
		text := expandTabs(string(line), m.TabWidth)
		kinds := m.rowKinds(line, starts[row], caret, selStart, selLen)

		var full string
		if hasSyntax {
			full = cachedHighlight(text, m.Language, m.SyntaxTheme, m.BgHex)
		}
		rendered := m.renderRow(text, full, kinds, tw, bg)
		rw := lipgloss.Width(rendered)
		if rw > tw {
			rendered = ansi.Truncate(rendered, tw, "")
			rw = lipgloss.Width(rendered)
		}
		b.WriteString(rendered)
		if rw < tw {
			b.WriteString(bg.Render(strings.Repeat(" ", tw-rw)))
		}
	}
	return b.String()
}

func lineStarts(lines [][]rune) []int {
	starts := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		starts[i] = off
		off += len(l) + 1
	}
	return starts
}

// rowKinds classifies every expanded column of one line, plus one extra
// column past the end for a caret sitting there.
func (m Model) rowKinds(line []rune, start, caret, selStart, selLen int) []int {
	width := expandedCol(line, len(line), m.TabWidth) + 1
	kinds := make([]int, width)
	mark := func(from, to, kind int) {
		// from, to are buffer offsets; clip them to this line
		lo := max(from-start, 0)
		hi := min(to-start, len(line))
		if lo >= hi {
			return
		}
		x0 := expandedCol(line, lo, m.TabWidth)
		x1 := expandedCol(line, hi, m.TabWidth)
		for x := x0; x < x1; x++ {
			if kinds[x] < kind {
				kinds[x] = kind
			}
		}
	}
	if m.MatchLen > 0 {
		for _, off := range m.Matches {
			mark(off, off+m.MatchLen, kindMatch)
		}
	}
	if selLen > 0 {
		mark(selStart, selStart+selLen, kindSelection)
	}
	if m.focus && caret >= start && caret <= start+len(line) {
		kinds[expandedCol(line, caret-start, m.TabWidth)] = kindCursor
	}
	return kinds
}

// renderRow renders the visible window of one line. Runs of plain text keep
// their syntax colors; matches, selection and cursor are drawn over the
// stripped text.
func (m Model) renderRow(text, full string, kinds []int, tw int, bg lipgloss.Style) string {
	runes := []rune(text)
	from := m.xscroll
	to := min(from+tw, len(kinds))
	if from >= to {
		return ""
	}
	plain := func(a, b int) string {
		if b > len(runes) {
			b = len(runes)
		}
		if a >= b {
			return ""
		}
		return string(runes[a:b])
	}

	var sb strings.Builder
	for a := from; a < to; {
		k := kinds[a]
		b := a + 1
		for b < to && kinds[b] == k {
			b++
		}
		switch k {
		case kindText:
			if full != "" {
				sb.WriteString(ansi.Cut(full, a, min(b, len(runes))))
			} else {
				sb.WriteString(bg.Render(plain(a, b)))
			}
		case kindMatch:
			sb.WriteString(m.MatchStyle.Render(plain(a, b)))
		case kindSelection:
			sb.WriteString(m.SelectionStyle.Render(plain(a, b)))
		case kindCursor:
			ch := plain(a, b)
			if ch == "" {
				ch = " "
			}
			sb.WriteString(m.CursorStyle.Reverse(true).Render(ch))
		}
		a = b
	}
	return sb.String()
}

func (m Model) renderMark(row int, gutter lipgloss.Style) string {
	switch m.Marks[row] {
	case diff.Add:
		return m.AddStyle.Inherit(gutter).Render("▎")
	case diff.Change:
		return m.ChangeStyle.Inherit(gutter).Render("▎")
	case diff.Delete:
		return m.DeleteStyle.Inherit(gutter).Render("▁")
	}
	return gutter.Render(" ")
}
