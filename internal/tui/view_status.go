package tui

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/vate/internal/buffer"
	"github.com/xonecas/vate/internal/tabs"
)

var lineEndingName = map[buffer.LineEnding]string{
	buffer.LF:   "LF",
	buffer.CRLF: "CRLF",
	buffer.CR:   "CR",
}

// renderStatusBar writes the status separator and bar.
func (m Model) renderStatusBar(b *strings.Builder, bgFill lipgloss.Style) {
	b.WriteString(m.styles.Border.Render(strings.Repeat("─", m.width)))
	b.WriteByte('\n')

	// -- Left segments --
	var leftParts []string
	t, st := m.active()
	if t != nil {
		title := t.Title()
		if et, ok := t.(*tabs.EditorTab); ok {
			if et.Path() != "" {
				title = et.Path()
			}
			if et.Dirty() {
				title += "*"
			}
		}
		leftParts = append(leftParts, m.styles.StatusText.Render(" "+title))
		if et, ok := t.(*tabs.EditorTab); ok && et.ChangedOnDisk() {
			leftParts = append(leftParts, m.styles.Error.Render("[changed on disk]"))
		}
	}
	if m.status != "" {
		style := m.styles.Accent
		if m.statusErr {
			style = m.styles.Error
		}
		leftParts = append(leftParts, style.Render(m.status))
	}
	left := strings.Join(leftParts, m.styles.StatusText.Render("  "))

	// -- Right segments --
	var rightParts []string
	if s, ok := t.(tabs.Searchable); ok && st != nil {
		buf := s.Buffer()
		line, col := buf.LineCol(buf.Caret())
		rightParts = append(rightParts,
			m.styles.StatusText.Render("Lines: "+strconv.Itoa(buf.LineCount())+"  Length: "+strconv.Itoa(buf.Len())),
			m.styles.StatusText.Render("Ln "+strconv.Itoa(line+1)+", Col "+strconv.Itoa(col+1)),
			m.styles.StatusText.Render(lineEndingName[buf.LineEnding()]),
		)
		if st.ed.Language != "" {
			rightParts = append(rightParts, m.styles.StatusText.Render(st.ed.Language))
		}
	}
	right := strings.Join(rightParts, m.styles.StatusText.Render("  "))

	// -- Compose: left + gap + right + trailing space --
	rightW := lipgloss.Width(right)
	if lipgloss.Width(left)+rightW+1 > m.width {
		left = ansi.Truncate(left, max(m.width-rightW-2, 0), "…")
	}
	gap := max(m.width-lipgloss.Width(left)-rightW-1, 0)
	b.WriteString(left)
	b.WriteString(bgFill.Render(strings.Repeat(" ", gap)))
	b.WriteString(right)
	b.WriteString(bgFill.Render(" "))
}
