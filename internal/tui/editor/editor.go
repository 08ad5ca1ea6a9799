// Package editor is the text pane of one tab: a bubbletea component that
// renders and edits a buffer.Buffer with line numbers, Chroma highlighting,
// diff markers in the gutter and search match highlighting.
package editor

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/xonecas/vate/internal/buffer"
	"github.com/xonecas/vate/internal/diff"
)

// Model is the editor component. The text, caret and selection live in the
// buffer; the model only keeps view state.
type Model struct {
	ReadOnly        bool
	ShowLineNumbers bool
	TabWidth        int
	Language        string // Chroma lexer name (empty = no highlighting)
	SyntaxTheme     string // Chroma style name (empty = no highlighting)
	BgHex           string // "#rrggbb"

	LineNumStyle   lipgloss.Style
	SelectionStyle lipgloss.Style // selection and current match
	MatchStyle     lipgloss.Style // other matches
	CursorStyle    lipgloss.Style
	AddStyle       lipgloss.Style
	ChangeStyle    lipgloss.Style
	DeleteStyle    lipgloss.Style

	// Marks are the diff markers per 0-indexed line.
	Marks map[int]diff.Mark
	// Matches are search hits shown in the buffer, each MatchLen runes long.
	Matches  []int
	MatchLen int

	buf     *buffer.Buffer
	scroll  int // first visible line
	xscroll int // first visible column
	width   int
	height  int
	focus   bool

	anchor   int // selection anchor, -1 when not extending
	dragging bool
	wantCol  int // column kept across up/down moves, -1 when unset

	gutterWidth int
}

// New creates an editor over buf.
func New(buf *buffer.Buffer) Model {
	return Model{
		buf:      buf,
		TabWidth: 4,
		anchor:   -1,
		wantCol:  -1,
	}
}

// Buffer returns the edited buffer.
func (m Model) Buffer() *buffer.Buffer { return m.buf }

func (m *Model) SetWidth(w int)  { m.width = w; m.ScrollToCaret() }
func (m *Model) SetHeight(h int) { m.height = h; m.ScrollToCaret() }
func (m Model) Width() int       { return m.width }
func (m Model) Height() int      { return m.height }

func (m *Model) Focus()        { m.focus = true }
func (m *Model) Blur()         { m.focus = false; m.dragging = false }
func (m Model) Focused() bool  { return m.focus }
func (m Model) Scroll() int    { return m.scroll }
func (m Model) GutterWidth() int {
	m.textWidth()
	return m.gutterWidth
}

// ScrollToCaret adjusts the scroll offsets so the caret is visible.
func (m *Model) ScrollToCaret() {
	if m.buf == nil || m.height <= 0 {
		return
	}
	line, col := m.buf.LineCol(m.buf.Caret())
	if line < m.scroll {
		m.scroll = line
	}
	if line >= m.scroll+m.height {
		m.scroll = line - m.height + 1
	}
	m.clampScroll()

	tw := m.textWidth()
	lines := m.buf.Lines()
	x := expandedCol(lines[line], col, m.TabWidth)
	if x < m.xscroll {
		m.xscroll = x
	}
	if x >= m.xscroll+tw {
		m.xscroll = x - tw + 1
	}
}

func (m *Model) clampScroll() {
	maxScroll := m.buf.LineCount() - m.height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// textWidth returns the width left for text after the gutter.
func (m *Model) textWidth() int {
	m.gutterWidth = 0
	if m.ShowLineNumbers && m.buf != nil {
		digits := len(strconv.Itoa(m.buf.LineCount()))
		if digits < 2 {
			digits = 2
		}
		m.gutterWidth = digits + 2 // digits + space + marker
	}
	w := m.width - m.gutterWidth
	if w < 1 {
		w = 1
	}
	return w
}

// expandTabs replaces tabs with spaces up to the next tab stop.
func expandTabs(s string, width int) string {
	if width <= 0 {
		width = 4
	}
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// expandedCol maps a rune column of line to its column after tab expansion.
func expandedCol(line []rune, col, width int) int {
	if width <= 0 {
		width = 4
	}
	if col > len(line) {
		col = len(line)
	}
	x := 0
	for _, r := range line[:col] {
		if r == '\t' {
			x += width - x%width
		} else {
			x++
		}
	}
	return x
}

// bufferCol is the inverse of expandedCol: the rune column whose expanded
// column covers x.
func bufferCol(line []rune, x, width int) int {
	if width <= 0 {
		width = 4
	}
	cur := 0
	for i, r := range line {
		next := cur + 1
		if r == '\t' {
			next = cur + width - cur%width
		}
		if x < next {
			return i
		}
		cur = next
	}
	return len(line)
}
