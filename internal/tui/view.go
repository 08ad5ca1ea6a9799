package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/vate/internal/search"
	"github.com/xonecas/vate/internal/tabs"
)

const maxTabTitle = 24

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() tea.View {
	content := m.renderContent()
	switch {
	case m.prompt != nil:
		content = m.prompt.View(m.width, m.height, m.styles, m.palette.Border)
	case m.confirm != nil:
		content = m.confirm.View(m.width, m.height)
	case m.picker != nil:
		content = m.picker.View(m.width, m.height)
	}
	v := tea.NewView(content)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

// renderContent produces the string content for the view.
func (m Model) renderContent() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var b strings.Builder
	m.renderTabBar(&b)
	b.WriteByte('\n')
	m.renderEditor(&b)
	if m.search != nil {
		m.renderSearchPanel(&b)
	}
	m.renderStatusBar(&b, m.styles.BgFill)
	return b.String()
}

// ---------------------------------------------------------------------------
// Tab bar
// ---------------------------------------------------------------------------

type tabSpan struct {
	index      int
	start, end int // screen columns, end exclusive
	label      string
}

// tabLabel is " title " with a dirty or changed-on-disk marker.
func tabLabel(t tabs.Tab) string {
	title := ansi.Truncate(t.Title(), maxTabTitle, "…")
	if et, ok := t.(*tabs.EditorTab); ok {
		switch {
		case et.ChangedOnDisk():
			title += " !"
		case et.Dirty():
			title += " *"
		}
	}
	return " " + title + " "
}

// tabSpans lays the tabs out left to right, one column apart. Tabs that do
// not fit are dropped from the left so the active tab stays visible.
func (m Model) tabSpans() []tabSpan {
	all := m.tabs.Tabs()
	labels := make([]string, len(all))
	for i, t := range all {
		labels[i] = tabLabel(t)
	}
	first := 0
	active := m.tabs.ActiveIndex()
	for first < active {
		w := 0
		for i := first; i <= active; i++ {
			w += lipgloss.Width(labels[i]) + 1
		}
		if w <= m.width {
			break
		}
		first++
	}
	var spans []tabSpan
	x := 0
	for i := first; i < len(all); i++ {
		w := lipgloss.Width(labels[i])
		if x+w > m.width {
			break
		}
		spans = append(spans, tabSpan{index: i, start: x, end: x + w, label: labels[i]})
		x += w + 1
	}
	return spans
}

func (m Model) renderTabBar(b *strings.Builder) {
	var row strings.Builder
	x := 0
	for _, sp := range m.tabSpans() {
		if sp.start > x {
			row.WriteString(m.styles.BgFill.Render(strings.Repeat(" ", sp.start-x)))
		}
		if sp.index == m.tabs.ActiveIndex() {
			row.WriteString(m.styles.TabActive.Render(sp.label))
		} else {
			row.WriteString(m.styles.TabInactive.Render(sp.label))
		}
		x = sp.end
	}
	if x < m.width {
		row.WriteString(m.styles.BgFill.Render(strings.Repeat(" ", m.width-x)))
	}
	b.WriteString(row.String())
}

// ---------------------------------------------------------------------------
// Editor
// ---------------------------------------------------------------------------

func (m Model) renderEditor(b *strings.Builder) {
	h := m.layout.editor.Dy()
	if h <= 0 {
		return
	}
	t, st := m.active()
	if st == nil {
		fill := m.styles.BgFill.Render(strings.Repeat(" ", m.width))
		for range h {
			b.WriteString(fill)
			b.WriteByte('\n')
		}
		return
	}
	st.ed.Matches, st.ed.MatchLen = nil, 0
	if m.search != nil && m.search.session.State() == search.HasResults {
		if s, ok := t.(tabs.Searchable); ok {
			st.ed.Matches = m.search.session.Offsets(s.Buffer())
			st.ed.MatchLen = len([]rune(m.search.session.Pattern()))
		}
	}
	b.WriteString(st.ed.View())
	b.WriteByte('\n')
}

// ---------------------------------------------------------------------------
// Search panel
// ---------------------------------------------------------------------------

func (m Model) renderSearchPanel(b *strings.Builder) {
	d := m.search
	w := m.width
	line := func(s string) {
		s = ansi.Truncate(s, w, "")
		if pad := w - lipgloss.Width(s); pad > 0 {
			s += m.styles.BgFill.Render(strings.Repeat(" ", pad))
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(m.styles.Border.Render(strings.Repeat("─", w)))

	d.find.SetWidth(max(w/2, 10))
	d.repl.SetWidth(max(w/2, 10))
	scope := "[ ] all tabs"
	if d.session.Scope() == search.AllTabs {
		scope = "[x] all tabs"
	}
	status := d.session.Status()
	statusStyle := m.styles.Muted
	if d.session.State() == search.NoResults {
		statusStyle = m.styles.Error
	}
	line(d.find.View() + m.styles.BgFill.Render("  ") + m.styles.Muted.Render(scope) +
		m.styles.BgFill.Render("  ") + statusStyle.Render(status))

	if d.replaceEnabled {
		line(d.repl.View())
	} else {
		line(m.styles.Dim.Render(ansi.Strip(d.repl.Prompt) + "(off, ctrl+e)"))
	}

	hints := "enter next · shift+enter prev · ctrl+t scope · ctrl+x swap · esc close"
	if d.replaceEnabled {
		hints = "enter next · ctrl+r replace · alt+a replace all · ctrl+t scope · ctrl+x swap · esc close"
	}
	line(m.styles.Dim.Render(hints))
}
