// Package modal holds the overlay dialogs of the editor: a filtered picker
// list and a confirmation box with buttons.
package modal

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Action is the result of handling a message. nil means no action.
type Action any

// ActionClose signals the modal should be dismissed.
type ActionClose struct{}

// ActionSelect signals an item was chosen.
type ActionSelect struct{ Item Item }

// Item is a single entry in the list.
type Item struct {
	Name string
	Desc string
	Data any // caller payload, e.g. a path and line
}

// SearchFunc is called with the current query to produce results.
type SearchFunc func(query string) []Item

// Colors holds the theme colors for the modal.
type Colors struct {
	Fg     string
	Bg     string
	Dim    string
	SelFg  string
	SelBg  string
	Border string
}

const debounceDelay = 200 * time.Millisecond

// debounceMsg is sent after the debounce timer fires.
type debounceMsg struct {
	id  *Model
	seq int
}

// Model is a picker: a query line over a list of results.
type Model struct {
	input    textinput.Model
	items    []Item
	selected int
	inList   bool // true = list focused, false = input focused

	searchFn SearchFunc
	seq      int
	debounce bool

	colors Colors

	Title    string
	WidthPct int
}

// New creates a picker whose results come from searchFn. Queries are
// debounced; use NewStatic for in-memory lists.
func New(searchFn SearchFunc, prompt string, colors Colors) *Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Focus()
	m := &Model{
		input:    ti,
		searchFn: searchFn,
		colors:   colors,
		debounce: true,
		WidthPct: 80,
	}
	m.items = searchFn("")
	return m
}

// NewStatic creates a picker over items filtered by substring on every
// keystroke.
func NewStatic(items []Item, prompt string, colors Colors) *Model {
	m := New(Filter(items), prompt, colors)
	m.debounce = false
	return m
}

// Filter returns a SearchFunc that keeps items whose name or description
// contains the query, case-insensitively.
func Filter(items []Item) SearchFunc {
	return func(query string) []Item {
		if query == "" {
			return items
		}
		q := strings.ToLower(query)
		var out []Item
		for _, it := range items {
			if strings.Contains(strings.ToLower(it.Name), q) || strings.Contains(strings.ToLower(it.Desc), q) {
				out = append(out, it)
			}
		}
		return out
	}
}

// Query returns the current input text.
func (m *Model) Query() string { return m.input.Value() }

// SetQuery replaces the query and refreshes the results at once.
func (m *Model) SetQuery(q string) {
	m.input.SetValue(q)
	m.input.CursorEnd()
	m.refresh()
}

// Items returns the listed results.
func (m *Model) Items() []Item { return m.items }

func (m *Model) debounceCmd() tea.Cmd {
	seq := m.seq
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceMsg{id: m, seq: seq}
	})
}

func (m *Model) refresh() {
	m.items = m.searchFn(m.input.Value())
	m.selected = 0
	m.inList = false
}

// HandleMsg processes a tea.Msg and returns an optional Action.
// The second return is a tea.Cmd the parent must dispatch.
func (m *Model) HandleMsg(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case debounceMsg:
		if msg.id == m && msg.seq == m.seq {
			m.refresh()
		}
		return nil, nil
	}
	return nil, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (Action, tea.Cmd) {
	switch msg.Keystroke() {
	case "esc":
		return ActionClose{}, nil
	case "enter":
		if len(m.items) == 0 {
			return nil, nil
		}
		return ActionSelect{Item: m.items[min(m.selected, len(m.items)-1)]}, nil
	case "up":
		if m.inList {
			if m.selected > 0 {
				m.selected--
			} else {
				m.inList = false
				m.input.Focus()
			}
		}
		return nil, nil
	case "down":
		if !m.inList {
			if len(m.items) > 0 {
				m.inList = true
				m.selected = 0
				m.input.Blur()
			}
		} else if m.selected < len(m.items)-1 {
			m.selected++
		}
		return nil, nil
	}
	if m.inList {
		return nil, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return nil, cmd
	}
	if !m.debounce {
		m.refresh()
		return nil, cmd
	}
	m.seq++
	return nil, tea.Batch(cmd, m.debounceCmd())
}

// View renders the modal centered at the given app width and height.
func (m *Model) View(appWidth, appHeight int) string {
	pct := m.WidthPct
	if pct <= 0 {
		pct = 80
	}
	w := max(appWidth*pct/100, 30)
	h := max(appHeight*80/100, 8)
	innerW := max(w-6, 10)

	bg := lipgloss.Color(m.colors.Bg)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colors.Dim))

	var sb strings.Builder
	listHeight := h - 4 // border top/bottom + input + divider
	if m.Title != "" {
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render(ansi.Truncate(m.Title, innerW, "…")))
		sb.WriteByte('\n')
		listHeight--
	}
	m.input.SetWidth(innerW - lipgloss.Width(m.input.Prompt) - 1)
	sb.WriteString(m.input.View())
	sb.WriteByte('\n')
	sb.WriteString(dimStyle.Render(strings.Repeat("─", innerW)))
	for _, l := range m.renderList(innerW, max(listHeight, 1)) {
		sb.WriteByte('\n')
		sb.WriteString(l)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.colors.Border)).
		BorderBackground(bg).
		Foreground(lipgloss.Color(m.colors.Fg)).
		Background(bg).
		Padding(0, 1).
		Width(w - 2).
		Render(sb.String())

	return lipgloss.Place(appWidth, appHeight, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceStyle(lipgloss.NewStyle().Background(bg)))
}

func (m *Model) renderList(innerW, listHeight int) []string {
	scrollOff := 0
	if m.selected >= listHeight {
		scrollOff = m.selected - listHeight + 1
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colors.Dim))
	selStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.colors.SelFg)).
		Background(lipgloss.Color(m.colors.SelBg))

	var lines []string
	for i := scrollOff; i < len(m.items) && len(lines) < listHeight; i++ {
		item := m.items[i]
		if i == m.selected && m.inList {
			lines = append(lines, selStyle.Render(padRight(ansi.Truncate(item.Name, innerW, "…"), innerW)))
			continue
		}
		line := item.Name
		if item.Desc != "" {
			line += dimStyle.Render("  " + item.Desc)
		}
		lines = append(lines, padRight(ansi.Truncate(line, innerW, "…"), innerW))
	}
	for len(lines) < listHeight {
		lines = append(lines, strings.Repeat(" ", innerW))
	}
	return lines
}

func padRight(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
