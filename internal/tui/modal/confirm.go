package modal

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// ActionChoose signals a button was pressed.
type ActionChoose struct{ Index int }

// Confirm is a box with a title, a scrollable body and a row of buttons.
// Each button can be pressed with the first letter of its label.
type Confirm struct {
	title   string
	body    []string
	buttons []string
	focused int
	scroll  int
	colors  Colors

	// BodyStyle styles one body line; nil renders lines as they are.
	BodyStyle func(line string) lipgloss.Style
}

// NewConfirm creates a confirmation box. The first button is focused.
func NewConfirm(title, body string, buttons []string, colors Colors) *Confirm {
	var lines []string
	if body != "" {
		lines = strings.Split(strings.TrimRight(body, "\n"), "\n")
	}
	return &Confirm{title: title, body: lines, buttons: buttons, colors: colors}
}

// Focused returns the focused button index.
func (c *Confirm) Focused() int { return c.focused }

// HandleMsg processes key and wheel events.
func (c *Confirm) HandleMsg(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		key := msg.Keystroke()
		switch key {
		case "esc":
			return ActionClose{}, nil
		case "enter", "space":
			return ActionChoose{Index: c.focused}, nil
		case "left", "shift+tab":
			c.focused = (c.focused - 1 + len(c.buttons)) % len(c.buttons)
		case "right", "tab":
			c.focused = (c.focused + 1) % len(c.buttons)
		case "up":
			c.scroll = max(c.scroll-1, 0)
		case "down":
			c.scroll++
		case "pgup":
			c.scroll = max(c.scroll-10, 0)
		case "pgdown":
			c.scroll += 10
		default:
			for i, b := range c.buttons {
				if b != "" && strings.EqualFold(key, b[:1]) {
					return ActionChoose{Index: i}, nil
				}
			}
		}
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			c.scroll = max(c.scroll-1, 0)
		case tea.MouseWheelDown:
			c.scroll++
		}
	}
	return nil, nil
}

// View renders the box centered in the terminal at appWidth x appHeight.
func (c *Confirm) View(appWidth, appHeight int) string {
	w := max(appWidth*70/100, 30)
	innerW := max(w-6, 10)

	bg := lipgloss.Color(c.colors.Bg)
	fg := lipgloss.Color(c.colors.Fg)
	fgStyle := lipgloss.NewStyle().Foreground(fg).Background(bg)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(c.colors.Dim)).Background(bg)

	bodyH := 0
	if len(c.body) > 0 {
		bodyH = min(len(c.body), max(appHeight*70/100-6, 1))
	}
	c.scroll = min(c.scroll, max(len(c.body)-bodyH, 0))

	var sb strings.Builder
	sb.WriteString(fgStyle.Bold(true).Render(ansi.Truncate(c.title, innerW, "…")))
	if bodyH > 0 {
		sb.WriteByte('\n')
		sb.WriteString(dimStyle.Render(strings.Repeat("─", innerW)))
		for _, l := range c.body[c.scroll : c.scroll+bodyH] {
			sty := fgStyle
			if c.BodyStyle != nil {
				sty = c.BodyStyle(l).Background(bg)
			}
			sb.WriteByte('\n')
			sb.WriteString(sty.Render(padRight(ansi.Truncate(l, innerW, "…"), innerW)))
		}
	}
	sb.WriteString("\n\n")
	sb.WriteString(c.renderButtons())

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(c.colors.Border)).
		BorderBackground(bg).
		Foreground(fg).
		Background(bg).
		Padding(0, 1).
		Width(w - 2).
		Render(sb.String())

	return lipgloss.Place(appWidth, appHeight, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceStyle(lipgloss.NewStyle().Background(bg)))
}

func (c *Confirm) renderButtons() string {
	normal := lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.colors.Fg)).
		Background(lipgloss.Color(c.colors.Bg)).
		Padding(0, 1)
	focused := normal.
		Foreground(lipgloss.Color(c.colors.SelFg)).
		Background(lipgloss.Color(c.colors.SelBg))
	parts := make([]string, len(c.buttons))
	for i, b := range c.buttons {
		if i == c.focused {
			parts[i] = focused.Render(b)
		} else {
			parts[i] = normal.Render(b)
		}
	}
	return strings.Join(parts, " ")
}
