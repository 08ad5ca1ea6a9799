package tui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// prompt asks for one line of text, e.g. a path for Save As.
type prompt struct {
	title    string
	input    textinput.Model
	onSubmit func(m *Model, value string) tea.Cmd
}

func (m *Model) openPrompt(title, value string, onSubmit func(m *Model, value string) tea.Cmd) tea.Cmd {
	in := textinput.New()
	in.Prompt = "> "
	in.SetValue(value)
	in.CursorEnd()
	m.prompt = &prompt{title: title, input: in, onSubmit: onSubmit}
	return m.prompt.input.Focus()
}

func (m *Model) handlePromptMsg(msg tea.Msg) tea.Cmd {
	p := m.prompt
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.Keystroke() {
		case "esc":
			m.prompt = nil
			return nil
		case "enter":
			m.prompt = nil
			value := strings.TrimSpace(p.input.Value())
			if value == "" {
				return nil
			}
			return p.onSubmit(m, value)
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *prompt) View(width, height int, s Styles, border string) string {
	w := max(width*60/100, 30)
	innerW := w - 4
	p.input.SetWidth(innerW - lipgloss.Width(p.input.Prompt) - 1)
	body := s.Text.Bold(true).Render(p.title) + "\n" + p.input.View() + "\n" +
		s.Muted.Render("enter confirm · esc cancel")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		BorderBackground(s.BgFill.GetBackground()).
		Background(s.BgFill.GetBackground()).
		Padding(0, 1).
		Width(w - 2).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceStyle(s.BgFill))
}
