package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/xonecas/vate/internal/highlight"
	"github.com/xonecas/vate/internal/tui/modal"
)

const (
	colorAdd    = "#3fb950"
	colorChange = "#d29922"
)

// Styles are the lipgloss styles of the whole UI, derived from one palette.
type Styles struct {
	Text        lipgloss.Style
	Muted       lipgloss.Style
	Dim         lipgloss.Style
	Border      lipgloss.Style
	Accent      lipgloss.Style
	Error       lipgloss.Style
	BgFill      lipgloss.Style
	StatusText  lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	LineNum     lipgloss.Style
	Selection   lipgloss.Style
	Match       lipgloss.Style
	Cursor      lipgloss.Style
	Add         lipgloss.Style
	Change      lipgloss.Style
	Delete      lipgloss.Style
}

func newStyles(p highlight.Palette) Styles {
	bg := lipgloss.Color(p.Bg)
	on := func(fg string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(fg)).Background(bg)
	}
	return Styles{
		Text:        on(p.Fg),
		Muted:       on(p.Muted),
		Dim:         on(p.Dim),
		Border:      on(p.Border),
		Accent:      on(p.Accent),
		Error:       on(p.Error),
		BgFill:      lipgloss.NewStyle().Background(bg),
		StatusText:  on(p.Muted),
		TabActive:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Fg)).Background(bg).Bold(true),
		TabInactive: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Background(lipgloss.Color(p.LineBg)),
		LineNum:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Dim)),
		Selection:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Fg)).Background(lipgloss.Color(p.Selection)),
		Match:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.Fg)).Background(lipgloss.Color(p.Match)),
		Cursor:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.Fg)),
		Add:         lipgloss.NewStyle().Foreground(lipgloss.Color(colorAdd)),
		Change:      lipgloss.NewStyle().Foreground(lipgloss.Color(colorChange)),
		Delete:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)),
	}
}

func modalColors(p highlight.Palette) modal.Colors {
	return modal.Colors{
		Fg:     p.Fg,
		Bg:     p.Bg,
		Dim:    p.Dim,
		SelFg:  p.Bg,
		SelBg:  p.Fg,
		Border: p.Border,
	}
}
