// Package highlight provides syntax highlighting via Chroma and derives the
// editor's colors from a Chroma theme. It knows nothing about the TUI.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const reset = "\x1b[0m"

// Highlight colors one line of source for a true-color terminal. Unknown
// languages come back unchanged. bgHex ("#rrggbb") is re-applied after each
// reset the formatter emits so that the editor background shows through.
func Highlight(text, language, theme, bgHex string) string {
	lex := lexers.Get(language)
	if lex == nil || language == "text" {
		return text
	}
	it, err := chroma.Coalesce(lex).Tokenise(nil, text)
	if err != nil {
		return text
	}
	f := formatters.Get("terminal16m")
	if f == nil {
		f = formatters.Fallback
	}
	var sb strings.Builder
	if err := f.Format(&sb, styles.Get(theme), it); err != nil {
		return text
	}
	out := strings.TrimRight(sb.String(), "\n")
	bg := bgSequence(bgHex)
	if bg == "" {
		return out
	}
	return bg + strings.ReplaceAll(out, reset, reset+bg)
}

func bgSequence(hex string) string {
	c := chroma.ParseColour(hex)
	if !c.IsSet() {
		return ""
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.Red(), c.Green(), c.Blue())
}

// Palette holds editor colors derived from a Chroma theme. Grays are mixed
// from the theme background toward its foreground; the accent is the most
// saturated token color.
type Palette struct {
	Bg        string // document background
	Fg        string // document text
	Border    string // tab bar and dialog borders
	LineBg    string // inactive tabs, gutter
	Dim       string // line numbers
	Muted     string // status line, hints
	Accent    string
	Error     string
	Selection string // selection and current match
	Match     string // other matches
}

// Override replaces palette entries with the non-empty user colors.
func (p Palette) Override(bg, fg, lineNumbers, lineNumbersBg, selection, match string) Palette {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Bg, bg)
	set(&p.Fg, fg)
	set(&p.Dim, lineNumbers)
	set(&p.LineBg, lineNumbersBg)
	set(&p.Selection, selection)
	set(&p.Match, match)
	return p
}

// ThemePalette derives the palette for a theme name. The same theme always
// yields the same palette; unknown themes use Chroma's fallback style.
func ThemePalette(theme string) Palette {
	sty := styles.Get(theme)
	base := sty.Get(chroma.Background)
	bg, fg := chroma.MustParseColour("#000000"), chroma.MustParseColour("#c8c8c8")
	if base.Background.IsSet() {
		bg = base.Background
	}
	if base.Colour.IsSet() {
		fg = base.Colour
	}
	accent := mostSaturated(sty, fg)
	errc := fg
	if e := sty.Get(chroma.Error); e.Colour.IsSet() {
		errc = e.Colour
	}
	return Palette{
		Bg:        bg.String(),
		Fg:        fg.String(),
		Border:    mix(bg, fg, 0.10),
		LineBg:    mix(bg, fg, 0.07),
		Dim:       mix(bg, fg, 0.25),
		Muted:     mix(bg, fg, 0.45),
		Accent:    accent.String(),
		Error:     mix(bg, errc, 0.45),
		Selection: mix(bg, accent, 0.35),
		Match:     mix(bg, accent, 0.18),
	}
}

func mostSaturated(sty *chroma.Style, fallback chroma.Colour) chroma.Colour {
	best, bestSat := fallback, 0.0
	for _, tt := range sty.Types() {
		c := sty.Get(tt).Colour
		if !c.IsSet() {
			continue
		}
		hi := max(c.Red(), c.Green(), c.Blue())
		lo := min(c.Red(), c.Green(), c.Blue())
		if hi == 0 {
			continue
		}
		if sat := float64(hi-lo) / float64(hi); sat > bestSat {
			best, bestSat = c, sat
		}
	}
	return best
}

// mix returns the color t of the way from a to b.
func mix(a, b chroma.Colour, t float64) string {
	ch := func(x, y uint8) uint8 {
		v := float64(x) + (float64(y)-float64(x))*t + 0.5
		return uint8(min(max(v, 0), 255))
	}
	return chroma.NewColour(ch(a.Red(), b.Red()), ch(a.Green(), b.Green()), ch(a.Blue(), b.Blue())).String()
}
