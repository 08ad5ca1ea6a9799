// Package export renders a document as a standalone HTML page.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
)

// Options controls the generated page.
type Options struct {
	Title         string
	Author        string
	Charset       string
	FontFamily    string
	TabSpaces     int    // each tab becomes this many &nbsp;
	LineSeparator string // separator written between output lines

	// Highlight renders the body with Chroma instead of the plain
	// paragraph layout.
	Highlight bool
	Language  string
	Theme     string
}

// DefaultOptions returns the page settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Title:         "title",
		Author:        "VATE HTML Exporter",
		Charset:       "UTF-8",
		FontFamily:    "monospace",
		TabSpaces:     4,
		LineSeparator: "\n",
		Theme:         "vulcan",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Author == "" {
		o.Author = d.Author
	}
	if o.Charset == "" {
		o.Charset = d.Charset
	}
	if o.FontFamily == "" {
		o.FontFamily = d.FontFamily
	}
	if o.LineSeparator == "" {
		o.LineSeparator = d.LineSeparator
	}
	if o.Theme == "" {
		o.Theme = d.Theme
	}
	return o
}

// page writes the document skeleton; body writes what goes inside <body>.
type page struct {
	opts Options
	b    strings.Builder
}

func (p *page) line(indent int, s string) {
	p.b.WriteString(strings.Repeat("\t", indent))
	p.b.WriteString(s)
	p.b.WriteString(p.opts.LineSeparator)
}

func (p *page) head() {
	p.line(1, "<head>")
	p.line(2, "<title>"+html.EscapeString(p.opts.Title)+"</title>")
	p.line(2, `<meta charset="`+html.EscapeString(p.opts.Charset)+`"/>`)
	p.line(2, `<meta name="author" content="`+html.EscapeString(p.opts.Author)+`"/>`)
	p.line(2, "<style>")
	p.line(3, "body {font-family: "+p.opts.FontFamily+"}")
	p.line(2, "</style>")
	p.line(1, "</head>")
}

func (p *page) render(body func(p *page)) string {
	sep := p.opts.LineSeparator
	p.b.WriteString("<!DOCTYPE html>" + sep + sep)
	p.line(0, "<html>")
	p.head()
	p.b.WriteString(sep)
	p.line(1, "<body>")
	body(p)
	p.line(1, "</body>")
	p.line(0, "</html>")
	return p.b.String()
}

// HTML renders text as a page with one paragraph: each line is escaped,
// tabs become non-breaking spaces and lines are joined with <br>. Trailing
// empty lines are dropped.
func HTML(text string, opts Options) string {
	p := &page{opts: opts.withDefaults()}
	return p.render(func(p *page) {
		p.line(2, "<p>")
		lines := splitLines(text)
		tab := strings.Repeat("&nbsp;", p.opts.TabSpaces)
		for i, l := range lines {
			l = strings.ReplaceAll(html.EscapeString(l), "\t", tab)
			if i < len(lines)-1 {
				l += "<br>"
			}
			p.line(3, l)
		}
		p.line(2, "</p>")
	})
}

// Highlighted renders text with Chroma syntax colors as inline styles inside
// the same page layout.
func Highlighted(text string, opts Options) (string, error) {
	opts = opts.withDefaults()
	lex := lexers.Get(opts.Language)
	if lex == nil {
		lex = lexers.Analyse(text)
	}
	if lex == nil {
		lex = lexers.Fallback
	}
	lex = chroma.Coalesce(lex)
	sty := styles.Get(opts.Theme)

	tabWidth := opts.TabSpaces
	if tabWidth <= 0 {
		tabWidth = 4
	}
	f := chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(tabWidth))
	it, err := lex.Tokenise(nil, strings.Join(splitLines(text), "\n"))
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}
	var code strings.Builder
	if err := f.Format(&code, sty, it); err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	p := &page{opts: opts}
	return p.render(func(p *page) {
		p.b.WriteString(strings.TrimRight(code.String(), "\n"))
		p.b.WriteString(p.opts.LineSeparator)
	}), nil
}

// Render picks HTML or Highlighted according to opts.Highlight.
func Render(text string, opts Options) (string, error) {
	if opts.Highlight {
		return Highlighted(text, opts)
	}
	return HTML(text, opts), nil
}

// WriteFile renders text and writes it to path.
func WriteFile(path, text string, opts Options) error {
	doc, err := Render(text, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil { //nolint:gosec // exported page
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// splitLines splits on any line ending and drops trailing empty lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
