package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/exp/golden"
	"golang.org/x/net/html"
)

func TestHTMLGolden(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = "doc"
	opts.TabSpaces = 2
	out := HTML("a <b> & c\n\tindented\n\nlast\n\n\n", opts)
	golden.RequireEqual(t, []byte(out))
}

func TestHTMLSeparator(t *testing.T) {
	opts := DefaultOptions()
	opts.LineSeparator = "\r\n"
	out := HTML("one\r\ntwo", opts)
	if strings.Contains(strings.ReplaceAll(out, "\r\n", ""), "\n") {
		t.Error("bare LF in CRLF output")
	}
	if !strings.Contains(out, "\t\t\tone<br>\r\n\t\t\ttwo\r\n") {
		t.Errorf("content lines not joined with <br>:\n%q", out)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>\r\n\r\n<html>\r\n") {
		t.Errorf("prefix = %q", out[:30])
	}
}

func TestHTMLEmpty(t *testing.T) {
	out := HTML("", DefaultOptions())
	if !strings.Contains(out, "\t\t<p>\n\t\t</p>\n") {
		t.Errorf("empty document body:\n%s", out)
	}
}

func TestHTMLEscapesHead(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = `<x> & "y"`
	out := HTML("text", opts)
	if strings.Contains(out, "<x>") {
		t.Error("title not escaped")
	}
	if !strings.Contains(out, "<title>&lt;x&gt; &amp; &#34;y&#34;</title>") {
		t.Errorf("title line missing:\n%s", out)
	}
}

func TestHighlightedParses(t *testing.T) {
	opts := DefaultOptions()
	opts.Language = "go"
	opts.Highlight = true
	out, err := Render("package main\n\nfunc main() {}\n", opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<style>") || !strings.Contains(out, "style=\"") {
		t.Error("expected inline-styled chroma output inside the page")
	}
	if _, err := html.Parse(strings.NewReader(out)); err != nil {
		t.Fatalf("parse: %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "doc.html")
	if err := WriteFile(path, "hello", DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "\t\t\thello\n") {
		t.Errorf("written page:\n%s", raw)
	}
}
