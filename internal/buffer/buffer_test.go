package buffer

import (
	"errors"
	"testing"
)

func TestSplice(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		start   int
		length  int
		repl    string
		want    string
		wantErr error
	}{
		{"replace middle", "hello world", 6, 5, "there", "hello there", nil},
		{"insert at start", "abc", 0, 0, "x", "xabc", nil},
		{"insert at end", "abc", 3, 0, "x", "abcx", nil},
		{"delete all", "abc", 0, 3, "", "", nil},
		{"multibyte", "héllo", 1, 1, "e", "hello", nil},
		{"keeps carriage return", "ab", 1, 0, "\r\n", "a\r\nb", nil},
		{"past end", "abc", 2, 2, "x", "abc", ErrOutOfRange},
		{"negative start", "abc", -1, 1, "x", "abc", ErrOutOfRange},
		{"negative length", "abc", 1, -1, "x", "abc", ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FromString("", tt.text)
			err := b.Splice(tt.start, tt.length, tt.repl)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Splice error = %v, want %v", err, tt.wantErr)
			}
			if got := b.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
			if b.Dirty() != (tt.wantErr == nil) {
				t.Errorf("Dirty() = %v after splice err=%v", b.Dirty(), err)
			}
		})
	}
}

func TestSpliceMovesCaretAndClearsSelection(t *testing.T) {
	b := FromString("", "one two three")
	if !b.Select(4, 3) {
		t.Fatal("Select(4, 3) = false")
	}
	if err := b.Splice(4, 3, "2"); err != nil {
		t.Fatal(err)
	}
	if got := b.Caret(); got != 5 {
		t.Errorf("Caret() = %d, want 5", got)
	}
	if _, l := b.Selection(); l != 0 {
		t.Errorf("selection length = %d, want 0", l)
	}
}

func TestSelect(t *testing.T) {
	b := FromString("", "abcdef")
	tests := []struct {
		start, length int
		ok            bool
	}{
		{0, 0, true},
		{0, 6, true},
		{4, 2, true},
		{6, 0, true},
		{5, 2, false},
		{-1, 1, false},
		{7, 0, false},
	}
	for _, tt := range tests {
		if got := b.Select(tt.start, tt.length); got != tt.ok {
			t.Errorf("Select(%d, %d) = %v, want %v", tt.start, tt.length, got, tt.ok)
		}
	}
}

func TestSelectFailureLeavesState(t *testing.T) {
	b := FromString("", "abcdef")
	b.Select(1, 2)
	if b.Select(5, 5) {
		t.Fatal("Select(5, 5) succeeded")
	}
	if s, l := b.Selection(); s != 1 || l != 2 {
		t.Errorf("Selection() = (%d, %d), want (1, 2)", s, l)
	}
	if c := b.Caret(); c != 3 {
		t.Errorf("Caret() = %d, want 3", c)
	}
}

func TestUndoRedo(t *testing.T) {
	b := FromString("", "abc")
	if b.Undo() {
		t.Fatal("Undo on fresh buffer returned true")
	}
	_ = b.Insert(3, "def")
	_ = b.Delete(0, 1)
	if got := b.Text(); got != "bcdef" {
		t.Fatalf("Text() = %q", got)
	}

	if !b.Undo() || b.Text() != "abcdef" {
		t.Fatalf("after first undo: %q", b.Text())
	}
	if !b.Undo() || b.Text() != "abc" {
		t.Fatalf("after second undo: %q", b.Text())
	}
	if !b.CanRedo() {
		t.Fatal("CanRedo() = false")
	}
	if !b.Redo() || b.Text() != "abcdef" {
		t.Fatalf("after redo: %q", b.Text())
	}

	_ = b.Insert(0, ">")
	if b.CanRedo() {
		t.Error("new splice must clear redo")
	}
}

func TestSetTextResetsState(t *testing.T) {
	b := FromString("f.txt", "abc")
	_ = b.Insert(0, "x")
	b.SetText("one\r\ntwo")
	if b.Dirty() {
		t.Error("SetText left buffer dirty")
	}
	if b.CanUndo() {
		t.Error("SetText kept undo history")
	}
	if got := b.Text(); got != "one\ntwo" {
		t.Errorf("Text() = %q", got)
	}
	if b.LineEnding() != CRLF {
		t.Errorf("LineEnding() = %v, want CRLF", b.LineEnding())
	}
}

func TestOnChange(t *testing.T) {
	b := FromString("", "hello")
	var got []Change
	cancel := b.OnChange(func(c Change) { got = append(got, c) })

	_ = b.Splice(0, 5, "bye")
	b.Undo()
	cancel()
	_ = b.Insert(0, "x")

	want := []Change{
		{Start: 0, Removed: 5, Inserted: "bye", Len: 3},
		{Start: 0, Removed: 3, Inserted: "hello", Len: 5},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d changes, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestOnChangeListenerMayReadBuffer(t *testing.T) {
	b := FromString("", "a")
	var seen string
	b.OnChange(func(Change) { seen = b.Text() })
	_ = b.Insert(1, "b")
	if seen != "ab" {
		t.Errorf("listener saw %q, want %q", seen, "ab")
	}
}

func TestPositions(t *testing.T) {
	b := FromString("", "ab\ncde\n\nf")
	if n := b.LineCount(); n != 4 {
		t.Errorf("LineCount() = %d, want 4", n)
	}
	tests := []struct {
		off, line, col int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{6, 1, 3},
		{7, 2, 0},
		{8, 3, 0},
		{9, 3, 1},
	}
	for _, tt := range tests {
		l, c := b.LineCol(tt.off)
		if l != tt.line || c != tt.col {
			t.Errorf("LineCol(%d) = (%d, %d), want (%d, %d)", tt.off, l, c, tt.line, tt.col)
		}
		if got := b.Offset(tt.line, tt.col); got != tt.off {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.line, tt.col, got, tt.off)
		}
	}
	if got := b.Offset(0, 99); got != 2 {
		t.Errorf("Offset(0, 99) = %d, want 2", got)
	}
	if got := b.Offset(99, 0); got != b.Len() {
		t.Errorf("Offset(99, 0) = %d, want %d", got, b.Len())
	}
	lines := b.Lines()
	if len(lines) != 4 || string(lines[1]) != "cde" || len(lines[2]) != 0 {
		t.Errorf("Lines() = %q", lines)
	}
}
