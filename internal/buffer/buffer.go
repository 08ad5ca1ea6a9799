// Package buffer holds the mutable text of one open document.
//
// Offsets and lengths are counted in runes. A Buffer tracks its file identity,
// an unsaved-changes flag, the caret and current selection, and a splice
// history for undo/redo. Listeners registered with OnChange are notified after
// every mutation, outside the buffer lock.
package buffer

import (
	"errors"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOutOfRange = errors.New("range out of bounds")
	ErrBinary     = errors.New("file is not text")
)

// Change describes a completed mutation.
type Change struct {
	Start    int    // rune offset of the splice
	Removed  int    // runes removed at Start
	Inserted string // text inserted at Start
	Len      int    // buffer length after the change
}

// edit is one recorded splice, kept for undo/redo.
type edit struct {
	start    int
	removed  []rune
	inserted []rune
}

// Buffer is the in-memory content of one open file.
// All methods are safe for concurrent use.
type Buffer struct {
	mu sync.RWMutex

	text  []rune
	file  File
	eol   LineEnding
	dirty bool

	caret  int
	selOff int
	selLen int

	undo []edit
	redo []edit

	listeners map[int]func(Change)
	nextID    int
}

// New creates an empty buffer bound to path. An empty path means untitled.
func New(path string) *Buffer {
	return &Buffer{
		file:      NewFile(path),
		listeners: make(map[int]func(Change)),
	}
}

// FromString creates a clean buffer with initial content.
func FromString(path, s string) *Buffer {
	b := New(path)
	b.eol = DetectLineEnding(s)
	b.text = []rune(normalizeNewlines(s))
	return b
}

// Text returns the full content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.text)
}

// Runes returns a copy of the content.
func (b *Buffer) Runes() []rune {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]rune, len(b.text))
	copy(out, b.text)
	return out
}

// Len returns the content length in runes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// SetText replaces the whole content, clears history and marks the buffer clean.
// Used when (re)loading from disk.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	old := len(b.text)
	b.eol = DetectLineEnding(s)
	b.text = []rune(normalizeNewlines(s))
	b.undo = nil
	b.redo = nil
	b.dirty = false
	b.caret = 0
	b.selOff, b.selLen = 0, 0
	ch := Change{Start: 0, Removed: old, Inserted: string(b.text), Len: len(b.text)}
	fns := b.snapshotListeners()
	b.mu.Unlock()
	notify(fns, ch)
}

// Splice removes length runes at start and inserts replacement in their place.
// A successful splice marks the buffer dirty and clears the redo stack.
func (b *Buffer) Splice(start, length int, replacement string) error {
	b.mu.Lock()
	if start < 0 || length < 0 || start+length > len(b.text) {
		b.mu.Unlock()
		return ErrOutOfRange
	}
	ins := []rune(replacement)
	removed := b.spliceLocked(start, length, ins)
	b.undo = append(b.undo, edit{start: start, removed: removed, inserted: ins})
	b.redo = nil
	ch := Change{Start: start, Removed: length, Inserted: string(ins), Len: len(b.text)}
	fns := b.snapshotListeners()
	b.mu.Unlock()
	notify(fns, ch)
	return nil
}

// Insert is a Splice that removes nothing.
func (b *Buffer) Insert(at int, s string) error {
	return b.Splice(at, 0, s)
}

// Delete is a Splice that inserts nothing.
func (b *Buffer) Delete(start, length int) error {
	return b.Splice(start, length, "")
}

// spliceLocked applies the splice, returns the removed runes and keeps the
// caret and selection inside the new bounds. Caller holds the write lock.
func (b *Buffer) spliceLocked(start, length int, ins []rune) []rune {
	removed := make([]rune, length)
	copy(removed, b.text[start:start+length])

	next := make([]rune, 0, len(b.text)-length+len(ins))
	next = append(next, b.text[:start]...)
	next = append(next, ins...)
	next = append(next, b.text[start+length:]...)
	b.text = next
	b.dirty = true

	b.caret = start + len(ins)
	b.selOff, b.selLen = 0, 0
	return removed
}

// Undo reverts the most recent splice. Returns false when there is nothing to undo.
func (b *Buffer) Undo() bool {
	b.mu.Lock()
	if len(b.undo) == 0 {
		b.mu.Unlock()
		return false
	}
	e := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.spliceLocked(e.start, len(e.inserted), e.removed)
	b.redo = append(b.redo, e)
	ch := Change{Start: e.start, Removed: len(e.inserted), Inserted: string(e.removed), Len: len(b.text)}
	fns := b.snapshotListeners()
	b.mu.Unlock()
	notify(fns, ch)
	return true
}

// Redo re-applies the most recently undone splice.
func (b *Buffer) Redo() bool {
	b.mu.Lock()
	if len(b.redo) == 0 {
		b.mu.Unlock()
		return false
	}
	e := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.spliceLocked(e.start, len(e.removed), e.inserted)
	b.undo = append(b.undo, e)
	ch := Change{Start: e.start, Removed: len(e.removed), Inserted: string(e.inserted), Len: len(b.text)}
	fns := b.snapshotListeners()
	b.mu.Unlock()
	notify(fns, ch)
	return true
}

// CanUndo reports whether Undo would do anything.
func (b *Buffer) CanUndo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.undo) > 0
}

// CanRedo reports whether Redo would do anything.
func (b *Buffer) CanRedo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.redo) > 0
}

// ---------------------------------------------------------------------------
// Caret and selection
// ---------------------------------------------------------------------------

// Select selects [start, start+length) and moves the caret to its end.
// Returns false, leaving caret and selection untouched, when the range does
// not fit in the buffer.
func (b *Buffer) Select(start, length int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if start < 0 || length < 0 || start+length > len(b.text) {
		return false
	}
	b.selOff, b.selLen = start, length
	b.caret = start + length
	return true
}

// Selection returns the selected range. length is 0 when nothing is selected.
func (b *Buffer) Selection() (start, length int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selOff, b.selLen
}

// ClearSelection drops the selection, keeping the caret.
func (b *Buffer) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selOff, b.selLen = 0, 0
}

// Caret returns the caret offset.
func (b *Buffer) Caret() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.caret
}

// SetCaret moves the caret, clamped to [0, Len()].
func (b *Buffer) SetCaret(off int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.caret = clamp(off, 0, len(b.text))
}

// ---------------------------------------------------------------------------
// File identity and dirty flag
// ---------------------------------------------------------------------------

// File returns the file identity.
func (b *Buffer) File() File {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.file
}

// SetPath rebinds the buffer to a new path; name and extension follow.
func (b *Buffer) SetPath(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.file = NewFile(path)
}

// LineEnding returns the line ending written on save.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.eol
}

// SetLineEnding changes the line ending written on save.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eol = le
}

// Dirty reports unsaved changes.
func (b *Buffer) Dirty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dirty
}

// MarkDirty flags unsaved changes.
func (b *Buffer) MarkDirty() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirty = true
}

// MarkClean clears the unsaved-changes flag.
func (b *Buffer) MarkClean() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirty = false
}

// ---------------------------------------------------------------------------
// Change notification
// ---------------------------------------------------------------------------

// OnChange registers fn to run after every mutation and returns a function
// that removes it.
func (b *Buffer) OnChange(fn func(Change)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

func (b *Buffer) snapshotListeners() []func(Change) {
	if len(b.listeners) == 0 {
		return nil
	}
	fns := make([]func(Change), 0, len(b.listeners))
	for id := 0; id < b.nextID; id++ {
		if fn, ok := b.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

func notify(fns []func(Change), ch Change) {
	for _, fn := range fns {
		fn(ch)
	}
}

func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
