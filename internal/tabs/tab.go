// Package tabs manages the set of open documents and which one is active.
package tabs

import (
	"github.com/google/uuid"

	"github.com/xonecas/vate/internal/buffer"
)

// Tab is anything shown in the tab strip.
type Tab interface {
	ID() string
	Title() string
}

// Searchable tabs expose a buffer to search and replace.
type Searchable interface {
	Tab
	Buffer() *buffer.Buffer
}

// Saveable tabs can be written to disk.
type Saveable interface {
	Tab
	Path() string
	Dirty() bool
	Save() error
	SaveAs(path string) error
}

// EditorTab is an editable document.
type EditorTab struct {
	id            string
	buf           *buffer.Buffer
	changedOnDisk bool
}

// NewEditorTab wraps buf in a tab.
func NewEditorTab(buf *buffer.Buffer) *EditorTab {
	return &EditorTab{id: uuid.NewString(), buf: buf}
}

func (t *EditorTab) ID() string             { return t.id }
func (t *EditorTab) Buffer() *buffer.Buffer { return t.buf }
func (t *EditorTab) Path() string           { return t.buf.File().Path() }
func (t *EditorTab) Dirty() bool            { return t.buf.Dirty() }

// Title is "name.ext", or "Untitled" for a buffer without a path.
func (t *EditorTab) Title() string {
	f := t.buf.File()
	if f.Untitled() {
		return "Untitled"
	}
	return f.NameWithExt()
}

// Save writes the buffer to its path and clears the changed-on-disk mark.
func (t *EditorTab) Save() error {
	if err := t.buf.Save(); err != nil {
		return err
	}
	t.changedOnDisk = false
	return nil
}

// SaveAs writes the buffer to path and rebinds the tab to it.
func (t *EditorTab) SaveAs(path string) error {
	if err := t.buf.SaveAs(path); err != nil {
		return err
	}
	t.changedOnDisk = false
	return nil
}

// Reload replaces the buffer with the file on disk.
func (t *EditorTab) Reload() error {
	if err := t.buf.Reload(); err != nil {
		return err
	}
	t.changedOnDisk = false
	return nil
}

// ChangedOnDisk reports whether the file was modified by another program
// since it was loaded or saved.
func (t *EditorTab) ChangedOnDisk() bool     { return t.changedOnDisk }
func (t *EditorTab) SetChangedOnDisk(v bool) { t.changedOnDisk = v }

// InfoTab is a read-only text page such as the licenses. It cannot be
// searched or saved.
type InfoTab struct {
	id    string
	title string
	body  string
}

// NewInfoTab creates a read-only tab.
func NewInfoTab(title, body string) *InfoTab {
	return &InfoTab{id: uuid.NewString(), title: title, body: body}
}

func (t *InfoTab) ID() string    { return t.id }
func (t *InfoTab) Title() string { return t.title }
func (t *InfoTab) Body() string  { return t.body }
