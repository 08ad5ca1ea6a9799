package buffer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is the identity of the document behind a buffer. Name and extension are
// always derived from the path, so they cannot drift from it.
type File struct {
	path string
}

// NewFile binds a file identity to path.
func NewFile(path string) File {
	return File{path: path}
}

// Path returns the file path ("" for an untitled buffer).
func (f File) Path() string { return f.path }

// Untitled reports whether the buffer has never been bound to a path.
func (f File) Untitled() bool { return f.path == "" }

// Name returns the base name without its extension.
// "notes.old.txt" has name "notes.old"; ".bashrc" has name "".
func (f File) Name() string {
	base := f.base()
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// Ext returns the extension without the leading dot, or "".
func (f File) Ext() string {
	base := f.base()
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[i+1:]
	}
	return ""
}

// NameWithExt returns "name.ext", or just the name when there is no extension.
func (f File) NameWithExt() string {
	if f.Ext() == "" {
		return f.Name()
	}
	return f.Name() + "." + f.Ext()
}

// Exists reports whether the path exists on disk.
func (f File) Exists() bool {
	if f.path == "" {
		return false
	}
	_, err := os.Stat(f.path)
	return err == nil
}

func (f File) base() string {
	if f.path == "" {
		return ""
	}
	// Accept both separators so identities of paths written on Windows
	// still derive the right name.
	p := strings.ReplaceAll(f.path, `\`, "/")
	return filepath.Base(filepath.FromSlash(p))
}

// Load reads path into a new clean buffer.
func Load(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromString(path, text), nil
}

// Reload replaces the content with what is on disk and marks the buffer clean.
func (b *Buffer) Reload() error {
	path := b.File().Path()
	if path == "" {
		return fmt.Errorf("reload: buffer has no path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	text, err := Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	b.SetText(text)
	return nil
}

// Save writes the content to the bound path using the buffer's line ending
// and marks the buffer clean.
func (b *Buffer) Save() error {
	path := b.File().Path()
	if path == "" {
		return fmt.Errorf("save: buffer has no path")
	}
	return b.SaveAs(path)
}

// SaveAs rebinds the buffer to path and saves it there.
func (b *Buffer) SaveAs(path string) error {
	b.mu.Lock()
	content := Encode(string(b.text), b.eol)
	b.mu.Unlock()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // user document
		return fmt.Errorf("write %s: %w", path, err)
	}

	b.mu.Lock()
	b.file = NewFile(path)
	b.dirty = false
	b.mu.Unlock()
	return nil
}
