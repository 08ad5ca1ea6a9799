package tabs

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/xonecas/vate/internal/buffer"
	"github.com/xonecas/vate/internal/search"
)

var (
	// ErrAlreadyOpen is returned by Open when the path is already in a tab.
	// The existing tab is activated and returned alongside it.
	ErrAlreadyOpen = errors.New("file already open")
	ErrNotSaveable = errors.New("tab cannot be saved")
	ErrNoPath      = errors.New("tab has no file path")
	ErrNoTab       = errors.New("no such tab")
)

// Decision is the answer to "this tab has unsaved changes".
type Decision int

const (
	Cancel Decision = iota
	Save
	Discard
)

// Collection is the ordered tab strip with one active tab.
// It is owned by the UI loop and not safe for concurrent use.
type Collection struct {
	tabs   []Tab
	active int
}

// New returns an empty collection.
func New() *Collection {
	return &Collection{active: -1}
}

var _ search.Tabs = (*Collection)(nil)

func (c *Collection) Len() int { return len(c.tabs) }

// Tabs returns the tabs in order.
func (c *Collection) Tabs() []Tab { return append([]Tab(nil), c.tabs...) }

// At returns tab i or nil.
func (c *Collection) At(i int) Tab {
	if i < 0 || i >= len(c.tabs) {
		return nil
	}
	return c.tabs[i]
}

// ActiveIndex returns the active tab index, -1 when empty.
func (c *Collection) ActiveIndex() int { return c.active }

// Active returns the active tab or nil.
func (c *Collection) Active() Tab { return c.At(c.active) }

// Activate makes tab i active.
func (c *Collection) Activate(i int) bool {
	if i < 0 || i >= len(c.tabs) {
		return false
	}
	c.active = i
	return true
}

// Cycle moves the active tab by step, wrapping around.
func (c *Collection) Cycle(step int) {
	n := len(c.tabs)
	if n == 0 {
		return
	}
	c.active = ((c.active+step)%n + n) % n
}

// Add appends t and makes it active.
func (c *Collection) Add(t Tab) int {
	c.tabs = append(c.tabs, t)
	c.active = len(c.tabs) - 1
	return c.active
}

// NewUntitled adds an empty untitled editor tab.
func (c *Collection) NewUntitled() *EditorTab {
	t := NewEditorTab(buffer.New(""))
	c.Add(t)
	return t
}

// Open loads path into a new tab. If the file is already open its tab is
// activated and returned with ErrAlreadyOpen.
func (c *Collection) Open(path string) (*EditorTab, error) {
	if i := c.IndexOf(path); i >= 0 {
		c.active = i
		return c.tabs[i].(*EditorTab), ErrAlreadyOpen
	}
	buf, err := buffer.Load(path)
	if err != nil {
		return nil, err
	}
	t := NewEditorTab(buf)
	c.Add(t)
	return t, nil
}

// IndexOf returns the index of the editor tab bound to path, or -1.
func (c *Collection) IndexOf(path string) int {
	if path == "" {
		return -1
	}
	want := canonical(path)
	for i, t := range c.tabs {
		et, ok := t.(*EditorTab)
		if !ok || et.Path() == "" {
			continue
		}
		if canonical(et.Path()) == want {
			return i
		}
	}
	return -1
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// NeedsDecision reports whether closing tab i would lose unsaved changes.
func (c *Collection) NeedsDecision(i int) bool {
	s, ok := c.At(i).(Saveable)
	return ok && s.Dirty()
}

// Close closes tab i. For a tab with unsaved changes d decides: Save writes
// it first, Discard drops the changes and Cancel keeps the tab open.
func (c *Collection) Close(i int, d Decision) (bool, error) {
	t := c.At(i)
	if t == nil {
		return false, ErrNoTab
	}
	if c.NeedsDecision(i) {
		switch d {
		case Cancel:
			return false, nil
		case Save:
			if err := c.Save(i); err != nil {
				return false, err
			}
		}
	}
	c.remove(i)
	return true, nil
}

func (c *Collection) remove(i int) {
	c.tabs = append(c.tabs[:i], c.tabs[i+1:]...)
	switch {
	case len(c.tabs) == 0:
		c.active = -1
	case i < c.active || c.active >= len(c.tabs):
		c.active--
	}
}

// Save writes tab i to its path.
func (c *Collection) Save(i int) error {
	s, ok := c.At(i).(Saveable)
	if !ok {
		return ErrNotSaveable
	}
	if s.Path() == "" {
		return ErrNoPath
	}
	if err := s.Save(); err != nil {
		return fmt.Errorf("save %s: %w", s.Title(), err)
	}
	return nil
}

// SaveAs writes tab i to path. Saving over a file open in another tab is
// refused with ErrAlreadyOpen.
func (c *Collection) SaveAs(i int, path string) error {
	s, ok := c.At(i).(Saveable)
	if !ok {
		return ErrNotSaveable
	}
	if j := c.IndexOf(path); j >= 0 && j != i {
		return ErrAlreadyOpen
	}
	if err := s.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// SaveAll saves every dirty tab that has a path. Untitled dirty tabs are
// reported with ErrNoPath.
func (c *Collection) SaveAll() error {
	var errs []error
	for i, t := range c.tabs {
		s, ok := t.(Saveable)
		if !ok || !s.Dirty() {
			continue
		}
		if err := c.Save(i); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Title(), err))
		}
	}
	return errors.Join(errs...)
}

// Unsaved returns the tabs with unsaved changes.
func (c *Collection) Unsaved() []Saveable {
	var out []Saveable
	for _, t := range c.tabs {
		if s, ok := t.(Saveable); ok && s.Dirty() {
			out = append(out, s)
		}
	}
	return out
}

// HasUnsavedChanges reports whether any tab is dirty.
func (c *Collection) HasUnsavedChanges() bool { return len(c.Unsaved()) > 0 }

// Editors returns the editor tabs in order.
func (c *Collection) Editors() []*EditorTab {
	var out []*EditorTab
	for _, t := range c.tabs {
		if et, ok := t.(*EditorTab); ok {
			out = append(out, et)
		}
	}
	return out
}

// ActiveSearchable returns the active tab's buffer if it can be searched.
func (c *Collection) ActiveSearchable() (search.Target, int) {
	s, ok := c.Active().(Searchable)
	if !ok {
		return nil, -1
	}
	return s.Buffer(), c.active
}

// AllSearchable returns one entry per tab, nil for tabs that cannot be searched.
func (c *Collection) AllSearchable() []search.Target {
	out := make([]search.Target, len(c.tabs))
	for i, t := range c.tabs {
		if s, ok := t.(Searchable); ok {
			out[i] = s.Buffer()
		}
	}
	return out
}

// Focus activates the tab whose buffer is target.
func (c *Collection) Focus(target search.Target) {
	for i, t := range c.tabs {
		if s, ok := t.(Searchable); ok && search.Target(s.Buffer()) == target {
			c.active = i
			return
		}
	}
}
