package tabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xonecas/vate/internal/search"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenDedupe(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha")
	b := writeFile(t, dir, "b.go", "package b")

	c := New()
	ta, err := c.Open(a)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Open(b); err != nil {
		t.Fatal(err)
	}
	if c.ActiveIndex() != 1 {
		t.Fatalf("ActiveIndex() = %d, want 1", c.ActiveIndex())
	}

	again, err := c.Open(filepath.Join(dir, ".", "a.txt"))
	if !errors.Is(err, ErrAlreadyOpen) {
		t.Fatalf("second Open error = %v, want ErrAlreadyOpen", err)
	}
	if again != ta || c.ActiveIndex() != 0 || c.Len() != 2 {
		t.Errorf("dedupe: same=%v active=%d len=%d", again == ta, c.ActiveIndex(), c.Len())
	}
	if ta.Title() != "a.txt" {
		t.Errorf("Title() = %q", ta.Title())
	}
}

func TestOpenMissingFile(t *testing.T) {
	c := New()
	if _, err := c.Open(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("Open of missing file succeeded")
	}
	if c.Len() != 0 || c.ActiveIndex() != -1 {
		t.Errorf("collection changed: len=%d active=%d", c.Len(), c.ActiveIndex())
	}
}

func TestCloseDecisions(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "doc.txt", "v1")

	c := New()
	tab, err := c.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	_ = tab.Buffer().Insert(2, "+")

	if !c.NeedsDecision(0) {
		t.Fatal("dirty tab does not need a decision")
	}
	if closed, _ := c.Close(0, Cancel); closed || c.Len() != 1 {
		t.Fatal("Cancel closed the tab")
	}
	if closed, err := c.Close(0, Save); !closed || err != nil {
		t.Fatalf("Close(Save) = %v, %v", closed, err)
	}
	raw, _ := os.ReadFile(p)
	if string(raw) != "v1+" {
		t.Errorf("saved content = %q", raw)
	}

	tab, _ = c.Open(p)
	_ = tab.Buffer().Insert(0, "lost")
	if closed, _ := c.Close(0, Discard); !closed {
		t.Fatal("Discard did not close")
	}
	raw, _ = os.ReadFile(p)
	if string(raw) != "v1+" {
		t.Errorf("discard wrote the file: %q", raw)
	}
	if _, err := c.Close(3, Discard); !errors.Is(err, ErrNoTab) {
		t.Errorf("Close(3) error = %v", err)
	}
}

func TestCloseUntitledDirtyWithSave(t *testing.T) {
	c := New()
	tab := c.NewUntitled()
	_ = tab.Buffer().Insert(0, "x")
	closed, err := c.Close(0, Save)
	if closed || !errors.Is(err, ErrNoPath) {
		t.Errorf("Close(Save) on untitled = %v, %v", closed, err)
	}
}

func TestCloseKeepsActiveSensible(t *testing.T) {
	c := New()
	for i := 0; i < 4; i++ {
		c.NewUntitled()
	}
	c.Activate(2)
	c.Close(0, Discard)
	if c.ActiveIndex() != 1 {
		t.Errorf("closing before active: ActiveIndex() = %d, want 1", c.ActiveIndex())
	}
	c.Activate(2)
	c.Close(2, Discard)
	if c.ActiveIndex() != 1 {
		t.Errorf("closing last active: ActiveIndex() = %d, want 1", c.ActiveIndex())
	}
	c.Close(0, Discard)
	c.Close(0, Discard)
	if c.ActiveIndex() != -1 || c.Active() != nil {
		t.Errorf("empty collection: ActiveIndex() = %d", c.ActiveIndex())
	}
}

func TestCycle(t *testing.T) {
	c := New()
	c.Cycle(1)
	for i := 0; i < 3; i++ {
		c.NewUntitled()
	}
	c.Cycle(1)
	if c.ActiveIndex() != 0 {
		t.Errorf("Cycle(1) from last = %d", c.ActiveIndex())
	}
	c.Cycle(-1)
	if c.ActiveIndex() != 2 {
		t.Errorf("Cycle(-1) from first = %d", c.ActiveIndex())
	}
}

func TestSaveInfoTab(t *testing.T) {
	c := New()
	c.Add(NewInfoTab("Licenses", "MIT"))
	if err := c.Save(0); !errors.Is(err, ErrNotSaveable) {
		t.Errorf("Save(info) = %v", err)
	}
	if c.NeedsDecision(0) {
		t.Error("info tab needs a decision")
	}
}

func TestSaveAsAndSaveAll(t *testing.T) {
	dir := t.TempDir()
	c := New()
	u := c.NewUntitled()
	_ = u.Buffer().Insert(0, "new")
	other := writeFile(t, dir, "other.txt", "o")
	ot, _ := c.Open(other)
	_ = ot.Buffer().Insert(1, "!")

	if err := c.SaveAs(0, other); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("SaveAs onto open file = %v", err)
	}

	err := c.SaveAll()
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("SaveAll error = %v, want ErrNoPath for the untitled tab", err)
	}
	if ot.Dirty() {
		t.Error("SaveAll skipped the saved file")
	}

	target := filepath.Join(dir, "fresh.md")
	if err := c.SaveAs(0, target); err != nil {
		t.Fatal(err)
	}
	if u.Title() != "fresh.md" || c.HasUnsavedChanges() {
		t.Errorf("after SaveAs: title=%q unsaved=%v", u.Title(), c.HasUnsavedChanges())
	}
	if c.IndexOf(target) != 0 {
		t.Error("SaveAs did not rebind the path")
	}
}

func TestSearchableResolution(t *testing.T) {
	c := New()
	e1 := c.NewUntitled()
	c.Add(NewInfoTab("Licenses", "text"))
	e2 := c.NewUntitled()

	all := c.AllSearchable()
	if len(all) != 3 || all[1] != nil {
		t.Fatalf("AllSearchable() = %v", all)
	}
	if all[0] != search.Target(e1.Buffer()) || all[2] != search.Target(e2.Buffer()) {
		t.Error("AllSearchable() order")
	}

	c.Activate(1)
	if tgt, i := c.ActiveSearchable(); tgt != nil || i != -1 {
		t.Errorf("ActiveSearchable on info tab = %v, %d", tgt, i)
	}
	c.Focus(e2.Buffer())
	if c.ActiveIndex() != 2 {
		t.Errorf("Focus activated %d, want 2", c.ActiveIndex())
	}
	if len(c.Editors()) != 2 {
		t.Errorf("Editors() = %d", len(c.Editors()))
	}
}

func TestChangedOnDiskClearedBySave(t *testing.T) {
	p := writeFile(t, t.TempDir(), "w.txt", "a")
	c := New()
	tab, _ := c.Open(p)
	tab.SetChangedOnDisk(true)
	if err := c.Save(0); err != nil {
		t.Fatal(err)
	}
	if tab.ChangedOnDisk() {
		t.Error("Save kept the changed-on-disk mark")
	}
}
