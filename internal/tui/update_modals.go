package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/vate/internal/diff"
	"github.com/xonecas/vate/internal/filesearch"
	"github.com/xonecas/vate/internal/shell"
	"github.com/xonecas/vate/internal/tabs"
	"github.com/xonecas/vate/internal/tui/modal"
)

const (
	pickerMaxResults = 50
	grepMaxResults   = 200
)

// ---------------------------------------------------------------------------
// Pickers
// ---------------------------------------------------------------------------

func (m *Model) openPicker(md *modal.Model, onPick func(*Model, modal.Item) tea.Cmd) {
	m.picker = md
	m.onPick = onPick
}

func (m *Model) updatePicker(msg tea.Msg) tea.Cmd {
	action, cmd := m.picker.HandleMsg(msg)
	switch a := action.(type) {
	case modal.ActionClose:
		m.picker, m.onPick = nil, nil
		return nil
	case modal.ActionSelect:
		onPick := m.onPick
		m.picker, m.onPick = nil, nil
		return onPick(m, a.Item)
	}
	return cmd
}

// openFileModal lists files below the working directory by fuzzy name. A
// query that names an existing file outside the list is offered as is.
func (m *Model) openFileModal() tea.Cmd {
	searcher := m.searcher
	searchFn := func(query string) []modal.Item {
		var items []modal.Item
		if query != "" {
			if p, err := shell.Expand(query); err == nil && isFile(p) {
				items = append(items, modal.Item{Name: query, Desc: "open path", Data: p})
			}
		}
		if searcher == nil || query == "" {
			return items
		}
		results, err := searcher.Search(context.Background(), filesearch.Options{
			Pattern:    query,
			MaxResults: pickerMaxResults,
		})
		if err != nil {
			log.Debug().Err(err).Msg("file search failed")
			return items
		}
		for _, r := range results {
			items = append(items, modal.Item{Name: r.Path, Data: filepath.Join(searcher.Root(), r.Path)})
		}
		return items
	}
	md := modal.New(searchFn, "Open: ", modalColors(m.palette))
	md.Title = "Open file"
	m.openPicker(md, (*Model).pickFile)
	return nil
}

func (m *Model) openRecentModal() tea.Cmd {
	var items []modal.Item
	for _, p := range m.store.Recent(m.cfg.Recent.Max) {
		items = append(items, modal.Item{Name: filepath.Base(p), Desc: filepath.Dir(p), Data: p})
	}
	if len(items) == 0 {
		return m.setStatus("No recent files", false)
	}
	md := modal.NewStatic(items, "Recent: ", modalColors(m.palette))
	md.Title = "Recent files"
	md.WidthPct = 70
	m.openPicker(md, (*Model).pickFile)
	return nil
}

func (m *Model) pickFile(it modal.Item) tea.Cmd {
	path, _ := it.Data.(string)
	if path == "" {
		path = it.Name
	}
	if err := m.openPath(path); err != nil && !errors.Is(err, tabs.ErrAlreadyOpen) {
		log.Warn().Err(err).Str("path", path).Msg("failed to open file")
		m.store.RemoveRecent(path)
		return m.setStatus("Open failed: "+err.Error(), true)
	}
	m.tabChanged()
	return nil
}

// grepHit is the payload of a find-in-files result.
type grepHit struct {
	path    string
	line    int // 1-based
	col     int
	pattern string
}

// openGrepModal searches file contents below the working directory.
func (m *Model) openGrepModal() tea.Cmd {
	if m.searcher == nil {
		return m.setStatus("Find in files is unavailable", true)
	}
	searcher := m.searcher
	searchFn := func(query string) []modal.Item {
		if query == "" {
			return nil
		}
		results, err := searcher.Search(context.Background(), filesearch.Options{
			Pattern:       query,
			ContentSearch: true,
			CaseSensitive: true,
			MaxResults:    grepMaxResults,
		})
		if err != nil {
			log.Debug().Err(err).Msg("content search failed")
			return nil
		}
		items := make([]modal.Item, len(results))
		for i, r := range results {
			items[i] = modal.Item{
				Name: r.Path + ":" + strconv.Itoa(r.Line),
				Desc: strings.TrimSpace(r.Content),
				Data: grepHit{path: filepath.Join(searcher.Root(), r.Path), line: r.Line, col: r.Col, pattern: query},
			}
		}
		return items
	}
	md := modal.New(searchFn, "Grep: ", modalColors(m.palette))
	md.Title = "Find in files"
	if _, st := m.activeEditorTab(); st != nil {
		if sel := st.ed.SelectedText(); sel != "" && !strings.Contains(sel, "\n") {
			md.SetQuery(sel)
		}
	}
	m.openPicker(md, (*Model).pickGrepHit)
	return nil
}

// pickGrepHit opens the file of a hit and selects the match.
func (m *Model) pickGrepHit(it modal.Item) tea.Cmd {
	hit, ok := it.Data.(grepHit)
	if !ok {
		return nil
	}
	if err := m.openPath(hit.path); err != nil && !errors.Is(err, tabs.ErrAlreadyOpen) {
		return m.setStatus("Open failed: "+err.Error(), true)
	}
	m.tabChanged()
	et, st := m.activeEditorTab()
	if et == nil {
		return nil
	}
	buf := et.Buffer()
	off := buf.Offset(hit.line-1, hit.col)
	n := len([]rune(hit.pattern))
	if !buf.Select(off, n) {
		buf.SetCaret(off)
	}
	st.ed.ScrollToCaret()
	return nil
}

func (m *Model) openKeybindsModal() tea.Cmd {
	items := make([]modal.Item, len(keybinds))
	for i, kb := range keybinds {
		items[i] = modal.Item{Name: kb.key, Desc: kb.desc}
	}
	md := modal.NewStatic(items, "Key: ", modalColors(m.palette))
	md.Title = "Keybindings"
	md.WidthPct = 60
	m.openPicker(md, func(*Model, modal.Item) tea.Cmd { return nil })
	return nil
}

var keybinds = []struct{ key, desc string }{
	{"ctrl+n", "New file"},
	{"ctrl+o", "Open file"},
	{"alt+o", "Open recent file"},
	{"ctrl+s", "Save"},
	{"ctrl+shift+s / f12", "Save as"},
	{"alt+s", "Save all"},
	{"ctrl+w", "Close tab"},
	{"ctrl+q", "Quit"},
	{"ctrl+f", "Find"},
	{"ctrl+r", "Find and replace"},
	{"f3 / shift+f3", "Next / previous match"},
	{"ctrl+t", "Search panel: toggle all tabs"},
	{"ctrl+e", "Search panel: toggle replace"},
	{"ctrl+x", "Search panel: swap find and replace"},
	{"alt+a", "Search panel: replace all"},
	{"alt+f", "Find in files"},
	{"alt+e", "Export to HTML"},
	{"alt+r", "Reveal file in file manager"},
	{"alt+u", "Reload file from disk"},
	{"alt+b", "Restore the version before the last save"},
	{"ctrl+z / ctrl+y", "Undo / redo"},
	{"ctrl+a", "Select all"},
	{"alt+left / alt+right", "Previous / next tab"},
	{"alt+1 … alt+9", "Go to tab"},
	{"f1", "Keybindings"},
	{"f2", "Licenses"},
}

// ---------------------------------------------------------------------------
// Confirmations
// ---------------------------------------------------------------------------

func (m *Model) openConfirm(c *modal.Confirm, onChoose func(*Model, int) tea.Cmd) {
	m.confirm = c
	m.onChoose = onChoose
}

func (m *Model) updateConfirm(msg tea.Msg) tea.Cmd {
	action, cmd := m.confirm.HandleMsg(msg)
	switch a := action.(type) {
	case modal.ActionClose:
		m.confirm, m.onChoose = nil, nil
		return nil
	case modal.ActionChoose:
		onChoose := m.onChoose
		m.confirm, m.onChoose = nil, nil
		return onChoose(m, a.Index)
	}
	return cmd
}

// diffStyle colors unified diff lines.
func (m *Model) diffStyle(line string) lipgloss.Style {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return m.styles.Muted
	case strings.HasPrefix(line, "+"):
		return m.styles.Add.Background(lipgloss.Color(m.palette.Bg))
	case strings.HasPrefix(line, "-"):
		return m.styles.Delete.Background(lipgloss.Color(m.palette.Bg))
	case strings.HasPrefix(line, "@@"):
		return m.styles.Accent
	}
	return m.styles.Text
}

// unsavedSummary describes the unsaved changes of et.
func (m *Model) unsavedSummary(et *tabs.EditorTab) string {
	st := m.state[et.ID()]
	text := et.Buffer().Text()
	if et.Path() == "" || st == nil {
		return "This document has never been saved."
	}
	stats := diff.Count(st.baseline, text)
	return stats.String() + " lines\n" + diff.Unified(et.Title(), st.baseline, text)
}

// handleCloseTab closes the active tab, asking first when it has unsaved
// changes.
func (m *Model) handleCloseTab() tea.Cmd {
	i := m.tabs.ActiveIndex()
	if i < 0 {
		return nil
	}
	if !m.tabs.NeedsDecision(i) {
		return m.closeTab(i, tabs.Discard)
	}
	et := m.tabs.At(i).(*tabs.EditorTab)
	c := modal.NewConfirm("Save changes to "+et.Title()+"?", m.unsavedSummary(et),
		[]string{"Save", "Discard", "Cancel"}, modalColors(m.palette))
	c.BodyStyle = m.diffStyle
	m.openConfirm(c, func(m *Model, button int) tea.Cmd {
		switch button {
		case 0:
			if et.Path() == "" {
				return m.saveAsPrompt(i, func(m *Model) tea.Cmd { return m.closeTab(i, tabs.Discard) })
			}
			m.backupBeforeSave(et.Path())
			return m.closeTab(i, tabs.Save)
		case 1:
			return m.closeTab(i, tabs.Discard)
		}
		return nil
	})
	return nil
}

// closeTab closes tab i and forgets its view state. The last tab is
// replaced by an untitled one.
func (m *Model) closeTab(i int, d tabs.Decision) tea.Cmd {
	t := m.tabs.At(i)
	if t == nil {
		return nil
	}
	var path string
	if et, ok := t.(*tabs.EditorTab); ok {
		path = et.Path()
	}
	closed, err := m.tabs.Close(i, d)
	if err != nil {
		log.Warn().Err(err).Str("tab", t.Title()).Msg("failed to close tab")
		return m.setStatus(err.Error(), true)
	}
	if !closed {
		return nil
	}
	if st := m.state[t.ID()]; st != nil && st.detach != nil {
		st.detach()
	}
	delete(m.state, t.ID())
	m.unwatchPath(path)
	if m.search != nil {
		m.search.session.Reset()
		m.search.searched = false
	}
	if m.tabs.Len() == 0 {
		m.newUntitled()
	}
	m.tabChanged()
	return nil
}

// handleQuit quits, asking first when any tab has unsaved changes.
func (m *Model) handleQuit() tea.Cmd {
	if !m.tabs.HasUnsavedChanges() {
		return m.quit()
	}
	unsaved := m.tabs.Unsaved()
	var names []string
	for _, s := range unsaved {
		names = append(names, "  "+s.Title())
	}
	body := "These documents have unsaved changes:\n" + strings.Join(names, "\n")
	c := modal.NewConfirm("Quit VATE?", body,
		[]string{"Save all", "Quit anyway", "Cancel"}, modalColors(m.palette))
	m.openConfirm(c, func(m *Model, button int) tea.Cmd {
		switch button {
		case 0:
			m.backupDirty()
			if err := m.tabs.SaveAll(); err != nil {
				return m.setStatus("Save failed: "+err.Error(), true)
			}
			return m.quit()
		case 1:
			return m.quit()
		}
		return nil
	})
	return nil
}

// quit records the session in the config file and ends the program.
func (m *Model) quit() tea.Cmd {
	if m.cfgPath != "" {
		var paths []string
		active := 0
		for i, t := range m.tabs.Tabs() {
			et, ok := t.(*tabs.EditorTab)
			if !ok || et.Path() == "" {
				continue
			}
			if i == m.tabs.ActiveIndex() {
				active = len(paths)
			}
			paths = append(paths, et.Path())
		}
		m.cfg.Session.Remember(paths, active)
		if err := m.cfg.Save(m.cfgPath); err != nil {
			log.Warn().Err(err).Msg("failed to save session")
		}
	}
	m.store.Flush()
	if m.cancel != nil {
		m.cancel()
	}
	return tea.Quit
}

// handleReload reloads the active file, asking first when the buffer has
// unsaved changes.
func (m *Model) handleReload() tea.Cmd {
	et, _ := m.activeEditorTab()
	if et == nil || et.Path() == "" {
		return nil
	}
	if !et.Dirty() {
		return m.reload(et)
	}
	c := modal.NewConfirm("Reload "+et.Title()+"?", "Unsaved changes will be lost.\n"+m.unsavedSummary(et),
		[]string{"Reload", "Cancel"}, modalColors(m.palette))
	c.BodyStyle = m.diffStyle
	m.openConfirm(c, func(m *Model, button int) tea.Cmd {
		if button == 0 {
			return m.reload(et)
		}
		return nil
	})
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
