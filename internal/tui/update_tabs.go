package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/vate/internal/export"
	"github.com/xonecas/vate/internal/highlight"
	"github.com/xonecas/vate/internal/shell"
	"github.com/xonecas/vate/internal/tabs"
)

const revealTimeout = 10 * time.Second

// handleSave saves the active tab. Untitled tabs ask for a path.
func (m *Model) handleSave() tea.Cmd {
	i := m.tabs.ActiveIndex()
	et, _ := m.activeEditorTab()
	if et == nil {
		return m.setStatus("This tab cannot be saved", true)
	}
	if et.Path() == "" {
		return m.saveAsPrompt(i, nil)
	}
	m.backupBeforeSave(et.Path())
	if err := m.tabs.Save(i); err != nil {
		log.Warn().Err(err).Str("path", et.Path()).Msg("save failed")
		return m.setStatus(err.Error(), true)
	}
	m.rebase(et)
	return m.setStatus("Saved "+et.Title(), false)
}

func (m *Model) handleSaveAs() tea.Cmd {
	if et, _ := m.activeEditorTab(); et == nil {
		return m.setStatus("This tab cannot be saved", true)
	}
	return m.saveAsPrompt(m.tabs.ActiveIndex(), nil)
}

// handleSaveAll saves every dirty tab with a path.
func (m *Model) handleSaveAll() tea.Cmd {
	m.backupDirty()
	err := m.tabs.SaveAll()
	for _, et := range m.tabs.Editors() {
		if et.Path() != "" && !et.Dirty() {
			if st := m.state[et.ID()]; st != nil && st.baseline != et.Buffer().Text() {
				m.rebase(et)
			}
		}
	}
	if err != nil {
		log.Warn().Err(err).Msg("save all failed")
		if errors.Is(err, tabs.ErrNoPath) {
			return m.setStatus("Untitled documents need Save As", true)
		}
		return m.setStatus(err.Error(), true)
	}
	return m.setStatus("Saved all", false)
}

// saveAsPrompt asks for a path and saves tab i there, then runs then.
func (m *Model) saveAsPrompt(i int, then func(*Model) tea.Cmd) tea.Cmd {
	et, ok := m.tabs.At(i).(*tabs.EditorTab)
	if !ok {
		return nil
	}
	value := et.Path()
	if value == "" {
		if wd, err := os.Getwd(); err == nil {
			value = wd + string(filepath.Separator)
		}
	}
	return m.openPrompt("Save as", value, func(m *Model, path string) tea.Cmd {
		if expanded, err := shell.Expand(path); err == nil && expanded != "" {
			path = expanded
		}
		old := et.Path()
		m.backupBeforeSave(path)
		if err := m.tabs.SaveAs(i, path); err != nil {
			if errors.Is(err, tabs.ErrAlreadyOpen) {
				return m.setStatus(path+" is open in another tab", true)
			}
			log.Warn().Err(err).Str("path", path).Msg("save as failed")
			return m.setStatus(err.Error(), true)
		}
		if old != et.Path() {
			m.unwatchPath(old)
			m.watchPath(et.Path())
		}
		if st := m.state[et.ID()]; st != nil {
			st.ed.Language = highlight.Detect(et.Path(), et.Buffer().Text())
		}
		m.rebase(et)
		m.store.AddRecent(et.Path(), m.cfg.Recent.Max)
		cmd := m.setStatus("Saved "+et.Title(), false)
		if then != nil {
			return tea.Batch(cmd, then(m))
		}
		return cmd
	})
}

// handleExport asks where to write the HTML page of the active document.
func (m *Model) handleExport() tea.Cmd {
	et, st := m.activeEditorTab()
	if et == nil {
		return m.setStatus("This tab cannot be exported", true)
	}
	value := "export.html"
	if p := et.Path(); p != "" {
		value = strings.TrimSuffix(p, filepath.Ext(p)) + ".html"
	}
	opts := m.cfg.ExportOptions(et.Title(), st.ed.Language)
	opts.LineSeparator = et.Buffer().LineEnding().Sequence()
	text := et.Buffer().Text()
	return m.openPrompt("Export HTML to", value, func(m *Model, path string) tea.Cmd {
		if expanded, err := shell.Expand(path); err == nil && expanded != "" {
			path = expanded
		}
		return func() tea.Msg {
			return exportDoneMsg{path: path, err: export.WriteFile(path, text, opts)}
		}
	})
}

// handleReveal shows the active file in the file manager.
func (m *Model) handleReveal() tea.Cmd {
	et, _ := m.activeEditorTab()
	if et == nil || et.Path() == "" {
		return m.setStatus("Save the document first", true)
	}
	if m.shell == nil {
		return m.setStatus("Reveal is unavailable", true)
	}
	sh, command, file, ctx := m.shell, m.cfg.Commands.Reveal, et.Path(), m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, revealTimeout)
		defer cancel()
		return revealDoneMsg{err: sh.Reveal(ctx, command, file)}
	}
}

// handleLicenses opens the licenses page, or activates it when open.
func (m *Model) handleLicenses() tea.Cmd {
	for i, t := range m.tabs.Tabs() {
		if _, ok := t.(*tabs.InfoTab); ok && t.Title() == licensesTitle {
			m.activateTab(i)
			return nil
		}
	}
	t := tabs.NewInfoTab(licensesTitle, licensesText)
	m.tabs.Add(t)
	m.track(t)
	m.tabChanged()
	return nil
}
