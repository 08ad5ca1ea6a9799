package tui

import (
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/vate/internal/diff"
	"github.com/xonecas/vate/internal/store"
	"github.com/xonecas/vate/internal/tui/modal"
)

func backupKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// backupBeforeSave keeps the current on-disk content of path so a save can
// be taken back.
func (m *Model) backupBeforeSave(path string) {
	if path == "" || m.store == nil || m.cfg.Editor.Backups <= 0 {
		return
	}
	if data, ok := store.SnapshotFile(path); ok {
		m.store.RecordBackup(backupKey(path), data, m.cfg.Editor.Backups)
	}
}

// backupDirty backs up every dirty file about to be saved.
func (m *Model) backupDirty() {
	for _, et := range m.tabs.Editors() {
		if et.Dirty() {
			m.backupBeforeSave(et.Path())
		}
	}
}

// handleRestoreBackup offers to replace the active buffer with the content
// the file had before its last save. The restore is an ordinary edit: it
// can be undone and is not written until the next save.
func (m *Model) handleRestoreBackup() tea.Cmd {
	et, st := m.activeEditorTab()
	if et == nil || et.Path() == "" {
		return m.setStatus("No backups for this document", true)
	}
	b, ok := m.store.LastBackup(backupKey(et.Path()))
	if !ok {
		return m.setStatus("No backups for "+et.Title(), false)
	}
	text, err := decodeDoc(b.Content)
	if err != nil {
		log.Warn().Err(err).Str("path", et.Path()).Msg("backup unreadable")
		return m.setStatus("Backup unreadable: "+err.Error(), true)
	}
	current := et.Buffer().Text()
	if text == current {
		return m.setStatus("The backup matches the document", false)
	}
	when := b.Created.Format("2006-01-02 15:04:05")
	c := modal.NewConfirm("Restore "+et.Title()+" from "+when+"?",
		diff.Unified(et.Title(), current, text),
		[]string{"Restore", "Cancel"}, modalColors(m.palette))
	c.BodyStyle = m.diffStyle
	m.openConfirm(c, func(m *Model, button int) tea.Cmd {
		if button != 0 {
			return nil
		}
		buf := et.Buffer()
		if err := buf.Splice(0, buf.Len(), text); err != nil {
			return m.setStatus("Restore failed: "+err.Error(), true)
		}
		buf.SetCaret(0)
		st.ed.ScrollToCaret()
		return m.setStatus("Restored the version from "+when+"; save to keep it", false)
	})
	return nil
}
