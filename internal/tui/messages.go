package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/xonecas/vate/internal/watch"
)

// fileEventMsg is a debounced change to an open file.
type fileEventMsg watch.Event

// watchClosedMsg ends the watcher subscription.
type watchClosedMsg struct{}

type exportDoneMsg struct {
	path string
	err  error
}

type revealDoneMsg struct{ err error }

// statusClearMsg clears the transient status message if it is still the
// one identified by seq.
type statusClearMsg struct{ seq int }

const statusTimeout = 4 * time.Second

// waitForFileEvent blocks on the watcher and delivers its next event.
func waitForFileEvent(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	events := w.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return watchClosedMsg{}
		}
		return fileEventMsg(ev)
	}
}
