package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pomoplayer/internal/core/timekeeper"
)

type (
	// eventMsg carries an engine event into the update loop.
	eventMsg timekeeper.Event

	// eventsClosedMsg reports that the engine stopped.
	eventsClosedMsg struct{}

	// actionDoneMsg reports the result of an engine command.
	actionDoneMsg struct {
		err error
	}

	// noticeMsg is a notification forwarded by Sink.
	noticeMsg string

	// titleMsg is a window title forwarded by Sink.
	titleMsg string
)

func waitForEvent(events <-chan timekeeper.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(event)
	}
}

// runAction calls the engine off the update loop, so collaborator calls made
// by the engine never wait on the terminal.
func runAction(action func() error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: action()}
	}
}
