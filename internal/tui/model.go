// Package tui is the terminal front-end for the session engine.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pomoplayer/internal/core/model"
	"pomoplayer/internal/core/timekeeper"
)

// Engine is the part of the session engine the terminal UI drives.
type Engine interface {
	Snapshot() timekeeper.Snapshot
	Title() string
	Subscribe(buffer int) <-chan timekeeper.Event
	Toggle() error
	Reset() error
	Skip() error
	ChangeSessionType(sessionType model.SessionType) error
	PromptAction(action timekeeper.PromptAction) error
}

const eventBuffer = 64

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)
	workStyle = headerStyle.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("161"))
	breakStyle = headerStyle.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("30"))
	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Padding(1, 0)
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 2).
			MarginTop(1)
)

type tuiModel struct {
	engine   Engine
	events   <-chan timekeeper.Event
	keys     KeyMap
	help     help.Model
	progress progress.Model
	snapshot timekeeper.Snapshot
	notice   string
	err      error
}

func newModel(engine Engine, events <-chan timekeeper.Event) tuiModel {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40
	return tuiModel{
		engine:   engine,
		events:   events,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: bar,
		snapshot: engine.Snapshot(),
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tea.SetWindowTitle(m.engine.Title()))
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.progress.Width = clamp(msg.Width-4, 10, 60)
		return m, nil

	case eventMsg:
		m.snapshot = msg.Snapshot
		if msg.Type == timekeeper.EventSessionComplete && msg.Skipped {
			m.notice = fmt.Sprintf("Skipped %s.", strings.ToLower(msg.Completed.Label()))
		}
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		return m, tea.Quit

	case actionDoneMsg:
		m.err = msg.err
		m.snapshot = m.engine.Snapshot()
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		return m, nil

	case titleMsg:
		return m, tea.SetWindowTitle(string(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.snapshot.PromptVisible {
		switch {
		case key.Matches(msg, m.keys.Continue):
			return m, m.promptAction(timekeeper.PromptContinue)
		case key.Matches(msg, m.keys.Remind):
			return m, m.promptAction(timekeeper.PromptRemind)
		case key.Matches(msg, m.keys.ResetPrompt):
			return m, m.promptAction(timekeeper.PromptReset)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.notice = ""
		return m, runAction(m.engine.Toggle)
	case key.Matches(msg, m.keys.Reset):
		return m, runAction(m.engine.Reset)
	case key.Matches(msg, m.keys.Skip):
		return m, runAction(m.engine.Skip)
	case key.Matches(msg, m.keys.Work):
		return m, m.changeSession(model.SessionWork)
	case key.Matches(msg, m.keys.ShortBreak):
		return m, m.changeSession(model.SessionShortBreak)
	case key.Matches(msg, m.keys.LongBreak):
		return m, m.changeSession(model.SessionLongBreak)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m tuiModel) promptAction(action timekeeper.PromptAction) tea.Cmd {
	return runAction(func() error {
		return m.engine.PromptAction(action)
	})
}

func (m tuiModel) changeSession(sessionType model.SessionType) tea.Cmd {
	return runAction(func() error {
		return m.engine.ChangeSessionType(sessionType)
	})
}

func (m tuiModel) View() string {
	snapshot := m.snapshot

	header := workStyle.Render(snapshot.SessionType.Label())
	if snapshot.SessionType.IsBreak() {
		header = breakStyle.Render(snapshot.SessionType.Label())
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(clockStyle.Render(timekeeper.FormatClock(snapshot.RemainingSeconds)))
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(snapshot.Progress()))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(statusLine(snapshot)))
	b.WriteString("\n")

	if snapshot.PromptVisible {
		b.WriteString(promptStyle.Render(
			"Your session is paused. Still there?\n\n" + m.help.ShortHelpView(m.keys.promptHelp())))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func statusLine(snapshot timekeeper.Snapshot) string {
	state := "Paused"
	if snapshot.Running {
		state = "Running"
	}
	parts := []string{
		state,
		fmt.Sprintf("Focus sessions %d/%d", snapshot.CompletedWorkSessions, snapshot.SessionsUntilLongBreak),
	}
	if snapshot.PlaybackPlaying {
		parts = append(parts, "Media playing")
	}
	return strings.Join(parts, " · ")
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// Run shows the terminal UI until the user quits, the engine stops, or ctx
// is done. sink may be nil.
func Run(ctx context.Context, engine Engine, sink *Sink) error {
	program := tea.NewProgram(newModel(engine, engine.Subscribe(eventBuffer)), tea.WithAltScreen())

	done := make(chan struct{})
	defer close(done)
	if sink != nil {
		go sink.forward(program, done)
	}
	go func() {
		select {
		case <-ctx.Done():
			program.Quit()
		case <-done:
		}
	}()

	_, err := program.Run()
	return err
}
