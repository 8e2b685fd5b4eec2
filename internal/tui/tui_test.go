package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"pomoplayer/internal/core/model"
	"pomoplayer/internal/core/timekeeper"
)

type fakeEngine struct {
	mu       sync.Mutex
	snapshot timekeeper.Snapshot
	calls    []string
	err      error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{snapshot: timekeeper.Snapshot{
		SessionType:            model.SessionWork,
		RemainingSeconds:       1500,
		DurationSeconds:        1500,
		SessionsUntilLongBreak: 4,
	}}
}

func (engine *fakeEngine) record(call string) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.calls = append(engine.calls, call)
	return engine.err
}

func (engine *fakeEngine) Snapshot() timekeeper.Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshot
}

func (engine *fakeEngine) Title() string { return "25:00 - Focus | PomoPlayer" }

func (engine *fakeEngine) Subscribe(int) <-chan timekeeper.Event {
	return make(chan timekeeper.Event)
}

func (engine *fakeEngine) Toggle() error { return engine.record("toggle") }
func (engine *fakeEngine) Reset() error  { return engine.record("reset") }
func (engine *fakeEngine) Skip() error   { return engine.record("skip") }

func (engine *fakeEngine) ChangeSessionType(sessionType model.SessionType) error {
	return engine.record("session:" + string(sessionType))
}

func (engine *fakeEngine) PromptAction(action timekeeper.PromptAction) error {
	return engine.record("prompt:" + string(action))
}

func runes(value string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}

// press sends a key and runs the resulting command, feeding its message back.
func press(t *testing.T, m tuiModel, msg tea.KeyMsg) tuiModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(tuiModel)
	if cmd == nil {
		return m
	}
	result := cmd()
	next, _ = m.Update(result)
	return next.(tuiModel)
}

func TestKeysDriveEngine(t *testing.T) {
	engine := newFakeEngine()
	m := newModel(engine, engine.Subscribe(1))

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = press(t, m, runes("r"))
	m = press(t, m, runes("s"))
	m = press(t, m, runes("3"))
	press(t, m, runes("c"))

	want := []string{"toggle", "reset", "skip", "session:long_break"}
	if strings.Join(engine.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", engine.calls, want)
	}
}

func TestPromptKeysOnlyWhilePromptVisible(t *testing.T) {
	engine := newFakeEngine()
	engine.snapshot.PromptVisible = true
	m := newModel(engine, engine.Subscribe(1))

	m = press(t, m, runes("m"))
	m = press(t, m, runes("x"))
	press(t, m, runes("c"))

	want := []string{"prompt:remind", "prompt:reset", "prompt:continue"}
	if strings.Join(engine.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", engine.calls, want)
	}
	if !strings.Contains(m.View(), "Still there?") {
		t.Fatal("expected prompt in view")
	}
}

func TestActionErrorsAreShown(t *testing.T) {
	engine := newFakeEngine()
	engine.err = errors.New("timekeeper stopped")
	m := newModel(engine, engine.Subscribe(1))

	m = press(t, m, runes("r"))
	if !strings.Contains(m.View(), "timekeeper stopped") {
		t.Fatalf("expected error in view:\n%s", m.View())
	}
}

func TestEventsUpdateView(t *testing.T) {
	engine := newFakeEngine()
	events := make(chan timekeeper.Event, 1)
	m := newModel(engine, events)

	next, cmd := m.Update(eventMsg{
		Type: timekeeper.EventTick,
		Snapshot: timekeeper.Snapshot{
			SessionType:            model.SessionShortBreak,
			RemainingSeconds:       299,
			DurationSeconds:        300,
			Running:                true,
			CompletedWorkSessions:  1,
			SessionsUntilLongBreak: 4,
		},
	})
	m = next.(tuiModel)
	if cmd == nil {
		t.Fatal("expected to keep listening for events")
	}

	view := m.View()
	for _, want := range []string{"Short Break", "04:59", "Running", "Focus sessions 1/4"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestNoticeAndClosedEvents(t *testing.T) {
	engine := newFakeEngine()
	m := newModel(engine, engine.Subscribe(1))

	next, _ := m.Update(noticeMsg("Time for a short break!"))
	m = next.(tuiModel)
	if !strings.Contains(m.View(), "Time for a short break!") {
		t.Fatal("expected notice in view")
	}

	_, cmd := m.Update(eventsClosedMsg{})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestSinkQueuesWithoutBlocking(t *testing.T) {
	sink := NewSink()
	for i := 0; i < sinkBuffer; i++ {
		if err := sink.SetTitle("25:00 - Focus | PomoPlayer"); err != nil {
			t.Fatalf("SetTitle #%d: %v", i, err)
		}
	}
	if err := sink.ShowToast("Time to focus!"); !errors.Is(err, errSinkFull) {
		t.Fatalf("expected errSinkFull, got %v", err)
	}
	if err := sink.PlaySound(timekeeper.SoundSessionEnd); err != nil {
		t.Fatalf("PlaySound: %v", err)
	}
}
