package timekeeper

import (
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"pomoplayer/internal/core/model"
)

// manualScheduler fires timers only when the test advances its clock.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	scheduler *manualScheduler
	due       time.Duration
	interval  time.Duration
	callback  func()
	seq       int
	fired     bool
	canceled  bool
}

func (timer *manualTimer) Stop() {
	timer.scheduler.mu.Lock()
	defer timer.scheduler.mu.Unlock()
	timer.canceled = true
}

func (scheduler *manualScheduler) AfterFunc(delay time.Duration, callback func()) Timer {
	return scheduler.add(delay, 0, callback)
}

func (scheduler *manualScheduler) Every(interval time.Duration, callback func()) Timer {
	return scheduler.add(interval, interval, callback)
}

func (scheduler *manualScheduler) add(delay, interval time.Duration, callback func()) Timer {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.seq++
	timer := &manualTimer{
		scheduler: scheduler,
		due:       scheduler.now + delay,
		interval:  interval,
		callback:  callback,
		seq:       scheduler.seq,
	}
	scheduler.timers = append(scheduler.timers, timer)
	return timer
}

// Advance moves time forward and fires every timer that comes due, in due
// order, including timers created by earlier callbacks.
func (scheduler *manualScheduler) Advance(delta time.Duration) {
	scheduler.mu.Lock()
	target := scheduler.now + delta
	scheduler.mu.Unlock()

	for {
		scheduler.mu.Lock()
		next := scheduler.nextDueLocked(target)
		if next == nil {
			scheduler.now = target
			scheduler.mu.Unlock()
			return
		}
		scheduler.now = next.due
		if next.interval > 0 {
			next.due += next.interval
		} else {
			next.fired = true
		}
		callback := next.callback
		scheduler.mu.Unlock()
		callback()
	}
}

func (scheduler *manualScheduler) nextDueLocked(target time.Duration) *manualTimer {
	var live []*manualTimer
	for _, timer := range scheduler.timers {
		if !timer.canceled && !timer.fired && timer.due <= target {
			live = append(live, timer)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].due == live[j].due {
			return live[i].seq < live[j].seq
		}
		return live[i].due < live[j].due
	})
	return live[0]
}

// FireCanceled runs the callback of every canceled timer once, as if each
// had fired just before it was stopped.
func (scheduler *manualScheduler) FireCanceled() {
	scheduler.mu.Lock()
	var callbacks []func()
	for _, timer := range scheduler.timers {
		if timer.canceled {
			callbacks = append(callbacks, timer.callback)
		}
	}
	scheduler.mu.Unlock()
	for _, callback := range callbacks {
		callback()
	}
}

// Active counts timers that can still fire.
func (scheduler *manualScheduler) Active() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	count := 0
	for _, timer := range scheduler.timers {
		if !timer.canceled && !timer.fired {
			count++
		}
	}
	return count
}

type recordingSink struct {
	mu     sync.Mutex
	sounds []SoundKind
	toasts []string
	titles []string
	err    error
}

func (sink *recordingSink) PlaySound(kind SoundKind) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.sounds = append(sink.sounds, kind)
	return sink.err
}

func (sink *recordingSink) ShowToast(message string) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.toasts = append(sink.toasts, message)
	return sink.err
}

func (sink *recordingSink) SetTitle(text string) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.titles = append(sink.titles, text)
	return sink.err
}

func (sink *recordingSink) soundCount(kind SoundKind) int {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	count := 0
	for _, sound := range sink.sounds {
		if sound == kind {
			count++
		}
	}
	return count
}

func (sink *recordingSink) toastCount() int {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return len(sink.toasts)
}

func (sink *recordingSink) lastTitle() string {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.titles) == 0 {
		return ""
	}
	return sink.titles[len(sink.titles)-1]
}

// fakePlayer reports its own state changes synchronously from Play and
// Pause, like a local player would.
type fakePlayer struct {
	mu       sync.Mutex
	playing  bool
	plays    int
	pauses   int
	callback func(bool)
}

func (player *fakePlayer) Play() error {
	player.mu.Lock()
	player.plays++
	callback := player.callback
	player.playing = true
	player.mu.Unlock()
	if callback != nil {
		callback(true)
	}
	return nil
}

func (player *fakePlayer) Pause() error {
	player.mu.Lock()
	player.pauses++
	callback := player.callback
	player.playing = false
	player.mu.Unlock()
	if callback != nil {
		callback(false)
	}
	return nil
}

func (player *fakePlayer) IsPlaying() bool {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.playing
}

func (player *fakePlayer) OnPlaybackStateChange(callback func(bool)) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.callback = callback
}

func (player *fakePlayer) counts() (int, int) {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.plays, player.pauses
}

type memoryStore struct {
	mu       sync.Mutex
	settings model.Settings
	loadErr  error
	saved    []model.Settings
}

func (store *memoryStore) Load() (model.Settings, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.settings, store.loadErr
}

func (store *memoryStore) Save(settings model.Settings) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.settings = settings
	store.saved = append(store.saved, settings)
	return nil
}

func (store *memoryStore) saveCount() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.saved)
}

type harness struct {
	keeper    *TimeKeeper
	scheduler *manualScheduler
	sink      *recordingSink
	player    *fakePlayer
	store     *memoryStore
}

func newHarness(t *testing.T, settings model.Settings) *harness {
	t.Helper()
	h := &harness{
		scheduler: &manualScheduler{},
		sink:      &recordingSink{},
		player:    &fakePlayer{},
		store:     &memoryStore{settings: settings},
	}
	h.keeper = New(Collaborators{
		Store:    h.store,
		Playback: h.player,
		Sink:     h.sink,
	}, Config{
		Scheduler: h.scheduler,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(h.keeper.Stop)
	return h
}

func shortSettings() model.Settings {
	settings := model.DefaultSettings()
	settings.Durations = model.Durations{Work: 60, ShortBreak: 60, LongBreak: 60}
	return settings
}

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func drain(events <-chan Event) []Event {
	var collected []Event
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return collected
			}
			collected = append(collected, event)
		default:
			return collected
		}
	}
}

func countEvents(events []Event, eventType EventType) int {
	count := 0
	for _, event := range events {
		if event.Type == eventType {
			count++
		}
	}
	return count
}
