package timekeeper

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pomoplayer/internal/core/model"
)

var (
	// ErrStopped is returned by operations on a stopped TimeKeeper.
	ErrStopped = errors.New("timekeeper stopped")
	// ErrNoPrompt indicates a prompt action arrived while no prompt is visible.
	ErrNoPrompt = errors.New("pause prompt not visible")
	// ErrUnknownPromptAction indicates an unrecognized prompt answer.
	ErrUnknownPromptAction = errors.New("unknown prompt action")
)

const (
	// DefaultAppName is used in the window title.
	DefaultAppName = "PomoPlayer"

	defaultTickInterval = time.Second
	defaultPromptRepeat = 5 * time.Second
	defaultRemindAfter  = 2 * time.Minute
)

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
	PromptRepeat time.Duration
	RemindAfter  time.Duration
	AppName      string
	Scheduler    Scheduler
	Logger       *slog.Logger
}

// Collaborators are the outside services the engine drives. Nil members are
// replaced with no-op implementations.
type Collaborators struct {
	Store    ConfigStore
	Playback PlaybackSynchronizer
	Sink     NotificationSink
}

type effect struct {
	name string
	run  func() error
}

// TimeKeeper is the Pomodoro session engine. Every command and timer
// callback runs as one serialized step; collaborator calls queued during a
// step are dispatched in order after the state lock is released.
type TimeKeeper struct {
	mu    sync.Mutex
	turns turnstile

	options  Config
	logger   *slog.Logger
	store    ConfigStore
	playback PlaybackSynchronizer
	sink     NotificationSink

	settings      model.Settings
	sessionType   model.SessionType
	completedWork int
	playing       bool

	clock  *clock
	prompt *promptScheduler

	events  []chan Event
	pending []effect
	stopped bool
}

// New creates a TimeKeeper positioned at the start of a work session.
// Settings are loaded from the store; invalid or unreadable settings fall
// back to defaults.
func New(collaborators Collaborators, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = defaultTickInterval
	}
	if options.PromptRepeat <= 0 {
		options.PromptRepeat = defaultPromptRepeat
	}
	if options.RemindAfter <= 0 {
		options.RemindAfter = defaultRemindAfter
	}
	if options.AppName == "" {
		options.AppName = DefaultAppName
	}
	if options.Scheduler == nil {
		options.Scheduler = SystemScheduler{}
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if collaborators.Playback == nil {
		collaborators.Playback = noopPlayback{}
	}
	if collaborators.Sink == nil {
		collaborators.Sink = noopSink{}
	}

	keeper := &TimeKeeper{
		options:     options,
		logger:      logger,
		store:       collaborators.Store,
		playback:    collaborators.Playback,
		sink:        collaborators.Sink,
		settings:    loadSettings(collaborators.Store, logger),
		sessionType: model.SessionWork,
	}
	keeper.turns.cond = sync.NewCond(&keeper.turns.mu)
	keeper.clock = &clock{
		scheduler:  options.Scheduler,
		interval:   options.TickInterval,
		step:       keeper.step,
		onTick:     keeper.handleTickLocked,
		onComplete: func() { keeper.completeLocked(false) },
	}
	keeper.clock.resetTo(keeper.settings.Durations.Work)
	keeper.prompt = &promptScheduler{
		scheduler:   options.Scheduler,
		step:        keeper.step,
		repeatEvery: options.PromptRepeat,
		remindAfter: options.RemindAfter,
		onShow:      keeper.handlePromptShownLocked,
		onNotify:    keeper.handlePromptNotifyLocked,
	}
	keeper.playing = keeper.playback.IsPlaying()
	keeper.playback.OnPlaybackStateChange(keeper.handlePlaybackChange)

	_ = keeper.step(func() error {
		keeper.queueTitleLocked()
		return nil
	})
	return keeper
}

func loadSettings(store ConfigStore, logger *slog.Logger) model.Settings {
	if store == nil {
		return model.DefaultSettings()
	}
	settings, err := store.Load()
	if err != nil {
		logger.Warn("load settings", "error", err)
	}
	if err := settings.Validate(); err != nil {
		logger.Warn("stored settings rejected, using defaults", "error", err)
		return model.DefaultSettings()
	}
	return settings
}

// Subscribe registers a new observer channel. Slow observers miss events
// rather than block the engine.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Snapshot returns a copy of the current state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked()
}

// Settings returns the settings in effect.
func (keeper *TimeKeeper) Settings() model.Settings {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.settings
}

// Title returns the current window title.
func (keeper *TimeKeeper) Title() string {
	return Title(keeper.Snapshot(), keeper.options.AppName)
}

// Toggle starts the countdown when paused and pauses it when running.
func (keeper *TimeKeeper) Toggle() error {
	return keeper.step(func() error {
		if keeper.clock.running {
			keeper.pauseLocked()
		} else {
			keeper.startLocked()
		}
		return nil
	})
}

// Reset stops the countdown and restores the full duration of the current
// session type.
func (keeper *TimeKeeper) Reset() error {
	return keeper.step(func() error {
		keeper.resetLocked()
		return nil
	})
}

// Skip ends the current session immediately without sound or notification.
func (keeper *TimeKeeper) Skip() error {
	return keeper.step(func() error {
		keeper.completeLocked(true)
		return nil
	})
}

// ChangeSessionType switches to sessionType, paused at its full duration.
// Selecting the current type is a no-op.
func (keeper *TimeKeeper) ChangeSessionType(sessionType model.SessionType) error {
	if !sessionType.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownSessionType, sessionType)
	}
	return keeper.step(func() error {
		if sessionType == keeper.sessionType {
			return nil
		}
		keeper.sessionType = sessionType
		keeper.clock.resetTo(keeper.settings.Durations.For(sessionType))
		keeper.clock.started = false
		keeper.cancelPromptLocked()
		keeper.queuePlaybackLocked(false)
		keeper.queueTitleLocked()
		keeper.emitStateLocked()
		return nil
	})
}

// ApplySettings validates and installs new settings. Invalid settings are
// rejected as a whole with a *model.ValidationError. A changed duration for
// the current session takes effect at once when paused and at the next
// transition when running.
func (keeper *TimeKeeper) ApplySettings(settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return keeper.step(func() error {
		previous := keeper.settings
		keeper.settings = settings

		current := settings.Durations.For(keeper.sessionType)
		durationChanged := previous.Durations.For(keeper.sessionType) != current
		if durationChanged && !keeper.clock.running {
			keeper.clock.resetTo(current)
			keeper.clock.started = false
			keeper.queueTitleLocked()
		}

		limit := settings.Cycle.SessionsUntilLongBreak
		if keeper.completedWork >= limit && keeper.sessionType != model.SessionLongBreak {
			keeper.completedWork = limit - 1
		}

		if durationChanged || previous.PausePrompt != settings.PausePrompt {
			keeper.cancelPromptLocked()
			keeper.armPromptLocked()
		}

		if keeper.store != nil && previous != settings {
			keeper.queueLocked("save settings", func() error {
				return keeper.store.Save(settings)
			})
		}
		keeper.emitLocked(keeper.newEventLocked(EventSettingsChange))
		return nil
	})
}

// PromptAction answers the visible pause prompt.
func (keeper *TimeKeeper) PromptAction(action PromptAction) error {
	switch action {
	case PromptContinue, PromptReset, PromptRemind:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPromptAction, action)
	}
	return keeper.step(func() error {
		if !keeper.prompt.visible() {
			return ErrNoPrompt
		}
		switch action {
		case PromptContinue:
			keeper.cancelPromptLocked()
			keeper.startLocked()
		case PromptReset:
			keeper.cancelPromptLocked()
			keeper.resetLocked()
		case PromptRemind:
			keeper.prompt.remind()
			keeper.emitLocked(keeper.newEventLocked(EventPromptHidden))
		}
		return nil
	})
}

// Stop cancels every timer and closes observers. Later operations return
// ErrStopped and late timer callbacks are ignored.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if keeper.stopped {
		keeper.mu.Unlock()
		return
	}
	keeper.stopped = true
	keeper.clock.pause()
	keeper.prompt.cancel()
	keeper.pending = nil
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// step runs mutate under the state lock, then dispatches queued effects
// outside it. Effects from consecutive steps run in the order the steps
// took the lock. A step that queues nothing returns without waiting, so a
// playback callback may arrive from inside a Play or Pause call.
func (keeper *TimeKeeper) step(mutate func() error) error {
	keeper.mu.Lock()
	if keeper.stopped {
		keeper.mu.Unlock()
		return ErrStopped
	}
	err := mutate()
	effects := keeper.pending
	keeper.pending = nil
	if len(effects) == 0 {
		keeper.mu.Unlock()
		return err
	}
	ticket := keeper.turns.take()
	keeper.mu.Unlock()

	keeper.turns.wait(ticket)
	defer keeper.turns.done()
	for _, queued := range effects {
		keeper.dispatch(queued)
	}
	return err
}

// turnstile orders effect dispatch by ticket.
type turnstile struct {
	mu      sync.Mutex
	cond    *sync.Cond
	issued  uint64
	serving uint64
}

func (turns *turnstile) take() uint64 {
	turns.mu.Lock()
	defer turns.mu.Unlock()
	ticket := turns.issued
	turns.issued++
	return ticket
}

func (turns *turnstile) wait(ticket uint64) {
	turns.mu.Lock()
	for turns.serving != ticket {
		turns.cond.Wait()
	}
	turns.mu.Unlock()
}

func (turns *turnstile) done() {
	turns.mu.Lock()
	turns.serving++
	turns.mu.Unlock()
	turns.cond.Broadcast()
}

func (keeper *TimeKeeper) dispatch(queued effect) {
	defer func() {
		if recovered := recover(); recovered != nil {
			keeper.logger.Error("side effect panicked", "effect", queued.name, "panic", recovered)
		}
	}()
	if err := queued.run(); err != nil {
		keeper.logger.Warn("side effect failed", "effect", queued.name, "error", err)
	}
}

func (keeper *TimeKeeper) startLocked() {
	keeper.clock.start()
	keeper.cancelPromptLocked()
	keeper.queuePlaybackLocked(keeper.sessionType == model.SessionWork)
	keeper.queueTitleLocked()
	keeper.emitStateLocked()
}

func (keeper *TimeKeeper) pauseLocked() {
	keeper.clock.pause()
	keeper.queuePlaybackLocked(false)
	keeper.armPromptLocked()
	keeper.queueTitleLocked()
	keeper.emitStateLocked()
}

func (keeper *TimeKeeper) resetLocked() {
	keeper.clock.resetTo(keeper.settings.Durations.For(keeper.sessionType))
	keeper.clock.started = false
	keeper.cancelPromptLocked()
	keeper.queuePlaybackLocked(false)
	keeper.queueTitleLocked()
	keeper.emitStateLocked()
}

// completeLocked moves to the next session. Natural completions announce
// themselves; skips are silent.
func (keeper *TimeKeeper) completeLocked(skipped bool) {
	completed := keeper.sessionType
	planned := keeper.clock.length
	next, count := Advance(completed, keeper.completedWork, keeper.settings.Cycle)

	var message string
	if !skipped {
		keeper.queueSoundLocked(SoundSessionEnd)
		message = completionMessage(next)
		keeper.queueLocked("show toast", func() error {
			return keeper.sink.ShowToast(message)
		})
	}

	keeper.sessionType = next
	keeper.completedWork = count
	keeper.clock.resetTo(keeper.settings.Durations.For(next))
	keeper.cancelPromptLocked()
	if keeper.settings.KeepRunning {
		keeper.clock.start()
		keeper.queuePlaybackLocked(next == model.SessionWork)
	} else {
		keeper.clock.started = false
		keeper.queuePlaybackLocked(false)
	}
	keeper.queueTitleLocked()

	event := keeper.newEventLocked(EventSessionComplete)
	event.Completed = completed
	event.Planned = planned
	event.Skipped = skipped
	event.Message = message
	keeper.emitLocked(event)
}

func completionMessage(next model.SessionType) string {
	switch next {
	case model.SessionLongBreak:
		return "Time for a long break!"
	case model.SessionShortBreak:
		return "Time for a short break!"
	default:
		return "Time to focus!"
	}
}

func (keeper *TimeKeeper) promptDueLocked() bool {
	return keeper.settings.PausePrompt.Enabled &&
		!keeper.clock.running &&
		keeper.clock.started &&
		keeper.clock.remaining < keeper.clock.length
}

func (keeper *TimeKeeper) armPromptLocked() {
	if keeper.promptDueLocked() {
		keeper.prompt.arm(keeper.settings.PausePrompt.Delay())
	}
}

func (keeper *TimeKeeper) cancelPromptLocked() {
	if keeper.prompt.cancel() {
		keeper.emitLocked(keeper.newEventLocked(EventPromptHidden))
	}
}

func (keeper *TimeKeeper) handleTickLocked() {
	keeper.queueTitleLocked()
	keeper.emitLocked(keeper.newEventLocked(EventTick))
}

func (keeper *TimeKeeper) handlePromptShownLocked() {
	keeper.emitLocked(keeper.newEventLocked(EventPromptShown))
}

func (keeper *TimeKeeper) handlePromptNotifyLocked() {
	keeper.queueSoundLocked(SoundPausePrompt)
}

func (keeper *TimeKeeper) handlePlaybackChange(playing bool) {
	_ = keeper.step(func() error {
		if keeper.playing == playing {
			return nil
		}
		keeper.playing = playing
		keeper.emitLocked(keeper.newEventLocked(EventPlaybackChange))
		return nil
	})
}

func (keeper *TimeKeeper) queueLocked(name string, run func() error) {
	keeper.pending = append(keeper.pending, effect{name: name, run: run})
}

func (keeper *TimeKeeper) queueSoundLocked(kind SoundKind) {
	if !keeper.settings.SoundsEnabled {
		return
	}
	keeper.queueLocked("play sound", func() error {
		return keeper.sink.PlaySound(kind)
	})
}

func (keeper *TimeKeeper) queuePlaybackLocked(play bool) {
	if play {
		keeper.queueLocked("play media", keeper.playback.Play)
		return
	}
	keeper.queueLocked("pause media", keeper.playback.Pause)
}

func (keeper *TimeKeeper) queueTitleLocked() {
	title := Title(keeper.snapshotLocked(), keeper.options.AppName)
	keeper.queueLocked("set title", func() error {
		return keeper.sink.SetTitle(title)
	})
}

func (keeper *TimeKeeper) snapshotLocked() Snapshot {
	return Snapshot{
		SessionType:            keeper.sessionType,
		RemainingSeconds:       keeper.clock.remaining,
		DurationSeconds:        keeper.clock.length,
		Running:                keeper.clock.running,
		Started:                keeper.clock.started,
		CompletedWorkSessions:  keeper.completedWork,
		SessionsUntilLongBreak: keeper.settings.Cycle.SessionsUntilLongBreak,
		PromptVisible:          keeper.prompt.visible(),
		PlaybackPlaying:        keeper.playing,
	}
}

func (keeper *TimeKeeper) newEventLocked(eventType EventType) Event {
	return Event{
		Type:     eventType,
		Snapshot: keeper.snapshotLocked(),
		At:       time.Now(),
	}
}

func (keeper *TimeKeeper) emitStateLocked() {
	keeper.emitLocked(keeper.newEventLocked(EventStateChange))
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// Title renders the window title, e.g. "24:59 - Focus | PomoPlayer".
func Title(snapshot Snapshot, appName string) string {
	label := "Focus"
	if snapshot.SessionType.IsBreak() {
		label = "Break"
	}
	return fmt.Sprintf("%s - %s | %s", FormatClock(snapshot.RemainingSeconds), label, appName)
}
