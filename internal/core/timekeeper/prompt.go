package timekeeper

import "time"

type promptPhase int

const (
	promptIdle promptPhase = iota
	promptWaiting
	promptPrompting
)

func (phase promptPhase) String() string {
	switch phase {
	case promptWaiting:
		return "waiting"
	case promptPrompting:
		return "prompting"
	default:
		return "idle"
	}
}

// promptScheduler nudges the user when a started session stays paused.
// It owns a one-shot delay timer and a repeating reminder timer; both are
// tagged with the epoch that armed them and ignored once the epoch moves on.
type promptScheduler struct {
	scheduler   Scheduler
	step        func(func() error) error
	repeatEvery time.Duration
	remindAfter time.Duration

	phase       promptPhase
	epoch       uint64
	delayTimer  Timer
	repeatTimer Timer

	onShow   func()
	onNotify func()
}

func (prompt *promptScheduler) visible() bool {
	return prompt.phase == promptPrompting
}

// arm moves to Waiting and schedules the prompt after delay, replacing any
// pending or visible prompt.
func (prompt *promptScheduler) arm(delay time.Duration) {
	prompt.stopTimers()
	prompt.epoch++
	epoch := prompt.epoch
	prompt.phase = promptWaiting
	prompt.delayTimer = prompt.scheduler.AfterFunc(delay, func() {
		_ = prompt.step(func() error {
			prompt.fire(epoch)
			return nil
		})
	})
}

// remind hides the prompt and shows it again after the fixed remind interval.
func (prompt *promptScheduler) remind() {
	prompt.arm(prompt.remindAfter)
}

// cancel returns to Idle and reports whether the prompt was visible.
func (prompt *promptScheduler) cancel() bool {
	wasVisible := prompt.visible()
	prompt.stopTimers()
	prompt.epoch++
	prompt.phase = promptIdle
	return wasVisible
}

func (prompt *promptScheduler) fire(epoch uint64) {
	if epoch != prompt.epoch || prompt.phase != promptWaiting {
		return
	}
	prompt.delayTimer = nil
	prompt.phase = promptPrompting
	prompt.onShow()
	prompt.onNotify()
	prompt.repeatTimer = prompt.scheduler.Every(prompt.repeatEvery, func() {
		_ = prompt.step(func() error {
			prompt.repeat(epoch)
			return nil
		})
	})
}

func (prompt *promptScheduler) repeat(epoch uint64) {
	if epoch != prompt.epoch || prompt.phase != promptPrompting {
		return
	}
	prompt.onNotify()
}

func (prompt *promptScheduler) stopTimers() {
	if prompt.delayTimer != nil {
		prompt.delayTimer.Stop()
		prompt.delayTimer = nil
	}
	if prompt.repeatTimer != nil {
		prompt.repeatTimer.Stop()
		prompt.repeatTimer = nil
	}
}
