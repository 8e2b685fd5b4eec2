package timekeeper

import (
	"fmt"
	"time"
)

// clock owns the countdown and its tick timer. Every method runs inside a
// TimeKeeper step, so the fields need no locking of their own.
type clock struct {
	scheduler Scheduler
	interval  time.Duration
	step      func(func() error) error

	length    int
	remaining int
	running   bool
	started   bool

	// generation is bumped whenever the ticker is replaced or stopped, so a
	// tick that was already queued behind the engine lock can tell it is stale.
	generation uint64
	ticker     Timer

	onTick     func()
	onComplete func()
}

func (countdown *clock) start() {
	if countdown.running {
		return
	}
	countdown.running = true
	countdown.started = true
	countdown.generation++
	generation := countdown.generation
	countdown.ticker = countdown.scheduler.Every(countdown.interval, func() {
		_ = countdown.step(func() error {
			countdown.tick(generation)
			return nil
		})
	})
}

func (countdown *clock) pause() {
	countdown.stopTicker()
	countdown.running = false
}

func (countdown *clock) resetTo(seconds int) {
	countdown.pause()
	countdown.length = seconds
	countdown.remaining = seconds
}

func (countdown *clock) stopTicker() {
	if countdown.ticker != nil {
		countdown.ticker.Stop()
		countdown.ticker = nil
	}
	countdown.generation++
}

func (countdown *clock) tick(generation uint64) {
	if generation != countdown.generation || !countdown.running {
		return
	}
	if countdown.remaining > 0 {
		countdown.remaining--
	}
	if countdown.remaining > 0 {
		countdown.onTick()
		return
	}
	// The ticker must be gone before the completion handler can restart it.
	countdown.pause()
	countdown.onComplete()
}

// FormatClock renders seconds as MM:SS, or H:MM:SS from one hour up.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
