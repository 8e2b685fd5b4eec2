package timekeeper

import (
	"sync"
	"time"
)

// Timer is a handle to a pending one-shot or repeating callback.
type Timer interface {
	Stop()
}

// Scheduler creates the timers owned by the clock and the prompt scheduler.
// Callbacks run on scheduler-owned goroutines.
type Scheduler interface {
	AfterFunc(delay time.Duration, callback func()) Timer
	Every(interval time.Duration, callback func()) Timer
}

// SystemScheduler is backed by the time package.
type SystemScheduler struct{}

// AfterFunc runs callback once after delay.
func (SystemScheduler) AfterFunc(delay time.Duration, callback func()) Timer {
	return oneShot{timer: time.AfterFunc(delay, callback)}
}

// Every runs callback each interval until stopped.
func (SystemScheduler) Every(interval time.Duration, callback func()) Timer {
	repeat := &repeating{
		ticker: time.NewTicker(interval),
		stopCh: make(chan struct{}),
	}
	go repeat.run(callback)
	return repeat
}

type oneShot struct {
	timer *time.Timer
}

func (shot oneShot) Stop() {
	shot.timer.Stop()
}

type repeating struct {
	ticker *time.Ticker
	stopCh chan struct{}
	once   sync.Once
}

func (repeat *repeating) run(callback func()) {
	defer repeat.ticker.Stop()
	for {
		select {
		case <-repeat.stopCh:
			return
		case <-repeat.ticker.C:
			callback()
		}
	}
}

func (repeat *repeating) Stop() {
	repeat.once.Do(func() {
		close(repeat.stopCh)
	})
}
