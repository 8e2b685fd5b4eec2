// Package playback drives the media player that follows the focus sessions.
package playback

import (
	"errors"
	"sync"
)

// ErrNoPlayer indicates that no controllable media player was found.
var ErrNoPlayer = errors.New("no media player available")

// listeners fans playback state changes out to subscribers. Callbacks run
// outside the lock on the goroutine that observed the change.
type listeners struct {
	mu        sync.Mutex
	playing   bool
	callbacks []func(bool)
}

func (group *listeners) add(callback func(bool)) {
	if callback == nil {
		return
	}
	group.mu.Lock()
	defer group.mu.Unlock()
	group.callbacks = append(group.callbacks, callback)
}

func (group *listeners) current() bool {
	group.mu.Lock()
	defer group.mu.Unlock()
	return group.playing
}

func (group *listeners) set(playing bool) {
	group.mu.Lock()
	if group.playing == playing {
		group.mu.Unlock()
		return
	}
	group.playing = playing
	callbacks := append(([]func(bool))(nil),group.callbacks...)
	group.mu.Unlock()

	for _, callback := range callbacks {
		callback(playing)
	}
}

// Detached is an in-process player used when no external player is
// configured. It only tracks the requested state.
type Detached struct {
	state listeners
}

// NewDetached creates a paused Detached player.
func NewDetached() *Detached {
	return &Detached{}
}

// Play marks the player as playing.
func (player *Detached) Play() error {
	player.state.set(true)
	return nil
}

// Pause marks the player as paused.
func (player *Detached) Pause() error {
	player.state.set(false)
	return nil
}

// IsPlaying reports the last requested state.
func (player *Detached) IsPlaying() bool {
	return player.state.current()
}

// OnPlaybackStateChange registers a state change callback.
func (player *Detached) OnPlaybackStateChange(callback func(playing bool)) {
	player.state.add(callback)
}
