package timekeeper

import "pomoplayer/internal/core/model"

// ConfigStore persists user settings.
// Load returns usable settings (defaults at worst) alongside any error.
type ConfigStore interface {
	Load() (model.Settings, error)
	Save(settings model.Settings) error
}

// PlaybackSynchronizer controls an external media player. The engine requests
// play and pause but never owns the playback state.
type PlaybackSynchronizer interface {
	Play() error
	Pause() error
	IsPlaying() bool
	OnPlaybackStateChange(callback func(playing bool))
}

// NotificationSink receives fire-and-forget side effects. Errors are logged
// by the engine and never change timer state.
type NotificationSink interface {
	PlaySound(kind SoundKind) error
	ShowToast(message string) error
	SetTitle(text string) error
}

type noopPlayback struct{}

func (noopPlayback) Play() error                      { return nil }
func (noopPlayback) Pause() error                     { return nil }
func (noopPlayback) IsPlaying() bool                  { return false }
func (noopPlayback) OnPlaybackStateChange(func(bool)) {}

type noopSink struct{}

func (noopSink) PlaySound(SoundKind) error { return nil }
func (noopSink) ShowToast(string) error    { return nil }
func (noopSink) SetTitle(string) error     { return nil }
