package notify

import (
	"fmt"
	"os"
	"path/filepath"

	"pomoplayer/internal/core/model"
	"pomoplayer/internal/core/timekeeper"
	"pomoplayer/internal/platform"
)

// SoundSink plays the sound files named in the current settings. Relative
// names are resolved against the sounds directory.
type SoundSink struct {
	player   platform.SoundPlayer
	dir      string
	settings func() model.Settings
}

// NewSoundSink creates a SoundSink. settings is read on every sound so
// changes apply without rebuilding the sink.
func NewSoundSink(player platform.SoundPlayer, dir string, settings func() model.Settings) *SoundSink {
	return &SoundSink{player: player, dir: dir, settings: settings}
}

func (sink *SoundSink) PlaySound(kind timekeeper.SoundKind) error {
	path, err := sink.resolve(kind)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("sound %s: %w", kind, err)
	}
	return sink.player.PlayFile(path)
}

func (sink *SoundSink) ShowToast(string) error { return nil }
func (sink *SoundSink) SetTitle(string) error  { return nil }

func (sink *SoundSink) resolve(kind timekeeper.SoundKind) (string, error) {
	settings := sink.settings()
	var name string
	switch kind {
	case timekeeper.SoundSessionEnd:
		name = settings.SessionEndSound
	case timekeeper.SoundPausePrompt:
		name = settings.PausePromptSound
	default:
		return "", fmt.Errorf("unknown sound kind %q", kind)
	}
	if name == "" {
		return "", fmt.Errorf("no file configured for sound %s", kind)
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	return filepath.Join(sink.dir, name), nil
}

// DefaultSoundsDir returns the sounds directory under the user config dir.
func DefaultSoundsDir(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, "sounds"), nil
}
