package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
)

// ErrSoundUnsupported indicates no audio command is available on this system.
var ErrSoundUnsupported = errors.New("sound playback unsupported")

// SoundPlayer plays an audio file without waiting for it to finish.
type SoundPlayer interface {
	PlayFile(path string) error
}

// NewSoundPlayer returns a platform-specific sound player.
func NewSoundPlayer() SoundPlayer {
	return newSoundPlayer()
}

type commandSoundPlayer struct {
	path    string
	argsFor func(file string) []string
}

func (player *commandSoundPlayer) PlayFile(file string) error {
	cmd := exec.Command(player.path, player.argsFor(file)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(player.path), err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

type unsupportedSoundPlayer struct{}

func (unsupportedSoundPlayer) PlayFile(string) error {
	return ErrSoundUnsupported
}

func appendFile(args ...string) func(string) []string {
	return func(file string) []string {
		return append(append([]string(nil), args...), file)
	}
}
