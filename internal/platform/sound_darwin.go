package platform

import "os/exec"

func newSoundPlayer() SoundPlayer {
	path, err := exec.LookPath("afplay")
	if err != nil {
		return unsupportedSoundPlayer{}
	}
	return &commandSoundPlayer{path: path, argsFor: appendFile()}
}
