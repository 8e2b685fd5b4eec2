package platform

import "os/exec"

// Tried in order; ffplay and pw-play decode mp3, paplay and aplay may not.
var linuxSoundCommands = []struct {
	name string
	args []string
}{
	{name: "ffplay", args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{name: "pw-play"},
	{name: "paplay"},
	{name: "aplay", args: []string{"-q"}},
}

func newSoundPlayer() SoundPlayer {
	for _, command := range linuxSoundCommands {
		path, err := exec.LookPath(command.name)
		if err != nil {
			continue
		}
		return &commandSoundPlayer{path: path, argsFor: appendFile(command.args...)}
	}
	return unsupportedSoundPlayer{}
}
