package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

func newSoundPlayer() SoundPlayer {
	path, err := exec.LookPath("powershell")
	if err != nil {
		return unsupportedSoundPlayer{}
	}
	return &commandSoundPlayer{path: path, argsFor: mediaPlayerArgs}
}

// mediaPlayerArgs plays through WPF's MediaPlayer, which handles mp3 unlike
// System.Media.SoundPlayer. The process lingers until playback ends.
func mediaPlayerArgs(file string) []string {
	quoted := strings.ReplaceAll(file, "'", "''")
	script := fmt.Sprintf(
		"Add-Type -AssemblyName PresentationCore; "+
			"$p = New-Object System.Windows.Media.MediaPlayer; "+
			"$p.Open([uri]'%s'); $p.Play(); "+
			"Start-Sleep -Milliseconds 300; "+
			"while ($p.NaturalDuration.HasTimeSpan -and $p.Position -lt $p.NaturalDuration.TimeSpan) { Start-Sleep -Milliseconds 200 }",
		quoted)
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}
