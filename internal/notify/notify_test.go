package notify

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pomoplayer/internal/core/model"
	"pomoplayer/internal/core/timekeeper"
)

type recordingSink struct {
	calls []string
	err   error
}

func (sink *recordingSink) PlaySound(kind timekeeper.SoundKind) error {
	sink.calls = append(sink.calls, "sound:"+string(kind))
	return sink.err
}

func (sink *recordingSink) ShowToast(message string) error {
	sink.calls = append(sink.calls, "toast:"+message)
	return sink.err
}

func (sink *recordingSink) SetTitle(text string) error {
	sink.calls = append(sink.calls, "title:"+text)
	return sink.err
}

type recordingPlayer struct {
	files []string
}

func (player *recordingPlayer) PlayFile(path string) error {
	player.files = append(player.files, path)
	return nil
}

func TestFanoutReachesEverySink(t *testing.T) {
	failing := &recordingSink{err: errors.New("no display")}
	working := &recordingSink{}
	sinks := Fanout{failing, working}

	err := sinks.ShowToast("Time to focus!")
	if err == nil || !strings.Contains(err.Error(), "no display") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(working.calls) != 1 || working.calls[0] != "toast:Time to focus!" {
		t.Fatalf("second sink not called: %v", working.calls)
	}
	if err := (Fanout{working}).SetTitle("25:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLogSinkWritesRecords(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := sink.ShowToast("Time for a short break!"); err != nil {
		t.Fatalf("ShowToast: %v", err)
	}
	if err := sink.PlaySound(timekeeper.SoundSessionEnd); err != nil {
		t.Fatalf("PlaySound: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Time for a short break!") || !strings.Contains(output, "session_end") {
		t.Fatalf("unexpected log output %q", output)
	}
}

func TestSoundSinkResolvesConfiguredFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"end.mp3", "nudge.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("ID3"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	settings := model.DefaultSettings()
	settings.SessionEndSound = "end.mp3"
	settings.PausePromptSound = "nudge.mp3"

	player := &recordingPlayer{}
	sink := NewSoundSink(player, dir, func() model.Settings { return settings })

	if err := sink.PlaySound(timekeeper.SoundSessionEnd); err != nil {
		t.Fatalf("PlaySound: %v", err)
	}
	if err := sink.PlaySound(timekeeper.SoundPausePrompt); err != nil {
		t.Fatalf("PlaySound: %v", err)
	}
	want := []string{filepath.Join(dir, "end.mp3"), filepath.Join(dir, "nudge.mp3")}
	if len(player.files) != 2 || player.files[0] != want[0] || player.files[1] != want[1] {
		t.Fatalf("played %v, want %v", player.files, want)
	}
}

func TestSoundSinkMissingFile(t *testing.T) {
	player := &recordingPlayer{}
	sink := NewSoundSink(player, t.TempDir(), model.DefaultSettings)

	err := sink.PlaySound(timekeeper.SoundSessionEnd)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if len(player.files) != 0 {
		t.Fatal("player called for a missing file")
	}
}
