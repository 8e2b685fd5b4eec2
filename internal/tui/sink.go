package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"pomoplayer/internal/core/timekeeper"
)

var errSinkFull = errors.New("terminal notification queue full")

const sinkBuffer = 64

// Sink forwards toasts and titles from the engine to the terminal program.
// Calls never block; messages queue until the program reads them.
type Sink struct {
	messages chan tea.Msg
}

// NewSink creates a Sink. Messages sent before the program starts are kept.
func NewSink() *Sink {
	return &Sink{messages: make(chan tea.Msg, sinkBuffer)}
}

// PlaySound is left to the sound sink; the terminal has no audio of its own.
func (sink *Sink) PlaySound(timekeeper.SoundKind) error {
	return nil
}

func (sink *Sink) ShowToast(message string) error {
	return sink.push(noticeMsg(message))
}

func (sink *Sink) SetTitle(text string) error {
	return sink.push(titleMsg(text))
}

func (sink *Sink) push(msg tea.Msg) error {
	select {
	case sink.messages <- msg:
		return nil
	default:
		return errSinkFull
	}
}

func (sink *Sink) forward(program *tea.Program, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-sink.messages:
			program.Send(msg)
		}
	}
}
