package tray

import (
	"sync"

	"fyne.io/fyne/v2"

	"pomoplayer/internal/core/timekeeper"
)

// Sink shows engine notifications as desktop toasts and mirrors the title
// onto the timer window and tray status line.
type Sink struct {
	app     fyne.App
	appName string

	mu      sync.Mutex
	title   string
	onTitle func(text string)
}

func newSink(app fyne.App, appName string) *Sink {
	return &Sink{app: app, appName: appName}
}

// PlaySound is left to the sound sink.
func (sink *Sink) PlaySound(timekeeper.SoundKind) error {
	return nil
}

func (sink *Sink) ShowToast(message string) error {
	notification := fyne.NewNotification(sink.appName, message)
	fyne.Do(func() {
		sink.app.SendNotification(notification)
	})
	return nil
}

func (sink *Sink) SetTitle(text string) error {
	sink.mu.Lock()
	sink.title = text
	onTitle := sink.onTitle
	sink.mu.Unlock()

	if onTitle != nil {
		fyne.Do(func() {
			onTitle(text)
		})
	}
	return nil
}

// attach routes titles to handler, replaying the latest one. Must run on the
// fyne thread.
func (sink *Sink) attach(handler func(text string)) {
	sink.mu.Lock()
	sink.onTitle = handler
	title := sink.title
	sink.mu.Unlock()

	if title != "" {
		handler(title)
	}
}
