// Package tray is the desktop front-end: a system tray menu, a timer window,
// the pause prompt and the preferences form.
package tray

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"pomoplayer/internal/core/model"
	"pomoplayer/internal/core/timekeeper"
	"pomoplayer/internal/ui/preferences"
	"pomoplayer/internal/ui/prompt"
)

// Engine is the part of the session engine the desktop front-end drives.
type Engine interface {
	Snapshot() timekeeper.Snapshot
	Settings() model.Settings
	Subscribe(buffer int) <-chan timekeeper.Event
	Toggle() error
	Reset() error
	Skip() error
	ChangeSessionType(sessionType model.SessionType) error
	PromptAction(action timekeeper.PromptAction) error
	ApplySettings(settings model.Settings) error
	Stop()
}

const eventBuffer = 64

// Options configures the desktop front-end.
type Options struct {
	AppID   string
	AppName string
	Logger  *slog.Logger
}

// Desktop owns the fyne application. Create it before the engine so Sink can
// be handed to the engine, then call Run.
type Desktop struct {
	app     fyne.App
	appName string
	logger  *slog.Logger
	sink    *Sink
	timer   *timerWindow
}

// NewDesktop creates the fyne application without showing anything.
func NewDesktop(options Options) *Desktop {
	if options.AppID == "" {
		options.AppID = "com.pomoplayer.app"
	}
	if options.AppName == "" {
		options.AppName = timekeeper.DefaultAppName
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	fyneApp := app.NewWithID(options.AppID)
	fyneApp.SetIcon(theme.MediaMusicIcon())

	return &Desktop{
		app:     fyneApp,
		appName: options.AppName,
		logger:  options.Logger,
		sink:    newSink(fyneApp, options.AppName),
	}
}

// Sink returns the desktop NotificationSink.
func (front *Desktop) Sink() *Sink {
	return front.sink
}

// Show brings the timer window forward. Safe to call from any goroutine.
func (front *Desktop) Show() {
	fyne.Do(func() {
		if front.timer == nil {
			return
		}
		front.timer.window.Show()
		front.timer.window.RequestFocus()
	})
}

// Run shows the front-end and blocks until the user quits or ctx is done.
// It must be called from the main goroutine.
func (front *Desktop) Run(ctx context.Context, engine Engine) error {
	settings := engine.Settings()
	front.app.Settings().SetTheme(themeFor(settings.Theme))

	perform := func(name string, action func() error) {
		go func() {
			if err := action(); err != nil {
				front.logger.Warn("desktop action failed", "action", name, "error", err)
			}
		}()
	}

	quit := func() {
		engine.Stop()
		front.app.Quit()
	}

	var prefsWindow *preferences.Window
	callbacks := Callbacks{
		OnShow:   front.Show,
		OnToggle: func() { perform("toggle", engine.Toggle) },
		OnReset:  func() { perform("reset", engine.Reset) },
		OnSkip:   func() { perform("skip", engine.Skip) },
		OnSession: func(sessionType model.SessionType) {
			perform("change session", func() error { return engine.ChangeSessionType(sessionType) })
		},
		OnPreferences: func() {
			prefsWindow.UpdateSettings(engine.Settings())
			prefsWindow.Show()
		},
		OnQuit: quit,
	}

	front.timer = newTimerWindow(front.app, callbacks)
	front.timer.applySettings(settings)
	prefsWindow = preferences.New(front.app, settings, engine.ApplySettings)
	promptWindow := prompt.New(front.app, func(action timekeeper.PromptAction) {
		perform("prompt "+string(action), func() error { return engine.PromptAction(action) })
	})

	var trayManager *Manager
	if desktopApp, ok := front.app.(desktop.App); ok {
		trayManager = NewManager(desktopApp, callbacks)
		desktopApp.SetSystemTrayIcon(front.app.Icon())
		front.timer.window.SetCloseIntercept(func() {
			front.timer.window.Hide()
		})
	} else {
		front.logger.Info("system tray unsupported on this platform")
		front.timer.window.SetCloseIntercept(quit)
	}

	front.sink.attach(func(text string) {
		front.timer.window.SetTitle(text)
	})

	render := func(event timekeeper.Event) {
		snapshot := event.Snapshot
		front.timer.update(snapshot)
		if trayManager != nil {
			trayManager.SetRunning(snapshot.Running)
			trayManager.SetSession(snapshot.SessionType)
			trayManager.SetStatus(statusLine(snapshot))
		}

		switch event.Type {
		case timekeeper.EventPromptShown:
			promptWindow.Show(snapshot)
		case timekeeper.EventPromptHidden:
			promptWindow.Hide()
		case timekeeper.EventSettingsChange:
			updated := engine.Settings()
			front.timer.applySettings(updated)
			front.app.Settings().SetTheme(themeFor(updated.Theme))
		}
	}
	render(timekeeper.Event{Type: timekeeper.EventStateChange, Snapshot: engine.Snapshot()})

	events := engine.Subscribe(eventBuffer)
	go func() {
		for event := range events {
			fyne.Do(func() {
				render(event)
			})
		}
	}()

	go func() {
		<-ctx.Done()
		fyne.Do(quit)
	}()

	front.timer.window.Show()
	front.app.Run()
	return nil
}

func statusLine(snapshot timekeeper.Snapshot) string {
	state := "paused"
	if snapshot.Running {
		state = "running"
	} else if !snapshot.Started {
		state = "ready"
	}
	return fmt.Sprintf("%s %s (%s)", snapshot.SessionType.Label(),
		timekeeper.FormatClock(snapshot.RemainingSeconds), state)
}
