package tray

import (
	"fmt"
	"image/color"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pomoplayer/internal/core/model"
	"pomoplayer/internal/core/timekeeper"
)

var (
	workColor  = color.NRGBA{R: 232, G: 92, B: 74, A: 255}
	breakColor = color.NRGBA{R: 72, G: 170, B: 160, A: 255}
)

// timerWindow is the main window: clock, progress and session controls.
type timerWindow struct {
	window         fyne.Window
	sessionLabel   *canvas.Text
	clockLabel     *canvas.Text
	cycleLabel     *widget.Label
	playbackLabel  *widget.Label
	progress       *widget.ProgressBar
	toggleButton   *widget.Button
	sessionButtons map[model.SessionType]*widget.Button
	mediaLink      *widget.Hyperlink
}

func newTimerWindow(app fyne.App, callbacks Callbacks) *timerWindow {
	window := app.NewWindow("PomoPlayer")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	sessionLabel := canvas.NewText(model.SessionWork.Label(), workColor)
	sessionLabel.Alignment = fyne.TextAlignCenter
	sessionLabel.TextStyle = fyne.TextStyle{Bold: true}
	sessionLabel.TextSize = 18

	clockLabel := canvas.NewText("--:--", theme.Color(theme.ColorNameForeground))
	clockLabel.Alignment = fyne.TextAlignCenter
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.TextSize = 56

	timer := &timerWindow{
		window:         window,
		sessionLabel:   sessionLabel,
		clockLabel:     clockLabel,
		cycleLabel:     widget.NewLabel(""),
		playbackLabel:  widget.NewLabel(""),
		progress:       widget.NewProgressBar(),
		sessionButtons: make(map[model.SessionType]*widget.Button),
		mediaLink:      widget.NewHyperlink("Open music", nil),
	}
	timer.cycleLabel.Alignment = fyne.TextAlignCenter
	timer.playbackLabel.Alignment = fyne.TextAlignCenter
	timer.progress.TextFormatter = func() string { return "" }

	sessionRow := container.NewGridWithColumns(len(model.SessionTypes))
	for _, sessionType := range model.SessionTypes {
		target := sessionType
		button := widget.NewButton(sessionType.Label(), func() {
			if callbacks.OnSession != nil {
				callbacks.OnSession(target)
			}
		})
		timer.sessionButtons[sessionType] = button
		sessionRow.Add(button)
	}

	timer.toggleButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), callbacks.OnToggle)
	timer.toggleButton.Importance = widget.HighImportance
	resetButton := widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), callbacks.OnReset)
	skipButton := widget.NewButtonWithIcon("Skip", theme.MediaSkipNextIcon(), callbacks.OnSkip)
	prefsButton := widget.NewButtonWithIcon("", theme.SettingsIcon(), callbacks.OnPreferences)

	controls := container.NewHBox(layout.NewSpacer(), resetButton, timer.toggleButton, skipButton, layout.NewSpacer())
	footer := container.NewHBox(timer.mediaLink, layout.NewSpacer(), timer.playbackLabel, prefsButton)

	window.SetContent(container.NewPadded(container.NewVBox(
		sessionRow,
		sessionLabel,
		clockLabel,
		timer.progress,
		timer.cycleLabel,
		controls,
		footer,
	)))
	window.Resize(fyne.NewSize(380, 320))
	return timer
}

// update renders a snapshot. Must run on the fyne thread.
func (timer *timerWindow) update(snapshot timekeeper.Snapshot) {
	timer.sessionLabel.Text = snapshot.SessionType.Label()
	if snapshot.SessionType.IsBreak() {
		timer.sessionLabel.Color = breakColor
	} else {
		timer.sessionLabel.Color = workColor
	}
	timer.sessionLabel.Refresh()

	timer.clockLabel.Text = timekeeper.FormatClock(snapshot.RemainingSeconds)
	timer.clockLabel.Refresh()
	timer.progress.SetValue(snapshot.Progress())
	timer.cycleLabel.SetText(fmt.Sprintf("Session %d of %d",
		cyclePosition(snapshot), snapshot.SessionsUntilLongBreak))

	if snapshot.Running {
		timer.toggleButton.SetText("Pause")
		timer.toggleButton.SetIcon(theme.MediaPauseIcon())
	} else {
		timer.toggleButton.SetText("Start")
		timer.toggleButton.SetIcon(theme.MediaPlayIcon())
	}

	for sessionType, button := range timer.sessionButtons {
		importance := widget.LowImportance
		if sessionType == snapshot.SessionType {
			importance = widget.MediumImportance
		}
		if button.Importance != importance {
			button.Importance = importance
			button.Refresh()
		}
	}

	if snapshot.PlaybackPlaying {
		timer.playbackLabel.SetText("Music playing")
	} else {
		timer.playbackLabel.SetText("")
	}
}

// applySettings updates the music link. Must run on the fyne thread.
func (timer *timerWindow) applySettings(settings model.Settings) {
	link, err := url.Parse(settings.MediaURL)
	if !settings.MediaVisible || err != nil || settings.MediaURL == "" {
		timer.mediaLink.Hide()
		return
	}
	timer.mediaLink.SetURL(link)
	timer.mediaLink.Show()
}

// cyclePosition is the 1-based work session within the current cycle.
func cyclePosition(snapshot timekeeper.Snapshot) int {
	if snapshot.SessionType == model.SessionWork {
		return snapshot.CompletedWorkSessions + 1
	}
	return max(snapshot.CompletedWorkSessions, 1)
}
