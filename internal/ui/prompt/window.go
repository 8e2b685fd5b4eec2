// Package prompt shows the pause reminder window.
package prompt

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pomoplayer/internal/core/timekeeper"
)

// Window asks the user whether to resume a paused session.
type Window struct {
	window        fyne.Window
	background    *canvas.Rectangle
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	timerLabel    *canvas.Text
	continueBtn   *widget.Button
	remindBtn     *widget.Button
	resetBtn      *widget.Button
	onAction      func(action timekeeper.PromptAction)
	visible       bool
}

const (
	promptWidth  = float32(380)
	promptHeight = float32(180)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates a hidden prompt window.
func New(app fyne.App, onAction func(action timekeeper.PromptAction)) *Window {
	window := app.NewWindow("Still there?")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Undecorated, so the only way out is one of the three answers.
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	background := canvas.NewRectangle(theme.Color(theme.ColorNameOverlayBackground))

	titleLabel := canvas.NewText("Still there?", theme.Color(theme.ColorNameForeground))
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 21

	subtitleLabel := canvas.NewText("Your session is paused.", theme.Color(theme.ColorNameForeground))
	subtitleLabel.TextSize = 14

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 16

	prompt := &Window{
		window:        window,
		background:    background,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		timerLabel:    timerLabel,
		onAction:      onAction,
	}

	prompt.continueBtn = widget.NewButtonWithIcon("Continue", theme.MediaPlayIcon(), func() {
		prompt.answer(timekeeper.PromptContinue)
	})
	prompt.continueBtn.Importance = widget.HighImportance
	prompt.remindBtn = widget.NewButton("Remind me in 2 minutes", func() {
		prompt.answer(timekeeper.PromptRemind)
	})
	prompt.resetBtn = widget.NewButtonWithIcon("Reset Session", theme.MediaReplayIcon(), func() {
		prompt.answer(timekeeper.PromptReset)
	})

	text := container.NewVBox(titleLabel, subtitleLabel, timerLabel)
	buttons := container.NewHBox(prompt.resetBtn, layout.NewSpacer(), prompt.remindBtn, prompt.continueBtn)
	content := container.NewPadded(container.NewBorder(nil, buttons, nil, nil, text))
	window.SetContent(container.NewStack(background, content))
	window.SetCloseIntercept(func() {
		prompt.answer(timekeeper.PromptRemind)
	})
	window.Resize(fyne.NewSize(promptWidth, promptHeight))

	return prompt
}

// Show displays the prompt for the paused session. Must run on the fyne thread.
func (prompt *Window) Show(snapshot timekeeper.Snapshot) {
	prompt.subtitleLabel.Text = snapshot.SessionType.Label() + " is paused."
	prompt.subtitleLabel.Refresh()
	prompt.timerLabel.Text = timekeeper.FormatClock(snapshot.RemainingSeconds) + " left"
	prompt.timerLabel.Refresh()

	if !prompt.visible {
		prompt.window.CenterOnScreen()
	}
	prompt.visible = true
	prompt.window.Show()
	prompt.window.RequestFocus()
}

// Hide closes the prompt. Must run on the fyne thread.
func (prompt *Window) Hide() {
	prompt.visible = false
	prompt.window.Hide()
}

// Visible reports whether the prompt is on screen.
func (prompt *Window) Visible() bool {
	return prompt.visible
}

func (prompt *Window) answer(action timekeeper.PromptAction) {
	prompt.Hide()
	if prompt.onAction != nil {
		prompt.onAction(action)
	}
}
