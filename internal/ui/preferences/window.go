// Package preferences is the desktop settings form.
package preferences

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomoplayer/internal/core/model"
)

var themeOptions = []string{"dark", "light"}

// Window handles the preferences UI.
type Window struct {
	window      fyne.Window
	settings    model.Settings
	onSave      func(model.Settings) error
	entries     map[string]*widget.Entry
	errorLabels map[string]*widget.Label
	statusLabel *widget.Label
	keepRunning *widget.Check
	promptCheck *widget.Check
	sounds      *widget.Check
	media       *widget.Check
	theme       *widget.Select
	saveButton  *widget.Button
}

// New creates a preferences window. onSave receives the parsed settings; a
// returned *model.ValidationError is shown next to the offending fields and
// keeps the window open.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings) error) *Window {
	window := app.NewWindow("PomoPlayer Settings")

	prefs := &Window{
		window:      window,
		settings:    settings,
		onSave:      onSave,
		entries:     make(map[string]*widget.Entry),
		errorLabels: make(map[string]*widget.Label),
		statusLabel: widget.NewLabel(""),
		keepRunning: widget.NewCheck("Keep running between sessions", nil),
		promptCheck: widget.NewCheck("Remind me when a started session stays paused", nil),
		sounds:      widget.NewCheck("Play sounds", nil),
		media:       widget.NewCheck("Show music link", nil),
		theme:       widget.NewSelect(themeOptions, nil),
	}

	rows := []struct {
		field string
		label string
		unit  string
	}{
		{model.FieldWork, "Focus", "min"},
		{model.FieldShortBreak, "Short break", "min"},
		{model.FieldLongBreak, "Long break", "min"},
		{model.FieldSessionsUntilLongBreak, "Long break after", "sessions"},
		{model.FieldPausePromptDelay, "Remind after", "min"},
	}

	grid := container.New(layout.NewFormLayout())
	for _, row := range rows {
		entry := widget.NewEntry()
		errorLabel := widget.NewLabel("")
		errorLabel.Importance = widget.DangerImportance
		errorLabel.Hide()
		prefs.entries[row.field] = entry
		prefs.errorLabels[row.field] = errorLabel

		grid.Add(widget.NewLabel(row.label))
		grid.Add(container.NewVBox(
			container.NewBorder(nil, nil, nil, widget.NewLabel(row.unit), entry),
			errorLabel,
		))
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		grid,
		prefs.keepRunning,
		prefs.promptCheck,
		widget.NewLabelWithStyle("Appearance", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.sounds,
		prefs.media,
		container.NewHBox(widget.NewLabel("Theme"), prefs.theme),
		prefs.statusLabel,
	)

	prefs.saveButton = widget.NewButton("Save", prefs.handleSave)
	prefs.saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(prefs.saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.SetCloseIntercept(func() {
		window.Hide()
	})
	window.Resize(fyne.NewSize(440, 480))

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values and clears any shown errors.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	form := model.FormFromSettings(settings)
	prefs.entries[model.FieldWork].SetText(form.WorkMinutes)
	prefs.entries[model.FieldShortBreak].SetText(form.ShortBreakMinutes)
	prefs.entries[model.FieldLongBreak].SetText(form.LongBreakMinutes)
	prefs.entries[model.FieldSessionsUntilLongBreak].SetText(form.SessionsUntilLongBreak)
	prefs.entries[model.FieldPausePromptDelay].SetText(form.PromptDelayMinutes)
	prefs.keepRunning.SetChecked(settings.KeepRunning)
	prefs.promptCheck.SetChecked(settings.PausePrompt.Enabled)
	prefs.sounds.SetChecked(settings.SoundsEnabled)
	prefs.media.SetChecked(settings.MediaVisible)
	prefs.theme.SetSelected(settings.Theme)
	prefs.clearErrors()
}

func (prefs *Window) handleSave() {
	prefs.clearErrors()

	base := prefs.settings
	base.KeepRunning = prefs.keepRunning.Checked
	base.PausePrompt.Enabled = prefs.promptCheck.Checked
	base.SoundsEnabled = prefs.sounds.Checked
	base.MediaVisible = prefs.media.Checked
	if prefs.theme.Selected != "" {
		base.Theme = prefs.theme.Selected
	}

	form := model.SettingsForm{
		WorkMinutes:            prefs.entries[model.FieldWork].Text,
		ShortBreakMinutes:      prefs.entries[model.FieldShortBreak].Text,
		LongBreakMinutes:       prefs.entries[model.FieldLongBreak].Text,
		SessionsUntilLongBreak: prefs.entries[model.FieldSessionsUntilLongBreak].Text,
		PromptDelayMinutes:     prefs.entries[model.FieldPausePromptDelay].Text,
	}
	settings, err := form.Apply(base)
	if err == nil && prefs.onSave != nil {
		err = prefs.onSave(settings)
	}
	if err != nil {
		prefs.showError(err)
		return
	}

	prefs.settings = settings
	prefs.window.Hide()
}

func (prefs *Window) showError(err error) {
	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) {
		prefs.statusLabel.SetText(err.Error())
		return
	}
	for _, fieldErr := range validationErr.Fields {
		label, ok := prefs.errorLabels[fieldErr.Field]
		if !ok {
			continue
		}
		label.SetText(fieldErr.Message)
		label.Show()
	}
	prefs.statusLabel.SetText("Please fix the highlighted fields.")
}

func (prefs *Window) clearErrors() {
	for _, label := range prefs.errorLabels {
		label.SetText("")
		label.Hide()
	}
	prefs.statusLabel.SetText("")
}
