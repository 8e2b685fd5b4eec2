package model

import (
	"strconv"
	"strings"
)

// SettingsForm carries the numeric settings as raw text, the way a form or
// command line delivers them. Durations and the prompt delay are in minutes.
// Empty fields keep the value from the base settings.
type SettingsForm struct {
	WorkMinutes            string
	ShortBreakMinutes      string
	LongBreakMinutes       string
	SessionsUntilLongBreak string
	PromptDelayMinutes     string
}

// FormFromSettings renders settings into form text.
func FormFromSettings(settings Settings) SettingsForm {
	return SettingsForm{
		WorkMinutes:            strconv.Itoa(settings.Durations.Work / 60),
		ShortBreakMinutes:      strconv.Itoa(settings.Durations.ShortBreak / 60),
		LongBreakMinutes:       strconv.Itoa(settings.Durations.LongBreak / 60),
		SessionsUntilLongBreak: strconv.Itoa(settings.Cycle.SessionsUntilLongBreak),
		PromptDelayMinutes:     strconv.Itoa(settings.PausePrompt.DelayMinutes),
	}
}

// Apply parses the form on top of base and validates the result. Nothing is
// returned but the error when any field is non-numeric or out of range.
// Fields whose text still matches FormFromSettings(base) keep the base value,
// so durations that are not whole minutes survive an unrelated edit.
func (form SettingsForm) Apply(base Settings) (Settings, error) {
	result := &ValidationError{}
	settings := base
	rendered := FormFromSettings(base)

	if minutes, ok := parseMinutes(result, FieldWork, form.WorkMinutes, rendered.WorkMinutes, WorkMinutesRange); ok {
		settings.Durations.Work = minutes * 60
	}
	if minutes, ok := parseMinutes(result, FieldShortBreak, form.ShortBreakMinutes, rendered.ShortBreakMinutes, ShortBreakMinutesRange); ok {
		settings.Durations.ShortBreak = minutes * 60
	}
	if minutes, ok := parseMinutes(result, FieldLongBreak, form.LongBreakMinutes, rendered.LongBreakMinutes, LongBreakMinutesRange); ok {
		settings.Durations.LongBreak = minutes * 60
	}
	if count, ok := parseField(result, FieldSessionsUntilLongBreak, form.SessionsUntilLongBreak, rendered.SessionsUntilLongBreak); ok {
		settings.Cycle.SessionsUntilLongBreak = count
	}
	if minutes, ok := parseField(result, FieldPausePromptDelay, form.PromptDelayMinutes, rendered.PromptDelayMinutes); ok {
		settings.PausePrompt.DelayMinutes = minutes
	}
	if err := result.orNil(); err != nil {
		return base, err
	}

	if err := settings.Validate(); err != nil {
		return base, err
	}
	return settings, nil
}

// parseMinutes checks the minute bounds before the caller scales to seconds.
func parseMinutes(result *ValidationError, field, text, current string, bounds Range) (int, bool) {
	minutes, ok := parseField(result, field, text, current)
	if !ok {
		return 0, false
	}
	if !bounds.Contains(minutes) {
		result.add(field, rangeMessage(bounds, " minutes"))
		return 0, false
	}
	return minutes, true
}

func parseField(result *ValidationError, field, text, current string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" || text == current {
		return 0, false
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		result.add(field, "must be a whole number")
		return 0, false
	}
	return value, true
}
