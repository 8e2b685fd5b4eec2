package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSettings is matched by every *ValidationError.
var ErrInvalidSettings = errors.New("invalid settings")

// Field names used in validation errors and form parsing.
const (
	FieldWork                   = "work"
	FieldShortBreak             = "short_break"
	FieldLongBreak              = "long_break"
	FieldSessionsUntilLongBreak = "sessions_until_long_break"
	FieldPausePromptDelay       = "pause_prompt_delay"
)

// Range is an inclusive integer bound.
type Range struct {
	Min int
	Max int
}

// Contains reports whether value lies within the range.
func (bounds Range) Contains(value int) bool {
	return value >= bounds.Min && value <= bounds.Max
}

// ContainsSeconds reports whether seconds lies within a range given in minutes.
func (bounds Range) ContainsSeconds(seconds int) bool {
	return seconds >= bounds.Min*60 && seconds <= bounds.Max*60
}

// Accepted ranges. Durations are in minutes here and in seconds on Settings.
var (
	WorkMinutesRange       = Range{Min: 1, Max: 180}
	ShortBreakMinutesRange = Range{Min: 1, Max: 30}
	LongBreakMinutesRange  = Range{Min: 1, Max: 60}
	SessionsRange          = Range{Min: 1, Max: 10}
	PromptDelayRange       = Range{Min: 1, Max: 10}
)

// FieldError describes a single rejected setting.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (fieldErr FieldError) Error() string {
	return fieldErr.Field + ": " + fieldErr.Message
}

// ValidationError collects every rejected field of a settings update.
type ValidationError struct {
	Fields []FieldError
}

func (validationErr *ValidationError) Error() string {
	parts := make([]string, 0, len(validationErr.Fields))
	for _, field := range validationErr.Fields {
		parts = append(parts, field.Error())
	}
	return "invalid settings: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalidSettings) true.
func (validationErr *ValidationError) Is(target error) bool {
	return target == ErrInvalidSettings
}

// Field returns the message recorded for a field, if any.
func (validationErr *ValidationError) Field(name string) (string, bool) {
	for _, field := range validationErr.Fields {
		if field.Field == name {
			return field.Message, true
		}
	}
	return "", false
}

func (validationErr *ValidationError) add(field, message string) {
	validationErr.Fields = append(validationErr.Fields, FieldError{Field: field, Message: message})
}

func (validationErr *ValidationError) orNil() error {
	if len(validationErr.Fields) == 0 {
		return nil
	}
	return validationErr
}

// Validate checks every numeric setting against its accepted range.
func (settings Settings) Validate() error {
	result := &ValidationError{}
	checkSeconds(result, FieldWork, settings.Durations.Work, WorkMinutesRange)
	checkSeconds(result, FieldShortBreak, settings.Durations.ShortBreak, ShortBreakMinutesRange)
	checkSeconds(result, FieldLongBreak, settings.Durations.LongBreak, LongBreakMinutesRange)
	if !SessionsRange.Contains(settings.Cycle.SessionsUntilLongBreak) {
		result.add(FieldSessionsUntilLongBreak, rangeMessage(SessionsRange, ""))
	}
	if !PromptDelayRange.Contains(settings.PausePrompt.DelayMinutes) {
		result.add(FieldPausePromptDelay, rangeMessage(PromptDelayRange, " minutes"))
	}
	return result.orNil()
}

func checkSeconds(result *ValidationError, field string, seconds int, minutes Range) {
	if !minutes.ContainsSeconds(seconds) {
		result.add(field, rangeMessage(minutes, " minutes"))
	}
}

func rangeMessage(bounds Range, unit string) string {
	return fmt.Sprintf("must be between %d and %d%s", bounds.Min, bounds.Max, unit)
}
