package model

import (
	"errors"
	"testing"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings rejected: %v", err)
	}
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		field  string
	}{
		{"work too long", func(s *Settings) { s.Durations.Work = 200 * 60 }, FieldWork},
		{"work zero", func(s *Settings) { s.Durations.Work = 0 }, FieldWork},
		{"short break too long", func(s *Settings) { s.Durations.ShortBreak = 31 * 60 }, FieldShortBreak},
		{"long break too long", func(s *Settings) { s.Durations.LongBreak = 61 * 60 }, FieldLongBreak},
		{"long break too short", func(s *Settings) { s.Durations.LongBreak = 59 }, FieldLongBreak},
		{"no sessions", func(s *Settings) { s.Cycle.SessionsUntilLongBreak = 0 }, FieldSessionsUntilLongBreak},
		{"too many sessions", func(s *Settings) { s.Cycle.SessionsUntilLongBreak = 11 }, FieldSessionsUntilLongBreak},
		{"delay too long", func(s *Settings) { s.PausePrompt.DelayMinutes = 11 }, FieldPausePromptDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.mutate(&settings)

			err := settings.Validate()
			if !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("Validate() = %v, want ErrInvalidSettings", err)
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("error %T is not *ValidationError", err)
			}
			if _, ok := validationErr.Field(tt.field); !ok {
				t.Errorf("missing field error for %s in %v", tt.field, validationErr.Fields)
			}
			if len(validationErr.Fields) != 1 {
				t.Errorf("got %d field errors, want 1", len(validationErr.Fields))
			}
		})
	}
}

func TestValidateBoundariesAccepted(t *testing.T) {
	settings := DefaultSettings()
	settings.Durations = Durations{Work: 180 * 60, ShortBreak: 60, LongBreak: 60 * 60}
	settings.Cycle.SessionsUntilLongBreak = 10
	settings.PausePrompt.DelayMinutes = 1
	if err := settings.Validate(); err != nil {
		t.Fatalf("boundary values rejected: %v", err)
	}
}

func TestSettingsFormApply(t *testing.T) {
	base := DefaultSettings()
	form := SettingsForm{
		WorkMinutes:            "50",
		ShortBreakMinutes:      " 10 ",
		SessionsUntilLongBreak: "2",
	}

	settings, err := form.Apply(base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if settings.Durations.Work != 3000 {
		t.Errorf("work = %d, want 3000", settings.Durations.Work)
	}
	if settings.Durations.ShortBreak != 600 {
		t.Errorf("short break = %d, want 600", settings.Durations.ShortBreak)
	}
	if settings.Durations.LongBreak != base.Durations.LongBreak {
		t.Errorf("empty long break field changed value to %d", settings.Durations.LongBreak)
	}
	if settings.Cycle.SessionsUntilLongBreak != 2 {
		t.Errorf("sessions = %d, want 2", settings.Cycle.SessionsUntilLongBreak)
	}
}

func TestSettingsFormRejectsAtomically(t *testing.T) {
	base := DefaultSettings()
	form := SettingsForm{
		WorkMinutes:        "45",
		LongBreakMinutes:   "soon",
		PromptDelayMinutes: "3",
	}

	settings, err := form.Apply(base)
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("Apply() error = %v, want ErrInvalidSettings", err)
	}
	var validationErr *ValidationError
	errors.As(err, &validationErr)
	if message, ok := validationErr.Field(FieldLongBreak); !ok || message != "must be a whole number" {
		t.Errorf("long break message = %q, %v", message, ok)
	}
	if settings != base {
		t.Errorf("Apply returned modified settings on error: %+v", settings)
	}
}

func TestSettingsFormRejectsMinutesBeforeScaling(t *testing.T) {
	tests := []struct {
		name  string
		form  SettingsForm
		field string
	}{
		{"work wraps to valid seconds", SettingsForm{WorkMinutes: "4611686018427387929"}, FieldWork},
		{"short break wraps", SettingsForm{ShortBreakMinutes: "3074457345618258607"}, FieldShortBreak},
		{"long break wraps", SettingsForm{LongBreakMinutes: "4611686018427387929"}, FieldLongBreak},
		{"work just over", SettingsForm{WorkMinutes: "181"}, FieldWork},
		{"negative long break", SettingsForm{LongBreakMinutes: "-5"}, FieldLongBreak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := DefaultSettings()
			settings, err := tt.form.Apply(base)
			if !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("Apply() error = %v, want ErrInvalidSettings", err)
			}
			var validationErr *ValidationError
			errors.As(err, &validationErr)
			if _, ok := validationErr.Field(tt.field); !ok {
				t.Errorf("missing field error for %s in %v", tt.field, validationErr.Fields)
			}
			if settings != base {
				t.Errorf("Apply returned modified settings on error: %+v", settings)
			}
		})
	}
}

func TestFormKeepsUnchangedSeconds(t *testing.T) {
	base := DefaultSettings()
	base.Durations.Work = 1530
	base.Durations.LongBreak = 905

	settings, err := FormFromSettings(base).Apply(base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if settings.Durations.Work != 1530 || settings.Durations.LongBreak != 905 {
		t.Errorf("untouched fields rewritten: %+v", settings.Durations)
	}

	form := FormFromSettings(base)
	form.ShortBreakMinutes = "10"
	settings, err = form.Apply(base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if settings.Durations.Work != 1530 {
		t.Errorf("work = %d, want 1530", settings.Durations.Work)
	}
	if settings.Durations.ShortBreak != 600 {
		t.Errorf("short break = %d, want 600", settings.Durations.ShortBreak)
	}
}

func TestFormFromSettingsRoundTrip(t *testing.T) {
	base := DefaultSettings()
	settings, err := FormFromSettings(base).Apply(base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if settings != base {
		t.Errorf("round trip changed settings: %+v", settings)
	}
}

func TestParseSessionType(t *testing.T) {
	tests := map[string]SessionType{
		"work":        SessionWork,
		"Focus":       SessionWork,
		"short_break": SessionShortBreak,
		"short-break": SessionShortBreak,
		"long":        SessionLongBreak,
	}
	for input, want := range tests {
		got, err := ParseSessionType(input)
		if err != nil || got != want {
			t.Errorf("ParseSessionType(%q) = %q, %v; want %q", input, got, err, want)
		}
	}

	if _, err := ParseSessionType("nap"); !errors.Is(err, ErrUnknownSessionType) {
		t.Errorf("ParseSessionType(nap) error = %v", err)
	}
}
