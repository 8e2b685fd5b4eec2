package model

import "time"

const (
	DefaultTheme            = "dark"
	DefaultMediaURL         = "https://www.youtube.com/watch?v=jfKfPfyJRdk"
	DefaultSessionEndSound  = "sessionEndDefault.mp3"
	DefaultPausePromptSound = "pausePromptDefault.mp3"
)

// Durations holds the length of each session type in seconds.
type Durations struct {
	Work       int `json:"work"`
	ShortBreak int `json:"short_break"`
	LongBreak  int `json:"long_break"`
}

// For returns the configured length of the given session type in seconds.
func (durations Durations) For(sessionType SessionType) int {
	switch sessionType {
	case SessionShortBreak:
		return durations.ShortBreak
	case SessionLongBreak:
		return durations.LongBreak
	default:
		return durations.Work
	}
}

// CycleConfig controls how often a long break replaces a short one.
type CycleConfig struct {
	SessionsUntilLongBreak int `json:"sessions_until_long_break"`
}

// PausePromptConfig controls the reminder shown when a started session stays paused.
type PausePromptConfig struct {
	Enabled      bool `json:"enabled"`
	DelayMinutes int  `json:"delay_minutes"`
}

// Delay returns the prompt delay as a duration.
func (config PausePromptConfig) Delay() time.Duration {
	return time.Duration(config.DelayMinutes) * time.Minute
}

// Settings is the full set of user preferences persisted between runs.
// Theme, MediaVisible and MediaURL are carried for front-ends; the engine ignores them.
type Settings struct {
	Durations   Durations         `json:"durations"`
	Cycle       CycleConfig       `json:"cycle"`
	PausePrompt PausePromptConfig `json:"pause_prompt"`
	KeepRunning bool              `json:"keep_running"`

	SoundsEnabled    bool   `json:"sounds_enabled"`
	SessionEndSound  string `json:"session_end_sound"`
	PausePromptSound string `json:"pause_prompt_sound"`

	Theme        string `json:"theme"`
	MediaVisible bool   `json:"media_visible"`
	MediaURL     string `json:"media_url"`
}

// DefaultSettings returns the settings used on first run or when loading fails.
func DefaultSettings() Settings {
	return Settings{
		Durations: Durations{
			Work:       25 * 60,
			ShortBreak: 5 * 60,
			LongBreak:  15 * 60,
		},
		Cycle: CycleConfig{SessionsUntilLongBreak: 4},
		PausePrompt: PausePromptConfig{
			Enabled:      true,
			DelayMinutes: 2,
		},
		KeepRunning:      false,
		SoundsEnabled:    true,
		SessionEndSound:  DefaultSessionEndSound,
		PausePromptSound: DefaultPausePromptSound,
		Theme:            DefaultTheme,
		MediaVisible:     true,
		MediaURL:         DefaultMediaURL,
	}
}
