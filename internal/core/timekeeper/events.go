package timekeeper

import (
	"time"

	"pomoplayer/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventTick            EventType = "tick"
	EventStateChange     EventType = "state_change"
	EventSessionComplete EventType = "session_complete"
	EventPromptShown     EventType = "prompt_shown"
	EventPromptHidden    EventType = "prompt_hidden"
	EventSettingsChange  EventType = "settings_change"
	EventPlaybackChange  EventType = "playback_change"
)

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	SessionType            model.SessionType `json:"session_type"`
	RemainingSeconds       int               `json:"remaining_seconds"`
	DurationSeconds        int               `json:"duration_seconds"`
	Running                bool              `json:"running"`
	Started                bool              `json:"started"`
	CompletedWorkSessions  int               `json:"completed_work_sessions"`
	SessionsUntilLongBreak int               `json:"sessions_until_long_break"`
	PromptVisible          bool              `json:"prompt_visible"`
	PlaybackPlaying        bool              `json:"playback_playing"`
}

// Progress returns the elapsed fraction of the current session.
func (snapshot Snapshot) Progress() float64 {
	if snapshot.DurationSeconds <= 0 {
		return 0
	}
	progress := float64(snapshot.DurationSeconds-snapshot.RemainingSeconds) / float64(snapshot.DurationSeconds)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Event represents a TimeKeeper update for observers.
// Completed, Skipped and Message are set only on EventSessionComplete.
// Message is the toast text, empty for a skipped session.
type Event struct {
	Type      EventType
	Snapshot  Snapshot
	Completed model.SessionType
	Planned   int
	Skipped   bool
	Message   string
	At        time.Time
}

// SoundKind selects which sound a NotificationSink should play.
type SoundKind string

const (
	SoundSessionEnd  SoundKind = "session_end"
	SoundPausePrompt SoundKind = "pause_prompt"
)

// PromptAction is the user's answer to the pause prompt.
type PromptAction string

const (
	PromptContinue PromptAction = "continue"
	PromptReset    PromptAction = "reset"
	PromptRemind   PromptAction = "remind"
)
