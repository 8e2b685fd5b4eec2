package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSessionType indicates a session type outside work/short_break/long_break.
var ErrUnknownSessionType = errors.New("unknown session type")

// SessionType identifies the kind of interval being counted down.
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

// SessionTypes lists every session type in cycle order.
var SessionTypes = []SessionType{SessionWork, SessionShortBreak, SessionLongBreak}

// ParseSessionType accepts the canonical names plus a few common aliases.
func ParseSessionType(value string) (SessionType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "work", "focus", "pomodoro":
		return SessionWork, nil
	case "short_break", "short-break", "shortbreak", "short":
		return SessionShortBreak, nil
	case "long_break", "long-break", "longbreak", "long":
		return SessionLongBreak, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSessionType, value)
}

// Valid reports whether the session type is one of the known values.
func (sessionType SessionType) Valid() bool {
	switch sessionType {
	case SessionWork, SessionShortBreak, SessionLongBreak:
		return true
	}
	return false
}

// IsBreak reports whether the session is a short or long break.
func (sessionType SessionType) IsBreak() bool {
	return sessionType == SessionShortBreak || sessionType == SessionLongBreak
}

// Label returns the human readable name.
func (sessionType SessionType) Label() string {
	switch sessionType {
	case SessionShortBreak:
		return "Short Break"
	case SessionLongBreak:
		return "Long Break"
	default:
		return "Focus"
	}
}
