package timekeeper

import "pomoplayer/internal/core/model"

// Advance returns the session that follows current and the updated count of
// completed work sessions. A work session increments the count and becomes a
// long break when the count reaches the configured number; the count is
// carried into the long break and reset to zero when that break completes.
func Advance(current model.SessionType, completedWork int, config model.CycleConfig) (model.SessionType, int) {
	switch current {
	case model.SessionShortBreak:
		return model.SessionWork, completedWork
	case model.SessionLongBreak:
		return model.SessionWork, 0
	default:
		completedWork++
		if completedWork == config.SessionsUntilLongBreak {
			return model.SessionLongBreak, completedWork
		}
		return model.SessionShortBreak, completedWork
	}
}
