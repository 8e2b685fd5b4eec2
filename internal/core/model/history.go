package model

import (
	"sort"
	"time"
)

// SessionRecord is one finished session in the history log.
type SessionRecord struct {
	ID             string      `json:"id"`
	SessionType    SessionType `json:"session_type"`
	PlannedSeconds int         `json:"planned_seconds"`
	Skipped        bool        `json:"skipped"`
	CompletedAt    time.Time   `json:"completed_at"`
}

// DaySummary aggregates the history of one local calendar day.
type DaySummary struct {
	Day          string `json:"day"`
	WorkSessions int    `json:"work_sessions"`
	FocusSeconds int    `json:"focus_seconds"`
	ShortBreaks  int    `json:"short_breaks"`
	LongBreaks   int    `json:"long_breaks"`
	Skipped      int    `json:"skipped"`
}

// DayKey formats the local calendar day of t as used by DaySummary.
func DayKey(t time.Time) string {
	return t.Local().Format(time.DateOnly)
}

// Summarize groups records by local day, oldest day first. Skipped work
// sessions count as skipped and add no focus time.
func Summarize(records []SessionRecord) []DaySummary {
	index := make(map[string]int)
	var summaries []DaySummary
	for _, record := range records {
		key := DayKey(record.CompletedAt)
		position, ok := index[key]
		if !ok {
			position = len(summaries)
			index[key] = position
			summaries = append(summaries, DaySummary{Day: key})
		}
		summary := &summaries[position]
		if record.Skipped {
			summary.Skipped++
			continue
		}
		switch record.SessionType {
		case SessionWork:
			summary.WorkSessions++
			summary.FocusSeconds += record.PlannedSeconds
		case SessionShortBreak:
			summary.ShortBreaks++
		case SessionLongBreak:
			summary.LongBreaks++
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Day < summaries[j].Day
	})
	return summaries
}
