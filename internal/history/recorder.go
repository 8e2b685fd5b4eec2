// Package history records finished sessions from the engine's event stream.
package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pomoplayer/internal/core/model"
	"pomoplayer/internal/core/timekeeper"
)

// Log stores session records.
type Log interface {
	Append(ctx context.Context, record model.SessionRecord) error
}

// Recorder turns session completion events into history records.
type Recorder struct {
	log    Log
	logger *slog.Logger
}

// NewRecorder creates a Recorder writing to log.
func NewRecorder(log Log, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{log: log, logger: logger}
}

// Run consumes events until the channel is closed or ctx is done.
// Storage failures are logged and do not stop the recorder.
func (recorder *Recorder) Run(ctx context.Context, events <-chan timekeeper.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			recorder.handle(ctx, event)
		}
	}
}

func (recorder *Recorder) handle(ctx context.Context, event timekeeper.Event) {
	if event.Type != timekeeper.EventSessionComplete {
		return
	}
	completedAt := event.At
	if completedAt.IsZero() {
		completedAt = time.Now()
	}
	record := model.SessionRecord{
		ID:             uuid.NewString(),
		SessionType:    event.Completed,
		PlannedSeconds: event.Planned,
		Skipped:        event.Skipped,
		CompletedAt:    completedAt,
	}
	if err := recorder.log.Append(ctx, record); err != nil {
		recorder.logger.Warn("record session", "session_type", record.SessionType, "error", err)
		return
	}
	recorder.logger.Debug("session recorded", "id", record.ID, "session_type", record.SessionType, "skipped", record.Skipped)
}
