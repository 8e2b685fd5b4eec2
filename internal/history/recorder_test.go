package history

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"pomoplayer/internal/core/model"
	"pomoplayer/internal/core/timekeeper"
)

type memoryLog struct {
	mu      sync.Mutex
	records []model.SessionRecord
	err     error
}

func (log *memoryLog) Append(_ context.Context, record model.SessionRecord) error {
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.err != nil {
		return log.err
	}
	log.records = append(log.records, record)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecorderStoresCompletions(t *testing.T) {
	log := &memoryLog{}
	recorder := NewRecorder(log, discardLogger())

	at := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	events := make(chan timekeeper.Event, 4)
	events <- timekeeper.Event{Type: timekeeper.EventTick}
	events <- timekeeper.Event{
		Type:      timekeeper.EventSessionComplete,
		Completed: model.SessionWork,
		Planned:   1500,
		At:        at,
	}
	events <- timekeeper.Event{
		Type:      timekeeper.EventSessionComplete,
		Completed: model.SessionShortBreak,
		Planned:   300,
		Skipped:   true,
		At:        at.Add(time.Minute),
	}
	close(events)

	if err := recorder.Run(context.Background(), events); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(log.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(log.records))
	}
	first := log.records[0]
	if first.SessionType != model.SessionWork || first.PlannedSeconds != 1500 || first.Skipped || !first.CompletedAt.Equal(at) {
		t.Fatalf("unexpected record %+v", first)
	}
	if _, err := uuid.Parse(first.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", first.ID)
	}
	if first.ID == log.records[1].ID {
		t.Fatal("expected distinct ids")
	}
	if !log.records[1].Skipped {
		t.Fatal("expected skipped flag to be kept")
	}
}

func TestRecorderSurvivesStorageErrors(t *testing.T) {
	log := &memoryLog{err: errors.New("disk full")}
	recorder := NewRecorder(log, discardLogger())

	events := make(chan timekeeper.Event, 1)
	events <- timekeeper.Event{Type: timekeeper.EventSessionComplete, Completed: model.SessionWork}
	close(events)

	if err := recorder.Run(context.Background(), events); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRecorderStopsOnCancel(t *testing.T) {
	recorder := NewRecorder(&memoryLog{}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := recorder.Run(ctx, make(chan timekeeper.Event))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
