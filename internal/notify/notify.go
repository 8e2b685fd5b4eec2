// Package notify provides NotificationSink implementations shared by the
// front-ends.
package notify

import (
	"errors"
	"log/slog"

	"pomoplayer/internal/core/timekeeper"
)

// Fanout forwards every notification to each sink in order.
type Fanout []timekeeper.NotificationSink

// PlaySound implements timekeeper.NotificationSink.
func (sinks Fanout) PlaySound(kind timekeeper.SoundKind) error {
	var errs []error
	for _, sink := range sinks {
		errs = append(errs, sink.PlaySound(kind))
	}
	return errors.Join(errs...)
}

// ShowToast implements timekeeper.NotificationSink.
func (sinks Fanout) ShowToast(message string) error {
	var errs []error
	for _, sink := range sinks {
		errs = append(errs, sink.ShowToast(message))
	}
	return errors.Join(errs...)
}

// SetTitle implements timekeeper.NotificationSink.
func (sinks Fanout) SetTitle(text string) error {
	var errs []error
	for _, sink := range sinks {
		errs = append(errs, sink.SetTitle(text))
	}
	return errors.Join(errs...)
}

// LogSink writes notifications to a structured logger. Used headless and
// as a trace alongside the real sinks.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger means slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (sink *LogSink) PlaySound(kind timekeeper.SoundKind) error {
	sink.logger.Info("play sound", "kind", kind)
	return nil
}

func (sink *LogSink) ShowToast(message string) error {
	sink.logger.Info("notification", "message", message)
	return nil
}

func (sink *LogSink) SetTitle(text string) error {
	sink.logger.Debug("title", "text", text)
	return nil
}
