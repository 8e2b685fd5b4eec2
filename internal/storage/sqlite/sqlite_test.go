package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"pomoplayer/internal/core/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "test.db"), logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for i := 0; i < 2; i++ {
		db, err := Open(context.Background(), path, logger)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		var applied int
		if err := db.SqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
			t.Fatalf("count migrations: %v", err)
		}
		if applied != 1 {
			t.Fatalf("expected 1 applied migration, got %d", applied)
		}
		db.Close()
	}
}

func TestSettingsStoreDefaultsWhenEmpty(t *testing.T) {
	store := NewSettingsStore(openTestDB(t))

	settings, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings != model.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", settings)
	}
}

func TestSettingsStoreSaveLoadIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	store := NewSettingsStore(db)

	settings := model.DefaultSettings()
	settings.Durations.LongBreak = 20 * 60
	settings.KeepRunning = true
	settings.MediaURL = "https://example.com/stream"

	if err := store.Save(settings); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != settings {
		t.Fatalf("loaded %+v, want %+v", loaded, settings)
	}

	var before string
	if err := db.SqlDB.QueryRow("SELECT payload FROM settings WHERE id = 1").Scan(&before); err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if err := store.Save(loaded); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	var after string
	if err := db.SqlDB.QueryRow("SELECT payload FROM settings WHERE id = 1").Scan(&after); err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if before != after {
		t.Fatalf("payload changed:\n%s\n%s", before, after)
	}
}

func TestSettingsStoreMissingKeysKeepDefaults(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.SqlDB.Exec(
		"INSERT INTO settings (id, payload, updated_at) VALUES (1, ?, ?)",
		`{"keep_running": true}`, time.Now().UTC()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	settings, err := NewSettingsStore(db).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := model.DefaultSettings()
	want.KeepRunning = true
	if settings != want {
		t.Fatalf("got %+v, want %+v", settings, want)
	}
}

func TestSessionLogSummary(t *testing.T) {
	ctx := context.Background()
	log := NewSessionLog(openTestDB(t))

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	records := []model.SessionRecord{
		{ID: "a", SessionType: model.SessionWork, PlannedSeconds: 1500, CompletedAt: now.AddDate(0, 0, -10)},
		{ID: "b", SessionType: model.SessionWork, PlannedSeconds: 1500, CompletedAt: now.Add(-time.Minute)},
		{ID: "c", SessionType: model.SessionShortBreak, PlannedSeconds: 300, CompletedAt: now.Add(-30 * time.Second)},
		{ID: "d", SessionType: model.SessionWork, PlannedSeconds: 1500, Skipped: true, CompletedAt: now},
	}
	for _, record := range records {
		if err := log.Append(ctx, record); err != nil {
			t.Fatalf("Append %s: %v", record.ID, err)
		}
	}

	recent, err := log.Since(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("Since: %v", err)
	}
	if len(recent) != 3 || recent[0].ID != "b" || !recent[2].Skipped {
		t.Fatalf("unexpected records %+v", recent)
	}

	summary, err := log.Summary(ctx, 7, now)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summary) != 1 {
		t.Fatalf("expected a single day, got %+v", summary)
	}
	today := summary[0]
	if today.Day != model.DayKey(now) || today.WorkSessions != 1 || today.ShortBreaks != 1 || today.Skipped != 1 {
		t.Fatalf("unexpected summary %+v", today)
	}
	if today.FocusSeconds != 1500 {
		t.Fatalf("expected 1500 focus seconds, got %d", today.FocusSeconds)
	}
}
