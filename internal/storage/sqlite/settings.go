package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pomoplayer/internal/core/model"
)

// SettingsStore persists user settings as a single JSON row.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore creates a SettingsStore on db.
func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db.SqlDB}
}

// Load returns the stored settings. Missing rows yield defaults; keys absent
// from the stored document keep their default values.
func (store *SettingsStore) Load() (model.Settings, error) {
	settings := model.DefaultSettings()

	var payload string
	err := store.db.QueryRowContext(context.Background(),
		"SELECT payload FROM settings WHERE id = 1").Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &settings); err != nil {
		return model.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// Save replaces the stored settings.
func (store *SettingsStore) Save(settings model.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = store.db.ExecContext(context.Background(),
		`INSERT INTO settings (id, payload, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
