package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pomoplayer/internal/core/model"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkSeconds            int    `yaml:"work_seconds"`
	ShortBreakSeconds      int    `yaml:"short_break_seconds"`
	LongBreakSeconds       int    `yaml:"long_break_seconds"`
	SessionsUntilLongBreak int    `yaml:"sessions_until_long_break"`
	PausePromptEnabled     *bool  `yaml:"pause_prompt_enabled"`
	PausePromptDelay       int    `yaml:"pause_prompt_delay_minutes"`
	KeepRunning            bool   `yaml:"keep_running"`
	SoundsEnabled          *bool  `yaml:"sounds_enabled"`
	SessionEndSound        string `yaml:"session_end_sound"`
	PausePromptSound       string `yaml:"pause_prompt_sound"`
	Theme                  string `yaml:"theme"`
	MediaVisible           *bool  `yaml:"media_visible"`
	MediaURL               string `yaml:"media_url"`
}

// YAMLStore keeps user settings in a YAML file.
type YAMLStore struct {
	path string
}

// NewYAMLStore stores settings under the user config directory for appName.
func NewYAMLStore(appName string) (*YAMLStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	return NewYAMLStoreAt(filepath.Join(configDir, appName, settingsFileName)), nil
}

// NewYAMLStoreAt stores settings at an explicit path.
func NewYAMLStoreAt(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// Path returns the settings file location.
func (store *YAMLStore) Path() string {
	return store.path
}

// Load reads user settings from YAML.
// If the file does not exist, default settings are returned. Fields that are
// missing or out of range keep their default values.
func (store *YAMLStore) Load() (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// Save writes user settings to YAML.
func (store *YAMLStore) Save(settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		WorkSeconds:            settings.Durations.Work,
		ShortBreakSeconds:      settings.Durations.ShortBreak,
		LongBreakSeconds:       settings.Durations.LongBreak,
		SessionsUntilLongBreak: settings.Cycle.SessionsUntilLongBreak,
		PausePromptEnabled:     boolPtr(settings.PausePrompt.Enabled),
		PausePromptDelay:       settings.PausePrompt.DelayMinutes,
		KeepRunning:            settings.KeepRunning,
		SoundsEnabled:          boolPtr(settings.SoundsEnabled),
		SessionEndSound:        settings.SessionEndSound,
		PausePromptSound:       settings.PausePromptSound,
		Theme:                  settings.Theme,
		MediaVisible:           boolPtr(settings.MediaVisible),
		MediaURL:               settings.MediaURL,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(store.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if model.WorkMinutesRange.ContainsSeconds(fileData.WorkSeconds) {
		settings.Durations.Work = fileData.WorkSeconds
	}
	if model.ShortBreakMinutesRange.ContainsSeconds(fileData.ShortBreakSeconds) {
		settings.Durations.ShortBreak = fileData.ShortBreakSeconds
	}
	if model.LongBreakMinutesRange.ContainsSeconds(fileData.LongBreakSeconds) {
		settings.Durations.LongBreak = fileData.LongBreakSeconds
	}
	if model.SessionsRange.Contains(fileData.SessionsUntilLongBreak) {
		settings.Cycle.SessionsUntilLongBreak = fileData.SessionsUntilLongBreak
	}
	if model.PromptDelayRange.Contains(fileData.PausePromptDelay) {
		settings.PausePrompt.DelayMinutes = fileData.PausePromptDelay
	}
	if fileData.PausePromptEnabled != nil {
		settings.PausePrompt.Enabled = *fileData.PausePromptEnabled
	}
	if fileData.SoundsEnabled != nil {
		settings.SoundsEnabled = *fileData.SoundsEnabled
	}
	if fileData.MediaVisible != nil {
		settings.MediaVisible = *fileData.MediaVisible
	}
	if fileData.SessionEndSound != "" {
		settings.SessionEndSound = fileData.SessionEndSound
	}
	if fileData.PausePromptSound != "" {
		settings.PausePromptSound = fileData.PausePromptSound
	}
	if fileData.Theme != "" {
		settings.Theme = fileData.Theme
	}
	if fileData.MediaURL != "" {
		settings.MediaURL = fileData.MediaURL
	}

	settings.KeepRunning = fileData.KeepRunning
}

func boolPtr(value bool) *bool {
	return &value
}
