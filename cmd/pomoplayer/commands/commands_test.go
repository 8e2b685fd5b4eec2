package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pomoplayer/internal/core/model"
)

func writeConfig(t *testing.T, settingsPath string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := "store: yaml\nsettings-path: " + settingsPath + "\nhistory-enabled: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeEmptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("# defaults only\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSettingsSetThenShow(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.yaml")
	configPath := writeConfig(t, settingsPath)

	if _, err := executeCommand(t, "--config", configPath, "settings", "set",
		"--work", "50", "--sessions", "3", "--keep-running", "--sounds=false"); err != nil {
		t.Fatalf("settings set: %v", err)
	}

	out, err := executeCommand(t, "--config", configPath, "settings", "show")
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	var shown model.Settings
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if shown.Durations.Work != 50*60 || shown.Cycle.SessionsUntilLongBreak != 3 {
		t.Fatalf("unexpected settings %+v", shown)
	}
	if !shown.KeepRunning || shown.SoundsEnabled {
		t.Fatalf("boolean flags not applied: %+v", shown)
	}
	if shown.Durations.ShortBreak != model.DefaultSettings().Durations.ShortBreak {
		t.Fatal("unset flags should keep stored values")
	}
}

func TestSettingsSetRejectsInvalidValues(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.yaml")
	configPath := writeConfig(t, settingsPath)

	_, err := executeCommand(t, "--config", configPath, "settings", "set", "--work", "0")
	if !errors.Is(err, model.ErrInvalidSettings) {
		t.Fatalf("expected invalid settings error, got %v", err)
	}
	if _, statErr := os.Stat(settingsPath); !os.IsNotExist(statErr) {
		t.Fatal("rejected settings must not be written")
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	configPath := writeEmptyConfig(t)
	t.Setenv("POMOPLAYER_API_ADDR", "127.0.0.1:9999")
	t.Setenv("POMOPLAYER_HISTORY_ENABLED", "false")

	root := NewRootCommand()
	loaded, err := loadConfig(root, configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.APIAddr != "127.0.0.1:9999" || loaded.HistoryEnabled {
		t.Fatalf("environment not applied: %+v", loaded)
	}
	if loaded.Store != storeYAML || loaded.needsDatabase() {
		t.Fatalf("unexpected store config: %+v", loaded)
	}
}

func TestLoadConfigRejectsUnknownStore(t *testing.T) {
	t.Setenv("POMOPLAYER_STORE", "postgres")
	_, err := loadConfig(NewRootCommand(), writeEmptyConfig(t))
	if err == nil || !strings.Contains(err.Error(), "invalid store") {
		t.Fatalf("expected invalid store error, got %v", err)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := loadConfig(NewRootCommand(), filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected read config error, got %v", err)
	}

	_, err = executeCommand(t, "--config", filepath.Join(t.TempDir(), "typo.yml"), "version")
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected version to fail on a missing config, got %v", err)
	}
}

func TestStatsRequiresHistory(t *testing.T) {
	configPath := writeConfig(t, filepath.Join(t.TempDir(), "settings.yaml"))
	_, err := executeCommand(t, "--config", configPath, "stats")
	if !errors.Is(err, errHistoryDisabled) {
		t.Fatalf("expected history disabled error, got %v", err)
	}
}

func TestRenderStats(t *testing.T) {
	if got := renderStats(nil); got != "No sessions recorded yet." {
		t.Fatalf("unexpected empty rendering %q", got)
	}
	out := renderStats([]model.DaySummary{
		{Day: "2026-10-18", WorkSessions: 2, FocusSeconds: 3000, ShortBreaks: 1},
		{Day: "2026-10-19", WorkSessions: 1, FocusSeconds: 1500, Skipped: 1},
	})
	for _, want := range []string{"2026-10-18", "2026-10-19", "50m0s", "Total focus: 1h15m0s over 3 sessions"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	configPath := writeConfig(t, filepath.Join(t.TempDir(), "settings.yaml"))
	out, err := executeCommand(t, "--config", configPath, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "Version:    dev") {
		t.Fatalf("unexpected output %q", out)
	}
}
