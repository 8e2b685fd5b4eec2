package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"pomoplayer/internal/core/model"
)

// NewSettingsCommand creates the settings command
func NewSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
	}
	cmd.AddCommand(newSettingsShowCommand())
	cmd.AddCommand(newSettingsSetCommand())
	return cmd
}

func newSettingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, db, err := openStore(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}
			settings, err := store.Load()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			return writeSettings(cmd.OutOrStdout(), settings)
		},
	}
}

// settingsFlags are the editable settings. Numeric values go through
// model.SettingsForm, so they are minutes and validated together.
type settingsFlags struct {
	form        model.SettingsForm
	keepRunning bool
	prompt      bool
	sounds      bool
	media       bool
	theme       string
	mediaURL    string
}

func newSettingsSetCommand() *cobra.Command {
	var flags settingsFlags
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change stored settings",
		Long: `Change stored settings. Only the flags given are changed.
Durations and the prompt delay are in minutes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, db, err := openStore(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}
			current, err := store.Load()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			updated, err := flags.apply(cmd, current)
			if err != nil {
				return err
			}
			if err := store.Save(updated); err != nil {
				return fmt.Errorf("save settings: %w", err)
			}
			return writeSettings(cmd.OutOrStdout(), updated)
		},
	}

	cmd.Flags().StringVar(&flags.form.WorkMinutes, "work", "", "focus session length in minutes")
	cmd.Flags().StringVar(&flags.form.ShortBreakMinutes, "short-break", "", "short break length in minutes")
	cmd.Flags().StringVar(&flags.form.LongBreakMinutes, "long-break", "", "long break length in minutes")
	cmd.Flags().StringVar(&flags.form.SessionsUntilLongBreak, "sessions", "", "focus sessions before a long break")
	cmd.Flags().StringVar(&flags.form.PromptDelayMinutes, "prompt-delay", "", "minutes paused before the reminder")
	cmd.Flags().BoolVar(&flags.keepRunning, "keep-running", false, "start the next session automatically")
	cmd.Flags().BoolVar(&flags.prompt, "prompt", true, "remind when a started session stays paused")
	cmd.Flags().BoolVar(&flags.sounds, "sounds", true, "play sounds")
	cmd.Flags().BoolVar(&flags.media, "media", true, "show the music link")
	cmd.Flags().StringVar(&flags.theme, "theme", "", "theme name (dark, light)")
	cmd.Flags().StringVar(&flags.mediaURL, "media-url", "", "music link")
	return cmd
}

func (flags settingsFlags) apply(cmd *cobra.Command, base model.Settings) (model.Settings, error) {
	changed := cmd.Flags().Changed
	if changed("keep-running") {
		base.KeepRunning = flags.keepRunning
	}
	if changed("prompt") {
		base.PausePrompt.Enabled = flags.prompt
	}
	if changed("sounds") {
		base.SoundsEnabled = flags.sounds
	}
	if changed("media") {
		base.MediaVisible = flags.media
	}
	if flags.theme != "" {
		base.Theme = flags.theme
	}
	if flags.mediaURL != "" {
		base.MediaURL = flags.mediaURL
	}
	return flags.form.Apply(base)
}

func writeSettings(out io.Writer, settings model.Settings) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(settings)
}
