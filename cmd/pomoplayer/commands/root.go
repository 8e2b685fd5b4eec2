// Package commands implements the pomoplayer command line.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pomoplayer/internal/core/timekeeper"
)

const appName = timekeeper.DefaultAppName

var (
	configPath string
	logLevel   string
	cfg        appConfig
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pomoplayer",
		Short:         "Pomodoro timer that pauses your music on breaks",
		Long:          `pomoplayer runs focus and break sessions from the system tray, the terminal or a local HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			setupLogging(cfg.LogLevel)
			if cfg.ConfigPath != "" {
				slog.Debug("config loaded", "path", cfg.ConfigPath)
			}
			return nil
		},
		RunE: runTray,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/PomoPlayer/config.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(NewTrayCommand())
	rootCmd.AddCommand(NewTUICommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewSettingsCommand())
	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setupLogging(value string) {
	level, err := parseLogLevel(value)
	if err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
