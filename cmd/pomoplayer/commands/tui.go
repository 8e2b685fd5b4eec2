package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pomoplayer/internal/tui"
)

// NewTUICommand creates the tui command
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the timer in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The alt screen owns stdout; keep logs quiet unless asked for.
	if !cmd.Flags().Changed("log-level") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	}

	sink := tui.NewSink()
	rt, err := newRuntime(cmd.Context(), cfg, sink)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			slog.Warn("shutdown", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	rt.startServices(gctx, g, cfg.APIEnabled)

	runErr := tui.Run(gctx, rt.keeper, sink)
	cancel()
	rt.keeper.Stop()
	return errors.Join(runErr, g.Wait())
}
