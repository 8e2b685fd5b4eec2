package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pomoplayer/internal/platform"
	"pomoplayer/internal/ui/tray"
)

// NewTrayCommand creates the tray command
func NewTrayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tray",
		Short: "Run the desktop tray front-end (default)",
		Args:  cobra.NoArgs,
		RunE:  runTray,
	}
}

func runTray(cmd *cobra.Command, args []string) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		slog.Info("already running, asking the other instance to show itself")
		return platform.NotifyRunning(appName)
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	front := tray.NewDesktop(tray.Options{AppName: appName})
	rt, err := newRuntime(cmd.Context(), cfg, front.Sink())
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			slog.Warn("shutdown", "error", err)
		}
	}()

	guard.Serve(front.Show)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	rt.startServices(gctx, g, cfg.APIEnabled)

	runErr := front.Run(gctx, rt.keeper)
	cancel()
	rt.keeper.Stop()
	return errors.Join(runErr, g.Wait())
}
