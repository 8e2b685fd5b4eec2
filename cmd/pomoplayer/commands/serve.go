package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run headless with the HTTP control API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.APIAddr = addr
			}
			return runServe(cmd)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides api-addr)")
	return cmd
}

func runServe(cmd *cobra.Command) error {
	rt, err := newRuntime(cmd.Context(), cfg, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			slog.Warn("shutdown", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(cmd.Context())
	rt.startServices(gctx, g, true)
	slog.Info("serving", "addr", cfg.APIAddr, "history", rt.sessions != nil)

	// Wait for cancellation (signal) or a failed service.
	g.Go(func() error {
		<-gctx.Done()
		rt.keeper.Stop()
		return nil
	})
	return g.Wait()
}
