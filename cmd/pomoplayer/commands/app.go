package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"pomoplayer/internal/core/model"
	"pomoplayer/internal/core/timekeeper"
	"pomoplayer/internal/history"
	"pomoplayer/internal/httpserver"
	"pomoplayer/internal/notify"
	"pomoplayer/internal/platform"
	"pomoplayer/internal/playback"
	"pomoplayer/internal/storage"
	"pomoplayer/internal/storage/sqlite"
)

// appRuntime holds the engine and everything wired around it.
type appRuntime struct {
	cfg      appConfig
	logger   *slog.Logger
	keeper   *timekeeper.TimeKeeper
	sessions *sqlite.SessionLog
	closers  []func() error
}

// openStore returns the configured settings store. db is opened on demand
// and must be closed by the caller when non-nil.
func openStore(ctx context.Context, cfg appConfig, logger *slog.Logger) (timekeeper.ConfigStore, *sqlite.DB, error) {
	var db *sqlite.DB
	if cfg.needsDatabase() {
		path := cfg.DBPath
		if path == "" {
			defaultPath, err := sqlite.DefaultPath(appName)
			if err != nil {
				return nil, nil, err
			}
			path = defaultPath
		}
		opened, err := sqlite.Open(ctx, path, logger)
		if err != nil {
			return nil, nil, err
		}
		db = opened
	}

	if cfg.Store == storeSQLite {
		return sqlite.NewSettingsStore(db), db, nil
	}
	if cfg.SettingsPath != "" {
		return storage.NewYAMLStoreAt(cfg.SettingsPath), db, nil
	}
	store, err := storage.NewYAMLStore(appName)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, err
	}
	return store, db, nil
}

func openPlayback(cfg appConfig, logger *slog.Logger) (timekeeper.PlaybackSynchronizer, func() error) {
	if cfg.MPRISPlayer == playerOff {
		return playback.NewDetached(), nil
	}
	player, err := playback.NewMPRIS(cfg.MPRISPlayer, logger)
	if err != nil {
		logger.Info("media player control unavailable", "error", err)
		return playback.NewDetached(), nil
	}
	return player, player.Close
}

// newRuntime builds the engine. front is the notification sink of the
// active front-end and may be nil.
func newRuntime(ctx context.Context, cfg appConfig, front timekeeper.NotificationSink) (*appRuntime, error) {
	logger := slog.Default()
	rt := &appRuntime{cfg: cfg, logger: logger}

	store, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}
	if db != nil {
		rt.closers = append(rt.closers, db.Close)
		if cfg.HistoryEnabled {
			rt.sessions = sqlite.NewSessionLog(db)
		}
	}

	player, closePlayer := openPlayback(cfg, logger)
	if closePlayer != nil {
		rt.closers = append(rt.closers, closePlayer)
	}

	soundsDir := cfg.SoundsDir
	if soundsDir == "" {
		if soundsDir, err = notify.DefaultSoundsDir(appName); err != nil {
			logger.Warn("sounds directory unavailable", "error", err)
		}
	}
	// rt.keeper is set before any sound can play.
	sounds := notify.NewSoundSink(platform.NewSoundPlayer(), soundsDir, func() model.Settings {
		if rt.keeper == nil {
			return model.DefaultSettings()
		}
		return rt.keeper.Settings()
	})

	sinks := notify.Fanout{sounds, notify.NewLogSink(logger)}
	if front != nil {
		sinks = append(sinks, front)
	}

	rt.keeper = timekeeper.New(timekeeper.Collaborators{
		Store:    store,
		Playback: player,
		Sink:     sinks,
	}, timekeeper.Config{
		AppName: appName,
		Logger:  logger,
	})
	return rt, nil
}

// startServices runs the history recorder and, when enabled, the HTTP API
// in g until ctx is done or the engine stops.
func (rt *appRuntime) startServices(ctx context.Context, g *errgroup.Group, apiEnabled bool) {
	if rt.sessions != nil {
		recorder := history.NewRecorder(rt.sessions, rt.logger)
		events := rt.keeper.Subscribe(64)
		g.Go(func() error {
			err := recorder.Run(ctx, events)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if apiEnabled {
		var stats httpserver.Stats
		if rt.sessions != nil {
			stats = rt.sessions
		}
		server := httpserver.NewServer(rt.cfg.APIAddr, rt.keeper, stats, rt.logger)
		g.Go(func() error {
			return server.Run(ctx)
		})
	}
}

// Close stops the engine and releases collaborators in reverse order.
func (rt *appRuntime) Close() error {
	rt.keeper.Stop()
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	return errors.Join(errs...)
}
