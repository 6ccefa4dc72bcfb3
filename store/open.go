package store

import (
	"context"
	"log/slog"

	"github.com/lifeinfocus/focus/internal/config"
	"github.com/lifeinfocus/focus/internal/pathutil"
)

// Open returns the task store selected by cfg.Backend. A remote store is
// wrapped in a Fallback over the local bolt file when cfg.Fallback is set.
func Open(
	ctx context.Context,
	cfg *config.StoreConfig,
	logger *slog.Logger,
) (TaskStore, error) {
	switch cfg.Backend {
	case config.BackendBolt, "":
		path := cfg.Path
		if path == "" {
			path = pathutil.DBFilePath()
		}

		s, err := NewBolt(path)
		if err != nil {
			return nil, errOpenStore.Fmt(config.BackendBolt).Wrap(err)
		}

		return s, nil
	case config.BackendSQLite:
		path := cfg.Path
		if path == "" {
			path = pathutil.SQLFilePath()
		}

		s, err := NewSQL(path)
		if err != nil {
			return nil, errOpenStore.Fmt(cfg.Backend).Wrap(err)
		}

		return s, nil
	case config.BackendPostgres:
		s, err := NewPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, errOpenStore.Fmt(cfg.Backend).Wrap(err)
		}

		return s, nil
	case config.BackendRemote:
		remote, err := NewRemote(cfg.URL, cfg.Token, cfg.Timeout)
		if err != nil {
			return nil, errOpenStore.Fmt(cfg.Backend).Wrap(err)
		}

		if !cfg.Fallback {
			return remote, nil
		}

		local, err := NewBolt(pathutil.DBFilePath())
		if err != nil {
			return nil, errOpenStore.Fmt(config.BackendBolt).Wrap(err)
		}

		return NewFallback(remote, local, logger), nil
	}

	return nil, errUnknownBackend.Fmt(cfg.Backend)
}
